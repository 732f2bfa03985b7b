// Copyright The tacanalyzer Authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cfg

import (
	"fmt"

	"golang.org/x/tools/container/intsets"
)

// Loop is the natural loop of a single back edge: the smallest node set
// containing the header and the back-edge source that is closed under
// predecessor traversal up to the header. Two back edges to the same header
// yield two distinct loops; callers that want merged loops union the bodies
// themselves.
type Loop struct {
	// Header is the loop header; it dominates every node of the body.
	Header *Node

	// Body is the loop body as a set of node ids. The header is in the body.
	Body intsets.Sparse
}

// Contains reports whether n belongs to the loop body.
func (l *Loop) Contains(n *Node) bool {
	return l.Body.Has(int(n.ID))
}

// Len returns the number of nodes in the loop body.
func (l *Loop) Len() int {
	return l.Body.Len()
}

func (l *Loop) String() string {
	return fmt.Sprintf("loop(header=%d, body=%s)", l.Header.ID, l.Body.String())
}

// BodyNodes resolves the loop body to nodes, in id order.
func (l *Loop) BodyNodes(g *Graph) []*Node {
	var nodes []*Node
	for _, id := range l.Body.AppendTo(nil) {
		nodes = append(nodes, g.Node(uint32(id)))
	}
	return nodes
}

// BackEdges returns every back edge of the graph: an edge (u, v) such that v
// dominates u. Self loops are back edges. Dominator analysis is triggered
// lazily if it has not run.
func (g *Graph) BackEdges() []Edge {
	g.ensureDominators()
	var back []Edge
	for _, e := range g.Edges() {
		if g.Dominates(e.To, e.From) {
			back = append(back, e)
		}
	}
	return back
}

// IdentifyLoops computes the natural loop of every back edge, stores the
// loops on the graph and returns them. Dominator analysis is triggered lazily
// if it has not run. Re-running the pass replaces the previous loops.
func (g *Graph) IdentifyLoops() []*Loop {
	g.Loops = nil
	for _, e := range g.BackEdges() {
		g.Loops = append(g.Loops, g.naturalLoop(e))
	}
	return g.Loops
}

// naturalLoop collects the body of the back edge e by walking predecessors
// from the source until the header stops the traversal. Predecessors
// unreachable from entry are skipped: the header does not dominate them.
func (g *Graph) naturalLoop(e Edge) *Loop {
	l := &Loop{Header: e.To}
	l.Body.Insert(int(e.To.ID))
	stack := []*Node{e.From}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if l.Body.Insert(int(n.ID)) {
			for _, p := range n.Preds {
				if p.ForwardIndex >= 0 {
					stack = append(stack, p)
				}
			}
		}
	}
	return l
}
