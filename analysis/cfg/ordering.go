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

import "github.com/taclab/tacanalyzer/internal/funcutil"

// ForwardOrder returns the reverse post-order of the nodes reachable from
// entry over the successor relation. The entry node sits at index 0 and every
// node's ForwardIndex is set to its position; nodes unreachable from entry
// are excluded and keep ForwardIndex -1. The order is computed once and
// cached.
func (g *Graph) ForwardOrder() []*Node {
	if g.forwardOrder == nil {
		for _, n := range g.nodes {
			n.ForwardIndex = -1
		}
		g.forwardOrder = reversePostorder(
			g.Entry,
			func(n *Node) []*Node { return n.Succs },
			func(n *Node, i int) { n.ForwardIndex = i },
		)
	}
	return g.forwardOrder
}

// BackwardOrder returns the reverse post-order of the nodes reachable from
// exit over the predecessor relation. The exit node sits at index 0 and every
// node's BackwardIndex is set to its position; nodes that cannot reach exit
// are excluded and keep BackwardIndex -1. The order is computed once and
// cached.
func (g *Graph) BackwardOrder() []*Node {
	if g.backwardOrder == nil {
		for _, n := range g.nodes {
			n.BackwardIndex = -1
		}
		g.backwardOrder = reversePostorder(
			g.Exit,
			func(n *Node) []*Node { return n.Preds },
			func(n *Node, i int) { n.BackwardIndex = i },
		)
	}
	return g.backwardOrder
}

// reversePostorder runs an iterative depth-first search from root with an
// explicit stack. A node is pushed once per discovery and finalised on its
// second visit, after all its descendants; the finalisation sequence is the
// post-order, which reversed gives the reverse post-order.
func reversePostorder(root *Node, next func(*Node) []*Node, assign func(*Node, int)) []*Node {
	type frame struct {
		node     *Node
		expanded bool
	}
	visited := map[*Node]bool{}
	var post []*Node
	stack := []frame{{root, false}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.expanded {
			post = append(post, f.node)
			continue
		}
		if visited[f.node] {
			continue
		}
		visited[f.node] = true
		stack = append(stack, frame{f.node, true})
		for _, s := range next(f.node) {
			if !visited[s] {
				stack = append(stack, frame{s, false})
			}
		}
	}
	funcutil.Reverse(post)
	for i, n := range post {
		assign(n, i)
	}
	return post
}
