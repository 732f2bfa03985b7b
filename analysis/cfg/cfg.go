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

// Package cfg builds control-flow graphs from three-address method bodies and
// computes dominance and loop information over them.
//
// The graph is an arena of nodes addressed by integer id. The passes must run
// in the order build, ordering, dominators, then dominator tree, dominance
// frontiers and loops in any order; the ordering and dominator passes are
// triggered lazily by the passes that need them. The graph is not designed
// for mutation after construction.
package cfg

import (
	"fmt"

	"github.com/taclab/tacanalyzer/analysis/tac"
	"golang.org/x/tools/container/intsets"
)

// NodeKind discriminates the three node kinds of a graph.
type NodeKind int

const (
	// Entry is the unique synthetic entry node, id 0.
	Entry NodeKind = iota

	// Exit is the unique synthetic exit node, id 1.
	Exit

	// BasicBlock is a maximal straight-line instruction sequence, ids from 2.
	BasicBlock
)

func (k NodeKind) String() string {
	switch k {
	case Entry:
		return "entry"
	case Exit:
		return "exit"
	default:
		return "block"
	}
}

// Node is a node of a control-flow graph. Preds, Succs, Instrs and the
// dominance fields are populated by the builder and the analysis passes;
// clients must not mutate them.
type Node struct {
	// ID is unique within the graph: entry is 0, exit is 1, basic blocks are
	// numbered from 2 in creation order.
	ID uint32

	// Kind is the node discriminant.
	Kind NodeKind

	// Instrs is the instruction sequence of a basic block, in program order.
	// Always empty for the entry and exit nodes.
	Instrs []tac.Instruction

	// Preds and Succs are the deduplicated predecessor and successor sets,
	// in edge insertion order.
	Preds []*Node
	Succs []*Node

	// ForwardIndex is the position of the node in the forward reverse
	// post-order, -1 if not computed or unreachable from entry.
	ForwardIndex int

	// BackwardIndex is the position of the node in the backward reverse
	// post-order, -1 if not computed or unreachable from exit.
	BackwardIndex int

	// Idom is the immediate dominator, nil for the entry node, for nodes
	// unreachable from entry, and before dominator analysis has run.
	Idom *Node

	// Children are the dominator-tree children, populated by
	// ComputeDominatorTree.
	Children []*Node

	// DomFrontier is the dominance frontier as a set of node ids, populated
	// by ComputeDominanceFrontiers.
	DomFrontier intsets.Sparse
}

// Leader returns the first instruction of a basic block, the block leader.
// Calling Leader on an entry, exit or empty node is an error of the caller.
func (n *Node) Leader() tac.Instruction {
	if len(n.Instrs) == 0 {
		panic(fmt.Sprintf("node %d has no instructions", n.ID))
	}
	return n.Instrs[0]
}

// Dominators materialises the dominator set of n as the chain n, idom(n),
// idom(idom(n)), ... ending at the entry node. The chain is recomputed on
// every call; dominator analysis must have run.
func (n *Node) Dominators() []*Node {
	var doms []*Node
	for cur := n; cur != nil; cur = cur.Idom {
		doms = append(doms, cur)
	}
	return doms
}

func (n *Node) String() string {
	switch n.Kind {
	case Entry, Exit:
		return n.Kind.String()
	default:
		return fmt.Sprintf("block %d (%s)", n.ID, n.Leader().Label)
	}
}

// Edge is a directed (From, To) pair. It is a value type, used for
// back-edge sets.
type Edge struct {
	From *Node
	To   *Node
}

func (e Edge) String() string {
	return fmt.Sprintf("%d -> %d", e.From.ID, e.To.ID)
}

// Graph is a control-flow graph. The entry and exit nodes always exist, even
// when nothing connects to them.
type Graph struct {
	// Entry and Exit are the unique synthetic boundary nodes.
	Entry *Node
	Exit  *Node

	// Loops is populated by IdentifyLoops, one loop per back edge.
	Loops []*Loop

	nodes []*Node

	forwardOrder  []*Node
	backwardOrder []*Node

	dominatorsComputed bool
}

// NewGraph returns an empty graph holding only the entry and exit nodes.
func NewGraph() *Graph {
	g := &Graph{}
	g.Entry = g.newNode(Entry)
	g.Exit = g.newNode(Exit)
	return g
}

func (g *Graph) newNode(kind NodeKind) *Node {
	n := &Node{
		ID:            uint32(len(g.nodes)),
		Kind:          kind,
		ForwardIndex:  -1,
		BackwardIndex: -1,
	}
	g.nodes = append(g.nodes, n)
	return n
}

// NewBlock creates a new basic block node in the graph.
func (g *Graph) NewBlock() *Node {
	return g.newNode(BasicBlock)
}

// Node returns the node with the given id.
func (g *Graph) Node(id uint32) *Node {
	return g.nodes[id]
}

// Nodes returns all nodes of the graph in id order. The returned slice is the
// graph's own storage; callers must not mutate it.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// NumNodes returns the number of nodes in the graph, entry and exit included.
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// AddEdge inserts the edge from -> to. Insertion is idempotent: inserting an
// existing edge leaves the graph unchanged.
func (g *Graph) AddEdge(from, to *Node) {
	for _, s := range from.Succs {
		if s == to {
			return
		}
	}
	from.Succs = append(from.Succs, to)
	to.Preds = append(to.Preds, from)
}

// Edges returns every edge of the graph, grouped by source node in id order.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, n := range g.nodes {
		for _, s := range n.Succs {
			edges = append(edges, Edge{From: n, To: s})
		}
	}
	return edges
}
