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

// Package graphutil adapts control-flow graphs to the interfaces of the
// external graph libraries, so their algorithms (strong components,
// elementary cycles) can run over a cfg.Graph.
package graphutil

import (
	"sort"

	"github.com/taclab/tacanalyzer/analysis/cfg"
	"gonum.org/v1/gonum/graph"
)

// FlowGraph is an abstraction over a control-flow graph to work with
// existing graph libraries. It implements the methods to satisfy
// yourbasic's graph.Iterator and Gonum's graph.Directed.
type FlowGraph struct {
	// The order of the graph
	order int

	// The original control-flow graph the FlowGraph was constructed from
	Graph *cfg.Graph

	// IDMap maps from node IDs to nodes
	IDMap map[int64]FlowNode

	// Keys are all the node IDs
	Keys []int64

	// Edges is an adjacency matrix: Edges[x][y] means there is a directed
	// edge between IDMap[x] and IDMap[y]
	Edges map[int64]map[int64]bool

	// RevEdges is the reversed adjacency matrix
	RevEdges map[int64]map[int64]bool
}

// NewFlowGraph returns a flow graph iterator where node ids correspond to
// the ID of each cfg node.
func NewFlowGraph(g *cfg.Graph) FlowGraph {
	n := g.NumNodes()
	idmap := make(map[int64]FlowNode, n)
	edges := make(map[int64]map[int64]bool, n)
	rev := make(map[int64]map[int64]bool, n)
	keys := make([]int64, 0, n)
	for _, node := range g.Nodes() {
		id := int64(node.ID)
		keys = append(keys, id)
		idmap[id] = FlowNode{node}
		edges[id] = map[int64]bool{}
		rev[id] = map[int64]bool{}
	}
	for _, node := range g.Nodes() {
		id := int64(node.ID)
		for _, s := range node.Succs {
			edges[id][int64(s.ID)] = true
			rev[int64(s.ID)][id] = true
		}
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return FlowGraph{
		order:    n,
		Graph:    g,
		IDMap:    idmap,
		Edges:    edges,
		RevEdges: rev,
		Keys:     keys,
	}
}

// Subgraph returns a new graph that is the original graph with only the
// nodes in include. Only the edges that have both the origin and destination
// nodes in the include nodes are kept in the resulting graph.
// The subgraph's order and Graph are the same as in the original, meaning
// that node indices stay consistent across subgraphs.
func Subgraph(original FlowGraph, include []int64) FlowGraph {
	idmap := make(map[int64]FlowNode, len(include))
	edges := make(map[int64]map[int64]bool, len(include))
	rev := make(map[int64]map[int64]bool, len(include))
	keys := make([]int64, len(include))

	for j, i := range include {
		keys[j] = i
		idmap[i] = original.IDMap[i]
		rev[i] = map[int64]bool{}
	}

	for _, i := range include {
		edges[i] = map[int64]bool{}
		for e := range original.Edges[i] {
			if _, ok := idmap[e]; ok {
				edges[i][e] = true
				rev[e][i] = true
			}
		}
	}

	return FlowGraph{
		order:    original.Order(),
		Graph:    original.Graph,
		IDMap:    idmap,
		Edges:    edges,
		RevEdges: rev,
		Keys:     keys,
	}
}

// Order implements the order of the graph.Iterator interface for the FlowGraph
func (c FlowGraph) Order() int {
	return c.order
}

// Visit implements the graph.Iterator interface for the FlowGraph
func (c FlowGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if _, ok := c.IDMap[int64(v)]; !ok {
		return false
	}
	for w := range c.Edges[int64(v)] {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// *************** Gonum graph interface implementation **********************

// Node implements the Graph interface
func (c FlowGraph) Node(v int64) graph.Node {
	if n, ok := c.IDMap[v]; ok {
		return n
	}
	return nil
}

// Nodes returns the set of nodes in the graph
func (c FlowGraph) Nodes() graph.Nodes {
	keys := make([]int64, 0, len(c.IDMap))
	for k := range c.IDMap {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return &NodeSet{nodes: c.IDMap, ids: keys, cur: -1}
}

// From returns the set of nodes reachable from the id through one edge
func (c FlowGraph) From(id int64) graph.Nodes {
	var keys []int64
	for out := range c.Edges[id] {
		keys = append(keys, out)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return &NodeSet{nodes: c.IDMap, ids: keys, cur: -1}
}

// To returns the set of nodes that reach the id through one edge
func (c FlowGraph) To(id int64) graph.Nodes {
	var keys []int64
	for in := range c.RevEdges[id] {
		keys = append(keys, in)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return &NodeSet{nodes: c.IDMap, ids: keys, cur: -1}
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between
// the two node identifiers, in either direction
func (c FlowGraph) HasEdgeBetween(xid, yid int64) bool {
	return c.Edges[xid][yid] || c.Edges[yid][xid]
}

// HasEdgeFromTo returns a boolean indicating whether a directed edge exists
// from uid to vid
func (c FlowGraph) HasEdgeFromTo(uid, vid int64) bool {
	return c.Edges[uid][vid]
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (c FlowGraph) Edge(uid, vid int64) graph.Edge {
	if c.Edges[uid][vid] {
		return FlowEdge{from: c.IDMap[uid], to: c.IDMap[vid]}
	}
	return nil
}

// *************** Nodes implementation **********************

// FlowNode is a wrapper around a *cfg.Node that implements the graph.Node
// interface
type FlowNode struct {
	Node *cfg.Node
}

// ID returns the id of the node
func (n FlowNode) ID() int64 {
	return int64(n.Node.ID)
}

func (n FlowNode) String() string {
	if n.Node == nil {
		return ""
	}
	return n.Node.String()
}

// NodeSet implements the graph.Nodes interface, an iterator over a set of
// nodes
type NodeSet struct {
	// nodes is the set of nodes in the iterator
	nodes map[int64]FlowNode

	// ids is the set of node ids in the iterator
	// invariant: len(ids) = len(nodes) at construction
	ids []int64

	// cur is the current index of the iterator, -1 before the first call to
	// Next
	cur int
}

// Next moves the iterator to the next node and returns true if one exists.
func (ns *NodeSet) Next() bool {
	if ns.cur < len(ns.ids)-1 {
		ns.cur++
		return true
	}
	return false
}

// Len returns the number of remaining nodes in the set
func (ns *NodeSet) Len() int {
	return len(ns.ids) - ns.cur - 1
}

// Reset rewinds the iterator to before the first node
func (ns *NodeSet) Reset() {
	ns.cur = -1
}

// Node returns the current node in the set
func (ns *NodeSet) Node() graph.Node {
	if ns.cur < 0 || ns.cur >= len(ns.ids) {
		return nil
	}
	return ns.nodes[ns.ids[ns.cur]]
}

// *************** Edge implementation **********************

// FlowEdge implements the graph.Edge interface
type FlowEdge struct {
	from FlowNode
	to   FlowNode
}

// From returns the origin of the edge
func (e FlowEdge) From() graph.Node {
	return e.from
}

// To returns the destination of the edge
func (e FlowEdge) To() graph.Node {
	return e.to
}

// ReversedEdge returns a new value representing the reversed edge
func (e FlowEdge) ReversedEdge() graph.Edge {
	return FlowEdge{from: e.to, to: e.from}
}
