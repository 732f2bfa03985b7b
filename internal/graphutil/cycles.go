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

package graphutil

import (
	"sort"

	"github.com/yourbasic/graph"
)

// FindAllElementaryCycles finds all elementary cycles in the flow graph,
// following Donald B. Johnson, "Finding All The Elementary Circuits of a
// Directed Graph", 1975. Each cycle is reported as a closed id sequence
// (first id repeated last) and enumerated exactly once, rooted at its
// smallest node id. Neighbors are visited in ascending id order, so the
// output is deterministic.
//
// Natural loops only cover the cycles closed by a back edge; clients that
// need every cycle of an irreducible region use this instead.
func FindAllElementaryCycles(fg FlowGraph) [][]int64 {
	var cycles [][]int64
	for i, root := range fg.Keys {
		// the suffix subgraph guarantees every cycle is rooted at its
		// smallest id exactly once
		sub := Subgraph(fg, fg.Keys[i:])
		comp := componentOf(sub, root)
		if len(comp) < 2 {
			// a self loop is an elementary cycle but never grows its strong
			// component
			if sub.Edges[root][root] {
				cycles = append(cycles, []int64{root, root})
			}
			continue
		}
		j := &circuitSearch{
			graph:       Subgraph(fg, comp),
			root:        root,
			blocked:     map[int64]bool{},
			unblockWith: map[int64][]int64{},
		}
		j.visit(root)
		cycles = append(cycles, j.found...)
	}
	return cycles
}

// componentOf returns the strong component of g containing v, sorted by id.
func componentOf(g FlowGraph, v int64) []int64 {
	for _, comp := range graph.StrongComponents(g) {
		for _, w := range comp {
			if int64(w) != v {
				continue
			}
			ids := make([]int64, len(comp))
			for k, u := range comp {
				ids[k] = int64(u)
			}
			sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
			return ids
		}
	}
	return nil
}

// circuitSearch carries the bookkeeping of one rooted circuit enumeration:
// the current path, the blocked set, and for each blocked node the nodes
// whose unblocking it is waiting on.
type circuitSearch struct {
	graph FlowGraph
	root  int64

	path        []int64
	blocked     map[int64]bool
	unblockWith map[int64][]int64
	found       [][]int64
}

// visit extends the current path with v and reports whether some extension
// closed a circuit back to the root. Nodes on fruitless branches stay
// blocked until a node they lead to is unblocked, which keeps the search
// from re-walking dead subtrees.
func (j *circuitSearch) visit(v int64) bool {
	j.path = append(j.path, v)
	j.blocked[v] = true

	closed := false
	for _, w := range j.neighbors(v) {
		if w == j.root {
			cycle := make([]int64, 0, len(j.path)+1)
			cycle = append(cycle, j.path...)
			j.found = append(j.found, append(cycle, j.root))
			closed = true
			continue
		}
		if !j.blocked[w] && j.visit(w) {
			closed = true
		}
	}

	if closed {
		j.unblock(v)
	} else {
		// leave v blocked; any neighbor that unblocks later frees v too
		for _, w := range j.neighbors(v) {
			j.unblockWith[w] = append(j.unblockWith[w], v)
		}
	}
	j.path = j.path[:len(j.path)-1]
	return closed
}

// unblock frees v and cascades to every node that was waiting on it.
func (j *circuitSearch) unblock(v int64) {
	j.blocked[v] = false
	waiting := j.unblockWith[v]
	j.unblockWith[v] = nil
	for _, w := range waiting {
		if j.blocked[w] {
			j.unblock(w)
		}
	}
}

// neighbors returns the successors of v in ascending id order.
func (j *circuitSearch) neighbors(v int64) []int64 {
	var ws []int64
	for w := range j.graph.Edges[v] {
		ws = append(ws, w)
	}
	sort.Slice(ws, func(a, b int) bool { return ws[a] < ws[b] })
	return ws
}
