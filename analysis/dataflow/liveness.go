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

package dataflow

import (
	"sort"

	"github.com/taclab/tacanalyzer/analysis/cfg"
	"golang.org/x/tools/container/intsets"
)

// LiveVariables is the classic live-variables analysis over the backward
// engine. The lattice points are sets of variable ids, merge is set union and
// the transfer function of a block is (out \ def(block)) | use(block).
type LiveVariables struct {
	graph *cfg.Graph

	// vars indexed by variable id, in order of first appearance
	vars   []string
	varIDs map[string]int

	// use holds the upward-exposed uses, def the defined variables, per node
	// id
	use []*intsets.Sparse
	def []*intsets.Sparse
}

// NewLiveVariables prepares the analysis for a graph: it numbers the
// variables and precomputes the use and def sets of every block.
func NewLiveVariables(g *cfg.Graph) *LiveVariables {
	lv := &LiveVariables{
		graph:  g,
		varIDs: map[string]int{},
		use:    make([]*intsets.Sparse, g.NumNodes()),
		def:    make([]*intsets.Sparse, g.NumNodes()),
	}
	for _, n := range g.Nodes() {
		use, def := new(intsets.Sparse), new(intsets.Sparse)
		for _, instr := range n.Instrs {
			for _, v := range instr.Uses {
				id := lv.varID(v)
				if !def.Has(id) {
					use.Insert(id)
				}
			}
			if instr.Def != "" {
				def.Insert(lv.varID(instr.Def))
			}
		}
		lv.use[n.ID], lv.def[n.ID] = use, def
	}
	return lv
}

func (lv *LiveVariables) varID(name string) int {
	if id, ok := lv.varIDs[name]; ok {
		return id
	}
	id := len(lv.vars)
	lv.vars = append(lv.vars, name)
	lv.varIDs[name] = id
	return id
}

// VarID returns the id of a variable seen during preparation.
func (lv *LiveVariables) VarID(name string) (int, bool) {
	id, ok := lv.varIDs[name]
	return id, ok
}

// Run solves the analysis and returns the live variable sets per node id:
// Input is the live-in set, Output the live-out set.
func (lv *LiveVariables) Run() []Result[*intsets.Sparse] {
	return RunBackward[*intsets.Sparse](lv.graph, lv)
}

// Names resolves a variable id set to sorted variable names.
func (lv *LiveVariables) Names(set *intsets.Sparse) []string {
	var names []string
	for _, id := range set.AppendTo(nil) {
		names = append(names, lv.vars[id])
	}
	sort.Strings(names)
	return names
}

// InitialValue implements Lattice: nothing is live after the exit node.
func (lv *LiveVariables) InitialValue(*cfg.Node) *intsets.Sparse {
	return new(intsets.Sparse)
}

// DefaultValue implements Lattice: blocks start with the empty set.
func (lv *LiveVariables) DefaultValue(*cfg.Node) *intsets.Sparse {
	return new(intsets.Sparse)
}

// Merge implements Lattice as set union. Operands are not mutated.
func (lv *LiveVariables) Merge(a, b *intsets.Sparse) *intsets.Sparse {
	out := new(intsets.Sparse)
	out.Copy(a)
	out.UnionWith(b)
	return out
}

// Flow implements Lattice: in = (out \ def) | use.
func (lv *LiveVariables) Flow(n *cfg.Node, out *intsets.Sparse) *intsets.Sparse {
	in := new(intsets.Sparse)
	in.Copy(out)
	in.DifferenceWith(lv.def[n.ID])
	in.UnionWith(lv.use[n.ID])
	return in
}

// Compare implements Lattice as set equality.
func (lv *LiveVariables) Compare(a, b *intsets.Sparse) bool {
	return a.Equals(b)
}
