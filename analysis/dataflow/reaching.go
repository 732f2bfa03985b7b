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
	"github.com/taclab/tacanalyzer/analysis/cfg"
	"github.com/taclab/tacanalyzer/analysis/tac"
	"golang.org/x/tools/container/intsets"
)

// DefSite is a definition site: an assignment instruction together with the
// block holding it and the variable it writes.
type DefSite struct {
	Instr tac.Instruction
	Node  *cfg.Node
	Var   string
}

// ReachingDefinitions is the classic reaching-definitions analysis over the
// forward engine. The lattice points are sets of definition-site ids, merge
// is set union and the transfer function of a block is
// (in \ kill(block)) | gen(block).
type ReachingDefinitions struct {
	graph *cfg.Graph

	// sites indexed by definition-site id, assigned in node id order then
	// program order within a block
	sites []DefSite

	// siteByLabel maps a defining instruction label to its site id
	siteByLabel map[string]int

	// defsOf maps each variable to the set of its definition-site ids
	defsOf map[string]*intsets.Sparse

	// gen and kill per node id
	gen  []*intsets.Sparse
	kill []*intsets.Sparse
}

// NewReachingDefinitions prepares the analysis for a graph: it numbers the
// definition sites and precomputes the gen and kill sets of every block.
func NewReachingDefinitions(g *cfg.Graph) *ReachingDefinitions {
	rd := &ReachingDefinitions{
		graph:       g,
		siteByLabel: map[string]int{},
		defsOf:      map[string]*intsets.Sparse{},
		gen:         make([]*intsets.Sparse, g.NumNodes()),
		kill:        make([]*intsets.Sparse, g.NumNodes()),
	}
	for _, n := range g.Nodes() {
		for _, instr := range n.Instrs {
			if instr.Kind != tac.Assignment || instr.Def == "" {
				continue
			}
			id := len(rd.sites)
			rd.sites = append(rd.sites, DefSite{Instr: instr, Node: n, Var: instr.Def})
			rd.siteByLabel[instr.Label] = id
			defs := rd.defsOf[instr.Def]
			if defs == nil {
				defs = new(intsets.Sparse)
				rd.defsOf[instr.Def] = defs
			}
			defs.Insert(id)
		}
	}
	for _, n := range g.Nodes() {
		gen, kill := new(intsets.Sparse), new(intsets.Sparse)
		for _, instr := range n.Instrs {
			id, ok := rd.siteByLabel[instr.Label]
			if !ok || rd.sites[id].Node != n {
				continue
			}
			defs := rd.defsOf[instr.Def]
			gen.DifferenceWith(defs)
			gen.Insert(id)
			kill.UnionWith(defs)
			kill.Remove(id)
		}
		rd.gen[n.ID], rd.kill[n.ID] = gen, kill
	}
	return rd
}

// Sites returns the definition sites indexed by site id.
func (rd *ReachingDefinitions) Sites() []DefSite {
	return rd.sites
}

// SiteID returns the definition-site id of the instruction with the given
// label, if that instruction defines a variable.
func (rd *ReachingDefinitions) SiteID(label string) (int, bool) {
	id, ok := rd.siteByLabel[label]
	return id, ok
}

// Gen returns the downward-exposed definitions of the node.
func (rd *ReachingDefinitions) Gen(n *cfg.Node) *intsets.Sparse {
	return rd.gen[n.ID]
}

// Kill returns the definitions killed by the node.
func (rd *ReachingDefinitions) Kill(n *cfg.Node) *intsets.Sparse {
	return rd.kill[n.ID]
}

// Run solves the analysis and returns the reaching definition sets per node
// id.
func (rd *ReachingDefinitions) Run() []Result[*intsets.Sparse] {
	return RunForward[*intsets.Sparse](rd.graph, rd)
}

// InitialValue implements Lattice: nothing reaches the entry node.
func (rd *ReachingDefinitions) InitialValue(*cfg.Node) *intsets.Sparse {
	return new(intsets.Sparse)
}

// DefaultValue implements Lattice: blocks start with the empty set.
func (rd *ReachingDefinitions) DefaultValue(*cfg.Node) *intsets.Sparse {
	return new(intsets.Sparse)
}

// Merge implements Lattice as set union. Operands are not mutated.
func (rd *ReachingDefinitions) Merge(a, b *intsets.Sparse) *intsets.Sparse {
	out := new(intsets.Sparse)
	out.Copy(a)
	out.UnionWith(b)
	return out
}

// Flow implements Lattice: out = (in \ kill) | gen.
func (rd *ReachingDefinitions) Flow(n *cfg.Node, in *intsets.Sparse) *intsets.Sparse {
	out := new(intsets.Sparse)
	out.Copy(in)
	out.DifferenceWith(rd.kill[n.ID])
	out.UnionWith(rd.gen[n.ID])
	return out
}

// Compare implements Lattice as set equality.
func (rd *ReachingDefinitions) Compare(a, b *intsets.Sparse) bool {
	return a.Equals(b)
}
