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

package graphutil_test

import (
	"sort"
	"testing"

	"github.com/taclab/tacanalyzer/analysis/cfg"
	"github.com/taclab/tacanalyzer/analysis/config"
	"github.com/taclab/tacanalyzer/analysis/tac"
	"github.com/taclab/tacanalyzer/internal/graphutil"
	"github.com/yourbasic/graph"
	"gonum.org/v1/gonum/graph/topo"
)

func mustBuild(t *testing.T, body *tac.Body) *cfg.Graph {
	t.Helper()
	g, err := cfg.Build(body)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

func assign(label, def string) tac.Instruction {
	return tac.Instruction{Label: label, Kind: tac.Assignment, Def: def}
}

func jump(label, target string) tac.Instruction {
	return tac.Instruction{Label: label, Kind: tac.UnconditionalBranch, Target: target}
}

func branch(label, target string) tac.Instruction {
	return tac.Instruction{Label: label, Kind: tac.ConditionalBranch, Target: target}
}

// loopGraph is l1: x; c0: if -> l2; g0: goto l1; l2: y
func loopGraph(t *testing.T) *cfg.Graph {
	return mustBuild(t, tac.NewBody(
		assign("l1", "x"),
		branch("c0", "l2"),
		jump("g0", "l1"),
		assign("l2", "y"),
	))
}

// irreducibleGraph has a two-entry cycle between x and y:
//
//	a: if c goto y
//	x: ...; goto y
//	y: ...; goto x
func irreducibleGraph(t *testing.T) *cfg.Graph {
	return mustBuild(t, tac.NewBody(
		branch("a", "y"),
		assign("x", "vx"),
		jump("gx", "y"),
		assign("y", "vy"),
		jump("gy", "x"),
	))
}

func TestFlowGraphAgreesAcrossLibraries(t *testing.T) {
	for _, g := range []*cfg.Graph{loopGraph(t), irreducibleGraph(t)} {
		fg := graphutil.NewFlowGraph(g)

		if fg.Order() != g.NumNodes() {
			t.Fatalf("order mismatch: %d vs %d", fg.Order(), g.NumNodes())
		}

		// the strong components found by yourbasic and gonum must agree
		yb := graph.StrongComponents(fg)
		gn := topo.TarjanSCC(fg)
		if len(yb) != len(gn) {
			t.Fatalf("component count disagrees: yourbasic %d, gonum %d", len(yb), len(gn))
		}
		sizes := func(a []int) { sort.Ints(a) }
		ybSizes := make([]int, len(yb))
		for i, c := range yb {
			ybSizes[i] = len(c)
		}
		gnSizes := make([]int, len(gn))
		for i, c := range gn {
			gnSizes[i] = len(c)
		}
		sizes(ybSizes)
		sizes(gnSizes)
		for i := range ybSizes {
			if ybSizes[i] != gnSizes[i] {
				t.Errorf("component sizes disagree: %v vs %v", ybSizes, gnSizes)
			}
		}
	}
}

func TestFlowGraphEdges(t *testing.T) {
	g := loopGraph(t)
	fg := graphutil.NewFlowGraph(g)

	for _, n := range g.Nodes() {
		for _, s := range n.Succs {
			if !fg.HasEdgeFromTo(int64(n.ID), int64(s.ID)) {
				t.Errorf("missing edge %d -> %d in the adapter", n.ID, s.ID)
			}
			if fg.Edge(int64(n.ID), int64(s.ID)) == nil {
				t.Errorf("Edge(%d, %d) must not be nil", n.ID, s.ID)
			}
			if !fg.HasEdgeBetween(int64(s.ID), int64(n.ID)) {
				t.Errorf("HasEdgeBetween must be symmetric for %d and %d", n.ID, s.ID)
			}
		}
	}

	// To must mirror From
	nodes := fg.Nodes()
	if nodes.Len() != g.NumNodes() {
		t.Errorf("Nodes iterator length: got %d, want %d", nodes.Len(), g.NumNodes())
	}
	count := 0
	for nodes.Next() {
		id := nodes.Node().ID()
		from := fg.From(id)
		for from.Next() {
			to := fg.To(from.Node().ID())
			found := false
			for to.Next() {
				if to.Node().ID() == id {
					found = true
				}
			}
			if !found {
				t.Errorf("To(%d) does not mirror From(%d)", from.Node().ID(), id)
			}
		}
		count++
	}
	if count != g.NumNodes() {
		t.Errorf("iterated %d nodes, want %d", count, g.NumNodes())
	}
}

func TestFindAllElementaryCycles(t *testing.T) {
	g := loopGraph(t)
	fg := graphutil.NewFlowGraph(g)

	cycles := graphutil.FindAllElementaryCycles(fg)
	if len(cycles) != 1 {
		t.Fatalf("expected one elementary cycle, got %d: %v", len(cycles), cycles)
	}
	c := cycles[0]
	if len(c) != 3 || c[0] != c[len(c)-1] {
		t.Errorf("expected a closed 2-cycle, got %v", c)
	}
}

func TestFindAllElementaryCyclesSelfLoop(t *testing.T) {
	g := mustBuild(t, tac.NewBody(
		assign("h", "x"),
		branch("c", "h"),
		assign("after", "y"),
	))
	fg := graphutil.NewFlowGraph(g)

	cycles := graphutil.FindAllElementaryCycles(fg)
	if len(cycles) != 1 {
		t.Fatalf("expected the self loop as the only cycle, got %v", cycles)
	}
	if len(cycles[0]) != 2 || cycles[0][0] != cycles[0][1] {
		t.Errorf("expected a self cycle, got %v", cycles[0])
	}
}

func TestIrreducibleComponents(t *testing.T) {
	if components := graphutil.IrreducibleComponents(loopGraph(t)); len(components) != 0 {
		t.Errorf("a natural loop is not irreducible, got %v", components)
	}

	components := graphutil.IrreducibleComponents(irreducibleGraph(t))
	if len(components) != 1 {
		t.Fatalf("expected one irreducible component, got %d", len(components))
	}
	if len(components[0]) != 2 {
		t.Errorf("expected the two-entry cycle, got %d nodes", len(components[0]))
	}
}

func TestWarnIrreducible(t *testing.T) {
	conf := config.NewDefault()
	logger := config.NewDiscardLogGroup()

	if got := graphutil.WarnIrreducible(loopGraph(t), conf, logger); len(got) != 0 {
		t.Errorf("reducible graph must produce no warnings")
	}
	if got := graphutil.WarnIrreducible(irreducibleGraph(t), conf, logger); len(got) != 1 {
		t.Errorf("expected one warned component, got %d", len(got))
	}

	conf.WarnIrreducible = false
	if got := graphutil.WarnIrreducible(irreducibleGraph(t), conf, logger); got != nil {
		t.Errorf("disabled warnings must return nothing")
	}
}
