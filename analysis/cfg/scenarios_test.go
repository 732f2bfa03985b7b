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

package cfg_test

import (
	"testing"

	"github.com/taclab/tacanalyzer/analysis/cfg"
	"github.com/taclab/tacanalyzer/analysis/tac"
)

// Instruction constructors shared by the tests in this package.

func assign(label, def string, uses ...string) tac.Instruction {
	return tac.Instruction{Label: label, Kind: tac.Assignment, Def: def, Uses: uses}
}

func jump(label, target string) tac.Instruction {
	return tac.Instruction{Label: label, Kind: tac.UnconditionalBranch, Target: target}
}

func branch(label, target string, uses ...string) tac.Instruction {
	return tac.Instruction{Label: label, Kind: tac.ConditionalBranch, Target: target, Uses: uses}
}

func ret(label string) tac.Instruction {
	return tac.Instruction{Label: label, Kind: tac.Return}
}

func mustBuild(t *testing.T, body *tac.Body) *cfg.Graph {
	t.Helper()
	g, err := cfg.Build(body)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

// straightLineBody is three consecutive assignments: a single basic block.
func straightLineBody() *tac.Body {
	return tac.NewBody(
		assign("a", "x"),
		assign("b", "y", "x"),
		assign("c", "z", "y"),
	)
}

// diamondBody is the classic if/else-less diamond:
//
//	a0: x = 1
//	a1: if c goto l2
//	b0: x = 2
//	l2: y = x
//
// giving blocks a {a0,a1}, b {b0} and the merge block l2.
func diamondBody() *tac.Body {
	return tac.NewBody(
		assign("a0", "x"),
		branch("a1", "l2", "c"),
		assign("b0", "x"),
		assign("l2", "y", "x"),
	)
}

// singleLoopBody is
//
//	l1: x = x + 1
//	c0: if c goto l2
//	g0: goto l1
//	l2: y = x
func singleLoopBody() *tac.Body {
	return tac.NewBody(
		assign("l1", "x", "x"),
		branch("c0", "l2", "c"),
		jump("g0", "l1"),
		assign("l2", "y", "x"),
	)
}

// nestedLoopsBody is a while-in-while with distinct latch blocks:
//
//	h1:  x = 0            outer header
//	c1:  if e goto end
//	h2:  y = 0            inner header
//	c2:  if f goto l1
//	b0:  z = y
//	g2:  goto h2          inner latch
//	l1:  goto h1          outer latch
//	end: r = x
func nestedLoopsBody() *tac.Body {
	return tac.NewBody(
		assign("h1", "x"),
		branch("c1", "end", "e"),
		assign("h2", "y"),
		branch("c2", "l1", "f"),
		assign("b0", "z", "y"),
		jump("g2", "h2"),
		jump("l1", "h1"),
		assign("end", "r", "x"),
	)
}

// unreachableBody has a block that no branch ever targets:
//
//	a: x = 1
//	g: goto c
//	b: dead = 2
//	c: y = x
func unreachableBody() *tac.Body {
	return tac.NewBody(
		assign("a", "x"),
		jump("g", "c"),
		assign("b", "dead"),
		assign("c", "y", "x"),
	)
}

// blockByLeader finds the basic block whose first instruction carries the
// label.
func blockByLeader(t *testing.T, g *cfg.Graph, label string) *cfg.Node {
	t.Helper()
	for _, n := range g.Nodes() {
		if n.Kind == cfg.BasicBlock && len(n.Instrs) > 0 && n.Instrs[0].Label == label {
			return n
		}
	}
	t.Fatalf("no block with leader %q", label)
	return nil
}

func hasEdge(from, to *cfg.Node) bool {
	for _, s := range from.Succs {
		if s == to {
			return true
		}
	}
	return false
}

func nodeIDs(nodes []*cfg.Node) []uint32 {
	ids := make([]uint32, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
