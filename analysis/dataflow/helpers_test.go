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

package dataflow_test

import (
	"testing"

	"github.com/taclab/tacanalyzer/analysis/cfg"
	"github.com/taclab/tacanalyzer/analysis/tac"
)

func assign(label, def string, uses ...string) tac.Instruction {
	return tac.Instruction{Label: label, Kind: tac.Assignment, Def: def, Uses: uses}
}

func jump(label, target string) tac.Instruction {
	return tac.Instruction{Label: label, Kind: tac.UnconditionalBranch, Target: target}
}

func branch(label, target string, uses ...string) tac.Instruction {
	return tac.Instruction{Label: label, Kind: tac.ConditionalBranch, Target: target, Uses: uses}
}

func mustBuild(t *testing.T, body *tac.Body) *cfg.Graph {
	t.Helper()
	g, err := cfg.Build(body)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

// diamondBody: a0 and b0 both define x, l2 reads it at the merge point.
func diamondBody() *tac.Body {
	return tac.NewBody(
		assign("a0", "x"),
		branch("a1", "l2", "c"),
		assign("b0", "x"),
		assign("l2", "y", "x"),
	)
}

// loopBody increments x until c holds, then reads it.
func loopBody() *tac.Body {
	return tac.NewBody(
		assign("l1", "x", "x"),
		branch("c0", "l2", "c"),
		jump("g0", "l1"),
		assign("l2", "y", "x"),
	)
}

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
