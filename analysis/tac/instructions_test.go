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

package tac_test

import (
	"testing"

	"github.com/taclab/tacanalyzer/analysis/tac"
)

func TestKindPredicates(t *testing.T) {
	tests := []struct {
		kind        tac.Kind
		branch      bool
		fallThrough bool
		boundary    bool
	}{
		{tac.Assignment, false, true, false},
		{tac.UnconditionalBranch, true, false, false},
		{tac.ConditionalBranch, true, true, false},
		{tac.ExceptionalBranch, true, true, false},
		{tac.Return, false, false, false},
		{tac.Try, false, true, true},
		{tac.Catch, false, true, true},
		{tac.Finally, false, true, true},
		{tac.Other, false, true, false},
	}
	for _, tt := range tests {
		i := tac.Instruction{Label: "l", Kind: tt.kind, Target: "t"}
		if i.IsBranch() != tt.branch {
			t.Errorf("%s: IsBranch = %t, want %t", tt.kind, i.IsBranch(), tt.branch)
		}
		if i.HasFallThrough() != tt.fallThrough {
			t.Errorf("%s: HasFallThrough = %t, want %t", tt.kind, i.HasFallThrough(), tt.fallThrough)
		}
		if i.IsHandlerBoundary() != tt.boundary {
			t.Errorf("%s: IsHandlerBoundary = %t, want %t", tt.kind, i.IsHandlerBoundary(), tt.boundary)
		}
	}
}

func TestBodyIndex(t *testing.T) {
	body := tac.NewBody(
		tac.Instruction{Label: "a", Kind: tac.Assignment, Def: "x"},
		tac.Instruction{Label: "b", Kind: tac.UnconditionalBranch, Target: "a"},
	)
	idx := body.Index()
	if idx["a"] != 0 || idx["b"] != 1 {
		t.Errorf("wrong index: %v", idx)
	}
	if !body.HasLabel("a") || body.HasLabel("zz") {
		t.Errorf("HasLabel misbehaves")
	}
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		instr tac.Instruction
		want  string
	}{
		{tac.Instruction{Label: "l0", Kind: tac.UnconditionalBranch, Target: "l9"}, "l0: goto l9"},
		{tac.Instruction{Label: "l1", Kind: tac.Assignment, Def: "x"}, "l1: assignment x"},
		{tac.Instruction{Label: "l2", Kind: tac.Return}, "l2: return"},
	}
	for _, tt := range tests {
		if got := tt.instr.String(); got != tt.want {
			t.Errorf("String: got %q, want %q", got, tt.want)
		}
	}
}
