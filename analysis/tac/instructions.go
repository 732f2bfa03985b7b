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

// Package tac defines the three-address-code instruction model consumed by the
// control-flow and dataflow analyses. The instructions are produced by an
// external lifter; this package only fixes the shape the analyses depend on:
// a stable label per instruction, a closed kind enumeration, and for branches
// a target label within the same method body.
package tac

import (
	"fmt"

	"github.com/taclab/tacanalyzer/analysis/typemodel"
)

// Kind discriminates the instruction variants. The set is closed: analyses
// switch over it exhaustively.
type Kind int

const (
	// Assignment is any instruction that writes a result variable.
	Assignment Kind = iota

	// UnconditionalBranch always transfers control to Target.
	UnconditionalBranch

	// ConditionalBranch transfers control to Target or falls through.
	ConditionalBranch

	// ExceptionalBranch transfers control to an exception handler at Target
	// or falls through. It behaves like ConditionalBranch for control-flow
	// purposes.
	ExceptionalBranch

	// Return exits the method body.
	Return

	// Try marks the start of a protected region.
	Try

	// Catch marks the start of an exception handler.
	Catch

	// Finally marks the start of a finally handler.
	Finally

	// Other covers every instruction the analyses treat as a no-op for
	// control flow (nops, calls without result, stores, ...).
	Other
)

var kindNames = map[Kind]string{
	Assignment:          "assignment",
	UnconditionalBranch: "goto",
	ConditionalBranch:   "if",
	ExceptionalBranch:   "leave",
	Return:              "return",
	Try:                 "try",
	Catch:               "catch",
	Finally:             "finally",
	Other:               "other",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Instruction is a single three-address instruction. The analyses only
// inspect Label, Kind and Target; Def, Uses and Type are operand information
// the lifter attaches for the dataflow analyses built on top of the engine.
type Instruction struct {
	// Label uniquely identifies the instruction within its method body.
	Label string

	// Kind is the instruction discriminant.
	Kind Kind

	// Target is the label of the branch destination. It is only meaningful
	// when Kind is one of the branch kinds.
	Target string

	// Def is the variable written by the instruction, or "" when the
	// instruction writes nothing.
	Def string

	// Uses lists the variables read by the instruction.
	Uses []string

	// Type is the static type of Def when known. The analytical core never
	// consumes it; it is carried through for clients of the analyses.
	Type typemodel.Type
}

// IsBranch returns true for the three branch kinds.
func (i Instruction) IsBranch() bool {
	switch i.Kind {
	case UnconditionalBranch, ConditionalBranch, ExceptionalBranch:
		return true
	default:
		return false
	}
}

// HasFallThrough returns true when control can continue to the next
// instruction after i executes. Unconditional branches and returns never
// fall through; conditional and exceptional branches do.
func (i Instruction) HasFallThrough() bool {
	switch i.Kind {
	case UnconditionalBranch, Return:
		return false
	default:
		return true
	}
}

// IsHandlerBoundary returns true for instructions that always start a new
// basic block (try, catch and finally region markers).
func (i Instruction) IsHandlerBoundary() bool {
	switch i.Kind {
	case Try, Catch, Finally:
		return true
	default:
		return false
	}
}

func (i Instruction) String() string {
	switch {
	case i.IsBranch():
		return fmt.Sprintf("%s: %s %s", i.Label, i.Kind, i.Target)
	case i.Def != "":
		return fmt.Sprintf("%s: %s %s", i.Label, i.Kind, i.Def)
	default:
		return fmt.Sprintf("%s: %s", i.Label, i.Kind)
	}
}

// Body is the ordered instruction sequence of a single method, as produced by
// the lifter.
type Body struct {
	// Method is the signature of the lifted method, when available.
	Method *typemodel.Method

	// Instrs is the instruction sequence in program order.
	Instrs []Instruction
}

// NewBody returns a body over the given instructions.
func NewBody(instrs ...Instruction) *Body {
	return &Body{Instrs: instrs}
}

// Index returns a map from instruction label to its position in the body.
// Later instructions win when labels are duplicated; the lifter guarantees
// uniqueness so duplicates indicate malformed input.
func (b *Body) Index() map[string]int {
	idx := make(map[string]int, len(b.Instrs))
	for i, instr := range b.Instrs {
		idx[instr.Label] = i
	}
	return idx
}

// HasLabel returns true when some instruction in the body carries the label.
func (b *Body) HasLabel(label string) bool {
	for _, instr := range b.Instrs {
		if instr.Label == label {
			return true
		}
	}
	return false
}
