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

package cfg

import (
	"fmt"

	"github.com/taclab/tacanalyzer/analysis/config"
	"github.com/taclab/tacanalyzer/analysis/tac"
)

// UnknownBranchTargetError is returned by Build when a branch instruction
// targets a label that does not appear in the method body. No partial graph
// is returned alongside it.
type UnknownBranchTargetError struct {
	// Label is the missing target label.
	Label string

	// Branch is the label of the offending branch instruction.
	Branch string
}

func (e *UnknownBranchTargetError) Error() string {
	return fmt.Sprintf("branch %q targets unknown label %q", e.Branch, e.Label)
}

// builder carries the state shared by the two construction passes.
type builder struct {
	graph *Graph

	// leaders maps a leader label to its basic block
	leaders map[string]*Node

	// labels is the set of labels present in the body
	labels map[string]int

	log *config.LogGroup
}

// Build constructs the control-flow graph of a method body using the
// two-pass algorithm: leader identification, then node connection.
func Build(body *tac.Body) (*Graph, error) {
	return BuildWithLog(body, config.NewDiscardLogGroup())
}

// BuildWithLog is Build with trace output on the provided log group.
func BuildWithLog(body *tac.Body, logger *config.LogGroup) (*Graph, error) {
	if logger == nil {
		logger = config.NewDiscardLogGroup()
	}
	b := &builder{
		graph:   NewGraph(),
		leaders: map[string]*Node{},
		labels:  body.Index(),
		log:     logger,
	}
	if err := b.identifyLeaders(body); err != nil {
		return nil, err
	}
	b.connectNodes(body)
	b.log.Debugf("built cfg: %d nodes, %d leaders", b.graph.NumNodes(), len(b.leaders))
	return b.graph, nil
}

// leaderNode returns the basic block led by label, creating it on first use.
// Block ids are assigned in creation order, starting at 2.
func (b *builder) leaderNode(label string) *Node {
	if n, ok := b.leaders[label]; ok {
		return n
	}
	n := b.graph.NewBlock()
	b.leaders[label] = n
	b.log.Tracef("leader %q -> node %d", label, n.ID)
	return n
}

// identifyLeaders is the first pass. An instruction is a leader when it is
// the first instruction, follows a branch or a return, is a branch target, or
// marks a try/catch/finally region.
func (b *builder) identifyLeaders(body *tac.Body) error {
	nextIsLeader := true
	for _, instr := range body.Instrs {
		if nextIsLeader || instr.IsHandlerBoundary() {
			b.leaderNode(instr.Label)
			nextIsLeader = false
		}
		switch {
		case instr.IsBranch():
			if _, ok := b.labels[instr.Target]; !ok {
				return &UnknownBranchTargetError{Label: instr.Target, Branch: instr.Label}
			}
			b.leaderNode(instr.Target)
			nextIsLeader = true
		case instr.Kind == tac.Return:
			nextIsLeader = true
		}
	}
	return nil
}

// connectNodes is the second pass. It distributes instructions over the
// blocks created by the first pass and inserts the edges. Returns always edge
// to exit; note that a return does not suppress the fall-through edge to the
// following leader, matching the behavior of the lifted bytecode even inside
// finally handlers.
func (b *builder) connectNodes(body *tac.Body) {
	g := b.graph
	current := g.Entry
	connectWithPrevious := true
	for _, instr := range body.Instrs {
		if node, ok := b.leaders[instr.Label]; ok {
			previous := current
			current = node
			if connectWithPrevious {
				g.AddEdge(previous, current)
			}
			connectWithPrevious = true
		}
		current.Instrs = append(current.Instrs, instr)
		switch {
		case instr.IsBranch():
			g.AddEdge(current, b.leaders[instr.Target])
			// only conditional and exceptional branches fall through
			connectWithPrevious = instr.Kind == tac.ConditionalBranch ||
				instr.Kind == tac.ExceptionalBranch
		case instr.Kind == tac.Return:
			g.AddEdge(current, g.Exit)
		}
	}
	g.AddEdge(current, g.Exit)
}
