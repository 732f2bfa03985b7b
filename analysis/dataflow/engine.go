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

// Package dataflow implements the generic iterative dataflow engines over a
// control-flow graph, plus the concrete reaching-definitions and
// live-variables analyses built on them.
//
// The engines are parameterised by a lattice supplied through dependency
// injection rather than inheritance: the forward and backward variants are
// distinct entry points over the same Lattice interface.
package dataflow

import (
	"errors"

	"github.com/taclab/tacanalyzer/analysis/cfg"
	"github.com/taclab/tacanalyzer/analysis/config"
)

// ErrNoConvergence is returned when a fixed point does not stabilise within
// the configured iteration budget, which indicates a lattice contract
// violation (non-monotonic flow or merge).
var ErrNoConvergence = errors.New("dataflow engine did not converge within the iteration budget")

// Lattice is the contract a client analysis supplies to the engines.
//
// Merge must be commutative and associative and its result must be at least
// as high in the lattice order as each operand; Flow must be monotonic. The
// engines cannot check these obligations and diverge when they are violated.
type Lattice[T any] interface {
	// InitialValue is the boundary value, applied at entry (forward engine)
	// or exit (backward engine).
	InitialValue(n *cfg.Node) T

	// DefaultValue is the starting value of every non-boundary node.
	DefaultValue(n *cfg.Node) T

	// Merge joins two lattice points at a control-flow join.
	Merge(a, b T) T

	// Flow is the transfer function of a node.
	Flow(n *cfg.Node, in T) T

	// Compare reports whether two lattice points are equal, for fixed-point
	// detection.
	Compare(a, b T) bool
}

// Result holds the lattice values at the boundaries of one node.
type Result[T any] struct {
	Input  T
	Output T
}

// Engine runs fixed points over a graph with a given lattice. The zero
// MaxIterations means no bound; the Logger may be nil.
type Engine[T any] struct {
	Lattice       Lattice[T]
	Logger        *config.LogGroup
	MaxIterations int
}

// NewEngine returns an engine for the lattice with the iteration budget and
// logger taken from the config.
func NewEngine[T any](lat Lattice[T], conf *config.Config, logger *config.LogGroup) Engine[T] {
	if conf == nil {
		conf = config.NewDefault()
	}
	if logger == nil {
		logger = config.NewDiscardLogGroup()
	}
	return Engine[T]{Lattice: lat, Logger: logger, MaxIterations: conf.MaxIterations}
}

// RunForward solves the forward dataflow problem: values propagate from entry
// along the successor relation in reverse post-order. The result slice is
// indexed by node id; nodes unreachable from entry keep their default values.
func (e Engine[T]) RunForward(g *cfg.Graph) ([]Result[T], error) {
	logger := e.logger()
	lat := e.Lattice
	order := g.ForwardOrder()

	result := make([]Result[T], g.NumNodes())
	for _, n := range g.Nodes() {
		result[n.ID].Input = lat.DefaultValue(n)
		result[n.ID].Output = lat.DefaultValue(n)
	}
	result[g.Entry.ID].Output = lat.InitialValue(g.Entry)

	iterations := 0
	changed := true
	for changed {
		if e.MaxIterations > 0 && iterations >= e.MaxIterations {
			return nil, ErrNoConvergence
		}
		iterations++
		changed = false
		for _, n := range order {
			if n == g.Entry {
				continue
			}
			input := e.mergeAll(n, n.Preds, func(p *cfg.Node) T { return result[p.ID].Output })
			result[n.ID].Input = input
			output := lat.Flow(n, input)
			if !lat.Compare(output, result[n.ID].Output) {
				result[n.ID].Output = output
				changed = true
			}
		}
		logger.Tracef("forward pass %d, changed=%t", iterations, changed)
	}
	logger.Debugf("forward fixed point reached after %d passes", iterations)
	return result, nil
}

// RunBackward solves the backward dataflow problem: values propagate from
// exit along the predecessor relation in the backward reverse post-order. The
// result slice is indexed by node id; nodes that cannot reach exit keep their
// default values.
func (e Engine[T]) RunBackward(g *cfg.Graph) ([]Result[T], error) {
	logger := e.logger()
	lat := e.Lattice
	order := g.BackwardOrder()

	result := make([]Result[T], g.NumNodes())
	for _, n := range g.Nodes() {
		result[n.ID].Input = lat.DefaultValue(n)
		result[n.ID].Output = lat.DefaultValue(n)
	}
	result[g.Exit.ID].Input = lat.InitialValue(g.Exit)

	iterations := 0
	changed := true
	for changed {
		if e.MaxIterations > 0 && iterations >= e.MaxIterations {
			return nil, ErrNoConvergence
		}
		iterations++
		changed = false
		for _, n := range order {
			if n == g.Exit {
				continue
			}
			output := e.mergeAll(n, n.Succs, func(s *cfg.Node) T { return result[s.ID].Input })
			result[n.ID].Output = output
			input := lat.Flow(n, output)
			if !lat.Compare(input, result[n.ID].Input) {
				result[n.ID].Input = input
				changed = true
			}
		}
		logger.Tracef("backward pass %d, changed=%t", iterations, changed)
	}
	logger.Debugf("backward fixed point reached after %d passes", iterations)
	return result, nil
}

// mergeAll folds the lattice values of the neighbor nodes with Merge. The
// builder guarantees every node in an ordering has at least one neighbor on
// the merged side.
func (e Engine[T]) mergeAll(n *cfg.Node, neighbors []*cfg.Node, value func(*cfg.Node) T) T {
	var acc T
	first := true
	for _, nb := range neighbors {
		if first {
			acc = value(nb)
			first = false
		} else {
			acc = e.Lattice.Merge(acc, value(nb))
		}
	}
	if first {
		panic("dataflow: node with no neighbors on the merge side")
	}
	return acc
}

func (e Engine[T]) logger() *config.LogGroup {
	if e.Logger == nil {
		return config.NewDiscardLogGroup()
	}
	return e.Logger
}

// RunForward solves a forward dataflow problem with an unbounded iteration
// budget. Given a lattice honoring the contract, it always terminates.
func RunForward[T any](g *cfg.Graph, lat Lattice[T]) []Result[T] {
	result, err := Engine[T]{Lattice: lat}.RunForward(g)
	if err != nil {
		panic(err) // unreachable without an iteration budget
	}
	return result
}

// RunBackward solves a backward dataflow problem with an unbounded iteration
// budget. Given a lattice honoring the contract, it always terminates.
func RunBackward[T any](g *cfg.Graph, lat Lattice[T]) []Result[T] {
	result, err := Engine[T]{Lattice: lat}.RunBackward(g)
	if err != nil {
		panic(err) // unreachable without an iteration budget
	}
	return result
}
