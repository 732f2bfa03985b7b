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

	"github.com/taclab/tacanalyzer/analysis/cfg"
	"github.com/taclab/tacanalyzer/analysis/config"
	"github.com/yourbasic/graph"
	"golang.org/x/tools/container/intsets"
)

// IrreducibleComponents returns the strongly connected components of the
// graph that are not covered by any natural loop. A reducible graph returns
// nothing: every cyclic component of it is the body of a loop headed by a
// dominating node. Loop identification is run if it has not been.
func IrreducibleComponents(g *cfg.Graph) [][]*cfg.Node {
	loops := g.Loops
	if loops == nil {
		loops = g.IdentifyLoops()
	}
	// two back edges to the same header yield two partial loops; coverage is
	// against the union of the bodies per header
	merged := map[*cfg.Node]*intsets.Sparse{}
	for _, l := range loops {
		body := merged[l.Header]
		if body == nil {
			body = new(intsets.Sparse)
			merged[l.Header] = body
		}
		body.UnionWith(&l.Body)
	}

	fg := NewFlowGraph(g)
	var irreducible [][]*cfg.Node
	for _, component := range graph.StrongComponents(fg) {
		if len(component) < 2 {
			continue
		}
		var set intsets.Sparse
		for _, v := range component {
			set.Insert(v)
		}
		covered := false
		for header, body := range merged {
			if set.Has(int(header.ID)) && set.SubsetOf(body) {
				covered = true
				break
			}
		}
		if !covered {
			sort.Ints(component)
			nodes := make([]*cfg.Node, len(component))
			for i, v := range component {
				nodes[i] = g.Node(uint32(v))
			}
			irreducible = append(irreducible, nodes)
		}
	}
	return irreducible
}

// WarnIrreducible logs every irreducible component of the graph when the
// config asks for it. Returns the components for callers that want to act on
// them.
func WarnIrreducible(g *cfg.Graph, conf *config.Config, logger *config.LogGroup) [][]*cfg.Node {
	if conf == nil {
		conf = config.NewDefault()
	}
	if logger == nil {
		logger = config.NewDiscardLogGroup()
	}
	if !conf.WarnIrreducible {
		return nil
	}
	components := IrreducibleComponents(g)
	for _, component := range components {
		ids := make([]int, len(component))
		for i, n := range component {
			ids[i] = int(n.ID)
		}
		logger.Warnf("irreducible control flow: component %v has no dominating header", ids)
	}
	return components
}
