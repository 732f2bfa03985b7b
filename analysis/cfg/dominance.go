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

import "fmt"

// This file implements the iterative dominator algorithm of Cooper, Harvey
// and Kennedy, "A Simple, Fast Dominance Algorithm", and the dominance
// frontier computation of Cytron et al.

// ComputeDominators computes the immediate dominator of every node reachable
// from entry and stores it in Node.Idom. The entry node and nodes unreachable
// from entry end with a nil Idom. The forward ordering is computed lazily if
// needed. Running the pass twice yields the same result.
func (g *Graph) ComputeDominators() {
	order := g.ForwardOrder()

	for _, n := range g.nodes {
		n.Idom = nil
	}
	// the entry node is its own dominator while the fixed point runs
	g.Entry.Idom = g.Entry

	changed := true
	for changed {
		changed = false
		for _, n := range order {
			if n == g.Entry {
				continue
			}
			var newIdom *Node
			for _, p := range n.Preds {
				if p.Idom == nil {
					// unreachable or not yet processed predecessor
					continue
				}
				if newIdom == nil {
					newIdom = p
				} else {
					newIdom = intersect(p, newIdom)
				}
			}
			if newIdom != nil && n.Idom != newIdom {
				n.Idom = newIdom
				changed = true
			}
		}
	}

	g.Entry.Idom = nil
	g.dominatorsComputed = true
}

// intersect walks the node with the higher forward index up its immediate
// dominator chain until both chains meet, returning the closest common
// dominator of a and b.
func intersect(a, b *Node) *Node {
	for a.ForwardIndex != b.ForwardIndex {
		for a.ForwardIndex > b.ForwardIndex {
			a = mustIdom(a)
		}
		for b.ForwardIndex > a.ForwardIndex {
			b = mustIdom(b)
		}
	}
	return a
}

func mustIdom(n *Node) *Node {
	if n.Idom == nil {
		panic(fmt.Sprintf("node %d has no immediate dominator during intersection", n.ID))
	}
	return n.Idom
}

// ensureDominators lazily runs the dominator pass for the analyses that
// require it.
func (g *Graph) ensureDominators() {
	if !g.dominatorsComputed {
		g.ComputeDominators()
	}
}

// Dominates reports whether a dominates b, that is, every path from entry to
// b passes through a. Every node dominates itself. Dominator analysis must
// have run; it is triggered lazily otherwise.
func (g *Graph) Dominates(a, b *Node) bool {
	g.ensureDominators()
	for cur := b; cur != nil; cur = cur.Idom {
		if cur == a {
			return true
		}
	}
	return false
}

// ComputeDominatorTree materialises the dominator tree by filling
// Node.Children from the immediate dominators. Dominator analysis must have
// run; it is triggered lazily otherwise. Re-running the pass rebuilds the
// children sets from scratch.
func (g *Graph) ComputeDominatorTree() {
	g.ensureDominators()
	for _, n := range g.nodes {
		n.Children = nil
	}
	for _, n := range g.nodes {
		if n.Idom != nil {
			n.Idom.Children = append(n.Idom.Children, n)
		}
	}
}

// ComputeDominanceFrontiers computes the dominance frontier of every node
// into Node.DomFrontier. A node v is in the frontier of u when u dominates a
// predecessor of v but does not strictly dominate v. Existing frontier sets
// are cleared first, so the pass is safe to re-run.
func (g *Graph) ComputeDominanceFrontiers() {
	g.ensureDominators()
	for _, n := range g.nodes {
		n.DomFrontier.Clear()
	}
	for _, n := range g.nodes {
		if len(n.Preds) < 2 || n.Idom == nil {
			continue
		}
		for _, p := range n.Preds {
			if p.ForwardIndex < 0 {
				// predecessor unreachable from entry
				continue
			}
			for runner := p; runner != n.Idom; runner = runner.Idom {
				runner.DomFrontier.Insert(int(n.ID))
			}
		}
	}
}

// FrontierNodes resolves the dominance frontier of n to nodes, in id order.
func (g *Graph) FrontierNodes(n *Node) []*Node {
	var nodes []*Node
	for _, id := range n.DomFrontier.AppendTo(nil) {
		nodes = append(nodes, g.Node(uint32(id)))
	}
	return nodes
}
