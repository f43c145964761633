package analysis

import (
	"github.com/npillmayer/cfg"
	"github.com/npillmayer/cfg/sparse"
)

// Cycle detection and elimination. A cycle is a derivation A ⇒⁺ A. The
// relevant relation is the nullable-wrap unit derivation: A derives B in
// one step if some rule A → α B β has α and β nullable. Its transitive
// closure has a set diagonal bit exactly for the symbols on a cycle.

// Cycles provides information about cycles among unit derivations in the
// grammar, and two ways of pruning them.
type Cycles struct {
	g         *cfg.Grammar
	nullable  []bool
	unit      *sparse.BitMatrix
	cycleFree bool
}

// NewCycles analyzes the grammar's cycles.
func NewCycles(g *cfg.Grammar) *Cycles {
	n := g.NumSyms()
	nullable := g.NullableSet()
	unit := sparse.NewBitMatrix(n)
	g.EachRule(func(r cfg.Rule) {
		for _, target := range wrapTargets(r, nullable) {
			// A rule of the form `A ::= A` is a self-loop, not a cycle.
			if target != r.LHS {
				unit.Set(r.LHS.ID(), target.ID(), true)
			}
		}
	})
	unit.TransitiveClosure()
	cycleFree := true
	for i := 0; i < n; i++ {
		if unit.Bit(i, i) {
			cycleFree = false
			break
		}
	}
	return &Cycles{g: g, nullable: nullable, unit: unit, cycleFree: cycleFree}
}

// wrapTargets returns the RHS symbols B of a rule A → α B β where α and β
// are nullable.
func wrapTargets(r cfg.Rule, nullable []bool) []cfg.Symbol {
	allNullable := true
	for _, s := range r.RHS {
		if !nullable[s] {
			allNullable = false
			break
		}
	}
	var targets []cfg.Symbol
	for i, s := range r.RHS {
		if allNullable {
			targets = append(targets, s)
			continue
		}
		// s is the only non-nullable symbol?
		ok := !nullable[s]
		if ok {
			for j, t := range r.RHS {
				if j != i && !nullable[t] {
					ok = false
					break
				}
			}
		}
		if ok {
			targets = append(targets, s)
		}
	}
	return targets
}

// CycleFree checks whether the grammar has no cycles.
func (c *Cycles) CycleFree() bool {
	return c.cycleFree
}

// Derives checks whether a derives b through unit-wrap steps.
func (c *Cycles) Derives(a, b cfg.Symbol) bool {
	return c.unit.Bit(a.ID(), b.ID())
}

// Participants returns the indices of rules that participate in a cycle.
func (c *Cycles) Participants() []int {
	if c.cycleFree {
		return nil
	}
	var participants []int
	for i, r := range c.g.Rules() {
		if c.closesCycle(r) {
			participants = append(participants, i)
		}
	}
	return participants
}

// closesCycle checks for a rule A → α B β with nullable wrap where B
// unit-derives A.
func (c *Cycles) closesCycle(r cfg.Rule) bool {
	for _, target := range wrapTargets(r, c.nullable) {
		if target != r.LHS && c.unit.Bit(target.ID(), r.LHS.ID()) {
			return true
		}
	}
	return false
}

// SCCs reports the strongly connected components of the unit-derivation
// relation with at least two members, in ascending order of their
// smallest symbol.
func (c *Cycles) SCCs() [][]cfg.Symbol {
	n := c.g.NumSyms()
	seen := make([]bool, n)
	var sccs [][]cfg.Symbol
	for i := 0; i < n; i++ {
		if seen[i] || !c.unit.Bit(i, i) {
			continue
		}
		var members []cfg.Symbol
		for j := i; j < n; j++ {
			if c.unit.Bit(i, j) && c.unit.Bit(j, i) {
				seen[j] = true
				members = append(members, cfg.Symbol(j))
			}
		}
		sccs = append(sccs, members)
	}
	return sccs
}

// RemoveCycles removes all unit rules that participate in a cycle. This
// does not preserve the language represented by the grammar.
func (c *Cycles) RemoveCycles() {
	if c.cycleFree {
		return
	}
	c.g.Retain(func(r cfg.Rule) bool {
		return !(len(r.RHS) == 1 && r.RHS[0] != r.LHS &&
			c.unit.Bit(r.RHS[0].ID(), r.LHS.ID()))
	})
}

// RewriteCycles rewrites all rules that participate in a cycle, preserving
// the language: every cycle collapses onto a representative symbol, pure
// unit rules within a cycle are dropped, and rewritten rules move to the
// end of the rule list with a rewrite-cycle history.
func (c *Cycles) RewriteCycles() {
	if c.cycleFree {
		return
	}
	// representative[s] is the symbol s collapses onto, if any.
	representative := make(map[cfg.Symbol]cfg.Symbol)
	elected := make(map[cfg.Symbol]bool)
	c.g.Retain(func(r cfg.Rule) bool {
		if len(r.RHS) != 1 || r.RHS[0] == r.LHS ||
			!c.unit.Bit(r.RHS[0].ID(), r.LHS.ID()) {
			return true
		}
		// `A ::= B` with B deriving A: a genuine cycle through A. The
		// cycle may already have a representative if another of its unit
		// rules was seen first.
		lhs := r.LHS
		if _, mapped := representative[lhs]; !mapped && !elected[lhs] {
			for j := 0; j < c.g.NumSyms(); j++ {
				sym := cfg.Symbol(j)
				if sym != lhs && c.unit.Bit(lhs.ID(), j) && c.unit.Bit(j, lhs.ID()) {
					representative[sym] = lhs
				}
			}
			elected[lhs] = true
			delete(representative, lhs)
		}
		return false
	})
	// Redirect all occurrences of cycle members onto their
	// representative. Changed rules are re-added at the end.
	type pending struct {
		lhs  cfg.Symbol
		rhs  []cfg.Symbol
		prev cfg.HistoryID
	}
	var rewritten []pending
	c.g.Retain(func(r cfg.Rule) bool {
		lhs := r.LHS
		changed := false
		if rep, ok := representative[lhs]; ok {
			lhs = rep
			changed = true
		}
		rhs := append([]cfg.Symbol(nil), r.RHS...)
		for i, s := range rhs {
			if rep, ok := representative[s]; ok {
				rhs[i] = rep
				changed = true
			}
		}
		if changed {
			rewritten = append(rewritten, pending{lhs: lhs, rhs: rhs, prev: r.History})
		}
		return !changed
	})
	for _, p := range rewritten {
		hist := c.g.HistoryGraph().Add(cfg.HistoryNode{
			Kind:  cfg.HistoryRewriteCycle,
			Prev:  p.prev,
			Prev2: cfg.NoHistory,
		})
		if _, err := c.g.AddRuleWithHistory(p.lhs, p.rhs, hist); err != nil {
			tracer().Errorf("rewrite cycles: %v", err)
		}
	}
	tracer().Debugf("rewrote %d rules onto cycle representatives", len(rewritten))
}
