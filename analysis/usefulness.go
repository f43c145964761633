package analysis

import (
	"fmt"

	"github.com/npillmayer/cfg"
	"github.com/npillmayer/cfg/sparse"
)

// Usefulness holds the information about usefulness of a grammar's rules.
// Useful rules are both reachable from a root and productive.
type Usefulness struct {
	g          *cfg.Grammar
	productive []bool
	reachable  []bool
}

// UselessRule is a useless rule together with the reason for its
// uselessness.
type UselessRule struct {
	// Index of the rule in rule order.
	Index int
	Rule  cfg.Rule
	// Unreachable means the LHS cannot be reached from any root.
	Unreachable bool
	// Unproductive means some RHS symbol derives no terminal string.
	Unproductive bool
}

// NewUsefulness analyzes reachability (from the grammar's roots) and
// productivity of all symbols. Symbols that occur in no rule at all are
// treated as both reachable and productive, so they cannot poison the
// verdict for rules that never mention them.
func NewUsefulness(g *cfg.Grammar) *Usefulness {
	n := g.NumSyms()
	productive := g.ProductiveSet()
	reach := sparse.NewBitMatrix(n)
	used := make([]bool, n)
	g.EachRule(func(r cfg.Rule) {
		used[r.LHS] = true
		reach.Set(r.LHS.ID(), r.LHS.ID(), true)
		for _, s := range r.RHS {
			used[s] = true
			reach.Set(r.LHS.ID(), s.ID(), true)
		}
	})
	reach.TransitiveClosure()
	reachable := make([]bool, n)
	for _, root := range g.Roots() {
		reachable[root] = true
		for j := 0; j < n; j++ {
			if reach.Bit(root.ID(), j) {
				reachable[j] = true
			}
		}
	}
	for s, isUsed := range used {
		if !isUsed {
			productive[s] = true
			reachable[s] = true
		}
	}
	return &Usefulness{g: g, productive: productive, reachable: reachable}
}

// Productive checks whether a symbol derives some all-terminal string.
func (u *Usefulness) Productive(sym cfg.Symbol) bool {
	return u.productive[sym]
}

// Reachable checks whether a symbol is reachable from some root.
func (u *Usefulness) Reachable(sym cfg.Symbol) bool {
	return u.reachable[sym]
}

// AllUseful checks whether every rule of the grammar is useful.
func (u *Usefulness) AllUseful() bool {
	return len(u.UselessRules()) == 0
}

// UselessRules returns the rules that are unreachable or unproductive, in
// rule order.
func (u *Usefulness) UselessRules() []UselessRule {
	var useless []UselessRule
	for i, r := range u.g.Rules() {
		productive := true
		for _, s := range r.RHS {
			if !u.productive[s] {
				productive = false
				break
			}
		}
		reachable := u.reachable[r.LHS]
		if !reachable || !productive {
			useless = append(useless, UselessRule{
				Index:        i,
				Rule:         r,
				Unreachable:  !reachable,
				Unproductive: !productive,
			})
		}
	}
	return useless
}

// RemoveUseless removes all useless rules. The language represented by
// the grammar does not change. If the removal would strand the start
// symbol, the grammar is left unchanged and ErrUnproductiveStart is
// returned; without roots, ErrNoStart.
func (u *Usefulness) RemoveUseless() error {
	start, err := u.g.Start()
	if err != nil {
		return err
	}
	if !u.productive[start] {
		return fmt.Errorf("remove useless: start %v: %w", start, cfg.ErrUnproductiveStart)
	}
	before := u.g.NumRules()
	u.g.Retain(func(r cfg.Rule) bool {
		if !u.reachable[r.LHS] {
			return false
		}
		for _, s := range r.RHS {
			if !u.productive[s] {
				return false
			}
		}
		return true
	})
	tracer().Debugf("removed %d useless rules", before-u.g.NumRules())
	return nil
}
