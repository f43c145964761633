package cfg

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/pterm/pterm"
)

// Diagnostic output helpers. Dump renders a grammar as a tree, one branch
// per left-hand side with its alternatives as leaves. This is intended for
// debugging sessions and tests, not for machine consumption; use package
// codec for that.

// RuleString formats one production with symbol names.
func (g *Grammar) RuleString(r Rule) string {
	var b strings.Builder
	b.WriteString(g.SymName(r.LHS))
	b.WriteString(" ::=")
	if len(r.RHS) == 0 {
		b.WriteString(" ε")
	}
	for _, s := range r.RHS {
		b.WriteString(" ")
		b.WriteString(g.SymName(s))
	}
	return b.String()
}

func (g *Grammar) String() string {
	var b strings.Builder
	for i, r := range g.rules {
		fmt.Fprintf(&b, "%d: %s\n", i, g.RuleString(r))
	}
	return b.String()
}

// Dump pretty-prints the grammar, grouped by LHS in first-appearance
// order.
func (g *Grammar) Dump() {
	order := arraylist.New() // LHS symbols in first-appearance order
	byLHS := make(map[Symbol][]Rule)
	for _, r := range g.rules {
		if _, ok := byLHS[r.LHS]; !ok {
			order.Add(r.LHS)
		}
		byLHS[r.LHS] = append(byLHS[r.LHS], r)
	}
	ll := pterm.LeveledList{}
	it := order.Iterator()
	for it.Next() {
		lhs := it.Value().(Symbol)
		ll = append(ll, pterm.LeveledListItem{Level: 0, Text: g.SymName(lhs)})
		for _, r := range byLHS[lhs] {
			alt := "ε"
			if len(r.RHS) > 0 {
				names := make([]string, len(r.RHS))
				for i, s := range r.RHS {
					names[i] = g.SymName(s)
				}
				alt = strings.Join(names, " ")
			}
			ll = append(ll, pterm.LeveledListItem{Level: 1, Text: alt})
		}
	}
	root := pterm.NewTreeFromLeveledList(ll)
	pterm.DefaultTree.WithRoot(root).Render()
}
