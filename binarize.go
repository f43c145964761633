package cfg

import "fmt"

// Binarization rewrites every production to a right-hand side of length
// at most two, the shape required by Earley-style and CYK-style parsers.

// IsBinarized checks that every production's RHS has length ≤ 2.
func (g *Grammar) IsBinarized() bool {
	for _, r := range g.rules {
		if len(r.RHS) > 2 {
			return false
		}
	}
	return true
}

// Binarize returns a weakly equivalent grammar in which every production
// has at most two symbols on the right-hand side. Pending sequence rules
// are lowered first. Long rules grow a left-folded chain of fresh helper
// symbols:
//
//    A ::= x1 x2 … xn
//
// becomes
//
//    A  ::= H1 xn
//    H1 ::= H2 x(n-1)
//    …
//    Hk ::= x1 x2
//
// Helpers are fresh per production; their histories derive from the parent
// production with increasing depth.
func (g *Grammar) Binarize() *Grammar {
	src := g.Clone()
	src.RewriteSequences()
	ng := &Grammar{
		source:           src.source,
		roots:            src.roots,
		hist:             src.hist,
		nullsEmptyString: src.nullsEmptyString,
	}
	for _, r := range src.rules {
		ng.addBinarized(r)
	}
	tracer().Debugf("binarized %d rules into %d", len(src.rules), len(ng.rules))
	return ng
}

func (ng *Grammar) addBinarized(r Rule) {
	binHist := func(depth int) HistoryID {
		return ng.hist.Add(HistoryNode{
			Kind:  HistoryBinarize,
			Prev:  r.History,
			Prev2: NoHistory,
			Depth: int32(depth),
		})
	}
	if len(r.RHS) <= 2 {
		ng.addRule(r.LHS, r.RHS, binHist(0))
		return
	}
	// Helpers H1 … Hk, consumed right to left.
	helpers := ng.source.SymN(len(r.RHS) - 2)
	lhs := r.LHS
	for depth := 0; depth < len(helpers); depth++ {
		ng.addRule(lhs, []Symbol{helpers[depth], r.RHS[len(r.RHS)-1-depth]}, binHist(depth))
		lhs = helpers[depth]
	}
	ng.addRule(lhs, r.RHS[:2], binHist(len(helpers)))
}

// EliminateNulling removes ε-productions from a binarized grammar. For
// every rule with nullable RHS symbols it adds the variants with those
// symbols elided, then drops all nulling rules. Whether the empty string
// is in the language of the start symbol is recorded separately and
// available through NullsEmptyString. Rules made unproductive by the
// split are pruned, so no former nonterminal is left looking terminal.
//
// The rule list is replaced atomically; on error the grammar is unchanged.
// Fails with ErrNotBinarized unless every RHS has length ≤ 2.
func (g *Grammar) EliminateNulling() error {
	if !g.IsBinarized() {
		return fmt.Errorf("eliminate nulling: %w", ErrNotBinarized)
	}
	nullable := g.NullableSet()
	elimHist := func(prev HistoryID, which RhsSubset) HistoryID {
		return g.hist.Add(HistoryNode{
			Kind:  HistoryEliminateNulling,
			Prev:  prev,
			Prev2: NoHistory,
			Which: which,
		})
	}
	rewritten := make([]Rule, 0, len(g.rules))
	for _, r := range g.rules {
		if len(r.RHS) == 0 {
			continue
		}
		rewritten = append(rewritten, r)
		if len(r.RHS) == 2 {
			left, right := nullable[r.RHS[0]], nullable[r.RHS[1]]
			if left {
				rewritten = append(rewritten, Rule{
					LHS: r.LHS, RHS: []Symbol{r.RHS[1]},
					History: elimHist(r.History, RhsLeft),
				})
			}
			if right {
				rewritten = append(rewritten, Rule{
					LHS: r.LHS, RHS: []Symbol{r.RHS[0]},
					History: elimHist(r.History, RhsRight),
				})
			}
		}
	}
	for _, root := range g.roots {
		if int(root) < len(nullable) && nullable[root] {
			g.nullsEmptyString = true
		}
	}
	// Dropping ε-rules can strand symbols whose only derivation was
	// empty; prune rules mentioning them. Terminality is judged on the
	// original rule list, so a former ε-only nonterminal does not pass
	// as a terminal.
	productive := g.TerminalSet()
	probe := &Grammar{source: g.source, rules: rewritten, hist: g.hist}
	newRhsClosure(probe).close(productive)
	kept := rewritten[:0]
	for _, r := range rewritten {
		ok := true
		for _, s := range r.RHS {
			if !productive[s] {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, r)
		}
	}
	g.rules = kept
	return nil
}
