package generate

import (
	"fmt"

	"github.com/npillmayer/cfg"
)

// Weights attach a non-negative weight to every production, in rule
// order. Weights are absolute per production; within an LHS they are
// normalized at sampling time by drawing against their running total.

// alternative is one production of an LHS, with its weight.
type alternative struct {
	rule   int
	rhs    []cfg.Symbol
	weight float64
	// minLen is the summed minimal sentence length of the RHS, -1 if
	// some RHS symbol is unproductive.
	minLen int
}

// Weighted indexes a grammar's productions by LHS for weighted sampling.
type Weighted struct {
	byLHS map[cfg.Symbol][]alternative
}

// NewWeighted builds the sampling index. weights must either be nil
// (every production gets weight 1) or parallel to the grammar's rule
// order. minLen gives per-symbol minimal sentence lengths as returned by
// Grammar.MinSentenceLengths.
func NewWeighted(g *cfg.Grammar, weights []float64, minLen []int) (*Weighted, error) {
	if weights != nil && len(weights) != g.NumRules() {
		return nil, fmt.Errorf("generate: %d weights for %d rules", len(weights), g.NumRules())
	}
	w := &Weighted{byLHS: make(map[cfg.Symbol][]alternative)}
	for idx, r := range g.Rules() {
		weight := 1.0
		if weights != nil {
			weight = weights[idx]
		}
		if weight < 0 {
			return nil, fmt.Errorf("generate: negative weight %g for rule %d", weight, idx)
		}
		sum := 0
		for _, s := range r.RHS {
			if minLen[s] < 0 {
				sum = -1
				break
			}
			sum += minLen[s]
		}
		w.byLHS[r.LHS] = append(w.byLHS[r.LHS], alternative{
			rule:   idx,
			rhs:    r.RHS,
			weight: weight,
			minLen: sum,
		})
	}
	return w, nil
}

// pick selects among the alternatives of lhs whose minimal expansion fits
// the budget, proportionally to their weights. A zero-weight alternative
// is chosen only if it is the sole feasible one. Returns nil if no
// alternative is choosable.
func (w *Weighted) pick(lhs cfg.Symbol, budget int, src Source) *alternative {
	alts := w.byLHS[lhs]
	var feasible []*alternative
	total := 0.0
	for i := range alts {
		alt := &alts[i]
		if alt.minLen < 0 || alt.minLen > budget {
			continue
		}
		feasible = append(feasible, alt)
		total += alt.weight
	}
	if len(feasible) == 0 {
		return nil
	}
	if total <= 0 {
		if len(feasible) == 1 {
			return feasible[0]
		}
		return nil
	}
	value := src.Float64() * total
	for _, alt := range feasible {
		if alt.weight <= 0 {
			continue
		}
		value -= alt.weight
		if value < 0 {
			return alt
		}
	}
	// Guard against float underrun at the top of the range.
	for i := len(feasible) - 1; i >= 0; i-- {
		if feasible[i].weight > 0 {
			return feasible[i]
		}
	}
	return nil
}
