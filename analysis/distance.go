package analysis

import (
	"github.com/npillmayer/cfg"
)

// Minimal distance is the length, in terminals, of the shortest terminal
// derivation. It is computed per symbol, and — relative to a set of
// marked rule positions — per dot position within every rule, similar to
// a multi-source shortest path search.

// MinimalDistance computes minimal distances for one grammar snapshot.
type MinimalDistance struct {
	g     *cfg.Grammar
	rules []cfg.Rule
	// minOf is the minimal sentence length per symbol, -1 if unproductive.
	minOf []int
	// prediction and completion distances per symbol, -1 if unknown.
	prediction []int
	completion []int
	// distances per rule and dot position (len(RHS)+1 entries), -1 if the
	// position is unreachable from any marked position.
	distances [][]int
}

// NewMinimalDistance prepares a distance calculation for a grammar.
func NewMinimalDistance(g *cfg.Grammar) *MinimalDistance {
	rules := g.Rules()
	distances := make([][]int, len(rules))
	for i, r := range rules {
		distances[i] = make([]int, len(r.RHS)+1)
		for j := range distances[i] {
			distances[i][j] = -1
		}
	}
	md := &MinimalDistance{
		g:          g,
		rules:      rules,
		minOf:      g.MinSentenceLengths(),
		prediction: negatives(g.NumSyms()),
		completion: negatives(g.NumSyms()),
		distances:  distances,
	}
	return md
}

func negatives(n int) []int {
	v := make([]int, n)
	for i := range v {
		v[i] = -1
	}
	return v
}

// SentenceLength returns the minimal terminal derivation length of a
// symbol, or -1 if the symbol is unproductive. Terminals have length 1.
func (md *MinimalDistance) SentenceLength(sym cfg.Symbol) int {
	return md.minOf[sym]
}

// SentenceLengths returns minimal lengths for all symbols.
func (md *MinimalDistance) SentenceLengths() []int {
	return md.minOf
}

// Distances runs the relaxation for the given marked positions and
// returns distances per rule and dot position. positions maps a rule
// index to marked dot positions within that rule. Results are in rule
// order; tie-breaks are deterministic because relaxation follows rule
// insertion order.
func (md *MinimalDistance) Distances(positions map[int][]int, opts ...Option) ([][]int, error) {
	cf := makeConfig(opts)
	// Distances within the marked rules.
	for idx, r := range md.rules {
		for _, pos := range positions[idx] {
			if pos > len(r.RHS) {
				continue
			}
			min, _ := md.updateRule(0, r.RHS[:pos], idx)
			if min >= 0 {
				setMin(&md.prediction[r.LHS], min)
			}
		}
	}
	// Shortest paths across predictions and completions.
	for changed := true; changed; {
		changed = false
		if cf.cancelled() {
			return nil, cfg.ErrCancelled
		}
		for idx, r := range md.rules {
			if d := md.completion[r.LHS]; d >= 0 {
				_, changedNow := md.updateRule(d, r.RHS, idx)
				changed = changed || changedNow
			}
		}
	}
	return md.distances, nil
}

// updateRule relaxes distances along one rule suffix, right to left.
// A negative cur means "unknown" and is propagated untouched.
func (md *MinimalDistance) updateRule(cur int, rhs []cfg.Symbol, idx int) (int, bool) {
	set := md.distances[idx]
	for dot := len(rhs) - 1; dot >= 0; dot-- {
		sym := rhs[dot]
		if cur >= 0 {
			setMin(&md.completion[sym], cur)
			setMin(&set[dot+1], cur)
			if md.minOf[sym] < 0 {
				cur = -1
			} else {
				cur += md.minOf[sym]
			}
		}
		if p := md.prediction[sym]; p >= 0 && (cur < 0 || p < cur) {
			cur = p
		}
	}
	if cur < 0 {
		return -1, false
	}
	changed := setMin(&set[0], cur)
	return cur, changed
}

// setMin updates a value with the minimum of two values, where -1 means
// "unknown". Reports whether the value was lowered.
func setMin(current *int, value int) bool {
	if *current < 0 || *current > value {
		*current = value
		return true
	}
	return false
}
