package generate

import (
	"fmt"

	"github.com/npillmayer/cfg"
)

// DefaultMaxBacktrack bounds re-sampling under negative lookahead before
// the generator gives up.
const DefaultMaxBacktrack = 1024

// NegativeRule is a negative zero-width lookahead constraint bound to a
// symbol: whenever Sym is expanded, the next emitted terminals must not
// form the Forbidden run. Sym itself is zero-width and emits nothing.
type NegativeRule struct {
	Sym       cfg.Symbol
	Forbidden []cfg.Symbol
}

// Option configures a Generator.
type Option func(*Generator)

// WithNegativeRules installs negative lookahead constraints.
func WithNegativeRules(rules ...NegativeRule) Option {
	return func(gen *Generator) {
		for _, nr := range rules {
			gen.negative[nr.Sym] = append([]cfg.Symbol(nil), nr.Forbidden...)
		}
	}
}

// WithMaxBacktrack overrides the backtrack budget.
func WithMaxBacktrack(n int) Option {
	return func(gen *Generator) {
		gen.maxBacktrack = n
	}
}

// Generator samples terminal strings from a weighted grammar.
type Generator struct {
	g            *cfg.Grammar
	weighted     *Weighted
	terminal     []bool
	minLen       []int
	negative     map[cfg.Symbol][]cfg.Symbol
	maxBacktrack int
}

// New creates a generator for a grammar with per-production weights (nil
// for uniform weights, otherwise parallel to rule order).
func New(g *cfg.Grammar, weights []float64, opts ...Option) (*Generator, error) {
	gen := &Generator{
		g:            g,
		terminal:     g.TerminalSet(),
		minLen:       g.MinSentenceLengths(),
		negative:     make(map[cfg.Symbol][]cfg.Symbol),
		maxBacktrack: DefaultMaxBacktrack,
	}
	for _, opt := range opts {
		opt(gen)
	}
	// Lookahead guard symbols are zero-width: they emit nothing and
	// contribute nothing to the committed minimum.
	for sym := range gen.negative {
		if sym.ID() < len(gen.minLen) {
			gen.minLen[sym] = 0
		}
	}
	weighted, err := NewWeighted(g, weights, gen.minLen)
	if err != nil {
		return nil, err
	}
	gen.weighted = weighted
	return gen, nil
}

// checkpoint is the restore state of one active lookahead guard.
type checkpoint struct {
	forbidden  []cfg.Symbol
	src        Source
	resultLen  int
	work       []cfg.Symbol
	pendingMin int
	attempts   uint64
}

// Generate samples one terminal string from the grammar's start symbol.
// The output is at most limit terminals long. Fails with
// cfg.ErrBudgetExceeded when no legal sentence fits within the budget,
// and with cfg.ErrLookaheadUnsatisfiable when negative lookahead forces
// more than the configured number of backtracks.
func (gen *Generator) Generate(limit int, src Source) ([]cfg.Symbol, error) {
	start, err := gen.g.Start()
	if err != nil {
		return nil, err
	}
	if gen.minLen[start] < 0 || gen.minLen[start] > limit {
		return nil, fmt.Errorf("start %v: %w", start, cfg.ErrBudgetExceeded)
	}
	work := []cfg.Symbol{start}
	pendingMin := gen.minLen[start]
	var result []cfg.Symbol
	// Guards keyed by the emitted length at which they are checked.
	guards := make(map[int][]*checkpoint)
	backtracks := 0
	for len(work) > 0 {
		sym := work[len(work)-1]
		work = work[:len(work)-1]
		if forbidden, ok := gen.negative[sym]; ok {
			guards[len(result)+len(forbidden)] = append(guards[len(result)+len(forbidden)], &checkpoint{
				forbidden:  forbidden,
				src:        src.Clone(),
				resultLen:  len(result),
				work:       append([]cfg.Symbol(nil), work...),
				pendingMin: pendingMin,
			})
			continue
		}
		if gen.terminal[sym] {
			result = append(result, sym)
			pendingMin -= gen.minLen[sym]
			if len(result) > limit {
				return nil, cfg.ErrBudgetExceeded
			}
			for _, cp := range guards[len(result)] {
				if !suffixIs(result, cp.forbidden) {
					continue
				}
				// The forbidden run materialized: restore the decision
				// point and perturb the draw state.
				src = cp.src.Clone()
				src.Perturb(cp.attempts)
				cp.attempts++
				result = result[:cp.resultLen]
				work = append(work[:0:0], cp.work...)
				pendingMin = cp.pendingMin
				backtracks++
				if backtracks > gen.maxBacktrack {
					return nil, cfg.ErrLookaheadUnsatisfiable
				}
				break
			}
			continue
		}
		// Nonterminal: choose a production that still fits.
		pendingMin -= gen.minLen[sym]
		budget := limit - len(result) - pendingMin
		alt := gen.weighted.pick(sym, budget, src)
		if alt == nil {
			return nil, fmt.Errorf("expanding %v with budget %d: %w",
				sym, budget, cfg.ErrBudgetExceeded)
		}
		for i := len(alt.rhs) - 1; i >= 0; i-- {
			work = append(work, alt.rhs[i])
		}
		pendingMin += alt.minLen
	}
	tracer().Debugf("generated %d terminals with %d backtracks", len(result), backtracks)
	return result, nil
}

func suffixIs(result, forbidden []cfg.Symbol) bool {
	if len(result) < len(forbidden) {
		return false
	}
	tail := result[len(result)-len(forbidden):]
	for i, s := range forbidden {
		if tail[i] != s {
			return false
		}
	}
	return true
}
