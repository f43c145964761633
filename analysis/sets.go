package analysis

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/npillmayer/cfg"
)

// FIRST and FOLLOW sets contain terminal symbols plus two markers that
// live outside any grammar's symbol space: Epsilon for the empty string
// and EOF for the end of input.
const (
	// Epsilon marks the empty string in FIRST sets.
	Epsilon = -1
	// EOF marks the end of input in FOLLOW sets.
	EOF = -2
)

// SymbolSet is a deterministic, ordered set of terminal IDs and markers.
type SymbolSet struct {
	inner *treeset.Set
}

func newSymbolSet() *SymbolSet {
	return &SymbolSet{inner: treeset.NewWithIntComparator()}
}

// Add inserts a terminal ID or marker.
func (s *SymbolSet) Add(v int) {
	s.inner.Add(v)
}

// Has checks membership.
func (s *SymbolSet) Has(v int) bool {
	return s.inner.Contains(v)
}

// HasSym checks membership of a grammar symbol.
func (s *SymbolSet) HasSym(sym cfg.Symbol) bool {
	return s.inner.Contains(sym.ID())
}

// Size returns the cardinality.
func (s *SymbolSet) Size() int {
	return s.inner.Size()
}

// Values returns all members in ascending order (markers first).
func (s *SymbolSet) Values() []int {
	vals := s.inner.Values()
	out := make([]int, len(vals))
	for i, v := range vals {
		out[i] = v.(int)
	}
	return out
}

// addAll inserts all members of other except the given marker.
// Reports whether the set grew.
func (s *SymbolSet) addAll(other *SymbolSet, except int) bool {
	before := s.inner.Size()
	it := other.inner.Iterator()
	for it.Next() {
		if v := it.Value().(int); v != except {
			s.inner.Add(v)
		}
	}
	return s.inner.Size() != before
}

func (s *SymbolSet) String() string {
	return fmt.Sprintf("%v", s.Values())
}

// --- FIRST sets ------------------------------------------------------------

// FirstSets holds the FIRST set for every symbol of one grammar.
type FirstSets struct {
	terminal []bool
	sets     map[cfg.Symbol]*SymbolSet
}

// First computes all FIRST sets of the grammar by fixed-point iteration:
// FIRST(A) accumulates, for each production A → x1 … xk, the terminals
// starting x1, then x2 if x1 is nullable, and so on; if all xi are
// nullable, Epsilon.
func First(g *cfg.Grammar, opts ...Option) (*FirstSets, error) {
	cf := makeConfig(opts)
	fs := &FirstSets{
		terminal: g.TerminalSet(),
		sets:     make(map[cfg.Symbol]*SymbolSet),
	}
	rules := g.Rules()
	lookahead := newSymbolSet()
	for changed := true; changed; {
		changed = false
		if cf.cancelled() {
			return nil, cfg.ErrCancelled
		}
		for _, r := range rules {
			fs.collect(lookahead, r.RHS)
			set, ok := fs.sets[r.LHS]
			if !ok {
				set = newSymbolSet()
				fs.sets[r.LHS] = set
			}
			changed = set.addAll(lookahead, EOF) || changed
			lookahead = newSymbolSet()
		}
	}
	tracer().Debugf("FIRST sets of %d nonterminals computed", len(fs.sets))
	return fs, nil
}

// collect accumulates FIRST of a symbol string into vec.
func (fs *FirstSets) collect(vec *SymbolSet, rhs []cfg.Symbol) {
	for _, sym := range rhs {
		if fs.terminal[sym] {
			vec.Add(sym.ID())
			return
		}
		set := fs.sets[sym]
		if set == nil {
			// Not yet built; the fixed point will revisit.
			return
		}
		nullable := false
		it := set.inner.Iterator()
		for it.Next() {
			if v := it.Value().(int); v == Epsilon {
				nullable = true
			} else {
				vec.Add(v)
			}
		}
		if !nullable {
			return
		}
	}
	vec.Add(Epsilon)
}

// Of returns FIRST of a single symbol. For a terminal t this is {t}.
func (fs *FirstSets) Of(sym cfg.Symbol) *SymbolSet {
	if fs.terminal[sym] {
		s := newSymbolSet()
		s.Add(sym.ID())
		return s
	}
	if set, ok := fs.sets[sym]; ok {
		return set
	}
	return newSymbolSet()
}

// OfString returns FIRST of a symbol string.
func (fs *FirstSets) OfString(rhs []cfg.Symbol) *SymbolSet {
	vec := newSymbolSet()
	fs.collect(vec, rhs)
	return vec
}

// --- FOLLOW sets -----------------------------------------------------------

// FollowSets holds the FOLLOW set for every nonterminal of one grammar.
type FollowSets struct {
	start cfg.Symbol
	sets  map[cfg.Symbol]*SymbolSet
}

// Follow computes all FOLLOW sets of the grammar. The start symbol is the
// grammar's first root; Follow fails with cfg.ErrNoStart if no roots are
// set. FOLLOW(start) contains the EOF marker.
func Follow(g *cfg.Grammar, first *FirstSets, opts ...Option) (*FollowSets, error) {
	cf := makeConfig(opts)
	start, err := g.Start()
	if err != nil {
		return nil, err
	}
	fs := &FollowSets{
		start: start,
		sets:  make(map[cfg.Symbol]*SymbolSet),
	}
	rules := g.Rules()
	for _, r := range rules {
		if _, ok := fs.sets[r.LHS]; !ok {
			fs.sets[r.LHS] = newSymbolSet()
		}
	}
	if set, ok := fs.sets[start]; ok {
		set.Add(EOF)
	}
	terminal := g.TerminalSet()
	for changed := true; changed; {
		changed = false
		if cf.cancelled() {
			return nil, cfg.ErrCancelled
		}
		for _, r := range rules {
			// Walk the RHS right to left, carrying the set of terminals
			// that can follow the current position.
			follow := newSymbolSet()
			follow.addAll(fs.sets[r.LHS], Epsilon)
			for i := len(r.RHS) - 1; i >= 0; i-- {
				sym := r.RHS[i]
				if terminal[sym] {
					follow = newSymbolSet()
					follow.Add(sym.ID())
					continue
				}
				changed = fs.sets[sym].addAll(follow, Epsilon) || changed
				symFirst := first.Of(sym)
				if !symFirst.Has(Epsilon) {
					follow = newSymbolSet()
				}
				follow.addAll(symFirst, Epsilon)
			}
		}
	}
	tracer().Debugf("FOLLOW sets of %d nonterminals computed", len(fs.sets))
	return fs, nil
}

// Of returns FOLLOW of a nonterminal.
func (fs *FollowSets) Of(sym cfg.Symbol) *SymbolSet {
	if set, ok := fs.sets[sym]; ok {
		return set
	}
	return newSymbolSet()
}

// Start returns the start symbol the sets were computed for.
func (fs *FollowSets) Start() cfg.Symbol {
	return fs.start
}
