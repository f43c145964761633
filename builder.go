package cfg

import "fmt"

// GrammarBuilder is a name-driven front end for grammar construction.
// Clients add rules consisting of non-terminal and terminal names; symbols
// are allocated on the fly and shared between rules with the same name.
//
// Example:
//
//    b := cfg.NewGrammarBuilder("G")
//    b.LHS("S").N("A").T("a").End()   // S  →  A a
//    b.LHS("A").T("b").End()          // A  →  b
//    b.LHS("A").Epsilon()             // A  →
//    g, err := b.Grammar()
//
// The first LHS used becomes the grammar's start symbol unless SetRoots is
// called on the resulting grammar. Builders must produce the same
// productions regardless of method-call order among siblings.
type GrammarBuilder struct {
	name    string
	g       *Grammar
	symFor  map[string]Symbol
	asTerm  map[Symbol]bool
	first   Symbol
	hasLHS  bool
	err     error
}

// NewGrammarBuilder creates a builder for a grammar with a display name.
func NewGrammarBuilder(name string) *GrammarBuilder {
	return &GrammarBuilder{
		name:   name,
		g:      NewGrammar(),
		symFor: make(map[string]Symbol),
		asTerm: make(map[Symbol]bool),
		first:  InvalidSymbol,
	}
}

func (b *GrammarBuilder) symbol(name string) Symbol {
	if s, ok := b.symFor[name]; ok {
		return s
	}
	s := b.g.NamedSym(name)
	b.symFor[name] = s
	return s
}

// LHS starts a rule for the non-terminal with the given name.
func (b *GrammarBuilder) LHS(name string) *RuleSpec {
	s := b.symbol(name)
	if !b.hasLHS {
		b.first = s
		b.hasLHS = true
	}
	return &RuleSpec{b: b, lhs: s}
}

// Grammar finalizes construction and returns the grammar. The first LHS
// becomes the single root.
func (b *GrammarBuilder) Grammar() (*Grammar, error) {
	if b.err != nil {
		return nil, b.err
	}
	if !b.hasLHS {
		return nil, fmt.Errorf("builder %q: %w", b.name, ErrNoStart)
	}
	for s, isTerm := range b.asTerm {
		if !isTerm {
			continue
		}
		for _, r := range b.g.rules {
			if r.LHS == s {
				name, _ := b.g.source.Name(s)
				b.err = fmt.Errorf("builder %q: terminal %q appears as LHS", b.name, name)
				return nil, b.err
			}
		}
	}
	if err := b.g.SetRoots(b.first); err != nil {
		return nil, err
	}
	tracer().Debugf("grammar %q built with %d rules over %d symbols",
		b.name, b.g.NumRules(), b.g.NumSyms())
	return b.g, nil
}

// RuleSpec collects the right-hand side of one rule under construction.
type RuleSpec struct {
	b   *GrammarBuilder
	lhs Symbol
	rhs []Symbol
}

// N appends a non-terminal to the RHS.
func (rs *RuleSpec) N(name string) *RuleSpec {
	rs.rhs = append(rs.rhs, rs.b.symbol(name))
	return rs
}

// T appends a terminal to the RHS. Terminality is checked at Grammar():
// a name used with T must never appear as an LHS.
func (rs *RuleSpec) T(name string) *RuleSpec {
	s := rs.b.symbol(name)
	rs.b.asTerm[s] = true
	rs.rhs = append(rs.rhs, s)
	return rs
}

// End finishes the rule and adds it to the grammar.
func (rs *RuleSpec) End() *GrammarBuilder {
	rs.b.g.addRule(rs.lhs, rs.rhs, rs.b.g.hist.original(0))
	return rs.b
}

// Epsilon finishes the rule as a nulling rule lhs → ε.
func (rs *RuleSpec) Epsilon() *GrammarBuilder {
	rs.rhs = nil
	return rs.End()
}
