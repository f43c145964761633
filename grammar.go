package cfg

import "fmt"

// Rule is one production: a left-hand side symbol, an ordered right-hand
// side (possibly empty), and a reference into the grammar's history graph.
// Rules are never mutated in place; rewrites replace the grammar's rule
// list atomically.
type Rule struct {
	LHS     Symbol
	RHS     []Symbol
	History HistoryID
}

func (r Rule) String() string {
	s := fmt.Sprintf("%v ::=", r.LHS)
	for _, sym := range r.RHS {
		s += " " + sym.String()
	}
	if len(r.RHS) == 0 {
		s += " ε"
	}
	return s
}

// IsNulling checks for an empty right-hand side.
func (r Rule) IsNulling() bool {
	return len(r.RHS) == 0
}

// Grammar is the canonical mutable representation of a context-free
// grammar: an ordered sequence of productions over symbols from one
// symbol source, plus a set of root symbols. Production order is
// user-observable and preserved by rewrites unless a rewrite states
// otherwise.
//
// A Grammar is owned exclusively by its caller; concurrent mutation is the
// caller's responsibility to exclude. Analyses run on immutable snapshots
// obtained through Rules().
type Grammar struct {
	source    *SymbolSource
	rules     []Rule
	sequences []Sequence
	roots     []Symbol
	hist      *HistoryGraph
	// nullsEmptyString records whether the empty string is in the language
	// of the start symbol after nulling elimination.
	nullsEmptyString bool
}

// NewGrammar creates an empty grammar with a fresh symbol source.
func NewGrammar() *Grammar {
	return &Grammar{
		source: NewSymbolSource(),
		hist:   NewHistoryGraph(),
	}
}

// Sym generates a new unique symbol owned by this grammar.
func (g *Grammar) Sym() Symbol {
	return g.source.Sym()
}

// NamedSym generates a new unique symbol with a display name.
func (g *Grammar) NamedSym(name string) Symbol {
	return g.source.NamedSym(name)
}

// NumSyms returns the number of symbols in use.
func (g *Grammar) NumSyms() int {
	return g.source.NumSyms()
}

// SymbolSource returns the grammar's symbol source.
func (g *Grammar) SymbolSource() *SymbolSource {
	return g.source
}

// HistoryGraph returns the grammar's history graph.
func (g *Grammar) HistoryGraph() *HistoryGraph {
	return g.hist
}

// SymName returns a printable name for a symbol: its bound name if one
// exists, or its numeric form.
func (g *Grammar) SymName(s Symbol) string {
	if name, ok := g.source.Name(s); ok {
		return name
	}
	return s.String()
}

// AddRule appends a production with fresh original history and returns its
// index in rule order. Fails with ErrForeignSymbol if any symbol is not
// owned by this grammar.
func (g *Grammar) AddRule(lhs Symbol, rhs ...Symbol) (int, error) {
	if err := g.checkOwned(lhs, rhs); err != nil {
		return -1, err
	}
	return g.addRule(lhs, rhs, g.hist.original(0)), nil
}

// AddRuleWithHistory appends a production carrying an existing history
// reference. It is intended for rewrites which derive their own nodes.
func (g *Grammar) AddRuleWithHistory(lhs Symbol, rhs []Symbol, hist HistoryID) (int, error) {
	if err := g.checkOwned(lhs, rhs); err != nil {
		return -1, err
	}
	return g.addRule(lhs, rhs, hist), nil
}

func (g *Grammar) addRule(lhs Symbol, rhs []Symbol, hist HistoryID) int {
	r := Rule{LHS: lhs, RHS: append([]Symbol(nil), rhs...), History: hist}
	g.rules = append(g.rules, r)
	return len(g.rules) - 1
}

func (g *Grammar) checkOwned(lhs Symbol, rhs []Symbol) error {
	if !g.source.Owns(lhs) {
		return fmt.Errorf("LHS %v: %w", lhs, ErrForeignSymbol)
	}
	for _, s := range rhs {
		if !g.source.Owns(s) {
			return fmt.Errorf("RHS %v: %w", s, ErrForeignSymbol)
		}
	}
	return nil
}

// Rules returns the grammar's productions in insertion order. The returned
// slice is a snapshot; mutating the grammar does not affect it.
func (g *Grammar) Rules() []Rule {
	rules := make([]Rule, len(g.rules))
	copy(rules, g.rules)
	return rules
}

// NumRules returns the number of productions.
func (g *Grammar) NumRules() int {
	return len(g.rules)
}

// EachRule calls f for every production in insertion order.
func (g *Grammar) EachRule(f func(r Rule)) {
	for _, r := range g.rules {
		f(r)
	}
}

// Retain filters productions, keeping those for which the predicate
// returns true. Relative order is preserved.
func (g *Grammar) Retain(pred func(r Rule) bool) {
	kept := g.rules[:0]
	for _, r := range g.rules {
		if pred(r) {
			kept = append(kept, r)
		}
	}
	g.rules = kept
}

// ExtendFrom appends all productions of another grammar, preserving their
// histories. Both grammars must share a symbol space; symbols of other not
// owned by g cause ErrForeignSymbol.
func (g *Grammar) ExtendFrom(other *Grammar) error {
	for _, r := range other.rules {
		if err := g.checkOwned(r.LHS, r.RHS); err != nil {
			return err
		}
	}
	for _, r := range other.rules {
		node := other.hist.Node(r.History)
		g.addRule(r.LHS, r.RHS, g.hist.Add(node))
	}
	return nil
}

// SetRoots declares the grammar's root symbols.
func (g *Grammar) SetRoots(roots ...Symbol) error {
	for _, s := range roots {
		if !g.source.Owns(s) {
			return fmt.Errorf("root %v: %w", s, ErrForeignSymbol)
		}
	}
	g.roots = append([]Symbol(nil), roots...)
	return nil
}

// Roots returns the root symbols in the order they were set.
func (g *Grammar) Roots() []Symbol {
	return append([]Symbol(nil), g.roots...)
}

// Start returns the first root, or InvalidSymbol and ErrNoStart if no
// roots are set.
func (g *Grammar) Start() (Symbol, error) {
	if len(g.roots) == 0 {
		return InvalidSymbol, ErrNoStart
	}
	return g.roots[0], nil
}

// NullsEmptyString reports whether nulling elimination determined that the
// empty string is in the language of the start symbol.
func (g *Grammar) NullsEmptyString() bool {
	return g.nullsEmptyString
}

// SetNullsEmptyString overrides the empty-string flag. It is intended for
// deserialization; EliminateNulling sets the flag itself.
func (g *Grammar) SetNullsEmptyString(v bool) {
	g.nullsEmptyString = v
}

// Clone returns a deep copy of the grammar.
func (g *Grammar) Clone() *Grammar {
	ng := &Grammar{
		source:           g.source.clone(),
		rules:            make([]Rule, len(g.rules)),
		sequences:        append([]Sequence(nil), g.sequences...),
		roots:            append([]Symbol(nil), g.roots...),
		hist:             g.hist.clone(),
		nullsEmptyString: g.nullsEmptyString,
	}
	for i, r := range g.rules {
		ng.rules[i] = Rule{LHS: r.LHS, RHS: append([]Symbol(nil), r.RHS...), History: r.History}
	}
	return ng
}

// --- Fluent rule builder ---------------------------------------------------

// RuleBuilder adds flat rules for one left-hand side. Each call to RHS
// produces one production; calls are chainable for alternatives sharing
// the LHS.
type RuleBuilder struct {
	g   *Grammar
	lhs Symbol
	alt int
	err error
}

// Rule starts building flat rules for lhs.
func (g *Grammar) Rule(lhs Symbol) *RuleBuilder {
	rb := &RuleBuilder{g: g, lhs: lhs}
	if !g.source.Owns(lhs) {
		rb.err = fmt.Errorf("LHS %v: %w", lhs, ErrForeignSymbol)
	}
	return rb
}

// RHS adds one production lhs → syms. An empty call adds a nulling rule.
func (rb *RuleBuilder) RHS(syms ...Symbol) *RuleBuilder {
	if rb.err != nil {
		return rb
	}
	if err := rb.g.checkOwned(rb.lhs, syms); err != nil {
		rb.err = err
		return rb
	}
	rb.g.addRule(rb.lhs, syms, rb.g.hist.original(rb.alt))
	rb.alt++
	return rb
}

// Err returns the first error encountered while building.
func (rb *RuleBuilder) Err() error {
	return rb.err
}
