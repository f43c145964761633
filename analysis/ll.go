package analysis

import (
	"fmt"

	"github.com/npillmayer/cfg"
)

// LL(1) classification. A grammar is LL(1) iff for every nonterminal A
// and every pair of distinct productions A → α and A → β, the FIRST sets
// of α and β are disjoint, a nullable alternative's FOLLOW(A) does not
// intersect the other's FIRST, and at most one alternative is nullable.
// Violations are reported per offending rule pair.

// ConflictKind classifies an LL(1) violation.
type ConflictKind int8

// The conflict kinds.
const (
	// FirstFirst: two alternatives start with the same terminal.
	FirstFirst ConflictKind = iota
	// FirstFollow: a nullable alternative collides with FOLLOW(A).
	FirstFollow
	// NullNull: two alternatives are both nullable.
	NullNull
)

func (k ConflictKind) String() string {
	switch k {
	case FirstFirst:
		return "FIRST/FIRST"
	case FirstFollow:
		return "FIRST/FOLLOW"
	case NullNull:
		return "null/null"
	}
	return "unknown"
}

// NonterminalClass is the classification of one nonterminal.
type NonterminalClass int8

// The nonterminal classes.
const (
	// ClassLL1 means all alternatives of the nonterminal are LL(1)-
	// compatible.
	ClassLL1 NonterminalClass = iota
	// ClassContextFree means the nonterminal needs more than one token of
	// lookahead.
	ClassContextFree
)

// Violation is one LL(1) conflict: a nonterminal, the offending pair of
// rules (as indices in rule order), the conflict kind, and the terminal
// the pair collides on (Epsilon for null/null conflicts).
type Violation struct {
	Nonterminal cfg.Symbol
	Rules       [2]int
	Kind        ConflictKind
	Terminal    int
}

func (v Violation) String() string {
	return fmt.Sprintf("%s conflict on %v between rules %d and %d at terminal %d",
		v.Kind, v.Nonterminal, v.Rules[0], v.Rules[1], v.Terminal)
}

// LLClassification holds per-nonterminal classes and all violations.
type LLClassification struct {
	classes    map[cfg.Symbol]NonterminalClass
	violations []Violation
}

// tableEntry records one LL parse-table cell occupant, together with how
// it got there.
type tableEntry struct {
	rule      int
	viaFollow bool
}

// Classify builds the LL(1) parse relation and classifies nonterminals.
// The parse table for (A, a) contains the rule A → ω iff a ∈ FIRST(ω), or
// ω is nullable and a ∈ FOLLOW(A). Any cell occupied by two distinct rules
// yields a violation, except that two nullable alternatives meeting only
// through FOLLOW(A) are reported once, as a null/null conflict. Requires a
// start symbol for the FOLLOW computation.
func Classify(g *cfg.Grammar, opts ...Option) (*LLClassification, error) {
	first, err := First(g, opts...)
	if err != nil {
		return nil, err
	}
	follow, err := Follow(g, first, opts...)
	if err != nil {
		return nil, err
	}
	type key struct {
		nonterminal cfg.Symbol
		terminal    int
	}
	table := make(map[key][]tableEntry)
	var keys []key // insertion order, for deterministic reporting
	add := func(k key, e tableEntry) {
		if _, ok := table[k]; !ok {
			keys = append(keys, k)
		}
		table[k] = append(table[k], e)
	}
	nullableAlts := make(map[cfg.Symbol][]int)
	var nullableOrder []cfg.Symbol
	for idx, r := range g.Rules() {
		rhsFirst := first.OfString(r.RHS)
		for _, t := range rhsFirst.Values() {
			if t == Epsilon {
				continue
			}
			add(key{r.LHS, t}, tableEntry{rule: idx})
		}
		if rhsFirst.Has(Epsilon) {
			if _, ok := nullableAlts[r.LHS]; !ok {
				nullableOrder = append(nullableOrder, r.LHS)
			}
			nullableAlts[r.LHS] = append(nullableAlts[r.LHS], idx)
			for _, t := range follow.Of(r.LHS).Values() {
				add(key{r.LHS, t}, tableEntry{rule: idx, viaFollow: true})
			}
		}
	}
	result := &LLClassification{classes: make(map[cfg.Symbol]NonterminalClass)}
	for _, k := range keys {
		entries := table[k]
		if _, ok := result.classes[k.nonterminal]; !ok {
			result.classes[k.nonterminal] = ClassLL1
		}
		for i := 1; i < len(entries); i++ {
			a, b := entries[0], entries[i]
			if a.rule == b.rule {
				continue
			}
			if a.viaFollow && b.viaFollow {
				// Both alternatives are nullable; the null/null pass below
				// reports the pair.
				continue
			}
			kind := FirstFirst
			if a.viaFollow != b.viaFollow {
				kind = FirstFollow
			}
			result.violations = append(result.violations, Violation{
				Nonterminal: k.nonterminal,
				Rules:       [2]int{a.rule, b.rule},
				Kind:        kind,
				Terminal:    k.terminal,
			})
			result.classes[k.nonterminal] = ClassContextFree
		}
	}
	for _, lhs := range nullableOrder {
		alts := nullableAlts[lhs]
		for i := 1; i < len(alts); i++ {
			result.violations = append(result.violations, Violation{
				Nonterminal: lhs,
				Rules:       [2]int{alts[0], alts[i]},
				Kind:        NullNull,
				Terminal:    Epsilon,
			})
			result.classes[lhs] = ClassContextFree
		}
	}
	tracer().Debugf("LL(1) classification: %d violations", len(result.violations))
	return result, nil
}

// IsLL1 checks whether the whole grammar is LL(1).
func (c *LLClassification) IsLL1() bool {
	return len(c.violations) == 0
}

// ClassOf returns the class of a nonterminal.
func (c *LLClassification) ClassOf(sym cfg.Symbol) NonterminalClass {
	return c.classes[sym]
}

// Violations returns all conflicts found.
func (c *LLClassification) Violations() []Violation {
	return append([]Violation(nil), c.violations...)
}
