package cfg

import "fmt"

// Precedenced rules are built in series of rule alternatives with equal
// precedence. Each call to LowerPrecedence starts a new, looser level.
// Operand positions that reference the rule's own LHS are redirected to
// precedence-level helpers so that the resulting plain grammar encodes the
// precedence table.

// Associativity specifies the associativity of an operator.
type Associativity int8

// The associativities.
const (
	// Left associative (the default).
	Left Associativity = iota
	// Right associative.
	Right
	// Group usually means the operand is delimited, e.g. by parentheses;
	// self-references re-enter from the loosest level.
	Group
)

// PrecedencedRuleBuilder builds a precedenced rule. Obtain one from
// Grammar.PrecedencedRule and finish with Finalize.
type PrecedencedRuleBuilder struct {
	g          *Grammar
	lhs        Symbol
	tighterLHS Symbol
	currentLHS Symbol
	assoc      Associativity
	looseness  int
	alt        int
	groupRules []Rule
	finalized  bool
	err        error
}

// PrecedencedRule starts building a precedenced rule for lhs. The first
// level is the tightest.
func (g *Grammar) PrecedencedRule(lhs Symbol) *PrecedencedRuleBuilder {
	pb := &PrecedencedRuleBuilder{g: g, lhs: lhs, assoc: Left}
	if !g.source.Owns(lhs) {
		pb.err = fmt.Errorf("precedenced LHS %v: %w", lhs, ErrForeignSymbol)
		return pb
	}
	tightest := g.Sym()
	pb.tighterLHS = tightest
	pb.currentLHS = tightest
	return pb
}

// Associativity assigns the associativity influencing the next call to
// RHS. It resets to Left after each alternative.
func (pb *PrecedencedRuleBuilder) Associativity(assoc Associativity) *PrecedencedRuleBuilder {
	pb.assoc = assoc
	return pb
}

// RHS creates a rule alternative at the current precedence level.
func (pb *PrecedencedRuleBuilder) RHS(syms ...Symbol) *PrecedencedRuleBuilder {
	if pb.err != nil {
		return pb
	}
	if err := pb.g.checkOwned(pb.lhs, syms); err != nil {
		pb.err = err
		return pb
	}
	hist := pb.g.hist.Add(HistoryNode{
		Kind:        HistoryAssignPrecedence,
		Prev:        NoHistory,
		Prev2:       NoHistory,
		Looseness:   int32(pb.looseness),
		Alternative: int32(pb.alt),
	})
	pb.alt++
	rhs := append([]Symbol(nil), syms...)
	if pb.assoc == Group {
		// Self-references are resolved at Finalize, when the loosest
		// level is known.
		pb.groupRules = append(pb.groupRules, Rule{LHS: pb.currentLHS, RHS: rhs, History: hist})
	} else {
		// The extreme self-reference stays on this level; all others
		// descend to the tighter level.
		extreme := -1
		for i, s := range rhs {
			if s != pb.lhs {
				continue
			}
			if extreme < 0 || pb.assoc == Right {
				extreme = i
			}
		}
		for i, s := range rhs {
			if s != pb.lhs {
				continue
			}
			if i == extreme {
				rhs[i] = pb.currentLHS
			} else {
				rhs[i] = pb.tighterLHS
			}
		}
		pb.g.addRule(pb.currentLHS, rhs, hist)
	}
	pb.assoc = Left
	return pb
}

// LowerPrecedence assigns lower precedence to rule alternatives that are
// built after this call, bridging the new level to the tighter one.
func (pb *PrecedencedRuleBuilder) LowerPrecedence() *PrecedencedRuleBuilder {
	if pb.err != nil {
		return pb
	}
	pb.looseness++
	pb.alt = 0
	pb.tighterLHS = pb.currentLHS
	pb.currentLHS = pb.g.Sym()
	hist := pb.g.hist.Add(HistoryNode{
		Kind:      HistoryAssignPrecedence,
		Prev:      NoHistory,
		Prev2:     NoHistory,
		Looseness: int32(pb.looseness),
	})
	pb.g.addRule(pb.currentLHS, []Symbol{pb.tighterLHS}, hist)
	return pb
}

// Finalize finishes the precedenced rule: group alternatives re-enter from
// the loosest level, and the user-facing LHS expands to it.
func (pb *PrecedencedRuleBuilder) Finalize() error {
	if pb.err != nil {
		return pb.err
	}
	if pb.finalized {
		return nil
	}
	pb.finalized = true
	loosest := pb.currentLHS
	for _, r := range pb.groupRules {
		for i, s := range r.RHS {
			if s == pb.lhs {
				r.RHS[i] = loosest
			}
		}
		pb.g.addRule(r.LHS, r.RHS, r.History)
	}
	hist := pb.g.hist.Add(HistoryNode{
		Kind:      HistoryAssignPrecedence,
		Prev:      NoHistory,
		Prev2:     NoHistory,
		Looseness: int32(pb.looseness),
	})
	pb.g.addRule(pb.lhs, []Symbol{loosest}, hist)
	return nil
}
