package cfg

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// ruleShapes flattens the grammar into comparable (lhs, rhs...) tuples.
func ruleShapes(g *Grammar) [][]Symbol {
	var shapes [][]Symbol
	g.EachRule(func(r Rule) {
		shape := append([]Symbol{r.LHS}, r.RHS...)
		shapes = append(shapes, shape)
	})
	return shapes
}

func assertShapes(t *testing.T, got, want [][]Symbol) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d rules, have %d:\n got %v\nwant %v", len(want), len(got), got, want)
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("rule %d differs:\n got %v\nwant %v", i, got, want)
		}
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Fatalf("rule %d differs:\n got %v\nwant %v", i, got, want)
			}
		}
	}
}

func TestSequenceUnboundedProper(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.grammar")
	defer teardown()
	//
	g := NewGrammar()
	list, item, comma := g.Sym(), g.Sym(), g.Sym()
	if err := g.Sequence(list).Separator(comma, Proper).Inclusive(1, -1).RHS(item); err != nil {
		t.Fatal(err)
	}
	g.RewriteSequences()
	assertShapes(t, ruleShapes(g), [][]Symbol{
		{list, item},
		{list, item, comma, list},
	})
}

func TestSequenceUnboundedLiberal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.grammar")
	defer teardown()
	//
	g := NewGrammar()
	list, item, comma := g.Sym(), g.Sym(), g.Sym()
	g.Sequence(list).Separator(comma, Liberal).Inclusive(1, -1).RHS(item)
	g.RewriteSequences()
	assertShapes(t, ruleShapes(g), [][]Symbol{
		{list, item},
		{list, item, comma},
		{list, item, comma, list},
	})
}

func TestSequenceUnboundedTrailing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.grammar")
	defer teardown()
	//
	g := NewGrammar()
	list, item, semi := g.Sym(), g.Sym(), g.Sym()
	g.Sequence(list).Separator(semi, Trailing).Inclusive(1, -1).RHS(item)
	g.RewriteSequences()
	assertShapes(t, ruleShapes(g), [][]Symbol{
		{list, item, semi},
		{list, item, semi, list},
	})
}

func TestSequenceZeroOrMore(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.grammar")
	defer teardown()
	//
	g := NewGrammar()
	list, item := g.Sym(), g.Sym() // syms 0, 1
	g.Sequence(list).RHS(item)     // defaults: 0 or more, no separator
	g.RewriteSequences()
	rest := Symbol(2) // helper for "one or more"
	assertShapes(t, ruleShapes(g), [][]Symbol{
		{list},
		{list, rest},
		{rest, item},
		{rest, item, rest},
	})
}

func TestSequenceFiniteRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.grammar")
	defer teardown()
	//
	g := NewGrammar()
	list, item := g.Sym(), g.Sym() // syms 0, 1
	g.Sequence(list).Inclusive(1, 2).RHS(item)
	g.RewriteSequences()
	one, two := Symbol(2), Symbol(3)
	// Helpers reduce in stack order: the later one first.
	assertShapes(t, ruleShapes(g), [][]Symbol{
		{list, one},
		{list, two},
		{two, item, item},
		{one, item},
	})
}

func TestSequenceHelperDedup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.grammar")
	defer teardown()
	//
	// In 1..4 the sub-range (1,2) occurs at two split points but gets a
	// single helper.
	g := NewGrammar()
	list, item := g.Sym(), g.Sym()
	g.Sequence(list).Inclusive(1, 4).RHS(item)
	g.RewriteSequences()
	sub := NewGrammar()
	subList, subItem := sub.Sym(), sub.Sym()
	sub.Sequence(subList).Inclusive(1, 4).RHS(subItem)
	sub.Sequence(subList).Inclusive(1, 4).RHS(subItem)
	sub.RewriteSequences()
	// Each top-level rewrite allocates its own helpers, but within one
	// rewrite identical sub-ranges share a helper, so the second grammar
	// has exactly twice the rules of the first.
	if 2*g.NumRules() != sub.NumRules() {
		t.Errorf("helper sharing differs: %d vs %d rules", g.NumRules(), sub.NumRules())
	}
	// The lowered grammar still derives at least one item.
	d := g.MinSentenceLengths()
	if d[list] != 1 {
		t.Errorf("expected minimal length 1 for the sequence LHS, got %d", d[list])
	}
}

func TestSequenceForeignSymbol(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.grammar")
	defer teardown()
	//
	g := NewGrammar()
	list := g.Sym()
	if err := g.Sequence(list).RHS(Symbol(42)); err == nil {
		t.Errorf("expected error for foreign sequence RHS")
	}
}
