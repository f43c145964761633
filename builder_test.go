package cfg

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestGrammarBuilder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.grammar")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("S").N("A").T("a").End()
	b.LHS("A").T("b").End()
	b.LHS("A").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	if g.NumRules() != 3 {
		t.Errorf("expected 3 rules, have %d", g.NumRules())
	}
	start, err := g.Start()
	if err != nil {
		t.Fatal(err)
	}
	if name := g.SymName(start); name != "S" {
		t.Errorf("expected start 'S', got %q", name)
	}
	// The same name maps to the same symbol in every rule.
	rules := g.Rules()
	if rules[1].LHS != rules[0].RHS[0] {
		t.Errorf("name 'A' was not shared between rules")
	}
	if !rules[2].IsNulling() {
		t.Errorf("epsilon rule is not nulling: %v", rules[2])
	}
}

func TestGrammarBuilderRejectsTerminalLHS(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.grammar")
	defer teardown()
	//
	b := NewGrammarBuilder("broken")
	b.LHS("S").T("a").End()
	b.LHS("a").T("x").End() // 'a' was declared terminal
	if _, err := b.Grammar(); err == nil {
		t.Errorf("expected error for terminal used as LHS")
	}
}

func TestGrammarBuilderEmpty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.grammar")
	defer teardown()
	//
	if _, err := NewGrammarBuilder("empty").Grammar(); err == nil {
		t.Errorf("expected error for empty builder")
	}
}
