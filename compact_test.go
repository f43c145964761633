package cfg

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestCompact(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.grammar")
	defer teardown()
	//
	g := NewGrammar()
	syms := make([]Symbol, 6)
	for i := range syms {
		syms[i] = g.Sym()
	}
	g.SymbolSource().BindName(syms[4], "X")
	g.Rule(syms[0]).RHS(syms[2], syms[4])
	g.Rule(syms[2]).RHS(syms[4])
	g.SetRoots(syms[4], syms[2])
	remap := g.Compact()
	if g.NumSyms() != 3 {
		t.Fatalf("expected 3 symbols after compaction, have %d", g.NumSyms())
	}
	// Surviving symbols renumber densely in ascending old-ID order.
	if s, ok := remap.Forward(syms[0]); !ok || s != Symbol(0) {
		t.Errorf("unexpected mapping for %v: %v", syms[0], s)
	}
	if s, ok := remap.Forward(syms[2]); !ok || s != Symbol(1) {
		t.Errorf("unexpected mapping for %v: %v", syms[2], s)
	}
	if _, ok := remap.Forward(syms[1]); ok {
		t.Errorf("dropped symbol %v still maps", syms[1])
	}
	// Root-set ordering is preserved.
	roots := g.Roots()
	if len(roots) != 2 || roots[0] != Symbol(2) || roots[1] != Symbol(1) {
		t.Errorf("root order not preserved: %v", roots)
	}
	// Names move along.
	if name, ok := g.SymbolSource().Name(Symbol(2)); !ok || name != "X" {
		t.Errorf("name binding lost in compaction")
	}
	// Rules are rewritten.
	assertShapes(t, ruleShapes(g), [][]Symbol{
		{Symbol(0), Symbol(1), Symbol(2)},
		{Symbol(1), Symbol(2)},
	})
	// The inverse mapping is dense.
	if len(remap.NewToOld) != 3 || remap.NewToOld[2] != syms[4] {
		t.Errorf("unexpected inverse mapping: %v", remap.NewToOld)
	}
}

func TestCompactKeepsDenseGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.grammar")
	defer teardown()
	//
	g := NewGrammar()
	S, a := g.Sym(), g.Sym()
	g.Rule(S).RHS(a)
	g.SetRoots(S)
	remap := g.Compact()
	if g.NumSyms() != 2 {
		t.Errorf("dense grammar should stay at 2 symbols, has %d", g.NumSyms())
	}
	if s, _ := remap.Forward(S); s != S {
		t.Errorf("identity remap expected, got %v", s)
	}
}
