package analysis

import (
	"errors"
	"testing"

	"github.com/npillmayer/cfg"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// S → A B; A → ε | a; B → b
func nullableGrammar() (*cfg.Grammar, []cfg.Symbol) {
	g := cfg.NewGrammar()
	S, A, B, a, b := g.Sym(), g.Sym(), g.Sym(), g.Sym(), g.Sym()
	g.Rule(S).RHS(A, B)
	g.Rule(A).RHS().RHS(a)
	g.Rule(B).RHS(b)
	g.SetRoots(S)
	return g, []cfg.Symbol{S, A, B, a, b}
}

func TestFirstSets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.analysis")
	defer teardown()
	//
	g, syms := nullableGrammar()
	S, A, B, a, b := syms[0], syms[1], syms[2], syms[3], syms[4]
	first, err := First(g)
	if err != nil {
		t.Fatal(err)
	}
	fS := first.Of(S)
	if fS.Size() != 2 || !fS.HasSym(a) || !fS.HasSym(b) {
		t.Errorf("FIRST(S) = %v, expected {a, b}", fS)
	}
	fA := first.Of(A)
	if !fA.Has(Epsilon) || !fA.HasSym(a) {
		t.Errorf("FIRST(A) = %v, expected {ε, a}", fA)
	}
	if fB := first.Of(B); fB.Has(Epsilon) || !fB.HasSym(b) {
		t.Errorf("FIRST(B) = %v, expected {b}", fB)
	}
	// Terminals are their own FIRST set.
	if fa := first.Of(a); fa.Size() != 1 || !fa.HasSym(a) {
		t.Errorf("FIRST(a) = %v, expected {a}", fa)
	}
}

func TestFirstSetsAreAFixedPoint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.analysis")
	defer teardown()
	//
	g, syms := nullableGrammar()
	first, err := First(g)
	if err != nil {
		t.Fatal(err)
	}
	again, err := First(g)
	if err != nil {
		t.Fatal(err)
	}
	for _, sym := range syms {
		one, two := first.Of(sym).Values(), again.Of(sym).Values()
		if len(one) != len(two) {
			t.Fatalf("FIRST(%v) not stable: %v vs %v", sym, one, two)
		}
		for i := range one {
			if one[i] != two[i] {
				t.Errorf("FIRST(%v) not stable: %v vs %v", sym, one, two)
			}
		}
	}
}

func TestFollowSets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.analysis")
	defer teardown()
	//
	g, syms := nullableGrammar()
	S, A, B, _, b := syms[0], syms[1], syms[2], syms[3], syms[4]
	first, err := First(g)
	if err != nil {
		t.Fatal(err)
	}
	follow, err := Follow(g, first)
	if err != nil {
		t.Fatal(err)
	}
	if fS := follow.Of(S); !fS.Has(EOF) {
		t.Errorf("FOLLOW(S) = %v, expected EOF marker", fS)
	}
	// A is followed by whatever B starts with.
	if fA := follow.Of(A); !fA.HasSym(b) || fA.Size() != 1 {
		t.Errorf("FOLLOW(A) = %v, expected {b}", fA)
	}
	// B ends S, so it inherits FOLLOW(S).
	if fB := follow.Of(B); !fB.Has(EOF) {
		t.Errorf("FOLLOW(B) = %v, expected EOF marker", fB)
	}
}

func TestFollowNeedsStart(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.analysis")
	defer teardown()
	//
	g := cfg.NewGrammar()
	S, a := g.Sym(), g.Sym()
	g.Rule(S).RHS(a)
	first, err := First(g)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Follow(g, first); !errors.Is(err, cfg.ErrNoStart) {
		t.Errorf("expected ErrNoStart, got %v", err)
	}
}

func TestCancellation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.analysis")
	defer teardown()
	//
	g, _ := nullableGrammar()
	stop := func() bool { return true }
	if _, err := First(g, WithCancel(stop)); !errors.Is(err, cfg.ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}
}
