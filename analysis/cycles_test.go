package analysis

import (
	"testing"

	"github.com/npillmayer/cfg"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestCycleDetection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.analysis")
	defer teardown()
	//
	// A → B; B → A; A → a
	g := cfg.NewGrammar()
	A, B, a := g.Sym(), g.Sym(), g.Sym()
	g.Rule(A).RHS(B)
	g.Rule(B).RHS(A)
	g.Rule(A).RHS(a)
	c := NewCycles(g)
	if c.CycleFree() {
		t.Fatalf("grammar has a cycle")
	}
	participants := c.Participants()
	if len(participants) != 2 || participants[0] != 0 || participants[1] != 1 {
		t.Errorf("expected rules 0 and 1 to participate, got %v", participants)
	}
	sccs := c.SCCs()
	if len(sccs) != 1 || len(sccs[0]) != 2 {
		t.Fatalf("expected one SCC {A, B}, got %v", sccs)
	}
	if sccs[0][0] != A || sccs[0][1] != B {
		t.Errorf("unexpected SCC members: %v", sccs[0])
	}
}

func TestCycleDetectionNullableWrap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.analysis")
	defer teardown()
	//
	// A → N B; B → A; N → ε — the wrap around B is nullable, so A and B
	// still form a cycle.
	g := cfg.NewGrammar()
	A, B, N := g.Sym(), g.Sym(), g.Sym()
	g.Rule(A).RHS(N, B)
	g.Rule(B).RHS(A)
	g.Rule(N).RHS()
	c := NewCycles(g)
	if c.CycleFree() {
		t.Errorf("nullable-wrap cycle not detected")
	}
}

func TestCycleFree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.analysis")
	defer teardown()
	//
	g := cfg.NewGrammar()
	S, A, a := g.Sym(), g.Sym(), g.Sym()
	g.Rule(S).RHS(A, a)
	g.Rule(A).RHS(a)
	g.Rule(A).RHS(A) // a self-loop is not a cycle
	if !NewCycles(g).CycleFree() {
		t.Errorf("grammar is cycle-free")
	}
}

func TestRewriteCycles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.analysis")
	defer teardown()
	//
	// A → B; B → A; A → a  collapses onto the representative A with the
	// single production A → a.
	g := cfg.NewGrammar()
	A, B, a := g.Sym(), g.Sym(), g.Sym()
	g.Rule(A).RHS(B)
	g.Rule(B).RHS(A)
	g.Rule(A).RHS(a)
	g.SetRoots(A)
	NewCycles(g).RewriteCycles()
	rules := g.Rules()
	if len(rules) != 1 {
		t.Fatalf("expected a single rule, have:\n%v", g)
	}
	if rules[0].LHS != A || len(rules[0].RHS) != 1 || rules[0].RHS[0] != a {
		t.Errorf("expected A → a, got %v", rules[0])
	}
	if !NewCycles(g).CycleFree() {
		t.Errorf("cycle survived the rewrite")
	}
}

func TestRewriteCyclesRedirectsUses(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.analysis")
	defer teardown()
	//
	// S references both members of the cycle; afterwards it references
	// only the representative.
	g := cfg.NewGrammar()
	S, A, B, a := g.Sym(), g.Sym(), g.Sym(), g.Sym()
	g.Rule(S).RHS(A, B)
	g.Rule(A).RHS(B)
	g.Rule(B).RHS(A)
	g.Rule(A).RHS(a)
	g.SetRoots(S)
	NewCycles(g).RewriteCycles()
	for _, r := range g.Rules() {
		for _, s := range r.RHS {
			if s == B {
				t.Errorf("cycle member %v still referenced in %v", B, r)
			}
		}
	}
	// The rewritten S rule carries a rewrite-cycle history and moved to
	// the end of the rule list.
	rules := g.Rules()
	last := rules[len(rules)-1]
	if last.LHS != S {
		t.Fatalf("expected the S rule to be re-added last, got %v", last)
	}
	if g.HistoryGraph().Node(last.History).Kind != cfg.HistoryRewriteCycle {
		t.Errorf("rewritten rule lost its rewrite-cycle history")
	}
}

func TestRemoveCycles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfg.analysis")
	defer teardown()
	//
	g := cfg.NewGrammar()
	A, B, a := g.Sym(), g.Sym(), g.Sym()
	g.Rule(A).RHS(B)
	g.Rule(B).RHS(A)
	g.Rule(A).RHS(a)
	NewCycles(g).RemoveCycles()
	if g.NumRules() != 1 {
		t.Errorf("expected only A → a to survive:\n%v", g)
	}
}
