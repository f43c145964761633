/*
Package codec provides a reversible encoding for grammars.

The encoded form covers symbols, their display names, productions with
their provenance tags, roots, and the empty-string flag. History
serialization preserves the provenance tag of each production, but not
the internal node pointers; decoding re-creates the history graph with
one node per rule. The round-trip law is

    Decode(Encode(g)) ≡ g

up to history-graph internals. Symbol IDs are preserved exactly; callers
who compact a grammar before encoding receive the remap from Compact.

Digest computes a version-tagged hash of the encoded form, suitable for
cheap equality checks in tests and tooling.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/cnf/structhash"
	"github.com/npillmayer/cfg"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cfg.codec'.
func tracer() tracing.Trace {
	return tracing.Select("cfg.codec")
}

type grammarForm struct {
	NumSyms    int               `json:"num_syms"`
	Names      map[uint32]string `json:"names,omitempty"`
	Rules      []ruleForm        `json:"rules"`
	Roots      []uint32          `json:"roots"`
	NullsEmpty bool              `json:"nulls_empty_string,omitempty"`
}

type ruleForm struct {
	LHS    uint32   `json:"lhs"`
	RHS    []uint32 `json:"rhs"`
	Origin string   `json:"origin"`
}

func toForm(g *cfg.Grammar) grammarForm {
	form := grammarForm{
		NumSyms:    g.NumSyms(),
		Names:      make(map[uint32]string),
		NullsEmpty: g.NullsEmptyString(),
	}
	for i := 0; i < g.NumSyms(); i++ {
		if name, ok := g.SymbolSource().Name(cfg.Symbol(i)); ok {
			form.Names[uint32(i)] = name
		}
	}
	hist := g.HistoryGraph()
	for _, r := range g.Rules() {
		rf := ruleForm{
			LHS:    uint32(r.LHS),
			RHS:    make([]uint32, len(r.RHS)),
			Origin: hist.Node(r.History).Kind.String(),
		}
		for i, s := range r.RHS {
			rf.RHS[i] = uint32(s)
		}
		form.Rules = append(form.Rules, rf)
	}
	for _, s := range g.Roots() {
		form.Roots = append(form.Roots, uint32(s))
	}
	return form
}

// Encode serializes a grammar. Pending sequence rules are not encoded;
// lower them first.
func Encode(g *cfg.Grammar) ([]byte, error) {
	if len(g.SequenceRules()) > 0 {
		return nil, fmt.Errorf("codec: grammar has %d pending sequence rules",
			len(g.SequenceRules()))
	}
	data, err := json.Marshal(toForm(g))
	if err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	tracer().Debugf("encoded grammar to %d bytes", len(data))
	return data, nil
}

func kindFromTag(tag string) (cfg.HistoryKind, error) {
	for _, k := range []cfg.HistoryKind{
		cfg.HistoryOriginal, cfg.HistoryBinarize, cfg.HistoryEliminateNulling,
		cfg.HistoryAssignPrecedence, cfg.HistoryRewriteSequence, cfg.HistoryRewriteCycle,
	} {
		if k.String() == tag {
			return k, nil
		}
	}
	return cfg.HistoryOriginal, fmt.Errorf("codec: unknown history tag %q", tag)
}

// Decode reconstructs a grammar from its encoded form.
func Decode(data []byte) (*cfg.Grammar, error) {
	var form grammarForm
	if err := json.Unmarshal(data, &form); err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	g := cfg.NewGrammar()
	for i := 0; i < form.NumSyms; i++ {
		s := g.Sym()
		if name, ok := form.Names[uint32(i)]; ok {
			g.SymbolSource().BindName(s, name)
		}
	}
	for _, rf := range form.Rules {
		kind, err := kindFromTag(rf.Origin)
		if err != nil {
			return nil, err
		}
		rhs := make([]cfg.Symbol, len(rf.RHS))
		for i, s := range rf.RHS {
			rhs[i] = cfg.Symbol(s)
		}
		hist := g.HistoryGraph().Add(cfg.HistoryNode{
			Kind:  kind,
			Prev:  cfg.NoHistory,
			Prev2: cfg.NoHistory,
		})
		if _, err := g.AddRuleWithHistory(cfg.Symbol(rf.LHS), rhs, hist); err != nil {
			return nil, fmt.Errorf("codec: rule %v: %w", rf, err)
		}
	}
	roots := make([]cfg.Symbol, len(form.Roots))
	for i, s := range form.Roots {
		roots[i] = cfg.Symbol(s)
	}
	if err := g.SetRoots(roots...); err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	g.SetNullsEmptyString(form.NullsEmpty)
	return g, nil
}

// Digest returns a version-tagged hash over the grammar's encoded form.
func Digest(g *cfg.Grammar) (string, error) {
	form := toForm(g)
	hash, err := structhash.Hash(form, 1)
	if err != nil {
		return "", fmt.Errorf("codec: %w", err)
	}
	return hash, nil
}
