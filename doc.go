/*
Package cfg provides tools for building and transforming context-free
grammars (CFGs).

A grammar is an ordered list of productions over a dense space of numeric
symbols. Symbols are undifferentiated: a symbol is considered terminal if
and only if it never appears on the left-hand side of any production.
Clients construct grammars either directly over symbols, or with a
name-driven grammar builder.

Building a Grammar

Grammars over explicit symbols use the grammar's fluent rule builder:

    g := cfg.NewGrammar()
    S, A := g.Sym(), g.Sym()
    a, b := g.Sym(), g.Sym()
    g.Rule(S).RHS(A, b)
    g.Rule(A).RHS(a).RHS()     // A → a | ε
    g.SetRoots(S)

Alternatively, clients may prefer the name-driven builder, which allocates
symbols on the fly:

    b := cfg.NewGrammarBuilder("Expressions")
    b.LHS("Sum").N("Sum").T("+").N("Product").End()
    b.LHS("Sum").N("Product").End()
    g, err := b.Grammar()

Sequence rules (bounded or unbounded repetition with an optional separator)
and precedenced rules (operator-precedence tables with per-level
associativity) are rewritten into plain productions before any analysis:

    g.Sequence(list).Separator(comma, cfg.Proper).Inclusive(0, -1).RHS(item)
    g.RewriteSequences()

Transformations

The package implements the grammar shapes required by table-driven and
Earley-style parsers: binarization (every right-hand side has length ≤ 2),
elimination of nulling rules, and symbol compaction with an explicit remap.
Every production carries a history reference into an append-only history
graph, so synthesized rules can be traced back to user input across any
chain of rewrites.

Static analyses (FIRST/FOLLOW sets, usefulness, minimal derivation
distance, cycle detection, LL(1) classification) live in package analysis.
Weighted random sentence generation for probabilistic grammars lives in
package generate.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cfg

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cfg.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("cfg.grammar")
}
