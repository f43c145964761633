/*
Package generate samples random terminal strings from probabilistic
context-free grammars (PCFGs).

Every production carries a non-negative weight. The generator expands a
stack of pending symbols, choosing among the alternatives of a nonterminal
by weighted draw — restricted to alternatives whose minimal expansion
still fits within the remaining output budget, so generation of a finite
string always terminates. Symbols may carry negative zero-width lookahead
constraints: assertions that the next emitted terminals do not form a
given forbidden run. Violations trigger bounded backtracking.

With a fixed random source state and a fixed grammar, output is
reproducible.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package generate

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cfg.generate'.
func tracer() tracing.Trace {
	return tracing.Select("cfg.generate")
}
