package cfg

import "errors"

// Error values surfaced by grammar operations. Callers are expected to test
// with errors.Is, as operations may wrap these with context.
var (
	// ErrForeignSymbol flags a symbol that is not owned by the grammar's
	// symbol source.
	ErrForeignSymbol = errors.New("symbol not owned by this grammar")

	// ErrNoStart flags an analysis that needs a start symbol on a grammar
	// without roots.
	ErrNoStart = errors.New("grammar has no start symbol")

	// ErrNotBinarized flags a rewrite with a binarized-input precondition.
	ErrNotBinarized = errors.New("grammar is not binarized")

	// ErrUnproductiveStart means no terminal string is derivable from the
	// start symbol.
	ErrUnproductiveStart = errors.New("start symbol is unproductive")

	// ErrBudgetExceeded means the generator cannot fit a sentence within
	// the output limit.
	ErrBudgetExceeded = errors.New("no sentence fits within the output limit")

	// ErrLookaheadUnsatisfiable means the generator exhausted its backtrack
	// budget under negative lookahead constraints.
	ErrLookaheadUnsatisfiable = errors.New("negative lookahead constraints unsatisfiable")

	// ErrCancelled is returned by long-running analyses when cooperative
	// cancellation fires.
	ErrCancelled = errors.New("operation cancelled")
)
