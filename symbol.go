package cfg

import "fmt"

// Symbol is a semantic identifier within one grammar: an opaque numeric
// handle, densely allocated starting from 0. Symbols carry no terminal or
// non-terminal tag; terminality is derived from rule positions.
type Symbol uint32

// InvalidSymbol is outside of every grammar's symbol space.
const InvalidSymbol = Symbol(^uint32(0))

// ID returns the symbol's numeric handle.
func (s Symbol) ID() int {
	return int(s)
}

func (s Symbol) String() string {
	if s == InvalidSymbol {
		return "<invalid>"
	}
	return fmt.Sprintf("sym(%d)", uint32(s))
}

// SymbolSource allocates dense, monotonically increasing symbol
// identifiers, optionally tagging each with a display name for diagnostics.
// Symbol IDs are stable within one grammar; compaction issues a remap.
type SymbolSource struct {
	nextID uint32
	names  map[Symbol]string
}

// NewSymbolSource creates a source with an empty symbol space.
func NewSymbolSource() *SymbolSource {
	return &SymbolSource{names: make(map[Symbol]string)}
}

// Sym generates a new unique symbol.
func (src *SymbolSource) Sym() Symbol {
	s := Symbol(src.nextID)
	src.nextID++
	return s
}

// SymN generates n new unique symbols.
func (src *SymbolSource) SymN(n int) []Symbol {
	syms := make([]Symbol, n)
	for i := range syms {
		syms[i] = src.Sym()
	}
	return syms
}

// NamedSym generates a new unique symbol and binds a display name to it.
func (src *SymbolSource) NamedSym(name string) Symbol {
	s := src.Sym()
	src.names[s] = name
	return s
}

// NumSyms returns the number of symbols in use.
func (src *SymbolSource) NumSyms() int {
	return int(src.nextID)
}

// Owns checks whether a symbol has been allocated by this source.
func (src *SymbolSource) Owns(s Symbol) bool {
	return uint32(s) < src.nextID
}

// Name returns the display name bound to a symbol, if any.
func (src *SymbolSource) Name(s Symbol) (string, bool) {
	name, ok := src.names[s]
	return name, ok
}

// BindName attaches a display name to a symbol.
func (src *SymbolSource) BindName(s Symbol, name string) {
	src.names[s] = name
}

// clone returns an independent copy of the source.
func (src *SymbolSource) clone() *SymbolSource {
	names := make(map[Symbol]string, len(src.names))
	for s, n := range src.names {
		names[s] = n
	}
	return &SymbolSource{nextID: src.nextID, names: names}
}
