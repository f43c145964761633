package cfg

// Remap is the result of symbol compaction: a bidirectional mapping
// between the old, possibly sparse symbol space and the new dense one.
type Remap struct {
	// OldToNew maps every old symbol to its new handle, or InvalidSymbol
	// for symbols that were dropped.
	OldToNew []Symbol
	// NewToOld maps every new symbol back to its old handle.
	NewToOld []Symbol
}

// Forward translates an old symbol, reporting whether it survived.
func (m *Remap) Forward(s Symbol) (Symbol, bool) {
	if int(s) >= len(m.OldToNew) || m.OldToNew[s] == InvalidSymbol {
		return InvalidSymbol, false
	}
	return m.OldToNew[s], true
}

// Compact renumbers the symbols that occur in rules or roots to a dense
// [0, k) range, rewrites all productions, roots and name bindings, and
// returns the remap. Rule order and root-set order are preserved.
func (g *Grammar) Compact() *Remap {
	used := make([]bool, g.NumSyms())
	for _, r := range g.rules {
		used[r.LHS] = true
		for _, s := range r.RHS {
			used[s] = true
		}
	}
	for _, s := range g.roots {
		used[s] = true
	}
	remap := &Remap{OldToNew: make([]Symbol, g.NumSyms())}
	source := NewSymbolSource()
	for old, isUsed := range used {
		if !isUsed {
			remap.OldToNew[old] = InvalidSymbol
			continue
		}
		s := source.Sym()
		remap.OldToNew[old] = s
		remap.NewToOld = append(remap.NewToOld, Symbol(old))
		if name, ok := g.source.Name(Symbol(old)); ok {
			source.BindName(s, name)
		}
	}
	for i, r := range g.rules {
		rhs := make([]Symbol, len(r.RHS))
		for j, s := range r.RHS {
			rhs[j] = remap.OldToNew[s]
		}
		g.rules[i] = Rule{LHS: remap.OldToNew[r.LHS], RHS: rhs, History: r.History}
	}
	for i, s := range g.roots {
		g.roots[i] = remap.OldToNew[s]
	}
	g.source = source
	tracer().Debugf("compacted symbol space to %d symbols", source.NumSyms())
	return remap
}
