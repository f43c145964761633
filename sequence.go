package cfg

import "fmt"

// Sequence rules describe repetition with an optional separator, similar
// to regex quantifiers with numbering. They exist only in the builder
// layer: RewriteSequences lowers them to plain productions before any
// analysis or rewrite sees the grammar.

// SeparatorKind is the mode of separation in a sequence.
type SeparatorKind int8

// Modes of separation.
const (
	// NoSeparator means elements follow each other directly.
	NoSeparator SeparatorKind = iota
	// Proper separation puts the separator between elements only.
	Proper
	// Liberal separation is the union of Proper and Trailing: the
	// trailing separator may or may not be present.
	Liberal
	// Trailing separation puts the separator after every element.
	Trailing
)

func (k SeparatorKind) String() string {
	switch k {
	case NoSeparator:
		return "none"
	case Proper:
		return "proper"
	case Liberal:
		return "liberal"
	case Trailing:
		return "trailing"
	}
	return "unknown"
}

// prefix returns the separation mode for a prefix of a longer sequence:
// every element of the prefix is followed by the separator.
func (k SeparatorKind) prefix() SeparatorKind {
	if k == Proper || k == Liberal {
		return Trailing
	}
	return k
}

// Sequence is a transient sequence rule: lhs derives between Min and Max
// repetitions of RHS, separated per SepKind. Max < 0 means unbounded.
type Sequence struct {
	LHS     Symbol
	RHS     Symbol
	Min     int
	Max     int // inclusive; -1 for unbounded
	Sep     Symbol
	SepKind SeparatorKind
	History HistoryID
}

// SequenceBuilder builds one sequence rule.
type SequenceBuilder struct {
	g   *Grammar
	seq Sequence
	err error
}

// Sequence starts building a sequence rule for lhs. The default range is
// zero or more repetitions without separation.
func (g *Grammar) Sequence(lhs Symbol) *SequenceBuilder {
	sb := &SequenceBuilder{
		g: g,
		seq: Sequence{
			LHS: lhs, RHS: InvalidSymbol,
			Min: 0, Max: -1,
			Sep: InvalidSymbol, SepKind: NoSeparator,
		},
	}
	if !g.source.Owns(lhs) {
		sb.err = fmt.Errorf("sequence LHS %v: %w", lhs, ErrForeignSymbol)
	}
	return sb
}

// Separator assigns the separator symbol and mode. An unspecified mode
// defaults to Proper.
func (sb *SequenceBuilder) Separator(sep Symbol, kind SeparatorKind) *SequenceBuilder {
	if sb.err == nil && !sb.g.source.Owns(sep) {
		sb.err = fmt.Errorf("separator %v: %w", sep, ErrForeignSymbol)
		return sb
	}
	if kind == NoSeparator {
		kind = Proper
	}
	sb.seq.Sep = sep
	sb.seq.SepKind = kind
	return sb
}

// Inclusive assigns the repetition range. max < 0 means unbounded.
func (sb *SequenceBuilder) Inclusive(min, max int) *SequenceBuilder {
	sb.seq.Min = min
	sb.seq.Max = max
	return sb
}

// RHS assigns the repeated symbol and records the sequence rule on the
// grammar. Returns the first error encountered while building.
func (sb *SequenceBuilder) RHS(inner Symbol) error {
	if sb.err != nil {
		return sb.err
	}
	if !sb.g.source.Owns(inner) {
		return fmt.Errorf("sequence RHS %v: %w", inner, ErrForeignSymbol)
	}
	sb.seq.RHS = inner
	sb.seq.History = sb.g.hist.original(0)
	sb.g.sequences = append(sb.g.sequences, sb.seq)
	return nil
}

// SequenceRules returns the pending, not yet lowered sequence rules.
func (g *Grammar) SequenceRules() []Sequence {
	return append([]Sequence(nil), g.sequences...)
}

// RewriteSequences lowers all pending sequence rules into plain
// productions. Helper symbols are deduplicated for identical sub-ranges of
// the same sequence rule.
func (g *Grammar) RewriteSequences() {
	seqs := g.sequences
	g.sequences = nil
	for _, seq := range seqs {
		rw := &seqRewriter{g: g, helpers: make(map[seqKey]Symbol)}
		rw.rewrite(seq)
	}
}

// seqKey identifies a sub-range of one sequence rule, for helper reuse.
type seqKey struct {
	rhs      Symbol
	min, max int
	sep      Symbol
	kind     SeparatorKind
}

type seqRewriter struct {
	g       *Grammar
	helpers map[seqKey]Symbol
	stack   []Sequence
	topHist HistoryID
	atTop   bool
}

func (rw *seqRewriter) rewrite(top Sequence) {
	rw.topHist = top.History
	rw.atTop = true
	rw.reduce(top)
	rw.atTop = false
	for len(rw.stack) > 0 {
		seq := rw.stack[len(rw.stack)-1]
		rw.stack = rw.stack[:len(rw.stack)-1]
		rw.reduce(seq)
	}
}

func (rw *seqRewriter) emit(lhs Symbol, alternative int, rhs ...Symbol) {
	depth := int32(1)
	if rw.atTop {
		depth = 0
	}
	hist := rw.g.hist.Add(HistoryNode{
		Kind:        HistoryRewriteSequence,
		Prev:        rw.topHist,
		Prev2:       NoHistory,
		Depth:       depth,
		Alternative: int32(alternative),
	})
	rw.g.addRule(lhs, rhs, hist)
}

// recurse returns a helper symbol deriving the given sub-range, scheduling
// its reduction unless an identical sub-range was reduced before.
func (rw *seqRewriter) recurse(seq Sequence) Symbol {
	key := seqKey{rhs: seq.RHS, min: seq.Min, max: seq.Max, sep: seq.Sep, kind: seq.SepKind}
	if lhs, ok := rw.helpers[key]; ok {
		return lhs
	}
	lhs := rw.g.Sym()
	rw.helpers[key] = lhs
	seq.LHS = lhs
	rw.stack = append(rw.stack, seq)
	return lhs
}

func (rw *seqRewriter) with(seq Sequence, min, max int, kind SeparatorKind) Sequence {
	seq.Min, seq.Max, seq.SepKind = min, max, kind
	return seq
}

func (rw *seqRewriter) reduce(seq Sequence) {
	lhs, inner, sep := seq.LHS, seq.RHS, seq.Sep
	switch {
	case seq.Min == 0:
		// seq ::= ε | rest
		rw.emit(lhs, 0)
		if seq.Max != 0 {
			rest := rw.recurse(rw.with(seq, 1, seq.Max, seq.SepKind))
			rw.emit(lhs, 1, rest)
		}
	case seq.Max < 0 && seq.Min == 1:
		switch seq.SepKind {
		case NoSeparator:
			rw.emit(lhs, 0, inner)
			rw.emit(lhs, 1, inner, lhs)
		case Proper:
			rw.emit(lhs, 0, inner)
			rw.emit(lhs, 1, inner, sep, lhs)
		case Liberal:
			rw.emit(lhs, 0, inner)
			rw.emit(lhs, 1, inner, sep)
			rw.emit(lhs, 2, inner, sep, lhs)
		case Trailing:
			rw.emit(lhs, 0, inner, sep)
			rw.emit(lhs, 1, inner, sep, lhs)
		}
	case seq.Max < 0: // Min >= 2
		prefix := rw.recurse(rw.with(seq, seq.Min-1, seq.Min-1, seq.SepKind.prefix()))
		rest := rw.recurse(rw.with(seq, 1, -1, seq.SepKind))
		rw.emit(lhs, 0, prefix, rest)
	case seq.SepKind == Liberal:
		proper := rw.recurse(rw.with(seq, seq.Min, seq.Max, Proper))
		trailing := rw.recurse(rw.with(seq, seq.Min, seq.Max, Trailing))
		rw.emit(lhs, 0, proper)
		rw.emit(lhs, 1, trailing)
	case seq.SepKind == Trailing:
		proper := rw.recurse(rw.with(seq, seq.Min, seq.Max, Proper))
		rw.emit(lhs, 0, proper, sep)
	case seq.Min == 1 && seq.Max == 1:
		rw.emit(lhs, 0, inner)
	case seq.Min == 2 && seq.Max == 2:
		if seq.SepKind == Proper {
			rw.emit(lhs, 0, inner, sep, inner)
		} else {
			rw.emit(lhs, 0, inner, inner)
		}
	case seq.Min == 1 && seq.Max == 2:
		one := rw.recurse(rw.with(seq, 1, 1, seq.SepKind))
		two := rw.recurse(rw.with(seq, 2, 2, seq.SepKind))
		rw.emit(lhs, 0, one)
		rw.emit(lhs, 1, two)
	case seq.Min == 1: // Max >= 3
		half := nextPowerOfTwo(seq.Max) / 2
		left := rw.recurse(rw.with(seq, 0, half, seq.SepKind.prefix()))
		right := rw.recurse(rw.with(seq, 1, seq.Max-half, seq.SepKind))
		rw.emit(lhs, 0, left, right)
	case seq.Min == seq.Max: // a "block", Min >= 3
		half := nextPowerOfTwo(seq.Min) / 2
		left := rw.recurse(rw.with(seq, half, half, seq.SepKind.prefix()))
		right := rw.recurse(rw.with(seq, seq.Min-half, seq.Min-half, seq.SepKind))
		rw.emit(lhs, 0, left, right)
	default: // a "span", 2 <= Min < Max
		left := rw.recurse(rw.with(seq, seq.Min-1, seq.Min-1, seq.SepKind.prefix()))
		right := rw.recurse(rw.with(seq, 1, seq.Max-seq.Min+1, seq.SepKind))
		rw.emit(lhs, 0, left, right)
	}
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
