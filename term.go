// Package repeats finds the longest byte sequences (terms) that occur in
// every document of a corpus at least a required number of times per
// document.
//
// ═══════════════════════════════════════════════════════════════════════════════
// WHAT IS A TERM?
// ═══════════════════════════════════════════════════════════════════════════════
// A term is the unit the engine searches for. It comes in two flavours,
// selected at compile time through a type parameter:
//
//	StringTerm  - a plain byte string, e.g. {0x61, 0x62, 0x63} ("abc")
//	SeqTerm     - a byte sequence where positions may be wildcards,
//	              e.g. A B ? A B (matches ABXAB, ABYAB, ABZAB, ...)
//
// Terms grow one byte at a time. Extending "ab" with byte 'c' gives "abc";
// extending SeqTerm AB with gap 1 and byte A gives AB?A. The engine only
// ever appends: a term always starts and ends with a concrete byte, and
// wildcards appear strictly between bytes.
//
// Terms are totally ordered through Key(), which returns a string whose
// byte-wise comparison agrees with the term order. This makes deduplication
// (map keys) and frontier membership tests (binary search on sorted keys)
// well-defined for both flavours.
// ═══════════════════════════════════════════════════════════════════════════════

package repeats

import (
	"fmt"
	"strings"
)

// Term is the constraint both term flavours satisfy. The type parameter is
// self-referential so that Extend and Suffix return the concrete type and
// the engine never pays for dynamic dispatch.
type Term[T any] interface {
	// Extend returns the term followed by gap wildcards followed by byte b.
	// StringTerm rejects gap > 0.
	Extend(gap int, b byte) T

	// Suffix returns the term with its first position dropped. Used by the
	// string-mode both-ends prune.
	Suffix() T

	// Len is the number of positions, wildcards included.
	Len() int

	// Wildcards is the number of wildcard positions.
	Wildcards() int

	// Key returns a string whose lexicographic order is the term order.
	// Equal keys mean equal terms.
	Key() string

	// Literal returns the raw bytes and true when the term contains no
	// wildcard positions and can be matched against literal byte patterns.
	Literal() ([]byte, bool)

	// Hex renders the term the way the report prints it:
	// [0x61, 0x62, 0x63, ] with "??" for wildcards.
	Hex() string

	// fromByte builds a length-1 term from a single byte. Called on the
	// zero value; this is how generic code constructs the initial frontier.
	fromByte(b byte) T

	// sequence reports whether the flavour supports wildcard gaps.
	sequence() bool
}

// ═══════════════════════════════════════════════════════════════════════════════
// STRING TERMS
// ═══════════════════════════════════════════════════════════════════════════════

// StringTerm is a term with no wildcard positions. It is a string rather
// than a []byte so it can be a map key and compare with < directly.
type StringTerm string

// ByteTerm returns the length-1 term holding exactly b.
func ByteTerm(b byte) StringTerm {
	return StringTerm([]byte{b})
}

func (t StringTerm) fromByte(b byte) StringTerm {
	return ByteTerm(b)
}

// Extend returns t followed by b. String terms cannot contain wildcards, so
// a non-zero gap is an invariant violation in the caller.
func (t StringTerm) Extend(gap int, b byte) StringTerm {
	if gap != 0 {
		panic("repeats: string term cannot be extended across a gap")
	}
	return t + StringTerm([]byte{b})
}

// Suffix returns t without its first byte.
func (t StringTerm) Suffix() StringTerm {
	return t[1:]
}

// Len returns the number of bytes in t.
func (t StringTerm) Len() int { return len(t) }

// Wildcards always returns 0 for string terms.
func (t StringTerm) Wildcards() int { return 0 }

// Key returns t itself: byte strings already sort lexicographically.
func (t StringTerm) Key() string { return string(t) }

// Literal returns the raw bytes. String terms are always literal.
func (t StringTerm) Literal() ([]byte, bool) { return []byte(t), true }

func (t StringTerm) sequence() bool { return false }

// Hex renders the bytes of t in the report format.
//
// Example: StringTerm("ab").Hex() == "[0x61, 0x62, ]"
func (t StringTerm) Hex() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < len(t); i++ {
		fmt.Fprintf(&sb, "0x%02x, ", t[i])
	}
	sb.WriteByte(']')
	return sb.String()
}

// String renders printable bytes as themselves and everything else as \xNN.
func (t StringTerm) String() string {
	var sb strings.Builder
	for i := 0; i < len(t); i++ {
		b := t[i]
		if b >= 0x20 && b < 0x7f {
			sb.WriteByte(b)
		} else {
			fmt.Fprintf(&sb, `\x%02x`, b)
		}
	}
	return sb.String()
}

// ═══════════════════════════════════════════════════════════════════════════════
// SEQUENCE TERMS
// ═══════════════════════════════════════════════════════════════════════════════

// Wildcard marks a sequence position that matches any byte.
const Wildcard int16 = -1

// SeqTerm is a term whose positions are either a byte value (0..255) or
// Wildcard. Sequence terms are never mutated after construction; Suffix and
// Extend return fresh or shared storage that callers must treat as
// read-only.
type SeqTerm []int16

// SeqByteTerm returns the length-1 sequence term holding exactly b.
func SeqByteTerm(b byte) SeqTerm {
	return SeqTerm{int16(b)}
}

func (t SeqTerm) fromByte(b byte) SeqTerm {
	return SeqByteTerm(b)
}

// Extend returns t followed by gap wildcards followed by byte b.
//
// Example: (A B).Extend(1, 'A') == A B ? A
func (t SeqTerm) Extend(gap int, b byte) SeqTerm {
	out := make(SeqTerm, 0, len(t)+gap+1)
	out = append(out, t...)
	for i := 0; i < gap; i++ {
		out = append(out, Wildcard)
	}
	return append(out, int16(b))
}

// Suffix returns t without its first position. The backing array is shared;
// sequence terms are read-only after construction.
func (t SeqTerm) Suffix() SeqTerm { return t[1:] }

// Len returns the number of positions, wildcards included.
func (t SeqTerm) Len() int { return len(t) }

// Wildcards returns the number of wildcard positions.
func (t SeqTerm) Wildcards() int {
	n := 0
	for _, s := range t {
		if s == Wildcard {
			n++
		}
	}
	return n
}

// Key encodes each position as two big-endian bytes of the symbol plus one,
// so Wildcard (-1) maps to 0x0000 and byte values map to 0x0001..0x0100.
// Byte-wise comparison of the encoding agrees with position-wise numeric
// comparison, which is all the frontier needs: a total order where equal
// keys mean equal terms.
func (t SeqTerm) Key() string {
	buf := make([]byte, 0, 2*len(t))
	for _, s := range t {
		v := uint16(s + 1)
		buf = append(buf, byte(v>>8), byte(v))
	}
	return string(buf)
}

// Literal reports false: sequence terms are not matched against literal
// byte patterns even when they happen to contain no wildcards.
func (t SeqTerm) Literal() ([]byte, bool) { return nil, false }

func (t SeqTerm) sequence() bool { return true }

// Hex renders positions in the report format with "??" for wildcards.
//
// Example: (A B ? A).Hex() == "[0x41, 0x42, 0x??, 0x41, ]"
func (t SeqTerm) Hex() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for _, s := range t {
		if s == Wildcard {
			sb.WriteString("0x??, ")
		} else {
			fmt.Fprintf(&sb, "0x%02x, ", byte(s))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// String renders printable bytes as themselves, wildcards as '.', and
// everything else as \xNN.
func (t SeqTerm) String() string {
	var sb strings.Builder
	for _, s := range t {
		switch {
		case s == Wildcard:
			sb.WriteByte('.')
		case s >= 0x20 && s < 0x7f:
			sb.WriteByte(byte(s))
		default:
			fmt.Fprintf(&sb, `\x%02x`, byte(s))
		}
	}
	return sb.String()
}
