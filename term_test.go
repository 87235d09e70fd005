package repeats

import (
	"sort"
	"testing"
)

// ═══════════════════════════════════════════════════════════════════════════════
// STRING TERM TESTS
// ═══════════════════════════════════════════════════════════════════════════════

func TestStringTerm_Extend(t *testing.T) {
	got := ByteTerm('a').Extend(0, 'b').Extend(0, 'c')
	if got != StringTerm("abc") {
		t.Errorf("Extend chain = %q, want %q", got, "abc")
	}
	if got.Len() != 3 {
		t.Errorf("Len() = %d, want 3", got.Len())
	}
	if got.Wildcards() != 0 {
		t.Errorf("Wildcards() = %d, want 0", got.Wildcards())
	}
}

func TestStringTerm_ExtendWithGapPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Extend(1, b) on a string term did not panic")
		}
	}()
	ByteTerm('a').Extend(1, 'b')
}

func TestStringTerm_Suffix(t *testing.T) {
	tests := []struct {
		name string
		term StringTerm
		want StringTerm
	}{
		{"three bytes", StringTerm("abc"), StringTerm("bc")},
		{"single byte", StringTerm("a"), StringTerm("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.term.Suffix(); got != tt.want {
				t.Errorf("Suffix() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStringTerm_KeyOrder(t *testing.T) {
	terms := []StringTerm{"b", "ab", "aa", "a", StringTerm([]byte{0xff}), StringTerm([]byte{0x00})}
	keys := make([]string, len(terms))
	for i, term := range terms {
		keys[i] = term.Key()
	}
	sort.Strings(keys)
	want := []string{"\x00", "a", "aa", "ab", "b", "\xff"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("sorted keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestStringTerm_Hex(t *testing.T) {
	if got := StringTerm("ab").Hex(); got != "[0x61, 0x62, ]" {
		t.Errorf("Hex() = %q", got)
	}
}

func TestStringTerm_Literal(t *testing.T) {
	lit, ok := StringTerm("ab").Literal()
	if !ok || string(lit) != "ab" {
		t.Errorf("Literal() = %q, %v", lit, ok)
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// SEQUENCE TERM TESTS
// ═══════════════════════════════════════════════════════════════════════════════

func TestSeqTerm_ExtendWithGap(t *testing.T) {
	got := SeqByteTerm('A').Extend(0, 'B').Extend(2, 'C')
	want := SeqTerm{'A', 'B', Wildcard, Wildcard, 'C'}
	if got.Key() != want.Key() {
		t.Fatalf("Extend = %v, want %v", got, want)
	}
	if got.Len() != 5 {
		t.Errorf("Len() = %d, want 5", got.Len())
	}
	if got.Wildcards() != 2 {
		t.Errorf("Wildcards() = %d, want 2", got.Wildcards())
	}
}

func TestSeqTerm_ExtendDoesNotMutateSource(t *testing.T) {
	src := SeqByteTerm('A').Extend(0, 'B')
	key := src.Key()
	_ = src.Extend(1, 'C')
	_ = src.Extend(0, 'D')
	if src.Key() != key {
		t.Fatal("Extend mutated its receiver")
	}
}

func TestSeqTerm_KeyOrder(t *testing.T) {
	// A wildcard sorts before every byte value, and the encoding keeps
	// prefix ordering: A < A? < A?B style comparisons must all agree with
	// position-wise numeric comparison.
	ab := SeqTerm{'A', 'B'}
	awb := SeqTerm{'A', Wildcard, 'B'}
	aw := SeqTerm{'A', Wildcard}
	tests := []struct {
		name   string
		before SeqTerm
		after  SeqTerm
	}{
		{"wildcard before byte", aw, ab},
		{"prefix before extension", ab, ab.Extend(0, 'C')},
		{"wildcard position decides", awb, SeqTerm{'A', 0x00, 'B'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.before.Key() >= tt.after.Key() {
				t.Errorf("Key(%v) = %x !< Key(%v) = %x",
					tt.before, tt.before.Key(), tt.after, tt.after.Key())
			}
		})
	}
}

func TestSeqTerm_HexAndString(t *testing.T) {
	term := SeqTerm{'A', 'B', Wildcard, 'A'}
	if got := term.Hex(); got != "[0x41, 0x42, 0x??, 0x41, ]" {
		t.Errorf("Hex() = %q", got)
	}
	if got := term.String(); got != "AB.A" {
		t.Errorf("String() = %q", got)
	}
}

func TestSeqTerm_LiteralAlwaysFalse(t *testing.T) {
	if _, ok := (SeqTerm{'A', 'B'}).Literal(); ok {
		t.Fatal("sequence terms must not report a literal")
	}
}
