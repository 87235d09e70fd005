package repeats

import (
	"math/rand"
	"sort"
	"testing"
)

// bruteJoin is the oracle for the merge join: every x in s with x+d in b.
func bruteJoin(s, b []uint32, d uint32) []uint32 {
	inB := make(map[uint32]bool, len(b))
	for _, x := range b {
		inB[x] = true
	}
	var out []uint32
	for _, x := range s {
		if inB[x+d] {
			out = append(out, x)
		}
	}
	return out
}

func equalU32(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sortedUnique returns n strictly ascending values below max.
func sortedUnique(rng *rand.Rand, n int, max uint32) []uint32 {
	seen := make(map[uint32]bool, n)
	for len(seen) < n {
		seen[rng.Uint32()%max] = true
	}
	out := make([]uint32, 0, n)
	for v := range seen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestMergeJoin_Basic(t *testing.T) {
	tests := []struct {
		name string
		s    []uint32
		b    []uint32
		d    uint32
		want []uint32
	}{
		{"simple extension", []uint32{1, 4, 9}, []uint32{3, 6, 7}, 2, []uint32{1, 4}},
		{"no matches", []uint32{0, 10}, []uint32{5, 15}, 2, nil},
		{"all match", []uint32{0, 1, 2}, []uint32{1, 2, 3}, 1, []uint32{0, 1, 2}},
		{"empty s", nil, []uint32{1}, 1, nil},
		{"empty b", []uint32{1}, nil, 1, nil},
		{"zero displacement", []uint32{2, 4, 6}, []uint32{4, 5, 6}, 0, []uint32{4, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mergeJoin(tt.s, tt.b, tt.d); !equalU32(got, tt.want) {
				t.Errorf("mergeJoin() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Both advance strategies must compute the same set as the oracle,
// whatever the size ratio.
func TestMergeJoin_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tests := []struct {
		name   string
		sLen   int
		bLen   int
		gallop bool
	}{
		{"balanced linear", 200, 300, false},
		{"mildly skewed linear", 100, 700, false},
		{"skewed gallop", 50, 5000, true},
		{"extreme gallop", 3, 20000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for trial := 0; trial < 20; trial++ {
				s := sortedUnique(rng, tt.sLen, 1<<20)
				b := sortedUnique(rng, tt.bLen, 1<<20)
				d := rng.Uint32() % 64

				ratio := float64(len(b)) / float64(len(s))
				if (ratio >= gallopRatio) != tt.gallop {
					t.Fatalf("test vector exercises the wrong branch: ratio %v", ratio)
				}

				got := mergeJoin(s, b, d)
				want := bruteJoin(s, b, d)
				if !equalU32(got, want) {
					t.Fatalf("trial %d: mergeJoin = %v, want %v", trial, got, want)
				}
			}
		})
	}
}

// A two-element s against a long stride of multiples forces the galloping
// branch to jump over almost all of b.
func TestMergeJoin_GallopLongStride(t *testing.T) {
	s := []uint32{0, 1000000}
	b := make([]uint32, 100001)
	for i := range b {
		b[i] = uint32(i * 7)
	}
	got := mergeJoin(s, b, 0)
	// 0 is a multiple of 7; 1000000 is not (and exceeds b's maximum).
	if !equalU32(got, []uint32{0}) {
		t.Errorf("mergeJoin = %v, want [0]", got)
	}
}

func TestMergeJoin_OutputSortedAndSubset(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := sortedUnique(rng, 100, 1<<16)
	b := sortedUnique(rng, 2000, 1<<16)
	got := mergeJoin(s, b, 3)

	inS := make(map[uint32]bool, len(s))
	for _, x := range s {
		inS[x] = true
	}
	for i, x := range got {
		if i > 0 && got[i-1] >= x {
			t.Fatalf("output not strictly ascending at %d: %v", i, got)
		}
		if !inS[x] {
			t.Fatalf("output %d not an offset of s", x)
		}
	}
}

func TestNextPow2(t *testing.T) {
	tests := []struct {
		ratio float64
		want  int
	}{
		{0.5, 1}, {1, 1}, {1.5, 2}, {7.9, 8}, {8, 8}, {8.1, 16}, {100, 128},
	}
	for _, tt := range tests {
		if got := nextPow2(tt.ratio); got != tt.want {
			t.Errorf("nextPow2(%v) = %d, want %d", tt.ratio, got, tt.want)
		}
	}
}

func TestSeekGE(t *testing.T) {
	v := []uint32{2, 4, 8, 16, 32, 64, 128}
	tests := []struct {
		from   int
		target uint32
		step   int
		want   int
	}{
		{0, 1, 2, 0},
		{0, 8, 2, 2},
		{0, 9, 2, 3},
		{0, 128, 4, 6},
		{0, 129, 4, 7},
		{3, 64, 1, 5},
	}
	for _, tt := range tests {
		if got := seekGE(v, tt.from, tt.target, tt.step); got != tt.want {
			t.Errorf("seekGE(from=%d, target=%d, step=%d) = %d, want %d",
				tt.from, tt.target, tt.step, got, tt.want)
		}
	}
}
