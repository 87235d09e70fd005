package repeats

import (
	"math/rand"
	"testing"
)

// bruteNonOverlapping computes the optimum by dynamic programming:
// f(i) = max(skip offset i, take it and jump past its extent).
func bruteNonOverlapping(offsets []uint32, length int) int {
	n := len(offsets)
	f := make([]int, n+1)
	for i := n - 1; i >= 0; i-- {
		j := i + 1
		for j < n && offsets[j] < offsets[i]+uint32(length) {
			j++
		}
		take := 1 + f[j]
		if f[i+1] > take {
			f[i] = f[i+1]
		} else {
			f[i] = take
		}
	}
	return f[0]
}

func TestNonOverlappingCount(t *testing.T) {
	tests := []struct {
		name    string
		offsets []uint32
		length  int
		want    int
	}{
		{"empty", nil, 3, 0},
		{"single", []uint32{5}, 3, 1},
		{"disjoint", []uint32{0, 10, 20}, 5, 3},
		{"all overlapping", []uint32{0, 1, 2, 3}, 5, 1},
		{"dense run length 2", []uint32{0, 1, 2, 3}, 2, 2},
		{"touching is allowed", []uint32{0, 3, 6}, 3, 3},
		// "a" in "aabcabcaa": overlapping pairs at 0,1 and 7,8.
		{"aabcabcaa a len 2", []uint32{0, 1, 4, 7, 8}, 2, 3},
		// "abc" in "aabcabcaa" at 1 and 4 does not overlap at length 3.
		{"aabcabcaa abc len 3", []uint32{1, 4}, 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nonOverlappingCount(tt.offsets, tt.length); got != tt.want {
				t.Errorf("nonOverlappingCount(%v, %d) = %d, want %d",
					tt.offsets, tt.length, got, tt.want)
			}
		})
	}
}

// Greedy left to right must equal the true optimum on arbitrary input.
func TestNonOverlappingCount_GreedyIsOptimal(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(40)
		offsets := sortedUnique(rng, n, 200)
		length := 1 + rng.Intn(10)

		got := nonOverlappingCount(offsets, length)
		want := bruteNonOverlapping(offsets, length)
		if got != want {
			t.Fatalf("trial %d: greedy = %d, optimal = %d (offsets %v, length %d)",
				trial, got, want, offsets, length)
		}
	}
}
