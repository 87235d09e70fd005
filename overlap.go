package repeats

// nonOverlappingCount returns the maximum number of offsets that can be
// chosen from the ascending vector so that no two chosen occurrences of a
// length-L term overlap. Greedy left to right is optimal: keeping the
// earliest possible occurrence never blocks more later ones than any other
// choice would.
//
// Validity is judged on this count rather than the raw offset count, and
// the pruning stays monotone: a non-overlapping occurrence of a length m+1
// term starts exactly where a non-overlapping occurrence of its length-m
// prefix does.
//
// The offsets themselves are never reduced to their non-overlapping subset.
// Overlapping length-m offsets can still be the prefixes of non-overlapping
// length m+1 offsets. In "aabcabcaa" the two "abc" at offsets 1 and 4 do
// not overlap, but their "ab" prefixes sit among offsets that overlap other
// surviving length-2 terms; dropping those prefixes would lose "abc".
func nonOverlappingCount(offsets []uint32, length int) int {
	if len(offsets) < 2 {
		return len(offsets)
	}
	count := 1
	last := offsets[0]
	for _, off := range offsets[1:] {
		if off >= last+uint32(length) {
			count++
			last = off
		}
	}
	return count
}
