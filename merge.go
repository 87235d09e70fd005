// ═══════════════════════════════════════════════════════════════════════════════
// MERGE JOIN: The Inner Loop
// ═══════════════════════════════════════════════════════════════════════════════
// Everything the engine does reduces to one question, asked millions of
// times: given the offsets S of a term s and the offsets B of a byte b in
// the same document, where does s followed by b occur?
//
// An offset x starts an occurrence of s·b exactly when x ∈ S and x+d ∈ B,
// where d is the displacement from the start of s to where b must sit
// (d = |s| for a plain extension, |s|+gap when wildcards are inserted).
//
// VISUAL EXAMPLE (d = 2):
// -----------------------
//	S: 1   4      9
//	B:   3   6 7
//	     ↑       ↑
//	1+2=3 ∈ B ✓  4+2=6 ∈ B ✓  9+2=11 ∉ B ✗  →  SB = [1, 4]
//
// Both vectors are sorted, so a two-pointer walk finds all matches in one
// pass. The output inherits S's order and never repeats an element, which
// keeps the postings invariants alive without a sort or dedup step.
//
// WHY TWO ADVANCE STRATEGIES?
// ---------------------------
// Byte vectors are often vastly longer than term vectors: a term surviving
// ten rounds may have a handful of offsets while byte 0x00 has millions.
// Walking B element by element would make the loop O(|B|) no matter how
// small S is. When |B|/|S| >= 8 we instead advance the B pointer by
// galloping: stride forward in blocks of the next power of two of the
// ratio, then binary search inside the overshot block. That bounds the
// skewed case by O(|S| · log(|B|/|S|)) while the balanced case keeps the
// plain O(|S| + |B|) walk.
// ═══════════════════════════════════════════════════════════════════════════════

package repeats

import "sort"

// gallopRatio is the |B|/|S| ratio at which the merge switches from linear
// advancing to galloping jumps.
const gallopRatio = 8.0

// mergeJoin returns the ascending vector of all x in s such that x+d is in
// b. Both inputs must be strictly ascending.
func mergeJoin(s, b []uint32, d uint32) []uint32 {
	if len(s) == 0 || len(b) == 0 {
		return nil
	}
	ratio := float64(len(b)) / float64(len(s))
	if ratio < gallopRatio {
		return mergeJoinLinear(s, b, d)
	}
	return mergeJoinGallop(s, b, d, nextPow2(ratio))
}

// mergeJoinLinear walks both vectors keeping them aligned:
//
//	b[j] == s[i]+d → emit s[i], advance both
//	b[j] <  s[i]+d → advance j
//	b[j] >  s[i]+d → advance i
func mergeJoinLinear(s, b []uint32, d uint32) []uint32 {
	var sb []uint32
	i, j := 0, 0
	for i < len(s) && j < len(b) {
		target := s[i] + d
		switch {
		case b[j] == target:
			sb = append(sb, s[i])
			i++
			j++
		case b[j] < target:
			for j < len(b) && b[j] < target {
				j++
			}
		default:
			floor := b[j] - d
			for i < len(s) && s[i] < floor {
				i++
			}
		}
	}
	return sb
}

// mergeJoinGallop is the same walk with the j pointer advanced by strides
// of step followed by a binary search inside the final stride. The i
// pointer still advances linearly; s is the short side.
func mergeJoinGallop(s, b []uint32, d uint32, step int) []uint32 {
	var sb []uint32
	i, j := 0, 0
	for i < len(s) && j < len(b) {
		target := s[i] + d
		switch {
		case b[j] == target:
			sb = append(sb, s[i])
			i++
			j++
		case b[j] < target:
			j = seekGE(b, j, target, step)
		default:
			floor := b[j] - d
			for i < len(s) && s[i] < floor {
				i++
			}
		}
	}
	return sb
}

// seekGE returns the smallest index >= from whose value is >= target,
// or len(v) if none. It strides forward in blocks of step until the block
// containing target, then binary searches inside it.
func seekGE(v []uint32, from int, target uint32, step int) int {
	lo := from
	for lo+step < len(v) && v[lo+step] < target {
		lo += step
	}
	hi := lo + step
	if hi > len(v) {
		hi = len(v)
	}
	return lo + sort.Search(hi-lo, func(k int) bool { return v[lo+k] >= target })
}

// nextPow2 returns the smallest power of two >= ratio (at least 1).
func nextPow2(ratio float64) int {
	step := 1
	for float64(step) < ratio {
		step <<= 1
	}
	return step
}
