// ═══════════════════════════════════════════════════════════════════════════════
// CANDIDATE EXTENSION: Which Terms Are Worth Trying?
// ═══════════════════════════════════════════════════════════════════════════════
// Extending every frontier term with every allowed byte would mean building
// postings for |frontier| × |alphabet| candidates per round, and building a
// postings is the expensive part. The extender's job is to reject candidates
// before that cost is paid.
//
// STRING MODE: the both-ends prune
// --------------------------------
// If s·b is repeated R times in every document, then so is every substring
// of it. In particular its length-m suffix (s·b)[1:] must itself be a valid
// length-m term. The frontier holds exactly the valid length-m terms, so a
// candidate survives only if both its length-m prefix (that's s, valid by
// construction) and its length-m suffix are frontier members. This is the
// classic Apriori argument, and it kills most of the alphabet for most
// terms. Membership is a binary search over the lex-sorted frontier keys.
//
// Example: frontier = {aa, ab, bc, ca}. For s = "ab", byte 'c' survives
// because "bc" is a member; byte 'a' dies because "ba" is not.
//
// SEQUENCE MODE: the wildcard budget
// ---------------------------------
// With wildcards there is no suffix prune (the suffix of A?B starts with a
// wildcard, which is never a frontier term). Instead candidates are bounded
// by the epsilon budget: at target length L = m+1, a term may carry at most
// W = L - ⌈ε·L⌉ wildcards. A source term of length i in [⌈ε·m⌉, m] is
// extendable iff its wildcards plus the (m - i) positions it lags behind
// the frontier still fit the budget, and it may insert any gap g with
// wildcards(s) + g ≤ W before the appended byte.
// ═══════════════════════════════════════════════════════════════════════════════

package repeats

import (
	"math"
	"sort"
)

// candidate is one proposed extension: src followed by gap wildcards
// followed by byte b.
type candidate[T Term[T]] struct {
	src entry[T]
	gap int
	b   byte
}

// stringCandidates proposes gap-free extensions of the length-m frontier,
// keeping only candidates whose one-off suffix is also a frontier member.
func stringCandidates[T Term[T]](cur frontier[T], validBytes []byte) []candidate[T] {
	keys := make([]string, 0, len(cur))
	for k := range cur {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var cands []candidate[T]
	for _, k := range keys {
		e := cur[k]
		suffix := e.term.Suffix()
		for _, b := range validBytes {
			probe := suffix.Extend(0, b).Key()
			i := sort.SearchStrings(keys, probe)
			if i < len(keys) && keys[i] == probe {
				cands = append(cands, candidate[T]{src: e, gap: 0, b: b})
			}
		}
	}
	return cands
}

// sequenceCandidates proposes extensions of every extendable term of
// length i in [⌈ε·m⌉, m], with every gap the wildcard budget at length m+1
// leaves open, with every allowed byte.
func sequenceCandidates[T Term[T]](frontiers map[int]frontier[T], m int, epsilon float64, validBytes []byte) []candidate[T] {
	// W = max wildcards a length m+1 term may carry.
	maxWild := (m + 1) - ceilTol(epsilon*float64(m+1))
	minLen := ceilTol(epsilon * float64(m))

	var cands []candidate[T]
	for i := minLen; i <= m; i++ {
		for _, e := range frontiers[i] {
			wild := e.term.Wildcards()
			if wild+(m-i) > maxWild {
				continue
			}
			for gap := 0; gap <= maxWild-wild; gap++ {
				for _, b := range validBytes {
					cands = append(cands, candidate[T]{src: e, gap: gap, b: b})
				}
			}
		}
	}
	return cands
}

// ceilTol is ceil with a small backoff so that rational epsilons hit their
// intended integers: 0.56×25 computes as 14.000000000000002 in binary
// floating point, and a bare ceil would turn a budget of 11 wildcards into
// 10.
func ceilTol(v float64) int {
	return int(math.Ceil(v - 1e-9))
}
