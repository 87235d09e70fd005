// ═══════════════════════════════════════════════════════════════════════════════
// THE FRONTIER ITERATION
// ═══════════════════════════════════════════════════════════════════════════════
// The engine works bottom-up. The frontier at length m is the set of all
// length-m terms repeated the required number of times in every document,
// each paired with its postings. Round m derives the length m+1 frontier:
//
//	1. Ask the extender which (source, gap, byte) candidates might survive
//	2. For each candidate, derive its postings document by document with
//	   the merge join, abandoning early once too many documents fall short
//	3. Insert survivors (after the domain filter) into the next frontier
//
// The iteration stops when a round produces nothing (converged: the last
// non-empty frontier holds the longest valid terms) or when the length cap
// is reached.
//
// WHY THE TOTAL WORK SHRINKS:
// ---------------------------
// Every offset of s·b is an offset of s, so the total number of offsets
// across a frontier can never grow from round to round in string mode; the
// number of terms can grow by at most the alphabet factor, and the
// validity prune cuts it back hard. In practice the frontier decays to a
// handful of terms within a few rounds.
//
// EXACT MATCHES:
// --------------
// Alongside the longest-valid search, each round scans the frontier it is
// about to extend for terms whose raw occurrence count equals the required
// count exactly in every document. The most recent non-empty set wins; a
// latch suppresses reporting until some round has produced at least
// ExactMatchLatch of them, which damps the noise of tiny early frontiers.
//
// PARALLELISM:
// ------------
// Candidates within a round are independent. With Parallelism > 1 the
// candidate slice is split into contiguous chunks, one goroutine per chunk
// builds into its own map, and the maps are merged at end of round with
// last-write-wins (identical keys carry identical postings by
// construction). Document order inside a single candidate's build is
// always the index order, so the early-abort fires at the same point no
// matter how candidates are scheduled, and runs are repeatable.
// ═══════════════════════════════════════════════════════════════════════════════

package repeats

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Options tunes one Find run. The zero value of a field selects its
// default.
type Options struct {
	// MaxTermLen caps the term length and therefore the round count.
	MaxTermLen int

	// Epsilon is the minimum fraction of non-wildcard positions a sequence
	// term must keep. Ignored in string mode.
	Epsilon float64

	// Parallelism is the number of goroutines building candidates per
	// round. 1 keeps the engine fully synchronous.
	Parallelism int

	// ExactMatchLatch is how many exact matches a single round must
	// produce before exact-match reporting switches on.
	ExactMatchLatch int

	// Filter vets literal candidate terms. Nil selects
	// DefaultFilter(DefaultMinTermSize); use AllowAll to disable.
	Filter Filter
}

// Results carries the outcome of a Find run.
type Results[T Term[T]] struct {
	// Converged is true when some round produced no valid terms, meaning
	// Longest really is the maximum length; false means the length cap
	// stopped the search first.
	Converged bool

	// Longest holds the terms of the last non-empty frontier, unsorted.
	Longest []T

	// Exact holds the most recent non-empty set of terms whose raw
	// occurrence count equals the required count in every document.
	Exact []T
}

// entry is one frontier member: a term and its postings.
type entry[T Term[T]] struct {
	term     T
	postings *Postings
}

// frontier maps term keys to entries for one term length.
type frontier[T Term[T]] map[string]entry[T]

// Find runs the iterative length extension over the index and returns the
// longest valid terms and the exact matches. Instantiate with StringTerm
// for plain substrings or SeqTerm for wildcard sequences:
//
//	res, err := repeats.Find[repeats.StringTerm](ix, repeats.Options{})
func Find[T Term[T]](ix *Index, opts Options) (Results[T], error) {
	if opts.MaxTermLen <= 0 {
		opts.MaxTermLen = DefaultMaxTermLen
	}
	if opts.Epsilon <= 0 || opts.Epsilon > 1 {
		opts.Epsilon = DefaultEpsilon
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = 1
	}
	if opts.ExactMatchLatch <= 0 {
		opts.ExactMatchLatch = DefaultExactMatchLatch
	}
	filter := opts.Filter
	if filter == nil {
		filter = DefaultFilter(DefaultMinTermSize)
	}

	var zero T
	isSeq := zero.sequence()
	start := time.Now()

	// The length-1 frontier is the byte level of the index. The postings
	// are shared with the index, never mutated: derived postings are
	// always fresh allocations.
	cur := make(frontier[T], len(ix.BytePostings))
	for b, p := range ix.BytePostings {
		t := zero.fromByte(b)
		cur[t.Key()] = entry[T]{term: t, postings: p}
	}
	frontiers := map[int]frontier[T]{1: cur}
	validBytes := ix.ValidBytes()

	slog.Info("finding repeats",
		slog.Int("validBytes", len(validBytes)),
		slog.Int("numDocs", ix.NumDocs()),
		slog.Int("maxTermLen", opts.MaxTermLen),
		slog.Bool("sequence", isSeq))

	var exact []T
	showExact := false
	converged := false

	// Round m derives length m+1 from length <= m; the cap bounds the
	// longest term, so the last round is the one building the cap length.
	for m := 1; m+1 <= opts.MaxTermLen; m++ {
		// Exact matches are scanned before extension so the byte level
		// and the final frontier both get their turn.
		em := exactMatches(ix, cur)
		if len(em) >= opts.ExactMatchLatch {
			showExact = true
		}
		if showExact && len(em) > 0 {
			exact = em
		}

		var cands []candidate[T]
		if isSeq {
			cands = sequenceCandidates(frontiers, m, opts.Epsilon, validBytes)
		} else {
			cands = stringCandidates(frontiers[m], validBytes)
		}

		next, err := buildCandidates(ix, cands, filter, opts.Parallelism)
		if err != nil {
			return Results[T]{}, err
		}

		slog.Info("round complete",
			slog.Int("length", m),
			slog.Int("terms", len(cur)),
			slog.Int("candidates", len(cands)),
			slog.Int("survivors", len(next)),
			slog.Duration("elapsed", time.Since(start)))

		if len(next) == 0 {
			converged = true
			break
		}

		// Survivors are binned by length: string-mode survivors are all
		// length m+1, sequence-mode survivors spread across lengths.
		for k, e := range next {
			l := e.term.Len()
			f := frontiers[l]
			if f == nil {
				f = make(frontier[T])
				frontiers[l] = f
			}
			f[k] = e
		}
		cur = next

		// Drop frontiers the next round can no longer extend; their
		// postings go with them.
		minKeep := m + 1
		if isSeq {
			minKeep = ceilTol(opts.Epsilon * float64(m+1))
		}
		for l := range frontiers {
			if l < minKeep {
				delete(frontiers, l)
			}
		}
	}

	// A run stopped by the length cap never starts another round, so its
	// final frontier is scanned for exact matches here.
	if !converged {
		em := exactMatches(ix, cur)
		if len(em) >= opts.ExactMatchLatch {
			showExact = true
		}
		if showExact && len(em) > 0 {
			exact = em
		}
	}

	maxLen := 0
	for l, f := range frontiers {
		if len(f) > 0 && l > maxLen {
			maxLen = l
		}
	}
	var longest []T
	for _, e := range frontiers[maxLen] {
		longest = append(longest, e.term)
	}

	slog.Info("finished",
		slog.Bool("converged", converged),
		slog.Int("longestLength", maxLen),
		slog.Int("longest", len(longest)),
		slog.Int("exact", len(exact)),
		slog.Duration("elapsed", time.Since(start)))

	return Results[T]{Converged: converged, Longest: longest, Exact: exact}, nil
}

// buildCandidates derives postings for every candidate and returns the
// frontier of survivors.
func buildCandidates[T Term[T]](ix *Index, cands []candidate[T], filter Filter, workers int) (frontier[T], error) {
	if len(cands) == 0 || workers <= 1 {
		return buildCandidateSlice(ix, cands, filter)
	}

	chunk := (len(cands) + workers - 1) / workers
	parts := make([]frontier[T], workers)
	var g errgroup.Group
	for w := 0; w*chunk < len(cands); w++ {
		w := w
		lo, hi := w*chunk, (w+1)*chunk
		if hi > len(cands) {
			hi = len(cands)
		}
		g.Go(func() error {
			part, err := buildCandidateSlice(ix, cands[lo:hi], filter)
			parts[w] = part
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Last write wins on identical keys; the values are equal by
	// construction, so the merge order does not matter.
	merged := make(frontier[T])
	for _, part := range parts {
		for k, e := range part {
			merged[k] = e
		}
	}
	return merged, nil
}

func buildCandidateSlice[T Term[T]](ix *Index, cands []candidate[T], filter Filter) (frontier[T], error) {
	out := make(frontier[T])
	for _, c := range cands {
		p, ok, err := buildOne(ix, c)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		t := c.src.term.Extend(c.gap, c.b)
		if literal, isLiteral := t.Literal(); isLiteral && !filter(literal) {
			continue
		}
		out[t.Key()] = entry[T]{term: t, postings: p}
	}
	return out, nil
}

// buildOne derives the postings of src<gap>b document by document, most
// selective document first. It reports ok=false when more than NBadAllowed
// documents fall short of their required count; a tolerated shortfall
// document keeps its (possibly empty) offsets so the postings stays
// complete.
func buildOne[T Term[T]](ix *Index, c candidate[T]) (*Postings, bool, error) {
	d := uint32(c.src.term.Len() + c.gap)
	newLen := c.src.term.Len() + c.gap + 1
	bPostings := ix.BytePostings[c.b]

	p := NewPostings()
	nBad := 0
	for docIndex, doc := range ix.Docs {
		sOffsets, err := c.src.postings.Offsets(docIndex)
		if err != nil {
			return nil, false, fmt.Errorf("building candidate: %w", err)
		}
		bOffsets, err := bPostings.Offsets(docIndex)
		if err != nil {
			return nil, false, fmt.Errorf("building candidate: %w", err)
		}

		sb := mergeJoin(sOffsets, bOffsets, d)

		// Validity counts only non-overlapping occurrences; the raw count
		// check is a cheap early exit for the same condition.
		if len(sb) < doc.Repeats || nonOverlappingCount(sb, newLen) < doc.Repeats {
			nBad++
			if nBad > ix.NBadAllowed {
				return nil, false, nil
			}
		}
		if err := p.AddOffsets(docIndex, sb); err != nil {
			return nil, false, err
		}
	}
	return p, true, nil
}

// exactMatches returns the frontier terms whose raw occurrence count
// equals the required count in every document.
func exactMatches[T Term[T]](ix *Index, f frontier[T]) []T {
	var out []T
	for _, e := range f {
		match := true
		for docIndex, doc := range ix.Docs {
			offs, err := e.postings.Offsets(docIndex)
			if err != nil || len(offs) != doc.Repeats {
				match = false
				break
			}
		}
		if match {
			out = append(out, e.term)
		}
	}
	return out
}
