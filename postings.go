// ═══════════════════════════════════════════════════════════════════════════════
// POSTINGS: Where a Term Occurs
// ═══════════════════════════════════════════════════════════════════════════════
// A Postings records every occurrence of one term across the corpus as a
// map from document index to a strictly ascending vector of byte offsets.
//
// Example: the postings of "ab" in a two-document corpus might be
//
//	doc 0 → [1, 4, 19]
//	doc 1 → [7, 112]
//
// Two invariants hold for every vector:
//  1. offsets are sorted ascending and duplicate-free
//  2. offsets are measured from the end of the skipped document header
//
// Alongside the offset map we keep a roaring bitmap of the document indexes
// present. The bitmap answers the one question the frontier keeps asking -
// "does this postings cover every document?" - with a cardinality check
// instead of a map walk, and compresses to almost nothing for the dense
// index sets the engine produces.
// ═══════════════════════════════════════════════════════════════════════════════

package repeats

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

// Postings holds the per-document offset vectors of a single term.
type Postings struct {
	// docs is the set of document indexes with offsets stored.
	docs *roaring.Bitmap

	// offsets[i] is the ascending offset vector for document index i.
	offsets map[int][]uint32

	// total is the number of offsets across all documents.
	total int
}

// NewPostings returns an empty Postings.
func NewPostings() *Postings {
	return &Postings{
		docs:    roaring.NewBitmap(),
		offsets: make(map[int][]uint32),
	}
}

// AddOffsets stores the ascending offset vector for a document index.
// The vector may be empty; the document still counts as present, which is
// how a tolerated shortfall document stays inside a complete postings.
// Adding the same index twice returns ErrDuplicateDocument.
func (p *Postings) AddOffsets(docIndex int, offsets []uint32) error {
	if p.docs.Contains(uint32(docIndex)) {
		return fmt.Errorf("%w: %d", ErrDuplicateDocument, docIndex)
	}
	p.docs.Add(uint32(docIndex))
	p.offsets[docIndex] = offsets
	p.total += len(offsets)
	return nil
}

// Offsets returns the offset vector for a document index. The returned
// slice is owned by the Postings and must not be modified.
func (p *Postings) Offsets(docIndex int) ([]uint32, error) {
	offs, ok := p.offsets[docIndex]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrMissingDocument, docIndex)
	}
	return offs, nil
}

// NumDocs returns the number of documents with offsets stored.
func (p *Postings) NumDocs() int {
	return int(p.docs.GetCardinality())
}

// Size returns the total number of offsets across all documents.
func (p *Postings) Size() int { return p.total }

// Empty reports whether no documents are stored.
func (p *Postings) Empty() bool { return p.docs.IsEmpty() }

// Complete reports whether the postings covers exactly the document indexes
// 0..numDocs-1. Only complete postings may enter the next frontier.
func (p *Postings) Complete(numDocs int) bool {
	if int(p.docs.GetCardinality()) != numDocs {
		return false
	}
	// Dense indexes: cardinality n with maximum n-1 means exactly 0..n-1.
	return numDocs == 0 || int(p.docs.Maximum()) == numDocs-1
}

// CountsPerDoc returns the number of offsets per document, in ascending
// document index order.
func (p *Postings) CountsPerDoc() []int {
	counts := make([]int, 0, p.NumDocs())
	it := p.docs.Iterator()
	for it.HasNext() {
		counts = append(counts, len(p.offsets[int(it.Next())]))
	}
	return counts
}
