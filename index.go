// ═══════════════════════════════════════════════════════════════════════════════
// THE INVERTED INDEX
// ═══════════════════════════════════════════════════════════════════════════════
// An inverted index is like the index at the back of a book: instead of
// scanning every page for a word, you look the word up and get its pages.
// Here the "words" are single bytes and the "pages" are byte offsets.
//
// Example: Given these documents (required repeats in brackets):
//
//	Doc 0: "abab"   [2]
//	Doc 1: "aabba"  [2]
//
// The byte-level index looks like:
//
//	'a' → doc 0: [0, 2]     doc 1: [0, 1, 4]
//	'b' → doc 0: [1, 3]     doc 1: [2, 3]
//
// This byte level is the fixed substrate of the whole search. Longer terms
// are never written back into the index; their postings are derived round
// by round from the previous round's postings plus these byte vectors.
//
// WHY ONLY SOME BYTES?
// --------------------
// A term can only repeat R times in a document if every one of its bytes
// does. So while documents are added, a running allowed-byte set - the
// intersection of each document's locally valid bytes - is maintained as a
// roaring bitmap, and bytes that fall out of it are pruned from the index.
// After construction the index holds exactly the bytes repeated at least R
// times in every document, each with a complete postings.
//
// DOCUMENT ORDER
// --------------
// Documents get dense indexes 0..D-1 in ascending size/R. Small documents
// with high repeat requirements are the most selective, and the candidate
// builder walks documents in index order, so hopeless candidates are
// abandoned after the cheapest possible amount of work.
// ═══════════════════════════════════════════════════════════════════════════════

package repeats

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/RoaringBitmap/roaring"
)

// alphabetSize is the number of distinct byte values. Work is always done
// at byte granularity: it gives complete generality over any file format.
const alphabetSize = 256

// Document is one corpus member, immutable after ingestion.
type Document struct {
	Path        string // opaque identifier, as given in the manifest
	Size        int64  // body length in bytes, header excluded
	Repeats     int    // required non-overlapping occurrences R
	Fingerprint string // xxh3 of the body
}

// Index owns the document table and the byte-level postings map. It is
// immutable after NewIndex returns; any number of goroutines may read it.
type Index struct {
	// Docs is ordered by ascending Size/Repeats (most selective first).
	// Postings document indexes point into this slice.
	Docs []Document

	// BytePostings maps each surviving byte to its complete postings.
	BytePostings map[byte]*Postings

	// AllowedBytes is the set of surviving bytes, equal to the keys of
	// BytePostings. Kept as a bitmap for cheap intersection and iteration.
	AllowedBytes *roaring.Bitmap

	// NBadAllowed is how many documents a candidate term may fall short in
	// before it is abandoned.
	NBadAllowed int

	// HeaderSize is the number of bytes skipped at the start of every
	// document. Offsets are relative to the position after it.
	HeaderSize int
}

// NewIndex ingests the documents named by records and builds the byte-level
// index. Documents that cannot be read are logged and skipped; if none
// survive, ErrEmptyCorpus is returned.
func NewIndex(records []RequiredRepeats, headerSize, nBadAllowed int) (*Index, error) {
	type pending struct {
		doc  Document
		body []byte
	}

	// STEP 1: Read every body up front. Sizes are needed before indexes can
	// be assigned, and zstd bodies only reveal their size once decompressed.
	var docs []pending
	for _, rec := range records {
		body, err := readDocument(rec.Path, headerSize)
		if err != nil {
			slog.Warn("skipping document", slog.String("path", rec.Path),
				slog.String("error", err.Error()))
			continue
		}
		docs = append(docs, pending{
			doc: Document{
				Path:        rec.Path,
				Size:        int64(len(body)),
				Repeats:     rec.Repeats,
				Fingerprint: fingerprint(body),
			},
			body: body,
		})
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w (%d manifest entries)", ErrEmptyCorpus, len(records))
	}

	// STEP 2: Assign indexes in ascending size/R.
	sort.SliceStable(docs, func(i, j int) bool {
		a, b := docs[i].doc, docs[j].doc
		return a.Size*int64(b.Repeats) < b.Size*int64(a.Repeats)
	})

	ix := &Index{
		BytePostings: make(map[byte]*Postings),
		AllowedBytes: roaring.NewBitmap(),
		NBadAllowed:  nBadAllowed,
		HeaderSize:   headerSize,
	}
	// Start with the full alphabet; each document can only shrink it.
	ix.AllowedBytes.AddRange(0, alphabetSize)

	// STEP 3: Index each document, tightening the allowed set as we go.
	for docIndex, p := range docs {
		ix.Docs = append(ix.Docs, p.doc)
		ix.addDocument(docIndex, p.body, p.doc.Repeats)
		docs[docIndex].body = nil // release once indexed

		slog.Info("added document to inverted index",
			slog.Int("docIndex", docIndex),
			slog.String("path", p.doc.Path),
			slog.Int64("size", p.doc.Size),
			slog.Int("repeats", p.doc.Repeats),
			slog.String("fingerprint", p.doc.Fingerprint),
			slog.Uint64("allowedBytes", ix.AllowedBytes.GetCardinality()))
	}
	return ix, nil
}

// addDocument computes the document's byte histogram, intersects the
// allowed set with the document's locally valid bytes, materializes offset
// vectors for the survivors, and merges them into the byte postings.
func (ix *Index) addDocument(docIndex int, body []byte, requiredRepeats int) {
	// STEP 1: One pass for counts of all bytes.
	var counts [alphabetSize]int
	for _, b := range body {
		counts[b]++
	}

	// STEP 2: A byte is locally valid if it occurs at least R times here.
	local := roaring.NewBitmap()
	for b := 0; b < alphabetSize; b++ {
		if counts[b] >= requiredRepeats {
			local.Add(uint32(b))
		}
	}

	// STEP 3: Only bytes valid in every document so far stay allowed.
	ix.AllowedBytes.And(local)
	for b := range ix.BytePostings {
		if !ix.AllowedBytes.Contains(uint32(b)) {
			delete(ix.BytePostings, b)
		}
	}

	// STEP 4: Second pass fills the offset vectors for allowed bytes.
	// The histogram pre-sizes every vector, so the pass appends into place
	// with no reallocation; lut avoids a bitmap probe per body byte.
	var lut [alphabetSize]bool
	offsets := make(map[byte][]uint32, ix.AllowedBytes.GetCardinality())
	it := ix.AllowedBytes.Iterator()
	for it.HasNext() {
		b := byte(it.Next())
		lut[b] = true
		offsets[b] = make([]uint32, 0, counts[b])
	}
	for pos, b := range body {
		if lut[b] {
			offsets[b] = append(offsets[b], uint32(pos))
		}
	}

	// STEP 5: Merge into the byte postings.
	for b, offs := range offsets {
		p, ok := ix.BytePostings[b]
		if !ok {
			p = NewPostings()
			ix.BytePostings[b] = p
		}
		// docIndex increases monotonically across calls, so this cannot
		// collide; a failure here is memory corruption, not input error.
		if err := p.AddOffsets(docIndex, offs); err != nil {
			panic(err)
		}
	}
}

// NumDocs returns the number of indexed documents.
func (ix *Index) NumDocs() int { return len(ix.Docs) }

// ValidBytes returns the surviving bytes in ascending order.
func (ix *Index) ValidBytes() []byte {
	bytes := make([]byte, 0, ix.AllowedBytes.GetCardinality())
	it := ix.AllowedBytes.Iterator()
	for it.HasNext() {
		bytes = append(bytes, byte(it.Next()))
	}
	return bytes
}
