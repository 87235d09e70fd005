package repeats

import "errors"

// ═══════════════════════════════════════════════════════════════════════════════
// ERROR DEFINITIONS
// ═══════════════════════════════════════════════════════════════════════════════
// We define errors as package-level variables so they can be compared with
// errors.Is. Call sites wrap them with fmt.Errorf("...: %w", err) to add
// context (which document, which manifest line) without losing the identity.
var (
	// ErrMissingDocument is returned when a postings lookup names a document
	// index that was never added. Frontier postings are complete by
	// construction, so hitting this mid-iteration is an invariant violation
	// and the engine aborts the run.
	ErrMissingDocument = errors.New("no offsets exist for document index")

	// ErrDuplicateDocument is returned when offsets for a document index are
	// added to a Postings twice.
	ErrDuplicateDocument = errors.New("offsets already exist for document index")

	// ErrEmptyManifest is returned when a manifest contains no usable entries.
	ErrEmptyManifest = errors.New("manifest contains no document entries")

	// ErrNoRequiredCount is returned when a document filename does not encode
	// a required repeat count.
	ErrNoRequiredCount = errors.New("filename does not encode a repeat count")

	// ErrEmptyCorpus is returned when index construction ends with no
	// readable documents.
	ErrEmptyCorpus = errors.New("no documents could be ingested")

	// ErrTruncatedDocument is returned when a document body is shorter than
	// the header that should be skipped.
	ErrTruncatedDocument = errors.New("document shorter than header")
)
