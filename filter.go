// Domain filter: terms the caller never wants to see.
//
// Print spool captures carry byte runs that repeat on every page of every
// job without being interesting: job accounting records and long zero
// padding. The filter rejects candidate terms that are substrings of the
// known noise patterns, and all-zero terms once they are long enough to be
// more than coincidence. It runs after a candidate's postings are built,
// so rejecting here prunes the term and its whole extension subtree.

package repeats

import "bytes"

// Filter decides whether a literal term may enter the frontier. It only
// sees terms without wildcard positions; sequence terms bypass filtering.
type Filter func(literal []byte) bool

// printerNoise holds accounting-record byte runs observed across printer
// capture corpora. Any term that is a substring of one of these is noise.
var printerNoise = [][]byte{
	{0xcd, 0xca, 0x10, 0x00, 0x00, 0x18, 0x00, 0x01, 0x00, 0x03, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	{0x00, 0x01, 0x00, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00},
	{0x81, 0x22, 0x81, 0x22},
}

// DefaultFilter rejects printer noise and, from minTermSize up, terms
// consisting entirely of zero bytes.
func DefaultFilter(minTermSize int) Filter {
	return func(literal []byte) bool {
		for _, pattern := range printerNoise {
			if len(literal) <= len(pattern) && bytes.Contains(pattern, literal) {
				return false
			}
		}
		if len(literal) < minTermSize {
			return true
		}
		for _, b := range literal {
			if b != 0 {
				return true
			}
		}
		return false
	}
}

// AllowAll accepts every term. Useful for corpora that are not printer
// captures.
func AllowAll([]byte) bool { return true }
