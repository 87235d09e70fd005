// Document ingestion: raw bytes in, header-stripped body out.
//
// Print spool captures carry a fixed-size job header whose bytes differ on
// every print of the same pages. The header would otherwise dominate the
// "differs everywhere" noise, so a configurable prefix is skipped and every
// offset the engine reports is relative to the first body byte.
//
// Bodies may be stored zstd-compressed (a ".zst" suffix); decompression is
// transparent and the header is skipped after decompression. Each body is
// fingerprinted with xxh3 so runs over the same corpus are recognisable in
// logs and reports.

package repeats

import (
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/xxh3"
)

// Shared decoder: zstd decoder construction builds internal state tables,
// so one per process, not one per document. DecodeAll on a shared decoder
// is documented as safe for concurrent use.
var zstdDecoder, _ = zstd.NewReader(nil)

// readDocument reads the body of the document at path, decompressing
// ".zst" files and skipping headerSize leading bytes. The returned slice
// is the body only; offset 0 is the first byte after the header.
func readDocument(path string, headerSize int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", path, err)
	}
	if strings.HasSuffix(path, ".zst") {
		data, err = zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompressing document %s: %w", path, err)
		}
	}
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, header is %d",
			ErrTruncatedDocument, path, len(data), headerSize)
	}
	return data[headerSize:], nil
}

// fingerprint returns the xxh3 hash of a document body, rendered the way
// logs and reports carry it.
func fingerprint(body []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(body))
}
