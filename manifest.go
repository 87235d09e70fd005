// Manifest parsing.
//
// A manifest is a text file with one document entry per line:
//
//	<path> [# comment]
//
// Blank paths are skipped and comments are logged. Each path's filename
// must encode the document's required repeat count, by default through the
// pattern "pages=<n>" (a 5-page capture printed once repeats its per-page
// furniture 5 times). Lines whose filename does not match are logged and
// skipped; the remaining lines are still processed.

package repeats

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// DefaultPageCountPattern extracts the required repeat count from a
// document filename.
const DefaultPageCountPattern = `pages=?(\d+)`

// RequiredRepeats names a document and the minimum number of
// non-overlapping occurrences a term must have in it.
type RequiredRepeats struct {
	Path    string
	Repeats int
}

// ReadManifest parses the manifest at path. re extracts the repeat count
// from each filename; pass nil for the default pattern. The returned slice
// preserves manifest order. An unreadable manifest is an error; a manifest
// with no usable lines returns ErrEmptyManifest.
func ReadManifest(path string, re *regexp.Regexp) ([]RequiredRepeats, error) {
	if re == nil {
		re = regexp.MustCompile(DefaultPageCountPattern)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	defer f.Close()

	var records []RequiredRepeats
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		code, comment, _ := strings.Cut(scanner.Text(), "#")
		code = strings.TrimSpace(code)
		if comment = strings.TrimSpace(comment); comment != "" {
			slog.Info("manifest comment",
				slog.Int("line", lineNum), slog.String("comment", comment))
		}
		if code == "" {
			continue
		}

		repeats, err := requiredCount(code, re)
		if err != nil {
			// One bad filename does not abort the run.
			slog.Warn("skipping manifest entry",
				slog.Int("line", lineNum), slog.String("path", code),
				slog.String("error", err.Error()))
			continue
		}
		records = append(records, RequiredRepeats{Path: code, Repeats: repeats})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyManifest, path)
	}
	return records, nil
}

// requiredCount extracts the repeat count encoded in a document filename.
func requiredCount(path string, re *regexp.Regexp) (int, error) {
	m := re.FindStringSubmatch(filepath.Base(path))
	if m == nil || len(m) < 2 {
		return 0, fmt.Errorf("%w: %q does not match %q",
			ErrNoRequiredCount, filepath.Base(path), re.String())
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q encodes %q", ErrNoRequiredCount,
			filepath.Base(path), m[1])
	}
	return n, nil
}
