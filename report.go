// Report rendering.
//
// A run's outcome is reported in two shapes: a text report modeled on what
// an operator reads at the end of a run, and a JSON report for tooling.
// Both carry the convergence flag, the longest valid terms and the exact
// matches with hex dumps, and the wall-clock duration. The JSON report also
// carries the corpus as ingested (order, sizes, repeat counts,
// fingerprints); the text report does not list the documents.

package repeats

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/goccy/go-json"
)

// TermReport is one term as it appears in the report.
type TermReport struct {
	Length int    `json:"length"`
	Hex    string `json:"hex"`
	Text   string `json:"text"`
}

// DocumentReport is one corpus document as it appears in the report.
type DocumentReport struct {
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	Repeats     int    `json:"repeats"`
	Fingerprint string `json:"fingerprint"`
}

// Report is the full outcome of a run.
type Report struct {
	Converged    bool             `json:"converged"`
	Documents    []DocumentReport `json:"documents"`
	LongestValid []TermReport     `json:"longestValid"`
	ExactMatches []TermReport     `json:"exactMatches"`
	Duration     time.Duration    `json:"durationNs"`
}

// NewReport assembles a Report. Result term sets are unordered; the report
// sorts them for stable output.
func NewReport[T Term[T]](ix *Index, res Results[T], duration time.Duration) Report {
	rep := Report{
		Converged:    res.Converged,
		LongestValid: termReports(res.Longest),
		ExactMatches: termReports(res.Exact),
		Duration:     duration,
	}
	for _, doc := range ix.Docs {
		rep.Documents = append(rep.Documents, DocumentReport{
			Path:        doc.Path,
			Size:        doc.Size,
			Repeats:     doc.Repeats,
			Fingerprint: doc.Fingerprint,
		})
	}
	return rep
}

func termReports[T Term[T]](terms []T) []TermReport {
	sorted := make([]T, len(terms))
	copy(sorted, terms)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key() < sorted[j].Key() })

	out := make([]TermReport, 0, len(sorted))
	for _, t := range sorted {
		out = append(out, TermReport{
			Length: t.Len(),
			Hex:    t.Hex(),
			Text:   fmt.Sprintf("%v", t),
		})
	}
	return out
}

const reportRule = "--------------------------------------------------------------------------"

// WriteText renders the operator-facing report.
func (r Report) WriteText(w io.Writer) {
	fmt.Fprintln(w, reportRule)
	fmt.Fprintf(w, "converged = %v, valids = %d, exacts = %d\n",
		r.Converged, len(r.LongestValid), len(r.ExactMatches))
	fmt.Fprintln(w, reportRule)
	if len(r.LongestValid) > 0 {
		fmt.Fprintf(w, "Found %d longest valid terms of length %d\n",
			len(r.LongestValid), r.LongestValid[0].Length)
		for i, t := range r.LongestValid {
			fmt.Fprintf(w, "%d : %s  %q\n", i, t.Hex, t.Text)
		}
	}
	fmt.Fprintln(w, reportRule)
	if len(r.ExactMatches) > 0 {
		fmt.Fprintf(w, "Found %d exactly repeated terms of length %d\n",
			len(r.ExactMatches), r.ExactMatches[0].Length)
		for i, t := range r.ExactMatches {
			fmt.Fprintf(w, "%d : %s  %q\n", i, t.Hex, t.Text)
		}
	}
	fmt.Fprintf(w, "duration = %v\n", r.Duration)
}

// WriteJSON renders the report as a single JSON document.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
