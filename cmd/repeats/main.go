// Command repeats finds the longest byte sequences repeated a required
// number of times in every document of a corpus.
//
// Usage:
//
//	repeats [flags] <manifest>
//
// The manifest lists one document path per line; each filename encodes the
// document's required repeat count (by default "pages=<n>"). The report
// goes to stdout, progress logging to stderr.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"time"

	"github.com/wizenheimer/repeats"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath = flag.String("config", "", "YAML config file")
		jsonOut    = flag.Bool("json", false, "emit the report as JSON")
		mode       = flag.String("mode", "", "term mode: string or sequence")
		maxLen     = flag.Int("max-len", 0, "maximum term length")
		nBad       = flag.Int("n-bad", -1, "documents allowed to fall short per candidate")
		headerSize = flag.Int("header-size", -1, "bytes to skip at document start")
		epsilon    = flag.Float64("epsilon", 0, "min non-wildcard fraction (sequence mode)")
		workers    = flag.Int("workers", 0, "candidate-building goroutines per round")
		bench      = flag.Int("bench", 0, "run N times and report duration stats")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <manifest>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		return 1
	}
	manifestPath := flag.Arg(0)

	cfg, err := repeats.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	// Flags win over the config file and the environment.
	if *mode != "" {
		cfg.Mode = *mode
	}
	if *maxLen > 0 {
		cfg.MaxTermLen = *maxLen
	}
	if *nBad >= 0 {
		cfg.NBadAllowed = *nBad
	}
	if *headerSize >= 0 {
		cfg.HeaderSize = *headerSize
	}
	if *epsilon > 0 {
		cfg.Epsilon = *epsilon
	}
	if *workers > 0 {
		cfg.Parallelism = *workers
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	setupLogging(cfg.LogLevel)
	slog.Debug("build info",
		slog.Int("offsetBytes", 4),
		slog.Int("alphabet", 256),
		slog.String("mode", cfg.Mode))

	records, err := repeats.ReadManifest(manifestPath, regexp.MustCompile(cfg.PageCountPattern))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	runs := 1
	if *bench > 1 {
		runs = *bench
	}
	durations := make([]time.Duration, 0, runs)
	for i := 0; i < runs; i++ {
		if runs > 1 {
			fmt.Fprintf(os.Stderr, "===== run %d of %d =====\n", i+1, runs)
		}
		dur, err := runOnce(records, cfg, *jsonOut)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		durations = append(durations, dur)
	}
	if runs > 1 {
		printStats(durations)
	}
	return 0
}

// runOnce builds the index, runs the engine in the configured mode, and
// writes the report.
func runOnce(records []repeats.RequiredRepeats, cfg repeats.Config, jsonOut bool) (time.Duration, error) {
	start := time.Now()
	ix, err := repeats.NewIndex(records, cfg.HeaderSize, cfg.NBadAllowed)
	if err != nil {
		return 0, err
	}

	var report repeats.Report
	switch cfg.Mode {
	case repeats.ModeSequence:
		res, err := repeats.Find[repeats.SeqTerm](ix, cfg.Options())
		if err != nil {
			return 0, err
		}
		report = repeats.NewReport(ix, res, time.Since(start))
	default:
		res, err := repeats.Find[repeats.StringTerm](ix, cfg.Options())
		if err != nil {
			return 0, err
		}
		report = repeats.NewReport(ix, res, time.Since(start))
	}

	if jsonOut {
		if err := report.WriteJSON(os.Stdout); err != nil {
			return 0, err
		}
	} else {
		report.WriteText(os.Stdout)
	}
	return report.Duration, nil
}

// printStats reports min/max/ave/med over the bench runs.
func printStats(durations []time.Duration) {
	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total time.Duration
	for _, d := range sorted {
		total += d
	}
	fmt.Fprintf(os.Stderr, "min=%v, max=%v, ave=%v, med=%v\n",
		sorted[0], sorted[len(sorted)-1],
		total/time.Duration(len(sorted)), sorted[len(sorted)/2])
}

func setupLogging(level string) {
	var lv slog.Level
	switch level {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv})))
}
