// Command hitcluster groups wire-chamber hits into clusters by blurring
// them into a charge image and growing clusters on the blurred image.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/hitcluster/internal/blur"
	"github.com/banshee-data/hitcluster/internal/cluster"
	"github.com/banshee-data/hitcluster/internal/config"
	"github.com/banshee-data/hitcluster/internal/fsutil"
	"github.com/banshee-data/hitcluster/internal/hitio"
	"github.com/banshee-data/hitcluster/internal/hits"
	"github.com/banshee-data/hitcluster/internal/pipeline"
	"github.com/banshee-data/hitcluster/internal/version"
)

// Config holds the command line options.
type Config struct {
	HitsFile      string
	ConfigFile    string
	OutputFile    string
	WiresPerPlane int
	ReadoutWindow int
	Verbose       bool
	Trace         bool
	ShowVersion   bool
}

func main() {
	cfg := parseFlags()

	if cfg.ShowVersion {
		fmt.Println(version.String())
		return
	}
	if cfg.HitsFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	setupLogging(os.Stderr, cfg.Verbose, cfg.Trace)

	if err := run(cfg, os.Stdout); err != nil {
		log.Fatalf("hitcluster failed: %v", err)
	}
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.HitsFile, "hits", "", "Path to hits file, .jsonl or .csv (required)")
	flag.StringVar(&cfg.ConfigFile, "config", "", "Path to tuning JSON (default: built-in defaults)")
	flag.StringVar(&cfg.OutputFile, "out", "", "Output file, .json or .csv (default: JSON on stdout)")
	flag.IntVar(&cfg.WiresPerPlane, "wires-per-plane", 0, "Wires per plane for TPC offsets (0 keeps local wire numbers)")
	flag.IntVar(&cfg.ReadoutWindow, "readout-window", 4096, "Readout window size in ticks")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Log per-run diagnostics to stderr")
	flag.BoolVar(&cfg.Trace, "trace", false, "Log per-candidate detail to stderr")
	flag.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -hits <file> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Clusters hits plane by plane and writes one result per plane.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	return cfg
}

// setupLogging routes ops logs to w and enables diag and trace on request.
func setupLogging(w io.Writer, verbose, trace bool) {
	var diag, tr io.Writer
	if verbose || trace {
		diag = w
	}
	if trace {
		tr = w
	}
	hits.SetLogWriters(w, diag, tr)
	blur.SetLogWriters(w, diag, tr)
	cluster.SetLogWriters(w, diag, tr)
	pipeline.SetLogWriters(w, diag, tr)
}

func loadTuning(path string) (*config.TuningConfig, error) {
	if path == "" {
		return config.DefaultTuningConfig(), nil
	}
	return config.LoadTuningConfig(path)
}

// run reads hits, clusters them per plane and writes the results to
// cfg.OutputFile, or as JSON to stdout when no file is given.
func run(cfg Config, stdout io.Writer) error {
	tuning, err := loadTuning(cfg.ConfigFile)
	if err != nil {
		return err
	}

	hs, err := hitio.ReadHitsFile(fsutil.OSFileSystem{}, cfg.HitsFile)
	if err != nil {
		return err
	}
	log.Printf("Read %d hits from %s", len(hs), cfg.HitsFile)

	geom := hits.NewTPCLayout(cfg.WiresPerPlane, cfg.ReadoutWindow)
	bc, err := pipeline.New(tuning, geom)
	if err != nil {
		return err
	}

	results, runErr := bc.RunPlanes(hs)

	var nClusters int
	for _, r := range results {
		if r.Result != nil {
			nClusters += len(r.Result.Clusters)
		}
	}
	log.Printf("Found %d clusters across %d planes", nClusters, len(results))

	if cfg.OutputFile == "" {
		err = hitio.WriteResults(stdout, results, hitio.FormatJSON)
	} else {
		err = hitio.WriteResultsFile(fsutil.OSFileSystem{}, cfg.OutputFile, results)
	}
	if err != nil {
		return err
	}
	return runErr
}
