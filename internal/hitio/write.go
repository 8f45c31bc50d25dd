package hitio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/banshee-data/hitcluster/internal/fsutil"
	"github.com/banshee-data/hitcluster/internal/pipeline"
)

// clusterCSVHeader is the column order for result CSV files.
var clusterCSVHeader = []string{
	"run_id", "cryostat", "tpc", "plane", "cluster",
	"wire", "peak_time", "integral", "rms",
}

// WriteResultsFile writes results to path on fsys in the format implied by
// its extension. JSON Lines paths are written as JSON.
func WriteResultsFile(fsys fsutil.FileSystem, path string, results []pipeline.PlaneResult) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteResults(f, results, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteResults encodes results to w.
func WriteResults(w io.Writer, results []pipeline.PlaneResult, format Format) error {
	switch format {
	case FormatJSON, FormatJSONL:
		return writeJSON(w, results)
	case FormatCSV:
		return writeCSV(w, results)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func writeJSON(w io.Writer, results []pipeline.PlaneResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, results []pipeline.PlaneResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(clusterCSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, pr := range results {
		if pr.Result == nil {
			continue
		}
		for ci, c := range pr.Result.Clusters {
			for _, h := range c.Hits {
				row := []string{
					pr.Result.RunID,
					strconv.Itoa(pr.Plane.Cryostat),
					strconv.Itoa(h.WireID.TPC),
					strconv.Itoa(pr.Plane.Plane),
					strconv.Itoa(ci),
					strconv.Itoa(h.WireID.Wire),
					strconv.FormatFloat(h.PeakTime, 'f', -1, 64),
					strconv.FormatFloat(h.Integral, 'f', -1, 64),
					strconv.FormatFloat(h.RMS, 'f', -1, 64),
				}
				if err := cw.Write(row); err != nil {
					return fmt.Errorf("failed to write CSV row: %w", err)
				}
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
