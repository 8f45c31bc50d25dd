package hitio

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/banshee-data/hitcluster/internal/fsutil"
	"github.com/banshee-data/hitcluster/internal/hits"
)

// Format identifies a hit or result file encoding.
type Format string

const (
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

// ErrUnknownFormat is returned for file extensions hitio cannot handle.
var ErrUnknownFormat = errors.New("unknown file format")

// csvHeader is the column order for hit CSV files.
var csvHeader = []string{"cryostat", "tpc", "plane", "wire", "peak_time", "integral", "rms"}

// maxLineBytes bounds a single JSON Lines record.
const maxLineBytes = 1 << 20

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// ReadHitsFile opens path on fsys and reads hits in the format implied by
// its extension.
func ReadHitsFile(fsys fsutil.FileSystem, path string) ([]*hits.Hit, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open hits file: %w", err)
	}
	defer f.Close()

	hs, err := ReadHits(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return hs, nil
}

// ReadHits decodes hits from r. FormatJSON is read as JSON Lines.
func ReadHits(r io.Reader, format Format) ([]*hits.Hit, error) {
	switch format {
	case FormatJSONL, FormatJSON:
		return readJSONL(r)
	case FormatCSV:
		return readCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func readJSONL(r io.Reader) ([]*hits.Hit, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var out []*hits.Hit
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var h hits.Hit
		if err := json.Unmarshal([]byte(text), &h); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, &h)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read hits: %w", err)
	}
	return out, nil
}

func readCSV(r io.Reader) ([]*hits.Hit, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = len(csvHeader)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, name := range csvHeader {
		if strings.ToLower(strings.TrimSpace(header[i])) != name {
			return nil, fmt.Errorf("CSV column %d is %q, want %q", i+1, header[i], name)
		}
	}

	var out []*hits.Hit
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		line, _ := cr.FieldPos(0)
		h, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, h)
	}
}

func parseRecord(rec []string) (*hits.Hit, error) {
	ints := make([]int, 4)
	for i := range ints {
		v, err := strconv.Atoi(rec[i])
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", csvHeader[i], rec[i], err)
		}
		ints[i] = v
	}
	floats := make([]float64, 3)
	for i := range floats {
		v, err := strconv.ParseFloat(rec[4+i], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", csvHeader[4+i], rec[4+i], err)
		}
		floats[i] = v
	}
	return &hits.Hit{
		WireID:   hits.WireID{Cryostat: ints[0], TPC: ints[1], Plane: ints[2], Wire: ints[3]},
		PeakTime: floats[0],
		Integral: floats[1],
		RMS:      floats[2],
	}, nil
}
