package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/hitcluster/internal/pipeline"
	"github.com/banshee-data/hitcluster/internal/testutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

const trackCSV = `cryostat,tpc,plane,wire,peak_time,integral,rms
0,0,2,100,500,10,1
0,0,2,101,500,10,1
0,0,2,102,500,10,1
0,0,1,50,300,10,1
`

func TestRun_StdoutJSON(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		HitsFile:      writeFile(t, dir, "hits.csv", trackCSV),
		ReadoutWindow: 4096,
	}

	var out bytes.Buffer
	testutil.AssertNoError(t, run(cfg, &out))

	var results []pipeline.PlaneResult
	if err := json.Unmarshal(out.Bytes(), &results); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d plane results, want 2", len(results))
	}
	if !results[0].Skipped {
		t.Errorf("plane 1 with one hit should be skipped")
	}
	if results[1].Result == nil || len(results[1].Result.Clusters) != 1 {
		t.Fatalf("plane 2: want one cluster, got %+v", results[1].Result)
	}
	if got := len(results[1].Result.Clusters[0].Hits); got != 3 {
		t.Errorf("cluster has %d hits, want 3", got)
	}
}

func TestRun_CSVOutputAndConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		HitsFile:      writeFile(t, dir, "hits.csv", trackCSV),
		ConfigFile:    writeFile(t, dir, "tuning.json", `{"min_size": 1}`),
		OutputFile:    filepath.Join(dir, "clusters.csv"),
		ReadoutWindow: 4096,
	}

	var out bytes.Buffer
	testutil.AssertNoError(t, run(cfg, &out))
	if out.Len() != 0 {
		t.Errorf("stdout should be empty when -out is set, got %q", out.String())
	}

	data, err := os.ReadFile(cfg.OutputFile)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// Header plus one row per hit: min_size 1 keeps the lone plane-1 hit.
	if len(lines) != 5 {
		t.Errorf("got %d CSV lines, want 5:\n%s", len(lines), data)
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	hitsPath := writeFile(t, dir, "hits.csv", trackCSV)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing hits", Config{HitsFile: filepath.Join(dir, "nope.csv")}},
		{"bad config", Config{HitsFile: hitsPath, ConfigFile: writeFile(t, dir, "bad.json", `{"kernels": [2]}`)}},
		{"config not json", Config{HitsFile: hitsPath, ConfigFile: writeFile(t, dir, "tuning.yaml", `min_size: 1`)}},
		{"bad output ext", Config{HitsFile: hitsPath, OutputFile: filepath.Join(dir, "out.txt")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertError(t, run(tt.cfg, &bytes.Buffer{}))
		})
	}
}

func TestSetupLogging(t *testing.T) {
	var buf bytes.Buffer
	setupLogging(&buf, true, true)
	defer setupLogging(nil, false, false)

	dir := t.TempDir()
	cfg := Config{HitsFile: writeFile(t, dir, "hits.csv", trackCSV), ReadoutWindow: 4096}
	testutil.AssertNoError(t, run(cfg, &bytes.Buffer{}))
	if !strings.Contains(buf.String(), "[pipeline]") {
		t.Errorf("expected pipeline diagnostics in log output")
	}
}
