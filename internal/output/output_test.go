package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stochbio/genex/internal/genex"
)

func sampleSnapshot(time float64, protein int) genex.Snapshot {
	return genex.Snapshot{
		Time:       time,
		Iterations: int(time * 10),
		Species: map[string]int{
			"proteinX": protein,
			"ecolipol": 2,
		},
		Transcripts: map[string]int{"proteinX": 1},
		Ribosomes:   map[string]int{"proteinX": 3},
	}
}

func TestWriterProducesAllArtifacts(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("Expected writer creation to succeed, got %v", err)
	}

	for i, protein := range []int{0, 2, 4} {
		if err := w.Append(sampleSnapshot(float64(i), protein)); err != nil {
			t.Fatalf("Expected append to succeed, got %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Expected flush to succeed, got %v", err)
	}

	for _, name := range []string{"counts.csv", "ribosomes.csv", "summary.csv", "results.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s to exist, got %v", name, err)
		}
	}
}

func TestWriterCountsCSV(t *testing.T) {
	dir := t.TempDir()
	w, _ := NewWriter(dir)
	w.Append(sampleSnapshot(0, 0))
	w.Append(sampleSnapshot(1, 2))
	if err := w.Flush(); err != nil {
		t.Fatalf("Expected flush to succeed, got %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "counts.csv"))
	if err != nil {
		t.Fatalf("Expected counts.csv to be readable, got %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "time,species,count" {
		t.Errorf("Expected header 'time,species,count', got %q", lines[0])
	}
	// Two snapshots with two species each.
	if len(lines) != 5 {
		t.Errorf("Expected 4 data rows, got %d", len(lines)-1)
	}
	// Species are sorted within each snapshot.
	if !strings.Contains(lines[1], "ecolipol") {
		t.Errorf("Expected ecolipol first, got %q", lines[1])
	}
}

func TestWriterSummaryStatistics(t *testing.T) {
	dir := t.TempDir()
	w, _ := NewWriter(dir)
	for i, protein := range []int{0, 2, 4} {
		w.Append(sampleSnapshot(float64(i), protein))
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Expected flush to succeed, got %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "summary.csv"))
	if err != nil {
		t.Fatalf("Expected summary.csv to be readable, got %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "species,mean,stddev,final") {
		t.Errorf("Expected summary header, got %q", content)
	}
	// proteinX trajectory 0, 2, 4: mean 2, final 4.
	var proteinLine string
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "proteinX") {
			proteinLine = line
		}
	}
	if proteinLine == "" {
		t.Fatal("Expected a proteinX row in summary.csv")
	}
	if !strings.Contains(proteinLine, ",2,") && !strings.Contains(proteinLine, ",2.0") {
		t.Errorf("Expected proteinX mean 2, got %q", proteinLine)
	}
	if !strings.HasSuffix(strings.TrimSpace(proteinLine), ",4") {
		t.Errorf("Expected proteinX final count 4, got %q", proteinLine)
	}
}

func TestWriterResultsJSON(t *testing.T) {
	dir := t.TempDir()
	w, _ := NewWriter(dir)
	w.Append(sampleSnapshot(0, 0))
	w.Append(sampleSnapshot(5, 7))
	if err := w.Flush(); err != nil {
		t.Fatalf("Expected flush to succeed, got %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "results.json"))
	if err != nil {
		t.Fatalf("Expected results.json to be readable, got %v", err)
	}
	var snapshot genex.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if snapshot.Time != 5 {
		t.Errorf("Expected final snapshot time 5, got %f", snapshot.Time)
	}
	if snapshot.Species["proteinX"] != 7 {
		t.Errorf("Expected final proteinX count 7, got %d", snapshot.Species["proteinX"])
	}
}
