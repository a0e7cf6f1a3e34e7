// Package output collects simulation snapshots and writes the run
// artifacts: long-format CSV time series, a per-species summary, and a
// final-state JSON document.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"

	"github.com/stochbio/genex/internal/genex"
)

// CountRow is one (time, species) cell of the counts time series.
type CountRow struct {
	Time    float64 `csv:"time"`
	Species string  `csv:"species"`
	Count   int     `csv:"count"`
}

// RibosomeRow is one (time, gene) cell of the transcript and bound
// ribosome time series.
type RibosomeRow struct {
	Time        float64 `csv:"time"`
	Gene        string  `csv:"gene"`
	Transcripts int     `csv:"transcripts"`
	Ribosomes   int     `csv:"ribosomes"`
}

// SummaryRow aggregates one species over the sampled trajectory.
type SummaryRow struct {
	Species string  `csv:"species"`
	Mean    float64 `csv:"mean"`
	StdDev  float64 `csv:"stddev"`
	Final   int     `csv:"final"`
}

// Writer accumulates snapshots in memory and writes all artifacts on
// Flush. Rows are emitted in sorted species order so repeated runs
// with the same seed produce byte-identical files.
type Writer struct {
	dir       string
	counts    []*CountRow
	ribosomes []*RibosomeRow
	series    map[string][]float64
	last      genex.Snapshot
}

// NewWriter creates a writer targeting dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Writer{dir: dir, series: make(map[string][]float64)}, nil
}

// Append records one snapshot.
func (w *Writer) Append(s genex.Snapshot) error {
	species := make([]string, 0, len(s.Species))
	for name := range s.Species {
		species = append(species, name)
	}
	sort.Strings(species)
	for _, name := range species {
		w.counts = append(w.counts, &CountRow{Time: s.Time, Species: name, Count: s.Species[name]})
		w.series[name] = append(w.series[name], float64(s.Species[name]))
	}

	genes := make([]string, 0, len(s.Transcripts))
	for gene := range s.Transcripts {
		genes = append(genes, gene)
	}
	sort.Strings(genes)
	for _, gene := range genes {
		w.ribosomes = append(w.ribosomes, &RibosomeRow{
			Time:        s.Time,
			Gene:        gene,
			Transcripts: s.Transcripts[gene],
			Ribosomes:   s.Ribosomes[gene],
		})
	}

	w.last = s
	return nil
}

// Flush writes counts.csv, ribosomes.csv, summary.csv, and
// results.json.
func (w *Writer) Flush() error {
	if err := w.writeCSV("counts.csv", w.counts); err != nil {
		return err
	}
	if err := w.writeCSV("ribosomes.csv", w.ribosomes); err != nil {
		return err
	}
	if err := w.writeCSV("summary.csv", w.summarize()); err != nil {
		return err
	}
	return w.writeResults()
}

func (w *Writer) summarize() []*SummaryRow {
	species := make([]string, 0, len(w.series))
	for name := range w.series {
		species = append(species, name)
	}
	sort.Strings(species)

	rows := make([]*SummaryRow, 0, len(species))
	for _, name := range species {
		values := w.series[name]
		mean, std := stat.MeanStdDev(values, nil)
		if len(values) < 2 {
			std = 0
		}
		rows = append(rows, &SummaryRow{
			Species: name,
			Mean:    mean,
			StdDev:  std,
			Final:   w.last.Species[name],
		})
	}
	return rows
}

func (w *Writer) writeCSV(name string, rows any) error {
	f, err := os.Create(filepath.Join(w.dir, name))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(rows, f); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (w *Writer) writeResults() error {
	f, err := os.Create(filepath.Join(w.dir, "results.json"))
	if err != nil {
		return fmt.Errorf("failed to create results.json: %w", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(w.last); err != nil {
		return fmt.Errorf("failed to write results.json: %w", err)
	}
	return nil
}
