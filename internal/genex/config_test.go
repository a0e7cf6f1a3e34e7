package genex

import "testing"

const testConfigYAML = `
name: three_genes
seed: 42
stop_time: 60
time_step: 1
cell_volume: 8.0e-15
species:
  - name: substrate
    copy_number: 100
reactions:
  - rate: 1.0e6
    reactants: [substrate, enzyme]
    products: [product, enzyme]
polymerases:
  - name: ecolipol
    footprint: 10
    speed: 30
    copy_number: 2
ribosomes:
  - name: ribosome
    footprint: 10
    speed: 30
    copy_number: 100
    binding_rate: 1.0e7
genomes:
  - name: plasmid
    length: 1200
    transcript_degradation_rate: 0.01
    mask:
      start: 50
      shift_by: [ecolipol]
    promoters:
      - name: p1
        start: 5
        stop: 15
        interactions:
          ecolipol: 1000
    terminators:
      - name: t1
        start: 50
        stop: 55
        efficiency:
          ecolipol: 0.6
    genes:
      - name: proteinX
        start: 26
        stop: 148
        rbs_start: 16
        rbs_stop: 26
        rbs_strength: 1.0e7
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(testConfigYAML))
	if err != nil {
		t.Fatalf("Expected parse to succeed, got %v", err)
	}

	if cfg.Name != "three_genes" {
		t.Errorf("Expected name three_genes, got %s", cfg.Name)
	}
	if cfg.Seed == nil || *cfg.Seed != 42 {
		t.Error("Expected seed 42")
	}
	if cfg.StopTime != 60 || cfg.TimeStep != 1 {
		t.Errorf("Expected stop_time 60 and time_step 1, got %f and %f", cfg.StopTime, cfg.TimeStep)
	}
	if cfg.CellVolume != 8.0e-15 {
		t.Errorf("Expected cell_volume 8e-15, got %g", cfg.CellVolume)
	}

	if len(cfg.Polymerases) != 1 || cfg.Polymerases[0].Name != "ecolipol" {
		t.Fatal("Expected one polymerase named ecolipol")
	}
	if len(cfg.Ribosomes) != 1 || cfg.Ribosomes[0].BindingRate != 1.0e7 {
		t.Fatal("Expected one ribosome with binding_rate 1e7")
	}

	if len(cfg.Genomes) != 1 {
		t.Fatalf("Expected 1 genome, got %d", len(cfg.Genomes))
	}
	g := cfg.Genomes[0]
	if g.Length != 1200 {
		t.Errorf("Expected genome length 1200, got %d", g.Length)
	}
	if g.Mask == nil || g.Mask.Start != 50 || len(g.Mask.ShiftBy) != 1 {
		t.Error("Expected mask at 50 shiftable by one element type")
	}
	if len(g.Promoters) != 1 || g.Promoters[0].Interactions["ecolipol"] != 1000 {
		t.Error("Expected promoter p1 with ecolipol rate 1000")
	}
	if len(g.Terminators) != 1 || g.Terminators[0].Efficiency["ecolipol"] != 0.6 {
		t.Error("Expected terminator t1 with ecolipol efficiency 0.6")
	}
	if len(g.Genes) != 1 || g.Genes[0].RBSStart != 16 {
		t.Error("Expected gene proteinX with rbs_start 16")
	}
}

func TestParseConfigRejectsMalformedYAML(t *testing.T) {
	if _, err := ParseConfig([]byte("stop_time: [not a number")); err == nil {
		t.Error("Expected malformed YAML to fail")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("does-not-exist.yml"); err == nil {
		t.Error("Expected missing file to fail")
	}
}
