package genex

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SpeciesConfig declares a free species pool.
type SpeciesConfig struct {
	Name       string `yaml:"name"`
	CopyNumber int    `yaml:"copy_number"`
}

// ReactionConfig declares a mass-action reaction between free species.
type ReactionConfig struct {
	Rate      float64  `yaml:"rate"`
	Reactants []string `yaml:"reactants"`
	Products  []string `yaml:"products"`
}

// PolymeraseConfig declares a polymerase type and its free pool. Its
// binding rates live on the promoters that accept it.
type PolymeraseConfig struct {
	Name       string  `yaml:"name"`
	Footprint  int     `yaml:"footprint"`
	Speed      float64 `yaml:"speed"`
	CopyNumber int     `yaml:"copy_number"`
}

// RibosomeConfig declares a ribosome type, its free pool, and its
// binding rate onto exposed ribosome binding sites.
type RibosomeConfig struct {
	Name        string  `yaml:"name"`
	Footprint   int     `yaml:"footprint"`
	Speed       float64 `yaml:"speed"`
	CopyNumber  int     `yaml:"copy_number"`
	BindingRate float64 `yaml:"binding_rate"`
}

// PromoterConfig declares a promoter site and, per polymerase type,
// the rate constant at which that type binds it.
type PromoterConfig struct {
	Name         string             `yaml:"name"`
	Start        int                `yaml:"start"`
	Stop         int                `yaml:"stop"`
	Interactions map[string]float64 `yaml:"interactions"`
}

// TerminatorConfig declares a terminator site and, per polymerase
// type, its termination probability. Types absent from the map read
// through.
type TerminatorConfig struct {
	Name       string             `yaml:"name"`
	Start      int                `yaml:"start"`
	Stop       int                `yaml:"stop"`
	Efficiency map[string]float64 `yaml:"efficiency"`
}

// GeneConfig declares a gene and its ribosome binding site.
type GeneConfig struct {
	Name        string  `yaml:"name"`
	Start       int     `yaml:"start"`
	Stop        int     `yaml:"stop"`
	RBSStart    int     `yaml:"rbs_start"`
	RBSStop     int     `yaml:"rbs_stop"`
	RBSStrength float64 `yaml:"rbs_strength"`
}

// MaskConfig declares the initially inaccessible tail of the genome,
// from Start to the genome's end.
type MaskConfig struct {
	Start   int      `yaml:"start"`
	ShiftBy []string `yaml:"shift_by"`
}

// GenomeConfig declares one genome with its sites and gene templates.
type GenomeConfig struct {
	Name                      string             `yaml:"name"`
	Length                    int                `yaml:"length"`
	TranscriptDegradationRate float64            `yaml:"transcript_degradation_rate"`
	Mask                      *MaskConfig        `yaml:"mask"`
	Promoters                 []PromoterConfig   `yaml:"promoters"`
	Terminators               []TerminatorConfig `yaml:"terminators"`
	Genes                     []GeneConfig       `yaml:"genes"`
	TranscriptWeights         []float64          `yaml:"transcript_weights"`
}

// Config is the top-level simulation description loaded from YAML.
type Config struct {
	Name        string             `yaml:"name"`
	Seed        *uint64            `yaml:"seed"`
	StopTime    float64            `yaml:"stop_time"`
	TimeStep    float64            `yaml:"time_step"`
	CellVolume  float64            `yaml:"cell_volume"`
	Species     []SpeciesConfig    `yaml:"species"`
	Reactions   []ReactionConfig   `yaml:"reactions"`
	Polymerases []PolymeraseConfig `yaml:"polymerases"`
	Ribosomes   []RibosomeConfig   `yaml:"ribosomes"`
	Genomes     []GenomeConfig     `yaml:"genomes"`
}

// LoadConfig reads and parses a YAML config file. The result is not
// yet validated; call ValidateConfig before building.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses a YAML config document.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
