package genex

import (
	"fmt"
	"strings"
)

// ValidationError collects multiple validation issues
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid config: unknown validation error"
	}
	if len(e.Issues) == 1 {
		return e.Issues[0]
	}
	return "config validation errors: " + strings.Join(e.Issues, "; ")
}

func (e *ValidationError) Add(issue string) {
	e.Issues = append(e.Issues, issue)
}

func (e *ValidationError) HasIssues() bool {
	return len(e.Issues) > 0
}

// ValidateConfig performs comprehensive validation of a Config
func ValidateConfig(cfg Config) error {
	err := &ValidationError{}

	if cfg.StopTime <= 0 {
		err.Add("stop_time must be positive")
	}
	if cfg.TimeStep <= 0 {
		err.Add("time_step must be positive")
	}
	if cfg.CellVolume <= 0 {
		err.Add("cell_volume must be positive")
	}

	// Build a map of mobile element type names for interaction checks
	elementMap := make(map[string]bool)

	for i, pol := range cfg.Polymerases {
		prefix := "polymerase '" + pol.Name + "'"
		if pol.Name == "" {
			prefix = fmt.Sprintf("polymerase at index %d", i)
			err.Add(prefix + ": name is required")
		} else if elementMap[pol.Name] {
			err.Add("duplicate mobile element name: " + pol.Name)
		} else {
			elementMap[pol.Name] = true
		}
		if pol.Footprint <= 0 {
			err.Add(prefix + ": footprint must be positive")
		}
		if pol.Speed <= 0 {
			err.Add(prefix + ": speed must be positive")
		}
		if pol.CopyNumber < 0 {
			err.Add(prefix + ": copy_number must not be negative")
		}
	}

	for i, rib := range cfg.Ribosomes {
		prefix := "ribosome '" + rib.Name + "'"
		if rib.Name == "" {
			prefix = fmt.Sprintf("ribosome at index %d", i)
			err.Add(prefix + ": name is required")
		} else if elementMap[rib.Name] {
			err.Add("duplicate mobile element name: " + rib.Name)
		} else {
			elementMap[rib.Name] = true
		}
		if rib.Footprint <= 0 {
			err.Add(prefix + ": footprint must be positive")
		}
		if rib.Speed <= 0 {
			err.Add(prefix + ": speed must be positive")
		}
		if rib.CopyNumber < 0 {
			err.Add(prefix + ": copy_number must not be negative")
		}
		if rib.BindingRate <= 0 {
			err.Add(prefix + ": binding_rate must be positive")
		}
	}

	speciesMap := make(map[string]bool)
	for i, sp := range cfg.Species {
		if sp.Name == "" {
			err.Add(fmt.Sprintf("species at index %d: name is required", i))
			continue
		}
		if speciesMap[sp.Name] {
			err.Add("duplicate species name: " + sp.Name)
		} else {
			speciesMap[sp.Name] = true
		}
		if sp.CopyNumber < 0 {
			err.Add("species '" + sp.Name + "': copy_number must not be negative")
		}
	}

	for i, rc := range cfg.Reactions {
		prefix := fmt.Sprintf("reaction at index %d", i)
		if rc.Rate <= 0 {
			err.Add(prefix + ": rate must be positive")
		}
		if len(rc.Reactants) > 2 {
			err.Add(prefix + fmt.Sprintf(": %d reactants given, at most 2 supported", len(rc.Reactants)))
		}
		if len(rc.Reactants) == 0 && len(rc.Products) == 0 {
			err.Add(prefix + ": reaction has no reactants and no products")
		}
	}

	genomeNames := make(map[string]bool)
	for i, g := range cfg.Genomes {
		prefix := "genome '" + g.Name + "'"
		if g.Name == "" {
			prefix = fmt.Sprintf("genome at index %d", i)
			err.Add(prefix + ": name is required")
		} else if genomeNames[g.Name] {
			err.Add("duplicate genome name: " + g.Name)
		} else {
			genomeNames[g.Name] = true
		}
		if g.Length <= 0 {
			err.Add(prefix + ": length must be positive")
		}
		if g.TranscriptDegradationRate < 0 {
			err.Add(prefix + ": transcript_degradation_rate must not be negative")
		}
		validateGenomeSites(g, prefix, elementMap, err)
	}

	if err.HasIssues() {
		return err
	}
	return nil
}

func validateGenomeSites(g GenomeConfig, prefix string, elementMap map[string]bool, err *ValidationError) {
	if g.Mask != nil {
		if g.Mask.Start < 0 || g.Mask.Start > g.Length {
			err.Add(prefix + ": mask start is outside the genome")
		}
		for _, name := range g.Mask.ShiftBy {
			if !elementMap[name] {
				err.Add(prefix + ": mask shift_by references unknown element '" + name + "'")
			}
		}
	}

	siteNames := make(map[string]bool)
	for _, p := range g.Promoters {
		sitePrefix := prefix + " promoter '" + p.Name + "'"
		if p.Name == "" {
			err.Add(prefix + ": promoter name is required")
			continue
		}
		if siteNames[p.Name] {
			err.Add(prefix + ": duplicate site name: " + p.Name)
		} else {
			siteNames[p.Name] = true
		}
		validateInterval(p.Start, p.Stop, g.Length, sitePrefix, err)
		if len(p.Interactions) == 0 {
			err.Add(sitePrefix + ": at least one interaction is required")
		}
		for name, rate := range p.Interactions {
			if !elementMap[name] {
				err.Add(sitePrefix + ": interaction references unknown element '" + name + "'")
			}
			if rate <= 0 {
				err.Add(sitePrefix + ": interaction rate for '" + name + "' must be positive")
			}
		}
	}

	for _, t := range g.Terminators {
		sitePrefix := prefix + " terminator '" + t.Name + "'"
		if t.Name == "" {
			err.Add(prefix + ": terminator name is required")
			continue
		}
		if siteNames[t.Name] {
			err.Add(prefix + ": duplicate site name: " + t.Name)
		} else {
			siteNames[t.Name] = true
		}
		validateInterval(t.Start, t.Stop, g.Length, sitePrefix, err)
		for name, eff := range t.Efficiency {
			if !elementMap[name] {
				err.Add(sitePrefix + ": efficiency references unknown element '" + name + "'")
			}
			if eff < 0 || eff > 1 {
				err.Add(sitePrefix + ": efficiency for '" + name + "' must be between 0 and 1")
			}
		}
	}

	for _, gene := range g.Genes {
		genePrefix := prefix + " gene '" + gene.Name + "'"
		if gene.Name == "" {
			err.Add(prefix + ": gene name is required")
			continue
		}
		if siteNames[gene.Name] {
			err.Add(prefix + ": duplicate site name: " + gene.Name)
		} else {
			siteNames[gene.Name] = true
		}
		validateInterval(gene.Start, gene.Stop, g.Length, genePrefix, err)
		validateInterval(gene.RBSStart, gene.RBSStop, g.Length, genePrefix+" binding site", err)
		if gene.RBSStop > gene.Start {
			err.Add(genePrefix + ": binding site must end before the coding interval starts")
		}
	}

	if len(g.TranscriptWeights) > 0 && len(g.TranscriptWeights) != g.Length {
		err.Add(prefix + fmt.Sprintf(": transcript_weights has %d entries, genome length is %d", len(g.TranscriptWeights), g.Length))
	}
}

func validateInterval(start, stop, length int, prefix string, err *ValidationError) {
	if start < 0 || stop > length {
		err.Add(prefix + ": interval is outside the genome")
	}
	if start >= stop {
		err.Add(prefix + fmt.Sprintf(": interval [%d, %d) is empty", start, stop))
	}
}
