package genex

// BuildSimulation validates a config and assembles the fully wired
// simulation it describes: species pools, mass-action reactions,
// mobile element pools, and genomes with their sites. The returned
// simulation is ready to Run.
func BuildSimulation(cfg Config, logger Logger) (*Simulation, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.Seed != nil {
		Seed(*cfg.Seed)
	}

	tracker := NewSpeciesTracker(logger)
	sim := NewSimulation(cfg.StopTime, cfg.TimeStep, cfg.CellVolume, tracker, logger)

	for _, sp := range cfg.Species {
		if err := sim.AddSpecies(sp.Name, sp.CopyNumber); err != nil {
			return nil, err
		}
	}
	for _, pol := range cfg.Polymerases {
		if err := sim.AddPolymerase(pol.Name, pol.Footprint, pol.Speed, pol.CopyNumber); err != nil {
			return nil, err
		}
	}
	for _, rib := range cfg.Ribosomes {
		if err := sim.AddRibosome(rib.Name, rib.Footprint, rib.Speed, rib.CopyNumber, rib.BindingRate); err != nil {
			return nil, err
		}
	}
	for _, rc := range cfg.Reactions {
		if err := sim.AddReaction(rc.Rate, rc.Reactants, rc.Products); err != nil {
			return nil, err
		}
	}
	for _, gc := range cfg.Genomes {
		if err := sim.RegisterGenome(buildGenome(gc)); err != nil {
			return nil, err
		}
	}
	return sim, nil
}

func buildGenome(cfg GenomeConfig) *Genome {
	g := NewGenome(cfg.Name, cfg.Length, cfg.TranscriptDegradationRate)
	for _, p := range cfg.Promoters {
		g.AddPromoter(p.Name, p.Start, p.Stop, p.Interactions)
	}
	for _, t := range cfg.Terminators {
		g.AddTerminator(t.Name, t.Start, t.Stop, t.Efficiency)
	}
	for _, gene := range cfg.Genes {
		g.AddGene(gene.Name, gene.Start, gene.Stop, gene.RBSStart, gene.RBSStop, gene.RBSStrength)
	}
	if cfg.Mask != nil {
		g.AddMask(cfg.Mask.Start, cfg.Mask.ShiftBy)
	}
	if len(cfg.TranscriptWeights) > 0 {
		g.SetTranscriptWeights(cfg.TranscriptWeights)
	}
	return g
}
