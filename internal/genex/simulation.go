package genex

// Simulation drives the stochastic simulation algorithm over a flat
// list of reactions: species-level reactions, promoter binds, and one
// bridge per polymer exposing its internal movement propensity. The
// propensity cache is maintained incrementally; every state mutation
// reports the affected reaction indices back through UpdatePropensity
// and the total is never recomputed on the hot path.
type Simulation struct {
	tracker *SpeciesTracker
	logger  Logger

	stopTime   float64
	timeStep   float64
	cellVolume float64

	time       float64
	iterations int

	reactions []Reaction
	alphaList []float64
	alphaSum  float64

	polymerases map[string]MobileElement
	genomes     []*Genome
}

// NewSimulation creates a simulation driver and registers itself as
// the tracker's propensity listener. A nil tracker or logger gets a
// fresh default.
func NewSimulation(stopTime, timeStep, cellVolume float64, tracker *SpeciesTracker, logger Logger) *Simulation {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	if tracker == nil {
		tracker = NewSpeciesTracker(logger)
	}
	s := &Simulation{
		tracker:     tracker,
		logger:      logger,
		stopTime:    stopTime,
		timeStep:    timeStep,
		cellVolume:  cellVolume,
		polymerases: make(map[string]MobileElement),
	}
	tracker.SetListener(s)
	return s
}

// Tracker returns the simulation's species tracker.
func (s *Simulation) Tracker() *SpeciesTracker { return s.tracker }

// Time returns the current simulated time.
func (s *Simulation) Time() float64 { return s.time }

// Iterations returns the number of SSA steps executed so far.
func (s *Simulation) Iterations() int { return s.iterations }

// AlphaSum returns the cached total propensity.
func (s *Simulation) AlphaSum() float64 { return s.alphaSum }

// AddSpecies introduces a species at the given copy number.
func (s *Simulation) AddSpecies(name string, copyNumber int) error {
	return s.tracker.Increment(name, copyNumber)
}

// AddPolymerase registers a polymerase type and its free pool. The
// bind reactions for it are created per promoter when a genome that
// interacts with it is registered.
func (s *Simulation) AddPolymerase(name string, footprint int, speed float64, copyNumber int) error {
	s.polymerases[name] = NewMobileElement(name, footprint, speed)
	return s.tracker.Increment(name, copyNumber)
}

// AddRibosome registers a ribosome type, its free pool, and the single
// bind reaction that places it on any exposed ribosome binding site.
func (s *Simulation) AddRibosome(name string, footprint int, speed float64, copyNumber int, bindingRate float64) error {
	prototype := NewMobileElement(name, footprint, speed)
	s.polymerases[name] = prototype
	if err := s.tracker.Increment(name, copyNumber); err != nil {
		return err
	}
	index := s.addReaction(NewBind(s.tracker, bindingRate, s.cellVolume, RBSName, prototype))
	s.tracker.AddReaction(RBSName, index)
	s.tracker.AddReaction(name, index)
	return nil
}

// AddReaction adds a species-level mass-action reaction and indexes it
// under every species it touches.
func (s *Simulation) AddReaction(rate float64, reactants, products []string) error {
	reaction, err := NewSpeciesReaction(s.tracker, rate, s.cellVolume, reactants, products)
	if err != nil {
		return err
	}
	index := s.addReaction(reaction)
	s.tracker.Register(index, reaction)
	return nil
}

// RegisterGenome wires a genome into the reaction list: a bridge for
// its movement propensity, one bind reaction per promoter and
// interacting polymerase type, and the callbacks that recycle released
// polymerases and register produced transcripts. Initialize runs first
// so the bridge and the bind reactions compute their initial
// propensities from the already-exposed state.
func (s *Simulation) RegisterGenome(g *Genome) error {
	g.SetContext(s.tracker, s.logger)
	if err := g.Initialize(); err != nil {
		return err
	}

	bridgeIndex := s.addReaction(NewBridge(g))
	g.SetPropensityFunc(func() { s.UpdatePropensity(bridgeIndex) })
	g.SetTerminationFunc(func(element, gene string) error {
		return s.tracker.Increment(element, 1)
	})
	g.SetTranscriptFunc(s.registerTranscript)

	for promoter, interactions := range g.Bindings() {
		s.tracker.AddPolymer(promoter, g)
		for polymerase, rate := range interactions {
			prototype, ok := s.polymerases[polymerase]
			if !ok {
				return &InvariantError{
					Invariant: "bound polymerase types registered",
					Entity:    promoter,
					Detail:    "unknown polymerase type '" + polymerase + "'",
				}
			}
			index := s.addReaction(NewBind(s.tracker, rate, s.cellVolume, promoter, prototype))
			s.tracker.AddReaction(promoter, index)
			s.tracker.AddReaction(polymerase, index)
		}
	}

	s.genomes = append(s.genomes, g)
	return nil
}

// registerTranscript wires a nascent transcript into the reaction
// list. Ribosome release produces one protein for the gene whose stop
// site fired; a run-off past the end produces nothing. A transcript
// marked for degradation leaves the system when its last ribosome
// releases.
func (s *Simulation) registerTranscript(t *Transcript) error {
	bridgeIndex := s.addReaction(NewBridge(t))
	t.SetPropensityFunc(func() { s.UpdatePropensity(bridgeIndex) })
	t.SetTerminationFunc(func(element, gene string) error {
		if err := s.tracker.Increment(element, 1); err != nil {
			return err
		}
		if gene != "" {
			if err := s.tracker.Increment(gene, 1); err != nil {
				return err
			}
			if err := s.tracker.IncrementRibo(gene, -1); err != nil {
				return err
			}
		}
		if t.Degrade() && t.ElementCount() == 0 {
			return s.removeTranscript(t, bridgeIndex)
		}
		return nil
	})

	s.tracker.AddPolymer(RBSName, t)
	for _, gene := range t.Genes() {
		s.tracker.IncrementTranscript(gene, 1)
	}
	s.logger.Debugf("registered transcript %s [%d, %d)", t.Name, t.Start, t.Stop)
	return nil
}

// removeTranscript retires a degraded transcript: its exposed binding
// sites leave the species counts, its promoter index entries go away,
// and its bridge entry is pinned to zero. The bridge slot itself stays
// so reaction indices remain stable.
func (s *Simulation) removeTranscript(t *Transcript, bridgeIndex int) error {
	s.tracker.RemovePolymer(t)
	if err := t.Decommission(); err != nil {
		return err
	}
	for _, gene := range t.Genes() {
		s.tracker.IncrementTranscript(gene, -1)
	}
	s.alphaSum -= s.alphaList[bridgeIndex]
	s.alphaList[bridgeIndex] = 0
	s.logger.Debugf("degraded transcript %s", t.Name)
	return nil
}

func (s *Simulation) addReaction(r Reaction) int {
	index := len(s.reactions)
	s.reactions = append(s.reactions, r)
	s.alphaList = append(s.alphaList, 0)
	s.UpdatePropensity(index)
	return index
}

// UpdatePropensity refreshes the cached propensity of one reaction and
// folds the difference into the running total.
func (s *Simulation) UpdatePropensity(index int) {
	prop := s.reactions[index].CalculatePropensity()
	s.alphaSum += prop - s.alphaList[index]
	s.alphaList[index] = prop
}

// InitPropensity recomputes every propensity and the total from
// scratch. Used at startup and as the reference the incremental cache
// is checked against in tests.
func (s *Simulation) InitPropensity() {
	s.alphaSum = 0
	for index, reaction := range s.reactions {
		s.alphaList[index] = reaction.CalculatePropensity()
		s.alphaSum += s.alphaList[index]
	}
}

// Execute performs one SSA iteration: draw a waiting time from the
// total propensity, pick a reaction proportionally to its share, and
// fire it.
func (s *Simulation) Execute() error {
	if len(s.reactions) == 0 || s.alphaSum <= 0 {
		return &InvariantError{
			Invariant: "positive total propensity",
			Entity:    "simulation",
			Detail:    "execute called with nothing able to fire",
		}
	}
	s.time += exponentialDraw(s.alphaSum)
	s.iterations++
	return s.reactions[weightedIndex(s.alphaList, s.alphaSum)].Execute()
}

// Run advances the simulation until stop time, invoking sample at
// every time-step boundary crossed. The final boundary is always
// sampled, so a run yields stopTime/timeStep + 1 snapshots. A total
// propensity of zero before stop time means the system is exhausted;
// the run ends early with the remaining boundaries sampled from the
// frozen state.
func (s *Simulation) Run(sample func(Snapshot) error) error {
	next := 0.0
	for s.time < s.stopTime {
		for next <= s.time && next <= s.stopTime {
			if err := sample(s.snapshotAt(next)); err != nil {
				return err
			}
			next += s.timeStep
		}
		if s.alphaSum <= 0 {
			s.logger.Warnf("total propensity reached zero at t=%.4f, ending run early", s.time)
			break
		}
		if err := s.Execute(); err != nil {
			return err
		}
	}
	for next <= s.stopTime {
		if err := sample(s.snapshotAt(next)); err != nil {
			return err
		}
		next += s.timeStep
	}
	return nil
}

// CurrentSnapshot captures the state at the current simulated time.
func (s *Simulation) CurrentSnapshot() Snapshot {
	return s.snapshotAt(s.time)
}

func (s *Simulation) snapshotAt(t float64) Snapshot {
	return Snapshot{
		Time:        t,
		Iterations:  s.iterations,
		Species:     s.tracker.AllSpecies(),
		Transcripts: s.tracker.Transcripts(),
		Ribosomes:   s.tracker.RibosomesPerTranscript(),
	}
}
