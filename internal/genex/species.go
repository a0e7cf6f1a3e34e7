package genex

import "sort"

// PropensityListener receives the index of a reaction whose propensity
// must be refreshed. The simulation driver implements it; delivery is
// synchronous, within the mutation that triggered it.
type PropensityListener interface {
	UpdatePropensity(index int)
}

// Attachable is a polymer that can accept a mobile element at a named
// binding site. Bind reports whether a binding actually happened; a
// false result with a nil error is a domain no-op (no free site), not
// an error.
type Attachable interface {
	Bind(el *MobileElement, promoter string) (bool, error)
	Uncovered(name string) int
}

// SpeciesTracker is the single source of truth for species copy
// numbers and the indexing layer that makes propensity updates
// incremental: it maps species names to the reactions that depend on
// them and promoter names to the polymers that carry them. It is
// constructed explicitly and passed by reference to the simulation,
// polymers, and reactions; it holds no global state.
type SpeciesTracker struct {
	species           map[string]int
	transcripts       map[string]int
	riboPerTranscript map[string]int
	promoterIndex     map[string][]Attachable
	reactionIndex     map[string][]int
	listener          PropensityListener
	logger            Logger
}

// NewSpeciesTracker creates an empty tracker. A nil logger disables
// logging.
func NewSpeciesTracker(logger Logger) *SpeciesTracker {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	t := &SpeciesTracker{logger: logger}
	t.Reset()
	return t
}

// Reset clears all counts and indices. Must be called between runs
// when a tracker is reused.
func (t *SpeciesTracker) Reset() {
	t.species = make(map[string]int)
	t.transcripts = make(map[string]int)
	t.riboPerTranscript = make(map[string]int)
	t.promoterIndex = make(map[string][]Attachable)
	t.reactionIndex = make(map[string][]int)
}

// SetListener registers the single propensity listener. Increment
// fans change notifications out to it for every reaction indexed
// under the mutated species.
func (t *SpeciesTracker) SetListener(l PropensityListener) { t.listener = l }

// Increment changes a species count by delta and notifies the listener
// for every reaction whose propensity depends on that species. A count
// dropping below zero is a fatal invariant violation.
func (t *SpeciesTracker) Increment(name string, delta int) error {
	t.species[name] += delta
	if t.species[name] < 0 {
		return &InvariantError{
			Invariant: "non-negative species count",
			Entity:    name,
			Detail:    "count went negative",
		}
	}
	if t.listener != nil {
		for _, index := range t.reactionIndex[name] {
			t.listener.UpdatePropensity(index)
		}
	}
	return nil
}

// IncrementTranscript changes the per-gene transcript count.
func (t *SpeciesTracker) IncrementTranscript(gene string, delta int) {
	t.transcripts[gene] += delta
}

// IncrementRibo changes the ribosome count attributed to a gene's
// transcripts.
func (t *SpeciesTracker) IncrementRibo(gene string, delta int) error {
	t.riboPerTranscript[gene] += delta
	if t.riboPerTranscript[gene] < 0 {
		return &InvariantError{
			Invariant: "non-negative ribosome count",
			Entity:    gene,
			Detail:    "ribosomes per transcript went negative",
		}
	}
	return nil
}

// Register indexes a species reaction under every distinct reactant
// and product name it touches, so count changes on any of them reach
// it exactly once.
func (t *SpeciesTracker) Register(index int, reaction *SpeciesReaction) {
	seen := make(map[string]bool)
	for _, name := range reaction.reactants {
		if !seen[name] {
			seen[name] = true
			t.AddReaction(name, index)
		}
	}
	for _, name := range reaction.products {
		if !seen[name] {
			seen[name] = true
			t.AddReaction(name, index)
		}
	}
}

// AddReaction indexes a single species-to-reaction association. A
// duplicate (species, index) pair is ignored.
func (t *SpeciesTracker) AddReaction(name string, index int) {
	for _, existing := range t.reactionIndex[name] {
		if existing == index {
			return
		}
	}
	t.reactionIndex[name] = append(t.reactionIndex[name], index)
}

// AddPolymer indexes a promoter-to-polymer association.
func (t *SpeciesTracker) AddPolymer(promoter string, polymer Attachable) {
	t.promoterIndex[promoter] = append(t.promoterIndex[promoter], polymer)
}

// RemovePolymer drops a polymer from every promoter association; used
// when a degraded transcript leaves the system.
func (t *SpeciesTracker) RemovePolymer(polymer Attachable) {
	for promoter, polymers := range t.promoterIndex {
		kept := polymers[:0]
		for _, p := range polymers {
			if p != polymer {
				kept = append(kept, p)
			}
		}
		t.promoterIndex[promoter] = kept
	}
}

// FindReactions returns the (possibly empty) reaction indices that
// depend on the named species.
func (t *SpeciesTracker) FindReactions(name string) []int {
	return t.reactionIndex[name]
}

// FindPolymers returns the (possibly empty) polymers carrying the
// named promoter.
func (t *SpeciesTracker) FindPolymers(promoter string) []Attachable {
	return t.promoterIndex[promoter]
}

// Species returns the current copy number for a name; zero for a name
// never incremented.
func (t *SpeciesTracker) Species(name string) int { return t.species[name] }

// AllSpecies returns a copy of the current species counts.
func (t *SpeciesTracker) AllSpecies() map[string]int {
	out := make(map[string]int, len(t.species))
	for name, count := range t.species {
		out[name] = count
	}
	return out
}

// Transcripts returns a copy of the per-gene transcript counts.
func (t *SpeciesTracker) Transcripts() map[string]int {
	out := make(map[string]int, len(t.transcripts))
	for gene, count := range t.transcripts {
		out[gene] = count
	}
	return out
}

// RibosomesPerTranscript returns a copy of the per-gene ribosome
// counts.
func (t *SpeciesTracker) RibosomesPerTranscript() map[string]int {
	out := make(map[string]int, len(t.riboPerTranscript))
	for gene, count := range t.riboPerTranscript {
		out[gene] = count
	}
	return out
}

// SpeciesNames returns all known species names in sorted order, for
// deterministic output.
func (t *SpeciesTracker) SpeciesNames() []string {
	names := make([]string, 0, len(t.species))
	for name := range t.species {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
