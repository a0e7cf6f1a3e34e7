package genex

import (
	"fmt"
	"math"
)

// Avogadro's number, used to convert macroscopic rate constants into
// per-molecule stochastic propensities.
const Avogadro = 6.0221409e23

// Reaction is a propensity source the simulation can select and fire.
// CalculatePropensity must be a pure function of current tracker and
// polymer state; Execute mutates that state and must run to completion
// before the next SSA draw.
type Reaction interface {
	CalculatePropensity() float64
	Execute() error
}

// SpeciesReaction is a mass-action reaction over named species counts
// with stoichiometry one per slot; repeating a name in the reactant or
// product list means stoichiometry greater than one. At most two
// reactant slots are supported.
type SpeciesReaction struct {
	tracker      *SpeciesTracker
	rateConstant float64
	reactants    []string
	products     []string
}

// NewSpeciesReaction builds a species reaction, folding the
// (Avogadro * volume)^(n-1) scaling for an n-reactant reaction into
// the stored rate constant so the hot-path propensity is a bare
// product of counts.
func NewSpeciesReaction(tracker *SpeciesTracker, rate, cellVolume float64, reactants, products []string) (*SpeciesReaction, error) {
	if len(reactants) > 2 {
		return nil, &InvalidReactionError{
			Reason: fmt.Sprintf("%d reactants given, at most 2 supported", len(reactants)),
		}
	}
	scaled := rate
	if len(reactants) > 1 {
		scaled = rate / math.Pow(Avogadro*cellVolume, float64(len(reactants)-1))
	}
	return &SpeciesReaction{
		tracker:      tracker,
		rateConstant: scaled,
		reactants:    append([]string(nil), reactants...),
		products:     append([]string(nil), products...),
	}, nil
}

// CalculatePropensity returns the scaled rate constant times the
// product of current reactant counts; with no reactants it is the
// constant itself.
func (r *SpeciesReaction) CalculatePropensity() float64 {
	prop := r.rateConstant
	for _, name := range r.reactants {
		prop *= float64(r.tracker.Species(name))
	}
	return prop
}

// Execute consumes one of each reactant slot and produces one of each
// product slot.
func (r *SpeciesReaction) Execute() error {
	for _, name := range r.reactants {
		if err := r.tracker.Increment(name, -1); err != nil {
			return err
		}
	}
	for _, name := range r.products {
		if err := r.tracker.Increment(name, 1); err != nil {
			return err
		}
	}
	return nil
}

// Bind is the reaction that places a fresh mobile element instance on
// a polymer carrying a free copy of the named promoter.
type Bind struct {
	tracker      *SpeciesTracker
	rateConstant float64
	promoter     string
	prototype    MobileElement
}

// NewBind builds a binding reaction for the given promoter name and
// element prototype. The rate is scaled by Avogadro * volume once at
// construction, mirroring a bimolecular species reaction.
func NewBind(tracker *SpeciesTracker, rate, cellVolume float64, promoter string, prototype MobileElement) *Bind {
	return &Bind{
		tracker:      tracker,
		rateConstant: rate / (Avogadro * cellVolume),
		promoter:     promoter,
		prototype:    prototype,
	}
}

// CalculatePropensity returns scaled rate times free promoter count
// times free element count.
func (b *Bind) CalculatePropensity() float64 {
	return b.rateConstant *
		float64(b.tracker.Species(b.promoter)) *
		float64(b.tracker.Species(b.prototype.Name))
}

// Execute consumes one free element, picks an eligible polymer
// weighted by its free-promoter count, and binds a new instance there.
// Firing with no polymer able to accept the binding means the indices
// have drifted from the counts, which is fatal.
func (b *Bind) Execute() error {
	if err := b.tracker.Increment(b.prototype.Name, -1); err != nil {
		return err
	}
	polymers := b.tracker.FindPolymers(b.promoter)
	weights := make([]float64, len(polymers))
	total := 0.0
	for i, polymer := range polymers {
		weights[i] = float64(polymer.Uncovered(b.promoter))
		total += weights[i]
	}
	if total <= 0 {
		return &InvariantError{
			Invariant: "promoter index consistent with species counts",
			Entity:    b.promoter,
			Detail:    "bind fired with no polymer holding a free site",
		}
	}
	instance := b.prototype
	bound, err := polymers[weightedIndex(weights, total)].Bind(&instance, b.promoter)
	if err != nil {
		return err
	}
	if !bound {
		return &InvariantError{
			Invariant: "promoter index consistent with species counts",
			Entity:    b.promoter,
			Detail:    "selected polymer had no free site",
		}
	}
	return nil
}

// bridgeable is the polymer surface a Bridge needs.
type bridgeable interface {
	PropSum() float64
	Execute() error
}

// Bridge exposes one polymer's summed internal movement propensity to
// the simulation's flat reaction list, so "do one movement step on
// polymer P" is selected uniformly with species-level reactions.
type Bridge struct {
	polymer bridgeable
}

// NewBridge wraps a polymer as a reaction-list entry.
func NewBridge(polymer bridgeable) *Bridge {
	return &Bridge{polymer: polymer}
}

// CalculatePropensity passes the polymer's movement propensity through
// at zero marginal cost.
func (b *Bridge) CalculatePropensity() float64 {
	return b.polymer.PropSum()
}

// Execute performs exactly one movement step on the wrapped polymer.
func (b *Bridge) Execute() error {
	return b.polymer.Execute()
}
