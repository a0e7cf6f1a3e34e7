package genex

import "sort"

// Polymer tracks fixed sites, mobile elements, and collisions on a
// single linear coordinate space, and moves elements along it. It
// contains the core single-molecule tracking shared by genomes
// (transcription) and transcripts (translation): binding, weighted
// movement, mask and element collisions, and the covering and
// uncovering of sites as footprints pass over them.
//
// The terms are used generically: a "promoter" is any site an element
// can bind (a ribosome binding site on a transcript), a "terminator"
// is any site that can end polymerization (a stop codon).
type Polymer struct {
	Name  string
	Start int
	Stop  int

	bindings     []Interval[*BindingSite]
	releases     []Interval[*ReleaseSite]
	bindingSites *IntervalTree[*BindingSite]
	releaseSites *IntervalTree[*ReleaseSite]
	mask         Mask
	manager      *MobileElementManager
	uncovered    map[string]int
	weights      []float64
	degrade      bool

	// attachFn lets a Genome hook transcript construction into the
	// generic binding path; nil for plain polymers and transcripts.
	attachFn func(el *MobileElement) (attachedPolymer, error)

	tracker *SpeciesTracker
	logger  Logger

	notifyPropensity func()
	onTermination    func(element, gene string) error
}

func newPolymer(name string, start, stop int) Polymer {
	return Polymer{
		Name:      name,
		Start:     start,
		Stop:      stop,
		mask:      NewMask(stop, stop, nil),
		uncovered: make(map[string]int),
		logger:    NewNoOpLogger(),
	}
}

// NewPolymer creates a bare polymer spanning [start, stop). Sites,
// mask, and context must be added before Initialize.
func NewPolymer(name string, start, stop int) *Polymer {
	p := newPolymer(name, start, stop)
	return &p
}

// AddBindingSite registers a fixed binding site. Valid only before
// Initialize.
func (p *Polymer) AddBindingSite(s *BindingSite) {
	p.bindings = append(p.bindings, Interval[*BindingSite]{Start: s.Start, Stop: s.Stop, Value: s})
}

// AddReleaseSite registers a fixed release site. Valid only before
// Initialize.
func (p *Polymer) AddReleaseSite(s *ReleaseSite) {
	p.releases = append(p.releases, Interval[*ReleaseSite]{Start: s.Start, Stop: s.Stop, Value: s})
}

// SetMask installs the inaccessible trailing interval.
func (p *Polymer) SetMask(m Mask) { p.mask = m }

// SetWeights installs the per-position movement weight profile.
func (p *Polymer) SetWeights(weights []float64) { p.weights = weights }

// SetDegrade marks the polymer for removal once its last element
// leaves.
func (p *Polymer) SetDegrade(degrade bool) { p.degrade = degrade }

// SetContext hands the polymer its species tracker and logger.
func (p *Polymer) SetContext(tracker *SpeciesTracker, logger Logger) {
	p.tracker = tracker
	if logger != nil {
		p.logger = logger
	}
}

// SetPropensityFunc registers the callback fired whenever this
// polymer's summed movement propensity changes.
func (p *Polymer) SetPropensityFunc(fn func()) { p.notifyPropensity = fn }

// SetTerminationFunc registers the callback fired when an element is
// released, carrying the element type name and the gene of the release
// site (empty for a run-off).
func (p *Polymer) SetTerminationFunc(fn func(element, gene string) error) {
	p.onTermination = fn
}

// Initialize builds the interval trees, applies the mask's initial
// covering, and seeds the uncovered-count cache. Sites fully or partly
// under the mask start covered; every exposed binding site adds one to
// its name's species count in the tracker.
func (p *Polymer) Initialize() error {
	sort.Slice(p.bindings, func(i, j int) bool { return p.bindings[i].Start < p.bindings[j].Start })
	sort.Slice(p.releases, func(i, j int) bool { return p.releases[i].Start < p.releases[j].Start })
	p.bindingSites = NewIntervalTree(p.bindings)
	p.releaseSites = NewIntervalTree(p.releases)
	p.manager = NewMobileElementManager(p.Start, p.weights)

	for _, iv := range p.bindings {
		s := iv.Value
		if _, ok := p.uncovered[s.Name]; !ok {
			p.uncovered[s.Name] = 0
		}
		if Intersect(s.Start, s.Stop, p.mask.Start, p.mask.Stop) {
			s.Cover()
			continue
		}
		p.uncovered[s.Name]++
		if err := p.tracker.Increment(s.Name, 1); err != nil {
			return err
		}
	}
	for _, iv := range p.releases {
		s := iv.Value
		if _, ok := p.uncovered[s.Name]; !ok {
			p.uncovered[s.Name] = 0
		}
		if Intersect(s.Start, s.Stop, p.mask.Start, p.mask.Stop) {
			s.Cover()
			continue
		}
		p.uncovered[s.Name]++
	}
	return nil
}

// PropSum returns the summed movement propensity of all resident
// elements.
func (p *Polymer) PropSum() float64 { return p.manager.PropSum() }

// Uncovered returns the cached count of exposed, non-degraded sites
// with the given name.
func (p *Polymer) Uncovered(name string) int { return p.uncovered[name] }

// ElementCount returns the number of resident mobile elements.
func (p *Polymer) ElementCount() int { return p.manager.Count() }

// Degrade reports whether the polymer should be removed once empty.
func (p *Polymer) Degrade() bool { return p.degrade }

// MaskStart returns the current left edge of the mask.
func (p *Polymer) MaskStart() int { return p.mask.Start }

// Bind places a mobile element on a free, interacting site with the
// given name, selected uniformly among candidates. Returns false with
// a nil error when no site is currently free: a valid stochastic
// outcome, not an error.
func (p *Polymer) Bind(el *MobileElement, promoter string) (bool, error) {
	site, err := p.bind(el, promoter)
	return site != nil, err
}

func (p *Polymer) bind(el *MobileElement, promoter string) (*BindingSite, error) {
	var candidates []*BindingSite
	for _, iv := range p.bindingSites.Overlapping(p.Start, p.Stop) {
		s := iv.Value
		if s.Name == promoter && !s.IsCovered() && s.InteractsWith(el.Name) {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	site := candidates[rng.Intn(len(candidates))]

	el.Start = site.Start
	el.Stop = site.Start + el.Footprint
	if el.Stop > site.Stop {
		return nil, &InvariantError{
			Invariant: "footprint within binding site",
			Entity:    el.Name,
			Detail:    "footprint extends past site '" + site.Name + "'",
		}
	}
	if !p.mask.Empty() && el.Stop > p.mask.Start {
		return nil, &InvariantError{
			Invariant: "binding clear of mask",
			Entity:    el.Name,
			Detail:    "footprint would overlap the mask at '" + site.Name + "'",
		}
	}

	// The arriving footprint covers everything under it, not just the
	// selected site; terminate uncovers the same span on release.
	for _, iv := range p.bindingSites.Overlapping(el.Start, el.Stop) {
		if err := p.coverBinding(iv.Value); err != nil {
			return nil, err
		}
	}
	for _, iv := range p.releaseSites.Overlapping(el.Start, el.Stop) {
		p.coverRelease(iv.Value)
	}

	var attached attachedPolymer
	if p.attachFn != nil {
		var err error
		attached, err = p.attachFn(el)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.manager.Insert(el, attached); err != nil {
		return nil, err
	}
	p.logger.Debugf("%s: bound %s at site %s [%d, %d)", p.Name, el.Name, site.Name, el.Start, el.Stop)
	p.firePropensity()
	return site, nil
}

// Execute performs one simulation step attributable to this polymer:
// weighted-choose a resident element and move it.
func (p *Polymer) Execute() error {
	if p.manager.Count() == 0 || p.manager.PropSum() <= 0 {
		return &InvariantError{
			Invariant: "positive movement propensity",
			Entity:    p.Name,
			Detail:    "execute called with no movable elements",
		}
	}
	index, err := p.manager.Choose()
	if err != nil {
		return err
	}
	return p.Move(index)
}

// Move advances the element at index by one unit, resolving mask and
// element collisions before committing, then updates covering state,
// runs termination trials, and handles run-off the end.
func (p *Polymer) Move(index int) error {
	el := p.manager.Element(index)
	attached := p.manager.Attached(index)
	oldStart, oldStop := el.Start, el.Stop
	el.Start++
	el.Stop++

	if !p.mask.Empty() && Intersect(el.Start, el.Stop, p.mask.Start, p.mask.Stop) {
		if el.Stop-p.mask.Start > 1 {
			return &InvariantError{
				Invariant: "at most one unit of mask overlap",
				Entity:    el.Name,
				Detail:    "element is inside the mask on '" + p.Name + "'",
			}
		}
		if p.mask.CanShift(el.Name) {
			if err := p.ShiftMask(); err != nil {
				return err
			}
		} else {
			el.Start, el.Stop = oldStart, oldStop
			return nil
		}
	}

	if next := p.manager.Next(index); next != nil && Intersect(el.Start, el.Stop, next.Start, next.Stop) {
		if el.Stop-next.Start > 1 {
			return &InvariantError{
				Invariant: "non-overlapping footprints",
				Entity:    el.Name,
				Detail:    "overlaps '" + next.Name + "' past one unit on '" + p.Name + "'",
			}
		}
		el.Start, el.Stop = oldStart, oldStop
		return nil
	}

	// Move committed: a genome polymerase drags its transcript's mask
	// along, exposing newly synthesized sites.
	if attached != nil {
		if err := attached.ShiftMask(); err != nil {
			return err
		}
	}

	// Trailing edge: sites the footprint has fully cleared.
	for _, iv := range p.bindingSites.Overlapping(oldStart, el.Start) {
		if iv.Value.Stop <= el.Start {
			if err := p.uncoverBinding(iv.Value); err != nil {
				return err
			}
		}
	}
	for _, iv := range p.releaseSites.Overlapping(oldStart, el.Start) {
		if iv.Value.Stop <= el.Start {
			p.uncoverRelease(iv.Value)
		}
	}

	// Leading edge: sites the footprint has just reached.
	for _, iv := range p.bindingSites.Overlapping(oldStop, el.Stop) {
		if iv.Value.Start >= oldStop {
			if err := p.coverBinding(iv.Value); err != nil {
				return err
			}
		}
	}
	for _, iv := range p.releaseSites.Overlapping(oldStop, el.Stop) {
		if iv.Value.Start < oldStop {
			continue
		}
		p.coverRelease(iv.Value)
		terminated, err := p.checkTermination(index, el, attached, iv.Value)
		if err != nil {
			return err
		}
		if terminated {
			return nil
		}
	}

	if el.Stop > p.Stop {
		return p.terminate(index, el, attached, p.Stop, "")
	}

	p.manager.UpdatePropensity(index)
	p.firePropensity()
	return nil
}

// ShiftMask recedes the mask by one unit and uncovers any site the
// mask no longer touches.
func (p *Polymer) ShiftMask() error {
	if p.mask.Empty() {
		return nil
	}
	exposed := p.mask.Start
	p.mask.Recede()
	for _, iv := range p.bindingSites.Overlapping(exposed, exposed+1) {
		if !Intersect(iv.Value.Start, iv.Value.Stop, p.mask.Start, p.mask.Stop) {
			if err := p.uncoverBinding(iv.Value); err != nil {
				return err
			}
		}
	}
	for _, iv := range p.releaseSites.Overlapping(exposed, exposed+1) {
		if !Intersect(iv.Value.Start, iv.Value.Stop, p.mask.Start, p.mask.Stop) {
			p.uncoverRelease(iv.Value)
		}
	}
	return nil
}

// ReleaseMask rolls the mask forward to the given stop position,
// exposing everything up to it. Driven by the producing polymerase's
// release on the parent genome.
func (p *Polymer) ReleaseMask(stop int) error {
	for p.mask.Start < stop && !p.mask.Empty() {
		if err := p.ShiftMask(); err != nil {
			return err
		}
	}
	return nil
}

// Decommission withdraws the polymer's exposed binding sites from the
// tracker's species counts; the terminal step of degradation.
func (p *Polymer) Decommission() error {
	for name, count := range p.uncovered {
		if count == 0 {
			continue
		}
		isBinding := false
		for _, iv := range p.bindings {
			if iv.Value.Name == name {
				isBinding = true
				break
			}
		}
		if !isBinding {
			continue
		}
		if err := p.tracker.Increment(name, -count); err != nil {
			return err
		}
		p.uncovered[name] = 0
	}
	return nil
}

func (p *Polymer) checkTermination(index int, el *MobileElement, attached attachedPolymer, site *ReleaseSite) (bool, error) {
	if site.Readthrough() {
		return false, nil
	}
	if site.ReadingFrame >= 0 && el.ReadingFrame >= 0 && site.ReadingFrame != el.ReadingFrame {
		return false, nil
	}
	efficiency, interacts := site.EfficiencyFor(el.Name)
	if !interacts {
		return false, nil
	}
	if !bernoulliTrial(efficiency) {
		site.SetReadthrough(true)
		return false, nil
	}
	return true, p.terminate(index, el, attached, site.Stop, site.Gene)
}

func (p *Polymer) terminate(index int, el *MobileElement, attached attachedPolymer, stop int, gene string) error {
	// The departing footprint releases everything under it.
	for _, iv := range p.bindingSites.Overlapping(el.Start, el.Stop) {
		if err := p.uncoverBinding(iv.Value); err != nil {
			return err
		}
	}
	for _, iv := range p.releaseSites.Overlapping(el.Start, el.Stop) {
		p.uncoverRelease(iv.Value)
	}
	p.manager.Delete(index)
	p.logger.Debugf("%s: released %s at %d (gene %q)", p.Name, el.Name, stop, gene)
	p.firePropensity()
	if attached != nil {
		if err := attached.ReleaseMask(stop); err != nil {
			return err
		}
	}
	if p.onTermination != nil {
		return p.onTermination(el.Name, gene)
	}
	return nil
}

func (p *Polymer) coverBinding(s *BindingSite) error {
	was := s.IsCovered()
	s.Cover()
	if was {
		return nil
	}
	p.uncovered[s.Name]--
	if p.uncovered[s.Name] < 0 {
		return &InvariantError{
			Invariant: "non-negative uncovered count",
			Entity:    s.Name,
			Detail:    "uncovered cache went negative on '" + p.Name + "'",
		}
	}
	return p.tracker.Increment(s.Name, -1)
}

func (p *Polymer) uncoverBinding(s *BindingSite) error {
	s.Uncover()
	if s.IsCovered() {
		return nil
	}
	p.uncovered[s.Name]++
	return p.tracker.Increment(s.Name, 1)
}

func (p *Polymer) coverRelease(s *ReleaseSite) {
	was := s.IsCovered()
	s.Cover()
	if !was {
		p.uncovered[s.Name]--
	}
}

func (p *Polymer) uncoverRelease(s *ReleaseSite) {
	s.Uncover()
	if !s.IsCovered() {
		p.uncovered[s.Name]++
	}
}

func (p *Polymer) firePropensity() {
	if p.notifyPropensity != nil {
		p.notifyPropensity()
	}
}
