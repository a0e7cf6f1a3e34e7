package genex

// Well-known site names used on synthesized transcripts.
const (
	// RBSName is the binding-site name every ribosome binding site
	// carries; Transcript binds are always addressed to it.
	RBSName = "rbs"
	// StopSiteName is the release-site name of a synthesized stop codon.
	StopSiteName = "tstop"
)

// Feature is the base shape shared by everything positioned on a
// polymer: a half-open interval [Start, Stop) on the coordinate line
// plus a name. Identity within a polymer is (name, concrete type).
type Feature struct {
	Name  string
	Start int
	Stop  int
}

// Length returns the width of the feature's interval.
func (f *Feature) Length() int {
	return f.Stop - f.Start
}

// Intersect reports whether the half-open intervals [aStart, aStop)
// and [bStart, bStop) overlap.
func Intersect(aStart, aStop, bStart, bStop int) bool {
	return aStart < bStop && bStart < aStop
}

// BindingSite is a fixed site a mobile element can bind to: a promoter
// on a genome, or a ribosome binding site on a transcript. Interactions
// maps a mobile-element type name to its binding strength; a nil map
// means the site accepts any element type.
type BindingSite struct {
	Feature
	Gene         string
	Interactions map[string]float64
	covered      int
}

// Cover marks the site as covered by one more overlapping object
// (mobile element footprint or mask).
func (s *BindingSite) Cover() { s.covered++ }

// Uncover removes one covering object.
func (s *BindingSite) Uncover() {
	if s.covered > 0 {
		s.covered--
	}
}

func (s *BindingSite) IsCovered() bool { return s.covered > 0 }

// InteractsWith reports whether an element of the given type may bind
// this site.
func (s *BindingSite) InteractsWith(name string) bool {
	if s.Interactions == nil {
		return true
	}
	return s.Interactions[name] > 0
}

// ReleaseSite is a site that can end polymerization: a terminator on a
// genome or a stop codon on a transcript. Efficiency maps a
// mobile-element type name to its termination probability; a nil map
// terminates any element type with probability 1. ReadingFrame below
// zero disables frame matching.
type ReleaseSite struct {
	Feature
	Gene         string
	Efficiency   map[string]float64
	ReadingFrame int
	covered      int
	readthrough  bool
}

func (s *ReleaseSite) Cover() { s.covered++ }

// Uncover removes one covering object. Once the site is fully clear
// the readthrough latch resets, so the next element passing over it
// gets a fresh termination trial.
func (s *ReleaseSite) Uncover() {
	if s.covered > 0 {
		s.covered--
	}
	if s.covered == 0 {
		s.readthrough = false
	}
}

func (s *ReleaseSite) IsCovered() bool { return s.covered > 0 }

// EfficiencyFor returns the termination probability for an element of
// the given type, and whether that type interacts with this site.
func (s *ReleaseSite) EfficiencyFor(name string) (float64, bool) {
	if s.Efficiency == nil {
		return 1.0, true
	}
	eff, ok := s.Efficiency[name]
	return eff, ok
}

func (s *ReleaseSite) Readthrough() bool      { return s.readthrough }
func (s *ReleaseSite) SetReadthrough(rt bool) { s.readthrough = rt }

// Mask is the currently inaccessible trailing interval of a polymer.
// It shrinks monotonically from its start as synthesis proceeds.
// Element types listed as shifters push the mask forward one unit on
// contact; any other type is blocked by it.
type Mask struct {
	Feature
	shifters map[string]bool
}

// NewMask creates a mask over [start, stop) that the listed element
// types may shift.
func NewMask(start, stop int, shiftBy []string) Mask {
	m := Mask{Feature: Feature{Name: "mask", Start: start, Stop: stop}}
	if len(shiftBy) > 0 {
		m.shifters = make(map[string]bool, len(shiftBy))
		for _, name := range shiftBy {
			m.shifters[name] = true
		}
	}
	return m
}

// CanShift reports whether an element of the given type pushes the
// mask forward instead of colliding with it.
func (m *Mask) CanShift(name string) bool { return m.shifters[name] }

// Recede shrinks the mask by one unit from its start.
func (m *Mask) Recede() {
	if m.Start < m.Stop {
		m.Start++
	}
}

// Empty reports whether the mask has no width left.
func (m *Mask) Empty() bool { return m.Start >= m.Stop }

// MobileElement is a polymerase or ribosome: either a prototype held
// by the simulation (position unset) or a live instance bound to
// exactly one polymer. Speed enters the simulation only through the
// movement propensity; every accepted move advances one unit.
// ReadingFrame below zero disables frame-sensitive termination.
type MobileElement struct {
	Feature
	Footprint    int
	Speed        float64
	ReadingFrame int
}

// NewMobileElement creates a prototype with the given footprint and
// speed, frame matching disabled.
func NewMobileElement(name string, footprint int, speed float64) MobileElement {
	return MobileElement{
		Feature:      Feature{Name: name},
		Footprint:    footprint,
		Speed:        speed,
		ReadingFrame: -1,
	}
}
