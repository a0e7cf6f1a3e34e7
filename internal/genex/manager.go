package genex

// attachedPolymer is the downstream polymer driven by a mobile
// element's movement: the transcript being synthesized by a genome
// polymerase. Plain elements carry nil.
type attachedPolymer interface {
	ShiftMask() error
	ReleaseMask(stop int) error
}

type boundElement struct {
	element  *MobileElement
	attached attachedPolymer
}

// MobileElementManager owns the mobile elements currently on one
// polymer, each paired with its movement propensity (position weight
// times speed) and, for genome polymerases, the transcript they are
// synthesizing. Elements are kept ordered by position; higher indices
// are further along the polymer, which makes collision checks a
// single-neighbor lookup.
type MobileElementManager struct {
	origin   int
	weights  []float64
	elements []boundElement
	propList []float64
	propSum  float64
}

// NewMobileElementManager creates a manager for a polymer starting at
// origin with the given per-position movement weights. An empty weight
// profile means uniform weight 1.
func NewMobileElementManager(origin int, weights []float64) *MobileElementManager {
	return &MobileElementManager{origin: origin, weights: weights}
}

// Count returns the number of resident elements.
func (m *MobileElementManager) Count() int { return len(m.elements) }

// PropSum returns the summed movement propensity of all resident
// elements. It is maintained incrementally, never recomputed.
func (m *MobileElementManager) PropSum() float64 { return m.propSum }

// Element returns the element at the given position-order index.
func (m *MobileElementManager) Element(index int) *MobileElement {
	return m.elements[index].element
}

// Attached returns the polymer driven by the element at index, or nil.
func (m *MobileElementManager) Attached(index int) attachedPolymer {
	return m.elements[index].attached
}

// Next returns the element immediately ahead of index in position
// order, or nil if index is the furthest along.
func (m *MobileElementManager) Next(index int) *MobileElement {
	if index+1 >= len(m.elements) {
		return nil
	}
	return m.elements[index+1].element
}

// Insert adds an element, preserving position order. A footprint
// overlap with a neighbor is an invariant violation: it signals a
// propensity bug upstream, not a recoverable condition.
func (m *MobileElementManager) Insert(el *MobileElement, attached attachedPolymer) (int, error) {
	pos := len(m.elements)
	for i, other := range m.elements {
		if el.Start < other.element.Start {
			pos = i
			break
		}
	}
	if pos > 0 {
		prev := m.elements[pos-1].element
		if Intersect(el.Start, el.Stop, prev.Start, prev.Stop) {
			return 0, &InvariantError{
				Invariant: "non-overlapping footprints",
				Entity:    el.Name,
				Detail:    "overlaps '" + prev.Name + "' on insert",
			}
		}
	}
	if pos < len(m.elements) {
		next := m.elements[pos].element
		if Intersect(el.Start, el.Stop, next.Start, next.Stop) {
			return 0, &InvariantError{
				Invariant: "non-overlapping footprints",
				Entity:    el.Name,
				Detail:    "overlaps '" + next.Name + "' on insert",
			}
		}
	}

	prop := m.weightAt(el.Start) * el.Speed
	m.elements = append(m.elements, boundElement{})
	copy(m.elements[pos+1:], m.elements[pos:])
	m.elements[pos] = boundElement{element: el, attached: attached}
	m.propList = append(m.propList, 0)
	copy(m.propList[pos+1:], m.propList[pos:])
	m.propList[pos] = prop
	m.propSum += prop
	return pos, nil
}

// Delete removes the element at index and adjusts the running sum.
func (m *MobileElementManager) Delete(index int) {
	m.propSum -= m.propList[index]
	m.elements = append(m.elements[:index], m.elements[index+1:]...)
	m.propList = append(m.propList[:index], m.propList[index+1:]...)
}

// Choose selects a resident element index weighted by movement
// propensity.
func (m *MobileElementManager) Choose() (int, error) {
	if len(m.elements) == 0 || m.propSum <= 0 {
		return 0, &InvariantError{
			Invariant: "positive movement propensity",
			Entity:    "mobile element manager",
			Detail:    "choose called with no selectable elements",
		}
	}
	return weightedIndex(m.propList, m.propSum), nil
}

// UpdatePropensity recomputes one element's contribution from its
// current position and adjusts the running sum in O(1).
func (m *MobileElementManager) UpdatePropensity(index int) {
	prop := m.weightAt(m.elements[index].element.Start) * m.elements[index].element.Speed
	m.propSum += prop - m.propList[index]
	m.propList[index] = prop
}

func (m *MobileElementManager) weightAt(pos int) float64 {
	if len(m.weights) == 0 {
		return 1.0
	}
	i := pos - m.origin
	if i < 0 {
		i = 0
	}
	if i >= len(m.weights) {
		i = len(m.weights) - 1
	}
	return m.weights[i]
}
