package genex

import "sort"

// Interval pairs a half-open coordinate range [Start, Stop) with a value.
type Interval[T any] struct {
	Start int
	Stop  int
	Value T
}

// IntervalTree is a static centered interval tree over half-open
// intervals. It is built once per polymer and never mutated; the
// mutable covering state lives on the values, not the tree.
type IntervalTree[T any] struct {
	root *itreeNode[T]
}

type itreeNode[T any] struct {
	center      int
	overlapping []Interval[T]
	left        *itreeNode[T]
	right       *itreeNode[T]
}

// NewIntervalTree builds a tree from the given intervals. The input
// slice is not retained.
func NewIntervalTree[T any](intervals []Interval[T]) *IntervalTree[T] {
	ivs := make([]Interval[T], len(intervals))
	copy(ivs, intervals)
	return &IntervalTree[T]{root: buildITree(ivs)}
}

func buildITree[T any](ivs []Interval[T]) *itreeNode[T] {
	if len(ivs) == 0 {
		return nil
	}

	// Median of midpoints: the interval contributing the median always
	// straddles the center, so both partitions shrink.
	points := make([]int, 0, len(ivs))
	for _, iv := range ivs {
		points = append(points, iv.Start+(iv.Stop-iv.Start)/2)
	}
	sort.Ints(points)
	center := points[len(points)/2]

	node := &itreeNode[T]{center: center}
	var left, right []Interval[T]
	for _, iv := range ivs {
		switch {
		case iv.Stop <= center:
			left = append(left, iv)
		case iv.Start > center:
			right = append(right, iv)
		default:
			node.overlapping = append(node.overlapping, iv)
		}
	}
	sort.Slice(node.overlapping, func(i, j int) bool {
		return node.overlapping[i].Start < node.overlapping[j].Start
	})
	node.left = buildITree(left)
	node.right = buildITree(right)
	return node
}

// Overlapping returns all intervals that overlap the half-open query
// range [start, stop), ordered by start position.
func (t *IntervalTree[T]) Overlapping(start, stop int) []Interval[T] {
	if t == nil || t.root == nil || start >= stop {
		return nil
	}
	var out []Interval[T]
	t.root.query(start, stop, &out)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func (n *itreeNode[T]) query(start, stop int, out *[]Interval[T]) {
	for _, iv := range n.overlapping {
		if iv.Start >= stop {
			break
		}
		if start < iv.Stop {
			*out = append(*out, iv)
		}
	}
	if n.left != nil && start <= n.center {
		n.left.query(start, stop, out)
	}
	if n.right != nil && stop > n.center {
		n.right.query(start, stop, out)
	}
}
