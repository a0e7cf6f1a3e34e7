package genex

import (
	"sort"
	"testing"
)

func buildTestTree(spans [][2]int) *IntervalTree[int] {
	intervals := make([]Interval[int], len(spans))
	for i, s := range spans {
		intervals[i] = Interval[int]{Start: s[0], Stop: s[1], Value: i}
	}
	sort.Slice(intervals, func(i, j int) bool { return intervals[i].Start < intervals[j].Start })
	return NewIntervalTree(intervals)
}

func bruteOverlap(spans [][2]int, start, stop int) []int {
	var hits []int
	for i, s := range spans {
		if Intersect(s[0], s[1], start, stop) {
			hits = append(hits, i)
		}
	}
	return hits
}

func TestIntervalTreeEmpty(t *testing.T) {
	tree := NewIntervalTree[int](nil)
	if got := tree.Overlapping(0, 100); len(got) != 0 {
		t.Errorf("Expected no results from empty tree, got %d", len(got))
	}
}

func TestIntervalTreeOverlapping(t *testing.T) {
	spans := [][2]int{{5, 15}, {16, 26}, {26, 148}, {50, 55}, {150, 160}, {149, 150}}
	tree := buildTestTree(spans)

	queries := [][2]int{
		{0, 5}, {0, 6}, {5, 15}, {14, 16}, {15, 16}, {25, 27},
		{50, 51}, {54, 55}, {55, 56}, {100, 200}, {0, 1000}, {148, 149},
	}
	for _, q := range queries {
		want := bruteOverlap(spans, q[0], q[1])
		got := tree.Overlapping(q[0], q[1])
		if len(got) != len(want) {
			t.Errorf("Query [%d, %d): expected %d results, got %d", q[0], q[1], len(want), len(got))
			continue
		}
		found := make(map[int]bool)
		for _, iv := range got {
			found[iv.Value] = true
		}
		for _, w := range want {
			if !found[w] {
				t.Errorf("Query [%d, %d): expected interval %d in results", q[0], q[1], w)
			}
		}
	}
}

func TestIntervalTreeHalfOpenBoundaries(t *testing.T) {
	tree := buildTestTree([][2]int{{10, 20}})

	// Query ending exactly at the interval start must not match.
	if got := tree.Overlapping(0, 10); len(got) != 0 {
		t.Errorf("Expected no overlap for query ending at interval start, got %d", len(got))
	}
	// Query starting exactly at the interval stop must not match.
	if got := tree.Overlapping(20, 30); len(got) != 0 {
		t.Errorf("Expected no overlap for query starting at interval stop, got %d", len(got))
	}
	// One-unit queries inside the interval must match.
	if got := tree.Overlapping(10, 11); len(got) != 1 {
		t.Errorf("Expected overlap at interval start, got %d results", len(got))
	}
	if got := tree.Overlapping(19, 20); len(got) != 1 {
		t.Errorf("Expected overlap at interval end, got %d results", len(got))
	}
}

func TestIntervalTreeResultsSorted(t *testing.T) {
	spans := [][2]int{{40, 60}, {10, 50}, {45, 46}, {0, 100}}
	tree := buildTestTree(spans)

	got := tree.Overlapping(44, 48)
	if len(got) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Start < got[i-1].Start {
			t.Errorf("Expected results sorted by start, got %d before %d", got[i-1].Start, got[i].Start)
		}
	}
}
