package genex

import "testing"

func TestWeightedIndexStaysInRange(t *testing.T) {
	Seed(11)
	weights := []float64{0.5, 3.0, 0.0, 1.5}
	total := 5.0
	for i := 0; i < 1000; i++ {
		index := weightedIndex(weights, total)
		if index < 0 || index >= len(weights) {
			t.Fatalf("Expected index in [0, %d), got %d", len(weights), index)
		}
		if weights[index] == 0 && index != len(weights)-1 {
			t.Errorf("Expected zero-weight entry never selected, got index %d", index)
		}
	}
}

func TestWeightedIndexSingleEntry(t *testing.T) {
	Seed(7)
	for i := 0; i < 100; i++ {
		if index := weightedIndex([]float64{2.5}, 2.5); index != 0 {
			t.Fatalf("Expected index 0 for single entry, got %d", index)
		}
	}
}

func TestWeightedIndexProportions(t *testing.T) {
	Seed(42)
	weights := []float64{1.0, 9.0}
	hits := [2]int{}
	const draws = 10000
	for i := 0; i < draws; i++ {
		hits[weightedIndex(weights, 10.0)]++
	}
	// Expect roughly 10% / 90% with generous slack.
	if hits[0] < draws/20 || hits[0] > draws/5 {
		t.Errorf("Expected about %d selections of the light entry, got %d", draws/10, hits[0])
	}
}

func TestSeedReproducibility(t *testing.T) {
	Seed(99)
	var first []int
	for i := 0; i < 50; i++ {
		first = append(first, weightedIndex([]float64{1, 1, 1}, 3))
	}

	Seed(99)
	for i := 0; i < 50; i++ {
		if got := weightedIndex([]float64{1, 1, 1}, 3); got != first[i] {
			t.Fatalf("Expected draw %d to repeat as %d under the same seed, got %d", i, first[i], got)
		}
	}
}

func TestExponentialDraw(t *testing.T) {
	Seed(5)
	for i := 0; i < 1000; i++ {
		if tau := exponentialDraw(30.0); tau < 0 {
			t.Fatalf("Expected non-negative waiting time, got %f", tau)
		}
	}
}

func TestBernoulliTrialExtremes(t *testing.T) {
	Seed(13)
	for i := 0; i < 100; i++ {
		if bernoulliTrial(0.0) {
			t.Fatal("Expected probability 0 to never succeed")
		}
		if !bernoulliTrial(1.0) {
			t.Fatal("Expected probability 1 to always succeed")
		}
	}
}
