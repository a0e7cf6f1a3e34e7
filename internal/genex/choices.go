package genex

import (
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// The engine is strictly single-threaded (one SSA draw at a time), so a
// single process-global source is safe and matches the one-seed-per-run
// reproducibility contract.
var rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))

// Seed reseeds the process-global random source. Call once before a
// run for reproducible trajectories.
func Seed(seed uint64) {
	rng = rand.New(rand.NewSource(seed))
}

// weightedIndex picks an index proportionally to weights using a
// single uniform draw against the cumulative list. Ties on an exact
// cumulative boundary resolve to the first matching index; this is the
// deterministic tie-break rule for reproducibility under a fixed seed.
// total must equal the sum of weights.
func weightedIndex(weights []float64, total float64) int {
	draw := rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if cumulative >= draw {
			return i
		}
	}
	// Guard against floating-point shortfall on the final partial sum.
	return len(weights) - 1
}

// exponentialDraw samples a waiting time from Exp(rate).
func exponentialDraw(rate float64) float64 {
	return distuv.Exponential{Rate: rate, Src: rng}.Rand()
}

// bernoulliTrial draws a success/failure outcome with probability p.
func bernoulliTrial(p float64) bool {
	return distuv.Bernoulli{P: p, Src: rng}.Rand() == 1
}
