// Package weaklearner defines the contract every base learner implements.
// Concrete weak learners (decision stumps, regression trees, ...) are
// external collaborators per the boosting spec; this package owns only
// the interface they satisfy.
package weaklearner

import (
	"github.com/inference-sim/boostctl/hypothesis"
	"github.com/inference-sim/boostctl/sample"
)

// WeakLearner produces one hypothesis given a sample and a per-row
// weighting. For boosters that maintain a distribution, weighting sums to
// one; for GBM, weighting instead carries the current prediction vector.
// Implementations must not retain sample or weighting past the call.
type WeakLearner interface {
	Produce(s sample.Sample, weighting []float64) (hypothesis.Hypothesis, error)
}
