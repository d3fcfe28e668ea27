// Package hypothesis holds the capability set every weak-learner output
// implements, and the two ways a booster aggregates them into a final
// model: a weighted sum (Combined) or a majority vote (NaiveAggregation).
package hypothesis

import "github.com/inference-sim/boostctl/sample"

// Hypothesis is the capability set a weak learner's output implements.
// Confidence is the real-valued margin signal; Predict is the thresholded
// label for classification hypotheses, or the raw value for regression
// hypotheses. Batch* iterate every row of s.
type Hypothesis interface {
	Confidence(s sample.Sample, row int) float64
	Predict(s sample.Sample, row int) float64
	BatchConfidence(s sample.Sample) []float64
	BatchPredict(s sample.Sample) []float64
}

// Comparable is implemented by hypothesis types whose values can be
// compared structurally. Corrective boosters use it to recognize a
// repeated hypothesis and merge it into its existing list entry instead
// of appending a duplicate.
type Comparable interface {
	Equal(other Hypothesis) bool
}

// Same reports whether a and b are the same hypothesis: structural
// equality when a implements Comparable, pointer identity otherwise.
func Same(a, b Hypothesis) bool {
	if c, ok := a.(Comparable); ok {
		return c.Equal(b)
	}
	return a == b
}

// Sign returns +1 for non-negative x and -1 for negative x — the
// sign(confidence) classification rule.
func Sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
