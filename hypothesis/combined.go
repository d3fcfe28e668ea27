package hypothesis

import (
	"github.com/inference-sim/boostctl/numeric"
	"github.com/inference-sim/boostctl/sample"
)

// Weighted pairs a hypothesis with its weight in a Combined ensemble.
type Weighted struct {
	Weight float64
	H      Hypothesis
}

// Combined is a weighted sum of hypotheses plus an optional constant. It
// implements Hypothesis itself so it can be used wherever a single
// hypothesis is expected (e.g. nested inside another Combined, though no
// booster in this package does that).
type Combined struct {
	Inner    []Weighted
	Constant float64
}

// NewCombined builds a Combined from parallel weight/hypothesis slices.
func NewCombined(weights []float64, hyps []Hypothesis) *Combined {
	inner := make([]Weighted, len(weights))
	for i := range weights {
		inner[i] = Weighted{Weight: weights[i], H: hyps[i]}
	}
	return &Combined{Inner: inner}
}

// Confidence returns the constant plus the weighted sum of member
// confidences.
func (c *Combined) Confidence(s sample.Sample, row int) float64 {
	sum := c.Constant
	for _, w := range c.Inner {
		sum += w.Weight * w.H.Confidence(s, row)
	}
	return sum
}

// Predict returns sign(Confidence(...)) — the classification rule. Use
// PredictValue for the regression rule (constant plus weighted sum of
// member Predict outputs).
func (c *Combined) Predict(s sample.Sample, row int) float64 {
	return Sign(c.Confidence(s, row))
}

// PredictValue returns the constant plus the weighted sum of member
// Predict outputs, the regression aggregation rule (GBM).
func (c *Combined) PredictValue(s sample.Sample, row int) float64 {
	sum := c.Constant
	for _, w := range c.Inner {
		sum += w.Weight * w.H.Predict(s, row)
	}
	return sum
}

func (c *Combined) BatchConfidence(s sample.Sample) []float64 {
	m := s.Rows()
	out := make([]float64, m)
	numeric.Parallel(m, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = c.Confidence(s, i)
		}
	})
	return out
}

func (c *Combined) BatchPredict(s sample.Sample) []float64 {
	m := s.Rows()
	out := make([]float64, m)
	numeric.Parallel(m, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = c.Predict(s, i)
		}
	})
	return out
}

// BatchPredictValue is the regression analogue of BatchPredict.
func (c *Combined) BatchPredictValue(s sample.Sample) []float64 {
	m := s.Rows()
	out := make([]float64, m)
	numeric.Parallel(m, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = c.PredictValue(s, i)
		}
	})
	return out
}

// NaiveAggregation holds an unweighted hypothesis list and predicts by
// majority vote of the member sign — GraphSepBoost's combined hypothesis.
type NaiveAggregation struct {
	Hypotheses []Hypothesis
}

func NewNaiveAggregation(hyps []Hypothesis) *NaiveAggregation {
	return &NaiveAggregation{Hypotheses: hyps}
}

// Confidence returns the unweighted sum of member predictions (the vote
// tally); its sign is the prediction.
func (n *NaiveAggregation) Confidence(s sample.Sample, row int) float64 {
	sum := 0.0
	for _, h := range n.Hypotheses {
		sum += h.Predict(s, row)
	}
	return sum
}

func (n *NaiveAggregation) Predict(s sample.Sample, row int) float64 {
	return Sign(n.Confidence(s, row))
}

func (n *NaiveAggregation) BatchConfidence(s sample.Sample) []float64 {
	m := s.Rows()
	out := make([]float64, m)
	numeric.Parallel(m, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = n.Confidence(s, i)
		}
	})
	return out
}

func (n *NaiveAggregation) BatchPredict(s sample.Sample) []float64 {
	m := s.Rows()
	out := make([]float64, m)
	numeric.Parallel(m, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = n.Predict(s, i)
		}
	})
	return out
}
