// Package adaboost implements AdaBoost, the original margin-maximizing
// boosting algorithm: each round reweights examples by the exponential
// loss of the combined hypothesis so far, biasing the next weak learner
// toward whatever the ensemble currently gets wrong.
package adaboost

import (
	"fmt"
	"math"

	"github.com/inference-sim/boostctl/booster"
	"github.com/inference-sim/boostctl/control"
	"github.com/inference-sim/boostctl/hypothesis"
	"github.com/inference-sim/boostctl/numeric"
	"github.com/inference-sim/boostctl/sample"
	"github.com/inference-sim/boostctl/weaklearner"
)

// Booster is AdaBoost over a fixed training sample.
type Booster struct {
	sample    sample.Sample
	tolerance float64

	dist        []float64
	weights     []float64
	classifiers []hypothesis.Hypothesis

	maxIter int
}

// New builds an AdaBoost booster targeting training error at most
// tolerance, per AdaBoost::max_loop's accuracy contract.
func New(s sample.Sample, tolerance float64) *Booster {
	return &Booster{sample: s, tolerance: tolerance}
}

func (b *Booster) Preprocess(_ weaklearner.WeakLearner) (int, error) {
	if b.tolerance <= 0 || b.tolerance >= 1 {
		return 0, booster.ConfigErrorf("tolerance %g must be in (0, 1)", b.tolerance)
	}
	m := b.sample.Rows()
	if m == 0 {
		return 0, booster.ConfigErrorf("sample has no rows")
	}

	uni := 1.0 / float64(m)
	b.dist = make([]float64, m)
	for i := range b.dist {
		b.dist[i] = uni
	}
	b.weights = nil
	b.classifiers = nil

	b.maxIter = int(math.Log(float64(m)) / (b.tolerance * b.tolerance))
	if b.maxIter < 1 {
		b.maxIter = 1
	}
	return b.maxIter, nil
}

func (b *Booster) Boost(wl weaklearner.WeakLearner, iteration int) (control.State, error) {
	h, err := wl.Produce(b.sample, b.dist)
	if err != nil {
		return control.State{}, fmt.Errorf("adaboost: weak learner: %w", err)
	}

	target := b.sample.Target()
	conf := h.BatchConfidence(b.sample)
	if err := booster.CheckConfidences(conf); err != nil {
		return control.State{}, err
	}
	edge := 0.0
	for i, d := range b.dist {
		edge += d * target[i] * conf[i]
	}

	// A perfectly correct (or perfectly anti-correlated) weak hypothesis
	// makes every other member of the ensemble redundant: collapse to a
	// single signed weight on h alone and stop.
	if math.Abs(edge) >= 1.0 {
		b.weights = []float64{math.Copysign(1.0, edge)}
		b.classifiers = []hypothesis.Hypothesis{h}
		return control.Terminating(iteration), nil
	}

	weightOfH := math.Log((1.0+edge)/(1.0-edge)) / 2.0

	logDist := make([]float64, len(b.dist))
	for i, d := range b.dist {
		logDist[i] = math.Log(d) - weightOfH*target[i]*conf[i]
	}
	b.dist = numeric.NormalizeLog(logDist)

	b.classifiers = append(b.classifiers, h)
	b.weights = append(b.weights, weightOfH)

	return control.Continuing(), nil
}

func (b *Booster) Postprocess(_ weaklearner.WeakLearner) (*hypothesis.Combined, error) {
	return hypothesis.NewCombined(b.weights, b.classifiers), nil
}

// CurrentHypothesis implements research.Researcher.
func (b *Booster) CurrentHypothesis() *hypothesis.Combined {
	return hypothesis.NewCombined(b.weights, b.classifiers)
}
