// Package adaboostv implements AdaBoost* (Rätsch & Warmuth, 2005), a
// variant of AdaBoost that tracks the running minimum edge to drive the
// margin toward a target rho instead of chasing exponential loss alone.
package adaboostv

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

// Booster is AdaBoost* over a fixed training sample.
type Booster struct {
	sample    sample.Sample
	tolerance float64

	rho   float64
	gamma float64
	dist  []float64

	weights     []float64
	classifiers []hypothesis.Hypothesis

	maxIter int
}

// New builds an AdaBoostV booster with the given gap parameter.
func New(s sample.Sample, tolerance float64) *Booster {
	return &Booster{sample: s, tolerance: tolerance}
}

func (b *Booster) Preprocess(_ weaklearner.WeakLearner) (int, error) {
	if b.tolerance < 0 || b.tolerance >= 1 {
		return 0, booster.ConfigErrorf("tolerance %g must be in [0, 1)", b.tolerance)
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
	b.rho = 1.0
	b.gamma = 1.0
	b.weights = nil
	b.classifiers = nil

	b.maxIter = 2 * int(math.Log(float64(m))/(b.tolerance*b.tolerance))
	if b.maxIter < 1 {
		b.maxIter = 1
	}
	return b.maxIter, nil
}

func (b *Booster) Boost(wl weaklearner.WeakLearner, iteration int) (control.State, error) {
	h, err := wl.Produce(b.sample, b.dist)
	if err != nil {
		return control.State{}, fmt.Errorf("adaboostv: weak learner: %w", err)
	}

	target := b.sample.Target()
	conf := h.BatchConfidence(b.sample)
	if err := booster.CheckConfidences(conf); err != nil {
		return control.State{}, err
	}
	predictions := make([]float64, len(target))
	for i := range target {
		predictions[i] = target[i] * conf[i]
	}

	edge := numeric.Edge(b.dist, predictions)

	// A hypothesis perfectly correct (or perfectly wrong, forcing its
	// negation) on every row makes the rest of the ensemble redundant.
	if math.Abs(edge) >= 1.0 {
		b.weights = []float64{math.Copysign(1.0, edge)}
		b.classifiers = []hypothesis.Hypothesis{h}
		return control.Terminating(iteration), nil
	}

	weight := b.updateParams(predictions, edge)

	b.classifiers = append(b.classifiers, h)
	b.weights = append(b.weights, weight)

	return control.Continuing(), nil
}

// updateParams tracks the running minimum edge, derives rho = gamma -
// tolerance, and returns the weight on the new hypothesis: the usual
// AdaBoost log-odds weight minus the log-odds weight implied by rho.
func (b *Booster) updateParams(predictions []float64, edge float64) float64 {
	b.gamma = math.Min(edge, b.gamma)
	b.rho = b.gamma - b.tolerance

	e := math.Log((1.0+edge)/(1.0-edge)) / 2.0
	m := math.Log((1.0+b.rho)/(1.0-b.rho)) / 2.0
	weight := e - m

	logDist := make([]float64, len(b.dist))
	for i, d := range b.dist {
		logDist[i] = math.Log(d) - weight*predictions[i]
	}
	b.dist = numeric.NormalizeLog(logDist)

	return weight
}

func (b *Booster) Postprocess(_ weaklearner.WeakLearner) (*hypothesis.Combined, error) {
	return hypothesis.NewCombined(b.weights, b.classifiers), nil
}

// CurrentHypothesis implements research.Researcher.
func (b *Booster) CurrentHypothesis() *hypothesis.Combined {
	return hypothesis.NewCombined(b.weights, b.classifiers)
}
