// Package cerlpboost implements CERLPBoost (Shalev-Shwartz & Singer),
// the corrective variant of entropy-regularized LPBoost: instead of
// solving an LP/QP every round it recomputes the distribution directly
// from the current combined hypothesis via the capped-simplex entropic
// projection, then takes a Frank-Wolfe-style corrective step on the
// hypothesis weights sized by the gap between the new hypothesis and the
// current ensemble.
package cerlpboost

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

// Booster is CERLPBoost over a fixed training sample.
type Booster struct {
	sample sample.Sample

	// Tolerance is the accuracy parameter driving both eta and the
	// iteration bound.
	Tolerance float64
	// Nu is the soft-margin capping parameter, in [1, m].
	Nu float64

	dist []float64
	eta  float64

	classifiers []hypothesis.Hypothesis
	weights     []float64

	maxIter    int
	terminated int
}

// New builds a CERLPBoost booster with nu=1 (hard margin) by default.
func New(s sample.Sample, tolerance float64) *Booster {
	return &Booster{sample: s, Tolerance: tolerance, Nu: 1.0}
}

func (b *Booster) Preprocess(_ weaklearner.WeakLearner) (int, error) {
	m := b.sample.Rows()
	if m == 0 {
		return 0, booster.ConfigErrorf("sample has no rows")
	}
	if b.Nu < 1.0 || b.Nu > float64(m) {
		return 0, booster.ConfigErrorf("nu %g must be in [1, %d]", b.Nu, m)
	}
	if b.Tolerance <= 0 || b.Tolerance >= 1 {
		return 0, booster.ConfigErrorf("tolerance %g must be in (0, 1)", b.Tolerance)
	}

	uni := 1.0 / float64(m)
	b.dist = make([]float64, m)
	for i := range b.dist {
		b.dist[i] = uni
	}
	b.classifiers = nil
	b.weights = nil

	lnRatio := math.Log(float64(m) / b.Nu)
	b.eta = lnRatio / b.Tolerance

	b.maxIter = int(math.Ceil(8.0 * lnRatio / (b.Tolerance * b.Tolerance)))
	if b.maxIter < 1 {
		b.maxIter = 1
	}
	b.terminated = b.maxIter
	return b.maxIter, nil
}

func (b *Booster) current() *hypothesis.Combined {
	return hypothesis.NewCombined(b.weights, b.classifiers)
}

func (b *Booster) Boost(wl weaklearner.WeakLearner, iteration int) (control.State, error) {
	target := b.sample.Target()

	combined := b.current()
	combinedConf := combined.BatchConfidence(b.sample)
	scores := make([]float64, len(target))
	for i := range target {
		scores[i] = -b.eta * target[i] * combinedConf[i]
	}
	b.dist = numeric.ProjectCappedSimplex(scores, b.Nu)

	h, err := wl.Produce(b.sample, b.dist)
	if err != nil {
		return control.State{}, fmt.Errorf("cerlpboost: weak learner: %w", err)
	}

	hConf := h.BatchConfidence(b.sample)
	if err := booster.CheckConfidences(hConf); err != nil {
		return control.State{}, err
	}
	gap := make([]float64, len(target))
	for i := range target {
		gap[i] = target[i] * (hConf[i] - combinedConf[i])
	}

	diff := numeric.Edge(b.dist, gap)
	if diff <= b.Tolerance {
		b.terminated = iteration
		return control.Terminating(iteration), nil
	}

	b.updateWeights(h, gap)
	return control.Continuing(), nil
}

// updateWeights takes the corrective Frank-Wolfe step: tau is the gap's
// correlation with the live distribution, normalized by eta times the
// squared infinity-norm of the gap, clipped to [0, 1]. A hypothesis not
// already in the list is appended with weight zero first; the matching
// entry then grows by tau while every other weight shrinks by (1-tau).
func (b *Booster) updateWeights(h hypothesis.Hypothesis, gap []float64) {
	infNorm := 0.0
	for _, g := range gap {
		if a := math.Abs(g); a > infNorm {
			infNorm = a
		}
	}
	numer := numeric.Edge(b.dist, gap)
	denom := b.eta * infNorm * infNorm

	tau := 0.0
	if denom > 0 {
		tau = numer / denom
	}
	tau = math.Max(0.0, math.Min(1.0, tau))

	pos := -1
	for i, clf := range b.classifiers {
		if hypothesis.Same(clf, h) {
			pos = i
			break
		}
	}
	if pos < 0 {
		pos = len(b.classifiers)
		b.classifiers = append(b.classifiers, h)
		b.weights = append(b.weights, 0.0)
	}

	for i := range b.weights {
		if i == pos {
			b.weights[i] += tau
		} else {
			b.weights[i] *= 1.0 - tau
		}
	}
}

func (b *Booster) Postprocess(_ weaklearner.WeakLearner) (*hypothesis.Combined, error) {
	var outW []float64
	var outH []hypothesis.Hypothesis
	for i, w := range b.weights {
		if w != 0.0 {
			outW = append(outW, w)
			outH = append(outH, b.classifiers[i])
		}
	}
	return hypothesis.NewCombined(outW, outH), nil
}

// CurrentHypothesis implements research.Researcher.
func (b *Booster) CurrentHypothesis() *hypothesis.Combined {
	h, _ := b.Postprocess(nil)
	return h
}
