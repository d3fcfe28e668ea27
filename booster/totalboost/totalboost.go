// Package totalboost implements TotalBoost (Warmuth, Liao & Rätsch,
// 2006), the totally-corrective hard-margin booster: SoftBoost with the
// capping parameter nu pinned to 1 (no outlier tolerance). It embeds a
// softboost.Booster rather than re-deriving the QP.
package totalboost

import (
	"github.com/inference-sim/boostctl/booster/softboost"
	"github.com/inference-sim/boostctl/control"
	"github.com/inference-sim/boostctl/hypothesis"
	"github.com/inference-sim/boostctl/sample"
	"github.com/inference-sim/boostctl/weaklearner"
)

// Booster is TotalBoost over a fixed training sample: SoftBoost with
// Nu fixed at 1.
type Booster struct {
	inner *softboost.Booster
}

// New builds a TotalBoost booster.
func New(s sample.Sample, tolerance float64) *Booster {
	b := softboost.New(s, tolerance)
	b.Nu = 1.0
	return &Booster{inner: b}
}

func (b *Booster) Preprocess(wl weaklearner.WeakLearner) (int, error) {
	b.inner.Nu = 1.0
	return b.inner.Preprocess(wl)
}

func (b *Booster) Boost(wl weaklearner.WeakLearner, iter int) (control.State, error) {
	return b.inner.Boost(wl, iter)
}

func (b *Booster) Postprocess(wl weaklearner.WeakLearner) (*hypothesis.Combined, error) {
	return b.inner.Postprocess(wl)
}

// CurrentHypothesis implements research.Researcher.
func (b *Booster) CurrentHypothesis() *hypothesis.Combined {
	return b.inner.CurrentHypothesis()
}
