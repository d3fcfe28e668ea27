// Package gbm implements Gradient Boosting Machine (Friedman, 2001) for
// regression: each round fits a weak learner to the current residual and
// folds it into the running prediction with a loss-dependent best
// coefficient -- closed-form for squared error, a line search for
// absolute error and Huber loss.
package gbm

import (
	"fmt"
	"math"

	"github.com/inference-sim/boostctl/booster"
	"github.com/inference-sim/boostctl/control"
	"github.com/inference-sim/boostctl/hypothesis"
	"github.com/inference-sim/boostctl/sample"
	"github.com/inference-sim/boostctl/weaklearner"
)

// defaultMaxIter is GBM's fixed iteration budget; unlike the other
// boosters in this module, GBM does not derive it from a tolerance
// parameter.
const defaultMaxIter = 100

// Loss selects the per-round coefficient objective.
type Loss int

const (
	// L2 (squared error) has a closed-form least-squares coefficient.
	L2 Loss = iota
	// L1 (absolute error) is minimized by a golden-section line search.
	L1
	// Huber blends L2 near zero residual with L1 beyond Delta.
	Huber
)

// Booster is GBM over a fixed training sample.
type Booster struct {
	sample sample.Sample

	// MaxIter bounds the number of rounds; defaults to 100 if left zero
	// before the first Preprocess call.
	MaxIter int
	// LossKind selects the coefficient objective; defaults to L2.
	LossKind Loss
	// Delta is Huber's crossover point between quadratic and linear
	// penalty; defaults to 1.0 when LossKind is Huber and Delta is zero.
	Delta float64

	weights     []float64
	hypotheses  []hypothesis.Hypothesis
	predictions []float64
	terminated  int
}

// New builds a GBM booster with the default iteration budget and L2 loss.
func New(s sample.Sample) *Booster {
	return &Booster{sample: s, MaxIter: defaultMaxIter, LossKind: L2}
}

func (b *Booster) Preprocess(_ weaklearner.WeakLearner) (int, error) {
	if b.sample.Rows() == 0 {
		return 0, booster.ConfigErrorf("sample has no rows")
	}
	if b.MaxIter <= 0 {
		b.MaxIter = defaultMaxIter
	}
	if b.LossKind == Huber && b.Delta <= 0 {
		b.Delta = 1.0
	}

	b.weights = make([]float64, 0, b.MaxIter)
	b.hypotheses = make([]hypothesis.Hypothesis, 0, b.MaxIter)
	b.terminated = b.MaxIter
	b.predictions = make([]float64, b.sample.Rows())
	return b.MaxIter, nil
}

func (b *Booster) Boost(wl weaklearner.WeakLearner, iteration int) (control.State, error) {
	target := b.sample.Target()

	// The weighting slot carries the current prediction vector, not the
	// residual: the weak learner reads the target off the sample itself
	// and computes its own residual, per the WeakLearner contract.
	h, err := wl.Produce(b.sample, b.predictions)
	if err != nil {
		return control.State{}, fmt.Errorf("gbm: weak learner: %w", err)
	}

	residual := make([]float64, len(target))
	for i := range residual {
		residual[i] = target[i] - b.predictions[i]
	}

	hPred := h.BatchPredict(b.sample)
	if err := booster.CheckConfidences(hPred); err != nil {
		return control.State{}, err
	}
	coef := b.bestCoefficient(residual, hPred)

	// A zero coefficient means this hypothesis cannot improve the fit in
	// any least-squares direction; stop rather than append a no-op term.
	if coef == 0.0 {
		b.terminated = iteration
		return control.Terminating(iteration), nil
	}

	b.weights = append(b.weights, coef)
	b.hypotheses = append(b.hypotheses, h)
	for i := range b.predictions {
		b.predictions[i] += coef * hPred[i]
	}

	return control.Continuing(), nil
}

// bestCoefficient finds alpha minimizing sum(Loss(residual_i -
// alpha*hPred_i)) over the booster's configured LossKind. L2 has a
// closed form; L1 and Huber use a bounded golden-section search since
// neither loss is smooth (L1) or has a single-step minimizer (Huber).
func (b *Booster) bestCoefficient(residual, hPred []float64) float64 {
	switch b.LossKind {
	case L2:
		num, den := 0.0, 0.0
		for i := range hPred {
			num += residual[i] * hPred[i]
			den += hPred[i] * hPred[i]
		}
		if den == 0 {
			return 0
		}
		return num / den
	default:
		num, den := 0.0, 0.0
		for i := range hPred {
			num += residual[i] * hPred[i]
			den += hPred[i] * hPred[i]
		}
		init := 0.0
		if den != 0 {
			init = num / den
		}
		return goldenSectionSearch(init, func(alpha float64) float64 {
			return b.totalLoss(residual, hPred, alpha)
		})
	}
}

// totalLoss sums the configured loss between each residual and
// alpha*hPred.
func (b *Booster) totalLoss(residual, hPred []float64, alpha float64) float64 {
	sum := 0.0
	for i := range residual {
		r := residual[i] - alpha*hPred[i]
		switch b.LossKind {
		case L1:
			sum += math.Abs(r)
		case Huber:
			a := math.Abs(r)
			if a <= b.Delta {
				sum += 0.5 * r * r
			} else {
				sum += b.Delta * (a - 0.5*b.Delta)
			}
		default:
			sum += r * r
		}
	}
	return sum
}

// goldenSectionSearch minimizes f over a bracket centered on init,
// widened until both endpoints exceed the center, then narrowed by the
// golden-ratio rule for a fixed number of iterations.
func goldenSectionSearch(init float64, f func(float64) float64) float64 {
	const phi = 0.6180339887498949
	lo, hi := init-1.0, init+1.0
	for f(lo) < f(init) {
		lo -= (init - lo)
	}
	for f(hi) < f(init) {
		hi += (hi - init)
	}

	c := hi - phi*(hi-lo)
	d := lo + phi*(hi-lo)
	for i := 0; i < 60 && hi-lo > 1e-10; i++ {
		if f(c) < f(d) {
			hi = d
		} else {
			lo = c
		}
		c = hi - phi*(hi-lo)
		d = lo + phi*(hi-lo)
	}
	return (lo + hi) / 2.0
}

func (b *Booster) Postprocess(_ weaklearner.WeakLearner) (*hypothesis.Combined, error) {
	return hypothesis.NewCombined(b.weights, b.hypotheses), nil
}

// CurrentHypothesis implements research.Researcher.
func (b *Booster) CurrentHypothesis() *hypothesis.Combined {
	return hypothesis.NewCombined(b.weights, b.hypotheses)
}
