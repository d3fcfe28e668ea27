// Package booster defines the shared driver contract every boosting
// algorithm implements: preprocess once, boost one round at a time until
// a Terminate signal or the iteration bound is reached, then assemble a
// combined hypothesis. Concrete algorithms live in subpackages
// (adaboost, adaboostv, smoothboost, gbm, graphsep, lpboost, softboost,
// totalboost, erlpboost, cerlpboost, mlpboost).
package booster

import (
	"errors"
	"fmt"
	"math"

	"github.com/inference-sim/boostctl/control"
	"github.com/inference-sim/boostctl/hypothesis"
	"github.com/inference-sim/boostctl/weaklearner"
)

// ErrConfiguration is returned by a builder-style option or Preprocess
// when a parameter is out of range (nu, epsilon, gamma) or the sample is
// unusable (empty, missing target).
var ErrConfiguration = errors.New("booster: invalid configuration")

// ErrSolver is returned when the external LP/QP solver reports a status
// other than Optimal, SubOptimal, Infeasible, or InfeasibleOrUnbounded.
var ErrSolver = errors.New("booster: solver failure")

// ErrContract is returned when a hypothesis violates its contract by
// producing a non-finite confidence value. A sample whose row count
// changes between rounds is not detected.
var ErrContract = errors.New("booster: contract violation")

// ConfigErrorf wraps ErrConfiguration with context.
func ConfigErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConfiguration}, args...)...)
}

// SolverErrorf wraps ErrSolver with context.
func SolverErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrSolver}, args...)...)
}

// ContractErrorf wraps ErrContract with context.
func ContractErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrContract}, args...)...)
}

// CheckConfidences enforces the hypothesis contract that every
// confidence value is finite. Boosters call it on each freshly-produced
// hypothesis's batch output before folding it into their state.
func CheckConfidences(conf []float64) error {
	for i, c := range conf {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return ContractErrorf("non-finite confidence %g at row %d", c, i)
		}
	}
	return nil
}

// Booster is the generic driver contract for algorithms whose final
// output is a weighted-sum Combined hypothesis.
type Booster interface {
	// Preprocess resets booster state for a fresh run and returns the
	// maximum number of rounds the driver should call Boost.
	Preprocess(wl weaklearner.WeakLearner) (maxIter int, err error)
	// Boost performs exactly one round.
	Boost(wl weaklearner.WeakLearner, iter int) (control.State, error)
	// Postprocess assembles and returns the final combined hypothesis.
	// It may be called more than once against the same state (the
	// research logger calls it after every round to score progress) and
	// must not mutate booster state.
	Postprocess(wl weaklearner.WeakLearner) (*hypothesis.Combined, error)
}

// BoosterNaive is the Booster analogue for algorithms whose output is a
// majority-vote NaiveAggregation (GraphSepBoost).
type BoosterNaive interface {
	Preprocess(wl weaklearner.WeakLearner) (maxIter int, err error)
	Boost(wl weaklearner.WeakLearner, iter int) (control.State, error)
	Postprocess(wl weaklearner.WeakLearner) (*hypothesis.NaiveAggregation, error)
}

// Run drives b through preprocess/boost*/postprocess with no logging or
// time budget. Use research.Logger.Run for a logged, budget-aware
// variant.
func Run(b Booster, wl weaklearner.WeakLearner) (*hypothesis.Combined, error) {
	maxIter, err := b.Preprocess(wl)
	if err != nil {
		return nil, err
	}

	for iter := 1; iter <= maxIter; iter++ {
		state, err := b.Boost(wl, iter)
		if err != nil {
			return nil, err
		}
		if state.Kind == control.Terminate {
			break
		}
	}

	return b.Postprocess(wl)
}

// RunNaive is Run's analogue for BoosterNaive implementations.
func RunNaive(b BoosterNaive, wl weaklearner.WeakLearner) (*hypothesis.NaiveAggregation, error) {
	maxIter, err := b.Preprocess(wl)
	if err != nil {
		return nil, err
	}

	for iter := 1; iter <= maxIter; iter++ {
		state, err := b.Boost(wl, iter)
		if err != nil {
			return nil, err
		}
		if state.Kind == control.Terminate {
			break
		}
	}

	return b.Postprocess(wl)
}
