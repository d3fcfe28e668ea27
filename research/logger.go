// Package research provides a logging harness that drives a booster
// exactly like booster.Run/RunNaive but additionally records, once per
// round, the objective value, train loss, test loss, and cumulative
// wall-clock time to a CSV file — and halts the run early once a
// caller-supplied time budget is exceeded.
package research

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/inference-sim/boostctl/control"
	"github.com/inference-sim/boostctl/hypothesis"
	"github.com/inference-sim/boostctl/sample"
	"github.com/inference-sim/boostctl/weaklearner"
)

var header = []string{"ObjectiveValue", "TrainLoss", "TestLoss", "Time"}

func row(obj, trainLoss, testLoss float64, elapsed time.Duration) []string {
	return []string{
		strconv.FormatFloat(obj, 'g', -1, 64),
		strconv.FormatFloat(trainLoss, 'g', -1, 64),
		strconv.FormatFloat(testLoss, 'g', -1, 64),
		strconv.FormatInt(elapsed.Milliseconds(), 10),
	}
}

// ObjectiveFunc scores a combined hypothesis against the training
// sample using the booster's own objective (soft-margin value,
// exponential loss, ...).
type ObjectiveFunc func(train sample.Sample, h *hypothesis.Combined) float64

// LossFunc scores a combined hypothesis against a sample using a
// metric comparable across algorithms (0-1 loss, squared error, ...).
type LossFunc func(s sample.Sample, h *hypothesis.Combined) float64

// Researcher is satisfied by any Combined-output booster that can
// additionally report its combined hypothesis mid-run without mutating
// state. Boosters opt into logging by implementing CurrentHypothesis;
// it is not part of booster.Booster because most callers never need
// per-round introspection.
type Researcher interface {
	Preprocess(wl weaklearner.WeakLearner) (maxIter int, err error)
	Boost(wl weaklearner.WeakLearner, iter int) (control.State, error)
	Postprocess(wl weaklearner.WeakLearner) (*hypothesis.Combined, error)
	CurrentHypothesis() *hypothesis.Combined
}

// Logger drives a Researcher through a full boosting run, writing one
// CSV row per round.
type Logger struct {
	Objective ObjectiveFunc
	Loss      LossFunc
	Train     sample.Sample
	Test      sample.Sample
	// TimeLimit bounds cumulative Boost time; zero means unbounded.
	TimeLimit time.Duration
}

// Run drives b through preprocess/boost*/postprocess, writing filename
// as it goes. If the time limit is hit mid-run the loop stops early and
// the partial combined hypothesis is still returned via Postprocess.
func (l *Logger) Run(b Researcher, wl weaklearner.WeakLearner, filename string) (*hypothesis.Combined, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("research: creating %s: %w", filename, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("research: writing header to %s: %w", filename, err)
	}

	maxIter, err := b.Preprocess(wl)
	if err != nil {
		return nil, err
	}

	var elapsed time.Duration
	for iter := 1; iter <= maxIter; iter++ {
		start := time.Now()
		state, err := b.Boost(wl, iter)
		elapsed += time.Since(start)
		if err != nil {
			return nil, err
		}

		h := b.CurrentHypothesis()
		obj := l.Objective(l.Train, h)
		trainLoss := l.Loss(l.Train, h)
		testLoss := l.Loss(l.Test, h)

		if err := w.Write(row(obj, trainLoss, testLoss, elapsed)); err != nil {
			return nil, fmt.Errorf("research: writing row %d to %s: %w", iter, filename, err)
		}

		if l.TimeLimit > 0 && elapsed > l.TimeLimit {
			break
		}
		if state.Kind == control.Terminate {
			break
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("research: flushing %s: %w", filename, err)
	}

	return b.Postprocess(wl)
}

// ObjectiveFuncNaive and LossFuncNaive are the NaiveAggregation
// analogues of ObjectiveFunc/LossFunc, used by GraphSepBoost.
type ObjectiveFuncNaive func(train sample.Sample, h *hypothesis.NaiveAggregation) float64
type LossFuncNaive func(s sample.Sample, h *hypothesis.NaiveAggregation) float64

// ResearcherNaive is the NaiveAggregation analogue of Researcher.
type ResearcherNaive interface {
	Preprocess(wl weaklearner.WeakLearner) (maxIter int, err error)
	Boost(wl weaklearner.WeakLearner, iter int) (control.State, error)
	Postprocess(wl weaklearner.WeakLearner) (*hypothesis.NaiveAggregation, error)
	CurrentHypothesis() *hypothesis.NaiveAggregation
}

// LoggerNaive is Logger's analogue for ResearcherNaive implementations.
type LoggerNaive struct {
	Objective ObjectiveFuncNaive
	Loss      LossFuncNaive
	Train     sample.Sample
	Test      sample.Sample
	TimeLimit time.Duration
}

func (l *LoggerNaive) Run(b ResearcherNaive, wl weaklearner.WeakLearner, filename string) (*hypothesis.NaiveAggregation, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("research: creating %s: %w", filename, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("research: writing header to %s: %w", filename, err)
	}

	maxIter, err := b.Preprocess(wl)
	if err != nil {
		return nil, err
	}

	var elapsed time.Duration
	for iter := 1; iter <= maxIter; iter++ {
		start := time.Now()
		state, err := b.Boost(wl, iter)
		elapsed += time.Since(start)
		if err != nil {
			return nil, err
		}

		h := b.CurrentHypothesis()
		obj := l.Objective(l.Train, h)
		trainLoss := l.Loss(l.Train, h)
		testLoss := l.Loss(l.Test, h)

		if err := w.Write(row(obj, trainLoss, testLoss, elapsed)); err != nil {
			return nil, fmt.Errorf("research: writing row %d to %s: %w", iter, filename, err)
		}

		if l.TimeLimit > 0 && elapsed > l.TimeLimit {
			break
		}
		if state.Kind == control.Terminate {
			break
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("research: flushing %s: %w", filename, err)
	}

	return b.Postprocess(wl)
}
