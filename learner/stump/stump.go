// Package stump implements a decision stump: a single-feature,
// single-threshold classifier, the default weak learner for the
// ERM/margin-maximizing boosters. The split rule is value < threshold
// goes left.
package stump

import (
	"math"
	"sort"

	"github.com/inference-sim/boostctl/hypothesis"
	"github.com/inference-sim/boostctl/sample"
)

// Hypothesis is a single decision stump: rows with Feature value below
// Threshold get Left, the rest get Right.
type Hypothesis struct {
	FeatureIndex int
	Threshold    float64
	Left, Right  float64
}

// Equal reports whether other is a stump with the identical split,
// implementing hypothesis.Comparable. A deterministic threshold search
// can return the same best split on two different rounds, and the
// corrective boosters fold such a repeat into its existing ensemble
// entry rather than appending it again.
func (h *Hypothesis) Equal(other hypothesis.Hypothesis) bool {
	o, ok := other.(*Hypothesis)
	if !ok {
		return false
	}
	return h.FeatureIndex == o.FeatureIndex && h.Threshold == o.Threshold &&
		h.Left == o.Left && h.Right == o.Right
}

func (h *Hypothesis) branch(s sample.Sample, row int) float64 {
	if s.At(row, h.FeatureIndex) < h.Threshold {
		return h.Left
	}
	return h.Right
}

func (h *Hypothesis) Confidence(s sample.Sample, row int) float64 { return h.branch(s, row) }
func (h *Hypothesis) Predict(s sample.Sample, row int) float64 {
	return hypothesis.Sign(h.branch(s, row))
}

func (h *Hypothesis) BatchConfidence(s sample.Sample) []float64 {
	out := make([]float64, s.Rows())
	for i := range out {
		out[i] = h.Confidence(s, i)
	}
	return out
}

func (h *Hypothesis) BatchPredict(s sample.Sample) []float64 {
	out := make([]float64, s.Rows())
	for i := range out {
		out[i] = h.Predict(s, i)
	}
	return out
}

// Learner searches every feature and every midpoint threshold between
// consecutive sorted values for the split minimizing the weighted
// classification error against weighting (a distribution over rows
// that need not sum to one, matching the capped-simplex boosters).
type Learner struct{}

// Produce implements weaklearner.WeakLearner.
func (Learner) Produce(s sample.Sample, weighting []float64) (hypothesis.Hypothesis, error) {
	rows := s.Rows()
	target := s.Target()

	type candidate struct {
		feature       int
		threshold     float64
		left, right   float64
		weightedError float64
	}
	var best *candidate

	order := make([]int, rows)
	for i := range order {
		order[i] = i
	}

	for f := 0; f < s.Features(); f++ {
		col := make([]float64, rows)
		for i := 0; i < rows; i++ {
			col[i] = s.At(i, f)
		}
		idx := append([]int(nil), order...)
		sort.Slice(idx, func(a, b int) bool { return col[idx[a]] < col[idx[b]] })

		totalPos, totalNeg := 0.0, 0.0
		for _, i := range idx {
			if target[i] > 0 {
				totalPos += weighting[i]
			} else {
				totalNeg += weighting[i]
			}
		}

		leftPos, leftNeg := 0.0, 0.0
		for k := 0; k < rows-1; k++ {
			i := idx[k]
			if target[i] > 0 {
				leftPos += weighting[i]
			} else {
				leftNeg += weighting[i]
			}
			if col[idx[k]] == col[idx[k+1]] {
				continue // threshold must strictly separate equal values
			}
			threshold := (col[idx[k]] + col[idx[k+1]]) / 2.0

			rightPos := totalPos - leftPos
			rightNeg := totalNeg - leftNeg

			// Left predicts the majority label on the left side, same
			// for right; error is the weight of the minority on each
			// side.
			left, leftErr := 1.0, leftNeg
			if leftNeg > leftPos {
				left, leftErr = -1.0, leftPos
			}
			right, rightErr := 1.0, rightNeg
			if rightNeg > rightPos {
				right, rightErr = -1.0, rightPos
			}

			werr := leftErr + rightErr
			if best == nil || werr < best.weightedError {
				best = &candidate{feature: f, threshold: threshold, left: left, right: right, weightedError: werr}
			}
		}
	}

	if best == nil {
		// Degenerate sample (one row, or every feature constant):
		// fall back to a constant-valued stump on the majority label.
		maj := majorityLabel(target, weighting)
		return &Hypothesis{FeatureIndex: 0, Threshold: math.Inf(1), Left: maj, Right: maj}, nil
	}

	return &Hypothesis{
		FeatureIndex: best.feature,
		Threshold:    best.threshold,
		Left:         best.left,
		Right:        best.right,
	}, nil
}

func majorityLabel(target, weighting []float64) float64 {
	pos, neg := 0.0, 0.0
	for i, y := range target {
		if y > 0 {
			pos += weighting[i]
		} else {
			neg += weighting[i]
		}
	}
	if neg > pos {
		return -1.0
	}
	return 1.0
}
