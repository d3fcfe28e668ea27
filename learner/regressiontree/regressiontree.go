// Package regressiontree implements a depth-bounded CART regressor,
// the reference base learner GBM fits to the negative gradient each
// round. Splits are chosen by the same threshold-search shape as
// learner/stump, generalized to minimize squared or absolute error (per
// Criterion) instead of weighted classification error and recursed to
// MaxDepth.
package regressiontree

import (
	"math"
	"sort"

	"github.com/inference-sim/boostctl/hypothesis"
	"github.com/inference-sim/boostctl/sample"
)

// node is either a leaf (FeatureIndex < 0) holding Value, or an
// internal split routing to Left/Right by the same rule as
// learner/stump: value < Threshold goes left.
type node struct {
	FeatureIndex int
	Threshold    float64
	Value        float64
	Left, Right  *node
}

// Hypothesis is a fitted regression tree.
type Hypothesis struct {
	root *node
}

func (n *node) eval(s sample.Sample, row int) float64 {
	for n.FeatureIndex >= 0 {
		if s.At(row, n.FeatureIndex) < n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

func (h *Hypothesis) Confidence(s sample.Sample, row int) float64 { return h.root.eval(s, row) }
func (h *Hypothesis) Predict(s sample.Sample, row int) float64    { return h.root.eval(s, row) }

func (h *Hypothesis) BatchConfidence(s sample.Sample) []float64 { return h.BatchPredict(s) }

func (h *Hypothesis) BatchPredict(s sample.Sample) []float64 {
	out := make([]float64, s.Rows())
	for i := range out {
		out[i] = h.root.eval(s, i)
	}
	return out
}

// Split criteria. CriterionSSE scores candidate leaves by squared error
// around the leaf mean; CriterionMAE by absolute error around the leaf
// median (whose leaves then predict the median instead of the mean).
const (
	CriterionSSE = "sse"
	CriterionMAE = "mae"
)

// Learner fits trees up to MaxDepth splits. A node with fewer than
// 2*MinLeafSize rows is not split, and every split leaves at least
// MinLeafSize rows on each side.
type Learner struct {
	MaxDepth    int
	MinLeafSize int
	Criterion   string
}

// NewLearner returns a Learner with the defaults used by the reference
// GBM configuration: depth 3, minimum leaf size 1, SSE splits.
func NewLearner() Learner {
	return Learner{MaxDepth: 3, MinLeafSize: 1, Criterion: CriterionSSE}
}

// Produce implements weaklearner.WeakLearner. weighting here carries
// GBM's current prediction vector, not a distribution; the residual this
// round's tree fits is the sample's own target minus that prediction.
func (l Learner) Produce(s sample.Sample, weighting []float64) (hypothesis.Hypothesis, error) {
	target := s.Target()
	residual := make([]float64, len(target))
	for i := range residual {
		residual[i] = target[i] - weighting[i]
	}

	rows := s.Rows()
	idx := make([]int, rows)
	for i := range idx {
		idx[i] = i
	}
	root := l.split(s, residual, idx, 0)
	return &Hypothesis{root: root}, nil
}

func (l Learner) split(s sample.Sample, target []float64, rowIdx []int, depth int) *node {
	if depth >= l.MaxDepth || len(rowIdx) < 2*maxInt(l.MinLeafSize, 1) {
		return l.leaf(target, rowIdx)
	}

	bestFeature := -1
	bestThreshold := 0.0
	bestSSE := l.impurity(target, rowIdx)
	var bestLeft, bestRight []int

	for f := 0; f < s.Features(); f++ {
		sorted := append([]int(nil), rowIdx...)
		sort.Slice(sorted, func(a, b int) bool { return s.At(sorted[a], f) < s.At(sorted[b], f) })

		for k := l.MinLeafSize; k <= len(sorted)-l.MinLeafSize; k++ {
			if s.At(sorted[k-1], f) == s.At(sorted[k], f) {
				continue
			}
			left := sorted[:k]
			right := sorted[k:]
			candidateSSE := l.impurity(target, left) + l.impurity(target, right)
			if candidateSSE < bestSSE {
				bestSSE = candidateSSE
				bestFeature = f
				bestThreshold = (s.At(sorted[k-1], f) + s.At(sorted[k], f)) / 2.0
				bestLeft = left
				bestRight = right
			}
		}
	}

	if bestFeature < 0 {
		return l.leaf(target, rowIdx)
	}

	return &node{
		FeatureIndex: bestFeature,
		Threshold:    bestThreshold,
		Left:         l.split(s, target, bestLeft, depth+1),
		Right:        l.split(s, target, bestRight, depth+1),
	}
}

func (l Learner) impurity(target []float64, rowIdx []int) float64 {
	if l.Criterion == CriterionMAE {
		return sad(target, rowIdx)
	}
	return sse(target, rowIdx)
}

func (l Learner) leaf(target []float64, rowIdx []int) *node {
	if l.Criterion == CriterionMAE {
		return &node{FeatureIndex: -1, Value: median(target, rowIdx)}
	}
	return &node{FeatureIndex: -1, Value: mean(target, rowIdx)}
}

func mean(target []float64, rowIdx []int) float64 {
	if len(rowIdx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range rowIdx {
		sum += target[i]
	}
	return sum / float64(len(rowIdx))
}

func sse(target []float64, rowIdx []int) float64 {
	m := mean(target, rowIdx)
	sum := 0.0
	for _, i := range rowIdx {
		d := target[i] - m
		sum += d * d
	}
	return sum
}

func median(target []float64, rowIdx []int) float64 {
	if len(rowIdx) == 0 {
		return 0
	}
	vals := make([]float64, len(rowIdx))
	for k, i := range rowIdx {
		vals[k] = target[i]
	}
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return vals[mid]
	}
	return (vals[mid-1] + vals[mid]) / 2.0
}

// sad is the sum of absolute deviations around the median, the MAE
// analogue of sse.
func sad(target []float64, rowIdx []int) float64 {
	m := median(target, rowIdx)
	sum := 0.0
	for _, i := range rowIdx {
		sum += math.Abs(target[i] - m)
	}
	return sum
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
