// Package graphsep implements Graph Separation Boosting (Alon, Gonen,
// Hazan & Moran, 2023): examples are vertices of a graph with an edge
// between every disagreeing pair; each round's weak learner is biased
// toward the endpoints of edges still unresolved, and an edge is removed
// once some hypothesis splits its endpoints. The output is a majority
// vote over the collected hypotheses, not a weighted sum.
package graphsep

import (
	"fmt"

	"github.com/inference-sim/boostctl/booster"
	"github.com/inference-sim/boostctl/control"
	"github.com/inference-sim/boostctl/hypothesis"
	"github.com/inference-sim/boostctl/sample"
	"github.com/inference-sim/boostctl/weaklearner"
)

// Booster is GraphSepBoost over a fixed training sample.
type Booster struct {
	sample sample.Sample

	edges      []map[int]struct{}
	hypotheses []hypothesis.Hypothesis
	nEdges     int
}

// New builds a GraphSepBoost booster.
func New(s sample.Sample) *Booster {
	return &Booster{sample: s}
}

func (b *Booster) Preprocess(_ weaklearner.WeakLearner) (int, error) {
	n := b.sample.Rows()
	if n == 0 {
		return 0, booster.ConfigErrorf("sample has no rows")
	}
	target := b.sample.Target()

	b.edges = make([]map[int]struct{}, n)
	for i := range b.edges {
		b.edges[i] = make(map[int]struct{})
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if target[i] != target[j] {
				b.edges[i][j] = struct{}{}
				b.edges[j][i] = struct{}{}
			}
		}
	}

	b.nEdges = 0
	for _, e := range b.edges {
		b.nEdges += len(e)
	}
	b.hypotheses = nil

	// Each successful round removes at least one edge, so the number of
	// rounds is bounded by the number of vertex pairs.
	maxIter := n*(n-1)/2 + 1
	return maxIter, nil
}

func (b *Booster) Boost(wl weaklearner.WeakLearner, iteration int) (control.State, error) {
	if b.nEdges == 0 {
		return control.Terminating(iteration), nil
	}

	n := b.sample.Rows()
	dist := make([]float64, n)
	for i, e := range b.edges {
		dist[i] = float64(len(e)) / float64(b.nEdges)
	}

	h, err := wl.Produce(b.sample, dist)
	if err != nil {
		return control.State{}, fmt.Errorf("graphsep: weak learner: %w", err)
	}
	if err := booster.CheckConfidences(h.BatchConfidence(b.sample)); err != nil {
		return control.State{}, err
	}
	b.hypotheses = append(b.hypotheses, h)

	predictions := h.BatchPredict(b.sample)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if predictions[i] != predictions[j] {
				delete(b.edges[i], j)
				delete(b.edges[j], i)
			}
		}
	}

	nEdges := 0
	for _, e := range b.edges {
		nEdges += len(e)
	}
	if nEdges == b.nEdges {
		// The hypothesis split none of the remaining disagreement edges;
		// the weak-learner guarantee was violated, so stop rather than
		// loop forever.
		return control.Terminating(iteration), nil
	}
	b.nEdges = nEdges

	return control.Continuing(), nil
}

func (b *Booster) Postprocess(_ weaklearner.WeakLearner) (*hypothesis.NaiveAggregation, error) {
	return hypothesis.NewNaiveAggregation(b.hypotheses), nil
}

// CurrentHypothesis implements research.ResearcherNaive.
func (b *Booster) CurrentHypothesis() *hypothesis.NaiveAggregation {
	return hypothesis.NewNaiveAggregation(b.hypotheses)
}
