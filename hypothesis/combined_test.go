package hypothesis_test

import (
	"testing"

	"github.com/inference-sim/boostctl/hypothesis"
	"github.com/inference-sim/boostctl/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constHyp is a minimal Hypothesis whose confidence is the same for every
// row, used to exercise Combined without a real weak learner.
type constHyp struct{ value float64 }

func (c constHyp) Confidence(sample.Sample, int) float64 { return c.value }
func (c constHyp) Predict(sample.Sample, int) float64    { return hypothesis.Sign(c.value) }
func (c constHyp) BatchConfidence(s sample.Sample) []float64 {
	out := make([]float64, s.Rows())
	for i := range out {
		out[i] = c.value
	}
	return out
}
func (c constHyp) BatchPredict(s sample.Sample) []float64 {
	out := make([]float64, s.Rows())
	for i := range out {
		out[i] = c.Predict(nil, i)
	}
	return out
}

func fixture(t *testing.T, rows int) sample.Sample {
	t.Helper()
	target := make([]float64, rows)
	s, err := sample.NewDense([]string{"x"}, [][]float64{make([]float64, rows)}, target)
	require.NoError(t, err)
	return s
}

func TestCombined_SingleEntryBehavesLikeMember(t *testing.T) {
	// GIVEN a combined hypothesis with a single entry of weight 1.0
	h := constHyp{value: 0.7}
	c := hypothesis.NewCombined([]float64{1.0}, []hypothesis.Hypothesis{h})
	s := fixture(t, 4)

	// THEN it behaves exactly like h on every row
	for row := 0; row < s.Rows(); row++ {
		assert.Equal(t, h.Confidence(s, row), c.Confidence(s, row))
		assert.Equal(t, h.Predict(s, row), c.Predict(s, row))
	}
}

func TestCombined_WeightedSumPlusConstant(t *testing.T) {
	h1 := constHyp{value: 1.0}
	h2 := constHyp{value: -2.0}
	c := hypothesis.NewCombined([]float64{0.5, 0.25}, []hypothesis.Hypothesis{h1, h2})
	c.Constant = 0.1
	s := fixture(t, 2)

	want := 0.1 + 0.5*1.0 + 0.25*-2.0
	assert.InDelta(t, want, c.Confidence(s, 0), 1e-12)
}

func TestNaiveAggregation_MajorityVote(t *testing.T) {
	h1 := constHyp{value: 1.0}
	h2 := constHyp{value: 1.0}
	h3 := constHyp{value: -1.0}
	n := hypothesis.NewNaiveAggregation([]hypothesis.Hypothesis{h1, h2, h3})
	s := fixture(t, 1)

	assert.Equal(t, 1.0, n.Predict(s, 0))
}
