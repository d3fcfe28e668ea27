package research_test

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"

	"github.com/inference-sim/boostctl/control"
	"github.com/inference-sim/boostctl/hypothesis"
	"github.com/inference-sim/boostctl/research"
	"github.com/inference-sim/boostctl/sample"
	"github.com/inference-sim/boostctl/weaklearner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingBooster terminates after a fixed number of rounds; its
// CurrentHypothesis is the constant 1.0 every round.
type countingBooster struct {
	rounds int
}

func (b *countingBooster) Preprocess(weaklearner.WeakLearner) (int, error) { return b.rounds, nil }

func (b *countingBooster) Boost(wl weaklearner.WeakLearner, iter int) (control.State, error) {
	if iter >= b.rounds {
		return control.Terminating(iter), nil
	}
	return control.Continuing(), nil
}

func (b *countingBooster) Postprocess(weaklearner.WeakLearner) (*hypothesis.Combined, error) {
	return hypothesis.NewCombined(nil, nil), nil
}

func (b *countingBooster) CurrentHypothesis() *hypothesis.Combined {
	c := hypothesis.NewCombined(nil, nil)
	c.Constant = 1.0
	return c
}

func fixture(t *testing.T, rows int) sample.Sample {
	t.Helper()
	s, err := sample.NewDense([]string{"x"}, [][]float64{make([]float64, rows)}, make([]float64, rows))
	require.NoError(t, err)
	return s
}

func TestLogger_WritesOneRowPerRound(t *testing.T) {
	// GIVEN a booster that runs for exactly 3 rounds
	train := fixture(t, 2)
	test := fixture(t, 2)
	l := &research.Logger{
		Objective: func(sample.Sample, *hypothesis.Combined) float64 { return 0.5 },
		Loss:      func(sample.Sample, *hypothesis.Combined) float64 { return 0.1 },
		Train:     train,
		Test:      test,
	}
	path := filepath.Join(t.TempDir(), "run.csv")

	// WHEN logging the run
	_, err := l.Run(&countingBooster{rounds: 3}, nil, path)
	require.NoError(t, err)

	// THEN the file has a header plus one row per round
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.Len(t, lines, 4)
	assert.Equal(t, "ObjectiveValue,TrainLoss,TestLoss,Time", lines[0])
	assert.Contains(t, lines[1], "0.5,0.1,0.1,")
}
