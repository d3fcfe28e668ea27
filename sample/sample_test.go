package sample_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inference-sim/boostctl/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_ExtractsTargetColumn(t *testing.T) {
	// GIVEN a CSV file with a header and a target column "y"
	dir := t.TempDir()
	path := filepath.Join(dir, "toy.csv")
	content := "x1,x2,y\n1.2,0.5,1\n0.1,0.2,-1\n-21,2,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// WHEN reading it with the target column named
	s, err := sample.ReadCSV(path, true, "y")
	require.NoError(t, err)

	// THEN the target is extracted and removed from the feature set
	assert.Equal(t, 3, s.Rows())
	assert.Equal(t, 2, s.Features())
	assert.Equal(t, []string{"x1", "x2"}, s.FeatureNames())
	assert.Equal(t, []float64{1, -1, 1}, s.Target())
	assert.InDelta(t, 1.2, s.At(0, 0), 1e-12)
	assert.InDelta(t, 0.5, s.At(0, 1), 1e-12)
}

func TestReadCSV_MissingTargetColumn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toy.csv")
	require.NoError(t, os.WriteFile(path, []byte("x1,x2\n1,2\n"), 0o644))

	_, err := sample.ReadCSV(path, true, "missing")
	assert.Error(t, err)
}

func TestReadSVMLight_DropsAllZeroColumns(t *testing.T) {
	// GIVEN an SVMLight file where feature index 3 appears only with zeros
	dir := t.TempDir()
	path := filepath.Join(dir, "toy.svm")
	content := "+1 1:1.0 2:0.5 3:0\n-1 1:0.2 2:0.1 3:0.0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// WHEN reading it
	s, err := sample.ReadSVMLight(path)
	require.NoError(t, err)

	// THEN only the two referenced columns exist
	assert.Equal(t, 2, s.Rows())
	assert.Equal(t, 2, s.Features())
	assert.Equal(t, []float64{1, -1}, s.Target())
	assert.InDelta(t, 1.0, s.At(0, 0), 1e-12)
	assert.InDelta(t, 0.5, s.At(0, 1), 1e-12)
}

func TestReadSVMLight_SparseRowsDefaultToZero(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toy.svm")
	content := "+1 1:1.0\n-1 2:1.0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := sample.ReadSVMLight(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, s.At(1, 0), 1e-12)
	assert.InDelta(t, 0.0, s.At(0, 1), 1e-12)
}
