package sample

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Dense is an in-memory, column-major Sample backed by dense float64
// slices. It is the shape produced by ReadCSV.
type Dense struct {
	names   []string
	columns [][]float64
	index   map[string]int
	target  []float64
	rows    int
}

// NewDense builds a Dense sample from column-major data. names and columns
// must have the same length; every column must have length rows.
func NewDense(names []string, columns [][]float64, target []float64) (*Dense, error) {
	if len(names) != len(columns) {
		return nil, fmt.Errorf("sample: %d names but %d columns", len(names), len(columns))
	}
	rows := len(target)
	for i, col := range columns {
		if len(col) != rows {
			return nil, fmt.Errorf("sample: column %q has %d rows, target has %d", names[i], len(col), rows)
		}
	}
	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}
	return &Dense{names: names, columns: columns, index: index, target: target, rows: rows}, nil
}

func (d *Dense) Rows() int              { return d.rows }
func (d *Dense) Features() int          { return len(d.columns) }
func (d *Dense) FeatureNames() []string { return d.names }
func (d *Dense) Target() []float64      { return d.target }

func (d *Dense) Feature(name string) ([]float64, error) {
	i, ok := d.index[name]
	if !ok {
		return nil, fmt.Errorf("sample: unknown feature %q", name)
	}
	return d.columns[i], nil
}

func (d *Dense) At(row, col int) float64 {
	return d.columns[col][row]
}

// ReadCSV reads a dense sample from a comma-separated file. If hasHeader
// is true the first line names the columns; otherwise columns are named
// "feat_0", "feat_1", etc. targetColumn names the feature to extract into
// the target vector and remove from the feature set.
func ReadCSV(path string, hasHeader bool, targetColumn string) (*Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sample: read csv %q: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	var names []string
	var rawRows [][]float64
	lineNo := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lineNo++
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if hasHeader && lineNo == 1 {
			names = make([]string, len(fields))
			for i, f := range fields {
				names[i] = strings.TrimSpace(f)
			}
			continue
		}
		if names == nil {
			names = make([]string, len(fields))
			for i := range fields {
				names[i] = fmt.Sprintf("feat_%d", i)
			}
		}
		if len(fields) != len(names) {
			return nil, fmt.Errorf("sample: csv %q line %d: expected %d fields, got %d", path, lineNo, len(names), len(fields))
		}
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("sample: csv %q line %d field %d: %w", path, lineNo, i, err)
			}
			row[i] = v
		}
		rawRows = append(rawRows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("sample: read csv %q: %w", path, err)
	}
	if len(rawRows) == 0 {
		return nil, fmt.Errorf("sample: csv %q contains no data rows", path)
	}

	targetCol := -1
	for i, n := range names {
		if n == targetColumn {
			targetCol = i
			break
		}
	}
	if targetCol == -1 {
		return nil, fmt.Errorf("sample: target column %q not found in %q", targetColumn, path)
	}

	rows := len(rawRows)
	nFeat := len(names) - 1
	featNames := make([]string, 0, nFeat)
	columns := make([][]float64, 0, nFeat)
	for col, name := range names {
		if col == targetCol {
			continue
		}
		featNames = append(featNames, name)
		column := make([]float64, rows)
		for r, row := range rawRows {
			column[r] = row[col]
		}
		columns = append(columns, column)
	}

	target := make([]float64, rows)
	for r, row := range rawRows {
		target[r] = row[targetCol]
	}

	return NewDense(featNames, columns, target)
}
