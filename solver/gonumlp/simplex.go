// Package gonumlp implements solver.Model with a from-scratch two-phase
// primal simplex method, using gonum/mat for the tableau's row
// operations and its final basis to read back dual (shadow price)
// values. The Go ecosystem has no maintained LP/simplex binding to lean
// on, so gonum serves as the numerical backend rather than hand-rolled
// bare-slice linear algebra.
package gonumlp

import (
	"fmt"
	"math"

	"github.com/inference-sim/boostctl/solver"
	"gonum.org/v1/gonum/mat"
)

const epsilon = 1e-9

var _ solver.Model = (*Model)(nil)

type constraint struct {
	coeffs map[solver.VarID]float64
	rhs    float64
	eq     bool
}

// Model is a dense tableau-simplex implementation of solver.Model. It
// is intended for the small, short-lived LPs the soft-margin boosters
// build one round at a time (tens to low hundreds of variables and
// constraints), not for large-scale optimization.
type Model struct {
	names []string
	lb    []float64
	ub    []float64

	rows []constraint

	objCoef  map[solver.VarID]float64
	minimize bool

	status solver.Status
	primal []float64
	dual   []float64
}

// New returns an empty model.
func New() *Model {
	return &Model{minimize: true}
}

func (m *Model) AddVar(name string, lb, ub float64) solver.VarID {
	id := solver.VarID(len(m.names))
	m.names = append(m.names, name)
	m.lb = append(m.lb, lb)
	m.ub = append(m.ub, ub)
	return id
}

func (m *Model) AddConstrLE(coeffs map[solver.VarID]float64, rhs float64) int {
	m.rows = append(m.rows, constraint{coeffs: coeffs, rhs: rhs, eq: false})
	return len(m.rows) - 1
}

func (m *Model) AddConstrEQ(coeffs map[solver.VarID]float64, rhs float64) int {
	m.rows = append(m.rows, constraint{coeffs: coeffs, rhs: rhs, eq: true})
	return len(m.rows) - 1
}

func (m *Model) SetObjective(coeffs map[solver.VarID]float64, minimize bool) {
	m.objCoef = coeffs
	m.minimize = minimize
}

func (m *Model) Primal(v solver.VarID) float64 { return m.primal[v] }

func (m *Model) Dual(idx int) float64 { return m.dual[idx] }

// Optimize builds the standard-form tableau for the model's current
// variables, constraints, and objective and solves it with a two-phase
// simplex method. Free variables (lb == -Inf) are split into the
// difference of two nonnegative variables; finite upper bounds become
// extra <= rows.
func (m *Model) Optimize() (solver.Status, error) {
	n := len(m.names)
	if n == 0 {
		return solver.Infeasible, fmt.Errorf("gonumlp: model has no variables")
	}

	// Column layout: each structural variable gets a nonnegative
	// "plus" column, and also a "minus" column when it is free
	// (lb == -Inf), so that x = plus - minus.
	colOf := make([][2]int, n) // [plusCol, minusCol(-1 if none)]
	structural := 0
	for v := 0; v < n; v++ {
		plus := structural
		structural++
		minus := -1
		if math.IsInf(m.lb[v], -1) {
			minus = structural
			structural++
		}
		colOf[v] = [2]int{plus, minus}
	}

	rows := make([]constraint, 0, len(m.rows)+n)
	rows = append(rows, m.rows...)
	for v := 0; v < n; v++ {
		if !math.IsInf(m.ub[v], 1) {
			rows = append(rows, constraint{coeffs: map[solver.VarID]float64{solver.VarID(v): 1}, rhs: m.ub[v], eq: false})
		}
	}
	numRows := len(rows)

	// A row needs an artificial variable whenever it is an equality, or
	// whenever a negative rhs would force its slack to a negative
	// (infeasible) starting value once the row is normalized to a
	// nonnegative rhs.
	flip := make([]bool, numRows)
	needsArtificial := make([]bool, numRows)
	for i, r := range rows {
		flip[i] = r.rhs < 0
		needsArtificial[i] = r.eq || flip[i]
	}

	slackCol := make([]int, numRows)
	artificialCol := make([]int, numRows)
	for i := range slackCol {
		slackCol[i] = -1
		artificialCol[i] = -1
	}
	totalCols := structural
	for i := range rows {
		if !needsArtificial[i] {
			slackCol[i] = totalCols
			totalCols++
		}
	}
	artificialStart := totalCols
	nextArtificial := 0
	for i := range rows {
		if needsArtificial[i] {
			artificialCol[i] = artificialStart + nextArtificial
			nextArtificial++
		}
	}
	totalCols += nextArtificial

	A := mat.NewDense(numRows, totalCols, nil)
	b := make([]float64, numRows)
	for i, r := range rows {
		sign := 1.0
		if flip[i] {
			sign = -1.0
		}
		for v, coeff := range r.coeffs {
			pm := colOf[v]
			A.Set(i, pm[0], A.At(i, pm[0])+sign*coeff)
			if pm[1] >= 0 {
				A.Set(i, pm[1], A.At(i, pm[1])-sign*coeff)
			}
		}
		if slackCol[i] >= 0 {
			A.Set(i, slackCol[i], 1)
		}
		if artificialCol[i] >= 0 {
			A.Set(i, artificialCol[i], 1)
		}
		b[i] = sign * r.rhs
	}

	basis := make([]int, numRows)
	for i := range rows {
		if slackCol[i] >= 0 {
			basis[i] = slackCol[i]
		} else {
			basis[i] = artificialCol[i]
		}
	}

	forbidden := make([]bool, totalCols)
	for i := 0; i < numRows; i++ {
		if artificialCol[i] >= 0 {
			forbidden[artificialCol[i]] = true
		}
	}

	if nextArtificial > 0 {
		cPhase1 := make([]float64, totalCols)
		for i := 0; i < numRows; i++ {
			if artificialCol[i] >= 0 {
				cPhase1[artificialCol[i]] = 1
			}
		}
		noMask := make([]bool, totalCols)
		if !simplexSolve(A, b, basis, cPhase1, noMask) {
			return solver.InfeasibleOrUnbounded, nil
		}
		obj := 0.0
		for i, bv := range basis {
			obj += cPhase1[bv] * b[i]
		}
		if obj > 1e-6 {
			m.status = solver.Infeasible
			return m.status, nil
		}
	}

	c := make([]float64, totalCols)
	sign := 1.0
	if !m.minimize {
		sign = -1.0
	}
	for v, coeff := range m.objCoef {
		pm := colOf[int(v)]
		c[pm[0]] += sign * coeff
		if pm[1] >= 0 {
			c[pm[1]] -= sign * coeff
		}
	}
	if !simplexSolve(A, b, basis, c, forbidden) {
		m.status = solver.InfeasibleOrUnbounded
		return m.status, nil
	}

	x := make([]float64, totalCols)
	for i, bv := range basis {
		x[bv] = b[i]
	}
	m.primal = make([]float64, n)
	for v := 0; v < n; v++ {
		pm := colOf[v]
		val := x[pm[0]]
		if pm[1] >= 0 {
			val -= x[pm[1]]
		}
		m.primal[v] = val
	}

	// Dual values: for row i, y_i = c_B^T B^-1 e_i. The tableau column
	// for row i's slack (LE rows) or artificial (EQ rows) variable
	// started as e_i and has objective coefficient 0 in the final
	// (phase 2) cost vector c, so its reduced cost z_j equals -y_i
	// directly — no separate basis inversion required.
	z := reducedCosts(A, basis, c)
	m.dual = make([]float64, len(m.rows))
	for i := range m.rows {
		col := slackCol[i]
		if col < 0 {
			col = artificialCol[i]
		}
		y := -z[col]
		if !m.minimize {
			y = -y
		}
		m.dual[i] = y
	}

	m.status = solver.Optimal
	return m.status, nil
}

// simplexSolve runs primal simplex pivots on the tableau (A|b) with
// objective c and initial basis, mutating A, b, and basis in place.
// Columns flagged in forbidden are never chosen to enter (used to keep
// phase-1 artificial variables pinned at zero during phase 2). Returns
// false if it detects unboundedness.
func simplexSolve(A *mat.Dense, b []float64, basis []int, c []float64, forbidden []bool) bool {
	rows, cols := A.Dims()
	const maxIter = 10000
	for iter := 0; iter < maxIter; iter++ {
		z := reducedCosts(A, basis, c)

		enter := -1
		best := -epsilon
		for j := 0; j < cols; j++ {
			if forbidden[j] {
				continue
			}
			if z[j] < best {
				best = z[j]
				enter = j
			}
		}
		if enter == -1 {
			return true
		}

		leave := -1
		bestRatio := math.Inf(1)
		for i := 0; i < rows; i++ {
			a := A.At(i, enter)
			if a > epsilon {
				ratio := b[i] / a
				if ratio < bestRatio-1e-12 {
					bestRatio = ratio
					leave = i
				}
			}
		}
		if leave == -1 {
			return false
		}

		pivot(A, b, enter, leave)
		basis[leave] = enter
	}
	return true
}

func pivot(A *mat.Dense, b []float64, enter, leave int) {
	rows, cols := A.Dims()
	piv := A.At(leave, enter)
	for j := 0; j < cols; j++ {
		A.Set(leave, j, A.At(leave, j)/piv)
	}
	b[leave] /= piv

	for i := 0; i < rows; i++ {
		if i == leave {
			continue
		}
		factor := A.At(i, enter)
		if factor == 0 {
			continue
		}
		for j := 0; j < cols; j++ {
			A.Set(i, j, A.At(i, j)-factor*A.At(leave, j))
		}
		b[i] -= factor * b[leave]
	}
}

// reducedCosts computes, for every column j, rc_j = c_j - c_B^T B^-1 A_j
// — the standard simplex cost row. A column with rc_j < 0 improves
// (decreases) the objective if brought into the basis; the optimal
// tableau has rc_j >= 0 everywhere.
func reducedCosts(A *mat.Dense, basis []int, c []float64) []float64 {
	rows, cols := A.Dims()
	cb := make([]float64, rows)
	for i, bv := range basis {
		cb[i] = c[bv]
	}
	rc := make([]float64, cols)
	for j := 0; j < cols; j++ {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += cb[i] * A.At(i, j)
		}
		rc[j] = c[j] - sum
	}
	return rc
}
