// This file implements solver.QPModel, the facade SoftBoost and
// ERLPBoost's inner distribution-update step drives. Unlike the LP
// facade in simplex.go (a genuine linear program with an exact simplex
// method), the per-round sub-problem here has a quadratic objective, so
// it is solved by reducing the box- and linearly-constrained QP to a
// sequence of unconstrained problems via an exterior quadratic-penalty
// method, each handed to gonum/optimize's L-BFGS Minimize — the
// "projected-gradient" style reduction this package was always meant to
// use for its one genuinely quadratic sub-problem.
package gonumlp

import (
	"fmt"
	"math"

	"github.com/inference-sim/boostctl/solver"
	"gonum.org/v1/gonum/optimize"
)

var _ solver.QPModel = (*QPModel)(nil)

type qpConstraint struct {
	coeffs map[solver.VarID]float64
	rhs    float64
}

// QPModel is a penalty-method implementation of solver.QPModel, sized
// for the small per-round sub-problems the entropic soft-margin
// boosters build (one variable per training row, one constraint per
// accumulated hypothesis).
type QPModel struct {
	lb, ub []float64
	leRows []qpConstraint
	eqRows []qpConstraint
	linear map[solver.VarID]float64
	quad   map[solver.VarID]float64

	primal []float64
}

// NewQP returns an empty QP model.
func NewQP() *QPModel { return &QPModel{} }

func (m *QPModel) AddVar(lb, ub float64) solver.VarID {
	id := solver.VarID(len(m.lb))
	m.lb = append(m.lb, lb)
	m.ub = append(m.ub, ub)
	return id
}

func (m *QPModel) AddConstrLE(coeffs map[solver.VarID]float64, rhs float64) {
	m.leRows = append(m.leRows, qpConstraint{coeffs: coeffs, rhs: rhs})
}

func (m *QPModel) AddConstrEQ(coeffs map[solver.VarID]float64, rhs float64) {
	m.eqRows = append(m.eqRows, qpConstraint{coeffs: coeffs, rhs: rhs})
}

func (m *QPModel) SetObjective(linear, quad map[solver.VarID]float64) {
	m.linear = linear
	m.quad = quad
}

func (m *QPModel) Primal(v solver.VarID) float64 { return m.primal[v] }

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func (m *QPModel) objective(x []float64) float64 {
	sum := 0.0
	for v, c := range m.linear {
		sum += c * x[v]
	}
	for v, c := range m.quad {
		sum += 0.5 * c * x[v] * x[v]
	}
	return sum
}

// eqResidual returns sum(coeffs*x) - rhs for one row: the signed
// residual of an equality row, or the (possibly negative, meaning
// satisfied) slack of an inequality row.
func (m *QPModel) eqResidual(row qpConstraint, x []float64) float64 {
	sum := 0.0
	for v, c := range row.coeffs {
		sum += c * x[v]
	}
	return sum - row.rhs
}

// maxViolation reports the worst constraint or bound violation at x; 0
// means x is fully feasible.
func (m *QPModel) maxViolation(x []float64) float64 {
	worst := 0.0
	for _, row := range m.eqRows {
		if v := math.Abs(m.eqResidual(row, x)); v > worst {
			worst = v
		}
	}
	for _, row := range m.leRows {
		if v := m.eqResidual(row, x); v > worst {
			worst = v
		}
	}
	for i, xi := range x {
		if d := m.lb[i] - xi; d > worst {
			worst = d
		}
		if d := xi - m.ub[i]; d > worst {
			worst = d
		}
	}
	return worst
}

// penalized returns the exterior-penalty objective and its gradient at
// mu's current weight: the QP objective plus mu times the squared
// violation of every equality row, every binding inequality row, and
// every out-of-bounds coordinate.
func (m *QPModel) penalized(x []float64, mu float64) (f float64, grad []float64) {
	f = m.objective(x)
	grad = make([]float64, len(x))
	for v, c := range m.linear {
		grad[v] += c
	}
	for v, c := range m.quad {
		grad[v] += c * x[v]
	}

	for _, row := range m.eqRows {
		r := m.eqResidual(row, x)
		f += mu * r * r
		for v, c := range row.coeffs {
			grad[v] += 2 * mu * r * c
		}
	}
	for _, row := range m.leRows {
		r := m.eqResidual(row, x)
		if r > 0 {
			f += mu * r * r
			for v, c := range row.coeffs {
				grad[v] += 2 * mu * r * c
			}
		}
	}
	for i, xi := range x {
		if d := m.lb[i] - xi; d > 0 {
			f += mu * d * d
			grad[i] -= 2 * mu * d
		}
		if d := xi - m.ub[i]; d > 0 {
			f += mu * d * d
			grad[i] += 2 * mu * d
		}
	}
	return f, grad
}

// Solve runs the exterior quadratic-penalty method: repeatedly minimize
// the current penalized objective with L-BFGS, clip the result back into
// the box bounds, and grow the penalty weight until every constraint and
// bound is satisfied to tolerance. If the violation stalls at a
// meaningful size after the penalty weight has grown large, the
// sub-problem is reported Infeasible rather than looped forever.
func (m *QPModel) Solve() (solver.Status, error) {
	n := len(m.lb)
	if n == 0 {
		return solver.Infeasible, fmt.Errorf("gonumlp: qp model has no variables")
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = clip(0, m.lb[i], m.ub[i])
	}

	const maxOuter = 30
	mu := 4.0
	for outer := 0; outer < maxOuter; outer++ {
		prob := optimize.Problem{
			Func: func(p []float64) float64 {
				f, _ := m.penalized(p, mu)
				return f
			},
			Grad: func(g, p []float64) {
				_, pg := m.penalized(p, mu)
				copy(g, pg)
			},
		}

		result, err := optimize.Minimize(prob, x, &optimize.Settings{MajorIterations: 200}, &optimize.LBFGS{})
		if result == nil {
			if err != nil {
				return solver.InfeasibleOrUnbounded, nil
			}
			break
		}
		for i := range x {
			x[i] = clip(result.X[i], m.lb[i], m.ub[i])
		}

		if m.maxViolation(x) < 1e-7 {
			break
		}
		mu *= 4
	}

	if m.maxViolation(x) > 1e-4 {
		return solver.Infeasible, nil
	}

	m.primal = x
	return solver.Optimal, nil
}
