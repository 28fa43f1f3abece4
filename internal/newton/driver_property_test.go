package newton

import (
	"context"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/agbru/rootcalc/internal/polynomial"
)

// cubicFromRoots expands a*(x-r1)(x-r2)(x-r3) into coefficients.
func cubicFromRoots(a, r1, r2, r3 float64) []float64 {
	return []float64{
		a,
		-a * (r1 + r2 + r3),
		a * (r1*r2 + r1*r3 + r2*r3),
		-a * r1 * r2 * r3,
	}
}

// TestConvergedRootHasSmallResidual_PropertyBased checks that starting to the
// right of the largest of three well separated real roots always converges,
// and that the converged root leaves a residual that is small relative to the
// coefficient magnitudes.
func TestConvergedRootHasSmallResidual_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("converged root is a root", prop.ForAll(
		func(a, r1, r2, r3, offset float64) bool {
			coeffs := cubicFromRoots(a, r1, r2, r3)
			res, err := Solve(context.Background(), coeffs, r3+offset, Options{Tolerance: 1e-9, MaxIterations: 500})
			if err != nil {
				t.Logf("roots (%v, %v, %v) from %v: %v", r1, r2, r3, r3+offset, err)
				return false
			}
			p := polynomial.New(coeffs...)
			residual := math.Abs(p.Evaluate(res.Root))
			return res.State == Converged &&
				residual <= 1e-6*(1+p.MaxAbsCoefficient()) &&
				math.Abs(res.Root-r3) <= 1e-6
		},
		gen.Float64Range(0.5, 3),
		gen.Float64Range(-5, -2),
		gen.Float64Range(-1.5, 1.5),
		gen.Float64Range(2, 5),
		gen.Float64Range(0.1, 10),
	))

	properties.Property("direct and tangent agree", prop.ForAll(
		func(a, r1, r2, r3, offset float64) bool {
			coeffs := cubicFromRoots(a, r1, r2, r3)
			opts := Options{Tolerance: 1e-9, MaxIterations: 500}
			direct, err := Solve(context.Background(), coeffs, r1-offset, opts)
			if err != nil {
				return false
			}
			opts.Method = Tangent{}
			tangent, err := Solve(context.Background(), coeffs, r1-offset, opts)
			if err != nil {
				return false
			}
			return math.Abs(direct.Root-tangent.Root) <= 1e-6
		},
		gen.Float64Range(0.5, 3),
		gen.Float64Range(-5, -2),
		gen.Float64Range(-1.5, 1.5),
		gen.Float64Range(2, 5),
		gen.Float64Range(0.1, 10),
	))

	properties.Property("every step is recorded with its change", prop.ForAll(
		func(r, x0 float64) bool {
			coeffs := []float64{1, -2 * r, r*r - 1} // roots r-1 and r+1
			res, err := Solve(context.Background(), coeffs, x0, Options{Tolerance: 1e-10, MaxIterations: 200})
			if err != nil {
				// x0 == r puts the start on the vertex.
				return res.State == Diverged
			}
			prev := x0
			for i, it := range res.Iterations {
				if it.Index != i+1 || it.From != prev || it.Change != math.Abs(it.X-prev) {
					return false
				}
				prev = it.X
			}
			return res.Root == prev && res.LastChange() <= 1e-10
		},
		gen.Float64Range(-10, 10),
		gen.Float64Range(-20, 20),
	))

	properties.TestingRun(t)
}
