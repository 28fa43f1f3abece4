package newton

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/agbru/rootcalc/internal/polynomial"
)

// Analysis summarizes how a solve converged.
type Analysis struct {
	Steps int
	// Residual is |f(root)|.
	Residual float64
	// MeanChange and MedianChange summarize the step sizes.
	MeanChange   float64
	MedianChange float64
	// Order is the median estimate of the convergence order q from
	// consecutive step sizes, e(n+1) ~ e(n)^q. Zero when fewer than three
	// usable steps exist.
	Order float64
}

// Analyze computes convergence statistics for r against p.
func Analyze(p polynomial.Polynomial, r Result) Analysis {
	a := Analysis{
		Steps:    r.Steps(),
		Residual: math.Abs(p.Evaluate(r.Root)),
	}
	if a.Steps == 0 {
		return a
	}

	changes := make(stats.Float64Data, 0, a.Steps)
	for _, it := range r.Iterations {
		changes = append(changes, it.Change)
	}
	a.MeanChange, _ = changes.Mean()
	a.MedianChange, _ = changes.Median()

	orders := stats.Float64Data{}
	for i := 2; i < len(changes); i++ {
		e0, e1, e2 := changes[i-2], changes[i-1], changes[i]
		if e0 <= 0 || e1 <= 0 || e2 <= 0 || e0 == e1 {
			continue
		}
		q := math.Log(e2/e1) / math.Log(e1/e0)
		if math.IsNaN(q) || math.IsInf(q, 0) {
			continue
		}
		orders = append(orders, q)
	}
	if len(orders) > 0 {
		a.Order, _ = stats.Median(orders)
	}
	return a
}
