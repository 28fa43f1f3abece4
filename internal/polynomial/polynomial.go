package polynomial

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/agbru/rootcalc/internal/errors"
)

// ErrTooFewCoefficients is returned when a derivative is requested for a
// polynomial with fewer than two coefficients.
var ErrTooFewCoefficients = fmt.Errorf("polynomial needs at least 2 coefficients: %w", apperrors.ErrPrecondition)

// Polynomial is an immutable sequence of real coefficients, highest degree
// first. The zero value is the empty polynomial, which evaluates to 0.
type Polynomial []float64

// New returns a Polynomial holding a copy of coeffs.
func New(coeffs ...float64) Polynomial {
	p := make(Polynomial, len(coeffs))
	copy(p, coeffs)
	return p
}

// Len returns the number of coefficients.
func (p Polynomial) Len() int { return len(p) }

// Degree returns len(p)-1, or -1 for the empty polynomial.
func (p Polynomial) Degree() int { return len(p) - 1 }

// Coefficients returns a copy of the coefficients.
func (p Polynomial) Coefficients() []float64 {
	return append([]float64(nil), p...)
}

// Evaluate returns p(x).
func (p Polynomial) Evaluate(x float64) float64 {
	return Evaluate(x, p)
}

// Derivative returns the first derivative of p.
func (p Polynomial) Derivative() (Polynomial, error) {
	return Derivative(p)
}

// Evaluate returns sum(coeffs[i] * x^(n-1-i)) using Horner's scheme.
// The constant term is added without multiplying by x, so x = 0 yields the
// constant coefficient (0^0 = 1). The loop is seeded with the leading
// coefficient so NaN and infinities propagate as in the power-sum form.
// An empty slice evaluates to 0.
func Evaluate(x float64, coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}
	y := coeffs[0]
	for _, c := range coeffs[1:] {
		y = y*x + c
	}
	return y
}

// Derivative applies the power rule to coeffs and returns a new polynomial
// of length n-1 where d[i] = coeffs[i] * (n-1-i).
//
// Returns:
//   - Polynomial: The derivative coefficients.
//   - error: ErrTooFewCoefficients if len(coeffs) < 2.
func Derivative(coeffs []float64) (Polynomial, error) {
	n := len(coeffs)
	if n < 2 {
		return nil, fmt.Errorf("derivative of %d-term polynomial: %w", n, ErrTooFewCoefficients)
	}
	d := make(Polynomial, n-1)
	for i := range d {
		d[i] = coeffs[i] * float64(n-1-i)
	}
	return d, nil
}

// MaxAbsCoefficient returns the largest coefficient magnitude, or 0 for the
// empty polynomial.
func (p Polynomial) MaxAbsCoefficient() float64 {
	var m float64
	for _, c := range p {
		m = math.Max(m, math.Abs(c))
	}
	return m
}

// String renders p in conventional notation, e.g. "x^2 - 4".
// Zero terms are omitted; the zero polynomial renders as "0".
func (p Polynomial) String() string {
	var b strings.Builder
	n := len(p)
	for i, c := range p {
		if c == 0 {
			continue
		}
		exp := n - 1 - i
		abs := math.Abs(c)
		switch {
		case b.Len() == 0 && c < 0:
			b.WriteString("-")
		case b.Len() > 0 && c < 0:
			b.WriteString(" - ")
		case b.Len() > 0:
			b.WriteString(" + ")
		}
		if abs != 1 || exp == 0 {
			b.WriteString(strconv.FormatFloat(abs, 'g', -1, 64))
		}
		switch exp {
		case 0:
		case 1:
			b.WriteString("x")
		default:
			b.WriteString("x^")
			b.WriteString(strconv.Itoa(exp))
		}
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}
