package polynomial

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmpty is returned by Parse when the input holds no coefficients.
var ErrEmpty = errors.New("no coefficients given")

// Parse reads a coefficient list separated by commas, whitespace, or both,
// e.g. "1,0,-4" or "1 0 -4". Coefficients are highest degree first.
func Parse(s string) (Polynomial, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) == 0 {
		return nil, ErrEmpty
	}
	p := make(Polynomial, 0, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("coefficient %d (%q): %w", i, f, err)
		}
		p = append(p, v)
	}
	return p, nil
}

// Format renders the coefficient list in the form accepted by Parse.
func (p Polynomial) Format() string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = strconv.FormatFloat(c, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}
