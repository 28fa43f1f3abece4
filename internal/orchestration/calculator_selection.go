package orchestration

import (
	"github.com/agbru/rootcalc/internal/newton"
)

// MethodAll selects every registered method.
const MethodAll = "all"

// GetCalculatorsToRun determines which calculators should be executed for
// the given method name. "all" returns every registered calculator in
// alphabetical order; an unknown name returns nil.
//
// Parameters:
//   - method: A registered method name, or "all".
//   - factory: The calculator factory to retrieve implementations from.
//
// Returns:
//   - []newton.Calculator: A slice of calculators to execute.
func GetCalculatorsToRun(method string, factory newton.CalculatorFactory) []newton.Calculator {
	if method == MethodAll {
		keys := factory.List() // List() returns sorted keys
		calculators := make([]newton.Calculator, 0, len(keys))
		for _, k := range keys {
			if calc, err := factory.Get(k); err == nil {
				calculators = append(calculators, calc)
			}
		}
		return calculators
	}
	if calc, err := factory.Get(method); err == nil {
		return []newton.Calculator{calc}
	}
	return nil
}
