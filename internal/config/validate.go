package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/agbru/rootcalc/internal/errors"
)

// problemValidate is the validator instance for Problem. Initialized in
// init() with the custom "finite" rule.
var problemValidate *validator.Validate

func init() {
	problemValidate = validator.New(validator.WithRequiredStructEnabled())
	_ = problemValidate.RegisterValidation("finite", validateFinite)
}

// validateFinite rejects NaN and infinite floats.
func validateFinite(fl validator.FieldLevel) bool {
	v := fl.Field().Float()
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// fieldFlags maps Problem fields to the flag that sets them, for messages.
var fieldFlags = map[string]string{
	"Coefficients":  "--poly",
	"InitialGuess":  "--x0",
	"Tolerance":     "--tol",
	"MaxIterations": "--max-iter",
	"LowerBound":    "--lower",
	"UpperBound":    "--upper",
}

// ValidateProblem checks the numerical inputs of a solve.
//
// Returns:
//   - error: nil, or an apperrors.ConfigError naming the offending flags. It
//     wraps one apperrors.ValidationError per rejected field.
func ValidateProblem(p Problem) error {
	err := problemValidate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.ConfigError{Message: fmt.Sprintf("invalid problem: %v", err), Cause: err}
	}
	msgs := make([]string, 0, len(verrs))
	fieldErrs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		ve := describe(fe)
		msgs = append(msgs, ve.Field+" "+ve.Message)
		fieldErrs = append(fieldErrs, ve)
	}
	return apperrors.ConfigError{Message: strings.Join(msgs, "; "), Cause: errors.Join(fieldErrs...)}
}

func describe(fe validator.FieldError) apperrors.ValidationError {
	name := fe.StructField()
	flagName, ok := fieldFlags[name]
	if !ok {
		flagName = name
	}
	ve := apperrors.ValidationError{Field: flagName}
	switch fe.Tag() {
	case "min":
		ve.Message = fmt.Sprintf("needs at least %s coefficients", fe.Param())
	case "finite":
		if name == "Coefficients" || strings.HasPrefix(fe.Field(), "Coefficients[") {
			ve.Field = "--poly"
			ve.Message = fmt.Sprintf("coefficient %s must be finite", fe.Field())
		} else {
			ve.Message = "must be finite"
		}
	case "gt":
		ve.Message = fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		ve.Message = fmt.Sprintf("must be at least %s", fe.Param())
	case "ltefield":
		ve.Field = "--lower"
		ve.Message = "must not exceed --upper"
	default:
		ve.Message = fmt.Sprintf("failed %q validation", fe.Tag())
	}
	return ve
}
