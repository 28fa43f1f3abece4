package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/rootcalc/internal/errors"
	"github.com/agbru/rootcalc/internal/polynomial"
)

// ProblemFile is the YAML representation of a problem. Absent keys leave the
// corresponding setting untouched.
//
//	coefficients: [1, 0, -4]
//	x0: 3
//	tolerance: 1e-4
//	max_iterations: 100
//	range: {lower: -10, upper: 10}
//	method: newton
//	timeout: 10s
type ProblemFile struct {
	Coefficients  []float64      `yaml:"coefficients"`
	X0            *float64       `yaml:"x0"`
	Tolerance     *float64       `yaml:"tolerance"`
	MaxIterations *int           `yaml:"max_iterations"`
	Range         *RangeSpec     `yaml:"range"`
	Method        *string        `yaml:"method"`
	Timeout       *time.Duration `yaml:"timeout"`
}

// RangeSpec is the search range of a ProblemFile.
type RangeSpec struct {
	Lower *float64 `yaml:"lower"`
	Upper *float64 `yaml:"upper"`
}

// LoadProblemFile reads and decodes a YAML problem file.
func LoadProblemFile(path string) (ProblemFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ProblemFile{}, apperrors.ConfigError{Message: fmt.Sprintf("reading problem file: %v", err), Cause: err}
	}
	return DecodeProblemFile(data)
}

// DecodeProblemFile decodes a YAML problem document. Unknown keys are
// rejected.
func DecodeProblemFile(data []byte) (ProblemFile, error) {
	var pf ProblemFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil && !errors.Is(err, io.EOF) {
		return ProblemFile{}, apperrors.ConfigError{Message: fmt.Sprintf("decoding problem file: %v", err), Cause: err}
	}
	return pf, nil
}

// applyTo copies the file's values into config for every setting whose flag
// was not given on the command line.
func (pf ProblemFile) applyTo(config *AppConfig, fs *flag.FlagSet) {
	if len(pf.Coefficients) > 0 && !isFlagSetAny(fs, "poly", "p") {
		config.Coefficients = polynomial.New(pf.Coefficients...)
	}
	if pf.X0 != nil && !isFlagSet(fs, "x0") {
		config.InitialGuess = *pf.X0
	}
	if pf.Tolerance != nil && !isFlagSet(fs, "tol") {
		config.Tolerance = *pf.Tolerance
	}
	if pf.MaxIterations != nil && !isFlagSet(fs, "max-iter") {
		config.MaxIterations = *pf.MaxIterations
	}
	if pf.Range != nil {
		if pf.Range.Lower != nil && !isFlagSet(fs, "lower") {
			config.LowerBound = *pf.Range.Lower
		}
		if pf.Range.Upper != nil && !isFlagSet(fs, "upper") {
			config.UpperBound = *pf.Range.Upper
		}
	}
	if pf.Method != nil && !isFlagSet(fs, "method") {
		config.Method = *pf.Method
	}
	if pf.Timeout != nil && !isFlagSet(fs, "timeout") {
		config.Timeout = *pf.Timeout
	}
}
