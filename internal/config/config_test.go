package config

import (
	"bytes"
	"errors"
	"flag"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/rootcalc/internal/errors"
	"github.com/agbru/rootcalc/internal/polynomial"
)

var methods = []string{"newton", "tangent"}

func parse(t *testing.T, args ...string) (AppConfig, error) {
	t.Helper()
	var buf bytes.Buffer
	return ParseConfig("rootcalc", args, &buf, methods)
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parse(t, "--poly", "1,0,-4", "--x0", "3")
	require.NoError(t, err)

	assert.Equal(t, polynomial.Polynomial{1, 0, -4}, cfg.Coefficients)
	assert.Equal(t, 3.0, cfg.InitialGuess)
	assert.Equal(t, DefaultTolerance, cfg.Tolerance)
	assert.Equal(t, DefaultMaxIterations, cfg.MaxIterations)
	assert.Equal(t, DefaultMethod, cfg.Method)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.True(t, math.IsInf(cfg.LowerBound, -1))
	assert.True(t, math.IsInf(cfg.UpperBound, 1))
	assert.False(t, cfg.HasRange())
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParseConfigFlags(t *testing.T) {
	cfg, err := parse(t,
		"-p", "2 -3 1", "--x0=-1.5", "--tol", "1e-8", "--max-iter", "0",
		"--lower", "-2", "--upper", "2", "--method", "TANGENT",
		"--timeout", "5s", "-v", "-d", "-o", "out.txt", "--metrics-out", "m.prom",
	)
	require.NoError(t, err)

	assert.Equal(t, polynomial.Polynomial{2, -3, 1}, cfg.Coefficients)
	assert.Equal(t, -1.5, cfg.InitialGuess)
	assert.Equal(t, 1e-8, cfg.Tolerance)
	assert.Equal(t, 0, cfg.MaxIterations)
	assert.Equal(t, "tangent", cfg.Method)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.Details)
	assert.Equal(t, "out.txt", cfg.OutputFile)
	assert.Equal(t, "m.prom", cfg.MetricsOut)
	assert.True(t, cfg.HasRange())
	assert.True(t, cfg.InRange(-1.5))
	assert.False(t, cfg.InRange(3))
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing polynomial", []string{"--x0", "1"}},
		{"single coefficient", []string{"--poly", "5"}},
		{"bad coefficient", []string{"--poly", "1,x,3"}},
		{"non-finite coefficient", []string{"--poly", "1,Inf"}},
		{"zero tolerance", []string{"--poly", "1,0,-4", "--tol", "0"}},
		{"negative max iterations", []string{"--poly", "1,0,-4", "--max-iter", "-1"}},
		{"NaN start", []string{"--poly", "1,0,-4", "--x0", "NaN"}},
		{"inverted range", []string{"--poly", "1,0,-4", "--lower", "5", "--upper", "1"}},
		{"unknown method", []string{"--poly", "1,0,-4", "--method", "secant"}},
		{"zero timeout", []string{"--poly", "1,0,-4", "--timeout", "0s"}},
		{"quiet and verbose", []string{"--poly", "1,0,-4", "-q", "-v"}},
		{"bad log level", []string{"--poly", "1,0,-4", "--log-level", "loud"}},
		{"unknown flag", []string{"--frobnicate"}},
		{"positional argument", []string{"--poly", "1,0,-4", "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.args...)
			require.Error(t, err)
			var cfgErr apperrors.ConfigError
			assert.True(t, errors.As(err, &cfgErr), "want ConfigError, got %T: %v", err, err)
			assert.Equal(t, apperrors.ExitErrorConfig, apperrors.ExitCodeFor(err))
		})
	}
}

func TestParseConfigHelp(t *testing.T) {
	_, err := parse(t, "--help")
	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestParseConfigMethodAll(t *testing.T) {
	cfg, err := parse(t, "--poly", "1,0,-4", "--method", "all")
	require.NoError(t, err)
	assert.Equal(t, MethodAll, cfg.Method)
}

func TestInteractiveSkipsProblemValidation(t *testing.T) {
	cfg, err := parse(t, "-i")
	require.NoError(t, err)
	assert.True(t, cfg.Interactive)
}

func TestCompletionSkipsValidation(t *testing.T) {
	cfg, err := parse(t, "--completion", "bash")
	require.NoError(t, err)
	assert.Equal(t, "bash", cfg.Completion)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ROOTCALC_POLY", "1 0 -9")
	t.Setenv("ROOTCALC_X0", "4")
	t.Setenv("ROOTCALC_TOL", "1e-6")
	t.Setenv("ROOTCALC_METHOD", "tangent")
	t.Setenv("ROOTCALC_QUIET", "yes")
	t.Setenv("ROOTCALC_TIMEOUT", "not-a-duration")

	cfg, err := parse(t, "--tol", "1e-3")
	require.NoError(t, err)

	assert.Equal(t, polynomial.Polynomial{1, 0, -9}, cfg.Coefficients)
	assert.Equal(t, 4.0, cfg.InitialGuess)
	assert.Equal(t, 1e-3, cfg.Tolerance, "CLI flag must win over environment")
	assert.Equal(t, "tangent", cfg.Method)
	assert.True(t, cfg.Quiet)
	assert.Equal(t, DefaultTimeout, cfg.Timeout, "unparsable env value is ignored")
}

func TestParseBoolEnv(t *testing.T) {
	t.Parallel()
	assert.True(t, parseBoolEnv("TRUE", false))
	assert.True(t, parseBoolEnv("1", false))
	assert.False(t, parseBoolEnv("no", true))
	assert.True(t, parseBoolEnv("maybe", true))
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "problem.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestProblemFile(t *testing.T) {
	path := writeFile(t, `
coefficients: [1, 0, -4]
x0: 3
tolerance: 1e-6
max_iterations: 50
range: {lower: 0, upper: 10}
method: tangent
timeout: 10s
`)
	cfg, err := parse(t, "--config", path, "--x0", "5")
	require.NoError(t, err)

	assert.Equal(t, polynomial.Polynomial{1, 0, -4}, cfg.Coefficients)
	assert.Equal(t, 5.0, cfg.InitialGuess, "CLI flag must win over file")
	assert.Equal(t, 1e-6, cfg.Tolerance)
	assert.Equal(t, 50, cfg.MaxIterations)
	assert.Equal(t, 0.0, cfg.LowerBound)
	assert.Equal(t, 10.0, cfg.UpperBound)
	assert.Equal(t, "tangent", cfg.Method)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestEnvBeatsProblemFile(t *testing.T) {
	path := writeFile(t, "coefficients: [1, 0, -4]\nx0: 3\n")
	t.Setenv("ROOTCALC_CONFIG", path)
	t.Setenv("ROOTCALC_X0", "7")

	cfg, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, 7.0, cfg.InitialGuess)
}

func TestProblemFileErrors(t *testing.T) {
	_, err := parse(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, apperrors.ExitErrorConfig, apperrors.ExitCodeFor(err))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = DecodeProblemFile([]byte("coefficients: [1, 2]\ncoeffs: [3]\n"))
	assert.Error(t, err, "unknown keys are rejected")

	pf, err := DecodeProblemFile(nil)
	require.NoError(t, err)
	assert.Nil(t, pf.X0)
}

func TestValidateProblem(t *testing.T) {
	t.Parallel()
	valid := Problem{Coefficients: []float64{1, 0, -4}, InitialGuess: 3, Tolerance: 1e-4, LowerBound: -1, UpperBound: 1}
	require.NoError(t, ValidateProblem(valid))

	bad := valid
	bad.Coefficients = []float64{1, math.NaN(), 2}
	err := ValidateProblem(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Coefficients[1]")

	bad = valid
	bad.Tolerance = -1
	err = ValidateProblem(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--tol must be greater than 0")

	bad = valid
	bad.LowerBound = 2
	err = ValidateProblem(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--lower must not exceed --upper")
}

func TestValidateProblemFieldErrors(t *testing.T) {
	t.Parallel()
	bad := Problem{Coefficients: []float64{1}, InitialGuess: math.Inf(1), Tolerance: 1e-4}
	err := ValidateProblem(bad)
	require.Error(t, err)

	var cfgErr apperrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "--poly needs at least 2 coefficients; --x0 must be finite", cfgErr.Message)

	var ve apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "--poly", ve.Field)
	assert.Equal(t, "needs at least 2 coefficients", ve.Message)
}

func TestToNewton(t *testing.T) {
	t.Parallel()
	cfg := AppConfig{Coefficients: polynomial.New(1, 0, -4), InitialGuess: 3, Tolerance: 1e-4, MaxIterations: 9}
	prob := cfg.ToNewtonProblem()
	assert.Equal(t, []float64{1, 0, -4}, prob.Coefficients)
	assert.Equal(t, 3.0, prob.InitialGuess)
	opts := cfg.ToNewtonOptions()
	assert.Equal(t, 1e-4, opts.Tolerance)
	assert.Equal(t, 9, opts.MaxIterations)
	assert.Nil(t, opts.Method)
}
