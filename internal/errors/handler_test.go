package apperrors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

type testColors struct{}

func (testColors) Red() string    { return "<red>" }
func (testColors) Yellow() string { return "<yellow>" }
func (testColors) Reset() string  { return "</>" }

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"deadline", context.DeadlineExceeded, ExitErrorTimeout},
		{"wrapped deadline", WrapError(context.DeadlineExceeded, "solve"), ExitErrorTimeout},
		{"canceled", context.Canceled, ExitErrorCanceled},
		{"arithmetic", fmt.Errorf("zero slope at x=0: %w", ErrArithmetic), ExitErrorDiverged},
		{"no convergence", fmt.Errorf("cap hit: %w", ErrNoConvergence), ExitErrorNoConverge},
		{"precondition", fmt.Errorf("1 coefficient: %w", ErrPrecondition), ExitErrorConfig},
		{"config", NewConfigError("bad flag"), ExitErrorConfig},
		{"validation", ValidationError{Field: "tolerance", Message: "must be positive"}, ExitErrorConfig},
		{"timeout type", TimeoutError{Operation: "solve", Limit: time.Second}, ExitErrorTimeout},
		{"calculation wrapping arithmetic", CalculationError{Method: "newton", Cause: ErrArithmetic}, ExitErrorDiverged},
		{"config wrapping validation", ConfigError{Message: "--tol", Cause: ValidationError{Field: "--tol"}}, ExitErrorConfig},
		{"other", errors.New("boom"), ExitErrorGeneric},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestHandleCalculationError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		duration time.Duration
		colors   ColorProvider
		wantCode int
		contains []string
	}{
		{
			name:     "nil error writes nothing",
			err:      nil,
			wantCode: ExitSuccess,
		},
		{
			name:     "timeout with duration",
			err:      context.DeadlineExceeded,
			duration: 2 * time.Second,
			colors:   testColors{},
			wantCode: ExitErrorTimeout,
			contains: []string{"Timeout", "after 2s", "<red>"},
		},
		{
			name:     "timeout names the configured limit",
			err:      CalculationError{Method: "newton", Cause: TimeoutError{Operation: "newton", Limit: 250 * time.Millisecond}},
			wantCode: ExitErrorTimeout,
			contains: []string{"Timeout", "The 250ms limit was reached"},
		},
		{
			name:     "diverged without colors",
			err:      fmt.Errorf("derivative is zero at x=0: %w", ErrArithmetic),
			wantCode: ExitErrorDiverged,
			contains: []string{"Diverged", "derivative is zero at x=0"},
		},
		{
			name:     "no convergence uses warning color",
			err:      ErrNoConvergence,
			colors:   testColors{},
			wantCode: ExitErrorNoConverge,
			contains: []string{"Did not converge", "<yellow>"},
		},
		{
			name:     "canceled",
			err:      context.Canceled,
			wantCode: ExitErrorCanceled,
			contains: []string{"Canceled"},
		},
		{
			name:     "generic",
			err:      errors.New("disk on fire"),
			wantCode: ExitErrorGeneric,
			contains: []string{"Unexpected error: disk on fire"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			code := HandleCalculationError(tt.err, tt.duration, &buf, tt.colors)
			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			out := buf.String()
			if tt.err == nil && out != "" {
				t.Errorf("expected no output for nil error, got %q", out)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output should contain %q, got %q", want, out)
				}
			}
		})
	}
}
