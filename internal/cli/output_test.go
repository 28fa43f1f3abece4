package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/rootcalc/internal/newton"
	"github.com/agbru/rootcalc/internal/orchestration"
	"github.com/agbru/rootcalc/internal/polynomial"
)

func solvedQuadratic(t *testing.T) orchestration.SolveResult {
	t.Helper()
	res, err := newton.Solve(context.Background(), []float64{1, 0, -4}, 3, newton.Options{Tolerance: 1e-4})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	return orchestration.SolveResult{Name: "newton", Result: res, Duration: 3 * time.Millisecond}
}

func TestWriteResultToFile(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	result := solvedQuadratic(t)

	testCases := []struct {
		name       string
		outputFile string
		checkFunc  func(t *testing.T, filePath string)
	}{
		{
			name:       "writes header and candidates",
			outputFile: filepath.Join(tmpDir, "result.txt"),
			checkFunc: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				if err != nil {
					t.Fatalf("Failed to read output file: %v", err)
				}
				s := string(content)
				for _, want := range []string{
					"# Polynomial: x^2 - 4",
					"# Coefficients: 1,0,-4",
					"# State: converged",
					"# Iterations: 4",
					"1\t2.1666666666666665\t",
					"root = 2.000000000026214",
				} {
					if !strings.Contains(s, want) {
						t.Errorf("file missing %q:\n%s", want, s)
					}
				}
			},
		},
		{
			name:       "no output file",
			outputFile: "",
		},
		{
			name:       "creates nested directory",
			outputFile: filepath.Join(tmpDir, "nested", "dir", "result.txt"),
			checkFunc: func(t *testing.T, filePath string) {
				if _, err := os.Stat(filePath); err != nil {
					t.Errorf("File should exist in nested directory: %v", err)
				}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := OutputConfig{
				OutputFile:   tc.outputFile,
				Polynomial:   polynomial.New(1, 0, -4),
				InitialGuess: 3,
				Tolerance:    1e-4,
			}
			if err := WriteResultToFile(result, cfg); err != nil {
				t.Fatalf("WriteResultToFile() error = %v", err)
			}
			if tc.checkFunc != nil {
				tc.checkFunc(t, tc.outputFile)
			}
		})
	}
}

func TestWriteResultToFileInvalidPath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	// A regular file where a directory is expected.
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	err := WriteResultToFile(solvedQuadratic(t), OutputConfig{OutputFile: filepath.Join(blocker, "out.txt")})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "failed to create directory "+blocker) {
		t.Errorf("error %q does not name the directory", err)
	}
	if errors.Unwrap(err) == nil {
		t.Error("error does not wrap the filesystem cause")
	}
}

func TestFormatQuietResult(t *testing.T) {
	t.Parallel()
	tests := []struct {
		root float64
		want string
	}{
		{2.000000000026214, "2.000000000026214"},
		{-0.5, "-0.5"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := FormatQuietResult(tt.root); got != tt.want {
			t.Errorf("FormatQuietResult(%v) = %q, want %q", tt.root, got, tt.want)
		}
	}
}

func TestDisplayResultWithConfig(t *testing.T) {
	t.Parallel()
	result := solvedQuadratic(t)
	opts := orchestration.PresentationOptions{Polynomial: polynomial.New(1, 0, -4), Tolerance: 1e-4}

	t.Run("quiet prints only the root", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := DisplayResultWithConfig(&buf, result, opts, OutputConfig{Quiet: true}); err != nil {
			t.Fatal(err)
		}
		if got := buf.String(); got != "2.000000000026214\n" {
			t.Errorf("output = %q", got)
		}
	})

	t.Run("saves to file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "root.txt")
		var buf bytes.Buffer
		if err := DisplayResultWithConfig(&buf, result, opts, OutputConfig{OutputFile: path}); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "Result saved to") {
			t.Errorf("missing save notice:\n%s", buf.String())
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("file not written: %v", err)
		}
	})
}
