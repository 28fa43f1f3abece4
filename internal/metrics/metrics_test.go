package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSolve(t *testing.T) {
	t.Parallel()
	r := NewRecorder()

	r.SolveStarted()
	r.SolveStarted()
	assert.Equal(t, 2.0, testutil.ToFloat64(r.active))

	r.ObserveSolve("newton", "converged", 4, 20*time.Microsecond)
	r.ObserveSolve("tangent", "diverged", 0, time.Millisecond)

	assert.Equal(t, 0.0, testutil.ToFloat64(r.active))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.solves.WithLabelValues("newton", "converged")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.solves.WithLabelValues("tangent", "diverged")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.iterations))
}

func TestSolvesTotalExposition(t *testing.T) {
	t.Parallel()
	r := NewRecorder()
	r.SolveStarted()
	r.ObserveSolve("newton", "converged", 4, time.Millisecond)

	expected := `
# HELP rootcalc_solves_total Number of completed solves by method and final state.
# TYPE rootcalc_solves_total counter
rootcalc_solves_total{method="newton",state="converged"} 1
`
	err := testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "rootcalc_solves_total")
	require.NoError(t, err)
}

func TestRecordersAreIndependent(t *testing.T) {
	t.Parallel()
	a, b := NewRecorder(), NewRecorder()
	a.SolveStarted()
	a.ObserveSolve("newton", "converged", 1, time.Millisecond)
	assert.Equal(t, 0, testutil.CollectAndCount(b.solves))
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()
	r := NewRecorder()
	r.SolveStarted()
	r.ObserveSolve("newton", "exhausted", 1000, time.Second)

	path := filepath.Join(t.TempDir(), "rootcalc.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, `rootcalc_solves_total{method="newton",state="exhausted"} 1`)
	assert.Contains(t, body, "rootcalc_solve_iterations_bucket")
	assert.Contains(t, body, "rootcalc_solve_duration_seconds_count")
	assert.Contains(t, body, "go_goroutines")
}
