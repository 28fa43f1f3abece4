// Package orchestration runs one or more root-finding methods concurrently
// on the same problem and aggregates their results for comparison. It
// decouples the solvers from presentation via the ProgressReporter and
// ResultPresenter interfaces.
package orchestration
