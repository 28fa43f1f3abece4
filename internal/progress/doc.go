// Package progress carries per-iteration updates from running solvers to
// whatever displays them, using a small observer pattern.
package progress
