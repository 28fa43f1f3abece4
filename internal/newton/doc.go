// Package newton drives Newton-Raphson iteration toward a real root of a
// polynomial.
//
// A Driver owns one polynomial, its derivative and the iteration state. Each
// Step evaluates f(x) and f'(x), computes the next candidate with the
// configured Method and records the absolute change. Iteration stops when the
// change is within tolerance (Converged), when the derivative vanishes
// (Diverged), or when the optional iteration cap is reached (Exhausted).
//
// The package also provides a registry of update methods wrapped as
// Calculators so that several methods can be run side by side and compared.
package newton
