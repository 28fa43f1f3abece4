// Package polynomial implements real polynomials in dense coefficient form.
//
// Coefficients are stored highest degree first: for a slice c of length n,
// c[i] multiplies x^(n-1-i). The package provides evaluation (Horner's
// scheme), power-rule differentiation and parsing of coefficient lists.
package polynomial
