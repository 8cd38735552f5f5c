// Package optimization provides bounded scalar minimization and shared data
// structures for optimization results.
package optimization

import (
	"fmt"
	"math"

	"github.com/AskerNC/projects-2021-concatenaters/pkg/constants"
)

// invPhi is the inverse golden ratio used to shrink the search bracket.
var invPhi = (math.Sqrt(5) - 1) / 2

// Options controls the bracket-shrinking search.
type Options struct {
	Tolerance     float64 `yaml:"tolerance,omitempty" mapstructure:"tolerance"`
	MaxIterations int     `yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// Normalize ensures defaults are applied before use.
func (o *Options) Normalize() {
	if o == nil {
		return
	}
	if o.Tolerance <= 0 {
		o.Tolerance = constants.DefaultTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = constants.DefaultMaxIterations
	}
}

// Result captures the outcome of a bounded scalar minimization.
type Result struct {
	X          float64 `json:"x"`
	F          float64 `json:"f"`
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
}

// ConvergenceError indicates the iteration budget was exhausted before the
// bracket width reached the requested tolerance.
type ConvergenceError struct {
	Iterations int
	Width      float64
	Tolerance  float64
}

func (e ConvergenceError) Error() string {
	return fmt.Sprintf("optimization did not converge after %d iterations (bracket width %.3g, tolerance %.3g)",
		e.Iterations, e.Width, e.Tolerance)
}

// MinimizeScalar minimizes f over the closed interval [lower, upper] using
// golden-section search. The objective must be unimodal on the interval for
// the result to be a global minimum; for merely continuous objectives the
// result is a local minimum.
func MinimizeScalar(f func(float64) float64, lower, upper float64, opts Options) (Result, error) {
	opts.Normalize()

	if math.IsNaN(lower) || math.IsNaN(upper) {
		return Result{}, fmt.Errorf("optimization bounds must be numeric, got [%v, %v]", lower, upper)
	}
	if lower > upper {
		return Result{}, fmt.Errorf("optimization lower bound %.6g exceeds upper bound %.6g", lower, upper)
	}

	// Bracket tolerance scales with the magnitude of the interval so tight
	// bounds near zero do not demand absolute precision.
	scale := math.Max(math.Abs(lower), math.Abs(upper))
	if scale < 1 {
		scale = 1
	}
	width := upper - lower
	tol := opts.Tolerance * scale

	if width <= tol {
		mid := lower + width/2
		return Result{X: mid, F: f(mid), Iterations: 0, Converged: true}, nil
	}

	a, b := lower, upper
	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)
	fc := f(c)
	fd := f(d)

	iterations := 0
	for b-a > tol {
		if iterations >= opts.MaxIterations {
			return Result{X: (a + b) / 2, F: f((a + b) / 2), Iterations: iterations, Converged: false},
				ConvergenceError{Iterations: iterations, Width: b - a, Tolerance: tol}
		}
		if fc < fd {
			b = d
			d = c
			fd = fc
			c = b - invPhi*(b-a)
			fc = f(c)
		} else {
			a = c
			c = d
			fc = fd
			d = a + invPhi*(b-a)
			fd = f(d)
		}
		iterations++
	}

	x := (a + b) / 2
	return Result{X: x, F: f(x), Iterations: iterations, Converged: true}, nil
}
