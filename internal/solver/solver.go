// Package solver computes utility-maximizing consumption bundles subject to a
// linear budget constraint. It supports the closed-form Cobb-Douglas solution
// as well as bounded numerical maximization of arbitrary utility functions,
// plus a sweep operation that traces a response curve over a price grid.
package solver

import (
	"fmt"
	"iter"
	"math"

	"go.uber.org/zap"

	"github.com/AskerNC/projects-2021-concatenaters/pkg/optimization"
)

// Bundle is a pair of non-negative quantities representing a consumption
// choice. A rational consumer spends the entire budget, so the optimum
// satisfies the budget constraint with equality.
type Bundle struct {
	Consumption float64 `json:"consumption"`
	Housing     float64 `json:"housing"`
}

// Cost returns the total expenditure of the bundle at the given prices.
func (b Bundle) Cost(prices Prices) float64 {
	return prices.Consumption*b.Consumption + prices.Housing*b.Housing
}

// Preferences holds the Cobb-Douglas weights. Alpha is the weight on
// consumption; housing carries the complementary weight 1-Alpha.
type Preferences struct {
	Alpha float64 `yaml:"alpha,omitempty" mapstructure:"alpha"`
}

// Prices holds the per-unit price of each good.
type Prices struct {
	Consumption float64 `yaml:"consumption,omitempty" mapstructure:"consumption"`
	Housing     float64 `yaml:"housing,omitempty" mapstructure:"housing"`
}

// UtilityFunc maps a bundle to a scalar utility value. Any strictly
// increasing, quasi-concave function works with MaximizeUtility.
type UtilityFunc func(Bundle) float64

// CobbDouglas returns the utility function U = c^alpha * h^(1-alpha).
func CobbDouglas(alpha float64) UtilityFunc {
	return func(b Bundle) float64 {
		return math.Pow(b.Consumption, alpha) * math.Pow(b.Housing, 1-alpha)
	}
}

// InvalidInputError indicates a parameter outside its valid domain, such as a
// non-positive price or budget.
type InvalidInputError struct {
	Field string
	Value float64
}

func (e InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s = %.6g is outside its valid domain", e.Field, e.Value)
}

// GridSpec describes an ascending grid of parameter values.
type GridSpec struct {
	Min    float64 `yaml:"min,omitempty" mapstructure:"min"`
	Max    float64 `yaml:"max,omitempty" mapstructure:"max"`
	Points int     `yaml:"points,omitempty" mapstructure:"points"`
}

// Values returns the grid points in ascending order, or nil when the grid
// has no points.
func (g GridSpec) Values() []float64 {
	if g.Points < 1 {
		return nil
	}
	values := make([]float64, g.Points)
	if g.Points == 1 {
		values[0] = g.Min
		return values
	}
	step := (g.Max - g.Min) / float64(g.Points-1)
	for i := range values {
		values[i] = g.Min + float64(i)*step
	}
	return values
}

func validate(prefs Preferences, prices Prices, budget float64) error {
	if prefs.Alpha <= 0 || prefs.Alpha >= 1 {
		return InvalidInputError{Field: "preferences.alpha", Value: prefs.Alpha}
	}
	return validatePrices(prices, budget)
}

func validatePrices(prices Prices, budget float64) error {
	if prices.Consumption <= 0 {
		return InvalidInputError{Field: "prices.consumption", Value: prices.Consumption}
	}
	if prices.Housing <= 0 {
		return InvalidInputError{Field: "prices.housing", Value: prices.Housing}
	}
	if budget <= 0 {
		return InvalidInputError{Field: "budget", Value: budget}
	}
	return nil
}

// Maximize returns the Cobb-Douglas optimum in closed form. The first-order
// condition fixes each good's expenditure share at its preference weight, so
// no numerical search is required.
func Maximize(prefs Preferences, prices Prices, budget float64) (Bundle, error) {
	if err := validate(prefs, prices, budget); err != nil {
		return Bundle{}, err
	}
	return Bundle{
		Consumption: prefs.Alpha * budget / prices.Consumption,
		Housing:     (1 - prefs.Alpha) * budget / prices.Housing,
	}, nil
}

// MaximizeUtility maximizes an arbitrary utility function subject to the
// budget constraint. The binding constraint reduces the problem to one
// dimension: housing quantity ranges over [0, budget/price], and consumption
// absorbs the remaining budget. Returns optimization.ConvergenceError when
// the iteration budget runs out before reaching tolerance.
func MaximizeUtility(logger *zap.Logger, u UtilityFunc, prices Prices, budget float64, opts optimization.Options) (Bundle, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if u == nil {
		return Bundle{}, fmt.Errorf("utility function cannot be nil")
	}
	if err := validatePrices(prices, budget); err != nil {
		return Bundle{}, err
	}

	bundleAt := func(h float64) Bundle {
		c := (budget - prices.Housing*h) / prices.Consumption
		if c < 0 {
			c = 0
		}
		return Bundle{Consumption: c, Housing: h}
	}
	objective := func(h float64) float64 {
		return -u(bundleAt(h))
	}

	result, err := optimization.MinimizeScalar(objective, 0, budget/prices.Housing, opts)
	if err != nil {
		return Bundle{}, err
	}

	bundle := bundleAt(result.X)
	logger.Debug("solved bounded utility maximization",
		zap.String("op", "solver.MaximizeUtility"),
		zap.Int("iterations", result.Iterations),
		zap.Float64("consumption", bundle.Consumption),
		zap.Float64("housing", bundle.Housing),
	)
	return bundle, nil
}

// Sweep traces the Cobb-Douglas optimum across an ascending grid of housing
// prices, holding the consumption price and budget fixed. Inputs are
// validated once up front; the returned sequence is lazy, finite, and
// restartable, yielding (housing price, optimal bundle) pairs.
func Sweep(prefs Preferences, housingPrices GridSpec, consumptionPrice, budget float64) (iter.Seq2[float64, Bundle], error) {
	if housingPrices.Points < 1 {
		return nil, InvalidInputError{Field: "grid.points", Value: float64(housingPrices.Points)}
	}
	if housingPrices.Min <= 0 {
		return nil, InvalidInputError{Field: "grid.min", Value: housingPrices.Min}
	}
	if housingPrices.Max < housingPrices.Min {
		return nil, InvalidInputError{Field: "grid.max", Value: housingPrices.Max}
	}
	if err := validate(prefs, Prices{Consumption: consumptionPrice, Housing: housingPrices.Min}, budget); err != nil {
		return nil, err
	}

	return func(yield func(float64, Bundle) bool) {
		for _, price := range housingPrices.Values() {
			// Cannot fail: inputs were validated against the grid minimum
			// and every grid point is at least that large.
			bundle, err := Maximize(prefs, Prices{Consumption: consumptionPrice, Housing: price}, budget)
			if err != nil {
				return
			}
			if !yield(price, bundle) {
				return
			}
		}
	}, nil
}
