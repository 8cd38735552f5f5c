package solver

import (
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/AskerNC/projects-2021-concatenaters/pkg/constants"
	"github.com/AskerNC/projects-2021-concatenaters/pkg/optimization"
)

func TestMaximizeBudgetConstraintHolds(t *testing.T) {
	tests := []struct {
		name   string
		alpha  float64
		prices Prices
		budget float64
	}{
		{"Symmetric preferences", 0.5, Prices{Consumption: 1, Housing: 2}, 100},
		{"Housing tilted", 0.3, Prices{Consumption: 1, Housing: 1}, 50},
		{"Consumption tilted", 0.8, Prices{Consumption: 2.5, Housing: 0.5}, 10},
		{"Small budget", 0.5, Prices{Consumption: 3, Housing: 7}, 0.25},
		{"Large budget", 0.6, Prices{Consumption: 1.5, Housing: 4}, 1e6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle, err := Maximize(Preferences{Alpha: tt.alpha}, tt.prices, tt.budget)
			if err != nil {
				t.Fatalf("Maximize() unexpected error = %v", err)
			}
			if bundle.Consumption < 0 || bundle.Housing < 0 {
				t.Errorf("Maximize() returned negative quantities: %+v", bundle)
			}
			cost := bundle.Cost(tt.prices)
			if math.Abs(cost-tt.budget) > constants.BudgetTolerance*tt.budget {
				t.Errorf("Maximize() expenditure = %v, want %v within relative tolerance", cost, tt.budget)
			}
		})
	}
}

func TestMaximizeExpenditureShares(t *testing.T) {
	// Cobb-Douglas optimum spends share alpha on consumption and 1-alpha on
	// housing regardless of the budget level.
	alphas := []float64{0.1, 0.3, 0.5, 0.7, 0.9}
	budgets := []float64{1, 100, 12345.6}
	prices := Prices{Consumption: 1.7, Housing: 4.2}

	for _, alpha := range alphas {
		for _, budget := range budgets {
			bundle, err := Maximize(Preferences{Alpha: alpha}, prices, budget)
			if err != nil {
				t.Fatalf("Maximize(alpha=%v, budget=%v) unexpected error = %v", alpha, budget, err)
			}
			consumptionShare := prices.Consumption * bundle.Consumption / budget
			housingShare := prices.Housing * bundle.Housing / budget
			if math.Abs(consumptionShare-alpha) > 1e-9 {
				t.Errorf("consumption share = %v, want %v (alpha=%v, budget=%v)", consumptionShare, alpha, alpha, budget)
			}
			if math.Abs(housingShare-(1-alpha)) > 1e-9 {
				t.Errorf("housing share = %v, want %v (alpha=%v, budget=%v)", housingShare, 1-alpha, alpha, budget)
			}
		}
	}
}

func TestMaximizeHomogeneousInBudget(t *testing.T) {
	prefs := Preferences{Alpha: 0.4}
	prices := Prices{Consumption: 2, Housing: 5}

	base, err := Maximize(prefs, prices, 80)
	if err != nil {
		t.Fatalf("Maximize() unexpected error = %v", err)
	}

	for _, k := range []float64{0.5, 2, 10} {
		scaled, err := Maximize(prefs, prices, 80*k)
		if err != nil {
			t.Fatalf("Maximize() unexpected error = %v", err)
		}
		if math.Abs(scaled.Consumption-k*base.Consumption) > 1e-9*k*base.Consumption {
			t.Errorf("scaling budget by %v: consumption = %v, want %v", k, scaled.Consumption, k*base.Consumption)
		}
		if math.Abs(scaled.Housing-k*base.Housing) > 1e-9*k*base.Housing {
			t.Errorf("scaling budget by %v: housing = %v, want %v", k, scaled.Housing, k*base.Housing)
		}
	}
}

func TestMaximizeOwnPriceMonotonicity(t *testing.T) {
	prefs := Preferences{Alpha: 0.5}
	previous := math.Inf(1)
	for _, price := range []float64{0.5, 1, 2, 4, 8} {
		bundle, err := Maximize(prefs, Prices{Consumption: 1, Housing: price}, 100)
		if err != nil {
			t.Fatalf("Maximize() unexpected error = %v", err)
		}
		if bundle.Housing > previous {
			t.Errorf("housing quantity increased from %v to %v when its price rose to %v", previous, bundle.Housing, price)
		}
		previous = bundle.Housing
	}
}

func TestMaximizeConcreteScenario(t *testing.T) {
	bundle, err := Maximize(Preferences{Alpha: 0.5}, Prices{Consumption: 1, Housing: 2}, 100)
	if err != nil {
		t.Fatalf("Maximize() unexpected error = %v", err)
	}
	if math.Abs(bundle.Consumption-50) > 1e-9 {
		t.Errorf("consumption = %v, want 50", bundle.Consumption)
	}
	if math.Abs(bundle.Housing-25) > 1e-9 {
		t.Errorf("housing = %v, want 25", bundle.Housing)
	}
}

func TestMaximizeInvalidInputs(t *testing.T) {
	tests := []struct {
		name   string
		alpha  float64
		prices Prices
		budget float64
		field  string
	}{
		{"Negative budget", 0.5, Prices{Consumption: 1, Housing: 2}, -10, "budget"},
		{"Zero budget", 0.5, Prices{Consumption: 1, Housing: 2}, 0, "budget"},
		{"Zero consumption price", 0.5, Prices{Consumption: 0, Housing: 2}, 100, "prices.consumption"},
		{"Negative housing price", 0.5, Prices{Consumption: 1, Housing: -2}, 100, "prices.housing"},
		{"Alpha at zero", 0, Prices{Consumption: 1, Housing: 2}, 100, "preferences.alpha"},
		{"Alpha at one", 1, Prices{Consumption: 1, Housing: 2}, 100, "preferences.alpha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Maximize(Preferences{Alpha: tt.alpha}, tt.prices, tt.budget)
			var invalid InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("Maximize() error = %v, want InvalidInputError", err)
			}
			if invalid.Field != tt.field {
				t.Errorf("InvalidInputError.Field = %s, want %s", invalid.Field, tt.field)
			}
		})
	}
}

func TestMaximizeUtilityMatchesClosedForm(t *testing.T) {
	prices := Prices{Consumption: 1, Housing: 2}
	budget := 100.0

	closed, err := Maximize(Preferences{Alpha: 0.5}, prices, budget)
	if err != nil {
		t.Fatalf("Maximize() unexpected error = %v", err)
	}

	numeric, err := MaximizeUtility(zap.NewNop(), CobbDouglas(0.5), prices, budget, optimization.Options{})
	if err != nil {
		t.Fatalf("MaximizeUtility() unexpected error = %v", err)
	}

	if math.Abs(numeric.Consumption-closed.Consumption) > 1e-3 {
		t.Errorf("numeric consumption = %v, closed form = %v", numeric.Consumption, closed.Consumption)
	}
	if math.Abs(numeric.Housing-closed.Housing) > 1e-3 {
		t.Errorf("numeric housing = %v, closed form = %v", numeric.Housing, closed.Housing)
	}
	cost := numeric.Cost(prices)
	if cost > budget*(1+1e-6) {
		t.Errorf("numeric expenditure %v exceeds budget %v", cost, budget)
	}
}

func TestMaximizeUtilityConvergenceError(t *testing.T) {
	opts := optimization.Options{Tolerance: 1e-12, MaxIterations: 3}
	_, err := MaximizeUtility(zap.NewNop(), CobbDouglas(0.5), Prices{Consumption: 1, Housing: 2}, 100, opts)
	var convErr optimization.ConvergenceError
	if !errors.As(err, &convErr) {
		t.Fatalf("MaximizeUtility() error = %v, want ConvergenceError", err)
	}
	if convErr.Iterations != 3 {
		t.Errorf("ConvergenceError.Iterations = %d, want 3", convErr.Iterations)
	}
}

func TestMaximizeUtilityNilFunction(t *testing.T) {
	_, err := MaximizeUtility(zap.NewNop(), nil, Prices{Consumption: 1, Housing: 2}, 100, optimization.Options{})
	if err == nil {
		t.Fatal("MaximizeUtility(nil) expected error but got none")
	}
}

func TestMaximizeUtilityNilLogger(t *testing.T) {
	// A nil logger falls back to a nop logger rather than panicking.
	bundle, err := MaximizeUtility(nil, CobbDouglas(0.5), Prices{Consumption: 1, Housing: 2}, 100, optimization.Options{})
	if err != nil {
		t.Fatalf("MaximizeUtility() with nil logger unexpected error = %v", err)
	}
	if math.Abs(bundle.Housing-25) > 1e-3 {
		t.Errorf("housing = %v, want 25", bundle.Housing)
	}
}

func TestSweepAscendingGrid(t *testing.T) {
	seq, err := Sweep(Preferences{Alpha: 0.5}, GridSpec{Min: 1, Max: 5, Points: 9}, 1, 100)
	if err != nil {
		t.Fatalf("Sweep() unexpected error = %v", err)
	}

	var prices []float64
	for price, bundle := range seq {
		prices = append(prices, price)
		expected := 0.5 * 100 / price
		if math.Abs(bundle.Housing-expected) > 1e-9 {
			t.Errorf("sweep at price %v: housing = %v, want %v", price, bundle.Housing, expected)
		}
	}

	if len(prices) != 9 {
		t.Fatalf("sweep yielded %d points, want 9", len(prices))
	}
	for i := 1; i < len(prices); i++ {
		if prices[i] <= prices[i-1] {
			t.Errorf("sweep prices not strictly ascending: %v", prices)
		}
	}
}

func TestSweepRestartable(t *testing.T) {
	seq, err := Sweep(Preferences{Alpha: 0.3}, GridSpec{Min: 2, Max: 4, Points: 5}, 1, 60)
	if err != nil {
		t.Fatalf("Sweep() unexpected error = %v", err)
	}

	collect := func() []Bundle {
		var bundles []Bundle
		for _, b := range seq {
			bundles = append(bundles, b)
		}
		return bundles
	}

	first := collect()
	second := collect()
	if len(first) != len(second) {
		t.Fatalf("restarted sweep yielded %d points, first pass yielded %d", len(second), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("restarted sweep diverged at point %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSweepEarlyStop(t *testing.T) {
	seq, err := Sweep(Preferences{Alpha: 0.5}, GridSpec{Min: 1, Max: 10, Points: 100}, 1, 100)
	if err != nil {
		t.Fatalf("Sweep() unexpected error = %v", err)
	}

	count := 0
	for range seq {
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Errorf("sweep continued after break, yielded %d points", count)
	}
}

func TestSweepInvalidInputs(t *testing.T) {
	tests := []struct {
		name             string
		grid             GridSpec
		consumptionPrice float64
		budget           float64
	}{
		{"Zero grid points", GridSpec{Min: 1, Max: 2, Points: 0}, 1, 100},
		{"Non-positive grid minimum", GridSpec{Min: 0, Max: 2, Points: 5}, 1, 100},
		{"Descending grid", GridSpec{Min: 3, Max: 2, Points: 5}, 1, 100},
		{"Invalid fixed price", GridSpec{Min: 1, Max: 2, Points: 5}, -1, 100},
		{"Invalid budget", GridSpec{Min: 1, Max: 2, Points: 5}, 1, -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Sweep(Preferences{Alpha: 0.5}, tt.grid, tt.consumptionPrice, tt.budget)
			var invalid InvalidInputError
			if !errors.As(err, &invalid) {
				t.Errorf("Sweep() error = %v, want InvalidInputError", err)
			}
		})
	}
}

func TestGridSpecValues(t *testing.T) {
	tests := []struct {
		name     string
		grid     GridSpec
		expected []float64
	}{
		{"Single point", GridSpec{Min: 2, Max: 5, Points: 1}, []float64{2}},
		{"Two points", GridSpec{Min: 1, Max: 3, Points: 2}, []float64{1, 3}},
		{"Five points", GridSpec{Min: 0, Max: 1, Points: 5}, []float64{0, 0.25, 0.5, 0.75, 1}},
		{"Zero points", GridSpec{Min: 0, Max: 1, Points: 0}, nil},
		{"Negative points", GridSpec{Min: 0, Max: 1, Points: -3}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := tt.grid.Values()
			if len(values) != len(tt.expected) {
				t.Fatalf("Values() returned %d points, want %d", len(values), len(tt.expected))
			}
			for i := range values {
				if math.Abs(values[i]-tt.expected[i]) > 1e-12 {
					t.Errorf("Values()[%d] = %v, want %v", i, values[i], tt.expected[i])
				}
			}
		})
	}
}
