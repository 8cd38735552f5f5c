// Package constants provides shared constants for the econ-models application.
package constants

// Numerical solver defaults
const (
	// DefaultTolerance is the convergence tolerance for bounded scalar optimization
	DefaultTolerance = 1e-6

	// DefaultMaxIterations is the iteration budget for bounded scalar optimization
	DefaultMaxIterations = 1000

	// RateFinderTolerance is the tighter tolerance used when solving for tax rates
	RateFinderTolerance = 1e-9

	// BudgetTolerance is the relative tolerance for budget-constraint checks
	BudgetTolerance = 1e-6
)

// Rounding constants
const (
	// DecimalPrecision is the precision for display rounding (4 decimal places)
	DecimalPrecision = 10000
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"
)
