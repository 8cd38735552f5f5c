// Package output provides utilities for formatting and displaying model results.
package output

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/AskerNC/projects-2021-concatenaters/internal/housing"
	"github.com/AskerNC/projects-2021-concatenaters/internal/solver"
	"github.com/AskerNC/projects-2021-concatenaters/pkg/constants"
)

// ValidateFormat rejects any output format this package cannot render.
func ValidateFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV:
		return nil
	default:
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
}

// SweepPoint pairs one grid value of the housing price with the optimal
// bundle at that price.
type SweepPoint struct {
	HousingPrice float64 `json:"housingPrice"`
	Bundle       solver.Bundle
}

// PrettyBundle outputs a single optimal bundle in human-readable form.
func PrettyBundle(bundle solver.Bundle, prices solver.Prices, budget float64) {
	p := message.NewPrinter(language.English)
	fmt.Printf("--- Optimal bundle ---\n")
	_, _ = p.Printf("consumption: %.4f (spend %.4f)\n", bundle.Consumption, prices.Consumption*bundle.Consumption)
	_, _ = p.Printf("housing:     %.4f (spend %.4f)\n", bundle.Housing, prices.Housing*bundle.Housing)
	_, _ = p.Printf("budget:      %.4f\n", budget)
}

// CsvBundle outputs a single optimal bundle in comma-separated value format.
func CsvBundle(bundle solver.Bundle, prices solver.Prices, budget float64) {
	fmt.Printf("\"consumption\",\"housing\",\"budget\"\n")
	fmt.Printf("\"%.6f\",\"%.6f\",\"%.6f\"\n", bundle.Consumption, bundle.Housing, budget)
}

// PrettySweep outputs a human-readable rather than machine-readable table of
// the price response curve.
func PrettySweep(points []SweepPoint) {
	p := message.NewPrinter(language.English)
	fmt.Printf("--- Housing price sweep ---\n")
	fmt.Printf("Price    | Consumption | Housing\n")
	fmt.Printf("_____    | ___________ | _______\n")
	for _, point := range points {
		_, _ = p.Printf("%.4f | %.4f | %.4f\n", point.HousingPrice, point.Bundle.Consumption, point.Bundle.Housing)
	}
}

// CsvSweep outputs the price response curve in comma-separated value format.
func CsvSweep(points []SweepPoint) {
	fmt.Printf("\"housing price\",\"consumption\",\"housing\"\n")
	for _, point := range points {
		fmt.Printf("\"%.6f\",\"%.6f\",\"%.6f\"\n", point.HousingPrice, point.Bundle.Consumption, point.Bundle.Housing)
	}
}

// PrettyChoice outputs the housing-tax model solution the way the coursework
// sheet presents it: house value, consumption, ownership cost, utility.
func PrettyChoice(choice housing.Choice, policy housing.TaxPolicy) {
	p := message.NewPrinter(language.English)
	fmt.Printf("--- Housing choice ---\n")
	_, _ = p.Printf("optimal house value:   h = %.4f\n", choice.Housing)
	_, _ = p.Printf("optimal consumption:   c = %.4f\n", choice.Consumption)
	_, _ = p.Printf("spent on housing:    tau = %.4f\n", policy.TotalCost(choice.Housing))
	_, _ = p.Printf("maximum utility:       u = %.4f\n", choice.Utility)
}

// CsvChoice outputs the housing-tax model solution in comma-separated value format.
func CsvChoice(choice housing.Choice, policy housing.TaxPolicy) {
	fmt.Printf("\"house value\",\"consumption\",\"ownership cost\",\"utility\"\n")
	fmt.Printf("\"%.6f\",\"%.6f\",\"%.6f\",\"%.6f\"\n",
		choice.Housing, choice.Consumption, policy.TotalCost(choice.Housing), choice.Utility)
}

// PrettyTransition outputs a population transition path alongside the steady state.
func PrettyTransition(steadyState float64, path []float64) {
	p := message.NewPrinter(language.English)
	fmt.Printf("--- Malthus transition (steady state %.4f) ---\n", steadyState)
	fmt.Printf("Period | Population\n")
	fmt.Printf("______ | __________\n")
	for t, level := range path {
		_, _ = p.Printf("%6d | %.4f\n", t, level)
	}
}

// CsvTransition outputs a population transition path in comma-separated value format.
func CsvTransition(steadyState float64, path []float64) {
	fmt.Printf("\"period\",\"population\",\"steady state\"\n")
	for t, level := range path {
		fmt.Printf("\"%d\",\"%.6f\",\"%.6f\"\n", t, level, steadyState)
	}
}
