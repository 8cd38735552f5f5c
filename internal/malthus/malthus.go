// Package malthus simulates the Malthusian growth model in which output is
// produced from land and labor, births scale with output, and land is fixed,
// so population converges to a stationary level.
package malthus

import (
	"math"

	"go.uber.org/zap"

	"github.com/AskerNC/projects-2021-concatenaters/internal/solver"
	"github.com/AskerNC/projects-2021-concatenaters/pkg/mathutil"
)

// Params holds the model parameters. Output is Y = (A*X)^alpha * L^(1-alpha),
// births are Eta*Y, and a share Mu of the population dies each period.
type Params struct {
	Technology float64 `yaml:"technology,omitempty" mapstructure:"technology"`
	Land       float64 `yaml:"land,omitempty" mapstructure:"land"`
	Alpha      float64 `yaml:"alpha,omitempty" mapstructure:"alpha"`
	Eta        float64 `yaml:"eta,omitempty" mapstructure:"eta"`
	Mu         float64 `yaml:"mu,omitempty" mapstructure:"mu"`
}

// Validate reports the first parameter outside its valid domain.
func (p Params) Validate() error {
	if p.Technology <= 0 {
		return solver.InvalidInputError{Field: "malthus.technology", Value: p.Technology}
	}
	if p.Land <= 0 {
		return solver.InvalidInputError{Field: "malthus.land", Value: p.Land}
	}
	if p.Alpha <= 0 || p.Alpha >= 1 {
		return solver.InvalidInputError{Field: "malthus.alpha", Value: p.Alpha}
	}
	if p.Eta <= 0 {
		return solver.InvalidInputError{Field: "malthus.eta", Value: p.Eta}
	}
	if p.Mu <= 0 || p.Mu > 1 {
		return solver.InvalidInputError{Field: "malthus.mu", Value: p.Mu}
	}
	return nil
}

// Output returns production for a population level.
func (p Params) Output(population float64) float64 {
	return math.Pow(p.Technology*p.Land, p.Alpha) * math.Pow(population, 1-p.Alpha)
}

// Next applies the law of motion L' = Eta*Y + (1-Mu)*L.
func (p Params) Next(population float64) float64 {
	return p.Eta*p.Output(population) + (1-p.Mu)*population
}

// SteadyState returns the stationary population L* = A*X*(Eta/Mu)^(1/Alpha),
// the fixed point of the law of motion.
func (p Params) SteadyState() float64 {
	return p.Technology * p.Land * math.Pow(p.Eta/p.Mu, 1/p.Alpha)
}

// Transition simulates the population path from an initial level for a fixed
// number of periods. The returned slice has steps+1 entries, starting with
// the initial level.
func (p Params) Transition(logger *zap.Logger, initial float64, steps int) ([]float64, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if initial <= 0 {
		return nil, solver.InvalidInputError{Field: "malthus.initial", Value: initial}
	}
	if steps < 0 {
		return nil, solver.InvalidInputError{Field: "malthus.steps", Value: float64(steps)}
	}

	path := make([]float64, steps+1)
	path[0] = initial
	for t := 1; t <= steps; t++ {
		path[t] = p.Next(path[t-1])
	}

	logger.Debug("simulated population transition",
		zap.String("op", "malthus.Transition"),
		zap.Int("steps", steps),
		zap.Float64("initial", initial),
		zap.Float64("final", path[steps]),
		zap.Float64("steadyState", p.SteadyState()),
	)
	return path, nil
}

// ConvergedBy reports how many periods the population takes to come within
// the relative tolerance of the steady state, capped at maxSteps. The second
// return value is false when the cap is hit first.
func (p Params) ConvergedBy(initial, tolerance float64, maxSteps int) (int, bool) {
	target := p.SteadyState()
	level := initial
	for t := 0; t <= maxSteps; t++ {
		if mathutil.WithinRelativeTolerance(level, target, tolerance) {
			return t, true
		}
		level = p.Next(level)
	}
	return maxSteps, false
}
