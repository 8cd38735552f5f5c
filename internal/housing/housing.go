// Package housing models a consumer choosing between general consumption and
// housing quality when owning a house carries interest and property taxes.
// The tax schedule has a flat component on the public assessment value and a
// progressive component above a cutoff.
package housing

import (
	"math"

	"go.uber.org/zap"

	"github.com/AskerNC/projects-2021-concatenaters/internal/solver"
	"github.com/AskerNC/projects-2021-concatenaters/pkg/constants"
	"github.com/AskerNC/projects-2021-concatenaters/pkg/mathutil"
	"github.com/AskerNC/projects-2021-concatenaters/pkg/optimization"
)

// TaxPolicy holds the parameters of the housing-tax schedule.
type TaxPolicy struct {
	InterestRate      float64 `yaml:"interestRate,omitempty" mapstructure:"interestRate"`
	GeneralRate       float64 `yaml:"generalRate,omitempty" mapstructure:"generalRate"`
	ProgressiveRate   float64 `yaml:"progressiveRate,omitempty" mapstructure:"progressiveRate"`
	AssessmentFactor  float64 `yaml:"assessmentFactor,omitempty" mapstructure:"assessmentFactor"`
	ProgressiveCutoff float64 `yaml:"progressiveCutoff,omitempty" mapstructure:"progressiveCutoff"`
}

// DefaultTaxPolicy returns the baseline policy parameters.
func DefaultTaxPolicy() TaxPolicy {
	return TaxPolicy{
		InterestRate:      0.03,
		GeneralRate:       0.012,
		ProgressiveRate:   0.004,
		AssessmentFactor:  0.5,
		ProgressiveCutoff: 3,
	}
}

// Validate reports the first policy parameter outside its valid domain.
func (p TaxPolicy) Validate() error {
	if p.InterestRate <= 0 {
		return solver.InvalidInputError{Field: "policy.interestRate", Value: p.InterestRate}
	}
	if p.GeneralRate < 0 {
		return solver.InvalidInputError{Field: "policy.generalRate", Value: p.GeneralRate}
	}
	if p.ProgressiveRate < 0 {
		return solver.InvalidInputError{Field: "policy.progressiveRate", Value: p.ProgressiveRate}
	}
	if p.AssessmentFactor <= 0 {
		return solver.InvalidInputError{Field: "policy.assessmentFactor", Value: p.AssessmentFactor}
	}
	if p.ProgressiveCutoff < 0 {
		return solver.InvalidInputError{Field: "policy.progressiveCutoff", Value: p.ProgressiveCutoff}
	}
	return nil
}

// AssessmentValue returns the public assessment value of a house.
func (p TaxPolicy) AssessmentValue(price float64) float64 {
	return p.AssessmentFactor * price
}

// PropertyTax returns the annual property tax due on a house, the flat
// component plus the progressive component above the cutoff.
func (p TaxPolicy) PropertyTax(price float64) float64 {
	assessed := p.AssessmentValue(price)
	return p.GeneralRate*assessed + p.ProgressiveRate*math.Max(assessed-p.ProgressiveCutoff, 0)
}

// TotalCost returns the full annual cost of owning a house: mortgage interest
// plus property taxes.
func (p TaxPolicy) TotalCost(price float64) float64 {
	return p.InterestRate*price + p.PropertyTax(price)
}

// HousePrice inverts TotalCost, returning the house price whose ownership
// cost equals the given amount. Used to bound the housing search at the
// price that would consume the entire budget.
func (p TaxPolicy) HousePrice(cost float64) float64 {
	// Above the cutoff the progressive component is active and the inverse
	// picks up the cutoff rebate term.
	if cost > p.TotalCost(p.ProgressiveCutoff/p.AssessmentFactor) {
		return (cost + p.ProgressiveCutoff*p.ProgressiveRate) /
			(p.InterestRate + p.AssessmentFactor*(p.GeneralRate+p.ProgressiveRate))
	}
	return cost / (p.InterestRate + p.GeneralRate*p.AssessmentFactor)
}

// Choice is an optimal consumption/housing decision together with the
// utility it yields.
type Choice struct {
	Consumption float64 `json:"consumption"`
	Housing     float64 `json:"housing"`
	Utility     float64 `json:"utility"`
}

// Utility evaluates U = c^(1-phi) * h^phi.
func Utility(c, h, phi float64) float64 {
	return math.Pow(c, 1-phi) * math.Pow(h, phi)
}

// Maximize finds the housing quality that maximizes utility when consumption
// absorbs whatever cash remains after ownership costs. phi is the housing
// preference weight and cashOnHand the total budget.
func Maximize(logger *zap.Logger, phi, cashOnHand float64, policy TaxPolicy, opts optimization.Options) (Choice, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if phi <= 0 || phi >= 1 {
		return Choice{}, solver.InvalidInputError{Field: "phi", Value: phi}
	}
	if cashOnHand <= 0 {
		return Choice{}, solver.InvalidInputError{Field: "cashOnHand", Value: cashOnHand}
	}
	if err := policy.Validate(); err != nil {
		return Choice{}, err
	}

	objective := func(h float64) float64 {
		c := cashOnHand - policy.TotalCost(h)
		if c < 0 {
			c = 0
		}
		return -Utility(c, h, phi)
	}

	result, err := optimization.MinimizeScalar(objective, 0, policy.HousePrice(cashOnHand), opts)
	if err != nil {
		return Choice{}, err
	}

	h := result.X
	c := cashOnHand - policy.TotalCost(h)
	logger.Debug("solved housing choice",
		zap.String("op", "housing.Maximize"),
		zap.Int("iterations", result.Iterations),
		zap.Float64("housing", h),
		zap.Float64("consumption", c),
	)
	return Choice{Consumption: c, Housing: h, Utility: Utility(c, h, phi)}, nil
}

// AverageTax returns the mean property tax paid across a population of
// budgets when every household chooses its optimal housing under the policy.
func AverageTax(logger *zap.Logger, phi float64, budgets []float64, policy TaxPolicy, opts optimization.Options) (float64, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(budgets) == 0 {
		return 0, solver.InvalidInputError{Field: "budgets.len", Value: 0}
	}
	taxes := make([]float64, len(budgets))
	for i, m := range budgets {
		choice, err := Maximize(logger, phi, m, policy, opts)
		if err != nil {
			return 0, err
		}
		taxes[i] = policy.PropertyTax(choice.Housing)
	}
	avg := mathutil.Mean(taxes)
	logger.Debug("computed average property tax",
		zap.String("op", "housing.AverageTax"),
		zap.Int("households", len(budgets)),
		zap.Float64("averageTax", avg),
	)
	return avg, nil
}

// GeneralRateFor solves for the general tax rate that keeps the population's
// average tax at the given target under the (possibly reformed) policy. The
// search runs over rates in [0, 1] with a tight tolerance so the resulting
// rate is precise enough for revenue-neutrality comparisons.
func GeneralRateFor(logger *zap.Logger, phi float64, budgets []float64, target float64, policy TaxPolicy, opts optimization.Options) (float64, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if target < 0 {
		return 0, solver.InvalidInputError{Field: "target", Value: target}
	}
	if len(budgets) == 0 {
		return 0, solver.InvalidInputError{Field: "budgets.len", Value: 0}
	}
	if err := policy.Validate(); err != nil {
		return 0, err
	}

	// Inner evaluations run with a nop logger; one rate search triggers
	// thousands of household maximizations.
	var evalErr error
	objective := func(rate float64) float64 {
		candidate := policy
		candidate.GeneralRate = rate
		avg, err := AverageTax(zap.NewNop(), phi, budgets, candidate, opts)
		if err != nil {
			evalErr = err
			return math.Inf(1)
		}
		return math.Abs(target - avg)
	}

	rateOpts := optimization.Options{
		Tolerance:     constants.RateFinderTolerance,
		MaxIterations: opts.MaxIterations,
	}
	rateOpts.Normalize()

	result, err := optimization.MinimizeScalar(objective, 0, 1, rateOpts)
	if evalErr != nil {
		return 0, evalErr
	}
	if err != nil {
		return 0, err
	}

	logger.Debug("solved for general tax rate",
		zap.String("op", "housing.GeneralRateFor"),
		zap.Int("iterations", result.Iterations),
		zap.Float64("target", target),
		zap.Float64("generalRate", result.X),
	)
	return result.X, nil
}
