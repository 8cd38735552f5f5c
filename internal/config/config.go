// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/AskerNC/projects-2021-concatenaters/internal/housing"
	"github.com/AskerNC/projects-2021-concatenaters/internal/malthus"
	"github.com/AskerNC/projects-2021-concatenaters/internal/solver"
	"github.com/AskerNC/projects-2021-concatenaters/pkg/optimization"
)

// Configuration holds all configuration for econ-models. Model sections are
// pointers so an absent section skips that model entirely.
type Configuration struct {
	Logging  LoggingConfig        `yaml:"logging,omitempty" mapstructure:"logging"`
	Output   OutputConfig         `yaml:"output,omitempty" mapstructure:"output"`
	Solver   optimization.Options `yaml:"solver,omitempty" mapstructure:"solver"`
	Consumer *ConsumerConfig      `yaml:"consumer,omitempty" mapstructure:"consumer"`
	Housing  *HousingConfig       `yaml:"housing,omitempty" mapstructure:"housing"`
	Malthus  *MalthusConfig       `yaml:"malthus,omitempty" mapstructure:"malthus"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv
}

// ConsumerConfig parameterizes the two-good utility maximization and the
// optional housing-price sweep.
type ConsumerConfig struct {
	Alpha  float64          `yaml:"alpha,omitempty" mapstructure:"alpha"`
	Prices solver.Prices    `yaml:"prices,omitempty" mapstructure:"prices"`
	Budget float64          `yaml:"budget,omitempty" mapstructure:"budget"`
	Sweep  *solver.GridSpec `yaml:"sweep,omitempty" mapstructure:"sweep"`
}

// HousingConfig parameterizes the housing-tax model. Policy defaults to the
// baseline tax schedule when omitted. Budgets and AverageTaxTarget drive the
// optional revenue-neutral rate search under the Reform policy.
type HousingConfig struct {
	Phi              float64            `yaml:"phi,omitempty" mapstructure:"phi"`
	CashOnHand       float64            `yaml:"cashOnHand,omitempty" mapstructure:"cashOnHand"`
	Policy           *housing.TaxPolicy `yaml:"policy,omitempty" mapstructure:"policy"`
	Budgets          []float64          `yaml:"budgets,omitempty" mapstructure:"budgets"`
	AverageTaxTarget *float64           `yaml:"averageTaxTarget,omitempty" mapstructure:"averageTaxTarget"`
	Reform           *housing.TaxPolicy `yaml:"reform,omitempty" mapstructure:"reform"`
}

// MalthusConfig parameterizes the growth model simulation. InitialShare is
// the starting population as a share of the steady state.
type MalthusConfig struct {
	Params       malthus.Params `yaml:"params,omitempty" mapstructure:"params"`
	InitialShare float64        `yaml:"initialShare,omitempty" mapstructure:"initialShare"`
	Steps        int            `yaml:"steps,omitempty" mapstructure:"steps"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.ApplyDefaults()

	return &configuration, nil
}

// ApplyDefaults fills in solver defaults and the baseline tax policy where
// the config is silent.
func (c *Configuration) ApplyDefaults() {
	c.Solver.Normalize()
	if c.Housing != nil && c.Housing.Policy == nil {
		policy := housing.DefaultTaxPolicy()
		c.Housing.Policy = &policy
	}
	if c.Malthus != nil {
		if c.Malthus.InitialShare <= 0 {
			c.Malthus.InitialShare = 0.5
		}
		if c.Malthus.Steps <= 0 {
			c.Malthus.Steps = 50
		}
	}
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Hard errors surface later from the models themselves.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Consumer == nil && c.Housing == nil && c.Malthus == nil {
		warnings = append(warnings, "no model sections configured; nothing will be computed")
	}

	if c.Consumer != nil {
		if c.Consumer.Sweep != nil && c.Consumer.Sweep.Points == 1 {
			warnings = append(warnings, "consumer sweep has a single grid point; the response curve will be degenerate")
		}
		if c.Consumer.Sweep != nil && c.Consumer.Sweep.Min == c.Consumer.Sweep.Max && c.Consumer.Sweep.Points > 1 {
			warnings = append(warnings, "consumer sweep min equals max; all grid points will coincide")
		}
	}

	if c.Housing != nil {
		if c.Housing.AverageTaxTarget != nil && len(c.Housing.Budgets) == 0 {
			warnings = append(warnings, "housing averageTaxTarget is set but no budgets are configured; the rate search will fail")
		}
		if c.Housing.Reform != nil && c.Housing.AverageTaxTarget == nil {
			warnings = append(warnings, "housing reform policy is set without an averageTaxTarget; the reform will be ignored")
		}
	}

	return warnings
}
