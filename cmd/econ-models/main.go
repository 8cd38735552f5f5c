package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AskerNC/projects-2021-concatenaters/internal/config"
	"github.com/AskerNC/projects-2021-concatenaters/internal/housing"
	"github.com/AskerNC/projects-2021-concatenaters/internal/solver"
	"github.com/AskerNC/projects-2021-concatenaters/pkg/constants"
	"github.com/AskerNC/projects-2021-concatenaters/pkg/output"
)

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info" // Default to info level
	}

	// Parse log level
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	// Determine output format
	format := loggingConfig.Format
	if format == "" {
		format = "json" // Default to JSON for production
	}

	// Configure encoder
	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		// Ensure the directory exists
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Load any .env file before viper reads the environment.
	_ = godotenv.Load()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	// Initialize logging based on config and CLI override
	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty // Default to pretty format
	}

	err = output.ValidateFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	if conf.Consumer != nil {
		runConsumer(logger, conf, outputFormat)
	}
	if conf.Housing != nil {
		runHousing(logger, conf, outputFormat)
	}
	if conf.Malthus != nil {
		runMalthus(logger, conf, outputFormat)
	}
}

// runConsumer solves the two-good utility maximization and, when configured,
// sweeps the housing price grid.
func runConsumer(logger *zap.Logger, conf *config.Configuration, outputFormat string) {
	consumer := conf.Consumer
	prefs := solver.Preferences{Alpha: consumer.Alpha}

	bundle, err := solver.Maximize(prefs, consumer.Prices, consumer.Budget)
	if err != nil {
		logger.Fatal("failed to solve consumer problem",
			zap.String("op", "main.runConsumer"),
			zap.Error(err),
		)
	}
	logger.Debug("solved consumer problem",
		zap.String("op", "main.runConsumer"),
		zap.Float64("consumption", bundle.Consumption),
		zap.Float64("housing", bundle.Housing),
	)

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyBundle(bundle, consumer.Prices, consumer.Budget)
	case constants.OutputFormatCSV:
		output.CsvBundle(bundle, consumer.Prices, consumer.Budget)
	}

	if consumer.Sweep == nil {
		return
	}

	seq, err := solver.Sweep(prefs, *consumer.Sweep, consumer.Prices.Consumption, consumer.Budget)
	if err != nil {
		logger.Fatal("failed to set up housing price sweep",
			zap.String("op", "main.runConsumer"),
			zap.Error(err),
		)
	}
	var points []output.SweepPoint
	for price, b := range seq {
		points = append(points, output.SweepPoint{HousingPrice: price, Bundle: b})
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettySweep(points)
	case constants.OutputFormatCSV:
		output.CsvSweep(points)
	}
}

// runHousing solves the housing-tax model and, when configured, the
// revenue-neutral general rate under a reformed policy.
func runHousing(logger *zap.Logger, conf *config.Configuration, outputFormat string) {
	section := conf.Housing
	policy := *section.Policy

	choice, err := housing.Maximize(logger, section.Phi, section.CashOnHand, policy, conf.Solver)
	if err != nil {
		logger.Fatal("failed to solve housing choice",
			zap.String("op", "main.runHousing"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyChoice(choice, policy)
	case constants.OutputFormatCSV:
		output.CsvChoice(choice, policy)
	}

	if len(section.Budgets) == 0 {
		return
	}

	avg, err := housing.AverageTax(logger, section.Phi, section.Budgets, policy, conf.Solver)
	if err != nil {
		logger.Fatal("failed to compute average tax",
			zap.String("op", "main.runHousing"),
			zap.Error(err),
		)
	}
	logger.Info("average property tax across budgets",
		zap.String("op", "main.runHousing"),
		zap.Int("households", len(section.Budgets)),
		zap.Float64("averageTax", avg),
	)

	if section.AverageTaxTarget == nil || section.Reform == nil {
		return
	}

	rate, err := housing.GeneralRateFor(logger, section.Phi, section.Budgets, *section.AverageTaxTarget, *section.Reform, conf.Solver)
	if err != nil {
		logger.Fatal("failed to solve for revenue-neutral general rate",
			zap.String("op", "main.runHousing"),
			zap.Error(err),
		)
	}
	logger.Info("revenue-neutral general tax rate under reform",
		zap.String("op", "main.runHousing"),
		zap.Float64("target", *section.AverageTaxTarget),
		zap.Float64("generalRate", rate),
	)
}

// runMalthus simulates the growth model transition path.
func runMalthus(logger *zap.Logger, conf *config.Configuration, outputFormat string) {
	section := conf.Malthus

	if err := section.Params.Validate(); err != nil {
		logger.Fatal("invalid Malthus parameters",
			zap.String("op", "main.runMalthus"),
			zap.Error(err),
		)
	}

	steadyState := section.Params.SteadyState()
	path, err := section.Params.Transition(logger, section.InitialShare*steadyState, section.Steps)
	if err != nil {
		logger.Fatal("failed to simulate population transition",
			zap.String("op", "main.runMalthus"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyTransition(steadyState, path)
	case constants.OutputFormatCSV:
		output.CsvTransition(steadyState, path)
	}
}
