// Command auspex-eval runs the labeled-case evaluation harness against the
// configured extraction engine and prints an accuracy report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/auspex/internal/app"
	"github.com/ternarybob/auspex/internal/common"
	"github.com/ternarybob/auspex/internal/evaluation"
)

type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	casesPath   = flag.String("cases", "", "Labeled test cases file, JSON or YAML (overrides config)")
	reportPath  = flag.String("report", "", "Tricky-cases markdown output path (overrides config)")
	engineName  = flag.String("engine", "", "Extraction engine: deterministic or llm (overrides config)")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if len(configFiles) == 0 {
		if _, err := os.Stat("auspex.toml"); err == nil {
			configFiles = append(configFiles, "auspex.toml")
		} else if _, err := os.Stat("deployments/local/auspex.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/auspex.toml")
		}
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration files")
		os.Exit(1)
	}

	if *engineName != "" {
		config.Parser.Engine = *engineName
	}
	if *casesPath != "" {
		config.Evaluation.CasesPath = *casesPath
	}
	if *reportPath != "" {
		config.Evaluation.ReportPath = *reportPath
	}

	logger := common.SetupLogger(config)

	application, err := app.New(config)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	verifyCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := application.VerifyEngine(verifyCtx); err != nil {
		cancel()
		logger.Fatal().Err(err).Msg("Engine verification failed")
	}
	cancel()

	cases, err := evaluation.LoadCases(config.Evaluation.CasesPath)
	if err != nil {
		logger.Fatal().Str("path", config.Evaluation.CasesPath).Err(err).Msg("Failed to load test cases")
	}

	logger.Info().
		Str("engine", config.Parser.Engine).
		Str("cases", config.Evaluation.CasesPath).
		Int("count", len(cases)).
		Msg("Running evaluation")

	evaluator := evaluation.NewEvaluator(application.Engine)
	report := evaluator.Run(context.Background(), cases)

	fmt.Print(report.Summary())

	if config.Evaluation.ReportPath != "" {
		if err := report.WriteTrickyCases(config.Evaluation.ReportPath); err != nil {
			logger.Error().Str("path", config.Evaluation.ReportPath).Err(err).Msg("Failed to write tricky cases report")
		} else {
			logger.Info().
				Str("path", config.Evaluation.ReportPath).
				Int("cases", len(report.TrickyCases)).
				Msg("Tricky cases report written")
		}
	}

	if rate := report.NumericExactRate(); rate < config.Evaluation.MinNumericExactRate {
		logger.Warn().
			Float64("rate", rate).
			Float64("threshold", config.Evaluation.MinNumericExactRate).
			Msg("Numeric exact-match rate below threshold")
	}

	if err := report.CheckSentimentGate(config.Evaluation.MinSpearman); err != nil {
		logger.Error().Err(err).Msg("Sentiment correlation gate failed")
		os.Exit(1)
	}

	logger.Info().
		Float64("macro_accuracy", report.MacroAccuracy).
		Int("failures", report.FailCount).
		Msg("Evaluation complete")
}
