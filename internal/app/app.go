// Package app wires configuration, logging, the prediction engine, and the
// HTTP handlers into a runnable application.
package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/auspex/internal/common"
	"github.com/ternarybob/auspex/internal/handlers"
	"github.com/ternarybob/auspex/internal/interfaces"
	"github.com/ternarybob/auspex/internal/parser"
	"github.com/ternarybob/auspex/internal/services/llm"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Prediction engine serving /parse_prediction
	Engine interfaces.PredictionParser

	// Provider client backing the engine when [parser] engine = "llm"
	LLMService interfaces.LLMService

	// HTTP handlers
	ParseHandler *handlers.ParseHandler
	APIHandler   *handlers.APIHandler
}

// New builds the application from a loaded configuration: logger first,
// then the configured engine, then the handlers.
func New(config *common.Config) (*App, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := common.SetupLogger(config)

	a := &App{
		Config: config,
		Logger: logger,
	}

	engine, err := a.buildEngine()
	if err != nil {
		return nil, err
	}
	a.Engine = engine

	a.ParseHandler = handlers.NewParseHandler(a.Engine, logger)
	a.APIHandler = handlers.NewAPIHandler()

	logger.Info().
		Str("engine", config.Parser.Engine).
		Str("environment", config.Environment).
		Msg("Application initialized")

	return a, nil
}

func (a *App) buildEngine() (interfaces.PredictionParser, error) {
	switch a.Config.Parser.Engine {
	case common.EngineDeterministic:
		return parser.New(), nil

	case common.EngineLLM:
		service, err := llm.NewService(a.Config, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize LLM service: %w", err)
		}
		a.LLMService = service
		return llm.NewParser(service, a.Logger), nil

	default:
		return nil, fmt.Errorf("unknown parser engine: %s", a.Config.Parser.Engine)
	}
}

// VerifyEngine confirms the configured engine is ready to serve. The
// deterministic pipeline has no external dependencies; the LLM engine
// requires a reachable provider, verified with a lightweight probe.
func (a *App) VerifyEngine(ctx context.Context) error {
	if a.LLMService == nil {
		return nil
	}
	if err := a.LLMService.HealthCheck(ctx); err != nil {
		return fmt.Errorf("LLM provider health check failed: %w", err)
	}
	a.Logger.Info().Str("engine", a.Config.Parser.Engine).Msg("Engine verified")
	return nil
}

// Close releases application resources.
func (a *App) Close() error {
	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
			return err
		}
	}
	return nil
}
