package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Engine names accepted by [parser] engine.
const (
	EngineDeterministic = "deterministic"
	EngineLLM           = "llm"
)

// LLM provider names accepted by [llm] default_provider.
const (
	LLMProviderClaude = "claude"
	LLMProviderGemini = "gemini"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Server      ServerConfig     `toml:"server"`
	Logging     LoggingConfig    `toml:"logging"`
	Parser      ParserConfig     `toml:"parser"`
	Claude      ClaudeConfig     `toml:"claude"`
	Gemini      GeminiConfig     `toml:"gemini"`
	LLM         LLMConfig        `toml:"llm"`
	Evaluation  EvaluationConfig `toml:"evaluation"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs
}

// ParserConfig selects the extraction engine serving /parse_prediction.
type ParserConfig struct {
	Engine string `toml:"engine"` // "deterministic" (default) or "llm"
}

// ClaudeConfig configures the Anthropic provider for the LLM engine.
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Timeout     string  `toml:"timeout"`    // e.g. "2m"
	RateLimit   string  `toml:"rate_limit"` // minimum interval between calls, e.g. "1s"
	Temperature float32 `toml:"temperature"`
}

// GeminiConfig configures the Google provider for the LLM engine.
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Timeout     string  `toml:"timeout"`
	RateLimit   string  `toml:"rate_limit"`
	Temperature float32 `toml:"temperature"`
}

type LLMConfig struct {
	DefaultProvider string `toml:"default_provider"` // "claude" or "gemini"
}

// EvaluationConfig configures the labeled-case harness.
type EvaluationConfig struct {
	CasesPath           string  `toml:"cases_path"`  // JSON or YAML file of {input, expected} cases
	ReportPath          string  `toml:"report_path"` // tricky-cases markdown output
	MinSpearman         float64 `toml:"min_spearman"`
	MinNumericExactRate float64 `toml:"min_numeric_exact_rate"` // warn-only threshold
}

// NewDefaultConfig returns the configuration defaults applied before any
// file, environment, or CLI override.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 3000,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		Parser: ParserConfig{
			Engine: EngineDeterministic,
		},
		Claude: ClaudeConfig{
			APIKey:      "", // User must provide API key (ANTHROPIC_API_KEY or config)
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   8192,
			Timeout:     "2m",
			RateLimit:   "1s",
			Temperature: 0.2,
		},
		Gemini: GeminiConfig{
			APIKey:      "", // User must provide API key (no fallback)
			Model:       "gemini-2.0-flash",
			Timeout:     "2m",
			RateLimit:   "4s", // 15 RPM free tier
			Temperature: 0.2,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderClaude,
		},
		Evaluation: EvaluationConfig{
			CasesPath:           "testcases.json",
			ReportPath:          "tricky_cases.md",
			MinSpearman:         0.60,
			MinNumericExactRate: 0.80,
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier
// files; environment variables override all file configs.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// ApplyFlagOverrides applies command-line flag values on top of the loaded
// configuration. Zero values mean "not set" and are ignored.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("AUSPEX_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("AUSPEX_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	} else if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("AUSPEX_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("AUSPEX_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("AUSPEX_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("AUSPEX_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Parser engine selection
	if engine := os.Getenv("AUSPEX_PARSER_ENGINE"); engine != "" {
		config.Parser.Engine = engine
	}

	// LLM provider credentials
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if key := os.Getenv("AUSPEX_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if model := os.Getenv("AUSPEX_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := os.Getenv("AUSPEX_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if model := os.Getenv("AUSPEX_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if provider := os.Getenv("AUSPEX_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = provider
	}

	// Evaluation harness
	if cases := os.Getenv("AUSPEX_EVAL_CASES"); cases != "" {
		config.Evaluation.CasesPath = cases
	}
	if report := os.Getenv("AUSPEX_EVAL_REPORT"); report != "" {
		config.Evaluation.ReportPath = report
	}
	if min := os.Getenv("AUSPEX_EVAL_MIN_SPEARMAN"); min != "" {
		if v, err := strconv.ParseFloat(min, 64); err == nil {
			config.Evaluation.MinSpearman = v
		}
	}
}

// Validate checks cross-field configuration constraints that TOML parsing
// cannot express.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Parser.Engine {
	case EngineDeterministic, EngineLLM:
	default:
		return fmt.Errorf("invalid parser engine %q: must be %q or %q", c.Parser.Engine, EngineDeterministic, EngineLLM)
	}
	switch c.LLM.DefaultProvider {
	case LLMProviderClaude, LLMProviderGemini:
	default:
		return fmt.Errorf("invalid llm default_provider %q: must be %q or %q", c.LLM.DefaultProvider, LLMProviderClaude, LLMProviderGemini)
	}
	return nil
}
