// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/gl-audit/internal/stats"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. GLAUDIT_LOG_LEVEL.
const EnvPrefix = "GLAUDIT"

// LogConfig controls the logrus backend.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// CSVConfig controls CSV input decoding and CSV export.
type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	Encoding  string `mapstructure:"encoding" yaml:"encoding"`
}

// ParserConfig tunes header location.
type ParserConfig struct {
	HeaderScanRows int `mapstructure:"header_scan_rows" yaml:"header_scan_rows" validate:"gte=1,lte=1000"`
	LookaheadRows  int `mapstructure:"lookahead_rows" yaml:"lookahead_rows" validate:"gte=0,lte=100"`
}

// AnalysisConfig holds the anomaly thresholds and Benford settings.
type AnalysisConfig struct {
	stats.AnomalyConfig `mapstructure:",squash" yaml:",inline"`
	BenfordMinSample    int    `mapstructure:"benford_min_sample" yaml:"benford_min_sample" validate:"gte=1"`
	AmountSource        string `mapstructure:"amount_source" yaml:"amount_source" validate:"oneof=gross debit credit side"`
	TopN                int    `mapstructure:"top_n" yaml:"top_n" validate:"gte=1"`
}

// SamplingConfig selects the sample size policy. A positive Target
// overrides the policy; a zero Seed draws a fresh sample each run.
type SamplingConfig struct {
	Policy string `mapstructure:"policy" yaml:"policy" validate:"oneof=smart hybrid"`
	Target int    `mapstructure:"target" yaml:"target" validate:"gte=0"`
	Seed   int64  `mapstructure:"seed" yaml:"seed"`
}

// SummaryConfig bounds the AI summaries.
type SummaryConfig struct {
	TokenBudget int `mapstructure:"token_budget" yaml:"token_budget" validate:"gte=100"`
}

// AIConfig configures the optional AI review.
type AIConfig struct {
	Enabled             bool    `mapstructure:"enabled" yaml:"enabled"`
	Model               string  `mapstructure:"model" yaml:"model"`
	TimeoutSeconds      int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	PromptCostPer1K     float64 `mapstructure:"prompt_cost_per_1k" yaml:"prompt_cost_per_1k" validate:"gte=0"`
	CompletionCostPer1K float64 `mapstructure:"completion_cost_per_1k" yaml:"completion_cost_per_1k" validate:"gte=0"`
	APIKey              string  `mapstructure:"api_key" yaml:"-"` // Never serialize API key
}

// KeywordsConfig points at an optional YAML vocabulary extension.
type KeywordsConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// OutputConfig selects the default report format.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=json yaml text"`
}

// Config represents the complete application configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	CSV      CSVConfig      `mapstructure:"csv" yaml:"csv"`
	Parser   ParserConfig   `mapstructure:"parser" yaml:"parser"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Sampling SamplingConfig `mapstructure:"sampling" yaml:"sampling"`
	Summary  SummaryConfig  `mapstructure:"summary" yaml:"summary"`
	AI       AIConfig       `mapstructure:"ai" yaml:"ai"`
	Keywords KeywordsConfig `mapstructure:"keywords" yaml:"keywords"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
}

// Delimiter returns the CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	for _, r := range c.CSV.Delimiter {
		return r
	}
	return ','
}

// InitializeConfig loads defaults, the first config.yaml found in
// $HOME/.gl-audit, .gl-audit or the working directory, then GLAUDIT_*
// environment variables.
func InitializeConfig() (*Config, error) {
	return InitializeConfigFrom("")
}

// InitializeConfigFrom is InitializeConfig reading configFile instead of
// searching when configFile is not empty. A named file that cannot be read
// is an error.
func InitializeConfigFrom(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.gl-audit")
		v.AddConfigPath(".gl-audit")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless named)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// 5. The API key keeps its conventional unprefixed name
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the built-in configuration without reading files or the
// environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	anomaly := stats.DefaultAnomalyConfig()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.encoding", "")

	v.SetDefault("parser.header_scan_rows", 30)
	v.SetDefault("parser.lookahead_rows", 5)

	v.SetDefault("analysis.z_high", anomaly.ZHigh)
	v.SetDefault("analysis.z_medium", anomaly.ZMedium)
	v.SetDefault("analysis.iqr_multiplier", anomaly.IQRMultiplier)
	v.SetDefault("analysis.large_multiple", anomaly.LargeMultiple)
	v.SetDefault("analysis.max_multiple", anomaly.MaxMultiple)
	v.SetDefault("analysis.round_tolerance", anomaly.RoundTolerance)
	v.SetDefault("analysis.benford_min_sample", stats.BenfordMinSample)
	v.SetDefault("analysis.amount_source", "gross")
	v.SetDefault("analysis.top_n", 20)

	v.SetDefault("sampling.policy", "smart")
	v.SetDefault("sampling.target", 0)
	v.SetDefault("sampling.seed", 0)

	v.SetDefault("summary.token_budget", 6000)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-1.5-flash")
	v.SetDefault("ai.timeout_seconds", 60)
	v.SetDefault("ai.prompt_cost_per_1k", 0.0)
	v.SetDefault("ai.completion_cost_per_1k", 0.0)

	v.SetDefault("keywords.file", "")

	v.SetDefault("output.format", "json")
}

var validate = validator.New()

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s failed '%s' check (value: %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}

	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	// Validate CSV delimiter
	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Analysis.ZMedium >= config.Analysis.ZHigh {
		return fmt.Errorf("analysis.z_medium (%g) must be below analysis.z_high (%g)", config.Analysis.ZMedium, config.Analysis.ZHigh)
	}

	// Validate AI configuration
	if config.AI.Enabled {
		if config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
		}
		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 600 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 600, got: %d", config.AI.TimeoutSeconds)
		}
	}

	return nil
}
