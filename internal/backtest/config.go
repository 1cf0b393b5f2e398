package backtest

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v2"

	"github.com/deltrader-lab/deltrader/internal/portfolio"
	"github.com/deltrader-lab/deltrader/internal/version"
	"github.com/deltrader-lab/deltrader/pkg/errors"
)

// Config is the full engine configuration parsed from a YAML file.
type Config struct {
	Version          string  `yaml:"version" json:"version" jsonschema:"title=Version,description=Engine version this config was written for"`
	InitialCapital   float64 `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting capital for the run,minimum=0" validate:"required,gt=0"`
	RiskFraction     float64 `yaml:"risk_fraction" json:"risk_fraction" jsonschema:"title=Risk Fraction,description=Fraction of capital risked per trade,minimum=0,maximum=1" validate:"required,gt=0,lte=1"`
	MaxOpenPositions int     `yaml:"max_open_positions" json:"max_open_positions" jsonschema:"title=Max Open Positions,description=Ceiling on simultaneously open positions,minimum=1" validate:"required,gt=0"`
	MinDataPoints    int     `yaml:"min_data_points" json:"min_data_points" jsonschema:"title=Min Data Points,description=Timeline entries skipped as indicator warm-up,minimum=0" validate:"gte=0"`
	Strategy         string  `yaml:"strategy" json:"strategy" jsonschema:"title=Strategy,description=Registered strategy name" validate:"required"`
	// ATRMultiplierSL places the initial stop this many ATRs on the
	// adverse side of the entry.
	ATRMultiplierSL float64 `yaml:"atr_multiplier_sl" json:"atr_multiplier_sl" jsonschema:"title=ATR Stop Multiplier,description=ATR multiples between entry and stop,minimum=0" validate:"required,gt=0"`
	// TakeProfitATRMultiplier and TakeProfitFallbackPct are the fallback
	// take-profit parameters used when the strategy has no target of its
	// own. Zero selects the engine defaults.
	TakeProfitATRMultiplier float64 `yaml:"tp_atr_multiplier" json:"tp_atr_multiplier" jsonschema:"title=Take Profit ATR Multiplier,minimum=0" validate:"gte=0"`
	TakeProfitFallbackPct   float64 `yaml:"tp_fallback_pct" json:"tp_fallback_pct" jsonschema:"title=Take Profit Fallback Percent,minimum=0" validate:"gte=0"`

	StartTime optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start of the simulated window"`
	EndTime   optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end of the simulated window"`
}

// UnmarshalYAML implements custom unmarshaling for Config so the optional
// time fields round-trip through plain YAML timestamps.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plainConfig struct {
		Version                 string     `yaml:"version"`
		InitialCapital          float64    `yaml:"initial_capital"`
		RiskFraction            float64    `yaml:"risk_fraction"`
		MaxOpenPositions        int        `yaml:"max_open_positions"`
		MinDataPoints           int        `yaml:"min_data_points"`
		Strategy                string     `yaml:"strategy"`
		ATRMultiplierSL         float64    `yaml:"atr_multiplier_sl"`
		TakeProfitATRMultiplier float64    `yaml:"tp_atr_multiplier"`
		TakeProfitFallbackPct   float64    `yaml:"tp_fallback_pct"`
		StartTime               *time.Time `yaml:"start_time"`
		EndTime                 *time.Time `yaml:"end_time"`
	}

	var config plainConfig
	if err := unmarshal(&config); err != nil {
		return err
	}

	c.Version = config.Version
	c.InitialCapital = config.InitialCapital
	c.RiskFraction = config.RiskFraction
	c.MaxOpenPositions = config.MaxOpenPositions
	c.MinDataPoints = config.MinDataPoints
	c.Strategy = config.Strategy
	c.ATRMultiplierSL = config.ATRMultiplierSL
	c.TakeProfitATRMultiplier = config.TakeProfitATRMultiplier
	c.TakeProfitFallbackPct = config.TakeProfitFallbackPct

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

// Validate checks field constraints and, when the config declares a
// version, its compatibility with the running engine.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid backtest config", err)
	}

	if c.Version != "" {
		if err := version.CheckVersionCompatibility(version.GetVersion(), c.Version); err != nil {
			return err
		}
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.New(errors.ErrCodeBacktestConfigError, "end_time is before start_time")
	}

	return nil
}

// ParseConfig parses and validates a YAML config document.
func ParseConfig(content string) (Config, error) {
	var config Config
	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse config", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// PortfolioConfig projects the engine config onto the portfolio manager's
// parameters.
func (c Config) PortfolioConfig() portfolio.Config {
	return portfolio.Config{
		InitialCapital:          c.InitialCapital,
		RiskFraction:            c.RiskFraction,
		MaxOpenPositions:        c.MaxOpenPositions,
		TakeProfitATRMultiplier: c.TakeProfitATRMultiplier,
		TakeProfitFallbackPct:   c.TakeProfitFallbackPct,
	}
}

// EmptyConfig returns a zero-valued config.
func EmptyConfig() Config {
	return Config{}
}

// TestConfig returns a small valid config used across the test suites.
func TestConfig() Config {
	return Config{
		InitialCapital:   10000,
		RiskFraction:     0.01,
		MaxOpenPositions: 3,
		MinDataPoints:    100,
		Strategy:         "basic",
		ATRMultiplierSL:  2.0,
	}
}

// GenerateSchema generates a JSON schema for Config.
func (c *Config) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)
	schema.Title = "deltrader-backtest-config"
	schema.Description = "Configuration schema for the backtest engine"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON generates an indented JSON schema string for Config.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(c.GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
