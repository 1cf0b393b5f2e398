package backtest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/deltrader-lab/deltrader/pkg/errors"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) TestParseCompleteConfig() {
	yamlConfig := `
initial_capital: 25000
risk_fraction: 0.02
max_open_positions: 5
min_data_points: 120
strategy: mean_reversion
atr_multiplier_sl: 2.5
tp_atr_multiplier: 4.0
tp_fallback_pct: 0.03
start_time: 2024-01-01T00:00:00Z
end_time: 2024-06-30T23:59:59Z
`

	config, err := ParseConfig(yamlConfig)
	s.Require().NoError(err)

	s.Equal(25000.0, config.InitialCapital)
	s.Equal(0.02, config.RiskFraction)
	s.Equal(5, config.MaxOpenPositions)
	s.Equal(120, config.MinDataPoints)
	s.Equal("mean_reversion", config.Strategy)
	s.Equal(2.5, config.ATRMultiplierSL)
	s.Equal(4.0, config.TakeProfitATRMultiplier)
	s.Equal(0.03, config.TakeProfitFallbackPct)

	s.Require().True(config.StartTime.IsSome())
	s.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), config.StartTime.Unwrap())
	s.Require().True(config.EndTime.IsSome())
}

func (s *ConfigTestSuite) TestParseConfigWithoutTimes() {
	yamlConfig := `
initial_capital: 10000
risk_fraction: 0.01
max_open_positions: 3
min_data_points: 100
strategy: basic
atr_multiplier_sl: 2.0
`

	config, err := ParseConfig(yamlConfig)
	s.Require().NoError(err)

	s.True(config.StartTime.IsNone())
	s.True(config.EndTime.IsNone())
}

func (s *ConfigTestSuite) TestParseConfigInvalidYAML() {
	_, err := ParseConfig("initial_capital: [not a number")
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeBacktestConfigError))
}

func (s *ConfigTestSuite) TestValidateRejectsBadFields() {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero capital", func(c *Config) { c.InitialCapital = 0 }},
		{"negative capital", func(c *Config) { c.InitialCapital = -5 }},
		{"risk above one", func(c *Config) { c.RiskFraction = 1.5 }},
		{"zero risk", func(c *Config) { c.RiskFraction = 0 }},
		{"no strategy", func(c *Config) { c.Strategy = "" }},
		{"zero positions", func(c *Config) { c.MaxOpenPositions = 0 }},
		{"zero stop multiplier", func(c *Config) { c.ATRMultiplierSL = 0 }},
	}

	for _, tc := range cases {
		config := TestConfig()
		tc.mutate(&config)

		err := config.Validate()
		s.Require().Error(err, tc.name)
		s.True(errors.HasCode(err, errors.ErrCodeBacktestConfigError), tc.name)
	}
}

func (s *ConfigTestSuite) TestValidateRejectsInvertedWindow() {
	yamlConfig := `
initial_capital: 10000
risk_fraction: 0.01
max_open_positions: 3
strategy: basic
atr_multiplier_sl: 2.0
start_time: 2024-06-01T00:00:00Z
end_time: 2024-01-01T00:00:00Z
`

	_, err := ParseConfig(yamlConfig)
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeBacktestConfigError))
}

func (s *ConfigTestSuite) TestVersionGate() {
	config := TestConfig()
	config.Version = "99.0.0"

	err := config.Validate()
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeVersionMismatch))

	config.Version = "main"
	s.Require().NoError(config.Validate())
}

func (s *ConfigTestSuite) TestTestConfigIsValid() {
	config := TestConfig()
	s.Require().NoError(config.Validate())
}

func (s *ConfigTestSuite) TestPortfolioConfigProjection() {
	config := TestConfig()
	config.TakeProfitATRMultiplier = 3.5

	projected := config.PortfolioConfig()
	s.Equal(config.InitialCapital, projected.InitialCapital)
	s.Equal(config.RiskFraction, projected.RiskFraction)
	s.Equal(config.MaxOpenPositions, projected.MaxOpenPositions)
	s.Equal(3.5, projected.TakeProfitATRMultiplier)
}

func (s *ConfigTestSuite) TestGenerateSchemaJSON() {
	config := EmptyConfig()

	schema, err := config.GenerateSchemaJSON()
	s.Require().NoError(err)

	s.True(strings.Contains(schema, "initial_capital"))
	s.True(strings.Contains(schema, "max_open_positions"))
	s.True(strings.Contains(schema, "date-time"))
}
