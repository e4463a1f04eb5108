package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/eod-backtest/internal/series/datasource"
	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestDefault() {
	c := Default()

	suite.Equal(datasource.KindCSV, c.Loader)
	suite.Equal(types.PriceTypeClose, c.PriceType)
	suite.Equal(3.0, c.RiskFreeRate)
	suite.Equal(2, c.Strategy.EntryDays)
	suite.Equal(2, c.Strategy.ExitDays)
	suite.Equal("results", c.ResultsFolder)
	suite.True(c.Begin.IsNone())
	suite.True(c.End.IsNone())
}

func (suite *ConfigTestSuite) TestParseComplete() {
	c, err := Parse([]byte(`
symbol: SPY
series_path: data/SPY.csv
loader: duckdb
begin: 2020-01-01
end: 2020-12-31
price_type: adjclose
risk_free_rate: 1.5
initial_capital: 10000
strategy:
  name: eom
  entry_days: 3
  exit_days: 1
results_folder: out
log_level: debug
`))

	suite.Require().NoError(err)
	suite.Equal("SPY", c.Symbol)
	suite.Equal("data/SPY.csv", c.SeriesPath)
	suite.Equal(datasource.KindDuckDB, c.Loader)
	suite.Equal(types.Date(2020, time.January, 1), c.Begin.Unwrap())
	suite.Equal(types.Date(2020, time.December, 31), c.End.Unwrap())
	suite.Equal(types.PriceTypeAdjClose, c.PriceType)
	suite.Equal(1.5, c.RiskFreeRate)
	suite.Equal(10000.0, c.InitialCapital)
	suite.Equal("eom", c.Strategy.Name)
	suite.Equal(3, c.Strategy.EntryDays)
	suite.Equal(1, c.Strategy.ExitDays)
	suite.Equal("out", c.ResultsFolder)
	suite.Equal("debug", c.LogLevel)
}

func (suite *ConfigTestSuite) TestParseDefaults() {
	c, err := Parse([]byte(`
symbol: QQQ
series_path: QQQ.parquet
strategy:
  name: bnh
`))

	suite.Require().NoError(err)
	suite.Equal(datasource.KindCSV, c.Loader)
	suite.Equal(types.PriceTypeClose, c.PriceType)
	suite.Equal(3.0, c.RiskFreeRate)
	suite.True(c.Begin.IsNone())
	suite.True(c.End.IsNone())
}

func (suite *ConfigTestSuite) TestParseZeroRiskFreeRate() {
	c, err := Parse([]byte(`
symbol: SPY
series_path: SPY.csv
risk_free_rate: 0
strategy:
  name: eom
`))

	suite.Require().NoError(err)
	suite.Equal(0.0, c.RiskFreeRate)
}

func (suite *ConfigTestSuite) TestParseInvalid() {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "missing symbol", yaml: "series_path: a.csv\nstrategy:\n  name: eom\n"},
		{name: "missing series path", yaml: "symbol: SPY\nstrategy:\n  name: eom\n"},
		{name: "unknown strategy", yaml: "symbol: SPY\nseries_path: a.csv\nstrategy:\n  name: momentum\n"},
		{name: "unknown loader", yaml: "symbol: SPY\nseries_path: a.csv\nloader: sqlite\nstrategy:\n  name: eom\n"},
		{name: "negative rate", yaml: "symbol: SPY\nseries_path: a.csv\nrisk_free_rate: -1\nstrategy:\n  name: eom\n"},
		{name: "end before begin", yaml: "symbol: SPY\nseries_path: a.csv\nbegin: 2020-06-01\nend: 2020-01-01\nstrategy:\n  name: eom\n"},
		{name: "negative entry days", yaml: "symbol: SPY\nseries_path: a.csv\nstrategy:\n  name: eom\n  entry_days: -1\n"},
		{name: "jan without hedge", yaml: "symbol: IWM\nseries_path: a.csv\nstrategy:\n  name: jan\n"},
		{name: "jan entry offset", yaml: "symbol: IWM\nseries_path: a.csv\nstrategy:\n  name: jan\n  hedge_symbol: SPY\n  hedge_series_path: b.csv\n  entry_offset: 12\n"},
		{name: "bad yaml", yaml: "symbol: [SPY\n"},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := Parse([]byte(tc.yaml))
			suite.Error(err)
			suite.True(errors.ChainHasCode(err, errors.ErrCodeInvalidConfiguration))
		})
	}
}

func (suite *ConfigTestSuite) TestParseJan() {
	c, err := Parse([]byte(`
symbol: IWM
series_path: IWM.csv
strategy:
  name: jan
  hedge_symbol: SPY
  hedge_series_path: SPY.csv
  entry_offset: -2
  exit_offset: 3
`))

	suite.Require().NoError(err)
	suite.Equal("jan", c.Strategy.Name)
	suite.Equal("SPY", c.Strategy.HedgeSymbol)
	suite.Equal("SPY.csv", c.Strategy.HedgeSeriesPath)
	suite.Equal(-2, c.Strategy.EntryOffset)
	suite.Equal(3, c.Strategy.ExitOffset)
	suite.Equal(2, c.Strategy.EntryDays)
}

func (suite *ConfigTestSuite) TestParseBadPriceType() {
	_, err := Parse([]byte("symbol: SPY\nseries_path: a.csv\nprice_type: mid\nstrategy:\n  name: eom\n"))
	suite.Error(err)
}

func (suite *ConfigTestSuite) TestValidateSkipsVersionOnDevBuild() {
	c := Default()
	c.Symbol = "SPY"
	c.SeriesPath = "a.csv"
	c.Strategy.Name = "eom"
	c.EngineVersion = "not-a-version"

	// dev builds skip the comparison
	suite.NoError(c.Validate())
}

func (suite *ConfigTestSuite) TestMarshalWritesPlainDates() {
	c := Default()
	c.Symbol = "SPY"
	c.SeriesPath = "SPY.csv"
	c.Strategy.Name = "eom"
	c.Begin = optional.Some(types.Date(2020, time.March, 2))

	data, err := yaml.Marshal(c)
	suite.Require().NoError(err)
	suite.Contains(string(data), "2020-03-02")
	suite.NotContains(string(data), "end:")

	parsed, err := Parse(data)
	suite.Require().NoError(err)
	suite.Equal(c.Begin.Unwrap(), parsed.Begin.Unwrap())
	suite.True(parsed.End.IsNone())
}

func (suite *ConfigTestSuite) TestLoad() {
	path := filepath.Join(suite.T().TempDir(), "config.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte("symbol: SPY\nseries_path: a.csv\nstrategy:\n  name: eom\n"), 0o600))

	c, err := Load(path)
	suite.Require().NoError(err)
	suite.Equal("SPY", c.Symbol)

	_, err = Load(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestGenerateSchema() {
	c := &BacktestConfig{}
	schema := c.GenerateSchema()

	suite.NotNil(schema)
	suite.Equal("eod-backtest-config", schema.Title)
	suite.Equal("http://json-schema.org/draft-07/schema#", schema.Version)
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	c := &BacktestConfig{}
	schemaJSON, err := c.GenerateSchemaJSON()
	suite.Require().NoError(err)

	var result map[string]interface{}
	suite.Require().NoError(json.Unmarshal([]byte(schemaJSON), &result))
	suite.Equal("eod-backtest-config", result["title"])

	props, ok := result["properties"].(map[string]interface{})
	suite.Require().True(ok)
	suite.Contains(props, "symbol")

	begin, ok := props["begin"].(map[string]interface{})
	suite.Require().True(ok)
	suite.Equal("date", begin["format"])
}
