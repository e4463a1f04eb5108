// Package config loads and validates backtest run configurations.
package config

import (
	"encoding/json"
	"os"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/eod-backtest/internal/analytics"
	"github.com/rxtech-lab/eod-backtest/internal/series/datasource"
	"github.com/rxtech-lab/eod-backtest/internal/strategy"
	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/internal/version"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
	"gopkg.in/yaml.v3"
)

// StrategyConfig selects and parameterizes the strategy.
type StrategyConfig struct {
	Name      string `yaml:"name" json:"name" jsonschema:"title=Name,description=Strategy to run,enum=eom,enum=bnh,enum=jan,required" validate:"required,oneof=eom bnh jan"`
	EntryDays int    `yaml:"entry_days" json:"entry_days" jsonschema:"title=Entry Days,description=Trading days before the last trading day of the month to enter (eom),minimum=1,default=2" validate:"gte=1"`
	ExitDays  int    `yaml:"exit_days" json:"exit_days" jsonschema:"title=Exit Days,description=Trading days after the last trading day of the month to exit (eom),minimum=1,default=2" validate:"gte=1"`

	HedgeSymbol     string `yaml:"hedge_symbol,omitempty" json:"hedge_symbol,omitempty" jsonschema:"title=Hedge Symbol,description=Symbol shorted against the traded symbol (jan)" validate:"required_if=Name jan"`
	HedgeSeriesPath string `yaml:"hedge_series_path,omitempty" json:"hedge_series_path,omitempty" jsonschema:"title=Hedge Series Path,description=Path to the hedge symbol's daily series file (jan)" validate:"required_if=Name jan"`
	EntryOffset     int    `yaml:"entry_offset,omitempty" json:"entry_offset,omitempty" jsonschema:"title=Entry Offset,description=Days added to the December 20 entry (jan),minimum=-19,maximum=11" validate:"gte=-19,lte=11"`
	ExitOffset      int    `yaml:"exit_offset,omitempty" json:"exit_offset,omitempty" jsonschema:"title=Exit Offset,description=Days added to the January 9 exit (jan),minimum=-8,maximum=22" validate:"gte=-8,lte=22"`
}

// BacktestConfig is one backtest run.
type BacktestConfig struct {
	Symbol         string                     `yaml:"symbol" json:"symbol" jsonschema:"title=Symbol,description=Symbol to trade,required" validate:"required"`
	SeriesPath     string                     `yaml:"series_path" json:"series_path" jsonschema:"title=Series Path,description=Path to the daily series file (Yahoo CSV or Parquet),required" validate:"required"`
	Loader         datasource.Kind            `yaml:"loader" json:"loader" jsonschema:"title=Loader,description=Series loader,enum=csv,enum=duckdb,default=csv" validate:"omitempty,oneof=csv duckdb"`
	Begin          optional.Option[time.Time] `yaml:"begin" json:"begin" jsonschema:"title=Begin,description=Optional first date to load"`
	End            optional.Option[time.Time] `yaml:"end" json:"end" jsonschema:"title=End,description=Optional last date to load"`
	PriceType      types.PriceType            `yaml:"price_type" json:"price_type" jsonschema:"title=Price Type,description=Price used for market factors,enum=open,enum=high,enum=low,enum=close,enum=adjclose,default=close"`
	RiskFreeRate   float64                    `yaml:"risk_free_rate" json:"risk_free_rate" jsonschema:"title=Risk Free Rate,description=Yearly risk-free rate in percent,minimum=0,default=3" validate:"gte=0"`
	InitialCapital float64                    `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting cash in USD,minimum=0" validate:"gte=0"`
	Strategy       StrategyConfig             `yaml:"strategy" json:"strategy" jsonschema:"title=Strategy,required"`
	ResultsFolder  string                     `yaml:"results_folder" json:"results_folder" jsonschema:"title=Results Folder,description=Directory for statistics and journal exports,default=results"`
	EngineVersion  string                     `yaml:"engine_version" json:"engine_version" jsonschema:"title=Engine Version,description=Engine version the config was written for"`
	LogLevel       string                     `yaml:"log_level" json:"log_level" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error,default=info" validate:"omitempty,oneof=debug info warn error"`
}

// yamlConfig is the on-disk shape of BacktestConfig.
type yamlConfig struct {
	Symbol         string          `yaml:"symbol"`
	SeriesPath     string          `yaml:"series_path"`
	Loader         datasource.Kind `yaml:"loader,omitempty"`
	Begin          *string         `yaml:"begin,omitempty"`
	End            *string         `yaml:"end,omitempty"`
	PriceType      string          `yaml:"price_type,omitempty"`
	RiskFreeRate   *float64        `yaml:"risk_free_rate,omitempty"`
	InitialCapital float64         `yaml:"initial_capital"`
	Strategy       StrategyConfig  `yaml:"strategy"`
	ResultsFolder  string          `yaml:"results_folder,omitempty"`
	EngineVersion  string          `yaml:"engine_version,omitempty"`
	LogLevel       string          `yaml:"log_level,omitempty"`
}

// MarshalYAML writes the optional dates as plain dates.
func (c BacktestConfig) MarshalYAML() (interface{}, error) {
	rate := c.RiskFreeRate
	out := yamlConfig{
		Symbol:         c.Symbol,
		SeriesPath:     c.SeriesPath,
		Loader:         c.Loader,
		PriceType:      string(c.PriceType),
		RiskFreeRate:   &rate,
		InitialCapital: c.InitialCapital,
		Strategy:       c.Strategy,
		ResultsFolder:  c.ResultsFolder,
		EngineVersion:  c.EngineVersion,
		LogLevel:       c.LogLevel,
	}

	if c.Begin.IsSome() {
		begin := types.FormatDate(c.Begin.Unwrap())
		out.Begin = &begin
	}

	if c.End.IsSome() {
		end := types.FormatDate(c.End.Unwrap())
		out.End = &end
	}

	return out, nil
}

// UnmarshalYAML maps the optional dates and applies defaults.
func (c *BacktestConfig) UnmarshalYAML(value *yaml.Node) error {
	var r yamlConfig
	if err := value.Decode(&r); err != nil {
		return err
	}

	*c = Default()
	c.Symbol = r.Symbol
	c.SeriesPath = r.SeriesPath
	c.InitialCapital = r.InitialCapital
	c.EngineVersion = r.EngineVersion
	c.Strategy.Name = r.Strategy.Name
	c.Strategy.HedgeSymbol = r.Strategy.HedgeSymbol
	c.Strategy.HedgeSeriesPath = r.Strategy.HedgeSeriesPath
	c.Strategy.EntryOffset = r.Strategy.EntryOffset
	c.Strategy.ExitOffset = r.Strategy.ExitOffset

	if r.Loader != "" {
		c.Loader = r.Loader
	}

	if r.Begin != nil {
		d, err := types.ParseDate(*r.Begin)
		if err != nil {
			return err
		}

		c.Begin = optional.Some(d)
	}

	if r.End != nil {
		d, err := types.ParseDate(*r.End)
		if err != nil {
			return err
		}

		c.End = optional.Some(d)
	}

	if r.PriceType != "" {
		pt, err := types.ParsePriceType(r.PriceType)
		if err != nil {
			return err
		}

		c.PriceType = pt
	}

	if r.RiskFreeRate != nil {
		c.RiskFreeRate = *r.RiskFreeRate
	}

	if r.Strategy.EntryDays != 0 {
		c.Strategy.EntryDays = r.Strategy.EntryDays
	}

	if r.Strategy.ExitDays != 0 {
		c.Strategy.ExitDays = r.Strategy.ExitDays
	}

	if r.ResultsFolder != "" {
		c.ResultsFolder = r.ResultsFolder
	}

	if r.LogLevel != "" {
		c.LogLevel = r.LogLevel
	}

	return nil
}

// Default returns a config with every optional field set to its default.
func Default() BacktestConfig {
	return BacktestConfig{
		Loader:       datasource.KindCSV,
		Begin:        optional.None[time.Time](),
		End:          optional.None[time.Time](),
		PriceType:    types.PriceTypeClose,
		RiskFreeRate: analytics.DefaultRiskFreeRate,
		Strategy: StrategyConfig{
			EntryDays: strategy.DefaultEntryDays,
			ExitDays:  strategy.DefaultExitDays,
		},
		ResultsFolder: "results",
		LogLevel:      "info",
	}
}

// Validate checks the struct constraints, the date window and the engine version.
func (c *BacktestConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if !c.PriceType.IsValid() {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "invalid price type: %s", c.PriceType)
	}

	if c.Begin.IsSome() && c.End.IsSome() && !c.End.Unwrap().After(c.Begin.Unwrap()) {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "end %s must be after begin %s",
			types.FormatDate(c.End.Unwrap()), types.FormatDate(c.Begin.Unwrap()))
	}

	if c.EngineVersion != "" {
		if err := version.CheckCompatibility(version.GetVersion(), c.EngineVersion); err != nil {
			return err
		}
	}

	return nil
}

// Parse decodes and validates a YAML config.
func Parse(data []byte) (*BacktestConfig, error) {
	var c BacktestConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Load reads, decodes and validates the YAML config at path.
func Load(path string) (*BacktestConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	return Parse(data)
}

// GenerateSchema generates a JSON schema for BacktestConfig.
func (c *BacktestConfig) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(optional.Option[time.Time]{}) {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)
	schema.Title = "eod-backtest-config"
	schema.Description = "Configuration schema for an end-of-day backtest run"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON generates the indented JSON schema for BacktestConfig.
func (c *BacktestConfig) GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(c.GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
