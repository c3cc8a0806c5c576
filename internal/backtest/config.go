// Package backtest implements the candle-replay loop: it feeds chart
// prefixes to strategies, applies the events they emit against a shared
// trade heap and accumulates the equity curve.
package backtest

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/utils"
)

// Config holds one backtest run's parameters.
type Config struct {
	// InitialDeposit is the starting balance in quote currency.
	InitialDeposit float64 `yaml:"initial_deposit" json:"initial_deposit" validate:"gt=0" jsonschema:"title=Initial Deposit,description=Starting balance in quote currency,minimum=0"`
	// Commission is the fraction of crossed notional charged per level.
	Commission float64 `yaml:"commission" json:"commission" validate:"gte=0,lt=1" jsonschema:"title=Commission,description=Fraction of crossed notional charged per level"`
	// TimeAdjustment shifts equity timestamps forward by this fraction of
	// the equity timeframe, so each point is marked after the bar that
	// produced it. Defaults to half a bar.
	TimeAdjustment optional.Option[float64] `yaml:"time_adjustment" json:"time_adjustment" jsonschema:"title=Time Adjustment,description=Fraction of the equity timeframe equity timestamps are shifted by"`
	// StartTime optionally clips the simulated time range.
	StartTime optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start time for the backtest period"`
	// EndTime optionally clips the simulated time range.
	EndTime optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end time for the backtest period"`
	// AssumeZero is the epsilon used for numeric zero tests of volumes.
	AssumeZero float64 `yaml:"assume_zero" json:"assume_zero" validate:"gte=0" jsonschema:"title=Assume Zero,description=Magnitude below which volume arithmetic is treated as zero"`
}

const defaultTimeAdjustment = 0.5

// DefaultConfig returns a config with the stock deposit, commission and
// epsilon.
func DefaultConfig() Config {
	return Config{
		InitialDeposit: 100.0,
		Commission:     0.1 * 0.01,
		TimeAdjustment: optional.None[float64](),
		StartTime:      optional.None[time.Time](),
		EndTime:        optional.None[time.Time](),
		AssumeZero:     utils.DefaultAssumeZero,
	}
}

// UnmarshalYAML implements custom unmarshaling for Config so optional fields
// map onto optional.Option values.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plainConfig struct {
		InitialDeposit float64    `yaml:"initial_deposit"`
		Commission     float64    `yaml:"commission"`
		TimeAdjustment *float64   `yaml:"time_adjustment"`
		StartTime      *time.Time `yaml:"start_time"`
		EndTime        *time.Time `yaml:"end_time"`
		AssumeZero     *float64   `yaml:"assume_zero"`
	}

	var plain plainConfig
	if err := unmarshal(&plain); err != nil {
		return err
	}

	c.InitialDeposit = plain.InitialDeposit
	c.Commission = plain.Commission
	c.TimeAdjustment = optional.FromNillable(plain.TimeAdjustment)
	c.StartTime = optional.FromNillable(plain.StartTime)
	c.EndTime = optional.FromNillable(plain.EndTime)
	c.AssumeZero = utils.DefaultAssumeZero

	if plain.AssumeZero != nil {
		c.AssumeZero = *plain.AssumeZero
	}

	return nil
}

// Validate checks the config against its struct constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// TimeAdjustmentFraction returns the configured adjustment or the default of
// half a bar.
func (c *Config) TimeAdjustmentFraction() float64 {
	return c.TimeAdjustment.TakeOr(defaultTimeAdjustment)
}

// GenerateSchema generates a JSON schema for the backtest config.
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t.String() {
			case "optional.Option[time.Time]":
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			case "optional.Option[float64]":
				return &jsonschema.Schema{
					Type: "number",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "backtester-config"
	schema.Description = "Configuration schema for the backtester"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates an indented JSON schema string for the
// backtest config.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
