// Package config loads encoder settings from YAML.
package config

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/woekit/pkg/errors"
	"github.com/YuminosukeSato/woekit/pkg/log"
	"github.com/YuminosukeSato/woekit/preprocessing"
)

const fileMode = 0600

// Unseen policy names.
const (
	UnseenError   = "error"
	UnseenMissing = "missing"
	UnseenValue   = "value"
)

// Config describes one encoding job.
type Config struct {
	// Target is the binary label column.
	Target string `yaml:"target"`
	// Features are the columns to encode.
	Features []string `yaml:"features"`
	// Numeric lists columns parsed as numbers when loading data.
	Numeric []string `yaml:"numeric,omitempty"`

	DropOriginal bool     `yaml:"drop_original"`
	Prefix       string   `yaml:"prefix"`
	Suffix       string   `yaml:"suffix"`
	IVFill       *float64 `yaml:"iv_fill"`
	Unseen       string   `yaml:"unseen"`
	UnseenValue  float64  `yaml:"unseen_value,omitempty"`
	Workers      int      `yaml:"workers"`
	LogLevel     string   `yaml:"log_level"`

	Binning *Binning `yaml:"binning,omitempty"`
}

// Binning discretizes numeric columns before encoding.
type Binning struct {
	Columns      []string `yaml:"columns"`
	Bins         int      `yaml:"bins"`
	Strategy     string   `yaml:"strategy"`
	Suffix       string   `yaml:"suffix,omitempty"`
	DropOriginal bool     `yaml:"drop_original,omitempty"`
}

// Default returns the settings applied before a file is read.
func Default() *Config {
	return &Config{
		Prefix:   preprocessing.DefaultPrefix,
		Suffix:   preprocessing.DefaultSuffix,
		Unseen:   UnseenError,
		LogLevel: "warn",
	}
}

// Load reads and validates a YAML config. Keys not defined on Config are an error.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path required")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file: %s", path)
	}
	return Parse(b)
}

// Parse decodes a YAML document on top of Default and validates it.
func Parse(b []byte) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, errors.Wrap(err, "error decoding config")
	}
	if c.Binning != nil && c.Binning.Bins == 0 {
		c.Binning.Bins = preprocessing.DefaultBins
	}
	if c.Binning != nil && c.Binning.Strategy == "" {
		c.Binning.Strategy = string(preprocessing.QuantileBins)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Save writes c to path as YAML.
func Save(path string, c *Config) error {
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file: %s", path)
	}
	return nil
}

// Validate checks the settings that the encoder constructor does not.
func (c *Config) Validate() error {
	if c.Target == "" {
		return errors.NewValidationError("target", "target column required", nil)
	}
	if len(c.Features) == 0 {
		return errors.NewValidationError("features", "at least one feature is required", nil)
	}
	for _, f := range c.Features {
		if f == c.Target {
			return errors.NewValidationError("features", "target cannot be encoded", f)
		}
	}
	switch c.Unseen {
	case UnseenError, UnseenMissing, UnseenValue:
	default:
		return errors.NewValidationError("unseen", "must be one of error, missing, value", c.Unseen)
	}
	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		return errors.NewValidationError("log_level", "must be one of debug, info, warn, error", c.LogLevel)
	}
	if c.DropOriginal && c.Prefix+c.Suffix == "" {
		return errors.NewInvalidDropConfigurationError(c.Prefix, c.Suffix)
	}
	return nil
}

// UnseenPolicy converts the unseen settings.
func (c *Config) UnseenPolicy() preprocessing.UnseenPolicy {
	switch c.Unseen {
	case UnseenMissing:
		return preprocessing.UnseenMissing()
	case UnseenValue:
		return preprocessing.UnseenValue(c.UnseenValue)
	}
	return preprocessing.UnseenError()
}

// EncoderOptions converts c into WoEEncoder options.
func (c *Config) EncoderOptions(extra ...preprocessing.WoEOption) []preprocessing.WoEOption {
	fill := preprocessing.NoIVFill
	if c.IVFill != nil {
		fill = preprocessing.FillIV(*c.IVFill)
	}
	opts := []preprocessing.WoEOption{
		preprocessing.WithDropOriginal(c.DropOriginal),
		preprocessing.WithPrefix(c.Prefix),
		preprocessing.WithSuffix(c.Suffix),
		preprocessing.WithIVFill(fill),
		preprocessing.WithUnseen(c.UnseenPolicy()),
		preprocessing.WithWorkers(c.Workers),
	}
	return append(opts, extra...)
}

// NewEncoder builds the configured WoEEncoder.
func (c *Config) NewEncoder(extra ...preprocessing.WoEOption) (*preprocessing.WoEEncoder, error) {
	return preprocessing.NewWoEEncoder(c.Features, c.EncoderOptions(extra...)...)
}

// NewDiscretizer builds the configured KBinsDiscretizer, or nil when binning is off.
func (c *Config) NewDiscretizer() (*preprocessing.KBinsDiscretizer, error) {
	if c.Binning == nil || len(c.Binning.Columns) == 0 {
		return nil, nil
	}
	return preprocessing.NewKBinsDiscretizer(c.Binning.Columns,
		preprocessing.WithBins(c.Binning.Bins),
		preprocessing.WithBinStrategy(preprocessing.BinStrategy(c.Binning.Strategy)),
		preprocessing.WithBinSuffix(c.Binning.Suffix),
		preprocessing.WithBinDropOriginal(c.Binning.DropOriginal),
	)
}
