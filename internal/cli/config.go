package cli

import (
	"fmt"
	"os"

	"github.com/mcoot/chessarchive/internal/config"
)

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Options holds the global CLI flags. Empty values leave the loaded
// configuration untouched.
type Options struct {
	ConfigFile string
	Storage    string
	DataDir    string
	RedisURL   string
	Output     string
	Verbose    bool
}

// DefaultOptions returns Options with default values
func DefaultOptions() *Options {
	return &Options{
		ConfigFile: os.Getenv(config.EnvPrefix + "CONFIG"),
		Output:     OutputText,
	}
}

// Load resolves the application configuration and applies flag overrides
func (o *Options) Load() (config.Config, error) {
	if o.Output != OutputText && o.Output != OutputJSON {
		return config.Config{}, fmt.Errorf("output %q must be %s or %s", o.Output, OutputText, OutputJSON)
	}

	cfg, err := config.Load(o.ConfigFile)
	if err != nil {
		return config.Config{}, err
	}

	if o.Storage != "" {
		cfg.Storage.Type = o.Storage
	}
	if o.DataDir != "" {
		cfg.Storage.DataDir = o.DataDir
	}
	if o.RedisURL != "" {
		cfg.Storage.RedisURL = o.RedisURL
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
