package appconf

import (
	"encoding/json"
	"fmt"
	"os"

	"georoute.onebusaway.org/internal/geo"
)

// JSONConfig is the on-disk form of Config.
type JSONConfig struct {
	Env         string `json:"env"`
	Verbose     bool   `json:"verbose"`
	Calc        string `json:"calc"`
	FenceDBPath string `json:"fence-db"`
	GTFSPath    string `json:"gtfs-path"`
	KMLOutput   string `json:"kml-output"`
	MetricsDump bool   `json:"metrics-dump"`
}

// LoadFromFile reads and validates a JSON config file.
func LoadFromFile(path string) (*JSONConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg JSONConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *JSONConfig) validate() error {
	switch c.Env {
	case "", "development", "test", "production", "prod":
	default:
		return fmt.Errorf("unknown env %q", c.Env)
	}

	if _, err := geo.CalcByName(c.Calc); err != nil {
		return err
	}

	if c.Env == "test" && c.FenceDBPath != "" && c.FenceDBPath != ":memory:" {
		return fmt.Errorf("test environment requires fence-db \":memory:\", got %q", c.FenceDBPath)
	}
	return nil
}

// ToAppConfig converts the file form into a Config, filling defaults.
func (c *JSONConfig) ToAppConfig() Config {
	dbPath := c.FenceDBPath
	if dbPath == "" {
		dbPath = ":memory:"
	}
	return Config{
		Env:         EnvFlagToEnvironment(c.Env),
		Verbose:     c.Verbose,
		Calc:        c.Calc,
		FenceDBPath: dbPath,
		GTFSPath:    c.GTFSPath,
		KMLOutput:   c.KMLOutput,
		MetricsDump: c.MetricsDump,
	}
}
