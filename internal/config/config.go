package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level capgains.yaml configuration.
type Config struct {
	RateProvider RateProviderConfig `yaml:"rate_provider"`
	Gambit       GambitConfig       `yaml:"gambit"`
	// Aliases maps converter-emitted tickers onto ledger tickers, e.g.
	// folding a dual-listed security's symbols together. Applied at the
	// converter boundary only; the engine never sees it.
	Aliases map[string]string `yaml:"aliases,omitempty"`
}

// RateProviderConfig points at the exchange-rate source.
type RateProviderConfig struct {
	BaseURL string `yaml:"base_url"`
	Cache   bool   `yaml:"cache"`
}

// GambitConfig names the two listings of the gambit security.
type GambitConfig struct {
	USDTicker string `yaml:"usd_ticker"`
	CADTicker string `yaml:"cad_ticker"`
}

// Load reads a capgains.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults: the public Bank of
// Canada endpoint with response caching, and the usual DLR gambit pair.
func Default() *Config {
	return &Config{
		RateProvider: RateProviderConfig{
			BaseURL: "https://www.bankofcanada.ca/valet/observations",
			Cache:   true,
		},
		Gambit: GambitConfig{
			USDTicker: "DLR.U",
			CADTicker: "DLR",
		},
	}
}
