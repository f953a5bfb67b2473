// Package config loads and validates the application configuration from
// a yaml or json file with environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/santralytics/santralytics/auth"
	"github.com/santralytics/santralytics/connectors/epias"
	"github.com/santralytics/santralytics/core/metrics"
	"github.com/santralytics/santralytics/infra/plantdir"
)

type Config struct {
	Auth    auth.Conf      `json:"auth"`
	Market  epias.Conf     `json:"market"`
	Plants  plantdir.Conf  `json:"plants"`
	Report  ReportConfig   `json:"report"`
	Metrics metrics.Config `json:"metrics"`
	Logging LoggingConfig  `json:"logging"`
}

// Load reads the file at path, applies SANTRAL_ environment overrides
// (SANTRAL_AUTH__USERNAME sets auth.username) and validates the ambient
// sections. The report section is only validated once the CLI flags
// have been merged in.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("SANTRAL_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "santral_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies the section defaults.
func (c *Config) SetDefaults() {
	c.Auth.SetDefaults()
	c.Market.SetDefaults()
	c.Plants.SetDefaults()
	c.Report.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks the sections every run needs.
func (c Config) Validate() error {
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Market.Validate(); err != nil {
		return fmt.Errorf("market: %w", err)
	}
	if err := c.Plants.Validate(); err != nil {
		return fmt.Errorf("plants: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}
