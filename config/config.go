package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/illenko/location-pay/model"
)

// AmountMode selects where the charged amount comes from.
type AmountMode string

const (
	// AmountFixed charges the location's configured price.
	AmountFixed AmountMode = "fixed"
	// AmountEntered charges a positive amount typed in by the user.
	AmountEntered AmountMode = "entered"
)

type Config struct {
	Port       string           `mapstructure:"port"`
	APIBaseURL string           `mapstructure:"api_base_url"`
	AmountMode AmountMode       `mapstructure:"amount_mode"`
	LogLevel   string           `mapstructure:"log_level"`
	Locations  []model.Location `mapstructure:"locations"`
}

// Load reads .env (if present), then the optional YAML file at path, then
// LOCPAY_* environment variables, in increasing order of precedence.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("amount_mode", string(AmountFixed))
	v.SetDefault("log_level", "info")
	v.SetDefault("api_base_url", "")

	v.SetEnvPrefix("LOCPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("api_base_url is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_base_url %q is not an absolute URL", c.APIBaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_base_url %q must use http or https", c.APIBaseURL)
	}

	switch c.AmountMode {
	case AmountFixed, AmountEntered:
	default:
		return fmt.Errorf("amount_mode %q is not one of %q, %q", c.AmountMode, AmountFixed, AmountEntered)
	}

	seen := make(map[string]struct{}, len(c.Locations))
	for i, loc := range c.Locations {
		if strings.TrimSpace(loc.ID) == "" {
			return fmt.Errorf("locations[%d]: id is required", i)
		}
		key := strings.ToLower(loc.ID)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("locations[%d]: duplicate id %q", i, loc.ID)
		}
		seen[key] = struct{}{}

		if loc.Name == "" {
			return fmt.Errorf("locations[%d]: name is required", i)
		}
		if c.AmountMode == AmountFixed && loc.Price <= 0 {
			return fmt.Errorf("locations[%d]: price must be positive, got %v", i, loc.Price)
		}
	}
	return nil
}
