package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds runtime settings for the job assistant CLI.
type Config struct {
	ServerEndpointAddr  string        `env:"JOBASSIST_CLI_SERVER_ADDR"`
	OnlineCheckInterval time.Duration `env:"JOBASSIST_CLI_ONLINE_CHECK_INTERVAL"`
	DatabasePath        string        `env:"JOBASSIST_CLI_DB"`
	RequestTimeout      time.Duration `env:"JOBASSIST_CLI_REQUEST_TIMEOUT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.DatabasePath = "jobassistant.db"
	c.RequestTimeout = 30 * time.Second
}

func (c *Config) Validate() error {
	var errs []error
	if c.ServerEndpointAddr == "" {
		errs = append(errs, errors.New("server address is empty"))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database path is empty"))
	}
	if c.OnlineCheckInterval <= 0 {
		errs = append(errs, errors.New("online check interval must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	return errors.Join(errs...)
}

// LoadConfig constructs a Config from defaults, the JSON file named by
// -c/-config, JOBASSIST_CLI_* variables and flags, later sources winning.
// environ nil reads the process environment.
func LoadConfig(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, environ); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
