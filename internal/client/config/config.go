package config

import (
	"os"
	"time"
)

type Config struct {
	ServerURL      string
	HeaderScheme   string
	CredentialsDB  string
	RequestTimeout time.Duration
	LogLevel       string
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.HeaderScheme = "bearer"
	c.CredentialsDB = "admin.db"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the JSON file, then flags from os.Args.
// Malformed input panics.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
