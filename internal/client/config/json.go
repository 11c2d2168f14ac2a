package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/useradmin/internal/flagx"
	"github.com/dmitrijs2005/useradmin/internal/timex"
)

// JsonConfig is the on-disk shape. Absent keys keep the current value.
type JsonConfig struct {
	ServerURL      string          `json:"server_url"`
	HeaderScheme   string          `json:"header_scheme"`
	CredentialsDB  string          `json:"credentials_db"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	LogLevel       string          `json:"log_level"`
}

func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.HeaderScheme != "" {
		cfg.HeaderScheme = jc.HeaderScheme
	}
	if jc.CredentialsDB != "" {
		cfg.CredentialsDB = jc.CredentialsDB
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
