package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/flagx"
)

func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-d", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the admin backend")
	fs.StringVar(&cfg.HeaderScheme, "s", cfg.HeaderScheme, "credential header scheme (bearer|legacy)")
	fs.StringVar(&cfg.CredentialsDB, "d", cfg.CredentialsDB, "path of the local credential database")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
