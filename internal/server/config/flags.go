package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes
//	-u string   upload directory of the fs backend
//	-b string   attachment backend: fs or s3
//	-m int      upload size limit, MiB
//	-ru string  reference account username
//	-rp string  reference account password
//	-l string   log level
//
// Unrecognised arguments are dropped by flagx.FilterArgs first.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-t", "-u", "-b", "-m", "-ru", "-rp", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.EndpointAddr, "a", cfg.EndpointAddr, "address and port to run server")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	validity := fs.Int("t", int(cfg.TokenValidityDuration.Minutes()), "token validity duration (in minutes)")
	fs.StringVar(&cfg.UploadDir, "u", cfg.UploadDir, "upload directory")
	fs.StringVar(&cfg.StorageBackend, "b", cfg.StorageBackend, "attachment storage backend (fs|s3)")
	maxUpload := fs.Int64("m", cfg.MaxUploadSize/mebibyte, "max upload size (in MiB)")
	fs.StringVar(&cfg.ReferenceUsername, "ru", cfg.ReferenceUsername, "reference account username")
	fs.StringVar(&cfg.ReferencePassword, "rp", cfg.ReferencePassword, "reference account password")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only flags that were given are converted back, so sub-unit values from
	// earlier layers survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.TokenValidityDuration = time.Duration(*validity) * time.Minute
		case "m":
			cfg.MaxUploadSize = *maxUpload * mebibyte
		}
	})
}
