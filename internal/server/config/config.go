// Package config handles configuration for the reference backend,
// including defaults, .env/environment overlay, JSON overlay and
// command-line flags.
package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/common"
)

// Config holds runtime settings for the reference backend.
//
// Fields:
//   - EndpointAddr: bind address of the HTTP API.
//   - SecretKey: HMAC secret for signing JWTs (HS256). A random one is
//     generated when left empty, so tokens do not survive a restart.
//   - TokenValidityDuration: lifetime of issued tokens.
//   - UploadDir / StorageBackend: where attachments go ("fs" or "s3").
//   - MaxUploadSize: request body limit for multipart writes, in bytes.
//   - UniqueNames: prefix stored attachment names with a uuid.
//   - ReferenceUsername / ReferencePassword: the seeded account exposed by
//     /api/users.
//   - S3*: object storage settings, PresignTTL is the lifetime of download links.
//   - CORSOrigins: origins allowed to call the API from a browser, "*" for any.
type Config struct {
	EndpointAddr          string
	SecretKey             string
	TokenValidityDuration time.Duration
	UploadDir             string
	StorageBackend        string
	MaxUploadSize         int64
	UniqueNames           bool
	ReferenceUsername     string
	ReferencePassword     string
	S3RootUser            string
	S3RootPassword        string
	S3Bucket              string
	S3Region              string
	S3BaseEndpoint        string
	PresignTTL            time.Duration
	CORSOrigins           []string
	LogLevel              string
}

const mebibyte = 1 << 20

// LoadDefaults populates Config with development defaults.
// NOTE: these values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":5000"
	c.SecretKey = ""
	c.TokenValidityDuration = 60 * time.Minute
	c.UploadDir = "uploads"
	c.StorageBackend = "fs"
	c.MaxUploadSize = 10 * mebibyte
	c.UniqueNames = false
	c.ReferenceUsername = "user"
	c.ReferencePassword = "password"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "useradmin"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.PresignTTL = 15 * time.Minute
	c.CORSOrigins = []string{"*"}
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then a .env file and
// ADMIN_* environment variables, then an optional JSON file and finally
// command-line flags. Malformed input panics.
func LoadConfig() *Config {
	loadDotEnv(".env")
	return load(os.Args[1:], os.LookupEnv)
}

func load(args []string, lookup func(string) (string, bool)) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, lookup)
	parseJson(cfg, args)
	parseFlags(cfg, args)

	if cfg.SecretKey == "" {
		key, err := common.MakeRandHexString(32)
		if err != nil {
			panic(err)
		}
		cfg.SecretKey = key
	}
	return cfg
}
