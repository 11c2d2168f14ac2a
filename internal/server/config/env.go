package config

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// envPrefix namespaces every variable read by parseEnv.
const envPrefix = "ADMIN_"

// loadDotEnv exports the variables of path into the process environment.
// Variables already set win; a missing file is not an error.
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
}

// parseEnv overlays ADMIN_<KEY> variables, where KEY is the upper-cased JSON
// key (ADMIN_ENDPOINT_ADDR, ADMIN_PRESIGN_TTL, ...). Durations accept Go
// duration strings, MAX_UPLOAD_SIZE is in bytes and CORS_ORIGINS is a
// comma-separated list.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(envPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(envPrefix + key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(err)
			}
			*dst = d
		}
	}

	str("ENDPOINT_ADDR", &cfg.EndpointAddr)
	str("SECRET_KEY", &cfg.SecretKey)
	dur("TOKEN_VALIDITY_DURATION", &cfg.TokenValidityDuration)
	str("UPLOAD_DIR", &cfg.UploadDir)
	str("STORAGE_BACKEND", &cfg.StorageBackend)
	str("REFERENCE_USERNAME", &cfg.ReferenceUsername)
	str("REFERENCE_PASSWORD", &cfg.ReferencePassword)
	str("S3_ROOT_USER", &cfg.S3RootUser)
	str("S3_ROOT_PASSWORD", &cfg.S3RootPassword)
	str("S3_BUCKET", &cfg.S3Bucket)
	str("S3_REGION", &cfg.S3Region)
	str("S3_BASE_ENDPOINT", &cfg.S3BaseEndpoint)
	dur("PRESIGN_TTL", &cfg.PresignTTL)
	str("LOG_LEVEL", &cfg.LogLevel)

	if v, ok := lookup(envPrefix + "MAX_UPLOAD_SIZE"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			panic(err)
		}
		cfg.MaxUploadSize = n
	}
	if v, ok := lookup(envPrefix + "CORS_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSOrigins = origins
	}
	if v, ok := lookup(envPrefix + "UNIQUE_NAMES"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		cfg.UniqueNames = b
	}
}
