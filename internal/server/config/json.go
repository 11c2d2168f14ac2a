package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/useradmin/internal/flagx"
	"github.com/dmitrijs2005/useradmin/internal/timex"
)

// JsonConfig is the on-disk shape. Durations use timex.Duration, so they can
// be strings like "15m" or integer nanoseconds. Absent keys keep the current
// value.
type JsonConfig struct {
	EndpointAddr          string          `json:"endpoint_addr"`
	SecretKey             string          `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	UploadDir             string          `json:"upload_dir"`
	StorageBackend        string          `json:"storage_backend"`
	MaxUploadSize         *int64          `json:"max_upload_size"`
	UniqueNames           *bool           `json:"unique_names"`
	ReferenceUsername     string          `json:"reference_username"`
	ReferencePassword     string          `json:"reference_password"`
	S3RootUser            string          `json:"s3_root_user"`
	S3RootPassword        string          `json:"s3_root_password"`
	S3Bucket              string          `json:"s3_bucket"`
	S3Region              string          `json:"s3_region"`
	S3BaseEndpoint        string          `json:"s3_base_endpoint"`
	PresignTTL            *timex.Duration `json:"presign_ttl"`
	CORSOrigins           []string        `json:"cors_origins"`
	LogLevel              string          `json:"log_level"`
}

// parseJson loads the file named by -c/-config, if any, and overlays the
// keys it sets. max_upload_size is in bytes.
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

	overlay := func(src string, dst *string) {
		if src != "" {
			*dst = src
		}
	}
	overlay(jc.EndpointAddr, &cfg.EndpointAddr)
	overlay(jc.SecretKey, &cfg.SecretKey)
	overlay(jc.UploadDir, &cfg.UploadDir)
	overlay(jc.StorageBackend, &cfg.StorageBackend)
	overlay(jc.ReferenceUsername, &cfg.ReferenceUsername)
	overlay(jc.ReferencePassword, &cfg.ReferencePassword)
	overlay(jc.S3RootUser, &cfg.S3RootUser)
	overlay(jc.S3RootPassword, &cfg.S3RootPassword)
	overlay(jc.S3Bucket, &cfg.S3Bucket)
	overlay(jc.S3Region, &cfg.S3Region)
	overlay(jc.S3BaseEndpoint, &cfg.S3BaseEndpoint)
	overlay(jc.LogLevel, &cfg.LogLevel)

	if jc.TokenValidityDuration != nil {
		cfg.TokenValidityDuration = jc.TokenValidityDuration.Duration
	}
	if jc.PresignTTL != nil {
		cfg.PresignTTL = jc.PresignTTL.Duration
	}
	if jc.MaxUploadSize != nil {
		cfg.MaxUploadSize = *jc.MaxUploadSize
	}
	if jc.CORSOrigins != nil {
		cfg.CORSOrigins = jc.CORSOrigins
	}
	if jc.UniqueNames != nil {
		cfg.UniqueNames = *jc.UniqueNames
	}
}
