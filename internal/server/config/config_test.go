package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, ":5000", c.EndpointAddr)
	assert.Empty(t, c.SecretKey)
	assert.Equal(t, 60*time.Minute, c.TokenValidityDuration)
	assert.Equal(t, "uploads", c.UploadDir)
	assert.Equal(t, "fs", c.StorageBackend)
	assert.Equal(t, int64(10<<20), c.MaxUploadSize)
	assert.Equal(t, "user", c.ReferenceUsername)
	assert.Equal(t, "password", c.ReferencePassword)
	assert.Equal(t, 15*time.Minute, c.PresignTTL)
	assert.Equal(t, []string{"*"}, c.CORSOrigins)
}

func TestLoad_GeneratesSecretWhenEmpty(t *testing.T) {
	a := load(nil, env(nil))
	b := load(nil, env(nil))

	assert.Len(t, a.SecretKey, 64)
	assert.NotEqual(t, a.SecretKey, b.SecretKey)

	c := load([]string{"-s", "fixed"}, env(nil))
	assert.Equal(t, "fixed", c.SecretKey)
}

func TestParseEnv(t *testing.T) {
	cfg := defaults()
	parseEnv(cfg, env(map[string]string{
		"ADMIN_ENDPOINT_ADDR":           ":8080",
		"ADMIN_TOKEN_VALIDITY_DURATION": "90s",
		"ADMIN_STORAGE_BACKEND":         "s3",
		"ADMIN_MAX_UPLOAD_SIZE":         "1024",
		"ADMIN_UNIQUE_NAMES":            "true",
		"ADMIN_S3_BUCKET":               "avatars",
		"ADMIN_CORS_ORIGINS":            "http://a.test, http://b.test,",
		"ADMIN_LOG_LEVEL":               "",
		"ENDPOINT_ADDR":                 ":1",
	}))

	want := defaults()
	want.EndpointAddr = ":8080"
	want.TokenValidityDuration = 90 * time.Second
	want.StorageBackend = "s3"
	want.MaxUploadSize = 1024
	want.UniqueNames = true
	want.S3Bucket = "avatars"
	want.CORSOrigins = []string{"http://a.test", "http://b.test"}
	assert.Empty(t, cmp.Diff(want, cfg))

	require.Panics(t, func() {
		parseEnv(defaults(), env(map[string]string{"ADMIN_PRESIGN_TTL": "soon"}))
	})
	require.Panics(t, func() {
		parseEnv(defaults(), env(map[string]string{"ADMIN_UNIQUE_NAMES": "maybe"}))
	})
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ADMIN_DOTENV_PROBE=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("ADMIN_DOTENV_PROBE") })

	loadDotEnv(path)
	assert.Equal(t, "from-file", os.Getenv("ADMIN_DOTENV_PROBE"))

	require.NotPanics(t, func() { loadDotEnv(filepath.Join(t.TempDir(), "missing.env")) })
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expected    *Config
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-s", "secret", "-t", "5", "-u", "/srv/up",
				"-b", "s3", "-m", "2", "-ru", "root", "-rp", "toor", "-l", "debug",
			},
			expected: func() *Config {
				c := defaults()
				c.EndpointAddr = "127.0.0.1:9090"
				c.SecretKey = "secret"
				c.TokenValidityDuration = 5 * time.Minute
				c.UploadDir = "/srv/up"
				c.StorageBackend = "s3"
				c.MaxUploadSize = 2 << 20
				c.ReferenceUsername = "root"
				c.ReferencePassword = "toor"
				c.LogLevel = "debug"
				return c
			}(),
		},
		{
			name:     "unknown flags ignored",
			args:     []string{"-x", "1", "-config", "ignored.json"},
			expected: defaults(),
		},
		{name: "bad minutes", args: []string{"-t", "soon"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg, tt.args) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

func TestParseFlags_KeepsSubUnitValuesWhenAbsent(t *testing.T) {
	cfg := defaults()
	cfg.TokenValidityDuration = 90 * time.Second
	cfg.MaxUploadSize = 1500

	parseFlags(cfg, []string{"-a", ":1"})

	assert.Equal(t, 90*time.Second, cfg.TokenValidityDuration)
	assert.Equal(t, int64(1500), cfg.MaxUploadSize)
}

func TestParseJson(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"endpoint_addr":   ":7000",
		"presign_ttl":     "1m",
		"max_upload_size": 4096,
		"unique_names":    true,
		"cors_origins":    []string{"http://ui.test"},
	})

	cfg := defaults()
	parseJson(cfg, []string{"-c", path})

	want := defaults()
	want.EndpointAddr = ":7000"
	want.PresignTTL = time.Minute
	want.MaxUploadSize = 4096
	want.UniqueNames = true
	want.CORSOrigins = []string{"http://ui.test"}
	assert.Empty(t, cmp.Diff(want, cfg))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"presign_ttl": true}`), 0o600))
	require.Panics(t, func() { parseJson(defaults(), []string{"-config", bad}) })
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{"endpoint_addr": ":7000", "upload_dir": "json-up"})

	cfg := load(
		[]string{"-c", path, "-a", ":9000"},
		env(map[string]string{"ADMIN_UPLOAD_DIR": "env-up", "ADMIN_S3_REGION": "eu-west-1"}),
	)

	assert.Equal(t, ":9000", cfg.EndpointAddr)
	assert.Equal(t, "json-up", cfg.UploadDir)
	assert.Equal(t, "eu-west-1", cfg.S3Region)
}
