package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "short flag with separate value",
			args:    []string{"-c", "conf.json", "-a", "http://localhost:5000"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-c", "conf.json"},
		},
		{
			name:    "flag with equals",
			args:    []string{"-config=alt.json", "-a", "x"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-config=alt.json"},
		},
		{
			name:    "unknown flags ignored",
			args:    []string{"-x", "1", "-y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "flag without value at end",
			args:    []string{"-s"},
			allowed: []string{"-s"},
			want:    []string{"-s"},
		},
		{
			name:    "next dash token is not a value",
			args:    []string{"-t", "-l", "debug"},
			allowed: []string{"-t", "-l"},
			want:    []string{"-t", "-l", "debug"},
		},
		{
			name:    "two-letter flags kept",
			args:    []string{"-ru", "admin", "-rp=secret", "-u", "up"},
			allowed: []string{"-ru", "-rp"},
			want:    []string{"-ru", "admin", "-rp=secret"},
		},
		{
			name:    "repeated flag preserved in order",
			args:    []string{"-a", "one", "-a", "two"},
			allowed: []string{"-a"},
			want:    []string{"-a", "one", "-a", "two"},
		},
		{
			name:    "empty args",
			args:    nil,
			allowed: []string{"-a"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigPath(t *testing.T) {
	t.Run("short -c", func(t *testing.T) {
		assert.Equal(t, "/path/short.json", ConfigPath([]string{"-c", "/path/short.json"}))
	})

	t.Run("long -config among other flags", func(t *testing.T) {
		assert.Equal(t, "/path/long.json", ConfigPath([]string{"-a", "x", "-config", "/path/long.json", "-t", "5"}))
	})

	t.Run("absent", func(t *testing.T) {
		assert.Empty(t, ConfigPath([]string{"-x", "1"}))
	})

	t.Run("last wins", func(t *testing.T) {
		assert.Equal(t, "/path/2.json", ConfigPath([]string{"-c", "/path/1.json", "-config=/path/2.json"}))
	})
}
