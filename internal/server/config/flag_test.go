package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-d", "postgres://db", "-s", "secret",
				"-t", "15m", "-b", "8", "-w", "public", "-o", "https://x.example, https://y.example", "-l", "error",
			},
			expected: &Config{
				HTTPAddr:       "127.0.0.1:9090",
				DatabaseDSN:    "postgres://db",
				SecretKey:      "secret",
				AccessTokenTTL: 15 * time.Minute,
				BcryptCost:     8,
				StaticDir:      "public",
				CORSOrigins:    []string{"https://x.example", "https://y.example"},
				LogLevel:       "error",
			},
		},
		{
			name:     "foreign flags are ignored",
			args:     []string{"-config", "x.json", "-v", "-a=:1234"},
			expected: &Config{HTTPAddr: ":1234"},
		},
		{
			name:    "bad duration",
			args:    []string{"-t", "ten"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			err := parseFlags(config, tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			if diff := cmp.Diff(tt.expected, config); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a,,b ,"))
}
