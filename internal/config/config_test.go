package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, DriverMongo, cfg.DBDriver)
	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, 720*time.Hour, cfg.JWTExpire)
	assert.Equal(t, 30*24*time.Hour, cfg.CookieTTL())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "http://localhost:5000/api/v1/auth/resetpassword", cfg.ResetURL)
}

func TestLoad_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "DB_DRIVER=sqlite\nJWT_COOKIE_EXPIRE=2\nKAFKA_BROKERS=a:1,b:2\nSMTP_HOST=smtp.test\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Cleanup(func() {
		for _, k := range []string{"DB_DRIVER", "JWT_COOKIE_EXPIRE", "KAFKA_BROKERS", "SMTP_HOST"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 48*time.Hour, cfg.CookieTTL())
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.KafkaBrokers)
	assert.Equal(t, "smtp.test", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "cassandra")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoad_ResetURL(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{name: "https", value: "https://devcamper.io/api/v1/auth/resetpassword", valid: true},
		{name: "relative", value: "/api/v1/auth/resetpassword"},
		{name: "other scheme", value: "javascript:alert(1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RESET_URL", tt.value)

			cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			if !tt.valid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, cfg.ResetURL)
		})
	}
}
