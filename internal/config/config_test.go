package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing supabase url is fatal", func(t *testing.T) {
		t.Setenv("SUPABASE_URL", "")
		t.Setenv("SUPABASE_ANON_KEY", "anon")

		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SUPABASE_URL")
	})

	t.Run("missing anon key is fatal", func(t *testing.T) {
		t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
		t.Setenv("SUPABASE_ANON_KEY", "")

		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SUPABASE_ANON_KEY")
	})

	t.Run("environment alone is enough", func(t *testing.T) {
		t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
		t.Setenv("SUPABASE_ANON_KEY", "anon")
		t.Setenv("PORT", "9090")
		t.Setenv("APP_ENV", "development")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.False(t, cfg.IsProduction())
		assert.False(t, cfg.RateLimit.Enabled)
	})

	t.Run("yaml file is overridden by environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 3000
supabase:
  url: https://file.supabase.co
  anon_key: file-anon
rate_limit:
  enabled: true
  requests_per_second: 5
`), 0o600))

		t.Setenv("SUPABASE_URL", "https://env.supabase.co")
		t.Setenv("SUPABASE_ANON_KEY", "")
		t.Setenv("PORT", "")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "https://env.supabase.co", cfg.Supabase.URL)
		assert.Equal(t, "file-anon", cfg.Supabase.AnonKey)
		assert.Equal(t, 3000, cfg.Server.Port)
		assert.True(t, cfg.RateLimit.Enabled)
		assert.Equal(t, 5.0, cfg.RateLimit.RequestsPerSecond)
	})

	t.Run("absent file is not an error", func(t *testing.T) {
		t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
		t.Setenv("SUPABASE_ANON_KEY", "anon")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.True(t, cfg.IsProduction())
	})
}
