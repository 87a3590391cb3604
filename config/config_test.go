package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, int64(2*1024*1024), cfg.Media.MaxPhotoBytes)
	assert.Equal(t, 14*24*time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.Access.CategoryRequiresAdmin)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
server:
  port: "9000"
  base_path: /desk
database:
  name: desk_test
access:
  category_requires_admin: true
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), content, 0o600))
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("SESSION_TTL", "1h")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "/desk", cfg.Server.BasePath)
	assert.Equal(t, "desk_test", cfg.Database.Name)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Access.CategoryRequiresAdmin)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("server: [unclosed"), 0o600))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestValidate_SecretKey(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		secret  string
		wantErr bool
	}{
		{name: "default key with postgres", driver: "postgres", secret: DefaultSecretKey, wantErr: true},
		{name: "shipped config key with postgres", driver: "postgres", secret: "please-change-this-secret", wantErr: true},
		{name: "empty key with postgres", driver: "postgres", secret: "", wantErr: true},
		{name: "default key in memory", driver: "memory", secret: DefaultSecretKey},
		{name: "real key with postgres", driver: "postgres", secret: "b7f0c2e4a9d14b1e8c3f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.Database.Driver = tt.driver
			cfg.Session.SecretKey = tt.secret

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_DefaultsRefused(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, cfg.Validate(), "postgres with the built-in key must not start")
}
