package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(WithLookup(noEnv))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "/api/inquiry-templates/share/{token}", cfg.Backend.TemplatePath)
	require.Equal(t, "ko", cfg.Render.Locale)
	require.Error(t, cfg.RequireBackend())
}

func TestLoad_Layers(t *testing.T) {
	file := writeFile(t, "inquiry.yaml", `
backend:
  base_url: https://crm.example.com
server:
  addr: ":9000"
  read_timeout: 5s
log:
  level: debug
render:
  theme: acme
contract:
  validate: true
`)
	envFile := writeFile(t, ".env", "INQUIRY_SERVER_ADDR=:9100\nINQUIRY_RENDER_LOCALE=en\n")
	env := map[string]string{
		"INQUIRY_SERVER_ADDR":       ":9200",
		"INQUIRY_CONTRACT_VALIDATE": "false",
	}

	cfg, err := Load(
		WithFile(file),
		WithEnvFile(envFile),
		WithLookup(func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		}),
	)
	require.NoError(t, err)

	require.Equal(t, "https://crm.example.com", cfg.Backend.BaseURL)
	require.Equal(t, ":9200", cfg.Server.Addr)
	require.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "en", cfg.Render.Locale)
	require.Equal(t, "acme", cfg.Render.Theme)
	require.False(t, cfg.Contract.Validate)
	require.NoError(t, cfg.RequireBackend())
}

func TestLoad_MissingEnvFileIgnored(t *testing.T) {
	_, err := Load(WithLookup(noEnv), WithEnvFile(filepath.Join(t.TempDir(), ".env")))
	require.NoError(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"relative url":  {"INQUIRY_BACKEND_BASE_URL": "crm.local"},
		"bad duration":  {"INQUIRY_SERVER_READ_TIMEOUT": "soon"},
		"bad bool":      {"INQUIRY_CONTRACT_VALIDATE": "maybe"},
		"missing token": {"INQUIRY_BACKEND_TEMPLATE_PATH": "/api/templates"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(WithLookup(func(key string) (string, bool) {
				v, ok := env[key]
				return v, ok
			}))
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(WithLookup(noEnv), WithFile(filepath.Join(t.TempDir(), "nope.yaml")))
	require.Error(t, err)
}
