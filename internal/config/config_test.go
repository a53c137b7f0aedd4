package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-library-checkin/internal/config"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `{
	"wskey": "file-key",
	"secret": "file-secret",
	"scope": "WMS_CIRCULATION WMS_Availability",
	"oauth_server_token": "https://oauth.oclc.org/token",
	"discovery_api_url": "https://americas.discovery.api.oclc.org/worldcat/search/v2/",
	"institution_id": "128807",
	"registry_id": "129479",
	"ncip_api_url": "https://circ.sd00.worldcat.org/ncip"
}`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad_FileValues(t *testing.T) {
	c, err := config.Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	require.Equal(t, "file-key", c.GetWSKey())
	require.Equal(t, "file-secret", c.GetSecret())
	require.Equal(t, "WMS_CIRCULATION WMS_Availability", c.GetScope())
	require.Equal(t, "https://oauth.oclc.org/token", c.GetTokenURL())
	require.Equal(t, "https://americas.discovery.api.oclc.org/worldcat/search/v2", c.GetDiscoveryURL())
	require.Equal(t, "https://128807.share.worldcat.org", c.GetCirculationBaseURL())
	require.Equal(t, "https://worldcat.org/circ/availability/sru/service", c.GetAvailabilityURL())
	require.Equal(t, "Version 2011", c.GetNCIPProfile())
	require.NoError(t, config.Validate(c))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("OCLC_WSKEY", "env-key")
	t.Setenv("OCLC_CIRCULATION_URL_TEMPLATE", "http://127.0.0.1:9999/")

	c, err := config.Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	require.Equal(t, "env-key", c.GetWSKey())
	require.Equal(t, "file-secret", c.GetSecret())
	require.Equal(t, "http://127.0.0.1:9999", c.GetCirculationBaseURL())
}

func TestLoad_MissingFile(t *testing.T) {
	c, err := config.Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	err = config.Validate(c)
	require.Error(t, err)
	require.Contains(t, err.Error(), "wskey")
	require.Contains(t, err.Error(), "ncip_api_url")
}

func TestLoad_InvalidJSON(t *testing.T) {
	_, err := config.Load(writeConfig(t, "{not json"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid JSON")
}

func TestUpstreamDefaults(t *testing.T) {
	c := config.New()
	require.Equal(t, 10*time.Second, c.GetHTTPTimeout())
	require.Equal(t, 3, c.GetMaxAttempts())
	require.Equal(t, ":8080", c.GetPort())

	t.Setenv("MAX_ATTEMPTS", "0")
	require.Equal(t, 3, c.GetMaxAttempts())

	t.Setenv("HTTP_TIMEOUT", "2s")
	require.Equal(t, 2*time.Second, c.GetHTTPTimeout())
}

func TestCorsOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://desk.example.org, *")
	origins := config.New().GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("https://desk.example.org"))
	require.True(t, origins.IsAllowedOrigin("*"))
	require.False(t, origins.IsAllowedOrigin("https://other.example.org"))
}
