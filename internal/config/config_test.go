package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"ADDR", "API_BASE", "DATA_DIR", "GEOJSON_URL", "GEOJSON_PATH", "GEOJSON_TIMEOUT_S", "REDIS_ENABLE", "PG_ENABLE", "RATE_LIMIT_QPS", "TLS_ENABLE", "TLS_CERT_PATH"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, ":8050", c.Addr)
	assert.Equal(t, "/api", c.APIBase)
	assert.Equal(t, "processed_data", c.DataDir)
	assert.Equal(t, DefaultGeoJSONURL, c.GeoJSONURL)
	assert.Equal(t, "ZCTA5CE10", c.GeoJSONIDProperty)
	assert.Equal(t, 30*time.Second, c.GeoJSONTimeout)
	assert.Equal(t, DefaultRaceGroup, c.DefaultRaceGroup)
	assert.False(t, c.RedisEnable)
	assert.False(t, c.PGEnable)
	assert.Equal(t, 200, c.RateLimitQPS)
	assert.False(t, c.TLSEnable)
	assert.Equal(t, filepath.Join("data", "certs", "server.crt"), c.TLSCertPath)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_BASE", "/dash/")
	t.Setenv("GEOJSON_TIMEOUT_S", "5")
	t.Setenv("RATE_LIMIT_QPS", "-3")
	t.Setenv("FIGURE_CACHE_TTL_S", "abc")
	t.Setenv("REDIS_ENABLE", "true")

	c := Load()
	assert.Equal(t, "/dash", c.APIBase)
	assert.Equal(t, 5*time.Second, c.GeoJSONTimeout)
	assert.Equal(t, 200, c.RateLimitQPS)
	assert.Equal(t, time.Hour, c.FigureCacheTTL)
	assert.True(t, c.RedisEnable)
}

func TestLoad_APIBaseNormalized(t *testing.T) {
	t.Setenv("API_BASE", "/")
	assert.Equal(t, "/api", Load().APIBase)
	t.Setenv("API_BASE", "dash")
	assert.Equal(t, "/dash", Load().APIBase)
}

func TestDataPath(t *testing.T) {
	c := Config{DataDir: "processed_data"}
	assert.Equal(t, filepath.Join("processed_data", "demo_age.csv"), c.DataPath("demo_age.csv"))
	abs := filepath.Join(string(filepath.Separator), "srv", "demo_age.csv")
	assert.Equal(t, abs, c.DataPath(abs))
}
