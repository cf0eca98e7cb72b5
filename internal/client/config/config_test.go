package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func parse(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	var f Flags
	f.Register(fs)
	require.NoError(t, fs.Parse(args))
	return Load(fs, &f)
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8081", c.APIBaseURL)
	assert.Equal(t, "skillshare.db", c.CachePath)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
}

func TestLoad_DefaultsWithoutArgs(t *testing.T) {
	cfg, err := parse(t)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, cfg)
}

func TestLoad_JSONOverlaysDefaults(t *testing.T) {
	path := writeTempConfig(t, `{"api_base_url":"https://api.example.com","request_timeout":"3s"}`)

	cfg, err := parse(t, "--config", path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "skillshare.db", cfg.CachePath, "absent keys keep defaults")
}

func TestLoad_JSONNumericDuration(t *testing.T) {
	path := writeTempConfig(t, `{"request_timeout":2000000000}`)

	cfg, err := parse(t, "-c", path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
}

func TestLoad_FlagsBeatJSON(t *testing.T) {
	path := writeTempConfig(t, `{"api_base_url":"https://json.example.com","log_level":"warn"}`)

	cfg, err := parse(t, "-c", path, "-a", "https://flag.example.com", "--timeout", "1m")
	require.NoError(t, err)

	assert.Equal(t, "https://flag.example.com", cfg.APIBaseURL)
	assert.Equal(t, time.Minute, cfg.RequestTimeout)
	assert.Equal(t, "warn", cfg.LogLevel, "unset flag must not clobber JSON value")
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := parse(t, "-c", filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := parse(t, "-c", writeTempConfig(t, `{"api_base_url":`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config file")
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := parse(t, "-c", writeTempConfig(t, `{"request_timeout":"soon"}`))
		require.Error(t, err)
	})

	t.Run("relative url", func(t *testing.T) {
		_, err := parse(t, "--api", "localhost")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "absolute URL")
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		_, err := parse(t, "--timeout", "0s")
		require.Error(t, err)
	})

	t.Run("empty cache path", func(t *testing.T) {
		_, err := parse(t, "--cache", "")
		require.Error(t, err)
	})
}
