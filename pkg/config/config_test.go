package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	apperr "github.com/corsserve/corsserve/pkg/errors"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestDefaults(t *testing.T) {
	c, err := Load(nil)
	require.NoError(t, err)

	require.Equal(t, "localhost", c.Host)
	require.Equal(t, 8000, c.Port)
	require.Equal(t, ".", c.Root)
	require.Equal(t, "localhost:8000", c.Addr())
	require.Equal(t, "http://localhost:8000/", c.URL())
	require.Equal(t, 5*time.Second, c.ShutdownTimeout)
	require.Equal(t, "console", c.LogFormat)
	require.Zero(t, c.RateLimitRPS)
	require.False(t, c.Compress)
}

func TestEnvOverrides(t *testing.T) {
	root := t.TempDir()
	t.Setenv("CORSSERVE_HOST", "127.0.0.1")
	t.Setenv("CORSSERVE_PORT", "9090")
	t.Setenv("CORSSERVE_ROOT", root)
	t.Setenv("CORSSERVE_SHUTDOWN_TIMEOUT", "1s")
	t.Setenv("CORSSERVE_LOG_FORMAT", "json")
	t.Setenv("CORSSERVE_COMPRESS", "true")

	c, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9090", c.Addr())
	require.Equal(t, root, c.Root)
	require.Equal(t, time.Second, c.ShutdownTimeout)
	require.Equal(t, "json", c.LogFormat)
	require.True(t, c.Compress)
}

func TestFlagsBeatEnv(t *testing.T) {
	t.Setenv("CORSSERVE_PORT", "9090")

	c, err := Load(newFlags(t, "--port", "7000", "--rate-limit", "2.5"))
	require.NoError(t, err)
	require.Equal(t, 7000, c.Port)
	require.Equal(t, 2.5, c.RateLimitRPS)
}

func TestUnsetFlagsKeepEnv(t *testing.T) {
	t.Setenv("CORSSERVE_PORT", "9090")

	c, err := Load(newFlags(t))
	require.NoError(t, err)
	require.Equal(t, 9090, c.Port)
}

func TestInvalidPort(t *testing.T) {
	t.Setenv("CORSSERVE_PORT", "70000")

	_, err := Load(nil)
	require.Error(t, err)
	require.True(t, apperr.IsCode(err, apperr.CodeInvalid))
}

func TestMissingRoot(t *testing.T) {
	t.Setenv("CORSSERVE_ROOT", "/definitely/not/a/real/dir")

	_, err := Load(nil)
	require.True(t, apperr.IsCode(err, apperr.CodeInvalid))
}

func TestBadShutdownTimeout(t *testing.T) {
	t.Setenv("CORSSERVE_SHUTDOWN_TIMEOUT", "soon")

	_, err := Load(nil)
	require.True(t, apperr.IsCode(err, apperr.CodeInvalid))
}

func writeConfigFile(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "corsserve.yaml"), []byte(content), 0o644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestConfigFile(t *testing.T) {
	writeConfigFile(t, "port: 9191\nshutdown_timeout: 2s\n")

	c, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, 9191, c.Port)
	require.Equal(t, 2*time.Second, c.ShutdownTimeout)
}

func TestConfigFileIntegerTimeout(t *testing.T) {
	writeConfigFile(t, "shutdown_timeout: 10\n")

	c, err := Load(nil)
	require.NoError(t, err)
	require.Positive(t, c.ShutdownTimeout)
}

func TestMalformedConfigFile(t *testing.T) {
	writeConfigFile(t, "port: [9191\n")

	_, err := Load(nil)
	require.Error(t, err)
	require.True(t, apperr.IsCode(err, apperr.CodeInvalid), err.Error())
}
