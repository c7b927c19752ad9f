package ioconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fayvad/fbs/internal/ioconfig"
	"github.com/fayvad/fbs/pkg/config"
	"github.com/fayvad/fbs/pkg/errcode"
	"github.com/fayvad/fbs/pkg/templates"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestLoadTemplate(t *testing.T) {
	path := writeFile(t, "config.yaml", templates.ConfigYAML)
	res, err := ioconfig.Load(path)
	require.NoError(t, err)

	cfg := config.New()
	cfg.Update(res.ToOptions())
	def := config.New()
	assert.Equal(t, def.Odoo, cfg.Odoo)
	assert.Equal(t, def.Schema, cfg.Schema)
}

func TestLoadEnv(t *testing.T) {
	path := writeFile(t, "config.yaml", `
odoo:
  url: http://odoo.local:8069
  reference_database: reference
server:
  port: 9000
`)
	t.Setenv("FBS_ODOO_REFERENCE_DATABASE", "golden")
	t.Setenv("FBS_CACHE_REDIS_ADDR", "redis:6379")
	t.Setenv("FBS_SERVER_ALLOW_ORIGINS", "https://a.example.com,https://b.example.com")

	res, err := ioconfig.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://odoo.local:8069", res.Odoo.URL)
	assert.Equal(t, "golden", res.Odoo.ReferenceDatabase, "env wins over file")
	assert.Equal(t, "redis:6379", res.Cache.RedisAddr, "env without file value")
	assert.Equal(t, 9000, res.Server.Port)
	assert.Equal(t,
		[]string{"https://a.example.com", "https://b.example.com"},
		res.Server.AllowOrigins)
}

func TestLoadMissing(t *testing.T) {
	_, err := ioconfig.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.ReadFileError, gnErr.Code)
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, ioconfig.LoadDotEnv(filepath.Join(t.TempDir(), ".env")))

	t.Setenv("FBS_ODOO_USER", "")
	require.NoError(t, os.Unsetenv("FBS_ODOO_USER"))
	t.Setenv("FBS_LOG_LEVEL", "error")

	path := writeFile(t, ".env", "FBS_ODOO_USER=robot\nFBS_LOG_LEVEL=debug\n")
	require.NoError(t, ioconfig.LoadDotEnv(path))
	assert.Equal(t, "robot", os.Getenv("FBS_ODOO_USER"))
	assert.Equal(t, "error", os.Getenv("FBS_LOG_LEVEL"), "set variables win")
}
