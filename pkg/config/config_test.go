package config_test

import (
	"net/url"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/fayvad/fbs/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "fbs"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "fbs"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "fbs", "logs"),
		},
		{
			msg: "config file",
			fn:  config.ConfigFilePath,
			res: filepath.Join(tempHome, ".config", "fbs", "config.yaml"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()
	require.NotNil(t, cfg)

	assert.Equal(t, "http://localhost:8069", cfg.Odoo.URL)
	assert.Equal(t, 1, cfg.Odoo.Retries)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "fbs_{solution_name}_db", cfg.Schema.NamingPattern)
	assert.Equal(t, "fbs_", cfg.Schema.TablePrefix)
	assert.Equal(t, 20, cfg.Discovery.WorkflowLimit)
	assert.Equal(t, 15, cfg.Discovery.BILimit)
	assert.Empty(t, cfg.Cache.RedisAddr)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
}

func TestSolutionDatabase(t *testing.T) {
	tests := []struct {
		msg      string
		opts     []config.Option
		solution string
		db       string
		odooDB   string
	}{
		{
			msg:      "defaults",
			solution: "acme",
			db:       "fbs_acme_db",
			odooDB:   "acme_odoo",
		},
		{
			msg: "custom patterns",
			opts: []config.Option{
				config.OptSchemaNamingPattern("tenant_{solution_name}"),
				config.OptInstallerDatabasePattern("odoo_{solution_name}"),
			},
			solution: "acme",
			db:       "tenant_acme",
			odooDB:   "odoo_acme",
		},
		{
			msg: "pattern without placeholder is ignored",
			opts: []config.Option{
				config.OptSchemaNamingPattern("static_db"),
			},
			solution: "acme",
			db:       "fbs_acme_db",
			odooDB:   "acme_odoo",
		},
	}

	for _, v := range tests {
		cfg := config.New()
		cfg.Update(v.opts)
		assert.Equal(t, v.db, cfg.SolutionDatabase(v.solution), v.msg)
		assert.Equal(t, v.odooDB, cfg.SolutionOdooDatabase(v.solution), v.msg)
	}
}

func TestOptionsRejectInvalid(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptOdooURL("  "),
		config.OptDatabasePort(-1),
		config.OptDatabaseSSLMode("sometimes"),
		config.OptLogDestination("nowhere"),
		config.OptCacheRedisDB(-3),
		config.OptJobsNumber(0),
	})

	def := config.New()
	assert.Equal(t, def.Odoo.URL, cfg.Odoo.URL)
	assert.Equal(t, def.Database.Port, cfg.Database.Port)
	assert.Equal(t, def.Database.SSLMode, cfg.Database.SSLMode)
	assert.Equal(t, def.Log.Destination, cfg.Log.Destination)
	assert.Equal(t, 0, cfg.Cache.RedisDB)
	assert.Equal(t, def.JobsNumber, cfg.JobsNumber)
}

func TestOptionsNormalize(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptOdooURL(" https://erp.example.com/ "),
		config.OptDatabaseSSLMode("REQUIRE"),
		config.OptLogLevel(" Debug "),
	})
	assert.Equal(t, "https://erp.example.com", cfg.Odoo.URL)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestToOptionsRoundTrip(t *testing.T) {
	src := config.New()
	src.Update([]config.Option{
		config.OptOdooURL("http://odoo:8069"),
		config.OptOdooReferenceDatabase("ref"),
		config.OptDatabaseHost("db"),
		config.OptSchemaTablePrefix("x_"),
		config.OptInstallerTimeoutMin(5),
		config.OptDiscoveryBILimit(3),
		config.OptServerPort(9000),
		config.OptServerAllowOrigins([]string{"https://app.example.com/", " "}),
		config.OptCacheRedisAddr("redis:6379"),
		config.OptCacheRedisDB(2),
		config.OptJobsNumber(3),
		config.OptHomeDir("/tmp/home"),
	})

	dst := config.New()
	dst.Update(src.ToOptions())

	assert.Equal(t, src.Odoo, dst.Odoo)
	assert.Equal(t, src.Database, dst.Database)
	assert.Equal(t, src.Schema, dst.Schema)
	assert.Equal(t, src.Installer, dst.Installer)
	assert.Equal(t, src.Discovery, dst.Discovery)
	assert.Equal(t, src.Server, dst.Server)
	assert.Equal(t, []string{"https://app.example.com"}, dst.Server.AllowOrigins)
	assert.Equal(t, src.Cache, dst.Cache)
	assert.Equal(t, src.JobsNumber, dst.JobsNumber)
	assert.Empty(t, dst.HomeDir, "home dir is runtime only")
}

func TestDatabaseDSN(t *testing.T) {
	tests := []struct {
		msg, password, ssl, query string
	}{
		{"plain", "secret", "disable", "sslmode=disable"},
		{"special", "p@ss/w:rd?#%", "require", "sslmode=require"},
		{"no ssl", "x", "", ""},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			d := config.DatabaseConfig{
				Host:     "db.local",
				Port:     5433,
				User:     "fbs user",
				Password: v.password,
				Database: "fbs",
				SSLMode:  v.ssl,
			}
			u, err := url.Parse(d.DSN())
			require.NoError(t, err)
			assert.Equal(t, "postgres", u.Scheme)
			assert.Equal(t, "db.local:5433", u.Host)
			assert.Equal(t, "/fbs", u.Path)
			assert.Equal(t, "fbs user", u.User.Username())
			pass, ok := u.User.Password()
			assert.True(t, ok)
			assert.Equal(t, v.password, pass)
			assert.Equal(t, v.query, u.RawQuery)
		})
	}
}
