package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	addStr := func(s string, fn func(string) Option) {
		if s != "" {
			res = append(res, fn(s))
		}
	}
	addInt := func(i int, fn func(int) Option) {
		if i > 0 {
			res = append(res, fn(i))
		}
	}

	addStr(c.Odoo.URL, OptOdooURL)
	addStr(c.Odoo.ReferenceDatabase, OptOdooReferenceDatabase)
	addStr(c.Odoo.User, OptOdooUser)
	addStr(c.Odoo.Password, OptOdooPassword)
	addInt(c.Odoo.TimeoutSec, OptOdooTimeoutSec)
	addInt(c.Odoo.Retries, OptOdooRetries)

	addStr(c.Database.Host, OptDatabaseHost)
	addInt(c.Database.Port, OptDatabasePort)
	addStr(c.Database.User, OptDatabaseUser)
	addStr(c.Database.Password, OptDatabasePassword)
	addStr(c.Database.Database, OptDatabaseDatabase)
	addStr(c.Database.SSLMode, OptDatabaseSSLMode)

	addStr(c.Schema.NamingPattern, OptSchemaNamingPattern)
	addStr(c.Schema.TablePrefix, OptSchemaTablePrefix)
	addStr(c.Schema.RulesFile, OptSchemaRulesFile)

	addStr(c.Installer.Host, OptInstallerHost)
	addInt(c.Installer.Port, OptInstallerPort)
	addStr(c.Installer.User, OptInstallerUser)
	addStr(c.Installer.Password, OptInstallerPassword)
	addStr(c.Installer.PgDump, OptInstallerPgDump)
	addStr(c.Installer.Createdb, OptInstallerCreatedb)
	addStr(c.Installer.Psql, OptInstallerPsql)
	addStr(c.Installer.DatabasePattern, OptInstallerDatabasePattern)
	addInt(c.Installer.TimeoutMin, OptInstallerTimeoutMin)

	addInt(c.Discovery.WorkflowLimit, OptDiscoveryWorkflowLimit)
	addInt(c.Discovery.BILimit, OptDiscoveryBILimit)

	addInt(c.Server.Port, OptServerPort)
	if len(c.Server.AllowOrigins) > 0 {
		res = append(res, OptServerAllowOrigins(c.Server.AllowOrigins))
	}

	addStr(c.Cache.RedisAddr, OptCacheRedisAddr)
	addStr(c.Cache.RedisPassword, OptCacheRedisPassword)
	addInt(c.Cache.RedisDB, OptCacheRedisDB)
	addInt(c.Cache.TTLSec, OptCacheTTLSec)

	addStr(c.Log.Format, OptLogFormat)
	addStr(c.Log.Level, OptLogLevel)
	addStr(c.Log.Destination, OptLogDestination)

	addInt(c.JobsNumber, OptJobsNumber)
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidPattern(name, s string) bool {
	if !isValidString(name, s) {
		return false
	}
	res := strings.Contains(s, SolutionPlaceholder)
	if !res {
		gn.Warn(
			"<em>%s</em> must contain %s, ignoring '%s'",
			name, SolutionPlaceholder, s,
		)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
