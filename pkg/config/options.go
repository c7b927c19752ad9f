package config

import (
	"strings"

	"github.com/gnames/gn"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptOdooURL sets the base URL of the Odoo server.
func OptOdooURL(s string) Option {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	return func(c *Config) {
		if isValidString("Odoo URL", s) {
			c.Odoo.URL = s
		}
	}
}

// OptOdooReferenceDatabase sets the Odoo database used for metadata
// discovery and as the template of solution databases.
func OptOdooReferenceDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Odoo Reference Database", s) {
			c.Odoo.ReferenceDatabase = s
		}
	}
}

// OptOdooUser sets the Odoo login.
func OptOdooUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Odoo User", s) {
			c.Odoo.User = s
		}
	}
}

// OptOdooPassword sets the Odoo password or API key.
func OptOdooPassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Odoo Password", s) {
			c.Odoo.Password = s
		}
	}
}

// OptOdooTimeoutSec sets the timeout of a single RPC call in seconds.
func OptOdooTimeoutSec(i int) Option {
	return func(c *Config) {
		if isValidInt("Odoo Timeout", i) {
			c.Odoo.TimeoutSec = i
		}
	}
}

// OptOdooRetries sets how many times a call is attempted when the
// transport fails.
func OptOdooRetries(i int) Option {
	return func(c *Config) {
		if isValidInt("Odoo Retries", i) {
			c.Odoo.Retries = i
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the database that keeps FBS tracking records.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptSchemaNamingPattern sets the pattern of solution database names.
// The pattern must contain {solution_name}.
func OptSchemaNamingPattern(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidPattern("Schema Naming Pattern", s) {
			c.Schema.NamingPattern = s
		}
	}
}

// OptSchemaTablePrefix sets the prefix of FBS system tables.
func OptSchemaTablePrefix(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Schema Table Prefix", s) {
			c.Schema.TablePrefix = s
		}
	}
}

// OptSchemaRulesFile sets a YAML file with custom rule tables.
func OptSchemaRulesFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Schema Rules File", s) {
			c.Schema.RulesFile = s
		}
	}
}

// OptInstallerHost sets the host of PostgreSQL with Odoo databases.
func OptInstallerHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Installer Host", s) {
			c.Installer.Host = s
		}
	}
}

// OptInstallerPort sets the port of PostgreSQL with Odoo databases.
func OptInstallerPort(i int) Option {
	return func(c *Config) {
		if isValidInt("Installer Port", i) {
			c.Installer.Port = i
		}
	}
}

// OptInstallerUser sets the PostgreSQL user for Odoo databases.
func OptInstallerUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Installer User", s) {
			c.Installer.User = s
		}
	}
}

// OptInstallerPassword sets the PostgreSQL password for Odoo databases.
func OptInstallerPassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Installer Password", s) {
			c.Installer.Password = s
		}
	}
}

// OptInstallerPgDump sets the path to pg_dump.
func OptInstallerPgDump(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Installer pg_dump", s) {
			c.Installer.PgDump = s
		}
	}
}

// OptInstallerCreatedb sets the path to createdb.
func OptInstallerCreatedb(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Installer createdb", s) {
			c.Installer.Createdb = s
		}
	}
}

// OptInstallerPsql sets the path to psql.
func OptInstallerPsql(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Installer psql", s) {
			c.Installer.Psql = s
		}
	}
}

// OptInstallerDatabasePattern sets the pattern of Odoo database names of
// solutions. The pattern must contain {solution_name}.
func OptInstallerDatabasePattern(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidPattern("Installer Database Pattern", s) {
			c.Installer.DatabasePattern = s
		}
	}
}

// OptInstallerTimeoutMin sets the timeout of database duplication in
// minutes.
func OptInstallerTimeoutMin(i int) Option {
	return func(c *Config) {
		if isValidInt("Installer Timeout", i) {
			c.Installer.TimeoutMin = i
		}
	}
}

// OptDiscoveryWorkflowLimit caps the number of models returned by a
// workflow scan.
func OptDiscoveryWorkflowLimit(i int) Option {
	return func(c *Config) {
		if isValidInt("Discovery Workflow Limit", i) {
			c.Discovery.WorkflowLimit = i
		}
	}
}

// OptDiscoveryBILimit caps the number of models returned by a BI scan.
func OptDiscoveryBILimit(i int) Option {
	return func(c *Config) {
		if isValidInt("Discovery BI Limit", i) {
			c.Discovery.BILimit = i
		}
	}
}

// OptServerPort sets the REST API port.
func OptServerPort(i int) Option {
	return func(c *Config) {
		if isValidInt("Server Port", i) {
			c.Server.Port = i
		}
	}
}

// OptServerAllowOrigins sets CORS origins of the REST API. Empty
// entries are dropped.
func OptServerAllowOrigins(origins []string) Option {
	var res []string
	for _, o := range origins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			res = append(res, o)
		}
	}
	return func(c *Config) {
		c.Server.AllowOrigins = res
	}
}

// OptCacheRedisAddr enables the Redis discovery cache.
func OptCacheRedisAddr(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Cache Redis Address", s) {
			c.Cache.RedisAddr = s
		}
	}
}

// OptCacheRedisPassword sets the Redis password.
func OptCacheRedisPassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Cache Redis Password", s) {
			c.Cache.RedisPassword = s
		}
	}
}

// OptCacheRedisDB selects a Redis logical database. Zero is allowed.
func OptCacheRedisDB(i int) Option {
	return func(c *Config) {
		if i < 0 {
			gn.Warn("<em>Cache Redis DB</em> cannot be negative, ignoring %d", i)
			return
		}
		c.Cache.RedisDB = i
	}
}

// OptCacheTTLSec sets expiration of cached discoveries in seconds.
func OptCacheTTLSec(i int) Option {
	return func(c *Config) {
		if isValidInt("Cache TTL", i) {
			c.Cache.TTLSec = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for parallel operations.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
