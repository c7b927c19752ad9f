// Package config provides configuration management for FBS.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Odoo: url, reference_database, user, password, timeout_sec, retries
//   - Database: host, port, user, password, database, ssl_mode
//   - Schema: naming_pattern, table_prefix, rules_file
//   - Installer: host, port, user, password, pg_dump, createdb, psql,
//     database_pattern, timeout_min
//   - Discovery: workflow_limit, bi_limit
//   - Server: port, allow_origins
//   - Cache: redis_addr, redis_password, redis_db, ttl_sec
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use FBS_ prefix with underscores for nesting:
//
//	FBS_ODOO_URL=http://localhost:8069
//	FBS_DATABASE_HOST=localhost
//	FBS_SCHEMA_NAMING_PATTERN=fbs_{solution_name}_db
//	FBS_JOBS_NUMBER=8
package config

import (
	"net"
	"net/url"
	"runtime"
	"strconv"
)

// SolutionPlaceholder is substituted with a solution name in naming
// patterns.
const SolutionPlaceholder = "{solution_name}"

// Config represents the complete FBS configuration.
type Config struct {
	// Odoo contains XML-RPC settings of the reference Odoo instance.
	Odoo OdooConfig `mapstructure:"odoo" yaml:"odoo"`

	// Database contains PostgreSQL connection settings of the server
	// that hosts solution databases and FBS tracking tables.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Schema contains naming rules of solution databases and tables.
	Schema SchemaConfig `mapstructure:"schema" yaml:"schema"`

	// Installer contains settings for Odoo database duplication.
	Installer InstallerConfig `mapstructure:"installer" yaml:"installer"`

	// Discovery bounds the all-model scans.
	Discovery DiscoveryConfig `mapstructure:"discovery" yaml:"discovery"`

	Server ServerConfig `mapstructure:"server" yaml:"server"`

	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set accoring to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// OdooConfig contains Odoo XML-RPC connection parameters.
type OdooConfig struct {
	// URL is the base URL of Odoo, for example http://localhost:8069.
	URL string `mapstructure:"url" yaml:"url"`

	// ReferenceDatabase is the Odoo database used for Phase 1 metadata
	// discovery and as a template for new solution databases.
	ReferenceDatabase string `mapstructure:"reference_database" yaml:"reference_database"`

	User     string `mapstructure:"user"     yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`

	// TimeoutSec limits a single RPC call.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// Retries is the number of attempts for a call that failed on the
	// transport level. RPC faults are never retried.
	Retries int `mapstructure:"retries" yaml:"retries"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database keeps FBS tracking records (solutions, discoveries,
	// migrations, setup steps).
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// DSN returns a postgres:// connection URL. User, password and database
// are escaped, so they may contain any characters.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Database,
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
	}
	return u.String()
}

// SchemaConfig contains naming rules for solution databases.
type SchemaConfig struct {
	// NamingPattern derives a solution database name, it must contain
	// {solution_name}.
	NamingPattern string `mapstructure:"naming_pattern" yaml:"naming_pattern"`

	// TablePrefix is prepended to FBS system tables.
	TablePrefix string `mapstructure:"table_prefix" yaml:"table_prefix"`

	// RulesFile is an optional YAML file that replaces the embedded
	// adaptation and classification rules.
	RulesFile string `mapstructure:"rules_file" yaml:"rules_file"`
}

// InstallerConfig contains settings of the PostgreSQL server that hosts
// Odoo databases, and of the client tools used to duplicate them.
type InstallerConfig struct {
	Host     string `mapstructure:"host"     yaml:"host"`
	Port     int    `mapstructure:"port"     yaml:"port"`
	User     string `mapstructure:"user"     yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`

	PgDump   string `mapstructure:"pg_dump"  yaml:"pg_dump"`
	Createdb string `mapstructure:"createdb" yaml:"createdb"`
	Psql     string `mapstructure:"psql"     yaml:"psql"`

	// DatabasePattern derives the Odoo database name of a solution.
	DatabasePattern string `mapstructure:"database_pattern" yaml:"database_pattern"`

	// TimeoutMin limits the whole duplication chain.
	TimeoutMin int `mapstructure:"timeout_min" yaml:"timeout_min"`
}

// DiscoveryConfig caps expensive all-model scans.
type DiscoveryConfig struct {
	WorkflowLimit int `mapstructure:"workflow_limit" yaml:"workflow_limit"`
	BILimit       int `mapstructure:"bi_limit"       yaml:"bi_limit"`
}

// ServerConfig contains REST API settings.
type ServerConfig struct {
	Port int `mapstructure:"port" yaml:"port"`

	// AllowOrigins lists CORS origins, empty allows all origins.
	AllowOrigins []string `mapstructure:"allow_origins" yaml:"allow_origins"`
}

// CacheConfig contains settings of the optional Redis discovery cache.
// Empty RedisAddr disables the cache.
type CacheConfig struct {
	RedisAddr     string `mapstructure:"redis_addr"     yaml:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password" yaml:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"       yaml:"redis_db"`
	TTLSec        int    `mapstructure:"ttl_sec"        yaml:"ttl_sec"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Odoo: OdooConfig{
			URL:               "http://localhost:8069",
			ReferenceDatabase: "fbs_reference",
			User:              "admin",
			Password:          "admin",
			TimeoutSec:        60,
			Retries:           1,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "fbs",
			SSLMode:  "disable",
		},
		Schema: SchemaConfig{
			NamingPattern: "fbs_" + SolutionPlaceholder + "_db",
			TablePrefix:   "fbs_",
		},
		Installer: InstallerConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "odoo",
			Password:        "odoo",
			PgDump:          "pg_dump",
			Createdb:        "createdb",
			Psql:            "psql",
			DatabasePattern: SolutionPlaceholder + "_odoo",
			TimeoutMin:      30,
		},
		Discovery: DiscoveryConfig{
			WorkflowLimit: 20,
			BILimit:       15,
		},
		Server: ServerConfig{
			Port: 8000,
		},
		Cache: CacheConfig{
			TTLSec: 3600,
		},
		Log: LogConfig{
			Format:      "json",
			Level:       "info",
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}
