// Package ioconfig reads settings from config.yaml, a .env file and
// FBS_ environment variables.
package ioconfig

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/fayvad/fbs/internal/iofs"
	"github.com/fayvad/fbs/pkg/config"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables, for example
// FBS_ODOO_URL sets odoo.url.
const EnvPrefix = "FBS"

// envKeys are settings that can be overridden by environment variables.
// They match the fields of config.ToOptions.
var envKeys = []string{
	"odoo.url",
	"odoo.reference_database",
	"odoo.user",
	"odoo.password",
	"odoo.timeout_sec",
	"odoo.retries",

	"database.host",
	"database.port",
	"database.user",
	"database.password",
	"database.database",
	"database.ssl_mode",

	"schema.naming_pattern",
	"schema.table_prefix",
	"schema.rules_file",

	"installer.host",
	"installer.port",
	"installer.user",
	"installer.password",
	"installer.pg_dump",
	"installer.createdb",
	"installer.psql",
	"installer.database_pattern",
	"installer.timeout_min",

	"discovery.workflow_limit",
	"discovery.bi_limit",

	"server.port",
	"server.allow_origins",

	"cache.redis_addr",
	"cache.redis_password",
	"cache.redis_db",
	"cache.ttl_sec",

	"log.level",
	"log.format",
	"log.destination",

	"jobs_number",
}

// LoadDotEnv exports variables from a .env file. A missing file is not
// an error, variables already set in the environment win.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return iofs.ReadFileError(path, err)
	}
	return nil
}

// Load reads config.yaml at path and applies environment overrides.
// The result still has to be validated with config.Update.
func Load(path string) (*config.Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	initEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(path, err)
	}

	var res config.Config
	if err := v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(path, err)
	}
	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range envKeys {
		_ = v.BindEnv(k)
	}
	v.AutomaticEnv()
}
