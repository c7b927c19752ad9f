package config

import (
	"path/filepath"
	"strings"
)

var (
	// AppName is used in generating file system paths.
	AppName = "fbs"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/fbs by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/fbs by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/fbs/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/fbs/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// SolutionDatabase returns the name of the PostgreSQL database of a
// solution. It is the only place where the name is derived.
func (c *Config) SolutionDatabase(solution string) string {
	return strings.ReplaceAll(c.Schema.NamingPattern, SolutionPlaceholder, solution)
}

// SolutionOdooDatabase returns the name of the Odoo database duplicated
// for a solution.
func (c *Config) SolutionOdooDatabase(solution string) string {
	return strings.ReplaceAll(c.Installer.DatabasePattern, SolutionPlaceholder, solution)
}

// RulesFilePath returns the path of the editable copy of rule tables.
// Returns ~/.config/fbs/rules.yaml by default.
func RulesFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "rules.yaml")
}
