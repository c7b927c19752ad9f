// Package iofs prepares directories and files used by fbs.
package iofs

import (
	"os"

	"github.com/fayvad/fbs/pkg/config"
	"github.com/fayvad/fbs/pkg/rules"
	"github.com/fayvad/fbs/pkg/templates"
)

// EnsureDirs creates config, cache and log directories.
func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes the documented config.yaml template unless the
// file exists already.
func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := os.WriteFile(configPath, []byte(templates.ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

// EnsureRulesFile writes a copy of the embedded rule tables next to
// config.yaml. The copy is used only when schema.rules_file points to it.
func EnsureRulesFile(homeDir string) error {
	rulesPath := config.RulesFilePath(homeDir)

	if _, err := os.Stat(rulesPath); err == nil {
		return nil
	}

	if err := os.WriteFile(rulesPath, []byte(templates.RulesYAML), 0644); err != nil {
		return CopyFileError(rulesPath, err)
	}

	return nil
}

// LoadRules reads rule tables from schema.rules_file, or returns the
// embedded tables when the file is not set.
func LoadRules(cfg *config.Config) (*rules.Rules, error) {
	path := cfg.Schema.RulesFile
	if path == "" {
		res, err := rules.Default()
		if err != nil {
			return nil, RulesLoadError("embedded rules", err)
		}
		return res, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadFileError(path, err)
	}
	res, err := rules.Parse(data)
	if err != nil {
		return nil, RulesLoadError(path, err)
	}
	return res, nil
}
