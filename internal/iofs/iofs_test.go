package iofs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fayvad/fbs/pkg/config"
	"github.com/fayvad/fbs/pkg/errcode"
	"github.com/fayvad/fbs/pkg/templates"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirs(t *testing.T) {
	home := t.TempDir()

	require.NoError(t, EnsureDirs(home))
	for _, dir := range []string{
		config.ConfigDir(home),
		config.CacheDir(home),
		config.LogDir(home),
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir())
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	}

	// second run keeps directories
	require.NoError(t, EnsureDirs(home))
}

func TestTouchDirError(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	err := touchDir(filepath.Join(file, "sub"))
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.CreateDirError, gnErr.Code)
}

func TestEnsureConfigFile(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, EnsureDirs(home))
	path := config.ConfigFilePath(home)

	require.NoError(t, EnsureConfigFile(home))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, templates.ConfigYAML, string(data))

	custom := []byte("log:\n  level: debug\n")
	require.NoError(t, os.WriteFile(path, custom, 0644))
	require.NoError(t, EnsureConfigFile(home))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, custom, data, "existing config is not replaced")
}

func TestEnsureRulesFile(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, EnsureDirs(home))

	require.NoError(t, EnsureRulesFile(home))
	cfg := config.New()
	cfg.Update([]config.Option{config.OptSchemaRulesFile(config.RulesFilePath(home))})
	r, err := LoadRules(cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, r.DomainNames())
}

func TestLoadRules(t *testing.T) {
	cfg := config.New()
	r, err := LoadRules(cfg)
	require.NoError(t, err)
	assert.Contains(t, r.IndustryNames(), "rental")

	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(templates.RulesYAML), 0644))
	cfg.Update([]config.Option{config.OptSchemaRulesFile(path)})
	r, err = LoadRules(cfg)
	require.NoError(t, err)
	assert.Contains(t, r.IndustryNames(), "rental")

	tests := []struct {
		msg  string
		data string
		code gn.ErrorCode
	}{
		{"bad yaml", "industries: [", errcode.RulesLoadError},
		{"missing", "", errcode.ReadFileError},
	}
	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			p := filepath.Join(dir, v.msg+".yaml")
			if v.data != "" {
				require.NoError(t, os.WriteFile(p, []byte(v.data), 0644))
			}
			cfg.Update([]config.Option{config.OptSchemaRulesFile(p)})
			_, err := LoadRules(cfg)
			var gnErr *gn.Error
			require.ErrorAs(t, err, &gnErr)
			assert.Equal(t, v.code, gnErr.Code)
		})
	}
}
