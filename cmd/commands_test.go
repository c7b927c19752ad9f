package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		cmd      *cobra.Command
		flags    []string
		required []string
	}{
		{getCatalogCmd(), []string{"output-format"}, nil},
		{getResolveCmd(), []string{"industry", "features", "modules"}, nil},
		{getDiscoverCmd(), []string{"domain", "cached", "name", "output-format"},
			[]string{"domain"}},
		{getSetupCmd(),
			[]string{"solution-name", "domain", "db-user", "db-password",
				"industry", "features", "modules", "resume"},
			[]string{"solution-name", "domain"}},
		{getSchemaCmd(), []string{"solution-name", "domain", "db-user", "db-password"},
			[]string{"solution-name", "domain"}},
		{getMigrateCmd(), []string{"solution-name"}, []string{"solution-name"}},
		{getOperateCmd(), []string{"solution-name"}, []string{"solution-name"}},
		{getSolutionsCmd(), []string{"output-format"}, nil},
		{getGenerateAPIsCmd(),
			[]string{"solution-name", "domain", "models", "output-format"},
			[]string{"solution-name"}},
		{getServeCmd(), []string{"port", "debug"}, nil},
	}

	for _, v := range tests {
		t.Run(v.cmd.Name(), func(t *testing.T) {
			assert.NotEmpty(t, v.cmd.Short)
			assert.NotEmpty(t, v.cmd.Long)
			assert.NotNil(t, v.cmd.RunE)
			for _, f := range v.flags {
				assert.NotNil(t, v.cmd.Flags().Lookup(f), f)
			}
			for _, f := range v.required {
				ann := v.cmd.Flags().Lookup(f).Annotations
				assert.Contains(t, ann, cobra.BashCompOneRequiredFlag, f)
			}
		})
	}
}

func TestGenerateAPIsFlagParsing(t *testing.T) {
	cmd := getGenerateAPIsCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"-s", "acme", "--models", "rental_property,rental_lease", "-o", "table",
	}))
	models, err := cmd.Flags().GetStringSlice("models")
	require.NoError(t, err)
	assert.Equal(t, []string{"rental_property", "rental_lease"}, models)
}

func TestOperateArgs(t *testing.T) {
	cmd := getOperateCmd()
	assert.Error(t, cmd.Args(cmd, nil))
	assert.NoError(t, cmd.Args(cmd, []string{"status"}))
	assert.Equal(t, []string{"discover", "adapt", "status"}, cmd.ValidArgs)
}

func TestSetupRequiresFlags(t *testing.T) {
	cmd := getSetupCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--industry", "rental"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "solution-name")
}
