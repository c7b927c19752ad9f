package iotesting

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fayvad/fbs/internal/iostore"
	"github.com/fayvad/fbs/pkg/records"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
)

// NewStore creates a migrated tracking store in a SQLite file inside a
// temporary directory of the test.
func NewStore(t *testing.T) records.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fbs.db")
	s, err := iostore.NewWithDialector(sqlite.Open(path + "?_pragma=busy_timeout(5000)"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}
