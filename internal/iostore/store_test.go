package iostore_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fayvad/fbs/internal/iotesting"
	"github.com/fayvad/fbs/pkg/errcode"
	"github.com/fayvad/fbs/pkg/records"
	"github.com/gnames/gn"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

func TestSolutions(t *testing.T) {
	ctx := context.Background()
	s := iotesting.NewStore(t)

	_, err := s.Solution(ctx, "acme")
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.StoreNotFoundError, gnErr.Code)

	sol := &records.SolutionSchema{
		SolutionName:     "acme",
		Domain:           "rental",
		DatabaseName:     "fbs_acme_db",
		DatabaseUser:     "u",
		DatabasePassword: "p",
		TablePrefix:      "fbs_",
		BusinessPrefix:   "rental_",
		SchemaDefinition: datatypes.JSON(`{"a":1}`),
		IsActive:         true,
	}
	require.NoError(t, s.UpsertSolution(ctx, sol))

	again := &records.SolutionSchema{
		SolutionName:     "acme",
		Domain:           "rental",
		DatabaseName:     "fbs_acme_db",
		DatabaseUser:     "u2",
		TablePrefix:      "fbs_",
		BusinessPrefix:   "rental_",
		SchemaDefinition: datatypes.JSON(`{"a":1,"b":2}`),
		IsActive:         true,
	}
	require.NoError(t, s.UpsertSolution(ctx, again))
	require.NoError(t, s.UpsertSolution(ctx, &records.SolutionSchema{
		SolutionName:     "beta",
		Domain:           "hr",
		DatabaseName:     "fbs_beta_db",
		DatabaseUser:     "u",
		TablePrefix:      "fbs_",
		BusinessPrefix:   "hr_",
		SchemaDefinition: datatypes.JSON(`{}`),
	}))

	got, err := s.Solution(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "u2", got.DatabaseUser)
	assert.JSONEq(t, `{"a":1,"b":2}`, string(got.SchemaDefinition))

	all, err := s.Solutions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "acme", all[0].SolutionName)
	assert.Equal(t, "beta", all[1].SolutionName)
}

func TestUpsertSolutionKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := iotesting.NewStore(t)

	require.NoError(t, s.UpsertSolution(ctx, &records.SolutionSchema{
		SolutionName:     "acme",
		Domain:           "rental",
		DatabaseName:     "fbs_acme_db",
		DatabaseUser:     "u",
		TablePrefix:      "fbs_",
		BusinessPrefix:   "rental_",
		SchemaDefinition: datatypes.JSON(`{}`),
	}))
	first, err := s.Solution(ctx, "acme")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	// a row read back from the store carries its primary key
	first.SchemaDefinition = datatypes.JSON(`{"tables":["fbs_sale_order"]}`)
	first.IsActive = true
	require.NoError(t, s.UpsertSolution(ctx, first))

	second, err := s.Solution(ctx, "acme")
	require.NoError(t, err)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
	assert.True(t, second.UpdatedAt.After(second.CreatedAt))
	assert.True(t, second.IsActive)
	assert.JSONEq(t, `{"tables":["fbs_sale_order"]}`, string(second.SchemaDefinition))

	all, err := s.Solutions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestConcurrentUpserts(t *testing.T) {
	ctx := context.Background()
	s := iotesting.NewStore(t)

	var g errgroup.Group
	for i := range 8 {
		g.Go(func() error {
			d, err := records.NewDiscovery("models", "rental", "acme", map[string]int{"total": i}, nil)
			if err != nil {
				return err
			}
			if err := s.UpsertDiscovery(ctx, d); err != nil {
				return err
			}
			return s.UpsertSolution(ctx, &records.SolutionSchema{
				SolutionName:     "acme",
				Domain:           "rental",
				DatabaseName:     "fbs_acme_db",
				DatabaseUser:     fmt.Sprintf("u%d", i),
				TablePrefix:      "fbs_",
				BusinessPrefix:   "rental_",
				SchemaDefinition: datatypes.JSON(`{}`),
			})
		})
	}
	require.NoError(t, g.Wait())

	ds, err := s.Discoveries(ctx, "acme")
	require.NoError(t, err)
	assert.Len(t, ds, 1)
	sols, err := s.Solutions(ctx)
	require.NoError(t, err)
	assert.Len(t, sols, 1)
}

func TestMigrations(t *testing.T) {
	ctx := context.Background()
	s := iotesting.NewStore(t)

	for _, st := range []string{records.StatusCompleted, records.StatusFailed} {
		require.NoError(t, s.AddMigration(ctx, &records.SchemaMigration{
			SolutionName:  "acme",
			MigrationType: "create_table",
			Table:         "fbs_sale_order",
			SQLStatement:  "CREATE TABLE IF NOT EXISTS fbs_sale_order ()",
			Status:        st,
		}))
	}
	ms, err := s.Migrations(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, records.StatusCompleted, ms[0].Status)
	assert.Equal(t, records.StatusFailed, ms[1].Status)
	assert.False(t, ms[0].ExecutedAt.IsZero())

	ms, err = s.Migrations(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, ms)
}

func TestDiscoveryUpsert(t *testing.T) {
	ctx := context.Background()
	s := iotesting.NewStore(t)

	d, err := records.NewDiscovery("models", "rental", "acme", map[string]int{"total": 1}, nil)
	require.NoError(t, err)
	require.NoError(t, s.UpsertDiscovery(ctx, d))

	d2, err := records.NewDiscovery("models", "rental", "acme", map[string]int{"total": 2}, map[string]int{"x": 1})
	require.NoError(t, err)
	require.NoError(t, s.UpsertDiscovery(ctx, d2))

	got, err := s.Discovery(ctx, "models", "rental", "acme", records.DefaultVersion)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":2}`, string(got.Metadata))
	assert.JSONEq(t, `{"x":1}`, string(got.SchemaDefinition))

	all, err := s.Discoveries(ctx, "acme")
	require.NoError(t, err)
	assert.Len(t, all, 1, "same key updates in place")

	d3, err := records.NewDiscovery("workflows", "rental", "acme", nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.UpsertDiscovery(ctx, d3))
	all, err = s.Discoveries(ctx, "acme")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = s.Discovery(ctx, "bi_features", "rental", "acme", records.DefaultVersion)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.StoreNotFoundError, gnErr.Code)
}

func TestLatestRun(t *testing.T) {
	ctx := context.Background()
	s := iotesting.NewStore(t)

	steps, err := s.LatestRun(ctx, "acme")
	require.NoError(t, err)
	assert.Nil(t, steps)

	run1 := ulid.Make().String()
	run2 := ulid.Make().String()
	now := time.Now()
	for _, run := range []string{run1, run2} {
		for i, name := range []string{"resolve_requirements", "provision_database"} {
			step := &records.SetupStep{
				RunID:        run,
				SolutionName: "acme",
				Step:         name,
				Position:     i,
				Status:       records.StatusRunning,
				StartedAt:    now,
			}
			require.NoError(t, s.SaveStep(ctx, step))
			step.Status = records.StatusCompleted
			step.FinishedAt = &now
			require.NoError(t, s.SaveStep(ctx, step))
		}
	}

	steps, err = s.LatestRun(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, run2, steps[0].RunID)
	assert.Equal(t, "resolve_requirements", steps[0].Step)
	assert.Equal(t, records.StatusCompleted, steps[1].Status)
	assert.NotNil(t, steps[1].FinishedAt)
}
