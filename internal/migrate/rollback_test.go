package migrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolmedia/talentsync/internal/model"
	"github.com/kolmedia/talentsync/internal/store"
)

func TestRollbackMigration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	seedEffectRecord(mem, "e1", "c1", "v1")
	seedDailyStats(mem)
	p := newTestPipeline(mem)
	targetID := runFullMigration(t, p)

	result, err := p.RollbackMigration(ctx, targetID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.DeletedProject)
	assert.Equal(t, int64(1), result.DeletedCollaborations)

	project, err := mem.Target().GetProject(ctx, targetID)
	require.NoError(t, err)
	assert.Nil(t, project)
	count, err := mem.Target().CountCollaborations(ctx, targetID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRollbackThenRemigrate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	p := newTestPipeline(mem)
	targetID := migrateProjectForTest(t, p)

	_, err := p.RollbackMigration(ctx, targetID)
	require.NoError(t, err)

	// After rollback the idempotency probes find nothing and a fresh
	// migration proceeds.
	result, err := p.MigrateProject(ctx, "p1", "")
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.NotEqual(t, targetID, result.TargetProjectID)
}

func TestRollbackMissingProject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := newTestPipeline(store.NewMemory())

	result, err := p.RollbackMigration(ctx, "absent")
	require.NoError(t, err)
	assert.Zero(t, result.DeletedProject)
	assert.Zero(t, result.DeletedCollaborations)
}

func TestRollbackRecordsRunAgainstSourceProject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	p := newTestPipeline(mem)
	targetID := migrateProjectForTest(t, p)

	_, err := p.RollbackMigration(ctx, targetID)
	require.NoError(t, err)

	entries, err := p.History(ctx, "p1")
	require.NoError(t, err)
	var phases []string
	for _, e := range entries {
		phases = append(phases, e.Phase)
	}
	assert.Contains(t, phases, PhaseRollback)
	for _, e := range entries {
		if e.Phase == PhaseRollback {
			assert.Equal(t, model.RunComplete, e.Status)
		}
	}
}
