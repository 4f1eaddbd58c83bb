package migrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolmedia/talentsync/internal/model"
	"github.com/kolmedia/talentsync/internal/store"
)

func migrateProjectForTest(t *testing.T, p *Pipeline) string {
	t.Helper()
	result, err := p.MigrateProject(context.Background(), "p1", "")
	require.NoError(t, err)
	return result.TargetProjectID
}

func TestMigrateCollaborations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	p := newTestPipeline(mem)
	targetID := migrateProjectForTest(t, p)

	result, err := p.MigrateCollaborations(ctx, "p1", targetID, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Requested)
	assert.Equal(t, 1, result.Inserted)
	require.Contains(t, result.Mapping, "c1")

	collab, err := mem.Target().GetCollaboration(ctx, result.Mapping["c1"])
	require.NoError(t, err)
	require.NotNil(t, collab)
	assert.Equal(t, targetID, collab.ProjectID)
	assert.Equal(t, "one-t1", collab.TalentOneID)
	assert.Equal(t, "douyin", collab.TalentPlatform)
	assert.Equal(t, int64(100000), collab.Amount, "1000 major units scale by 100 exactly")
	assert.InDelta(t, 0.1, collab.RebateRate, 1e-9)
	assert.Equal(t, "pendingRelease", collab.Status, "status copied verbatim")
	assert.Equal(t, model.OrderModeOriginal, collab.OrderMode)
	assert.Equal(t, "v1", collab.VideoID)
	require.NotNil(t, collab.MigratedFrom)
	assert.Equal(t, "c1", collab.MigratedFrom.SourceCollabID)
	assert.Equal(t, "t1", collab.MigratedFrom.SourceTalentID)
}

func TestMigrateCollaborationsScalesActualRebate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	rebate := 123.45
	mem.SeedSourceCollaboration(model.SourceCollaboration{
		ID: "c2", ProjectID: "p1", TalentID: "t1",
		Amount: 500, ActualRebate: &rebate, OrderType: "改价单",
	})
	p := newTestPipeline(mem)
	targetID := migrateProjectForTest(t, p)

	result, err := p.MigrateCollaborations(ctx, "p1", targetID, nil)
	require.NoError(t, err)

	collab, err := mem.Target().GetCollaboration(ctx, result.Mapping["c2"])
	require.NoError(t, err)
	require.NotNil(t, collab)
	require.NotNil(t, collab.ActualRebate)
	assert.Equal(t, int64(12345), *collab.ActualRebate)
	assert.Equal(t, model.OrderModeAdjusted, collab.OrderMode)
}

func TestMigrateCollaborationsAbortsOnUnmatched(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	mem.SeedSourceCollaboration(model.SourceCollaboration{
		ID: "c9", ProjectID: "p1", TalentID: "ghost", Amount: 100, OrderType: "原价单",
	})
	p := newTestPipeline(mem)
	targetID := migrateProjectForTest(t, p)

	_, err := p.MigrateCollaborations(ctx, "p1", targetID, nil)
	var unmatched *UnmatchedError
	require.ErrorAs(t, err, &unmatched)
	require.Len(t, unmatched.Unmatched, 1)

	count, err := mem.Target().CountCollaborations(ctx, targetID)
	require.NoError(t, err)
	assert.Zero(t, count, "no partial writes on unmatched talents")
}

func TestMigrateCollaborationsMappingMustCoverAllTalents(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	p := newTestPipeline(mem)
	targetID := migrateProjectForTest(t, p)

	// Caller-supplied mapping that does not cover t1.
	_, err := p.MigrateCollaborations(ctx, "p1", targetID, map[string]string{"other": "x"})
	var unmatched *UnmatchedError
	require.ErrorAs(t, err, &unmatched)
	assert.Equal(t, "t1", unmatched.Unmatched[0].SourceTalentID)
}

func TestMigrateCollaborationsReportsPartialInsert(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	mem.SeedSourceCollaboration(model.SourceCollaboration{
		ID: "c2", ProjectID: "p1", TalentID: "t1", Amount: 200, OrderType: "原价单",
	})
	mem.SeedSourceCollaboration(model.SourceCollaboration{
		ID: "c3", ProjectID: "p1", TalentID: "t1", Amount: 300, OrderType: "原价单",
	})
	p := newTestPipeline(mem)
	targetID := migrateProjectForTest(t, p)

	mem.FailCollabInsertAfter = 2
	result, err := p.MigrateCollaborations(ctx, "p1", targetID, nil)
	require.Error(t, err)
	require.NotNil(t, result, "partial counts come back with the error")
	assert.Equal(t, 3, result.Requested)
	assert.Equal(t, 2, result.Inserted)
	assert.Contains(t, err.Error(), "inserted 2 of 3")
}

func TestMigrateCollaborationsRequiresTargetProject(t *testing.T) {
	t.Parallel()
	p := newTestPipeline(store.NewMemory())

	_, err := p.MigrateCollaborations(context.Background(), "p1", "", nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "targetProjectId", verr.Param)
}
