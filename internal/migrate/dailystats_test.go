package migrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolmedia/talentsync/internal/model"
	"github.com/kolmedia/talentsync/internal/store"
)

func seedDailyStats(m *store.Memory) {
	// Out of order on purpose; entries must land sorted by date.
	m.SeedDailyStat(model.SourceDailyStat{
		ID: "d2", ProjectID: "p1", CollabID: "c1", VideoID: "v1",
		Date: "2024-03-02", TotalViews: 5500, Solution: "boost post",
		CPM: 1.2, CPMDelta: 0.1,
	})
	m.SeedDailyStat(model.SourceDailyStat{
		ID: "d1", ProjectID: "p1", CollabID: "c1", VideoID: "v1",
		Date: "2024-03-01", TotalViews: 5000,
		CPM: 1.3,
	})
}

func TestMigrateDailyStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	seedDailyStats(mem)
	p := newTestPipeline(mem)
	targetID := migrateProjectForTest(t, p)
	collabs, err := p.MigrateCollaborations(ctx, "p1", targetID, nil)
	require.NoError(t, err)

	result, err := p.MigrateDailyStats(ctx, "p1", collabs.Mapping, model.TrackingArchived)
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalSourceRecords)
	assert.Equal(t, 2, result.MigratedCount)
	assert.Zero(t, result.SkippedCount)
	assert.Equal(t, "2024-03-01", result.StartDate)
	assert.Equal(t, "2024-03-02", result.EndDate)

	collab, err := mem.Target().GetCollaboration(ctx, collabs.Mapping["c1"])
	require.NoError(t, err)
	require.Len(t, collab.DailyStats, 2)
	assert.Equal(t, "2024-03-01", collab.DailyStats[0].Date)
	assert.Equal(t, int64(5000), collab.DailyStats[0].TotalViews)
	assert.Equal(t, "migrated", collab.DailyStats[0].Source)
	assert.Equal(t, "boost post", collab.DailyStats[1].Solution)

	project, err := mem.Target().GetProject(ctx, targetID)
	require.NoError(t, err)
	require.NotNil(t, project.Tracking)
	assert.Equal(t, model.TrackingArchived, project.Tracking.Status)
	assert.Equal(t, "2024-03-01", project.Tracking.StartDate)
	assert.Equal(t, "2024-03-02", project.Tracking.EndDate)
}

func TestMigrateDailyStatsSkipsUnresolved(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	seedDailyStats(mem)
	mem.SeedDailyStat(model.SourceDailyStat{
		ID: "d3", ProjectID: "p1", VideoID: "v-unknown",
		Date: "2024-03-03", TotalViews: 100,
	})
	p := newTestPipeline(mem)
	targetID := migrateProjectForTest(t, p)
	_, err := p.MigrateCollaborations(ctx, "p1", targetID, nil)
	require.NoError(t, err)

	result, err := p.MigrateDailyStats(ctx, "p1", nil, model.TrackingActive)
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalSourceRecords)
	assert.Equal(t, 2, result.MigratedCount)
	assert.Equal(t, 1, result.SkippedCount)
}

func TestMigrateDailyStatsRerunIsNoOp(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	seedDailyStats(mem)
	p := newTestPipeline(mem)
	targetID := migrateProjectForTest(t, p)
	_, err := p.MigrateCollaborations(ctx, "p1", targetID, nil)
	require.NoError(t, err)

	_, err = p.MigrateDailyStats(ctx, "p1", nil, model.TrackingArchived)
	require.NoError(t, err)

	second, err := p.MigrateDailyStats(ctx, "p1", nil, model.TrackingArchived)
	require.NoError(t, err)
	assert.Zero(t, second.MigratedCount)
	assert.Equal(t, 2, second.AlreadyMigrated)
}

func TestMigrateDailyStatsValidatesTrackingStatus(t *testing.T) {
	t.Parallel()
	p := newTestPipeline(store.NewMemory())

	_, err := p.MigrateDailyStats(context.Background(), "p1", nil, "paused")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "trackingStatus", verr.Param)
}
