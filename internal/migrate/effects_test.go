package migrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolmedia/talentsync/internal/model"
	"github.com/kolmedia/talentsync/internal/store"
)

func seedEffectRecord(m *store.Memory, id, collabID, videoID string) {
	m.SeedEffectRecord(model.SourceEffectRecord{
		ID:        id,
		ProjectID: "p1",
		CollabID:  collabID,
		VideoID:   videoID,
		T7:        model.EffectWindow{Views: 1000, Likes: 100, Comments: 10, Shares: 1},
		T21:       model.EffectWindow{Views: 2000, Likes: 200, Comments: 20, Shares: 2},
		T30:       model.EffectWindow{Views: 3000, Likes: 300, Comments: 30, Shares: 3},
	})
}

func TestMigrateEffectsByProvenance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	seedEffectRecord(mem, "e1", "c1", "v1")
	p := newTestPipeline(mem)
	targetID := migrateProjectForTest(t, p)
	collabs, err := p.MigrateCollaborations(ctx, "p1", targetID, nil)
	require.NoError(t, err)

	// No in-memory mapping: the persisted sourceCollabId join must carry it.
	result, err := p.MigrateEffects(ctx, "p1", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalSourceRecords)
	assert.Equal(t, 1, result.UpdatedCount)
	assert.Zero(t, result.Unmatched)

	collab, err := mem.Target().GetCollaboration(ctx, collabs.Mapping["c1"])
	require.NoError(t, err)
	require.NotNil(t, collab.EffectData)
	assert.Equal(t, int64(1000), collab.EffectData.T7.Views)
	assert.Equal(t, int64(3000), collab.EffectData.T30.Views)
}

func TestMigrateEffectsByVideoFallback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	// Record with no collab reference at all; only the video id can join it.
	seedEffectRecord(mem, "e1", "", "v1")
	p := newTestPipeline(mem)
	targetID := migrateProjectForTest(t, p)
	_, err := p.MigrateCollaborations(ctx, "p1", targetID, nil)
	require.NoError(t, err)

	result, err := p.MigrateEffects(ctx, "p1", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.UpdatedCount)
}

func TestMigrateEffectsRerunIsNoOp(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	seedEffectRecord(mem, "e1", "c1", "v1")
	p := newTestPipeline(mem)
	targetID := migrateProjectForTest(t, p)
	_, err := p.MigrateCollaborations(ctx, "p1", targetID, nil)
	require.NoError(t, err)

	_, err = p.MigrateEffects(ctx, "p1", nil)
	require.NoError(t, err)

	second, err := p.MigrateEffects(ctx, "p1", nil)
	require.NoError(t, err)
	assert.Zero(t, second.UpdatedCount)
	assert.Equal(t, 1, second.SkippedExisting)
}

func TestMigrateEffectsSkipsOrganicCollaborations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	seedEffectRecord(mem, "e1", "", "v-organic")
	p := newTestPipeline(mem)
	targetID := migrateProjectForTest(t, p)

	// Organically created collaboration sharing the video id. It has no
	// migration lineage and must never receive migrated effect data.
	_, err := mem.Target().InsertCollaborations(ctx, []model.TargetCollaboration{{
		ID: "organic", ProjectID: targetID, VideoID: "v-organic",
	}})
	require.NoError(t, err)

	result, err := p.MigrateEffects(ctx, "p1", nil)
	require.NoError(t, err)
	assert.Zero(t, result.UpdatedCount)
	assert.Equal(t, 1, result.Unmatched)

	organic, err := mem.Target().GetCollaboration(ctx, "organic")
	require.NoError(t, err)
	assert.Nil(t, organic.EffectData)
}

func TestMigrateEffectsCountsUnmatched(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	seedEffectRecord(mem, "e1", "c1", "v1")
	seedEffectRecord(mem, "e2", "", "v-unknown")
	p := newTestPipeline(mem)
	targetID := migrateProjectForTest(t, p)
	_, err := p.MigrateCollaborations(ctx, "p1", targetID, nil)
	require.NoError(t, err)

	result, err := p.MigrateEffects(ctx, "p1", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalSourceRecords)
	assert.Equal(t, 1, result.UpdatedCount)
	assert.Equal(t, 1, result.Unmatched)
}

func TestMigrateEffectsRequiresMigratedProject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	p := newTestPipeline(mem)

	_, err := p.MigrateEffects(ctx, "p1", nil)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}
