package migrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolmedia/talentsync/internal/model"
	"github.com/kolmedia/talentsync/internal/store"
)

func TestValidateTalentsAllMatched(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	p := newTestPipeline(mem)

	result, err := p.ValidateTalents(ctx, "p1")
	require.NoError(t, err)

	assert.True(t, result.CanProceed)
	assert.Empty(t, result.Unmatched)
	require.Len(t, result.Matched, 1)
	assert.Equal(t, "t1", result.Matched[0].SourceTalentID)
	assert.Equal(t, "one-t1", result.Matched[0].TargetTalentOneID)
	assert.Equal(t, "acct-1", result.Matched[0].SecondaryID)
	assert.Equal(t, map[string]string{"t1": "one-t1"}, result.IdentityMapping())
}

func TestValidateTalentsUnmatched(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	// A second collaboration whose talent exists in the legacy database but
	// has no counterpart account in the target.
	mem.SeedSourceCollaboration(model.SourceCollaboration{
		ID: "c2", ProjectID: "p1", TalentID: "t2", Amount: 500, OrderType: "改价单",
	})
	mem.SeedSourceTalent(model.SourceTalent{
		ID: "t2", Name: "Ben Wu", Platform: "douyin", PlatformAccountID: "acct-2",
	})
	p := newTestPipeline(mem)

	result, err := p.ValidateTalents(ctx, "p1")
	require.NoError(t, err)

	assert.False(t, result.CanProceed)
	require.Len(t, result.Matched, 1)
	require.Len(t, result.Unmatched, 1)
	assert.Equal(t, "t2", result.Unmatched[0].SourceTalentID)
	assert.Equal(t, ReasonNoTargetTalent, result.Unmatched[0].Reason)
	assert.Equal(t, "Ben Wu", result.Unmatched[0].DisplayName)
}

func TestValidateTalentsMissingSourceRecord(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	// Collaboration references a talent id with no talent document at all.
	mem.SeedSourceCollaboration(model.SourceCollaboration{
		ID: "c3", ProjectID: "p1", TalentID: "ghost", Amount: 100, OrderType: "原价单",
	})
	p := newTestPipeline(mem)

	result, err := p.ValidateTalents(ctx, "p1")
	require.NoError(t, err)

	assert.False(t, result.CanProceed)
	require.Len(t, result.Unmatched, 1)
	assert.Equal(t, "ghost", result.Unmatched[0].SourceTalentID)
	assert.Equal(t, ReasonTalentRecordMissing, result.Unmatched[0].Reason)
}

func TestValidateTalentsDeduplicates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	// Same talent on a second collaboration appears once in the result.
	mem.SeedSourceCollaboration(model.SourceCollaboration{
		ID: "c4", ProjectID: "p1", TalentID: "t1", Amount: 200, OrderType: "原价单",
	})
	p := newTestPipeline(mem)

	result, err := p.ValidateTalents(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, result.Matched, 1)
}

func TestValidateTalentsRequiresProjectID(t *testing.T) {
	t.Parallel()
	p := newTestPipeline(store.NewMemory())

	_, err := p.ValidateTalents(context.Background(), "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "sourceProjectId", verr.Param)
}
