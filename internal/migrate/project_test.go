package migrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolmedia/talentsync/internal/model"
	"github.com/kolmedia/talentsync/internal/pricing"
	"github.com/kolmedia/talentsync/internal/store"
)

func TestMigrateProjectCreatesTarget(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	p := newTestPipeline(mem)

	result, err := p.MigrateProject(ctx, "p1", "")
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.Empty(t, result.Reason)
	require.NotEmpty(t, result.TargetProjectID)
	assert.Equal(t, pricing.TierPermanent, result.PricingTier)
	assert.InDelta(t, 0.15, result.DiscountRate, 1e-9)
	assert.InDelta(t, 0.85, result.QuotationCoefficient, 1e-9)
	assert.False(t, result.DiscountMismatch, "0.85 legacy discount equals 1 - 0.15")

	created, err := mem.Target().GetProject(ctx, result.TargetProjectID)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Spring Launch", created.Name)
	assert.Equal(t, model.ProjectExecuting, created.Status)
	assert.Equal(t, "cust1", created.CustomerID)
	assert.Equal(t, 2024, created.FinancialYear)
	assert.Equal(t, 3, created.FinancialMonth)
	assert.Equal(t, int64(800000), created.Budget, "8万 lands as 800000 minor units")
	assert.Equal(t, []string{"brand"}, created.BusinessType)
	assert.Equal(t, []string{"douyin"}, created.Platforms)
	assert.InDelta(t, 0.15, created.PlatformDiscounts["douyin"], 1e-9)
	assert.Equal(t, "framework", created.PlatformPricingModes["douyin"])
	assert.InDelta(t, 0.85, created.PlatformQuotationCoefficients["douyin"], 1e-9)

	require.NotNil(t, created.MigratedFrom)
	assert.Equal(t, "p1", created.MigratedFrom.SourceProjectID)
	assert.Equal(t, "campaign_legacy", created.MigratedFrom.SourceDatabase)
	require.Len(t, created.AuditLog, 1)
	assert.Equal(t, "talentsync", created.AuditLog[0].User)
	assert.Contains(t, created.AuditLog[0].Action, "campaign_legacy/p1")
}

func TestMigrateProjectIdempotentBySourceID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	p := newTestPipeline(mem)

	first, err := p.MigrateProject(ctx, "p1", "")
	require.NoError(t, err)

	second, err := p.MigrateProject(ctx, "p1", "")
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, ReasonAlreadyExists, second.Reason)
	assert.Equal(t, first.TargetProjectID, second.TargetProjectID)
	assert.Equal(t, MatchedBySourceID, second.MatchedBy)
}

func TestMigrateProjectIdempotentByNameFallback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	// A pre-provenance migration left a same-named project with no
	// migratedFrom marker.
	require.NoError(t, mem.Target().InsertProject(ctx, &model.TargetProject{
		ID:   "legacy-migrated",
		Name: "Spring Launch",
	}))
	p := newTestPipeline(mem)

	result, err := p.MigrateProject(ctx, "p1", "")
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, "legacy-migrated", result.TargetProjectID)
	assert.Equal(t, MatchedByName, result.MatchedBy)
}

func TestMigrateProjectSourceMissing(t *testing.T) {
	t.Parallel()
	p := newTestPipeline(store.NewMemory())

	_, err := p.MigrateProject(context.Background(), "absent", "")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "absent", nf.ID)
}

func TestMigrateProjectDiscountMismatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	// Configured rate implies 0.80 effective; legacy field says 0.85.
	mem.SeedCustomerConfigs("cust1", []pricing.Config{
		{ID: "pc2", Permanent: true, DiscountRate: 0.2},
	})
	p := newTestPipeline(mem)

	result, err := p.MigrateProject(ctx, "p1", "")
	require.NoError(t, err)
	assert.True(t, result.Created, "mismatch is surfaced, not blocking")
	assert.True(t, result.DiscountMismatch)
	assert.InDelta(t, 0.85, result.SourceDiscount, 1e-9)
	assert.InDelta(t, 0.2, result.DiscountRate, 1e-9)
}

func TestMigrateProjectWithoutPricingConfigs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	mem.SeedCustomerConfigs("cust1", nil)
	p := newTestPipeline(mem)

	result, err := p.MigrateProject(ctx, "p1", "")
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Empty(t, result.PricingTier)

	created, err := mem.Target().GetProject(ctx, result.TargetProjectID)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Empty(t, created.Platforms, "no pricing snapshot without a config")
}

func TestMigrateProjectCustomerOverride(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := store.NewMemory()
	seedSpringLaunch(mem)
	mem.SeedCustomerConfigs("cust2", []pricing.Config{
		{ID: "other", Permanent: true, DiscountRate: 0.5},
	})
	p := newTestPipeline(mem)

	result, err := p.MigrateProject(ctx, "p1", "cust2")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, result.DiscountRate, 1e-9)

	created, err := mem.Target().GetProject(ctx, result.TargetProjectID)
	require.NoError(t, err)
	assert.Equal(t, "cust2", created.CustomerID)
}
