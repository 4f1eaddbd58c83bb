package migrate

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kolmedia/talentsync/internal/model"
	"github.com/kolmedia/talentsync/internal/pricing"
)

// ProjectResult is the discriminated outcome of the project phase. An
// already-migrated project is a normal outcome, not an error, so the
// "continue migration" flow can tell nothing-to-do from did-the-work.
type ProjectResult struct {
	Created         bool   `json:"created"`
	Reason          string `json:"reason,omitempty"` // "already-exists" when Created is false
	TargetProjectID string `json:"targetProjectId"`
	MatchedBy       string `json:"matchedBy,omitempty"` // which idempotency probe fired

	PricingTier          string  `json:"pricingTier,omitempty"`
	DiscountRate         float64 `json:"discountRate,omitempty"`
	QuotationCoefficient float64 `json:"quotationCoefficient,omitempty"`

	// SourceDiscount is the legacy project's own discount field, retained
	// only for the discrepancy comparison; it is never the operative value.
	SourceDiscount   float64 `json:"sourceDiscount,omitempty"`
	DiscountMismatch bool    `json:"discountMismatch,omitempty"`
}

// Idempotency probe outcomes.
const (
	MatchedBySourceID = "sourceId"
	MatchedByName     = "name"
)

// ReasonAlreadyExists marks the idempotency short-circuit.
const ReasonAlreadyExists = "already-exists"

// MigrateProject creates the target project from the source project. The
// probe-then-insert sequence is best-effort under concurrent invocation; the
// workflow is operator-gated, one project at a time.
func (p *Pipeline) MigrateProject(ctx context.Context, sourceProjectID, customerID string) (result *ProjectResult, err error) {
	if sourceProjectID == "" {
		return nil, &ValidationError{Param: "sourceProjectId", Detail: "required"}
	}

	log := zap.L().With(zap.String("component", "migrate.project"), zap.String("sourceProjectId", sourceProjectID))
	done := p.track(ctx, sourceProjectID, PhaseProject)
	defer func() {
		var counts map[string]int64
		if result != nil {
			created := int64(0)
			if result.Created {
				created = 1
			}
			counts = map[string]int64{"created": created}
		}
		done(counts, err)
	}()

	src, err := p.source.GetProject(ctx, sourceProjectID)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, &NotFoundError{Kind: "source project", ID: sourceProjectID}
	}
	if customerID == "" {
		customerID = src.CustomerID
	}

	// Idempotency probe: persisted source id first, legacy name match as
	// fallback for projects migrated before provenance was recorded.
	if existing, err := p.target.FindProjectBySourceID(ctx, sourceProjectID); err != nil {
		return nil, err
	} else if existing != nil {
		log.Info("target project already exists", zap.String("targetProjectId", existing.ID))
		return &ProjectResult{Reason: ReasonAlreadyExists, TargetProjectID: existing.ID, MatchedBy: MatchedBySourceID}, nil
	}
	if existing, err := p.target.FindProjectByName(ctx, src.Name); err != nil {
		return nil, err
	} else if existing != nil {
		log.Info("target project already exists by name", zap.String("targetProjectId", existing.ID))
		return &ProjectResult{Reason: ReasonAlreadyExists, TargetProjectID: existing.ID, MatchedBy: MatchedByName}, nil
	}

	configs, err := p.customers.PricingConfigs(ctx, customerID)
	if err != nil {
		return nil, err
	}
	sel := pricing.Resolve(configs, src.FinancialYear, src.FinancialMonth.Int())

	now := time.Now().UTC()
	target := &model.TargetProject{
		ID:             uuid.NewString(),
		Name:           src.Name,
		Status:         model.MapProjectStatus(src.Status),
		CustomerID:     customerID,
		FinancialYear:  src.FinancialYear,
		FinancialMonth: src.FinancialMonth.Int(),
		Budget:         src.Budget.MinorUnits(),
		AuditLog: []model.AuditEntry{{
			Timestamp: now,
			User:      "talentsync",
			Action:    fmt.Sprintf("migrated from %s/%s", p.sourceLabel, sourceProjectID),
		}},
		MigratedFrom: &model.ProjectProvenance{
			SourceProjectID: sourceProjectID,
			SourceDatabase:  p.sourceLabel,
			MigratedAt:      now,
		},
	}
	if src.BusinessType != "" {
		target.BusinessType = []string{src.BusinessType}
	}

	result = &ProjectResult{Created: true, TargetProjectID: target.ID, SourceDiscount: src.Discount.Float()}

	// Pricing snapshot. The source's own discount is never the operative
	// value; it is compared against the resolved rate and any divergence is
	// surfaced on the result.
	if sel != nil && src.Platform != "" {
		target.Platforms = []string{src.Platform}
		target.PlatformDiscounts = map[string]float64{src.Platform: sel.Config.DiscountRate}
		target.PlatformPricingModes = map[string]string{src.Platform: sel.Config.PricingMode}
		target.PlatformQuotationCoefficients = map[string]float64{src.Platform: sel.Coefficient}
	}
	if sel != nil {
		result.PricingTier = sel.Tier
		result.DiscountRate = sel.Config.DiscountRate
		result.QuotationCoefficient = sel.Coefficient
		if result.SourceDiscount > 0 {
			effective := 1 - sel.Config.DiscountRate
			result.DiscountMismatch = math.Abs(effective-result.SourceDiscount) > 1e-9
		}
	}

	if err := p.target.InsertProject(ctx, target); err != nil {
		return nil, err
	}

	log.Info("target project created",
		zap.String("targetProjectId", target.ID),
		zap.Int64("budget", target.Budget),
		zap.String("pricingTier", result.PricingTier),
	)
	return result, nil
}
