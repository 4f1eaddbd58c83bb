package migrate

import (
	"context"

	"go.uber.org/zap"

	"github.com/kolmedia/talentsync/internal/model"
)

// CountCompare compares one aggregate count across the two databases.
type CountCompare struct {
	Source int64 `json:"source"`
	Target int64 `json:"target"`
	Match  bool  `json:"match"`
}

// AmountCompare compares total collaboration amounts. The source sum is
// converted to minor units before comparing so both sides are on the same
// scale.
type AmountCompare struct {
	SourceMinor int64 `json:"source"`
	TargetMinor int64 `json:"target"`
	Match       bool  `json:"match"`
}

// EffectCompare pairs the source works count with the target collaborations
// carrying effect data.
type EffectCompare struct {
	SourceWorks       int64 `json:"sourceWorks"`
	TargetWithEffects int64 `json:"targetWithEffects"`
}

// Reconciliation is the full source/target comparison certifying a
// migration.
type Reconciliation struct {
	Collaborations CountCompare  `json:"collaborations"`
	TotalAmount    AmountCompare `json:"totalAmount"`
	Effects        EffectCompare `json:"effects"`
	DailyStats     CountCompare  `json:"dailyStats"`
	AllMatch       bool          `json:"allMatch"`
}

// ValidateMigration compares aggregate counts and sums between the two
// databases. Read-only; divergence is surfaced, never resolved.
func (p *Pipeline) ValidateMigration(ctx context.Context, sourceProjectID, targetProjectID string) (result *Reconciliation, err error) {
	if sourceProjectID == "" {
		return nil, &ValidationError{Param: "sourceProjectId", Detail: "required"}
	}
	if targetProjectID == "" {
		return nil, &ValidationError{Param: "targetProjectId", Detail: "required"}
	}

	done := p.track(ctx, sourceProjectID, PhaseReconcile)
	defer func() { done(nil, err) }()

	srcCollabs, err := p.source.ListCollaborations(ctx, sourceProjectID)
	if err != nil {
		return nil, err
	}
	tgtCollabCount, err := p.target.CountCollaborations(ctx, targetProjectID)
	if err != nil {
		return nil, err
	}

	srcSum, err := p.source.SumCollaborationAmounts(ctx, sourceProjectID)
	if err != nil {
		return nil, err
	}
	tgtSum, err := p.target.SumCollaborationAmounts(ctx, targetProjectID)
	if err != nil {
		return nil, err
	}

	srcEffects, err := p.source.ListEffectRecords(ctx, sourceProjectID)
	if err != nil {
		return nil, err
	}
	tgtEffects, err := p.target.CountCollaborationsWithEffects(ctx, targetProjectID)
	if err != nil {
		return nil, err
	}

	srcDaily, err := p.source.ListDailyStats(ctx, sourceProjectID)
	if err != nil {
		return nil, err
	}
	tgtDaily, err := p.target.CountDailyStatEntries(ctx, targetProjectID)
	if err != nil {
		return nil, err
	}

	r := &Reconciliation{
		Collaborations: CountCompare{
			Source: int64(len(srcCollabs)),
			Target: tgtCollabCount,
			Match:  int64(len(srcCollabs)) == tgtCollabCount,
		},
		TotalAmount: AmountCompare{
			// Like-for-like: the source sum is major units and must be
			// scaled before comparing against the target's minor units.
			SourceMinor: model.ToMinorUnits(srcSum),
			TargetMinor: tgtSum,
		},
		Effects: EffectCompare{
			SourceWorks:       int64(len(srcEffects)),
			TargetWithEffects: tgtEffects,
		},
		DailyStats: CountCompare{
			Source: int64(len(srcDaily)),
			Target: tgtDaily,
			Match:  int64(len(srcDaily)) == tgtDaily,
		},
	}
	r.TotalAmount.Match = r.TotalAmount.SourceMinor == r.TotalAmount.TargetMinor
	r.AllMatch = r.Collaborations.Match && r.TotalAmount.Match && r.DailyStats.Match

	zap.L().Info("reconciliation complete",
		zap.String("component", "migrate.reconcile"),
		zap.String("sourceProjectId", sourceProjectID),
		zap.Bool("allMatch", r.AllMatch),
	)
	result = r
	return result, nil
}
