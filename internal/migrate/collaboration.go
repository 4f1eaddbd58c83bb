package migrate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kolmedia/talentsync/internal/model"
)

// CollabResult reports the collaboration phase outcome. Mapping is the
// ephemeral sourceCollabId → targetCollabId table consumed by the
// time-series phases when they run in the same invocation.
type CollabResult struct {
	Requested int               `json:"requested"`
	Inserted  int               `json:"inserted"`
	Mapping   map[string]string `json:"collaborationMapping"`
}

// MigrateCollaborations creates target collaborations from the source
// project's collaborations. When identityMapping is empty it is re-derived
// via ValidateTalents; any unresolved talent aborts the whole phase before a
// single write. Records are never silently skipped.
func (p *Pipeline) MigrateCollaborations(ctx context.Context, sourceProjectID, targetProjectID string, identityMapping map[string]string) (result *CollabResult, err error) {
	if sourceProjectID == "" {
		return nil, &ValidationError{Param: "sourceProjectId", Detail: "required"}
	}
	if targetProjectID == "" {
		return nil, &ValidationError{Param: "targetProjectId", Detail: "required"}
	}

	log := zap.L().With(zap.String("component", "migrate.collabs"), zap.String("sourceProjectId", sourceProjectID))
	done := p.track(ctx, sourceProjectID, PhaseCollaborations)
	defer func() {
		var counts map[string]int64
		if result != nil {
			counts = map[string]int64{"requested": int64(result.Requested), "inserted": int64(result.Inserted)}
		}
		done(counts, err)
	}()

	if len(identityMapping) == 0 {
		match, err := p.ValidateTalents(ctx, sourceProjectID)
		if err != nil {
			return nil, err
		}
		if !match.CanProceed {
			return nil, &UnmatchedError{Unmatched: match.Unmatched}
		}
		identityMapping = match.IdentityMapping()
	}

	collabs, err := p.source.ListCollaborations(ctx, sourceProjectID)
	if err != nil {
		return nil, err
	}

	// Talent platforms for the target records, fetched once per distinct
	// talent. A talent absent from the mapping aborts the phase: the
	// all-or-nothing rule holds even with a caller-supplied mapping.
	seen := make(map[string]bool)
	var talentIDs []string
	var unmatched []UnmatchedTalent
	for _, c := range collabs {
		if _, ok := identityMapping[c.TalentID]; !ok {
			unmatched = append(unmatched, UnmatchedTalent{SourceTalentID: c.TalentID, Reason: ReasonNoTargetTalent})
			continue
		}
		if !seen[c.TalentID] {
			seen[c.TalentID] = true
			talentIDs = append(talentIDs, c.TalentID)
		}
	}
	if len(unmatched) > 0 {
		return nil, &UnmatchedError{Unmatched: unmatched}
	}

	fetched := make([]string, len(talentIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.fanout)
	for i, id := range talentIDs {
		g.Go(func() error {
			t, err := p.source.GetTalent(gctx, id)
			if err != nil {
				return err
			}
			if t != nil {
				fetched[i] = t.Platform
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	platforms := make(map[string]string, len(talentIDs))
	for i, id := range talentIDs {
		platforms[id] = fetched[i]
	}

	now := time.Now().UTC()
	mapping := make(map[string]string, len(collabs))
	targets := make([]model.TargetCollaboration, 0, len(collabs))
	for _, c := range collabs {
		id := uuid.NewString()
		mapping[c.ID] = id

		tc := model.TargetCollaboration{
			ID:                 id,
			ProjectID:          targetProjectID,
			TalentOneID:        identityMapping[c.TalentID],
			TalentPlatform:     platforms[c.TalentID],
			Amount:             model.ToMinorUnits(c.Amount),
			RebateRate:         c.RebateRate,
			Status:             c.Status, // vocabularies coincide across schemas
			VideoID:            c.VideoID,
			PlannedReleaseDate: c.PlannedReleaseDate,
			ActualReleaseDate:  c.ActualReleaseDate,
			OrderMode:          model.MapOrderMode(c.OrderType),
			MigratedFrom: &model.CollabProvenance{
				SourceCollabID: c.ID,
				SourceTalentID: c.TalentID,
				MigratedAt:     now,
			},
		}
		if c.ActualRebate != nil {
			minor := model.ToMinorUnits(*c.ActualRebate)
			tc.ActualRebate = &minor
		}
		targets = append(targets, tc)
	}

	inserted, err := p.target.InsertCollaborations(ctx, targets)
	result = &CollabResult{Requested: len(targets), Inserted: inserted, Mapping: mapping}
	if err != nil {
		return result, eris.Wrapf(err, "migrate: collaborations batch inserted %d of %d", inserted, len(targets))
	}

	log.Info("collaborations migrated", zap.Int("count", inserted))
	return result, nil
}
