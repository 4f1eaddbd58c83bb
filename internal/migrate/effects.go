package migrate

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kolmedia/talentsync/internal/model"
)

// EffectResult reports the effect phase outcome. Unmatched records are
// counted, never dropped from the tally; records whose target already
// carries effect data are a no-op on re-run.
type EffectResult struct {
	TotalSourceRecords int `json:"totalSourceRecords"`
	UpdatedCount       int `json:"updatedCount"`
	SkippedExisting    int `json:"skippedExisting"`
	Unmatched          int `json:"unmatched"`
}

// MigrateEffects merges the aggregate-window effect metrics into already
// migrated target collaborations. The video id is the join key: this phase
// may run in a separate invocation and no in-memory mapping is assumed to
// survive. An optional mapping from the collaboration phase is used as a
// hint before the video lookup.
func (p *Pipeline) MigrateEffects(ctx context.Context, sourceProjectID string, collabMapping map[string]string) (result *EffectResult, err error) {
	if sourceProjectID == "" {
		return nil, &ValidationError{Param: "sourceProjectId", Detail: "required"}
	}

	log := zap.L().With(zap.String("component", "migrate.effects"), zap.String("sourceProjectId", sourceProjectID))
	done := p.track(ctx, sourceProjectID, PhaseEffects)
	defer func() {
		var counts map[string]int64
		if result != nil {
			counts = map[string]int64{
				"total":   int64(result.TotalSourceRecords),
				"updated": int64(result.UpdatedCount),
			}
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
	targetProject, err := p.findTargetProject(ctx, sourceProjectID, src.Name)
	if err != nil {
		return nil, err
	}
	if targetProject == nil {
		return nil, &NotFoundError{Kind: "target project for source", ID: sourceProjectID}
	}

	records, err := p.source.ListEffectRecords(ctx, sourceProjectID)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	res := &EffectResult{TotalSourceRecords: len(records)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.fanout)
	for _, rec := range records {
		g.Go(func() error {
			if err := p.lookups.Wait(gctx); err != nil {
				return err
			}

			collab, err := p.resolveCollab(gctx, targetProject.ID, collabMapping, rec.CollabID, rec.VideoID)
			if err != nil {
				return err
			}
			// Only collaborations created by this migration lineage are
			// touched; organically created ones never receive effect data.
			if collab == nil || collab.MigratedFrom == nil {
				mu.Lock()
				res.Unmatched++
				mu.Unlock()
				return nil
			}
			if collab.EffectData != nil {
				mu.Lock()
				res.SkippedExisting++
				mu.Unlock()
				return nil
			}

			data := &model.EffectData{T7: rec.T7, T21: rec.T21, T30: rec.T30}
			if err := p.target.SetCollaborationEffectData(gctx, collab.ID, data); err != nil {
				return err
			}
			mu.Lock()
			res.UpdatedCount++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result = res
	log.Info("effects migrated",
		zap.Int("total", res.TotalSourceRecords),
		zap.Int("updated", res.UpdatedCount),
		zap.Int("unmatched", res.Unmatched),
	)
	return result, nil
}

// resolveCollab resolves a source record to a target collaboration using the
// fallback chain: explicit mapping table, provenance join on the source
// collaboration id, then video id.
func (p *Pipeline) resolveCollab(ctx context.Context, targetProjectID string, mapping map[string]string, sourceCollabID, videoID string) (*model.TargetCollaboration, error) {
	if sourceCollabID != "" {
		if id, ok := mapping[sourceCollabID]; ok {
			c, err := p.target.GetCollaboration(ctx, id)
			if err != nil || c != nil {
				return c, err
			}
		}
		c, err := p.target.FindCollaborationBySourceID(ctx, targetProjectID, sourceCollabID)
		if err != nil || c != nil {
			return c, err
		}
	}
	if videoID == "" {
		return nil, nil
	}
	return p.target.FindCollaborationByVideoID(ctx, targetProjectID, videoID)
}
