// Package migrate implements the cross-database migration pipeline: talent
// identity matching, the four write phases, reconciliation and rollback.
// Phases are independently invokable and safe to re-run; cross-phase
// ordering is enforced by the caller (the operator-driven UI), not by a
// shared lock.
package migrate

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/kolmedia/talentsync/internal/config"
	"github.com/kolmedia/talentsync/internal/model"
	"github.com/kolmedia/talentsync/internal/store"
)

// Phase names recorded in the run log.
const (
	PhaseValidateTalents = "validate-talents"
	PhaseProject         = "project"
	PhaseCollaborations  = "collaborations"
	PhaseEffects         = "effects"
	PhaseDailyStats      = "daily-stats"
	PhaseReconcile       = "reconcile"
	PhaseRollback        = "rollback"
)

// Pipeline exposes one operation per migration phase over explicitly passed
// stores. It holds no hidden database handle; the caller that opened the
// connection owns its lifetime.
type Pipeline struct {
	source    store.Source
	target    store.Target
	customers store.CustomerConfigs
	runs      store.RunLog

	sourceLabel string
	fanout      int
	lookups     *rate.Limiter
}

// New creates a Pipeline.
func New(src store.Source, tgt store.Target, customers store.CustomerConfigs, runs store.RunLog, cfg config.MigrateConfig) *Pipeline {
	fanout := cfg.Fanout
	if fanout <= 0 {
		fanout = 8
	}
	rps := cfg.LookupRPS
	if rps <= 0 {
		rps = 50
	}
	return &Pipeline{
		source:      src,
		target:      tgt,
		customers:   customers,
		runs:        runs,
		sourceLabel: cfg.SourceLabel,
		fanout:      fanout,
		lookups:     rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// track opens a run-log entry and returns the closer that records the
// outcome. Run-log failures are logged, never fatal: losing history must not
// block a migration.
func (p *Pipeline) track(ctx context.Context, sourceProjectID, phase string) func(counts map[string]int64, err error) {
	log := zap.L().With(zap.String("component", "migrate"), zap.String("phase", phase))

	runID, startErr := p.runs.Start(ctx, sourceProjectID, phase)
	if startErr != nil {
		log.Warn("run log start failed", zap.Error(startErr))
		return func(map[string]int64, error) {}
	}

	return func(counts map[string]int64, err error) {
		if err != nil {
			if logErr := p.runs.Fail(ctx, runID, err); logErr != nil {
				log.Warn("run log fail-mark failed", zap.Error(logErr))
			}
			return
		}
		if logErr := p.runs.Complete(ctx, runID, counts); logErr != nil {
			log.Warn("run log complete failed", zap.Error(logErr))
		}
	}
}

// History returns the run-log entries for a source project in start order.
func (p *Pipeline) History(ctx context.Context, sourceProjectID string) ([]model.RunEntry, error) {
	return p.runs.History(ctx, sourceProjectID)
}

// ProjectOverview annotates a source project with its target-side migration
// state so the UI can offer "continue migration" on partially migrated
// projects.
type ProjectOverview struct {
	Project            model.SourceProject `json:"project"`
	TargetProjectID    string              `json:"targetProjectId,omitempty"`
	ProjectMigrated    bool                `json:"projectMigrated"`
	CollaborationCount int64               `json:"collaborationCount"`
	EffectCount        int64               `json:"effectCount"`
	DailyStatEntries   int64               `json:"dailyStatEntries"`
	TrackingStatus     string              `json:"trackingStatus,omitempty"`
}

// ListSourceProjects lists legacy projects annotated with migration state.
func (p *Pipeline) ListSourceProjects(ctx context.Context) ([]ProjectOverview, error) {
	projects, err := p.source.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	overviews := make([]ProjectOverview, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.fanout)

	for i, proj := range projects {
		g.Go(func() error {
			ov := ProjectOverview{Project: proj}

			tp, err := p.findTargetProject(gctx, proj.ID, proj.Name)
			if err != nil {
				return err
			}
			if tp != nil {
				ov.ProjectMigrated = true
				ov.TargetProjectID = tp.ID
				if tp.Tracking != nil {
					ov.TrackingStatus = tp.Tracking.Status
				}
				if ov.CollaborationCount, err = p.target.CountCollaborations(gctx, tp.ID); err != nil {
					return err
				}
				if ov.EffectCount, err = p.target.CountCollaborationsWithEffects(gctx, tp.ID); err != nil {
					return err
				}
				if ov.DailyStatEntries, err = p.target.CountDailyStatEntries(gctx, tp.ID); err != nil {
					return err
				}
			}

			overviews[i] = ov
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overviews, nil
}

// findTargetProject resolves the migrated counterpart of a source project.
// The persisted source id is the primary key; the legacy name match remains
// as a fallback for projects migrated before provenance was recorded.
func (p *Pipeline) findTargetProject(ctx context.Context, sourceProjectID, name string) (*model.TargetProject, error) {
	tp, err := p.target.FindProjectBySourceID(ctx, sourceProjectID)
	if err != nil || tp != nil {
		return tp, err
	}
	return p.target.FindProjectByName(ctx, name)
}
