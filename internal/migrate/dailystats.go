package migrate

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kolmedia/talentsync/internal/model"
)

// DailyStatsResult reports the daily-stats phase outcome.
type DailyStatsResult struct {
	TotalSourceRecords int    `json:"totalSourceRecords"`
	MigratedCount      int    `json:"migratedCount"`
	SkippedCount       int    `json:"skippedCount"`
	AlreadyMigrated    int    `json:"alreadyMigrated"`
	TrackingStatus     string `json:"trackingStatus"`
	StartDate          string `json:"startDate,omitempty"`
	EndDate            string `json:"endDate,omitempty"`
}

// MigrateDailyStats merges per-day granular stats into already migrated
// target collaborations. Only raw view counts and the free-text solution are
// copied; derived cost metrics are recomputed downstream and never migrated.
// After processing, the caller-chosen tracking status and the copied date
// bounds are written onto the target project.
func (p *Pipeline) MigrateDailyStats(ctx context.Context, sourceProjectID string, collabMapping map[string]string, trackingStatus string) (result *DailyStatsResult, err error) {
	if sourceProjectID == "" {
		return nil, &ValidationError{Param: "sourceProjectId", Detail: "required"}
	}
	switch trackingStatus {
	case model.TrackingActive, model.TrackingArchived, model.TrackingDisabled:
	default:
		return nil, &ValidationError{Param: "trackingStatus", Detail: "must be active, archived or disabled"}
	}

	log := zap.L().With(zap.String("component", "migrate.dailystats"), zap.String("sourceProjectId", sourceProjectID))
	done := p.track(ctx, sourceProjectID, PhaseDailyStats)
	defer func() {
		var counts map[string]int64
		if result != nil {
			counts = map[string]int64{
				"total":    int64(result.TotalSourceRecords),
				"migrated": int64(result.MigratedCount),
				"skipped":  int64(result.SkippedCount),
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

	stats, err := p.source.ListDailyStats(ctx, sourceProjectID)
	if err != nil {
		return nil, err
	}

	// Group per source collaboration (falling back to the video id as the
	// group key) so each target document is written exactly once.
	type group struct {
		collabID string
		videoID  string
		rows     []model.SourceDailyStat
	}
	byKey := make(map[string]*group)
	var order []string
	for _, s := range stats {
		key := s.CollabID
		if key == "" {
			key = "video:" + s.VideoID
		}
		g, ok := byKey[key]
		if !ok {
			g = &group{collabID: s.CollabID, videoID: s.VideoID}
			byKey[key] = g
			order = append(order, key)
		}
		if g.videoID == "" {
			g.videoID = s.VideoID
		}
		g.rows = append(g.rows, s)
	}

	var mu sync.Mutex
	res := &DailyStatsResult{TotalSourceRecords: len(stats), TrackingStatus: trackingStatus}
	var minDate, maxDate string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.fanout)
	for _, key := range order {
		grp := byKey[key]
		g.Go(func() error {
			if err := p.lookups.Wait(gctx); err != nil {
				return err
			}

			collab, err := p.resolveCollab(gctx, targetProject.ID, collabMapping, grp.collabID, grp.videoID)
			if err != nil {
				return err
			}
			if collab == nil || collab.MigratedFrom == nil {
				mu.Lock()
				res.SkippedCount += len(grp.rows)
				mu.Unlock()
				return nil
			}
			if len(collab.DailyStats) > 0 {
				mu.Lock()
				res.AlreadyMigrated += len(grp.rows)
				mu.Unlock()
				return nil
			}

			now := time.Now().UTC()
			entries := make([]model.DailyStat, 0, len(grp.rows))
			for _, row := range grp.rows {
				entries = append(entries, model.DailyStat{
					Date:       row.Date,
					TotalViews: row.TotalViews,
					Solution:   row.Solution,
					Source:     "migrated",
					MigratedAt: now,
				})
			}
			sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })

			if err := p.target.SetCollaborationDailyStats(gctx, collab.ID, entries); err != nil {
				return err
			}

			mu.Lock()
			res.MigratedCount += len(entries)
			for _, e := range entries {
				if e.Date == "" {
					continue
				}
				if minDate == "" || e.Date < minDate {
					minDate = e.Date
				}
				if e.Date > maxDate {
					maxDate = e.Date
				}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tc := &model.TrackingConfig{
		Status:    trackingStatus,
		StartDate: minDate,
		EndDate:   maxDate,
		UpdatedAt: time.Now().UTC(),
	}
	if err := p.target.SetProjectTracking(ctx, targetProject.ID, tc); err != nil {
		return nil, err
	}

	res.StartDate = minDate
	res.EndDate = maxDate
	result = res
	log.Info("daily stats migrated",
		zap.Int("total", res.TotalSourceRecords),
		zap.Int("migrated", res.MigratedCount),
		zap.Int("skipped", res.SkippedCount),
		zap.String("trackingStatus", trackingStatus),
	)
	return result, nil
}
