// Package store provides persistence for the migration pipeline over the
// two logical campaign databases. The source side is strictly read-only.
package store

import (
	"context"

	"github.com/kolmedia/talentsync/internal/model"
	"github.com/kolmedia/talentsync/internal/pricing"
)

// Source reads the legacy campaign database.
type Source interface {
	ListProjects(ctx context.Context) ([]model.SourceProject, error)
	// GetProject returns (nil, nil) when the project does not exist.
	GetProject(ctx context.Context, id string) (*model.SourceProject, error)
	ListCollaborations(ctx context.Context, projectID string) ([]model.SourceCollaboration, error)
	// GetTalent returns (nil, nil) when the talent record is missing.
	GetTalent(ctx context.Context, id string) (*model.SourceTalent, error)
	ListEffectRecords(ctx context.Context, projectID string) ([]model.SourceEffectRecord, error)
	ListDailyStats(ctx context.Context, projectID string) ([]model.SourceDailyStat, error)
	// SumCollaborationAmounts aggregates collaboration amounts in major units.
	SumCollaborationAmounts(ctx context.Context, projectID string) (float64, error)
}

// Target reads and writes the redesigned campaign database. Lookup methods
// return (nil, nil) on no match.
type Target interface {
	GetProject(ctx context.Context, id string) (*model.TargetProject, error)
	FindProjectBySourceID(ctx context.Context, sourceProjectID string) (*model.TargetProject, error)
	FindProjectByName(ctx context.Context, name string) (*model.TargetProject, error)
	InsertProject(ctx context.Context, p *model.TargetProject) error
	SetProjectTracking(ctx context.Context, projectID string, tc *model.TrackingConfig) error
	DeleteProject(ctx context.Context, id string) (int64, error)

	ListTalentsByAccountIDs(ctx context.Context, accountIDs []string) ([]model.TargetTalent, error)

	// InsertCollaborations batch-inserts and returns the number actually
	// written, which callers must compare against the requested count.
	InsertCollaborations(ctx context.Context, collabs []model.TargetCollaboration) (int, error)
	ListCollaborations(ctx context.Context, projectID string) ([]model.TargetCollaboration, error)
	GetCollaboration(ctx context.Context, id string) (*model.TargetCollaboration, error)
	FindCollaborationByVideoID(ctx context.Context, projectID, videoID string) (*model.TargetCollaboration, error)
	FindCollaborationBySourceID(ctx context.Context, projectID, sourceCollabID string) (*model.TargetCollaboration, error)
	SetCollaborationEffectData(ctx context.Context, collabID string, data *model.EffectData) error
	SetCollaborationDailyStats(ctx context.Context, collabID string, stats []model.DailyStat) error
	DeleteCollaborationsByProject(ctx context.Context, projectID string) (int64, error)

	CountCollaborations(ctx context.Context, projectID string) (int64, error)
	CountCollaborationsWithEffects(ctx context.Context, projectID string) (int64, error)
	// SumCollaborationAmounts aggregates amounts in minor units.
	SumCollaborationAmounts(ctx context.Context, projectID string) (int64, error)
	CountDailyStatEntries(ctx context.Context, projectID string) (int64, error)
}

// CustomerConfigs supplies a customer's ordered pricing configuration list.
type CustomerConfigs interface {
	PricingConfigs(ctx context.Context, customerID string) ([]pricing.Config, error)
}

// RunLog records phase invocations in the target database so the
// orchestration UI can show per-phase history across sessions.
type RunLog interface {
	Start(ctx context.Context, sourceProjectID, phase string) (string, error)
	Complete(ctx context.Context, runID string, counts map[string]int64) error
	Fail(ctx context.Context, runID string, runErr error) error
	History(ctx context.Context, sourceProjectID string) ([]model.RunEntry, error)
}
