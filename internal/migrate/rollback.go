package migrate

import (
	"context"

	"go.uber.org/zap"
)

// RollbackResult reports what the rollback removed.
type RollbackResult struct {
	DeletedProject        int64 `json:"deletedProject"`
	DeletedCollaborations int64 `json:"deletedCollaborations"`
}

// RollbackMigration deletes all target collaborations for the project, then
// the project itself, restoring pre-migration state. Hard deletes, no
// cascade beyond these two collections.
func (p *Pipeline) RollbackMigration(ctx context.Context, targetProjectID string) (result *RollbackResult, err error) {
	if targetProjectID == "" {
		return nil, &ValidationError{Param: "targetProjectId", Detail: "required"}
	}

	log := zap.L().With(zap.String("component", "migrate.rollback"), zap.String("targetProjectId", targetProjectID))

	// The run log is keyed by source project; recover it from provenance
	// when the project still exists.
	sourceProjectID := ""
	if tp, err := p.target.GetProject(ctx, targetProjectID); err == nil && tp != nil && tp.MigratedFrom != nil {
		sourceProjectID = tp.MigratedFrom.SourceProjectID
	}
	done := p.track(ctx, sourceProjectID, PhaseRollback)
	defer func() {
		var counts map[string]int64
		if result != nil {
			counts = map[string]int64{
				"deletedProject":        result.DeletedProject,
				"deletedCollaborations": result.DeletedCollaborations,
			}
		}
		done(counts, err)
	}()

	collabs, err := p.target.DeleteCollaborationsByProject(ctx, targetProjectID)
	if err != nil {
		return nil, err
	}
	project, err := p.target.DeleteProject(ctx, targetProjectID)
	if err != nil {
		return nil, err
	}

	result = &RollbackResult{DeletedProject: project, DeletedCollaborations: collabs}
	log.Info("rollback complete",
		zap.Int64("deletedCollaborations", collabs),
		zap.Int64("deletedProject", project),
	)
	return result, nil
}
