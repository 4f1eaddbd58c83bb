package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/kolmedia/talentsync/internal/migrate"
	"github.com/kolmedia/talentsync/internal/model"
)

func TestWriteWorkbook(t *testing.T) {
	t.Parallel()

	wb := Workbook{
		SourceProjectID: "p1",
		TargetProject: &model.TargetProject{
			ID:     "tgt-1",
			Name:   "Spring Launch",
			Status: model.ProjectExecuting,
			Budget: 800000,
		},
		Reconciliation: &migrate.Reconciliation{
			Collaborations: migrate.CountCompare{Source: 1, Target: 1, Match: true},
			TotalAmount:    migrate.AmountCompare{SourceMinor: 100000, TargetMinor: 100000, Match: true},
			Effects:        migrate.EffectCompare{SourceWorks: 1, TargetWithEffects: 1},
			DailyStats:     migrate.CountCompare{Source: 2, Target: 2, Match: true},
			AllMatch:       true,
		},
		Collaborations: []model.TargetCollaboration{{
			ID:          "col-1",
			TalentOneID: "one-t1",
			Amount:      100000,
			RebateRate:  0.1,
			Status:      "pendingRelease",
			OrderMode:   model.OrderModeOriginal,
			VideoID:     "v1",
			MigratedFrom: &model.CollabProvenance{
				SourceCollabID: "c1",
			},
		}},
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, Write(wb, path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 2)

	rec := f.Sheet["Reconciliation"]
	require.NotNil(t, rec)
	assert.Equal(t, "Source project", rec.Rows[0].Cells[0].Value)
	assert.Equal(t, "p1", rec.Rows[0].Cells[1].Value)
	assert.Equal(t, "800000", rec.Rows[4].Cells[1].Value)

	collabs := f.Sheet["Collaborations"]
	require.NotNil(t, collabs)
	require.Len(t, collabs.Rows, 2)
	row := collabs.Rows[1]
	assert.Equal(t, "col-1", row.Cells[0].Value)
	assert.Equal(t, "100000", row.Cells[3].Value)
	assert.Equal(t, "c1", row.Cells[8].Value)
}

func TestWriteWorkbookWithoutReconciliation(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, Write(Workbook{SourceProjectID: "p1"}, path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 2)
}
