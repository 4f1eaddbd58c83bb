// Package report renders a migration summary workbook for finance sign-off.
package report

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/kolmedia/talentsync/internal/migrate"
	"github.com/kolmedia/talentsync/internal/model"
)

// Workbook bundles everything the export renders.
type Workbook struct {
	SourceProjectID string
	TargetProject   *model.TargetProject
	Reconciliation  *migrate.Reconciliation
	Collaborations  []model.TargetCollaboration
}

// Write renders the workbook to path: one reconciliation sheet, one
// collaborations sheet.
func Write(wb Workbook, path string) error {
	f := xlsx.NewFile()

	if err := writeReconciliation(f, wb); err != nil {
		return err
	}
	if err := writeCollaborations(f, wb.Collaborations); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}

func writeReconciliation(f *xlsx.File, wb Workbook) error {
	sheet, err := f.AddSheet("Reconciliation")
	if err != nil {
		return eris.Wrap(err, "report: add reconciliation sheet")
	}

	addRow(sheet, "Source project", wb.SourceProjectID)
	if wb.TargetProject != nil {
		addRow(sheet, "Target project", wb.TargetProject.ID)
		addRow(sheet, "Name", wb.TargetProject.Name)
		addRow(sheet, "Status", wb.TargetProject.Status)
		addRow(sheet, "Budget (minor units)", strconv.FormatInt(wb.TargetProject.Budget, 10))
	}
	addRow(sheet)

	r := wb.Reconciliation
	if r == nil {
		return nil
	}
	addRow(sheet, "Check", "Source", "Target", "Match")
	addRow(sheet, "Collaborations",
		strconv.FormatInt(r.Collaborations.Source, 10),
		strconv.FormatInt(r.Collaborations.Target, 10),
		strconv.FormatBool(r.Collaborations.Match))
	addRow(sheet, "Total amount (minor units)",
		strconv.FormatInt(r.TotalAmount.SourceMinor, 10),
		strconv.FormatInt(r.TotalAmount.TargetMinor, 10),
		strconv.FormatBool(r.TotalAmount.Match))
	addRow(sheet, "Effects (works / with data)",
		strconv.FormatInt(r.Effects.SourceWorks, 10),
		strconv.FormatInt(r.Effects.TargetWithEffects, 10),
		"")
	addRow(sheet, "Daily stat entries",
		strconv.FormatInt(r.DailyStats.Source, 10),
		strconv.FormatInt(r.DailyStats.Target, 10),
		strconv.FormatBool(r.DailyStats.Match))
	addRow(sheet)
	addRow(sheet, "All match", strconv.FormatBool(r.AllMatch))

	return nil
}

func writeCollaborations(f *xlsx.File, collabs []model.TargetCollaboration) error {
	sheet, err := f.AddSheet("Collaborations")
	if err != nil {
		return eris.Wrap(err, "report: add collaborations sheet")
	}

	addRow(sheet, "ID", "Talent", "Platform", "Amount (minor)", "Rebate rate", "Status", "Order mode", "Video", "Source collab")
	for _, c := range collabs {
		sourceCollab := ""
		if c.MigratedFrom != nil {
			sourceCollab = c.MigratedFrom.SourceCollabID
		}
		addRow(sheet,
			c.ID,
			c.TalentOneID,
			c.TalentPlatform,
			strconv.FormatInt(c.Amount, 10),
			strconv.FormatFloat(c.RebateRate, 'f', -1, 64),
			c.Status,
			c.OrderMode,
			c.VideoID,
			sourceCollab,
		)
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().Value = v
	}
}
