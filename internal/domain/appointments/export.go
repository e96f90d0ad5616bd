package appointments

import (
	"context"
	"fmt"
	"io"

	"pawsera/internal/domain/roles"
	"pawsera/internal/platform/apperr"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Appointments"

var exportHeader = []any{"ID", "Date", "Time", "Pet", "Owner ID", "Vet", "Vet ID", "Purpose", "Status", "Notes", "Created At"}

// Export escribe todos los turnos como XLSX (admin).
func (s *Service) Export(ctx context.Context, actor roles.Actor, w io.Writer) error {
	if !actor.IsAdmin() {
		return apperr.ErrForbidden
	}
	items, err := s.Query(ctx, actor, ListFilter{})
	if err != nil {
		return err
	}
	return WriteXLSX(w, items)
}

func WriteXLSX(w io.Writer, items []Appointment) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("xlsx: header: %w", err)
	}

	for i, a := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			a.ID,
			a.Date.Format(DateLayout),
			a.Time,
			a.PetName,
			a.OwnerID,
			a.VetName,
			a.VetID,
			a.Purpose,
			string(a.Status),
			a.Notes,
			a.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx: row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("xlsx: panes: %w", err)
	}

	_, err := f.WriteTo(w)
	return err
}
