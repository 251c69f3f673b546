package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	slotuc "github.com/BruksfildServices01/salon-scheduler/internal/usecase/slot"
)

const (
	SheetSummary = "Resumo"
	SheetPeriods = "Períodos"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var periodHeader = []string{
	"Data", "Total", "Disponíveis", "Reservados", "Bloqueados", "Intervalos", "Utilização", "Disponibilidade",
}

// Workbook renders a utilization report as an XLSX file.
func Workbook(r *slotuc.Report) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(SheetSummary)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if _, err := f.NewSheet(SheetPeriods); err != nil {
		return nil, err
	}
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	percentStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 10})

	// --------------------------------------------------
	// Resumo
	// --------------------------------------------------
	_ = f.SetCellValue(SheetSummary, "A1", fmt.Sprintf("Utilização %s a %s", r.From, r.To))
	_ = f.MergeCell(SheetSummary, "A1", "H1")
	_ = f.SetCellStyle(SheetSummary, "A1", "A1", headerStyle)

	s := r.Summary
	summaryRows := [][]any{
		{"Total de horários", s.Total},
		{"Disponíveis", s.Available},
		{"Reservados", s.Booked},
		{"Bloqueados", s.Blocked},
		{"Intervalos", s.Break},
		{"Taxa de utilização", s.UtilizationRate},
		{"Taxa de disponibilidade", s.AvailabilityRate},
		{"Horas totais", s.TotalHours},
		{"Horas reservadas", s.BookedHours},
	}
	for i, row := range summaryRows {
		_ = f.SetSheetRow(SheetSummary, cell("A", 3+i), &row)
	}
	_ = f.SetCellStyle(SheetSummary, cell("B", 8), cell("B", 9), percentStyle)
	_ = f.SetColWidth(SheetSummary, "A", "A", 26)

	if len(r.Specialists) > 0 {
		start := 3 + len(summaryRows) + 1
		header := []any{"Profissional", "Total", "Disponíveis", "Reservados", "Bloqueados", "Intervalos", "Utilização", "Horas"}
		_ = f.SetSheetRow(SheetSummary, cell("A", start), &header)
		_ = f.SetCellStyle(SheetSummary, cell("A", start), cell("H", start), headerStyle)

		for i, sp := range r.Specialists {
			name := "Agenda geral"
			if sp.SpecialistID != nil {
				name = fmt.Sprintf("#%d", *sp.SpecialistID)
			}
			row := []any{name, sp.Total, sp.Available, sp.Booked, sp.Blocked, sp.Break, sp.UtilizationRate, sp.TotalHours}
			_ = f.SetSheetRow(SheetSummary, cell("A", start+1+i), &row)
			_ = f.SetCellStyle(SheetSummary, cell("G", start+1+i), cell("G", start+1+i), percentStyle)
		}
	}

	// --------------------------------------------------
	// Períodos
	// --------------------------------------------------
	header := make([]any, len(periodHeader))
	for i, h := range periodHeader {
		header[i] = h
	}
	_ = f.SetSheetRow(SheetPeriods, "A1", &header)
	_ = f.SetCellStyle(SheetPeriods, "A1", "H1", headerStyle)
	_ = f.SetColWidth(SheetPeriods, "A", "H", 16)

	for i, d := range r.Days {
		row := []any{d.Period, d.Total, d.Available, d.Booked, d.Blocked, d.Break, d.UtilizationRate, d.AvailabilityRate}
		_ = f.SetSheetRow(SheetPeriods, cell("A", 2+i), &row)
	}
	if n := len(r.Days); n > 0 {
		_ = f.SetCellStyle(SheetPeriods, "G2", cell("H", 1+n), percentStyle)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
