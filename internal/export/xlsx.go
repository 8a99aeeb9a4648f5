package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"building_scheduler/internal/models"
)

const (
	weekSheet   = "week"
	eventsSheet = "events"
)

// XLSX renders the grid on one sheet and every occurrence as a row on a second.
func XLSX(title string, g models.WeekGrid) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", weekSheet)
	f.NewSheet(eventsSheet)

	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return nil, err
	}

	_ = f.SetCellValue(weekSheet, "A1", title)
	for i, h := range g.DayHeaders() {
		cell, _ := excelize.CoordinatesToCellName(i+2, 2)
		_ = f.SetCellValue(weekSheet, cell, strings.ReplaceAll(h, "\n", " "))
	}
	for hour, label := range models.HourHeaders() {
		row := hour + 3
		_ = f.SetCellValue(weekSheet, fmt.Sprintf("A%d", row), label)
		for day := 0; day < models.DaysPerWeek; day++ {
			entries := g.Cell(hour, day)
			if len(entries) == 0 {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(day+2, row)
			_ = f.SetCellValue(weekSheet, cell, cellText(entries, "\n"))
			_ = f.SetCellStyle(weekSheet, cell, cell, wrap)
		}
	}
	_ = f.SetColWidth(weekSheet, "B", "H", 24)

	headers := []string{"Schedule", "Zone", "Event", "Time", "Setpoint", "Type", "Outstation", "Colour"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(eventsSheet, cell, h)
	}
	for i, e := range g.Entries() {
		row := i + 2
		values := []any{e.ScheduleName, e.ZoneID, e.EventID, e.Time.Format("2006-01-02 15:04"),
			e.Setpoint.Value, e.Setpoint.Comparison.Label(), e.OutstationID, e.Colour.Hex()}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(eventsSheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
