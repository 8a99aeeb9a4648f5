package export

import (
	"bytes"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"building_scheduler/internal/models"
)

const (
	hourColWidth = 16.0
	dayColWidth  = 37.0
	lineHeight   = 4.0
)

// PDF renders the week grid as a landscape table. Cells grow to fit their stacked occurrences.
func PDF(title string, g models.WeekGrid) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "B", 12)
	pdf.AddPage()
	pdf.Cell(0, 8, title)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 8)
	pdf.CellFormat(hourColWidth, 6, "", "1", 0, "C", false, 0, "")
	for _, h := range g.DayHeaders() {
		pdf.CellFormat(dayColWidth, 6, strings.ReplaceAll(h, "\n", " "), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 7)
	for hour, label := range models.HourHeaders() {
		lines := 1
		for day := 0; day < models.DaysPerWeek; day++ {
			if n := len(g.Cell(hour, day)); n > lines {
				lines = n
			}
		}
		height := float64(lines) * lineHeight
		if pdf.GetY()+height > 190 {
			pdf.AddPage()
		}
		x, y := pdf.GetXY()
		pdf.CellFormat(hourColWidth, height, label, "1", 0, "C", false, 0, "")
		for day := 0; day < models.DaysPerWeek; day++ {
			cx := x + hourColWidth + float64(day)*dayColWidth
			pdf.Rect(cx, y, dayColWidth, height, "D")
			for i, e := range g.Cell(hour, day) {
				pdf.SetXY(cx, y+float64(i)*lineHeight)
				pdf.SetTextColor(int(e.Colour.R)/2, int(e.Colour.G)/2, int(e.Colour.B)/2)
				pdf.CellFormat(dayColWidth, lineHeight, entryLabel(e), "", 0, "L", false, 0, "")
			}
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.SetXY(x, y+height)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
