// Package export renders projected weeks and schedules into downloadable documents.
package export

import (
	"fmt"
	"strings"
	"time"

	"building_scheduler/internal/models"
)

type Format string

const (
	FormatICS  Format = "ics"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
	FormatYAML Format = "yaml"
)

var contentTypes = map[Format]string{
	FormatICS:  "text/calendar; charset=utf-8",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPDF:  "application/pdf",
	FormatYAML: "application/yaml",
}

// ParseFormat accepts the week export formats ics, xlsx and pdf.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatICS, FormatXLSX, FormatPDF:
		return f, nil
	}
	return "", models.Invalid(models.ReasonUnsupportedFormat, "unsupported export format %q", s)
}

// File is a rendered document ready to be served.
type File struct {
	Name        string
	ContentType string
	Body        []byte
}

// Week renders g in the given format. title names the calendar or sheet.
func Week(format Format, title string, g models.WeekGrid) (File, error) {
	var (
		body []byte
		err  error
	)
	switch format {
	case FormatICS:
		body, err = ICS(title, g)
	case FormatXLSX:
		body, err = XLSX(title, g)
	case FormatPDF:
		body, err = PDF(title, g)
	default:
		return File{}, models.Invalid(models.ReasonUnsupportedFormat, "unsupported export format %q", format)
	}
	if err != nil {
		return File{}, fmt.Errorf("render %s: %w", format, err)
	}
	return File{
		Name:        fileName(title, g.WeekStart, format),
		ContentType: contentTypes[format],
		Body:        body,
	}, nil
}

// Schedule renders rec as YAML.
func Schedule(rec models.ScheduleRecord) (File, error) {
	body, err := YAML(rec)
	if err != nil {
		return File{}, fmt.Errorf("render yaml: %w", err)
	}
	return File{
		Name:        sanitize(rec.Name) + ".yaml",
		ContentType: contentTypes[FormatYAML],
		Body:        body,
	}, nil
}

func fileName(title string, weekStart time.Time, format Format) string {
	return fmt.Sprintf("%s-week-%s.%s", sanitize(title), weekStart.Format("2006-01-02"), format)
}

func sanitize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "schedule"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}

// entryLabel is the short text shown for an occurrence inside a grid cell.
func entryLabel(e models.GridEntry) string {
	return fmt.Sprintf("%s %s %s %s", e.Time.Format("15:04"), e.EventID, e.Setpoint.Comparison, e.Setpoint.Value)
}

func cellText(entries []models.GridEntry, sep string) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, entryLabel(e))
	}
	return strings.Join(parts, sep)
}
