package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/ats-insights/internal/ats"
)

const (
	summarySheet     = "Summary"
	sectionsSheet    = "Sections"
	historySheet     = "History"
	timelineSheet    = "Timeline"
	comparisonsSheet = "Comparisons"

	timeLayout = "2006-01-02 15:04:05"
)

type workbookStyles struct {
	title  int
	header int
	label  int
	strong int
	fair   int
	weak   int
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// WriteWorkbook renders the payload as an Excel workbook. An empty path creates a temporary file.
func WriteWorkbook(payload *Payload, path string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newStyles(f)
	if err != nil {
		return "", fmt.Errorf("creating styles: %w", err)
	}

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return "", err
	}

	sheets := []struct {
		name  string
		build func(*excelize.File, string, *Payload, workbookStyles) error
	}{
		{summarySheet, writeSummary},
		{sectionsSheet, writeSections},
		{historySheet, writeHistory},
		{timelineSheet, writeTimeline},
		{comparisonsSheet, writeComparisons},
	}

	for _, sheet := range sheets {
		if sheet.name != summarySheet {
			if _, err := f.NewSheet(sheet.name); err != nil {
				return "", fmt.Errorf("creating %s sheet: %w", sheet.name, err)
			}
		}
		if err := sheet.build(f, sheet.name, payload, styles); err != nil {
			return "", fmt.Errorf("writing %s sheet: %w", sheet.name, err)
		}
	}

	if strings.TrimSpace(path) == "" {
		file, err := os.CreateTemp("", "ats-insights_*.xlsx")
		if err != nil {
			return "", err
		}
		defer file.Close()

		if err := f.Write(file); err != nil {
			return "", fmt.Errorf("writing workbook: %w", err)
		}
		return file.Name(), nil
	}

	path = filepath.Clean(path)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("saving workbook %s: %w", path, err)
	}

	return path, nil
}

func newStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error

	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	}); err != nil {
		return s, err
	}

	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	}); err != nil {
		return s, err
	}

	if s.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, err
	}

	for _, fill := range []struct {
		dst   *int
		color string
	}{
		{&s.strong, "C6EFCE"},
		{&s.fair, "FFEB9C"},
		{&s.weak, "FFC7CE"},
	} {
		if *fill.dst, err = f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{fill.color}, Pattern: 1},
			Border: thinBorder,
		}); err != nil {
			return s, err
		}
	}

	return s, nil
}

// scoreStyle colours a row by the same thresholds the factor rules use.
func (s workbookStyles) scoreStyle(score int) int {
	switch {
	case score >= 90:
		return s.strong
	case score <= 50:
		return s.weak
	default:
		return s.fair
	}
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func writeHeaders(f *excelize.File, sheet string, style int, headers ...string) error {
	for i, header := range headers {
		name, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, name, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, name, name, style); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) error {
	name, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, name, &values)
}

func writeSummary(f *excelize.File, sheet string, p *Payload, s workbookStyles) error {
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 50); err != nil {
		return err
	}

	row := 1
	if err := f.SetCellValue(sheet, cell("A", row), "ATS Insights Report"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell("A", row), cell("B", row), s.title); err != nil {
		return err
	}
	row += 2

	pairs := [][2]any{
		{"Generated:", p.GeneratedAt.Format(timeLayout)},
		{"Time range:", string(p.TimeRange)},
	}
	if p.Snapshot != nil {
		pairs = append(pairs,
			[2]any{"ATS score:", p.Snapshot.Current},
			[2]any{"Confidence:", string(p.Snapshot.Confidence)},
			[2]any{"Calculated:", p.Snapshot.Timestamp.Format(timeLayout)},
		)
		for _, factor := range p.Snapshot.Factors {
			pairs = append(pairs, [2]any{"Factor:", fmt.Sprintf("%s (%+d)", factor.Name, factor.Impact)})
		}
	}
	if m := p.Metrics; m != nil {
		pairs = append(pairs,
			[2]any{"Total improvement:", m.TotalImprovement},
			[2]any{"Baseline interview rate:", m.Prediction.BaselineRate},
			[2]any{"Predicted interview rate:", m.Prediction.PredictedRate},
		)
	}

	for _, pair := range pairs {
		if err := f.SetCellValue(sheet, cell("A", row), pair[0]); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell("A", row), cell("A", row), s.label); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell("B", row), pair[1]); err != nil {
			return err
		}
		row++
	}

	return nil
}

func writeSections(f *excelize.File, sheet string, p *Payload, s workbookStyles) error {
	if err := f.SetColWidth(sheet, "A", "A", 16); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "D", "E", 70); err != nil {
		return err
	}
	if err := writeHeaders(f, sheet, s.header, "Section", "Score", "Weight", "Issues", "Recommendations"); err != nil {
		return err
	}
	if p.Snapshot == nil {
		return nil
	}

	row := 2
	for _, name := range ats.KnownSections {
		section := p.Snapshot.Sections[name]

		issues := make([]string, 0, len(section.Issues))
		for _, issue := range section.Issues {
			issues = append(issues, fmt.Sprintf("[%s] %s", issue.Severity, issue.Description))
		}

		if err := writeRow(f, sheet, row,
			string(name),
			section.Score,
			section.Weight,
			strings.Join(issues, "\n"),
			strings.Join(section.Recommendations, "\n"),
		); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell("A", row), cell("E", row), s.scoreStyle(section.Score)); err != nil {
			return err
		}
		row++
	}

	return nil
}

func writeHistory(f *excelize.File, sheet string, p *Payload, s workbookStyles) error {
	if err := f.SetColWidth(sheet, "A", "A", 22); err != nil {
		return err
	}
	if err := writeHeaders(f, sheet, s.header, "Timestamp", "Score", "Change", "Confidence"); err != nil {
		return err
	}

	for i, entry := range p.History {
		var change any = ""
		if entry.Delta != nil {
			change = *entry.Delta
		}
		if err := writeRow(f, sheet, i+2,
			entry.Timestamp.Format(timeLayout),
			entry.Score,
			change,
			string(entry.Confidence),
		); err != nil {
			return err
		}
	}

	return nil
}

func writeTimeline(f *excelize.File, sheet string, p *Payload, s workbookStyles) error {
	if err := f.SetColWidth(sheet, "A", "A", 22); err != nil {
		return err
	}
	if err := writeHeaders(f, sheet, s.header, "Date", "ATS Score", "Change", "Changes", "Impact"); err != nil {
		return err
	}
	if p.Metrics == nil {
		return nil
	}

	for i, point := range p.Metrics.Timeline {
		var change any = ""
		if point.Delta != nil {
			change = *point.Delta
		}
		if err := writeRow(f, sheet, i+2,
			point.Date.Format(timeLayout),
			point.ATSScore,
			change,
			point.Changes,
			point.Impact,
		); err != nil {
			return err
		}
	}

	return nil
}

func writeComparisons(f *excelize.File, sheet string, p *Payload, s workbookStyles) error {
	if err := f.SetColWidth(sheet, "A", "A", 16); err != nil {
		return err
	}
	if err := writeHeaders(f, sheet, s.header, "Status", "Applications", "Avg ATS Improvement", "Avg Interview Rate", "Interviews"); err != nil {
		return err
	}
	if p.Metrics == nil {
		return nil
	}

	row := 2
	all := p.Metrics.Comparisons
	if err := writeRow(f, sheet, row, "all", all.Total, all.AvgATSImprovement, all.AvgInterviewRate, all.InterviewCount); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell("A", row), cell("A", row), s.label); err != nil {
		return err
	}

	for _, report := range p.Metrics.ByStatus {
		row++
		if err := writeRow(f, sheet, row,
			string(report.Status),
			report.Total,
			report.AvgATSImprovement,
			report.AvgInterviewRate,
			report.InterviewCount,
		); err != nil {
			return err
		}
	}

	return nil
}
