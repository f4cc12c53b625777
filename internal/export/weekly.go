package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/duailibe/jira-report/internal/report"
)

const (
	SheetName       = "주간보고"
	DefaultFileName = "주간업무보고.xlsx"

	titleText  = "주간 이슈 보고서"
	footerText = "특이사항"
	fontFamily = "맑은 고딕"
	colWidth   = 70

	thisWeekFill = "FCD5B4"
	nextWeekFill = "CCEFFF"
	projectFill  = "D9D9D9"
	epicFill     = "EBEBEB"
)

// styles holds the ids of the cell styles a weekly sheet uses.
type styles struct {
	title, footer, footerGap int
	thisHeader, nextHeader   int
	body, project, epic      int
}

// WriteWeeklyXLSX writes the weekly grid as a two-column workbook: a title,
// one header per week, one row per grid row and a notes footer.
func WriteWeeklyXLSX(w io.Writer, rng report.Range, rows []report.Row, now time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	stamp := now.UTC().Format(time.RFC3339)
	if err := f.SetDocProps(&excelize.DocProperties{
		Creator:        "jira-report",
		LastModifiedBy: "jira-report",
		Created:        stamp,
		Modified:       stamp,
	}); err != nil {
		return fmt.Errorf("set doc props: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", "B", colWidth); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	st, err := newStyles(f)
	if err != nil {
		return err
	}

	if err := mergedRow(f, 1, titleText, st.title); err != nil {
		return err
	}
	headers := []struct {
		cell, text string
		style      int
	}{
		{"A2", fmt.Sprintf("이번 주 이슈 현황(%s)", rng.ThisWeek), st.thisHeader},
		{"B2", fmt.Sprintf("다음 주 이슈 현황(%s)", rng.NextWeek), st.nextHeader},
	}
	for _, h := range headers {
		if err := setCell(f, h.cell, h.text, h.style); err != nil {
			return err
		}
	}

	for i, row := range rows {
		line := i + 3
		for col, cell := range []report.Cell{row.ThisWeek, row.NextWeek} {
			name, err := excelize.CoordinatesToCellName(col+1, line)
			if err != nil {
				return err
			}
			if err := setCell(f, name, cell.Text, st.forCategory(cell.Category)); err != nil {
				return err
			}
		}
	}

	footer := len(rows) + 3
	if err := mergedRow(f, footer, "", st.footerGap); err != nil {
		return err
	}
	if err := mergedRow(f, footer+1, footerText, st.footer); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func (s styles) forCategory(category string) int {
	switch category {
	case report.CategoryProject:
		return s.project
	case report.CategoryEpic:
		return s.epic
	default:
		return s.body
	}
}

func newStyles(f *excelize.File) (styles, error) {
	box := border("left", "right", "top", "bottom")
	sides := border("left", "right")
	center := &excelize.Alignment{Horizontal: "center"}
	bold := &excelize.Font{Bold: true}
	named := &excelize.Font{Bold: true, Family: fontFamily}

	var st styles
	defs := []struct {
		dst   *int
		style excelize.Style
	}{
		{&st.title, excelize.Style{Font: named, Border: box, Alignment: center}},
		{&st.thisHeader, excelize.Style{Font: bold, Border: box, Alignment: center, Fill: solid(thisWeekFill)}},
		{&st.nextHeader, excelize.Style{Font: bold, Border: box, Alignment: center, Fill: solid(nextWeekFill)}},
		{&st.body, excelize.Style{Border: sides}},
		{&st.project, excelize.Style{Font: bold, Border: border("left", "right", "top"), Fill: solid(projectFill)}},
		{&st.epic, excelize.Style{Font: bold, Border: sides, Fill: solid(epicFill)}},
		{&st.footerGap, excelize.Style{Border: box}},
		{&st.footer, excelize.Style{Font: named, Border: box, Fill: solid(projectFill)}},
	}
	for _, def := range defs {
		id, err := f.NewStyle(&def.style)
		if err != nil {
			return styles{}, fmt.Errorf("create style: %w", err)
		}
		*def.dst = id
	}
	return st, nil
}

func border(sides ...string) []excelize.Border {
	out := make([]excelize.Border, 0, len(sides))
	for _, side := range sides {
		out = append(out, excelize.Border{Type: side, Color: "000000", Style: 1})
	}
	return out
}

func solid(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}

func setCell(f *excelize.File, cell, text string, style int) error {
	if err := f.SetCellStr(SheetName, cell, text); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	if err := f.SetCellStyle(SheetName, cell, cell, style); err != nil {
		return fmt.Errorf("style %s: %w", cell, err)
	}
	return nil
}

func mergedRow(f *excelize.File, line int, text string, style int) error {
	left := fmt.Sprintf("A%d", line)
	right := fmt.Sprintf("B%d", line)
	if err := f.MergeCell(SheetName, left, right); err != nil {
		return fmt.Errorf("merge row %d: %w", line, err)
	}
	if text != "" {
		if err := f.SetCellStr(SheetName, left, text); err != nil {
			return fmt.Errorf("set %s: %w", left, err)
		}
	}
	if err := f.SetCellStyle(SheetName, left, right, style); err != nil {
		return fmt.Errorf("style row %d: %w", line, err)
	}
	return nil
}
