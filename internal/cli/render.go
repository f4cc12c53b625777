package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/duailibe/jira-report/internal/jira"
	"github.com/duailibe/jira-report/internal/report"
)

const (
	maxColumnWidth = 70
	columnGap      = " │ "
)

type palette struct {
	header  lipgloss.Style
	project lipgloss.Style
	epic    lipgloss.Style
	task    lipgloss.Style
	subtask lipgloss.Style
	user    lipgloss.Style
	key     lipgloss.Style
	muted   lipgloss.Style
}

func newPalette(noColor bool) palette {
	if noColor {
		plain := lipgloss.NewStyle()
		return palette{plain, plain, plain, plain, plain, plain, plain, plain}
	}
	return palette{
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#282A36")).Background(lipgloss.Color("#FCD5B4")),
		project: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F8F8F2")).Background(lipgloss.Color("#44475A")),
		epic:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#BD93F9")),
		task:    lipgloss.NewStyle(),
		subtask: lipgloss.NewStyle().Foreground(lipgloss.Color("#BFBFBF")),
		user:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BE9FD")),
		key:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C")),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4")),
	}
}

func (p palette) cell(c report.Cell) lipgloss.Style {
	switch c.Style {
	case report.StyleProject:
		return p.project
	case report.StyleEpic:
		return p.epic
	case report.StyleSubtask:
		return p.subtask
	default:
		return p.task
	}
}

// renderWeekly prints the grid as two aligned columns, this week on the
// left, followed by a per-project size summary.
func renderWeekly(out output, rep report.WeeklyReport) error {
	p := newPalette(out.NoColor)
	leftHead := fmt.Sprintf("이번 주 이슈 현황(%s)", rep.Range.ThisWeek)
	rightHead := fmt.Sprintf("다음 주 이슈 현황(%s)", rep.Range.NextWeek)

	leftWidth, rightWidth := lipgloss.Width(leftHead), lipgloss.Width(rightHead)
	for _, row := range rep.Rows {
		leftWidth = max(leftWidth, lipgloss.Width(row.ThisWeek.Text))
		rightWidth = max(rightWidth, lipgloss.Width(row.NextWeek.Text))
	}
	leftWidth = min(leftWidth, maxColumnWidth)
	rightWidth = min(rightWidth, maxColumnWidth)

	line := func(left, right string, ls, rs lipgloss.Style) string {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			ls.Width(leftWidth).Render(left),
			p.muted.Render(columnGap),
			rs.Width(rightWidth).Render(right),
		)
	}

	var b strings.Builder
	b.WriteString(line(leftHead, rightHead, p.header, p.header))
	b.WriteString("\n")
	for _, row := range rep.Rows {
		b.WriteString(line(row.ThisWeek.Text, row.NextWeek.Text, p.cell(row.ThisWeek), p.cell(row.NextWeek)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if _, err := io.WriteString(out.Out, b.String()); err != nil {
		return err
	}

	rows := make([][]string, 0, len(rep.Projects))
	for _, project := range rep.Projects {
		rows = append(rows, []string{project.Name, fmt.Sprint(len(project.Epics)), fmt.Sprint(project.TotalDepth)})
	}
	return out.PrintTable([]string{"Project", "Epics", "Rows"}, rows)
}

// dailyContext labels an entry with its project and, when set, the epic or
// parent it hangs under.
func dailyContext(issue jira.Issue) string {
	parts := []string{issue.Fields.Project.Name}
	if issue.Fields.Parent != nil && issue.Fields.Parent.Fields.Summary != "" {
		parts = append(parts, issue.Fields.Parent.Fields.Summary)
	}
	return "[" + strings.Join(parts, " / ") + "]"
}

// renderDaily prints each user's report comments under their name.
func renderDaily(out output, rep report.DailyReport) error {
	p := newPalette(out.NoColor)
	var b strings.Builder
	for i, group := range rep.Groups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.user.Render(fmt.Sprintf("■ %s (%d)", group.User.DisplayName, len(group.Entries))))
		b.WriteString("\n")
		for _, entry := range group.Entries {
			fmt.Fprintf(&b, "  %s %s %s\n", p.key.Render(entry.Issue.Key), p.muted.Render(dailyContext(entry.Issue)), entry.Issue.Fields.Summary)
			for _, text := range strings.Split(entry.Text, "\n") {
				if text == "" {
					continue
				}
				fmt.Fprintf(&b, "    - %s\n", text)
			}
		}
	}
	_, err := io.WriteString(out.Out, b.String())
	return err
}
