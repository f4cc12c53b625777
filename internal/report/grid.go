package report

import (
	"fmt"

	"github.com/duailibe/jira-report/internal/jira"
)

const (
	StyleProject = "project-title"
	StyleEpic    = "epic-title"
	StyleTask    = "task-title"
	StyleSubtask = "subtask-title"

	CategoryProject = "project"
	CategoryEpic    = "epic"
	CategoryTask    = "task"
	CategorySubtask = "subtask"

	blankCell = " "
)

type Cell struct {
	Text     string `json:"text"`
	Style    string `json:"style,omitempty"`
	Category string `json:"category,omitempty"`
}

// Row is one display line: this week on the left, next week on the right.
type Row struct {
	ThisWeek Cell `json:"this_week"`
	NextWeek Cell `json:"next_week"`
}

// Flatten lays the projects out on a grid sized to their total depth. The two
// columns advance independently inside an epic and are brought level again
// after every epic, so unrelated epics never share a row.
func Flatten(groups []ProjectGroup) []Row {
	total := 0
	for _, group := range groups {
		total += group.TotalDepth
	}
	rows := make([]Row, total)
	for i := range rows {
		rows[i] = Row{ThisWeek: Cell{Text: blankCell}, NextWeek: Cell{Text: blankCell}}
	}

	left, right := 0, 0
	for _, group := range groups {
		if len(group.Epics) == 0 {
			continue
		}
		title := Cell{Text: "[" + group.Name + "]", Style: StyleProject, Category: CategoryProject}
		if anyTasks(group.Epics, thisWeek) {
			rows[left].ThisWeek = title
		}
		if anyTasks(group.Epics, nextWeek) {
			rows[right].NextWeek = title
		}
		left++
		right++

		for _, epic := range group.Epics {
			left = writeColumn(rows, left, epic, epic.ThisWeek, func(r *Row) *Cell { return &r.ThisWeek })
			right = writeColumn(rows, right, epic, epic.NextWeek, func(r *Row) *Cell { return &r.NextWeek })
			level := max(left, right)
			left, right = level, level
		}
	}
	return rows
}

func writeColumn(rows []Row, cursor int, epic *EpicNode, tasks []*TaskNode, cell func(*Row) *Cell) int {
	if len(tasks) == 0 {
		return cursor
	}
	*cell(&rows[cursor]) = Cell{Text: epic.Name, Style: StyleEpic, Category: CategoryEpic}
	cursor++
	for _, task := range tasks {
		*cell(&rows[cursor]) = Cell{Text: TaskLabel(task.Issue), Style: StyleTask, Category: CategoryTask}
		cursor++
		for _, sub := range task.Subtasks {
			*cell(&rows[cursor]) = Cell{Text: SubtaskLabel(sub.Issue), Style: StyleSubtask, Category: CategorySubtask}
			cursor++
		}
	}
	return cursor
}

func anyTasks(epics []*EpicNode, p period) bool {
	for _, epic := range epics {
		if p == thisWeek && len(epic.ThisWeek) > 0 {
			return true
		}
		if p == nextWeek && len(epic.NextWeek) > 0 {
			return true
		}
	}
	return false
}

// TaskLabel renders "[type] [assignee] summary [due]: status".
func TaskLabel(issue jira.Issue) string {
	f := issue.Fields
	return fmt.Sprintf("[%s] [%s] %s [%s]: %s", f.IssueType.Name, assigneeName(issue), f.Summary, f.DueDate, f.Status.Name)
}

// SubtaskLabel is the indented form used under a task.
func SubtaskLabel(issue jira.Issue) string {
	f := issue.Fields
	return fmt.Sprintf("ㄴ [%s] %s [%s]: %s", assigneeName(issue), f.Summary, f.DueDate, f.Status.Name)
}

func assigneeName(issue jira.Issue) string {
	if issue.Fields.Assignee == nil {
		return ""
	}
	return issue.Fields.Assignee.DisplayName
}
