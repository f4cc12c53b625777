package report

import "github.com/duailibe/jira-report/internal/jira"

type Level int

const (
	LevelTask Level = iota
	LevelSubtask
	LevelEpic
)

func (l Level) String() string {
	switch l {
	case LevelEpic:
		return "epic"
	case LevelSubtask:
		return "subtask"
	default:
		return "task"
	}
}

// Classifier places issues in the epic/task/subtask hierarchy by issue type.
// TaskTypeID is the type given to an epic that has to stand in for a task.
type Classifier struct {
	EpicTypeID string
	TaskTypeID string
}

func (c Classifier) Level(issue jira.Issue) Level {
	switch {
	case issue.Fields.IssueType.ID == c.EpicTypeID:
		return LevelEpic
	case issue.Fields.IssueType.Subtask:
		return LevelSubtask
	default:
		return LevelTask
	}
}

// AsTask returns a copy of an epic dressed up as a task so its direct
// subtasks can hang under it. epic itself is not modified.
func (c Classifier) AsTask(epic jira.Issue) jira.Issue {
	task := epic
	task.Fields.IssueType.ID = c.TaskTypeID
	task.Fields.IssueType.Subtask = false
	task.Fields.Summary = "#" + epic.Fields.Summary
	return task
}

// epicIDOf is the epic bucket a task-level issue belongs to.
func epicIDOf(issue jira.Issue) string {
	if issue.Fields.Parent != nil {
		return issue.Fields.Parent.ID
	}
	return unknownEpicID(issue.Fields.Project.ID)
}

func unknownEpicID(projectID string) string {
	return projectID + "|unknown"
}

func parentID(issue jira.Issue) string {
	if issue.Fields.Parent == nil {
		return ""
	}
	return issue.Fields.Parent.ID
}
