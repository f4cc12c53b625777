package report

import (
	"github.com/rs/zerolog"

	"github.com/duailibe/jira-report/internal/jira"
)

const unknownEpicName = "기타"

type TaskNode struct {
	ID       string      `json:"id"`
	Issue    jira.Issue  `json:"issue"`
	Subtasks []*TaskNode `json:"subtasks,omitempty"`
}

type EpicNode struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	ProjectID string      `json:"project_id"`
	ThisWeek  []*TaskNode `json:"this_week"`
	NextWeek  []*TaskNode `json:"next_week"`
}

type ProjectNode struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Epics []*EpicNode `json:"epics"`
}

// Tree is the project → epic → task → subtask containment built from both
// weeks. Children keep the order in which they were first seen.
type Tree struct {
	projects *orderedMap[*ProjectNode]
}

func (t *Tree) Project(id string) (*ProjectNode, bool) {
	return t.projects.Get(id)
}

func (t *Tree) Projects() []*ProjectNode {
	return t.projects.Values()
}

type period int

const (
	thisWeek period = iota
	nextWeek
)

func BuildTree(c Classifier, log zerolog.Logger, thisWeekIssues, nextWeekIssues []jira.Issue) *Tree {
	thisTasks := groupPeriod(c, log, thisWeekIssues)
	nextTasks := groupPeriod(c, log, nextWeekIssues)

	projects := newOrderedMap[*ProjectNode]()
	epics := newOrderedMap[*EpicNode]()

	place := func(tasks *orderedMap[*TaskNode], p period) {
		for _, task := range tasks.Values() {
			project := task.Issue.Fields.Project
			if _, ok := projects.Get(project.ID); !ok {
				projects.Set(project.ID, &ProjectNode{ID: project.ID, Name: project.Name})
			}

			epicID := epicIDOf(task.Issue)
			epic, ok := epics.Get(epicID)
			if !ok {
				epic = &EpicNode{
					ID:        epicID,
					Name:      epicName(task.Issue),
					ProjectID: project.ID,
					ThisWeek:  []*TaskNode{},
					NextWeek:  []*TaskNode{},
				}
				epics.Set(epicID, epic)
			}
			if p == thisWeek {
				epic.ThisWeek = append(epic.ThisWeek, task)
			} else {
				epic.NextWeek = append(epic.NextWeek, task)
			}
		}
	}
	place(thisTasks, thisWeek)
	place(nextTasks, nextWeek)

	for _, epic := range epics.Values() {
		project, _ := projects.Get(epic.ProjectID)
		project.Epics = append(project.Epics, epic)
	}
	return &Tree{projects: projects}
}

// groupPeriod hashes one week's issues into task nodes and hangs each
// subtask under its parent task from the same week.
func groupPeriod(c Classifier, log zerolog.Logger, issues []jira.Issue) *orderedMap[*TaskNode] {
	tasks := newOrderedMap[*TaskNode]()
	subtasks := newOrderedMap[*TaskNode]()
	for _, issue := range issues {
		node := &TaskNode{ID: issue.ID, Issue: issue}
		switch c.Level(issue) {
		case LevelTask:
			tasks.Set(issue.ID, node)
		case LevelSubtask:
			subtasks.Set(issue.ID, node)
		}
	}
	for _, sub := range subtasks.Values() {
		parent, ok := tasks.Get(parentID(sub.Issue))
		if !ok {
			log.Warn().Str("subtask", sub.ID).Str("parent", parentID(sub.Issue)).Msg("subtask parent missing from period; dropped")
			continue
		}
		parent.Subtasks = append(parent.Subtasks, sub)
	}
	return tasks
}

func epicName(issue jira.Issue) string {
	if issue.Fields.Parent == nil {
		return unknownEpicName
	}
	return issue.Fields.Parent.Fields.Summary
}
