package report

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duailibe/jira-report/internal/jira"
)

func TestBuildTreeNestsSubtasksPerWeek(t *testing.T) {
	thisWeek := []jira.Issue{
		subtaskIssue("S1", "P", "T1"),
		taskIssue("T1", "P", "E1"),
		taskIssue("T2", "P", ""),
	}
	nextWeek := []jira.Issue{
		taskIssue("T1", "P", "E1"),
		subtaskIssue("S2", "P", "T1"),
	}
	tree := BuildTree(testClassifier(), zerolog.Nop(), thisWeek, nextWeek)

	projects := tree.Projects()
	require.Len(t, projects, 1)
	assert.Equal(t, "Project P", projects[0].Name)
	require.Len(t, projects[0].Epics, 2)

	e1 := projects[0].Epics[0]
	assert.Equal(t, "E1", e1.ID)
	assert.Equal(t, "epic E1", e1.Name)
	assert.Equal(t, []string{"T1"}, taskIDs(e1.ThisWeek))
	assert.Equal(t, []string{"S1"}, taskIDs(e1.ThisWeek[0].Subtasks))
	assert.Equal(t, []string{"T1"}, taskIDs(e1.NextWeek))
	assert.Equal(t, []string{"S2"}, taskIDs(e1.NextWeek[0].Subtasks))

	unknown := projects[0].Epics[1]
	assert.Equal(t, "P|unknown", unknown.ID)
	assert.Equal(t, "기타", unknown.Name)
	assert.Equal(t, []string{"T2"}, taskIDs(unknown.ThisWeek))
	assert.NotNil(t, unknown.NextWeek)
	assert.Empty(t, unknown.NextWeek)
}

func TestBuildTreeDropsOrphanSubtask(t *testing.T) {
	tree := BuildTree(testClassifier(), zerolog.Nop(), []jira.Issue{
		taskIssue("T1", "P", "E1"),
		subtaskIssue("S9", "P", "T9"),
	}, nil)

	project, ok := tree.Project("P")
	require.True(t, ok)
	require.Len(t, project.Epics, 1)
	assert.Empty(t, project.Epics[0].ThisWeek[0].Subtasks)
}

func TestBuildTreeSeparatesProjects(t *testing.T) {
	tree := BuildTree(testClassifier(), zerolog.Nop(), []jira.Issue{
		taskIssue("T1", "Q", "E2"),
		taskIssue("T2", "P", "E1"),
	}, nil)

	projects := tree.Projects()
	require.Len(t, projects, 2)
	assert.Equal(t, "Q", projects[0].ID)
	assert.Equal(t, "P", projects[1].ID)
	_, ok := tree.Project("Z")
	assert.False(t, ok)
}

// Epic A has one task this week, epic B three tasks and a subtask next week.
func depthScenario() []jira.Issue {
	return []jira.Issue{
		taskIssue("A1", "P", "A"),
	}
}

func depthScenarioNext() []jira.Issue {
	return []jira.Issue{
		taskIssue("B1", "P", "B"),
		taskIssue("B2", "P", "B"),
		taskIssue("B3", "P", "B"),
		subtaskIssue("B3-1", "P", "B3"),
	}
}

func TestDepthsSumsTallerColumnPerEpic(t *testing.T) {
	thisWeek, nextWeek := depthScenario(), depthScenarioNext()
	ids := GroupIDs(testClassifier(), append(append([]jira.Issue(nil), thisWeek...), nextWeek...))
	tree := BuildTree(testClassifier(), zerolog.Nop(), thisWeek, nextWeek)

	groups := Depths(ids, tree)
	require.Len(t, groups, 1)
	assert.Equal(t, 8, groups[0].TotalDepth)

	require.Len(t, groups[0].Epics, 2)
	assert.Equal(t, 2, EpicRows(groups[0].Epics[0]))
	assert.Equal(t, 5, EpicRows(groups[0].Epics[1]))

	sum := 0
	for _, epic := range groups[0].Epics {
		sum += EpicRows(epic)
	}
	assert.Equal(t, groups[0].TotalDepth-1, sum)
}

func TestDepthsSkipsProjectsWithoutEpics(t *testing.T) {
	issues := []jira.Issue{
		epicIssue("E1", "R"),
		taskIssue("T1", "P", "E2"),
	}
	ids := GroupIDs(testClassifier(), issues)
	tree := BuildTree(testClassifier(), zerolog.Nop(), issues, nil)

	groups := Depths(ids, tree)
	require.Len(t, groups, 1)
	assert.Equal(t, "P", groups[0].ID)
	assert.Equal(t, 3, groups[0].TotalDepth)
}

func TestDepthsEmpty(t *testing.T) {
	ids := GroupIDs(testClassifier(), nil)
	tree := BuildTree(testClassifier(), zerolog.Nop(), nil, nil)
	assert.Empty(t, Depths(ids, tree))
}
