package report

// ProjectGroup is a project ready for side-by-side rendering. TotalDepth is
// the number of grid rows the project occupies.
type ProjectGroup struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Epics      []*EpicNode `json:"epics"`
	TotalDepth int         `json:"total_depth"`
}

// periodRows counts the rows one week column of an epic needs: its title,
// then a row per task and per subtask. An empty column needs none.
func periodRows(tasks []*TaskNode) int {
	if len(tasks) == 0 {
		return 0
	}
	rows := 1
	for _, task := range tasks {
		rows += 1 + len(task.Subtasks)
	}
	return rows
}

// EpicRows is how many rows an epic consumes; both weeks share those rows.
func EpicRows(epic *EpicNode) int {
	return max(periodRows(epic.ThisWeek), periodRows(epic.NextWeek))
}

// Depths sizes each project of the tree, in the order projects were first
// seen in the search results. Projects without epics are left out.
func Depths(ids *IDGroup, tree *Tree) []ProjectGroup {
	var groups []ProjectGroup
	for _, projectID := range ids.Projects.Keys() {
		project, ok := tree.Project(projectID)
		if !ok || len(project.Epics) == 0 {
			continue
		}
		group := ProjectGroup{
			ID:         project.ID,
			Name:       project.Name,
			Epics:      project.Epics,
			TotalDepth: 1,
		}
		for _, epic := range project.Epics {
			group.TotalDepth += EpicRows(epic)
		}
		groups = append(groups, group)
	}
	return groups
}
