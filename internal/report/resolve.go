package report

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/duailibe/jira-report/internal/jira"
)

type Fetcher interface {
	Issue(ctx context.Context, id string) (jira.Issue, error)
}

// IDGroup is the set of ids seen in one aggregation run. SubtaskParents
// holds "subtaskID|parentID" markers.
type IDGroup struct {
	Projects       *orderedSet
	Tasks          *orderedSet
	Epics          *orderedSet
	Subtasks       *orderedSet
	SubtaskParents *orderedSet
}

func GroupIDs(c Classifier, issues []jira.Issue) *IDGroup {
	g := &IDGroup{
		Projects:       newOrderedSet(),
		Tasks:          newOrderedSet(),
		Epics:          newOrderedSet(),
		Subtasks:       newOrderedSet(),
		SubtaskParents: newOrderedSet(),
	}
	for _, issue := range issues {
		g.Projects.Add(issue.Fields.Project.ID)
		switch c.Level(issue) {
		case LevelTask:
			if g.Tasks.Add(issue.ID) {
				g.Epics.Add(epicIDOf(issue))
			}
		case LevelSubtask:
			if g.Subtasks.Add(issue.ID) {
				if parent := parentID(issue); parent != "" {
					g.SubtaskParents.Add(issue.ID + "|" + parent)
				}
			}
		}
	}
	return g
}

// MissingTasks returns the subtask markers whose parent never showed up as a
// task in the search results.
func (g *IDGroup) MissingTasks() []string {
	var missing []string
	for _, marker := range g.SubtaskParents.Keys() {
		_, parent := splitMarker(marker)
		if !g.Tasks.Has(parent) {
			missing = append(missing, marker)
		}
	}
	return missing
}

func splitMarker(marker string) (subtaskID, parentID string) {
	subtaskID, parentID, _ = strings.Cut(marker, "|")
	return subtaskID, parentID
}

type Resolved struct {
	ThisWeek   []jira.Issue
	NextWeek   []jira.Issue
	IDs        *IDGroup
	Backfilled []string
}

// Resolver fills in parent tasks that the date filter left out while their
// subtasks made it in.
type Resolver struct {
	Fetcher    Fetcher
	Classifier Classifier
	Log        zerolog.Logger
}

func (r *Resolver) Resolve(ctx context.Context, thisWeek, nextWeek []jira.Issue) (Resolved, error) {
	this := append([]jira.Issue(nil), thisWeek...)
	next := append([]jira.Issue(nil), nextWeek...)

	all := make([]jira.Issue, 0, len(this)+len(next))
	all = append(all, this...)
	all = append(all, next...)
	ids := GroupIDs(r.Classifier, all)

	thisSubtasks := r.subtaskIDs(thisWeek)
	nextSubtasks := r.subtaskIDs(nextWeek)
	addedThis := newOrderedSet()
	addedNext := newOrderedSet()
	fetched := newOrderedMap[jira.Issue]()

	for _, marker := range ids.MissingTasks() {
		subtaskID, taskID := splitMarker(marker)
		ids.Tasks.Add(taskID)

		task, ok := fetched.Get(taskID)
		if !ok {
			r.Log.Debug().Str("task", taskID).Str("subtask", subtaskID).Msg("backfilling missing task")
			issue, err := r.Fetcher.Issue(ctx, taskID)
			if err != nil {
				return Resolved{}, &TransportError{Op: "look up issue " + taskID, Err: err}
			}
			if r.Classifier.Level(issue) == LevelEpic {
				issue = r.Classifier.AsTask(issue)
			}
			task = issue
			fetched.Set(taskID, task)
		}

		ids.Projects.Add(task.Fields.Project.ID)
		ids.Epics.Add(epicIDOf(task))

		if thisSubtasks.Has(subtaskID) && addedThis.Add(taskID) {
			this = append(this, task)
		}
		if nextSubtasks.Has(subtaskID) && addedNext.Add(taskID) {
			next = append(next, task)
		}
	}

	this = r.borrowParents(this, next, addedThis)
	next = r.borrowParents(next, this, addedNext)

	return Resolved{
		ThisWeek:   this,
		NextWeek:   next,
		IDs:        ids,
		Backfilled: fetched.keys,
	}, nil
}

func (r *Resolver) subtaskIDs(issues []jira.Issue) *orderedSet {
	set := newOrderedSet()
	for _, issue := range issues {
		if r.Classifier.Level(issue) == LevelSubtask {
			set.Add(issue.ID)
		}
	}
	return set
}

// borrowParents appends to week every parent task its subtasks need that
// only came back in the other week's results.
func (r *Resolver) borrowParents(week, other []jira.Issue, added *orderedSet) []jira.Issue {
	own := newOrderedSet()
	for _, issue := range week {
		if r.Classifier.Level(issue) == LevelTask {
			own.Add(issue.ID)
		}
	}
	donors := newOrderedMap[jira.Issue]()
	for _, issue := range other {
		if r.Classifier.Level(issue) == LevelTask {
			donors.Set(issue.ID, issue)
		}
	}

	out := week
	for _, issue := range week {
		if r.Classifier.Level(issue) != LevelSubtask {
			continue
		}
		parent := parentID(issue)
		if own.Has(parent) {
			continue
		}
		task, ok := donors.Get(parent)
		if !ok {
			continue
		}
		own.Add(parent)
		if added.Add(parent) {
			r.Log.Debug().Str("task", parent).Str("subtask", issue.ID).Msg("carrying task over from other week")
			out = append(out, task)
		}
	}
	return out
}
