package report

import (
	"strings"
	"time"

	"github.com/duailibe/jira-report/internal/jira"
)

var createdLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	time.RFC3339Nano,
}

type CommentEntry struct {
	Issue   jira.Issue   `json:"issue"`
	Comment jira.Comment `json:"comment"`
	Text    string       `json:"text"`
}

type UserCommentGroup struct {
	User    jira.User      `json:"user"`
	Entries []CommentEntry `json:"entries"`
}

// CommentFilter picks the report comments written on a given day.
type CommentFilter struct {
	Marker   string
	Location *time.Location
}

func (f CommentFilter) Filter(date time.Time, issues []jira.Issue) []CommentEntry {
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	want := date.In(loc).Format(dateLayout)

	var entries []CommentEntry
	for _, issue := range issues {
		if issue.Fields.Comment == nil {
			continue
		}
		for _, comment := range issue.Fields.Comment.Comments {
			created, ok := parseCreated(comment.Created)
			if !ok || created.In(loc).Format(dateLayout) != want {
				continue
			}
			if !strings.Contains(leadingText(comment.Body), f.Marker) {
				continue
			}
			entries = append(entries, CommentEntry{
				Issue:   issue,
				Comment: comment,
				Text:    ExtractText(ParseBlocks(comment.Body), f.Marker),
			})
		}
	}
	return entries
}

// leadingText is the first text run of the first block, where the marker
// has to appear for the comment to count.
func leadingText(doc jira.Node) string {
	if len(doc.Content) == 0 || len(doc.Content[0].Content) == 0 {
		return ""
	}
	return doc.Content[0].Content[0].Text
}

func parseCreated(value string) (time.Time, bool) {
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// GroupByUser buckets entries by assignee, following the order of users.
// Users with nothing to report are left out.
func GroupByUser(entries []CommentEntry, users []string) []UserCommentGroup {
	var groups []UserCommentGroup
	seen := newOrderedSet()
	for _, accountID := range users {
		if !seen.Add(accountID) {
			continue
		}
		var group *UserCommentGroup
		for _, entry := range entries {
			assignee := entry.Issue.Fields.Assignee
			if assignee == nil || assignee.AccountID != accountID {
				continue
			}
			if group == nil {
				group = &UserCommentGroup{User: *assignee}
			}
			group.Entries = append(group.Entries, entry)
		}
		if group != nil {
			groups = append(groups, *group)
		}
	}
	return groups
}
