package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/duailibe/jira-report/internal/jira"
)

var (
	weeklyFields = []string{"*navigable", "-comment", "-description"}
	dailyFields  = []string{"*navigable", "comment", "-description"}
)

// Week is an ISO week, Monday through Sunday, at day granularity.
type Week struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func WeekOf(date time.Time) Week {
	day := truncateDay(date)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return Week{Start: start, End: start.AddDate(0, 0, 6)}
}

func (w Week) Next() Week {
	return Week{Start: w.Start.AddDate(0, 0, 7), End: w.End.AddDate(0, 0, 7)}
}

func (w Week) String() string {
	return w.Start.Format(dateLayout) + "~" + w.End.Format(dateLayout)
}

type Range struct {
	ThisWeek Week `json:"this_week"`
	NextWeek Week `json:"next_week"`
}

type WeeklyQuery struct {
	Range    Range
	ThisWeek jira.SearchRequest
	NextWeek jira.SearchRequest
}

type DailyQuery struct {
	Date    time.Time
	Request jira.SearchRequest
}

func BuildWeeklyQuery(date time.Time, users []string, opts Options) (WeeklyQuery, error) {
	if len(users) == 0 {
		return WeeklyQuery{}, ErrNoUsers
	}
	opts = opts.withDefaults()
	this := WeekOf(date)
	next := this.Next()
	return WeeklyQuery{
		Range:    Range{ThisWeek: this, NextWeek: next},
		ThisWeek: searchRequest(buildJQL(users, this.Start, this.End, opts), weeklyFields, opts),
		NextWeek: searchRequest(buildJQL(users, next.Start, next.End, opts), weeklyFields, opts),
	}, nil
}

func BuildDailyQuery(date time.Time, users []string, opts Options) (DailyQuery, error) {
	if len(users) == 0 {
		return DailyQuery{}, ErrNoUsers
	}
	opts = opts.withDefaults()
	day := truncateDay(date)
	return DailyQuery{
		Date:    day,
		Request: searchRequest(buildJQL(users, day, day, opts), dailyFields, opts),
	}, nil
}

func searchRequest(jql string, fields []string, opts Options) jira.SearchRequest {
	return jira.SearchRequest{
		JQL:        jql,
		StartAt:    0,
		MaxResults: opts.PageSize,
		Fields:     append([]string(nil), fields...),
	}
}

// buildJQL selects the users' non-epic issues that start, end, or run through
// [start, end]. Sibling order is pinned by the ORDER BY so pages stay stable.
func buildJQL(users []string, start, end time.Time, opts Options) string {
	quoted := make([]string, 0, len(users))
	for _, user := range users {
		quoted = append(quoted, strconv.Quote(user))
	}
	s := start.Format(dateLayout)
	e := end.Format(dateLayout)
	field := opts.StartDateField

	var b strings.Builder
	fmt.Fprintf(&b, "assignee in (%s) AND issuetype not in (%s) AND (", strings.Join(quoted, ", "), opts.EpicTypeName)
	fmt.Fprintf(&b, "(%s >= %s AND %s <= %s) ", field, s, field, e)
	fmt.Fprintf(&b, "OR (duedate >= %s AND duedate <= %s) ", s, e)
	fmt.Fprintf(&b, "OR (%s < %s AND duedate > %s)", field, s, e)
	b.WriteString(`) ORDER BY "Epic Link", priority, Rank`)
	return b.String()
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate reads a YYYY-MM-DD date in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", value, err)
	}
	return t, nil
}
