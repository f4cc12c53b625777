package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekOfIsMondayToSunday(t *testing.T) {
	cases := map[string][2]string{
		"2024-03-04": {"2024-03-04", "2024-03-10"}, // Monday
		"2024-03-07": {"2024-03-04", "2024-03-10"},
		"2024-03-10": {"2024-03-04", "2024-03-10"}, // Sunday
		"2024-12-31": {"2024-12-30", "2025-01-05"},
	}
	for in, want := range cases {
		week := WeekOf(mustDate(t, in))
		assert.Equal(t, want[0], week.Start.Format(dateLayout), in)
		assert.Equal(t, want[1], week.End.Format(dateLayout), in)
	}

	next := WeekOf(mustDate(t, "2024-03-04")).Next()
	assert.Equal(t, "2024-03-11~2024-03-17", next.String())
}

func TestBuildWeeklyQuery(t *testing.T) {
	q, err := BuildWeeklyQuery(mustDate(t, "2024-03-06"), []string{"acc-1", "acc-2"}, testOptions())
	require.NoError(t, err)

	assert.Equal(t, `assignee in ("acc-1", "acc-2") AND issuetype not in (에픽) AND (`+
		`("Start date[Date]" >= 2024-03-04 AND "Start date[Date]" <= 2024-03-10) `+
		`OR (duedate >= 2024-03-04 AND duedate <= 2024-03-10) `+
		`OR ("Start date[Date]" < 2024-03-04 AND duedate > 2024-03-10)) `+
		`ORDER BY "Epic Link", priority, Rank`, q.ThisWeek.JQL)
	assert.Contains(t, q.NextWeek.JQL, `duedate >= 2024-03-11 AND duedate <= 2024-03-17`)
	assert.Equal(t, 100, q.ThisWeek.MaxResults)
	assert.Equal(t, 0, q.ThisWeek.StartAt)
	assert.Equal(t, []string{"*navigable", "-comment", "-description"}, q.NextWeek.Fields)
	assert.Equal(t, "2024-03-04~2024-03-10", q.Range.ThisWeek.String())
}

func TestBuildDailyQuery(t *testing.T) {
	q, err := BuildDailyQuery(mustDate(t, "2024-03-04"), []string{"acc-1"}, Options{
		Location:       seoul,
		StartDateField: "cf[10015]",
		EpicTypeName:   "Epic",
		PageSize:       50,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(q.Request.JQL, `assignee in ("acc-1") AND issuetype not in (Epic) AND `))
	assert.Contains(t, q.Request.JQL, "(cf[10015] >= 2024-03-04 AND cf[10015] <= 2024-03-04)")
	assert.Contains(t, q.Request.JQL, "(cf[10015] < 2024-03-04 AND duedate > 2024-03-04)")
	assert.Equal(t, []string{"*navigable", "comment", "-description"}, q.Request.Fields)
	assert.Equal(t, 50, q.Request.MaxResults)
}

func TestQueriesRequireUsers(t *testing.T) {
	_, err := BuildWeeklyQuery(mustDate(t, "2024-03-04"), nil, testOptions())
	assert.True(t, errors.Is(err, ErrNoUsers))
	_, err = BuildDailyQuery(mustDate(t, "2024-03-04"), []string{}, testOptions())
	assert.True(t, errors.Is(err, ErrNoUsers))
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("03/04/2024", seoul)
	assert.Error(t, err)
}
