package report

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/duailibe/jira-report/internal/jira"
)

// Source is the part of the Jira API the aggregators need.
type Source interface {
	Searcher
	Fetcher
}

type WeeklyReport struct {
	Range    Range          `json:"range"`
	Projects []ProjectGroup `json:"projects"`
	Rows     []Row          `json:"rows"`
}

func (r WeeklyReport) Empty() bool {
	return len(r.Projects) == 0
}

type DailyReport struct {
	Date   time.Time          `json:"date"`
	Groups []UserCommentGroup `json:"groups"`
}

func (r DailyReport) Empty() bool {
	return len(r.Groups) == 0
}

type WeeklyAggregator struct {
	Source  Source
	Options Options
	Log     zerolog.Logger
}

// Run builds the weekly rollup for the ISO week containing date and the week
// after it. Nothing is kept between runs.
func (a *WeeklyAggregator) Run(ctx context.Context, date time.Time, users []string) (WeeklyReport, error) {
	opts := a.Options.withDefaults()
	query, err := BuildWeeklyQuery(date.In(opts.Location), users, opts)
	if err != nil {
		return WeeklyReport{}, err
	}
	pager := &Paginator{Searcher: a.Source, Concurrency: opts.Concurrency, Log: a.Log}

	thisWeekIssues, err := pager.FetchAll(ctx, query.ThisWeek)
	if err != nil {
		return WeeklyReport{}, err
	}
	nextWeekIssues, err := pager.FetchAll(ctx, query.NextWeek)
	if err != nil {
		return WeeklyReport{}, err
	}
	a.Log.Info().
		Str("this_week", query.Range.ThisWeek.String()).
		Int("this_week_issues", len(thisWeekIssues)).
		Str("next_week", query.Range.NextWeek.String()).
		Int("next_week_issues", len(nextWeekIssues)).
		Msg("fetched weekly issues")

	resolver := &Resolver{Fetcher: a.Source, Classifier: opts.classifier(), Log: a.Log}
	resolved, err := resolver.Resolve(ctx, thisWeekIssues, nextWeekIssues)
	if err != nil {
		return WeeklyReport{}, err
	}
	if len(resolved.Backfilled) > 0 {
		a.Log.Info().Strs("tasks", resolved.Backfilled).Msg("backfilled tasks outside the date range")
	}

	tree := BuildTree(opts.classifier(), a.Log, resolved.ThisWeek, resolved.NextWeek)
	projects := Depths(resolved.IDs, tree)
	return WeeklyReport{
		Range:    query.Range,
		Projects: projects,
		Rows:     Flatten(projects),
	}, nil
}

type DailyAggregator struct {
	Source  Searcher
	Options Options
	Log     zerolog.Logger
}

// Run collects the marker comments the users' issues received on date.
func (a *DailyAggregator) Run(ctx context.Context, date time.Time, users []string) (DailyReport, error) {
	opts := a.Options.withDefaults()
	query, err := BuildDailyQuery(date.In(opts.Location), users, opts)
	if err != nil {
		return DailyReport{}, err
	}
	pager := &Paginator{Searcher: a.Source, Concurrency: opts.Concurrency, Log: a.Log}
	issues, err := pager.FetchAll(ctx, query.Request)
	if err != nil {
		return DailyReport{}, err
	}

	filter := CommentFilter{Marker: opts.Marker, Location: opts.Location}
	entries := filter.Filter(query.Date, issues)
	a.Log.Info().
		Str("date", query.Date.Format(dateLayout)).
		Int("issues", len(issues)).
		Int("comments", len(entries)).
		Msg("filtered daily comments")

	return DailyReport{
		Date:   query.Date,
		Groups: GroupByUser(entries, users),
	}, nil
}

var _ Source = (jira.API)(nil)
