package report

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/duailibe/jira-report/internal/jira"
)

type Searcher interface {
	Search(ctx context.Context, req jira.SearchRequest) (jira.SearchResult, error)
}

// Paginator drains every page of a search. With Concurrency above one the
// pages after the first are fetched in parallel and stitched back together
// in offset order.
type Paginator struct {
	Searcher    Searcher
	Concurrency int
	Log         zerolog.Logger
}

func (p *Paginator) FetchAll(ctx context.Context, req jira.SearchRequest) ([]jira.Issue, error) {
	first, err := p.page(ctx, req, req.StartAt)
	if err != nil {
		return nil, err
	}
	issues := append([]jira.Issue(nil), first.Issues...)
	if !hasMore(first) {
		return issues, nil
	}
	if p.Concurrency > 1 {
		rest, err := p.fetchParallel(ctx, req, first)
		if err != nil {
			return nil, err
		}
		return append(issues, rest...), nil
	}

	start := req.StartAt
	last := first
	for hasMore(last) {
		start += last.MaxResults
		last, err = p.page(ctx, req, start)
		if err != nil {
			return nil, err
		}
		issues = append(issues, last.Issues...)
	}
	return issues, nil
}

// hasMore mirrors the server contract: another page exists only when the
// result set is larger than one page and this page came back full.
func hasMore(res jira.SearchResult) bool {
	return res.MaxResults > 0 && res.MaxResults < res.Total && len(res.Issues) >= res.MaxResults
}

func (p *Paginator) fetchParallel(ctx context.Context, req jira.SearchRequest, first jira.SearchResult) ([]jira.Issue, error) {
	step := first.MaxResults
	var offsets []int
	for start := req.StartAt + step; start < first.Total; start += step {
		offsets = append(offsets, start)
	}
	pages := make([]jira.SearchResult, len(offsets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Concurrency)
	for i, start := range offsets {
		g.Go(func() error {
			res, err := p.page(gctx, req, start)
			if err != nil {
				return err
			}
			pages[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var issues []jira.Issue
	for _, res := range pages {
		issues = append(issues, res.Issues...)
		if len(res.Issues) < step {
			break
		}
	}
	return issues, nil
}

func (p *Paginator) page(ctx context.Context, req jira.SearchRequest, start int) (jira.SearchResult, error) {
	req.StartAt = start
	res, err := p.Searcher.Search(ctx, req)
	if err != nil {
		return jira.SearchResult{}, &TransportError{Op: "search issues", Err: err}
	}
	p.Log.Debug().
		Int("start_at", start).
		Int("returned", len(res.Issues)).
		Int("total", res.Total).
		Msg("fetched search page")
	return res, nil
}
