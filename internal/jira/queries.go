package jira

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
)

const usersPageSize = 100

func (c *Client) Myself(ctx context.Context) (User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/rest/api/3/myself", nil, nil, &user); err != nil {
		return User{}, err
	}
	if user.AccountID == "" {
		return User{}, ErrNotFound
	}
	return user, nil
}

// Users lists every human account visible to the caller. App and customer
// accounts are skipped.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var users []User
	for start := 0; ; start += usersPageSize {
		query := url.Values{}
		query.Set("startAt", strconv.Itoa(start))
		query.Set("maxResults", strconv.Itoa(usersPageSize))

		var page []User
		if err := c.do(ctx, http.MethodGet, "/rest/api/3/users/search", query, nil, &page); err != nil {
			return nil, err
		}
		for _, user := range page {
			if user.AccountType != "" && user.AccountType != "atlassian" {
				continue
			}
			users = append(users, user)
		}
		if len(page) < usersPageSize {
			return users, nil
		}
	}
}

func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchResult, error) {
	if req.JQL == "" {
		return SearchResult{}, errors.New("empty jql")
	}
	var result SearchResult
	if err := c.do(ctx, http.MethodPost, "/rest/api/3/search", nil, req, &result); err != nil {
		return SearchResult{}, err
	}
	return result, nil
}

func (c *Client) Issue(ctx context.Context, id string) (Issue, error) {
	if id == "" {
		return Issue{}, errors.New("empty issue id")
	}
	var issue Issue
	if err := c.do(ctx, http.MethodGet, "/rest/api/3/issue/"+url.PathEscape(id), nil, nil, &issue); err != nil {
		return Issue{}, err
	}
	if issue.ID == "" {
		return Issue{}, ErrNotFound
	}
	return issue, nil
}
