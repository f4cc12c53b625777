package cli

import (
	"errors"

	"github.com/duailibe/jira-report/internal/jira"
	"github.com/duailibe/jira-report/internal/report"
)

func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, report.ErrNoUsers) {
		return 2
	}
	if errors.Is(err, jira.ErrUnauthorized) {
		return 3
	}
	if errors.Is(err, jira.ErrNotFound) {
		return 4
	}
	if errors.Is(err, jira.ErrRateLimited) {
		return 5
	}
	return 1
}
