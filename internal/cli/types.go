package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/duailibe/jira-report/internal/auth"
	"github.com/duailibe/jira-report/internal/jira"
)

// PrefsStore is the part of the preferences database the commands use.
type PrefsStore interface {
	DefaultUsers(ctx context.Context) ([]string, error)
	SetDefaultUsers(ctx context.Context, users []string) error
	Close() error
}

type Dependencies struct {
	In         io.Reader
	Out        io.Writer
	Err        io.Writer
	Now        func() time.Time
	AuthStore  *auth.Store
	ConfigPath string
	NewClient  func(opts jira.Options) jira.API
	OpenPrefs  func(path string) (PrefsStore, error)
}

type GlobalOptions struct {
	JSON    bool          `help:"output JSON"`
	NoColor bool          `name:"no-color" help:"disable color output"`
	Verbose bool          `short:"v" help:"enable verbose diagnostics"`
	NoInput bool          `name:"no-input" help:"disable interactive prompts"`
	Timeout time.Duration `help:"API request timeout" default:"30s"`
	APIKey  string        `name:"api-key" help:"Jira API token (overrides env and stored auth)"`
	Email   string        `help:"Atlassian account email used with the API token"`
	BaseURL string        `name:"base-url" help:"Jira site URL, e.g. https://acme.atlassian.net"`
	Config  string        `help:"config file path" type:"path"`
}

type ExitError struct {
	Code int
	Err  error
}

func (e ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit %d", e.Code)
	}
	return e.Err.Error()
}

func (e ExitError) Unwrap() error {
	return e.Err
}

func exitError(code int, err error) error {
	if err == nil {
		return ExitError{Code: code, Err: errors.New("unknown error")}
	}
	return ExitError{Code: code, Err: err}
}
