package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/duailibe/jira-report/internal/config"
	"github.com/duailibe/jira-report/internal/jira"
	"github.com/duailibe/jira-report/internal/report"
)

type commandContext struct {
	deps    Dependencies
	global  *GlobalOptions
	cfg     *config.Config
	cfgPath string
	log     zerolog.Logger
}

func (c *commandContext) resolveToken() (string, string, error) {
	if c.global.APIKey != "" {
		return c.global.APIKey, "flag", nil
	}
	if env := os.Getenv("JIRA_API_TOKEN"); env != "" {
		return env, "env", nil
	}
	if c.deps.AuthStore != nil {
		data, ok, err := c.deps.AuthStore.Load()
		if err != nil {
			return "", "", err
		}
		if ok && data.Token != "" {
			return data.Token, "file", nil
		}
	}
	return "", "none", errors.New("no Jira API token found; run 'jira-report auth login' or set JIRA_API_TOKEN")
}

// email picks the account email for basic auth: flag, then config and its
// environment override, then whatever was saved with the token.
func (c *commandContext) email() string {
	if c.global.Email != "" {
		return c.global.Email
	}
	if c.cfg != nil && c.cfg.Email != "" {
		return c.cfg.Email
	}
	if c.deps.AuthStore != nil {
		if data, ok, err := c.deps.AuthStore.Load(); err == nil && ok {
			return data.Email
		}
	}
	return ""
}

func (c *commandContext) baseURL() string {
	if c.global.BaseURL != "" {
		return strings.TrimRight(c.global.BaseURL, "/")
	}
	if c.cfg != nil {
		return c.cfg.BaseURL
	}
	return ""
}

func (c *commandContext) apiClient() (jira.API, error) {
	token, _, err := c.resolveToken()
	if err != nil {
		return nil, err
	}
	base := c.baseURL()
	if base == "" {
		return nil, errors.New("no Jira site configured; set base_url in the config file or JIRA_BASE_URL")
	}
	if c.deps.NewClient == nil {
		return nil, fmt.Errorf("no API client configured")
	}
	return c.deps.NewClient(jira.Options{
		BaseURL: base,
		Email:   c.email(),
		Token:   token,
		Timeout: c.global.Timeout,
		Logger:  c.log,
	}), nil
}

func (c *commandContext) reportOptions() (report.Options, error) {
	if c.cfg == nil {
		return report.Options{Location: time.Local}, nil
	}
	return c.cfg.ReportOptions()
}

func (c *commandContext) openPrefs() (PrefsStore, error) {
	if c.deps.OpenPrefs == nil {
		return nil, errors.New("no preferences store configured")
	}
	path := ""
	if c.cfg != nil {
		path = c.cfg.PrefsPath
	}
	if path == "" {
		var err error
		if path, err = config.DefaultPrefsPath(); err != nil {
			return nil, err
		}
	}
	return c.deps.OpenPrefs(path)
}

// reportUsers returns the users given on the command line, or the stored
// default users when none were given.
func (c *commandContext) reportUsers(ctx context.Context, flagged []string) ([]string, error) {
	if users := uniqueStrings(splitAll(flagged)); len(users) > 0 {
		return users, nil
	}
	store, err := c.openPrefs()
	if err != nil {
		return nil, err
	}
	defer store.Close()
	users, err := store.DefaultUsers(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w; pass --user or run 'jira-report users default set'", report.ErrNoUsers)
	}
	return users, nil
}

// reportDate parses --date in the report timezone; empty means today.
func (c *commandContext) reportDate(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return c.deps.Now().In(loc), nil
	}
	date, err := report.ParseDate(value, loc)
	if err != nil {
		return time.Time{}, exitError(2, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", value))
	}
	return date, nil
}

func splitAll(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, splitComma(v)...)
	}
	return out
}

func splitComma(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
