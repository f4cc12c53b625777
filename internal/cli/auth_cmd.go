package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/duailibe/jira-report/internal/config"
)

type AuthCmd struct {
	Login  AuthLoginCmd  `cmd:"" help:"Store a Jira API token"`
	Status AuthStatusCmd `cmd:"" help:"Show authentication status"`
	Logout AuthLogoutCmd `cmd:"" help:"Remove stored authentication"`
}

type AuthLoginCmd struct{}

type AuthStatusCmd struct{}

type AuthLogoutCmd struct{}

func (c *AuthLoginCmd) Run(ctx *commandContext) error {
	token := ctx.global.APIKey
	if token == "" {
		if ctx.global.NoInput {
			return exitError(2, errors.New("API token required with --no-input"))
		}
		read, err := readToken(ctx.deps.In)
		if err != nil {
			return exitError(1, err)
		}
		token = read
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return exitError(2, errors.New("API token cannot be empty"))
	}

	if ctx.deps.AuthStore == nil {
		return exitError(1, errors.New("no auth store configured"))
	}
	email := ctx.email()
	if err := ctx.deps.AuthStore.Save(email, token, ctx.deps.Now()); err != nil {
		return exitError(1, err)
	}
	if email == "" {
		ctx.log.Warn().Msg("no account email set; the token will be sent as a bearer token")
	}
	if err := ctx.rememberSite(); err != nil {
		return exitError(1, err)
	}

	out := outputFor(ctx)
	if out.JSON {
		return out.PrintJSON(map[string]any{
			"saved": true,
			"email": email,
			"path":  ctx.deps.AuthStore.Path,
		})
	}
	_, _ = fmt.Fprintf(ctx.deps.Out, "Saved API token to %s\n", ctx.deps.AuthStore.Path)
	return nil
}

// rememberSite writes --base-url and --email to the config file so later
// commands find the site without flags.
func (c *commandContext) rememberSite() error {
	if c.global.BaseURL == "" && c.global.Email == "" {
		return nil
	}
	err := config.Update(c.cfgPath, func(cfg *config.Config) {
		if c.global.BaseURL != "" {
			cfg.BaseURL = c.global.BaseURL
		}
		if c.global.Email != "" {
			cfg.Email = c.global.Email
		}
	})
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	c.log.Debug().Str("config", c.cfgPath).Msg("saved site settings")
	return nil
}

func (c *AuthStatusCmd) Run(ctx *commandContext) error {
	token, source, err := ctx.resolveToken()
	authed := err == nil && token != ""
	out := outputFor(ctx)
	if out.JSON {
		return out.PrintJSON(map[string]any{
			"authenticated": authed,
			"source":        source,
			"email":         ctx.email(),
			"base_url":      ctx.baseURL(),
		})
	}
	if authed {
		_, _ = fmt.Fprintf(ctx.deps.Out, "Authenticated via %s\n", source)
		return nil
	}
	_, _ = fmt.Fprintln(ctx.deps.Out, "Not authenticated")
	return exitError(3, errors.New("no API token configured"))
}

func (c *AuthLogoutCmd) Run(ctx *commandContext) error {
	if ctx.deps.AuthStore == nil {
		return exitError(1, errors.New("no auth store configured"))
	}
	if err := ctx.deps.AuthStore.Delete(); err != nil {
		return exitError(1, err)
	}
	out := outputFor(ctx)
	if out.JSON {
		return out.PrintJSON(map[string]any{
			"deleted": true,
			"path":    ctx.deps.AuthStore.Path,
		})
	}
	_, _ = fmt.Fprintln(ctx.deps.Out, "Logged out")
	return nil
}

func readToken(r io.Reader) (string, error) {
	if file, ok := r.(*os.File); ok {
		if term.IsTerminal(int(file.Fd())) {
			_, _ = fmt.Fprint(os.Stderr, "Jira API token: ")
			b, err := term.ReadPassword(int(file.Fd()))
			_, _ = fmt.Fprintln(os.Stderr)
			if err != nil {
				return "", fmt.Errorf("read API token: %w", err)
			}
			return string(b), nil
		}
	}
	reader := bufio.NewReader(r)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read API token: %w", err)
	}
	return strings.TrimSpace(line), nil
}
