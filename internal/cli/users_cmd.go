package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/duailibe/jira-report/internal/jira"
)

type UsersCmd struct {
	List    UsersListCmd    `cmd:"" help:"List active Jira users"`
	Default UsersDefaultCmd `cmd:"" help:"Manage the users reports cover by default"`
}

type UsersListCmd struct {
	Query string `short:"q" help:"Only users whose name or email contains this text"`
}

type UsersDefaultCmd struct {
	Set   UsersDefaultSetCmd   `cmd:"" help:"Replace the default report users"`
	Show  UsersDefaultShowCmd  `cmd:"" help:"Show the default report users"`
	Clear UsersDefaultClearCmd `cmd:"" help:"Forget the default report users"`
}

type UsersDefaultSetCmd struct {
	Users []string `arg:"" name:"account-id" help:"Account IDs (or 'me'), space or comma separated"`
}

type UsersDefaultShowCmd struct{}

type UsersDefaultClearCmd struct{}

func (c *UsersListCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}
	users, err := client.Users(ctx)
	if err != nil {
		return exitError(mapErrorToExitCode(err), err)
	}
	users = filterUsers(users, c.Query)

	out := outputFor(cmdCtx)
	if out.JSON {
		return out.PrintJSON(users)
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.AccountID, u.DisplayName, u.EmailAddress})
	}
	return out.PrintTable([]string{"Account ID", "Name", "Email"}, rows)
}

func filterUsers(users []jira.User, query string) []jira.User {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return users
	}
	out := make([]jira.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.DisplayName), query) ||
			strings.Contains(strings.ToLower(u.EmailAddress), query) {
			out = append(out, u)
		}
	}
	return out
}

func (c *UsersDefaultSetCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	users := uniqueStrings(splitAll(c.Users))
	if len(users) == 0 {
		return exitError(2, errors.New("at least one account ID is required"))
	}
	for i, id := range users {
		if id != "me" {
			continue
		}
		client, err := cmdCtx.apiClient()
		if err != nil {
			return exitError(3, err)
		}
		me, err := client.Myself(ctx)
		if err != nil {
			return exitError(mapErrorToExitCode(err), err)
		}
		users[i] = me.AccountID
	}
	users = uniqueStrings(users)

	store, err := cmdCtx.openPrefs()
	if err != nil {
		return exitError(1, err)
	}
	defer store.Close()
	if err := store.SetDefaultUsers(ctx, users); err != nil {
		return exitError(1, err)
	}

	out := outputFor(cmdCtx)
	if out.JSON {
		return out.PrintJSON(map[string]any{"users": users})
	}
	_, _ = fmt.Fprintf(cmdCtx.deps.Out, "Default users: %s\n", strings.Join(users, ", "))
	return nil
}

func (c *UsersDefaultShowCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	store, err := cmdCtx.openPrefs()
	if err != nil {
		return exitError(1, err)
	}
	defer store.Close()
	users, err := store.DefaultUsers(ctx)
	if err != nil {
		return exitError(1, err)
	}

	out := outputFor(cmdCtx)
	if out.JSON {
		if users == nil {
			users = []string{}
		}
		return out.PrintJSON(map[string]any{"users": users})
	}
	if len(users) == 0 {
		_, _ = fmt.Fprintln(cmdCtx.deps.Out, "No default users")
		return nil
	}
	for _, id := range users {
		_, _ = fmt.Fprintln(cmdCtx.deps.Out, id)
	}
	return nil
}

func (c *UsersDefaultClearCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	store, err := cmdCtx.openPrefs()
	if err != nil {
		return exitError(1, err)
	}
	defer store.Close()
	if err := store.SetDefaultUsers(ctx, nil); err != nil {
		return exitError(1, err)
	}
	out := outputFor(cmdCtx)
	if out.JSON {
		return out.PrintJSON(map[string]any{"cleared": true})
	}
	_, _ = fmt.Fprintln(cmdCtx.deps.Out, "Cleared default users")
	return nil
}
