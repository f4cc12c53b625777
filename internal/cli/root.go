package cli

import "github.com/alecthomas/kong"

type CLI struct {
	GlobalOptions `embed:""`

	Version kong.VersionFlag `help:"Print version and exit"`

	Auth   AuthCmd   `cmd:"" help:"Manage authentication"`
	Whoami WhoamiCmd `cmd:"" help:"Show the authenticated Jira user"`
	Users  UsersCmd  `cmd:"" help:"List Jira users and manage the default report users"`
	Report ReportCmd `cmd:"" help:"Build weekly and daily reports"`
}

func outputFor(ctx *commandContext) output {
	return output{Out: ctx.deps.Out, JSON: ctx.global.JSON, NoColor: ctx.global.NoColor}
}
