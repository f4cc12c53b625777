package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/duailibe/jira-report/internal/auth"
	"github.com/duailibe/jira-report/internal/config"
	"github.com/duailibe/jira-report/internal/jira"
	"github.com/duailibe/jira-report/internal/logger"
	"github.com/duailibe/jira-report/internal/prefs"
)

func Execute() int {
	return Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func Run(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	storePath, err := auth.DefaultStorePath()
	if err != nil {
		_, _ = errOut.Write([]byte(err.Error() + "\n"))
		return 1
	}

	deps := Dependencies{
		In:        in,
		Out:       out,
		Err:       errOut,
		Now:       time.Now,
		AuthStore: auth.NewStore(storePath),
		NewClient: jira.NewClient,
		OpenPrefs: openPrefs,
	}

	return ExecuteWith(deps, args)
}

func ExecuteWith(deps Dependencies, args []string) (code int) {
	cli := &CLI{}

	parser, err := kong.New(
		cli,
		kong.Name("jira-report"),
		kong.Description("Weekly and daily Jira activity reports from the terminal"),
		kong.Vars(kong.Vars{
			"version": VersionOutput(),
		}),
		kong.Writers(deps.Out, deps.Err),
		kong.Exit(func(code int) { panic(exitPanic{Code: code}) }),
	)
	if err != nil {
		_, _ = deps.Err.Write([]byte(err.Error() + "\n"))
		return 1
	}

	defer func() {
		if r := recover(); r != nil {
			if exit := parseExitPanic(r); exit != nil {
				code = exit.Code
				return
			}
			panic(r)
		}
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		return handleExit(deps, wrapParseError(err))
	}

	cmdCtx, err := newCommandContext(deps, &cli.GlobalOptions)
	if err != nil {
		return handleExit(deps, err)
	}

	kctx.BindTo(context.Background(), (*context.Context)(nil))
	kctx.Bind(cmdCtx)

	if err := kctx.Run(); err != nil {
		return handleExit(deps, err)
	}
	return 0
}

// newCommandContext loads the config named by --config (or the default
// location) and sets up logging for the command.
func newCommandContext(deps Dependencies, global *GlobalOptions) (*commandContext, error) {
	path := global.Config
	if path == "" {
		path = deps.ConfigPath
	}
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, exitError(1, err)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, exitError(2, err)
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Verbose: global.Verbose,
		NoColor: global.NoColor,
		Out:     deps.Err,
	})
	log.Debug().Str("config", path).Msg("loaded config")

	return &commandContext{deps: deps, global: global, cfg: cfg, cfgPath: path, log: log}, nil
}

func openPrefs(path string) (PrefsStore, error) {
	store, err := prefs.Open(path)
	if err != nil {
		return nil, err
	}
	return store, nil
}

type exitPanic struct {
	Code int
}

func parseExitPanic(val any) *exitPanic {
	switch cast := val.(type) {
	case exitPanic:
		return &cast
	case *exitPanic:
		return cast
	default:
		return nil
	}
}

func wrapParseError(err error) error {
	if err == nil {
		return nil
	}
	var parseErr *kong.ParseError
	if errors.As(err, &parseErr) {
		return exitError(2, parseErr)
	}
	return err
}

func handleExit(deps Dependencies, err error) int {
	if err == nil {
		return 0
	}
	var exitErr ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			_, _ = deps.Err.Write([]byte(exitErr.Err.Error() + "\n"))
		}
		return exitErr.Code
	}
	_, _ = fmt.Fprintf(deps.Err, "%v\n", err)
	return 1
}
