package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/duailibe/jira-report/internal/export"
	"github.com/duailibe/jira-report/internal/report"
)

type ReportCmd struct {
	Weekly ReportWeeklyCmd `cmd:"" help:"This week and next week side by side"`
	Daily  ReportDailyCmd  `cmd:"" help:"Report comments written on one day, per user"`
}

type ReportWeeklyCmd struct {
	Date  string   `help:"Any day of the week to report on (YYYY-MM-DD); defaults to today"`
	Users []string `name:"user" short:"u" help:"Account IDs to cover; defaults to the stored default users"`
	XLSX  string   `name:"xlsx" help:"Also write the grid to this .xlsx file" type:"path"`
}

type ReportDailyCmd struct {
	Date  string   `help:"Day to collect comments for (YYYY-MM-DD); defaults to today"`
	Users []string `name:"user" short:"u" help:"Account IDs to cover; defaults to the stored default users"`
}

func (c *ReportWeeklyCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}
	opts, date, users, err := cmdCtx.reportInputs(ctx, c.Date, c.Users)
	if err != nil {
		return err
	}

	agg := &report.WeeklyAggregator{Source: client, Options: opts, Log: cmdCtx.log}
	rep, err := agg.Run(ctx, date, users)
	if err != nil {
		return exitError(mapErrorToExitCode(err), err)
	}

	out := outputFor(cmdCtx)
	saved := ""
	if c.XLSX != "" && !rep.Empty() {
		if saved, err = writeWorkbook(c.XLSX, rep, cmdCtx.deps.Now()); err != nil {
			return exitError(1, err)
		}
		cmdCtx.log.Info().Str("path", saved).Msg("wrote workbook")
	}
	if out.JSON {
		return out.PrintJSON(rep)
	}
	if rep.Empty() {
		_, _ = fmt.Fprintf(cmdCtx.deps.Out, "No issues for %s or %s\n", rep.Range.ThisWeek, rep.Range.NextWeek)
		return nil
	}
	if err := renderWeekly(out, rep); err != nil {
		return err
	}
	if saved != "" {
		_, _ = fmt.Fprintf(cmdCtx.deps.Out, "\nSaved %s\n", saved)
	}
	return nil
}

func (c *ReportDailyCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}
	opts, date, users, err := cmdCtx.reportInputs(ctx, c.Date, c.Users)
	if err != nil {
		return err
	}

	agg := &report.DailyAggregator{Source: client, Options: opts, Log: cmdCtx.log}
	rep, err := agg.Run(ctx, date, users)
	if err != nil {
		return exitError(mapErrorToExitCode(err), err)
	}

	out := outputFor(cmdCtx)
	if out.JSON {
		return out.PrintJSON(rep)
	}
	if rep.Empty() {
		_, _ = fmt.Fprintf(cmdCtx.deps.Out, "No report comments on %s\n", rep.Date.Format("2006-01-02"))
		return nil
	}
	return renderDaily(out, rep)
}

func (c *commandContext) reportInputs(ctx context.Context, dateFlag string, userFlags []string) (report.Options, time.Time, []string, error) {
	opts, err := c.reportOptions()
	if err != nil {
		return report.Options{}, time.Time{}, nil, exitError(2, err)
	}
	date, err := c.reportDate(dateFlag, opts.Location)
	if err != nil {
		return report.Options{}, time.Time{}, nil, err
	}
	users, err := c.reportUsers(ctx, userFlags)
	if err != nil {
		return report.Options{}, time.Time{}, nil, exitError(mapErrorToExitCode(err), err)
	}
	return opts, date, users, nil
}

// writeWorkbook writes next to path and renames into place so a failed
// export never leaves a truncated file behind.
func writeWorkbook(path string, rep report.WeeklyReport, now time.Time) (string, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, export.DefaultFileName)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".jira-report-*.xlsx")
	if err != nil {
		return "", fmt.Errorf("create temp workbook: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := export.WriteWeeklyXLSX(tmp, rep.Range, rep.Rows, now); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close workbook: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("replace workbook: %w", err)
	}
	return path, nil
}
