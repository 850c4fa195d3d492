package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v2"

	"github.com/carson-networks/finance-tracker/internal/history"
	"github.com/carson-networks/finance-tracker/internal/period"
	"github.com/carson-networks/finance-tracker/internal/service"
)

var historyCommand = &cli.Command{
	Name:  "history",
	Usage: "print the reconstructed end-of-day totals for a scope",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "scope", Value: "global", Usage: "global, owner or account"},
		&cli.StringFlag{Name: "id", Usage: "owner (husband, wife) or account ID"},
		&cli.IntFlag{Name: "days", Value: 30, Usage: "days back from today"},
		&cli.BoolFlag{Name: "dump", Usage: "dump the full series instead of a table"},
	},
	Action: printHistory,
}

func printHistory(c *cli.Context) error {
	scope, err := history.ParseScope(c.String("scope"), c.String("id"))
	if err != nil {
		return err
	}
	days := c.Int("days")
	if days < 0 {
		return fmt.Errorf("--days must not be negative, got %d", days)
	}

	a, err := setup(c.Context)
	if err != nil {
		return err
	}
	defer a.close()

	svc, err := a.services(nil)
	if err != nil {
		return err
	}

	r := period.LastDays(days, time.Now(), a.env.Location())
	series, err := svc.History.Series(c.Context, service.HistoryQuery{Scope: scope, Period: period.KindCustom, Custom: &r})
	if err != nil {
		return err
	}

	if c.Bool("dump") {
		spew.Fdump(os.Stdout, series)
		return nil
	}
	return writeSeries(os.Stdout, series)
}

func writeSeries(w io.Writer, series history.Series) error {
	if _, err := fmt.Fprintf(w, "%s  %s  current %s\n", series.Scope, series.Range, series.CurrentTotal.StringFixed(2)); err != nil {
		return err
	}
	for _, p := range series.Points {
		if _, err := fmt.Fprintf(w, "%s  %14s\n", p.Date.Format(time.DateOnly), p.Value.StringFixed(2)); err != nil {
			return err
		}
	}
	for _, issue := range series.Issues {
		if _, err := fmt.Fprintf(w, "excluded: %v\n", issue); err != nil {
			return err
		}
	}
	return nil
}
