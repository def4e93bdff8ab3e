package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"launcher/internal/config"
	apperrors "launcher/internal/errors"
	"launcher/internal/journal"
)

var historyNow = time.Now

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent launcher runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return apperrors.New(apperrors.CodeConfigurationError, "load config", err)
			}
			w := cmd.OutOrStdout()
			if strings.TrimSpace(cfg.JournalPath) == "" {
				_, _ = fmt.Fprintln(w, "Run journal disabled (journal.path is empty).")
				return nil
			}

			j, err := journal.Open(cmd.Context(), cfg.JournalPath)
			if err != nil {
				return err
			}
			defer func() {
				_ = j.Close()
			}()

			entries, err := j.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(w, "No runs recorded yet.")
				return nil
			}
			for _, e := range entries {
				_, _ = fmt.Fprintln(w, formatEntry(e, historyNow()))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", journal.DefaultRecent, "Number of runs to show")
	return cmd
}

func formatEntry(e journal.Entry, now time.Time) string {
	installed := e.Installed
	if installed == "" {
		installed = "-"
	}
	remote := e.Remote
	if remote == "" {
		remote = "-"
	}
	line := fmt.Sprintf("%-14s %-19s %s -> %s  %s",
		humanize.RelTime(e.At, now, "ago", "from now"),
		e.Decision,
		installed,
		remote,
		e.Outcome,
	)
	if e.Detail != "" {
		line += "  (" + e.Detail + ")"
	}
	return line
}
