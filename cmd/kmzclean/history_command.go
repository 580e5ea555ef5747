package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"kmzclean/internal/history"
	"kmzclean/internal/kml"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently processed archives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return errors.New("history is disabled; set [history] enabled = true in the configuration")
			}
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			if limit <= 0 {
				limit = cfg.History.Limit
			}
			var records []history.Record
			if id := strings.TrimSpace(runID); id != "" {
				records, err = store.Run(cmd.Context(), id)
			} else {
				records, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No history records")
				return nil
			}
			fmt.Fprintln(out, renderHistory(records, shouldColorize(out)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of records to show (default from config)")
	cmd.Flags().StringVar(&runID, "run", "", "Show every record from one run ID")
	return cmd
}

func renderHistory(records []history.Record, colorize bool) string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		status := colorizeCell(string(rec.Outcome), statusOK, colorize)
		detail := "-"
		if rec.Outcome == history.OutcomeFailed {
			status = colorizeCell(string(rec.Outcome), statusError, colorize)
			detail = rec.Kind
		} else if rec.HasBox {
			detail = fmt.Sprintf("%s..%s N, %s..%s E",
				kml.FormatDegrees(rec.South), kml.FormatDegrees(rec.North),
				kml.FormatDegrees(rec.West), kml.FormatDegrees(rec.East))
		}
		rows = append(rows, []string{
			rec.ProcessedAt.Local().Format(time.DateTime),
			shortRunID(rec.RunID),
			rec.Source,
			status,
			detail,
		})
	}
	return renderTable(tableData{
		headers: []string{"Processed", "Run", "Archive", "Outcome", "Detail"},
		rows:    rows,
	})
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
