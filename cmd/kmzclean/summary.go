package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"kmzclean/internal/batch"
	"kmzclean/internal/faults"
)

func renderSummary(summary batch.Summary, logPath string, colorize bool) string {
	var b strings.Builder
	if len(summary.Results) == 0 {
		b.WriteString(renderStatusLine("Files", statusInfo, "no .kmz or .zip archives found", colorize))
		b.WriteString("\n")
		return b.String()
	}

	rows := make([][]string, 0, len(summary.Results))
	for _, r := range summary.Results {
		status := colorizeCell("ok", statusOK, colorize)
		detail := filepath.Base(r.Output)
		if !r.Succeeded() {
			status = colorizeCell("failed", statusError, colorize)
			detail = fmt.Sprintf("%s at %s", faults.Kind(r.Err), r.FailedAt)
		}
		rows = append(rows, []string{
			r.Label(),
			status,
			detail,
			formatElapsed(r.Duration),
		})
	}
	b.WriteString(renderTable(tableData{
		headers: []string{"Archive", "Status", "Detail", "Time"},
		rows:    rows,
		aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
		footer:  []string{fmt.Sprintf("%d files", len(summary.Results)), "", "", ""},
	}))
	b.WriteString("\n")

	okKind := statusOK
	if summary.Succeeded == 0 {
		okKind = statusInfo
	}
	b.WriteString(renderStatusLine("Converted", okKind, fmt.Sprintf("%d", summary.Succeeded), colorize))
	b.WriteString("\n")
	failKind := statusInfo
	if summary.Failed > 0 {
		failKind = statusError
	}
	b.WriteString(renderStatusLine("Failed", failKind, fmt.Sprintf("%d", summary.Failed), colorize))
	b.WriteString("\n")
	b.WriteString(renderStatusLine("Log", statusInfo, logPath, colorize))
	b.WriteString("\n")
	return b.String()
}

func formatElapsed(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(10 * time.Millisecond).String()
}
