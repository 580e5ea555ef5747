package batch

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"kmzclean/internal/faults"
	"kmzclean/internal/kml"
	"kmzclean/internal/kmz"
	"kmzclean/internal/logging"
)

// process runs one input archive through the pipeline and returns a result
// per document it holds. It never returns an error; failures are carried in
// the results.
func (d *Driver) process(runID, path string) []Result {
	logger := d.logger.With(
		logging.String(logging.FieldRunID, runID),
		logging.String(logging.FieldArchive, filepath.Base(path)),
	)
	started := d.now()

	parts, err := kmz.OpenAll(path)
	if err != nil {
		return []Result{d.fail(logger, Result{Source: path, State: StateDiscovered}, started, err)}
	}
	if len(parts) > 1 {
		logger.Info("wrapper archive holds several kmz files", logging.Int("nested", len(parts)))
	}

	results := make([]Result, 0, len(parts))
	for _, part := range parts {
		output := OutputPath(d.cfg.Paths.OutputDir, path)
		if len(parts) > 1 {
			output = NestedOutputPath(d.cfg.Paths.OutputDir, path, part.Member)
		}
		results = append(results, d.convert(logger, path, part, output, started))
		started = d.now()
	}
	return results
}

func (d *Driver) convert(logger *slog.Logger, path string, part kmz.Part, output string, started time.Time) Result {
	result := Result{Source: path, Member: part.Member, State: StateDiscovered}
	if part.Member != "" {
		logger = logger.With(logging.String("member", part.Member))
	}
	fail := func(err error) Result {
		return d.fail(logger, result, started, err)
	}
	advance := func(next State, attrs ...logging.Attr) {
		result.State = next
		attrs = append([]logging.Attr{logging.String(logging.FieldState, string(next))}, attrs...)
		logger.Debug("state advanced", logging.Args(attrs...)...)
	}

	if part.Err != nil {
		return fail(part.Err)
	}
	src := part.Source

	workDir, err := os.MkdirTemp(d.cfg.Paths.TempDir, "kmzclean-*")
	if err != nil {
		return fail(faults.Wrap(faults.ErrArchive, "extract", "create temp dir", result.Label(), err))
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logger.Warn("temp cleanup failed", logging.String("dir", workDir), logging.Error(err))
		}
	}()

	extracted, err := src.Extract(workDir)
	if err != nil {
		return fail(err)
	}
	advance(StateExtracted,
		logging.String("kml_member", src.KML.Name),
		logging.Int("images", len(src.Images)),
		logging.String("nested", src.Nested),
	)

	doc, err := os.ReadFile(extracted.KMLPath)
	if err != nil {
		return fail(faults.Wrap(faults.ErrArchive, "parse", "read extracted kml", src.KML.Name, err))
	}
	overlay, err := kml.Extract(doc)
	if err != nil {
		return fail(err)
	}
	image := src.Image(overlay.Href)
	// The rewritten href always names the member that is actually written.
	overlay.Href = image.Name
	result.Overlay = &overlay
	advance(StateParsed,
		logging.String("href", overlay.Href),
		logging.String("bbox", formatBox(overlay.Box)),
	)

	rendered, err := kml.Render(overlay, kml.RenderOptions{
		OverlayName:  d.cfg.Overlay.Name,
		DrawOrder:    d.cfg.Overlay.DrawOrder,
		FallbackName: kml.TitleFromPath(output),
	})
	if err != nil {
		return fail(err)
	}
	advance(StateSynthesized, logging.Int("kml_bytes", len(rendered)))

	if err := kmz.Write(output, rendered, image); err != nil {
		return fail(err)
	}
	result.Output = output
	advance(StateWritten, logging.String("output", output))

	result.Duration = d.now().Sub(started)
	logger.Info("file converted",
		logging.String("output", filepath.Base(output)),
		logging.Duration("elapsed", result.Duration),
	)
	return result
}

func (d *Driver) fail(logger *slog.Logger, result Result, started time.Time, err error) Result {
	result.FailedAt = result.State
	result.State = StateFailed
	result.Err = err
	result.Output = ""
	result.Duration = d.now().Sub(started)
	logger.Error("file failed",
		logging.String(logging.FieldState, string(result.FailedAt)),
		logging.String(logging.FieldErrorKind, faults.Kind(err)),
		logging.Error(err),
	)
	return result
}

func formatBox(b kml.BoundingBox) string {
	return "N " + kml.FormatDegrees(b.North) +
		" S " + kml.FormatDegrees(b.South) +
		" E " + kml.FormatDegrees(b.East) +
		" W " + kml.FormatDegrees(b.West)
}
