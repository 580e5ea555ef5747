package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"kmzclean/internal/config"
	"kmzclean/internal/faults"
	"kmzclean/internal/history"
	"kmzclean/internal/logging"
	"kmzclean/internal/preflight"
	"kmzclean/internal/processlog"
)

// Driver runs conversion batches for one configuration.
type Driver struct {
	cfg     *config.Config
	logger  *slog.Logger
	history *history.Store
	newID   func() string
	now     func() time.Time
}

// New constructs a driver. store may be nil when history is disabled.
func New(cfg *config.Config, logger *slog.Logger, store *history.Store) (*Driver, error) {
	if cfg == nil {
		return nil, errors.New("batch driver requires config")
	}
	return &Driver{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "batch"),
		history: store,
		newID:   uuid.NewString,
		now:     time.Now,
	}, nil
}

// Run converts every discovered archive once. Per-file failures are recorded
// in the summary and processing log; the returned error covers batch-level
// setup failures, a processing log that stops accepting writes, and context
// cancellation between files.
func (d *Driver) Run(ctx context.Context) (summary Summary, err error) {
	summary.RunID = d.newID()
	logger := d.logger.With(logging.String(logging.FieldRunID, summary.RunID))

	if err := d.cfg.EnsureDirectories(); err != nil {
		return summary, err
	}
	if err := preflight.Err(preflight.RunAll(d.cfg)); err != nil {
		return summary, err
	}

	files, err := Discover(d.cfg.Paths.WorkDir)
	if err != nil {
		return summary, err
	}

	plog, err := processlog.Open(d.cfg.Paths.LogFile)
	if err != nil {
		return summary, err
	}
	defer func() {
		if closeErr := plog.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close processing log: %w", closeErr))
		}
	}()

	logger.Info("batch started",
		logging.String("work_dir", d.cfg.Paths.WorkDir),
		logging.String("output_dir", d.cfg.Paths.OutputDir),
		logging.Int("files", len(files)),
	)
	started := d.now()

	for i, path := range files {
		if ctxErr := ctx.Err(); ctxErr != nil {
			logger.Warn("batch cancelled", logging.Int("remaining", len(files)-i))
			return summary, ctxErr
		}

		for _, result := range d.process(summary.RunID, path) {
			entry := processlog.Entry{Source: path, Member: result.Member, Outcome: processlog.Success}
			if !result.Succeeded() {
				entry.Outcome, entry.Err = processlog.Failed, result.Err
			}
			if appendErr := plog.Append(entry); appendErr != nil {
				summary.add(result)
				return summary, appendErr
			}
			if result.Succeeded() {
				result.State = StateLogged
			}
			summary.add(result)
			d.record(ctx, logger, summary.RunID, result)
		}
	}

	logger.Info("batch completed",
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Duration("elapsed", d.now().Sub(started)),
	)
	return summary, nil
}

func (d *Driver) record(ctx context.Context, logger *slog.Logger, runID string, result Result) {
	if d.history == nil {
		return
	}
	rec := history.Record{
		RunID:       runID,
		Source:      result.Source,
		Output:      result.Output,
		Outcome:     history.OutcomeSuccess,
		ProcessedAt: d.now(),
	}
	if result.Member != "" {
		rec.Source = result.Source + "/" + result.Member
	}
	if !result.Succeeded() {
		rec.Outcome = history.OutcomeFailed
		rec.Kind = faults.Kind(result.Err)
		rec.Message = result.Err.Error()
	}
	if o := result.Overlay; o != nil {
		rec.HasBox = true
		rec.North, rec.South, rec.East, rec.West = o.Box.North, o.Box.South, o.Box.East, o.Box.West
	}
	if _, err := d.history.Record(ctx, rec); err != nil {
		logger.Warn("history record failed",
			logging.String(logging.FieldArchive, result.Label()),
			logging.Error(err),
		)
	}
}
