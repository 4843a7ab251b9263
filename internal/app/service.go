// Package service wires timestamp conversion to its output, logging and
// metrics.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/okian/epochfmt/internal/domain/epoch"
	"github.com/okian/epochfmt/pkg/logger"
	"github.com/okian/epochfmt/pkg/metrics"
)

// Recorder receives conversion outcomes. *metrics.Manager implements it.
type Recorder interface {
	RecordConversion(unixSec int64, latencyMs float64)
	RecordConversionError(kind string)
}

// Formatter converts a timestamp to local calendar time and writes the
// formatted line to its output.
type Formatter struct {
	out      io.Writer
	unit     epoch.Unit
	location *time.Location
	recorder Recorder
	logger   logger.Logger
	runID    string
	now      func() time.Time
}

// Option applies a configuration option to the Formatter.
type Option func(*Formatter)

// WithOutput sets the writer receiving the formatted line.
func WithOutput(w io.Writer) Option {
	return func(f *Formatter) {
		if w != nil {
			f.out = w
		}
	}
}

// WithUnit sets how timestamps are interpreted.
func WithUnit(unit epoch.Unit) Option {
	return func(f *Formatter) {
		if unit != "" {
			f.unit = unit
		}
	}
}

// WithLocation overrides the process local zone.
func WithLocation(loc *time.Location) Option {
	return func(f *Formatter) {
		if loc != nil {
			f.location = loc
		}
	}
}

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option {
	return func(f *Formatter) {
		if r != nil {
			f.recorder = r
		}
	}
}

// WithLogger sets a custom logger for the formatter.
func WithLogger(l logger.Logger) Option {
	return func(f *Formatter) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithRunID sets the identifier attached to every log record.
func WithRunID(id string) Option {
	return func(f *Formatter) {
		if id != "" {
			f.runID = id
		}
	}
}

// New constructs a Formatter writing to stdout in the local zone.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		out:      os.Stdout,
		unit:     epoch.Milliseconds,
		location: time.Local,
		recorder: metrics.Default(),
		runID:    uuid.NewString(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = logger.Named("formatter")
	}
	f.logger = f.logger.With(logger.String("run_id", f.runID))
	return f
}

// RunID returns the identifier attached to this formatter's log records.
func (f *Formatter) RunID() string {
	return f.runID
}

// Format converts ts and returns the "YYYY-MM-DD HH:MM:SS" rendering.
func (f *Formatter) Format(ts epoch.Timestamp) (string, error) {
	cdt, err := epoch.Convert(ts, f.unit, f.location)
	if err != nil {
		return "", err
	}
	return cdt.Format(), nil
}

// Run converts ts and writes the formatted line followed by a newline.
// Conversion errors are returned unchanged.
func (f *Formatter) Run(ctx context.Context, ts epoch.Timestamp) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := f.now()
	f.logger.Debug(ctx, "converting timestamp",
		logger.Int64("timestamp", int64(ts)),
		logger.String("unit", string(f.unit)),
		logger.String("location", f.location.String()),
	)

	cdt, err := epoch.Convert(ts, f.unit, f.location)
	if err != nil {
		f.recorder.RecordConversionError(errorKind(err))
		f.logger.Error(ctx, "conversion failed",
			logger.Int64("timestamp", int64(ts)),
			logger.String("unit", string(f.unit)),
			logger.Error(err),
		)
		return err
	}

	line := cdt.Format()
	if _, err := fmt.Fprintln(f.out, line); err != nil {
		f.recorder.RecordConversionError(metrics.KindOutput)
		f.logger.Error(ctx, "write failed", logger.Error(err))
		return fmt.Errorf("write output: %w", err)
	}

	latencyMs := float64(f.now().Sub(start)) / float64(time.Millisecond)
	f.recorder.RecordConversion(cdt.Unix(), latencyMs)
	f.logger.Info(ctx, "timestamp converted",
		logger.Int64("timestamp", int64(ts)),
		logger.String("formatted", line),
		logger.Float64("latency_ms", latencyMs),
	)
	return nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, epoch.ErrOutOfRange):
		return metrics.KindOutOfRange
	case errors.Is(err, epoch.ErrInvalidUnit):
		return metrics.KindInvalidUnit
	default:
		return metrics.KindOther
	}
}
