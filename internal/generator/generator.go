// Package generator synthesizes ad-serving event rows and renders them as
// ClickHouse INSERT statements.
package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sspserver/statsgen/internal/config"
	"github.com/sspserver/statsgen/internal/logging"
)

const secondsPerDay = 24 * 60 * 60

// Params holds everything a run needs besides the random source.
type Params struct {
	Table        string
	Rows         int
	WindowStart  time.Time
	WindowDays   int
	BackStepDays int
	Domains      config.DomainsConfig
}

// ParamsFromConfig resolves cfg into generation parameters, anchoring the
// calendar window at now when no explicit start is configured.
func ParamsFromConfig(cfg *config.Config, now time.Time) (Params, error) {
	start, err := cfg.WindowStart(now)
	if err != nil {
		return Params{}, err
	}
	return Params{
		Table:        cfg.Output.Table,
		Rows:         cfg.Output.Rows,
		WindowStart:  start,
		WindowDays:   cfg.Window.Days,
		BackStepDays: cfg.Window.BackStepDays,
		Domains:      cfg.Domains,
	}, nil
}

// Validate checks the parameters before any output is produced
func (p Params) Validate() error {
	if strings.TrimSpace(p.Table) == "" {
		return errors.New("table is required")
	}
	if p.Rows <= 0 {
		return fmt.Errorf("rows must be positive, got %d", p.Rows)
	}
	if p.WindowDays <= 0 || p.WindowDays > config.MaxWindowDays {
		return fmt.Errorf("window days must be in [1, %d], got %d", config.MaxWindowDays, p.WindowDays)
	}
	if p.BackStepDays < 0 || p.BackStepDays > config.MaxWindowDays {
		return fmt.Errorf("back-step days must be in [0, %d], got %d", config.MaxWindowDays, p.BackStepDays)
	}
	return p.Domains.Validate()
}

// Recorder observes emitted rows.
type Recorder interface {
	ObserveRow(bytes int)
}

// Option configures a Generator.
type Option func(*Generator)

// WithRecorder attaches a Recorder that sees every written row.
func WithRecorder(r Recorder) Option {
	return func(g *Generator) {
		g.recorder = r
	}
}

// WithLogger attaches a logger for progress reporting.
func WithLogger(l *logging.Logger) Option {
	return func(g *Generator) {
		g.logger = l
	}
}

// Generator produces rows and writes them as INSERT statements.
type Generator struct {
	params      Params
	src         Source
	stepSeconds int64
	recorder    Recorder
	logger      *logging.Logger
}

// New validates params and returns a Generator drawing from src.
func New(params Params, src Source, opts ...Option) (*Generator, error) {
	if src == nil {
		return nil, errors.New("random source is required")
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator params: %w", err)
	}

	g := &Generator{
		params:      params,
		src:         src,
		stepSeconds: int64(params.WindowDays) * secondsPerDay / int64(params.Rows),
		logger:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Step returns the time-step offset in seconds for row index:
// -backStep + index * (window / rows). It never decreases as index grows.
func (g *Generator) Step(index int) int64 {
	return -int64(g.params.BackStepDays)*secondsPerDay + int64(index)*g.stepSeconds
}

// CreatedAt draws a calendar timestamp inside the window.
func (g *Generator) CreatedAt() time.Time {
	offset := g.src.IntRange(0, g.params.WindowDays*secondsPerDay)
	days, secs := offset/secondsPerDay, offset%secondsPerDay
	return g.params.WindowStart.Add(time.Duration(days) * 24 * time.Hour).Add(time.Duration(secs) * time.Second)
}

// Row synthesizes the row at index.
func (g *Generator) Row(index int) Row {
	b := &rowBuilder{
		src:       g.src,
		d:         &g.params.Domains,
		createdAt: g.CreatedAt(),
		step:      g.Step(index),
	}

	row := make(Row, len(registry))
	for i, col := range registry {
		row[i] = col.gen(b)
	}
	return row
}

// Render formats row as a single INSERT statement for table.
func Render(table string, row Row) string {
	values := make([]string, len(row))
	for i, v := range row {
		values[i] = v.SQL()
	}
	return fmt.Sprintf("INSERT INTO %s VALUES (%s);", table, strings.Join(values, ", "))
}

// Run writes one statement per row to w, in index order, one Write call per
// row. It stops at the first write error or when ctx is cancelled.
func (g *Generator) Run(ctx context.Context, w io.Writer) error {
	total := g.params.Rows
	progressInterval := total / 20
	if progressInterval < 1000 {
		progressInterval = 1000
	}

	logger := g.logger.With(logging.Table(g.params.Table))
	logger.DebugContext(ctx, "generation started",
		logging.Rows(total),
		"window_start", g.params.WindowStart.Format(calendarLayout),
		"step_seconds", g.stepSeconds,
	)

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := io.WriteString(w, Render(g.params.Table, g.Row(i))+"\n")
		if err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}

		if g.recorder != nil {
			g.recorder.ObserveRow(n)
		}
		if (i+1)%progressInterval == 0 {
			logger.DebugContext(ctx, "progress", logging.Row(i+1), logging.Rows(total))
		}
	}
	return nil
}
