package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Pipeline is the single parameterized transformation pipeline serving
// the display, print and export modes. A run is a pure function of the
// Profile and the input files plus the injected clock; it holds no
// state across runs.
type Pipeline struct {
	logger *slog.Logger
	now    func() time.Time
}

// PipelineOption configures a Pipeline
type PipelineOption func(*Pipeline)

// WithClock overrides the pipeline clock. Tests use this to pin header
// and file-name dates.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		p.now = now
	}
}

// NewPipeline creates a pipeline with the given logger
func NewPipeline(logger *slog.Logger, opts ...PipelineOption) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		logger: logger.With(slog.String("component", "engine")),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the full pipeline for one supplier and one Profile over
// the given files, in the caller-supplied file order. filesRequested
// carries the size of the original selection so partial-failure
// accounting survives upstream download skips.
func (p *Pipeline) Run(ctx context.Context, profile Profile, supplier string, files []RawFile) (*OutputSpec, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := p.now()

	fileRows := make([][]Row, 0, len(files))
	for _, file := range files {
		rows := Project(file, profile)
		fileRows = append(fileRows, rows)

		p.logger.DebugContext(ctx, "file projected",
			slog.String("file", file.Name),
			slog.Int("rows", len(rows)),
			slog.Int("columns", tableWidth(rows)))
	}

	composed, err := Compose(fileRows, profile.SplitFiles)
	if err != nil {
		return nil, fmt.Errorf("compose %d file(s): %w", len(files), err)
	}

	p.logger.InfoContext(ctx, "files composed",
		slog.String("supplier", supplier),
		slog.String("mode", string(profile.Mode)),
		slog.Bool("split_files", profile.SplitFiles),
		slog.Int("file_count", len(files)),
		slog.Int("row_count", len(composed)))

	if profile.MergeDuplicates {
		before := len(composed)
		composed = MergeDuplicateRows(composed)
		p.logger.InfoContext(ctx, "duplicates merged",
			slog.Int("rows_before", before),
			slog.Int("rows_after", len(composed)))
	}

	dataRows := len(composed)
	composed = Annotate(composed, profile, now)

	spec := &OutputSpec{
		FileName:       RenderFileName(profile, supplier, now),
		Format:         profile.OutputFormat,
		Rows:           composed,
		DataRows:       dataRows,
		FilesRead:      len(files),
		FilesRequested: len(files),
	}

	p.logger.InfoContext(ctx, "pipeline complete",
		slog.String("supplier", supplier),
		slog.String("file_name", spec.FileName),
		slog.Int("total_rows", len(spec.Rows)))

	return spec, nil
}
