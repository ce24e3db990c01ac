package services

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sync"

	"golang.org/x/sync/errgroup"

	"ordercli/internal/config"
	"ordercli/internal/dataprocessing"
	"ordercli/internal/engine"
	apperrors "ordercli/internal/errors"
	"ordercli/internal/exporter"
	"ordercli/internal/files"
	"ordercli/internal/stats"
	"ordercli/internal/store"
	"ordercli/internal/transport/sftp"
)

// FileTransport is the slice of the SFTP client the order service
// needs. Defined here so tests can run against a fake server-less
// implementation.
type FileTransport interface {
	ListFiles(remotePath string) ([]sftp.FileInfo, error)
	DownloadFile(remotePath, localPath string) error
	MoveToArchive(remotePath string) error
}

// ProcessRequest selects what to run: one supplier, one consumer mode
// and the remote files to feed the pipeline, in display order.
type ProcessRequest struct {
	Supplier string      `json:"supplier" validate:"required"`
	Mode     engine.Mode `json:"mode" validate:"required"`
	Files    []string    `json:"files" validate:"required,min=1"`
	Archive  bool        `json:"archive"`
}

// ProcessResult is the outcome of one pipeline run, including the
// partial-failure accounting when some files could not be fetched.
type ProcessResult struct {
	Spec           *engine.OutputSpec `json:"spec"`
	OutputPath     string             `json:"output_path,omitempty"`
	FilesRead      int                `json:"files_read"`
	FilesRequested int                `json:"files_requested"`
	FailedFiles    []string           `json:"failed_files,omitempty"`
	Threshold      stats.Threshold    `json:"threshold"`
}

// OrderService downloads supplier order files, runs the transformation
// pipeline over them and renders the result.
type OrderService struct {
	cfg       config.SFTPConfig
	paths     *config.Paths
	transport FileTransport
	reader    *dataprocessing.Reader
	pipeline  *engine.Pipeline
	writer    *exporter.Writer
	collector *stats.Collector
	local     *files.Manager
	store     *store.Store
	logger    *slog.Logger

	mu          sync.RWMutex
	lastListing []sftp.FileInfo
}

// NewOrderService wires the order service from its collaborators
func NewOrderService(cfg config.SFTPConfig, paths *config.Paths, transport FileTransport,
	reader *dataprocessing.Reader, pipeline *engine.Pipeline, writer *exporter.Writer,
	collector *stats.Collector, local *files.Manager, st *store.Store, logger *slog.Logger) *OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderService{
		cfg:       cfg,
		paths:     paths,
		transport: transport,
		reader:    reader,
		pipeline:  pipeline,
		writer:    writer,
		collector: collector,
		local:     local,
		store:     st,
		logger:    logger.With(slog.String("service", "order")),
	}
}

// RefreshFiles reloads the remote directory listing and flushes the
// stats cache so every per-file number is recomputed against the new
// listing.
func (s *OrderService) RefreshFiles(ctx context.Context) ([]sftp.FileInfo, error) {
	files, err := s.transport.ListFiles(s.cfg.RemotePath)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.lastListing = files
	s.mu.Unlock()

	s.collector.Refresh()

	// staged copies of already processed files go stale quickly
	if s.local != nil {
		if _, err := s.local.PruneDownloads(config.DefaultDownloadRetention); err != nil {
			s.logger.WarnContext(ctx, "download prune failed", slog.String("error", err.Error()))
		}
	}

	s.logger.InfoContext(ctx, "file listing refreshed",
		slog.String("remote_path", s.cfg.RemotePath),
		slog.Int("file_count", len(files)))

	return files, nil
}

// ListFiles returns the cached listing, filtered to the supplier's file
// patterns when a supplier is given. An empty pattern list matches
// everything.
func (s *OrderService) ListFiles(supplier *store.Supplier) []sftp.FileInfo {
	s.mu.RLock()
	listing := s.lastListing
	s.mu.RUnlock()

	if supplier == nil || len(supplier.FilePatterns) == 0 {
		return listing
	}

	filtered := make([]sftp.FileInfo, 0, len(listing))
	for _, file := range listing {
		for _, pattern := range supplier.FilePatterns {
			if ok, err := path.Match(pattern, file.Name); err == nil && ok {
				filtered = append(filtered, file)
				break
			}
		}
	}
	return filtered
}

// Process runs the full flow for one request: fetch the selected files,
// decode them, run the pipeline with the supplier's profile for the
// requested mode and render the output. Files that fail to download or
// decode are skipped and accounted; the run fails only when none
// survive.
func (s *OrderService) Process(ctx context.Context, req ProcessRequest) (*ProcessResult, error) {
	supplier, err := s.store.GetSupplier(ctx, req.Supplier)
	if err != nil {
		return nil, err
	}

	profile, err := supplier.ProfileFor(req.Mode)
	if err != nil {
		return nil, err
	}

	files, failed := s.fetchFiles(ctx, req.Files)
	if len(files) == 0 {
		return nil, fmt.Errorf("%d file(s) requested: %w", len(req.Files), apperrors.ErrNoFilesSucceeded)
	}

	spec, err := s.pipeline.Run(ctx, profile, supplier.Slug, files)
	if err != nil {
		return nil, err
	}
	spec.FilesRequested = len(req.Files)

	result := &ProcessResult{
		Spec:           spec,
		FilesRead:      spec.FilesRead,
		FilesRequested: len(req.Files),
		FailedFiles:    failed,
	}

	var total float64
	for _, file := range files {
		total += stats.Compute(file.Rows).Total
	}
	result.Threshold = stats.CompareThreshold(total, supplier.MinOrderAmount)

	// display runs stay in memory; print and export land on disk
	if req.Mode != engine.ModeDisplay {
		outputPath, err := s.writer.Write(spec)
		if err != nil {
			return nil, err
		}
		result.OutputPath = outputPath
	}

	if req.Archive {
		s.archiveFiles(ctx, req.Files)
	}

	s.recordRun(ctx, supplier.Slug, req.Mode, spec)

	s.logger.InfoContext(ctx, "process complete",
		slog.String("supplier", supplier.Slug),
		slog.String("mode", string(req.Mode)),
		slog.Int("files_read", result.FilesRead),
		slog.Int("files_requested", result.FilesRequested))

	return result, nil
}

// fetchFiles downloads and decodes the selection with bounded
// parallelism. The returned slice preserves the request order; failed
// files leave a gap that is compacted out.
func (s *OrderService) fetchFiles(ctx context.Context, names []string) ([]engine.RawFile, []string) {
	type slot struct {
		file engine.RawFile
		err  error
	}
	slots := make([]slot, len(names))

	g, gctx := errgroup.WithContext(ctx)
	limit := s.cfg.MaxParallel
	if limit <= 0 {
		limit = 4
	}
	g.SetLimit(limit)

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				slots[i].err = err
				return nil
			}

			remote := path.Join(s.cfg.RemotePath, name)
			local := s.paths.GetDownloadPath(name)
			if err := s.transport.DownloadFile(remote, local); err != nil {
				slots[i].err = err
				return nil
			}

			file, err := s.reader.ReadFile(local)
			if err != nil {
				slots[i].err = err
				return nil
			}
			slots[i].file = file
			return nil
		})
	}
	g.Wait()

	var (
		files  []engine.RawFile
		failed []string
	)
	for i, sl := range slots {
		if sl.err != nil {
			s.logger.WarnContext(ctx, "file skipped",
				slog.String("file", names[i]),
				slog.String("error", sl.err.Error()))
			failed = append(failed, names[i])
			continue
		}
		files = append(files, sl.file)
	}
	return files, failed
}

// archiveFiles moves processed remote files out of the active listing.
// Archiving is best effort; one failed rename never fails the run.
func (s *OrderService) archiveFiles(ctx context.Context, names []string) {
	for _, name := range names {
		remote := path.Join(s.cfg.RemotePath, name)
		if err := s.transport.MoveToArchive(remote); err != nil {
			s.logger.WarnContext(ctx, "archive failed",
				slog.String("file", name),
				slog.String("error", err.Error()))
			continue
		}
	}
}

func (s *OrderService) recordRun(ctx context.Context, supplier string, mode engine.Mode, spec *engine.OutputSpec) {
	action := store.ActionDisplay
	switch mode {
	case engine.ModePrint:
		action = store.ActionPrint
	case engine.ModeExport:
		action = store.ActionExport
	}

	err := s.store.RecordAction(ctx, store.HistoryEntry{
		Supplier: supplier,
		Action:   action,
		File:     spec.FileName,
		Details: map[string]interface{}{
			"data_rows":       spec.DataRows,
			"files_read":      spec.FilesRead,
			"files_requested": spec.FilesRequested,
		},
	})
	if err != nil {
		s.logger.WarnContext(ctx, "history record failed",
			slog.String("supplier", supplier),
			slog.String("error", err.Error()))
	}
}
