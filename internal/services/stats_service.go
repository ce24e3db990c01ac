package services

import (
	"context"
	"log/slog"

	"ordercli/internal/config"
	"ordercli/internal/stats"
	"ordercli/internal/store"
)

// StatsSummary is the aggregation of a file selection plus the
// supplier's minimum order comparison.
type StatsSummary struct {
	stats.Summary
	Threshold stats.Threshold `json:"threshold"`
}

// StatsService aggregates per-file stats for the UI
type StatsService struct {
	collector *stats.Collector
	store     *store.Store
	paths     *config.Paths
	logger    *slog.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(collector *stats.Collector, st *store.Store, paths *config.Paths, logger *slog.Logger) *StatsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsService{
		collector: collector,
		store:     st,
		paths:     paths,
		logger:    logger.With(slog.String("service", "stats")),
	}
}

// Summarize aggregates the named downloaded files and, when a supplier
// slug is given, compares the total against its minimum order amount.
func (s *StatsService) Summarize(ctx context.Context, supplierSlug string, fileNames []string) (*StatsSummary, error) {
	files := make(map[string]string, len(fileNames))
	for _, name := range fileNames {
		files[name] = s.paths.GetDownloadPath(name)
	}

	summary := StatsSummary{Summary: s.collector.Aggregate(files)}

	var minimum float64
	if supplierSlug != "" {
		supplier, err := s.store.GetSupplier(ctx, supplierSlug)
		if err != nil {
			return nil, err
		}
		minimum = supplier.MinOrderAmount
	}
	summary.Threshold = stats.CompareThreshold(summary.Total, minimum)

	s.logger.DebugContext(ctx, "stats summarized",
		slog.String("supplier", supplierSlug),
		slog.Int("files", summary.Files),
		slog.Float64("total", summary.Total))

	return &summary, nil
}
