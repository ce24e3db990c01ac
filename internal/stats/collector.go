package stats

import (
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"ordercli/internal/engine"
)

// amountPosition is the raw column carrying the line amount summed into
// the file total.
const amountPosition = 3

// FileStats summarizes one decoded supplier file
type FileStats struct {
	RowCount int     `json:"row_count"`
	Total    float64 `json:"total"`
}

// Summary aggregates stats over a selection of files. Files that could
// not be read contribute nothing and are listed in Failed.
type Summary struct {
	Files    int      `json:"files"`
	RowCount int      `json:"row_count"`
	Total    float64  `json:"total"`
	Failed   []string `json:"failed,omitempty"`
}

// Threshold is the outcome of comparing an order total against a
// supplier's minimum order amount.
type Threshold struct {
	Reached bool    `json:"reached"`
	Deficit float64 `json:"deficit"`
}

// FileReader decodes one supplier file. *dataprocessing.Reader
// satisfies it.
type FileReader interface {
	ReadFile(path string) (engine.RawFile, error)
}

// Collector computes per-file stats and caches them by file name until
// the next refresh. A directory listing refresh always flushes the
// whole cache rather than expiring entries one by one, so a renamed or
// replaced file can never serve stale numbers.
//
// The generation counter makes the flush total: a computation that was
// already reading when Refresh ran discards its result instead of
// writing pre-refresh numbers into the fresh cache.
type Collector struct {
	reader FileReader
	cache  *cache.Cache
	logger *slog.Logger
	mu     sync.Mutex
	gen    uint64
}

// NewCollector creates a collector around the given reader
func NewCollector(reader FileReader, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		reader: reader,
		cache:  cache.New(cache.NoExpiration, 10*time.Minute),
		logger: logger.With(slog.String("component", "stats")),
	}
}

// StatsFor returns the stats for one file, computing and caching them
// on first use. Results computed across a refresh are returned but not
// cached: the file behind the name may have been replaced.
func (c *Collector) StatsFor(path, name string) (FileStats, error) {
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	if cached, ok := c.cache.Get(name); ok {
		return cached.(FileStats), nil
	}

	file, err := c.reader.ReadFile(path)
	if err != nil {
		return FileStats{}, err
	}

	stats := Compute(file.Rows)

	c.mu.Lock()
	if c.gen == gen {
		c.cache.Set(name, stats, cache.NoExpiration)
	}
	c.mu.Unlock()

	return stats, nil
}

// Aggregate sums the stats of the given files. Unreadable files are
// skipped and reported in the summary rather than failing the whole
// aggregation.
func (c *Collector) Aggregate(files map[string]string) Summary {
	var summary Summary
	for name, path := range files {
		stats, err := c.StatsFor(path, name)
		if err != nil {
			c.logger.Warn("file skipped in aggregation",
				slog.String("file", name),
				slog.String("error", err.Error()))
			summary.Failed = append(summary.Failed, name)
			continue
		}
		summary.Files++
		summary.RowCount += stats.RowCount
		summary.Total += stats.Total
	}
	return summary
}

// Refresh drops every cached entry. Called whenever the file listing is
// reloaded.
func (c *Collector) Refresh() {
	c.mu.Lock()
	c.gen++
	c.cache.Flush()
	c.mu.Unlock()
	c.logger.Debug("stats cache flushed")
}

// Compute derives the stats of one decoded row table
func Compute(rows []engine.Row) FileStats {
	stats := FileStats{RowCount: len(rows)}
	for _, row := range rows {
		if amountPosition >= len(row) {
			continue
		}
		stats.Total += parseAmount(row[amountPosition])
	}
	return stats
}

// CompareThreshold compares an order total against the supplier's
// minimum order amount. A zero or negative minimum means no threshold.
func CompareThreshold(total, minimum float64) Threshold {
	if minimum <= 0 || total >= minimum {
		return Threshold{Reached: true}
	}
	return Threshold{Deficit: minimum - total}
}

// parseAmount reads a cell as a decimal amount, accepting the comma
// decimal separator. Unparseable cells count as zero.
func parseAmount(cell string) float64 {
	cell = strings.TrimSpace(cell)
	cell = strings.ReplaceAll(cell, ",", ".")
	value, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0
	}
	return value
}
