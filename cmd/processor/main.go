// Command processor runs one transformation pipeline headless: it
// reads already-downloaded supplier order files, applies the supplier's
// profile for the requested mode and writes the rendered output. The
// result summary goes to stdout as JSON so scripts can consume it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ordercli/internal/config"
	"ordercli/internal/dataprocessing"
	"ordercli/internal/engine"
	"ordercli/internal/exporter"
	"ordercli/internal/store"
)

type runSummary struct {
	Supplier   string `json:"supplier"`
	Mode       string `json:"mode"`
	FileName   string `json:"file_name"`
	Format     string `json:"format"`
	Rows       int    `json:"rows"`
	DataRows   int    `json:"data_rows"`
	FilesRead  int    `json:"files_read"`
	OutputPath string `json:"output_path,omitempty"`
	Failed     []string `json:"failed_files,omitempty"`
}

func main() {
	supplierSlug := flag.String("supplier", "", "supplier slug (required)")
	mode := flag.String("mode", "export", "consumer mode: display, print or export")
	fileList := flag.String("files", "", "comma-separated input file paths (required)")
	outDir := flag.String("out", "", "output directory (defaults to data/exports relative to executable)")
	dbPath := flag.String("db", "", "supplier database path (defaults to data/suppliers.db relative to executable)")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	logLevel := slog.LevelWarn
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	if *supplierSlug == "" || *fileList == "" {
		fmt.Fprintln(os.Stderr, "usage: processor -supplier <slug> -files <a.csv,b.csv> [-mode export] [-out dir]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	paths, err := config.GetPaths()
	if err != nil {
		logger.Error("failed to resolve paths", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := run(paths, *supplierSlug, engine.Mode(*mode), strings.Split(*fileList, ","), *outDir, *dbPath, logger, os.Stdout); err != nil {
		logger.Error("run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(paths *config.Paths, supplierSlug string, mode engine.Mode, files []string, outDir, dbPath string, logger *slog.Logger, out io.Writer) error {
	ctx := context.Background()

	if !mode.Valid() {
		return fmt.Errorf("unknown mode %q", mode)
	}

	if outDir != "" {
		paths.ExportsDir = outDir
	}
	if dbPath == "" {
		dbPath = paths.DatabaseFile
	}
	if err := os.MkdirAll(paths.ExportsDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	st, err := store.Open(dbPath, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	supplier, err := st.GetSupplier(ctx, supplierSlug)
	if err != nil {
		return err
	}
	profile, err := supplier.ProfileFor(mode)
	if err != nil {
		return err
	}

	reader := dataprocessing.NewReader(logger)

	var (
		raw    []engine.RawFile
		failed []string
	)
	for _, path := range files {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		file, err := reader.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable file",
				slog.String("path", path),
				slog.String("error", err.Error()))
			failed = append(failed, filepath.Base(path))
			continue
		}
		raw = append(raw, file)
	}
	if len(raw) == 0 {
		return fmt.Errorf("none of the %d input file(s) could be read", len(files))
	}

	pipeline := engine.NewPipeline(logger)
	spec, err := pipeline.Run(ctx, profile, supplier.Slug, raw)
	if err != nil {
		return err
	}

	summary := runSummary{
		Supplier:  supplier.Slug,
		Mode:      string(mode),
		FileName:  spec.FileName,
		Format:    string(spec.Format),
		Rows:      len(spec.Rows),
		DataRows:  spec.DataRows,
		FilesRead: len(raw),
		Failed:    failed,
	}

	if mode != engine.ModeDisplay {
		writer := exporter.NewWriter(paths, logger)
		outputPath, err := writer.Write(spec)
		if err != nil {
			return err
		}
		summary.OutputPath = outputPath
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
