// quotatab downloads a government usage-limit document (PDF or HTML),
// extracts its tables, runs them through the normalization pipeline, and
// appends the synthesized records to a Google Sheets worksheet.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/quotatab/quotatab/internal/config"
	"github.com/quotatab/quotatab/internal/pdfinfo"
	"github.com/quotatab/quotatab/internal/pipeline"
	"github.com/quotatab/quotatab/internal/record"
	"github.com/quotatab/quotatab/internal/sheets"
	"github.com/quotatab/quotatab/internal/source"
	"github.com/quotatab/quotatab/internal/source/htmltable"
	"github.com/quotatab/quotatab/internal/source/lattice"
)

const jsonDumpFile = "records.json"

func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func buildSource(cfg *config.Config) (source.Source, error) {
	switch cfg.Mode {
	case config.ModeHTML:
		return htmltable.New(cfg.DocumentURL, cfg.IframeFirst), nil
	case config.ModePDF:
		engine, err := pdfinfo.Select(cfg.PDFEngine)
		if err != nil {
			return nil, err
		}
		return lattice.New(lattice.Options{
			DocumentURL:   cfg.DocumentURL,
			ServiceURL:    cfg.LatticeURL,
			Pages:         cfg.Pages,
			ExcludePages:  cfg.ExcludeSet(),
			AutoPageRange: cfg.AutoPageRange,
			AutoStartPage: cfg.AutoStartPage,
			Engine:        engine,
		}), nil
	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}

func dumpJSON(dir string, records []record.Record) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create json dir: %w", err)
	}
	path := filepath.Join(dir, jsonDumpFile)
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	slog.Info("wrote json dump", "path", path, "records", len(records))
	return nil
}

func run(ctx context.Context, cfg *config.Config) error {
	src, err := buildSource(cfg)
	if err != nil {
		return err
	}

	slog.Info("extracting tables", "mode", cfg.Mode, "url", cfg.DocumentURL)
	tables, err := src.Extract(ctx)
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		return source.ErrNoTables
	}
	slog.Info("tables extracted", "count", len(tables))

	records, err := pipeline.Process(tables)
	if err != nil {
		return err
	}
	slog.Info("records synthesized", "count", len(records))

	if cfg.DumpJSON {
		if err := dumpJSON(cfg.JSONDir, records); err != nil {
			return err
		}
	}

	if cfg.DryRun {
		slog.Info("dry run, skipping spreadsheet append")
		return nil
	}

	client, err := sheets.New(ctx, cfg.CredentialsFile, cfg.SpreadsheetID, cfg.SheetTitle)
	if err != nil {
		return err
	}
	return client.Append(ctx, records)
}

func main() {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg)
	slog.Debug("configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		switch {
		case errors.Is(err, source.ErrNoTables):
			slog.Error("no tables detected; adjust --pages, --exclude-pages, or the lattice tuning", "err", err)
		case errors.Is(err, pipeline.ErrNoRecords):
			slog.Error("extraction found tables but no usable records", "err", err)
		default:
			slog.Error("run failed", "err", err)
		}
		os.Exit(1)
	}
}
