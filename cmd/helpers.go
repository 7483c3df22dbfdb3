package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/northcutted/catalog-audit/pkg/audit"
	"github.com/northcutted/catalog-audit/pkg/catalog"
	"github.com/northcutted/catalog-audit/pkg/export"
	"github.com/northcutted/catalog-audit/pkg/injector"
	"github.com/northcutted/catalog-audit/pkg/metrics"
)

// stdout is where reports go; tests swap it.
var stdout io.Writer = os.Stdout

// auditFile loads a catalog, narrows it to the given suppliers and audits it.
func auditFile(ctx context.Context, path string, only []string) (*audit.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Debug("loading catalog", "path", path)
	records, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}

	selected := audit.FilterSuppliers(records, only)
	if len(only) > 0 {
		slog.Debug("filtered catalog by supplier", "suppliers", only, "kept", len(selected), "of", len(records))
	}

	result := audit.AuditCatalog(selected)
	slog.Info("audited catalog",
		"path", path,
		"products", result.Total,
		"suppliers", len(result.BySupplier),
		"needing_attention", len(result.Entries),
		"image_findings", len(result.Images),
	)
	return result, nil
}

// exporter writes optional side outputs (SQLite, Prometheus textfile) for one
// or more audited catalogs. In dry-run mode it only logs what it would write.
type exporter struct {
	sqlitePath  string
	metricsFile string
	dryRun      bool
	collector   *metrics.Collector
}

func newExporter(sqlitePath, metricsFile string, dryRun bool) *exporter {
	e := &exporter{sqlitePath: sqlitePath, metricsFile: metricsFile, dryRun: dryRun}
	if metricsFile != "" {
		e.collector = metrics.NewCollector()
	}
	return e
}

func (e *exporter) add(ctx context.Context, label string, result *audit.Result) error {
	if e.dryRun {
		if e.sqlitePath != "" {
			slog.Info("dry run, skipping sqlite export", "path", e.sqlitePath, "catalog", label, "entries", len(result.Entries))
		}
		return nil
	}
	if e.sqlitePath != "" {
		if err := export.WriteSQLite(ctx, e.sqlitePath, label, result); err != nil {
			return fmt.Errorf("sqlite export failed: %w", err)
		}
		slog.Info("wrote sqlite export", "path", e.sqlitePath, "catalog", label)
	}
	if e.collector != nil {
		e.collector.Collect(label, result)
	}
	return nil
}

func (e *exporter) flush() error {
	if e.collector == nil {
		return nil
	}
	if e.dryRun {
		slog.Info("dry run, skipping metrics file", "path", e.metricsFile)
		return nil
	}
	if err := e.collector.WriteTextfile(e.metricsFile); err != nil {
		return err
	}
	slog.Info("wrote metrics file", "path", e.metricsFile)
	return nil
}

// injectFile replaces the marker section in path. A missing file or missing
// markers is reported as handled=false so the caller can fall back to stdout.
func injectFile(path, marker, content string) (handled bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("output file does not exist, printing to stdout", "file", path)
			return false, nil
		}
		return false, err
	}

	newContent, err := injector.Inject(string(data), marker, content)
	if err != nil {
		slog.Warn("injection failed, printing to stdout", "file", path, "error", err)
		return false, nil
	}

	if err := os.WriteFile(path, []byte(newContent), 0644); err != nil {
		return false, fmt.Errorf("failed to write output file: %w", err)
	}
	slog.Info("updated output file", "path", path)
	return true, nil
}
