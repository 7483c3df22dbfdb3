package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/northcutted/catalog-audit/pkg/audit"
	"github.com/northcutted/catalog-audit/pkg/config"
	"github.com/northcutted/catalog-audit/pkg/injector"
	"github.com/northcutted/catalog-audit/pkg/renderer"
)

func runYAMLMode(ctx context.Context, path string) error {
	slog.Info("using config file", "path", path)
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	// Relative paths in the config (output, sources, exports) are relative to
	// the config file, not the working directory.
	cfg.ResolvePaths(filepath.Dir(path))
	if sqlitePath != "" {
		cfg.SQLite = sqlitePath
	}
	if metricsFile != "" {
		cfg.MetricsFile = metricsFile
	}

	// Audit every section in parallel; each goroutine owns its result slot.
	results := make([]*audit.Result, len(cfg.Sections))
	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, section := range cfg.Sections {
		g.Go(func() error {
			result, err := auditFile(gctx, section.Source, section.Suppliers)
			if err != nil {
				return fmt.Errorf("section %s: %w", sectionLabel(section.Marker, i), err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	exp := newExporter(cfg.SQLite, cfg.MetricsFile, dryRun)

	// Read Output File (only needed for markdown injection; read lazily below)
	var fileContent string
	var fileContentLoaded bool

	loadFileContent := func() error {
		if fileContentLoaded {
			return nil
		}
		content, err := os.ReadFile(cfg.Output)
		if err != nil {
			return fmt.Errorf("failed to read output file %s: %w", cfg.Output, err)
		}
		fileContent = string(content)
		fileContentLoaded = true
		return nil
	}

	issuesFound := 0
	for i, section := range cfg.Sections {
		result := results[i]
		label := sectionLabel(section.Marker, i)
		issuesFound += len(result.Entries)

		if err := exp.add(ctx, label, result); err != nil {
			return err
		}

		// Resolve format: CLI flag > section config > global config
		sectionFormat := cfg.ResolveFormat(section)
		if format != "" {
			sectionFormat = format
		}

		renderOpts := renderer.RenderOptions{
			Title:      label,
			NoMoji:     noMoji,
			Limit:      cfg.ResolveLimit(section),
			TitleWidth: cfg.TitleWidth,
		}
		sectionContent, err := renderer.Render(result, sectionFormat, renderOpts)
		if err != nil {
			return fmt.Errorf("failed to render section %s: %w", label, err)
		}

		switch {
		case sectionFormat == config.FormatText:
			fmt.Fprintf(stdout, "--- %s ---\n", label)
			fmt.Fprintln(stdout, sectionContent)

		case renderer.IsDirectWriteFormat(sectionFormat):
			outPath := resolveSectionOutput(cfg.Output, section.Marker, i, sectionFormat)

			if dryRun {
				fmt.Fprintf(stdout, "--- %s ---\n", outPath)
				fmt.Fprintln(stdout, sectionContent)
				continue
			}

			if err := os.WriteFile(outPath, []byte(sectionContent), 0644); err != nil {
				return fmt.Errorf("failed to write output file %s: %w", outPath, err)
			}
			slog.Info("wrote output file", "path", outPath)

		default:
			// Markdown: inject into existing file between markers
			if err := loadFileContent(); err != nil {
				return err
			}
			newContent, err := injector.Inject(fileContent, section.Marker, sectionContent)
			if err != nil {
				slog.Warn("skipping section", "section", label, "error", err)
				continue
			}
			fileContent = newContent
		}
	}

	if err := exp.flush(); err != nil {
		return err
	}

	// Write the markdown output file if we modified it
	if fileContentLoaded {
		if dryRun {
			fmt.Fprintln(stdout, fileContent)
		} else {
			if err := os.WriteFile(cfg.Output, []byte(fileContent), 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			slog.Info("updated output file", "path", cfg.Output)
		}
	}

	if failOnIssues && issuesFound > 0 {
		return fmt.Errorf("%w: %d products across %d sections", ErrIssuesFound, issuesFound, len(cfg.Sections))
	}
	return nil
}
