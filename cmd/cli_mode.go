package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/northcutted/catalog-audit/pkg/config"
	"github.com/northcutted/catalog-audit/pkg/renderer"
)

func runCLIMode(ctx context.Context) error {
	// 1. Load and audit
	result, err := auditFile(ctx, catalogFile, suppliers)
	if err != nil {
		return fmt.Errorf("failed to audit catalog: %w", err)
	}

	// 2. Side outputs
	exp := newExporter(sqlitePath, metricsFile, dryRun)
	if err := exp.add(ctx, catalogLabel(catalogFile), result); err != nil {
		return err
	}
	if err := exp.flush(); err != nil {
		return err
	}

	// 3. Render
	outFormat := format
	if outFormat == "" {
		outFormat = config.FormatMarkdown
	}
	renderOpts := renderer.RenderOptions{
		Title:      catalogLabel(catalogFile),
		NoMoji:     noMoji,
		Limit:      limit,
		TitleWidth: titleWidth,
	}
	renderedContent, err := renderer.Render(result, outFormat, renderOpts)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	// 4. Output Strategy
	if err := writeCLIOutput(renderedContent, outFormat); err != nil {
		return err
	}

	if failOnIssues && len(result.Entries) > 0 {
		return fmt.Errorf("%w: %d of %d products", ErrIssuesFound, len(result.Entries), result.Total)
	}
	return nil
}

func writeCLIOutput(renderedContent, outFormat string) error {
	if dryRun || outFormat == config.FormatText {
		fmt.Fprintln(stdout, renderedContent)
		return nil
	}

	// For HTML/JSON: write the complete standalone document directly to a file
	if renderer.IsDirectWriteFormat(outFormat) {
		outPath := resolveOutputPath(outputFile, outFormat)
		if err := os.WriteFile(outPath, []byte(renderedContent), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		slog.Info("wrote output file", "path", outPath)
		return nil
	}

	// For Markdown: inject into existing file between markers
	handled, err := injectFile(outputFile, "", renderedContent)
	if err != nil {
		return err
	}
	if !handled {
		fmt.Fprintln(stdout, renderedContent)
	}
	return nil
}

// catalogLabel names a catalog in reports and exports.
func catalogLabel(path string) string {
	if path == "-" {
		return "stdin"
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
