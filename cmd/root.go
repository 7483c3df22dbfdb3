package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/northcutted/catalog-audit/pkg/config"
	"github.com/northcutted/catalog-audit/pkg/logger"
)

// ErrIssuesFound is returned with --fail-on-issues when any product needs attention.
var ErrIssuesFound = errors.New("catalog audit found products needing attention")

var (
	catalogFile  string
	outputFile   string
	dryRun       bool
	configFile   string
	format       string
	noMoji       bool
	verbose      bool
	logFormat    string
	suppliers    []string
	limit        int
	titleWidth   int
	sqlitePath   string
	metricsFile  string
	failOnIssues bool
	jobs         int
	timeout      time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "catalog-audit",
	Short: "Audit a product catalog for missing content and broken images",
	Long: `Audit a flat JSON product catalog and report what needs attention.

Every product is checked for missing images, short descriptions (under 100
characters), missing features and missing applications. The first image of
each product is classified as local (/path), external (http URL, with host)
or invalid. Results are grouped by supplier.

Modes:
- YAML Mode: Uses 'catalog-audit.yaml' to audit several catalogs or supplier subsets.
- CLI Mode: Audits a single catalog file without configuration.`,
	Example: `  # YAML Mode
  catalog-audit --config catalog-audit.yaml

  # CLI Mode: print a console report
  catalog-audit -f products_data.json --format text

  # CLI Mode: only two suppliers, first 20 rows per list
  catalog-audit -f products_data.json --supplier "SPEKTRA Dresden" --supplier "APS Dynamics" --limit 20 --dry-run

  # CLI Mode: JSON report plus SQLite export
  catalog-audit -f products_data.json --format json -o audit.json --sqlite audit.db`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(os.Stderr, verbose, logFormat == "json")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if format != "" && !config.IsKnownFormat(format) {
			return fmt.Errorf("unknown format: %s (markdown, html, json, text)", format)
		}

		ctx := cmd.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		// Detect YAML Mode
		cfgPath := configFile
		if cfgPath == "" {
			if _, err := os.Stat(config.DefaultFileName); err == nil {
				cfgPath = config.DefaultFileName
			}
		}

		if cfgPath != "" {
			return runYAMLMode(ctx, cfgPath)
		}

		return runCLIMode(ctx)
	},
}

// Execute runs the root cobra command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&catalogFile, "file", "f", "products_data.json", "Path to catalog file, JSON array or JSON Lines ('-' for stdin) (CLI Mode only)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", defaultOutput, "Path to output file")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print to stdout instead of writing files (skips SQLite and metrics exports)")
	rootCmd.Flags().StringVar(&configFile, "config", "", "Path to config file (default: catalog-audit.yaml)")
	rootCmd.Flags().StringVar(&format, "format", "", "Output format: markdown, html, json or text (default markdown)")
	rootCmd.Flags().BoolVar(&noMoji, "nomoji", false, "Disable emojis in the output")
	rootCmd.Flags().StringSliceVar(&suppliers, "supplier", nil, "Only audit products of this supplier (repeatable, CLI Mode only)")
	rootCmd.Flags().IntVar(&limit, "limit", 0, "Show at most N rows per list, 0 shows all (CLI Mode only)")
	rootCmd.Flags().IntVar(&titleWidth, "title-width", 50, "Truncate product titles to N characters (CLI Mode only)")
	rootCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "Also write the audit into this SQLite database")
	rootCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Also write Prometheus gauges to this textfile")
	rootCmd.Flags().BoolVar(&failOnIssues, "fail-on-issues", false, "Exit non-zero when any product needs attention")
	rootCmd.Flags().IntVar(&jobs, "jobs", 4, "Number of catalogs audited in parallel (YAML Mode only)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "Abort after this duration, e.g. 30s (0 disables)")

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(versionCmd)

	// Add version flag as shortcut for "version" command
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("catalog-audit {{.Version}}\n")
}
