// Test file for YAML mode execution (runYAMLMode and rootCmd.Execute with --config).
//
// Globals mutated: configFile, dryRun, format, failOnIssues, jobs, sqlitePath,
// stdout (via captureOutput).
// All tests use defer resetFlags()() for cleanup.
package cmd

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeYAMLFixture writes a catalog, a README with two marker pairs and the
// given config into a temp dir and returns the config path.
func writeYAMLFixture(t *testing.T, cfg string) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	writeCatalog(t, dir)

	readme := "# Catalog\n\n" +
		"<!-- BEGIN: catalog-audit:spektra -->\n<!-- END: catalog-audit:spektra -->\n\n" +
		"<!-- BEGIN: catalog-audit:all -->\nOLD\n<!-- END: catalog-audit:all -->\n"
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte(readme), 0644); err != nil {
		t.Fatalf("failed to write README: %v", err)
	}

	cfgPath = filepath.Join(dir, "catalog-audit.yaml")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return dir, cfgPath
}

const twoSectionConfig = `
output: README.md
sections:
  - marker: spektra
    source: products_data.json
    suppliers: ["SPEKTRA Dresden"]
  - marker: all
    source: products_data.json
`

func TestRunYAMLMode_Injection(t *testing.T) {
	defer resetFlags()()

	dir, cfgPath := writeYAMLFixture(t, twoSectionConfig)

	captureOutput(func() {
		if err := runYAMLMode(context.Background(), cfgPath); err != nil {
			t.Fatalf("runYAMLMode failed: %v", err)
		}
	})

	data, err := os.ReadFile(filepath.Join(dir, "README.md"))
	if err != nil {
		t.Fatalf("failed to read README: %v", err)
	}
	content := string(data)

	if strings.Contains(content, "OLD") {
		t.Error("expected OLD content to be replaced")
	}
	if !strings.Contains(content, "## Catalog Audit: spektra\n\n2 products, 1 need attention.") {
		t.Errorf("expected spektra section, got:\n%s", content)
	}
	if !strings.Contains(content, "## Catalog Audit: all\n\n4 products, 3 need attention.") {
		t.Errorf("expected all section, got:\n%s", content)
	}

	spektraEnd := strings.Index(content, "<!-- END: catalog-audit:spektra -->")
	if i := strings.Index(content, "APS Dynamics"); i < spektraEnd {
		t.Error("expected APS Dynamics only in the unfiltered section")
	}
}

func TestRunYAMLMode_DryRun(t *testing.T) {
	defer resetFlags()()

	dir, cfgPath := writeYAMLFixture(t, twoSectionConfig)
	dryRun = true

	output := captureOutput(func() {
		if err := runYAMLMode(context.Background(), cfgPath); err != nil {
			t.Fatalf("runYAMLMode failed: %v", err)
		}
	})

	if !strings.Contains(output, "## Catalog Audit: spektra") {
		t.Errorf("expected rendered README on stdout, got:\n%s", output)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "README.md"))
	if !strings.Contains(string(data), "OLD") {
		t.Error("expected README to be untouched in dry-run")
	}
}

func TestRunYAMLMode_DirectWriteSections(t *testing.T) {
	defer resetFlags()()

	dir, cfgPath := writeYAMLFixture(t, `
output: README.md
sections:
  - marker: report
    source: products_data.json
    format: html
  - source: products_data.json
    format: json
`)

	captureOutput(func() {
		if err := runYAMLMode(context.Background(), cfgPath); err != nil {
			t.Fatalf("runYAMLMode failed: %v", err)
		}
	})

	html, err := os.ReadFile(filepath.Join(dir, "README-report.html"))
	if err != nil {
		t.Fatalf("expected html section file: %v", err)
	}
	if !strings.Contains(string(html), "<h1>Catalog Audit: report</h1>") {
		t.Errorf("unexpected html:\n%s", html)
	}

	if _, err := os.Stat(filepath.Join(dir, "README-section1.json")); err != nil {
		t.Errorf("expected json section file: %v", err)
	}

	readme, _ := os.ReadFile(filepath.Join(dir, "README.md"))
	if !strings.Contains(string(readme), "OLD") {
		t.Error("expected README untouched when no markdown sections exist")
	}
}

func TestRunYAMLMode_FormatFlagOverrides(t *testing.T) {
	defer resetFlags()()

	_, cfgPath := writeYAMLFixture(t, twoSectionConfig)
	format = "text"

	output := captureOutput(func() {
		if err := runYAMLMode(context.Background(), cfgPath); err != nil {
			t.Fatalf("runYAMLMode failed: %v", err)
		}
	})

	if !strings.Contains(output, "--- spektra ---") || !strings.Contains(output, "--- all ---") {
		t.Errorf("expected both sections as text, got:\n%s", output)
	}
	if !strings.Contains(output, "SUMMARY BY SUPPLIER") {
		t.Errorf("expected console report, got:\n%s", output)
	}
}

func TestRunYAMLMode_MissingMarkerSkipsSection(t *testing.T) {
	defer resetFlags()()

	dir, cfgPath := writeYAMLFixture(t, `
sections:
  - marker: nowhere
    source: products_data.json
  - marker: all
    source: products_data.json
`)

	captureOutput(func() {
		if err := runYAMLMode(context.Background(), cfgPath); err != nil {
			t.Fatalf("runYAMLMode failed: %v", err)
		}
	})

	data, _ := os.ReadFile(filepath.Join(dir, "README.md"))
	if !strings.Contains(string(data), "## Catalog Audit: all") {
		t.Errorf("expected the section with markers to be injected, got:\n%s", data)
	}
	if strings.Contains(string(data), "nowhere") {
		t.Error("expected section without markers to be skipped")
	}
}

func TestRunYAMLMode_SQLiteExport(t *testing.T) {
	defer resetFlags()()

	dir, cfgPath := writeYAMLFixture(t, twoSectionConfig+"sqlite: audit.db\n")
	jobs = 1

	captureOutput(func() {
		if err := runYAMLMode(context.Background(), cfgPath); err != nil {
			t.Fatalf("runYAMLMode failed: %v", err)
		}
	})

	db, err := sql.Open("sqlite", filepath.Join(dir, "audit.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer db.Close()

	counts := map[string]int{}
	rows, err := db.Query(`SELECT catalog, COUNT(*) FROM audit_entries GROUP BY catalog`)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			t.Fatal(err)
		}
		counts[label] = n
	}
	if counts["spektra"] != 1 || counts["all"] != 3 {
		t.Errorf("unexpected exported entry counts: %v", counts)
	}
}

func TestRunYAMLMode_DryRunSkipsExports(t *testing.T) {
	defer resetFlags()()

	dir, cfgPath := writeYAMLFixture(t, twoSectionConfig+"sqlite: audit.db\nmetricsFile: catalog.prom\n")
	dryRun = true

	captureOutput(func() {
		if err := runYAMLMode(context.Background(), cfgPath); err != nil {
			t.Fatalf("runYAMLMode failed: %v", err)
		}
	})

	for _, name := range []string{"audit.db", "catalog.prom"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("expected %s not to be written in dry-run", name)
		}
	}
}

func TestRunYAMLMode_FailOnIssues(t *testing.T) {
	defer resetFlags()()

	_, cfgPath := writeYAMLFixture(t, twoSectionConfig)
	failOnIssues = true

	var err error
	captureOutput(func() {
		err = runYAMLMode(context.Background(), cfgPath)
	})
	if !errors.Is(err, ErrIssuesFound) {
		t.Fatalf("expected ErrIssuesFound, got %v", err)
	}
}

func TestRunYAMLMode_MissingSource(t *testing.T) {
	defer resetFlags()()

	_, cfgPath := writeYAMLFixture(t, `
sections:
  - marker: all
    source: products_data.json
  - marker: gone
    source: missing.json
`)

	err := runYAMLMode(context.Background(), cfgPath)
	if err == nil || !strings.Contains(err.Error(), "section gone") {
		t.Fatalf("expected section error, got %v", err)
	}
}

func TestRunYAMLMode_BadConfigPath(t *testing.T) {
	defer resetFlags()()

	if err := runYAMLMode(context.Background(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestExecute_ConfigFlag(t *testing.T) {
	defer resetFlags()()

	dir, cfgPath := writeYAMLFixture(t, twoSectionConfig)
	rootCmd.SetArgs([]string{"--config", cfgPath})

	captureOutput(func() {
		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
	})

	data, _ := os.ReadFile(filepath.Join(dir, "README.md"))
	if !strings.Contains(string(data), "## Catalog Audit: all") {
		t.Errorf("expected README to be updated via --config, got:\n%s", data)
	}
}
