package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/northcutted/catalog-audit/pkg/audit"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS audit_entries (
		catalog TEXT NOT NULL,
		sku TEXT NOT NULL,
		title TEXT NOT NULL,
		supplier TEXT NOT NULL,
		issues TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS supplier_summaries (
		catalog TEXT NOT NULL,
		supplier TEXT NOT NULL,
		total INTEGER NOT NULL,
		with_images INTEGER NOT NULL,
		local INTEGER NOT NULL,
		external INTEGER NOT NULL,
		invalid INTEGER NOT NULL,
		issues INTEGER NOT NULL,
		PRIMARY KEY (catalog, supplier)
	)`,
	`CREATE TABLE IF NOT EXISTS image_findings (
		catalog TEXT NOT NULL,
		sku TEXT NOT NULL,
		supplier TEXT NOT NULL,
		kind TEXT NOT NULL,
		path TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_entries_catalog_supplier ON audit_entries(catalog, supplier)`,
	`CREATE INDEX IF NOT EXISTS idx_image_findings_catalog_kind ON image_findings(catalog, kind)`,
}

var tables = []string{"audit_entries", "supplier_summaries", "image_findings"}

// WriteSQLite stores result under the catalog label in the database at path.
// Rows previously written for the same label are replaced; other labels are
// left alone. Everything happens in a single transaction.
func WriteSQLite(ctx context.Context, path, catalog string, result *audit.Result) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	defer db.Close() //nolint:errcheck // close error is not actionable after commit

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := writeResult(ctx, tx, catalog, result); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func writeResult(ctx context.Context, tx *sql.Tx, catalog string, result *audit.Result) error {
	for _, table := range tables {
		if _, err := sq.Delete(table).Where(sq.Eq{"catalog": catalog}).RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, e := range result.Entries {
		issues := make([]string, len(e.Issues))
		for i, k := range e.Issues {
			issues[i] = string(k)
		}
		_, err := sq.Insert("audit_entries").
			Columns("catalog", "sku", "title", "supplier", "issues").
			Values(catalog, e.SKU, e.Title, e.Supplier, strings.Join(issues, ",")).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert entry %s: %w", e.SKU, err)
		}
	}

	for _, name := range result.Suppliers() {
		s := result.BySupplier[name]
		_, err := sq.Insert("supplier_summaries").
			Columns("catalog", "supplier", "total", "with_images", "local", "external", "invalid", "issues").
			Values(catalog, s.Supplier, s.Total, s.WithImages, s.Local, s.External, s.Invalid, s.Issues).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert summary %s: %w", name, err)
		}
	}

	for _, f := range result.Images {
		_, err := sq.Insert("image_findings").
			Columns("catalog", "sku", "supplier", "kind", "path").
			Values(catalog, f.SKU, f.Supplier, string(f.Kind), f.Path).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert finding %s: %w", f.SKU, err)
		}
	}
	return nil
}
