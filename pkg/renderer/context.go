package renderer

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/northcutted/catalog-audit/pkg/audit"
	"github.com/northcutted/catalog-audit/pkg/config"
)

const (
	defaultTitleWidth = 50
	noSKU             = "NO_SKU"
	noTitle           = "NO_TITLE"
)

// RenderOptions control presentation only. They never change the audit.
type RenderOptions struct {
	// Title is the report heading, usually the catalog name.
	Title  string
	NoMoji bool
	// Limit caps the entry and finding lists (0 = everything).
	Limit int
	// TitleWidth truncates product titles, in characters.
	TitleWidth int
}

// ReportContext holds all data passed to the templates.
type ReportContext struct {
	Title         string
	Total         int
	Suppliers     []SupplierRow
	IssueCounts   []IssueCount
	Entries       []EntryRow
	EntriesTotal  int
	Findings      []FindingRow
	FindingsTotal int
}

// SupplierRow is a supplier summary with hosts in a stable order and the
// supplier's first-image lines.
type SupplierRow struct {
	audit.SupplierSummary
	Hosts    []HostCount
	Products []ProductRow
}

// ProductRow is a display-ready first-image line. Mark is a mark kind
// (ok, ext or bad).
type ProductRow struct {
	Mark   string
	SKU    string
	Title  string
	Detail string
}

// HostCount is one external image host and how many first images use it.
type HostCount struct {
	Host  string
	Count int
}

// IssueCount pairs an issue kind with the number of affected products.
type IssueCount struct {
	Kind  audit.IssueKind
	Count int
}

// EntryRow is a display-ready audit entry.
type EntryRow struct {
	SKU      string
	Title    string
	Supplier string
	Issues   string
}

// FindingRow is a display-ready image finding.
type FindingRow struct {
	SKU      string
	Supplier string
	Kind     audit.FindingKind
	Path     string
}

func buildContext(result *audit.Result, opts RenderOptions) ReportContext {
	width := opts.TitleWidth
	if width <= 0 {
		width = defaultTitleWidth
	}

	ctx := ReportContext{
		Title:         opts.Title,
		Total:         result.Total,
		EntriesTotal:  len(result.Entries),
		FindingsTotal: len(result.Images),
	}

	products := make(map[string][]audit.ProductImage)
	for _, p := range result.Products {
		products[p.Supplier] = append(products[p.Supplier], p)
	}

	for _, name := range result.Suppliers() {
		s := result.BySupplier[name]
		row := SupplierRow{SupplierSummary: *s}
		for _, p := range limit(products[name], opts.Limit) {
			row.Products = append(row.Products, productRow(p, width))
		}
		for host, n := range s.ExternalHosts {
			row.Hosts = append(row.Hosts, HostCount{Host: host, Count: n})
		}
		sort.Slice(row.Hosts, func(i, j int) bool {
			if row.Hosts[i].Count != row.Hosts[j].Count {
				return row.Hosts[i].Count > row.Hosts[j].Count
			}
			return row.Hosts[i].Host < row.Hosts[j].Host
		})
		ctx.Suppliers = append(ctx.Suppliers, row)
	}

	counts := result.IssueCounts()
	for _, k := range audit.AllIssueKinds {
		ctx.IssueCounts = append(ctx.IssueCounts, IssueCount{Kind: k, Count: counts[k]})
	}

	for _, e := range limit(result.Entries, opts.Limit) {
		issues := make([]string, len(e.Issues))
		for i, k := range e.Issues {
			issues[i] = string(k)
		}
		ctx.Entries = append(ctx.Entries, EntryRow{
			SKU:      orDefault(e.SKU, noSKU),
			Title:    truncate(orDefault(e.Title, noTitle), width),
			Supplier: e.Supplier,
			Issues:   strings.Join(issues, ", "),
		})
	}

	for _, f := range limit(result.Images, opts.Limit) {
		ctx.Findings = append(ctx.Findings, FindingRow{
			SKU:      orDefault(f.SKU, noSKU),
			Supplier: f.Supplier,
			Kind:     f.Kind,
			Path:     f.Path,
		})
	}

	return ctx
}

func productRow(p audit.ProductImage, width int) ProductRow {
	row := ProductRow{
		SKU:   orDefault(p.SKU, noSKU),
		Title: truncate(orDefault(p.Title, noTitle), width),
	}
	switch p.Class {
	case audit.ImageLocal:
		row.Mark, row.Detail = "ok", "Local: "+p.Path
	case audit.ImageExternal:
		row.Mark, row.Detail = "ext", "External: "+p.Host
	case audit.ImageInvalid:
		row.Mark, row.Detail = "bad", "Invalid: "+p.Path
	default:
		row.Mark, row.Detail = "bad", "NO IMAGES"
	}
	return row
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// truncate cuts s to at most width characters.
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width])
}

// IsDirectWriteFormat reports whether a format is written as a whole file
// rather than injected between markers.
func IsDirectWriteFormat(format string) bool {
	return format == config.FormatHTML || format == config.FormatJSON
}

// OutputExtension returns the file extension for a format.
func OutputExtension(format string) string {
	switch format {
	case config.FormatHTML:
		return ".html"
	case config.FormatJSON:
		return ".json"
	case config.FormatText:
		return ".txt"
	default:
		return ".md"
	}
}
