package audit

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/northcutted/catalog-audit/pkg/catalog"
)

const (
	// UnknownSupplier groups records without a supplier.
	UnknownSupplier = "Unknown"
	// UnknownHost is reported for http-like paths that do not parse as a URL.
	UnknownHost = "unknown"
	// MinDescriptionLength is the shortest description not flagged SHORT_DESC.
	MinDescriptionLength = 100
)

var hostPattern = regexp.MustCompile(`https?://([^/]+)`)

// DetectIssues returns the issues of a single record in a fixed order.
// It never fails and does not modify the record.
func DetectIssues(rec catalog.Record) []IssueKind {
	var issues []IssueKind
	if len(rec.Images) == 0 {
		issues = append(issues, IssueNoImages)
	}
	if utf8.RuneCountInString(rec.Description) < MinDescriptionLength {
		issues = append(issues, IssueShortDesc)
	}
	if len(rec.Features) == 0 {
		issues = append(issues, IssueNoFeatures)
	}
	if len(rec.Applications) == 0 {
		issues = append(issues, IssueNoApps)
	}
	return issues
}

// ClassifyImage classifies a single image path.
func ClassifyImage(path string) Classification {
	switch {
	case strings.HasPrefix(path, "/"):
		return Classification{Class: ImageLocal}
	case strings.Contains(path, "http"):
		host := UnknownHost
		if m := hostPattern.FindStringSubmatch(path); m != nil {
			host = m[1]
		}
		return Classification{Class: ImageExternal, Host: host}
	default:
		return Classification{Class: ImageInvalid}
	}
}

// SupplierOf returns the grouping key for a record.
func SupplierOf(rec catalog.Record) string {
	if rec.Supplier == "" {
		return UnknownSupplier
	}
	return rec.Supplier
}

// FilterSuppliers keeps the records whose supplier is one of names. An empty
// names list keeps everything. The input slice is not modified.
func FilterSuppliers(records []catalog.Record, names []string) []catalog.Record {
	if len(names) == 0 {
		return records
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	out := make([]catalog.Record, 0, len(records))
	for _, rec := range records {
		if want[SupplierOf(rec)] {
			out = append(out, rec)
		}
	}
	return out
}

// AuditCatalog audits every record: issue detection, supplier grouping and
// first-image classification. There is no truncation; limiting what is shown
// is up to the renderer.
func AuditCatalog(records []catalog.Record) *Result {
	result := &Result{
		Total:      len(records),
		Entries:    make([]Entry, 0),
		BySupplier: make(map[string]*SupplierSummary),
		Images:     make([]ImageFinding, 0),
		Products:   make([]ProductImage, 0, len(records)),
	}

	for _, rec := range records {
		supplier := SupplierOf(rec)
		summary, ok := result.BySupplier[supplier]
		if !ok {
			summary = &SupplierSummary{
				Supplier:      supplier,
				ExternalHosts: make(map[string]int),
			}
			result.BySupplier[supplier] = summary
		}
		summary.Total++

		if issues := DetectIssues(rec); len(issues) > 0 {
			summary.Issues++
			result.Entries = append(result.Entries, Entry{
				SKU:      rec.SKU,
				Title:    rec.Title,
				Supplier: supplier,
				Issues:   issues,
			})
		}

		product := ProductImage{SKU: rec.SKU, Title: rec.Title, Supplier: supplier}
		if len(rec.Images) == 0 {
			result.Products = append(result.Products, product)
			result.Images = append(result.Images, ImageFinding{
				SKU:      rec.SKU,
				Supplier: supplier,
				Kind:     FindingNoImages,
			})
			continue
		}

		summary.WithImages++
		first := rec.Images[0]
		c := ClassifyImage(first)
		product.Class, product.Host, product.Path = c.Class, c.Host, first
		result.Products = append(result.Products, product)
		switch c.Class {
		case ImageLocal:
			summary.Local++
		case ImageExternal:
			summary.External++
			summary.ExternalHosts[c.Host]++
		case ImageInvalid:
			summary.Invalid++
			result.Images = append(result.Images, ImageFinding{
				SKU:      rec.SKU,
				Supplier: supplier,
				Kind:     FindingInvalidPath,
				Path:     first,
			})
		}

		if dup, ok := firstDuplicate(rec.Images); ok {
			result.Images = append(result.Images, ImageFinding{
				SKU:      rec.SKU,
				Supplier: supplier,
				Kind:     FindingDuplicateImages,
				Path:     dup,
			})
		}
	}

	return result
}

func firstDuplicate(images []string) (string, bool) {
	seen := make(map[string]bool, len(images))
	for _, img := range images {
		if seen[img] {
			return img, true
		}
		seen[img] = true
	}
	return "", false
}

// Suppliers returns the supplier names in ascending order.
func (r *Result) Suppliers() []string {
	names := make([]string, 0, len(r.BySupplier))
	for name := range r.BySupplier {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IssueCounts returns how many products carry each issue kind.
func (r *Result) IssueCounts() map[IssueKind]int {
	counts := make(map[IssueKind]int, len(AllIssueKinds))
	for _, k := range AllIssueKinds {
		counts[k] = 0
	}
	for _, e := range r.Entries {
		for _, k := range e.Issues {
			counts[k]++
		}
	}
	return counts
}

// EntriesFor returns the entries of one supplier in input order.
func (r *Result) EntriesFor(supplier string) []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Supplier == supplier {
			out = append(out, e)
		}
	}
	return out
}
