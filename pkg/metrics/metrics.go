package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/northcutted/catalog-audit/pkg/audit"
)

// Collector holds catalog audit gauges on its own registry so that repeated
// runs in one process do not collide on the default one.
type Collector struct {
	registry *prometheus.Registry

	products      *prometheus.GaugeVec
	withImages    *prometheus.GaugeVec
	firstImages   *prometheus.GaugeVec
	issues        *prometheus.GaugeVec
	imageFindings *prometheus.GaugeVec
}

// NewCollector registers the catalog audit gauges.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		products: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "catalog_audit_products",
			Help: "Number of products per supplier.",
		}, []string{"catalog", "supplier"}),
		withImages: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "catalog_audit_products_with_images",
			Help: "Number of products with at least one image per supplier.",
		}, []string{"catalog", "supplier"}),
		firstImages: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "catalog_audit_first_images",
			Help: "First-image classification per supplier.",
		}, []string{"catalog", "supplier", "class"}),
		issues: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "catalog_audit_issues",
			Help: "Number of products affected by each issue kind.",
		}, []string{"catalog", "kind"}),
		imageFindings: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "catalog_audit_image_findings",
			Help: "Number of image findings by kind.",
		}, []string{"catalog", "kind"}),
	}
	c.registry.MustRegister(c.products, c.withImages, c.firstImages, c.issues, c.imageFindings)
	return c
}

// Collect records the gauges of one audited catalog.
func (c *Collector) Collect(catalog string, result *audit.Result) {
	for _, name := range result.Suppliers() {
		s := result.BySupplier[name]
		c.products.WithLabelValues(catalog, name).Set(float64(s.Total))
		c.withImages.WithLabelValues(catalog, name).Set(float64(s.WithImages))
		c.firstImages.WithLabelValues(catalog, name, string(audit.ImageLocal)).Set(float64(s.Local))
		c.firstImages.WithLabelValues(catalog, name, string(audit.ImageExternal)).Set(float64(s.External))
		c.firstImages.WithLabelValues(catalog, name, string(audit.ImageInvalid)).Set(float64(s.Invalid))
	}

	for kind, n := range result.IssueCounts() {
		c.issues.WithLabelValues(catalog, string(kind)).Set(float64(n))
	}

	findings := map[audit.FindingKind]int{
		audit.FindingNoImages:        0,
		audit.FindingInvalidPath:     0,
		audit.FindingDuplicateImages: 0,
	}
	for _, f := range result.Images {
		findings[f.Kind]++
	}
	for kind, n := range findings {
		c.imageFindings.WithLabelValues(catalog, string(kind)).Set(float64(n))
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile writes all gauges in the Prometheus text format, for the
// node-exporter textfile collector. The file is replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
