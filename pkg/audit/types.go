package audit

// IssueKind names a content gap in a product record.
type IssueKind string

const (
	IssueNoImages   IssueKind = "NO_IMAGES"
	IssueShortDesc  IssueKind = "SHORT_DESC"
	IssueNoFeatures IssueKind = "NO_FEATURES"
	IssueNoApps     IssueKind = "NO_APPS"
)

// AllIssueKinds lists every issue kind in detection order.
var AllIssueKinds = []IssueKind{IssueNoImages, IssueShortDesc, IssueNoFeatures, IssueNoApps}

// ImageClass is the classification of a product's first image path.
type ImageClass string

const (
	ImageLocal    ImageClass = "LOCAL"
	ImageExternal ImageClass = "EXTERNAL"
	ImageInvalid  ImageClass = "INVALID"
)

// Classification is the result of ClassifyImage. Host is only set for
// external images.
type Classification struct {
	Class ImageClass `json:"class"`
	Host  string     `json:"host,omitempty"`
}

// FindingKind names an image problem reported by the image audit.
type FindingKind string

const (
	FindingNoImages        FindingKind = "NO_IMAGES"
	FindingInvalidPath     FindingKind = "INVALID_IMAGE_PATH"
	FindingDuplicateImages FindingKind = "DUPLICATE_IMAGES"
)

// Entry is produced for every product with at least one issue.
type Entry struct {
	SKU      string      `json:"sku"`
	Title    string      `json:"title"`
	Supplier string      `json:"supplier"`
	Issues   []IssueKind `json:"issues"`
}

// ImageFinding records one image problem for a product.
type ImageFinding struct {
	SKU      string      `json:"sku"`
	Supplier string      `json:"supplier"`
	Kind     FindingKind `json:"kind"`
	Path     string      `json:"path,omitempty"`
}

// SupplierSummary aggregates a supplier's products. Local, External and
// Invalid count first images only.
type SupplierSummary struct {
	Supplier      string         `json:"supplier"`
	Total         int            `json:"total"`
	WithImages    int            `json:"withImages"`
	Local         int            `json:"local"`
	External      int            `json:"external"`
	Invalid       int            `json:"invalid"`
	Issues        int            `json:"issues"`
	ExternalHosts map[string]int `json:"externalHosts"`
}

// ProductImage is the first-image line for one product. Class is empty when
// the product has no images.
type ProductImage struct {
	SKU      string     `json:"sku"`
	Title    string     `json:"title"`
	Supplier string     `json:"supplier"`
	Class    ImageClass `json:"class,omitempty"`
	Host     string     `json:"host,omitempty"`
	Path     string     `json:"path,omitempty"`
}

// Result is the structured output of AuditCatalog. Products holds one line
// per input record, in input order.
type Result struct {
	Total      int                         `json:"total"`
	Entries    []Entry                     `json:"entries"`
	BySupplier map[string]*SupplierSummary `json:"bySupplier"`
	Images     []ImageFinding              `json:"images"`
	Products   []ProductImage              `json:"products"`
}
