package renderer

import (
	"bytes"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"

	"github.com/northcutted/catalog-audit/pkg/audit"
	"github.com/northcutted/catalog-audit/pkg/config"
)

const markdownTemplate = `
{{- if .Title }}## Catalog Audit: {{ md .Title }}
{{ else }}## Catalog Audit
{{ end }}
{{ .Total }} products, {{ .EntriesTotal }} need attention.

### Suppliers

| Supplier | Total | With Images | Local | External | Invalid | Issues |
|----------|-------|-------------|-------|----------|---------|--------|
{{- range .Suppliers }}
| {{ md .Supplier }} | {{ .Total }} | {{ .WithImages }} | {{ .Local }} | {{ .External }} | {{ .Invalid }} | {{ .Issues }} |
{{- end }}

### Issues

{{ range $i, $c := .IssueCounts }}{{ if $i }} | {{ end }}{{ $c.Kind }}: {{ $c.Count }}{{ end }}

{{- if .Entries }}

<details>
<summary>Products Needing Attention ({{ .EntriesTotal }} found)</summary>

| | SKU | Title | Supplier | Issues |
|-|-----|-------|----------|--------|
{{- range .Entries }}
| {{ mark "bad" }} | {{ md .SKU }} | {{ md .Title }} | {{ md .Supplier }} | {{ .Issues }} |
{{- end }}
</details>
{{- else }}

*{{ mark "ok" }} No products need attention.*
{{- end }}

{{- if .Findings }}

<details>
<summary>Image Findings ({{ .FindingsTotal }} found)</summary>

| SKU | Supplier | Finding | Path |
|-----|----------|---------|------|
{{- range .Findings }}
| {{ md .SKU }} | {{ md .Supplier }} | {{ .Kind }} | {{ md .Path }} |
{{- end }}
</details>
{{- end }}
`

const textTemplate = `{{ rule }}
IMAGE AUDIT REPORT{{ if .Title }} - {{ .Title }}{{ end }}
{{ rule }}
{{ range .Suppliers }}
### {{ .Supplier }} ({{ .Total }} products) ###
{{- range .Products }}
{{ mark .Mark }} {{ pad .SKU 30 }} | {{ pad .Title 50 }} | {{ .Detail }}
{{- end }}
{{- range .Hosts }}
  {{ mark "ext" }} {{ .Host }}: {{ .Count }}
{{- end }}
{{ end }}
{{ rule }}
PRODUCTS NEEDING ATTENTION: {{ .EntriesTotal }}
{{ rule }}
{{- range .Entries }}
{{ mark "bad" }} {{ pad .SKU 30 }} | {{ pad .Title 50 }} | {{ .Issues }}
{{- end }}

{{ rule }}
ISSUES FOUND: {{ .FindingsTotal }}
{{ rule }}
{{- range .Findings }}
{{ pad .SKU 30 }} | {{ pad .Supplier 30 }} | {{ .Kind }}
{{- end }}

{{ rule }}
SUMMARY BY SUPPLIER
{{ rule }}
{{- range .Suppliers }}
{{ pad .Supplier 30 }} | Total: {{ num .Total }} | With Images: {{ num .WithImages }} | Local: {{ num .Local }} | External: {{ num .External }}
{{- end }}
`

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Catalog Audit{{ if .Title }}: {{ .Title }}{{ end }}</title>
</head>
<body>
<h1>Catalog Audit{{ if .Title }}: {{ .Title }}{{ end }}</h1>
<p class="overview">{{ .Total }} products, {{ .EntriesTotal }} need attention.</p>
<h2>Suppliers</h2>
<table id="suppliers">
<thead><tr><th>Supplier</th><th>Total</th><th>With Images</th><th>Local</th><th>External</th><th>Invalid</th><th>Issues</th></tr></thead>
<tbody>
{{- range .Suppliers }}
<tr><td class="supplier">{{ .Supplier }}</td><td class="total">{{ .Total }}</td><td>{{ .WithImages }}</td><td class="local">{{ .Local }}</td><td class="external">{{ .External }}</td><td class="invalid">{{ .Invalid }}</td><td>{{ .Issues }}</td></tr>
{{- end }}
</tbody>
</table>
<h2>Issues</h2>
<ul id="issue-counts">
{{- range .IssueCounts }}
<li data-kind="{{ .Kind }}">{{ .Kind }}: {{ .Count }}</li>
{{- end }}
</ul>
<h2>Products Needing Attention ({{ .EntriesTotal }})</h2>
<table id="entries">
<thead><tr><th>SKU</th><th>Title</th><th>Supplier</th><th>Issues</th></tr></thead>
<tbody>
{{- range .Entries }}
<tr><td class="sku">{{ .SKU }}</td><td class="title">{{ .Title }}</td><td>{{ .Supplier }}</td><td class="issues">{{ .Issues }}</td></tr>
{{- end }}
</tbody>
</table>
<h2>Image Findings ({{ .FindingsTotal }})</h2>
<table id="findings">
<thead><tr><th>SKU</th><th>Supplier</th><th>Finding</th><th>Path</th></tr></thead>
<tbody>
{{- range .Findings }}
<tr><td class="sku">{{ .SKU }}</td><td>{{ .Supplier }}</td><td class="kind">{{ .Kind }}</td><td>{{ .Path }}</td></tr>
{{- end }}
</tbody>
</table>
</body>
</html>
`

// JSONReport is the document written by the json format. It is never truncated.
type JSONReport struct {
	Title       string                  `json:"title,omitempty"`
	IssueCounts map[audit.IssueKind]int `json:"issueCounts"`
	Suppliers   []string                `json:"suppliers"`
	*audit.Result
}

// Render renders an audit result in the given format.
func Render(result *audit.Result, format string, opts RenderOptions) (string, error) {
	switch format {
	case config.FormatMarkdown, "":
		return renderText("markdown", markdownTemplate, result, opts)
	case config.FormatText:
		return renderText("text", textTemplate, result, opts)
	case config.FormatHTML:
		return renderHTML(result, opts)
	case config.FormatJSON:
		return renderJSON(result, opts)
	default:
		return "", fmt.Errorf("unknown format: %s", format)
	}
}

func renderText(name, src string, result *audit.Result, opts RenderOptions) (string, error) {
	tmpl, err := template.New(name).Funcs(template.FuncMap{
		"mark": func(kind string) string { return mark(kind, opts.NoMoji) },
		"md":   escapeMarkdown,
		"pad":  func(s string, w int) string { return fmt.Sprintf("%-*s", w, s) },
		"num":  func(n int) string { return fmt.Sprintf("%3d", n) },
		"rule": func() string { return strings.Repeat("=", 80) },
	}).Parse(src)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, buildContext(result, opts)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderHTML(result *audit.Result, opts RenderOptions) (string, error) {
	tmpl, err := htmltemplate.New("html").Parse(htmlTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, buildContext(result, opts)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderJSON(result *audit.Result, opts RenderOptions) (string, error) {
	report := JSONReport{
		Title:       opts.Title,
		IssueCounts: result.IssueCounts(),
		Suppliers:   result.Suppliers(),
		Result:      result,
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(data) + "\n", nil
}

func mark(kind string, noMoji bool) string {
	if noMoji {
		switch kind {
		case "ok":
			return "[OK]"
		case "ext":
			return "[EXT]"
		default:
			return "[!]"
		}
	}
	switch kind {
	case "ok":
		return "✓"
	case "ext":
		return "🌐"
	default:
		return "❌"
	}
}

func escapeMarkdown(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ", "\r", "").Replace(s)
}
