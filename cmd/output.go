package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/northcutted/catalog-audit/pkg/renderer"
)

// defaultOutput is the --output default. Only this name is re-suffixed for
// html/json reports.
const defaultOutput = "README.md"

// resolveOutputPath picks where a CLI-mode html/json report is written:
// an explicit --output wins, otherwise README.md becomes README.html or
// README.json.
func resolveOutputPath(output, format string) string {
	if output != defaultOutput {
		return output
	}
	return withExt(output, renderer.OutputExtension(format))
}

// resolveSectionOutput names the report file of a direct-write YAML section,
// next to the markdown output: README.md with marker "spektra" and format
// json gives README-spektra.json.
func resolveSectionOutput(output, marker string, idx int, format string) string {
	stem := withExt(filepath.Base(output), "")
	name := stem + "-" + sectionLabel(marker, idx) + renderer.OutputExtension(format)
	return filepath.Join(filepath.Dir(output), name)
}

func withExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// sectionLabel is the marker name, or section<N> for unnamed sections.
func sectionLabel(marker string, idx int) string {
	if marker != "" {
		return marker
	}
	return fmt.Sprintf("section%d", idx)
}
