package injector

import (
	"errors"
	"fmt"
	"strings"
)

const markerPrefix = "catalog-audit"

// ErrMarkersNotFound is returned when the begin/end pair is missing or out of order.
var ErrMarkersNotFound = errors.New("markers not found")

// Markers returns the begin and end comments for a named section. An empty
// name gives the default pair.
func Markers(name string) (string, string) {
	id := markerPrefix
	if name != "" {
		id += ":" + name
	}
	return fmt.Sprintf("<!-- BEGIN: %s -->", id), fmt.Sprintf("<!-- END: %s -->", id)
}

// Inject replaces everything between the markers of name with section. The
// markers themselves are kept.
func Inject(content, name, section string) (string, error) {
	begin, end := Markers(name)

	start := strings.Index(content, begin)
	if start < 0 {
		return "", fmt.Errorf("%w: %s", ErrMarkersNotFound, begin)
	}
	bodyStart := start + len(begin)

	stop := strings.Index(content[bodyStart:], end)
	if stop < 0 {
		return "", fmt.Errorf("%w: %s", ErrMarkersNotFound, end)
	}
	stop += bodyStart

	var b strings.Builder
	b.WriteString(content[:bodyStart])
	b.WriteString("\n")
	b.WriteString(strings.Trim(section, "\n"))
	b.WriteString("\n")
	b.WriteString(content[stop:])
	return b.String(), nil
}
