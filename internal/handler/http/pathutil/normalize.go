package pathutil

import (
	"regexp"
	"strings"
)

// pathPatterns maps dynamic routes to templates, evaluated in order.
// Pre-compiled at initialization.
var pathPatterns = []struct {
	pattern  *regexp.Regexp
	template string
}{
	{pattern: regexp.MustCompile(`^/items/[0-9a-f]+$`), template: "/items/:id"},
}

// NormalizePath normalizes dynamic URL paths to prevent metrics label
// cardinality explosion. Paths carrying item IDs collapse to a template
// (/items/0a1b... becomes /items/:id); static paths pass through unchanged.
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.pattern.MatchString(path) {
			return p.template
		}
	}
	return path
}
