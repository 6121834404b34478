package binout

import (
	"strings"
)

// SplitPath splits a slash separated query path into its segments.
// Leading and trailing slashes are handled, empty segments are removed.
//
// Examples:
//   - "/" -> []string{}
//   - "nodout" -> []string{"nodout"}
//   - "/nodout/time" -> []string{"nodout", "time"}
func SplitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return []string{}
	}
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CleanPath normalizes a path, ensuring it starts with "/" and has no
// empty segments or trailing slash.
func CleanPath(path string) string {
	return "/" + strings.Join(SplitPath(path), "/")
}

// JoinPath joins query segments into a slash separated path.
func JoinPath(segments ...string) string {
	return CleanPath(strings.Join(segments, "/"))
}

// flatten splits segments on slashes, so that Read("nodout/time") and
// Read("nodout", "time") are the same query. A lone argument is a whole
// path and may be empty or "/". Among several arguments an empty one is
// still a segment, so it can never shorten the path.
func flatten(path []string) []string {
	if len(path) == 1 {
		return SplitPath(path[0])
	}
	var out []string
	for _, p := range path {
		segs := SplitPath(p)
		if len(segs) == 0 {
			segs = []string{p}
		}
		out = append(out, segs...)
	}
	return out
}
