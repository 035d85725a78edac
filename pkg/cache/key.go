package cache

import (
	"sort"
	"strings"
)

// QueryKey derives a deterministic cache key from a request path and its
// query parameters. Parameters are sorted by name and empty values dropped,
// so insertion order never produces distinct keys for the same request.
func QueryKey(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}

	names := make([]string, 0, len(params))
	for name, value := range params {
		if strings.TrimSpace(value) == "" {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return path
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(path)
	b.WriteByte('?')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(params[name])
	}
	return b.String()
}
