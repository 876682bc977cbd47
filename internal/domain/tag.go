package domain

import (
	"strings"
	"time"
)

// Tag is a normalized lowercase label attached to posts.
// Names are deduplicated with get-or-create semantics, so two posts tagged
// "Python" and "python" share one tag row.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeTagNames parses a free-text comma-separated tag field into a
// deduplicated list of normalized names: each segment is trimmed of
// surrounding whitespace and lower-cased, empty segments are discarded,
// and duplicates collapse to the first occurrence (order preserved).
func NormalizeTagNames(raw string) []string {
	segments := strings.Split(raw, ",")

	seen := make(map[string]bool, len(segments))
	names := make([]string, 0, len(segments))

	for _, segment := range segments {
		name := strings.ToLower(strings.TrimSpace(segment))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	return names
}
