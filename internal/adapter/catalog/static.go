package catalog

import (
	"context"
	"strings"
)

// Static serves a fixed venue list, as configured at startup.
type Static struct {
	venues []string
}

// NewStatic trims names and drops blanks and duplicates, keeping order.
func NewStatic(venues []string) *Static {
	seen := make(map[string]struct{}, len(venues))
	out := make([]string, 0, len(venues))
	for _, v := range venues {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return &Static{venues: out}
}

// Venues returns a copy of the configured list.
func (s *Static) Venues(ctx context.Context) ([]string, error) {
	out := make([]string, len(s.venues))
	copy(out, s.venues)
	return out, nil
}
