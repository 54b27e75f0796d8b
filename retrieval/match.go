// Package retrieval selects catalog products relevant to a user query.
package retrieval

import (
	"strings"

	"github.com/fernlabs/storechat/domain"
)

// DefaultLimit caps the number of matches when the caller passes no limit.
const DefaultLimit = 8

// Match returns up to limit products whose title or any tag contains the
// query, case-insensitively. Results preserve catalog order; there is no
// relevance ranking. A blank or whitespace-only query matches nothing.
func Match(products []domain.Product, query string, limit int) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var out []domain.Product
	for _, p := range products {
		if len(out) >= limit {
			break
		}
		if matches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p domain.Product, q string) bool {
	if strings.Contains(strings.ToLower(p.Title), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
