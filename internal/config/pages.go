package config

import (
	"fmt"
	"strconv"
	"strings"

	"marketScope/internal/market"
)

// ParsePages parses a comma-separated list of page:perPage pairs, e.g. "1:250,2:50".
func ParsePages(input string) ([]market.Page, error) {
	parts := splitAndClean(input)
	if len(parts) == 0 {
		return nil, fmt.Errorf("pages list is empty")
	}

	pages := make([]market.Page, 0, len(parts))
	for _, part := range parts {
		number, perPage, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("invalid page %q: want page:perPage", part)
		}
		n, err := strconv.Atoi(strings.TrimSpace(number))
		if err != nil {
			return nil, fmt.Errorf("invalid page number in %q: %w", part, err)
		}
		size, err := strconv.Atoi(strings.TrimSpace(perPage))
		if err != nil {
			return nil, fmt.Errorf("invalid page size in %q: %w", part, err)
		}
		pages = append(pages, market.Page{Number: n, PerPage: size})
	}

	for i, p := range pages {
		if p.Number < 1 || p.PerPage < 1 {
			return nil, fmt.Errorf("page %d: number and size must be positive", i)
		}
		if i > 0 && p.Number <= pages[i-1].Number {
			return nil, fmt.Errorf("page %d: numbers must be ascending", p.Number)
		}
	}
	return pages, nil
}

// FormatPages is the inverse of ParsePages.
func FormatPages(pages []market.Page) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		parts = append(parts, fmt.Sprintf("%d:%d", p.Number, p.PerPage))
	}
	return strings.Join(parts, ",")
}
