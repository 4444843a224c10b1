package clix

import (
	"fmt"
	"strings"

	"reelmatch/internal/catalog"

	"github.com/spf13/pflag"
)

type PaginationParams struct {
	Limit  int
	Offset int
}

func ParsePagination(flags *pflag.FlagSet) (PaginationParams, error) {
	limit, _ := flags.GetInt("limit")
	offset, _ := flags.GetInt("offset")
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return PaginationParams{Limit: limit, Offset: offset}, nil
}

// ParseCategory reads --category, matching catalog categories case-insensitively.
// An empty flag means "All".
func ParseCategory(flags *pflag.FlagSet) (string, error) {
	raw, _ := flags.GetString("category")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return catalog.AllCategories, nil
	}
	if strings.EqualFold(raw, catalog.AllCategories) {
		return catalog.AllCategories, nil
	}
	for _, c := range catalog.Categories() {
		if strings.EqualFold(c, raw) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (have: %s)", raw, strings.Join(catalog.Categories(), ", "))
}
