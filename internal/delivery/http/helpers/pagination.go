package helpers

import (
	"fmt"
	"net/http"
	"strconv"

	"nightout/internal/domain"
)

// ParsePagination reads page and page_size from the query string. Missing values take the
// defaults and out-of-range numbers are clamped; anything that is not an integer is an error.
func ParsePagination(r *http.Request) (domain.PaginationParams, error) {
	q := r.URL.Query()
	page, err := intParam(q.Get("page"), 1)
	if err != nil {
		return domain.PaginationParams{}, fmt.Errorf("page: %w", err)
	}
	size, err := intParam(q.Get("page_size"), domain.DefaultPageSize)
	if err != nil {
		return domain.PaginationParams{}, fmt.Errorf("page_size: %w", err)
	}
	return domain.NewPaginationParams(page, size), nil
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", raw)
	}
	return v, nil
}

// PaginationMeta is the pagination block of a list response.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewPaginationMeta(p domain.PaginationParams, total int) PaginationMeta {
	return PaginationMeta{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      total,
		TotalPages: p.TotalPages(total),
	}
}
