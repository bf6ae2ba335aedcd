package view

import (
	"fmt"

	"marketScope/internal/model"
)

// PageResult is one page of a display list.
type PageResult struct {
	Coins      []model.Coin `json:"coins"`
	Page       int          `json:"page"`
	PerPage    int          `json:"per_page"`
	TotalPages int          `json:"total_pages"`
	Total      int          `json:"total"`
}

// Paginate slices list to the 1-based page. Pages past the end clamp to the last
// page; perPage <= 0 returns everything as a single page.
func Paginate(list []model.Coin, page, perPage int) PageResult {
	total := len(list)
	if perPage <= 0 {
		return PageResult{Coins: list, Page: 1, PerPage: total, TotalPages: 1, Total: total}
	}

	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}
	return PageResult{
		Coins:      list[start:end],
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		Total:      total,
	}
}

// CountLabel renders "1 coin" or "N coins".
func CountLabel(n int) string {
	if n == 1 {
		return "1 coin"
	}
	return fmt.Sprintf("%d coins", n)
}
