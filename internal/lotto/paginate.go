package lotto

import (
	"pcsolotto-backend/internal/apperr"
	"pcsolotto-backend/internal/components/assert"
	"pcsolotto-backend/internal/scrapers/pcso"
)

const (
	DefaultPerPage = 50
	MaxPerPage     = 50
)

// Page is a slice of a result set together with its position in it.
type Page struct {
	Items        []pcso.DrawRecord
	Page         int
	PerPage      int
	TotalResults int
	TotalPages   int
}

// Paginate returns the 1-based page of records. perPage must already be in [1, MaxPerPage].
func Paginate(records []pcso.DrawRecord, page, perPage int) (Page, error) {
	assert.Positive(perPage, "perPage")
	assert.AtMost(perPage, MaxPerPage, "perPage")
	assert.Positive(page, "page")

	total := len(records)
	if total == 0 {
		return Page{}, apperr.NotFound("No results found for the given parameters.")
	}

	totalPages := (total + perPage - 1) / perPage
	if page > totalPages {
		return Page{}, apperr.PageOutOfRange("Page number exceeds total pages.")
	}

	start := (page - 1) * perPage
	end := min(start+perPage, total)
	return Page{
		Items:        records[start:end],
		Page:         page,
		PerPage:      perPage,
		TotalResults: total,
		TotalPages:   totalPages,
	}, nil
}
