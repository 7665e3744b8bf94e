// Package lotto answers draw result queries: it normalizes the requested range, fetches the draws
// and pages through them.
package lotto

import (
	"context"
	"math"
	"time"

	"pcsolotto-backend/internal/apperr"
	"pcsolotto-backend/internal/components/assert"
	"pcsolotto-backend/internal/components/chrono"
	"pcsolotto-backend/internal/components/telemetry"
	"pcsolotto-backend/internal/daterange"
	"pcsolotto-backend/internal/scrapers/pcso"
)

const report_service_query = "service.query"

const msgSuccess = "Lotto results retrieved successfully."

// Fetcher returns every draw in a range.
type Fetcher interface {
	Fetch(ctx context.Context, r daterange.DateRange) ([]pcso.DrawRecord, error)
}

type Request struct {
	Range   daterange.Input
	Page    int
	PerPage int
}

type SuccessResponse struct {
	Success        bool              `json:"success"`
	Message        string            `json:"message"`
	TotalResults   int               `json:"total_results"`
	TotalPages     int               `json:"total_pages"`
	CurrentPage    int               `json:"current_page"`
	PerPage        int               `json:"per_page"`
	ElapsedSeconds float64           `json:"elapsed_seconds"`
	StartDate      string            `json:"start_date"`
	EndDate        string            `json:"end_date"`
	Results        []pcso.DrawRecord `json:"results"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewErrorResponse renders err with the message a caller should see.
func NewErrorResponse(err error) ErrorResponse {
	if apperr.KindOf(err) == apperr.KindUnknown {
		return ErrorResponse{Message: "Unexpected error: " + err.Error()}
	}
	return ErrorResponse{Message: apperr.MessageOf(err)}
}

type Service struct {
	fetcher Fetcher
	clock   chrono.API
	tel     telemetry.API
}

func NewService(fetcher Fetcher, clock chrono.API, tel telemetry.API) Service {
	assert.NotNil(fetcher, "fetcher")
	assert.NotNil(clock, "clock")
	assert.NotNil(tel, "tel")
	return Service{
		fetcher: fetcher,
		clock:   clock,
		tel:     telemetry.NewScopedAPI("lotto", tel),
	}
}

func roundMillis(d time.Duration) float64 {
	return math.Round(d.Seconds()*1000) / 1000
}

// Query resolves req into a page of draws. Errors are *apperr.Error except when something
// outside the taxonomy failed.
func (s Service) Query(ctx context.Context, req Request) (SuccessResponse, error) {
	// monotonic, only the difference is used
	start := time.Now()

	if req.Page == 0 {
		req.Page = 1
	}
	if req.PerPage == 0 {
		req.PerPage = DefaultPerPage
	}

	r, err := daterange.Normalize(req.Range, s.clock.Now())
	if err != nil {
		return SuccessResponse{}, err
	}

	records, err := s.fetcher.Fetch(ctx, r)
	if err != nil {
		return SuccessResponse{}, err
	}

	page, err := Paginate(records, req.Page, req.PerPage)
	if err != nil {
		s.tel.ReportDebug(report_service_query, r.String(), err)
		return SuccessResponse{}, err
	}

	return SuccessResponse{
		Success:        true,
		Message:        msgSuccess,
		TotalResults:   page.TotalResults,
		TotalPages:     page.TotalPages,
		CurrentPage:    page.Page,
		PerPage:        page.PerPage,
		ElapsedSeconds: roundMillis(time.Since(start)),
		StartDate:      daterange.FormatHuman(r.Start),
		EndDate:        daterange.FormatHuman(r.End),
		Results:        page.Items,
	}, nil
}
