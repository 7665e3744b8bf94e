// Package httpapi exposes the lotto service over HTTP.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pcsolotto-backend/internal/apperr"
	"pcsolotto-backend/internal/components/assert"
	"pcsolotto-backend/internal/components/telemetry"
	"pcsolotto-backend/internal/daterange"
	"pcsolotto-backend/internal/lotto"

	"github.com/gin-gonic/gin"
)

const (
	report_http_request = "http.request"
	report_http_error   = "http.error"
)

// Querier is implemented by lotto.Service.
type Querier interface {
	Query(ctx context.Context, req lotto.Request) (lotto.SuccessResponse, error)
}

type Handler struct {
	service   Querier
	cacheName string
	tel       telemetry.API
}

// NewHandler creates the route handler, cacheName is reported by the health route.
func NewHandler(service Querier, cacheName string, tel telemetry.API) *Handler {
	assert.NotNil(service, "service")
	assert.NotNil(tel, "tel")
	return &Handler{
		service:   service,
		cacheName: cacheName,
		tel:       telemetry.NewScopedAPI("http", tel),
	}
}

// NewRouter returns an engine with every route registered.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.logRequests)
	h.RegisterRoutes(router)
	return router
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.welcome)
	r.GET("/health", h.health)
	r.GET("/lotto-results", h.lottoResults)
}

func (h *Handler) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	h.tel.ReportDebug(
		report_http_request,
		c.Request.Method,
		c.Request.URL.RequestURI(),
		c.Writer.Status(),
		time.Since(start).String(),
	)
}

func (h *Handler) welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the PCSO Lotto Results API"})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "cache": h.cacheName})
}

type resultsQuery struct {
	StartMonth *string `form:"start_month"`
	StartDay   *int    `form:"start_day" binding:"omitempty,min=1,max=31"`
	StartYear  *int    `form:"start_year" binding:"omitempty,min=1900,max=2100"`
	EndMonth   *string `form:"end_month"`
	EndDay     *int    `form:"end_day" binding:"omitempty,min=1,max=31"`
	EndYear    *int    `form:"end_year" binding:"omitempty,min=1900,max=2100"`
	Page       *int    `form:"page" binding:"omitempty,min=1"`
	PerPage    *int    `form:"per_page" binding:"omitempty,min=1,max=50"`
}

func (q resultsQuery) request() lotto.Request {
	req := lotto.Request{
		Range: daterange.Input{
			StartMonth: q.StartMonth,
			StartDay:   q.StartDay,
			StartYear:  q.StartYear,
			EndMonth:   q.EndMonth,
			EndDay:     q.EndDay,
			EndYear:    q.EndYear,
		},
		Page:    1,
		PerPage: lotto.DefaultPerPage,
	}
	if q.Page != nil {
		req.Page = *q.Page
	}
	if q.PerPage != nil {
		req.PerPage = *q.PerPage
	}
	return req
}

// StatusOf maps an error to the status code it is served with.
func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindPageOutOfRange:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindUpstreamUnavailable:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (h *Handler) lottoResults(c *gin.Context) {
	var q resultsQuery
	err := c.ShouldBindQuery(&q)
	if err != nil {
		c.JSON(http.StatusBadRequest, lotto.ErrorResponse{
			Message: fmt.Sprintf("Invalid query parameters: %s", err.Error()),
		})
		return
	}

	res, err := h.service.Query(c.Request.Context(), q.request())
	if err != nil {
		status := StatusOf(err)
		if status >= http.StatusInternalServerError {
			h.tel.ReportWarning(report_http_error, status, err)
		}
		c.JSON(status, lotto.NewErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, res)
}
