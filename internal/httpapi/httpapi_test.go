package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pcsolotto-backend/internal/apperr"
	"pcsolotto-backend/internal/components/cache"
	"pcsolotto-backend/internal/components/chrono"
	"pcsolotto-backend/internal/components/telemetry"
	"pcsolotto-backend/internal/lotto"
	"pcsolotto-backend/internal/scrapers/pcso"
	"pcsolotto-backend/lib/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/semaphore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type querierFunc func(ctx context.Context, req lotto.Request) (lotto.SuccessResponse, error)

func (f querierFunc) Query(ctx context.Context, req lotto.Request) (lotto.SuccessResponse, error) {
	return f(ctx, req)
}

func serve(t *testing.T, router http.Handler, target string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestWelcomeAndHealth(t *testing.T) {
	router := NewRouter(NewHandler(querierFunc(func(context.Context, lotto.Request) (lotto.SuccessResponse, error) {
		return lotto.SuccessResponse{}, nil
	}), "local", &telemetry.RecordingAPI{}))

	code, body := serve(t, router, "/")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Welcome to the PCSO Lotto Results API", body["message"])

	code, body = serve(t, router, "/health")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "local", body["cache"])
}

func TestQueryParameterBounds(t *testing.T) {
	called := false
	router := NewRouter(NewHandler(querierFunc(func(context.Context, lotto.Request) (lotto.SuccessResponse, error) {
		called = true
		return lotto.SuccessResponse{}, nil
	}), "local", &telemetry.RecordingAPI{}))

	for _, target := range []string{
		"/lotto-results?per_page=0",
		"/lotto-results?per_page=51",
		"/lotto-results?page=0",
		"/lotto-results?start_day=32",
		"/lotto-results?end_year=1899",
		"/lotto-results?start_year=twenty",
	} {
		code, body := serve(t, router, target)
		require.Equal(t, http.StatusBadRequest, code, target)
		require.Equal(t, false, body["success"], target)
	}
	require.False(t, called)
}

func TestRequestDefaults(t *testing.T) {
	var got lotto.Request
	router := NewRouter(NewHandler(querierFunc(func(_ context.Context, req lotto.Request) (lotto.SuccessResponse, error) {
		got = req
		return lotto.SuccessResponse{Success: true}, nil
	}), "local", &telemetry.RecordingAPI{}))

	code, _ := serve(t, router, "/lotto-results?start_month=September&start_day=2&start_year=2025")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, got.Page)
	require.Equal(t, 50, got.PerPage)
	require.Equal(t, "September", *got.Range.StartMonth)
	require.Equal(t, 2, *got.Range.StartDay)
	require.Nil(t, got.Range.EndMonth)
}

func TestErrorStatuses(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{apperr.Validation("Invalid month name provided."), http.StatusBadRequest, "Invalid month name provided."},
		{apperr.PageOutOfRange("Page number exceeds total pages."), http.StatusBadRequest, "Page number exceeds total pages."},
		{apperr.NotFound("No results found for the given parameters."), http.StatusNotFound, "No results found for the given parameters."},
		{apperr.UpstreamUnavailable(errors.New("eof")), http.StatusBadGateway, "Network error contacting PCSO: eof"},
		{apperr.Parse("Unexpected table structure from PCSO site.", nil), http.StatusInternalServerError, "Unexpected table structure from PCSO site."},
		{errors.New("boom"), http.StatusInternalServerError, "Unexpected error: boom"},
	}

	for _, c := range cases {
		router := NewRouter(NewHandler(querierFunc(func(context.Context, lotto.Request) (lotto.SuccessResponse, error) {
			return lotto.SuccessResponse{}, c.err
		}), "local", &telemetry.RecordingAPI{}))

		code, body := serve(t, router, "/lotto-results")
		require.Equal(t, c.status, code, c.message)
		require.Equal(t, false, body["success"])
		require.Equal(t, c.message, body["message"])
	}
}

func TestLottoResultsEndToEnd(t *testing.T) {
	fake := testutil.NewFakePCSO(t)
	fake.Set(func(f *testutil.FakePCSO) {
		f.Draws = testutil.GenerateDraws(123)
	})

	clock := chrono.NewFixedImpl(time.Date(2025, time.September, 4, 4, 0, 0, 0, time.UTC))
	tel := &telemetry.RecordingAPI{}
	local := cache.NewLocal(clock, tel)
	client, err := pcso.NewClient(
		pcso.Options{SearchURL: fake.URL()},
		local,
		semaphore.NewWeighted(pcso.MaxConcurrentRequests),
		tel,
	)
	require.NoError(t, err)
	router := NewRouter(NewHandler(lotto.NewService(client, clock, tel), local.Name(), tel))

	code, body := serve(t, router, "/lotto-results?start_year=2024&per_page=5")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["success"])
	require.Equal(t, float64(123), body["total_results"])
	require.Equal(t, float64(25), body["total_pages"])
	require.Equal(t, float64(1), body["current_page"])
	require.Equal(t, "January 1, 2015", body["start_date"])
	require.Equal(t, "September 4, 2025", body["end_date"])
	results := body["results"].([]any)
	require.Len(t, results, 5)
	first := results[0].(map[string]any)
	require.Equal(t, "Ultra Lotto 6/58", first["game"])
	require.Contains(t, first, "jackpot_php")

	code, body = serve(t, router, "/lotto-results?start_year=2024&per_page=5&page=26")
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Page number exceeds total pages.", body["message"])
	require.Equal(t, int64(1), fake.Posts())

	code, body = serve(t, router, "/lotto-results?end_month=September&end_day=5&end_year=2025")
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "End date cannot be later than September 4, 2025 (today in Manila).", body["message"])
}
