package pcso

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"pcsolotto-backend/internal/apperr"
	"pcsolotto-backend/internal/components/assert"
	"pcsolotto-backend/internal/components/cache"
	"pcsolotto-backend/internal/components/telemetry"
	"pcsolotto-backend/internal/daterange"
	"pcsolotto-backend/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("internal/scrapers/pcso")

const (
	report_client_event_fields = "client.event-fields"
	report_client_results_page = "client.results-page"
	report_client_fetch        = "client.fetch"
	report_cache_get           = "cache.get"
	report_cache_set           = "cache.set"
	report_parser_results      = "parser.results"
)

const formPrefix = "ctl00$ctl00$cphContainer$cpContent$"

const excerptLimit = 2048

type Options struct {
	// SearchURL defaults to DefaultSearchURL.
	SearchURL string
	// Timeout bounds every outbound request, defaults to 30 seconds.
	Timeout time.Duration
	// RequestsPerSecond paces outbound requests, 0 disables pacing.
	RequestsPerSecond float64
	// BypassCloudflare wraps the transport to look like a browser to cloudflare.
	BypassCloudflare bool
	// Dump, when not nil, receives every full upstream exchange.
	Dump restyutil.InstrumentOutput
}

// Client fetches results from the PCSO site, every outbound request holds a slot of the shared
// semaphore and every response is cached.
type Client struct {
	http      *resty.Client
	searchURL string
	cache     cache.API
	sem       *semaphore.Weighted
	tel       telemetry.API
}

func NewClient(opts Options, c cache.API, sem *semaphore.Weighted, tel telemetry.API) (*Client, error) {
	assert.NotNil(c, "cache")
	assert.NotNil(sem, "semaphore")
	assert.NotNil(tel, "tel")

	tel = telemetry.NewScopedAPI("pcso", tel)

	if opts.SearchURL == "" {
		opts.SearchURL = DefaultSearchURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	searchURL, err := url.Parse(opts.SearchURL)
	if err != nil {
		return nil, fmt.Errorf("parse search url: %w", err)
	}
	origin := fmt.Sprintf("%s://%s", searchURL.Scheme, searchURL.Host)

	httpClient := resty.New()
	if opts.BypassCloudflare {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	httpClient.SetHeaders(map[string]string{
		"user-agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/139.0.0.0 Safari/537.36 Edg/139.0.0.0",
		"accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7",
		"accept-language": "en-US,en;q=0.9",
		"origin":          origin,
		"referer":         opts.SearchURL,
	})
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(searchURL.Hostname()))
	httpClient.SetTimeout(opts.Timeout)

	if opts.RequestsPerSecond > 0 {
		// burst of 1 spreads requests out evenly instead of letting them bunch up
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, tel)
	restyutil.InstrumentClient(httpClient, tracer, opts.Dump)

	return &Client{
		http:      httpClient,
		searchURL: opts.SearchURL,
		cache:     c,
		sem:       sem,
		tel:       tel,
	}, nil
}

// cacheGet treats a failing cache as a miss.
func (c *Client) cacheGet(ctx context.Context, key string) (string, bool) {
	value, found, err := c.cache.Get(ctx, key)
	if err != nil {
		c.tel.ReportWarning(report_cache_get, key, err)
		return "", false
	}
	return value, found
}

func (c *Client) cacheSet(ctx context.Context, key, value string, ttl time.Duration) {
	err := c.cache.Set(ctx, key, value, ttl)
	if err != nil {
		c.tel.ReportWarning(report_cache_set, key, err)
	}
}

// do runs a request while holding a semaphore slot, non-2xx responses are errors.
func (c *Client) do(ctx context.Context, req *resty.Request, method string) (*resty.Response, error) {
	err := c.sem.Acquire(ctx, 1)
	if err != nil {
		return nil, apperr.UpstreamUnavailable(err)
	}
	res, err := req.SetContext(ctx).Execute(method, c.searchURL)
	c.sem.Release(1)

	if err != nil {
		return nil, apperr.UpstreamUnavailable(err)
	}
	if res.IsError() {
		return nil, apperr.UpstreamUnavailable(fmt.Errorf("unexpected status %s", res.Status()))
	}
	return res, nil
}

// EventFields returns the hidden ASP.NET fields of the search page, from cache when possible.
func (c *Client) EventFields(ctx context.Context) (SessionTokens, error) {
	ctx, span := tracer.Start(ctx, "EventFields")
	defer span.End()

	cached, found := c.cacheGet(ctx, EventFieldsKey)
	if found {
		var tokens SessionTokens
		err := json.Unmarshal([]byte(cached), &tokens)
		if err == nil && len(tokens) > 0 {
			span.SetAttributes(attribute.Bool("cached", true))
			return tokens, nil
		}
		c.tel.ReportDebug("cached event fields are unusable, refreshing", err)
	}

	res, err := c.do(ctx, c.http.R(), resty.MethodGet)
	if err != nil {
		c.tel.ReportWarning(report_client_event_fields, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch search page")
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		perr := apperr.Parse("Failed to read search page from PCSO site.", err)
		c.tel.ReportBroken(report_client_event_fields, perr)
		return nil, perr
	}

	tokens := SessionTokens{}
	for _, name := range hiddenFields {
		input := doc.Find(fmt.Sprintf(`input[name="%s"]`, name)).First()
		if input.Length() == 0 {
			continue
		}
		tokens[name] = input.AttrOr("value", "")
	}
	if len(tokens) == 0 {
		perr := apperr.Parse("Failed to extract hidden event fields.", nil)
		c.tel.ReportBroken(report_client_event_fields, perr, tableExcerpt(res.String(), excerptLimit))
		span.SetStatus(codes.Error, "no hidden fields")
		return nil, perr
	}

	serialized, err := json.Marshal(tokens)
	if err != nil {
		return nil, err
	}
	c.cacheSet(ctx, EventFieldsKey, string(serialized), EventFieldsTTL)
	return tokens, nil
}

func searchForm(r daterange.DateRange, tokens SessionTokens) map[string]string {
	form := make(map[string]string, len(tokens)+8)
	for k, v := range tokens {
		form[k] = v
	}
	form[formPrefix+"ddlStartMonth"] = r.Start.Month().String()
	form[formPrefix+"ddlStartDate"] = strconv.Itoa(r.Start.Day())
	form[formPrefix+"ddlStartYear"] = strconv.Itoa(r.Start.Year())
	form[formPrefix+"ddlEndMonth"] = r.End.Month().String()
	form[formPrefix+"ddlEndDay"] = strconv.Itoa(r.End.Day())
	form[formPrefix+"ddlEndYear"] = strconv.Itoa(r.End.Year())
	// 0 is "All Games"
	form[formPrefix+"ddlSelectGame"] = "0"
	form[formPrefix+"btnSearch"] = "Search Lotto"
	return form
}

// ResultsPage returns the raw results page for r, from cache when possible. Hidden fields are only
// fetched on a miss, a cached page never goes upstream.
func (c *Client) ResultsPage(ctx context.Context, r daterange.DateRange) (string, error) {
	ctx, span := tracer.Start(ctx, "ResultsPage")
	defer span.End()

	key := r.CacheKey()
	span.SetAttributes(attribute.String("cache_key", key))

	cached, found := c.cacheGet(ctx, key)
	if found && cached != "" {
		span.SetAttributes(attribute.Bool("cached", true))
		return cached, nil
	}

	tokens, err := c.EventFields(ctx)
	if err != nil {
		return "", err
	}

	res, err := c.do(ctx, c.http.R().SetFormData(searchForm(r, tokens)), resty.MethodPost)
	if err != nil {
		c.tel.ReportWarning(report_client_results_page, r.String(), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch results page")
		return "", err
	}

	markup := res.String()
	c.cacheSet(ctx, key, markup, ResultsTTL)
	return markup, nil
}

// Fetch returns every draw in r.
//
// Outbound work is detached from ctx's cancellation so a caller that goes away still leaves a
// warm cache behind.
func (c *Client) Fetch(ctx context.Context, r daterange.DateRange) ([]DrawRecord, error) {
	ctx = context.WithoutCancel(ctx)
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()

	markup, err := c.ResultsPage(ctx, r)
	if err != nil {
		return nil, err
	}

	records, err := ParseResults(markup)
	if err != nil {
		c.tel.ReportBroken(report_parser_results, err, r.String(), tableExcerpt(markup, excerptLimit))
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse results")
		return nil, err
	}
	c.tel.ReportCount(report_client_fetch, int64(len(records)))
	span.SetAttributes(attribute.Int("records", len(records)))
	return records, nil
}
