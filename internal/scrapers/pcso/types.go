package pcso

import "time"

const (
	// DefaultSearchURL is the results search page of the PCSO site.
	DefaultSearchURL = "https://www.pcso.gov.ph/SearchLottoResult.aspx"

	// EventFieldsKey is the cache key of the ASP.NET hidden fields.
	EventFieldsKey = "pcso:event_fields"
	EventFieldsTTL = 30 * time.Second
	ResultsTTL     = 60 * time.Second

	// MaxConcurrentRequests is the default capacity of the outbound semaphore.
	MaxConcurrentRequests = 8
)

// hiddenFields are the ASP.NET inputs that must be echoed back for a search to be accepted.
var hiddenFields = []string{"__VIEWSTATE", "__VIEWSTATEGENERATOR", "__EVENTVALIDATION"}

// SessionTokens maps hidden field names to their values.
type SessionTokens map[string]string

// DrawRecord is one row of the results table, values are kept as the site renders them.
type DrawRecord struct {
	Game        string `json:"game"`
	Combination string `json:"combination"`
	DrawDate    string `json:"draw_date"`
	JackpotPHP  string `json:"jackpot_php"`
	Winners     string `json:"winners"`
}
