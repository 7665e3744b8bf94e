// Package testutil contains a fake of the PCSO search page for tests.
package testutil

import (
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const formPrefix = "ctl00$ctl00$cphContainer$cpContent$"

// Draw is a single row the fake returns.
type Draw struct {
	Game        string
	Combination string
	DrawDate    string
	Jackpot     string
	Winners     string
}

// FakePCSO serves a landing page with the ASP.NET hidden fields on GET and a results table on
// POST. Fields can be changed between requests.
type FakePCSO struct {
	Server *httptest.Server

	mutex sync.Mutex
	// Draws is returned for every search.
	Draws []Draw
	// Hidden is rendered as hidden inputs on the landing page.
	Hidden map[string]string
	// Status, when not 0, replies to every request with that status.
	Status int
	// ResultsMarkup, when not empty, replaces the rendered results page.
	ResultsMarkup string
	// Delay is slept before replying.
	Delay time.Duration

	gets      atomic.Int64
	posts     atomic.Int64
	inflight  atomic.Int64
	maxFlight atomic.Int64
	lastForm  map[string]string
}

// NewFakePCSO starts a fake that is closed when the test ends.
func NewFakePCSO(t testing.TB) *FakePCSO {
	f := &FakePCSO{
		Hidden: map[string]string{
			"__VIEWSTATE":          "dDwtMTI3OTMzNDM4NDs7Pg==",
			"__VIEWSTATEGENERATOR": "C2EE9ABB",
			"__EVENTVALIDATION":    "/wEdAAe1",
		},
	}
	f.Server = httptest.NewServer(f)
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the address of the search page.
func (f *FakePCSO) URL() string {
	return f.Server.URL + "/SearchLottoResult.aspx"
}

func (f *FakePCSO) Gets() int64 {
	return f.gets.Load()
}

func (f *FakePCSO) Posts() int64 {
	return f.posts.Load()
}

// MaxInFlight is the largest number of requests that were being served at once.
func (f *FakePCSO) MaxInFlight() int64 {
	return f.maxFlight.Load()
}

// LastForm returns the form of the last search with the ASP.NET control prefix removed from
// the keys.
func (f *FakePCSO) LastForm() map[string]string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.lastForm
}

func (f *FakePCSO) Set(fn func(f *FakePCSO)) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	fn(f)
}

func (f *FakePCSO) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	current := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		prev := f.maxFlight.Load()
		if current <= prev || f.maxFlight.CompareAndSwap(prev, current) {
			break
		}
	}

	f.mutex.Lock()
	status := f.Status
	delay := f.Delay
	f.mutex.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if status != 0 {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("content-type", "text/html; charset=utf-8")
	switch r.Method {
	case http.MethodGet:
		f.gets.Add(1)
		f.mutex.Lock()
		page := LandingPage(f.Hidden)
		f.mutex.Unlock()
		_, _ = w.Write([]byte(page))
	case http.MethodPost:
		f.posts.Add(1)
		err := r.ParseForm()
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		form := map[string]string{}
		for k := range r.PostForm {
			form[strings.TrimPrefix(k, formPrefix)] = r.PostForm.Get(k)
		}

		f.mutex.Lock()
		f.lastForm = form
		page := f.ResultsMarkup
		if page == "" {
			page = ResultsPage(f.Draws)
		}
		f.mutex.Unlock()
		_, _ = w.Write([]byte(page))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// LandingPage renders a search page carrying the given hidden fields.
func LandingPage(hidden map[string]string) string {
	var inputs strings.Builder
	for name, value := range hidden {
		fmt.Fprintf(
			&inputs,
			`<input type="hidden" name="%s" id="%s" value="%s" />`+"\n",
			html.EscapeString(name), html.EscapeString(name), html.EscapeString(value),
		)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html><body>
<form method="post" action="./SearchLottoResult.aspx" id="mainform">
%s
<select name="%sddlStartMonth"><option>January</option></select>
</form>
</body></html>`, inputs.String(), formPrefix)
}

// ResultsPage renders the results table the way the search page does.
func ResultsPage(draws []Draw) string {
	var rows strings.Builder
	for _, d := range draws {
		fmt.Fprintf(
			&rows,
			"<tr>\n  <td>%s</td>\n  <td>%s</td>\n  <td>%s</td>\n  <td>%s</td>\n  <td>%s</td>\n</tr>\n",
			html.EscapeString(d.Game),
			html.EscapeString(d.Combination),
			html.EscapeString(d.DrawDate),
			html.EscapeString(d.Jackpot),
			html.EscapeString(d.Winners),
		)
	}
	return fmt.Sprintf(`<html><body>
<div class="table-responsive">
<table class="search-lotto-result-table table">
<tr>
  <th>LOTTO GAME</th><th>COMBINATIONS</th><th>DRAW DATE</th><th>JACKPOT (PHP)</th><th>WINNERS</th>
</tr>
%s</table>
</div>
</body></html>`, rows.String())
}

// GenerateDraws returns n distinct draws, one per day going back from September 4, 2025.
func GenerateDraws(n int) []Draw {
	games := []string{"Ultra Lotto 6/58", "Grand Lotto 6/55", "Superlotto 6/49", "Megalotto 6/45", "Lotto 6/42"}
	last := time.Date(2025, time.September, 4, 0, 0, 0, 0, time.UTC)

	draws := make([]Draw, n)
	for i := range draws {
		date := last.AddDate(0, 0, -i)
		draws[i] = Draw{
			Game:        games[i%len(games)],
			Combination: fmt.Sprintf("%02d-%02d-%02d-%02d-%02d-%02d", i%42+1, 7, 13, 21, 33, 40),
			DrawDate:    date.Format("1/2/2006"),
			Jackpot:     fmt.Sprintf("%d,000,000.00", 29+i%20),
			Winners:     fmt.Sprint(i % 3),
		}
	}
	return draws
}
