package pcso

import (
	"testing"

	"pcsolotto-backend/internal/apperr"
	"pcsolotto-backend/lib/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseResultsThreeRows(t *testing.T) {
	markup := `<table class="search-lotto-result-table">
<tr><th>LOTTO GAME</th><th>COMBINATIONS</th><th>DRAW DATE</th><th>JACKPOT (PHP)</th><th>WINNERS</th></tr>
<tr><td> Ultra Lotto 6/58 </td><td>07-13-21-33-40-51</td><td>9/2/2025</td><td>49,500,000.00</td><td>0</td></tr>
<tr><td>Lotto 6/42</td><td>01-02-03-04-05-06</td><td>9/2/2025</td><td>
    5,940,000.00
</td><td>1</td></tr>
<tr><td>Lotto 6/42</td><td>01-02-03-04-05-06</td><td>9/2/2025</td><td>5,940,000.00</td><td>1</td></tr>
</table>`

	records, err := ParseResults(markup)
	require.NoError(t, err)

	expected := []DrawRecord{
		{Game: "Ultra Lotto 6/58", Combination: "07-13-21-33-40-51", DrawDate: "9/2/2025", JackpotPHP: "49,500,000.00", Winners: "0"},
		{Game: "Lotto 6/42", Combination: "01-02-03-04-05-06", DrawDate: "9/2/2025", JackpotPHP: "5,940,000.00", Winners: "1"},
		{Game: "Lotto 6/42", Combination: "01-02-03-04-05-06", DrawDate: "9/2/2025", JackpotPHP: "5,940,000.00", Winners: "1"},
	}
	if diff := cmp.Diff(expected, records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestParseResultsOnlyTrimsValues(t *testing.T) {
	records, err := ParseResults(`<table class="search-lotto-result-table">
<tr><td>
  Ultra  Lotto 6/58 </td><td>07 - 13 - 21</td><td>9/2/2025</td><td>49,500,000.00</td><td>0</td></tr>
</table>`)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "Ultra  Lotto 6/58", records[0].Game)
	require.Equal(t, "07 - 13 - 21", records[0].Combination)
}

func TestParseResultsNoTable(t *testing.T) {
	records, err := ParseResults(`<html><body><p>No results.</p></body></html>`)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestParseResultsHeaderOnly(t *testing.T) {
	records, err := ParseResults(testutil.ResultsPage(nil))
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestParseResultsUnexpectedHeaders(t *testing.T) {
	_, err := ParseResults(`<table class="search-lotto-result-table">
<tr><th>GAME</th><th>NUMBERS</th><th>DATE</th><th>JACKPOT</th><th>WINNERS</th></tr>
<tr><td>a</td><td>b</td><td>c</td><td>d</td><td>e</td></tr>
</table>`)
	require.Equal(t, apperr.KindParse, apperr.KindOf(err))
	require.Equal(t, "Unexpected table structure from PCSO site.", apperr.MessageOf(err))
}

func TestParseResultsSkipsMalformedRows(t *testing.T) {
	records, err := ParseResults(`<table class="search-lotto-result-table">
<tr><td colspan="5">Results as of today</td></tr>
<tr><td>Lotto 6/42</td><td>01-02-03-04-05-06</td><td>9/2/2025</td><td>5,940,000.00</td><td>1</td></tr>
</table>`)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestParseResultsNoParsableRows(t *testing.T) {
	_, err := ParseResults(`<table class="search-lotto-result-table">
<tr><th>LOTTO GAME</th><th>COMBINATIONS</th><th>DRAW DATE</th><th>JACKPOT (PHP)</th><th>WINNERS</th></tr>
<tr><td>Lotto 6/42</td><td>01-02-03-04-05-06</td></tr>
<tr><td>Lotto 6/42</td></tr>
</table>`)
	require.Equal(t, apperr.KindParse, apperr.KindOf(err))
}

func TestParseResultsKeepsDocumentOrder(t *testing.T) {
	draws := testutil.GenerateDraws(40)
	records, err := ParseResults(testutil.ResultsPage(draws))
	require.NoError(t, err)
	require.Len(t, records, 40)
	for i, d := range draws {
		require.Equal(t, d.DrawDate, records[i].DrawDate)
		require.Equal(t, d.Combination, records[i].Combination)
	}
}

func TestTableExcerptIsBounded(t *testing.T) {
	markup := testutil.ResultsPage(testutil.GenerateDraws(200))
	excerpt := tableExcerpt(markup, 100)
	require.LessOrEqual(t, len(excerpt), 100+len("...(truncated)"))
	require.Contains(t, excerpt, "search-lotto-result-table")
}
