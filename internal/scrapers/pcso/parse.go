package pcso

import (
	"slices"
	"strings"

	"pcsolotto-backend/internal/apperr"
	"pcsolotto-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const resultsTableSelector = "table.search-lotto-result-table"

const msgUnexpectedTable = "Unexpected table structure from PCSO site."

var expectedHeaders = []string{"LOTTO GAME", "COMBINATIONS", "DRAW DATE", "JACKPOT (PHP)", "WINNERS"}

func cellTexts(cells *goquery.Selection) []string {
	out := make([]string, cells.Length())
	cells.Each(func(i int, cell *goquery.Selection) {
		out[i] = htmlutil.SelectionText(cell)
	})
	return out
}

// ParseResults extracts the draws from a results page in document order.
//
// A page without the results table has no draws. A header row that does not match the expected
// columns, or data rows of which none have five cells, is a parse error.
func ParseResults(markup string) ([]DrawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, apperr.Parse("Failed to read results page from PCSO site.", err)
	}

	table := doc.Find(resultsTableSelector).First()
	if table.Length() == 0 {
		return []DrawRecord{}, nil
	}

	records := []DrawRecord{}
	dataRows := 0
	var parseErr error

	table.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		// rows of tables nested inside a cell belong to that table
		if !row.Closest("table").IsSelection(table) {
			return true
		}

		headers := row.ChildrenFiltered("th")
		if headers.Length() > 0 {
			if !slices.Equal(cellTexts(headers), expectedHeaders) {
				parseErr = apperr.Parse(msgUnexpectedTable, nil)
				return false
			}
			return true
		}

		dataRows++
		cols := cellTexts(row.ChildrenFiltered("td"))
		if len(cols) != len(expectedHeaders) {
			return true
		}
		records = append(records, DrawRecord{
			Game:        cols[0],
			Combination: cols[1],
			DrawDate:    cols[2],
			JackpotPHP:  cols[3],
			Winners:     cols[4],
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	if dataRows > 0 && len(records) == 0 {
		return nil, apperr.Parse(msgUnexpectedTable, nil)
	}
	return records, nil
}

// tableExcerpt returns a bounded piece of the results table (or the page when there is none)
// for logging.
func tableExcerpt(markup string, limit int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err == nil {
		table, err := goquery.OuterHtml(doc.Find(resultsTableSelector).First())
		if err == nil && table != "" {
			return htmlutil.Excerpt(table, limit)
		}
	}
	return htmlutil.Excerpt(markup, limit)
}
