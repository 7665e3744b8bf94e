package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"pcsolotto-backend/internal/components/chrono"
	"pcsolotto-backend/internal/components/telemetry"
	"pcsolotto-backend/internal/daterange"
	"pcsolotto-backend/internal/lotto"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	resultsStart   string
	resultsEnd     string
	resultsPage    int
	resultsPerPage int
)

func init() {
	resultsCmd.Flags().StringVar(&resultsStart, "start", "", "First day of the range (YYYY-MM-DD), defaults to 2015-01-01.")
	resultsCmd.Flags().StringVar(&resultsEnd, "end", "", "Last day of the range (YYYY-MM-DD), defaults to today in Manila.")
	resultsCmd.Flags().IntVar(&resultsPage, "page", 1, "The page to print.")
	resultsCmd.Flags().IntVar(&resultsPerPage, "per-page", lotto.DefaultPerPage, "Draws per page (1-50).")
	rootCmd.AddCommand(resultsCmd)
}

// sideInput splits a YYYY-MM-DD date into the month name, day and year fields of a query, an
// empty string leaves the side to its default.
func sideInput(value string) (*string, *int, *int, error) {
	if value == "" {
		return nil, nil, nil, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	month := t.Month().String()
	day := t.Day()
	year := t.Year()
	return &month, &day, &year, nil
}

func buildRequest(start, end string, page, perPage int) (lotto.Request, error) {
	if page < 1 {
		return lotto.Request{}, fmt.Errorf("--page must be at least 1")
	}
	if perPage < 1 || perPage > lotto.MaxPerPage {
		return lotto.Request{}, fmt.Errorf("--per-page must be between 1 and %d", lotto.MaxPerPage)
	}

	var in daterange.Input
	var err error
	in.StartMonth, in.StartDay, in.StartYear, err = sideInput(start)
	if err != nil {
		return lotto.Request{}, err
	}
	in.EndMonth, in.EndDay, in.EndYear, err = sideInput(end)
	if err != nil {
		return lotto.Request{}, err
	}
	return lotto.Request{Range: in, Page: page, PerPage: perPage}, nil
}

func renderResults(out io.Writer, res lotto.SuccessResponse) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Game", "Combination", "Draw Date", "Jackpot (PHP)", "Winners"})
	for _, r := range res.Results {
		t.AppendRow(table.Row{r.Game, r.Combination, r.DrawDate, r.JackpotPHP, r.Winners})
	}
	t.AppendFooter(table.Row{
		fmt.Sprintf("%s - %s", res.StartDate, res.EndDate),
		"",
		fmt.Sprintf("page %d/%d", res.CurrentPage, res.TotalPages),
		fmt.Sprintf("%d draws", res.TotalResults),
		fmt.Sprintf("%.3fs", res.ElapsedSeconds),
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

var resultsCmd = &cobra.Command{
	Use:   "results [--start YYYY-MM-DD] [--end YYYY-MM-DD] [--page n] [--per-page n]",
	Short: "Prints a page of draw results for a date range.",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := buildRequest(resultsStart, resultsEnd, resultsPage, resultsPerPage)
		if err != nil {
			return err
		}

		clock, err := chrono.NewStandardImpl()
		if err != nil {
			return err
		}
		client, err := newClient(clock)
		if err != nil {
			return err
		}

		service := lotto.NewService(client, clock, telemetry.SlogAPI{})
		res, err := service.Query(cmd.Context(), req)
		if err != nil {
			return errors.New(lotto.NewErrorResponse(err).Message)
		}
		renderResults(os.Stdout, res)
		return nil
	},
}
