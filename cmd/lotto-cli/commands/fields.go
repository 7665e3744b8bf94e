package commands

import (
	"os"
	"sort"

	"pcsolotto-backend/internal/components/chrono"
	"pcsolotto-backend/lib/htmlutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(fieldsCmd)
}

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Prints the hidden ASP.NET fields the search page currently hands out.",
	RunE: func(cmd *cobra.Command, args []string) error {
		clock, err := chrono.NewStandardImpl()
		if err != nil {
			return err
		}
		client, err := newClient(clock)
		if err != nil {
			return err
		}
		tokens, err := client.EventFields(cmd.Context())
		if err != nil {
			return err
		}

		names := make([]string, 0, len(tokens))
		for name := range tokens {
			names = append(names, name)
		}
		sort.Strings(names)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Field", "Value"})
		for _, name := range names {
			t.AppendRow(table.Row{name, htmlutil.Excerpt(tokens[name], 60)})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}
