package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/sspserver/statsgen/internal/generator"
	"github.com/sspserver/statsgen/pkg/output"
)

var columnsPlain bool

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "List the target table columns in insert order",
	Long:  "Display the column layout every generated INSERT statement follows, with ClickHouse types",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cols := generator.Columns()
		w := cmd.OutOrStdout()

		if columnsPlain {
			for _, c := range cols {
				fmt.Fprintln(w, c.Name)
			}
			return
		}

		table := output.NewTable([]string{"#", "NAME", "TYPE"})
		for i, c := range cols {
			table.AddRow([]string{strconv.Itoa(i + 1), c.Name, c.Type})
		}
		table.Render(w)
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)

	columnsCmd.Flags().BoolVar(&columnsPlain, "plain", false, "Print only column names, one per line")
}
