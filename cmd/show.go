package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dvrpc/traffic-counts-api/config"
	"github.com/dvrpc/traffic-counts-api/controllers"
	"github.com/dvrpc/traffic-counts-api/report"
)

var showCmd = &cobra.Command{
	Use:   "show <record>",
	Short: "Print the metadata of one published record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("record number must be an integer: %q", args[0])
		}
		a, err := newApp(cmd.Context(), config.Get())
		if err != nil {
			return err
		}
		return showRecord(cmd.Context(), a.metadata, id, cmd.OutOrStdout())
	},
}

func showRecord(ctx context.Context, records controllers.RecordLookup, id int64, w io.Writer) error {
	md, err := records.Resolve(ctx, id)
	if err != nil {
		return fmt.Errorf("record %d: %w", id, err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Field", "Value"})
	for _, col := range md.Columns() {
		if v := report.FormatValue(col.Value); v != "" {
			t.AppendRow(table.Row{col.Name, v})
		}
	}
	t.Render()
	return nil
}

func init() {
	rootCmd.AddCommand(showCmd)
}
