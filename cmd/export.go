package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dvrpc/traffic-counts-api/config"
	"github.com/dvrpc/traffic-counts-api/controllers"
	"github.com/dvrpc/traffic-counts-api/models"
	"github.com/dvrpc/traffic-counts-api/report"
)

type exportOptions struct {
	report            string
	format            string
	includeSuppressed bool
	out               string
}

var exportOpts exportOptions

var exportCmd = &cobra.Command{
	Use:   "export <record>",
	Short: "Write one count report as CSV or XLSX",
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

		w := cmd.OutOrStdout()
		if exportOpts.out != "" {
			f, err := os.Create(exportOpts.out)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		return runExport(cmd.Context(), a.reports, id, exportOpts, w)
	},
}

func runExport(ctx context.Context, reports controllers.ReportBuilder, id int64, opts exportOptions, w io.Writer) error {
	kind, err := models.ParseReportKind(opts.report)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	tab, err := reports.Build(ctx, kind, id, opts.includeSuppressed)
	if err != nil {
		return fmt.Errorf("record %d: %w", id, err)
	}
	return report.Render(w, format, tab)
}

func init() {
	exportCmd.Flags().StringVar(&exportOpts.report, "report", string(models.ReportHourly), "report: hourly, non-normal or class")
	exportCmd.Flags().StringVar(&exportOpts.format, "format", string(report.FormatCSV), "file format: csv or xlsx")
	exportCmd.Flags().BoolVar(&exportOpts.includeSuppressed, "include-suppressed", false, "keep counts on suppressed dates")
	exportCmd.Flags().StringVarP(&exportOpts.out, "out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
