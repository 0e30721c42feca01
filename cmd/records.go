package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dvrpc/traffic-counts-api/config"
	"github.com/dvrpc/traffic-counts-api/controllers"
	"github.com/dvrpc/traffic-counts-api/models"
)

var (
	recordsCountType string
	recordsSubType   string
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List record numbers, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), config.Get())
		if err != nil {
			return err
		}
		return printRecords(cmd.Context(), a.metadata, recordsCountType, recordsSubType, cmd.OutOrStdout())
	},
}

func printRecords(ctx context.Context, records controllers.RecordLookup, countType, subType string, w io.Writer) error {
	nums, err := records.RecordNumbers(ctx, countType, subType)
	if err != nil {
		return err
	}
	for _, n := range nums {
		if _, err := fmt.Fprintln(w, n); err != nil {
			return err
		}
	}
	return nil
}

// countTypeUsage lists the count types a catalog accepts.
func countTypeUsage(catalog *models.Catalog) string {
	kinds := catalog.Kinds()
	quoted := make([]string, len(kinds))
	for i, k := range kinds {
		quoted[i] = fmt.Sprintf("%q", k)
	}
	return "filter by count type: " + strings.Join(quoted, ", ")
}

func init() {
	recordsCmd.Flags().StringVar(&recordsCountType, "count-type", "", countTypeUsage(models.DefaultCatalog()))
	recordsCmd.Flags().StringVar(&recordsSubType, "sub-type", "", "filter by sub type, e.g. \"Bicycle 2\"")
	rootCmd.AddCommand(recordsCmd)
}
