// Package cmd is the trafficcounts command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dvrpc/traffic-counts-api/config"
	"github.com/dvrpc/traffic-counts-api/utils"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "trafficcounts",
	Short: "DVRPC traffic counts API",
	Long:  `trafficcounts serves published traffic count records and their hourly, non-normal and classification reports as JSON, CSV and XLSX.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.SetFile(cfgFile)
		cfg := config.Load()
		if err := utils.InitLogger(cfg); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config/config.json)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
