package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dvrpc/traffic-counts-api/config"
	"github.com/dvrpc/traffic-counts-api/routes"
	"github.com/dvrpc/traffic-counts-api/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		r := routes.SetupRouter(cfg, routes.Deps{
			Reports: a.reports,
			Records: a.metadata,
			Health:  a.repo,
			Files:   a.files,
		})

		utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
		if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
			utils.Sugar.Errorf("server stopped with error: %v", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
