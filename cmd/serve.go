package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/premiumlens/internal/predict"
	"github.com/KaramelBytes/premiumlens/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Long: `Loads the dataset and prediction artifacts once, then serves the Prediction,
Univariate, Bivariate and Multivariate pages plus a JSON API. A missing or
incompatible dataset or artifact aborts startup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.ListenAddr
		if cmd.Flags().Changed("addr") && serveAddr != "" {
			addr = serveAddr
		}
		table, err := loadTable()
		if err != nil {
			return err
		}
		pipeline, err := loadPipeline()
		if err != nil {
			return err
		}
		choices, err := predict.ChoicesFrom(table)
		if err != nil {
			return fmt.Errorf("derive form choices: %w", err)
		}
		if !debug {
			gin.SetMode(gin.ReleaseMode)
		}
		srv, err := server.New(server.Deps{
			Table:       table,
			Pipeline:    pipeline,
			Choices:     choices,
			Size:        figureSize(),
			Logger:      log,
			CORSOrigins: cfg.CORSOrigins,
		})
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Printf("✓ Dashboard on %s (%d records, %s model)\n", addr, table.Nrow(), pipeline.Model.Kind())
		return srv.Run(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides listen_addr)")
}
