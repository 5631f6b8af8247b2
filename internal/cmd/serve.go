package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paulreginaphoto/swisstl/internal/job"
	"github.com/paulreginaphoto/swisstl/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the STL job surface HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	outputDir := viper.GetString("output-dir")

	runner := &job.Runner{
		Registry: job.NewRegistry(),
		Logger:   logger,
	}
	srv := server.New(runner, outputDir, logger)

	logger.Info("starting swisstl job surface", "addr", addr, "output_dir", outputDir)
	if err := http.ListenAndServe(addr, srv); err != nil {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
