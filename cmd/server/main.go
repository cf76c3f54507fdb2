package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"thoughts-board/internal/bootstrap"
)

var (
	cfgFile string
	cfg     *bootstrap.Config
)

var rootCmd = &cobra.Command{
	Use:          "thoughts-server",
	Short:        "Thoughts board API server",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = bootstrap.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	// 不带子命令时等同于 serve
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Delete all thoughts and insert the sample thoughts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return bootstrap.RunSeed(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (env vars take precedence)")
	rootCmd.AddCommand(serveCmd, seedCmd)
}

func serve() error {
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	app.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutdown signal received...")

	app.Shutdown()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}
