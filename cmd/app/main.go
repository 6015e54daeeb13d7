package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/spf13/cobra"
)

var (
	cfgPath string

	rootCmd = &cobra.Command{
		Use:           "flightdesk",
		Short:         "Operator console for flights, crews and destinations",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runShell,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Start the interactive menu (default)",
		RunE:  runShell,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		RunE:  runMigrate,
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Load the sample dataset; rows that already exist are kept",
		RunE:  runSeed,
	}

	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Print fleet reports",
	}
	reportDestinationsCmd = &cobra.Command{
		Use:   "destinations",
		Short: "Flights arriving per destination",
		RunE:  runDestinationsReport,
	}
	reportPilotsCmd = &cobra.Command{
		Use:   "pilots",
		Short: "Crew assignments per pilot",
		RunE:  runPilotsReport,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to the YAML config (default $CONFIG_PATH or config.yaml)")

	reportCmd.AddCommand(reportDestinationsCmd, reportPilotsCmd)
	rootCmd.AddCommand(runCmd, migrateCmd, seedCmd, reportCmd)
}

func loadConfig() (*config.Config, error) {
	path := cfgPath
	if path == "" {
		path = config.Path()
	}
	return config.LoadConfig(path)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "flightdesk:", err)
		stop()
		os.Exit(1)
	}
}
