// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ava-labs/countervm/cli"
	"github.com/ava-labs/countervm/utils"
)

const defaultDatabase = ".counter-cli"

var (
	handler *cli.Handler

	dbPath                string
	forceReset            bool
	watchAll              bool
	logLevel              string
	logDir                string
	prometheusBaseURI     string
	prometheusOpenBrowser bool
	prometheusFile        string
	prometheusData        string
	startPrometheus       bool

	rootCmd = &cobra.Command{
		Use:        "counter-cli",
		Short:      "Counter CLI",
		SuggestFor: []string{"counter-cli", "countercli"},
	}
)

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.AddCommand(
		keyCmd,
		endpointCmd,
		actionCmd,
		watchCmd,
		simulateCmd,
		prometheusCmd,
	)
	rootCmd.PersistentFlags().StringVar(
		&dbPath,
		"database",
		defaultDatabase,
		"path to database (will create it missing)",
	)
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		// Simulations run in memory and never touch the keystore.
		if cmd == simulateCmd {
			return nil
		}
		utils.Outf("{{yellow}}database:{{/}} %s\n", dbPath)
		h, err := cli.New(dbPath)
		if err != nil {
			return err
		}
		handler = h
		return nil
	}
	rootCmd.PersistentPostRunE = func(*cobra.Command, []string) error {
		if handler == nil {
			return nil
		}
		return handler.CloseDatabase()
	}
	rootCmd.SilenceErrors = true

	// key
	keyCmd.AddCommand(
		genKeyCmd,
		importKeyCmd,
		exportKeyCmd,
		setKeyCmd,
		addressKeyCmd,
	)

	// endpoint
	endpointCmd.AddCommand(
		setEndpointCmd,
	)

	// actions
	resetCmd.PersistentFlags().BoolVar(
		&forceReset,
		"force",
		false,
		"skip confirmation",
	)
	actionCmd.AddCommand(
		initializeCmd,
		incrementCmd,
		resetCmd,
		getCmd,
		locationCmd,
	)

	// watch
	watchCmd.PersistentFlags().BoolVar(
		&watchAll,
		"all",
		false,
		"follow every owner",
	)

	// simulate
	simulateCmd.PersistentFlags().StringVar(
		&logLevel,
		"log-level",
		"info",
		"log level",
	)
	simulateCmd.PersistentFlags().StringVar(
		&logDir,
		"log-dir",
		"",
		"directory for simulation logs (defaults to a temporary directory)",
	)

	// prometheus
	generatePrometheusCmd.PersistentFlags().StringVar(
		&prometheusBaseURI,
		"prometheus-base-uri",
		"http://localhost:9090",
		"prometheus server location",
	)
	generatePrometheusCmd.PersistentFlags().BoolVar(
		&prometheusOpenBrowser,
		"prometheus-open-browser",
		true,
		"open browser to prometheus dashboard",
	)
	generatePrometheusCmd.PersistentFlags().StringVar(
		&prometheusFile,
		"prometheus-file",
		"/tmp/prometheus.yaml",
		"prometheus file location",
	)
	generatePrometheusCmd.PersistentFlags().StringVar(
		&prometheusData,
		"prometheus-data",
		"/tmp/prometheus",
		"prometheus data location",
	)
	generatePrometheusCmd.PersistentFlags().BoolVar(
		&startPrometheus,
		"prometheus-start",
		true,
		"start prometheus",
	)
	prometheusCmd.AddCommand(
		generatePrometheusCmd,
	)
}

func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}
