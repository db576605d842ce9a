// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"io"
	"os"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/countervm/cli"
	"github.com/ava-labs/countervm/utils"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [path]",
	Short: "Replay a YAML plan against an in-memory node (use - for stdin)",
	PreRunE: func(_ *cobra.Command, args []string) error {
		if len(args) != 1 {
			return ErrInvalidArgs
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			planBytes []byte
			err       error
		)
		if args[0] == "-" {
			planBytes, err = io.ReadAll(cmd.InOrStdin())
		} else {
			planBytes, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}
		plan, err := cli.UnmarshalPlan(planBytes)
		if err != nil {
			return err
		}

		level, err := logging.ToLevel(logLevel)
		if err != nil {
			return err
		}
		dir := logDir
		if len(dir) == 0 {
			dir, err = os.MkdirTemp("", "counter-simulate")
			if err != nil {
				return err
			}
		}
		log, closeLog, err := newSimulationLogger(dir, level)
		if err != nil {
			return err
		}
		defer closeLog()

		utils.Outf("{{yellow}}plan:{{/}} %s {{yellow}}steps:{{/}} %d {{yellow}}logs:{{/}} %s\n", plan.Name, len(plan.Steps), dir)
		results, simErr := cli.Simulate(cmd.Context(), log, plan)
		out, err := yaml.Marshal(results)
		if err != nil {
			return err
		}
		utils.Outf("%s", out)
		if simErr != nil {
			return simErr
		}
		utils.Outf("{{green}}plan passed{{/}}\n")
		return nil
	},
}
