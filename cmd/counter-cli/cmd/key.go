// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ava-labs/countervm/auth"
	"github.com/ava-labs/countervm/utils"
)

var keyCmd = &cobra.Command{
	Use: "key",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var genKeyCmd = &cobra.Command{
	Use: "generate",
	RunE: func(*cobra.Command, []string) error {
		_, err := handler.GenerateKey()
		return err
	},
}

var importKeyCmd = &cobra.Command{
	Use: "import [path]",
	PreRunE: func(_ *cobra.Command, args []string) error {
		if len(args) != 1 {
			return ErrInvalidArgs
		}
		return nil
	},
	RunE: func(_ *cobra.Command, args []string) error {
		_, err := handler.ImportKey(args[0])
		return err
	},
}

var exportKeyCmd = &cobra.Command{
	Use: "export [path]",
	PreRunE: func(_ *cobra.Command, args []string) error {
		if len(args) != 1 {
			return ErrInvalidArgs
		}
		return nil
	},
	RunE: func(_ *cobra.Command, args []string) error {
		return handler.ExportKey(args[0])
	},
}

var setKeyCmd = &cobra.Command{
	Use: "set",
	RunE: func(*cobra.Command, []string) error {
		return handler.SetKey()
	},
}

var addressKeyCmd = &cobra.Command{
	Use: "address",
	RunE: func(*cobra.Command, []string) error {
		priv, err := handler.GetDefaultKey(false)
		if err != nil {
			return err
		}
		utils.Outf("{{yellow}}address:{{/}} %s\n", auth.NewED25519Address(priv.PublicKey()))
		return nil
	},
}
