// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var endpointCmd = &cobra.Command{
	Use: "endpoint",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var setEndpointCmd = &cobra.Command{
	Use: "set [uri]",
	PreRunE: func(_ *cobra.Command, args []string) error {
		if len(args) != 1 {
			return ErrInvalidArgs
		}
		return nil
	},
	RunE: func(_ *cobra.Command, args []string) error {
		return handler.SetEndpoint(context.Background(), args[0])
	},
}

var actionCmd = &cobra.Command{
	Use: "action",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var initializeCmd = &cobra.Command{
	Use:   "initialize",
	Short: "Create the counter of the default key",
	RunE: func(*cobra.Command, []string) error {
		return handler.Initialize(context.Background())
	},
}

var incrementCmd = &cobra.Command{
	Use:   "increment",
	Short: "Add one to the counter of the default key",
	RunE: func(*cobra.Command, []string) error {
		return handler.Increment(context.Background())
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Set the count of the default key's counter to zero",
	RunE: func(*cobra.Command, []string) error {
		return handler.Reset(context.Background(), forceReset)
	},
}

func optionalOwner(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func maxOneArg(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return ErrInvalidArgs
	}
	return nil
}

var getCmd = &cobra.Command{
	Use:     "get [owner]",
	Short:   "Read a counter (defaults to the default key)",
	PreRunE: maxOneArg,
	RunE: func(_ *cobra.Command, args []string) error {
		_, err := handler.Counter(context.Background(), optionalOwner(args))
		return err
	},
}

var locationCmd = &cobra.Command{
	Use:     "location [owner]",
	Short:   "Derive where a counter is stored",
	PreRunE: maxOneArg,
	RunE: func(_ *cobra.Command, args []string) error {
		return handler.CounterAddress(context.Background(), optionalOwner(args))
	},
}

var watchCmd = &cobra.Command{
	Use:     "watch [owner]",
	Short:   "Stream executed results",
	PreRunE: maxOneArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		return handler.Watch(cmd.Context(), optionalOwner(args), watchAll)
	},
}
