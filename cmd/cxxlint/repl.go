package main

import (
	"fmt"
	"os/user"

	"github.com/spf13/cobra"

	"cxxlint/repl"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Analyze dump forms typed interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			name := "there"
			if u, err := user.Current(); err == nil {
				name = u.Username
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome to the cxxlint REPL, %s! Type :help for commands.\n", name)
			repl.Start(cmd.InOrStdin(), cmd.OutOrStdout(), cfg)
			return nil
		},
	}
}
