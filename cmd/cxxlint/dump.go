package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cxxlint/grammar"
	"cxxlint/internal/parser"
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [flags] <dump>",
		Short: "Print a dump as cxxlint understands it",
		Long: `Print the lowered translation unit of a dump (ast), the dump itself in
canonical layout (canonical), or the node ids and parent links assigned
during lowering (metadata).`,
		Args: cobra.ExactArgs(1),
		RunE: runDump,
	}
	cmd.Flags().String("format", "ast", "what to print (ast|canonical|metadata)")
	return cmd
}

func runDump(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	path := args[0]
	out := cmd.OutOrStdout()

	if format == "canonical" {
		dump, err := grammar.ParseFile(path)
		if err != nil {
			return err
		}
		fmt.Fprint(out, dump.String())
		return nil
	}
	if format != "ast" && format != "metadata" {
		return fmt.Errorf("unknown format %q (must be ast, canonical or metadata)", format)
	}

	res, err := parser.ParseFile(path)
	if err != nil {
		return err
	}
	if res.HasErrors() {
		for _, e := range res.Errors {
			fmt.Fprintln(cmd.ErrOrStderr(), e)
		}
		return errFindings
	}
	if format == "metadata" {
		fmt.Fprint(out, res.GetDebugInfo())
		return nil
	}
	fmt.Fprintln(out, res.Unit.String())
	return nil
}
