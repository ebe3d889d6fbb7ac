// SPDX-License-Identifier: Apache-2.0
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"golang.org/x/term"

	"cxxlint/internal/config"
)

// errFindings makes the process exit with status 1 without printing
// anything more; the findings have been reported already.
var errFindings = errors.New("findings reported")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cxxlint",
		Short:         "Static checks over C++ AST dumps",
		Long:          `cxxlint reads AST dumps of C++ translation units and reports redundant casts, fat parameters passed by value and comma operator misuse.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbosity, err := cmd.Flags().GetCount("verbose")
			if err != nil {
				return err
			}
			logFile, err := cmd.Flags().GetString("log-file")
			if err != nil {
				return err
			}
			if logFile != "" {
				commonlog.Configure(verbosity, &logFile)
			} else {
				commonlog.Configure(verbosity, nil)
			}

			mode, err := cmd.Flags().GetString("color")
			if err != nil {
				return err
			}
			return setColor(mode, cmd.OutOrStdout())
		},
	}

	root.PersistentFlags().String("config", "", "configuration file (default: cxxlint.toml or .cxxlint.yaml found upwards)")
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().CountP("verbose", "v", "log more; repeat for debug output")
	root.PersistentFlags().String("log-file", "", "write logs to this file instead of stderr")

	root.AddCommand(newCheckCmd(), newFixCmd(), newDumpCmd(), newReplCmd(), newVersionCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errFindings) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "cxxlint:", err)
		os.Exit(2)
	}
}

func setColor(mode string, out io.Writer) error {
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		f, ok := out.(*os.File)
		color.NoColor = !ok || !isTerminal(f) || os.Getenv("NO_COLOR") != ""
	default:
		return fmt.Errorf("unknown color mode %q (must be auto, on or off)", mode)
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}

// loadConfig reads the --config file, or the configuration found from the
// working directory, and applies the command line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	var cfg *config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOrDefault(".")
	}
	if err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("enable"); f != nil {
		enable, _ := cmd.Flags().GetStringSlice("enable")
		disable, _ := cmd.Flags().GetStringSlice("disable")
		for _, name := range enable {
			if err := cfg.SetEnabled(name, true); err != nil {
				return nil, err
			}
		}
		for _, name := range disable {
			if err := cfg.SetEnabled(name, false); err != nil {
				return nil, err
			}
		}
	}
	if f := cmd.Flags().Lookup("jobs"); f != nil && f.Changed {
		jobs, err := cmd.Flags().GetInt("jobs")
		if err != nil {
			return nil, err
		}
		cfg.Jobs = jobs
	}
	return cfg, cfg.Validate()
}
