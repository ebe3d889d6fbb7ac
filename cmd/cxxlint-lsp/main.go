// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"cxxlint/internal/config"
	"cxxlint/internal/lsp"
)

const lsName = "cxxlint"

var version = "dev"

var (
	verbosity  int
	logFile    string
	configFile string
)

var rootCmd = &cobra.Command{
	Use:          "cxxlint-lsp",
	Short:        "cxxlint language server over stdio",
	Version:      version,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runServer,
}

func init() {
	rootCmd.Flags().IntVar(&verbosity, "verbosity", 1, "log verbosity")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	rootCmd.Flags().StringVar(&configFile, "config", "", "configuration file used for every dump")
}

func runServer(cmd *cobra.Command, args []string) error {
	if logFile != "" {
		commonlog.Configure(verbosity, &logFile)
	} else {
		commonlog.Configure(verbosity, nil)
	}
	log := commonlog.GetLogger("cxxlint.lsp.main")

	var cfg *config.Config
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return err
		}
	}

	h := lsp.NewHandler(cfg)
	h.Name = lsName
	h.Version = version

	handler := protocol.Handler{
		Initialize:                     h.Initialize,
		Initialized:                    h.Initialized,
		Shutdown:                       h.Shutdown,
		SetTrace:                       h.SetTrace,
		TextDocumentDidOpen:            h.TextDocumentDidOpen,
		TextDocumentDidChange:          h.TextDocumentDidChange,
		TextDocumentDidSave:            h.TextDocumentDidSave,
		TextDocumentDidClose:           h.TextDocumentDidClose,
		TextDocumentSemanticTokensFull: h.TextDocumentSemanticTokensFull,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Infof("starting %s %s", lsName, version)
	return s.RunStdio()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
