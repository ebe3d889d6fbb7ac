package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"cxxlint/internal/config"
	"cxxlint/internal/driver"
	"cxxlint/internal/errors"
	"cxxlint/internal/rewrite"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <dump|directory>...",
		Short: "Analyze AST dumps and report findings",
		Long:  `Analyze the given .cxxast dumps, or every dump below the given directories, and report what the enabled checks find.`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheck,
	}
	addAnalysisFlags(cmd)
	cmd.Flags().String("format", "text", "output format (text|json)")
	cmd.Flags().Bool("show-checks", true, "append the check name to each finding")
	cmd.Flags().Bool("timings", false, "report how long the analysis took on stderr")
	return cmd
}

// addAnalysisFlags registers the flags shared by commands that analyze dumps.
func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().Int("jobs", 0, "max dumps analyzed in parallel (0=auto)")
	cmd.Flags().StringSlice("enable", nil, "enable checks by name")
	cmd.Flags().StringSlice("disable", nil, "disable checks by name")
	cmd.Flags().Bool("no-cache", false, "do not read or write the result cache")
	cmd.Flags().String("cache-dir", "", "result cache directory (overrides the configuration)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q (must be text or json)", format)
	}
	showChecks, err := cmd.Flags().GetBool("show-checks")
	if err != nil {
		return fmt.Errorf("failed to get show-checks flag: %w", err)
	}

	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	start := time.Now()
	results, err := analyze(cmd, cfg, args)
	if err != nil {
		return err
	}
	if timings {
		fmt.Fprintf(cmd.ErrOrStderr(), "checked %d dumps in %s\n", len(results), formatDuration(time.Since(start)))
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		err = writeJSON(out, results)
	} else {
		writeText(out, results, showChecks)
	}
	if err != nil {
		return err
	}
	if hasFindings(results) {
		return errFindings
	}
	return nil
}

// analyze collects the dumps named by args and runs the driver over them.
func analyze(cmd *cobra.Command, cfg *config.Config, args []string) ([]*driver.FileResult, error) {
	paths, err := driver.CollectDumps(args)
	if err != nil {
		return nil, err
	}
	cache, err := openCache(cmd, cfg)
	if err != nil {
		return nil, err
	}
	return driver.Run(cmd.Context(), paths, driver.Options{Config: cfg, Cache: cache})
}

func openCache(cmd *cobra.Command, cfg *config.Config) (*driver.Cache, error) {
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return nil, err
	}
	dir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return nil, err
	}
	if dir == "" {
		dir = cfg.Cache
	}
	if noCache || dir == "" {
		return nil, nil
	}
	return driver.OpenCache(dir)
}

func hasFindings(results []*driver.FileResult) bool {
	for _, r := range results {
		if r.Err != nil || len(r.Diagnostics) > 0 || len(r.Edits) > 0 {
			return true
		}
	}
	return false
}

func writeText(out io.Writer, results []*driver.FileResult, showChecks bool) {
	var all []errors.Diagnostic
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(out, "%s: %v\n", r.Path, r.Err)
			continue
		}
		errors.Sort(r.Diagnostics)
		reporter := errors.NewReporter(r.Sources).ShowChecks(showChecks)
		for _, d := range r.Diagnostics {
			fmt.Fprint(out, reporter.FormatDiagnostic(d))
		}
		for _, e := range r.Edits {
			fmt.Fprintf(out, "edit %s\n", e)
		}
		all = append(all, r.Diagnostics...)
	}
	if s := errors.Summary(all); s != "" {
		fmt.Fprintln(out, s)
	}
}

type jsonResult struct {
	Path        string              `json:"path"`
	Diagnostics []errors.Diagnostic `json:"diagnostics"`
	Edits       []rewrite.FileEdit  `json:"edits,omitempty"`
	Cached      bool                `json:"cached,omitempty"`
	Error       string              `json:"error,omitempty"`
}

func writeJSON(out io.Writer, results []*driver.FileResult) error {
	payload := make([]jsonResult, 0, len(results))
	for _, r := range results {
		jr := jsonResult{
			Path:        r.Path,
			Diagnostics: r.Diagnostics,
			Edits:       r.Edits,
			Cached:      r.Cached,
		}
		if jr.Diagnostics == nil {
			jr.Diagnostics = []errors.Diagnostic{}
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		payload = append(payload, jr)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1e6)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fµs", float64(d.Nanoseconds())/1e3)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
