package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"cxxlint/internal/config"
	"cxxlint/internal/driver"
	"cxxlint/internal/errors"
	"cxxlint/internal/rewrite"
)

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [flags] <dump|directory>...",
		Short: "Rewrite reinterpret_cast from void pointers into static_cast",
		Long:  `Analyze the given dumps with rewriting enabled and apply the resulting edits to the C++ sources they describe. Other findings are reported as by check.`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runFix,
	}
	addAnalysisFlags(cmd)
	cmd.Flags().Bool("dry-run", false, "print the edits instead of applying them")
	return cmd
}

func runFix(cmd *cobra.Command, args []string) error {
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Rewrite = true

	results, err := analyze(cmd, cfg, args)
	if err != nil {
		return err
	}

	var edits []rewrite.FileEdit
	owners := make(map[rewrite.FileEdit][]string)
	failed := false
	for _, r := range results {
		for _, e := range r.Edits {
			edits = append(edits, e)
			owners[e] = append(owners[e], r.Path)
		}
		r.Edits = nil
		failed = failed || r.Err != nil || r.Malformed() || len(r.Diagnostics) > 0
	}

	out := cmd.OutOrStdout()
	writeText(out, results, true)

	if dryRun {
		for _, e := range edits {
			fmt.Fprintln(out, e)
		}
	} else {
		changes, skipped, err := rewrite.ApplyFiles(edits)
		if err != nil && !stderrors.Is(err, rewrite.ErrNoEdits) {
			return err
		}
		for _, c := range changes {
			fmt.Fprintf(out, "fixed %s (%d edits)\n", c.Path, c.EditCount)
		}
		for _, s := range skipped {
			fmt.Fprintf(out, "skipped %s: %s\n", s.Edit, s.Reason)
		}
		if len(skipped) > 0 {
			failed = true
			reportSkipped(out, cfg, owners, skipped)
		}
	}
	if failed {
		return errFindings
	}
	return nil
}

// reportSkipped analyzes the dumps owning skipped edits again without
// rewriting and prints the findings those edits would have resolved.
// Identical edits from several dumps are applied in input order, so a
// skipped one belongs to the last owner not yet accounted for.
func reportSkipped(out io.Writer, cfg *config.Config, owners map[rewrite.FileEdit][]string, skipped []rewrite.SkippedEdit) {
	lines := make(map[string]map[int]bool)
	var dumps []string
	for _, s := range skipped {
		paths := owners[s.Edit]
		if len(paths) == 0 {
			continue
		}
		dump := paths[len(paths)-1]
		owners[s.Edit] = paths[:len(paths)-1]
		if lines[dump] == nil {
			lines[dump] = make(map[int]bool)
			dumps = append(dumps, dump)
		}
		lines[dump][s.Edit.Line] = true
	}
	sort.Strings(dumps)

	plain := *cfg
	plain.Rewrite = false
	for _, dump := range dumps {
		r := driver.AnalyzeFile(dump, &plain, nil)
		if r.Err != nil {
			fmt.Fprintf(out, "%s: %v\n", dump, r.Err)
			continue
		}
		reporter := errors.NewReporter(r.Sources).ShowChecks(true)
		for _, d := range r.Diagnostics {
			if d.Code == errors.WarningReinterpretCastFromVoidPointer && lines[dump][d.Position.Line] {
				fmt.Fprint(out, reporter.FormatDiagnostic(d))
			}
		}
	}
}
