package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/crosscheckhq/crosscheck/internal/cmd/globals"
	"github.com/crosscheckhq/crosscheck/internal/cmd/output"
	"github.com/crosscheckhq/crosscheck/internal/rules"
	"github.com/crosscheckhq/crosscheck/internal/sources"
	"github.com/crosscheckhq/crosscheck/pkg/constants"
	"github.com/crosscheckhq/crosscheck/pkg/diff"
	"github.com/crosscheckhq/crosscheck/pkg/errors"
	"github.com/crosscheckhq/crosscheck/pkg/exceptions"
	"github.com/crosscheckhq/crosscheck/pkg/logging"
	"github.com/crosscheckhq/crosscheck/pkg/pipeline"
	"github.com/crosscheckhq/crosscheck/pkg/tables"
)

var (
	rulesetPath    string
	exceptionsPath string
	sheetA         string
	sheetB         string
	outFile        string
	failOnDiff     bool
)

// compareCmd represents the compare command.
var compareCmd = &cobra.Command{
	Use:   "compare <side-a> <side-b>",
	Short: "Reconcile two tabular exports",
	Long: `Compare two tabular exports of the same records and report every
attribute value that is missing from, or disagrees with, the other side.

Both .csv and .xlsx inputs are supported; the format is chosen by file
extension. The ruleset file configures how each side is normalized:
dimension mapping, entity column, attribute allow-list, and value
transforms. Differences already accepted by the business are suppressed
with an exception table.

Examples:
  crosscheck compare ledger.csv export.xlsx --ruleset rules.yaml
  crosscheck compare a.xlsx b.xlsx --ruleset rules.yaml --sheet-a Accounts --sheet-b Sheet1
  crosscheck compare a.csv b.csv --ruleset rules.yaml --exceptions known.csv -o json`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVarP(&rulesetPath, "ruleset", "r", "",
		"Ruleset YAML configuring both sides (required); transforms: "+
			strings.Join(rules.TransformNames(), ", "))
	compareCmd.Flags().StringVarP(&exceptionsPath, "exceptions", "e", "",
		"Exception table suppressing known differences")
	compareCmd.Flags().StringVar(&sheetA, "sheet-a", "",
		"Worksheet name for side A (xlsx only; defaults to the first sheet)")
	compareCmd.Flags().StringVar(&sheetB, "sheet-b", "",
		"Worksheet name for side B (xlsx only; defaults to the first sheet)")
	compareCmd.Flags().StringVar(&outFile, "out-file", "",
		"Write the report to a file instead of stdout")
	compareCmd.Flags().BoolVar(&failOnDiff, "fail-on-diff", false,
		"Exit non-zero when differences remain after suppression")
	_ = compareCmd.MarkFlagRequired("ruleset")

	globals.AddReportFlags(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	logger := logging.Default()

	flags, err := globals.Parse(cmd)
	if err != nil {
		return err
	}

	ruleset, err := rules.Load(rulesetPath)
	if err != nil {
		return err
	}

	normA, err := ruleset.Sides.A.Normalizer(logger)
	if err != nil {
		return err
	}
	normB, err := ruleset.Sides.B.Normalizer(logger)
	if err != nil {
		return err
	}

	sideA, err := loadTable(args[0], sheetA)
	if err != nil {
		return err
	}
	sideB, err := loadTable(args[1], sheetB)
	if err != nil {
		return err
	}

	var rulemap map[string]exceptions.Rule
	if exceptionsPath != "" {
		rulemap, err = sources.ReadExceptions(exceptionsPath)
		if err != nil {
			return err
		}
		logger.Info().Int("rules", len(rulemap)).Str("file", exceptionsPath).
			Msg("loaded exception table")
	}

	runID := uuid.NewString()
	p := pipeline.New(normA, normB,
		pipeline.WithDiffer(diff.New(diff.WithIgnoredAttributes(ruleset.IgnoreAttributes...))),
		pipeline.WithExceptions(rulemap),
		pipeline.WithLogger(logger),
		pipeline.WithRunID(runID),
	)

	ctx, cancel := context.WithTimeout(cmd.Context(), constants.CommandTimeout)
	defer cancel()

	result, err := p.Run(ctx, sideA, sideB)
	if err != nil {
		return err
	}

	report := output.NewReport(runID, result, globals.ParseReport(cmd))
	if err := writeReport(report, flags); err != nil {
		return err
	}

	if failOnDiff && report.Summary.Total > 0 {
		cmd.SilenceUsage = true
		return errors.New("differences detected")
	}
	return nil
}

// writeReport emits the report to stdout, or to --out-file when set.
func writeReport(report output.Report, flags *globals.Flags) error {
	if outFile == "" {
		return output.FormatReport(report, flags)
	}
	if dir := filepath.Dir(outFile); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("mkdir", dir, err)
		}
	}
	f, err := os.OpenFile(outFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", outFile, err)
	}
	defer f.Close()
	if err := output.WriteReport(f, report, flags); err != nil {
		return errors.WrapIO("write", outFile, err)
	}
	return nil
}

// loadTable reads a tabular input, choosing the reader by extension.
func loadTable(path, sheet string) (*tables.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return sources.ReadCSV(path)
	case ".xlsx", ".xlsm":
		return sources.ReadXLSX(path, sheet)
	default:
		return nil, errors.NewConfigError("compare",
			"unsupported input format for "+path+" (expected .csv or .xlsx)", nil)
	}
}
