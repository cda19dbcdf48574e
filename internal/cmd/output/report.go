// Package output provides common output formatting utilities for CLI commands.
package output

import (
	"io"
	"os"
	"time"

	"github.com/crosscheckhq/crosscheck/internal/cmd/globals"
	"github.com/crosscheckhq/crosscheck/pkg/diff"
)

// Report is the serializable difference report, the shape emitted for
// json and yaml output.
type Report struct {
	RunID       string        `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time     `json:"generated_at" yaml:"generated_at"`
	Summary     ReportSummary `json:"summary" yaml:"summary"`
	Differences []ReportEntry `json:"differences" yaml:"differences"`
}

// ReportSummary mirrors the diff summary with stable field names.
type ReportSummary struct {
	Total       int            `json:"total" yaml:"total"`
	MissingInA  int            `json:"missing_in_a" yaml:"missing_in_a"`
	MissingInB  int            `json:"missing_in_b" yaml:"missing_in_b"`
	ByDimension map[string]int `json:"by_dimension" yaml:"by_dimension"`
}

// ReportEntry is one reported discrepancy. Key is the human-readable
// rendering of the entry's fact key, matching the tuples exception
// tables are written against.
type ReportEntry struct {
	Key       string `json:"key" yaml:"key"`
	Dimension string `json:"dimension" yaml:"dimension"`
	EntityKey string `json:"entity_key" yaml:"entity_key"`
	Attribute string `json:"attribute" yaml:"attribute"`
	Value     string `json:"value" yaml:"value"`
	MissingIn string `json:"missing_in" yaml:"missing_in"`
	Comment1  string `json:"comment_1,omitempty" yaml:"comment_1,omitempty"`
	Comment2  string `json:"comment_2,omitempty" yaml:"comment_2,omitempty"`
}

// NewReport builds a Report from a diff set, applying any report flags.
func NewReport(runID string, set *diff.Set, reportFlags *globals.ReportFlags) Report {
	report := Report{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
	}
	for _, e := range set.Entries {
		if reportFlags != nil {
			if reportFlags.Dimension != "" && e.Dimension != reportFlags.Dimension {
				continue
			}
			if reportFlags.Attribute != "" && e.Attribute != reportFlags.Attribute {
				continue
			}
			if reportFlags.Limit > 0 && len(report.Differences) >= reportFlags.Limit {
				break
			}
		}
		report.Differences = append(report.Differences, ReportEntry{
			Key:       e.DisplayKey(),
			Dimension: e.Dimension,
			EntityKey: e.EntityKey,
			Attribute: e.Attribute,
			Value:     e.Value,
			MissingIn: string(e.MissingIn),
			Comment1:  e.Comment1,
			Comment2:  e.Comment2,
		})
	}
	report.recalculate()
	return report
}

func (r *Report) recalculate() {
	summary := ReportSummary{ByDimension: make(map[string]int)}
	for _, e := range r.Differences {
		summary.Total++
		summary.ByDimension[e.Dimension]++
		if e.MissingIn == string(diff.SideA) {
			summary.MissingInA++
		} else {
			summary.MissingInB++
		}
	}
	r.Summary = summary
}

// TableData renders the report's differences for table and csv output.
func (r Report) TableData() Data {
	rows := make([][]string, 0, len(r.Differences))
	for _, e := range r.Differences {
		rows = append(rows, []string{
			e.Dimension, e.EntityKey, e.Attribute, e.Value,
			e.MissingIn, e.Comment1, e.Comment2,
		})
	}
	return Data{
		Headers: []string{"Dimension", "Entity", "Attribute", "Value",
			"Missing In", "Comment 1", "Comment 2"},
		Rows: rows,
	}
}

// FormatReport handles the common pattern of formatting a difference
// report for output. Table and csv formats emit the tabular entries;
// json and yaml emit the full report with run metadata.
func FormatReport(report Report, globalFlags *globals.Flags) error {
	return WriteReport(os.Stdout, report, globalFlags)
}

// WriteReport formats the report to an arbitrary writer.
func WriteReport(w io.Writer, report Report, globalFlags *globals.Flags) error {
	format := DetectFormat(globalFlags.Output)
	formatter := NewFormatter(format)

	var outputData any
	switch format {
	case FormatTable, FormatCSV:
		outputData = report.TableData()
	default:
		outputData = report
	}

	return formatter.Format(w, outputData)
}
