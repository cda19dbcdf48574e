package globals

import "github.com/spf13/cobra"

// ReportFlags holds flags that narrow a difference report.
type ReportFlags struct {
	Dimension string
	Attribute string
	Limit     int
}

// ParseReport extracts report flags from a command.
// The command must have had AddReportFlags called on it, otherwise this will panic.
func ParseReport(cmd *cobra.Command) *ReportFlags {
	return &ReportFlags{
		Dimension: mustGetString(cmd, "dimension"),
		Attribute: mustGetString(cmd, "attribute"),
		Limit:     mustGetInt(cmd, "limit"),
	}
}

// AddReportFlags adds report-narrowing flags to a command.
func AddReportFlags(cmd *cobra.Command) *ReportFlags {
	flags := &ReportFlags{}

	cmd.Flags().StringVarP(&flags.Dimension, "dimension", "d", "",
		"Only report differences in this dimension")
	cmd.Flags().StringVar(&flags.Attribute, "attribute", "",
		"Only report differences in this attribute")
	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", 0,
		"Limit number of reported differences")

	return flags
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetInt retrieves an integer flag value or panics if the flag doesn't exist.
func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
