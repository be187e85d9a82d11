package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spigell/ats-insights/internal/ats"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the section scorers and factor rules",
	Run: func(cmd *cobra.Command, _ []string) {
		printRules(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func printRules(out io.Writer) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "SECTION\tENABLED\tDETAILS")
	for _, status := range ats.Describe(ats.DefaultScorers()) {
		fmt.Fprintf(w, "%s\t%t\t%s\n", status.Name, status.Enabled, formatDetails(status.Details))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "FACTOR RULE\tCONDITION\tIMPACT\tCATEGORY")
	for _, rule := range ats.DefaultFactorRules {
		// Impact and category do not depend on the section or its score.
		sample := rule.Build(ats.SectionContact, ats.SectionScore{MaxScore: ats.MaxSectionScore})
		fmt.Fprintf(w, "%s\t%s\t%+d\t%s\n", rule.Name, rule.Condition, sample.Impact, sample.Category)
	}

	w.Flush()
}

func formatDetails(details map[string]string) string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+details[k])
	}
	return strings.Join(parts, " ")
}
