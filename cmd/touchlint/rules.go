package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"touchlint-hq/touchlint/pkg/lint/rules"
)

var rulesFlags struct {
	format string
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the built-in rules",
	Long: `List the built-in rules with their descriptions.

Examples:
  touchlint rules
  touchlint rules --format json`,
	Annotations: map[string]string{skipConfig: "true"},
	RunE:        listRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().StringVar(&rulesFlags.format, "format", "text", "output format: text, json")
}

func listRules(cmd *cobra.Command, args []string) error {
	all := rules.DefaultRegistry().All()
	out := cmd.OutOrStdout()

	switch rulesFlags.format {
	case "json":
		meta := make([]rules.Metadata, 0, len(all))
		for _, r := range all {
			meta = append(meta, r.Metadata())
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(meta)

	case "text":
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RULE\tTYPE\tDESCRIPTION")
		for _, r := range all {
			m := r.Metadata()
			fmt.Fprintf(w, "%s\t%s\t%s\n", m.Name, m.Type, m.Description)
		}
		return w.Flush()

	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", rulesFlags.format)
	}
}
