package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/comicvine/comicvine"
)

// presetsCmd represents the presets command
var presetsCmd = &cobra.Command{
	Use:   "presets [resource]",
	Short: "Show the configured filter presets",
	Long: `List the filter presets from the config file. Given a resource, fetch one page
of it and report how many objects each preset matches.`,
	Example: `  comicvine presets
  comicvine presets volumes --limit 100`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPresets,
}

func init() {
	rootCmd.AddCommand(presetsCmd)

	presetsCmd.Flags().IntVarP(&limit, "limit", "l", 0, "results per page (1-100, default from config)")
}

// presetSummary is one row of the presets output
type presetSummary struct {
	Name       string `json:"name" yaml:"name"`
	Expression string `json:"expression" yaml:"expression"`
	Matches    *int   `json:"matches,omitempty" yaml:"matches,omitempty"`
}

func runPresets(cmd *cobra.Command, args []string) error {
	names := filters.ListFilters()
	summaries := make([]presetSummary, 0, len(names))
	for _, name := range names {
		f, _ := filters.GetFilter(name)
		summaries = append(summaries, presetSummary{Name: name, Expression: f.Expression()})
	}

	total := -1
	if len(args) == 1 && len(summaries) > 0 {
		resource := comicvine.Resource(args[0])
		if !resource.Supported() {
			return fmt.Errorf("%w: %q", comicvine.ErrResourceNotSupported, resource)
		}

		list, err := client.List(cmd.Context(), resource, listParams())
		if err != nil {
			return err
		}

		matches, err := filters.EvaluateAll(cmd.Context(), list.Results)
		if err != nil {
			return err
		}

		total = list.Len()
		for i := range summaries {
			n := len(matches[summaries[i].Name])
			summaries[i].Matches = &n
		}
	}

	return newPrinter(cmd.OutOrStdout()).printPresets(summaries, total)
}
