package commands

import (
	"fmt"

	"github.com/benvon/morning-affirmations/internal/selector"
	"github.com/benvon/morning-affirmations/internal/services/curation"
	"github.com/spf13/cobra"
)

func newAvailableCmd(opts *globalOptions) *cobra.Command {
	var theme string
	cmd := &cobra.Command{
		Use:   "available",
		Short: "Count the content available for a theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := curation.ParseTheme(theme)
			if err != nil {
				return err
			}
			categories, err := opts.videoCategories()
			if err != nil {
				return err
			}

			snap := opts.loadContent()
			if parsed == "" {
				parsed = snap.DefaultTheme()
			}
			sel := selector.New(selector.WithCategories(categories))
			available := sel.AvailableContent(snap.ActiveAffirmations(), snap.ActiveVideos(), parsed)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Theme: %s\n", parsed)
			fmt.Fprintf(out, "  Affirmations: %d\n", available.AffirmationsCount)
			fmt.Fprintf(out, "  Videos: %d\n", available.VideosCount)
			for _, category := range sel.Categories() {
				fmt.Fprintf(out, "    %-16s %d\n", category, available.CategoryCounts[category])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "theme to count (default: the app default theme)")
	return cmd
}
