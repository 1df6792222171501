package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/benvon/morning-affirmations/internal/selector"
	"github.com/benvon/morning-affirmations/internal/services/curation"
	"github.com/benvon/morning-affirmations/internal/validation"
	"github.com/spf13/cobra"
)

func newPreviewCmd(opts *globalOptions) *cobra.Command {
	var (
		theme string
		at    string
		count int
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview a run of selections for a theme",
		Long:  "Select content count times in a row from a fresh history, as one visitor refreshing the page would see it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := curation.ParseTheme(theme)
			if err != nil {
				return err
			}
			if count <= 0 {
				return fmt.Errorf("--count must be positive")
			}
			categories, err := opts.videoCategories()
			if err != nil {
				return err
			}

			now := time.Now()
			if at != "" {
				minutes, err := validation.ParseClockMinutes(at)
				if err != nil {
					return err
				}
				now = time.Date(now.Year(), now.Month(), now.Day(), minutes/60, minutes%60, 0, 0, now.Location())
			}

			snap := opts.loadContent()
			if parsed == "" {
				parsed = snap.DefaultTheme()
			}
			sel := selector.New(selector.WithCategories(categories), selector.WithLogger(opts.logger()))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Theme: %s at %s\n", parsed, now.Format("15:04"))
			for i := 1; i <= count; i++ {
				fmt.Fprintf(out, "#%d\n", i)
				affirmation, err := sel.SelectAffirmation(snap.ActiveAffirmations(), parsed)
				switch {
				case errors.Is(err, selector.ErrNoContent):
					fmt.Fprintln(out, "  affirmation: (none available)")
				case err != nil:
					return err
				default:
					fmt.Fprintf(out, "  affirmation: [%s] %s\n", affirmation.ID, affirmation.Text)
				}
				for _, entry := range sel.SelectVideos(snap.ActiveVideos(), parsed) {
					fmt.Fprintf(out, "  video %-16s [%s] %s\n", entry.Category+":", entry.Video.ID, entry.Video.Title)
				}
				welcome := sel.SelectWelcome(snap.WelcomeSets, parsed, now)
				fmt.Fprintf(out, "  welcome: %s\n", welcome.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "theme to preview (default: the app default theme)")
	cmd.Flags().StringVar(&at, "at", "", "wall-clock time HH:MM for the welcome message (default: now)")
	cmd.Flags().IntVar(&count, "count", 3, "number of selections")
	return cmd
}
