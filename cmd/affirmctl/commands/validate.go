package commands

import (
	"errors"
	"fmt"

	"github.com/benvon/morning-affirmations/internal/catalog"
	"github.com/spf13/cobra"
)

func newValidateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the content directory",
		Long:  "Check that every content file exists, parses and passes validation. Exits non-zero on the first problem.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			missing, err := catalog.CheckFiles(opts.contentDir)
			if err != nil {
				return err
			}
			if len(missing) > 0 {
				for _, name := range missing {
					fmt.Fprintf(out, "missing: %s\n", name)
				}
				return fmt.Errorf("%d content file(s) missing in %s", len(missing), opts.contentDir)
			}

			snap, err := catalog.Load(opts.contentDir)
			if err != nil {
				var dataErr *catalog.ContentDataError
				if errors.As(err, &dataErr) {
					fmt.Fprintf(out, "invalid: %s\n", dataErr.Path)
				}
				return err
			}

			fmt.Fprintf(out, "Content in %s is valid\n", opts.contentDir)
			fmt.Fprintf(out, "  Affirmations: %d (%d active)\n", len(snap.Affirmations), len(snap.ActiveAffirmations()))
			fmt.Fprintf(out, "  Videos: %d (%d active)\n", len(snap.Videos), len(snap.ActiveVideos()))
			fmt.Fprintf(out, "  Welcome message sets: %d\n", len(snap.WelcomeSets))
			fmt.Fprintf(out, "  Themes: %d (%d active)\n", len(snap.Themes), len(snap.ActiveThemes()))
			fmt.Fprintf(out, "  Default theme: %s\n", snap.DefaultTheme())
			return nil
		},
	}
}
