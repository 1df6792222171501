package commands

import (
	"fmt"
	"time"

	"github.com/benvon/morning-affirmations/internal/database"
	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/spf13/cobra"
)

func newStatsCmd(opts *globalOptions) *cobra.Command {
	var (
		limit int
		kinds []string
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the most selected content",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedKinds, err := parseKinds(kinds)
			if err != nil {
				return err
			}
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}

			db, _, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			stats, err := database.NewSelectionStatisticsRepository(db).Top(cmd.Context(), parsedKinds, limit)
			if err != nil {
				return fmt.Errorf("load statistics: %w", err)
			}
			printStats(cmd, stats)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of rows")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "content kinds to include (affirmation, video, welcome)")
	return cmd
}

func parseKinds(raw []string) ([]models.ContentKind, error) {
	var out []models.ContentKind
	for _, k := range raw {
		kind, err := models.ParseContentKind(k)
		if err != nil {
			return nil, err
		}
		out = append(out, kind)
	}
	return out, nil
}

func printStats(cmd *cobra.Command, stats []*models.SelectionStatistic) {
	out := cmd.OutOrStdout()
	if len(stats) == 0 {
		fmt.Fprintln(out, "No selections recorded")
		return
	}
	fmt.Fprintf(out, "%-12s %-32s %8s  %s\n", "KIND", "CONTENT", "COUNT", "LAST SELECTED")
	for _, s := range stats {
		fmt.Fprintf(out, "%-12s %-32s %8d  %s\n", s.Kind, s.ContentID, s.SelectionCount, s.LastSelectedAt.Format(time.RFC3339))
	}
}
