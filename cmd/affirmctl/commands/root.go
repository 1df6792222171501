package commands

import (
	"os"
	"strings"

	"github.com/benvon/morning-affirmations/internal/catalog"
	"github.com/benvon/morning-affirmations/internal/logger"
	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	contentDir string
	categories []string
	verbose    bool
}

// NewRootCmd creates the affirmctl root command with every subcommand attached
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "affirmctl",
		Short:         "Operations tool for the Morning Affirmations service",
		Long:          "CLI tool for validating content, previewing selections and managing locks and statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.contentDir, "content-dir", envOr("CONTENT_DIR", "data"), "content directory")
	rootCmd.PersistentFlags().StringSliceVar(&opts.categories, "categories", defaultCategories(), "ordered video categories")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "show debug logging")

	rootCmd.AddCommand(newValidateCmd(opts))
	rootCmd.AddCommand(newAvailableCmd(opts))
	rootCmd.AddCommand(newPreviewCmd(opts))
	rootCmd.AddCommand(newMigrateCmd(opts))
	rootCmd.AddCommand(newLocksCmd(opts))
	rootCmd.AddCommand(newStatsCmd(opts))
	return rootCmd
}

func (o *globalOptions) logger() *zap.Logger {
	l, err := logger.NewCLILogger(o.verbose)
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func (o *globalOptions) videoCategories() ([]models.VideoCategory, error) {
	return models.ParseVideoCategories(o.categories)
}

// loadContent loads the content directory, substituting defaults for broken files
func (o *globalOptions) loadContent() *catalog.Snapshot {
	return catalog.LoadWithFallback(o.contentDir, o.logger())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// defaultCategories honors VIDEO_CATEGORIES so the CLI previews what the server serves
func defaultCategories() []string {
	if raw := os.Getenv("VIDEO_CATEGORIES"); raw != "" {
		var out []string
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out
	}
	var out []string
	for _, c := range models.DefaultVideoCategories() {
		out = append(out, string(c))
	}
	return out
}
