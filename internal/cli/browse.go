package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/calliope-ai/revpanel/internal/config"
	"github.com/calliope-ai/revpanel/internal/report"
	"github.com/calliope-ai/revpanel/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse saved reviews in an interactive viewer",
	Long: `Open an interactive TUI over the reviews directory. Each saved review
shows its junior, senior, manager and planner reports side by side.`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().String("reviews-dir", config.DefaultReviewsDir, "root directory of saved reviews")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("reviews-dir")
	if v := os.Getenv("REVPANEL_REVIEWS_DIR"); v != "" && !cmd.Flags().Changed("reviews-dir") {
		root = v
	}

	reviews, err := report.ListReviews(root)
	if err != nil {
		return fmt.Errorf("listing reviews: %w", err)
	}
	if len(reviews) == 0 {
		fmt.Printf("No saved reviews under %s.\n", root)
		return nil
	}

	return tui.Run(reviews)
}
