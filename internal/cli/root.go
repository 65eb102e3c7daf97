// Package cli implements the revpanel command tree.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "revpanel",
	Short: "Scripted panel code reviews: junior, senior and manager agents",
	Long: `revpanel runs a scripted code review conversation between three agent
personas. A manager agent delegates to a junior and a senior developer agent,
collects their feedback, and produces a unified review. Each persona's output
is saved as a Markdown report under the reviews directory.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
