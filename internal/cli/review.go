package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hupe1980/agentmesh/core"
	"github.com/hupe1980/agentmesh/logging"
	"github.com/hupe1980/agentmesh/model/openai"
	"github.com/spf13/cobra"

	"github.com/calliope-ai/revpanel/internal/config"
	"github.com/calliope-ai/revpanel/internal/panel"
	"github.com/calliope-ai/revpanel/internal/sessionstore"
)

var reviewCmd = &cobra.Command{
	Use:   "review <instruction> <file>",
	Short: "Run a panel review of a source file",
	Long: `Run the scripted three-persona review over one file. The manager agent
calls the junior and senior developer agents as tools, then produces a unified
summary. Non-empty persona buckets are saved under the reviews directory.

Examples:
  revpanel review "Please review this code" ./handlers/auth.go
  revpanel review "Focus on error handling" main.py --session auth-work
  revpanel review "Quick sanity pass" util.ts --fresh`,
	Args: cobra.ExactArgs(2),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringP("model", "m", "", "chat model for all personas (default from env)")
	reviewCmd.Flags().StringP("session", "s", "", "conversation session key (reuse accumulates history)")
	reviewCmd.Flags().Bool("fresh", false, "use a throwaway session key for this run")
	reviewCmd.Flags().String("reviews-dir", "", "root directory for generated reports")
	reviewCmd.Flags().String("state-dir", "", "directory for the session store")
	reviewCmd.Flags().Duration("timeout", 5*time.Minute, "overall run timeout (0 = none)")
	reviewCmd.Flags().BoolP("verbose", "v", false, "debug logging")
}

func runReview(cmd *cobra.Command, args []string) error {
	instruction, filePath := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	if fresh, _ := cmd.Flags().GetBool("fresh"); fresh {
		cfg.SessionID = "review-" + core.NewID()
	}

	logger := newLogger(cmd)

	store, err := sessionstore.NewFileStore(cfg.StateDir)
	if err != nil {
		return err
	}

	llm := openai.NewModel(func(o *openai.Options) {
		o.Model = cfg.Model
	})

	driver := panel.New(cfg, llm, func(o *panel.Options) {
		o.Logger = logger
		o.SessionStore = store
	})

	ctx := cmd.Context()
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	fmt.Fprintf(os.Stderr, "Reviewing %s (session %s, model %s)\n", filePath, cfg.SessionID, cfg.Model)

	res, err := driver.Run(ctx, instruction, filePath)
	if err != nil {
		var fae *panel.FileAccessError
		if errors.As(err, &fae) {
			return fmt.Errorf("input error: %w", fae)
		}
		return err
	}

	if res.Final != "" {
		fmt.Println(res.Final)
	} else {
		fmt.Fprintln(os.Stderr, "The manager produced no final answer.")
	}

	if len(res.MissingTools) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: manager did not call all required tools; missing %v\n", res.MissingTools)
	}

	if res.WriteErr != nil {
		return res.WriteErr
	}

	var failed int
	for _, r := range res.Reports {
		switch {
		case r.Skipped:
			// empty bucket, nothing captured
		case r.Err != nil:
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s review not saved: %v\n", r.Bucket, r.Err)
		default:
			fmt.Fprintf(os.Stderr, "✓ %s review saved to %s\n", r.Bucket, r.Path)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d report(s) could not be written", failed)
	}

	return nil
}

// applyFlags lets explicit flags override environment configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.Model = v
	}
	if v, _ := cmd.Flags().GetString("session"); v != "" {
		cfg.SessionID = v
	}
	if v, _ := cmd.Flags().GetString("reviews-dir"); v != "" {
		cfg.ReviewsDir = v
	}
	if v, _ := cmd.Flags().GetString("state-dir"); v != "" {
		cfg.StateDir = v
	}
}

func newLogger(cmd *cobra.Command) logging.Logger {
	level := logging.LogLevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = logging.LogLevelDebug
	}
	return logging.NewSlogLogger(level, "text", false)
}
