package cli

import (
	"fmt"

	"github.com/hupe1980/agentmesh/model/openai"
	"github.com/spf13/cobra"

	"github.com/calliope-ai/revpanel/internal/api"
	"github.com/calliope-ai/revpanel/internal/config"
	"github.com/calliope-ai/revpanel/internal/panel"
	"github.com/calliope-ai/revpanel/internal/sessionstore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the panel review engine.

Endpoints:
  GET  /health      — Health check
  POST /api/review  — Run a panel review on submitted code
  GET  /api/ws      — WebSocket streaming a review's classified events`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "127.0.0.1", "address to listen on")
	serveCmd.Flags().IntP("port", "p", 6143, "port to listen on")
	serveCmd.Flags().StringP("model", "m", "", "chat model for all personas (default from env)")
	serveCmd.Flags().BoolP("verbose", "v", false, "debug logging")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.Model = v
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

	addr, _ := cmd.Flags().GetString("addr")
	port, _ := cmd.Flags().GetInt("port")

	listen := fmt.Sprintf("%s:%d", addr, port)
	srv := api.New(listen, driver)
	return srv.ListenAndServe()
}
