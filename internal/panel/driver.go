package panel

import (
	"context"
	"fmt"
	"os"

	"github.com/hupe1980/agentmesh"
	"github.com/hupe1980/agentmesh/core"
	"github.com/hupe1980/agentmesh/logging"
	"github.com/hupe1980/agentmesh/model"

	"github.com/calliope-ai/revpanel/internal/config"
	"github.com/calliope-ai/revpanel/internal/report"
	"github.com/calliope-ai/revpanel/internal/trace"
)

// FileAccessError reports that the review input could not be read. When the
// driver returns one, nothing was written and the runtime was never invoked.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// Options configures a Driver beyond its Config.
type Options struct {
	// Logger receives runtime and audit diagnostics. Defaults to NoOp.
	Logger logging.Logger
	// SessionStore backs the conversation history keyed by Config.SessionID.
	// Defaults to agentmesh's in-memory store.
	SessionStore core.SessionStore
}

// Driver runs one panel review per call: it reads the input, hands a single
// combined request to the runtime, classifies the returned event trace,
// audits tool usage and persists the bucketed reports.
type Driver struct {
	mesh   *agentmesh.AgentMesh
	cfg    *config.Config
	logger logging.Logger
}

// New builds a Driver around the given model. The manager agent and its
// persona tools are registered on a fresh mesh instance.
func New(cfg *config.Config, llm model.Model, optFns ...func(o *Options)) *Driver {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	mesh := agentmesh.New(func(o *agentmesh.Options) {
		o.Logger = opts.Logger
		if opts.SessionStore != nil {
			o.SessionStore = opts.SessionStore
		}
	})
	mesh.RegisterAgent(NewManager(llm))

	return &Driver{mesh: mesh, cfg: cfg, logger: opts.Logger}
}

// Result is the outcome of one review run.
type Result struct {
	Final          string // the manager's user-facing answer
	Classification *trace.Classification
	MissingTools   []string        // required tools the manager never called
	Reports        []report.Result // per-bucket write outcomes (Run only)
	ReviewDir      string          // directory reports were written to (Run only)
	WriteErr       error           // review directory could not be created (Run only)
}

// Run reviews the file at filePath and persists the bucketed reports. An
// unreadable file aborts the run before the runtime is invoked.
func (d *Driver) Run(ctx context.Context, instruction, filePath string) (*Result, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, &FileAccessError{Path: filePath, Err: err}
	}

	res, err := d.Review(ctx, instruction, filePath, string(content))
	if err != nil {
		return nil, err
	}

	cls := res.Classification
	res.ReviewDir = report.Dir(d.cfg.ReviewsDir, filePath)
	res.Reports, res.WriteErr = report.Write(res.ReviewDir, report.Buckets(
		cls.JuniorNotes, cls.SeniorNotes, cls.ManagerNotes, cls.PlanningNotes,
	))
	return res, nil
}

// Review runs the panel over already-loaded content without writing reports.
// The HTTP API uses this directly.
func (d *Driver) Review(ctx context.Context, instruction, filename, content string) (*Result, error) {
	input := BuildPrompt(instruction, filename, content)

	d.logger.Info("panel.run.start", "session_id", d.cfg.SessionID, "file", filename)

	_, events, err := d.mesh.InvokeSync(ctx, d.cfg.SessionID, ManagerAgentName, userContent(input))
	if err != nil {
		return nil, fmt.Errorf("panel run failed: %w", err)
	}

	records := trace.FromEvents(events, ManagerAgentName)
	cls := trace.Classify(records)

	missing := trace.Audit(cls.UsedTools, trace.RequiredTools)
	if len(missing) > 0 {
		d.logger.Warn("panel.audit.missing_tools", "missing", missing)
	}

	return &Result{
		Final:          trace.FinalAnswer(events, ManagerAgentName),
		Classification: cls,
		MissingTools:   missing,
	}, nil
}

// Stream starts a run and returns the raw runtime channels so callers can
// forward events as they happen. The WebSocket handler consumes this.
func (d *Driver) Stream(ctx context.Context, instruction, filename, content string) (<-chan core.Event, <-chan error, error) {
	input := BuildPrompt(instruction, filename, content)
	_, eventsCh, errorsCh, err := d.mesh.Invoke(ctx, d.cfg.SessionID, ManagerAgentName, userContent(input))
	if err != nil {
		return nil, nil, fmt.Errorf("panel run failed: %w", err)
	}
	return eventsCh, errorsCh, nil
}

func userContent(text string) core.Content {
	return core.Content{Role: "user", Parts: []core.Part{core.TextPart{Text: text}}}
}
