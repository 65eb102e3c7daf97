// Package panel wires the three scripted review personas — junior developer,
// senior developer, manager — into an AgentMesh agent graph and drives one
// review run end to end.
package panel

import (
	"context"
	"strings"
	"time"

	"github.com/hupe1980/agentmesh/agent"
	"github.com/hupe1980/agentmesh/core"
	"github.com/hupe1980/agentmesh/model"
	"github.com/hupe1980/agentmesh/tool"

	"github.com/calliope-ai/revpanel/internal/trace"
)

// ManagerAgentName is the root agent of the panel graph.
const ManagerAgentName = "manager_agent"

// How long a persona tool may spend on its model call.
const personaTimeout = 3 * time.Minute

const managerInstruction = `You are the manager.
Process for ANY code review request:
1. Call the ` + "`" + trace.JuniorToolName + "`" + ` tool. Ask it to review the code and list all questions it has.
2. Then call the ` + "`" + trace.SeniorToolName + "`" + ` tool. Pass along the junior's questions so they can be answered.
3. Finally, produce a single unified review for the user that:
   - summarizes junior concerns,
   - includes senior answers,
   - gives next steps.
IMPORTANT:
You MUST NOT produce a final answer until after you have called BOTH tools.
If you have not yet called both tools, you MUST call a tool instead of answering.
If you believe you can answer without tools, you are still REQUIRED to call both tools first.
Format your response to Markdown Style.
`

const juniorInstruction = `You are a junior developer. Your job is to review the code as a junior developer. Focus on providing peer-to-peer feedback, and ask questions about specific parts of the code. Ask as many questions as possible. Format your response to Markdown Style.
`

const seniorInstruction = `You are a senior developer. Your job is to review the code as a senior developer. Focus on the tech stack, and give insights as a senior developer to junior developer. Answer any questions asked by the junior. Be as critical as possible. Format your response to Markdown Style.`

// NewManager builds the manager agent with both persona tools registered.
// The personas are exposed as callable tools rather than transfer targets so
// the manager keeps the conversation and only delegates the review passes.
func NewManager(llm model.Model) *agent.ModelAgent {
	return agent.NewModelAgent(ManagerAgentName, llm, func(o *agent.ModelAgentOptions) {
		o.Instruction = agent.NewInstructionFromText(managerInstruction)
		o.EnableStreaming = false
		o.AllowTransfer = false
		o.ToolTimeout = personaTimeout
		o.Tools = map[string]tool.Tool{
			trace.JuniorToolName: newJuniorTool(llm),
			trace.SeniorToolName: newSeniorTool(llm),
		}
	})
}

func newJuniorTool(llm model.Model) *tool.FunctionTool {
	return tool.NewFunctionTool(
		trace.JuniorToolName,
		"Review the provided code as a junior developer and return:\n"+
			"1. A bullet list of concerns and questions.\n"+
			"2. Any unclear parts of the code.\n\n"+
			"Args:\n- code (string): full source code to review.\n"+
			"Return:\n- json-like text with 'questions' and 'comments'.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"code": map[string]any{"type": "string", "description": "Full source code to review"},
			},
			"required": []string{"code"},
		},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			return generate(toolCtx.Context(), llm, juniorInstruction, stringArg(args, "code"))
		},
	)
}

func newSeniorTool(llm model.Model) *tool.FunctionTool {
	return tool.NewFunctionTool(
		trace.SeniorToolName,
		"Given the same code and the "+trace.JuniorToolName+"'s questions, respond as a senior dev.\n"+
			"Args:\n- code (string): full source code.\n"+
			"- junior_feedback (string): the junior's questions/concerns.\n"+
			"Return:\n- guidance for fixes, architecture critique, answers.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"code":            map[string]any{"type": "string", "description": "Full source code"},
				"junior_feedback": map[string]any{"type": "string", "description": "The junior's questions and concerns"},
			},
			"required": []string{"code"},
		},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			input := stringArg(args, "code")
			if fb := stringArg(args, "junior_feedback"); fb != "" {
				input += "\n\nJunior developer feedback to answer:\n" + fb
			}
			return generate(toolCtx.Context(), llm, seniorInstruction, input)
		},
	)
}

// generate runs a single non-streaming persona completion and returns the
// concatenated text of the final response.
func generate(ctx context.Context, llm model.Model, instruction, input string) (string, error) {
	respCh, errCh := llm.Generate(ctx, model.Request{
		Instructions: instruction,
		Contents: []core.Content{
			{Role: "user", Parts: []core.Part{core.TextPart{Text: input}}},
		},
	})

	var sb strings.Builder
	for respCh != nil || errCh != nil {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case resp, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}
			if resp.Partial {
				continue
			}
			for _, p := range resp.Content.Parts {
				if tp, ok := p.(core.TextPart); ok {
					sb.WriteString(tp.Text)
				}
			}
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return "", err
			}
		}
	}
	return sb.String(), nil
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}
