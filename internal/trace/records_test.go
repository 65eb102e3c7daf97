package trace

import (
	"testing"

	"github.com/hupe1980/agentmesh/core"
)

const manager = "manager_agent"

func callEvent(author, callID, tool, args string, text string) core.Event {
	ev := core.NewEvent("inv", author)
	parts := []core.Part{}
	if text != "" {
		parts = append(parts, core.TextPart{Text: text})
	}
	parts = append(parts, core.FunctionCallPart{FunctionCall: core.FunctionCall{
		ID: callID, Name: tool, Arguments: args,
	}})
	ev.Content = &core.Content{Role: "assistant", Parts: parts}
	return ev
}

func messageEvent(author string, fragments ...string) core.Event {
	ev := core.NewEvent("inv", author)
	parts := make([]core.Part, 0, len(fragments))
	for _, f := range fragments {
		parts = append(parts, core.TextPart{Text: f})
	}
	ev.Content = &core.Content{Role: "assistant", Parts: parts}
	return ev
}

func TestFromEventsMapping(t *testing.T) {
	events := []core.Event{
		core.NewUserMessageEvent("inv", "please review"),
		callEvent(manager, "c1", JuniorToolName, `{"code":"x"}`, "delegating to the junior"),
		core.NewFunctionResponseEvent(manager, "c1", JuniorToolName, "junior output", nil),
		callEvent(manager, "c2", SeniorToolName, `{"code":"x"}`, ""),
		core.NewFunctionResponseEvent(manager, "c2", SeniorToolName, "senior output", nil),
		messageEvent(manager, "Unified review.", "Next steps."),
	}

	records := FromEvents(events, manager)

	var kinds []Kind
	for _, r := range records {
		kinds = append(kinds, r.Kind)
	}
	want := []Kind{
		KindUnknown,    // user message
		KindReasoning,  // manager text alongside a tool call
		KindToolCall,   // junior call
		KindToolResult, // junior result
		KindToolCall,   // senior call
		KindToolResult, // senior result
		KindMessage,    // final answer
	}
	if len(kinds) != len(want) {
		t.Fatalf("got %d records (%v), want %d", len(kinds), kinds, len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("record[%d] kind = %s, want %s", i, kinds[i], want[i])
		}
	}

	// Tool call carries name and id; result carries only the id.
	if rec := records[2]; rec.Tool != JuniorToolName || rec.CallID != "c1" {
		t.Errorf("tool call record = %+v", rec)
	}
	if rec := records[3]; rec.Tool != "" || rec.CallID != "c1" || rec.Output != "junior output" {
		t.Errorf("tool result record = %+v", rec)
	}

	// Final message keeps fragments in part order.
	final := records[len(records)-1]
	if got := final.Text(); got != "Unified review.\nNext steps." {
		t.Errorf("final message text = %q", got)
	}
}

func TestFromEventsNonManagerTextIsReasoning(t *testing.T) {
	events := []core.Event{
		messageEvent("some_other_agent", "intermediate thought"),
	}

	records := FromEvents(events, manager)

	if len(records) != 1 || records[0].Kind != KindReasoning {
		t.Fatalf("records = %+v", records)
	}
	if records[0].Raw != "intermediate thought" {
		t.Errorf("raw = %q", records[0].Raw)
	}
}

func TestFromEventsNilContent(t *testing.T) {
	ev := core.NewEvent("inv", manager)

	records := FromEvents([]core.Event{ev}, manager)

	if len(records) != 1 || records[0].Kind != KindUnknown {
		t.Fatalf("nil content should map to unknown, got %+v", records)
	}
}

func TestFromEventsErrorOnlyResponse(t *testing.T) {
	events := []core.Event{
		callEvent(manager, "c1", JuniorToolName, "{}", ""),
		core.NewFunctionResponseEvent(manager, "c1", JuniorToolName, nil, errTest("tool blew up")),
	}

	records := FromEvents(events, manager)

	if got := records[1].Output; got != "tool blew up" {
		t.Errorf("error response output = %q", got)
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }

func TestFinalAnswer(t *testing.T) {
	events := []core.Event{
		callEvent(manager, "c1", JuniorToolName, "{}", "working on it"),
		core.NewFunctionResponseEvent(manager, "c1", JuniorToolName, "output", nil),
		messageEvent(manager, "The review."),
	}

	if got := FinalAnswer(events, manager); got != "The review." {
		t.Errorf("final answer = %q", got)
	}
}

func TestFinalAnswerAbsent(t *testing.T) {
	events := []core.Event{
		callEvent(manager, "c1", JuniorToolName, "{}", ""),
	}

	if got := FinalAnswer(events, manager); got != "" {
		t.Errorf("expected empty final answer, got %q", got)
	}
}
