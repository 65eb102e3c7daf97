package trace

import (
	"fmt"

	"github.com/hupe1980/agentmesh/core"
)

// FromEvents converts the runtime's ordered event slice into records for
// classification. manager is the name of the agent whose final messages are
// the user-facing review summary.
//
// Mapping: function call parts become tool-call records; function response
// parts become tool-result records (downstream resolution uses the call id
// alone); final assistant text authored by the manager becomes one message
// record per event with its fragments in part order; any other assistant
// text (planning emitted alongside tool calls, sub-agent chatter) becomes a
// reasoning record; everything else is unknown and ignored downstream.
func FromEvents(events []core.Event, manager string) []Record {
	var records []Record

	for _, ev := range events {
		if ev.Content == nil || ev.Content.Role == "user" {
			records = append(records, Record{Kind: KindUnknown})
			continue
		}

		var fragments []string
		for _, part := range ev.Content.Parts {
			switch p := part.(type) {
			case core.FunctionCallPart:
				records = append(records, Record{
					Kind:   KindToolCall,
					Tool:   p.FunctionCall.Name,
					CallID: p.FunctionCall.ID,
					Args:   p.FunctionCall.Arguments,
				})

			case core.FunctionResponsePart:
				records = append(records, Record{
					Kind:   KindToolResult,
					CallID: p.FunctionResponse.ID,
					Output: responseText(p.FunctionResponse),
				})

			case core.TextPart:
				if ev.Content.Role != "assistant" || p.Text == "" {
					continue
				}
				if ev.Author == manager && ev.IsFinalResponse() {
					fragments = append(fragments, p.Text)
				} else {
					records = append(records, Record{Kind: KindReasoning, Raw: p.Text})
				}

			default:
				records = append(records, Record{Kind: KindUnknown})
			}
		}

		if len(fragments) > 0 {
			records = append(records, Record{Kind: KindMessage, Fragments: fragments})
		}
	}

	return records
}

// FinalAnswer returns the manager's last final-response text, or "" when the
// run produced none.
func FinalAnswer(events []core.Event, manager string) string {
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		if ev.Author != manager || ev.Content == nil || ev.Content.Role != "assistant" {
			continue
		}
		if !ev.IsFinalResponse() {
			continue
		}
		var fragments []string
		for _, part := range ev.Content.Parts {
			if tp, ok := part.(core.TextPart); ok && tp.Text != "" {
				fragments = append(fragments, tp.Text)
			}
		}
		if len(fragments) > 0 {
			return joinFragments(fragments)
		}
	}
	return ""
}

// responseText flattens a function response payload to text, falling back to
// the error message and then to a generic formatting of the value.
func responseText(fr core.FunctionResponse) string {
	switch v := fr.Response.(type) {
	case string:
		return v
	case nil:
		return fr.Error
	default:
		return fmt.Sprintf("%v", v)
	}
}
