// Package trace handles classification of the event trace returned by one
// panel-review run: bucketing persona output, correlating tool calls with
// their results, and auditing which tools the manager actually used.
package trace

// Canonical tool names the manager is instructed to call. The classifier
// resolves personas by substring ("junior"/"senior") on these names, so the
// constants are shared with the panel definition to keep them aligned.
const (
	JuniorToolName = "junior_developer_agent"
	SeniorToolName = "senior_developer_agent"
)

// Kind categorizes a record in the run's event trace.
type Kind int

const (
	KindToolCall Kind = iota
	KindToolResult
	KindMessage
	KindReasoning
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindToolCall:
		return "tool_call"
	case KindToolResult:
		return "tool_result"
	case KindMessage:
		return "message"
	case KindReasoning:
		return "reasoning"
	default:
		return "unknown"
	}
}

// Record is a single item in the ordered trace of one run. Only the fields
// matching its Kind carry meaning; the rest stay zero. Records are immutable
// once built and are consumed exactly once by Classify.
type Record struct {
	Kind Kind

	// Tool call fields
	Tool   string // tool name (tool calls only; results carry just the id)
	CallID string
	Args   string

	// Tool result fields
	Output string

	// Message fields
	Fragments []string

	// Reasoning / unclassified payload
	Raw string
}

// Text returns the record's user-visible text with a declared fallback per
// kind: concatenated fragments for messages, output for results, raw payload
// otherwise. Missing content yields "".
func (r Record) Text() string {
	switch r.Kind {
	case KindMessage:
		return joinFragments(r.Fragments)
	case KindToolResult:
		return r.Output
	default:
		return r.Raw
	}
}

func joinFragments(fragments []string) string {
	switch len(fragments) {
	case 0:
		return ""
	case 1:
		return fragments[0]
	}
	out := fragments[0]
	for _, f := range fragments[1:] {
		out += "\n" + f
	}
	return out
}
