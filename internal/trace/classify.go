package trace

import "strings"

// Classification is the result of one pass over a run's records: ordered
// persona note buckets, the call-id to tool-name correlation map, and the set
// of tools observed. Insertion order within each bucket is event order and is
// the order reports are written in.
type Classification struct {
	JuniorNotes   []string
	SeniorNotes   []string
	ManagerNotes  []string
	PlanningNotes []string

	// CallTools maps a function call id to the tool name that produced it,
	// built incrementally so later results can be resolved.
	CallTools map[string]string

	// UsedTools is the set of tool names invoked during the run.
	UsedTools map[string]bool
}

// Classify walks the record sequence once and buckets text by persona.
//
// Tool results are resolved to a persona through the call-id map; a result
// whose call id was never seen resolves to the empty name and, like any name
// matching neither persona substring, is dropped from both review buckets.
// Unknown kinds are ignored so new event types never fail a run. Classify
// does not error: malformed records degrade to empty strings.
func Classify(records []Record) *Classification {
	c := &Classification{
		CallTools: make(map[string]string),
		UsedTools: make(map[string]bool),
	}

	for _, rec := range records {
		switch rec.Kind {
		case KindToolCall:
			if rec.CallID != "" {
				c.CallTools[rec.CallID] = rec.Tool
			}
			if rec.Tool != "" {
				c.UsedTools[rec.Tool] = true
			}

		case KindToolResult:
			name := strings.ToLower(c.CallTools[rec.CallID])
			switch {
			case strings.Contains(name, "junior"):
				c.JuniorNotes = append(c.JuniorNotes, rec.Output)
			case strings.Contains(name, "senior"):
				c.SeniorNotes = append(c.SeniorNotes, rec.Output)
			}
			// Results from unrecognized tools are not review output.

		case KindMessage:
			c.ManagerNotes = append(c.ManagerNotes, joinFragments(rec.Fragments))

		case KindReasoning:
			c.PlanningNotes = append(c.PlanningNotes, rec.Raw)

		case KindUnknown:
			// Forward compatible: skip.
		}
	}

	return c
}
