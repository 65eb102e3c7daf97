package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/hupe1980/agentmesh/core"

	"github.com/calliope-ai/revpanel/internal/panel"
	"github.com/calliope-ai/revpanel/internal/trace"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local dev; restrict in production
	},
}

// WebSocket message types from client.
const (
	wsMsgReview = "review"
)

// WebSocket message types to client.
const (
	wsMsgRecord  = "record"
	wsMsgSummary = "summary"
	wsMsgError   = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsRecord is one classified trace record streamed as it happens.
type wsRecord struct {
	Kind   string `json:"kind"`
	Tool   string `json:"tool,omitempty"`
	CallID string `json:"call_id,omitempty"`
	Text   string `json:"text,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return // client closed or protocol error
		}

		switch msg.Type {
		case wsMsgReview:
			var req reviewRequest
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				sendWS(conn, wsMsgError, map[string]string{"error": "invalid review payload"})
				continue
			}
			if m := req.validate(); m != "" {
				sendWS(conn, wsMsgError, map[string]string{"error": m})
				continue
			}
			s.streamReview(conn, r, req)

		default:
			sendWS(conn, wsMsgError, map[string]string{"error": "unknown message type: " + msg.Type})
		}
	}
}

// streamReview runs one panel review, forwarding each classified record as it
// arrives, then a summary frame with the buckets and final answer.
func (s *Server) streamReview(conn *websocket.Conn, r *http.Request, req reviewRequest) {
	eventsCh, errorsCh, err := s.driver.Stream(r.Context(), req.Instruction, req.Filename, req.Content)
	if err != nil {
		sendWS(conn, wsMsgError, map[string]string{"error": err.Error()})
		return
	}

	var events []core.Event
	var records []trace.Record

	for eventsCh != nil || errorsCh != nil {
		select {
		case ev, ok := <-eventsCh:
			if !ok {
				eventsCh = nil
				continue
			}
			events = append(events, ev)
			for _, rec := range trace.FromEvents([]core.Event{ev}, panel.ManagerAgentName) {
				if rec.Kind == trace.KindUnknown {
					continue
				}
				records = append(records, rec)
				sendWS(conn, wsMsgRecord, wsRecord{
					Kind:   rec.Kind.String(),
					Tool:   rec.Tool,
					CallID: rec.CallID,
					Text:   rec.Text(),
				})
			}

		case err, ok := <-errorsCh:
			if !ok {
				errorsCh = nil
				continue
			}
			if err != nil {
				sendWS(conn, wsMsgError, map[string]string{"error": err.Error()})
				return
			}
		}
	}

	cls := trace.Classify(records)
	missing := trace.Audit(cls.UsedTools, trace.RequiredTools)

	sendWS(conn, wsMsgSummary, toReviewResponse(&panel.Result{
		Final:          trace.FinalAnswer(events, panel.ManagerAgentName),
		Classification: cls,
		MissingTools:   missing,
	}))
}

func sendWS(conn *websocket.Conn, msgType string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("ws marshal error: %v", err)
		return
	}
	if err := conn.WriteJSON(wsMessage{Type: msgType, Data: payload}); err != nil {
		log.Printf("ws write error: %v", err)
	}
}
