package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/hupe1980/agentmesh/model"

	"github.com/calliope-ai/revpanel/internal/config"
	"github.com/calliope-ai/revpanel/internal/panel"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		APIKey:     "sk-test",
		Model:      "mock",
		SessionID:  "api-test",
		StateDir:   filepath.Join(t.TempDir(), "state"),
		ReviewsDir: filepath.Join(t.TempDir(), "reviews"),
	}
	driver := panel.New(cfg, model.NewMockModel("mock", "test"))
	return New("127.0.0.1:0", driver)
}

func TestHealthEndpoint(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" || body["service"] != "revpanel" {
		t.Errorf("body = %v", body)
	}
}

func TestReviewEndpointValidation(t *testing.T) {
	s := testServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"empty content", `{"instruction":"review","filename":"a.go","content":""}`},
		{"whitespace content", `{"content":"   "}`},
		{"bad json", `{not json`},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/review", strings.NewReader(tc.body))
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.name, rec.Code)
		}
	}
}

func TestReviewEndpoint(t *testing.T) {
	s := testServer(t)

	body := `{"instruction":"Review this.","filename":"hello.py","content":"print('hi')"}`
	req := httptest.NewRequest(http.MethodPost, "/api/review", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp reviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Final == "" {
		t.Error("expected a final answer")
	}
	// The mock model never calls the persona tools.
	if len(resp.MissingTools) != 2 {
		t.Errorf("MissingTools = %v, want both personas", resp.MissingTools)
	}
	if len(resp.Junior) != 0 || len(resp.Senior) != 0 {
		t.Errorf("unexpected persona notes without tool calls: %v / %v", resp.Junior, resp.Senior)
	}
}

func TestWebSocketReview(t *testing.T) {
	s := testServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("ws dial failed: %v", err)
	}
	defer conn.Close()

	payload, _ := json.Marshal(reviewRequest{
		Instruction: "Review this.",
		Filename:    "hello.py",
		Content:     "print('hi')",
	})
	if err := conn.WriteJSON(wsMessage{Type: wsMsgReview, Data: payload}); err != nil {
		t.Fatalf("ws write failed: %v", err)
	}

	var sawRecord bool
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ws read failed: %v", err)
		}
		switch msg.Type {
		case wsMsgRecord:
			sawRecord = true
		case wsMsgError:
			t.Fatalf("unexpected error frame: %s", msg.Data)
		case wsMsgSummary:
			var resp reviewResponse
			if err := json.Unmarshal(msg.Data, &resp); err != nil {
				t.Fatalf("invalid summary: %v", err)
			}
			if resp.Final == "" {
				t.Error("summary missing final answer")
			}
			if !sawRecord {
				t.Error("expected at least one record frame before the summary")
			}
			return
		default:
			t.Fatalf("unknown frame type %q", msg.Type)
		}
	}
}

func TestWebSocketRejectsUnknownType(t *testing.T) {
	s := testServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("ws dial failed: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(wsMessage{Type: "bogus"}); err != nil {
		t.Fatal(err)
	}
	var msg wsMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ws read failed: %v", err)
	}
	if msg.Type != wsMsgError {
		t.Errorf("frame type = %q, want error", msg.Type)
	}
}
