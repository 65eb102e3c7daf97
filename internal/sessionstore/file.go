// Package sessionstore provides a file-backed AgentMesh session store so
// conversation history survives across process runs. Each session key maps to
// a JSONL event log plus a state snapshot under one directory; repeated runs
// against the same key deliberately accumulate history.
package sessionstore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/agentmesh/core"
)

// FileStore implements core.SessionStore on the local filesystem. It keeps a
// write-through cache of loaded sessions and is safe for concurrent use.
type FileStore struct {
	mu    sync.Mutex
	dir   string
	cache map[string]*core.Session
}

// NewFileStore creates the store directory if needed and returns the store.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating session store: %w", err)
	}
	return &FileStore{dir: dir, cache: make(map[string]*core.Session)}, nil
}

// Get returns a clone of the session, loading it from disk on first access.
// Unknown keys start a fresh session.
func (s *FileStore) Get(sessionID string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Clone(), nil
}

// Create starts (or resets) the session with the given id, truncating any
// persisted history.
func (s *FileStore) Create(sessionID string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := core.NewSession(sessionID)
	s.cache[sessionID] = sess
	if err := os.WriteFile(s.eventsPath(sessionID), nil, 0o644); err != nil {
		return nil, fmt.Errorf("resetting session %s: %w", sessionID, err)
	}
	if err := s.writeStateLocked(sessionID, sess); err != nil {
		return nil, err
	}
	return sess.Clone(), nil
}

// AppendEvent adds an event to the session's history and appends it to the
// on-disk log.
func (s *FileStore) AppendEvent(sessionID string, ev core.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return err
	}
	sess.AddEvent(ev)

	line, err := json.Marshal(encodeEvent(ev))
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	f, err := os.OpenFile(s.eventsPath(sessionID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening session log: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("appending to session log: %w", err)
	}
	return nil
}

// ApplyDelta merges state keys into the session and rewrites the snapshot.
func (s *FileStore) ApplyDelta(sessionID string, delta map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return err
	}
	sess.ApplyStateDelta(delta)
	return s.writeStateLocked(sessionID, sess)
}

func (s *FileStore) sessionLocked(sessionID string) (*core.Session, error) {
	if sess, ok := s.cache[sessionID]; ok {
		return sess, nil
	}
	sess, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	s.cache[sessionID] = sess
	return sess, nil
}

func (s *FileStore) load(sessionID string) (*core.Session, error) {
	sess := core.NewSession(sessionID)

	if data, err := os.ReadFile(s.statePath(sessionID)); err == nil {
		var state map[string]interface{}
		if json.Unmarshal(data, &state) == nil {
			sess.ApplyStateDelta(state)
		}
	}

	f, err := os.Open(s.eventsPath(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return sess, nil
		}
		return nil, fmt.Errorf("opening session log: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var se storedEvent
		if err := json.Unmarshal(line, &se); err != nil {
			continue // skip corrupt lines, keep the rest of the history
		}
		sess.AddEvent(se.decode())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning session log: %w", err)
	}
	return sess, nil
}

func (s *FileStore) writeStateLocked(sessionID string, sess *core.Session) error {
	data, err := json.Marshal(sess.State)
	if err != nil {
		return fmt.Errorf("encoding session state: %w", err)
	}
	if err := os.WriteFile(s.statePath(sessionID), data, 0o644); err != nil {
		return fmt.Errorf("writing session state: %w", err)
	}
	return nil
}

func (s *FileStore) eventsPath(sessionID string) string {
	return filepath.Join(s.dir, safeName(sessionID)+".events.jsonl")
}

func (s *FileStore) statePath(sessionID string) string {
	return filepath.Join(s.dir, safeName(sessionID)+".state.json")
}

// safeName keeps session keys filesystem-friendly.
func safeName(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}

// Stored form. core.Content parts are polymorphic, so each part carries a
// type discriminant for re-hydration.
type storedEvent struct {
	ID           string       `json:"id"`
	InvocationID string       `json:"invocation_id,omitempty"`
	Author       string       `json:"author"`
	Timestamp    time.Time    `json:"timestamp"`
	Role         string       `json:"role,omitempty"`
	Parts        []storedPart `json:"parts,omitempty"`
}

type storedPart struct {
	Type     string             `json:"type"`
	Text     string             `json:"text,omitempty"`
	Call     *core.FunctionCall `json:"call,omitempty"`
	Response *storedResponse    `json:"response,omitempty"`
}

type storedResponse struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

func encodeEvent(ev core.Event) storedEvent {
	se := storedEvent{
		ID:           ev.ID,
		InvocationID: ev.InvocationID,
		Author:       ev.Author,
		Timestamp:    ev.Timestamp,
	}
	if ev.Content == nil {
		return se
	}
	se.Role = ev.Content.Role
	for _, part := range ev.Content.Parts {
		switch p := part.(type) {
		case core.TextPart:
			se.Parts = append(se.Parts, storedPart{Type: "text", Text: p.Text})
		case core.FunctionCallPart:
			call := p.FunctionCall
			se.Parts = append(se.Parts, storedPart{Type: "function_call", Call: &call})
		case core.FunctionResponsePart:
			se.Parts = append(se.Parts, storedPart{Type: "function_response", Response: &storedResponse{
				ID:       p.FunctionResponse.ID,
				Name:     p.FunctionResponse.Name,
				Response: flatten(p.FunctionResponse.Response),
				Error:    p.FunctionResponse.Error,
			}})
		}
		// Other part kinds (files, structured data) are not produced by the
		// panel and are dropped from persistence.
	}
	return se
}

func (se storedEvent) decode() core.Event {
	ev := core.Event{
		ID:           se.ID,
		InvocationID: se.InvocationID,
		Author:       se.Author,
		Timestamp:    se.Timestamp,
	}
	if se.Role == "" && len(se.Parts) == 0 {
		return ev
	}
	content := &core.Content{Role: se.Role}
	for _, sp := range se.Parts {
		switch sp.Type {
		case "text":
			content.Parts = append(content.Parts, core.TextPart{Text: sp.Text})
		case "function_call":
			if sp.Call != nil {
				content.Parts = append(content.Parts, core.FunctionCallPart{FunctionCall: *sp.Call})
			}
		case "function_response":
			if sp.Response != nil {
				content.Parts = append(content.Parts, core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{
					ID:       sp.Response.ID,
					Name:     sp.Response.Name,
					Response: sp.Response.Response,
					Error:    sp.Response.Error,
				}})
			}
		}
	}
	ev.Content = content
	return ev
}

func flatten(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(data)
	}
}
