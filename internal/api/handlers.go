package api

import (
	"net/http"
	"strings"

	"github.com/calliope-ai/revpanel/internal/panel"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "revpanel",
	})
}

// reviewRequest is the payload for POST /api/review and ws "review" messages.
type reviewRequest struct {
	Instruction string `json:"instruction"`
	Filename    string `json:"filename"`
	Content     string `json:"content"`
}

func (req *reviewRequest) validate() string {
	if strings.TrimSpace(req.Content) == "" {
		return "content is required"
	}
	if req.Instruction == "" {
		req.Instruction = "Please review this code."
	}
	if req.Filename == "" {
		req.Filename = "untitled"
	}
	return ""
}

// reviewResponse carries the run's buckets and final answer. Reports are not
// written to disk for API runs; the caller owns persistence.
type reviewResponse struct {
	Final        string   `json:"final"`
	Junior       []string `json:"junior"`
	Senior       []string `json:"senior"`
	Manager      []string `json:"manager"`
	Planner      []string `json:"planner"`
	MissingTools []string `json:"missing_tools,omitempty"`
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := s.driver.Review(r.Context(), req.Instruction, req.Filename, req.Content)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toReviewResponse(res))
}

func toReviewResponse(res *panel.Result) reviewResponse {
	c := res.Classification
	return reviewResponse{
		Final:        res.Final,
		Junior:       c.JuniorNotes,
		Senior:       c.SeniorNotes,
		Manager:      c.ManagerNotes,
		Planner:      c.PlanningNotes,
		MissingTools: res.MissingTools,
	}
}
