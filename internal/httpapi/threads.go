package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sunbun/assistant/pkg/domain"
	"github.com/sunbun/assistant/pkg/runner"
)

type threadSummary struct {
	ThreadID     string             `json:"thread_id"`
	SupportType  domain.SupportType `json:"support_type,omitempty"`
	Closed       bool               `json:"closed"`
	MessageCount int                `json:"message_count"`
}

func summarize(s *domain.State) threadSummary {
	return threadSummary{
		ThreadID:     s.ThreadID,
		SupportType:  s.SupportType,
		Closed:       s.Closed,
		MessageCount: len(s.Messages),
	}
}

type createThreadRequest struct {
	ThreadID string `json:"thread_id"`
}

func (s *Server) handleCreateThread(w http.ResponseWriter, r *http.Request) {
	var req createThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("CreateThread: Invalid request body", "err", err)
		return
	}
	if req.ThreadID == "" {
		req.ThreadID = uuid.NewString()
	}

	state, err := s.runner.Bootstrap(r.Context(), req.ThreadID)
	if err != nil {
		http.Error(w, "Failed to create thread", http.StatusInternalServerError)
		s.logger.Error("CreateThread failed", "thread_id", req.ThreadID, "err", err)
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

func (s *Server) handleListThreads(w http.ResponseWriter, r *http.Request) {
	ids, err := s.runner.Sessions().List(r.Context())
	if err != nil {
		http.Error(w, "Failed to list threads", http.StatusInternalServerError)
		s.logger.Error("ListThreads failed", "err", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"threads": ids})
}

type searchThreadsRequest struct {
	SupportType domain.SupportType `json:"support_type"`
	Closed      *bool              `json:"closed"`
	Limit       int                `json:"limit"`
}

func (s *Server) handleSearchThreads(w http.ResponseWriter, r *http.Request) {
	var req searchThreadsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ids, err := s.runner.Sessions().List(r.Context())
	if err != nil {
		http.Error(w, "Failed to list threads", http.StatusInternalServerError)
		s.logger.Error("SearchThreads failed", "err", err)
		return
	}

	results := []threadSummary{}
	for _, id := range ids {
		if req.Limit > 0 && len(results) >= req.Limit {
			break
		}
		state, err := s.runner.Sessions().Load(r.Context(), id)
		if err != nil {
			continue
		}
		if req.SupportType != "" && state.SupportType != req.SupportType {
			continue
		}
		if req.Closed != nil && state.Closed != *req.Closed {
			continue
		}
		results = append(results, summarize(state))
	}
	writeJSON(w, http.StatusOK, map[string]any{"threads": results})
}

func (s *Server) loadThread(w http.ResponseWriter, r *http.Request) (*domain.State, bool) {
	threadID := chi.URLParam(r, "threadID")
	state, err := s.runner.Sessions().Load(r.Context(), threadID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, "Thread not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(w, "Failed to load thread", http.StatusInternalServerError)
		s.logger.Error("LoadThread failed", "thread_id", threadID, "err", err)
		return nil, false
	}
	return state, true
}

func (s *Server) handleGetThread(w http.ResponseWriter, r *http.Request) {
	state, ok := s.loadThread(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summarize(state))
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	state, ok := s.loadThread(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	state, ok := s.loadThread(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": state.Messages})
}

type streamRunRequest struct {
	Messages  []domain.Message `json:"messages"`
	Overrides map[string]any   `json:"overrides"`
}

// handleStreamRun executes one run and streams its events as SSE. Errors
// after the stream opens surface as a generic error event; detail goes to
// the operator log via the runner.
func (s *Server) handleStreamRun(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")

	var req streamRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("StreamRun: Invalid request body", "thread_id", threadID, "err", err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sink := func(ev runner.Event) error {
		var payload any
		switch ev.Type {
		case runner.EventValues:
			payload = ev.State
		case runner.EventError:
			payload = map[string]string{"run_id": ev.RunID, "error": ev.Error}
		default:
			payload = map[string]string{"run_id": ev.RunID}
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	err := s.runner.Submit(r.Context(), threadID, runner.Input{
		Messages:  req.Messages,
		Overrides: req.Overrides,
	}, sink)
	if err != nil {
		s.logger.Warn("StreamRun finished with error", "thread_id", threadID, "err", err)
	}
}
