// Package server exposes the retrieval-and-memory core over a thin
// JSON HTTP API plus a websocket query channel. It is pure plumbing:
// every handler validates input, calls one bridge operation, and maps
// the outcome to a status envelope.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/meneportal/ltm-bridge/bridge"
	"github.com/meneportal/ltm-bridge/memory"
	"github.com/meneportal/ltm-bridge/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server serves the bridge over HTTP.
type Server struct {
	bridge *bridge.Bridge
	mux    *http.ServeMux
}

// New creates a server around the bridge.
func New(b *bridge.Bridge) *Server {
	s := &Server{bridge: b, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /documents/add", s.handleAddDocument)
	s.mux.HandleFunc("POST /rag/search", s.handleSearch)
	s.mux.HandleFunc("POST /memory/save", s.handleSaveConversation)
	s.mux.HandleFunc("GET /memory/context", s.handleMemoryContext)
	s.mux.HandleFunc("POST /agent/query", s.handleAgentQuery)
	s.mux.HandleFunc("GET /agents", s.handleAgents)
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe blocks serving on the given port.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	log.Printf("[SERVER] Listening on %s", addr)
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
}

type addDocumentRequest struct {
	FilePath   string `json:"file_path"`
	Collection string `json:"collection"`
}

func (s *Server) handleAddDocument(w http.ResponseWriter, r *http.Request) {
	var req addDocumentRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Collection == "" {
		req.Collection = "documents"
	}

	added, err := s.bridge.AddDocument(r.Context(), req.FilePath, req.Collection)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "chunks_added": added})
}

type searchRequest struct {
	Query      string `json:"query"`
	Collection string `json:"collection"`
	Limit      int    `json:"limit"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Collection == "" {
		req.Collection = "documents"
	}
	if req.Limit == 0 {
		req.Limit = 5
	}

	results, err := s.bridge.Search(r.Context(), req.Query, req.Collection, req.Limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"results":       resultsJSON(results),
		"total_results": len(results),
	})
}

type saveConversationRequest struct {
	Agent         string            `json:"agent"`
	UserMessage   string            `json:"user_message"`
	AgentResponse string            `json:"agent_response"`
	Context       map[string]string `json:"context"`
}

func (s *Server) handleSaveConversation(w http.ResponseWriter, r *http.Request) {
	var req saveConversationRequest
	if !decode(w, r, &req) {
		return
	}

	id, err := s.bridge.SaveConversation(r.Context(), req.Agent, req.UserMessage, req.AgentResponse, req.Context)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "conversation_id": id})
}

func (s *Server) handleMemoryContext(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	agent := r.URL.Query().Get("agent")
	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "error": "invalid limit"})
			return
		}
		limit = n
	}

	entries, err := s.bridge.GetConversationContext(r.Context(), query, agent, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"context":       contextJSON(entries),
		"total_results": len(entries),
	})
}

type agentQueryRequest struct {
	Agent   string            `json:"agent"`
	Query   string            `json:"query"`
	Context map[string]string `json:"context"`
}

func (s *Server) handleAgentQuery(w http.ResponseWriter, r *http.Request) {
	var req agentQueryRequest
	if !decode(w, r, &req) {
		return
	}

	result := s.bridge.ProcessAgentQuery(r.Context(), req.Agent, req.Query, req.Context)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"agents": s.bridge.ListAgents()})
}

// handleWebSocket serves agent queries over one long-lived connection.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SERVER] WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var req agentQueryRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[SERVER] WebSocket read error: %v", err)
			}
			return
		}

		result := s.bridge.ProcessAgentQuery(r.Context(), req.Agent, req.Query, req.Context)
		if err := conn.WriteJSON(result); err != nil {
			log.Printf("[SERVER] WebSocket write error: %v", err)
			return
		}
	}
}

func resultsJSON(results []store.SearchResult) []map[string]any {
	out := make([]map[string]any, 0, len(results))
	for _, r := range results {
		out = append(out, map[string]any{
			"text":      r.Text,
			"metadata":  r.Metadata,
			"relevance": r.Relevance,
			"source":    r.Source,
		})
	}
	return out
}

func contextJSON(entries []memory.ContextEntry) []map[string]any {
	out := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]any{
			"conversation": e.Conversation,
			"summary":      e.Summary,
			"timestamp":    e.Timestamp,
			"relevance":    e.Relevance,
		})
	}
	return out
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "error": "invalid request body"})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrCollectionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrEmptyContent), errors.Is(err, store.ErrInvalidLimit):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrStoreUnavailable), errors.Is(err, memory.ErrMemoryUnavailable):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{"status": "error", "error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[SERVER] Failed to encode response: %v", err)
	}
}
