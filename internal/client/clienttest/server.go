// Package clienttest runs an in-process stand-in for the analysis service.
package clienttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mithrel/marketeer/pkg/api"
)

// Output is the formatted_output every successful analysis returns.
const Output = "# Market Overview\nThe **fitness** market is growing.\n- **Gen Z** buyers\n- Gyms"

// Server answers /analyze, /agents, /health and /history. Analyses are
// numbered req00001, req00002, ... in arrival order.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	results  []api.AnalysisResult
	requests []api.AnalyzeRequest
	failWith int
}

func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyze", s.analyze)
	mux.HandleFunc("POST /agents/{name}", s.runAgent)
	mux.HandleFunc("GET /agents", s.agents)
	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("GET /history", s.history)
	mux.HandleFunc("GET /history/{id}", s.result)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// Fail makes every later analysis fail with the given status.
func (s *Server) Fail(code int) {
	s.mu.Lock()
	s.failWith = code
	s.mu.Unlock()
}

// Requests returns the analysis requests received so far.
func (s *Server) Requests() []api.AnalyzeRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.AnalyzeRequest(nil), s.requests...)
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req api.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{{"msg": err.Error()}}})
		return
	}
	agents := make([]string, 0, len(req.SpecificAgents))
	for _, a := range req.SpecificAgents {
		agents = append(agents, string(a))
	}
	if len(agents) == 0 {
		agents = []string{string(api.AgentMarketResearch), string(api.AgentMarketingStrategy)}
	}
	s.respond(w, req, agents)
}

func (s *Server) runAgent(w http.ResponseWriter, r *http.Request) {
	agent, ok := api.ParseAgent(r.PathValue("name"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Agent not found"})
		return
	}
	var req api.AnalyzeRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	s.respond(w, req, []string{string(agent)})
}

func (s *Server) respond(w http.ResponseWriter, req api.AnalyzeRequest, agents []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	id := fmt.Sprintf("req%05d", len(s.requests))
	if s.failWith != 0 {
		writeJSON(w, s.failWith, map[string]any{"detail": api.ErrorDetail{
			Error:     "agents unavailable",
			RequestID: id,
			Timestamp: time.Now().UTC(),
		}})
		return
	}
	out := Output
	res := api.AnalysisResult{
		Success:               true,
		RequestID:             id,
		Query:                 req.Query,
		SelectedAgents:        agents,
		FormattedOutput:       &out,
		ProcessingTimeSeconds: 1.5,
		Timestamp:             time.Now().UTC(),
	}
	s.results = append(s.results, res)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) agents(w http.ResponseWriter, r *http.Request) {
	infos := make([]api.AgentInfo, 0, len(api.Agents))
	for _, a := range api.Agents {
		infos = append(infos, api.AgentInfo{
			Name:         string(a),
			Description:  "The " + a.Label() + " agent",
			Capabilities: []string{"analysis", strings.ReplaceAll(string(a), "_", "-")},
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"agents": infos})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.Health{Status: "healthy", Version: "1.0.0", Timestamp: time.Now().UTC()})
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	recent := s.results
	if len(recent) > limit {
		recent = recent[len(recent)-limit:]
	}
	writeJSON(w, http.StatusOK, api.HistoryPage{
		TotalRequests:  len(s.results),
		RecentRequests: append([]api.AnalysisResult{}, recent...),
	})
}

func (s *Server) result(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, res := range s.results {
		if res.RequestID == id {
			writeJSON(w, http.StatusOK, res)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Request not found"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
