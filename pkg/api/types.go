package api

import (
	"strings"
	"time"

	"github.com/mithrel/marketeer/pkg/markup"
)

type AgentType string

const (
	AgentMarketResearch    AgentType = "market_research"
	AgentMarketingStrategy AgentType = "marketing_strategy"
	AgentContentDelivery   AgentType = "content_delivery"
)

// Agents lists the agents the analysis service knows about, in display order.
var Agents = []AgentType{AgentMarketResearch, AgentMarketingStrategy, AgentContentDelivery}

// Label is the badge text for an agent: the first underscore becomes a space.
func (a AgentType) Label() string {
	return strings.Replace(string(a), "_", " ", 1)
}

// ParseAgent accepts an agent name, case-insensitively, with '-' or '_'.
func ParseAgent(s string) (AgentType, bool) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, a := range Agents {
		if string(a) == n {
			return a, true
		}
	}
	return "", false
}

const (
	MinQueryLen = 10
	MaxQueryLen = 1000
)

// AnalyzeRequest is the body of POST /analyze. An empty SpecificAgents
// lets the service route the query itself.
type AnalyzeRequest struct {
	Query          string      `json:"query" validate:"required,min=10,max=1000"`
	SpecificAgents []AgentType `json:"specific_agents,omitempty" validate:"omitempty,dive,oneof=market_research marketing_strategy content_delivery"`
}

// Normalize trims the query and drops repeated agents, keeping first-seen order.
func (r AnalyzeRequest) Normalize() AnalyzeRequest {
	out := AnalyzeRequest{Query: strings.TrimSpace(r.Query)}
	if len(r.SpecificAgents) == 0 {
		return out
	}
	seen := make(map[AgentType]struct{}, len(r.SpecificAgents))
	for _, a := range r.SpecificAgents {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out.SpecificAgents = append(out.SpecificAgents, a)
	}
	return out
}

// AnalysisResult is the response of POST /analyze and the unit kept in history.
type AnalysisResult struct {
	Success               bool           `json:"success"`
	RequestID             string         `json:"request_id"`
	Query                 string         `json:"query"`
	SelectedAgents        []string       `json:"selected_agents"`
	Results               map[string]any `json:"results,omitempty"`
	FormattedOutput       *string        `json:"formatted_output"`
	ProcessingTimeSeconds float64        `json:"processing_time_seconds"`
	Timestamp             time.Time      `json:"timestamp"`
}

// Blocks renders FormattedOutput. A nil or blank output yields no blocks.
func (r AnalysisResult) Blocks() []markup.Block {
	return markup.RenderOutput(r.FormattedOutput)
}

// Agent labels for display.
func (r AnalysisResult) AgentLabels() []string {
	out := make([]string, 0, len(r.SelectedAgents))
	for _, a := range r.SelectedAgents {
		out = append(out, AgentType(a).Label())
	}
	return out
}

type AgentInfo struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
}

type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

type HistoryPage struct {
	TotalRequests  int              `json:"total_requests"`
	RecentRequests []AnalysisResult `json:"recent_requests"`
}

// ErrorDetail is the "detail" object the service attaches to failed analyses.
type ErrorDetail struct {
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}
