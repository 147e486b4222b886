package api

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/marketeer/pkg/markup"
)

func TestAgentLabelAndParse(t *testing.T) {
	assert.Equal(t, "market research", AgentMarketResearch.Label())
	assert.Equal(t, "content delivery", AgentContentDelivery.Label())

	a, ok := ParseAgent("Marketing-Strategy")
	require.True(t, ok)
	assert.Equal(t, AgentMarketingStrategy, a)

	_, ok = ParseAgent("sales")
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	r := AnalyzeRequest{
		Query:          "   launching a fitness app  ",
		SpecificAgents: []AgentType{AgentContentDelivery, AgentMarketResearch, AgentContentDelivery},
	}.Normalize()
	assert.Equal(t, "launching a fitness app", r.Query)
	assert.Equal(t, []AgentType{AgentContentDelivery, AgentMarketResearch}, r.SpecificAgents)

	r = AnalyzeRequest{Query: "x"}.Normalize()
	assert.Nil(t, r.SpecificAgents)
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		err := Validate(AnalyzeRequest{Query: "need content ideas for a bakery"})
		assert.NoError(t, err)
	})
	t.Run("too short", func(t *testing.T) {
		err := Validate(AnalyzeRequest{Query: "short"})
		require.ErrorIs(t, err, ErrInvalidRequest)
		assert.Contains(t, err.Error(), "query must be at least 10 characters")
	})
	t.Run("too long", func(t *testing.T) {
		err := Validate(AnalyzeRequest{Query: strings.Repeat("a", MaxQueryLen+1)})
		require.ErrorIs(t, err, ErrInvalidRequest)
		assert.Contains(t, err.Error(), "at most 1000")
	})
	t.Run("missing", func(t *testing.T) {
		err := Validate(AnalyzeRequest{})
		require.ErrorIs(t, err, ErrInvalidRequest)
		assert.Contains(t, err.Error(), "query is required")
	})
	t.Run("unknown agent", func(t *testing.T) {
		err := Validate(AnalyzeRequest{Query: "a long enough query", SpecificAgents: []AgentType{"sales"}})
		require.ErrorIs(t, err, ErrInvalidRequest)
		assert.Contains(t, err.Error(), `unknown agent "sales"`)
	})
}

func TestAnalyzeRequestJSONOmitsEmptyAgents(t *testing.T) {
	b, err := json.Marshal(AnalyzeRequest{Query: "hello world!"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":"hello world!"}`, string(b))
}

func TestAnalysisResultNullOutput(t *testing.T) {
	raw := `{"success":true,"request_id":"ab12cd34","query":"q","selected_agents":["market_research"],
		"formatted_output":null,"processing_time_seconds":1.25,"timestamp":"2024-05-01T10:00:00Z"}`
	var r AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.Nil(t, r.FormattedOutput)
	assert.Empty(t, r.Blocks())
	assert.Equal(t, []string{"market research"}, r.AgentLabels())
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), r.Timestamp)
}

func TestAnalysisResultBlocks(t *testing.T) {
	out := "# Summary\n- **Audience**: runners"
	r := AnalysisResult{FormattedOutput: &out}
	blocks := r.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, markup.KindHeading, blocks[0].Kind)
	assert.Equal(t, markup.KindBullet, blocks[1].Kind)
}

func TestNewRequestID(t *testing.T) {
	a, b := NewRequestID(), NewRequestID()
	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
}
