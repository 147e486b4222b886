package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mithrel/marketeer/pkg/api"
)

const defaultTimeout = 120 * time.Second

// Client talks to the analysis service over HTTP/JSON.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	log        *log.Logger
}

type Option func(*Client)

// WithHTTPClient uses a copy of h, so later options never modify the
// caller's client (or http.DefaultClient).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			cp := *h
			c.httpClient = &cp
		}
	}
}

// WithTimeout bounds every request, including the time the agents take.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "marketeer-cli",
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        log.New(io.Discard, "", 0),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// Analyze submits a query. The request is normalized and validated before
// anything is sent.
func (c *Client) Analyze(ctx context.Context, req api.AnalyzeRequest) (api.AnalysisResult, error) {
	req = req.Normalize()
	if err := api.Validate(req); err != nil {
		return api.AnalysisResult{}, err
	}
	var out api.AnalysisResult
	if err := c.do(ctx, http.MethodPost, "/analyze", req, &out); err != nil {
		return api.AnalysisResult{}, err
	}
	return out, nil
}

// RunAgent runs a single agent directly, bypassing routing.
func (c *Client) RunAgent(ctx context.Context, agent api.AgentType, req api.AnalyzeRequest) (api.AnalysisResult, error) {
	req = req.Normalize()
	req.SpecificAgents = nil
	if err := api.Validate(req); err != nil {
		return api.AnalysisResult{}, err
	}
	if _, ok := api.ParseAgent(string(agent)); !ok {
		return api.AnalysisResult{}, fmt.Errorf("%w: unknown agent %q", api.ErrInvalidRequest, agent)
	}
	var out api.AnalysisResult
	if err := c.do(ctx, http.MethodPost, "/agents/"+url.PathEscape(string(agent)), req, &out); err != nil {
		return api.AnalysisResult{}, err
	}
	return out, nil
}

func (c *Client) Agents(ctx context.Context) ([]api.AgentInfo, error) {
	var out struct {
		Agents []api.AgentInfo `json:"agents"`
	}
	if err := c.do(ctx, http.MethodGet, "/agents", nil, &out); err != nil {
		return nil, err
	}
	return out.Agents, nil
}

func (c *Client) Health(ctx context.Context) (api.Health, error) {
	var out api.Health
	err := c.do(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}

// RemoteHistory returns the service's own request log, newest last as the
// service orders it.
func (c *Client) RemoteHistory(ctx context.Context, limit int) (api.HistoryPage, error) {
	path := "/history"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}
	var out api.HistoryPage
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) RemoteResult(ctx context.Context, id string) (api.AnalysisResult, error) {
	var out api.AnalysisResult
	err := c.do(ctx, http.MethodGet, "/history/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.log.Printf("%s %s -> %d (%s)", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, respBody)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
