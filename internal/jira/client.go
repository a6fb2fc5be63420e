package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-sla/internal/config"
	"github.com/spec-kit/ticket-sla/internal/domain"
)

const searchPath = "/rest/api/3/search/jql"

// Client fetches issues with their changelog from Jira Cloud.
type Client struct {
	baseURL            string
	email              string
	token              string
	maxResults         int
	sourceField        string
	investigationField string
	http               *http.Client
	logger             *zap.Logger
}

// NewClient builds a client from configuration. A nil httpClient gets one
// with the configured timeout.
func NewClient(cfg config.JiraConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout()}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:            strings.TrimRight(cfg.BaseURL, "/"),
		email:              cfg.UserEmail,
		token:              cfg.APIToken,
		maxResults:         cfg.MaxResults,
		sourceField:        cfg.SourceField,
		investigationField: cfg.InvestigationField,
		http:               httpClient,
		logger:             logger,
	}
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("jira search failed with status %d: %s", e.StatusCode, e.Body)
}

// SearchIssues runs a single JQL search with the changelog expanded. Only the
// first page of results is returned.
func (c *Client) SearchIssues(ctx context.Context, jql string) ([]domain.Issue, error) {
	q := url.Values{}
	q.Set("jql", jql)
	q.Set("expand", "changelog")
	q.Set("fields", "*all")
	if c.maxResults > 0 {
		q.Set("maxResults", strconv.Itoa(c.maxResults))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+searchPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.SetBasicAuth(c.email, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jira search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	issues := make([]domain.Issue, 0, len(payload.Issues))
	for _, raw := range payload.Issues {
		issue, err := c.toIssue(raw)
		if err != nil {
			return nil, fmt.Errorf("decode issue %s: %w", raw.Key, err)
		}
		issues = append(issues, issue)
	}
	c.logger.Info("fetched jira issues", zap.Int("count", len(issues)))
	return issues, nil
}
