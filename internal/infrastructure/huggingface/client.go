package huggingface

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ModelScout/internal/config"
	"ModelScout/internal/domain"
	"ModelScout/internal/ports"
)

const (
	userAgent       = "ModelScout/1.0"
	maxReadmeBytes  = 4 << 20
	maxErrorPayload = 1024
)

// Client fetches model listings and raw READMEs from the hub.
type Client struct {
	apiURL     string
	baseURL    string
	token      string
	sort       string
	fetchLimit int
	client     *http.Client
	logger     *slog.Logger
}

var (
	_ ports.ModelSource  = (*Client)(nil)
	_ ports.ReadmeSource = (*Client)(nil)
)

// NewClient wires an HTTP client; a nil client gets the configured timeout.
func NewClient(cfg config.HuggingFaceConfig, client *http.Client, log *slog.Logger) *Client {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	fetchLimit := cfg.FetchLimit
	if fetchLimit <= 0 {
		fetchLimit = 100
	}
	return &Client{
		apiURL:     cfg.APIURL,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		token:      cfg.Token,
		sort:       cfg.Sort,
		fetchLimit: fetchLimit,
		client:     client,
		logger:     log,
	}
}

type listingEntry struct {
	ID        string `json:"id"`
	ModelID   string `json:"modelId"`
	CreatedAt string `json:"createdAt"`
	Likes     int64  `json:"likes"`
	Downloads int64  `json:"downloads"`
}

// ListModels returns the hub listing for a pipeline tag in upstream order.
func (c *Client) ListModels(ctx context.Context, tag string) ([]domain.ModelRecord, error) {
	listURL, err := buildListURL(c.apiURL, tag, c.sort, c.fetchLimit)
	if err != nil {
		return nil, err
	}

	resp, err := c.get(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorPayload))
		return nil, fmt.Errorf("hub returned %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var entries []listingEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	records := make([]domain.ModelRecord, 0, len(entries))
	for _, e := range entries {
		id := e.ID
		if id == "" {
			id = e.ModelID
		}
		if id == "" {
			continue
		}
		records = append(records, domain.ModelRecord{
			ID:        id,
			CreatedAt: e.CreatedAt,
			Likes:     e.Likes,
			Downloads: e.Downloads,
		})
	}

	c.debug("listing fetched", "tag", tag, "count", len(records))
	return records, nil
}

// FetchReadme downloads README.md from the main branch of modelID. A non-200
// answer yields a *domain.ReadmeUnavailableError.
func (c *Client) FetchReadme(ctx context.Context, modelID string) (string, error) {
	resp, err := c.get(ctx, c.readmeURL(modelID))
	if err != nil {
		return "", fmt.Errorf("fetch readme %s: %w", modelID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &domain.ReadmeUnavailableError{ModelID: modelID, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReadmeBytes))
	if err != nil {
		return "", fmt.Errorf("read readme %s: %w", modelID, err)
	}

	c.debug("readme fetched", "model", modelID, "bytes", len(body))
	return string(body), nil
}

func (c *Client) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	return resp, nil
}

func (c *Client) readmeURL(modelID string) string {
	segments := strings.Split(modelID, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return c.baseURL + "/" + strings.Join(segments, "/") + "/raw/main/README.md"
}

func buildListURL(base, tag, sort string, limit int) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid listing url %s: %w", base, err)
	}

	query := parsed.Query()
	if tag != "" {
		query.Set("pipeline_tag", tag)
	}
	if sort != "" {
		query.Set("sort", sort)
	}
	query.Set("limit", strconv.Itoa(limit))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
