package jobstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"jobads-sync/core/reconcile"
	"jobads-sync/core/utils"
	"jobads-sync/core/watermark"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// Query parameters understood by the stream endpoint.
	paramDate       = "date"
	paramPlace      = "location-concept-id"
	paramOccupation = "occupation-concept-id"

	headerAPIKey = "api-key"
)

// Client fetches job ads from the remote feed.
type Client struct {
	http    *resty.Client
	cfg     Config
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a feed client from cfg.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 300 * time.Second
	}

	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "jobads-sync")
	if cfg.APIKey != "" {
		rc.SetHeader(headerAPIKey, cfg.APIKey)
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		http:    rc,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// FetchAll returns every ad currently published.
func (c *Client) FetchAll(ctx context.Context) ([]reconcile.Record, error) {
	c.logger.Info("Getting snapshot of all ads", zap.String("path", c.cfg.SnapshotPath))
	return c.get(ctx, c.cfg.SnapshotPath, nil)
}

// FetchSince returns ads changed after since, including removals. Configured
// place and occupation filters are applied server side.
func (c *Client) FetchSince(ctx context.Context, since time.Time) ([]reconcile.Record, error) {
	params := url.Values{}
	params.Set(paramDate, watermark.Format(since))
	for _, p := range c.cfg.Places {
		params.Add(paramPlace, p)
	}
	for _, o := range c.cfg.Occupations {
		params.Add(paramOccupation, o)
	}

	c.logger.Info("Getting ads changed since timestamp", zap.String("since", watermark.Format(since)))
	return c.get(ctx, c.cfg.StreamPath, params)
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]reconcile.Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("request %s: unexpected status %d: %s", path, resp.StatusCode(), truncate(resp.String(), 200))
	}

	records, err := c.decode(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	c.logger.Debug("Fetched ads",
		zap.String("path", path),
		zap.Int("count", len(records)),
		zap.Duration("took", time.Since(start)),
	)
	return records, nil
}

// decode turns a JSON array of ad documents into records. Documents without
// an id cannot be reconciled and are dropped.
func (c *Client) decode(body []byte) ([]reconcile.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var docs []map[string]any
	if err := dec.Decode(&docs); err != nil {
		return nil, err
	}

	records := make([]reconcile.Record, 0, len(docs))
	for i, doc := range docs {
		id := utils.ToString(doc["id"])
		if id == "" {
			c.logger.Warn("Skipping ad without id", zap.Int("index", i))
			continue
		}
		records = append(records, reconcile.Record{
			ID:      id,
			Removed: utils.ToBool(doc["removed"]),
			Doc:     doc,
		})
	}
	return records, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
