package apiclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"deal-hunter/config"
	"deal-hunter/models"
	"deal-hunter/utils"
)

// Client talks to the deal tracker web app: it pulls criteria overrides
// before a run and pushes scored deals after one.
type Client struct {
	http   *resty.Client
	secret string
	logger *utils.Logger
}

// New returns a Client bound to the tracker at baseURL.
func New(baseURL, secret string, logger *utils.Logger) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &Client{http: http, secret: secret, logger: logger}
}

type pushRequest struct {
	Deals      []*models.Deal `json:"deals"`
	SendDigest bool           `json:"send_digest"`
	APISecret  string         `json:"api_secret"`
}

type pushResponse struct {
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	Error    string `json:"error"`
}

// PushDeals uploads scored deals to the tracker. The tracker deduplicates by
// listing URL on its side, so re-pushing a deal is safe.
func (c *Client) PushDeals(ctx context.Context, deals []*models.Deal, sendDigest bool) error {
	if len(deals) == 0 {
		c.logger.Info("[api] No deals to push")
		return nil
	}

	var result pushResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(pushRequest{Deals: deals, SendDigest: sendDigest, APISecret: c.secret}).
		SetResult(&result).
		Post("/api/scrape")
	if err != nil {
		return fmt.Errorf("api: push deals: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("api: push deals: status %d: %s", resp.StatusCode(), resp.String())
	}

	c.logger.Info("[api] Pushed %d deals — %d inserted, %d updated",
		len(deals), result.Inserted, result.Updated)
	return nil
}

// FetchCriteria retrieves the criteria override the tracker is configured
// with. A 404 means the tracker has no override and the built-in defaults
// apply.
func (c *Client) FetchCriteria(ctx context.Context) (*config.CriteriaOverride, error) {
	var override config.CriteriaOverride
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_secret", c.secret).
		SetResult(&override).
		Get("/api/criteria")
	if err != nil {
		return nil, fmt.Errorf("api: fetch criteria: %w", err)
	}
	if resp.StatusCode() == 404 {
		return nil, nil
	}
	if resp.IsError() {
		return nil, fmt.Errorf("api: fetch criteria: status %d: %s", resp.StatusCode(), resp.String())
	}

	return &override, nil
}
