// Package contentstore is a thin client for the hosted structured-
// content platform that owns all document storage. The application only
// issues read queries, field-level patches, and document actions; the
// platform is the sole arbiter of write ordering and the draft/publish
// lifecycle.
package contentstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"academy/backend/config"
)

type Client struct {
	http    *resty.Client
	dataset string
}

func New(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.ContentAPIURL).
		SetAuthToken(cfg.ContentToken).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:    client,
		dataset: cfg.ContentDataset,
	}
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

// Query runs a read query against the dataset and decodes the result
// into out. A null result leaves out untouched, so absent documents
// decode to zero values rather than failing.
func (c *Client) Query(ctx context.Context, query string, params map[string]interface{}, out interface{}) error {
	body := map[string]interface{}{"query": query}
	if len(params) > 0 {
		body["params"] = params
	}

	var result queryResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post("/data/query/" + c.dataset)
	if err != nil {
		return fmt.Errorf("content store query: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("content store query: %s", resp.Status())
	}

	if len(result.Result) == 0 || string(result.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(result.Result, out); err != nil {
		return fmt.Errorf("content store query: decode result: %w", err)
	}
	return nil
}

// mutate submits an ordered transaction of mutations. All mutations in
// one call commit atomically in the given order.
func (c *Client) mutate(ctx context.Context, mutations []map[string]interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"mutations": mutations}).
		Post("/data/mutate/" + c.dataset)
	if err != nil {
		return fmt.Errorf("content store mutate: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("content store mutate: %s", resp.Status())
	}
	return nil
}

// CreateOrReplace writes a full document, replacing any existing one
// with the same _id.
func (c *Client) CreateOrReplace(ctx context.Context, doc map[string]interface{}) error {
	return c.mutate(ctx, []map[string]interface{}{
		{"createOrReplace": doc},
	})
}
