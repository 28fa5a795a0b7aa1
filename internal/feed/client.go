// Package feed downloads the product transaction seed feed.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"salesdash/internal/core"
)

// DefaultURL is the public feed the dataset was first published at.
const DefaultURL = "https://s3.amazonaws.com/roxiler.com/product_transaction.json"

// ClientConfig configures the feed client.
type ClientConfig struct {
	URL     string
	Timeout time.Duration // Default: 30 seconds
}

// Client fetches the seed feed over HTTP.
type Client struct {
	httpClient *http.Client
	url        string
}

// NewClient creates a feed client.
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	url := config.URL
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
	}
}

// URL returns the feed location.
func (c *Client) URL() string {
	return c.url
}

// record mirrors one feed entry; fields the store does not keep (image) are dropped.
type record struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	DateOfSale  time.Time `json:"dateOfSale"`
	Sold        bool      `json:"sold"`
}

// Fetch downloads and decodes the feed.
func (c *Client) Fetch(ctx context.Context) ([]core.Transaction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("feed returned status %d: %s", resp.StatusCode, string(body))
	}

	var records []record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}

	txs := make([]core.Transaction, len(records))
	for i, r := range records {
		txs[i] = core.Transaction{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Price:       r.Price,
			Category:    r.Category,
			DateOfSale:  r.DateOfSale.UTC(),
			Sold:        r.Sold,
		}
	}
	return txs, nil
}
