// Package digitaldata fetches asset records from the Digital Data service.
package digitaldata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/ftva-etl/internal/metadata"
)

// DefaultURL is the production Digital Data service.
const DefaultURL = "https://digital-data.cinema.ucla.edu"

// Client is a Digital Data API client
type Client struct {
	BaseURL    string
	user       string
	password   string
	httpClient *http.Client
}

// NewClient creates a new Digital Data client using basic auth
func NewClient(baseURL, user, password string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		user:       user,
		password:   password,
		httpClient: httpClient,
	}
}

// GetRecordByID returns the asset record with id. A record that does not
// exist, or any other non-200 response, yields an empty record.
func (c *Client) GetRecordByID(ctx context.Context, id int) (metadata.AssetRecord, error) {
	recordURL := fmt.Sprintf("%s/records/%d", c.BaseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, recordURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Digital Data request: %w", err)
	}
	req.SetBasicAuth(c.user, c.password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Digital Data record %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		slog.Warn("Digital Data record not available", "id", id, "status", resp.StatusCode, "body", string(body))
		return metadata.AssetRecord{}, nil
	}

	record := metadata.AssetRecord{}
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode Digital Data record %d: %w", id, err)
	}
	return record, nil
}
