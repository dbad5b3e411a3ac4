package alma

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/lehigh-university-libraries/ftva-etl/internal/marc"
)

// DefaultSRUURL is the UCLA Alma SRU endpoint.
const DefaultSRUURL = "https://ucla.alma.exlibrisgroup.com/view/sru/01UCS_LAL"

// Client queries Alma through its SRU interface
type Client struct {
	BaseURL    string
	httpClient *http.Client
}

// NewClient creates a new Alma SRU client
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultSRUURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		BaseURL:    baseURL,
		httpClient: httpClient,
	}
}

type diagnostic struct {
	URI     string `xml:"uri"`
	Message string `xml:"message"`
	Details string `xml:"details"`
}

type searchRetrieveResponse struct {
	NumberOfRecords int          `xml:"numberOfRecords"`
	Diagnostics     []diagnostic `xml:"diagnostics>diagnostic"`
}

// SearchByCallNumber returns the bib records whose permanent call number
// matches term.
func (c *Client) SearchByCallNumber(ctx context.Context, term string) ([]marc.Record, error) {
	return c.Search(ctx, "alma.PermanentCallNumber="+quoteTerm(term))
}

// Search runs a CQL query and returns the MARC records in the response.
func (c *Client) Search(ctx context.Context, query string) ([]marc.Record, error) {
	params := url.Values{}
	params.Set("version", "1.2")
	params.Set("operation", "searchRetrieve")
	params.Set("recordSchema", "marcxml")
	params.Set("query", query)

	searchURL := c.BaseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Alma request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query Alma: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Alma response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alma SRU returned status %d: %s", resp.StatusCode, truncate(string(body), 500))
	}

	var envelope searchRetrieveResponse
	if err := xml.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse Alma response: %w", err)
	}
	if len(envelope.Diagnostics) > 0 {
		d := envelope.Diagnostics[0]
		return nil, fmt.Errorf("alma SRU diagnostic: %s %s", d.Message, d.Details)
	}

	records, err := marc.ParseXML(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	slog.Debug("Alma search complete", "query", query, "total", envelope.NumberOfRecords, "returned", len(records))
	return records, nil
}

func quoteTerm(term string) string {
	if strings.Contains(term, " ") {
		return `"` + term + `"`
	}
	return term
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
