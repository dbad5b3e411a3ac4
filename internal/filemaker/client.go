// Package filemaker reads inventory rows through the FileMaker Data API.
package filemaker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/ftva-etl/internal/metadata"
)

const (
	DefaultURL        = "https://adam.cinema.ucla.edu"
	DefaultDatabase   = "Inventory for Labeling"
	DefaultLayout     = "InventoryForLabeling_ReadOnly_API"
	DefaultAPIVersion = "vLatest"
	DefaultTimeout    = 120 * time.Second
)

// FileMaker Data API message codes.
const (
	codeOK           = "0"
	codeNoRecords    = "401"
	codeInvalidToken = "952"
)

// DefaultFields is the subset of inventory fields shown by Fields when no
// names are given.
var DefaultFields = []string{
	"Acquisition type",
	"Alma",
	"aka",
	"availability",
	"director",
	"donor_code",
	"element_info",
	"episode no.",
	"episode_title",
	"film base",
	"format_type",
	"inventory_id",
	"inventory_no",
	"notes",
	"production_type",
	"release_broadcast_year",
	"spac",
	"title",
	"type",
}

// Config holds the connection settings for one database layout.
type Config struct {
	URL        string
	User       string
	Password   string
	Database   string
	Layout     string
	APIVersion string
}

// Client is a FileMaker Data API client. It logs in lazily and reuses the
// session token until Close.
type Client struct {
	cfg        Config
	httpClient *http.Client

	mu    sync.Mutex
	token string
}

// APIError is a non-zero message code returned by the Data API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("FileMaker error %s (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// NewClient creates a FileMaker client. Empty config values use the defaults.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Layout == "" {
		cfg.Layout = DefaultLayout
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

type message struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Response json.RawMessage `json:"response"`
	Messages []message       `json:"messages"`
}

func (c *Client) databaseURL() string {
	return fmt.Sprintf("%s/fmi/data/%s/databases/%s", c.cfg.URL, c.cfg.APIVersion, url.PathEscape(c.cfg.Database))
}

// SearchByInventoryNumber finds the rows whose inventory_no is exactly term.
// No matching rows is an empty result, not an error.
func (c *Client) SearchByInventoryNumber(ctx context.Context, term string) ([]metadata.InventoryRecord, error) {
	return c.Find(ctx, map[string]string{"inventory_no": "==" + term})
}

// Find runs a single _find request against the configured layout.
func (c *Client) Find(ctx context.Context, query map[string]string) ([]metadata.InventoryRecord, error) {
	body, err := json.Marshal(map[string]any{
		"query":       []map[string]string{query},
		"dateformats": 2,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal find request: %w", err)
	}

	findURL := fmt.Sprintf("%s/layouts/%s/_find", c.databaseURL(), url.PathEscape(c.cfg.Layout))
	env, err := c.authorized(ctx, http.MethodPost, findURL, body)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Code == codeNoRecords {
		slog.Debug("No FileMaker records matched", "query", query)
		return []metadata.InventoryRecord{}, nil
	}
	if err != nil {
		return nil, err
	}

	var response struct {
		Data []struct {
			FieldData map[string]any `json:"fieldData"`
			RecordID  string         `json:"recordId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(env.Response, &response); err != nil {
		return nil, fmt.Errorf("failed to decode FileMaker records: %w", err)
	}

	records := make([]metadata.InventoryRecord, 0, len(response.Data))
	for _, d := range response.Data {
		records = append(records, NewInventoryRecord(d.FieldData))
	}
	return records, nil
}

// NewInventoryRecord converts a FileMaker fieldData object. Numbers are
// rendered without exponent and nulls become empty strings.
func NewInventoryRecord(fieldData map[string]any) metadata.InventoryRecord {
	rec := make(metadata.InventoryRecord, len(fieldData))
	for k, v := range fieldData {
		rec[k] = fieldString(v)
	}
	return rec
}

// authorized sends a request with the session token, logging in first when
// needed and once more if the token has expired.
func (c *Client) authorized(ctx context.Context, method, target string, body []byte) (*envelope, error) {
	for attempt := 0; attempt < 2; attempt++ {
		token, err := c.sessionToken(ctx)
		if err != nil {
			return nil, err
		}

		env, err := c.do(ctx, method, target, body, func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+token)
		})
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Code == codeInvalidToken && attempt == 0 {
			slog.Debug("FileMaker session expired, logging in again")
			c.clearToken(token)
			continue
		}
		return env, err
	}
	return nil, errors.New("filemaker session could not be established")
}

func (c *Client) sessionToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}

	env, err := c.do(ctx, http.MethodPost, c.databaseURL()+"/sessions", []byte("{}"), func(req *http.Request) {
		req.SetBasicAuth(c.cfg.User, c.cfg.Password)
	})
	if err != nil {
		return "", fmt.Errorf("failed to log in to FileMaker: %w", err)
	}

	var response struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Response, &response); err != nil || response.Token == "" {
		return "", errors.New("filemaker login returned no session token")
	}
	c.token = response.Token
	return c.token, nil
}

func (c *Client) clearToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == token {
		c.token = ""
	}
}

// Close ends the session, if one was opened.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	token := c.token
	c.token = ""
	c.mu.Unlock()
	if token == "" {
		return nil
	}

	_, err := c.do(ctx, http.MethodDelete, c.databaseURL()+"/sessions/"+url.PathEscape(token), nil, nil)
	if err != nil {
		return fmt.Errorf("failed to log out of FileMaker: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, target string, body []byte, decorate func(*http.Request)) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create FileMaker request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if decorate != nil {
		decorate(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send FileMaker request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read FileMaker response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("filemaker returned status %d: %s", resp.StatusCode, truncate(string(raw), 500))
	}
	for _, m := range env.Messages {
		if m.Code != codeOK {
			return nil, &APIError{Status: resp.StatusCode, Code: m.Code, Message: m.Message}
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("filemaker returned status %d: %s", resp.StatusCode, truncate(string(raw), 500))
	}
	return &env, nil
}

// Fields returns the named fields of rec, or DefaultFields when no names are
// given. Names missing from rec are omitted.
func Fields(rec metadata.InventoryRecord, names ...string) metadata.InventoryRecord {
	if len(names) == 0 {
		names = DefaultFields
	}
	out := make(metadata.InventoryRecord, len(names))
	for _, name := range names {
		if v, ok := rec[name]; ok {
			out[name] = v
		}
	}
	return out
}

func fieldString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
