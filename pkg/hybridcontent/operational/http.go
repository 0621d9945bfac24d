package operational

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultHTTPTimeout = 5 * time.Second

// HTTPStore reads operational records from a REST gateway:
//
//	GET  {base}/{collection}/{id}    -> record, or 404
//	POST {base}/{collection}:query   {"filters": [...], "limit": n} -> {"records": [...]}
type HTTPStore struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

var _ Store = (*HTTPStore)(nil)

// HTTPOption configures an HTTPStore.
type HTTPOption func(*HTTPStore)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPStore) {
		if c != nil {
			s.client = c
		}
	}
}

// WithTimeout bounds every call.
func WithTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPStore) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewHTTPStore creates a store for the gateway at baseURL.
func NewHTTPStore(baseURL string, opts ...HTTPOption) (*HTTPStore, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid operational base URL: %w", err)
	}
	s := &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  http.DefaultClient,
		timeout: defaultHTTPTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type queryRequest struct {
	Filters []Filter `json:"filters"`
	Limit   int      `json:"limit,omitempty"`
}

type queryResponse struct {
	Records []Record `json:"records"`
}

func (s *HTTPStore) GetByID(ctx context.Context, collection, id string) (Record, error) {
	fail := func(err error) error {
		return &AdapterError{Collection: collection, Op: "get", ID: id, Err: err}
	}

	endpoint := fmt.Sprintf("%s/%s/%s", s.baseURL, url.PathEscape(collection), url.PathEscape(id))
	var rec Record
	found, err := s.do(ctx, http.MethodGet, endpoint, nil, &rec)
	if err != nil {
		return nil, fail(err)
	}
	if !found {
		return nil, nil
	}
	if rec.ID() == "" {
		rec["id"] = id
	}
	return rec, nil
}

func (s *HTTPStore) Query(ctx context.Context, collection string, filters []Filter, limit int) ([]Record, error) {
	fail := func(err error) error {
		return &AdapterError{Collection: collection, Op: "query", Err: err}
	}

	body, err := json.Marshal(queryRequest{Filters: filters, Limit: limit})
	if err != nil {
		return nil, fail(err)
	}

	endpoint := fmt.Sprintf("%s/%s:query", s.baseURL, url.PathEscape(collection))
	var resp queryResponse
	found, err := s.do(ctx, http.MethodPost, endpoint, body, &resp)
	if err != nil {
		return nil, fail(err)
	}
	if !found || resp.Records == nil {
		return []Record{}, nil
	}
	return resp.Records, nil
}

// do performs one call and decodes a 2xx body into out. It reports false for
// a 404 response.
func (s *HTTPStore) do(ctx context.Context, method, endpoint string, body []byte, out any) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return true, nil
}
