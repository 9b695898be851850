package gqlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// HTTPTransport posts documents as JSON to a GraphQL endpoint.
type HTTPTransport struct {
	URL    string
	Header http.Header
	Client *http.Client
}

// NewHTTPTransport returns a transport for url using http.DefaultClient.
func NewHTTPTransport(url string) *HTTPTransport {
	return &HTTPTransport{URL: url, Header: make(http.Header)}
}

type request struct {
	Query string `json:"query"`
}

type response struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors Errors                     `json:"errors"`
}

// Do sends document and returns the data object. A response carrying GraphQL
// errors is returned as Errors.
func (t *HTTPTransport) Do(ctx context.Context, document string) (map[string]json.RawMessage, error) {
	body, err := json.Marshal(request{Query: document})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, values := range t.Header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var out response
	if err := json.Unmarshal(payload, &out); err != nil {
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("server returned %s", resp.Status)
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Errors) > 0 {
		return nil, out.Errors
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	return out.Data, nil
}
