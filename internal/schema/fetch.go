package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// HTTPClient is used for introspection requests. Tests may replace it.
var HTTPClient = &http.Client{Timeout: 30 * time.Second}

// FetchRetries is how many times a failed introspection request is retried.
// Only network errors, 429 and 5xx responses are retried.
var FetchRetries uint64 = 3

// newBackOff returns the retry schedule for introspection requests.
var newBackOff = func() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxElapsedTime = time.Minute
	return b
}

// FetchIntrospection posts the introspection query to url and returns the raw
// response body. headers are sent on the request in sorted order.
func FetchIntrospection(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	payload, err := json.Marshal(map[string]any{
		"operationName": "IntrospectionQuery",
		"query":         IntrospectionQuery,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode introspection request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create introspection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		req.Header.Set(k, headers[k])
	}

	var body []byte
	attempt := 0
	request := func() error {
		attempt++
		// The body reader is consumed by each attempt.
		req.Body = io.NopCloser(bytes.NewReader(payload))

		resp, err := HTTPClient.Do(req)
		if err != nil {
			return fmt.Errorf("introspection request to %s failed: %w", url, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read introspection response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("introspection request to %s returned %s: %s", url, resp.Status, truncate(data, 200))
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return err
			}
			return backoff.Permanent(err)
		}
		body = data
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(newBackOff(), FetchRetries), ctx)
	if err := backoff.Retry(request, policy); err != nil {
		if attempt > 1 {
			return nil, fmt.Errorf("%w (after %d attempts)", err, attempt)
		}
		return nil, err
	}

	var envelope struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 {
		return nil, fmt.Errorf("introspection failed: %s", envelope.Errors[0].Message)
	}

	return body, nil
}

// Fetch introspects a live endpoint and builds a Schema from the result.
func Fetch(ctx context.Context, url string, headers map[string]string) (*Schema, error) {
	body, err := FetchIntrospection(ctx, url, headers)
	if err != nil {
		return nil, err
	}
	s, err := ParseIntrospection(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse introspection from %s: %w", url, err)
	}
	s.Source = url
	return s, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
