// Package httpclient provides basic http functions
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client performs bounded JSON requests against a remote provider base url
type Client struct {
	baseUrl    string
	httpClient *http.Client
}

// MakeClient creates Client for baseUrl, requests are abandoned after timeout
func MakeClient(baseUrl string, timeout time.Duration) *Client {
	return &Client{
		baseUrl: baseUrl,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetJson performs a GET against path with query values, unmarshalling the response body into result.
// A non-2xx status is returned as an error
func (c *Client) GetJson(ctx context.Context, path string, values url.Values, result interface{}) error {
	requestUrl := c.baseUrl + path
	if len(values) > 0 {
		requestUrl = requestUrl + "?" + values.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request for %s: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("request for %s returned status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response for %s: %w", path, err)
	}
	if err = json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshalling response for %s: %w", path, err)
	}
	return nil
}
