package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Errors shared by all external API clients.
var (
	ErrNonOkResponse     = errors.New("non-OK response")
	ErrEmptyResponseBody = errors.New("empty response body")
	ErrUnauthorized      = errors.New("unauthorized response")
)

// getJSON sends an HTTP GET request with the given headers and returns the
// response body. Every external call in the tracker goes through here so
// that timeouts and status handling stay uniform.
func getJSON(ctx context.Context, client *http.Client, targetURL string, headers map[string]string) ([]byte, error) {
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if reqErr != nil {
		return nil, fmt.Errorf("getJSON: invalid request: %s: %w", targetURL, reqErr)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, respErr := client.Do(req)
	if respErr != nil {
		return nil, fmt.Errorf("getJSON: failed to send GET request: %s: %w", targetURL, respErr)
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			respErr = fmt.Errorf("getJSON: error while closing response body: %w", closeErr)
		}
	}()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("getJSON: %w: %s", ErrUnauthorized, resp.Status)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("getJSON: %w: %s", ErrNonOkResponse, resp.Status)
	}

	body, bodyErr := io.ReadAll(resp.Body)
	if bodyErr != nil {
		return nil, fmt.Errorf("getJSON: failed to read response body: %w", bodyErr)
	}

	if len(body) == 0 {
		return nil, fmt.Errorf("getJSON: %w", ErrEmptyResponseBody)
	}

	return body, nil
}

// postForm sends an HTTP POST request with URL-encoded form values and
// returns the response body. Used by the OpenSky token endpoint.
func postForm(ctx context.Context, client *http.Client, targetURL string, form url.Values) ([]byte, error) {
	req, reqErr := http.NewRequestWithContext(
		ctx, http.MethodPost, targetURL, strings.NewReader(form.Encode()))
	if reqErr != nil {
		return nil, fmt.Errorf("postForm: invalid request: %s: %w", targetURL, reqErr)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, respErr := client.Do(req)
	if respErr != nil {
		return nil, fmt.Errorf("postForm: failed to send POST request: %s: %w", targetURL, respErr)
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			respErr = fmt.Errorf("postForm: error while closing response body: %w", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("postForm: %w: %s", ErrNonOkResponse, resp.Status)
	}

	body, bodyErr := io.ReadAll(resp.Body)
	if bodyErr != nil {
		return nil, fmt.Errorf("postForm: failed to read response body: %w", bodyErr)
	}

	return body, nil
}
