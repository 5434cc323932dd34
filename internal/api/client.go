package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// MusicPath is the backend endpoint that resolves to the current track
const MusicPath = "/music"

// FetchError is returned for any failed music request, whether the backend
// answered with a non-success status or the transport itself failed.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return "Failed to fetch music: " + e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client talks to the music backend. If HTTP is nil http.DefaultClient is
// used; no timeout is applied.
type Client struct {
	RootURL string
	HTTP    *http.Client
}

// NewClient creates a client for the backend at rootURL
func NewClient(rootURL string, httpClient *http.Client) *Client {
	return &Client{RootURL: strings.TrimRight(rootURL, "/"), HTTP: httpClient}
}

// FetchMusicURL issues a single GET to the /music endpoint and returns the
// final URL of the response after redirects. The body is not read.
func (c *Client) FetchMusicURL(ctx context.Context) (string, error) {
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.RootURL+MusicPath, nil)
	if err != nil {
		return "", &FetchError{Err: err}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{Err: fmt.Errorf("HTTP error! status: %d", resp.StatusCode)}
	}

	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.String(), nil
	}
	return req.URL.String(), nil
}
