package tableclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/jakechorley/shift-roster/pkg/core/roster"
)

// Client reads delimited tables from local files or http(s) URLs
type Client struct {
	httpClient *http.Client
}

// NewClient creates a table client. A nil httpClient uses http.DefaultClient.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient}
}

// Read loads the table at location, which is a file path or an http(s) URL.
// Locations ending in .csv are comma separated; everything else is tab separated.
func (c *Client) Read(ctx context.Context, location string) (*roster.Table, error) {
	body, err := c.open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	table, err := roster.ParseDelimited(body, Delimiter(location))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", location, err)
	}

	return table, nil
}

// Delimiter returns the field separator implied by a location's extension
func Delimiter(location string) rune {
	p := location
	if u, err := url.Parse(location); err == nil && isRemote(u) {
		p = u.Path
	}
	if strings.EqualFold(path.Ext(p), ".csv") {
		return ','
	}
	return '\t'
}

func isRemote(u *url.URL) bool {
	return u.Scheme == "http" || u.Scheme == "https"
}

// open returns a reader for the raw table bytes
func (c *Client) open(ctx context.Context, location string) (io.ReadCloser, error) {
	u, err := url.Parse(location)
	if err != nil || !isRemote(u) {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", location, err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", location, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
	}

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch %s: status %d: %s", location, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	return resp.Body, nil
}
