package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/platinummonkey/registry/pkg/apierrors"
	"github.com/platinummonkey/registry/pkg/packageid"
)

// Client streams packuments and tarballs from an upstream registry over
// HTTP. It never buffers response bodies; callers are responsible for
// closing the returned io.ReadCloser.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client against the given upstream registry base URL
// (e.g. "https://registry.npmjs.org"). If httpClient is nil, http.DefaultClient is used.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// StreamPackument issues GET {registry}/{pkg} and returns the response body
// as a lazy, finite byte stream. Callers must Close the returned reader.
func (c *Client) StreamPackument(ctx context.Context, pkg packageid.Identifier) (io.ReadCloser, error) {
	reqURL := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(pkg.String()))
	return c.get(ctx, reqURL)
}

// StreamTarball issues GET {registry}/{scope/}{name}/-/{name}-{version}.tgz
// and returns the response body as a lazy, finite byte stream.
func (c *Client) StreamTarball(ctx context.Context, pkg packageid.Identifier, version string) (io.ReadCloser, error) {
	filename := fmt.Sprintf("%s-%s.tgz", pkg.Name, version)
	var reqURL string
	if pkg.Scope != "" {
		reqURL = fmt.Sprintf("%s/@%s/%s/-/%s", c.baseURL, pkg.Scope, pkg.Name, filename)
	} else {
		reqURL = fmt.Sprintf("%s/%s/-/%s", c.baseURL, pkg.Name, filename)
	}
	return c.get(ctx, reqURL)
}

// Probe issues a lightweight HEAD request against the upstream registry's
// base URL to confirm it is reachable, for use by health checks.
func (c *Client) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return apierrors.Upstream("failed to build upstream probe request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apierrors.Upstream("upstream probe request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return apierrors.Upstream(fmt.Sprintf("upstream probe responded with status %d", resp.StatusCode), nil)
	}
	return nil
}

func (c *Client) get(ctx context.Context, reqURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apierrors.Upstream("failed to build upstream request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.Upstream("upstream request failed", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, apierrors.NotFound("upstream reported package not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, apierrors.Upstream(fmt.Sprintf("upstream responded with status %d", resp.StatusCode), nil)
	}

	return resp.Body, nil
}
