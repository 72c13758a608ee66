// Package doi fetches BibTeX records for DOIs via doi.org content
// negotiation.
package doi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the DOI resolver base URL.
	BaseURL = "https://doi.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit keeps us polite: content-negotiation resolvers
	// throttle aggressively above a few requests per second.
	RateLimit = 5.0

	// bibtexAccept asks the resolver for a BibTeX rendition.
	bibtexAccept = "application/x-bibtex; charset=utf-8"

	// maxResponseBytes bounds how much of a response we read.
	maxResponseBytes = 1 << 20
)

// Common errors returned by the DOI client.
var (
	// ErrNotFound indicates the DOI is not registered.
	ErrNotFound = errors.New("DOI not found")

	// ErrNoBibTeX indicates the registrant offers no BibTeX rendition.
	ErrNoBibTeX = errors.New("no BibTeX available for DOI")
)

// IsNotFound reports whether err indicates an unregistered DOI.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Client is a rate-limited HTTP client for the DOI resolver.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMailto sets a contact address sent in the User-Agent, which
// resolvers use to route traffic into their polite pools.
func WithMailto(mailto string) ClientOption {
	return func(c *Client) {
		c.mailto = mailto
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// NewClient creates a new DOI resolver client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// userAgent identifies the tool, with the mailto appended when set.
func (c *Client) userAgent() string {
	ua := "bibfold/1.0"
	if c.mailto != "" {
		ua += " (mailto:" + c.mailto + ")"
	}
	return ua
}

// FetchBibTeX resolves a DOI to its BibTeX record.
// Returns ErrNotFound for unregistered DOIs and ErrNoBibTeX when the
// registrant serves no BibTeX rendition.
func (c *Client) FetchBibTeX(ctx context.Context, doi string) (string, error) {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return "", fmt.Errorf("empty DOI")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+doi, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", doi, err)
	}
	req.Header.Set("Accept", bibtexAccept)
	req.Header.Set("User-Agent", c.userAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", doi, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%s: %w", doi, ErrNotFound)
	case resp.StatusCode == http.StatusNotAcceptable:
		return "", fmt.Errorf("%s: %w", doi, ErrNoBibTeX)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("resolving %s: unexpected status %d", doi, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("reading response for %s: %w", doi, err)
	}

	bib := strings.TrimSpace(string(body))
	if bib == "" || !strings.HasPrefix(bib, "@") {
		return "", fmt.Errorf("%s: %w", doi, ErrNoBibTeX)
	}
	return bib + "\n", nil
}
