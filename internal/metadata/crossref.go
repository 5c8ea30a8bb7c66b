package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Work is the enrichment result for a DOI: the canonical title and the
// ordered author list.
type Work struct {
	DOI     string   `json:"doi"`
	Title   string   `json:"title,omitempty"`
	Authors []Author `json:"authors,omitempty"`
}

// Author is one (given, family) name pair in citation order.
type Author struct {
	Given  string `json:"given,omitempty"`
	Family string `json:"family,omitempty"`
}

// LookupClient resolves a DOI to bibliographic metadata. Any transport or
// decode failure is an error the caller treats as "no enrichment available".
type LookupClient interface {
	WorkByDOI(ctx context.Context, doi string) (*Work, error)
}

// CrossrefClient fetches work metadata from the Crossref REST API.
type CrossrefClient struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// NewCrossrefClient creates a rate-limited Crossref API client.
func NewCrossrefClient(baseURL, userAgent string, timeout time.Duration) *CrossrefClient {
	return &CrossrefClient{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		userAgent:   userAgent,
		rateLimiter: newRateLimiter(time.Second), // 1 request per second
	}
}

// WorkByDOI looks up a work by its DOI.
func (c *CrossrefClient) WorkByDOI(ctx context.Context, doi string) (*Work, error) {
	if doi == "" {
		return nil, fmt.Errorf("doi is required")
	}

	c.rateLimiter.wait()

	reqURL := fmt.Sprintf("%s/works/%s", c.baseURL, url.PathEscape(doi))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch DOI data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("DOI not found: %s", doi)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var payload crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return convertWork(doi, &payload.Message), nil
}

func convertWork(doi string, msg *crossrefWork) *Work {
	work := &Work{DOI: doi}
	if len(msg.Title) > 0 {
		work.Title = msg.Title[0]
	}
	for _, author := range msg.Author {
		work.Authors = append(work.Authors, Author{
			Given:  author.Given,
			Family: author.Family,
		})
	}
	return work
}

// Crossref API response types (internal)

type crossrefResponse struct {
	Message crossrefWork `json:"message"`
}

type crossrefWork struct {
	DOI    string           `json:"DOI"`
	Title  []string         `json:"title"`
	Author []crossrefAuthor `json:"author"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}
