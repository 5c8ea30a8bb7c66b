// Package arxiv bundles an observer that watches for newer versions of
// arXiv preprints in the library.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/refbase/refbase/internal/entities"
)

// ItemReader is the slice of the item service the checker needs.
type ItemReader interface {
	GetItem(itemID int64) (*entities.Item, error)
	ListSummaries() ([]entities.ItemSummary, error)
}

// VersionAPI resolves an arXiv id to its latest published version number.
type VersionAPI interface {
	LatestVersion(ctx context.Context, arxivID string) (int, error)
}

// Checker flags items whose arXiv preprint has a newer version than the one
// recorded locally. It reacts to item-added events by checking the new item
// and scans the whole library during background checks.
type Checker struct {
	items ItemReader
	api   VersionAPI
	log   zerolog.Logger
}

// NewChecker creates a Checker. api may be a Client or a test double.
func NewChecker(items ItemReader, api VersionAPI, log zerolog.Logger) *Checker {
	return &Checker{
		items: items,
		api:   api,
		log:   log.With().Str("plugin", "arxiv-version-checker").Logger(),
	}
}

func (c *Checker) Name() string {
	return "arXiv Version Checker"
}

// OnItemAdded checks the freshly added item right away so a stale preprint
// is flagged without waiting for the next background pass.
func (c *Checker) OnItemAdded(itemID int64) error {
	_, err := c.checkItem(context.Background(), itemID)
	return err
}

// CheckAllItems scans the library and logs every item with a newer arXiv
// version. Per-item failures are logged and do not stop the scan.
func (c *Checker) CheckAllItems(ctx context.Context) error {
	summaries, err := c.items.ListSummaries()
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}

	var stale []int64
	for _, summary := range summaries {
		if err := ctx.Err(); err != nil {
			return err
		}
		outdated, err := c.checkItem(ctx, summary.ID)
		if err != nil {
			c.log.Warn().Err(err).Int64("item_id", summary.ID).Msg("version check failed")
			continue
		}
		if outdated {
			stale = append(stale, summary.ID)
		}
	}

	c.log.Info().Ints64("stale_items", stale).Msg("arXiv version scan complete")
	return nil
}

// checkItem reports whether the item is an arXiv preprint with a newer
// remote version. Non-arXiv items report false with no error.
func (c *Checker) checkItem(ctx context.Context, itemID int64) (bool, error) {
	item, err := c.items.GetItem(itemID)
	if err != nil || item == nil {
		return false, err
	}

	arxivID := item.Metadata["arxiv_id"]
	if arxivID == "" {
		return false, nil
	}

	localVersion := 1
	if v, err := strconv.Atoi(item.Metadata["version"]); err == nil {
		localVersion = v
	}

	latest, err := c.api.LatestVersion(ctx, arxivID)
	if err != nil {
		return false, err
	}

	if latest > localVersion {
		c.log.Info().Int64("item_id", itemID).Str("arxiv_id", arxivID).
			Int("local_version", localVersion).Int("latest_version", latest).
			Msg("newer arXiv version available")
		return true, nil
	}
	return false, nil
}

// Client queries the arXiv Atom export API for version numbers.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates an arXiv API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// LatestVersion fetches the entry for an arXiv id and parses the version
// suffix out of its canonical id URL (".../abs/1234.5678v3" -> 3). An entry
// without a version suffix is version 1.
func (c *Client) LatestVersion(ctx context.Context, arxivID string) (int, error) {
	reqURL := fmt.Sprintf("%s/api/query?id_list=%s", c.baseURL, arxivID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("query arxiv: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return 0, fmt.Errorf("decode feed: %w", err)
	}
	if len(feed.Entries) == 0 {
		return 0, fmt.Errorf("no entry for %s", arxivID)
	}

	return parseVersion(feed.Entries[0].ID), nil
}

func parseVersion(entryID string) int {
	idx := strings.LastIndex(entryID, "v")
	if idx < 0 || idx == len(entryID)-1 {
		return 1
	}
	version, err := strconv.Atoi(entryID[idx+1:])
	if err != nil {
		return 1
	}
	return version
}

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID string `xml:"id"`
}
