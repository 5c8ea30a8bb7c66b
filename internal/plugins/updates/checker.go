// Package updates bundles an observer that probes the bibliographic lookup
// service for fresher records of DOI-bearing items. It exposes only the
// background-check capability, so it never participates in lifecycle
// notifications.
package updates

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/refbase/refbase/internal/entities"
	"github.com/refbase/refbase/internal/metadata"
)

// ItemReader is the slice of the item service the checker needs.
type ItemReader interface {
	GetItem(itemID int64) (*entities.Item, error)
	ListSummaries() ([]entities.ItemSummary, error)
}

// Checker re-resolves every DOI-bearing item against the lookup service and
// logs records whose canonical title has drifted from the local copy.
type Checker struct {
	items  ItemReader
	lookup metadata.LookupClient
	log    zerolog.Logger
}

// NewChecker creates a Checker.
func NewChecker(items ItemReader, lookup metadata.LookupClient, log zerolog.Logger) *Checker {
	return &Checker{
		items:  items,
		lookup: lookup,
		log:    log.With().Str("plugin", "update-checker").Logger(),
	}
}

func (c *Checker) Name() string {
	return "Article Update Checker"
}

// CheckAllItems walks the library once. Items without a DOI are skipped;
// lookup failures are logged and do not stop the pass.
func (c *Checker) CheckAllItems(ctx context.Context) error {
	summaries, err := c.items.ListSummaries()
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}

	for _, summary := range summaries {
		if err := ctx.Err(); err != nil {
			return err
		}

		item, err := c.items.GetItem(summary.ID)
		if err != nil || item == nil {
			continue
		}
		doi := item.Metadata["doi"]
		if doi == "" {
			continue
		}

		work, err := c.lookup.WorkByDOI(ctx, doi)
		if err != nil {
			c.log.Warn().Err(err).Str("doi", doi).Int64("item_id", item.ID).
				Msg("lookup failed")
			continue
		}

		if work.Title != "" && work.Title != item.Title {
			c.log.Info().Int64("item_id", item.ID).Str("doi", doi).
				Str("local_title", item.Title).Str("canonical_title", work.Title).
				Msg("canonical record differs from local copy")
		}
	}
	return nil
}
