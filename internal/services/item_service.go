package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/refbase/refbase/internal/entities"
	"github.com/refbase/refbase/internal/idgen"
	"github.com/refbase/refbase/internal/metadata"
)

// ItemService orchestrates item lifecycle operations and is the only caller
// of the hook dispatcher.
type ItemService struct {
	items       ItemStore
	ids         idgen.Generator
	hooks       Notifier
	extractor   metadata.Extractor
	lookup      metadata.LookupClient
	attachments *AttachmentService
	log         zerolog.Logger
}

// NewItemService creates a new ItemService. lookup may be nil, in which
// case PDF imports skip DOI enrichment.
func NewItemService(
	items ItemStore,
	ids idgen.Generator,
	hooks Notifier,
	extractor metadata.Extractor,
	lookup metadata.LookupClient,
	attachments *AttachmentService,
	log zerolog.Logger,
) *ItemService {
	return &ItemService{
		items:       items,
		ids:         ids,
		hooks:       hooks,
		extractor:   extractor,
		lookup:      lookup,
		attachments: attachments,
		log:         log.With().Str("service", "items").Logger(),
	}
}

// AddItem mints identities for the item and its creators, persists the
// aggregate and fires the item-added hook. The denormalized title is kept
// in sync with the metadata map when one is supplied.
func (s *ItemService) AddItem(item *entities.Item) (*entities.Item, error) {
	item.ID = s.ids.Next()
	for i := range item.Creators {
		item.Creators[i].ID = s.ids.Next()
	}

	if len(item.Metadata) > 0 {
		item.Metadata["title"] = item.Title
	}

	if err := s.items.Add(item); err != nil {
		return nil, err
	}

	s.hooks.NotifyItemAdded(item.ID)
	return item, nil
}

// GetItem returns the full item aggregate, or (nil, nil) when absent.
func (s *ItemService) GetItem(itemID int64) (*entities.Item, error) {
	return s.items.Get(itemID)
}

// UpdateItem upserts metadata fields on an existing item and fires the
// item-updated hook. Returns false when the item does not exist.
func (s *ItemService) UpdateItem(itemID int64, md map[string]string) (bool, error) {
	exists, err := s.items.Exists(itemID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	if err := s.items.Update(itemID, md); err != nil {
		return false, err
	}

	s.hooks.NotifyItemUpdated(itemID)
	return true, nil
}

// DeleteItem removes an item with its full cascade and fires the
// item-deleted hook. Returns false when the item does not exist.
func (s *ItemService) DeleteItem(itemID int64) (bool, error) {
	deleted, err := s.items.Delete(itemID)
	if err != nil || !deleted {
		return deleted, err
	}

	s.hooks.NotifyItemDeleted(itemID)
	return true, nil
}

// SearchItems matches the term against titles and metadata values.
func (s *ItemService) SearchItems(term string) ([]entities.ItemSummary, error) {
	return s.items.Search(term)
}

// ListSummaries returns every item with its first author.
func (s *ItemService) ListSummaries() ([]entities.ItemSummary, error) {
	return s.items.ListSummaries()
}

// CreateItemFromPDF builds an item out of a document file: extract a title
// guess and page texts, scan for a DOI, optionally enrich title and creators
// through the lookup client, persist through the normal add path, attach the
// source file, and return the fully reloaded item.
//
// Enrichment failures degrade to locally-derived data. Extraction failures
// (including a missing source file) yield (nil, nil): no item is created.
func (s *ItemService) CreateItemFromPDF(ctx context.Context, path string) (*entities.Item, error) {
	info, err := s.extractor.Extract(path)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("document extraction failed")
		return nil, nil
	}

	title := info.Title
	if title == "" {
		title = metadata.TitleFromFilename(path)
	}

	item := &entities.Item{
		ItemType: "journalArticle",
		Title:    title,
		Metadata: map[string]string{"source_file": filepath.Base(path)},
	}

	if doi := metadata.FindDOI(info.Pages); doi != "" {
		item.Metadata["doi"] = doi
		s.enrichFromDOI(ctx, item, doi)
	}

	added, err := s.AddItem(item)
	if err != nil {
		return nil, fmt.Errorf("persist item from %s: %w", path, err)
	}

	if _, err := s.attachments.AddAttachment(added.ID, path); err != nil {
		s.log.Warn().Err(err).Int64("item_id", added.ID).Msg("could not attach source file")
	}

	return s.items.Get(added.ID)
}

// enrichFromDOI overwrites title and creators with the canonical record when
// the lookup succeeds; any failure leaves locally-derived data in place.
func (s *ItemService) enrichFromDOI(ctx context.Context, item *entities.Item, doi string) {
	if s.lookup == nil {
		return
	}
	work, err := s.lookup.WorkByDOI(ctx, doi)
	if err != nil {
		s.log.Warn().Err(err).Str("doi", doi).Msg("no enrichment available")
		return
	}
	if work.Title != "" {
		item.Title = work.Title
	}
	for _, author := range work.Authors {
		item.Creators = append(item.Creators, entities.CreatorRef{
			FirstName:   author.Given,
			LastName:    author.Family,
			CreatorType: "author",
		})
	}
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
