package services

import (
	"github.com/rs/zerolog"

	"github.com/refbase/refbase/internal/entities"
	"github.com/refbase/refbase/internal/idgen"
)

// CollectionService orchestrates collection operations. Collection
// mutations never fire hooks.
type CollectionService struct {
	collections CollectionStore
	items       ItemStore
	ids         idgen.Generator
	log         zerolog.Logger
}

// NewCollectionService creates a new CollectionService.
func NewCollectionService(collections CollectionStore, items ItemStore, ids idgen.Generator, log zerolog.Logger) *CollectionService {
	return &CollectionService{
		collections: collections,
		items:       items,
		ids:         ids,
		log:         log.With().Str("service", "collections").Logger(),
	}
}

// AddCollection creates a collection and returns its minted id.
func (s *CollectionService) AddCollection(name string, parentID *int64) (int64, error) {
	collectionID := s.ids.Next()
	if err := s.collections.Add(collectionID, name, parentID); err != nil {
		return 0, err
	}
	return collectionID, nil
}

// AddItemToCollection links an item into a collection. Returns false when
// either side does not exist; duplicate links are success.
func (s *CollectionService) AddItemToCollection(itemID, collectionID int64) (bool, error) {
	itemExists, err := s.items.Exists(itemID)
	if err != nil {
		return false, err
	}
	collectionExists, err := s.collections.Exists(collectionID)
	if err != nil {
		return false, err
	}
	if !itemExists || !collectionExists {
		return false, nil
	}

	if err := s.collections.AddItemTo(itemID, collectionID); err != nil {
		return false, err
	}
	return true, nil
}

// ItemsInCollection returns the collection's item summaries, or an empty
// list when the collection does not exist.
func (s *CollectionService) ItemsInCollection(collectionID int64) ([]entities.ItemSummary, error) {
	exists, err := s.collections.Exists(collectionID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []entities.ItemSummary{}, nil
	}
	return s.collections.ItemsIn(collectionID)
}

// ListCollections returns every collection ordered by name.
func (s *CollectionService) ListCollections() ([]entities.Collection, error) {
	return s.collections.ListAll()
}
