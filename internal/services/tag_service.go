package services

import (
	"github.com/rs/zerolog"

	"github.com/refbase/refbase/internal/entities"
	"github.com/refbase/refbase/internal/idgen"
)

// TagService orchestrates tag operations. Tag mutations never fire hooks.
type TagService struct {
	tags  TagStore
	items ItemStore
	ids   idgen.Generator
	log   zerolog.Logger
}

// NewTagService creates a new TagService.
func NewTagService(tags TagStore, items ItemStore, ids idgen.Generator, log zerolog.Logger) *TagService {
	return &TagService{
		tags:  tags,
		items: items,
		ids:   ids,
		log:   log.With().Str("service", "tags").Logger(),
	}
}

// AddTag creates a tag, or returns the existing tag's id when the name is
// already taken. Calling it twice with the same name yields the same id.
func (s *TagService) AddTag(name string) (int64, error) {
	return s.tags.Add(s.ids.Next(), name)
}

// AddTagToItem links a tag to an item. Returns false when either side does
// not exist; duplicate links are success.
func (s *TagService) AddTagToItem(itemID, tagID int64) (bool, error) {
	itemExists, err := s.items.Exists(itemID)
	if err != nil {
		return false, err
	}
	tagExists, err := s.tags.Exists(tagID)
	if err != nil {
		return false, err
	}
	if !itemExists || !tagExists {
		return false, nil
	}

	if err := s.tags.AddToItem(itemID, tagID); err != nil {
		return false, err
	}
	return true, nil
}

// TagsForItem returns the item's tags by name, or an empty list when the
// item does not exist.
func (s *TagService) TagsForItem(itemID int64) ([]entities.Tag, error) {
	exists, err := s.items.Exists(itemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []entities.Tag{}, nil
	}
	return s.tags.ForItem(itemID)
}
