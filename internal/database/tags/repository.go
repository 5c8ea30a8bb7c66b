// Package tags provides database operations for tags and their item links.
package tags

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/refbase/refbase/internal/entities"
)

// Repository handles all tag database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tags repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add creates a tag with the given candidate id, or returns the existing
// tag's id when a tag with that exact name already exists. Names are
// matched case-sensitively and are globally unique.
func (r *Repository) Add(tagID int64, name string) (int64, error) {
	var existing entities.Tag
	err := r.db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("look up tag %q: %w", name, err)
	}

	tag := entities.Tag{ID: tagID, Name: name}
	if err := r.db.Create(&tag).Error; err != nil {
		return 0, fmt.Errorf("create tag %q: %w", name, err)
	}
	return tagID, nil
}

// AddToItem links a tag to an item. Linking twice is success, not an error.
func (r *Repository) AddToItem(itemID, tagID int64) error {
	link := entities.ItemTag{ItemID: itemID, TagID: tagID}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	if err != nil {
		return fmt.Errorf("link tag %d to item %d: %w", tagID, itemID, err)
	}
	return nil
}

// ForItem returns the item's tags ordered by name.
func (r *Repository) ForItem(itemID int64) ([]entities.Tag, error) {
	var tags []entities.Tag
	err := r.db.Table("tags t").
		Select("t.id, t.name").
		Joins("JOIN item_tags it ON it.tag_id = t.id").
		Where("it.item_id = ?", itemID).
		Order("t.name").
		Scan(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("list tags for item %d: %w", itemID, err)
	}
	return tags, nil
}

// Exists reports whether a tag with the given id is present.
func (r *Repository) Exists(tagID int64) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Tag{}).Where("id = ?", tagID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check tag %d: %w", tagID, err)
	}
	return count > 0, nil
}
