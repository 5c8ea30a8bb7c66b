// Package collections provides database operations for collections and
// their item memberships.
package collections

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/refbase/refbase/internal/entities"
)

// Repository handles all collection database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new collections repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts a collection with the given id. A nil parent makes it a root.
func (r *Repository) Add(collectionID int64, name string, parentID *int64) error {
	collection := entities.Collection{
		ID:       collectionID,
		Name:     name,
		ParentID: parentID,
	}
	if err := r.db.Create(&collection).Error; err != nil {
		return fmt.Errorf("add collection %q: %w", name, err)
	}
	return nil
}

// AddItemTo links an item into a collection. Linking twice is success, not
// an error, and leaves a single association row.
func (r *Repository) AddItemTo(itemID, collectionID int64) error {
	link := entities.ItemCollection{ItemID: itemID, CollectionID: collectionID}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	if err != nil {
		return fmt.Errorf("link item %d to collection %d: %w", itemID, collectionID, err)
	}
	return nil
}

// ItemsIn returns summaries of the collection's items with their first
// author, most recently added first.
func (r *Repository) ItemsIn(collectionID int64) ([]entities.ItemSummary, error) {
	var summaries []entities.ItemSummary
	err := r.db.Raw(`
		SELECT
			i.id, i.item_type, i.title,
			COALESCE((
				SELECT c.last_name
				FROM creators c
				JOIN item_creators ic_sub ON ic_sub.creator_id = c.id
				WHERE ic_sub.item_id = i.id AND ic_sub.creator_type = 'author'
				ORDER BY ic_sub.order_index LIMIT 1
			), '') AS author_text
		FROM items i
		JOIN item_collections ic ON ic.item_id = i.id
		WHERE ic.collection_id = ?
		ORDER BY i.date_added DESC
	`, collectionID).Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("list items in collection %d: %w", collectionID, err)
	}
	return summaries, nil
}

// ListAll returns every collection ordered by name.
func (r *Repository) ListAll() ([]entities.Collection, error) {
	var collections []entities.Collection
	err := r.db.Order("name").Find(&collections).Error
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return collections, nil
}

// Exists reports whether a collection with the given id is present.
func (r *Repository) Exists(collectionID int64) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Collection{}).Where("id = ?", collectionID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check collection %d: %w", collectionID, err)
	}
	return count > 0, nil
}
