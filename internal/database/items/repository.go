// Package items provides database operations for bibliographic items and
// their metadata, creator links, tag links and attachments.
package items

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/refbase/refbase/internal/entities"
)

// Repository handles all item database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new items repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get assembles the full item aggregate: scalar columns, metadata map,
// creators in order, tags by name and attachments by date added. Returns
// (nil, nil) when the id does not exist; never a partially filled record.
func (r *Repository) Get(itemID int64) (*entities.Item, error) {
	var item entities.Item
	err := r.db.First(&item, itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", itemID, err)
	}

	var fields []entities.MetadataField
	if err := r.db.Where("item_id = ?", itemID).Find(&fields).Error; err != nil {
		return nil, fmt.Errorf("get item %d metadata: %w", itemID, err)
	}
	item.Metadata = make(map[string]string, len(fields))
	for _, f := range fields {
		item.Metadata[f.Field] = f.Value
	}

	err = r.db.Table("item_creators ic").
		Select("c.id, c.first_name, c.last_name, ic.creator_type").
		Joins("JOIN creators c ON c.id = ic.creator_id").
		Where("ic.item_id = ?", itemID).
		Order("ic.order_index").
		Scan(&item.Creators).Error
	if err != nil {
		return nil, fmt.Errorf("get item %d creators: %w", itemID, err)
	}

	err = r.db.Table("tags t").
		Select("t.id, t.name").
		Joins("JOIN item_tags it ON it.tag_id = t.id").
		Where("it.item_id = ?", itemID).
		Order("t.name").
		Scan(&item.Tags).Error
	if err != nil {
		return nil, fmt.Errorf("get item %d tags: %w", itemID, err)
	}

	err = r.db.Where("item_id = ?", itemID).
		Order("date_added").
		Find(&item.Attachments).Error
	if err != nil {
		return nil, fmt.Errorf("get item %d attachments: %w", itemID, err)
	}

	return &item, nil
}

// Add writes the item row, its metadata fields, and its creator links in one
// transaction. Every supplied creator must already carry a candidate id; the
// id is replaced with an existing creator's when the (first, last) name pair
// is already known, so shared authors never produce duplicate rows. The
// caller's creator ordering is preserved as order_index.
func (r *Repository) Add(item *entities.Item) error {
	now := time.Now()
	if item.DateAdded.IsZero() {
		item.DateAdded = now
	}
	if item.DateModified.IsZero() {
		item.DateModified = now
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("create item row: %w", err)
		}

		if len(item.Metadata) > 0 {
			fields := make([]entities.MetadataField, 0, len(item.Metadata))
			for field, value := range item.Metadata {
				fields = append(fields, entities.MetadataField{
					ItemID: item.ID,
					Field:  field,
					Value:  value,
				})
			}
			if err := tx.Create(&fields).Error; err != nil {
				return fmt.Errorf("create metadata rows: %w", err)
			}
		}

		if len(item.Creators) > 0 {
			links := make([]entities.ItemCreator, 0, len(item.Creators))
			for index := range item.Creators {
				cref := &item.Creators[index]

				var existing entities.Creator
				err := tx.Where("first_name = ? AND last_name = ?", cref.FirstName, cref.LastName).
					First(&existing).Error
				switch {
				case err == nil:
					cref.ID = existing.ID
				case errors.Is(err, gorm.ErrRecordNotFound):
					creator := entities.Creator{
						ID:        cref.ID,
						FirstName: cref.FirstName,
						LastName:  cref.LastName,
					}
					if err := tx.Create(&creator).Error; err != nil {
						return fmt.Errorf("create creator: %w", err)
					}
				default:
					return fmt.Errorf("resolve creator: %w", err)
				}

				links = append(links, entities.ItemCreator{
					ItemID:      item.ID,
					CreatorID:   cref.ID,
					CreatorType: cref.CreatorType,
					OrderIndex:  index,
				})
			}
			err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
			if err != nil {
				return fmt.Errorf("create creator links: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("add item %d: %w", item.ID, err)
	}
	return nil
}

// Update upserts the supplied metadata fields. A "title" field also updates
// the denormalized title column on the item row. DateModified is refreshed
// unconditionally, even when no fields were supplied.
func (r *Repository) Update(itemID int64, metadata map[string]string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if len(metadata) > 0 {
			fields := make([]entities.MetadataField, 0, len(metadata))
			for field, value := range metadata {
				fields = append(fields, entities.MetadataField{
					ItemID: itemID,
					Field:  field,
					Value:  value,
				})
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "item_id"}, {Name: "field"}},
				DoUpdates: clause.AssignmentColumns([]string{"value"}),
			}).Create(&fields).Error
			if err != nil {
				return fmt.Errorf("upsert metadata: %w", err)
			}

			if title, ok := metadata["title"]; ok {
				err := tx.Model(&entities.Item{}).Where("id = ?", itemID).
					Update("title", title).Error
				if err != nil {
					return fmt.Errorf("update title: %w", err)
				}
			}
		}

		err := tx.Model(&entities.Item{}).Where("id = ?", itemID).
			Update("date_modified", time.Now()).Error
		if err != nil {
			return fmt.Errorf("refresh date_modified: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update item %d: %w", itemID, err)
	}
	return nil
}

// Delete removes an item and everything hanging off it: creator links,
// metadata, tag links, collection links and attachment rows, in that order,
// inside one transaction. Returns false without side effects when the item
// does not exist. Attachment files on disk are not touched.
func (r *Repository) Delete(itemID int64) (bool, error) {
	exists, err := r.Exists(itemID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			name  string
			model any
		}{
			{"creator links", &entities.ItemCreator{}},
			{"metadata", &entities.MetadataField{}},
			{"tag links", &entities.ItemTag{}},
			{"collection links", &entities.ItemCollection{}},
			{"attachments", &entities.Attachment{}},
		}
		for _, step := range steps {
			if err := tx.Where("item_id = ?", itemID).Delete(step.model).Error; err != nil {
				return fmt.Errorf("delete %s: %w", step.name, err)
			}
		}
		if err := tx.Delete(&entities.Item{}, itemID).Error; err != nil {
			return fmt.Errorf("delete item row: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete item %d: %w", itemID, err)
	}
	return true, nil
}

// Search matches the term case-insensitively against item titles and every
// metadata value, returning distinct items ordered by most recent change.
func (r *Repository) Search(term string) ([]entities.ItemSummary, error) {
	pattern := "%" + term + "%"
	var summaries []entities.ItemSummary
	err := r.db.Raw(`
		SELECT DISTINCT i.id, i.item_type, i.title, '' AS author_text
		FROM items i
		LEFT JOIN metadata m ON m.item_id = i.id
		WHERE LOWER(i.title) LIKE LOWER(?) OR LOWER(m.value) LIKE LOWER(?)
		ORDER BY i.date_modified DESC
	`, pattern, pattern).Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return summaries, nil
}

// ListSummaries returns every item with the last name of its first
// author-typed creator, most recently added first.
func (r *Repository) ListSummaries() ([]entities.ItemSummary, error) {
	var summaries []entities.ItemSummary
	err := r.db.Raw(`
		SELECT
			i.id, i.item_type, i.title,
			COALESCE((
				SELECT c.last_name
				FROM creators c
				JOIN item_creators ic ON ic.creator_id = c.id
				WHERE ic.item_id = i.id AND ic.creator_type = 'author'
				ORDER BY ic.order_index LIMIT 1
			), '') AS author_text
		FROM items i
		ORDER BY i.date_added DESC
	`).Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("list item summaries: %w", err)
	}
	return summaries, nil
}

// Exists reports whether an item with the given id is present.
func (r *Repository) Exists(itemID int64) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Item{}).Where("id = ?", itemID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check item %d: %w", itemID, err)
	}
	return count > 0, nil
}
