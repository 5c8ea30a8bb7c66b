// Package attachments provides database operations for attachment records.
// The file blobs themselves live in the storage tree, managed by
// internal/storage.
package attachments

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/refbase/refbase/internal/entities"
)

// Repository handles attachment database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new attachments repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add records an attachment. Path must be relative to the storage root.
func (r *Repository) Add(attachment *entities.Attachment) error {
	if attachment.DateAdded.IsZero() {
		attachment.DateAdded = time.Now()
	}
	if err := r.db.Create(attachment).Error; err != nil {
		return fmt.Errorf("add attachment %d: %w", attachment.ID, err)
	}
	return nil
}

// ForItem returns the item's attachments ordered by date added.
func (r *Repository) ForItem(itemID int64) ([]entities.Attachment, error) {
	var attachments []entities.Attachment
	err := r.db.Where("item_id = ?", itemID).Order("date_added").Find(&attachments).Error
	if err != nil {
		return nil, fmt.Errorf("list attachments for item %d: %w", itemID, err)
	}
	return attachments, nil
}
