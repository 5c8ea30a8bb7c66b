package services

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/refbase/refbase/internal/entities"
	"github.com/refbase/refbase/internal/idgen"
)

// AttachmentService keeps the attachment table and the blob tree in step.
// Attachment mutations never fire hooks.
type AttachmentService struct {
	attachments AttachmentRecordStore
	items       ItemStore
	blobs       BlobStore
	ids         idgen.Generator
	log         zerolog.Logger
}

// NewAttachmentService creates a new AttachmentService.
func NewAttachmentService(attachments AttachmentRecordStore, items ItemStore, blobs BlobStore, ids idgen.Generator, log zerolog.Logger) *AttachmentService {
	return &AttachmentService{
		attachments: attachments,
		items:       items,
		blobs:       blobs,
		ids:         ids,
		log:         log.With().Str("service", "attachments").Logger(),
	}
}

// AddAttachment copies the source file into the managed storage tree and
// records it against the item. Returns (nil, nil) when the source file or
// the item does not exist.
func (s *AttachmentService) AddAttachment(itemID int64, sourcePath string) (*entities.Attachment, error) {
	if !fileExists(sourcePath) {
		return nil, nil
	}

	exists, err := s.items.Exists(itemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	attachmentID := s.ids.Next()
	relPath, mimeType, err := s.blobs.Put(attachmentID, sourcePath)
	if err != nil {
		return nil, err
	}

	attachment := &entities.Attachment{
		ID:        attachmentID,
		ItemID:    itemID,
		Path:      relPath,
		MimeType:  mimeType,
		DateAdded: time.Now(),
	}
	if err := s.attachments.Add(attachment); err != nil {
		return nil, err
	}
	return attachment, nil
}

// AttachmentsForItem returns the item's attachment records by date added.
func (s *AttachmentService) AttachmentsForItem(itemID int64) ([]entities.Attachment, error) {
	return s.attachments.ForItem(itemID)
}
