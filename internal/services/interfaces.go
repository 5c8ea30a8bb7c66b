package services

import (
	"github.com/refbase/refbase/internal/entities"
)

// ItemStore is the item repository contract the services depend on.
type ItemStore interface {
	Get(itemID int64) (*entities.Item, error)
	Add(item *entities.Item) error
	Update(itemID int64, metadata map[string]string) error
	Delete(itemID int64) (bool, error)
	Search(term string) ([]entities.ItemSummary, error)
	ListSummaries() ([]entities.ItemSummary, error)
	Exists(itemID int64) (bool, error)
}

// CollectionStore is the collection repository contract.
type CollectionStore interface {
	Add(collectionID int64, name string, parentID *int64) error
	AddItemTo(itemID, collectionID int64) error
	ItemsIn(collectionID int64) ([]entities.ItemSummary, error)
	ListAll() ([]entities.Collection, error)
	Exists(collectionID int64) (bool, error)
}

// TagStore is the tag repository contract.
type TagStore interface {
	Add(tagID int64, name string) (int64, error)
	AddToItem(itemID, tagID int64) error
	ForItem(itemID int64) ([]entities.Tag, error)
	Exists(tagID int64) (bool, error)
}

// AttachmentRecordStore is the attachment repository contract.
type AttachmentRecordStore interface {
	Add(attachment *entities.Attachment) error
	ForItem(itemID int64) ([]entities.Attachment, error)
}

// BlobStore is the file-system side of attachments: copy a source file into
// the managed tree and report its root-relative path and MIME type.
type BlobStore interface {
	Put(attachmentID int64, sourcePath string) (relPath, mimeType string, err error)
}

// Notifier is the hook dispatcher surface the item service fires after
// successful mutations. Exactly one notification per successful
// add/update/delete of an item; never for collection, tag or attachment
// mutations.
type Notifier interface {
	NotifyItemAdded(itemID int64)
	NotifyItemUpdated(itemID int64)
	NotifyItemDeleted(itemID int64)
}
