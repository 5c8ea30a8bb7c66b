package entities

import (
	"time"
)

// Item is a bibliographic record (journal article, book, webpage, ...).
// Only the scalar columns are persisted on the items table; the aggregate
// fields below are assembled by the items repository from the association
// tables and are ignored by GORM.
type Item struct {
	ID           int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ItemType     string    `gorm:"size:50;not null" json:"item_type"` // e.g. "journalArticle", "book"
	Title        string    `gorm:"index;size:512" json:"title"`
	DateAdded    time.Time `gorm:"index" json:"date_added"`
	DateModified time.Time `gorm:"index" json:"date_modified"`

	Metadata    map[string]string `gorm:"-" json:"metadata,omitempty"`
	Creators    []CreatorRef      `gorm:"-" json:"creators,omitempty"`
	Tags        []Tag             `gorm:"-" json:"tags,omitempty"`
	Attachments []Attachment      `gorm:"-" json:"attachments,omitempty"`
}

// MetadataField is one key/value pair of an item's metadata. The composite
// primary key gives re-added fields upsert semantics.
type MetadataField struct {
	ItemID int64  `gorm:"primaryKey;autoIncrement:false" json:"item_id"`
	Field  string `gorm:"primaryKey;size:100" json:"field"` // e.g. "doi", "publisher"
	Value  string `gorm:"type:text" json:"value"`
}

// Creator is a named contributor, deduplicated globally by name pair:
// two items citing the same (first, last) share one row.
type Creator struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	FirstName string `gorm:"index:idx_creator_name;size:256" json:"first_name"`
	LastName  string `gorm:"index:idx_creator_name;size:256" json:"last_name"`
}

// ItemCreator links a creator to an item with its role and its position
// within that item's creator list.
type ItemCreator struct {
	ItemID      int64  `gorm:"primaryKey;autoIncrement:false" json:"item_id"`
	CreatorID   int64  `gorm:"primaryKey;autoIncrement:false" json:"creator_id"`
	CreatorType string `gorm:"primaryKey;size:50" json:"creator_type"` // e.g. "author", "editor"
	OrderIndex  int    `json:"order_index"`
}

// CreatorRef is the view of a creator as attached to a specific item.
type CreatorRef struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	CreatorType string `json:"creator_type"`
}

// Tag is a free-form label with a globally unique name.
type Tag struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}

type ItemTag struct {
	ItemID int64 `gorm:"primaryKey;autoIncrement:false" json:"item_id"`
	TagID  int64 `gorm:"primaryKey;autoIncrement:false" json:"tag_id"`
}

// Collection is a named grouping of items. ParentID forms an optional tree;
// orphaned or cyclic parents are tolerated at read time, never repaired.
type Collection struct {
	ID       int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name     string `gorm:"index;size:255;not null" json:"name"`
	ParentID *int64 `gorm:"index" json:"parent_id,omitempty"`
}

type ItemCollection struct {
	ItemID       int64 `gorm:"primaryKey;autoIncrement:false" json:"item_id"`
	CollectionID int64 `gorm:"primaryKey;autoIncrement:false" json:"collection_id"`
}

// Attachment is a file stored under the managed storage root. Path is always
// relative to that root so the root itself can be relocated.
type Attachment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ItemID    int64     `gorm:"index" json:"item_id"`
	Path      string    `gorm:"size:1024" json:"path"`
	MimeType  string    `gorm:"size:255" json:"mime_type,omitempty"`
	DateAdded time.Time `json:"date_added"`
}

// ItemSummary is the flattened list/search row: the item plus the last name
// of its first author-typed creator, or "" when it has none.
type ItemSummary struct {
	ID         int64  `json:"id"`
	ItemType   string `json:"item_type"`
	Title      string `json:"title"`
	AuthorText string `json:"author_text"`
}

func (Item) TableName() string {
	return "items"
}

func (MetadataField) TableName() string {
	return "metadata"
}

func (Creator) TableName() string {
	return "creators"
}

func (ItemCreator) TableName() string {
	return "item_creators"
}

func (Tag) TableName() string {
	return "tags"
}

func (ItemTag) TableName() string {
	return "item_tags"
}

func (Collection) TableName() string {
	return "collections"
}

func (ItemCollection) TableName() string {
	return "item_collections"
}

func (Attachment) TableName() string {
	return "attachments"
}
