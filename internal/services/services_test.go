package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/refbase/refbase/internal/database/attachments"
	"github.com/refbase/refbase/internal/database/collections"
	"github.com/refbase/refbase/internal/database/items"
	"github.com/refbase/refbase/internal/database/tags"
	"github.com/refbase/refbase/internal/entities"
	"github.com/refbase/refbase/internal/idgen"
	"github.com/refbase/refbase/internal/metadata"
	"github.com/refbase/refbase/internal/storage"
)

// hookSpy records every notification the item service fires.
type hookSpy struct {
	added   []int64
	updated []int64
	deleted []int64
}

func (h *hookSpy) NotifyItemAdded(itemID int64)   { h.added = append(h.added, itemID) }
func (h *hookSpy) NotifyItemUpdated(itemID int64) { h.updated = append(h.updated, itemID) }
func (h *hookSpy) NotifyItemDeleted(itemID int64) { h.deleted = append(h.deleted, itemID) }

// fakeExtractor returns canned document info or an error.
type fakeExtractor struct {
	info *metadata.DocInfo
	err  error
}

func (f fakeExtractor) Extract(path string) (*metadata.DocInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.info, nil
}

// fakeLookup returns a canned work or an error.
type fakeLookup struct {
	work *metadata.Work
	err  error
}

func (f fakeLookup) WorkByDOI(ctx context.Context, doi string) (*metadata.Work, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.work, nil
}

// fixture wires real repositories over a throwaway sqlite file with a hook
// spy and a deterministic id generator.
type fixture struct {
	items       *ItemService
	collections *CollectionService
	tags        *TagService
	attachments *AttachmentService
	hooks       *hookSpy
	store       *storage.Store
	db          *gorm.DB
}

type fixtureOptions struct {
	extractor metadata.Extractor
	lookup    metadata.LookupClient
}

func setup(t *testing.T, opts fixtureOptions) *fixture {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "library.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	err = db.AutoMigrate(
		&entities.Item{},
		&entities.MetadataField{},
		&entities.Creator{},
		&entities.ItemCreator{},
		&entities.Tag{},
		&entities.ItemTag{},
		&entities.Collection{},
		&entities.ItemCollection{},
		&entities.Attachment{},
	)
	require.NoError(t, err)

	store, err := storage.NewStore(filepath.Join(t.TempDir(), "storage"))
	require.NoError(t, err)

	itemRepo := items.NewRepository(db)
	ids := idgen.NewSequence(1)
	hooks := &hookSpy{}
	log := zerolog.Nop()

	if opts.extractor == nil {
		opts.extractor = metadata.FilenameExtractor{}
	}

	attachmentService := NewAttachmentService(attachments.NewRepository(db), itemRepo, store, ids, log)
	itemService := NewItemService(itemRepo, ids, hooks, opts.extractor, opts.lookup, attachmentService, log)

	return &fixture{
		items:       itemService,
		collections: NewCollectionService(collections.NewRepository(db), itemRepo, ids, log),
		tags:        NewTagService(tags.NewRepository(db), itemRepo, ids, log),
		attachments: attachmentService,
		hooks:       hooks,
		store:       store,
		db:          db,
	}
}

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

var errUnreachable = errors.New("collaborator unreachable")
