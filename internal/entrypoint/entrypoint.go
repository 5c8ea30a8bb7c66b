// Package entrypoint is the composition root: it wires the database,
// repositories, services, hook dispatcher and bundled plugins into one App.
package entrypoint

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/refbase/refbase/internal/config"
	"github.com/refbase/refbase/internal/database"
	"github.com/refbase/refbase/internal/database/attachments"
	"github.com/refbase/refbase/internal/database/collections"
	"github.com/refbase/refbase/internal/database/items"
	"github.com/refbase/refbase/internal/database/tags"
	"github.com/refbase/refbase/internal/hooks"
	"github.com/refbase/refbase/internal/idgen"
	"github.com/refbase/refbase/internal/metadata"
	"github.com/refbase/refbase/internal/plugins/arxiv"
	"github.com/refbase/refbase/internal/plugins/updates"
	"github.com/refbase/refbase/internal/services"
	"github.com/refbase/refbase/internal/storage"
)

// App holds the wired service surface consumed by the CLI (and, in a full
// deployment, by the GUI or a message bridge).
type App struct {
	Config      *config.Config
	Items       *services.ItemService
	Collections *services.CollectionService
	Tags        *services.TagService
	Attachments *services.AttachmentService
	Hooks       *hooks.Dispatcher
	Log         zerolog.Logger

	db *database.Database
}

// New opens the library at the configured data dir and wires everything up.
// The hook dispatcher is populated with the bundled plugins; external
// plugin discovery is the embedding process's concern.
func New(cfg *config.Config) (*App, error) {
	log := newLogger(cfg.Log.Level)

	db, err := database.New(cfg.Library.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open library database: %w", err)
	}

	blobs, err := storage.NewStore(cfg.Library.StorageDir)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open storage root: %w", err)
	}

	itemRepo := items.NewRepository(db.DB)
	collectionRepo := collections.NewRepository(db.DB)
	tagRepo := tags.NewRepository(db.DB)
	attachmentRepo := attachments.NewRepository(db.DB)

	ids := idgen.NewClock()
	dispatcher := hooks.NewDispatcher(log)
	lookup := metadata.NewCrossrefClient(cfg.Crossref.BaseURL, cfg.Crossref.UserAgent, cfg.Crossref.Timeout)

	attachmentService := services.NewAttachmentService(attachmentRepo, itemRepo, blobs, ids, log)
	itemService := services.NewItemService(itemRepo, ids, dispatcher, metadata.FilenameExtractor{}, lookup, attachmentService, log)
	collectionService := services.NewCollectionService(collectionRepo, itemRepo, ids, log)
	tagService := services.NewTagService(tagRepo, itemRepo, ids, log)

	dispatcher.Register(arxiv.NewChecker(itemService, arxiv.NewClient(cfg.Arxiv.BaseURL, cfg.Arxiv.Timeout), log))
	dispatcher.Register(updates.NewChecker(itemService, lookup, log))

	log.Info().Str("database", cfg.Library.DatabasePath).
		Str("storage", cfg.Library.StorageDir).Msg("library opened")

	return &App{
		Config:      cfg,
		Items:       itemService,
		Collections: collectionService,
		Tags:        tagService,
		Attachments: attachmentService,
		Hooks:       dispatcher,
		Log:         log,
		db:          db,
	}, nil
}

// RunBackgroundChecks runs every plugin's maintenance pass. Callers wanting
// to keep the interactive path responsive run this on its own goroutine.
func (a *App) RunBackgroundChecks(ctx context.Context) {
	a.Hooks.RunBackgroundChecks(ctx)
}

func (a *App) Close() error {
	return a.db.Close()
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}
