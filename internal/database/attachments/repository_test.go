package attachments

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/refbase/refbase/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()
	dbPath := "./test_attachments_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Attachment{})
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return NewRepository(db), cleanup
}

func TestRepository_AddAndForItem(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	older := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Add(&entities.Attachment{
		ID: 11, ItemID: 1, Path: "11/supplement.pdf", MimeType: "application/pdf", DateAdded: newer,
	}))
	require.NoError(t, repo.Add(&entities.Attachment{
		ID: 10, ItemID: 1, Path: "10/paper.pdf", MimeType: "application/pdf", DateAdded: older,
	}))
	require.NoError(t, repo.Add(&entities.Attachment{
		ID: 12, ItemID: 2, Path: "12/other.pdf", DateAdded: older,
	}))

	got, err := repo.ForItem(1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "10/paper.pdf", got[0].Path)
	assert.Equal(t, "11/supplement.pdf", got[1].Path)
}

func TestRepository_Add_DefaultsDateAdded(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	attachment := &entities.Attachment{ID: 20, ItemID: 1, Path: "20/scan.pdf"}
	require.NoError(t, repo.Add(attachment))
	assert.False(t, attachment.DateAdded.IsZero())

	got, err := repo.ForItem(1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].DateAdded.IsZero())
}

func TestRepository_ForItem_Empty(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	got, err := repo.ForItem(404)
	require.NoError(t, err)
	assert.Empty(t, got)
}
