package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refbase/refbase/internal/entities"
	"github.com/refbase/refbase/internal/metadata"
)

func TestItemService_AddItem(t *testing.T) {
	f := setup(t, fixtureOptions{})

	added, err := f.items.AddItem(&entities.Item{
		ItemType: "book",
		Title:    "The Dispossessed",
		Metadata: map[string]string{"publisher": "Harper & Row"},
		Creators: []entities.CreatorRef{
			{FirstName: "Ursula", LastName: "Le Guin", CreatorType: "author"},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, added)
	assert.NotZero(t, added.ID)

	assert.Equal(t, []int64{added.ID}, f.hooks.added)

	got, err := f.items.GetItem(added.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "The Dispossessed", got.Title)
	// The denormalized title is mirrored into the metadata map.
	assert.Equal(t, "The Dispossessed", got.Metadata["title"])
	assert.Equal(t, "Harper & Row", got.Metadata["publisher"])
	require.Len(t, got.Creators, 1)
	assert.Equal(t, "Le Guin", got.Creators[0].LastName)
}

func TestItemService_AddItem_NoMetadataStaysBare(t *testing.T) {
	f := setup(t, fixtureOptions{})

	added, err := f.items.AddItem(&entities.Item{ItemType: "webpage", Title: "Untracked"})
	require.NoError(t, err)

	got, err := f.items.GetItem(added.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Metadata)
}

func TestItemService_UpdateItem(t *testing.T) {
	f := setup(t, fixtureOptions{})

	added, err := f.items.AddItem(&entities.Item{
		ItemType: "book",
		Title:    "First Title",
		Metadata: map[string]string{"year": "1974"},
	})
	require.NoError(t, err)

	ok, err := f.items.UpdateItem(added.ID, map[string]string{"title": "Second Title", "year": "1975"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int64{added.ID}, f.hooks.updated)

	got, err := f.items.GetItem(added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second Title", got.Title)
	assert.Equal(t, "1975", got.Metadata["year"])
}

func TestItemService_UpdateItem_Missing(t *testing.T) {
	f := setup(t, fixtureOptions{})

	ok, err := f.items.UpdateItem(404, map[string]string{"title": "Ghost"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, f.hooks.updated)
}

func TestItemService_DeleteItem(t *testing.T) {
	f := setup(t, fixtureOptions{})

	added, err := f.items.AddItem(&entities.Item{ItemType: "book", Title: "Short-lived"})
	require.NoError(t, err)

	ok, err := f.items.DeleteItem(added.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int64{added.ID}, f.hooks.deleted)

	got, err := f.items.GetItem(added.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestItemService_DeleteItem_Missing(t *testing.T) {
	f := setup(t, fixtureOptions{})

	ok, err := f.items.DeleteItem(404)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, f.hooks.deleted)
}

func TestItemService_CreateItemFromPDF_WithEnrichment(t *testing.T) {
	path := writeTestFile(t, "draft_scan.pdf", "%PDF-1.4 body")

	f := setup(t, fixtureOptions{
		extractor: fakeExtractor{info: &metadata.DocInfo{
			Title: "draft scan",
			Pages: []string{"see doi:10.1038/nphys1170 for details"},
		}},
		lookup: fakeLookup{work: &metadata.Work{
			DOI:   "10.1038/nphys1170",
			Title: "Measured Quantum Trajectories",
			Authors: []metadata.Author{
				{Given: "Grace", Family: "Hopper"},
				{Given: "Ada", Family: "Lovelace"},
			},
		}},
	})

	item, err := f.items.CreateItemFromPDF(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, item)

	assert.Equal(t, "journalArticle", item.ItemType)
	assert.Equal(t, "Measured Quantum Trajectories", item.Title)
	assert.Equal(t, "10.1038/nphys1170", item.Metadata["doi"])
	assert.Equal(t, "draft_scan.pdf", item.Metadata["source_file"])

	require.Len(t, item.Creators, 2)
	assert.Equal(t, "Hopper", item.Creators[0].LastName)
	assert.Equal(t, "Lovelace", item.Creators[1].LastName)

	require.Len(t, item.Attachments, 1)
	assert.Equal(t, "application/pdf", item.Attachments[0].MimeType)

	assert.Equal(t, []int64{item.ID}, f.hooks.added)
}

func TestItemService_CreateItemFromPDF_EnrichmentFailureKeepsLocalData(t *testing.T) {
	path := writeTestFile(t, "offline_paper.pdf", "%PDF-1.4 body")

	f := setup(t, fixtureOptions{
		extractor: fakeExtractor{info: &metadata.DocInfo{
			Pages: []string{"doi: 10.1000/offline.42"},
		}},
		lookup: fakeLookup{err: errUnreachable},
	})

	item, err := f.items.CreateItemFromPDF(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, item)

	// Falls back to the filename-derived title; the DOI is still recorded.
	assert.Equal(t, "offline paper", item.Title)
	assert.Equal(t, "10.1000/offline.42", item.Metadata["doi"])
	assert.Empty(t, item.Creators)
}

func TestItemService_CreateItemFromPDF_NoLookupClient(t *testing.T) {
	path := writeTestFile(t, "standalone.pdf", "%PDF-1.4 body")

	f := setup(t, fixtureOptions{
		extractor: fakeExtractor{info: &metadata.DocInfo{
			Pages: []string{"doi: 10.5555/local.only"},
		}},
	})

	item, err := f.items.CreateItemFromPDF(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "10.5555/local.only", item.Metadata["doi"])
	assert.Empty(t, item.Creators)
}

func TestItemService_CreateItemFromPDF_ExtractionFailure(t *testing.T) {
	f := setup(t, fixtureOptions{
		extractor: fakeExtractor{err: errUnreachable},
	})

	item, err := f.items.CreateItemFromPDF(context.Background(), "/nowhere/missing.pdf")
	require.NoError(t, err)
	assert.Nil(t, item)
	assert.Empty(t, f.hooks.added)

	summaries, err := f.items.ListSummaries()
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestItemService_SearchItems(t *testing.T) {
	f := setup(t, fixtureOptions{})

	_, err := f.items.AddItem(&entities.Item{
		ItemType: "book",
		Title:    "Systems Performance",
		Metadata: map[string]string{"publisher": "Pearson"},
	})
	require.NoError(t, err)
	_, err = f.items.AddItem(&entities.Item{ItemType: "book", Title: "Unrelated"})
	require.NoError(t, err)

	byTitle, err := f.items.SearchItems("performance")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Systems Performance", byTitle[0].Title)

	byMetadata, err := f.items.SearchItems("pearson")
	require.NoError(t, err)
	require.Len(t, byMetadata, 1)
	assert.Equal(t, "Systems Performance", byMetadata[0].Title)
}
