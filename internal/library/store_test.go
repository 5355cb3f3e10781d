package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePaper(id, folder string, added time.Time) StoredPaper {
	return StoredPaper{
		Metadata: Metadata{
			Title:       "Paper " + id,
			Authors:     []string{"Ada Lovelace", "Alan Turing"},
			Year:        "2024",
			Institution: "Analytical Engines Lab",
			Keywords:    []string{"graphs", "retrieval"},
			Summary:     "A short summary.",
			DOI:         "10.1000/" + id,
			Folder:      folder,
		},
		ID:          id,
		AddedAt:     added.UTC().Truncate(time.Millisecond),
		RawAnalysis: "# Paper " + id + "\n\nBody with **bold**.",
	}
}

type storeFactory func(t *testing.T) Store

func backends() map[string]storeFactory {
	return map[string]storeFactory{
		"json": func(t *testing.T) Store {
			s, err := NewJSONStore(filepath.Join(t.TempDir(), "library", "papers.json"))
			require.NoError(t, err)
			return s
		},
		"sqlite": func(t *testing.T) Store {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "library.db"))
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
		"mongo": func(t *testing.T) Store {
			uri := os.Getenv("SCHOLARLENS_TEST_MONGO_URI")
			if uri == "" {
				t.Skip("SCHOLARLENS_TEST_MONGO_URI not set")
			}
			ctx := context.Background()
			s, err := NewMongoStore(ctx, uri, "scholarlens_test_"+time.Now().Format("150405.000000"))
			require.NoError(t, err)
			t.Cleanup(func() {
				_ = s.col.Database().Drop(ctx)
				s.Close()
			})
			return s
		},
	}
}

func TestStoreEmptyList(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			papers, err := store.List(context.Background())
			require.NoError(t, err)
			require.NotNil(t, papers)
			assert.Empty(t, papers)
		})
	}
}

func TestStoreSaveRoundTrip(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)
			paper := samplePaper("p1", "Vision", time.Now())

			require.NoError(t, store.Save(ctx, paper))
			papers, err := store.List(ctx)
			require.NoError(t, err)
			require.Len(t, papers, 1)
			assert.Equal(t, paper, papers[0])
		})
	}
}

func TestStoreSaveUpsertsByID(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)
			paper := samplePaper("p1", "Vision", time.Now())
			require.NoError(t, store.Save(ctx, paper))

			moved := paper.WithFolder("NLP")
			moved.AddedAt = paper.AddedAt.Add(time.Hour)
			require.NoError(t, store.Save(ctx, moved))

			papers, err := store.List(ctx)
			require.NoError(t, err)
			require.Len(t, papers, 1)
			assert.Equal(t, "NLP", papers[0].Folder)
			assert.True(t, papers[0].AddedAt.Equal(paper.AddedAt), "AddedAt changed to %s", papers[0].AddedAt)
		})
	}
}

func TestStoreKeepsNilAndEmptyLists(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)
			base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
			bare := samplePaper("nil", "Vision", base)
			bare.Authors = nil
			bare.Keywords = nil
			empty := samplePaper("empty", "Vision", base.Add(time.Minute))
			empty.Authors = []string{}
			empty.Keywords = []string{}
			require.NoError(t, store.Save(ctx, bare))
			require.NoError(t, store.Save(ctx, empty))

			papers, err := store.List(ctx)
			require.NoError(t, err)
			require.Len(t, papers, 2)
			assert.Empty(t, papers[0].Authors)
			assert.Empty(t, papers[1].Authors)
			if name != "mongo" {
				assert.Equal(t, []StoredPaper{empty, bare}, papers)
			}
		})
	}
}

func TestMongoConnectFailureIsUnavailable(t *testing.T) {
	_, err := NewMongoStore(context.Background(), "not-a-mongo-uri", "scholarlens")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestStoreDeleteIsIdempotent(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)
			base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
			first := samplePaper("p1", "Vision", base)
			second := samplePaper("p2", "NLP", base.Add(time.Minute))
			require.NoError(t, store.Save(ctx, first))
			require.NoError(t, store.Save(ctx, second))

			require.NoError(t, store.Delete(ctx, "p1"))
			papers, err := store.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []StoredPaper{second}, papers)

			require.NoError(t, store.Delete(ctx, "missing"))
			again, err := store.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, papers, again)
		})
	}
}

func TestStoreListOrdersNewestFirst(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)
			base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
			require.NoError(t, store.Save(ctx, samplePaper("old", "A", base)))
			require.NoError(t, store.Save(ctx, samplePaper("new", "A", base.Add(time.Hour))))

			papers, err := store.List(ctx)
			require.NoError(t, err)
			require.Len(t, papers, 2)
			assert.Equal(t, "new", papers[0].ID)
			assert.Equal(t, "old", papers[1].ID)
		})
	}
}

func TestStoreRejectsIncompletePaper(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)

			err := store.Save(ctx, samplePaper("p1", "", time.Now()))
			assert.ErrorIs(t, err, ErrInvalidPaper)
			err = store.Save(ctx, samplePaper("", "Vision", time.Now()))
			assert.ErrorIs(t, err, ErrInvalidPaper)

			papers, err := store.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, papers)
		})
	}
}

func TestJSONStoreUnreadableFileIsUnavailable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "papers.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	store, err := NewJSONStore(path)
	require.NoError(t, err)

	_, err = store.List(context.Background())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	err = store.Save(context.Background(), samplePaper("p1", "Vision", time.Now()))
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestJSONStoreLeavesNoPartialFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewJSONStore(filepath.Join(dir, "papers.json"))
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), samplePaper("p1", "Vision", time.Now())))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "papers.json", entries[0].Name())
}

func TestOpenUnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Options{Backend: "cassette"})
	assert.Error(t, err)
}
