package library

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFoldersSortedDistinctNonEmpty(t *testing.T) {
	t.Parallel()

	now := time.Now()
	papers := []StoredPaper{
		samplePaper("1", "Vision", now),
		samplePaper("2", "", now),
		samplePaper("3", "NLP", now),
		samplePaper("4", "Vision", now),
		samplePaper("5", "CVPR 2024", now),
	}

	assert.Equal(t, []string{"CVPR 2024", "NLP", "Vision"}, Folders(papers))
}

func TestFoldersEmptyInputs(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Folders(nil))
	uncategorized := []StoredPaper{samplePaper("1", "", time.Now()), samplePaper("2", "", time.Now())}
	got := Folders(uncategorized)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFoldersTrackAdditionsAndRemovals(t *testing.T) {
	t.Parallel()

	now := time.Now()
	papers := []StoredPaper{samplePaper("1", "Vision", now)}
	before := Folders(papers)

	papers = append(papers, samplePaper("2", "Robotics", now))
	after := Folders(papers)
	assert.Len(t, after, len(before)+1)
	assert.Contains(t, after, "Robotics")

	papers = papers[:1]
	assert.Equal(t, []string{"Vision"}, Folders(papers))
}

func TestInFolder(t *testing.T) {
	t.Parallel()

	now := time.Now()
	papers := []StoredPaper{
		samplePaper("1", "Vision", now),
		samplePaper("2", "NLP", now),
		samplePaper("3", "Vision", now),
	}

	assert.Len(t, InFolder(papers, ""), 3)
	vision := InFolder(papers, "Vision")
	require.Len(t, vision, 2)
	assert.Equal(t, "1", vision[0].ID)
	assert.Equal(t, "3", vision[1].ID)
	assert.Empty(t, InFolder(papers, "Missing"))
}

func TestWithFolderCopiesSlices(t *testing.T) {
	t.Parallel()

	paper := samplePaper("1", "", time.Now())
	moved := paper.WithFolder("Vision")
	moved.Authors[0] = "Someone Else"

	assert.Equal(t, "", paper.Folder)
	assert.Equal(t, "Ada Lovelace", paper.Authors[0])
}

func TestExportWritesYAML(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := NewJSONStore(filepath.Join(t.TempDir(), "papers.json"))
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, samplePaper("p1", "Vision", time.Now())))
	require.NoError(t, store.Save(ctx, samplePaper("p2", "NLP", time.Now())))

	var buf bytes.Buffer
	exportedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, Export(ctx, store, &buf, exportedAt))

	var doc ExportDocument
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []string{"NLP", "Vision"}, doc.Folders)
	assert.Len(t, doc.Papers, 2)
	assert.True(t, doc.ExportedAt.Equal(exportedAt))
	assert.Contains(t, buf.String(), "raw_analysis:")
}
