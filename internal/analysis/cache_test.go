package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/csheth/scholarlens/internal/library"
)

type memoryCache struct {
	entries map[string]Result
	getErr  error
	setErr  error
}

func newMemoryCache() *memoryCache { return &memoryCache{entries: map[string]Result{}} }

func (c *memoryCache) Get(_ context.Context, key string) (Result, bool, error) {
	if c.getErr != nil {
		return Result{}, false, c.getErr
	}
	r, ok := c.entries[key]
	return r, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, result Result, _ time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = result
	return nil
}

type countingAnalyzer struct {
	calls  int
	result Result
	err    error
}

func (a *countingAnalyzer) Analyze(context.Context, Request) (Result, error) {
	a.calls++
	return a.result, a.err
}

func (a *countingAnalyzer) Name() string { return "counting" }

func TestCachedSkipsProviderOnHit(t *testing.T) {
	t.Parallel()

	next := &countingAnalyzer{result: Result{Report: "# R", Metadata: library.Metadata{Title: "T"}}}
	cached := Cached(next, newMemoryCache(), time.Hour, zap.NewNop())
	ctx := context.Background()

	first, err := cached.Analyze(ctx, pdfRequest())
	require.NoError(t, err)
	second, err := cached.Analyze(ctx, pdfRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, "counting +cache", cached.Name())
}

func TestCachedKeysIncludeLanguage(t *testing.T) {
	t.Parallel()

	en := pdfRequest()
	zh := pdfRequest()
	zh.Language = Chinese
	renamed := pdfRequest()
	renamed.Filename = "other.pdf"

	assert.NotEqual(t, CacheKey(en), CacheKey(zh))
	assert.Equal(t, CacheKey(en), CacheKey(renamed))
}

func TestCachedToleratesCacheFailures(t *testing.T) {
	t.Parallel()

	next := &countingAnalyzer{result: Result{Report: "# R"}}
	cache := newMemoryCache()
	cache.getErr = errors.New("connection refused")
	cache.setErr = errors.New("connection refused")

	result, err := Cached(next, cache, time.Hour, nil).Analyze(context.Background(), pdfRequest())
	require.NoError(t, err)
	assert.Equal(t, "# R", result.Report)
}

func TestCachedDoesNotStoreFailures(t *testing.T) {
	t.Parallel()

	next := &countingAnalyzer{err: ErrAnalysisFailed}
	cache := newMemoryCache()

	_, err := Cached(next, cache, time.Hour, nil).Analyze(context.Background(), pdfRequest())
	assert.ErrorIs(t, err, ErrAnalysisFailed)
	assert.Empty(t, cache.entries)
}

func TestDecodeCachedResultDropsFolder(t *testing.T) {
	t.Parallel()

	data, err := encodeCachedResult(Result{
		Report:          "# R",
		Metadata:        library.Metadata{Title: "T", Folder: "leaked"},
		SuggestedFolder: "Graphs",
	})
	require.NoError(t, err)

	got, err := decodeCachedResult(data)
	require.NoError(t, err)
	assert.Equal(t, "", got.Metadata.Folder)
	assert.Equal(t, "Graphs", got.SuggestedFolder)
	assert.Equal(t, "T", got.Metadata.Title)
}
