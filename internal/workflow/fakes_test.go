package workflow

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/csheth/scholarlens/internal/analysis"
	"github.com/csheth/scholarlens/internal/library"
)

type fakeStore struct {
	mu        sync.Mutex
	papers    map[string]library.StoredPaper
	saves     int
	deletes   int
	lists     int
	listErr   error
	saveErr   error
	deleteErr error
}

func newFakeStore(papers ...library.StoredPaper) *fakeStore {
	s := &fakeStore{papers: map[string]library.StoredPaper{}}
	for _, p := range papers {
		s.papers[p.ID] = p
	}
	return s
}

func (s *fakeStore) List(context.Context) ([]library.StoredPaper, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]library.StoredPaper, 0, len(s.papers))
	for _, p := range s.papers {
		out = append(out, p.WithFolder(p.Folder))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) Save(_ context.Context, paper library.StoredPaper) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.papers[paper.ID] = paper.WithFolder(paper.Folder)
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.papers, id)
	return nil
}

func (s *fakeStore) Close() error { return nil }

type fakeAnalyzer struct {
	result analysis.Result
	err    error
	calls  int
}

func (a *fakeAnalyzer) Analyze(context.Context, analysis.Request) (analysis.Result, error) {
	a.calls++
	return a.result, a.err
}

func (a *fakeAnalyzer) Name() string { return "fake" }

func sampleResult() analysis.Result {
	return analysis.Result{
		Report: "# Attention\n\n**Basic Info**: Vaswani",
		Metadata: library.Metadata{
			Title:    "Attention Is All You Need",
			Authors:  []string{"Vaswani", "Shazeer"},
			Year:     "2017",
			Keywords: []string{"transformers"},
			Summary:  "Self-attention only.",
		},
		SuggestedFolder: "NLP",
	}
}

func storedPaper(id, folder string) library.StoredPaper {
	return library.StoredPaper{
		Metadata: library.Metadata{
			Title:    "Paper " + id,
			Authors:  []string{"Author " + id},
			Year:     "2020",
			Keywords: []string{},
			Folder:   folder,
		},
		ID:          id,
		AddedAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		RawAnalysis: "# Paper " + id,
	}
}

var fixedNow = time.Date(2025, 3, 4, 5, 6, 7, 891_234_567, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestController(store *fakeStore, analyzer *fakeAnalyzer) *Controller {
	return New(store, analyzer,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(sequentialIDs()))
}

func pdfUpload() analysis.Request {
	return analysis.Request{Filename: "attention.pdf", Data: []byte("%PDF-1.4"), MimeType: "application/pdf", Language: analysis.English}
}
