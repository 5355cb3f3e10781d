package library

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// JSONStore keeps the whole library in one JSON document on disk.
type JSONStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONStore returns a store backed by the file at path. The file is
// created on the first save.
func NewJSONStore(path string) (*JSONStore, error) {
	if path == "" {
		return nil, errors.New("library path is required")
	}
	return &JSONStore{path: path}, nil
}

// Path reports the backing file.
func (s *JSONStore) Path() string { return s.path }

func (s *JSONStore) List(ctx context.Context) ([]StoredPaper, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	papers, err := s.load()
	if err != nil {
		return nil, fmt.Errorf("list papers: %w: %w", ErrStorageUnavailable, err)
	}
	sortPapers(papers)
	return papers, nil
}

// Save upserts by id. A replaced paper keeps its original AddedAt.
func (s *JSONStore) Save(ctx context.Context, paper StoredPaper) error {
	if err := validateForSave(paper); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	papers, err := s.load()
	if err != nil {
		return fmt.Errorf("save paper %s: %w: %w", paper.ID, ErrStorageUnavailable, err)
	}
	replaced := false
	for i := range papers {
		if papers[i].ID == paper.ID {
			paper.AddedAt = papers[i].AddedAt
			papers[i] = paper
			replaced = true
			break
		}
	}
	if !replaced {
		papers = append(papers, paper)
	}
	if err := s.write(papers); err != nil {
		return fmt.Errorf("save paper %s: %w: %w", paper.ID, ErrStorageUnavailable, err)
	}
	return nil
}

func (s *JSONStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	papers, err := s.load()
	if err != nil {
		return fmt.Errorf("delete paper %s: %w: %w", id, ErrStorageUnavailable, err)
	}
	kept := papers[:0]
	for _, paper := range papers {
		if paper.ID != id {
			kept = append(kept, paper)
		}
	}
	if len(kept) == len(papers) {
		return nil
	}
	if err := s.write(kept); err != nil {
		return fmt.Errorf("delete paper %s: %w: %w", id, ErrStorageUnavailable, err)
	}
	return nil
}

func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) load() ([]StoredPaper, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []StoredPaper{}, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []StoredPaper{}, nil
	}
	var papers []StoredPaper
	if err := json.Unmarshal(data, &papers); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if papers == nil {
		papers = []StoredPaper{}
	}
	return papers, nil
}

// write replaces the file through a rename so readers never observe a
// partially written library.
func (s *JSONStore) write(papers []StoredPaper) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(papers, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.part")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
