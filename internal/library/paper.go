// Package library persists analyzed papers and derives the folder index.
package library

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"time"
)

var (
	// ErrStorageUnavailable reports that the storage substrate could not be reached.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrInvalidPaper reports a save without an id or folder.
	ErrInvalidPaper = errors.New("invalid paper")
)

// Metadata is the structured description of a paper.
type Metadata struct {
	Title       string   `json:"title" yaml:"title" bson:"title"`
	Authors     []string `json:"authors" yaml:"authors" bson:"authors"`
	Year        string   `json:"year" yaml:"year" bson:"year"`
	Institution string   `json:"institution,omitempty" yaml:"institution,omitempty" bson:"institution"`
	Keywords    []string `json:"keywords" yaml:"keywords" bson:"keywords"`
	Summary     string   `json:"summary" yaml:"summary" bson:"summary"`
	DOI         string   `json:"doi,omitempty" yaml:"doi,omitempty" bson:"doi"`
	// Folder is empty for uncategorized papers.
	Folder string `json:"folder" yaml:"folder" bson:"folder"`
}

// StoredPaper is a saved analysis. ID and AddedAt never change once set.
type StoredPaper struct {
	Metadata    `yaml:",inline" bson:",inline"`
	ID          string    `json:"id" yaml:"id" bson:"_id"`
	AddedAt     time.Time `json:"addedAt" yaml:"addedAt" bson:"addedAt"`
	RawAnalysis string    `json:"raw_analysis" yaml:"raw_analysis" bson:"raw_analysis"`
}

// WithFolder returns a copy of p filed under folder.
func (p StoredPaper) WithFolder(folder string) StoredPaper {
	p.Folder = folder
	p.Authors = slices.Clone(p.Authors)
	p.Keywords = slices.Clone(p.Keywords)
	return p
}

// Store is the gateway to durable paper records.
type Store interface {
	// List returns every stored paper. An empty store yields an empty slice.
	List(ctx context.Context) ([]StoredPaper, error)
	// Save upserts by id. Writes are atomic and visible to the next List.
	Save(ctx context.Context, paper StoredPaper) error
	// Delete removes the paper with id; unknown ids are ignored.
	Delete(ctx context.Context, id string) error
	Close() error
}

func validateForSave(paper StoredPaper) error {
	if strings.TrimSpace(paper.ID) == "" {
		return errors.Join(ErrInvalidPaper, errors.New("paper id is empty"))
	}
	if strings.TrimSpace(paper.Folder) == "" {
		return errors.Join(ErrInvalidPaper, errors.New("paper folder is empty"))
	}
	return nil
}

// sortPapers orders newest first, ties broken by id.
func sortPapers(papers []StoredPaper) {
	sort.SliceStable(papers, func(i, j int) bool {
		if papers[i].AddedAt.Equal(papers[j].AddedAt) {
			return papers[i].ID < papers[j].ID
		}
		return papers[i].AddedAt.After(papers[j].AddedAt)
	})
}

// Folders returns the distinct non-empty folder names in ascending order.
func Folders(papers []StoredPaper) []string {
	seen := map[string]struct{}{}
	folders := []string{}
	for _, paper := range papers {
		if paper.Folder == "" {
			continue
		}
		if _, ok := seen[paper.Folder]; ok {
			continue
		}
		seen[paper.Folder] = struct{}{}
		folders = append(folders, paper.Folder)
	}
	sort.Strings(folders)
	return folders
}

// InFolder filters papers by folder. An empty folder selects every paper.
func InFolder(papers []StoredPaper, folder string) []StoredPaper {
	if folder == "" {
		return append([]StoredPaper(nil), papers...)
	}
	filtered := make([]StoredPaper, 0, len(papers))
	for _, paper := range papers {
		if paper.Folder == folder {
			filtered = append(filtered, paper)
		}
	}
	return filtered
}

// Find returns the paper with id.
func Find(papers []StoredPaper, id string) (StoredPaper, bool) {
	for _, paper := range papers {
		if paper.ID == id {
			return paper, true
		}
	}
	return StoredPaper{}, false
}
