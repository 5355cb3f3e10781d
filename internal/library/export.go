package library

import (
	"context"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// ExportDocument is the YAML layout written by Export.
type ExportDocument struct {
	ExportedAt time.Time     `yaml:"exported_at"`
	Folders    []string      `yaml:"folders"`
	Papers     []StoredPaper `yaml:"papers"`
}

// Export writes every paper in store as a YAML document.
func Export(ctx context.Context, store Store, w io.Writer, now time.Time) error {
	papers, err := store.List(ctx)
	if err != nil {
		return err
	}
	doc := ExportDocument{
		ExportedAt: now.UTC(),
		Folders:    Folders(papers),
		Papers:     papers,
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encoding library: %w", err)
	}
	return enc.Close()
}
