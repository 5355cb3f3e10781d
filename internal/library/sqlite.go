package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps papers in a single SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS papers (
		id TEXT PRIMARY KEY,
		added_at INTEGER NOT NULL,
		title TEXT NOT NULL,
		authors TEXT NOT NULL,
		year TEXT,
		institution TEXT,
		keywords TEXT NOT NULL,
		summary TEXT,
		doi TEXT,
		folder TEXT NOT NULL,
		raw_analysis TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_papers_folder ON papers(folder)`); err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]StoredPaper, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, added_at, title, authors, year, institution,
		keywords, summary, doi, folder, raw_analysis FROM papers`)
	if err != nil {
		return nil, fmt.Errorf("list papers: %w: %w", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	papers := []StoredPaper{}
	for rows.Next() {
		var (
			p                 StoredPaper
			addedAt           int64
			authors, keywords string
		)
		if err := rows.Scan(&p.ID, &addedAt, &p.Title, &authors, &p.Year, &p.Institution,
			&keywords, &p.Summary, &p.DOI, &p.Folder, &p.RawAnalysis); err != nil {
			return nil, fmt.Errorf("list papers: %w: %w", ErrStorageUnavailable, err)
		}
		p.AddedAt = time.UnixMilli(addedAt).UTC()
		if err := json.Unmarshal([]byte(authors), &p.Authors); err != nil {
			return nil, fmt.Errorf("decoding authors of %s: %w", p.ID, err)
		}
		if err := json.Unmarshal([]byte(keywords), &p.Keywords); err != nil {
			return nil, fmt.Errorf("decoding keywords of %s: %w", p.ID, err)
		}
		papers = append(papers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list papers: %w: %w", ErrStorageUnavailable, err)
	}
	sortPapers(papers)
	return papers, nil
}

func (s *SQLiteStore) Save(ctx context.Context, paper StoredPaper) error {
	if err := validateForSave(paper); err != nil {
		return err
	}
	authors, err := marshalList(paper.Authors)
	if err != nil {
		return err
	}
	keywords, err := marshalList(paper.Keywords)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO papers (id, added_at, title, authors, year,
		institution, keywords, summary, doi, folder, raw_analysis)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			authors = excluded.authors,
			year = excluded.year,
			institution = excluded.institution,
			keywords = excluded.keywords,
			summary = excluded.summary,
			doi = excluded.doi,
			folder = excluded.folder,
			raw_analysis = excluded.raw_analysis`,
		paper.ID, paper.AddedAt.UnixMilli(), paper.Title, authors, paper.Year,
		paper.Institution, keywords, paper.Summary, paper.DOI, paper.Folder, paper.RawAnalysis)
	if err != nil {
		return fmt.Errorf("save paper %s: %w: %w", paper.ID, ErrStorageUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM papers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete paper %s: %w: %w", id, ErrStorageUnavailable, err)
	}
	return nil
}

// marshalList keeps nil distinct from empty so lists round-trip like the
// other backends.
func marshalList(values []string) (string, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
