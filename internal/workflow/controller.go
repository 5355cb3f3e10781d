package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/csheth/scholarlens/internal/analysis"
	"github.com/csheth/scholarlens/internal/library"
)

// SaveRequest is the first half of the two-phase save.
type SaveRequest struct {
	Token           string
	ExistingFolders []string
	// Suggested is the analyzer's folder hint, only used to pre-fill the dialog.
	Suggested string
}

// DeleteRequest is the first half of the two-phase delete.
type DeleteRequest struct {
	Token   string
	PaperID string
	Title   string
}

// Option customizes a Controller.
type Option func(*Controller)

// WithClock overrides the time source used for AddedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDGenerator overrides paper and token id generation.
func WithIDGenerator(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller drives the workflow. Actions are expected one at a time; the
// mutex only guards state so readers never block on storage or analysis.
type Controller struct {
	store    library.Store
	analyzer analysis.Analyzer
	now      func() time.Time
	newID    func() string
	logger   *zap.Logger

	mu            sync.RWMutex
	state         State
	papers        []library.StoredPaper
	err           error
	suggested     string
	pendingSave   *SaveRequest
	pendingDelete *DeleteRequest
}

// New returns a controller in the initial library state with no papers.
// Call Load to fetch the library.
func New(store library.Store, analyzer analysis.Analyzer, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		analyzer: analyzer,
		now:      time.Now,
		newID:    uuid.NewString,
		logger:   zap.NewNop(),
		state:    Initial(),
		papers:   []library.StoredPaper{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the library and shows it.
func (c *Controller) Load(ctx context.Context) error {
	papers, err := c.store.List(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		return c.failLocked("load library", err)
	}
	c.papers = papers
	c.state = c.state.ShowLibrary()
	c.resetLocked()
	c.logger.Info("library loaded", zap.Int("papers", len(papers)))
	return nil
}

// Refresh re-reads the library without changing the view.
func (c *Controller) Refresh(ctx context.Context) error {
	papers, err := c.store.List(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		return c.failLocked("refresh library", err)
	}
	c.papers = papers
	c.err = nil
	return nil
}

// StartUpload opens the upload screen.
func (c *Controller) StartUpload() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := c.state.OpenUpload()
	if err != nil {
		return c.failLocked("start upload", err)
	}
	c.state = next
	c.resetLocked()
	return nil
}

// Analyze runs the analyzer and, on success, previews the unsaved result.
// On failure the controller stays on the upload screen.
func (c *Controller) Analyze(ctx context.Context, req analysis.Request) error {
	if err := c.expect(ViewUpload, "analyze"); err != nil {
		return err
	}
	if c.analyzer == nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.failLocked("analyze", fmt.Errorf("%w: no analysis provider configured", analysis.ErrAnalysisFailed))
	}
	started := c.now()
	result, err := c.analyzer.Analyze(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if !errors.Is(err, analysis.ErrAnalysisFailed) && !errors.Is(err, analysis.ErrUnsupportedMedia) {
			err = fmt.Errorf("%w: %w", analysis.ErrAnalysisFailed, err)
		}
		return c.failLocked("analyze", err)
	}
	metadata := result.Metadata
	metadata.Folder = ""
	paper := library.StoredPaper{
		Metadata:    metadata,
		ID:          c.newID(),
		AddedAt:     c.now().UTC().Truncate(time.Millisecond),
		RawAnalysis: result.Report,
	}
	next, err := c.state.EnterPreview(paper)
	if err != nil {
		return c.failLocked("analyze", err)
	}
	c.state = next
	c.resetLocked()
	c.suggested = strings.TrimSpace(result.SuggestedFolder)
	c.logger.Info("analysis previewed",
		zap.String("file", req.Filename),
		zap.String("paper_id", paper.ID),
		zap.String("title", paper.Title),
		zap.Duration("duration", c.now().Sub(started)))
	return nil
}

// RequestSave starts saving the previewed paper.
func (c *Controller) RequestSave() (SaveRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.View != ViewPreview {
		return SaveRequest{}, c.failLocked("request save", invalid(c.state.View, "save"))
	}
	req := SaveRequest{
		Token:           c.newID(),
		ExistingFolders: library.Folders(c.papers),
		Suggested:       c.suggested,
	}
	c.pendingSave = &req
	return req, nil
}

// ConfirmSave files the preview under folder, saves it and opens it for
// reading. A failed save or refresh leaves the preview and token in place so
// the user can retry; saves are upserts so a retry never duplicates.
func (c *Controller) ConfirmSave(ctx context.Context, token, folder string) error {
	c.mu.Lock()
	if c.pendingSave == nil || c.pendingSave.Token != token {
		defer c.mu.Unlock()
		return c.failLocked("confirm save", fmt.Errorf("%w: save %q", ErrUnknownRequest, token))
	}
	if c.state.View != ViewPreview || c.state.Preview == nil {
		defer c.mu.Unlock()
		return c.failLocked("confirm save", invalid(c.state.View, "save"))
	}
	folder = strings.TrimSpace(folder)
	if folder == "" {
		defer c.mu.Unlock()
		return c.failLocked("confirm save", fmt.Errorf("%w: folder name is required", ErrValidation))
	}
	paper := c.state.Preview.WithFolder(folder)
	c.mu.Unlock()

	papers, err := c.saveAndList(ctx, paper)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		return c.failLocked("save paper", err)
	}
	next, err := c.state.EnterReading(paper)
	if err != nil {
		return c.failLocked("save paper", err)
	}
	c.papers = papers
	c.state = next
	c.resetLocked()
	c.logger.Info("paper saved", zap.String("paper_id", paper.ID), zap.String("folder", folder))
	return nil
}

// CancelSave abandons the save dialog; the preview stays open.
func (c *Controller) CancelSave(token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingSave == nil || c.pendingSave.Token != token {
		return fmt.Errorf("%w: save %q", ErrUnknownRequest, token)
	}
	c.pendingSave = nil
	return nil
}

// OpenPaper shows a stored paper from the library.
func (c *Controller) OpenPaper(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	paper, ok := library.Find(c.papers, id)
	if !ok {
		return c.failLocked("open paper", fmt.Errorf("%w: no paper with id %q", ErrValidation, id))
	}
	if c.state.View != ViewLibrary {
		return c.failLocked("open paper", invalid(c.state.View, "open a paper"))
	}
	next, err := c.state.EnterReading(paper)
	if err != nil {
		return c.failLocked("open paper", err)
	}
	c.state = next
	c.resetLocked()
	return nil
}

// RequestDelete starts deleting the paper being read.
func (c *Controller) RequestDelete(id string) (DeleteRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.View != ViewReading || c.state.Current == nil {
		return DeleteRequest{}, c.failLocked("request delete", invalid(c.state.View, "delete"))
	}
	if c.state.Current.ID != id {
		return DeleteRequest{}, c.failLocked("request delete",
			fmt.Errorf("%w: paper %q is not open", ErrInvalidTransition, id))
	}
	req := DeleteRequest{Token: c.newID(), PaperID: id, Title: c.state.Current.Title}
	c.pendingDelete = &req
	return req, nil
}

// ConfirmDelete removes the paper and returns to the library. On failure the
// paper stays open and the token stays valid.
func (c *Controller) ConfirmDelete(ctx context.Context, token string) error {
	c.mu.Lock()
	if c.pendingDelete == nil || c.pendingDelete.Token != token {
		defer c.mu.Unlock()
		return c.failLocked("confirm delete", fmt.Errorf("%w: delete %q", ErrUnknownRequest, token))
	}
	id := c.pendingDelete.PaperID
	if c.state.View != ViewReading || c.state.Current == nil || c.state.Current.ID != id {
		defer c.mu.Unlock()
		return c.failLocked("confirm delete", invalid(c.state.View, "delete"))
	}
	c.mu.Unlock()

	papers, err := c.deleteAndList(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		return c.failLocked("delete paper", err)
	}
	c.papers = papers
	c.state = c.state.ShowLibrary()
	c.resetLocked()
	c.logger.Info("paper deleted", zap.String("paper_id", id))
	return nil
}

// CancelDelete declines the deletion; nothing else changes.
func (c *Controller) CancelDelete(token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingDelete == nil || c.pendingDelete.Token != token {
		return fmt.Errorf("%w: delete %q", ErrUnknownRequest, token)
	}
	c.pendingDelete = nil
	return nil
}

// Back returns to the library. An unsaved preview is discarded.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.View == ViewPreview && c.state.Preview != nil {
		c.logger.Info("preview discarded", zap.String("paper_id", c.state.Preview.ID))
	}
	c.state = c.state.ShowLibrary()
	c.resetLocked()
}

// SelectFolder scopes the library to folder.
func (c *Controller) SelectFolder(folder string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.SelectFolder(folder)
	c.resetLocked()
}

// ShowAllPapers clears the folder filter.
func (c *Controller) ShowAllPapers() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.ShowAllPapers()
	c.resetLocked()
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// Papers returns the whole library snapshot.
func (c *Controller) Papers() []library.StoredPaper {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]library.StoredPaper{}, c.papers...)
}

// Visible returns the papers in the selected folder.
func (c *Controller) Visible() []library.StoredPaper {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return library.InFolder(c.papers, c.state.SelectedFolder)
}

// Folders returns the folder index of the snapshot.
func (c *Controller) Folders() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return library.Folders(c.papers)
}

// Err returns the last recorded failure, cleared by the next successful action.
func (c *Controller) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

func (c *Controller) expect(view View, action string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.View != view {
		return c.failLocked(action, invalid(c.state.View, action))
	}
	return nil
}

func (c *Controller) saveAndList(ctx context.Context, paper library.StoredPaper) ([]library.StoredPaper, error) {
	if err := c.store.Save(ctx, paper); err != nil {
		return nil, err
	}
	return c.store.List(ctx)
}

func (c *Controller) deleteAndList(ctx context.Context, id string) ([]library.StoredPaper, error) {
	if err := c.store.Delete(ctx, id); err != nil {
		return nil, err
	}
	return c.store.List(ctx)
}

// failLocked records err without touching the state.
func (c *Controller) failLocked(action string, err error) error {
	c.err = err
	c.logger.Warn("workflow action failed",
		zap.String("action", action),
		zap.Stringer("view", c.state.View),
		zap.Error(err))
	return err
}

// resetLocked runs after every successful transition.
func (c *Controller) resetLocked() {
	c.err = nil
	switch c.state.View {
	case ViewPreview:
		c.pendingDelete = nil
	case ViewReading:
		c.pendingSave = nil
		c.suggested = ""
	default:
		c.pendingSave = nil
		c.pendingDelete = nil
		c.suggested = ""
	}
}
