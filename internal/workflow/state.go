// Package workflow sequences upload, preview, save and reading of papers.
//
// State transitions are pure functions on State so the view invariants can be
// checked without a UI. Controller layers the I/O (analysis and storage) on
// top of them and owns the in-memory library snapshot.
package workflow

import (
	"errors"
	"fmt"

	"github.com/csheth/scholarlens/internal/library"
)

// View is the screen the user is on.
type View int

const (
	ViewLibrary View = iota
	ViewUpload
	ViewPreview
	ViewReading
)

func (v View) String() string {
	switch v {
	case ViewLibrary:
		return "library"
	case ViewUpload:
		return "upload"
	case ViewPreview:
		return "preview"
	case ViewReading:
		return "reading"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}

// State is the complete workflow state. Preview is only set in ViewPreview;
// Current is set in ViewPreview and ViewReading.
type State struct {
	View View
	// SelectedFolder filters the library; empty means all papers.
	SelectedFolder string
	Current        *library.StoredPaper
	Preview        *library.StoredPaper
}

// Initial is the state at startup.
func Initial() State {
	return State{View: ViewLibrary}
}

// OpenUpload moves to the upload screen. An unsaved preview must be
// abandoned explicitly first.
func (s State) OpenUpload() (State, error) {
	switch s.View {
	case ViewLibrary, ViewReading:
		return State{View: ViewUpload, SelectedFolder: s.SelectedFolder}, nil
	default:
		return s, invalid(s.View, "open upload")
	}
}

// EnterPreview holds the freshly analyzed, unsaved paper.
func (s State) EnterPreview(paper library.StoredPaper) (State, error) {
	if s.View != ViewUpload {
		return s, invalid(s.View, "enter preview")
	}
	return State{
		View:           ViewPreview,
		SelectedFolder: s.SelectedFolder,
		Current:        clonePaper(&paper),
		Preview:        clonePaper(&paper),
	}, nil
}

// EnterReading shows a persisted paper, either opened from the library or
// just saved from the preview.
func (s State) EnterReading(paper library.StoredPaper) (State, error) {
	switch s.View {
	case ViewLibrary, ViewPreview:
		return State{
			View:           ViewReading,
			SelectedFolder: s.SelectedFolder,
			Current:        clonePaper(&paper),
		}, nil
	default:
		return s, invalid(s.View, "enter reading")
	}
}

// ShowLibrary returns to the library from anywhere, discarding any preview.
func (s State) ShowLibrary() State {
	return State{View: ViewLibrary, SelectedFolder: s.SelectedFolder}
}

// SelectFolder scopes the library to folder.
func (s State) SelectFolder(folder string) State {
	next := s.ShowLibrary()
	next.SelectedFolder = folder
	return next
}

// ShowAllPapers clears the folder filter.
func (s State) ShowAllPapers() State {
	return s.SelectFolder("")
}

// Validate reports any broken view invariant.
func (s State) Validate() error {
	var errs []error
	switch s.View {
	case ViewLibrary, ViewUpload:
		if s.Current != nil {
			errs = append(errs, fmt.Errorf("%s has a current paper", s.View))
		}
		if s.Preview != nil {
			errs = append(errs, fmt.Errorf("%s has a preview paper", s.View))
		}
	case ViewPreview:
		if s.Current == nil || s.Preview == nil {
			errs = append(errs, errors.New("preview requires current and preview papers"))
		} else if s.Current.ID != s.Preview.ID {
			errs = append(errs, fmt.Errorf("preview %q differs from current %q", s.Preview.ID, s.Current.ID))
		}
	case ViewReading:
		if s.Current == nil {
			errs = append(errs, errors.New("reading has no current paper"))
		}
		if s.Preview != nil {
			errs = append(errs, errors.New("reading has a preview paper"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown %s", s.View))
	}
	return errors.Join(errs...)
}

func (s State) clone() State {
	s.Current = clonePaper(s.Current)
	s.Preview = clonePaper(s.Preview)
	return s
}

func clonePaper(p *library.StoredPaper) *library.StoredPaper {
	if p == nil {
		return nil
	}
	c := p.WithFolder(p.Folder)
	return &c
}

func invalid(from View, action string) error {
	return fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, action, from)
}
