package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialStateIsEmptyLibrary(t *testing.T) {
	t.Parallel()

	s := Initial()
	assert.Equal(t, ViewLibrary, s.View)
	assert.Empty(t, s.SelectedFolder)
	assert.Nil(t, s.Current)
	assert.Nil(t, s.Preview)
	require.NoError(t, s.Validate())
}

func TestPreviewRoundTripThroughTransitions(t *testing.T) {
	t.Parallel()

	paper := storedPaper("p1", "")
	s, err := Initial().SelectFolder("ML").OpenUpload()
	require.NoError(t, err)
	assert.Equal(t, "ML", s.SelectedFolder)

	s, err = s.EnterPreview(paper)
	require.NoError(t, err)
	require.NoError(t, s.Validate())
	require.NotNil(t, s.Preview)
	assert.Equal(t, "p1", s.Current.ID)

	s, err = s.EnterReading(paper.WithFolder("ML"))
	require.NoError(t, err)
	require.NoError(t, s.Validate())
	assert.Nil(t, s.Preview)
	assert.Equal(t, "ML", s.Current.Folder)

	s = s.ShowLibrary()
	require.NoError(t, s.Validate())
	assert.Equal(t, "ML", s.SelectedFolder, "folder selection survives library re-entry")
	assert.Equal(t, "", s.ShowAllPapers().SelectedFolder)
}

func TestTransitionsDoNotAliasPapers(t *testing.T) {
	t.Parallel()

	paper := storedPaper("p1", "")
	s, err := Initial().OpenUpload()
	require.NoError(t, err)
	s, err = s.EnterPreview(paper)
	require.NoError(t, err)

	paper.Authors[0] = "mutated"
	s.Current.Title = "changed"
	assert.Equal(t, "Author p1", s.Preview.Authors[0])
	assert.Equal(t, "Paper p1", s.Preview.Title)
}

func TestInvalidTransitions(t *testing.T) {
	t.Parallel()

	paper := storedPaper("p1", "")
	upload, err := Initial().OpenUpload()
	require.NoError(t, err)
	preview, err := upload.EnterPreview(paper)
	require.NoError(t, err)

	_, err = Initial().EnterPreview(paper)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = upload.EnterReading(paper)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = upload.OpenUpload()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	same, err := preview.OpenUpload()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, preview, same, "a rejected transition returns the old state")
}

func TestValidateCatchesBrokenInvariants(t *testing.T) {
	t.Parallel()

	paper := storedPaper("p1", "")
	other := storedPaper("p2", "")
	cases := map[string]State{
		"library with current":  {View: ViewLibrary, Current: &paper},
		"upload with preview":   {View: ViewUpload, Preview: &paper},
		"preview without paper": {View: ViewPreview},
		"preview mismatch":      {View: ViewPreview, Current: &paper, Preview: &other},
		"reading without paper": {View: ViewReading},
		"reading with preview":  {View: ViewReading, Current: &paper, Preview: &paper},
		"unknown view":          {View: View(42)},
	}
	for name, s := range cases {
		assert.Error(t, s.Validate(), name)
	}
}

// Every reachable sequence of actions keeps the invariants.
func TestInvariantsHoldForAllActionSequences(t *testing.T) {
	t.Parallel()

	paper := storedPaper("p1", "")
	actions := []func(State) State{
		func(s State) State { next, _ := s.OpenUpload(); return next },
		func(s State) State { next, _ := s.EnterPreview(paper); return next },
		func(s State) State { next, _ := s.EnterReading(paper.WithFolder("A")); return next },
		func(s State) State { return s.ShowLibrary() },
		func(s State) State { return s.SelectFolder("A") },
		func(s State) State { return s.ShowAllPapers() },
	}

	var walk func(s State, depth int)
	walk = func(s State, depth int) {
		require.NoError(t, s.Validate())
		if s.View != ViewPreview {
			assert.Nil(t, s.Preview)
		}
		if s.View == ViewLibrary || s.View == ViewUpload {
			assert.Nil(t, s.Current)
		} else {
			assert.NotNil(t, s.Current)
		}
		if depth == 0 {
			return
		}
		for _, act := range actions {
			walk(act(s), depth-1)
		}
	}
	walk(Initial(), 5)
}

func TestViewString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "library", ViewLibrary.String())
	assert.Equal(t, "preview", ViewPreview.String())
	assert.Equal(t, "view(9)", View(9).String())
}
