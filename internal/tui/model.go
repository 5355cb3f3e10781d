package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/csheth/scholarlens/internal/analysis"
	"github.com/csheth/scholarlens/internal/library"
	"github.com/csheth/scholarlens/internal/workflow"
)

// Controller is the workflow the TUI drives.
type Controller interface {
	Load(ctx context.Context) error
	StartUpload() error
	Analyze(ctx context.Context, req analysis.Request) error
	RequestSave() (workflow.SaveRequest, error)
	ConfirmSave(ctx context.Context, token, folder string) error
	CancelSave(token string) error
	OpenPaper(id string) error
	RequestDelete(id string) (workflow.DeleteRequest, error)
	ConfirmDelete(ctx context.Context, token string) error
	CancelDelete(token string) error
	Back()
	SelectFolder(folder string)
	ShowAllPapers()
	State() workflow.State
	Visible() []library.StoredPaper
	Folders() []string
}

// Config wires runtime options into the TUI program.
type Config struct {
	Controller Controller
	Language   analysis.Language
	Theme      string
	// Provider and StoreLabel are shown in the header.
	Provider   string
	StoreLabel string
	Logger     *zap.Logger
	// ReadRequest loads an upload; defaults to analysis.NewRequestFromFile.
	ReadRequest func(path string, lang analysis.Language) (analysis.Request, error)
}

const (
	heroTagline      = "Read papers faster with ScholarLens."
	allPapersLabel   = "All Papers"
	newFolderLabel   = "+ New folder"
	minViewportWidth = 40
	sidebarWidth     = 24
	chromeHeight     = 9
)

type focusArea int

const (
	focusPapers focusArea = iota
	focusFolders
)

type paperItem struct {
	paper library.StoredPaper
}

func (i paperItem) Title() string { return i.paper.Title }

func (i paperItem) Description() string {
	parts := []string{}
	if len(i.paper.Authors) > 0 {
		parts = append(parts, shortenList(i.paper.Authors, 2))
	}
	if i.paper.Year != "" {
		parts = append(parts, i.paper.Year)
	}
	if i.paper.Folder != "" {
		parts = append(parts, "📁 "+i.paper.Folder)
	}
	return strings.Join(parts, " · ")
}

func (i paperItem) FilterValue() string { return i.paper.Title }

// saveDialog is the folder picker shown while a save request is pending.
type saveDialog struct {
	request workflow.SaveRequest
	// choice indexes request.ExistingFolders; len(ExistingFolders) means a new folder.
	choice int
}

func (d saveDialog) newFolderSelected() bool {
	return d.choice >= len(d.request.ExistingFolders)
}

type model struct {
	config Config
	keys   keyMap
	styles styles

	width  int
	height int

	papers      list.Model
	pathInput   textinput.Model
	folderInput textinput.Model
	spinner     spinner.Model
	viewport    viewport.Model
	help        help.Model
	jobs        *jobBus

	focus        focusArea
	folderCursor int
	language     analysis.Language

	activeJob *jobSnapshot
	save      *saveDialog
	deleting  *workflow.DeleteRequest

	renderedID    string
	viewportDirty bool
	headings      []int

	infoMessage  string
	errorMessage string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	return newModel(config)
}

func newModel(config Config) *model {
	if config.ReadRequest == nil {
		config.ReadRequest = analysis.NewRequestFromFile
	}
	if config.Language == "" {
		config.Language = analysis.English
	}
	st := newStyles(config.Theme)

	pathInput := textinput.New()
	pathInput.Placeholder = "/path/to/paper.pdf"
	pathInput.CharLimit = 1024
	pathInput.Width = 70

	folderInput := textinput.New()
	folderInput.Placeholder = "Folder name"
	folderInput.CharLimit = 80
	folderInput.Width = 40

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	papers := list.New(nil, list.NewDefaultDelegate(), 60, 20)
	papers.Title = allPapersLabel
	papers.SetShowHelp(false)
	papers.SetFilteringEnabled(false)
	papers.SetShowStatusBar(false)
	papers.DisableQuitKeybindings()
	papers.Styles.Title = st.section

	return &model{
		config:        config,
		keys:          defaultKeyMap(),
		styles:        st,
		papers:        papers,
		pathInput:     pathInput,
		folderInput:   folderInput,
		spinner:       spin,
		viewport:      vp,
		help:          help.New(),
		jobs:          newJobBus(config.Logger),
		language:      config.Language,
		viewportDirty: true,
		infoMessage:   "Press u to analyze a PDF.",
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.startJob(jobKindLoad, loadLibraryJob(m.config.Controller)))
}

func (m *model) busy() bool {
	return m.activeJob != nil
}

func (m *model) startJob(kind jobKind, runner jobRunner) tea.Cmd {
	snapshot, cmd := m.jobs.Start(kind, runner)
	m.activeJob = &snapshot
	m.errorMessage = ""
	m.infoMessage = jobLabel(kind)
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case jobResultEnvelope:
		return m.handleJobResult(msg.Snapshot)
	case tea.MouseMsg:
		if view := m.config.Controller.State().View; view == workflow.ViewPreview || view == workflow.ViewReading {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.busy() {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleJobResult(snapshot jobSnapshot) (tea.Model, tea.Cmd) {
	if m.activeJob == nil || m.activeJob.ID != snapshot.ID {
		return m, nil
	}
	m.activeJob = nil
	ctrl := m.config.Controller
	if snapshot.Err != nil {
		m.errorMessage = workflow.Describe(snapshot.Err)
		switch snapshot.Kind {
		case jobKindAnalyze:
			m.infoMessage = "Pick another file or press esc to return."
			m.pathInput.Focus()
		case jobKindSave:
			m.infoMessage = "Saving failed. Press enter to retry or esc to cancel."
		case jobKindDelete:
			m.infoMessage = "Deleting failed. Press y to retry or n to keep the paper."
		default:
			m.infoMessage = "Press r to retry."
		}
		return m, nil
	}

	m.errorMessage = ""
	state := ctrl.State()
	switch snapshot.Kind {
	case jobKindLoad:
		m.infoMessage = fmt.Sprintf("%d paper(s) in your library.", len(ctrl.Visible()))
	case jobKindAnalyze:
		m.pathInput.SetValue("")
		m.pathInput.Blur()
		if state.Preview != nil {
			m.infoMessage = fmt.Sprintf("Preview of %s. Press s to save or esc to discard.", trimmedTitle(state.Preview.Title))
		}
	case jobKindSave:
		m.closeSaveDialog()
		if state.Current != nil {
			m.infoMessage = fmt.Sprintf("Saved to %s.", state.Current.Folder)
		}
	case jobKindDelete:
		if m.deleting != nil {
			m.infoMessage = fmt.Sprintf("Deleted %s.", trimmedTitle(m.deleting.Title))
		}
		m.deleting = nil
	}
	m.syncLibrary()
	m.markViewportDirty()
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.save != nil {
		return m.handleSaveKey(msg)
	}
	if m.deleting != nil {
		return m.handleDeleteKey(msg)
	}
	switch m.config.Controller.State().View {
	case workflow.ViewUpload:
		return m.handleUploadKey(msg)
	case workflow.ViewPreview:
		return m.handlePreviewKey(msg)
	case workflow.ViewReading:
		return m.handleReadingKey(msg)
	default:
		return m.handleLibraryKey(msg)
	}
}

func (m *model) handleLibraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.config.Controller
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Upload):
		if err := ctrl.StartUpload(); err != nil {
			m.errorMessage = workflow.Describe(err)
			return m, nil
		}
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Enter the path of a PDF. The report will be written in %s.", m.language.DisplayName())
		m.pathInput.SetValue("")
		return m, m.pathInput.Focus()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.startJob(jobKindLoad, loadLibraryJob(ctrl))
	case key.Matches(msg, m.keys.Language):
		m.toggleLanguage()
		return m, nil
	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusPapers {
			m.focus = focusFolders
		} else {
			m.focus = focusPapers
		}
		return m, nil
	}

	if m.focus == focusFolders {
		return m.handleFolderKey(msg)
	}
	if key.Matches(msg, m.keys.Open) {
		item, ok := m.papers.SelectedItem().(paperItem)
		if !ok {
			return m, nil
		}
		if err := ctrl.OpenPaper(item.paper.ID); err != nil {
			m.errorMessage = workflow.Describe(err)
			return m, nil
		}
		m.errorMessage = ""
		m.infoMessage = "Press d to delete, [ ] to jump sections, esc to go back."
		m.viewport.GotoTop()
		m.markViewportDirty()
		return m, nil
	}
	var cmd tea.Cmd
	m.papers, cmd = m.papers.Update(msg)
	return m, cmd
}

func (m *model) handleFolderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.folderEntries()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.folderCursor > 0 {
			m.folderCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.folderCursor < len(entries)-1 {
			m.folderCursor++
		}
	case key.Matches(msg, m.keys.Open), msg.String() == " ":
		if m.folderCursor == 0 {
			m.config.Controller.ShowAllPapers()
		} else {
			m.config.Controller.SelectFolder(entries[m.folderCursor])
		}
		m.focus = focusPapers
		m.syncLibrary()
	}
	return m, nil
}

func (m *model) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.back()
		return m, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			m.errorMessage = "Enter the path of a PDF file."
			return m, nil
		}
		req, err := m.config.ReadRequest(expandHome(path), m.language)
		if err != nil {
			m.errorMessage = workflow.Describe(err)
			return m, nil
		}
		m.pathInput.Blur()
		return m, m.startJob(jobKindAnalyze, analyzeJob(m.config.Controller, req))
	}
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m *model) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		req, err := m.config.Controller.RequestSave()
		if err != nil {
			m.errorMessage = workflow.Describe(err)
			return m, nil
		}
		return m, m.openSaveDialog(req)
	case key.Matches(msg, m.keys.Back):
		m.back()
		m.infoMessage = "Preview discarded."
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m.handleReaderKey(msg)
}

func (m *model) handleReadingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.config.Controller
	switch {
	case key.Matches(msg, m.keys.Delete):
		current := ctrl.State().Current
		if current == nil {
			return m, nil
		}
		req, err := ctrl.RequestDelete(current.ID)
		if err != nil {
			m.errorMessage = workflow.Describe(err)
			return m, nil
		}
		m.deleting = &req
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.back()
		return m, nil
	case key.Matches(msg, m.keys.Upload):
		if err := ctrl.StartUpload(); err != nil {
			m.errorMessage = workflow.Describe(err)
			return m, nil
		}
		m.pathInput.SetValue("")
		return m, m.pathInput.Focus()
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m.handleReaderKey(msg)
}

// handleReaderKey scrolls the report shared by preview and reading.
func (m *model) handleReaderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.refreshViewportIfDirty()
	switch {
	case key.Matches(msg, m.keys.NextSection):
		m.jumpToRelativeSection(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevSection):
		m.jumpToRelativeSection(-1)
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) handleSaveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	dialog := m.save
	switch msg.Type {
	case tea.KeyEsc:
		if err := m.config.Controller.CancelSave(dialog.request.Token); err != nil {
			m.errorMessage = workflow.Describe(err)
		}
		m.closeSaveDialog()
		m.infoMessage = "Save canceled. The preview is still open."
		return m, nil
	case tea.KeyUp:
		if dialog.choice > 0 {
			dialog.choice--
		}
		return m, m.syncFolderInputFocus()
	case tea.KeyDown, tea.KeyTab:
		if dialog.choice < len(dialog.request.ExistingFolders) {
			dialog.choice++
		}
		return m, m.syncFolderInputFocus()
	case tea.KeyEnter:
		folder := m.folderInput.Value()
		if !dialog.newFolderSelected() {
			folder = dialog.request.ExistingFolders[dialog.choice]
		}
		if strings.TrimSpace(folder) == "" {
			m.errorMessage = "Folder name is required."
			return m, nil
		}
		m.folderInput.Blur()
		return m, m.startJob(jobKindSave, savePaperJob(m.config.Controller, dialog.request.Token, folder))
	}
	if dialog.newFolderSelected() {
		var cmd tea.Cmd
		m.folderInput, cmd = m.folderInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	req := m.deleting
	switch {
	case key.Matches(msg, m.keys.Confirm):
		return m, m.startJob(jobKindDelete, deletePaperJob(m.config.Controller, req.Token))
	case key.Matches(msg, m.keys.Decline):
		if err := m.config.Controller.CancelDelete(req.Token); err != nil {
			m.errorMessage = workflow.Describe(err)
		}
		m.deleting = nil
		m.infoMessage = "Kept the paper."
	}
	return m, nil
}

// openSaveDialog pre-selects the suggested folder when it already exists,
// otherwise pre-fills it as the new folder name.
func (m *model) openSaveDialog(req workflow.SaveRequest) tea.Cmd {
	dialog := &saveDialog{request: req, choice: len(req.ExistingFolders)}
	m.folderInput.SetValue("")
	for i, folder := range req.ExistingFolders {
		if strings.EqualFold(folder, req.Suggested) {
			dialog.choice = i
			break
		}
	}
	if dialog.newFolderSelected() {
		m.folderInput.SetValue(req.Suggested)
		m.folderInput.CursorEnd()
	}
	m.save = dialog
	m.errorMessage = ""
	m.infoMessage = "Choose a folder and press enter."
	return m.syncFolderInputFocus()
}

func (m *model) syncFolderInputFocus() tea.Cmd {
	if m.save != nil && m.save.newFolderSelected() {
		return m.folderInput.Focus()
	}
	m.folderInput.Blur()
	return nil
}

func (m *model) closeSaveDialog() {
	m.save = nil
	m.folderInput.Blur()
	m.folderInput.SetValue("")
}

func (m *model) back() {
	m.config.Controller.Back()
	m.closeSaveDialog()
	m.deleting = nil
	m.pathInput.Blur()
	m.errorMessage = ""
	m.infoMessage = "Press u to analyze a PDF."
	m.syncLibrary()
	m.markViewportDirty()
}

func (m *model) toggleLanguage() {
	if m.language == analysis.Chinese {
		m.language = analysis.English
	} else {
		m.language = analysis.Chinese
	}
	m.infoMessage = fmt.Sprintf("Reports will be written in %s.", m.language.DisplayName())
}

func (m *model) folderEntries() []string {
	return append([]string{allPapersLabel}, m.config.Controller.Folders()...)
}

// syncLibrary rebuilds the list from the controller snapshot.
func (m *model) syncLibrary() {
	ctrl := m.config.Controller
	visible := ctrl.Visible()
	items := make([]list.Item, 0, len(visible))
	for _, paper := range visible {
		items = append(items, paperItem{paper: paper})
	}
	m.papers.SetItems(items)

	selected := ctrl.State().SelectedFolder
	m.papers.Title = allPapersLabel
	m.folderCursor = 0
	if selected != "" {
		m.papers.Title = selected
		for i, folder := range m.folderEntries() {
			if i > 0 && folder == selected {
				m.folderCursor = i
			}
		}
	}
}

func (m *model) resize(width, height int) {
	m.width = width
	m.height = height
	innerWidth := width - 4
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	bodyHeight := height - chromeHeight
	if bodyHeight < 5 {
		bodyHeight = 5
	}
	m.viewport.Width = innerWidth
	m.viewport.Height = bodyHeight
	listWidth := innerWidth - sidebarWidth - 2
	if listWidth < 20 {
		listWidth = 20
	}
	m.papers.SetSize(listWidth, bodyHeight)
	m.help.Width = width
	m.markViewportDirty()
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	state := m.config.Controller.State()
	id := ""
	if state.Current != nil {
		id = state.Current.ID
	}
	if !m.viewportDirty && id == m.renderedID {
		return
	}
	m.viewportDirty = false
	if id != m.renderedID {
		m.viewport.GotoTop()
	}
	m.renderedID = id
	if state.Current == nil {
		m.viewport.SetContent("")
		m.headings = nil
		return
	}
	rendered := renderPaper(*state.Current, m.viewport.Width-2, m.styles)
	m.viewport.SetContent(rendered.content)
	m.headings = rendered.headings
}

func (m *model) jumpToRelativeSection(delta int) {
	if len(m.headings) == 0 {
		return
	}
	offset := m.viewport.YOffset
	target := -1
	if delta > 0 {
		for _, line := range m.headings {
			if line > offset {
				target = line
				break
			}
		}
	} else {
		for i := len(m.headings) - 1; i >= 0; i-- {
			if m.headings[i] < offset {
				target = m.headings[i]
				break
			}
		}
	}
	if target >= 0 {
		m.viewport.SetYOffset(target)
	}
}
