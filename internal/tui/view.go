package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/scholarlens/internal/workflow"
)

func (m *model) View() string {
	state := m.config.Controller.State()
	var body string
	switch state.View {
	case workflow.ViewUpload:
		body = m.viewUpload()
	case workflow.ViewPreview, workflow.ViewReading:
		body = m.viewReader(state)
	default:
		body = m.viewLibrary(state)
	}
	return joinNonEmpty([]string{m.heroView(state), body, m.statusView(), m.help.View(m.helpKeys(state))})
}

func (m *model) heroView(state workflow.State) string {
	title := m.styles.title.Render("ScholarLens")
	crumbs := []string{title, m.styles.helper.Render(strings.ToUpper(state.View.String()))}
	if m.config.Provider != "" {
		crumbs = append(crumbs, m.styles.helper.Render(m.config.Provider))
	}
	crumbs = append(crumbs, m.styles.helper.Render("Report: "+m.language.DisplayName()))
	if m.config.StoreLabel != "" {
		crumbs = append(crumbs, m.styles.helper.Render(m.config.StoreLabel))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(crumbs, m.styles.helper.Render("  •  ")),
		m.styles.tagline.Render(heroTagline),
	)
}

func (m *model) viewLibrary(state workflow.State) string {
	sidebar := m.folderSidebar(state)
	var main string
	if len(m.papers.Items()) == 0 {
		empty := "Your library is empty. Press u to analyze your first paper."
		if state.SelectedFolder != "" {
			empty = fmt.Sprintf("No papers in %s.", state.SelectedFolder)
		}
		main = joinNonEmpty([]string{m.styles.section.Render(m.papers.Title), m.styles.helper.Render(empty)})
	} else {
		main = m.papers.View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", main)
}

func (m *model) folderSidebar(state workflow.State) string {
	lines := []string{m.styles.section.Render("Folders")}
	for i, entry := range m.folderEntries() {
		active := (i == 0 && state.SelectedFolder == "") || (i > 0 && entry == state.SelectedFolder)
		label := entry
		if i > 0 {
			label = "📁 " + entry
		}
		style := m.styles.folder
		if active {
			style = m.styles.folderActive
		}
		line := style.Render(trimmedTitle(label))
		if m.focus == focusFolders && i == m.folderCursor {
			line = m.styles.cursor.Render("▸ " + trimmedTitle(label))
		}
		lines = append(lines, line)
	}
	frame := m.styles.sidebar
	if m.focus == focusFolders {
		frame = m.styles.sidebarFocus
	}
	return frame.Width(sidebarWidth).Render(strings.Join(lines, "\n"))
}

func (m *model) viewUpload() string {
	var b strings.Builder
	b.WriteString(m.styles.section.Render("Analyze a PDF"))
	b.WriteRune('\n')
	b.WriteString(m.pathInput.View())
	b.WriteRune('\n')
	b.WriteString(m.styles.helper.Render(fmt.Sprintf("Enter: analyze in %s • Esc: back to library", m.language.DisplayName())))
	return b.String()
}

func (m *model) viewReader(state workflow.State) string {
	m.refreshViewportIfDirty()
	parts := []string{}
	if state.View == workflow.ViewPreview {
		parts = append(parts, m.styles.key.Render("PREVIEW · not saved yet"))
	}
	parts = append(parts, m.viewport.View())
	if m.save != nil {
		parts = append(parts, m.saveDialogView())
	}
	if m.deleting != nil {
		parts = append(parts, m.deleteDialogView())
	}
	return joinNonEmpty(parts)
}

func (m *model) saveDialogView() string {
	dialog := m.save
	lines := []string{m.styles.section.Render("Save to folder")}
	for i, folder := range dialog.request.ExistingFolders {
		lines = append(lines, m.choiceLine(i == dialog.choice, "📁 "+folder))
	}
	lines = append(lines, m.choiceLine(dialog.newFolderSelected(), newFolderLabel))
	if dialog.newFolderSelected() {
		lines = append(lines, "  "+m.folderInput.View())
	}
	if dialog.request.Suggested != "" {
		lines = append(lines, m.styles.helper.Render("Suggested: "+dialog.request.Suggested))
	}
	lines = append(lines, m.styles.helper.Render("↑/↓ choose • Enter save • Esc cancel"))
	return m.styles.dialog.Render(strings.Join(lines, "\n"))
}

func (m *model) choiceLine(selected bool, label string) string {
	if selected {
		return m.styles.cursor.Render("▸ " + label)
	}
	return "  " + label
}

func (m *model) deleteDialogView() string {
	lines := []string{
		m.styles.err.Render("Delete this paper?"),
		m.styles.text.Render(trimmedTitle(m.deleting.Title)),
		m.styles.helper.Render("y: delete permanently • n/Esc: keep"),
	}
	return m.styles.dialog.Render(strings.Join(lines, "\n"))
}

func (m *model) statusView() string {
	parts := []string{}
	if m.errorMessage != "" {
		parts = append(parts, m.styles.err.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		message := m.infoMessage
		if m.busy() {
			message = fmt.Sprintf("%s %s", m.spinner.View(), message)
		}
		parts = append(parts, m.styles.helper.Render(message))
	}
	return strings.Join(parts, "\n")
}

func (m *model) helpKeys(state workflow.State) helpKeys {
	k := m.keys
	var short []key.Binding
	switch {
	case m.save != nil || m.deleting != nil:
		short = []key.Binding{k.Up, k.Down, k.Open, k.Confirm, k.Decline}
	case state.View == workflow.ViewUpload:
		short = []key.Binding{k.Open, k.Back}
	case state.View == workflow.ViewPreview:
		short = []key.Binding{k.Save, k.Back, k.NextSection, k.PrevSection, k.Quit}
	case state.View == workflow.ViewReading:
		short = []key.Binding{k.Delete, k.Back, k.Upload, k.NextSection, k.PrevSection, k.Quit}
	default:
		short = []key.Binding{k.Open, k.Upload, k.Focus, k.Language, k.Refresh, k.Quit}
	}
	return helpKeys{
		short: short,
		full: [][]key.Binding{
			short,
			{k.Up, k.Down, k.Top, k.Bottom, k.Help},
		},
	}
}

// expandHome resolves a leading ~ in pasted paths.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
