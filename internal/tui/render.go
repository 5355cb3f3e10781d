package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/scholarlens/internal/library"
	"github.com/csheth/scholarlens/internal/markdown"
)

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

// renderedPaper is the viewport content plus the line of every heading.
type renderedPaper struct {
	content  string
	headings []int
}

func renderPaper(paper library.StoredPaper, width int, st styles) renderedPaper {
	cb := &contentBuilder{}
	cb.WriteString(paperCard(paper, width, st))
	cb.WriteRune('\n')
	cb.WriteRune('\n')
	headings := writeBlocks(cb, markdown.Render(paper.RawAnalysis), width, st)
	return renderedPaper{content: cb.String(), headings: headings}
}

func paperCard(paper library.StoredPaper, width int, st styles) string {
	inner := width - 6
	if inner < 20 {
		inner = 20
	}
	lines := []string{st.title.Render(wordwrap.String(paper.Title, inner))}
	meta := []string{}
	if len(paper.Authors) > 0 {
		meta = append(meta, shortenList(paper.Authors, 4))
	}
	if paper.Year != "" {
		meta = append(meta, paper.Year)
	}
	if paper.Institution != "" {
		meta = append(meta, paper.Institution)
	}
	if len(meta) > 0 {
		lines = append(lines, st.helper.Render(wordwrap.String(strings.Join(meta, " · "), inner)))
	}
	if paper.DOI != "" {
		lines = append(lines, st.helper.Render("DOI: "+paper.DOI))
	}
	if len(paper.Keywords) > 0 {
		lines = append(lines, st.helper.Render(wordwrap.String("Keywords: "+strings.Join(paper.Keywords, ", "), inner)))
	}
	folder := paper.Folder
	if folder == "" {
		folder = "unsaved preview"
	}
	lines = append(lines, st.helper.Render(fmt.Sprintf("Folder: %s · Added %s", folder, paper.AddedAt.Local().Format("2006-01-02 15:04"))))
	if paper.Summary != "" {
		lines = append(lines, "", st.text.Render(wordwrap.String(paper.Summary, inner)))
	}
	return st.card.Render(strings.Join(lines, "\n"))
}

// writeBlocks renders one block per output paragraph and returns the line
// index of each heading.
func writeBlocks(cb *contentBuilder, blocks []markdown.Block, width int, st styles) []int {
	headings := []int{}
	for _, block := range blocks {
		switch block.Kind {
		case markdown.KindHeading:
			headings = append(headings, cb.Line())
			style := st.h1
			switch block.Level {
			case 2:
				style = st.h2
			case 3:
				style = st.h3
			}
			cb.WriteString(style.Render(wordwrap.String(block.Text(), width)))
		case markdown.KindListItem:
			cb.WriteString(hangingIndent(st.bullet.Render("• "), 2, spans(block.Spans, st), width))
		case markdown.KindOrderedItem:
			cb.WriteString(hangingIndent(st.label.Render(block.Label), len(block.Label), spans(block.Spans, st), width))
		case markdown.KindSpacer:
		default:
			cb.WriteString(wordwrap.String(spans(block.Spans, st), width))
		}
		cb.WriteRune('\n')
	}
	return headings
}

func spans(items []markdown.Span, st styles) string {
	var b strings.Builder
	for _, span := range items {
		if span.Bold {
			b.WriteString(st.bold.Render(span.Text))
			continue
		}
		b.WriteString(st.text.Render(span.Text))
	}
	return b.String()
}

func hangingIndent(marker string, markerWidth int, body string, width int) string {
	wrapAt := width - markerWidth
	if wrapAt < 10 {
		wrapAt = 10
	}
	wrapped := wordwrap.String(body, wrapAt)
	return marker + indentMultiline(wrapped, strings.Repeat(" ", markerWidth))
}

// indentMultiline prefixes every line after the first.
func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

func shortenList(items []string, limit int) string {
	if len(items) <= limit {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s…", strings.Join(items[:limit], ", "))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}
