package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/scholarlens/internal/library"
	"github.com/csheth/scholarlens/internal/markdown"
)

const reportWidth = 80

// writePaper prints the metadata card and the report as plain text.
func writePaper(w io.Writer, paper library.StoredPaper) error {
	var b strings.Builder
	b.WriteString(paper.Title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", min(len([]rune(paper.Title)), reportWidth)))
	b.WriteString("\n")
	field := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			fmt.Fprintf(&b, "%-12s %s\n", label+":", value)
		}
	}
	field("ID", paper.ID)
	field("Authors", strings.Join(paper.Authors, ", "))
	field("Year", paper.Year)
	field("Institution", paper.Institution)
	field("DOI", paper.DOI)
	field("Keywords", strings.Join(paper.Keywords, ", "))
	if paper.Folder == "" {
		field("Folder", "(not saved)")
	} else {
		field("Folder", paper.Folder)
	}
	if !paper.AddedAt.IsZero() {
		field("Added", paper.AddedAt.Local().Format("2006-01-02 15:04"))
	}
	if paper.Summary != "" {
		b.WriteString("\n")
		b.WriteString(wordwrap.String(paper.Summary, reportWidth))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(plainReport(paper.RawAnalysis, reportWidth))
	_, err := io.WriteString(w, b.String())
	return err
}

// plainReport renders report markdown without styling.
func plainReport(report string, width int) string {
	var b strings.Builder
	for _, block := range markdown.Render(report) {
		text := block.Text()
		switch block.Kind {
		case markdown.KindHeading:
			line := text
			if block.Level == 1 {
				line = strings.ToUpper(text)
			}
			b.WriteString(wordwrap.String(line, width))
		case markdown.KindListItem:
			b.WriteString(listItem("• ", text, width))
		case markdown.KindOrderedItem:
			b.WriteString(listItem(block.Label, text, width))
		case markdown.KindSpacer:
		default:
			b.WriteString(wordwrap.String(text, width))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func listItem(marker, text string, width int) string {
	pad := len([]rune(marker))
	body := wordwrap.String(text, max(width-pad, 10))
	wrapped := indent.String(body, uint(pad))
	return marker + strings.TrimPrefix(wrapped, strings.Repeat(" ", pad))
}
