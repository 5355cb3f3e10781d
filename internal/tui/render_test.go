package tui

import (
	"strings"
	"testing"

	"github.com/csheth/scholarlens/internal/markdown"
)

func TestWriteBlocksTracksHeadingLines(t *testing.T) {
	cb := &contentBuilder{}
	blocks := markdown.Render("# One\npara\n\n## Two\n- item\n### Three")
	headings := writeBlocks(cb, blocks, 60, newStyles("light"))

	want := []int{0, 3, 5}
	if len(headings) != len(want) {
		t.Fatalf("expected %d headings, got %v", len(want), headings)
	}
	for i := range want {
		if headings[i] != want[i] {
			t.Fatalf("heading %d at line %d, want %d", i, headings[i], want[i])
		}
	}
	lines := strings.Split(cb.String(), "\n")
	if !strings.Contains(lines[4], "• item") {
		t.Fatalf("list item not rendered with bullet: %q", lines[4])
	}
}

func TestWriteBlocksKeepsOrderedLabel(t *testing.T) {
	cb := &contentBuilder{}
	writeBlocks(cb, markdown.Render("12. twelfth **step**"), 60, newStyles("dark"))

	out := cb.String()
	if !strings.Contains(out, "12. ") || !strings.Contains(out, "twelfth") || !strings.Contains(out, "step") {
		t.Fatalf("ordered item lost content: %q", out)
	}
	if strings.Contains(out, "**") {
		t.Fatalf("bold markers should be consumed: %q", out)
	}
}

func TestHangingIndentWrapsUnderMarker(t *testing.T) {
	body := strings.Repeat("word ", 20)
	out := hangingIndent("- ", 2, body, 20)
	lines := strings.Split(out, "\n")
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %q", out)
	}
	for _, line := range lines[1:] {
		if !strings.HasPrefix(line, "  ") {
			t.Fatalf("continuation line not indented: %q", line)
		}
	}
}

func TestRenderPaperIncludesCard(t *testing.T) {
	paper := storedFixture("a", "")
	paper.DOI = "10.1/abc"
	rendered := renderPaper(paper, 70, newStyles("eye-care"))

	for _, want := range []string{"Stored a", "DOI: 10.1/abc", "unsaved preview", "Body."} {
		if !strings.Contains(rendered.content, want) {
			t.Fatalf("rendered paper missing %q:\n%s", want, rendered.content)
		}
	}
	if len(rendered.headings) != 1 {
		t.Fatalf("expected one heading, got %v", rendered.headings)
	}
}

func TestUnknownThemeFallsBackToDark(t *testing.T) {
	if newStyles("neon").title.GetForeground() != newStyles("dark").title.GetForeground() {
		t.Fatal("unknown theme should use the dark palette")
	}
}
