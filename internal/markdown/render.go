// Package markdown turns analysis reports into display blocks.
//
// Only a small line-oriented subset is understood: three heading levels,
// unordered and numbered list items, blank-line spacers, paragraphs and
// **bold** spans. Every physical line produces exactly one block.
package markdown

import (
	"regexp"
	"strings"
)

// BlockKind identifies the structural role of a rendered line.
type BlockKind int

const (
	KindParagraph BlockKind = iota
	KindHeading
	KindListItem
	KindOrderedItem
	KindSpacer
)

func (k BlockKind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindListItem:
		return "list-item"
	case KindOrderedItem:
		return "ordered-item"
	case KindSpacer:
		return "spacer"
	default:
		return "paragraph"
	}
}

// Span is a run of inline text, optionally emphasized.
type Span struct {
	Text string
	Bold bool
}

// Block is one rendered line.
type Block struct {
	Kind BlockKind
	// Level is 1-3 for headings and zero otherwise.
	Level int
	// Label holds the numeral and separator of an ordered item, eg "1. ".
	Label string
	Spans []Span
}

// Text returns the block content without emphasis markers.
func (b Block) Text() string {
	var sb strings.Builder
	for _, span := range b.Spans {
		sb.WriteString(span.Text)
	}
	return sb.String()
}

var (
	orderedRe = regexp.MustCompile(`^\d+\.\s`)
	boldRe    = regexp.MustCompile(`\*\*.*?\*\*`)
)

// Render converts report text into blocks, one per line, in line order.
func Render(text string) []Block {
	if text == "" {
		return []Block{}
	}
	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, renderLine(line))
	}
	return blocks
}

func renderLine(line string) Block {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, "# "):
		return Block{Kind: KindHeading, Level: 1, Spans: Inline(trimmed[2:])}
	case strings.HasPrefix(trimmed, "## "):
		return Block{Kind: KindHeading, Level: 2, Spans: Inline(trimmed[3:])}
	case strings.HasPrefix(trimmed, "### "):
		return Block{Kind: KindHeading, Level: 3, Spans: Inline(trimmed[4:])}
	case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
		return Block{Kind: KindListItem, Spans: Inline(trimmed[2:])}
	}
	if loc := orderedRe.FindStringIndex(trimmed); loc != nil {
		return Block{
			Kind:  KindOrderedItem,
			Label: trimmed[:loc[1]],
			Spans: Inline(trimmed[loc[1]:]),
		}
	}
	if trimmed == "" {
		return Block{Kind: KindSpacer}
	}
	return Block{Kind: KindParagraph, Spans: Inline(line)}
}

// Inline splits text on non-greedy **...** pairs. Unpaired markers stay
// literal and empty segments are dropped.
func Inline(text string) []Span {
	spans := []Span{}
	last := 0
	for _, loc := range boldRe.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			spans = append(spans, Span{Text: text[last:loc[0]]})
		}
		if inner := text[loc[0]+2 : loc[1]-2]; inner != "" {
			spans = append(spans, Span{Text: inner, Bold: true})
		}
		last = loc[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}
	return spans
}

// Heading is an entry of a report outline.
type Heading struct {
	Index int
	Level int
	Text  string
}

// Outline lists the heading blocks with their position in blocks.
func Outline(blocks []Block) []Heading {
	var headings []Heading
	for idx, block := range blocks {
		if block.Kind != KindHeading {
			continue
		}
		headings = append(headings, Heading{Index: idx, Level: block.Level, Text: block.Text()})
	}
	return headings
}
