package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plain(text string) []Span { return []Span{{Text: text}} }

func TestRenderMixedReport(t *testing.T) {
	t.Parallel()

	input := "# Title\n\nSome **bold** text.\n- item one\n- item two\n1. first\n2. second"
	want := []Block{
		{Kind: KindHeading, Level: 1, Spans: plain("Title")},
		{Kind: KindSpacer},
		{Kind: KindParagraph, Spans: []Span{{Text: "Some "}, {Text: "bold", Bold: true}, {Text: " text."}}},
		{Kind: KindListItem, Spans: plain("item one")},
		{Kind: KindListItem, Spans: plain("item two")},
		{Kind: KindOrderedItem, Label: "1. ", Spans: plain("first")},
		{Kind: KindOrderedItem, Label: "2. ", Spans: plain("second")},
	}

	assert.Equal(t, want, Render(input))
}

func TestRenderEmptyInput(t *testing.T) {
	t.Parallel()

	got := Render("")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRenderHeadingLevels(t *testing.T) {
	t.Parallel()

	got := Render("  ## Methods  \n### **Setup** notes\n#NoSpace")
	require.Len(t, got, 3)

	assert.Equal(t, Block{Kind: KindHeading, Level: 2, Spans: plain("Methods")}, got[0])
	assert.Equal(t, Block{Kind: KindHeading, Level: 3, Spans: []Span{{Text: "Setup", Bold: true}, {Text: " notes"}}}, got[1])
	assert.Equal(t, KindParagraph, got[2].Kind)
	assert.Equal(t, "#NoSpace", got[2].Text())
}

func TestRenderListMarkers(t *testing.T) {
	t.Parallel()

	got := Render("* star item\n   - indented dash\n**not** a list")
	require.Len(t, got, 3)
	assert.Equal(t, KindListItem, got[0].Kind)
	assert.Equal(t, "star item", got[0].Text())
	assert.Equal(t, KindListItem, got[1].Kind)
	assert.Equal(t, "indented dash", got[1].Text())
	assert.Equal(t, KindParagraph, got[2].Kind)
}

func TestRenderOrderedItemKeepsFirstMatchOnly(t *testing.T) {
	t.Parallel()

	got := Render("12. twelve 3. three\n4.missing space")
	require.Len(t, got, 2)
	assert.Equal(t, Block{Kind: KindOrderedItem, Label: "12. ", Spans: plain("twelve 3. three")}, got[0])
	assert.Equal(t, KindParagraph, got[1].Kind)
}

func TestRenderEveryBlankLineIsSpacer(t *testing.T) {
	t.Parallel()

	got := Render("a\n\n   \n\t\nb")
	kinds := make([]BlockKind, 0, len(got))
	for _, block := range got {
		kinds = append(kinds, block.Kind)
	}
	assert.Equal(t, []BlockKind{KindParagraph, KindSpacer, KindSpacer, KindSpacer, KindParagraph}, kinds)
}

func TestRenderParagraphKeepsWhitespace(t *testing.T) {
	t.Parallel()

	got := Render("   indented text  ")
	require.Len(t, got, 1)
	assert.Equal(t, plain("   indented text  "), got[0].Spans)
}

func TestInlineUnbalancedMarkers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, plain("a **b"), Inline("a **b"))
	assert.Equal(t, []Span{{Text: "x", Bold: true}, {Text: " and **y"}}, Inline("**x** and **y"))
	assert.Equal(t, []Span{}, Inline(""))
}

func TestInlineNonGreedy(t *testing.T) {
	t.Parallel()

	got := Inline("**a** b **c**")
	assert.Equal(t, []Span{{Text: "a", Bold: true}, {Text: " b "}, {Text: "c", Bold: true}}, got)
}

func TestRenderIsDeterministic(t *testing.T) {
	t.Parallel()

	input := "# A\n- **b**\n1. c **d\n\nplain"
	assert.Equal(t, Render(input), Render(input))
}

func TestOutline(t *testing.T) {
	t.Parallel()

	blocks := Render("# Paper\nintro\n## Methods\n- x\n### Detail")
	assert.Equal(t, []Heading{
		{Index: 0, Level: 1, Text: "Paper"},
		{Index: 2, Level: 2, Text: "Methods"},
		{Index: 4, Level: 3, Text: "Detail"},
	}, Outline(blocks))
}
