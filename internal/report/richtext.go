package report

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/duailibe/jira-report/internal/jira"
)

// Block is a top-level piece of a comment body.
type Block interface {
	block()
}

type Paragraph struct {
	Inlines []Inline
}

type CodeBlock struct {
	Text string
}

// Inline is a piece of paragraph content.
type Inline interface {
	inline()
}

type TextRun struct {
	Text string
	Link bool
}

type HardBreak struct{}

func (Paragraph) block()  {}
func (CodeBlock) block()  {}
func (TextRun) inline()   {}
func (HardBreak) inline() {}

// ParseBlocks turns an ADF document into the blocks the digest understands.
// Anything else (lists, mentions, media) is skipped.
func ParseBlocks(doc jira.Node) []Block {
	var blocks []Block
	for _, node := range doc.Content {
		switch node.Type {
		case "paragraph":
			blocks = append(blocks, Paragraph{Inlines: parseInlines(node.Content)})
		case "codeBlock":
			var text strings.Builder
			for _, child := range node.Content {
				text.WriteString(child.Text)
			}
			blocks = append(blocks, CodeBlock{Text: text.String()})
		}
	}
	return blocks
}

func parseInlines(nodes []jira.Node) []Inline {
	inlines := make([]Inline, 0, len(nodes))
	for _, node := range nodes {
		switch node.Type {
		case "text":
			inlines = append(inlines, TextRun{Text: node.Text, Link: hasLink(node.Marks)})
		case "hardBreak":
			inlines = append(inlines, HardBreak{})
		}
	}
	return inlines
}

func hasLink(marks []jira.Mark) bool {
	for _, mark := range marks {
		if mark.Type == "link" {
			return true
		}
	}
	return false
}

var lineEndings = regexp.MustCompile(`\r\n|\r|\n`)

// textWalker collects the lines of a report comment. Paragraph text only
// counts once the marker has been seen; code blocks always count.
type textWalker struct {
	marker    string
	confirmed bool
	// pendingBreak holds a hard break until the next run shows whether it
	// is a link, which stays on the current line.
	pendingBreak bool
	lines        []string
}

// ExtractText returns the report text that follows the marker, one line per
// hard break, paragraph, or code line. Empty lines are never produced.
func ExtractText(blocks []Block, marker string) string {
	w := &textWalker{marker: marker}
	for _, b := range blocks {
		w.walkBlock(b)
	}
	return strings.Join(w.lines, "\n")
}

func (w *textWalker) walkBlock(b Block) {
	switch b := b.(type) {
	case Paragraph:
		var line strings.Builder
		for _, in := range b.Inlines {
			w.walkInline(in, &line)
		}
		w.pendingBreak = false
		w.flush(&line)
	case CodeBlock:
		text := w.stripMarker(b.Text)
		for _, l := range lineEndings.Split(text, -1) {
			if strings.TrimSpace(l) == "" {
				continue
			}
			w.lines = append(w.lines, l)
		}
	}
}

func (w *textWalker) walkInline(in Inline, line *strings.Builder) {
	switch in := in.(type) {
	case TextRun:
		text := in.Text
		if strings.Contains(text, w.marker) {
			w.confirmed = true
			text = w.stripMarker(text)
		} else if !w.confirmed || strings.TrimSpace(text) == "" {
			return
		}
		if text == "" {
			return
		}
		if w.pendingBreak && !in.Link {
			w.flush(line)
		}
		w.pendingBreak = false
		line.WriteString(text)
	case HardBreak:
		if line.Len() > 0 {
			w.pendingBreak = true
		}
	}
}

func (w *textWalker) flush(line *strings.Builder) {
	if line.Len() == 0 {
		return
	}
	w.lines = append(w.lines, line.String())
	line.Reset()
}

// stripMarker drops a leading marker and the whitespace right after it.
func (w *textWalker) stripMarker(text string) string {
	return strings.TrimLeftFunc(strings.TrimPrefix(text, w.marker), unicode.IsSpace)
}
