package htmlconv

import (
	"strings"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/xml"
)

// paragraphBuilder owns the block output of a conversion: the body, the
// current paragraph and the inline elements collected since the last
// paragraph boundary. The current paragraph is placed in its container
// (the body or the innermost table cell) when it is created; the buffer is
// moved into it on every boundary.
type paragraphBuilder struct {
	body     []xml.BodyElement
	current  *xml.Paragraph
	elements []xml.ParagraphContent
	tables   tableStack
	// onSeal fills the properties of a paragraph that is being completed.
	onSeal func(p *xml.Paragraph)
}

func newParagraphBuilder() *paragraphBuilder {
	b := &paragraphBuilder{}
	b.newParagraph()
	return b
}

// add places a block element in the innermost open cell, or in the body.
func (b *paragraphBuilder) add(el xml.BodyElement) {
	if ctx := b.tables.top(); ctx != nil {
		if ctx.cell != nil {
			ctx.cell.Append(el)
		}
		return
	}
	b.body = append(b.body, el)
}

// container returns the block list the current paragraph lives in.
func (b *paragraphBuilder) container() []xml.BodyElement {
	if blocks := b.containerRef(); blocks != nil {
		return *blocks
	}
	return nil
}

// containerRef returns the innermost open cell's content or the body; nil
// between the cells of a table.
func (b *paragraphBuilder) containerRef() *[]xml.BodyElement {
	if ctx := b.tables.top(); ctx != nil {
		if ctx.cell == nil {
			return nil
		}
		return &ctx.cell.Content
	}
	return &b.body
}

// replace swaps el for the given blocks in the current container.
func (b *paragraphBuilder) replace(el xml.BodyElement, with ...xml.BodyElement) {
	blocks := b.containerRef()
	if blocks == nil {
		return
	}
	for i, cur := range *blocks {
		if cur != el {
			continue
		}
		out := make([]xml.BodyElement, 0, len(*blocks)-1+len(with))
		out = append(out, (*blocks)[:i]...)
		out = append(out, with...)
		out = append(out, (*blocks)[i+1:]...)
		*blocks = out
		return
	}
}

// append adds inline content to the buffer.
func (b *paragraphBuilder) append(content ...xml.ParagraphContent) {
	b.elements = append(b.elements, content...)
}

// take removes and returns the buffered content.
func (b *paragraphBuilder) take() []xml.ParagraphContent {
	out := b.elements
	b.elements = nil
	return out
}

// flush moves the buffer into the current paragraph.
func (b *paragraphBuilder) flush() {
	if len(b.elements) == 0 {
		return
	}
	b.current.Append(b.elements...)
	b.elements = nil
}

// seal completes the current paragraph and, when createNew is set, starts
// a fresh one so that inline content always has a destination.
func (b *paragraphBuilder) seal(createNew bool) {
	b.flush()
	trimTrailingSpace(b.current)
	if b.onSeal != nil {
		b.onSeal(b.current)
	}
	if createNew {
		b.newParagraph()
	}
}

func (b *paragraphBuilder) newParagraph() *xml.Paragraph {
	b.current = &xml.Paragraph{}
	b.add(b.current)
	return b.current
}

// trailingSpace reports whether the paragraph so far ends at a line start
// or in a space, so a following collapsed space can be dropped.
func (b *paragraphBuilder) trailingSpace() bool {
	if len(b.elements) > 0 {
		return trailingSpace(b.elements)
	}
	return trailingSpace(b.current.Content)
}

// previousBlock returns the last element before the current paragraph in
// its container, skipping paragraphs that will be pruned.
func (b *paragraphBuilder) previousBlock() xml.BodyElement {
	blocks := b.container()
	for i := len(blocks) - 1; i >= 0; i-- {
		el := blocks[i]
		if p, ok := el.(*xml.Paragraph); ok && (p == b.current || isEmptyParagraph(p)) {
			continue
		}
		return el
	}
	return nil
}

// finish seals the last paragraph and prunes empty paragraphs from the body.
func (b *paragraphBuilder) finish() []xml.BodyElement {
	b.seal(false)
	out := b.body[:0]
	for _, el := range b.body {
		if p, ok := el.(*xml.Paragraph); ok && isEmptyParagraph(p) {
			continue
		}
		out = append(out, el)
	}
	b.body = out
	return out
}

// isEmptyParagraph reports whether a paragraph holds no run, hyperlink,
// field or content control.
func isEmptyParagraph(p *xml.Paragraph) bool {
	return len(p.Content) == 0
}

// lastText returns the last text element of the content, unless a break or
// a non-text element follows it.
func lastText(content []xml.ParagraphContent) *xml.Text {
	for i := len(content) - 1; i >= 0; i-- {
		var runs []*xml.Run
		switch v := content[i].(type) {
		case *xml.Run:
			runs = []*xml.Run{v}
		case *xml.Hyperlink:
			runs = v.Runs
		default:
			return nil
		}
		for j := len(runs) - 1; j >= 0; j-- {
			rc := runs[j].Content
			for k := len(rc) - 1; k >= 0; k-- {
				switch t := rc[k].(type) {
				case *xml.Text:
					if t.Content != "" {
						return t
					}
				default:
					return nil
				}
			}
		}
	}
	return nil
}

func trailingSpace(content []xml.ParagraphContent) bool {
	for i := len(content) - 1; i >= 0; i-- {
		var runs []*xml.Run
		switch v := content[i].(type) {
		case *xml.Run:
			runs = []*xml.Run{v}
		case *xml.Hyperlink:
			runs = v.Runs
		default:
			return false
		}
		for j := len(runs) - 1; j >= 0; j-- {
			rc := runs[j].Content
			for k := len(rc) - 1; k >= 0; k-- {
				switch t := rc[k].(type) {
				case *xml.Text:
					if t.Content != "" {
						return strings.HasSuffix(t.Content, " ")
					}
				case *xml.Break:
					return true
				default:
					return false
				}
			}
		}
	}
	return true
}

func trimTrailingSpace(p *xml.Paragraph) {
	t := lastText(p.Content)
	if t == nil || !strings.HasSuffix(t.Content, " ") {
		return
	}
	trimmed := strings.TrimRight(t.Content, " ")
	*t = *xml.NewText(trimmed)
}
