package mdwalk

import (
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/docx"
	"github.com/benjaminschreck/go-docmd/pkg/docmd/xml"
)

// DefaultImageLinkPrefix is put in front of image file names when
// Options.ImageLinkPrefix is empty.
const DefaultImageLinkPrefix = "../images/"

const codeFence = "~~~~"

// ErrNoDocument is returned for a package without a document body.
var ErrNoDocument = errors.New("package has no document body")

// Options configures a walk.
type Options struct {
	// ImageLinkPrefix is the path written in front of image names.
	ImageLinkPrefix string
	Logger          *zap.Logger
}

// Result is the Markdown text of a document and the images it links to,
// keyed by file name.
type Result struct {
	Markdown string
	Images   map[string][]byte
}

// block is one rendered Markdown block. Code blocks hold their lines
// without the fence.
type block struct {
	kind BlockKind
	text string
}

type noteRef struct {
	id      int
	endnote bool
}

// walker holds the state of one walk.
type walker struct {
	pkg    *docx.Package
	opts   Options
	log    *zap.Logger
	images map[string][]byte
	blocks []block
	list   listState
	notes  []noteRef
	// headings counts numbered headings per level.
	headings    [9]int
	headingSeen [9]bool
}

// Walk renders the main document of pkg as Markdown. Paragraphs that carry
// properties but no style id get DefaultStyle written back.
func Walk(pkg *docx.Package, opts Options) (*Result, error) {
	if pkg == nil || pkg.Document == nil || pkg.Document.Body == nil {
		return nil, ErrNoDocument
	}
	if opts.ImageLinkPrefix == "" {
		opts.ImageLinkPrefix = DefaultImageLinkPrefix
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	w := &walker{pkg: pkg, opts: opts, log: log, images: map[string][]byte{}}

	for _, el := range pkg.Document.Body.Elements {
		switch v := el.(type) {
		case *xml.Paragraph:
			w.paragraph(v)
		case *xml.Table:
			if text := w.table(v); text != "" {
				w.emit(block{kind: Plain, text: text})
			}
		}
	}

	md := w.render()
	log.Debug("walked document",
		zap.Int("elements", len(pkg.Document.Body.Elements)),
		zap.Int("blocks", len(w.blocks)),
		zap.Int("images", len(w.images)))
	return &Result{Markdown: md, Images: w.images}, nil
}

func (w *walker) paragraph(p *xml.Paragraph) {
	if p.Properties != nil && p.Properties.Style == nil {
		p.Properties.Style = &xml.Style{Val: DefaultStyle}
	}
	intent := ClassifyParagraph(p, w.pkg.Numbering)

	switch intent.Kind {
	case Rule:
		w.emit(block{kind: Rule, text: "---"})
		return
	case CodeBlock:
		w.emit(block{kind: CodeBlock, text: codeText(p)})
		return
	}

	text := strings.TrimSpace(w.inline(p, intent.Kind == TaskItem))
	if text == "" && intent.Kind != TaskItem {
		return
	}
	switch intent.Kind {
	case Heading:
		text = strings.Repeat("#", intent.Level) + " " + w.headingNumber(p) + strings.ReplaceAll(text, "\n", " ")
	case ListItem, TaskItem:
		indent, marker := w.list.next(intent.Level, intent.Ordered)
		if intent.Kind == TaskItem {
			marker += " " + checkMark(intent.Checked)
		}
		pad := strings.Repeat(" ", indent)
		text = strings.TrimRight(pad+marker+" "+indentLines(text, pad+strings.Repeat(" ", len(marker)+1)), " ")
	case Quote, IntenseQuote:
		text = prefixLines(text, "> ")
	}
	w.emit(block{kind: intent.Kind, text: text})
}

// emit appends a block. Consecutive code paragraphs share one fence and
// any block other than a list item ends the current list.
func (w *walker) emit(b block) {
	if b.kind != ListItem && b.kind != TaskItem {
		w.list.reset()
	}
	if n := len(w.blocks); n > 0 && b.kind == CodeBlock && w.blocks[n-1].kind == CodeBlock {
		w.blocks[n-1].text += "\n" + b.text
		return
	}
	w.blocks = append(w.blocks, b)
}

// render joins the blocks. List items follow each other directly, quote
// paragraphs stay in one quote, everything else is separated by a blank
// line. Note definitions close the document.
func (w *walker) render() string {
	var sb strings.Builder
	for i, b := range w.blocks {
		if i > 0 {
			sb.WriteString(separator(w.blocks[i-1].kind, b.kind))
		}
		if b.kind == CodeBlock {
			sb.WriteString(codeFence + "\n" + b.text + "\n" + codeFence)
			continue
		}
		sb.WriteString(b.text)
	}
	if defs := w.noteDefinitions(); len(defs) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(strings.Join(defs, "\n"))
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	return sb.String()
}

func separator(prev, next BlockKind) string {
	isItem := func(k BlockKind) bool { return k == ListItem || k == TaskItem }
	switch {
	case isItem(prev) && isItem(next):
		return "\n"
	case prev == next && (next == Quote || next == IntenseQuote):
		return "\n>\n"
	}
	return "\n\n"
}

// headingNumber rebuilds the "1.2. " prefix of a numbered heading. Levels
// not seen yet start at the start value of their numbering level.
func (w *walker) headingNumber(p *xml.Paragraph) string {
	n := p.Properties.Numbering
	if n == nil || n.ID == nil {
		return ""
	}
	level := 0
	if n.Level != nil {
		level = min(max(n.Level.Val, 0), len(w.headings)-1)
	}
	for i := 0; i < level; i++ {
		if !w.headingSeen[i] {
			w.headings[i] = w.pkg.Numbering.LevelStart(n.ID.Val, i)
			w.headingSeen[i] = true
		}
	}
	if w.headingSeen[level] {
		w.headings[level]++
	} else {
		w.headings[level] = w.pkg.Numbering.LevelStart(n.ID.Val, level)
		w.headingSeen[level] = true
	}
	for i := level + 1; i < len(w.headings); i++ {
		w.headings[i] = 0
		w.headingSeen[i] = false
	}
	var sb strings.Builder
	for i := 0; i <= level; i++ {
		sb.WriteString(strconv.Itoa(w.headings[i]) + ".")
	}
	sb.WriteString(" ")
	return sb.String()
}

// codeText returns the literal text of a code paragraph.
func codeText(p *xml.Paragraph) string {
	return strings.TrimRight(p.GetText(), "\n")
}

func checkMark(checked bool) string {
	if checked {
		return "[X]"
	}
	return "[ ]"
}

func prefixLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(prefix+l, " ")
	}
	return strings.Join(lines, "\n")
}

// indentLines indents every line but the first.
func indentLines(text, indent string) string {
	return strings.ReplaceAll(text, "\n", "\n"+indent)
}

// listState tracks the open list levels so nested items line up under the
// content of their parent.
type listState struct {
	widths  []int
	counts  []int
	ordered []bool
}

func (s *listState) reset() {
	s.widths, s.counts, s.ordered = s.widths[:0], s.counts[:0], s.ordered[:0]
}

// next returns the indentation and marker of an item at level. A level
// more than one deeper than the open ones is pulled up.
func (s *listState) next(level int, ordered bool) (int, string) {
	level = min(level, len(s.widths)+1)
	i := level - 1
	if i < len(s.widths) {
		s.widths, s.counts, s.ordered = s.widths[:level], s.counts[:level], s.ordered[:level]
		if s.ordered[i] != ordered {
			s.counts[i] = 0
		}
	} else {
		s.widths = append(s.widths, 0)
		s.counts = append(s.counts, 0)
		s.ordered = append(s.ordered, ordered)
	}
	s.ordered[i] = ordered

	marker := "-"
	if ordered {
		s.counts[i]++
		marker = strconv.Itoa(s.counts[i]) + "."
	}
	s.widths[i] = len(marker) + 1
	indent := 0
	for _, w := range s.widths[:i] {
		indent += w
	}
	return indent, marker
}
