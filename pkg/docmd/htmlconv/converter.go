package htmlconv

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/docx"
	"github.com/benjaminschreck/go-docmd/pkg/docmd/imaging"
	"github.com/benjaminschreck/go-docmd/pkg/docmd/xml"
)

// Where acronym titles are written.
const (
	AcronymFootnote = "footnote"
	AcronymEndnote  = "endnote"
)

// Where table captions are placed.
const (
	CaptionAbove = "above"
	CaptionBelow = "below"
)

// Options configures a conversion.
type Options struct {
	// AcronymPosition is AcronymFootnote (default) or AcronymEndnote.
	AcronymPosition string
	// ExcludeLinkAnchor drops links to fragment anchors, except "#_top".
	ExcludeLinkAnchor bool
	// TableCaptionPosition is CaptionAbove (default) or CaptionBelow.
	TableCaptionPosition string
	// Images resolves <img> sources. Data URIs are decoded without it.
	Images imaging.Source
	Logger *zap.Logger
}

// converter holds the state of one conversion. It is not safe for
// concurrent use; every document gets its own.
type converter struct {
	opts      Options
	log       *zap.Logger
	pkg       *docx.Package
	styles    *Registry
	numbering *NumberingState
	events    []TagEvent
	b         *paragraphBuilder

	runs  runStack
	paras paraStack
	cells cellStack

	// consumed marks events already rendered by an enclosing handler.
	consumed map[int]bool
	// link is the hyperlink pictures inside an anchor point at.
	link *linkTarget

	figures  int
	captions int
	drawings int
}

// Convert parses html and appends its content to the body of pkg. New
// numbering definitions, notes, images and hyperlink relationships are
// added to the package. Unsupported image extensions are the only error.
func Convert(pkg *docx.Package, html string, opts Options) error {
	events, err := Tokenize(html)
	if err != nil {
		return err
	}
	return ConvertEvents(pkg, events, opts)
}

// ConvertEvents converts an already tokenized stream.
func ConvertEvents(pkg *docx.Package, events []TagEvent, opts Options) error {
	c := newConverter(pkg, events, opts)
	if err := c.process(0, len(events)); err != nil {
		return err
	}
	body := c.b.finish()
	pkg.Document.Body.Elements = append(pkg.Document.Body.Elements, body...)
	c.log.Debug("converted html",
		zap.Int("events", len(events)),
		zap.Int("blocks", len(body)),
		zap.Int("images", c.drawings))
	return nil
}

func newConverter(pkg *docx.Package, events []TagEvent, opts Options) *converter {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.AcronymPosition == "" {
		opts.AcronymPosition = AcronymFootnote
	}
	if opts.TableCaptionPosition == "" {
		opts.TableCaptionPosition = CaptionAbove
	}
	c := &converter{
		opts:      opts,
		log:       log,
		pkg:       pkg,
		styles:    NewRegistry(pkg.Styles),
		numbering: NewNumberingState(pkg.EnsureNumbering),
		events:    events,
		b:         newParagraphBuilder(),
		consumed:  make(map[int]bool),
		drawings:  countDrawings(pkg.Document.Body.Elements),
	}
	c.b.onSeal = c.applyParagraphStack
	return c
}

// process dispatches the events in [from, to).
func (c *converter) process(from, to int) error {
	for i := from; i < to; {
		next, err := c.dispatch(i)
		if err != nil {
			return err
		}
		i = next
	}
	return nil
}

// processChildren dispatches the content of the start event at i.
func (c *converter) processChildren(i int) error {
	ev := &c.events[i]
	if ev.SelfClosing || ev.Match <= i {
		return nil
	}
	return c.process(i+1, ev.Match)
}

// collect processes the content of the start event at i into a fresh
// buffer and returns it. Content buffered before is moved into the current
// paragraph first so that order is kept.
func (c *converter) collect(i int) ([]xml.ParagraphContent, error) {
	c.b.flush()
	if err := c.processChildren(i); err != nil {
		return nil, err
	}
	return c.b.take(), nil
}

// after returns the index following the element that starts at i.
func (c *converter) after(i int) int {
	ev := &c.events[i]
	if ev.SelfClosing || ev.Match <= i {
		return i + 1
	}
	return ev.Match + 1
}

func (c *converter) dispatch(i int) (int, error) {
	ev := &c.events[i]
	if c.consumed[i] {
		return c.after(i), nil
	}
	switch ev.Kind {
	case Text:
		c.text(ev)
		return i + 1, nil
	case EndTag:
		if h, ok := handlers[ev.Name]; ok && h.close != nil {
			h.close(c, i)
		} else {
			c.endInline(ev.Name)
		}
		return i + 1, nil
	}
	h, ok := handlers[ev.Name]
	if !ok {
		c.log.Debug("unknown tag, processing content", zap.String("tag", ev.Name))
		c.beginInline(ev.Name, nil)
		if ev.SelfClosing {
			c.endInline(ev.Name)
		}
		return i + 1, nil
	}
	if h.open == nil {
		return i + 1, nil
	}
	next, err := h.open(c, i)
	if err != nil {
		return 0, fmt.Errorf("<%s>: %w", ev.Name, err)
	}
	if next <= i {
		next = i + 1
	}
	return next, nil
}

// text appends a text run styled by the active run fragments.
func (c *converter) text(ev *TagEvent) {
	if ev.Preformatted {
		c.preformatted(ev.Text)
		return
	}
	s := ev.Text
	if c.b.trailingSpace() {
		s = strings.TrimLeft(s, " ")
	}
	if s == "" {
		return
	}
	run := c.newRun()
	run.Append(xml.NewText(s))
	c.b.append(run)
}

// preformatted keeps whitespace and turns newlines into breaks.
func (c *converter) preformatted(s string) {
	if s == "" {
		return
	}
	run := c.newRun()
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for n, line := range lines {
		if n > 0 {
			run.Append(&xml.Break{})
		}
		if line == "" {
			continue
		}
		for k, part := range strings.Split(line, "\t") {
			if k > 0 {
				run.Append(&xml.TabChar{})
			}
			if part != "" {
				run.Append(xml.NewText(part))
			}
		}
	}
	c.b.append(run)
}

// newRun returns an empty run carrying the active run fragments.
func (c *converter) newRun() *xml.Run {
	run := &xml.Run{}
	if c.runs.Len() > 0 {
		props := &xml.RunProperties{}
		c.runs.Apply(props)
		if !props.IsEmpty() {
			run.Properties = props
		}
	}
	return run
}

// applyParagraphStack fills a completed paragraph from the active
// paragraph fragments.
func (c *converter) applyParagraphStack(p *xml.Paragraph) {
	if c.paras.Len() == 0 {
		return
	}
	c.paras.Apply(p.Props())
	if p.Properties.IsEmpty() {
		p.Properties = nil
	}
}

// beginInline pushes an empty fragment so that nested tags of the same
// name pop their own entry.
func (c *converter) beginInline(tag string, props *xml.RunProperties) {
	c.runs.BeginTag(tag, props)
}

func (c *converter) endInline(tag string) {
	c.runs.EndTag(tag)
}

func countDrawings(blocks []xml.BodyElement) int {
	n := 0
	for _, el := range blocks {
		switch v := el.(type) {
		case *xml.Paragraph:
			for _, r := range v.Runs() {
				if r.Drawing() != nil {
					n++
				}
			}
		case *xml.Table:
			for _, row := range v.Rows {
				for _, cell := range row.Cells {
					n += countDrawings(cell.Content)
				}
			}
		}
	}
	return n
}
