package mdwalk

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/xml"
)

var glyphs = strings.NewReplacer(xml.UncheckedGlyph, "[ ]", xml.CheckedGlyph, "[X]")

// spanWriter merges neighbouring text with the same formatting so markers
// are written once per span.
type spanWriter struct {
	sb      strings.Builder
	pending strings.Builder
	intent  RunIntent
}

func (s *spanWriter) text(intent RunIntent, t string) {
	if intent != s.intent {
		s.flush()
		s.intent = intent
	}
	s.pending.WriteString(t)
}

func (s *spanWriter) raw(t string) {
	s.flush()
	s.sb.WriteString(t)
}

// flush writes the pending span. Surrounding whitespace goes outside the
// markers, which would not close otherwise.
func (s *spanWriter) flush() {
	t := s.pending.String()
	s.pending.Reset()
	if t == "" {
		return
	}
	open, close := s.intent.markers()
	core := strings.Trim(t, " \t\n")
	if open == "" || core == "" {
		s.sb.WriteString(t)
		return
	}
	if s.intent.Code && strings.Contains(core, "`") {
		open, close = "`` ", " ``"
	}
	lead := t[:len(t)-len(strings.TrimLeft(t, " \t\n"))]
	trail := t[len(lead)+len(core):]
	s.sb.WriteString(lead + open + core + close + trail)
}

func (s *spanWriter) String() string {
	s.flush()
	return s.sb.String()
}

// inline renders the content of a paragraph. When any text needed escaping
// links are written as bare targets. skipCheckbox drops the checkbox that
// marks a task item.
func (w *walker) inline(p *xml.Paragraph, skipCheckbox bool) string {
	return w.renderInline(inlineRenderer{w: w, bare: needsEscape(p), strip: skipCheckbox}, p)
}

// headerInline renders a paragraph of a header row cell. The row is already
// bold as a table header, so bold runs are written plain.
func (w *walker) headerInline(p *xml.Paragraph) string {
	return w.renderInline(inlineRenderer{w: w, bare: needsEscape(p), noBold: true}, p)
}

func (w *walker) renderInline(r inlineRenderer, p *xml.Paragraph) string {
	var sw spanWriter
	for _, c := range p.Content {
		r.content(&sw, c)
	}
	return sw.String()
}

type inlineRenderer struct {
	w      *walker
	bare   bool
	strip  bool
	noBold bool
}

func (r *inlineRenderer) content(sw *spanWriter, c xml.ParagraphContent) {
	switch v := c.(type) {
	case *xml.Run:
		r.run(sw, v)
	case *xml.Hyperlink:
		r.link(sw, r.w.hyperlinkTarget(v), v.Tooltip, v.Runs)
	case *xml.SdtRun:
		if v.Checkbox == nil {
			r.runs(sw, v.Content)
			return
		}
		if r.strip {
			r.strip = false
			return
		}
		sw.raw(checkMark(v.Checkbox.Checked))
	case *xml.SimpleField:
		if target, ok := fieldTarget(v.Instruction); ok {
			r.link(sw, target, "", v.Runs)
			return
		}
		r.runs(sw, v.Runs)
	}
}

func (r *inlineRenderer) runs(sw *spanWriter, runs []*xml.Run) {
	for _, run := range runs {
		r.run(sw, run)
	}
}

func (r *inlineRenderer) run(sw *spanWriter, run *xml.Run) {
	intent := ClassifyRun(run)
	if r.noBold {
		intent.Bold = false
	}
	for _, rc := range run.Content {
		switch v := rc.(type) {
		case *xml.Text:
			t := v.Content
			if r.strip {
				t = r.stripGlyph(t)
			}
			if !intent.Code {
				t, _ = escape(t)
				t = glyphs.Replace(t)
			}
			sw.text(intent, t)
		case *xml.Break:
			sw.text(intent, "\n")
		case *xml.TabChar:
			sw.text(intent, "\t")
		case *xml.Drawing:
			if md, ok := r.w.image(v); ok {
				sw.raw(md)
			}
		case *xml.NoteReference:
			sw.raw(r.w.noteMarker(v))
		}
	}
}

// stripGlyph removes the checkbox glyph at the start of a task item.
func (r *inlineRenderer) stripGlyph(t string) string {
	trimmed := strings.TrimLeft(t, " ")
	if trimmed == "" {
		return t
	}
	r.strip = false
	for _, g := range []string{xml.CheckedGlyph, xml.UncheckedGlyph} {
		if strings.HasPrefix(trimmed, g) {
			return strings.TrimPrefix(trimmed[len(g):], " ")
		}
	}
	return t
}

// link writes [text](target "tooltip"), or just the target in a paragraph
// with escaped text. A link without a target keeps its text.
func (r *inlineRenderer) link(sw *spanWriter, target, tooltip string, runs []*xml.Run) {
	if target == "" {
		r.runs(sw, runs)
		return
	}
	if r.bare {
		sw.raw(target)
		return
	}
	var inner spanWriter
	r.runs(&inner, runs)
	dest := target
	if strings.ContainsAny(dest, " ()") {
		dest = "<" + dest + ">"
	}
	if tooltip != "" {
		dest += " " + strconv.Quote(tooltip)
	}
	sw.raw("[" + inner.String() + "](" + dest + ")")
}

// hyperlinkTarget resolves a hyperlink by its own relationship id or anchor.
func (w *walker) hyperlinkTarget(h *xml.Hyperlink) string {
	if h.ID != "" {
		if target, ok := w.pkg.HyperlinkTarget(h.ID); ok {
			return target
		}
		w.log.Debug("hyperlink relationship missing", zap.String("id", h.ID))
	}
	if h.Anchor != "" {
		return "#" + h.Anchor
	}
	return ""
}

// fieldTarget reads the target of a HYPERLINK field instruction.
func fieldTarget(instr string) (string, bool) {
	fields := strings.Fields(instr)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "HYPERLINK") {
		return "", false
	}
	anchor := false
	for _, f := range fields[1:] {
		switch {
		case f == `\l`:
			anchor = true
		case strings.HasPrefix(f, `\`):
		default:
			target := strings.Trim(f, `"`)
			if anchor {
				return "#" + target, true
			}
			return target, true
		}
	}
	return "", false
}

// needsEscape reports whether any non-code text of p contains characters
// the escape pass would change.
func needsEscape(p *xml.Paragraph) bool {
	for _, run := range p.Runs() {
		if ClassifyRun(run).Code {
			continue
		}
		for _, rc := range run.Content {
			if t, ok := rc.(*xml.Text); ok {
				if _, changed := escape(t.Content); changed {
					return true
				}
			}
		}
	}
	return false
}

// noteMarker records a note reference and returns its Markdown label.
func (w *walker) noteMarker(ref *xml.NoteReference) string {
	n := noteRef{id: ref.ID, endnote: ref.Endnote}
	seen := false
	for _, existing := range w.notes {
		if existing == n {
			seen = true
			break
		}
	}
	if !seen {
		w.notes = append(w.notes, n)
	}
	return "[^" + n.label() + "]"
}

func (n noteRef) label() string {
	if n.endnote {
		return "e" + strconv.Itoa(n.id)
	}
	return strconv.Itoa(n.id)
}

// noteDefinitions renders the text of every referenced note.
func (w *walker) noteDefinitions() []string {
	var defs []string
	for i := 0; i < len(w.notes); i++ {
		n := w.notes[i]
		notes := w.pkg.Footnotes
		if n.endnote {
			notes = w.pkg.Endnotes
		}
		if notes == nil {
			continue
		}
		note := notes.Get(n.id)
		if note == nil {
			w.log.Warn("referenced note is missing", zap.Int("id", n.id), zap.Bool("endnote", n.endnote))
			continue
		}
		var parts []string
		for _, p := range note.Paragraphs {
			if text := strings.TrimSpace(w.inline(p, false)); text != "" {
				parts = append(parts, strings.ReplaceAll(text, "\n", " "))
			}
		}
		defs = append(defs, "[^"+n.label()+"]: "+strings.Join(parts, " "))
	}
	return defs
}
