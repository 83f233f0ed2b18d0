package docmd

import (
	"bytes"
	"fmt"
	stdhtml "html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// newMarkdown returns the Markdown renderer used ahead of the HTML stage:
// GitHub flavoured Markdown with footnotes and definition lists. Raw HTML
// passes through, so a document may mix Markdown and tags.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(footnoteRenderer{}, 100)),
		),
	)
}

// renderMarkdown converts Markdown source to an HTML fragment.
func renderMarkdown(md goldmark.Markdown, source []byte) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// footnoteRenderer writes a footnote reference as an empty abbr whose title
// is the note text, which the HTML stage turns into a Word note. The
// footnote list itself is dropped.
type footnoteRenderer struct{}

func (r footnoteRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(extast.KindFootnoteLink, r.renderLink)
	reg.Register(extast.KindFootnoteList, r.skip)
}

func (r footnoteRenderer) renderLink(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	link := n.(*extast.FootnoteLink)
	text := footnoteText(n.OwnerDocument(), link.Index, source)
	if text == "" {
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<abbr title="` + stdhtml.EscapeString(text) + `"></abbr>`)
	return ast.WalkContinue, nil
}

func (r footnoteRenderer) skip(util.BufWriter, []byte, ast.Node, bool) (ast.WalkStatus, error) {
	return ast.WalkSkipChildren, nil
}

// footnoteText returns the plain text of the footnote with the given index.
func footnoteText(doc ast.Node, index int, source []byte) string {
	if doc == nil {
		return ""
	}
	var note ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if fn, ok := n.(*extast.Footnote); ok && entering && fn.Index == index {
			note = fn
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if note == nil {
		return ""
	}
	var sb strings.Builder
	_ = ast.Walk(note, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *extast.FootnoteBacklink:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			sb.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
