package htmlconv

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/css"
)

// Kind tells start tags, end tags and text apart.
type Kind int

const (
	StartTag Kind = iota
	EndTag
	Text
)

func (k Kind) String() string {
	switch k {
	case StartTag:
		return "start"
	case EndTag:
		return "end"
	case Text:
		return "text"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// TagEvent is one token of the balanced HTML stream.
type TagEvent struct {
	Kind  Kind
	Name  string
	Attrs css.Attributes
	Style css.Declarations
	// SelfClosing marks void elements, which have no end event.
	SelfClosing bool
	// NextTag is the name of the first start tag after this one.
	NextTag string
	// Parent is the name of the enclosing element.
	Parent string
	// Match is the index of the paired start or end event. Void elements
	// point at themselves.
	Match int
	Text  string
	// Preformatted text keeps its whitespace and newlines.
	Preformatted bool
}

// IsClosing reports whether the event is an end tag.
func (e *TagEvent) IsClosing() bool { return e.Kind == EndTag }

var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

var skippedElements = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
	atom.Title:    true,
	atom.Noscript: true,
}

// blockContainers never hold meaningful whitespace between their children.
var blockContainers = map[string]bool{
	"body": true, "html": true, "ul": true, "ol": true, "dl": true,
	"table": true, "thead": true, "tbody": true, "tfoot": true, "tr": true,
	"blockquote": true, "div": true, "li": true, "figure": true,
}

// Tokenize parses an HTML document or fragment and flattens the body into a
// balanced event stream. The parser repairs unclosed and misnested tags, so
// every start event has a matching end event unless it is a void element.
func Tokenize(input string) ([]TagEvent, error) {
	doc, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	body := findElement(doc, atom.Body)
	if body == nil {
		body = doc
	}
	t := &tokenizer{}
	t.walk(body)
	t.linkNextTags()
	return t.events, nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

type tokenizer struct {
	events []TagEvent
	pre    int
}

func (t *tokenizer) walk(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			t.text(c.Data, n.Data)
		case html.ElementNode:
			if skippedElements[c.DataAtom] {
				continue
			}
			t.element(c, n.Data)
		}
	}
}

func (t *tokenizer) element(n *html.Node, parent string) {
	attrs := make(css.Attributes, len(n.Attr))
	for _, a := range n.Attr {
		if a.Namespace == "" {
			attrs[strings.ToLower(a.Key)] = a.Val
		}
	}
	start := len(t.events)
	t.events = append(t.events, TagEvent{
		Kind:   StartTag,
		Name:   n.Data,
		Attrs:  attrs,
		Style:  css.ParseDeclarations(attrs["style"]),
		Parent: parent,
		Match:  start,
	})
	if voidElements[n.DataAtom] {
		t.events[start].SelfClosing = true
		return
	}

	isPre := n.DataAtom == atom.Pre
	if isPre {
		t.pre++
	}
	t.walk(n)
	if isPre {
		t.pre--
		t.trimPreTail(start)
	}

	end := len(t.events)
	t.events = append(t.events, TagEvent{Kind: EndTag, Name: n.Data, Parent: parent, Match: start})
	t.events[start].Match = end
}

func (t *tokenizer) text(s, parent string) {
	if t.pre > 0 {
		t.events = append(t.events, TagEvent{Kind: Text, Text: s, Parent: parent, Preformatted: true})
		return
	}
	s = collapseWhitespace(s)
	if s == "" || (s == " " && blockContainers[parent]) {
		return
	}
	t.events = append(t.events, TagEvent{Kind: Text, Text: s, Parent: parent})
}

// trimPreTail drops the newline that ends the last line of a pre block.
func (t *tokenizer) trimPreTail(start int) {
	for i := len(t.events) - 1; i > start; i-- {
		if t.events[i].Kind != Text {
			continue
		}
		t.events[i].Text = strings.TrimSuffix(t.events[i].Text, "\n")
		return
	}
}

func (t *tokenizer) linkNextTags() {
	next := ""
	for i := len(t.events) - 1; i >= 0; i-- {
		if t.events[i].Kind != StartTag {
			continue
		}
		t.events[i].NextTag = next
		next = t.events[i].Name
	}
}

func collapseWhitespace(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			space = true
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.WriteRune(r)
	}
	if space {
		sb.WriteByte(' ')
	}
	return sb.String()
}
