package htmlconv

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/xml"
)

// summarize renders events as "start:p", "text:Hello" and "end:p".
func summarize(events []TagEvent) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		switch ev.Kind {
		case StartTag:
			out = append(out, "start:"+ev.Name)
		case EndTag:
			out = append(out, "end:"+ev.Name)
		case Text:
			out = append(out, fmt.Sprintf("text:%q", ev.Text))
		}
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "inline formatting",
			input: "<p>Hello  <b>world</b></p>",
			want:  []string{"start:p", `text:"Hello "`, "start:b", `text:"world"`, "end:b", "end:p"},
		},
		{
			name:  "whitespace between blocks is dropped",
			input: "<ul>\n  <li>a</li>\n  <li>b</li>\n</ul>",
			want:  []string{"start:ul", "start:li", `text:"a"`, "end:li", "start:li", `text:"b"`, "end:li", "end:ul"},
		},
		{
			name:  "void elements have no end",
			input: "<p>a<br>b</p>",
			want:  []string{"start:p", `text:"a"`, "start:br", `text:"b"`, "end:p"},
		},
		{
			name:  "unclosed tags are repaired",
			input: "<p><i>open",
			want:  []string{"start:p", "start:i", `text:"open"`, "end:i", "end:p"},
		},
		{
			name:  "head and script are skipped",
			input: "<html><head><title>t</title></head><body><script>x()</script><p>x</p></body></html>",
			want:  []string{"start:p", `text:"x"`, "end:p"},
		},
		{
			name:  "pre keeps whitespace",
			input: "<pre>a\n  b\n</pre>",
			want:  []string{"start:pre", `text:"a\n  b"`, "end:pre"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, summarize(events)); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestTokenizeStructure(t *testing.T) {
	events, err := Tokenize(`<div class="note"><p style="color: red">x</p><img src="a.png"></div>`)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 6 {
		t.Fatalf("got %d events, want 6: %v", len(events), summarize(events))
	}
	div, p, img := events[0], events[1], events[4]
	if div.Match != 5 || events[5].Match != 0 {
		t.Errorf("div match = %d/%d, want 5/0", div.Match, events[5].Match)
	}
	if div.NextTag != "p" || p.NextTag != "img" {
		t.Errorf("next tags = %q, %q", div.NextTag, p.NextTag)
	}
	if p.Parent != "div" {
		t.Errorf("p parent = %q, want div", p.Parent)
	}
	if got := p.Style.Get("color"); got != "red" {
		t.Errorf("p color = %q, want red", got)
	}
	if got := div.Attrs.GetAsClass(); !cmp.Equal(got, []string{"note"}) {
		t.Errorf("div classes = %v", got)
	}
	if !img.SelfClosing || img.Match != 4 {
		t.Errorf("img SelfClosing = %v, Match = %d", img.SelfClosing, img.Match)
	}
}

func TestStyleTagStack(t *testing.T) {
	var s runStack
	s.BeginTag("b", &xml.RunProperties{Bold: &xml.OnOff{}})
	s.BeginTag("i", &xml.RunProperties{Italic: &xml.OnOff{}})
	s.BeginTag("b", &xml.RunProperties{Underline: &xml.Style{Val: "single"}})
	s.BeginTag("span", nil)

	if !s.EndTag("b") {
		t.Fatal("EndTag(b) = false")
	}
	if s.EndTag("u") {
		t.Error("EndTag(u) = true for a tag that was never pushed")
	}
	if s.Len() != 3 || !s.Has("b") || !s.Has("span") {
		t.Fatalf("Len = %d", s.Len())
	}

	got := &xml.RunProperties{Italic: &xml.OnOff{Val: "0"}}
	s.Apply(got)
	want := &xml.RunProperties{Bold: &xml.OnOff{}, Italic: &xml.OnOff{Val: "0"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Apply mismatch (-want +got):\n%s", diff)
	}
}
