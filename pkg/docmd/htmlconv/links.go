package htmlconv

import (
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/xml"
)

// topAnchor is the bookmark Word places at the start of a document.
const topAnchor = "_top"

// linkTarget is a resolved href: an external relationship or a bookmark.
type linkTarget struct {
	relID   string
	anchor  string
	tooltip string
}

// resolveLink validates an href. Fragment links become bookmarks, "www."
// hosts get an http scheme and anything that is not an absolute URL or
// uses a script scheme is rejected.
func (c *converter) resolveLink(ev *TagEvent) (*linkTarget, bool) {
	href := strings.TrimSpace(ev.Attrs.Get("href"))
	tooltip := ev.Attrs.Get("title")
	if href == "" {
		return nil, false
	}
	if anchor, ok := strings.CutPrefix(href, "#"); ok {
		if anchor == "" || (c.opts.ExcludeLinkAnchor && anchor != topAnchor) {
			return nil, false
		}
		return &linkTarget{anchor: anchor, tooltip: tooltip}, true
	}
	if strings.HasPrefix(strings.ToLower(href), "www.") {
		href = "http://" + href
	}
	u, err := url.Parse(href)
	if err != nil || !u.IsAbs() {
		return nil, false
	}
	switch strings.ToLower(u.Scheme) {
	case "javascript", "vbscript", "data":
		return nil, false
	}
	return &linkTarget{relID: c.pkg.AddHyperlink(href), tooltip: tooltip}, true
}

// openLink wraps the runs of an anchor in hyperlinks. A rejected href
// leaves its content as plain text.
func openLink(c *converter, i int) (int, error) {
	ev := &c.events[i]
	link, ok := c.resolveLink(ev)
	c.beginInline(ev.Name, runProps(ev))
	if !ok {
		if href := ev.Attrs.Get("href"); href != "" {
			c.log.Debug("link dropped", zap.String("href", href))
		}
		return i + 1, nil
	}

	outer := c.link
	c.link = link
	elements, err := c.collect(i)
	c.link = outer
	c.endInline(ev.Name)
	if err != nil {
		return 0, err
	}
	c.b.append(wrapLink(link, elements)...)
	return c.after(i), nil
}

// wrapLink groups consecutive text runs into hyperlinks. Pictures linked to
// a relationship stay outside and carry the link on their frame; pictures
// linked to an anchor get a hyperlink of their own.
func wrapLink(link *linkTarget, elements []xml.ParagraphContent) []xml.ParagraphContent {
	out := make([]xml.ParagraphContent, 0, len(elements))
	var current *xml.Hyperlink
	for _, el := range elements {
		run, ok := el.(*xml.Run)
		if !ok || run.Drawing() != nil {
			current = nil
			if ok && link.relID == "" && link.anchor != "" {
				el = &xml.Hyperlink{Anchor: link.anchor, Tooltip: link.tooltip, History: "1", Runs: []*xml.Run{run}}
			}
			out = append(out, el)
			continue
		}
		if current == nil {
			current = &xml.Hyperlink{ID: link.relID, Anchor: link.anchor, Tooltip: link.tooltip}
			if link.anchor != "" {
				current.History = "1"
			}
			out = append(out, current)
		}
		if props := run.Props(); props.Style == nil {
			props.Style = &xml.Style{Val: StyleHyperlink}
		}
		current.Runs = append(current.Runs, run)
	}
	return out
}
