package htmlconv

// handler converts one tag. open receives the index of the start event and
// returns the index to continue at; it may consume the element's content
// and return past its end. close runs on the end event when open did not
// consume it. A nil open ignores the tag and processes its content; a nil
// close pops the run fragment of the tag, if any.
type handler struct {
	open  func(c *converter, i int) (int, error)
	close func(c *converter, i int)
}

// handlers is the dispatch table by tag name. It is filled in init because
// the handlers refer back to the converter's dispatch.
var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"html":  {},
		"body":  {},
		"tbody": {},
		"tfoot": {},

		"p":          {open: openParagraph, close: closeBlock},
		"div":        {open: openDiv, close: closeBlock},
		"figure":     {open: openDiv, close: closeBlock},
		"address":    {open: openParagraph, close: closeBlock},
		"h1":         {open: openHeading},
		"h2":         {open: openHeading},
		"h3":         {open: openHeading},
		"h4":         {open: openHeading},
		"h5":         {open: openHeading},
		"h6":         {open: openHeading},
		"ul":         {open: openList, close: closeList},
		"ol":         {open: openList, close: closeList},
		"li":         {open: openListItem, close: closeBlock},
		"blockquote": {open: openBlockquote, close: closeBlockquote},
		"pre":        {open: openPre, close: closePre},
		"hr":         {open: openRule},
		"dl":         {close: closeBlock},
		"dt":         {open: openDefinitionTerm, close: closeBlock},
		"dd":         {open: openDefinition, close: closeBlock},
		"figcaption": {open: openFigureCaption},

		"table":   {open: openTable, close: closeTable},
		"thead":   {open: openTableSection, close: closeTableSection},
		"caption": {open: openCaption, close: closeBlock},
		"tr":      {open: openRow, close: closeRow},
		"td":      {open: openCell, close: closeCell},
		"th":      {open: openCell, close: closeCell},

		"span":   inline(nil),
		"small":  inline(nil),
		"b":      inline(bold),
		"strong": inline(bold),
		"i":      inline(italic),
		"em":     inline(italic),
		"dfn":    inline(italic),
		"var":    inline(italic),
		"u":      inline(underline),
		"ins":    inline(underline),
		"s":      inline(strike),
		"strike": inline(strike),
		"del":    inline(strike),
		"sub":    inline(verticalAlign("subscript")),
		"sup":    inline(verticalAlign("superscript")),
		"mark":   inline(marked),
		"cite":   inline(charStyle(StyleQuoteChar)),
		"kbd":    inline(charStyle(StyleSourceCode)),
		"samp":   inline(charStyle(StyleSourceCode)),
		"tt":     inline(charStyle(StyleSourceCode)),
		"code":   {open: openCode, close: closeInline},
		"font":   {open: openFont, close: closeInline},
		"q":      {open: openInlineQuote, close: closeInlineQuote},

		"acronym": {open: openAcronym},
		"abbr":    {open: openAcronym},
		"a":       {open: openLink},
		"img":     {open: openImage},
		"br":      {open: openBreak},
		"input":   {open: openInput},
	}
}
