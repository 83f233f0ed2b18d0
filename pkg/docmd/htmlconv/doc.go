// Package htmlconv converts HTML into the body of a DOCX package.
//
// The input is parsed with golang.org/x/net/html and flattened into a
// balanced stream of TagEvents. A converter walks the stream and looks each
// tag up in a dispatch table. Formatting tags push property fragments on
// three stacks (run, paragraph and cell properties) that are popped by the
// matching end tag; text runs and completed paragraphs are filled from the
// active fragments, innermost first.
//
// Block output goes through a paragraph builder that owns the current
// paragraph and the inline elements collected since the last boundary.
// Tables keep their own context with row span bookkeeping so that vertically
// merged cells get placeholder cells in the rows they cover.
//
// All state belongs to one conversion, so concurrent conversions into
// different packages are safe.
package htmlconv
