// Package mdwalk renders the main document of a DOCX package as Markdown.
//
// Every paragraph is classified first: ClassifyParagraph picks the block
// kind from its style and direct properties, and ClassifyRun reads the
// inline formatting of each run. Rendering then writes the matching
// Markdown syntax, escapes text that would read as syntax, and copies
// embedded pictures into the result so they can be written next to the
// Markdown file.
package mdwalk
