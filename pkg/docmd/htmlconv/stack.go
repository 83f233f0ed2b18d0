package htmlconv

import "github.com/benjaminschreck/go-docmd/pkg/docmd/xml"

// StyleTagStack holds the property fragments pushed by open tags. A fragment
// stays active until the end tag of the element that pushed it.
type StyleTagStack[T interface{ FillFrom(T) }] struct {
	entries []tagEntry[T]
}

type tagEntry[T any] struct {
	tag   string
	props T
}

// Property stacks for the three kinds of formatting.
type (
	runStack  = StyleTagStack[*xml.RunProperties]
	paraStack = StyleTagStack[*xml.ParagraphProperties]
	cellStack = StyleTagStack[*xml.TableCellProperties]
)

// BeginTag pushes a fragment for tag. A nil fragment still occupies a slot
// so that the matching EndTag pops the right entry.
func (s *StyleTagStack[T]) BeginTag(tag string, props T) {
	s.entries = append(s.entries, tagEntry[T]{tag: tag, props: props})
}

// EndTag removes the innermost fragment pushed by tag and reports whether
// there was one.
func (s *StyleTagStack[T]) EndTag(tag string) bool {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].tag == tag {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Apply fills the properties dst does not set yet, innermost fragment
// first, so explicit properties and inner tags win.
func (s *StyleTagStack[T]) Apply(dst T) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		dst.FillFrom(s.entries[i].props)
	}
}

// Len returns the number of active fragments.
func (s *StyleTagStack[T]) Len() int {
	return len(s.entries)
}

// Has reports whether tag has an active fragment.
func (s *StyleTagStack[T]) Has(tag string) bool {
	for _, e := range s.entries {
		if e.tag == tag {
			return true
		}
	}
	return false
}
