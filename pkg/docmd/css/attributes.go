package css

import (
	"strconv"
	"strings"
)

// Attributes holds the attributes of an HTML element keyed by lower-cased
// name.
type Attributes map[string]string

// Get returns an attribute value or "".
func (a Attributes) Get(name string) string {
	return a[name]
}

// Has reports whether the attribute is present, even when empty.
func (a Attributes) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// GetAsInt parses an integer attribute. A trailing "px" is tolerated.
func (a Attributes) GetAsInt(name string) (int, bool) {
	v := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(a[name])), "px")
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// GetAsUnit parses a length attribute such as width="50%".
func (a Attributes) GetAsUnit(name string) Unit {
	return ParseUnit(a[name])
}

// GetAsClass splits the class attribute into its names.
func (a Attributes) GetAsClass() []string {
	return strings.Fields(a["class"])
}
