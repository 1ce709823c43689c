package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxConditions is the maximum number of filter conditions.
const MaxConditions = 32

var keyRegex = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.-]*$`)

// Filter is a flat mapping of metadata field paths to literal match
// values, ANDed with every tier predicate. Keys may carry a "metadata."
// prefix (the original caller convention), which is stripped on
// construction; the reserved "__" field namespace is not addressable.
type Filter struct {
	fields map[string]string
}

// New validates and normalizes a filter.
func New(fields map[string]string) (Filter, error) {
	if len(fields) == 0 {
		return Filter{}, nil
	}
	if len(fields) > MaxConditions {
		return Filter{}, fmt.Errorf("too many filter conditions (max %d)", MaxConditions)
	}

	normalized := make(map[string]string, len(fields))
	for k, v := range fields {
		key := strings.TrimPrefix(k, "metadata.")
		if key == "" || !keyRegex.MatchString(key) {
			return Filter{}, fmt.Errorf("invalid filter field %q", k)
		}
		if strings.HasPrefix(key, "__") {
			return Filter{}, fmt.Errorf("filter field %q is reserved", k)
		}
		normalized[key] = v
	}
	return Filter{fields: normalized}, nil
}

// Fields returns the normalized field→value conditions.
func (f Filter) Fields() map[string]string { return f.fields }

// IsEmpty reports whether the filter has no conditions.
func (f Filter) IsEmpty() bool { return len(f.fields) == 0 }

// Matches reports whether the given metadata satisfies every condition.
func (f Filter) Matches(metadata map[string]string) bool {
	for k, v := range f.fields {
		if metadata[k] != v {
			return false
		}
	}
	return true
}
