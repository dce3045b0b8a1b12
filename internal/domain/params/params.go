package params

import (
	"net/url"
	"strings"
)

// Wire parameter names.
const (
	Query          = "query"
	SearchMode     = "searchMode"
	View           = "view"
	Highlight      = "highlight"
	ResultsPerPage = "resultsPerPage"
	PageNumber     = "pageNumber"
	Sort           = "sort"
	Facets         = "facets"
	Filters        = "filters"
	Limiters       = "limiters"
	Expander       = "expander"
	SetupOnly      = "setuponly"
	Profile        = "profile"
)

// multiValued lists keys transmitted with every value. All other keys are
// scalar and only their first value goes on the wire.
var multiValued = map[string]struct{}{
	Query:    {},
	Facets:   {},
	Filters:  {},
	Limiters: {},
	Expander: {},
}

// IsMultiValued reports whether every value of key is transmitted.
func IsMultiValued(key string) bool {
	_, ok := multiValued[key]
	return ok
}

// Set is an ordered mapping from parameter name to one or many values.
// Keys are case-sensitive. The zero value is not usable; call New.
type Set struct {
	keys   []string
	values map[string][]string
}

// New creates an empty parameter set.
func New() *Set {
	return &Set{values: make(map[string][]string)}
}

// Set replaces the values of key. Calling it with no values keeps the key
// present with an empty value list.
func (s *Set) Set(key string, values ...string) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = append([]string(nil), values...)
}

// Add appends a value to key.
func (s *Set) Add(key, value string) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = append(s.values[key], value)
}

// Get returns the values of key (nil when absent).
func (s *Set) Get(key string) []string {
	return s.values[key]
}

// First returns the first value of key.
func (s *Set) First(key string) (string, bool) {
	v := s.values[key]
	if len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// Has reports whether key is present, even with no values.
func (s *Set) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Remove deletes key.
func (s *Set) Remove(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (s *Set) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Len returns the number of keys.
func (s *Set) Len() int { return len(s.keys) }

// MergeWith overlays other onto s: every key other defines replaces the
// values s holds for it.
func (s *Set) MergeWith(other *Set) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		s.Set(k, other.values[k]...)
	}
}

// Clone returns a deep copy.
func (s *Set) Clone() *Set {
	c := New()
	c.MergeWith(s)
	return c
}

// Pairs returns the wire key/value pairs in order. Multi-valued keys yield
// one pair per value; scalar keys yield their first value only. Empty values
// are skipped.
func (s *Set) Pairs() [][2]string {
	var out [][2]string
	for _, k := range s.keys {
		vals := s.values[k]
		if !IsMultiValued(k) && len(vals) > 1 {
			vals = vals[:1]
		}
		for _, v := range vals {
			if v == "" {
				continue
			}
			out = append(out, [2]string{k, v})
		}
	}
	return out
}

// Encode renders the query string in insertion order.
func (s *Set) Encode() string {
	var b strings.Builder
	for i, p := range s.Pairs() {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p[0]))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[1]))
	}
	return b.String()
}
