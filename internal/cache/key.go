package cache

import "strings"

// Key identifies one cached entity: a kind followed by its parameters,
// slash-joined, e.g. "order/120" or "order/list/PENDING".
type Key string

func NewKey(parts ...string) Key {
	return Key(strings.Join(parts, "/"))
}

// Kind is the first key segment; it selects the staleness class.
func (k Key) Kind() string {
	s := string(k)
	if i := strings.IndexByte(s, '/'); i >= 0 {
		return s[:i]
	}
	return s
}

// HasPrefix reports whether k equals p or lives under it.
func (k Key) HasPrefix(p Key) bool {
	if k == p {
		return true
	}
	return strings.HasPrefix(string(k), string(p)+"/")
}
