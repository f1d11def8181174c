package site

import "sync"

// Script is an external script tag.
type Script struct {
	Src   string
	Defer bool
	Async bool
}

// Scripts is the set of script tags a page needs. Requiring the same source
// twice keeps a single tag.
type Scripts struct {
	mu   sync.Mutex
	list []Script
}

// Require adds s unless a script with the same source is already present.
// It reports whether the tag was added.
func (sc *Scripts) Require(s Script) bool {
	if s.Src == "" {
		return false
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	for _, existing := range sc.list {
		if existing.Src == s.Src {
			return false
		}
	}
	sc.list = append(sc.list, s)
	return true
}

// List returns the scripts in the order they were first required.
func (sc *Scripts) List() []Script {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	out := make([]Script, len(sc.list))
	copy(out, sc.list)
	return out
}
