package media

import "strings"

// refSet is an ordered collection with first-match removal and
// de-duplicating append. Surviving entries keep their relative order and new
// entries land at the tail in submission order, so the backing slice is
// always densely indexed.
type refSet struct {
	entries []string
}

func newRefSet(entries []string) *refSet {
	s := &refSet{entries: make([]string, 0, len(entries))}
	for _, e := range entries {
		s.add(e)
	}
	return s
}

// remove drops the first entry equal to value. Removing an absent value is a
// no-op, not an error.
func (s *refSet) remove(value string) bool {
	for i, e := range s.entries {
		if e == value {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// add appends value unless it is already present.
func (s *refSet) add(value string) bool {
	if value == "" {
		return false
	}
	for _, e := range s.entries {
		if e == value {
			return false
		}
	}
	s.entries = append(s.entries, value)
	return true
}

func (s *refSet) len() int {
	return len(s.entries)
}

func (s *refSet) list() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

// normalizeImageRef collapses any accepted image reference shape to the
// stored relative form. Absolute URLs and paths pointing at the public blob
// base become "storage/..." references; anything else passes through trimmed,
// so externally hosted URLs stay comparable as-is.
func normalizeImageRef(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	marker := "storage/"
	if idx := strings.Index(value, marker); idx >= 0 {
		return value[idx:]
	}
	return value
}
