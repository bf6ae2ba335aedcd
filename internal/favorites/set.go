package favorites

import (
	"encoding/json"
	"sort"
	"strings"
)

// Set is an immutable set of coin ids. The zero value is the empty set.
type Set struct {
	ids map[string]struct{}
}

// NewSet builds a set from ids, ignoring blanks and duplicates.
func NewSet(ids ...string) Set {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		m[id] = struct{}{}
	}
	return Set{ids: m}
}

// Has reports membership.
func (s Set) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s Set) Len() int {
	return len(s.ids)
}

// IDs returns the members sorted.
func (s Set) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Toggle returns a new set with id added if absent or removed if present.
func (s Set) Toggle(id string) Set {
	next := make(map[string]struct{}, len(s.ids)+1)
	for k := range s.ids {
		next[k] = struct{}{}
	}
	if _, ok := next[id]; ok {
		delete(next, id)
	} else if id != "" {
		next[id] = struct{}{}
	}
	return Set{ids: next}
}

// Union returns a new set holding the members of both.
func (s Set) Union(other Set) Set {
	return NewSet(append(s.IDs(), other.IDs()...)...)
}

func (s Set) Equal(other Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for id := range s.ids {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as a sorted JSON array of ids.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

// UnmarshalJSON decodes a JSON array of ids; duplicates collapse.
func (s *Set) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewSet(ids...)
	return nil
}
