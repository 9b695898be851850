package gqlclient

import (
	"sort"
)

// Selection maps field names to whether they are requested.
type Selection map[string]bool

// Select returns a Selection requesting each of fields.
func Select(fields ...string) Selection {
	s := make(Selection, len(fields))
	for _, f := range fields {
		s[f] = true
	}
	return s
}

// Fields returns the requested fields, declared fields first in their
// declared order, then any others sorted by name.
func (s Selection) Fields(declared []string) []string {
	var fields []string
	known := make(map[string]bool, len(declared))
	for _, name := range declared {
		known[name] = true
		if s[name] {
			fields = append(fields, name)
		}
	}

	var extra []string
	for name, include := range s {
		if include && !known[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)

	return append(fields, extra...)
}

// Args holds argument values by name.
type Args map[string]any
