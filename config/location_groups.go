package config

import (
	"errors"
	"sync"
)

// ErrLocationGroupNotFound is returned when deleting an unknown group
var ErrLocationGroupNotFound = errors.New("location group not found")

// LocationGroups is the in-memory, file-backed set of location groups.
type LocationGroups struct {
	mu     sync.RWMutex
	path   string
	groups []LocationGroup
	// normalized group name -> normalized member cities
	index map[string][]string
}

// NewLocationGroups builds an unsaved store, mostly useful in tests.
func NewLocationGroups(groups ...LocationGroup) *LocationGroups {
	s := &LocationGroups{}
	s.setAll(groups)
	return s
}

func (s *LocationGroups) setAll(groups []LocationGroup) {
	s.groups = make([]LocationGroup, 0, len(groups))
	s.groups = append(s.groups, groups...)
	s.reindex()
}

func (s *LocationGroups) reindex() {
	s.index = make(map[string][]string, len(s.groups))
	for _, group := range s.groups {
		cities := make([]string, 0, len(group.Cities))
		for _, city := range group.Cities {
			if normalized := NormalizeLocation(city); normalized != "" {
				cities = append(cities, normalized)
			}
		}
		s.index[NormalizeLocation(group.Name)] = cities
	}
}

// List returns a copy of all configured groups
func (s *LocationGroups) List() []LocationGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]LocationGroup, len(s.groups))
	for i, group := range s.groups {
		groups[i] = LocationGroup{
			Name:   group.Name,
			Cities: append([]string(nil), group.Cities...),
		}
	}
	return groups
}

// Get returns the group with the given name, compared after normalization
func (s *LocationGroups) Get(name string) *LocationGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := NormalizeLocation(name)
	for _, group := range s.groups {
		if NormalizeLocation(group.Name) == key {
			return &LocationGroup{Name: group.Name, Cities: append([]string(nil), group.Cities...)}
		}
	}
	return nil
}

// Upsert updates or adds a group and persists the result
func (s *LocationGroups) Upsert(group LocationGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := NormalizeLocation(group.Name)
	found := false
	for i, existing := range s.groups {
		if NormalizeLocation(existing.Name) == key {
			s.groups[i] = group
			found = true
			break
		}
	}
	if !found {
		s.groups = append(s.groups, group)
	}

	s.reindex()
	return s.save()
}

// Delete removes a group and persists the result
func (s *LocationGroups) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := NormalizeLocation(name)
	for i, group := range s.groups {
		if NormalizeLocation(group.Name) == key {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)
			s.reindex()
			return s.save()
		}
	}

	return ErrLocationGroupNotFound
}

// Expand returns the normalized member cities when location names a group,
// or nil when it does not.
func (s *LocationGroups) Expand(location string) []string {
	if s == nil {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	cities, ok := s.index[NormalizeLocation(location)]
	if !ok {
		return nil
	}
	return append([]string(nil), cities...)
}
