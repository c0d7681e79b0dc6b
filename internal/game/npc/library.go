package npc

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrTemplateNotFound is returned by Library.Get for an unknown key.
var ErrTemplateNotFound = errors.New("monster template not found")

// Library indexes monster templates by Key. All methods are safe for
// concurrent use.
type Library struct {
	mu        sync.RWMutex
	templates map[string]*MonsterTemplate
}

// NewLibrary builds a Library from templates.
//
// Postcondition: returns an error if two templates share a key or a
// template has neither index nor name.
func NewLibrary(templates []*MonsterTemplate) (*Library, error) {
	l := &Library{templates: make(map[string]*MonsterTemplate, len(templates))}
	for _, t := range templates {
		if err := l.Add(t); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Add registers t.
func (l *Library) Add(t *MonsterTemplate) error {
	key := t.Key()
	if key == "" {
		return fmt.Errorf("monster template has neither index nor name")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, dup := l.templates[key]; dup {
		return fmt.Errorf("duplicate monster template %q", key)
	}
	l.templates[key] = t
	return nil
}

// Get returns the template registered under key.
func (l *Library) Get(key string) (*MonsterTemplate, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.templates[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, key)
	}
	return t, nil
}

// Names returns every key in sorted order.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.templates))
	for k := range l.templates {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of templates.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.templates)
}
