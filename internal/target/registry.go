package target

import (
	"fmt"
	"sort"
)

type registryKey struct {
	kind Kind
	id   int
}

// Registry is the ordered set of targets a track is checked against.
// Registration order is preserved and breaks distance ties downstream.
type Registry struct {
	targets []Target
	byKey   map[registryKey]int
}

// NewRegistry returns a registry holding targets in order.
func NewRegistry(targets ...Target) (*Registry, error) {
	r := &Registry{byKey: make(map[registryKey]int)}
	for _, t := range targets {
		if err := r.Add(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add appends t. Duplicate (kind, id) pairs are rejected.
func (r *Registry) Add(t Target) error {
	k := registryKey{t.Kind(), t.ID()}
	if _, dup := r.byKey[k]; dup {
		return fmt.Errorf("%w: duplicate %s id %d", ErrInvalidDefinition, t.Kind(), t.ID())
	}
	r.byKey[k] = len(r.targets)
	r.targets = append(r.targets, t)
	return nil
}

// Len returns the number of registered targets.
func (r *Registry) Len() int { return len(r.targets) }

// At returns the target at registration index i.
func (r *Registry) At(i int) Target { return r.targets[i] }

// Lookup finds a target by kind and id.
func (r *Registry) Lookup(kind Kind, id int) (Target, bool) {
	i, ok := r.byKey[registryKey{kind, id}]
	if !ok {
		return nil, false
	}
	return r.targets[i], true
}

// IDs returns the sorted ids of every target of kind.
func (r *Registry) IDs(kind Kind) []int {
	var ids []int
	for _, t := range r.targets {
		if t.Kind() == kind {
			ids = append(ids, t.ID())
		}
	}
	sort.Ints(ids)
	return ids
}
