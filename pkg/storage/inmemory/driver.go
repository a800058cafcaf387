// Package inmemory is a mood.Store kept in process memory.
package inmemory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/papercomputeco/vertexprobe/pkg/mood"
)

// Driver is an in-memory mood.Store. It is safe for concurrent use.
type Driver struct {
	mu      sync.RWMutex
	entries map[string]mood.Entry
}

var _ mood.Store = (*Driver)(nil)

// NewDriver creates an empty Driver.
func NewDriver() *Driver {
	return &Driver{entries: make(map[string]mood.Entry)}
}

func (d *Driver) Put(_ context.Context, entry *mood.Entry) error {
	if entry == nil {
		return errors.New("cannot store nil entry")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.entries[entry.ID]; ok {
		return fmt.Errorf("mood entry %s already exists", entry.ID)
	}
	d.entries[entry.ID] = *entry
	return nil
}

func (d *Driver) Get(_ context.Context, id string) (*mood.Entry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	e, ok := d.entries[id]
	if !ok {
		return nil, mood.ErrNotFound{ID: id}
	}
	return &e, nil
}

func (d *Driver) List(_ context.Context, collection string) ([]*mood.Entry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*mood.Entry, 0, len(d.entries))
	for _, e := range d.entries {
		if e.Collection != collection {
			continue
		}
		e := e
		out = append(out, &e)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (d *Driver) Close() error {
	return nil
}
