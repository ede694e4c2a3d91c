package resources

import (
	"errors"
	"fmt"
)

// Releaser frees one side resource.
type Releaser interface {
	Release() error
}

// ReleaseFunc adapts a function to Releaser.
type ReleaseFunc func() error

func (f ReleaseFunc) Release() error { return f() }

type entry struct {
	name string
	r    Releaser
}

// Arena tracks resources created during a scene's life so teardown can free
// all of them at once. It is not safe for concurrent use; scenes touch it
// only from the main thread.
type Arena struct {
	entries  []entry
	released bool
}

// Track registers r. Tracking into a released arena releases r immediately,
// so late arrivals cannot leak.
func (a *Arena) Track(name string, r Releaser) error {
	if a.released {
		if err := r.Release(); err != nil {
			return fmt.Errorf("resources: release %s: %w", name, err)
		}
		return nil
	}
	a.entries = append(a.entries, entry{name, r})
	return nil
}

// Len returns the number of live resources.
func (a *Arena) Len() int { return len(a.entries) }

// Names lists live resources in tracking order.
func (a *Arena) Names() []string {
	out := make([]string, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.name
	}
	return out
}

// ReleaseAll frees every resource in reverse tracking order and returns the
// joined errors. Further calls are no-ops.
func (a *Arena) ReleaseAll() error {
	if a.released {
		return nil
	}
	a.released = true
	var errs []error
	for i := len(a.entries) - 1; i >= 0; i-- {
		e := a.entries[i]
		if err := e.r.Release(); err != nil {
			errs = append(errs, fmt.Errorf("resources: release %s: %w", e.name, err))
		}
	}
	a.entries = nil
	return errors.Join(errs...)
}
