package results

import (
	"fmt"
)

// Cache holds known results keyed by fixture. A forked cache reads through to
// its parent and keeps its own writes in a local overlay, so the parent is
// never modified by the fork. A parent must not be written to once forked.
type Cache struct {
	parent    *Cache
	entries   map[Key]Result
	order     []Key
	iteration int
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{
		entries:   make(map[Key]Result),
		iteration: -1,
	}
}

// Fork returns a cache that sees everything in c and records into its own overlay.
func (c *Cache) Fork() *Cache {
	return &Cache{
		parent:    c,
		entries:   make(map[Key]Result),
		iteration: c.iteration,
	}
}

// SetIteration sets the trial index attached to exported rows.
func (c *Cache) SetIteration(i int) {
	c.iteration = i
}

// Iteration returns the trial index of the cache, or -1 if it was never set.
func (c *Cache) Iteration() int {
	return c.iteration
}

func (c *Cache) get(k Key) (Result, bool) {
	for cur := c; cur != nil; cur = cur.parent {
		if r, ok := cur.entries[k]; ok {
			return r, true
		}
	}
	return Result{}, false
}

// Exists reports whether a result is known for a and b at stage, in either order.
func (c *Cache) Exists(a, b string, stage Stage) bool {
	_, ok := c.get(NewKey(a, b, stage))
	return ok
}

// Lookup returns the recorded winner (a team name or Draw).
func (c *Cache) Lookup(a, b string, stage Stage) (string, error) {
	r, ok := c.get(NewKey(a, b, stage))
	if !ok {
		return "", fmt.Errorf("%w: %s vs %s (%s)", ErrNotFound, a, b, stage)
	}
	return r.Winner, nil
}

// Record stores a result, replacing any result for the same fixture.
// Invalid results are rejected with a *ValidationError and not stored.
func (c *Cache) Record(a, b, winner string, stage Stage, detail string, simulated bool) error {
	if err := Validate(a, b, winner, stage); err != nil {
		return err
	}
	if detail == "" {
		detail = DefaultDetail
	}
	k := NewKey(a, b, stage)
	if _, ok := c.entries[k]; !ok {
		c.order = append(c.order, k)
	}
	c.entries[k] = Result{
		Team1:     a,
		Team2:     b,
		Winner:    winner,
		Stage:     stage,
		Detail:    detail,
		Simulated: simulated,
		Trial:     c.iteration,
	}
	return nil
}

// Add records r as-is, keeping its team order and flags.
func (c *Cache) Add(r Result) error {
	return c.Record(r.Team1, r.Team2, r.Winner, r.Stage, r.Detail, r.Simulated)
}

// keys returns every visible key: inherited keys first, in the order their
// owners recorded them, then keys first recorded in c.
func (c *Cache) keys() []Key {
	var inherited []Key
	if c.parent != nil {
		inherited = c.parent.keys()
	}
	keys := make([]Key, 0, len(inherited)+len(c.order))
	keys = append(keys, inherited...)
	for _, k := range c.order {
		if c.parent != nil {
			if _, ok := c.parent.get(k); ok {
				continue
			}
		}
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of visible results.
func (c *Cache) Len() int {
	return len(c.keys())
}

// Export flattens the visible results into rows tagged with the cache's trial index.
func (c *Cache) Export() []Row {
	keys := c.keys()
	rows := make([]Row, 0, len(keys))
	for _, k := range keys {
		r, _ := c.get(k)
		r.Trial = c.iteration
		rows = append(rows, r)
	}
	return rows
}

// Results returns the visible results without retagging them.
func (c *Cache) Results() []Result {
	keys := c.keys()
	out := make([]Result, 0, len(keys))
	for _, k := range keys {
		r, _ := c.get(k)
		out = append(out, r)
	}
	return out
}
