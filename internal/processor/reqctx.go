package processor

import "sectionpaths/internal/entity"

// Group names of the deletion context. Predelete snapshots land in the
// input group; DeleteTermAlias moves them to output and runs the cascade
// once input drains.
const (
	GroupInput  = "input"
	GroupOutput = "output"
)

// PendingDeletion is the snapshot of a term captured at predelete time,
// before the store forgets it.
type PendingDeletion struct {
	Term     *entity.Term
	OldAlias string
}

// RequestContext is an in-memory key-value store scoped to one deletion
// cascade. It coalesces the per-term deletion events of a subtree so the
// cascade runs exactly once, when the last pending input transitions to
// output. Never persisted, never shared across cascades.
type RequestContext struct {
	groups map[string]*ctxGroup
}

type ctxGroup struct {
	order []int64
	items map[int64]PendingDeletion
}

// NewRequestContext creates an empty context.
func NewRequestContext() *RequestContext {
	return &RequestContext{groups: make(map[string]*ctxGroup)}
}

func (c *RequestContext) group(name string) *ctxGroup {
	g, ok := c.groups[name]
	if !ok {
		g = &ctxGroup{items: make(map[int64]PendingDeletion)}
		c.groups[name] = g
	}
	return g
}

// Set stores a value in a group under a term id.
func (c *RequestContext) Set(group string, id int64, value PendingDeletion) {
	g := c.group(group)
	if _, exists := g.items[id]; !exists {
		g.order = append(g.order, id)
	}
	g.items[id] = value
}

// Get returns the stored value for a term id.
func (c *RequestContext) Get(group string, id int64) (PendingDeletion, bool) {
	g, ok := c.groups[group]
	if !ok {
		return PendingDeletion{}, false
	}
	v, ok := g.items[id]
	return v, ok
}

// Entries returns a group's values in insertion order.
func (c *RequestContext) Entries(group string) []PendingDeletion {
	g, ok := c.groups[group]
	if !ok {
		return nil
	}
	out := make([]PendingDeletion, 0, len(g.order))
	for _, id := range g.order {
		if v, ok := g.items[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Delete removes a stored value.
func (c *RequestContext) Delete(group string, id int64) {
	if g, ok := c.groups[group]; ok {
		if _, exists := g.items[id]; exists {
			delete(g.items, id)
			for i, oid := range g.order {
				if oid == id {
					g.order = append(g.order[:i], g.order[i+1:]...)
					break
				}
			}
		}
	}
}

// Has reports whether a value exists.
func (c *RequestContext) Has(group string, id int64) bool {
	g, ok := c.groups[group]
	if !ok {
		return false
	}
	_, ok = g.items[id]
	return ok
}

// Transition moves an item from one group to another. It reports false
// when the item was not in the source group; a given id transitions at
// most once.
func (c *RequestContext) Transition(from, to string, id int64) bool {
	v, ok := c.Get(from, id)
	if !ok {
		return false
	}
	c.Delete(from, id)
	c.Set(to, id, v)
	return true
}

// CountInGroup returns the number of items in a group.
func (c *RequestContext) CountInGroup(group string) int {
	g, ok := c.groups[group]
	if !ok {
		return 0
	}
	return len(g.items)
}

// IsLastInGroup reports whether the group has drained, meaning the
// just-removed entry was the last pending one.
func (c *RequestContext) IsLastInGroup(group string) bool {
	return c.CountInGroup(group) == 0
}

// ClearGroup removes all data from a group.
func (c *RequestContext) ClearGroup(group string) {
	delete(c.groups, group)
}
