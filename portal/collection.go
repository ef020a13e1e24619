package portal

// collection is an insertion-ordered list of records keyed by an integer
// identity. Every write installs a fresh backing slice, so a slice handed
// out earlier never changes underneath its reader.
type collection[T any] struct {
	items []T
	id    func(*T) int
	setID func(*T, int)
}

func newCollection[T any](seed []T, id func(*T) int, setID func(*T, int)) collection[T] {
	items := make([]T, len(seed))
	copy(items, seed)
	return collection[T]{items: items, id: id, setID: setID}
}

// nextID is max+1, or 1 when the collection is empty.
func (c *collection[T]) nextID() int {
	highest := 0
	for i := range c.items {
		if id := c.id(&c.items[i]); id > highest {
			highest = id
		}
	}
	return highest + 1
}

func (c *collection[T]) snapshot() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *collection[T]) index(id int) int {
	for i := range c.items {
		if c.id(&c.items[i]) == id {
			return i
		}
	}
	return -1
}

func (c *collection[T]) get(id int) (T, bool) {
	if i := c.index(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

func (c *collection[T]) add(rec T) T {
	c.setID(&rec, c.nextID())
	next := make([]T, len(c.items), len(c.items)+1)
	copy(next, c.items)
	c.items = append(next, rec)
	return rec
}

func (c *collection[T]) update(id int, apply func(*T)) (T, bool) {
	i := c.index(id)
	if i < 0 {
		var zero T
		return zero, false
	}
	next := c.snapshot()
	apply(&next[i])
	// The identity is not patchable.
	c.setID(&next[i], id)
	c.items = next
	return next[i], true
}

func (c *collection[T]) remove(id int) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	next := make([]T, 0, len(c.items)-1)
	next = append(next, c.items[:i]...)
	c.items = append(next, c.items[i+1:]...)
	return true
}

func (c *collection[T]) replace(items []T) {
	next := make([]T, len(items))
	copy(next, items)
	c.items = next
}

func (c *collection[T]) filter(keep func(*T) bool) []T {
	out := make([]T, 0)
	for i := range c.items {
		if keep(&c.items[i]) {
			out = append(out, c.items[i])
		}
	}
	return out
}
