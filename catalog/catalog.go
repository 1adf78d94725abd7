package catalog

import (
	"iter"
	"strings"

	"github.com/arloliu/fameport/record"
)

// Catalog is an ordered mapping from object name to record. Names are
// case-insensitive, as they are in the store; iteration follows insertion
// order, which is the order the writer allocates objects in.
type Catalog struct {
	order   []string
	objects map[string]record.Object
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{objects: make(map[string]record.Object)}
}

func key(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Set inserts obj under its name. Replacing an existing name keeps the
// original position.
func (c *Catalog) Set(obj record.Object) {
	k := key(obj.Name())
	if _, exists := c.objects[k]; !exists {
		c.order = append(c.order, k)
	}
	c.objects[k] = obj
}

// Get returns the object stored under name.
func (c *Catalog) Get(name string) (record.Object, bool) {
	obj, ok := c.objects[key(name)]
	return obj, ok
}

// Delete removes name from the catalog and reports whether it was present.
func (c *Catalog) Delete(name string) bool {
	k := key(name)
	if _, ok := c.objects[k]; !ok {
		return false
	}
	delete(c.objects, k)

	for i, n := range c.order {
		if n == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}

	return true
}

// Len returns the number of objects.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Names returns the object names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.objects[k].Name())
	}

	return out
}

// All iterates over the objects in catalog order.
func (c *Catalog) All() iter.Seq2[string, record.Object] {
	return func(yield func(string, record.Object) bool) {
		for _, k := range c.order {
			obj := c.objects[k]
			if !yield(obj.Name(), obj) {
				return
			}
		}
	}
}
