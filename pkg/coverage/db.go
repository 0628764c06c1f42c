package coverage

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Registry is the process-scoped coverage database: a trie of named items keyed
// by dotted path, with intermediate container nodes materialized on first
// registration below them.
type Registry struct {
	items map[string]Item
	roots []string
	log   *logrus.Entry
}

func newDB() *Registry {
	return &Registry{
		items: make(map[string]Item),
		log:   logrus.WithField("component", "coverage.DB"),
	}
}

var singleton *Registry

// DB returns the process-scoped singleton, creating it on first access.
func DB() *Registry {
	if singleton == nil {
		singleton = newDB()
	}
	return singleton
}

// ResetDB discards the singleton, for test isolation between cases that
// each want a clean coverage registry.
func ResetDB() {
	singleton = newDB()
}

// Add registers leaf under its own Name(), creating any missing container
// ancestors. Returns ErrDuplicateName if the leaf's name is already taken.
func (d *Registry) Add(leaf Item) error {
	name := leaf.Name()
	if _, exists := d.items[name]; exists {
		return errors.Wrapf(ErrDuplicateName, "%s", name)
	}

	parts := strings.Split(name, ".")
	var parent *Container
	prefix := ""
	for i := 0; i < len(parts)-1; i++ {
		if prefix == "" {
			prefix = parts[i]
		} else {
			prefix = prefix + "." + parts[i]
		}
		existing, ok := d.items[prefix]
		if !ok {
			c := newContainer(prefix)
			d.items[prefix] = c
			if parent == nil {
				d.roots = append(d.roots, prefix)
			} else {
				parent.addChild(c)
			}
			parent = c
			continue
		}
		container, ok := existing.(*Container)
		if !ok {
			return errors.Errorf("coverage: %s is already a leaf, cannot extend as a container", prefix)
		}
		parent = container
	}

	d.items[name] = leaf
	if parent == nil {
		d.roots = append(d.roots, name)
	} else {
		parent.addChild(leaf)
	}
	d.log.WithField("name", name).Debug("coverage item registered")
	return nil
}

// Get looks up an item (leaf or container) by its full dotted name.
func (d *Registry) Get(name string) (Item, error) {
	it, ok := d.items[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownName, "%s", name)
	}
	return it, nil
}

// Roots returns the top-level item names, sorted.
func (d *Registry) Roots() []string {
	out := append([]string(nil), d.roots...)
	sort.Strings(out)
	return out
}

// Enumerate returns every registered item (containers and leaves),
// sorted by name.
func (d *Registry) Enumerate() []Item {
	out := make([]Item, 0, len(d.items))
	for _, it := range d.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
