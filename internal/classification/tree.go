// Package classification holds the classification tree read from a
// ClassificationTree XML document: a set of objects and a hierarchy of named
// classifications that reference them.
package classification

// Object is a classified item, such as an article.
type Object struct {
	ID       string
	Name     string
	Location string
}

// Classification is a named category. A classification may have several
// super classes; Children is filled from the SuperClass references of the
// other classifications, in document order.
type Classification struct {
	ID           string
	Name         string
	SuperClasses []string
	ObjectIDs    []string
	Children     []*Classification
}

// Tree is the parsed, validated classification hierarchy. It is read-only
// after Parse returns.
type Tree struct {
	Version string
	Root    *Classification
	Objects []Object

	objectIndex map[string]int
	classes     map[string]*Classification
}

// Object returns the object with the given ID.
func (t *Tree) Object(id string) (Object, bool) {
	i, ok := t.objectIndex[id]
	if !ok {
		return Object{}, false
	}
	return t.Objects[i], true
}

// Classification returns the classification with the given ID.
func (t *Tree) Classification(id string) (*Classification, bool) {
	c, ok := t.classes[id]
	return c, ok
}

// TopLevel returns the children of the root classification.
func (t *Tree) TopLevel() []*Classification {
	if t == nil || t.Root == nil {
		return nil
	}
	return t.Root.Children
}

// Members returns the IDs of the objects attached to c or to any of its
// descendants, deduplicated and in document order.
func (t *Tree) Members(c *Classification) []string {
	if c == nil {
		return nil
	}
	seen := map[string]bool{}
	visited := map[*Classification]bool{}
	var walk func(n *Classification)
	walk = func(n *Classification) {
		if visited[n] {
			return
		}
		visited[n] = true
		for _, id := range n.ObjectIDs {
			seen[id] = true
		}
		for _, ch := range n.Children {
			walk(ch)
		}
	}
	walk(c)

	out := make([]string, 0, len(seen))
	for _, o := range t.Objects {
		if seen[o.ID] {
			out = append(out, o.ID)
		}
	}
	return out
}
