package classification

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"
)

var (
	// ErrMalformed reports input that is not a well-formed ClassificationTree document.
	ErrMalformed = errors.New("malformed classification document")
	// ErrInvalidTree reports a well-formed document with inconsistent references.
	ErrInvalidTree = errors.New("invalid classification tree")
)

const (
	documentTag = "ClassificationTree"
	rootName    = "Root"
)

// ParseFile opens path and parses it. The file is closed before returning.
func ParseFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Parse reads a ClassificationTree document and validates its references.
func Parse(r io.Reader) (*Tree, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := checkTopLevel(doc); err != nil {
		return nil, err
	}
	el := doc.Root()
	if el == nil {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}
	if el.Tag != documentTag {
		return nil, fmt.Errorf("%w: document element is <%s>, want <%s>", ErrMalformed, el.Tag, documentTag)
	}

	t := &Tree{
		Version:     el.SelectAttrValue("version", ""),
		objectIndex: map[string]int{},
		classes:     map[string]*Classification{},
	}
	if err := t.readObjects(el); err != nil {
		return nil, err
	}
	ordered, err := t.readClassifications(el)
	if err != nil {
		return nil, err
	}
	if err := t.link(ordered); err != nil {
		return nil, err
	}
	return t, nil
}

// checkTopLevel rejects what etree tolerates at the top level: a second
// document element or text outside the document element.
func checkTopLevel(doc *etree.Document) error {
	elements := 0
	for _, tok := range doc.Child {
		switch x := tok.(type) {
		case *etree.Element:
			elements++
			if elements > 1 {
				return fmt.Errorf("%w: more than one document element", ErrMalformed)
			}
		case *etree.CharData:
			if !x.IsWhitespace() {
				return fmt.Errorf("%w: text outside the document element", ErrMalformed)
			}
		}
	}
	return nil
}

func (t *Tree) readObjects(doc *etree.Element) error {
	set := doc.SelectElement("ObjectSet")
	if set == nil {
		return nil
	}
	for _, el := range set.SelectElements("Object") {
		o := Object{
			ID:       strings.TrimSpace(el.SelectAttrValue("ID", "")),
			Name:     childText(el, "Name"),
			Location: childText(el, "Location"),
		}
		if o.ID == "" {
			return fmt.Errorf("%w: object without ID", ErrInvalidTree)
		}
		if _, dup := t.objectIndex[o.ID]; dup {
			return fmt.Errorf("%w: duplicate object ID %q", ErrInvalidTree, o.ID)
		}
		t.objectIndex[o.ID] = len(t.Objects)
		t.Objects = append(t.Objects, o)
	}
	return nil
}

func (t *Tree) readClassifications(doc *etree.Element) ([]*Classification, error) {
	set := doc.SelectElement("ClassificationSet")
	if set == nil {
		return nil, nil
	}
	var ordered []*Classification
	for _, el := range set.SelectElements("Classification") {
		c := &Classification{
			ID:   strings.TrimSpace(el.SelectAttrValue("ID", "")),
			Name: childText(el, "Name"),
		}
		if c.ID == "" {
			return nil, fmt.Errorf("%w: classification without ID", ErrInvalidTree)
		}
		if _, dup := t.classes[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate classification ID %q", ErrInvalidTree, c.ID)
		}
		if c.Name == "" {
			c.Name = c.ID
		}
		for _, sc := range el.SelectElements("SuperClass") {
			c.SuperClasses = append(c.SuperClasses, strings.Fields(sc.SelectAttrValue("refs", ""))...)
		}
		for _, objs := range el.SelectElements("Objects") {
			for _, id := range strings.Fields(objs.SelectAttrValue("objectIDs", "")) {
				if _, ok := t.objectIndex[id]; !ok {
					return nil, fmt.Errorf("%w: classification %q references unknown object %q", ErrInvalidTree, c.ID, id)
				}
				c.ObjectIDs = append(c.ObjectIDs, id)
			}
		}
		t.classes[c.ID] = c
		ordered = append(ordered, c)
	}
	return ordered, nil
}

// link resolves SuperClass references into Children and picks the root.
func (t *Tree) link(ordered []*Classification) error {
	var roots []*Classification
	for _, c := range ordered {
		if len(c.SuperClasses) == 0 {
			roots = append(roots, c)
			continue
		}
		for _, ref := range c.SuperClasses {
			parent, ok := t.classes[ref]
			if !ok {
				return fmt.Errorf("%w: classification %q has unknown super class %q", ErrInvalidTree, c.ID, ref)
			}
			if !containsChild(parent, c) {
				parent.Children = append(parent.Children, c)
			}
		}
	}
	if err := detectCycle(ordered); err != nil {
		return err
	}

	switch len(roots) {
	case 1:
		t.Root = roots[0]
	default:
		t.Root = &Classification{Name: rootName, Children: roots}
	}
	return nil
}

func detectCycle(ordered []*Classification) error {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[*Classification]int, len(ordered))
	var visit func(c *Classification) error
	visit = func(c *Classification) error {
		switch state[c] {
		case active:
			return fmt.Errorf("%w: cycle through classification %q", ErrInvalidTree, c.ID)
		case done:
			return nil
		}
		state[c] = active
		for _, ch := range c.Children {
			if err := visit(ch); err != nil {
				return err
			}
		}
		state[c] = done
		return nil
	}
	for _, c := range ordered {
		if state[c] == unvisited {
			if err := visit(c); err != nil {
				return err
			}
		}
	}
	return nil
}

func containsChild(parent, c *Classification) bool {
	for _, ch := range parent.Children {
		if ch == c {
			return true
		}
	}
	return false
}

func childText(el *etree.Element, tag string) string {
	ch := el.SelectElement(tag)
	if ch == nil {
		return ""
	}
	return strings.TrimSpace(ch.Text())
}
