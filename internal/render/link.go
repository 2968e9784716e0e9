package render

import "github.com/flarebyte/clustermap/internal/classification"

// Link is the target of one image map area.
type Link struct {
	Href  string
	Title string
}

// Linker resolves the link of an object drawn in the given classes.
type Linker interface {
	Link(obj classification.Object, classes []string) (Link, error)
}

// DefaultLinker links every object to its Location and titles it with its Name.
type DefaultLinker struct{}

func (DefaultLinker) Link(obj classification.Object, classes []string) (Link, error) {
	return Link{Href: obj.Location, Title: obj.Name}, nil
}

// LinkerFunc adapts a function to Linker.
type LinkerFunc func(obj classification.Object, classes []string) (Link, error)

func (f LinkerFunc) Link(obj classification.Object, classes []string) (Link, error) {
	return f(obj, classes)
}
