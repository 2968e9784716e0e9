package render

import (
	"errors"
	"fmt"
	"html"
	"html/template"
	"math"
	"strings"

	"github.com/flarebyte/clustermap/internal/layout"
)

// DefaultTitle is the title of the image map unless a config overrides it.
const DefaultTitle = "Cluster Map"

// MapName is the name the img element's usemap refers to.
const MapName = "clustermap"

// MapOptions configures ImageMap.
type MapOptions struct {
	ImageFileName string
	FullDocument  bool
	Title         string
	// Revision, when set, is exposed as data-revision on the map element.
	Revision string
}

// DefaultMapOptions returns the fixed image map configuration for the PNG
// written to imageFileName.
func DefaultMapOptions(imageFileName string) MapOptions {
	return MapOptions{
		ImageFileName: imageFileName,
		FullDocument:  false,
		Title:         DefaultTitle,
	}
}

type area struct {
	Shape  string
	Coords string
	Href   string
	Title  string
}

type mapView struct {
	MapOptions
	Name     string
	// ImageSrc is the complete src attribute. The PNG path is operator
	// input and is only HTML-escaped, never URL-filtered.
	ImageSrc template.HTMLAttr
	Width    int
	Height   int
	Areas    []area
}

var mapTemplate = template.Must(template.New("imagemap").Parse(`{{if .FullDocument}}<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{end}}<img {{.ImageSrc}} width="{{.Width}}" height="{{.Height}}" usemap="#{{.Name}}" alt="{{.Title}}">
<map name="{{.Name}}"{{with .Revision}} data-revision="{{.}}"{{end}}>
{{range .Areas}}<area shape="{{.Shape}}" coords="{{.Coords}}" href="{{.Href}}"{{with .Title}} title="{{.}}"{{end}}>
{{end}}</map>
{{if .FullDocument}}</body>
</html>
{{end}}`))

// ImageMap returns the HTML image map for g: one circle per object, then one
// rectangle per class label.
func (s *Standard) ImageMap(g *layout.Graph, opts MapOptions) (string, error) {
	if g == nil {
		return "", errors.New("nil graph")
	}
	view := mapView{
		MapOptions: opts,
		Name:       MapName,
		ImageSrc:   template.HTMLAttr(`src="` + html.EscapeString(opts.ImageFileName) + `"`),
		Width:      g.Width,
		Height:     g.Height,
	}

	for _, b := range g.Balls {
		classes := make([]string, 0, len(b.Classes))
		for _, ci := range b.Classes {
			classes = append(classes, g.Classes[ci].Name)
		}
		for _, d := range b.Dots {
			link, err := s.linker.Link(d.Object, classes)
			if err != nil {
				return "", fmt.Errorf("link for object %q: %w", d.Object.ID, err)
			}
			view.Areas = append(view.Areas, area{
				Shape:  "circle",
				Coords: coords(d.Center.X, d.Center.Y, math.Max(1, d.Radius)),
				Href:   link.Href,
				Title:  link.Title,
			})
		}
	}
	for _, n := range g.Classes {
		view.Areas = append(view.Areas, area{
			Shape:  "rect",
			Coords: coords(n.Box.Min.X, n.Box.Min.Y, n.Box.Max.X, n.Box.Max.Y),
			Href:   "#" + n.ID,
			Title:  n.Name,
		})
	}

	var sb strings.Builder
	if err := mapTemplate.Execute(&sb, view); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func coords(vs ...float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprintf("%d", int(math.Round(v)))
	}
	return strings.Join(parts, ",")
}
