// Package cluster derives a cluster model from a classification tree: the
// objects of the top-level classifications grouped by the exact set of
// classifications they belong to.
package cluster

import (
	"cmp"
	"errors"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/flarebyte/clustermap/internal/classification"
)

// Class is a top-level classification taking part in the model.
type Class struct {
	ID   string
	Name string
	// Size is the number of objects attached to the class or its descendants.
	Size int
}

// Cluster is a maximal group of objects sharing the same set of classes.
type Cluster struct {
	// Classes indexes Model.Classes in ascending order.
	Classes []int
	Objects []classification.Object
}

// Model is immutable once built.
type Model struct {
	Classes  []Class
	Clusters []Cluster
}

// Build groups the objects of tree's top-level classifications into clusters.
// Objects outside every top-level classification are left out.
func Build(tree *classification.Tree) (*Model, error) {
	if tree == nil {
		return nil, errors.New("nil classification tree")
	}
	top := tree.TopLevel()
	m := &Model{Classes: make([]Class, 0, len(top))}

	membership := map[string][]int{}
	for i, c := range top {
		ids := tree.Members(c)
		m.Classes = append(m.Classes, Class{ID: c.ID, Name: c.Name, Size: len(ids)})
		for _, id := range ids {
			membership[id] = append(membership[id], i)
		}
	}

	byKey := map[string]int{}
	for _, o := range tree.Objects {
		classes, ok := membership[o.ID]
		if !ok {
			continue
		}
		k := key(classes)
		idx, seen := byKey[k]
		if !seen {
			idx = len(m.Clusters)
			byKey[k] = idx
			m.Clusters = append(m.Clusters, Cluster{Classes: classes})
		}
		m.Clusters[idx].Objects = append(m.Clusters[idx].Objects, o)
	}

	slices.SortStableFunc(m.Clusters, func(a, b Cluster) int {
		if c := cmp.Compare(len(b.Objects), len(a.Objects)); c != 0 {
			return c
		}
		return slices.Compare(a.Classes, b.Classes)
	})
	return m, nil
}

// ObjectCount returns the number of objects placed in a cluster.
func (m *Model) ObjectCount() int {
	n := 0
	for _, c := range m.Clusters {
		n += len(c.Objects)
	}
	return n
}

// ClassNames returns the names of the classes of c.
func (m *Model) ClassNames(c Cluster) []string {
	out := make([]string, 0, len(c.Classes))
	for _, i := range c.Classes {
		out = append(out, m.Classes[i].Name)
	}
	return out
}

// Query returns the boolean query selecting exactly the objects of c:
// every class of c and none of the others, e.g.
// "((aap) AND (noot)) NOT ((mies) OR (v))".
func (m *Model) Query(c Cluster) string {
	in := map[int]bool{}
	for _, i := range c.Classes {
		in[i] = true
	}
	var include, exclude []string
	for i, cl := range m.Classes {
		if in[i] {
			include = append(include, cl.Name)
		} else {
			exclude = append(exclude, cl.Name)
		}
	}
	sort.Strings(include)
	sort.Strings(exclude)

	q := "((" + strings.Join(include, ") AND (") + ")) NOT ((" + strings.Join(exclude, ") OR (") + "))"
	return strings.ReplaceAll(q, " NOT (())", "")
}

// Queries returns Query for every cluster, in cluster order.
func (m *Model) Queries() []string {
	out := make([]string, 0, len(m.Clusters))
	for _, c := range m.Clusters {
		out = append(out, m.Query(c))
	}
	return out
}

func key(classes []int) string {
	var sb strings.Builder
	for i, c := range classes {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(c))
	}
	return sb.String()
}
