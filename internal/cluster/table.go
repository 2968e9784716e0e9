package cluster

import (
	"cmp"
	"slices"
)

// TotalHeader names the count column of a Table.
const TotalHeader = "Total"

// Table is the tabular form of a model: one column per class, sorted by name,
// then the object count. Each row flags class membership of one cluster with
// 0 or 1.
type Table struct {
	Headers []string
	Rows    [][]int
}

// Table returns the cluster table with rows in ascending order.
func (m *Model) Table() Table {
	order := make([]int, len(m.Classes))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		if c := cmp.Compare(m.Classes[a].Name, m.Classes[b].Name); c != 0 {
			return c
		}
		return cmp.Compare(m.Classes[a].ID, m.Classes[b].ID)
	})

	t := Table{Headers: make([]string, 0, len(order)+1)}
	for _, i := range order {
		t.Headers = append(t.Headers, m.Classes[i].Name)
	}
	t.Headers = append(t.Headers, TotalHeader)

	for _, c := range m.Clusters {
		in := map[int]bool{}
		for _, i := range c.Classes {
			in[i] = true
		}
		row := make([]int, 0, len(order)+1)
		for _, i := range order {
			if in[i] {
				row = append(row, 1)
			} else {
				row = append(row, 0)
			}
		}
		row = append(row, len(c.Objects))
		t.Rows = append(t.Rows, row)
	}
	slices.SortFunc(t.Rows, func(a, b []int) int { return slices.Compare(a, b) })
	return t
}
