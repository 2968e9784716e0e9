package report

import (
	"bytes"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/flarebyte/clustermap/internal/cluster"
)

// marshalYAML returns canonical YAML for the model: mapping keys sorted,
// sequences in model order.
func marshalYAML(m *cluster.Model) ([]byte, error) {
	classes := make([]any, 0, len(m.Classes))
	for _, c := range m.Classes {
		classes = append(classes, map[string]any{"id": c.ID, "name": c.Name, "size": c.Size})
	}
	clusters := make([]any, 0, len(m.Clusters))
	for _, c := range m.Clusters {
		names := make([]any, 0, len(c.Classes))
		for _, n := range m.ClassNames(c) {
			names = append(names, n)
		}
		ids := make([]any, 0, len(c.Objects))
		for _, o := range c.Objects {
			ids = append(ids, o.ID)
		}
		clusters = append(clusters, map[string]any{
			"classes": names,
			"objects": ids,
			"query":   m.Query(c),
			"size":    len(c.Objects),
		})
	}
	doc := map[string]any{
		"classes":  classes,
		"clusters": clusters,
		"objects":  m.ObjectCount(),
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(canonicalNode(doc)); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	out = append(out, '\n')
	return out, nil
}

func writeYAML(w io.Writer, m *cluster.Model) error {
	b, err := marshalYAML(m)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func scalarNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func scalarFrom(v any) *yaml.Node {
	n := &yaml.Node{}
	_ = n.Encode(v)
	return n
}

func canonicalNode(v any) *yaml.Node {
	switch x := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.MappingNode}
	case map[string]any:
		return canonicalMapNode(x)
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, it := range x {
			n.Content = append(n.Content, canonicalNode(it))
		}
		return n
	default:
		return scalarFrom(x)
	}
}

func canonicalMapNode(m map[string]any) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	if len(m) == 0 {
		return n
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n.Content = append(n.Content, scalarNode(k), canonicalNode(m[k]))
	}
	return n
}
