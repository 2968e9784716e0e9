package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flarebyte/clustermap/internal/classification"
	"github.com/flarebyte/clustermap/internal/cluster"
	"github.com/flarebyte/clustermap/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func queriesModel(t *testing.T) *cluster.Model {
	t.Helper()
	tree, err := classification.Parse(strings.NewReader(testutil.QueriesXML))
	require.NoError(t, err)
	m, err := cluster.Build(tree)
	require.NoError(t, err)
	return m
}

func render(t *testing.T, f Format) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, Write(&sb, queriesModel(t), f))
	return sb.String()
}

func TestWrite_CSV(t *testing.T) {
	want := "aap,mies,noot,v,Total\n" +
		"0,0,0,1,1\n" +
		"1,0,0,0,1\n" +
		"1,0,1,0,2\n" +
		"1,1,1,0,1\n"
	assert.Equal(t, want, render(t, FormatCSV))
}

func TestWrite_TSV(t *testing.T) {
	out := render(t, FormatTSV)
	assert.True(t, strings.HasPrefix(out, "aap\tmies\tnoot\tv\tTotal\n0\t0\t0\t1\t1\n"), out)
}

func TestWrite_Table(t *testing.T) {
	out := render(t, FormatTable)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// top border, header, separator, four rows, bottom border
	assert.Len(t, lines, 8)
	for _, h := range []string{"aap", "mies", "noot", "v", "Total"} {
		assert.Contains(t, lines[1], h)
	}
}

func TestWrite_YAML(t *testing.T) {
	out := render(t, FormatYAML)
	assert.Equal(t, out, render(t, FormatYAML), "rewrite-stable")
	assert.True(t, strings.HasPrefix(out, "classes:\n"))

	var doc struct {
		Classes []struct {
			ID   string `yaml:"id"`
			Name string `yaml:"name"`
			Size int    `yaml:"size"`
		} `yaml:"classes"`
		Clusters []struct {
			Classes []string `yaml:"classes"`
			Objects []string `yaml:"objects"`
			Query   string   `yaml:"query"`
			Size    int      `yaml:"size"`
		} `yaml:"clusters"`
		Objects int `yaml:"objects"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))

	assert.Equal(t, 5, doc.Objects)
	require.Len(t, doc.Classes, 4)
	assert.Equal(t, "vuur", doc.Classes[3].ID)
	require.Len(t, doc.Clusters, 4)
	assert.Equal(t, []string{"aap", "noot"}, doc.Clusters[0].Classes)
	assert.Equal(t, []string{"2", "4"}, doc.Clusters[0].Objects)
	assert.Equal(t, "((aap) AND (noot)) NOT ((mies) OR (v))", doc.Clusters[0].Query)
	assert.Equal(t, 2, doc.Clusters[0].Size)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" YAML ")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xlsx")
	assert.ErrorContains(t, err, "supported: csv, tsv, yaml, table")

	assert.Error(t, Write(&strings.Builder{}, queriesModel(t), Format("xml")))
}

func TestWriteFile_CreatesParents(t *testing.T) {
	p := filepath.Join(t.TempDir(), "reports", "nested", "clusters.csv")
	require.NoError(t, WriteFile(p, queriesModel(t), FormatCSV))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "aap,mies,noot,v,Total\n"))
}
