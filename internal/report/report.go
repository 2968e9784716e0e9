// Package report writes the cluster table of a model in several formats.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/flarebyte/clustermap/internal/cluster"
)

// Format selects the report encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatTSV   Format = "tsv"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// Formats lists the accepted formats.
var Formats = []Format{FormatCSV, FormatTSV, FormatYAML, FormatTable}

// ParseFormat validates a format name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	names := make([]string, len(Formats))
	for i, known := range Formats {
		names[i] = string(known)
	}
	return "", fmt.Errorf("unknown report format %q (supported: %s)", s, strings.Join(names, ", "))
}

// Write encodes the report for m to w.
func Write(w io.Writer, m *cluster.Model, f Format) error {
	switch f {
	case FormatCSV:
		return writeDelimited(w, m.Table(), ',')
	case FormatTSV:
		return writeDelimited(w, m.Table(), '\t')
	case FormatYAML:
		return writeYAML(w, m)
	case FormatTable:
		_, err := io.WriteString(w, renderTable(m.Table())+"\n")
		return err
	}
	return fmt.Errorf("unknown report format %q", f)
}

// WriteFile writes the report to path, creating parent directories.
func WriteFile(path string, m *cluster.Model, f Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var sb strings.Builder
	if err := Write(&sb, m, f); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

func writeDelimited(w io.Writer, t cluster.Table, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(cells(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderTable(t cluster.Table) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, row := range t.Rows {
		r := make(table.Row, len(row))
		for i, v := range row {
			r[i] = v
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, len(t.Headers))
	for i := range t.Headers {
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignRight, AlignHeader: text.AlignLeft}
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func cells(row []int) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = strconv.Itoa(v)
	}
	return out
}
