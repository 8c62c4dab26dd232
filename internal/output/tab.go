// Package output writes mutation type counts as tab-delimited text and XLSX
// workbooks.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-mutstrat/internal/generole"
	"github.com/inodb/vibe-mutstrat/internal/mutation"
	"github.com/inodb/vibe-mutstrat/internal/stratify"
)

// TableWriter writes count tables in tab-delimited format, one category per line.
type TableWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTableWriter creates a new tab-delimited count table writer.
func NewTableWriter(w io.Writer) *TableWriter {
	return &TableWriter{
		w:       bufio.NewWriter(w),
		columns: []string{"category", "count"},
	}
}

// WriteHeader writes the header line.
func (tw *TableWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes every category of ct in taxonomy order, zero counts included.
func (tw *TableWriter) Write(ct *mutation.CountTable) error {
	for _, c := range ct.Categories() {
		if _, err := fmt.Fprintf(tw.w, "%s\t%d\n", c, ct.Count(c)); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TableWriter) Flush() error {
	return tw.w.Flush()
}

// WriteTable writes ct with its header to w.
func WriteTable(w io.Writer, ct *mutation.CountTable) error {
	tw := NewTableWriter(w)
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	if err := tw.Write(ct); err != nil {
		return err
	}
	return tw.Flush()
}

// WriteRoleMatrix writes m with one row per gene role and one column per
// category.
func WriteRoleMatrix(w io.Writer, m *stratify.RoleMatrix) error {
	bw := bufio.NewWriter(w)
	cats := m.Taxonomy().Categories()

	header := make([]string, 0, len(cats)+1)
	header = append(header, "gene_type")
	for _, c := range cats {
		header = append(header, string(c))
	}
	if _, err := bw.WriteString(strings.Join(header, "\t") + "\n"); err != nil {
		return err
	}

	for _, role := range m.Roles() {
		if _, err := bw.WriteString(roleRow(role, m.Table(role), cats)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func roleRow(role generole.Role, ct *mutation.CountTable, cats []mutation.Category) string {
	values := make([]string, 0, len(cats)+1)
	values = append(values, string(role))
	for _, c := range cats {
		values = append(values, strconv.Itoa(ct.Count(c)))
	}
	return strings.Join(values, "\t") + "\n"
}
