// Package stratify groups mutation type counts by gene role and builds the
// stratified mutation type report.
package stratify

import (
	"fmt"
	"sort"

	"github.com/inodb/vibe-mutstrat/internal/generole"
	"github.com/inodb/vibe-mutstrat/internal/mutation"
)

// GeneClassifier maps a gene symbol to its role.
type GeneClassifier interface {
	ClassifyGene(symbol string) generole.Role
}

// GeneCountRow holds the per-category counts of one gene.
type GeneCountRow struct {
	Gene   string
	Counts *mutation.CountTable
}

// TaxonomyMismatchError is returned when a row's counts use a different
// taxonomy than the matrix being built.
type TaxonomyMismatchError struct {
	Gene string
	Want mutation.Taxonomy
	Got  mutation.Taxonomy
}

func (e *TaxonomyMismatchError) Error() string {
	return fmt.Sprintf("gene %s: %s counts in a %s matrix", e.Gene, e.Got, e.Want)
}

// RoleMatrix holds one count table per gene role.
type RoleMatrix struct {
	taxonomy mutation.Taxonomy
	tables   map[generole.Role]*mutation.CountTable
}

// NewRoleMatrix returns a matrix with an all-zero table for every role.
func NewRoleMatrix(t mutation.Taxonomy) (*RoleMatrix, error) {
	m := &RoleMatrix{
		taxonomy: t,
		tables:   make(map[generole.Role]*mutation.CountTable, 3),
	}
	for _, role := range generole.Roles() {
		ct, err := mutation.NewCountTable(t)
		if err != nil {
			return nil, err
		}
		m.tables[role] = ct
	}
	return m, nil
}

// BuildRoleMatrix sums the counts of every row into the table of the row's
// gene role. All three roles are present in the result.
func BuildRoleMatrix(t mutation.Taxonomy, rows []GeneCountRow, c GeneClassifier) (*RoleMatrix, error) {
	m, err := NewRoleMatrix(t)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.Counts == nil {
			continue
		}
		if row.Counts.Taxonomy() != t {
			return nil, &TaxonomyMismatchError{Gene: row.Gene, Want: t, Got: row.Counts.Taxonomy()}
		}
		if err := m.tables[c.ClassifyGene(row.Gene)].Merge(row.Counts); err != nil {
			return nil, fmt.Errorf("gene %s: %w", row.Gene, err)
		}
	}
	return m, nil
}

// Taxonomy returns the taxonomy of the matrix's tables.
func (m *RoleMatrix) Taxonomy() mutation.Taxonomy {
	return m.taxonomy
}

// Roles returns the matrix rows in report order.
func (m *RoleMatrix) Roles() []generole.Role {
	return generole.Roles()
}

// Table returns the counts for role, or nil for an unknown role.
func (m *RoleMatrix) Table(role generole.Role) *mutation.CountTable {
	return m.tables[role]
}

// Total returns the sum over all roles and categories.
func (m *RoleMatrix) Total() int {
	total := 0
	for _, ct := range m.tables {
		total += ct.Total()
	}
	return total
}

// Map returns the matrix as plain nested maps.
func (m *RoleMatrix) Map() map[generole.Role]map[mutation.Category]int {
	out := make(map[generole.Role]map[mutation.Category]int, len(m.tables))
	for role, ct := range m.tables {
		out[role] = ct.Map()
	}
	return out
}

// GeneCountRows counts the notations of taxonomy t per gene. Rows are sorted
// by gene symbol; records without a gene symbol are grouped under "".
func GeneCountRows(records []mutation.Record, t mutation.Taxonomy) ([]GeneCountRow, error) {
	if !t.Valid() {
		return nil, &mutation.InvalidTaxonomyError{Taxonomy: t}
	}
	byGene := make(map[string][]string)
	for _, r := range records {
		byGene[r.Gene] = append(byGene[r.Gene], r.Notation(t))
	}

	genes := make([]string, 0, len(byGene))
	for g := range byGene {
		genes = append(genes, g)
	}
	sort.Strings(genes)

	rows := make([]GeneCountRow, 0, len(genes))
	for _, g := range genes {
		ct, err := mutation.CountTypes(byGene[g], t)
		if err != nil {
			return nil, err
		}
		rows = append(rows, GeneCountRow{Gene: g, Counts: ct})
	}
	return rows, nil
}

// RowsTotal returns the sum of all counts over rows.
func RowsTotal(rows []GeneCountRow) int {
	total := 0
	for _, r := range rows {
		if r.Counts != nil {
			total += r.Counts.Total()
		}
	}
	return total
}
