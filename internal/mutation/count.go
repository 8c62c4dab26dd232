package mutation

import (
	"fmt"
	"strings"
)

// CountTable is an ordered category to count table for one taxonomy.
// Every category of the taxonomy is present, zero when never seen.
type CountTable struct {
	taxonomy Taxonomy
	counts   []int
}

// NewCountTable returns an all-zero table for taxonomy t.
func NewCountTable(t Taxonomy) (*CountTable, error) {
	if !t.Valid() {
		return nil, &InvalidTaxonomyError{Taxonomy: t}
	}
	return &CountTable{
		taxonomy: t,
		counts:   make([]int, len(t.Categories())),
	}, nil
}

// CountTypes classifies every notation under taxonomy t and returns the
// frequency of each category. Malformed notations are counted as
// Unclassified; the only error is an invalid taxonomy.
func CountTypes(notations []string, t Taxonomy) (*CountTable, error) {
	ct, err := NewCountTable(t)
	if err != nil {
		return nil, err
	}
	classify := ClassifyAminoAcid
	if t == Nucleotide {
		classify = ClassifyNucleotide
	}
	for _, n := range notations {
		ct.counts[t.index(classify(n))]++
	}
	return ct, nil
}

// CountRecords counts the notation of taxonomy t of every record.
func CountRecords(records []Record, t Taxonomy) (*CountTable, error) {
	notations := make([]string, len(records))
	for i, r := range records {
		notations[i] = r.Notation(t)
	}
	return CountTypes(notations, t)
}

// Taxonomy returns the taxonomy the table counts.
func (ct *CountTable) Taxonomy() Taxonomy {
	return ct.taxonomy
}

// Categories returns the table's categories in order.
func (ct *CountTable) Categories() []Category {
	return ct.taxonomy.Categories()
}

// Count returns the count of c, or 0 if c is not part of the taxonomy.
func (ct *CountTable) Count(c Category) int {
	i := ct.taxonomy.index(c)
	if i < 0 {
		return 0
	}
	return ct.counts[i]
}

// Add increments the count of c by one.
func (ct *CountTable) Add(c Category) error {
	return ct.AddN(c, 1)
}

// AddN increments the count of c by n. Negative n and categories outside the
// table's taxonomy are rejected.
func (ct *CountTable) AddN(c Category, n int) error {
	i := ct.taxonomy.index(c)
	if i < 0 {
		return fmt.Errorf("category %q is not part of the %s taxonomy", c, ct.taxonomy)
	}
	if n < 0 {
		return fmt.Errorf("negative count %d for %s", n, c)
	}
	ct.counts[i] += n
	return nil
}

// Merge adds other element-wise into ct. Both tables must share a taxonomy.
func (ct *CountTable) Merge(other *CountTable) error {
	if other.taxonomy != ct.taxonomy {
		return fmt.Errorf("merge %s counts into %s table", other.taxonomy, ct.taxonomy)
	}
	for i, n := range other.counts {
		ct.counts[i] += n
	}
	return nil
}

// Total returns the sum of all counts.
func (ct *CountTable) Total() int {
	total := 0
	for _, n := range ct.counts {
		total += n
	}
	return total
}

// Map returns the table as a plain category to count map.
func (ct *CountTable) Map() map[Category]int {
	m := make(map[Category]int, len(ct.counts))
	for i, c := range ct.Categories() {
		m[c] = ct.counts[i]
	}
	return m
}

// Equal reports whether both tables share a taxonomy and all counts.
func (ct *CountTable) Equal(other *CountTable) bool {
	if other == nil || ct.taxonomy != other.taxonomy {
		return false
	}
	for i := range ct.counts {
		if ct.counts[i] != other.counts[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of ct.
func (ct *CountTable) Clone() *CountTable {
	counts := make([]int, len(ct.counts))
	copy(counts, ct.counts)
	return &CountTable{taxonomy: ct.taxonomy, counts: counts}
}

func (ct *CountTable) String() string {
	parts := make([]string, 0, len(ct.counts))
	for i, c := range ct.Categories() {
		parts = append(parts, fmt.Sprintf("%s:%d", c, ct.counts[i]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
