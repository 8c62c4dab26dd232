// Package mutation classifies protein and DNA change notations into mutation
// type categories and counts them.
package mutation

import (
	"errors"
	"fmt"
)

// Category is a mutation type within one Taxonomy.
type Category string

// Protein taxonomy categories.
const (
	Missense   Category = "missense"
	Indel      Category = "indel"
	FrameShift Category = "frame_shift"
	Nonsense   Category = "nonsense"
	Synonymous Category = "synonymous"
)

// Nucleotide taxonomy categories.
const (
	Substitution Category = "substitution"
	Insertion    Category = "insertion"
	Deletion     Category = "deletion"
)

// Unclassified is shared by both taxonomies and absorbs every notation
// no rule matches.
const Unclassified Category = "unclassified"

// Taxonomy selects which set of categories a notation is classified into.
type Taxonomy string

// Supported taxonomies.
const (
	Protein    Taxonomy = "protein"
	Nucleotide Taxonomy = "nucleotide"
)

var (
	proteinCategories    = []Category{Missense, Indel, FrameShift, Nonsense, Synonymous, Unclassified}
	nucleotideCategories = []Category{Substitution, Insertion, Deletion, Unclassified}
)

// ErrInvalidTaxonomy is matched by every InvalidTaxonomyError.
var ErrInvalidTaxonomy = errors.New("invalid taxonomy")

// InvalidTaxonomyError is returned when a caller names a taxonomy other than
// protein or nucleotide.
type InvalidTaxonomyError struct {
	Taxonomy Taxonomy
}

func (e *InvalidTaxonomyError) Error() string {
	return fmt.Sprintf("invalid taxonomy %q: must be %q or %q", string(e.Taxonomy), Protein, Nucleotide)
}

// Is reports whether target is ErrInvalidTaxonomy.
func (e *InvalidTaxonomyError) Is(target error) bool {
	return target == ErrInvalidTaxonomy
}

// Taxonomies returns the supported taxonomies in report order.
func Taxonomies() []Taxonomy {
	return []Taxonomy{Protein, Nucleotide}
}

// ParseTaxonomy converts a name such as "protein" or "nucleotide" to a Taxonomy.
// The short aliases "aa" and "nuc" used by the report file names are accepted.
func ParseTaxonomy(name string) (Taxonomy, error) {
	switch name {
	case "protein", "aa", "amino_acid":
		return Protein, nil
	case "nucleotide", "nuc", "dna":
		return Nucleotide, nil
	}
	return "", &InvalidTaxonomyError{Taxonomy: Taxonomy(name)}
}

// Valid reports whether t is one of the supported taxonomies.
func (t Taxonomy) Valid() bool {
	return t == Protein || t == Nucleotide
}

// Categories returns the categories of t in their fixed report order.
// It returns nil for an invalid taxonomy.
func (t Taxonomy) Categories() []Category {
	var src []Category
	switch t {
	case Protein:
		src = proteinCategories
	case Nucleotide:
		src = nucleotideCategories
	default:
		return nil
	}
	out := make([]Category, len(src))
	copy(out, src)
	return out
}

// index returns the position of c in t's category order, or -1.
func (t Taxonomy) index(c Category) int {
	var src []Category
	switch t {
	case Protein:
		src = proteinCategories
	case Nucleotide:
		src = nucleotideCategories
	}
	for i, cat := range src {
		if cat == c {
			return i
		}
	}
	return -1
}

// Has reports whether c belongs to t.
func (t Taxonomy) Has(c Category) bool {
	return t.index(c) >= 0
}

// Record is one observed variant as retrieved from a record source.
type Record struct {
	Gene       string // Hugo symbol
	AminoAcid  string // protein change, e.g. "p.G12C"
	Nucleotide string // coding DNA change, e.g. "c.34G>T"
}

// Notation returns the record's notation for taxonomy t.
func (r Record) Notation(t Taxonomy) string {
	if t == Nucleotide {
		return r.Nucleotide
	}
	return r.AminoAcid
}
