// Package generole assigns genes to a functional role (oncogene, tumor
// suppressor or other) from fixed reference gene sets.
package generole

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Role is the functional category of a gene.
type Role string

// Gene roles.
const (
	Oncogene        Role = "oncogene"
	TumorSuppressor Role = "tumor_suppressor"
	Other           Role = "other"
)

// Roles returns all roles in report order.
func Roles() []Role {
	return []Role{Oncogene, TumorSuppressor, Other}
}

// Classifier maps gene symbols to roles. It is immutable after construction
// and safe for concurrent use.
type Classifier struct {
	oncogenes map[string]struct{}
	tsgs      map[string]struct{}
}

// NewClassifier creates a classifier from the oncogene and tumor suppressor
// reference sets. The slices are copied.
func NewClassifier(oncogenes, tumorSuppressors []string) *Classifier {
	return &Classifier{
		oncogenes: toSet(oncogenes),
		tsgs:      toSet(tumorSuppressors),
	}
}

// ClassifyGene returns the role of a gene symbol. Matching is exact and case
// sensitive; the oncogene set is checked first, so a gene listed in both sets
// is an oncogene. Unknown genes are Other.
func (c *Classifier) ClassifyGene(symbol string) Role {
	if _, ok := c.oncogenes[symbol]; ok {
		return Oncogene
	}
	if _, ok := c.tsgs[symbol]; ok {
		return TumorSuppressor
	}
	return Other
}

// Oncogenes returns the oncogene reference set, sorted.
func (c *Classifier) Oncogenes() []string {
	return sortedKeys(c.oncogenes)
}

// TumorSuppressors returns the tumor suppressor reference set, sorted.
func (c *Classifier) TumorSuppressors() []string {
	return sortedKeys(c.tsgs)
}

// Len returns the sizes of the oncogene and tumor suppressor sets.
func (c *Classifier) Len() (oncogenes, tumorSuppressors int) {
	return len(c.oncogenes), len(c.tsgs)
}

// LoadGeneSet reads a gene list file with one symbol per line. Blank lines
// and lines starting with '#' are skipped; only the first tab separated field
// of a line is used.
func LoadGeneSet(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gene set: %w", err)
	}
	defer f.Close()

	genes, err := ReadGeneSet(f)
	if err != nil {
		return nil, fmt.Errorf("read gene set %s: %w", path, err)
	}
	return genes, nil
}

// ReadGeneSet reads a gene list from r. See LoadGeneSet for the format.
func ReadGeneSet(r io.Reader) ([]string, error) {
	var genes []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if i := strings.IndexByte(line, '\t'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line != "" {
			genes = append(genes, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return genes, nil
}

func toSet(genes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(genes))
	for _, g := range genes {
		set[g] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
