// Package oncokb loads the OncoKB cancer gene list as gene role reference sets.
package oncokb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/inodb/vibe-mutstrat/internal/generole"
)

// OncoKB gene type labels.
const (
	GeneTypeOncogene = "ONCOGENE"
	GeneTypeTSG      = "TSG"
)

// Gene holds the OncoKB gene-level classification of one gene.
type Gene struct {
	HugoSymbol string
	GeneType   string // "ONCOGENE", "TSG", "ONCOGENE,TSG" or empty
}

// IsOncogene reports whether the gene type lists ONCOGENE.
func (g *Gene) IsOncogene() bool {
	return hasLabel(g.GeneType, GeneTypeOncogene)
}

// IsTSG reports whether the gene type lists TSG.
func (g *Gene) IsTSG() bool {
	return hasLabel(g.GeneType, GeneTypeTSG)
}

// CancerGeneList maps Hugo Symbol to Gene.
type CancerGeneList map[string]*Gene

// IsCancerGene returns true if the gene is in the cancer gene list.
func (c CancerGeneList) IsCancerGene(gene string) bool {
	_, ok := c[gene]
	return ok
}

// RoleSets splits the list into sorted oncogene and tumor suppressor sets.
// A gene typed "ONCOGENE,TSG" is placed in both; genes with neither label
// are left out.
func (c CancerGeneList) RoleSets() (oncogenes, tumorSuppressors []string) {
	for sym, g := range c {
		if g.IsOncogene() {
			oncogenes = append(oncogenes, sym)
		}
		if g.IsTSG() {
			tumorSuppressors = append(tumorSuppressors, sym)
		}
	}
	sort.Strings(oncogenes)
	sort.Strings(tumorSuppressors)
	return oncogenes, tumorSuppressors
}

// Classifier builds a gene role classifier from the list.
func (c CancerGeneList) Classifier() *generole.Classifier {
	return generole.NewClassifier(c.RoleSets())
}

// LoadCancerGeneList loads an OncoKB cancerGeneList.tsv file.
// The TSV must have columns "Hugo Symbol" and "Gene Type" in the header.
func LoadCancerGeneList(path string) (CancerGeneList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cancer gene list: %w", err)
	}
	defer f.Close()

	return ReadCancerGeneList(f)
}

// ReadCancerGeneList parses an OncoKB cancer gene list from r.
func ReadCancerGeneList(r io.Reader) (CancerGeneList, error) {
	scanner := bufio.NewScanner(r)

	// Read header to find column indices
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading cancer gene list: %w", err)
		}
		return nil, fmt.Errorf("cancer gene list: empty file")
	}
	header := strings.Split(scanner.Text(), "\t")

	hugoIdx := -1
	geneTypeIdx := -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "Hugo Symbol":
			hugoIdx = i
		case "Gene Type":
			geneTypeIdx = i
		}
	}
	if hugoIdx < 0 {
		return nil, fmt.Errorf("cancer gene list: missing 'Hugo Symbol' column")
	}
	if geneTypeIdx < 0 {
		return nil, fmt.Errorf("cancer gene list: missing 'Gene Type' column")
	}

	cgl := make(CancerGeneList)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) <= hugoIdx || len(fields) <= geneTypeIdx {
			continue
		}
		hugo := strings.TrimSpace(fields[hugoIdx])
		if hugo == "" {
			continue
		}
		cgl[hugo] = &Gene{
			HugoSymbol: hugo,
			GeneType:   strings.ToUpper(strings.TrimSpace(fields[geneTypeIdx])),
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading cancer gene list: %w", err)
	}

	return cgl, nil
}

func hasLabel(geneType, label string) bool {
	for _, l := range strings.Split(geneType, ",") {
		if strings.TrimSpace(l) == label {
			return true
		}
	}
	return false
}
