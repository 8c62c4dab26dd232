package stratify

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/inodb/vibe-mutstrat/internal/mutation"
)

// ParseError represents an error reading a gene count matrix with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("gene count matrix parse error at line %d: %s", e.Line, e.Message)
}

// LoadGeneCountRows reads a gene count matrix file. See ReadGeneCountRows.
func LoadGeneCountRows(path string) (mutation.Taxonomy, []GeneCountRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open gene count matrix: %w", err)
	}
	defer f.Close()

	return ReadGeneCountRows(f)
}

// ReadGeneCountRows reads a tab separated gene by mutation type matrix. The
// header is "gene" followed by category names of a single taxonomy; missing
// categories count as zero. The taxonomy is inferred from the header.
func ReadGeneCountRows(r io.Reader) (mutation.Taxonomy, []GeneCountRow, error) {
	scanner := bufio.NewScanner(r)
	lineNumber := 0

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", nil, fmt.Errorf("read gene count header: %w", err)
		}
		return "", nil, &ParseError{Line: 0, Message: "no header line found"}
	}
	lineNumber++

	header := strings.Split(strings.TrimRight(scanner.Text(), "\r"), "\t")
	if len(header) < 2 || strings.TrimSpace(header[0]) != "gene" {
		return "", nil, &ParseError{Line: lineNumber, Message: "header must start with a 'gene' column followed by categories"}
	}

	columns := make([]mutation.Category, len(header)-1)
	for i, name := range header[1:] {
		columns[i] = mutation.Category(strings.TrimSpace(name))
	}
	tax, err := inferTaxonomy(columns)
	if err != nil {
		return "", nil, &ParseError{Line: lineNumber, Message: err.Error()}
	}

	rows := []GeneCountRow{}
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != len(header) {
			return "", nil, &ParseError{
				Line:    lineNumber,
				Message: fmt.Sprintf("expected %d columns, found %d", len(header), len(fields)),
			}
		}

		ct, _ := mutation.NewCountTable(tax)
		for i, raw := range fields[1:] {
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil || n < 0 {
				return "", nil, &ParseError{
					Line:    lineNumber,
					Message: fmt.Sprintf("invalid count %q for %s", raw, columns[i]),
				}
			}
			if err := ct.AddN(columns[i], n); err != nil {
				return "", nil, &ParseError{Line: lineNumber, Message: err.Error()}
			}
		}
		rows = append(rows, GeneCountRow{Gene: strings.TrimSpace(fields[0]), Counts: ct})
	}
	if err := scanner.Err(); err != nil {
		return "", nil, fmt.Errorf("read gene count matrix: %w", err)
	}

	return tax, rows, nil
}

// inferTaxonomy returns the single taxonomy all columns belong to.
// Unclassified belongs to both and does not decide.
func inferTaxonomy(columns []mutation.Category) (mutation.Taxonomy, error) {
	seen := make(map[mutation.Category]bool, len(columns))
	var tax mutation.Taxonomy
	for _, c := range columns {
		if seen[c] {
			return "", fmt.Errorf("duplicate column %q", c)
		}
		seen[c] = true
		if c == mutation.Unclassified {
			continue
		}
		var owner mutation.Taxonomy
		for _, t := range mutation.Taxonomies() {
			if t.Has(c) {
				owner = t
			}
		}
		switch {
		case owner == "":
			return "", fmt.Errorf("unknown mutation type column %q", c)
		case tax != "" && owner != tax:
			return "", fmt.Errorf("column %q is a %s category, others are %s", c, owner, tax)
		}
		tax = owner
	}
	if tax == "" {
		tax = mutation.Protein
	}
	return tax, nil
}
