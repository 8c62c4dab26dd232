// Package maf reads mutation records from MAF (Mutation Annotation Format)
// and COSMIC mutation export files.
package maf

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/inodb/vibe-mutstrat/internal/mutation"
)

// Column names recognised for each record field, in order of preference.
var (
	GeneColumns       = []string{"Hugo_Symbol", "Gene name", "GENE_NAME", "Gene"}
	AminoAcidColumns  = []string{"HGVSp_Short", "HGVSp", "Protein_Change", "Mutation AA", "AminoAcid"}
	NucleotideColumns = []string{"HGVSc", "cDNA_Change", "Mutation CDS", "Nucleotide"}
)

// ColumnIndices holds the indices of the record columns, -1 when absent.
type ColumnIndices struct {
	Gene       int
	AminoAcid  int
	Nucleotide int
}

// Parser reads mutation records from a tab separated file.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	columns    ColumnIndices
	headerLine string
}

// NewParser creates a new parser for the given file.
// Supports both plain and gzipped (.maf.gz) files; "-" reads stdin.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open maf file: %w", err)
	}

	p := &Parser{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read maf header: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek maf file: %w", err)
	}

	if n == 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := &Parser{
		reader: bufio.NewReader(r),
	}

	if err := p.parseHeader(); err != nil {
		return nil, err
	}

	return p, nil
}

// parseHeader reads the first non-comment line and locates the record columns.
func (p *Parser) parseHeader() error {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return &ParseError{
					Line:    p.lineNumber,
					Message: "no header line found",
				}
			}
			return fmt.Errorf("read header: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p.headerLine = line
		return p.parseColumnIndices(line)
	}
}

// parseColumnIndices finds the first preferred column name present for each field.
func (p *Parser) parseColumnIndices(headerLine string) error {
	index := make(map[string]int)
	for i, col := range strings.Split(headerLine, "\t") {
		col = strings.TrimSpace(col)
		if _, dup := index[col]; !dup {
			index[col] = i
		}
	}

	find := func(names []string) int {
		for _, name := range names {
			if i, ok := index[name]; ok {
				return i
			}
		}
		return -1
	}

	p.columns = ColumnIndices{
		Gene:       find(GeneColumns),
		AminoAcid:  find(AminoAcidColumns),
		Nucleotide: find(NucleotideColumns),
	}

	if p.columns.Gene == -1 {
		return &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("required gene column not found in header (one of %s)", strings.Join(GeneColumns, ", ")),
		}
	}
	if p.columns.AminoAcid == -1 && p.columns.Nucleotide == -1 {
		return &ParseError{
			Line:    p.lineNumber,
			Message: "no protein or DNA change column found in header",
		}
	}

	return nil
}

// Next reads the next record.
// Returns nil, nil when there are no more records.
func (p *Parser) Next() (*mutation.Record, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("read record line: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		return p.parseLine(line), nil
	}
}

// parseLine builds a record from the known columns. Short rows leave the
// missing fields empty, so they classify as unclassified downstream.
func (p *Parser) parseLine(line string) *mutation.Record {
	fields := strings.Split(line, "\t")
	field := func(i int) string {
		if i < 0 || i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	return &mutation.Record{
		Gene:       field(p.columns.Gene),
		AminoAcid:  field(p.columns.AminoAcid),
		Nucleotide: field(p.columns.Nucleotide),
	}
}

// ReadAll reads all remaining records.
func (p *Parser) ReadAll() ([]mutation.Record, error) {
	var records []mutation.Record
	for {
		r, err := p.Next()
		if err != nil {
			return nil, err
		}
		if r == nil {
			return records, nil
		}
		records = append(records, *r)
	}
}

// Header returns the header line.
func (p *Parser) Header() string {
	return p.headerLine
}

// Columns returns the parsed column indices.
func (p *Parser) Columns() ColumnIndices {
	return p.columns
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError represents an error during MAF parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("maf parse error at line %d: %s", e.Line, e.Message)
}

// Source serves the records of a MAF file as a record source. The file is
// read on every fetch.
type Source struct {
	Path string
}

// FetchRecords reads the file and returns the records of genes, or all
// records when genes is empty.
func (s Source) FetchRecords(ctx context.Context, genes []string) ([]mutation.Record, error) {
	p, err := NewParser(s.Path)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	keep := make(map[string]bool, len(genes))
	for _, g := range genes {
		keep[g] = true
	}

	var records []mutation.Record
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := p.Next()
		if err != nil {
			return nil, err
		}
		if r == nil {
			return records, nil
		}
		if len(keep) == 0 || keep[r.Gene] {
			records = append(records, *r)
		}
	}
}
