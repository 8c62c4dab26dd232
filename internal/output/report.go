package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/inodb/vibe-mutstrat/internal/generole"
	"github.com/inodb/vibe-mutstrat/internal/mutation"
	"github.com/inodb/vibe-mutstrat/internal/stratify"
)

// GeneTypeFile is the file name of the gene type matrix in a report directory.
const GeneTypeFile = "gene_mutation_counts_by_gene_type.txt"

// ReportFile names a count table file of a report directory.
type ReportFile struct {
	Name     string
	Stratum  string
	Taxonomy mutation.Taxonomy
}

// ReportFiles lists the count table files written by WriteReportDir, in order.
var ReportFiles = []ReportFile{
	{"aa_mut_type_cts.txt", stratify.StratumAll, mutation.Protein},
	{"nuc_mut_type_cts.txt", stratify.StratumAll, mutation.Nucleotide},
	{"aa_onco_mut_type_cts.txt", string(generole.Oncogene), mutation.Protein},
	{"nuc_onco_mut_type_cts.txt", string(generole.Oncogene), mutation.Nucleotide},
	{"aa_tsg_mut_type_cts.txt", string(generole.TumorSuppressor), mutation.Protein},
	{"nuc_tsg_mut_type_cts.txt", string(generole.TumorSuppressor), mutation.Nucleotide},
}

// WriteReportDir writes the count tables of report and its gene type matrix
// into dir, creating dir if needed. It returns the paths written.
func WriteReportDir(dir string, report *stratify.Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var written []string
	for _, rf := range ReportFiles {
		s := report.Stratum(rf.Stratum)
		if s == nil {
			return written, fmt.Errorf("report has no %s stratum", rf.Stratum)
		}
		path := filepath.Join(dir, rf.Name)
		ct := s.Table(rf.Taxonomy)
		if err := writeFile(path, func(w io.Writer) error { return WriteTable(w, ct) }); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if report.GeneTypes != nil {
		path := filepath.Join(dir, GeneTypeFile)
		if err := writeFile(path, func(w io.Writer) error { return WriteRoleMatrix(w, report.GeneTypes) }); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
