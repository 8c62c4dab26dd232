package stratify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inodb/vibe-mutstrat/internal/generole"
	"github.com/inodb/vibe-mutstrat/internal/mutation"
)

// StratumAll names the stratum holding every record.
const StratumAll = "all"

// RecordSource returns mutation records, restricted to genes when genes is
// non-empty.
type RecordSource interface {
	FetchRecords(ctx context.Context, genes []string) ([]mutation.Record, error)
}

// Stratum holds the protein and nucleotide counts of one subset of records.
type Stratum struct {
	Name       string
	Records    int
	Protein    *mutation.CountTable
	Nucleotide *mutation.CountTable
}

// Table returns the stratum's table for taxonomy t.
func (s *Stratum) Table(t mutation.Taxonomy) *mutation.CountTable {
	if t == mutation.Nucleotide {
		return s.Nucleotide
	}
	return s.Protein
}

// Report is the stratified mutation type report.
type Report struct {
	strata []*Stratum

	// GeneTypes holds protein counts summed by gene role.
	GeneTypes *RoleMatrix
}

// Strata returns the strata in report order: all records, then one per gene role.
func (r *Report) Strata() []*Stratum {
	return r.strata
}

// Stratum returns the stratum called name ("all" or a gene role), or nil.
func (r *Report) Stratum(name string) *Stratum {
	for _, s := range r.strata {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Builder builds stratified reports over an in-memory record set.
type Builder struct {
	classifier GeneClassifier
	geneRows   []GeneCountRow
	hasRows    bool
	logger     *zap.Logger
	metrics    *Metrics
}

// NewBuilder creates a report builder classifying genes with c.
func NewBuilder(c GeneClassifier) *Builder {
	return &Builder{
		classifier: c,
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger for progress messages.
func (b *Builder) SetLogger(l *zap.Logger) {
	b.logger = l
}

// SetMetrics sets where report metrics are recorded. Nil disables metrics.
func (b *Builder) SetMetrics(m *Metrics) {
	b.metrics = m
}

// SetGeneCountRows supplies precomputed protein counts per gene for the gene
// type matrix, even when rows is empty. Without them the matrix is derived
// from the records.
func (b *Builder) SetGeneCountRows(rows []GeneCountRow) {
	b.geneRows = rows
	b.hasRows = true
}

// BuildFrom fetches all records from src once and builds the report.
func (b *Builder) BuildFrom(ctx context.Context, src RecordSource) (*Report, error) {
	records, err := src.FetchRecords(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}
	return b.Build(ctx, records)
}

// Build counts mutation types for all records and for the records of each
// gene role. records is only read.
func (b *Builder) Build(ctx context.Context, records []mutation.Record) (*Report, error) {
	start := time.Now()

	byRole := make(map[generole.Role][]mutation.Record, 3)
	for _, r := range records {
		role := b.classifier.ClassifyGene(r.Gene)
		byRole[role] = append(byRole[role], r)
	}

	subsets := [][]mutation.Record{records}
	names := []string{StratumAll}
	for _, role := range generole.Roles() {
		subsets = append(subsets, byRole[role])
		names = append(names, string(role))
	}

	report := &Report{strata: make([]*Stratum, len(subsets))}
	g, ctx := errgroup.WithContext(ctx)

	for i := range subsets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := countStratum(names[i], subsets[i])
			if err != nil {
				return fmt.Errorf("stratum %s: %w", names[i], err)
			}
			report.strata[i] = s
			return nil
		})
	}

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		rows := b.geneRows
		if !b.hasRows {
			var err error
			if rows, err = GeneCountRows(records, mutation.Protein); err != nil {
				return err
			}
		}
		m, err := BuildRoleMatrix(mutation.Protein, rows, b.classifier)
		if err != nil {
			return fmt.Errorf("gene type matrix: %w", err)
		}
		report.GeneTypes = m
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, s := range report.strata {
		b.logger.Debug("counted stratum",
			zap.String("stratum", s.Name),
			zap.Int("records", s.Records),
			zap.Stringer("protein", s.Protein),
			zap.Stringer("nucleotide", s.Nucleotide))
	}

	elapsed := time.Since(start)
	if b.metrics != nil {
		all := report.strata[0]
		b.metrics.observeTable(all.Protein)
		b.metrics.observeTable(all.Nucleotide)
		for _, role := range generole.Roles() {
			b.metrics.observeRole(role, len(byRole[role]))
		}
		b.metrics.observeDuration(elapsed)
	}

	b.logger.Info("built mutation type report",
		zap.Int("records", len(records)),
		zap.Int("oncogene_records", len(byRole[generole.Oncogene])),
		zap.Int("tsg_records", len(byRole[generole.TumorSuppressor])),
		zap.Duration("elapsed", elapsed))

	return report, nil
}

func countStratum(name string, records []mutation.Record) (*Stratum, error) {
	aa, err := mutation.CountRecords(records, mutation.Protein)
	if err != nil {
		return nil, err
	}
	nuc, err := mutation.CountRecords(records, mutation.Nucleotide)
	if err != nil {
		return nil, err
	}
	return &Stratum{Name: name, Records: len(records), Protein: aa, Nucleotide: nuc}, nil
}
