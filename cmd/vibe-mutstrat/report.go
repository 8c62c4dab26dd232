package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-mutstrat/internal/maf"
	"github.com/inodb/vibe-mutstrat/internal/mutation"
	"github.com/inodb/vibe-mutstrat/internal/output"
	"github.com/inodb/vibe-mutstrat/internal/stratify"
)

func (a *app) reportCmd() *cobra.Command {
	var (
		outDir      string
		xlsxPath    string
		geneCounts  string
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "report [maf]",
		Short: "Write mutation type tables for all genes, oncogenes and tumor suppressors",
		Long: `Report counts protein and DNA change types for all records and for the
records of oncogenes and tumor suppressor genes, and sums per-gene protein
counts by gene role. Records come from the given MAF file or from the store.

Tables are written as tab-delimited files into --out-dir and, with --xlsx,
as a workbook with one sheet per table.`,
		Example: `  vibe-mutstrat report --out-dir results/
  vibe-mutstrat report --xlsx report.xlsx --gene-counts gene_counts.tsv data_mutations.maf`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.cfg.Classifier()
			if err != nil {
				return err
			}
			oncN, tsgN := c.Len()
			a.logger.Debug("loaded gene roles",
				zap.Int("oncogenes", oncN),
				zap.Int("tumor_suppressors", tsgN))

			b := stratify.NewBuilder(c)
			b.SetLogger(a.logger)

			reg := prometheus.NewRegistry()
			if metricsFile != "" {
				m, err := stratify.NewMetrics(reg)
				if err != nil {
					return err
				}
				b.SetMetrics(m)
			}

			if geneCounts != "" {
				tax, rows, err := stratify.LoadGeneCountRows(geneCounts)
				if err != nil {
					return err
				}
				if tax != mutation.Protein {
					return &usageError{fmt.Errorf("--gene-counts %s holds %s categories, the gene type table needs %s categories",
						geneCounts, tax, mutation.Protein)}
				}
				b.SetGeneCountRows(rows)
			}

			var src stratify.RecordSource
			if len(args) == 1 {
				src = maf.Source{Path: args[0]}
			} else {
				s, err := a.openStore()
				if err != nil {
					return err
				}
				defer s.Close()
				src = s
			}

			report, err := b.BuildFrom(cmd.Context(), src)
			if err != nil {
				return err
			}

			written, err := output.WriteReportDir(outDir, report)
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}

			if xlsxPath != "" {
				if err := output.WriteWorkbook(xlsxPath, report); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), xlsxPath)
			}

			if metricsFile != "" {
				if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
					return fmt.Errorf("write metrics: %w", err)
				}
				a.logger.Debug("wrote metrics", zap.String("path", metricsFile))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "Directory for the tab-delimited tables")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the tables to this XLSX workbook")
	cmd.Flags().StringVar(&geneCounts, "gene-counts", "", "Per-gene protein count matrix for the gene type table (default: derived from the records)")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this file")

	return cmd
}
