package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-mutstrat/internal/generole"
	"github.com/inodb/vibe-mutstrat/internal/maf"
	"github.com/inodb/vibe-mutstrat/internal/mutation"
	"github.com/inodb/vibe-mutstrat/internal/output"
	"github.com/inodb/vibe-mutstrat/internal/stratify"
)

func (a *app) countCmd() *cobra.Command {
	var (
		taxonomy string
		genes    []string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "count [maf]",
		Short: "Count mutation types",
		Long: `Count classifies the protein or DNA change of every record and prints one
line per category, zero counts included. Records come from the given MAF file
("-" for stdin) or, without an argument, from the store.`,
		Example: `  vibe-mutstrat count --taxonomy nucleotide data_mutations.maf
  vibe-mutstrat count --role tumor_suppressor
  vibe-mutstrat count --genes KRAS,NRAS,BRAF`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := mutation.ParseTaxonomy(taxonomy)
			if err != nil {
				return &usageError{err}
			}
			var want generole.Role
			if role != "" {
				if want, err = parseRole(role); err != nil {
					return &usageError{err}
				}
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

			records, err := src.FetchRecords(cmd.Context(), genes)
			if err != nil {
				return err
			}

			if want != "" {
				c, err := a.cfg.Classifier()
				if err != nil {
					return err
				}
				var kept []mutation.Record
				for _, r := range records {
					if c.ClassifyGene(r.Gene) == want {
						kept = append(kept, r)
					}
				}
				records = kept
			}

			ct, err := mutation.CountRecords(records, t)
			if err != nil {
				return err
			}
			a.logger.Debug("counted records",
				zap.Int("records", len(records)),
				zap.Stringer("counts", ct))

			return output.WriteTable(cmd.OutOrStdout(), ct)
		},
	}

	cmd.Flags().StringVarP(&taxonomy, "taxonomy", "t", "protein", "Taxonomy: protein (aa) or nucleotide (nuc)")
	cmd.Flags().StringSliceVar(&genes, "genes", nil, "Only count records of these genes (comma separated)")
	cmd.Flags().StringVar(&role, "role", "", "Only count records of genes with this role: oncogene, tumor_suppressor, other")

	return cmd
}

func parseRole(name string) (generole.Role, error) {
	for _, r := range generole.Roles() {
		if string(r) == name {
			return r, nil
		}
	}
	switch strings.ToLower(name) {
	case "onco":
		return generole.Oncogene, nil
	case "tsg":
		return generole.TumorSuppressor, nil
	}
	return "", fmt.Errorf("unknown gene role %q", name)
}
