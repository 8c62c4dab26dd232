package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inodb/vibe-mutstrat/internal/mutation"
)

func (a *app) classifyCmd() *cobra.Command {
	var (
		taxonomy string
		explain  bool
	)

	cmd := &cobra.Command{
		Use:   "classify [notation]...",
		Short: "Classify individual change notations",
		Long: `Classify prints the mutation type category of each notation. Without
arguments notations are read from stdin, one per line.`,
		Example: `  vibe-mutstrat classify p.G12C p.R213* p.E1309fs
  vibe-mutstrat classify -t nuc --explain c.35G>T c.215delC
  cut -f 37 data_mutations.maf | vibe-mutstrat classify`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := mutation.ParseTaxonomy(taxonomy)
			if err != nil {
				return &usageError{err}
			}

			out := bufio.NewWriter(cmd.OutOrStdout())
			emit := func(notation string) {
				c, _ := mutation.Classify(t, notation)
				if explain {
					rule := mutation.MatchingRule(t, notation)
					if rule == "" {
						rule = "-"
					}
					fmt.Fprintf(out, "%s\t%s\t%s\n", notation, c, rule)
					return
				}
				fmt.Fprintf(out, "%s\t%s\n", notation, c)
			}

			if len(args) > 0 {
				for _, n := range args {
					emit(n)
				}
				return out.Flush()
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := strings.TrimRight(scanner.Text(), "\r")
				if line == "" {
					continue
				}
				emit(line)
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read notations: %w", err)
			}
			return out.Flush()
		},
	}

	cmd.Flags().StringVarP(&taxonomy, "taxonomy", "t", "protein", "Taxonomy: protein (aa) or nucleotide (nuc)")
	cmd.Flags().BoolVar(&explain, "explain", false, "Also print the name of the matching rule")

	return cmd
}
