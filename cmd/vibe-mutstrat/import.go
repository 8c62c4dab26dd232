package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-mutstrat/internal/maf"
	"github.com/inodb/vibe-mutstrat/internal/store"
)

func (a *app) importCmd() *cobra.Command {
	var replace, force bool

	cmd := &cobra.Command{
		Use:   "import <maf>...",
		Short: "Import mutation records from MAF files into the store",
		Long: `Import reads the gene, protein change and DNA change columns of MAF or COSMIC
export files (plain or gzipped) into the record store. Files already imported
unchanged are skipped unless --force is given. A changed or forced file
replaces the records of its earlier import. Use "-" to read stdin.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			if replace {
				if err := s.ClearRecords(ctx); err != nil {
					return fmt.Errorf("clear store: %w", err)
				}
			}

			for _, path := range args {
				n, err := a.importFile(ctx, s, path, force)
				if err != nil {
					return err
				}
				if n >= 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "imported %d records from %s\n", n, path)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "skipped %s (already imported)\n", path)
				}
			}

			total, err := s.RecordCount(ctx)
			if err != nil {
				return err
			}
			a.logger.Info("store updated", zap.Int("records", total))
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Remove all stored records before importing")
	cmd.Flags().BoolVar(&force, "force", false, "Re-import files even if they are unchanged since their last import")

	return cmd
}

// importFile stores the records of one file. It returns -1 when the file was
// skipped as already imported.
func (a *app) importFile(ctx context.Context, s *store.Store, path string, force bool) (int, error) {
	var fp store.FileFingerprint
	tracked := path != "-"
	if tracked {
		abs, err := filepath.Abs(path)
		if err != nil {
			return 0, fmt.Errorf("resolve %s: %w", path, err)
		}
		if fp, err = store.StatFile(abs); err != nil {
			return 0, fmt.Errorf("stat %s: %w", path, err)
		}
		if !force {
			done, err := s.HasImport(ctx, fp)
			if err != nil {
				return 0, err
			}
			if done {
				a.logger.Debug("skipping imported file", zap.String("path", path))
				return -1, nil
			}
		}
	}

	p, err := maf.NewParser(path)
	if err != nil {
		return 0, err
	}
	defer p.Close()

	records, err := p.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	if tracked {
		err = s.ImportRecords(ctx, fp, records)
	} else {
		err = s.WriteRecords(ctx, records)
	}
	if err != nil {
		return 0, fmt.Errorf("store records from %s: %w", path, err)
	}

	a.logger.Debug("imported file",
		zap.String("path", path),
		zap.Int("records", len(records)),
		zap.Int("lines", p.LineNumber()))
	return len(records), nil
}
