package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-mutstrat/internal/mutation"
)

// WriteRecords appends records that have no source file to the store,
// keeping their order.
func (s *Store) WriteRecords(ctx context.Context, records []mutation.Record) error {
	if len(records) == 0 {
		return nil
	}
	return s.writeRecords(ctx, "", records, nil)
}

// ImportRecords replaces the records previously imported from the file
// described by fp with records and remembers the import. Both happen in one
// transaction, so a re-imported file never leaves stale rows behind.
func (s *Store) ImportRecords(ctx context.Context, fp FileFingerprint, records []mutation.Record) error {
	return s.writeRecords(ctx, fp.Path, records, &fp)
}

// writeRecords stores records tagged with source in one transaction.
// DuckDB stores use the Appender API; SQLite stores use a prepared insert.
func (s *Store) writeRecords(ctx context.Context, source string, records []mutation.Record, fp *FileFingerprint) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin write: %w", err)
	}
	defer tx.Rollback()

	if fp != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM mutations WHERE source = ?", source); err != nil {
			return fmt.Errorf("remove previous import: %w", err)
		}
	}

	if len(records) > 0 {
		var next int64
		if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq) + 1, 0) FROM mutations").Scan(&next); err != nil {
			return fmt.Errorf("read next sequence: %w", err)
		}
		if s.driver == DriverDuckDB {
			err = appendRecords(conn, source, next, records)
		} else {
			err = insertRecords(ctx, tx, source, next, records)
		}
		if err != nil {
			return err
		}
	}

	if fp != nil {
		if err := recordImport(ctx, tx, *fp, len(records)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// appendRecords appends through the DuckDB Appender of conn, inside the
// transaction open on conn.
func appendRecords(conn *sql.Conn, source string, next int64, records []mutation.Record) error {
	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "mutations")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for i, r := range records {
		if err := appender.AppendRow(next+int64(i), r.Gene, r.AminoAcid, r.Nucleotide, source); err != nil {
			return fmt.Errorf("append record: %w", err)
		}
	}

	return appender.Flush()
}

func insertRecords(ctx context.Context, tx *sql.Tx, source string, next int64, records []mutation.Record) error {
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO mutations (seq, gene, amino_acid, nucleotide, source) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, next+int64(i), r.Gene, r.AminoAcid, r.Nucleotide, source); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}
	return nil
}

// FetchRecords returns the stored records of genes in import order, or all
// records when genes is empty.
func (s *Store) FetchRecords(ctx context.Context, genes []string) ([]mutation.Record, error) {
	query := "SELECT gene, amino_acid, nucleotide FROM mutations"
	args := make([]any, 0, len(genes))
	if len(genes) > 0 {
		placeholders := make([]string, len(genes))
		for i, g := range genes {
			placeholders[i] = "?"
			args = append(args, g)
		}
		query += " WHERE gene IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY seq"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// RecordCount returns the number of stored records.
func (s *Store) RecordCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM mutations").Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// Genes returns the distinct gene symbols in the store, sorted.
func (s *Store) Genes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT gene FROM mutations ORDER BY gene")
	if err != nil {
		return nil, fmt.Errorf("query genes: %w", err)
	}
	defer rows.Close()

	var genes []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("scan gene: %w", err)
		}
		genes = append(genes, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genes: %w", err)
	}
	return genes, nil
}

// ClearRecords removes all stored records and the import history.
func (s *Store) ClearRecords(ctx context.Context) error {
	for _, stmt := range []string{"DELETE FROM mutations", "DELETE FROM imports"} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// scanRecords scans rows into a Record slice.
func scanRecords(rows *sql.Rows) ([]mutation.Record, error) {
	var records []mutation.Record
	for rows.Next() {
		var r mutation.Record
		if err := rows.Scan(&r.Gene, &r.AminoAcid, &r.Nucleotide); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}
