package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleMAF = "../../internal/maf/testdata/sample.maf"

type result struct {
	code   int
	stdout string
	stderr string
}

// runCLI runs the command line with a temporary home directory and store.
func runCLI(t *testing.T, home string, stdin string, args ...string) result {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("VIBE_MUTSTRAT_LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func storeArgs(home string) []string {
	return []string{"--store-driver", "sqlite", "--store", filepath.Join(home, "mutations.db")}
}

func TestVersion(t *testing.T) {
	res := runCLI(t, t.TempDir(), "", "version")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "vibe-mutstrat version dev")
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"count", "--bogus"}},
		{"bad taxonomy", []string{"classify", "-t", "rna", "p.G12C"}},
		{"bad role", []string{"count", "--role", "driver", sampleMAF}},
		{"too many args", []string{"count", "a.maf", "b.maf"}},
		{"import without files", []string{"import"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, t.TempDir(), "", tt.args...)
			assert.Equal(t, ExitUsage, res.code)
			assert.Contains(t, res.stderr, "Error: ")
		})
	}
}

func TestClassify(t *testing.T) {
	res := runCLI(t, t.TempDir(), "", "classify", "p.G12C", "p.R213*", "p.E1309Dfs*4", "?")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "p.G12C\tmissense\np.R213*\tnonsense\np.E1309Dfs*4\tframe_shift\n?\tunclassified\n", res.stdout)
}

func TestClassify_StdinExplain(t *testing.T) {
	res := runCLI(t, t.TempDir(), "c.35G>T\n\nc.215delC\nc.?\n", "classify", "-t", "nuc", "--explain")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "c.35G>T\tsubstitution\tsubstitution\nc.215delC\tdeletion\tdeletion\nc.?\tunclassified\t-\n", res.stdout)
}

func TestCount_File(t *testing.T) {
	res := runCLI(t, t.TempDir(), "", "count", sampleMAF)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "category\tcount\n"+
		"missense\t1\n"+
		"indel\t1\n"+
		"frame_shift\t1\n"+
		"nonsense\t1\n"+
		"synonymous\t1\n"+
		"unclassified\t0\n", res.stdout)

	res = runCLI(t, t.TempDir(), "", "count", "-t", "nuc", "--role", "tumor_suppressor", sampleMAF)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "substitution\t1\n")
	assert.Contains(t, res.stdout, "deletion\t1\n")
}

func TestImportAndCount(t *testing.T) {
	home := t.TempDir()
	args := storeArgs(home)

	res := runCLI(t, home, "", append([]string{"import", sampleMAF}, args...)...)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "imported 5 records from "+sampleMAF+"\n", res.stdout)

	res = runCLI(t, home, "", append([]string{"import", sampleMAF}, args...)...)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "skipped")

	res = runCLI(t, home, "", append([]string{"count", "--genes", "KRAS,TP53"}, args...)...)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "missense\t1\n")
	assert.Contains(t, res.stdout, "nonsense\t1\n")
	assert.Contains(t, res.stdout, "frame_shift\t0\n")

	res = runCLI(t, home, "", append([]string{"import", "--force", sampleMAF}, args...)...)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	res = runCLI(t, home, "", append([]string{"count"}, args...)...)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "missense\t1\n", "forced import replaces the earlier one")
}

func TestImport_ChangedFileReplacesRecords(t *testing.T) {
	home := t.TempDir()
	args := storeArgs(home)
	path := filepath.Join(home, "data.maf")
	header := "Hugo_Symbol\tHGVSc\tHGVSp_Short\n"

	require.NoError(t, os.WriteFile(path, []byte(header+"KRAS\tc.34G>T\tp.G12C\n"), 0644))
	res := runCLI(t, home, "", append([]string{"import", path}, args...)...)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "imported 1 records from "+path+"\n", res.stdout)

	require.NoError(t, os.WriteFile(path, []byte(header+
		"KRAS\tc.34G>T\tp.G12C\n"+
		"TP53\tc.637C>T\tp.R213*\n"), 0644))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	res = runCLI(t, home, "", append([]string{"import", path}, args...)...)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "imported 2 records from "+path+"\n", res.stdout)

	res = runCLI(t, home, "", append([]string{"count"}, args...)...)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "missense\t1\n")
	assert.Contains(t, res.stdout, "nonsense\t1\n")
}

func TestReport(t *testing.T) {
	home := t.TempDir()
	outDir := filepath.Join(home, "out")
	xlsx := filepath.Join(home, "report.xlsx")
	metrics := filepath.Join(home, "report.prom")

	res := runCLI(t, home, "", "report", "--out-dir", outDir, "--xlsx", xlsx, "--metrics-file", metrics, sampleMAF)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, filepath.Join(outDir, "aa_tsg_mut_type_cts.txt"))
	assert.Contains(t, res.stdout, xlsx)

	data, err := os.ReadFile(filepath.Join(outDir, "aa_onco_mut_type_cts.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "missense\t1\n", "KRAS G12C")
	assert.Contains(t, string(data), "indel\t1\n", "EGFR E746_A750del")

	data, err = os.ReadFile(filepath.Join(outDir, "gene_mutation_counts_by_gene_type.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "other\t0\t0\t0\t0\t1\t0\n", "TTN L10=")

	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 7)

	data, err = os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `vibe_mutstrat_notations_total{category="missense",taxonomy="protein"} 1`)
	assert.Contains(t, string(data), `vibe_mutstrat_records_total{role="tumor_suppressor"} 2`)
}

func TestReport_GeneCounts(t *testing.T) {
	home := t.TempDir()
	outDir := filepath.Join(home, "out")

	empty := filepath.Join(home, "empty.tsv")
	require.NoError(t, os.WriteFile(empty, []byte("gene\tmissense\tnonsense\n"), 0644))
	res := runCLI(t, home, "", "report", "-o", outDir, "--gene-counts", empty, sampleMAF)
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	data, err := os.ReadFile(filepath.Join(outDir, "gene_mutation_counts_by_gene_type.txt"))
	require.NoError(t, err)
	assert.Equal(t, "gene_type\tmissense\tindel\tframe_shift\tnonsense\tsynonymous\tunclassified\n"+
		"oncogene\t0\t0\t0\t0\t0\t0\n"+
		"tumor_suppressor\t0\t0\t0\t0\t0\t0\n"+
		"other\t0\t0\t0\t0\t0\t0\n", string(data), "supplied matrix has no genes")

	nuc := filepath.Join(home, "nuc.tsv")
	require.NoError(t, os.WriteFile(nuc, []byte("gene\tsubstitution\tdeletion\nKRAS\t1\t0\n"), 0644))
	res = runCLI(t, home, "", "report", "-o", outDir, "--gene-counts", nuc, sampleMAF)
	assert.Equal(t, ExitUsage, res.code)
	assert.Contains(t, res.stderr, "holds nucleotide categories")
}

func TestReport_FromStore(t *testing.T) {
	home := t.TempDir()
	args := storeArgs(home)

	res := runCLI(t, home, "", append([]string{"import", sampleMAF}, args...)...)
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	outDir := filepath.Join(home, "out")
	res = runCLI(t, home, "", append([]string{"report", "-o", outDir}, args...)...)
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	data, err := os.ReadFile(filepath.Join(outDir, "nuc_mut_type_cts.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "substitution\t3\n")
	assert.Contains(t, string(data), "deletion\t2\n")
}

func TestConfig(t *testing.T) {
	home := t.TempDir()
	cfgFile := filepath.Join(home, "config.yaml")

	res := runCLI(t, home, "", "config", "--config", cfgFile, "set", "store.driver", "sqlite")
	require.Equal(t, ExitError, res.code, "config file must exist when named explicitly")

	require.NoError(t, os.WriteFile(cfgFile, []byte("log:\n  level: warn\n"), 0644))

	res = runCLI(t, home, "", "config", "--config", cfgFile, "set", "store.driver", "sqlite")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Set store.driver = sqlite in "+cfgFile)

	res = runCLI(t, home, "", "config", "--config", cfgFile, "get", "store.driver")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "sqlite\n", res.stdout)

	res = runCLI(t, home, "", "config", "--config", cfgFile)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "driver: sqlite")

	res = runCLI(t, home, "", "config", "--config", cfgFile, "set", "store.driver", "postgres")
	assert.Equal(t, ExitError, res.code)
	assert.Contains(t, res.stderr, "store.driver must be one of")

	res = runCLI(t, home, "", "config", "--config", cfgFile, "get", "no.such.key")
	assert.Equal(t, ExitError, res.code)
}

func TestInvalidConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("VIBE_MUTSTRAT_STORE_DRIVER", "postgres")
	res := runCLI(t, home, "", "count", sampleMAF)
	assert.Equal(t, ExitError, res.code)
	assert.Contains(t, res.stderr, "invalid config")
}
