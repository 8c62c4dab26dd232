package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteReportDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	written, err := WriteReportDir(dir, testReport(t))
	require.NoError(t, err)
	require.Len(t, written, len(ReportFiles)+1)
	assert.Equal(t, filepath.Join(dir, GeneTypeFile), written[len(written)-1])

	data, err := os.ReadFile(filepath.Join(dir, "nuc_mut_type_cts.txt"))
	require.NoError(t, err)
	assert.Equal(t, "category\tcount\nsubstitution\t3\ninsertion\t0\ndeletion\t1\nunclassified\t0\n", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "aa_onco_mut_type_cts.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "missense\t1\n")

	data, err = os.ReadFile(filepath.Join(dir, "aa_tsg_mut_type_cts.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "nonsense\t1\n")
	assert.Contains(t, string(data), "frame_shift\t1\n")

	data, err = os.ReadFile(filepath.Join(dir, GeneTypeFile))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "gene_type\t"))
}

func TestWriteReportDir_NotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := WriteReportDir(path, testReport(t))
	assert.Error(t, err)
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteWorkbook(path, testReport(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"aa", "nuc", "aa_onco", "nuc_onco", "aa_tsg", "nuc_tsg", GeneTypeSheet}, f.GetSheetList())

	rows, err := f.GetRows("aa")
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, []string{"category", "count"}, rows[0])
	assert.Equal(t, []string{"missense", "1"}, rows[1])
	assert.Equal(t, []string{"frame_shift", "1"}, rows[3])

	rows, err = f.GetRows("nuc_tsg")
	require.NoError(t, err)
	assert.Equal(t, []string{"deletion", "1"}, rows[3])

	rows, err = f.GetRows(GeneTypeSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "gene_type", rows[0][0])
	assert.Equal(t, []string{"other", "0", "0", "0", "0", "1", "0"}, rows[3])
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "aa_onco", SheetName("aa_onco_mut_type_cts.txt"))
	assert.Equal(t, "nuc", SheetName("nuc_mut_type_cts.txt"))
}
