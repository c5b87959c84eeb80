package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func writeProducts(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Widget", 5, 10}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Gadget", 2, 20}))

	path := filepath.Join(t.TempDir(), "products.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestGenerateCommand(t *testing.T) {
	input := writeProducts(t)
	outDir := t.TempDir()

	out, err := execute(t, "generate", input, "--barcode", "0099", "--zip=false", "--out", outDir)
	require.NoError(t, err)

	assert.Contains(t, out, "Products: 2")
	assert.Contains(t, out, "Barcodes: 0099 - 0100")
	assert.FileExists(t, filepath.Join(outDir, "Номенклатура.csv"))
	assert.FileExists(t, filepath.Join(outDir, "Поступление_товаров.csv"))
}

func TestPreviewCommand(t *testing.T) {
	input := writeProducts(t)

	out, err := execute(t, "preview", input)
	require.NoError(t, err)

	assert.Contains(t, out, "Widget")
	assert.Contains(t, out, "Gadget")
	assert.Contains(t, out, "2 row(s) shown")
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "barcoder.yaml")

	out, err := execute(t, "config", "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "archive_prefix: 1c_files")

	_, err = execute(t, "config", "init", "--path", path)
	assert.Error(t, err, "existing file is not overwritten")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "barcoder "+Version)
}
