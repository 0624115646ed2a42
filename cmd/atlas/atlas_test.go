package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fra-atlas/atlas/pkg/extract"
	"github.com/fra-atlas/atlas/pkg/quality"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidateCommand(t *testing.T) {
	path := writeFile(t, "claims.csv", "village,claims\nMandla,\nMandla,\nDindori,2\n")

	out, err := run(t, "validate", path, "--type", "claims")
	require.NoError(t, err)

	var report quality.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 0.5, report.ConfidenceScore)
	assert.Equal(t, 3, report.TotalRows)

	_, err = run(t, "validate", path)
	assert.Error(t, err, "missing --type")

	_, err = run(t, "validate", writeFile(t, "claims.txt", "a,b\n"), "--type", "claims")
	assert.Error(t, err)
}

func TestExtractCommand(t *testing.T) {
	path := writeFile(t, "form.txt", "FORM A - Individual Forest Right\nName: Rajesh Kumar\nFather: Mohan Lal\nVillage: Banswara")

	out, err := run(t, "extract", path)
	require.NoError(t, err)

	var result extract.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, extract.FormA, result.FormType)
	assert.Equal(t, "Mohan Lal", result.Entities.String("father_name"))

	out, err = run(t, "extract", path, "--form", "FORM_C")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, extract.FormC, result.FormType)

	_, err = run(t, "extract", path, "--language", "tamil")
	assert.ErrorIs(t, err, extract.ErrUnsupportedLanguage)

	_, err = run(t, "extract", writeFile(t, "blank.txt", "   "))
	assert.ErrorIs(t, err, extract.ErrNoTextExtracted)
}

func TestFormsCommand(t *testing.T) {
	out, err := run(t, "forms")
	require.NoError(t, err)
	for _, form := range []string{"FORM_A", "FORM_B", "FORM_C", "UNKNOWN"} {
		assert.Contains(t, out, form)
	}

	out, err = run(t, "forms", "--json")
	require.NoError(t, err)

	var forms map[string][]string
	require.NoError(t, json.Unmarshal([]byte(out), &forms))
	assert.Contains(t, forms["FORM_A"], "father_name")

	_, err = run(t, "forms", "--forms", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
