package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictRejectsUnknownFormatBeforeWriting(t *testing.T) {
	out := filepath.Join(t.TempDir(), "week1.xml")
	t.Cleanup(func() { predictFormat, predictOutput = "console", "" })

	rootCmd.SetArgs([]string{"predict", "--config", "testdata/missing.yaml",
		"--season", "2023", "--week", "1", "--format", "xml", "-o", out})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "xml"`)
	assert.NoFileExists(t, out)
}
