package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwaskom/StatApps/internal/config"
	"github.com/mwaskom/StatApps/internal/simerr"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(config.Default())
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--seed", "11", "--n-sim", "300"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestTTestCommand(t *testing.T) {
	out, err := run(t, "ttest", "--effect-size", ".4", "--sample-size", "25")
	require.NoError(t, err)
	assert.Contains(t, out, "Proportion rejected nulls")
}

func TestJSONOutput(t *testing.T) {
	out, err := run(t, "--format", "json", "sampling", "--sd", "3", "--sample-size", "12")
	require.NoError(t, err)

	var decoded struct {
		Request struct {
			PopulationSD float64 `json:"population_sd"`
			SampleSize   int     `json:"sample_size"`
		} `json:"request"`
		SampleMeans []float64 `json:"sample_means"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 12, decoded.Request.SampleSize)
	assert.Len(t, decoded.SampleMeans, 300)
}

func TestSameSeedSameOutput(t *testing.T) {
	a, err := run(t, "bootstrap", "--highlight", "3")
	require.NoError(t, err)
	b, err := run(t, "bootstrap", "--highlight", "3")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestScoreDefaultsToStartingLine(t *testing.T) {
	out, err := run(t, "score")
	require.NoError(t, err)
	assert.Contains(t, out, "sum of squares of residuals")

	out, err = run(t, "score", "--intercept", "2", "--slope", "1.25")
	require.NoError(t, err)
	assert.Contains(t, out, "the chosen line is the true line")
}

func TestInvalidRequest(t *testing.T) {
	_, err := run(t, "ttest", "--sample-size", "80")
	require.Error(t, err)
	assert.ErrorIs(t, err, simerr.ErrInvalidParameter)

	_, err = run(t, "sampling", "--sample-size", "0")
	assert.ErrorIs(t, err, simerr.ErrDegenerateInput)
}

func TestAllWithPlots(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "--plot", filepath.Join(dir, "demo.png"), "all")
	require.NoError(t, err)
	for _, name := range []string{"regression", "bootstrap", "score", "summary", "sampling", "ttest"} {
		assert.Contains(t, out, "==> "+name)
	}
	assert.Contains(t, out, "OLS Regression Results")

	for _, name := range []string{"regression", "bootstrap", "score", "sampling", "ttest"} {
		_, err := os.Stat(filepath.Join(dir, "demo-"+name+".png"))
		assert.NoError(t, err, name)
	}
	_, err = os.Stat(filepath.Join(dir, "demo-summary.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPlotName(t *testing.T) {
	assert.Equal(t, "", plotName("", "ttest"))
	assert.Equal(t, "out/fig-ttest.pdf", plotName("out/fig.pdf", "ttest"))
}
