package builder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qmrdoc/internal/config"
	"qmrdoc/internal/embed"
)

const indexDoc = `qMRLab
======

Methods available
-----------------

stale

Getting started
---------------
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func project(t *testing.T) config.Config {
	root := t.TempDir()
	models := filepath.Join(root, "Models")
	data := filepath.Join(root, "Data")
	writeFile(t, filepath.Join(models, "T1_relaxometry", "IR.m"), "classdef IR < AbstractModel\n% IR: Inversion Recovery T1 mapping\nend\n")
	writeFile(t, filepath.Join(models, "Diffusion", "DTI.m"), "% DTI: Diffusion Tensor\n")
	writeFile(t, filepath.Join(models, "T1_relaxometry", "VFA_T1.m"), "% VFA_T1: Variable Flip Angle\n")
	writeFile(t, filepath.Join(data, "IR_demo", "html", "IR_batch.html"),
		`<html><body><div class="content"><h1>IR</h1><img src="IR_batch_01.png"></div></body></html>`)
	writeFile(t, filepath.Join(data, "IR_demo", "html", "IR_batch_01.png"), "png")
	writeFile(t, filepath.Join(data, "DTI_demo", "html", "dti_batch.html"), `<div>dti</div>`)

	cfg := config.Default()
	cfg.ModelsDir = models
	cfg.DataDir = data
	cfg.OutputDir = filepath.Join(root, "source")
	cfg.IndexFile = filepath.Join(cfg.OutputDir, "documentation.rst")
	writeFile(t, cfg.IndexFile, indexDoc)
	return cfg
}

func TestBuildEndToEnd(t *testing.T) {
	cfg := project(t)
	res, err := Build(cfg, BuildOptions{}, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Models)
	assert.Equal(t, 2, res.Categories)
	assert.Equal(t, 2, res.Pages)
	assert.True(t, res.TOCUpdated)

	for _, stem := range []string{"IR", "DTI"} {
		data, err := os.ReadFile(cfg.PagePath(stem))
		require.NoError(t, err, "every demo must have a page")
		lines := strings.SplitN(string(data), "\n", 3)
		assert.Equal(t, strings.Repeat("=", len([]rune(lines[0]))), lines[1])
	}
	_, err = os.Stat(filepath.Join(cfg.OutputDir, "_static", "IR_batch_01.png"))
	require.NoError(t, err)

	index, err := os.ReadFile(cfg.IndexFile)
	require.NoError(t, err)
	want := `qMRLab
======

Methods available
-----------------

Diffusion
~~~~~~~~~

.. toctree::
	:maxdepth: 1

	DTI_batch

T1_relaxometry
~~~~~~~~~~~~~~

.. toctree::
	:maxdepth: 1

	IR_batch

* VFA_T1: Variable Flip Angle

Getting started
---------------
`
	assert.Equal(t, want, string(index))
}

func TestBuildCaseSensitiveSkipsMismatchedDemo(t *testing.T) {
	cfg := project(t)
	cfg.CaseSensitiveDemo = true
	res, err := Build(cfg, BuildOptions{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pages, "dti_batch.html does not match DTI when case sensitive")

	_, err = os.Stat(cfg.PagePath("DTI"))
	assert.True(t, os.IsNotExist(err))
}

func TestBuildMissingMarkerIsNotFatal(t *testing.T) {
	cfg := project(t)
	writeFile(t, cfg.IndexFile, "no markers here\n")
	res, err := Build(cfg, BuildOptions{}, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, res.TOCUpdated)

	data, err := os.ReadFile(cfg.IndexFile)
	require.NoError(t, err)
	assert.Equal(t, "no markers here\n", string(data))
}

func TestBuildAbortsOnMissingSrc(t *testing.T) {
	cfg := project(t)
	writeFile(t, filepath.Join(cfg.DataDir, "IR_demo", "html", "IR_batch.html"), `<div><img alt="x"></div>`)
	_, err := Build(cfg, BuildOptions{}, zerolog.Nop())
	require.ErrorIs(t, err, embed.ErrImageMissingSrc)

	index, err := os.ReadFile(cfg.IndexFile)
	require.NoError(t, err)
	assert.Equal(t, indexDoc, string(index), "index is not touched when the build aborts")
}

func TestBuildCleanAndPreview(t *testing.T) {
	cfg := project(t)
	stale := filepath.Join(cfg.OutputDir, "Old_batch.rst")
	keep := filepath.Join(cfg.OutputDir, "install.rst")
	writeFile(t, stale, "old")
	writeFile(t, keep, "hand written")

	res, err := Build(cfg, BuildOptions{CleanDestination: true, Preview: true, SkipTOC: true}, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, res.TOCUpdated)
	assert.Equal(t, 3, res.PreviewPages)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(keep)
	require.NoError(t, err)

	for _, name := range []string{"index.html", "IR_batch.html", "DTI_batch.html", filepath.Join("_static", "IR_batch_01.png")} {
		_, err := os.Stat(filepath.Join(cfg.PreviewPath(), name))
		require.NoError(t, err, name)
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := project(t)
	cfg.TOC.MaxDepth = 0
	_, err := Build(cfg, BuildOptions{}, zerolog.Nop())
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestIsGenerated(t *testing.T) {
	cfg := config.Default()
	cases := map[string]bool{
		filepath.Join("source", "IR_batch.rst"):                 true,
		filepath.Join("source", "_static", "IR_batch_01.png"):   true,
		filepath.Join("source", "_preview", "index.html"):       true,
		filepath.Join("source", ".documentation.rst.tmp-123"):   true,
		filepath.Join("source", "documentation.rst"):            false,
		filepath.Join("source", "sub", "IR_batch.rst"):          false,
		filepath.Join("..", "Models", "T1_relaxometry", "IR.m"): false,
	}
	for p, want := range cases {
		assert.Equal(t, want, IsGenerated(cfg, p), p)
	}
}
