// internal/scaffold/scaffold.go
package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"qmrdoc/internal/config"
	"qmrdoc/internal/util"
)

// ErrExists is returned when the target directory already holds a config.
var ErrExists = errors.New("project already initialized")

// CreateProject lays out a documentation project in dir: model and data
// trees, the Sphinx source directory, an index page carrying both table of
// contents markers, and a docs.yaml pointing at all of them.
func CreateProject(dir string) ([]string, error) {
	configPath := filepath.Join(dir, "docs.yaml")
	if util.FileExists(configPath) {
		return nil, fmt.Errorf("%w: %s", ErrExists, configPath)
	}

	cfg := config.Default()
	cfg.ModelsDir = "Models"
	cfg.DataDir = "Data"

	dirs := []string{
		cfg.ModelsDir,
		cfg.DataDir,
		filepath.Join(cfg.OutputDir, cfg.StaticDir),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}

	files := []struct {
		path string
		tmpl string
	}{
		{"docs.yaml", configTemplate},
		{cfg.IndexFile, indexTemplate},
	}
	var created []string
	for _, f := range files {
		content, err := execute(f.tmpl, cfg)
		if err != nil {
			return created, fmt.Errorf("failed to render %s: %w", f.path, err)
		}
		if err := os.WriteFile(filepath.Join(dir, f.path), content, 0644); err != nil {
			return created, fmt.Errorf("failed to write file %s: %w", f.path, err)
		}
		created = append(created, f.path)
	}
	return created, nil
}

func execute(text string, cfg config.Config) ([]byte, error) {
	tmpl, err := template.New("scaffold").Funcs(template.FuncMap{
		"underline": func(s string, ch string) string { return util.Underline(s, []rune(ch)[0]) },
	}).Parse(text)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := tmpl.Execute(&out, cfg); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

const configTemplate = `# qmrdoc configuration
models_dir: {{ .ModelsDir }}
data_dir: {{ .DataDir }}
output_dir: {{ .OutputDir }}
index_file: {{ .IndexFile }}
static_dir: {{ .StaticDir }}
model_pattern: "{{ .ModelPattern }}"
comment_marker: "{{ .CommentMarker }}"
demo_suffix: {{ .DemoSuffix }}
case_sensitive_demo: {{ .CaseSensitiveDemo }}
root_category: {{ .RootCategory }}
sort_categories: {{ .SortCategories }}
sanitize: {{ .Sanitize }}
toc:
  start_marker: {{ .TOC.StartMarker }}
  end_marker: {{ .TOC.EndMarker }}
  maxdepth: {{ .TOC.MaxDepth }}
# titles:
#   IR: Inversion Recovery
log:
  level: {{ .Log.Level }}
`

const indexTemplate = `Documentation
=============

{{ .TOC.StartMarker }}
{{ underline .TOC.StartMarker "-" }}

Run ` + "`qmrdoc gen`" + ` to list the models here.

{{ .TOC.EndMarker }}
{{ underline .TOC.EndMarker "-" }}

`
