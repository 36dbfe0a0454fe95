// internal/preview/preview.go
package preview

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmutil "github.com/yuin/goldmark/util"

	"qmrdoc/internal/catalog"
	"qmrdoc/internal/embed"
	"qmrdoc/internal/util"
)

var (
	markdownRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(gmutil.Prioritized(newRSTLinkTransformer(), 100)),
		),
	)
	layout = template.Must(template.New("layout").Parse(layoutTemplate))
)

// PageData is what the layout template receives.
type PageData struct {
	Title      string
	Stylesheet template.HTML
	Content    template.HTML
	IsIndex    bool
}

// Render writes an HTML preview of the documentation into dir: an index
// listing every model by category and one page per embedded demo. Images
// referenced by the pages are copied next to them.
func Render(dir string, cat *catalog.Catalog, pages map[string]*embed.Page, pageSuffix string) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}

	var index bytes.Buffer
	if err := markdownRenderer.Convert([]byte(IndexMarkdown(cat, pageSuffix)), &index); err != nil {
		return 0, fmt.Errorf("failed to render preview index: %w", err)
	}
	if err := renderPage(filepath.Join(dir, "index.html"), PageData{
		Title:   "Models",
		Content: template.HTML(index.String()),
		IsIndex: true,
	}); err != nil {
		return 0, err
	}

	written := 1
	for _, m := range cat.Demos() {
		page, ok := pages[m.Stem]
		if !ok {
			continue
		}
		for _, a := range page.Assets {
			if err := util.CopyFile(a.Source, filepath.Join(dir, filepath.FromSlash(a.Dest))); err != nil {
				return written, fmt.Errorf("failed to copy preview image %s: %w", a.Source, err)
			}
		}
		data := PageData{
			Title:      page.Title,
			Stylesheet: template.HTML(embed.Stylesheet()),
			Content:    template.HTML(page.Payload),
		}
		if err := renderPage(filepath.Join(dir, m.Stem+pageSuffix+".html"), data); err != nil {
			return written, fmt.Errorf("failed to render preview for %s: %w", m.Stem, err)
		}
		written++
	}
	return written, nil
}

// IndexMarkdown lists the catalog as Markdown, linking models that have a
// demo page by their Sphinx source name.
func IndexMarkdown(cat *catalog.Catalog, pageSuffix string) string {
	var b strings.Builder
	b.WriteString("# Models\n")
	for _, category := range cat.Categories.Values() {
		fmt.Fprintf(&b, "\n## %s\n\n", escapeMarkdown(category))
		for _, m := range cat.ModelsIn(category) {
			name := escapeMarkdown(m.Title())
			if m.HasDemo {
				fmt.Fprintf(&b, "- [%s](%s%s.rst)\n", name, m.Stem, pageSuffix)
			} else {
				fmt.Fprintf(&b, "- %s\n", name)
			}
		}
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`,
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "#", `\#`,
)

func escapeMarkdown(s string) string { return markdownEscaper.Replace(s) }

// renderPage executes the layout and writes the output to a file.
func renderPage(outPath string, data PageData) error {
	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer outFile.Close()
	return layout.Execute(outFile, data)
}

const layoutTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{ .Title }}</title>
  <style>
    body { font-family: sans-serif; max-width: 960px; margin: 2em auto; padding: 0 1em; color: #222; }
    nav { font-size: 0.9em; margin-bottom: 1em; }
  </style>
  {{ .Stylesheet }}
</head>
<body>
  {{ if not .IsIndex }}<nav><a href="index.html">&larr; all models</a></nav>
  <h1>{{ .Title }}</h1>{{ end }}
  <main>
{{ .Content }}
  </main>
</body>
</html>
`
