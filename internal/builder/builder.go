// internal/builder/builder.go
package builder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"qmrdoc/internal/catalog"
	"qmrdoc/internal/config"
	"qmrdoc/internal/embed"
	"qmrdoc/internal/preview"
	"qmrdoc/internal/toc"
)

type BuildOptions struct {
	CleanDestination bool
	Sanitize         bool
	Preview          bool
	SkipTOC          bool
}

// Result summarizes one build.
type Result struct {
	Models       int
	Categories   int
	Pages        int
	PreviewPages int
	TOCUpdated   bool
}

// CatalogOptions maps the site configuration onto a catalog scan.
func CatalogOptions(cfg config.Config, log zerolog.Logger) catalog.Options {
	return catalog.Options{
		ModelsDir:     cfg.ModelsDir,
		DataDir:       cfg.DataDir,
		ModelPattern:  cfg.ModelPattern,
		CommentMarker: cfg.CommentMarker,
		DemoSuffix:    cfg.DemoSuffix,
		CaseSensitive: cfg.CaseSensitiveDemo,
		RootCategory:  cfg.RootCategory,
		Sort:          cfg.SortCategories,
		Titles:        cfg.Titles,
		Logger:        log,
	}
}

// TOCOptions maps the site configuration onto the index splicer.
func TOCOptions(cfg config.Config) toc.Options {
	return toc.Options{
		StartMarker: cfg.TOC.StartMarker,
		EndMarker:   cfg.TOC.EndMarker,
		MaxDepth:    cfg.TOC.MaxDepth,
		PageSuffix:  cfg.DemoSuffix,
	}
}

// Build scans the models, embeds every demo report, then rewrites the table
// of contents in the index page. Any embedding failure aborts the build; a
// missing start marker in the index is only reported.
func Build(cfg config.Config, opts BuildOptions, log zerolog.Logger) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return Result{}, err
	}

	if opts.CleanDestination {
		log.Info().Str("dir", cfg.OutputDir).Msg("cleaning generated pages")
		if err := cleanGenerated(cfg); err != nil {
			return Result{}, err
		}
	}

	cat, err := catalog.Build(CatalogOptions(cfg, log))
	if err != nil {
		return Result{}, err
	}
	res := Result{Models: len(cat.Models), Categories: cat.Categories.Len()}
	log.Info().Int("models", res.Models).Int("categories", res.Categories).Msg("catalog built")

	emb := embed.New(cfg.StaticDir, log)
	emb.Sanitize = cfg.Sanitize || opts.Sanitize
	pages := make(map[string]*embed.Page)
	for _, m := range cat.Demos() {
		dst := cfg.PagePath(m.Stem)
		page, err := emb.Embed(dst, m.DemoPath, m.Title())
		if err != nil {
			return res, fmt.Errorf("failed to embed demo for %s: %w", m.Stem, err)
		}
		pages[m.Stem] = page
		res.Pages++
		log.Info().Str("model", m.Stem).Str("page", dst).Msg("demo embedded")
	}

	if !opts.SkipTOC {
		updated, err := SpliceTOC(cfg, cat, log)
		if err != nil {
			return res, err
		}
		res.TOCUpdated = updated
	}

	if opts.Preview {
		n, err := preview.Render(cfg.PreviewPath(), cat, pages, cfg.DemoSuffix)
		if err != nil {
			return res, err
		}
		res.PreviewPages = n
	}
	return res, nil
}

// SpliceTOC regenerates the table of contents in cfg.IndexFile. It reports
// false without error when the index has no start marker.
func SpliceTOC(cfg config.Config, cat *catalog.Catalog, log zerolog.Logger) (bool, error) {
	opts := TOCOptions(cfg)
	res, err := toc.SpliceFile(cfg.IndexFile, toc.Generate(cat, opts), opts)
	if errors.Is(err, toc.ErrStartMarkerNotFound) {
		log.Warn().Str("index", cfg.IndexFile).Str("marker", opts.StartMarker).Msg("start marker not found, index left unchanged")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !res.Closed {
		log.Warn().Str("index", cfg.IndexFile).Str("marker", opts.EndMarker).Msg("end marker not found, replaced the rest of the index")
	}
	log.Info().Str("index", cfg.IndexFile).Int("dropped", res.Dropped).Msg("table of contents updated")
	return true, nil
}

// cleanGenerated removes pages written by earlier builds and the preview
// directory. Hand-written sources in the output directory are kept.
func cleanGenerated(cfg config.Config) error {
	entries, err := os.ReadDir(cfg.OutputDir)
	if err != nil {
		return err
	}
	suffix := cfg.DemoSuffix + ".rst"
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		if err := os.Remove(filepath.Join(cfg.OutputDir, entry.Name())); err != nil {
			return err
		}
	}
	return os.RemoveAll(cfg.PreviewPath())
}

// IsGenerated reports whether p is written by Build: embedded pages, copied
// images, preview files and the temporary files used for atomic writes.
func IsGenerated(cfg config.Config, p string) bool {
	base := filepath.Base(p)
	if strings.HasPrefix(base, ".") && strings.Contains(base, ".tmp-") {
		return true
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	for _, dir := range []string{filepath.Join(cfg.OutputDir, cfg.StaticDir), cfg.PreviewPath()} {
		if d, err := filepath.Abs(dir); err == nil && (abs == d || strings.HasPrefix(abs, d+string(filepath.Separator))) {
			return true
		}
	}
	out, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return false
	}
	return filepath.Dir(abs) == out && strings.HasSuffix(base, cfg.DemoSuffix+".rst")
}
