// Package catalog discovers model source files and the demo reports that
// belong to them.
package catalog

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
)

// ModelRecord describes one model file. It is created once per build and
// never modified afterwards.
type ModelRecord struct {
	Stem        string `json:"stem"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
	HasDemo     bool   `json:"has_demo"`
	SourcePath  string `json:"source_path"`
	DemoPath    string `json:"demo_path,omitempty"`
}

// Title is the heading used for the model's embedded demo page.
func (m ModelRecord) Title() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.Stem
}

// Catalog is the result of a scan: models and categories in discovery order.
type Catalog struct {
	Models     []ModelRecord
	Categories *OrderedSet
}

// ModelsIn returns the models of one category, preserving catalog order.
func (c *Catalog) ModelsIn(category string) []ModelRecord {
	var out []ModelRecord
	for _, m := range c.Models {
		if m.Category == category {
			out = append(out, m)
		}
	}
	return out
}

// Demos returns the models that have a demo report.
func (c *Catalog) Demos() []ModelRecord {
	var out []ModelRecord
	for _, m := range c.Models {
		if m.HasDemo {
			out = append(out, m)
		}
	}
	return out
}

// Options controls a catalog scan.
type Options struct {
	ModelsDir     string
	DataDir       string
	ModelPattern  string // doublestar glob matched against the slash path below ModelsDir
	CommentMarker string
	DemoSuffix    string
	CaseSensitive bool
	RootCategory  string
	Sort          bool
	Titles        map[string]string
	Logger        zerolog.Logger
}

// Build walks opts.ModelsDir and returns one record per model file. Demo
// reports are located by scanning opts.DataDir once.
func Build(opts Options) (*Catalog, error) {
	if !doublestar.ValidatePattern(opts.ModelPattern) {
		return nil, fmt.Errorf("invalid model pattern %q", opts.ModelPattern)
	}

	demos, err := indexDemos(opts.DataDir, opts.DemoSuffix, opts.CaseSensitive)
	if err != nil {
		return nil, err
	}

	cat := &Catalog{Categories: NewOrderedSet()}
	err = filepath.WalkDir(opts.ModelsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(opts.ModelsDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if ok, _ := doublestar.Match(opts.ModelPattern, rel); !ok {
			return nil
		}

		record, err := buildRecord(p, rel, demos, opts)
		if err != nil {
			return err
		}
		cat.Categories.Add(record.Category)
		cat.Models = append(cat.Models, record)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan models in %s: %w", opts.ModelsDir, err)
	}

	if opts.Sort {
		cat.Categories.Sort()
	}
	return cat, nil
}

func buildRecord(p, rel string, demos map[string]string, opts Options) (ModelRecord, error) {
	base := path.Base(rel)
	stem := strings.TrimSuffix(base, path.Ext(base))

	name, ok := opts.Titles[stem]
	if !ok {
		var err error
		name, err = ReadDisplayName(p, opts.CommentMarker)
		if err != nil {
			return ModelRecord{}, fmt.Errorf("failed to read %s: %w", p, err)
		}
		if name == "" {
			opts.Logger.Debug().Str("file", p).Msg("no display name comment found")
		}
	}

	record := ModelRecord{
		Stem:        stem,
		DisplayName: name,
		Category:    categoryOf(rel, opts.RootCategory),
		SourcePath:  p,
	}
	if demo, ok := demos[demoKey(stem, opts.CaseSensitive)]; ok {
		record.HasDemo = true
		record.DemoPath = demo
	}
	return record, nil
}

// categoryOf returns the first directory segment of a slash-separated path
// relative to the models root.
func categoryOf(rel, rootCategory string) string {
	dir := path.Dir(rel)
	if dir == "." {
		return rootCategory
	}
	if i := strings.IndexByte(dir, '/'); i >= 0 {
		return dir[:i]
	}
	return dir
}

// ReadDisplayName returns the text following marker on the first line that
// starts with it, ignoring leading whitespace. It returns "" if no line does.
func ReadDisplayName(path, marker string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimLeft(scanner.Text(), " \t")
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(strings.TrimPrefix(line, marker)), nil
		}
	}
	return "", scanner.Err()
}

// indexDemos maps model keys to demo report paths. A report is any
// "<name><suffix>.html" file under dataDir; the first one found wins.
func indexDemos(dataDir, suffix string, caseSensitive bool) (map[string]string, error) {
	demos := make(map[string]string)
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		return demos, nil
	}
	want := suffix + ".html"
	err := filepath.WalkDir(dataDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		match, trimmed := name, want
		if !caseSensitive {
			match, trimmed = strings.ToLower(name), strings.ToLower(want)
		}
		if !strings.HasSuffix(match, trimmed) || len(name) == len(want) {
			return nil
		}
		key := demoKey(name[:len(name)-len(want)], caseSensitive)
		if _, seen := demos[key]; !seen {
			demos[key] = p
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan demos in %s: %w", dataDir, err)
	}
	return demos, nil
}

func demoKey(stem string, caseSensitive bool) string {
	if caseSensitive {
		return stem
	}
	return strings.ToLower(stem)
}
