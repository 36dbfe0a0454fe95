// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure returned from Validate.
var ErrInvalid = errors.New("invalid config")

// TOCConfig controls how the table of contents is spliced into the index page.
type TOCConfig struct {
	StartMarker string `yaml:"start_marker" toml:"start_marker"`
	EndMarker   string `yaml:"end_marker" toml:"end_marker"`
	MaxDepth    int    `yaml:"maxdepth" toml:"maxdepth"`
}

// LogConfig configures the console logger and the optional rotating log file.
type LogConfig struct {
	Level      string `yaml:"level" toml:"level"`
	File       string `yaml:"file" toml:"file"`
	MaxSize    int    `yaml:"max_size" toml:"max_size"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
	MaxAge     int    `yaml:"max_age" toml:"max_age"`
	Compress   bool   `yaml:"compress" toml:"compress"`
}

// Config holds the configuration from the docs.yaml (or docs.toml) file.
type Config struct {
	ModelsDir         string            `yaml:"models_dir" toml:"models_dir"`
	DataDir           string            `yaml:"data_dir" toml:"data_dir"`
	OutputDir         string            `yaml:"output_dir" toml:"output_dir"`
	IndexFile         string            `yaml:"index_file" toml:"index_file"`
	StaticDir         string            `yaml:"static_dir" toml:"static_dir"`
	PreviewDir        string            `yaml:"preview_dir" toml:"preview_dir"`
	ModelPattern      string            `yaml:"model_pattern" toml:"model_pattern"`
	CommentMarker     string            `yaml:"comment_marker" toml:"comment_marker"`
	DemoSuffix        string            `yaml:"demo_suffix" toml:"demo_suffix"`
	CaseSensitiveDemo bool              `yaml:"case_sensitive_demo" toml:"case_sensitive_demo"`
	RootCategory      string            `yaml:"root_category" toml:"root_category"`
	SortCategories    bool              `yaml:"sort_categories" toml:"sort_categories"`
	Sanitize          bool              `yaml:"sanitize" toml:"sanitize"`
	Titles            map[string]string `yaml:"titles" toml:"titles"`
	TOC               TOCConfig         `yaml:"toc" toml:"toc"`
	Log               LogConfig         `yaml:"log" toml:"log"`
}

// Default returns the layout used by the toolbox repository: models under
// ../Models, demo reports under ../Data and the Sphinx sources in ./source.
func Default() Config {
	return Config{
		ModelsDir:     "../Models",
		DataDir:       "../Data",
		OutputDir:     "source",
		IndexFile:     filepath.Join("source", "documentation.rst"),
		StaticDir:     "_static",
		PreviewDir:    "_preview",
		ModelPattern:  "**/*.m",
		CommentMarker: "%",
		DemoSuffix:    "_batch",
		RootCategory:  "Uncategorized",
		TOC: TOCConfig{
			StartMarker: "Methods available",
			EndMarker:   "Getting started",
			MaxDepth:    1,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// Load reads a configuration file on top of Default. The decoder is chosen
// by extension: .yaml/.yml or .toml.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("unsupported config extension %q", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when the file
// does not exist. The returned bool reports whether a file was read.
func LoadOrDefault(path string) (Config, bool, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), false, nil
	}
	if err != nil {
		return Config{}, false, err
	}
	return cfg, true, nil
}

// Validate reports the first setting that would make a build meaningless.
func (c Config) Validate() error {
	required := []struct{ name, value string }{
		{"models_dir", c.ModelsDir},
		{"data_dir", c.DataDir},
		{"output_dir", c.OutputDir},
		{"index_file", c.IndexFile},
		{"static_dir", c.StaticDir},
		{"model_pattern", c.ModelPattern},
		{"comment_marker", c.CommentMarker},
		{"demo_suffix", c.DemoSuffix},
		{"toc.start_marker", c.TOC.StartMarker},
		{"toc.end_marker", c.TOC.EndMarker},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s must not be empty", ErrInvalid, r.name)
		}
	}
	if c.TOC.MaxDepth < 1 {
		return fmt.Errorf("%w: toc.maxdepth must be at least 1, got %d", ErrInvalid, c.TOC.MaxDepth)
	}
	if c.TOC.StartMarker == c.TOC.EndMarker {
		return fmt.Errorf("%w: toc start and end markers must differ", ErrInvalid)
	}
	return nil
}

// PagePath returns where the embedded page for a model stem is written.
func (c Config) PagePath(stem string) string {
	return filepath.Join(c.OutputDir, stem+c.DemoSuffix+".rst")
}

// PreviewPath resolves the preview directory relative to the output directory.
func (c Config) PreviewPath() string {
	if filepath.IsAbs(c.PreviewDir) {
		return c.PreviewDir
	}
	return filepath.Join(c.OutputDir, c.PreviewDir)
}
