// Package toc regenerates the model table of contents inside the
// hand-written documentation index.
package toc

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"qmrdoc/internal/catalog"
	"qmrdoc/internal/util"
)

// ErrStartMarkerNotFound is returned when the index has no start marker line.
// The document is left untouched in that case.
var ErrStartMarkerNotFound = errors.New("toc start marker not found")

// Options names the sentinel lines and how entries are rendered.
type Options struct {
	StartMarker string
	EndMarker   string
	MaxDepth    int
	PageSuffix  string // appended to a model stem to name its embedded page
}

// Result describes what Splice did.
type Result struct {
	Found   bool // start marker seen
	Closed  bool // end marker seen after the start marker
	Dropped int  // lines of the previous table removed
}

// Generate renders the table of contents: one "~"-underlined heading per
// category, then a toctree entry for each model with a demo page or a
// bullet with its name otherwise.
func Generate(cat *catalog.Catalog, opts Options) string {
	var b strings.Builder
	for _, category := range cat.Categories.Values() {
		b.WriteString(category + "\n")
		b.WriteString(util.Underline(category, '~') + "\n\n")
		for _, m := range cat.ModelsIn(category) {
			if m.HasDemo {
				b.WriteString(".. toctree::\n")
				fmt.Fprintf(&b, "\t:maxdepth: %d\n\n", opts.MaxDepth)
				b.WriteString("\t" + m.Stem + opts.PageSuffix + "\n\n")
				continue
			}
			b.WriteString("* " + m.Title() + "\n\n")
		}
	}
	return b.String()
}

// Splice copies r to w, replacing everything between the start marker line
// and the end marker line with the marker, its "-" underline, a blank line
// and block. The end marker and all lines after it pass through. Only the
// first start marker is honored.
func Splice(r io.Reader, w io.Writer, block string, opts Options) (Result, error) {
	var (
		res      Result
		inRegion bool
	)
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	for {
		line, readErr := br.ReadString('\n')
		if line != "" {
			text := strings.TrimRight(line, "\r\n")
			switch {
			case !res.Found && text == opts.StartMarker:
				res.Found = true
				inRegion = true
				if !strings.HasSuffix(line, "\n") {
					line += "\n"
				}
				bw.WriteString(line)
				bw.WriteString(util.Underline(text, '-') + "\n\n")
				bw.WriteString(block)
			case inRegion && text == opts.EndMarker:
				inRegion = false
				res.Closed = true
				bw.WriteString(line)
			case inRegion:
				res.Dropped++
			default:
				bw.WriteString(line)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return res, readErr
		}
	}

	if err := bw.Flush(); err != nil {
		return res, err
	}
	if !res.Found {
		return res, ErrStartMarkerNotFound
	}
	return res, nil
}

// SpliceFile rewrites the index at path in place. The new content is
// written to a temporary file in the same directory and renamed over path.
func SpliceFile(path, block string, opts Options) (Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read index %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return Result{}, err
	}

	var out bytes.Buffer
	res, err := Splice(bytes.NewReader(src), &out, block, opts)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	if err := util.WriteFileAtomic(path, out.Bytes(), info.Mode().Perm()); err != nil {
		return res, err
	}
	return res, nil
}
