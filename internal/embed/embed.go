// Package embed lifts the content of a Matlab-published HTML report into a
// reStructuredText page as a raw HTML block.
package embed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"qmrdoc/internal/util"
)

// ErrImageMissingSrc is returned when an <img> tag carries no src attribute.
// Matlab always writes one, so its absence means the report is malformed.
var ErrImageMissingSrc = errors.New("img tag has no src attribute")

// DefaultIndent nests the payload under the raw directive.
const DefaultIndent = "   "

// Asset is an image referenced by the payload. Dest is slash-separated and
// relative to the destination page's directory.
type Asset struct {
	Source string
	Dest   string
}

// Page is the result of embedding one report.
type Page struct {
	Title   string
	Payload string
	Assets  []Asset
}

// Embedder converts report files. The zero value is not usable; call New.
type Embedder struct {
	StaticDir string
	Indent    string
	Sanitize  bool

	log    zerolog.Logger
	policy *bluemonday.Policy
}

// New returns an Embedder that copies images into staticDir next to the
// destination page.
func New(staticDir string, log zerolog.Logger) *Embedder {
	policy := bluemonday.UGCPolicy()
	policy.AllowStyling()
	return &Embedder{
		StaticDir: staticDir,
		Indent:    DefaultIndent,
		log:       log,
		policy:    policy,
	}
}

// Embed reads the report at src and writes the page to dst. Images are
// copied and dst is written only once the whole report has been read, so a
// failure leaves no output behind.
func (e *Embedder) Embed(dst, src, title string) (*Page, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open report %s: %w", src, err)
	}
	defer f.Close()

	payload, assets, err := e.Extract(f, filepath.Dir(src))
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", src, err)
	}
	if e.Sanitize {
		payload = e.policy.Sanitize(payload)
	}

	dstDir := filepath.Dir(dst)
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return nil, err
	}
	for _, a := range assets {
		if err := util.CopyFile(a.Source, filepath.Join(dstDir, filepath.FromSlash(a.Dest))); err != nil {
			return nil, fmt.Errorf("failed to copy image %s: %w", a.Source, err)
		}
	}

	if err := util.WriteFileAtomic(dst, []byte(Render(title, payload, e.Indent)), 0644); err != nil {
		return nil, err
	}
	e.log.Debug().Str("dst", dst).Int("images", len(assets)).Msg("embedded report")
	return &Page{Title: title, Payload: payload, Assets: assets}, nil
}

// Extract returns the markup found inside <div> elements of r. Tags and text
// are emitted only while at least one div is open. Image sources that exist
// under srcDir are rewritten to the static directory and returned as assets.
func (e *Embedder) Extract(r io.Reader, srcDir string) (string, []Asset, error) {
	z := html.NewTokenizer(r)
	var (
		out    strings.Builder
		assets []Asset
		seen   = make(map[string]bool)
		depth  int
	)

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return out.String(), assets, nil
			}
			return "", nil, z.Err()

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.DataAtom == atom.Img {
				asset, ok, err := e.rewriteImage(&tok, srcDir)
				if err != nil {
					return "", nil, err
				}
				if ok && !seen[asset.Dest] {
					seen[asset.Dest] = true
					assets = append(assets, asset)
				}
			}
			if tt == html.StartTagToken && tok.DataAtom == atom.Div {
				depth++
			}
			if depth > 0 {
				writeTag(&out, tok, tt == html.SelfClosingTagToken)
			}

		case html.EndTagToken:
			tok := z.Token()
			if depth > 0 {
				out.WriteString("</" + tok.Data + ">")
			}
			if tok.DataAtom == atom.Div && depth > 0 {
				depth--
			}

		case html.TextToken:
			if depth > 0 {
				out.Write(z.Raw())
			}
		}
	}
}

func (e *Embedder) rewriteImage(tok *html.Token, srcDir string) (Asset, bool, error) {
	for i, a := range tok.Attr {
		if a.Key != "src" {
			continue
		}
		source := filepath.Join(srcDir, filepath.FromSlash(a.Val))
		if !util.FileExists(source) {
			e.log.Warn().Str("src", a.Val).Msg("image not found, keeping original reference")
			return Asset{}, false, nil
		}
		dest := path.Join(e.StaticDir, filepath.Base(source))
		tok.Attr[i].Val = dest
		return Asset{Source: source, Dest: dest}, true, nil
	}
	return Asset{}, false, fmt.Errorf("%w: %s", ErrImageMissingSrc, tok.String())
}

func writeTag(b *strings.Builder, tok html.Token, selfClosing bool) {
	b.WriteByte('<')
	b.WriteString(tok.Data)
	for _, a := range tok.Attr {
		b.WriteByte(' ')
		if a.Namespace != "" {
			b.WriteString(a.Namespace + ":")
		}
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteByte('"')
	}
	if selfClosing {
		b.WriteString("/")
	}
	b.WriteByte('>')
}

// Render lays out the page: title, "=" underline, the raw directive, then
// the stylesheet and payload with every line indented.
func Render(title, payload, indent string) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(util.Underline(title, '='))
	b.WriteString("\n\n.. raw:: html\n\n")

	body := "\n" + stylesheet + "\n" + strings.ReplaceAll(payload, "\r\n", "\n")
	body = strings.TrimSuffix(body, "\n")
	for _, line := range strings.Split(body, "\n") {
		b.WriteString(indent)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
