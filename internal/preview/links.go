// internal/preview/links.go
package preview

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// rstLinkTransformer points links at Sphinx sources (.rst) to the preview
// page rendered for them, so the index can name documents the way the
// table of contents does.
type rstLinkTransformer struct{}

func newRSTLinkTransformer() parser.ASTTransformer {
	return &rstLinkTransformer{}
}

func (t *rstLinkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		if dest := link.Destination; bytes.HasSuffix(dest, []byte(".rst")) {
			newDest := make([]byte, 0, len(dest)+1)
			newDest = append(newDest, bytes.TrimSuffix(dest, []byte(".rst"))...)
			link.Destination = append(newDest, ".html"...)
		}
		return ast.WalkContinue, nil
	})
}
