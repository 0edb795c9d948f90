// Package news assembles the changelog for a release: pull request
// summaries (from a GitHub milestone, from per-commit lookups, or from a
// directory of pre-staged markdown snippets), the contributor list, the
// NEWS.md prepend and the version bump of the spec files.
package news

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// notesMarker is the paragraph text announcing the release notes section
// of a pull request body.
const notesMarker = "Release Notes"

// ExtractReleaseNotes scans a pull request body for a paragraph containing
// the "Release Notes" marker and returns the content of the first code
// block that follows it. It returns the empty string when the body has no
// such section, in which case the caller falls back to a synthesized
// title+body line.
func ExtractReleaseNotes(body string) string {
	source := []byte(body)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	inNotes := false
	notes := ""

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || notes != "" {
			return ast.WalkContinue, nil
		}

		switch n.(type) {
		case *ast.Paragraph:
			inNotes = strings.Contains(blockText(n, source), notesMarker)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if inNotes {
				notes = blockText(n, source)
				inNotes = false
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimRight(notes, "\n")
}

// blockText concatenates the raw source lines covered by a block node.
func blockText(n ast.Node, source []byte) string {
	var b strings.Builder
	for i := 0; i < n.Lines().Len(); i++ {
		line := n.Lines().At(i)
		b.Write(line.Value(source))
	}
	return b.String()
}
