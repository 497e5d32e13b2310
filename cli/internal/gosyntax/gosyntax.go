// Package gosyntax answers cursor-position queries against Go source files.
// It backs the goimport handler: given a position inside an import spec, it
// returns the unquoted import path.
package gosyntax

import (
	"go/parser"
	"go/token"
	"os"
	"strconv"
)

const maxFileSize = 1024 * 1024 // skip parsing for files larger than 1 MiB

// Source implements handler.SyntaxSource for Go files.
type Source struct{}

// ImportPathAt parses the file and returns the import path of the import
// spec whose source range encloses (line, col). col <= 0 matches any column
// on the line. A position outside every import spec, an unreadable file, or
// an unparsable import block all yield ok=false.
func (Source) ImportPathAt(path string, line, col int) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || info.Size() > maxFileSize {
		return "", false
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, src, parser.ImportsOnly)
	if err != nil || f == nil {
		return "", false
	}
	for _, imp := range f.Imports {
		start := fset.Position(imp.Pos())
		end := fset.Position(imp.End())
		if line < start.Line || line > end.Line {
			continue
		}
		if col > 0 {
			if line == start.Line && col < start.Column {
				continue
			}
			if line == end.Line && col >= end.Column {
				continue
			}
		}
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			return "", false
		}
		return p, true
	}
	return "", false
}
