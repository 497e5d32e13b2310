// Package textsource acquires the "primary text" for a dispatch: the line or
// word under a cursor position in a file, or a selection read from a stream.
package textsource

import (
	"bufio"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"openref/cli/internal/erruser"
)

const maxLineSize = 1024 * 1024

// LineAt returns the 1-based line of the file, without its trailing newline.
func LineAt(path string, line int) (string, error) {
	if line <= 0 {
		return "", erruser.New("Line numbers start at 1.", nil)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", erruser.New("Could not read "+path+".", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	n := 0
	for sc.Scan() {
		n++
		if n == line {
			return strings.TrimRight(sc.Text(), "\r"), nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", erruser.New("Could not read "+path+".", err)
	}
	return "", erruser.New("The file has no such line.", nil)
}

// WordAt returns the whitespace-delimited token covering the 1-based column
// of the line. URLs and package paths contain punctuation, so the token runs
// to the nearest whitespace on both sides. A column on whitespace or past the
// end of the line yields an error.
func WordAt(path string, line, col int) (string, error) {
	text, err := LineAt(path, line)
	if err != nil {
		return "", err
	}
	runes := []rune(text)
	if col <= 0 || col > len(runes) {
		return "", erruser.New("The column is outside the line.", nil)
	}
	i := col - 1
	if unicode.IsSpace(runes[i]) {
		return "", erruser.New("No word under the cursor.", nil)
	}
	start, end := i, i+1
	for start > 0 && !unicode.IsSpace(runes[start-1]) {
		start--
	}
	for end < len(runes) && !unicode.IsSpace(runes[end]) {
		end++
	}
	return string(runes[start:end]), nil
}

// Selection reads r fully and returns the content with newlines stripped, the
// way a multi-line editor selection is flattened before matching.
func Selection(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxLineSize))
	if err != nil {
		return "", erruser.New("Could not read the selection.", err)
	}
	if !utf8.Valid(data) {
		return "", erruser.New("The selection is not valid text.", nil)
	}
	s := strings.ReplaceAll(string(data), "\r", "")
	return strings.ReplaceAll(s, "\n", ""), nil
}
