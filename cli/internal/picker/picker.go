// Package picker implements the interactive-choice collaborator: it shows
// the candidate URLs and returns the one the user picks, or nothing on
// cancel. A full-screen tcell list is used when a terminal is available,
// falling back to a numbered stderr/stdin prompt otherwise.
package picker

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"openref/cli/internal/dispatch"
)

// Picker asks the user to disambiguate between candidates. Zero value uses
// the terminal, falling back to os.Stdin/os.Stderr prompting.
type Picker struct {
	In  io.Reader // prompt input; nil = os.Stdin
	Out io.Writer // prompt output; nil = os.Stderr
}

// Choose implements dispatch.Chooser.
func (p *Picker) Choose(cands []dispatch.Candidate) (dispatch.Candidate, bool) {
	if len(cands) == 0 {
		return dispatch.Candidate{}, false
	}
	if screen, err := tcell.NewScreen(); err == nil {
		if err := screen.Init(); err == nil {
			return chooseScreen(screen, cands)
		}
	}
	return p.choosePrompt(cands)
}

// chooseScreen runs the selection loop on an initialized screen and takes
// ownership of finalizing it.
func chooseScreen(screen tcell.Screen, cands []dispatch.Candidate) (dispatch.Candidate, bool) {
	defer screen.Fini()

	selected := 0
	for {
		draw(screen, cands, selected)
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q':
				return dispatch.Candidate{}, false
			case ev.Key() == tcell.KeyEnter:
				return cands[selected], true
			case ev.Key() == tcell.KeyUp || ev.Rune() == 'k':
				if selected > 0 {
					selected--
				}
			case ev.Key() == tcell.KeyDown || ev.Rune() == 'j':
				if selected < len(cands)-1 {
					selected++
				}
			case ev.Rune() >= '1' && ev.Rune() <= '9':
				if n := int(ev.Rune() - '1'); n < len(cands) {
					return cands[n], true
				}
			}
		}
	}
}

const title = "Open which URL?  (enter opens, esc cancels)"

func draw(screen tcell.Screen, cands []dispatch.Candidate, selected int) {
	screen.Clear()
	putString(screen, 0, 0, title, tcell.StyleDefault.Bold(true))
	for i, c := range cands {
		style := tcell.StyleDefault
		if i == selected {
			style = style.Reverse(true)
		}
		putString(screen, 0, i+2, Label(i, c), style)
	}
	screen.Show()
}

func putString(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// Label formats one candidate row: "3. issue      https://...".
func Label(i int, c dispatch.Candidate) string {
	return fmt.Sprintf("%d. %-12s %s", i+1, c.Handler, c.URL)
}

// choosePrompt is the line-based fallback for environments without a
// usable terminal (pipes, tests, dumb terminals).
func (p *Picker) choosePrompt(cands []dispatch.Candidate) (dispatch.Candidate, bool) {
	in := p.In
	if in == nil {
		in = os.Stdin
	}
	out := p.Out
	if out == nil {
		out = os.Stderr
	}
	for i, c := range cands {
		fmt.Fprintln(out, Label(i, c))
	}
	fmt.Fprintf(out, "Open which URL? [1-%d, empty cancels]: ", len(cands))
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return dispatch.Candidate{}, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(cands) {
		return dispatch.Candidate{}, false
	}
	return cands[n-1], true
}
