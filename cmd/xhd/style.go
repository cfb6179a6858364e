package main

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	maxWidth = 72
)

var (
	baseStyle  = lipgloss.NewStyle().Margin(0, 0, 1, 2) //nolint:mnd
	red        = lipgloss.Color(completeColor("#FF4444", "196", "9"))
	errorStyle = baseStyle.
			Foreground(red).
			Background(lipgloss.AdaptiveColor{Light: completeColor("#FFEBEB", "255", "7"), Dark: completeColor("#2B1A1A", "235", "8")}).
			Padding(1, 2) //nolint:mnd
)

func getWidth(maxw int) int {
	w, _, err := term.GetSize(int(os.Stderr.Fd())) //nolint: gosec
	if err != nil || w > maxw {
		return maxWidth
	}
	return w
}

func renderBlock(w io.Writer, s lipgloss.Style, width int, str string) {
	_, _ = io.WriteString(w, s.Width(width).Render(str))
	_, _ = io.WriteString(w, "\n")
}

// printError writes err to stderr, styled when stderr is a terminal.
func printError(err error) {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		_, _ = io.WriteString(os.Stderr, "Error: "+err.Error()+"\n")
		return
	}

	b := strings.Builder{}
	w := getWidth(maxWidth)

	b.WriteRune('\n')
	renderBlock(&b, errorStyle, w, err.Error())
	b.WriteRune('\n')

	_, _ = io.WriteString(os.Stderr, b.String())
}

func completeColor(truecolor, ansi256, ansi string) string {
	//nolint: exhaustive
	switch lipgloss.ColorProfile() {
	case termenv.TrueColor:
		return truecolor
	case termenv.ANSI256:
		return ansi256
	}
	return ansi
}
