package cli

import (
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/term"
)

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorBlue   = "\x1b[34m"
	colorCyan   = "\x1b[36m"
	colorBold   = "\x1b[1m"
)

var colorEnabled = term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == ""

func paint(color, s string) string {
	if !colorEnabled {
		return s
	}
	return color + s + colorReset
}

func success(msg string) {
	printlnFn(paint(colorGreen, "✅ "+capitalize(msg)))
}

func failure(msg string) {
	printlnFn(paint(colorRed, "❌ "+capitalize(msg)))
}

func warning(msg string) {
	printlnFn(paint(colorYellow, "⚠️  "+capitalize(msg)))
}

func info(msg string) {
	printlnFn(paint(colorBlue, "ℹ️  "+capitalize(msg)))
}

func heading(title string) {
	printlnFn("\n" + title + "\n")
}

// capitalize upper-cases the first letter of msg; error texts are lower case.
func capitalize(msg string) string {
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}

func field(label, value string) {
	printlnFn("  " + label + ": " + value)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
