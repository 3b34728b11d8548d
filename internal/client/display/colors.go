package display

import (
	"github.com/fatih/color"
)

// Terminal color helpers. They consult color.NoColor on every call, so
// SetColor takes effect immediately.
var (
	Red     = color.New(color.FgRed).SprintFunc()
	Green   = color.New(color.FgGreen).SprintFunc()
	Yellow  = color.New(color.FgYellow).SprintFunc()
	Blue    = color.New(color.FgBlue).SprintFunc()
	Magenta = color.New(color.FgMagenta).SprintFunc()
	Cyan    = color.New(color.FgCyan).SprintFunc()
	White   = color.New(color.FgWhite).SprintFunc()

	highlight = color.New(color.FgBlack, color.BgGreen).SprintFunc()
)

// SetColor turns ANSI output on or off for the whole process
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

func ColorEnabled() bool {
	return !color.NoColor
}

// Prompt returns a colored prompt string
func Prompt(text string) string {
	return text + Yellow(" > ")
}
