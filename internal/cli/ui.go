package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal output for the slfkit commands. Status lines start with a
// one-character marker; details are indented and muted.

var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorCmd    = lipgloss.Color("75")
	colorValue  = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

var (
	styleHeading = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleAccent  = lipgloss.NewStyle().Foreground(colorAccent)
	styleValue   = lipgloss.NewStyle().Foreground(colorValue)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleOK      = lipgloss.NewStyle().Foreground(colorOK)
	styleWarn    = lipgloss.NewStyle().Foreground(colorWarn)
	styleFail    = lipgloss.NewStyle().Foreground(colorFail)
	styleLabel   = lipgloss.NewStyle().Foreground(colorLabel)
	styleKey     = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorCmd)
)

const (
	markOK   = "✓"
	markFail = "✗"
	markWarn = "!"
	markInfo = "›"
	markFile = "→"
	sep      = " · "
)

func printStatus(mark lipgloss.Style, icon, msg string) {
	fmt.Println(mark.Render(icon) + " " + msg)
}

func printSuccess(format string, args ...any) {
	printStatus(styleOK, markOK, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printStatus(styleFail, markFail, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printStatus(styleWarn, markWarn, styleWarn.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printStatus(styleLabel, markInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted line under the last status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + styleMuted.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a file a command wrote.
func printFile(path string) {
	fmt.Println("  " + styleMuted.Render(markFile) + " " + styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + styleValue.Render(value))
}

// printStats prints the vertex and edge counts of a graph and whether the
// result came from the cache.
func printStats(vertices, edges int, cached bool) {
	origin := styleLabel.Render("fresh")
	if cached {
		origin = styleOK.Render("cached")
	}
	parts := []string{
		styleMuted.Render(fmt.Sprintf("%d vertices", vertices)),
		styleMuted.Render(fmt.Sprintf("%d edges", edges)),
		origin,
	}
	fmt.Println("  " + strings.Join(parts, styleMuted.Render(sep)))
}

// printNextStep suggests the command to run after this one.
func printNextStep(description, cmd string) {
	fmt.Println(styleMuted.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}
