package styles

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

// Symbols - Unicode with ASCII fallbacks
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolSortAsc = "▲"
	SymbolSortDsc = "▼"
	SymbolThumb   = "┃"
	SymbolTrack   = "│"
	SymbolColLine = "│"
	SymbolRowLine = "─"
	SymbolHidden  = "○"
	SymbolShown   = "●"
)

var forceNoColor atomic.Bool

// SetNoColor disables colors regardless of the environment (--no-color).
func SetNoColor(v bool) {
	forceNoColor.Store(v)
}

// NoColor checks if colors should be disabled
func NoColor() bool {
	return forceNoColor.Load() || os.Getenv("NO_COLOR") != "" || os.Getenv("GRIDVIEW_NO_COLOR") != ""
}

// IsAccessible reports whether animations and decorations should be
// replaced by plain text.
func IsAccessible() bool {
	return os.Getenv("ACCESSIBLE") != "" || os.Getenv("GRIDVIEW_ACCESSIBLE") != ""
}

// Base text styles
var (
	Bold      = lipgloss.NewStyle().Bold(true)
	Dim       = lipgloss.NewStyle().Foreground(Muted)
	Underline = lipgloss.NewStyle().Underline(true)
)

// Semantic styles - use these instead of raw colors
var (
	// Message types
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	InfoStyle    = lipgloss.NewStyle().Foreground(Info)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)

	// Grid
	HeaderStyle     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	SortArrowStyle  = lipgloss.NewStyle().Foreground(ColorSortArrow)
	DropTargetStyle = lipgloss.NewStyle().Foreground(ColorDropTarget).Bold(true).Underline(true)
	DraggedStyle    = lipgloss.NewStyle().Foreground(Muted).Italic(true)
	GhostStyle      = lipgloss.NewStyle().Foreground(TextPrimary).Background(Accent).Padding(0, 1)
	SeparatorStyle  = lipgloss.NewStyle().Foreground(ColorSeparator)
	StripeStyle     = lipgloss.NewStyle().Background(BgStripe)
	HoverStyle      = lipgloss.NewStyle().Background(BgHighlight).Foreground(TextPrimary)
	ThumbStyle      = lipgloss.NewStyle().Foreground(ColorThumb)
	TrackStyle      = lipgloss.NewStyle().Foreground(ColorTrack)
	NullStyle       = lipgloss.NewStyle().Foreground(ColorNull).Italic(true)
	NumberStyle     = lipgloss.NewStyle().Foreground(ColorNumber)
	BoolStyle       = lipgloss.NewStyle().Foreground(ColorBool)

	// Control bar and toast
	ChipStyle      = lipgloss.NewStyle().Foreground(TextPrimary).Background(BgBorder).Padding(0, 1)
	ChipFocusStyle = lipgloss.NewStyle().Foreground(TextPrimary).Background(Accent).Padding(0, 1)
	ToastStyle     = lipgloss.NewStyle().Foreground(TextPrimary).Background(BgHighlight).Padding(0, 1)

	// Interactive TUI
	SelectedStyle = lipgloss.NewStyle().
			Background(BgHighlight).
			Foreground(TextPrimary)

	// Help bar
	HelpKey   = lipgloss.NewStyle().Foreground(Accent)
	HelpValue = lipgloss.NewStyle().Foreground(Muted)
)

// ═══════════════════════════════════════════════════════════════════════════
// Render functions - centralized formatting with NoColor support
// ═══════════════════════════════════════════════════════════════════════════

// Render applies a style if colors are enabled
func Render(s lipgloss.Style, text string) string {
	if NoColor() {
		return text
	}
	return s.Render(text)
}

// SortArrow returns the marker for a sort direction, or "".
func SortArrow(desc bool) string {
	if NoColor() {
		if desc {
			return "v"
		}
		return "^"
	}
	if desc {
		return SortArrowStyle.Render(SymbolSortDsc)
	}
	return SortArrowStyle.Render(SymbolSortAsc)
}

// ═══════════════════════════════════════════════════════════════════════════
// Message formatters - structured output
// ═══════════════════════════════════════════════════════════════════════════

// SuccessMsg formats a success message with checkmark
func SuccessMsg(msg string) string {
	symbol := SymbolSuccess
	if NoColor() {
		symbol = "+"
	}
	return fmt.Sprintf("%s %s", Render(SuccessStyle, symbol), msg)
}

// ErrorMsg formats an error message
func ErrorMsg(title string) string {
	return Render(ErrorStyle, "Error: "+title)
}

// WarningMsg formats a warning message
func WarningMsg(msg string) string {
	symbol := SymbolWarning
	if NoColor() {
		symbol = "!"
	}
	return fmt.Sprintf("%s %s", Render(WarningStyle, symbol), msg)
}

// MutedMsg formats muted/secondary text
func MutedMsg(msg string) string {
	return Render(MutedStyle, msg)
}

// SectionHeader formats a section header
func SectionHeader(title string) string {
	return Render(Bold, title)
}

// HelpLine formats a help line (key description)
func HelpLine(key, description string) string {
	return fmt.Sprintf("  %s %s", Render(HelpKey, key), Render(MutedStyle, description))
}

// Indent returns text indented by n spaces
func Indent(text string, n int) string {
	prefix := strings.Repeat(" ", n)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func Mute(s string) string        { return Render(MutedStyle, s) }
func Cyan(s string) string        { return Render(InfoStyle, s) }
func ErrorText(s string) string   { return Render(ErrorStyle, s) }
func WarningText(s string) string { return Render(WarningStyle, s) }

// Printf-style color functions
func Mutef(format string, a ...any) string    { return Mute(fmt.Sprintf(format, a...)) }
func Cyanf(format string, a ...any) string    { return Cyan(fmt.Sprintf(format, a...)) }
func Boldf(format string, a ...any) string    { return Render(Bold, fmt.Sprintf(format, a...)) }
func Errorf(format string, a ...any) string   { return ErrorText(fmt.Sprintf(format, a...)) }
func Warningf(format string, a ...any) string { return WarningText(fmt.Sprintf(format, a...)) }
