package styles

import "github.com/charmbracelet/lipgloss"

// Color palette. Dark mode optimized, semantic colors.
var (
	// Primary semantic colors
	Accent  = lipgloss.Color("#7C3AED") // violet-500 - highlights, interactive
	Success = lipgloss.Color("#10B981") // emerald-500 - success
	Warning = lipgloss.Color("#F59E0B") // amber-500 - warnings
	Error   = lipgloss.Color("#EF4444") // red-500 - errors
	Info    = lipgloss.Color("#3B82F6") // blue-500 - info
	Muted   = lipgloss.Color("#6B7280") // gray-500 - secondary text

	// Text colors
	TextPrimary   = lipgloss.Color("#F9FAFB") // gray-50 - main text
	TextSecondary = lipgloss.Color("#9CA3AF") // gray-400 - descriptions

	// Background colors
	BgHighlight = lipgloss.Color("#1F2937") // gray-800 - selected items
	BgBorder    = lipgloss.Color("#374151") // gray-700 - borders
	BgStripe    = lipgloss.Color("#111827") // gray-900 - alternate rows
)

// Semantic color aliases for the grid
var (
	ColorHeader     = Accent        // Column headers
	ColorSortArrow  = Info          // Sort direction marker
	ColorDropTarget = Warning       // Header under a column drag
	ColorSeparator  = BgBorder      // Row and column lines
	ColorThumb      = TextSecondary // Scrollbar thumb
	ColorTrack      = BgBorder      // Scrollbar track
	ColorNull       = Muted         // null and undefined cells
	ColorNumber     = Info          // Numeric cells
	ColorBool       = Warning       // Boolean cells
)
