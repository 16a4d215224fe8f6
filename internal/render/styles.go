// SPDX-License-Identifier: MPL-2.0

package render

import "github.com/charmbracelet/lipgloss"

// Palette shared by all text output. Tuned for dark terminal backgrounds.
const (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorError     = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorHighlight = lipgloss.Color("#3B82F6")
	ColorVerbose   = lipgloss.Color("#9CA3AF")
)

var (
	// TitleStyle is for the plan header and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary text.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success markers.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for failure markers.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for caution markers.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// ModuleStyle is for module paths and bundle names.
	ModuleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHighlight)

	// ValueStyle is for listed values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorVerbose)

	labelStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Width(labelWidth).
			PaddingLeft(4)
)

const labelWidth = 18
