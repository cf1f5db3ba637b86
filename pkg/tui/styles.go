package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPurple      = lipgloss.Color("#7D56F4")
	ColorGreen       = lipgloss.Color("#25A065")
	ColorRed         = lipgloss.Color("#E05252")
	ColorYellow      = lipgloss.Color("#E5C07B")
	ColorGray        = lipgloss.Color("#626262")
	ColorGrayDim     = lipgloss.Color("#404040")
	ColorWhite       = lipgloss.Color("#FFFFFF")
	ColorOffWhite    = lipgloss.Color("#D0D0D0")
	ColorOrange      = lipgloss.Color("#D19A66")
	ColorSelectionBg = lipgloss.Color("#2D3B4D")
	ColorMoveBg      = lipgloss.Color("#3E2F1F")
)

// Header and footer styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	OnlineBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorGreen)

	OfflineBadgeStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorOrange)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorOffWhite)
)

// Column styles
var (
	ColumnTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorWhite).
				Background(ColorPurple).
				Padding(0, 1)

	ColumnTitleDimStyle = lipgloss.NewStyle().
				Foreground(ColorGray).
				Padding(0, 1)

	ColumnCountStyle = lipgloss.NewStyle().
				Foreground(ColorGray)
)

// Card styles
var (
	CardTitleStyle = lipgloss.NewStyle().
			Foreground(ColorOffWhite)

	CardSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorWhite).
				Background(ColorSelectionBg)

	CardMovingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorOrange).
			Background(ColorMoveBg)

	CardCompletedStyle = lipgloss.NewStyle().
				Foreground(ColorGreen)

	CardMetaStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	CardOverdueStyle = lipgloss.NewStyle().
				Foreground(ColorRed)

	CardDueTodayStyle = lipgloss.NewStyle().
				Foreground(ColorYellow)

	PendingSyncStyle = lipgloss.NewStyle().
				Foreground(ColorOrange)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPurple).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	ModalLabelStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Width(12)

	ModalValueStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)
)

// Toast styles
var (
	ToastInfoStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Background(ColorGrayDim).
			Padding(0, 1)

	ToastWarnStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Background(ColorOrange).
			Padding(0, 1)

	ToastErrorStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Background(ColorRed).
			Padding(0, 1)
)

// Icons
const (
	IconActive    = "○"
	IconCompleted = "✓"
	IconMove      = "↕"
	IconPending   = "⟳"
	IconInfo      = "i"
	IconWarn      = "!"
	IconError     = "✗"
)
