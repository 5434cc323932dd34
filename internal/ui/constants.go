package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconPlay     = "▶"
	IconPause    = "⏸"
	IconMusic    = "🎵"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DashPlaceholder    = "—"
)

// Layout sizing
const (
	WindowWidth  float32 = 480
	WindowHeight float32 = 220

	LogoSize float32 = 32

	SettingsDialogWidth  float32 = 420
	SettingsDialogHeight float32 = 240
)
