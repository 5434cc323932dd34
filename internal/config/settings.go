package config

import (
	"strings"

	"fyne.io/fyne/v2"
)

// Settings keys for Fyne preferences
const (
	KeyAPIRootURL = "api_root_url"
	KeyLanguage   = "app_language"
)

// Default values
const (
	DefaultAPIRootURL = "http://localhost:8000"
	DefaultLanguage   = "system"
)

// Settings manages persisted application preferences
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetAPIRootURL returns the configured backend origin
func (s *Settings) GetAPIRootURL() string {
	root := s.app.Preferences().String(KeyAPIRootURL)
	if root == "" {
		s.SetAPIRootURL(DefaultAPIRootURL)
		return DefaultAPIRootURL
	}
	return root
}

// SetAPIRootURL sets the backend origin. It takes effect on next start.
func (s *Settings) SetAPIRootURL(root string) {
	root = strings.TrimRight(strings.TrimSpace(root), "/")
	if root == "" {
		root = DefaultAPIRootURL
	}
	s.app.Preferences().SetString(KeyAPIRootURL, root)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}
