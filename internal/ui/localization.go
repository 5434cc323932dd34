package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle         = "app_title"
	KeyMood             = "mood"
	KeyMoodPlaceholder  = "mood_placeholder"
	KeyLoadMusic        = "load_music"
	KeyPlayMusic        = "play_music"
	KeyPlay             = "play"
	KeyPause            = "pause"
	KeySource           = "source"
	KeySettings         = "settings"
	KeyFile             = "file"
	KeyLanguage         = "language"
	KeyAPIRootURL       = "api_root_url"
	KeySave             = "save"
	KeyCancel           = "cancel"
	KeySettingsSaved    = "settings_saved"
	KeyAppliesOnRestart = "applies_on_restart"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// Use system locale - simplified to English for now
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:         "Mood Player",
		KeyMood:             "Mood :",
		KeyMoodPlaceholder:  "How do you feel?",
		KeyLoadMusic:        "Load Music",
		KeyPlayMusic:        "Play Music",
		KeyPlay:             "Play",
		KeyPause:            "Pause",
		KeySource:           "Source",
		KeySettings:         "Settings",
		KeyFile:             "File",
		KeyLanguage:         "Language",
		KeyAPIRootURL:       "Music server URL",
		KeySave:             "Save",
		KeyCancel:           "Cancel",
		KeySettingsSaved:    "Settings saved successfully!",
		KeyAppliesOnRestart: "The music server URL applies after restart.",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:         "Музыка настроения",
		KeyMood:             "Настроение :",
		KeyMoodPlaceholder:  "Как вы себя чувствуете?",
		KeyLoadMusic:        "Загрузить музыку",
		KeyPlayMusic:        "Воспроизвести",
		KeyPlay:             "Играть",
		KeyPause:            "Пауза",
		KeySource:           "Источник",
		KeySettings:         "Настройки",
		KeyFile:             "Файл",
		KeyLanguage:         "Язык",
		KeyAPIRootURL:       "Адрес музыкального сервера",
		KeySave:             "Сохранить",
		KeyCancel:           "Отмена",
		KeySettingsSaved:    "Настройки успешно сохранены!",
		KeyAppliesOnRestart: "Адрес сервера применится после перезапуска.",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:         "Mood Player",
		KeyMood:             "Humor :",
		KeyMoodPlaceholder:  "Como você está se sentindo?",
		KeyLoadMusic:        "Carregar Música",
		KeyPlayMusic:        "Tocar Música",
		KeyPlay:             "Tocar",
		KeyPause:            "Pausar",
		KeySource:           "Fonte",
		KeySettings:         "Configurações",
		KeyFile:             "Arquivo",
		KeyLanguage:         "Idioma",
		KeyAPIRootURL:       "URL do servidor de música",
		KeySave:             "Salvar",
		KeyCancel:           "Cancelar",
		KeySettingsSaved:    "Configurações salvas com sucesso!",
		KeyAppliesOnRestart: "A URL do servidor vale após reiniciar.",
	}
}
