package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/ytget/mood-player/internal/config"
	"github.com/ytget/mood-player/internal/model"
	"github.com/ytget/mood-player/internal/music"
	"github.com/ytget/mood-player/internal/playback"
)

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	player       *music.Widget
	settings     *config.Settings
	localization *Localization
	logger       logrus.FieldLogger

	mood       binding.String
	moodLabel  *widget.Label
	moodEntry  *widget.Entry
	loadBtn    *widget.Button
	playBtn    *widget.Button
	audioPanel *AudioPanel
	sink       playback.Sink

	// async runs widget actions off the UI goroutine
	async       func(func())
	unsubscribe func()
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, settings *config.Settings, player *music.Widget, sink playback.Sink, logger logrus.FieldLogger) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		player:       player,
		settings:     settings,
		localization: localization,
		logger:       logger,
		mood:         binding.NewString(),
		sink:         sink,
		async:        func(fn func()) { go fn() },
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	ui.setupUI()

	// Render the current state once, then on every change
	ui.unsubscribe = player.Subscribe(ui.render)
	ui.render(model.State{}, player.State())

	window.SetOnClosed(ui.Close)
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.moodLabel = widget.NewLabel(ui.localization.GetText(KeyMood))

	ui.moodEntry = widget.NewEntryWithData(ui.mood)
	ui.moodEntry.SetPlaceHolder(ui.localization.GetText(KeyMoodPlaceholder))
	ui.mood.AddListener(binding.NewDataListener(ui.onMoodChanged))

	ui.loadBtn = widget.NewButton(ui.localization.GetText(KeyLoadMusic), ui.onLoadClick)
	ui.playBtn = widget.NewButton(ui.localization.GetText(KeyPlayMusic), ui.onPlayClick)
	ui.playBtn.Importance = widget.HighImportance

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	left := container.NewHBox(settingsBtn, ui.moodLabel)
	if logo, err := LoadLogoResource(); err == nil {
		logoImage := canvas.NewImageFromResource(logo)
		logoImage.SetMinSize(fyne.NewSize(LogoSize, LogoSize))
		logoImage.FillMode = canvas.ImageFillContain
		left = container.NewHBox(logoImage, settingsBtn, ui.moodLabel)
	}

	moodRow := container.NewBorder(nil, nil, left, nil, ui.moodEntry)
	buttons := container.NewHBox(ui.loadBtn, ui.playBtn)

	ui.audioPanel = NewAudioPanel(ui.sink, ui.localization, ui.logger, func(fn func()) { ui.async(fn) })

	ui.window.SetContent(container.NewVBox(moodRow, buttons, ui.audioPanel.Container()))
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()

	// Recreate menu to update checkmarks
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.moodLabel.SetText(ui.localization.GetText(KeyMood))
	ui.moodEntry.SetPlaceHolder(ui.localization.GetText(KeyMoodPlaceholder))
	ui.loadBtn.SetText(ui.localization.GetText(KeyLoadMusic))
	ui.playBtn.SetText(ui.localization.GetText(KeyPlayMusic))
	ui.audioPanel.RefreshTexts()
}

// onMoodChanged copies the bound entry text into the widget
func (ui *RootUI) onMoodChanged() {
	text, err := ui.mood.Get()
	if err != nil {
		ui.logger.WithError(err).Warn("reading mood binding")
		return
	}
	ui.player.UpdateMood(text)
}

// onLoadClick requests music. The button stays enabled while loading.
func (ui *RootUI) onLoadClick() {
	ui.async(func() {
		ui.player.LoadMusic(context.Background())
	})
}

// onPlayClick starts playback of the loaded music
func (ui *RootUI) onPlayClick() {
	ui.async(func() {
		ui.player.PlayMusic(context.Background())
	})
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.localization, ui.window, func() {
		ui.onLanguageChange(ui.settings.GetLanguage())
	}).Show()
}

// render reflects a state snapshot in the widgets. The audio panel exists
// only while a URL is loaded, and the sink is mounted with it.
func (ui *RootUI) render(_, next model.State) {
	if next.PlayEnabled() {
		ui.playBtn.Enable()
	} else {
		ui.playBtn.Disable()
	}

	if next.HasMusic() {
		ui.audioPanel.Mount(next.MusicURL)
		ui.player.Mount(ui.sink)
		return
	}
	ui.player.Unmount()
	ui.audioPanel.Unmount()
}

// Close tears the view and the widget down
func (ui *RootUI) Close() {
	if ui.unsubscribe != nil {
		ui.unsubscribe()
		ui.unsubscribe = nil
	}
	ui.sink.Pause()
	ui.player.Close()
}
