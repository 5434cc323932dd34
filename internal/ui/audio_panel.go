package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/ytget/mood-player/internal/playback"
)

// AudioPanel is the on-screen audio element: it shows the source and offers
// native play/pause controls that talk to the sink directly.
type AudioPanel struct {
	sink         playback.Sink
	localization *Localization
	logger       logrus.FieldLogger
	async        func(func())

	sourceLabel *widget.Label
	playBtn     *widget.Button
	pauseBtn    *widget.Button
	container   *fyne.Container
}

// NewAudioPanel creates a hidden panel for sink
func NewAudioPanel(sink playback.Sink, localization *Localization, logger logrus.FieldLogger, async func(func())) *AudioPanel {
	p := &AudioPanel{
		sink:         sink,
		localization: localization,
		logger:       logger,
		async:        async,
	}

	p.sourceLabel = widget.NewLabel(DashPlaceholder)
	p.sourceLabel.Truncation = fyne.TextTruncateEllipsis

	p.playBtn = widget.NewButton("", p.onPlay)
	p.playBtn.Importance = widget.LowImportance
	p.pauseBtn = widget.NewButton("", p.sink.Pause)
	p.pauseBtn.Importance = widget.LowImportance
	p.RefreshTexts()

	p.container = container.NewBorder(nil, nil,
		container.NewHBox(p.playBtn, p.pauseBtn),
		nil,
		p.sourceLabel,
	)
	p.container.Hide()
	return p
}

// Container returns the panel's canvas object
func (p *AudioPanel) Container() *fyne.Container {
	return p.container
}

// RefreshTexts relabels the controls in the current language
func (p *AudioPanel) RefreshTexts() {
	p.playBtn.SetText(IconPlay + " " + p.localization.GetText(KeyPlay))
	p.pauseBtn.SetText(IconPause + " " + p.localization.GetText(KeyPause))
}

// Mount points the sink at url and shows the panel
func (p *AudioPanel) Mount(url string) {
	p.sink.SetSource(url, playback.MIMETypeMPEG)
	p.sourceLabel.SetText(IconMusic + " " + p.localization.GetText(KeySource) + ": " + url + MiddleDotSeparator + playback.MIMETypeMPEG)
	p.container.Show()
}

// Unmount hides the panel
func (p *AudioPanel) Unmount() {
	p.sourceLabel.SetText(DashPlaceholder)
	p.container.Hide()
}

// Visible reports whether the panel is shown
func (p *AudioPanel) Visible() bool {
	return p.container.Visible()
}

// onPlay starts playback from the native control. Like any media element
// control, failures are not surfaced.
func (p *AudioPanel) onPlay() {
	p.async(func() {
		if err := p.sink.Play(context.Background()); err != nil {
			p.logger.WithError(err).Debug("native play control failed")
		}
	})
}
