package music

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ytget/mood-player/internal/metrics"
	"github.com/ytget/mood-player/internal/model"
	"github.com/ytget/mood-player/internal/playback"
)

// Widget holds the mood text and the resolved music URL, loads music on
// demand and plays it through whichever sink the renderer has mounted.
type Widget struct {
	client   Fetcher
	store    *Store
	logger   logrus.FieldLogger
	metrics  *metrics.Recorder
	dispatch Dispatcher

	sinkMutex sync.Mutex
	sink      playback.Sink
	closed    bool
}

// NewWidget creates a widget that resolves music through client
func NewWidget(client Fetcher, logger logrus.FieldLogger) *Widget {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Widget{
		client:   client,
		store:    NewStore(),
		logger:   logger,
		dispatch: Immediate,
	}
}

// SetDispatcher sets how state commits reach the rendering goroutine
func (w *Widget) SetDispatcher(d Dispatcher) {
	if d == nil {
		d = Immediate
	}
	w.dispatch = d
}

// SetMetrics attaches a metrics recorder
func (w *Widget) SetMetrics(r *metrics.Recorder) {
	w.metrics = r
}

// Subscribe registers a renderer called after every state change
func (w *Widget) Subscribe(l Listener) func() {
	return w.store.Subscribe(l)
}

// State returns the current state snapshot
func (w *Widget) State() model.State {
	return w.store.State()
}

// Mood returns the current mood text
func (w *Widget) Mood() string {
	return w.store.State().Mood
}

// MusicURL returns the loaded music URL, empty if none
func (w *Widget) MusicURL() string {
	return w.store.State().MusicURL
}

// PlayEnabled reports whether the play control is enabled
func (w *Widget) PlayEnabled() bool {
	return w.store.State().PlayEnabled()
}

// Phase returns the URL lifecycle phase
func (w *Widget) Phase() model.Phase {
	return w.store.State().Phase()
}

// UpdateMood stores the mood text. Any string is accepted.
func (w *Widget) UpdateMood(text string) {
	w.commit(func(s *model.State) { s.Mood = text })
}

// LoadMusic requests a music URL and stores it on success. Failures are
// logged and leave the state untouched. Concurrent calls are not
// de-duplicated: whichever response resolves last wins.
func (w *Widget) LoadMusic(ctx context.Context) {
	log := w.logger.WithFields(logrus.Fields{
		"load_id":  uuid.NewString(),
		"mood_len": len(w.Mood()),
	})

	w.metrics.LoadStarted()
	w.dispatch(func() {
		w.commit(func(s *model.State) { s.InFlight++ })
	})

	url, err := w.client.FetchMusicURL(ctx)
	w.metrics.LoadFinished(err)

	w.dispatch(func() {
		w.commit(func(s *model.State) {
			if s.InFlight > 0 {
				s.InFlight--
			}
			if err == nil {
				s.MusicURL = url
			}
		})
	})

	if err != nil {
		log.WithError(err).Error("Failed to load music")
		return
	}
	log.WithField("url", url).Info("music loaded")
}

// PlayMusic asks the mounted sink to start playback. Playback failures are
// logged and otherwise ignored. Without a mounted sink this is a no-op.
func (w *Widget) PlayMusic(ctx context.Context) {
	sink := w.mounted()
	if sink == nil {
		return
	}

	err := sink.Play(ctx)
	w.metrics.Played(err)
	if err != nil {
		w.logger.WithError(playback.AsPlaybackError(w.MusicURL(), err)).Error("Error playing music")
	}
}

// Mount binds the sink the renderer shows for the current URL. It is a
// back-reference only; the widget never closes it.
func (w *Widget) Mount(sink playback.Sink) {
	w.sinkMutex.Lock()
	defer w.sinkMutex.Unlock()
	if w.closed {
		return
	}
	w.sink = sink
}

// Unmount drops the sink binding
func (w *Widget) Unmount() {
	w.sinkMutex.Lock()
	defer w.sinkMutex.Unlock()
	w.sink = nil
}

// Close tears the widget down: the sink is unmounted, renderers are dropped
// and the state is cleared. Requests already in flight still complete.
func (w *Widget) Close() {
	w.sinkMutex.Lock()
	w.closed = true
	w.sink = nil
	w.sinkMutex.Unlock()

	w.store.Reset()
}

func (w *Widget) mounted() playback.Sink {
	w.sinkMutex.Lock()
	defer w.sinkMutex.Unlock()
	return w.sink
}

// commit updates the store, which re-renders, and then runs the reload
// effect so that it observes the rendered source.
func (w *Widget) commit(fn func(*model.State)) {
	prev, next, changed := w.store.Update(fn)
	if !changed || prev.MusicURL == next.MusicURL || next.MusicURL == "" {
		return
	}
	if sink := w.mounted(); sink != nil {
		sink.Reload()
	}
}
