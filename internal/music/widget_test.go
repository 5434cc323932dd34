package music

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/mood-player/internal/api"
	"github.com/ytget/mood-player/internal/metrics"
	"github.com/ytget/mood-player/internal/model"
	"github.com/ytget/mood-player/internal/playback"
)

type fetchFunc func(ctx context.Context) (string, error)

func (f fetchFunc) FetchMusicURL(ctx context.Context) (string, error) { return f(ctx) }

func returning(url string) Fetcher {
	return fetchFunc(func(context.Context) (string, error) { return url, nil })
}

func failing(err error) Fetcher {
	return fetchFunc(func(context.Context) (string, error) { return "", err })
}

// fakeSink records what the widget asks of the media element
type fakeSink struct {
	mu             sync.Mutex
	source         string
	mimeType       string
	reloads        int
	reloadedSource []string
	plays          int
	pauses         int
	playErr        error
}

func (f *fakeSink) SetSource(url, mimeType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.source, f.mimeType = url, mimeType
}

func (f *fakeSink) Reload() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	f.reloadedSource = append(f.reloadedSource, f.source)
}

func (f *fakeSink) Play(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plays++
	return f.playErr
}

func (f *fakeSink) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pauses++
}

func (f *fakeSink) reloadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reloads
}

// renderInto mirrors the view: the sink is shown, pointed at the URL and
// mounted whenever a URL is present.
func renderInto(w *Widget, sink *fakeSink) {
	w.Subscribe(func(prev, next model.State) {
		if next.HasMusic() {
			sink.SetSource(next.MusicURL, playback.MIMETypeMPEG)
			w.Mount(sink)
			return
		}
		w.Unmount()
	})
}

func newTestWidget(f Fetcher) (*Widget, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	return NewWidget(f, logger), hook
}

func errorEntries(hook *logtest.Hook) []logrus.Entry {
	var out []logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			out = append(out, *e)
		}
	}
	return out
}

func loggedError(t *testing.T, e logrus.Entry) string {
	t.Helper()
	err, ok := e.Data[logrus.ErrorKey].(error)
	require.True(t, ok, "entry has no error field")
	return err.Error()
}

// redirectTransport answers /music with a redirect to target
type redirectTransport struct{ target string }

func (rt redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rec := httptest.NewRecorder()
	if req.URL.Path == api.MusicPath {
		rec.Header().Set("Location", rt.target)
		rec.WriteHeader(http.StatusFound)
	} else {
		rec.Header().Set("Content-Type", playback.MIMETypeMPEG)
		rec.WriteHeader(http.StatusOK)
	}
	resp := rec.Result()
	resp.Request = req
	return resp, nil
}

type statusTransport int

func (st statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rec := httptest.NewRecorder()
	rec.WriteHeader(int(st))
	resp := rec.Result()
	resp.Request = req
	return resp, nil
}

type errTransport struct{ err error }

func (et errTransport) RoundTrip(*http.Request) (*http.Response, error) { return nil, et.err }

func TestUpdateMoodReflectsLatestValue(t *testing.T) {
	w, hook := newTestWidget(returning(""))

	inputs := []string{
		"",
		"happy",
		"悲しい 🎵",
		"ça va, très bien",
		strings.Repeat("melancholic ", 10000),
		"",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { w.UpdateMood(in) })
		assert.Equal(t, in, w.Mood())
	}
	assert.Empty(t, hook.AllEntries())
	assert.Equal(t, model.PhaseEmpty, w.Phase())
}

func TestLoadMusicStoresResolvedURL(t *testing.T) {
	client := api.NewClient("http://localhost:8000", &http.Client{
		Transport: redirectTransport{target: "http://localhost:8000/music/track1.mp3"},
	})
	w, hook := newTestWidget(client)

	w.LoadMusic(context.Background())

	assert.Equal(t, "http://localhost:8000/music/track1.mp3", w.MusicURL())
	assert.Equal(t, model.PhaseLoaded, w.Phase())
	assert.Empty(t, errorEntries(hook))
}

func TestLoadMusicNotFoundKeepsStateAndLogsOnce(t *testing.T) {
	client := api.NewClient("http://localhost:8000", &http.Client{Transport: statusTransport(http.StatusNotFound)})
	w, hook := newTestWidget(client)

	w.LoadMusic(context.Background())

	assert.Empty(t, w.MusicURL())
	assert.Equal(t, model.PhaseEmpty, w.Phase())
	entries := errorEntries(hook)
	require.Len(t, entries, 1)
	assert.Contains(t, loggedError(t, entries[0]), "404")
}

func TestLoadMusicFailureKeepsPreviousURL(t *testing.T) {
	var fail atomic.Bool
	f := fetchFunc(func(context.Context) (string, error) {
		if fail.Load() {
			return "", &api.FetchError{Err: errors.New("HTTP error! status: 500")}
		}
		return "http://localhost:8000/music/track1.mp3", nil
	})
	w, hook := newTestWidget(f)

	w.LoadMusic(context.Background())
	fail.Store(true)
	w.LoadMusic(context.Background())

	assert.Equal(t, "http://localhost:8000/music/track1.mp3", w.MusicURL())
	require.Len(t, errorEntries(hook), 1)
}

func TestLoadMusicTransportFailureMessage(t *testing.T) {
	client := api.NewClient("http://localhost:8000", &http.Client{Transport: errTransport{err: errors.New("network down")}})
	w, hook := newTestWidget(client)

	w.LoadMusic(context.Background())

	entries := errorEntries(hook)
	require.Len(t, entries, 1)
	msg := loggedError(t, entries[0])
	assert.Contains(t, msg, "Failed to fetch music")
	assert.Contains(t, msg, "network down")
	assert.Empty(t, w.MusicURL())
}

func TestPlayEnabledFollowsMusicURL(t *testing.T) {
	w, _ := newTestWidget(returning("http://localhost:8000/music/track1.mp3"))

	var rendered []bool
	w.Subscribe(func(prev, next model.State) { rendered = append(rendered, next.PlayEnabled()) })

	assert.False(t, w.PlayEnabled())
	w.UpdateMood("energetic")
	assert.False(t, w.PlayEnabled())

	w.LoadMusic(context.Background())

	assert.True(t, w.PlayEnabled())
	require.NotEmpty(t, rendered)
	assert.True(t, rendered[len(rendered)-1])
	assert.False(t, rendered[0])
}

func TestReloadOncePerURLTransition(t *testing.T) {
	var next atomic.Value
	f := fetchFunc(func(context.Context) (string, error) { return next.Load().(string), nil })
	w, _ := newTestWidget(f)
	sink := &fakeSink{}
	renderInto(w, sink)

	next.Store("http://localhost:8000/music/a.mp3")
	w.LoadMusic(context.Background())
	assert.Equal(t, 1, sink.reloadCount())

	next.Store("http://localhost:8000/music/b.mp3")
	w.LoadMusic(context.Background())
	assert.Equal(t, 2, sink.reloadCount())

	// Same value again is not a transition.
	w.LoadMusic(context.Background())
	assert.Equal(t, 2, sink.reloadCount())

	// Mood edits never reload.
	w.UpdateMood("sleepy")
	assert.Equal(t, 2, sink.reloadCount())

	// The reload observes the rendered source.
	assert.Equal(t, []string{
		"http://localhost:8000/music/a.mp3",
		"http://localhost:8000/music/b.mp3",
	}, sink.reloadedSource)
	assert.Equal(t, playback.MIMETypeMPEG, sink.mimeType)
}

func TestNoReloadWhenUnmounted(t *testing.T) {
	var next atomic.Value
	f := fetchFunc(func(context.Context) (string, error) { return next.Load().(string), nil })
	w, _ := newTestWidget(f)
	sink := &fakeSink{}

	next.Store("http://localhost:8000/music/a.mp3")
	w.LoadMusic(context.Background())
	assert.Equal(t, 0, sink.reloadCount())

	w.Mount(sink)
	w.Unmount()
	next.Store("http://localhost:8000/music/b.mp3")
	w.LoadMusic(context.Background())
	assert.Equal(t, 0, sink.reloadCount())
}

func TestPlayMusicUsesMountedSink(t *testing.T) {
	w, hook := newTestWidget(returning("http://localhost:8000/music/track1.mp3"))
	sink := &fakeSink{}
	renderInto(w, sink)

	// Nothing mounted yet.
	w.PlayMusic(context.Background())
	assert.Equal(t, 0, sink.plays)

	w.LoadMusic(context.Background())
	w.PlayMusic(context.Background())

	assert.Equal(t, 1, sink.plays)
	assert.Empty(t, errorEntries(hook))
}

func TestPlayMusicFailureIsLoggedOnly(t *testing.T) {
	w, hook := newTestWidget(returning("http://localhost:8000/music/track1.mp3"))
	sink := &fakeSink{playErr: errors.New("NotAllowedError: play() requires a user gesture")}
	renderInto(w, sink)
	w.LoadMusic(context.Background())
	before := w.State()

	assert.NotPanics(t, func() { w.PlayMusic(context.Background()) })

	assert.Equal(t, before, w.State())
	entries := errorEntries(hook)
	require.Len(t, entries, 1)
	assert.Equal(t, "Error playing music", entries[0].Message)

	var pe *playback.PlaybackError
	require.True(t, errors.As(entries[0].Data[logrus.ErrorKey].(error), &pe))
	assert.Equal(t, "http://localhost:8000/music/track1.mp3", pe.Source)
}

func TestConcurrentLoadsLastResponseWins(t *testing.T) {
	var calls int32
	gates := []chan string{make(chan string), make(chan string)}
	started := make(chan struct{}, 2)
	f := fetchFunc(func(context.Context) (string, error) {
		i := atomic.AddInt32(&calls, 1) - 1
		started <- struct{}{}
		return <-gates[i], nil
	})
	w, _ := newTestWidget(f)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.LoadMusic(context.Background())
		}()
	}
	<-started
	<-started
	require.Eventually(t, func() bool { return w.State().InFlight == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, model.PhaseLoading, w.Phase())

	gates[1] <- "http://localhost:8000/music/second.mp3"
	require.Eventually(t, func() bool {
		return w.MusicURL() == "http://localhost:8000/music/second.mp3"
	}, time.Second, 5*time.Millisecond)

	gates[0] <- "http://localhost:8000/music/first.mp3"
	wg.Wait()

	assert.Equal(t, "http://localhost:8000/music/first.mp3", w.MusicURL())
	assert.Equal(t, 0, w.State().InFlight)
}

func TestCloseClearsStateAndIgnoresLateReload(t *testing.T) {
	release := make(chan string)
	f := fetchFunc(func(context.Context) (string, error) { return <-release, nil })
	w, _ := newTestWidget(f)
	sink := &fakeSink{}
	renderInto(w, sink)

	done := make(chan struct{})
	go func() {
		w.LoadMusic(context.Background())
		close(done)
	}()
	require.Eventually(t, func() bool { return w.State().InFlight == 1 }, time.Second, 5*time.Millisecond)

	w.Close()
	assert.Equal(t, model.State{}, w.State())

	release <- "http://localhost:8000/music/late.mp3"
	<-done

	// The stale response still lands but nothing is mounted to reload.
	assert.Equal(t, "http://localhost:8000/music/late.mp3", w.MusicURL())
	assert.Equal(t, 0, sink.reloadCount())

	w.Mount(sink)
	w.PlayMusic(context.Background())
	assert.Equal(t, 0, sink.plays)
}

func TestDispatcherReceivesCommits(t *testing.T) {
	w, _ := newTestWidget(returning("http://localhost:8000/music/track1.mp3"))
	var dispatched int
	w.SetDispatcher(func(fn func()) {
		dispatched++
		fn()
	})

	w.LoadMusic(context.Background())

	assert.Equal(t, 2, dispatched)
	assert.Equal(t, "http://localhost:8000/music/track1.mp3", w.MusicURL())

	w.SetDispatcher(nil)
	w.LoadMusic(context.Background())
	assert.Equal(t, 2, dispatched)
}

func TestLoadAndPlayMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := metrics.New(reg)
	require.NoError(t, err)

	w, _ := newTestWidget(failing(&api.FetchError{Err: errors.New("HTTP error! status: 404")}))
	w.SetMetrics(rec)
	w.LoadMusic(context.Background())

	expected := `
# HELP mood_player_music_loads_total Music URL requests by outcome.
# TYPE mood_player_music_loads_total counter
mood_player_music_loads_total{outcome="error"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "mood_player_music_loads_total"))
}
