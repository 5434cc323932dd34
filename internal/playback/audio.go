package playback

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/go-mp3"
	"github.com/sirupsen/logrus"
)

// Media constants
const (
	MIMETypeMPEG = "audio/mpeg"

	// DefaultSampleRate is used when no audio context exists yet
	DefaultSampleRate = 44100

	// MaxMediaBytes caps a single downloaded source
	MaxMediaBytes = 64 << 20

	// bytesPerFrame of the decoded stream: 16-bit samples, two channels
	bytesPerFrame = 4

	// endOfTrackSlack absorbs rounding in the resampled position
	endOfTrackSlack = 10 * time.Millisecond
)

var sharedMu sync.Mutex

// SharedContext returns the process-wide ebiten audio context, creating it
// at DefaultSampleRate on first use. ebiten allows one context per process.
func SharedContext() *audio.Context {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if c := audio.CurrentContext(); c != nil {
		return c
	}
	return audio.NewContext(DefaultSampleRate)
}

// SharedOutput is the default OutputProvider backed by SharedContext
func SharedOutput() (Output, error) {
	c := SharedContext()
	if c == nil {
		return nil, fmt.Errorf("audio device unavailable")
	}
	return contextOutput{ctx: c}, nil
}

var _ MediaPlayer = (*audio.Player)(nil)

type contextOutput struct {
	ctx *audio.Context
}

func (o contextOutput) SampleRate() int {
	return o.ctx.SampleRate()
}

func (o contextOutput) NewPlayer(src io.Reader) (MediaPlayer, error) {
	p, err := o.ctx.NewPlayer(src)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// AudioSink plays MPEG audio from a URL. The source is downloaded lazily on
// the first Play after a Reload and kept in memory until the next Reload.
type AudioSink struct {
	HTTP   *http.Client
	Output OutputProvider
	Logger logrus.FieldLogger

	mu         sync.Mutex
	source     string
	mimeType   string
	generation int
	player     MediaPlayer
	duration   time.Duration
}

// NewAudioSink creates a sink using httpClient for downloads.
// A nil httpClient falls back to http.DefaultClient.
func NewAudioSink(httpClient *http.Client, logger logrus.FieldLogger) *AudioSink {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AudioSink{
		HTTP:   httpClient,
		Output: SharedOutput,
		Logger: logger,
	}
}

// ensure AudioSink implements Sink
var _ Sink = (*AudioSink)(nil)

// SetSource sets the media URL and declared type. It does not fetch anything.
func (s *AudioSink) SetSource(url, mimeType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = url
	s.mimeType = mimeType
}

// Source returns the current media URL
func (s *AudioSink) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Reload stops playback and drops decoded media for the current source
func (s *AudioSink) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.closePlayerLocked()
	s.Logger.WithField("source", s.source).Debug("media sink reloaded")
}

// Play starts or resumes playback. The first call after a Reload downloads
// and decodes the source. A track that has played to the end starts over.
func (s *AudioSink) Play(ctx context.Context) error {
	s.mu.Lock()
	source, mimeType, generation := s.source, s.mimeType, s.generation
	if s.player != nil {
		defer s.mu.Unlock()
		return s.resumeLocked()
	}
	s.mu.Unlock()

	if source == "" {
		return &PlaybackError{Err: ErrNoSource}
	}
	if mimeType != "" && mimeType != MIMETypeMPEG {
		return &PlaybackError{Source: source, Err: fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)}
	}

	data, err := s.download(ctx, source)
	if err != nil {
		return &PlaybackError{Source: source, Err: err}
	}

	decoder, err := decodeMP3(data)
	if err != nil {
		return &PlaybackError{Source: source, Err: err}
	}

	out, err := s.Output()
	if err != nil {
		return &PlaybackError{Source: source, Err: err}
	}
	var stream io.ReadSeeker = decoder
	if decoder.SampleRate() != out.SampleRate() {
		stream = audio.Resample(decoder, decoder.Length(), decoder.SampleRate(), out.SampleRate())
	}

	player, err := out.NewPlayer(stream)
	if err != nil {
		return &PlaybackError{Source: source, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation || source != s.source {
		// Reloaded while downloading; the result belongs to an old source.
		s.closePlayer(player, source)
		return nil
	}
	s.closePlayerLocked()
	s.player = player
	s.duration = trackDuration(decoder)
	s.player.Play()
	s.Logger.WithFields(logrus.Fields{
		"source":   source,
		"bytes":    len(data),
		"duration": s.duration,
	}).Info("playback started")
	return nil
}

// Pause halts playback if anything is playing
func (s *AudioSink) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player != nil {
		s.player.Pause()
	}
}

// IsPlaying reports whether audio is currently being played
func (s *AudioSink) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player != nil && s.player.IsPlaying()
}

// resumeLocked continues the installed player, rewinding a finished track
func (s *AudioSink) resumeLocked() error {
	if !s.player.IsPlaying() && s.duration > 0 && s.player.Position() >= s.duration-endOfTrackSlack {
		if err := s.player.Rewind(); err != nil {
			return &PlaybackError{Source: s.source, Err: fmt.Errorf("rewinding: %w", err)}
		}
	}
	s.player.Play()
	return nil
}

func (s *AudioSink) closePlayerLocked() {
	if s.player == nil {
		return
	}
	s.closePlayer(s.player, s.source)
	s.player = nil
	s.duration = 0
}

func (s *AudioSink) closePlayer(p MediaPlayer, source string) {
	p.Pause()
	if err := p.Close(); err != nil {
		s.Logger.WithError(err).WithField("source", source).Debug("closing audio player")
	}
}

// download fetches the media bytes for source
func (s *AudioSink) download(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("media request failed: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxMediaBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading media: %w", err)
	}
	if len(data) > MaxMediaBytes {
		return nil, fmt.Errorf("media exceeds %d bytes", MaxMediaBytes)
	}
	return data, nil
}

// decodeMP3 returns a decoder producing 16-bit little endian stereo PCM
func decodeMP3(data []byte) (*mp3.Decoder, error) {
	d, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, err)
	}
	return d, nil
}

// trackDuration is the playing time of the decoded stream, zero if unknown
func trackDuration(d *mp3.Decoder) time.Duration {
	if d.Length() <= 0 || d.SampleRate() <= 0 {
		return 0
	}
	frames := d.Length() / bytesPerFrame
	return time.Duration(frames) * time.Second / time.Duration(d.SampleRate())
}
