package internal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// TickInterval is the time-advance granularity, matching a 60 fps
// media element progress stream.
const TickInterval = time.Second / 60

// TimeListener receives time-advance notifications with the current
// playhead position in seconds.
type TimeListener func(t float64)

// Player is the playback controller: a playhead over the session's
// media with the observable values a media element exposes. Time
// advances through Advance, driven at 60 fps by Run; the session
// controller forwards each tick to the timeline to resolve the active
// subtitle.
type Player struct {
	mu             sync.Mutex
	loaded         bool
	sourceURL      string
	duration       float64
	currentTime    float64
	playing        bool
	volume         float64
	muted          bool
	overlayEnabled bool
	listeners      []TimeListener
}

// NewPlayer creates a player with no media loaded.
func NewPlayer() *Player {
	return &Player{volume: 1.0}
}

// Load points the player at a media source. overlayEnabled should be
// false when the source is a server-generated artifact with subtitles
// already burned in, so they are not rendered twice.
func (p *Player) Load(sourceURL string, duration float64, overlayEnabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loaded = true
	p.sourceURL = sourceURL
	p.duration = duration
	p.currentTime = 0
	p.playing = false
	p.overlayEnabled = overlayEnabled
}

// SetOverlayEnabled toggles client-side subtitle overlay rendering.
func (p *Player) SetOverlayEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.overlayEnabled = enabled
}

// OnTimeUpdate registers a listener for time-advance notifications.
func (p *Player) OnTimeUpdate(fn TimeListener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Seek moves the playhead to t, clamped to the media bounds.
func (p *Player) Seek(t float64) error {
	p.mu.Lock()
	if !p.loaded {
		p.mu.Unlock()
		return &PlaybackError{Op: "seek", Err: errors.New("no media loaded")}
	}
	if t < 0 {
		t = 0
	}
	if t > p.duration {
		t = p.duration
	}
	p.currentTime = t
	listeners := append([]TimeListener(nil), p.listeners...)
	p.mu.Unlock()

	notify(listeners, t)
	return nil
}

// TogglePlay flips between playing and paused and returns the new
// playing state.
func (p *Player) TogglePlay() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.loaded {
		return false, &PlaybackError{Op: "play", Err: errors.New("no media loaded")}
	}
	// Restart from the top when toggled at the end of the media.
	if !p.playing && p.currentTime >= p.duration {
		p.currentTime = 0
	}
	p.playing = !p.playing
	return p.playing, nil
}

// SetVolume sets the volume, clamped to [0, 1].
func (p *Player) SetVolume(v float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v < 0 || v > 1 {
		return &PlaybackError{Op: "volume", Err: fmt.Errorf("volume %.2f outside [0, 1]", v)}
	}
	p.volume = v
	return nil
}

// ToggleMute flips the mute flag and returns the new value.
func (p *Player) ToggleMute() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = !p.muted
	return p.muted
}

// Advance moves the playhead forward by dt seconds when playing,
// pausing at the end of the media, and emits a time-advance
// notification.
func (p *Player) Advance(dt float64) {
	p.mu.Lock()
	if !p.loaded || !p.playing {
		p.mu.Unlock()
		return
	}
	p.currentTime += dt
	if p.currentTime >= p.duration {
		p.currentTime = p.duration
		p.playing = false
	}
	t := p.currentTime
	listeners := append([]TimeListener(nil), p.listeners...)
	p.mu.Unlock()

	notify(listeners, t)
}

// Run drives the playhead from a wall-clock ticker until ctx is done
// or playback reaches the end of the media.
func (p *Player) Run(ctx context.Context) {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			p.Advance(now.Sub(last).Seconds())
			last = now
			if !p.Playing() {
				return
			}
		}
	}
}

// CurrentTime returns the playhead position in seconds.
func (p *Player) CurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentTime
}

// Duration returns the loaded media's duration in seconds.
func (p *Player) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

// Playing reports whether the playhead is advancing.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Volume returns the current volume in [0, 1].
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Muted reports whether audio is muted.
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// OverlayEnabled reports whether the client should render the active
// subtitle over the media.
func (p *Player) OverlayEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.overlayEnabled
}

// SourceURL returns the URL of the loaded media, empty when none.
func (p *Player) SourceURL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sourceURL
}

func notify(listeners []TimeListener, t float64) {
	for _, fn := range listeners {
		fn(t)
	}
}
