package internal

import "sync"

// Timeline owns the ordered subtitle collection and a monotonically
// increasing version counter. The collection is only ever swapped
// wholesale; a reader sees either the old or the new collection in
// full, never a mix. The SessionController is the only writer.
type Timeline struct {
	mu        sync.Mutex
	subtitles []Subtitle
	version   uint64
}

// NewTimeline creates an empty timeline at version 0.
func NewTimeline() *Timeline {
	return &Timeline{}
}

// Restore seeds the timeline from persisted state without going through
// Replace, so a reloaded session keeps its version stamp.
func (tl *Timeline) Restore(subtitles []Subtitle, version uint64) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.subtitles = append([]Subtitle(nil), subtitles...)
	tl.version = version
}

// Replace atomically swaps in a new collection and bumps the version.
// The version moves even when the new collection equals the old one;
// consumers that stamp artifacts rely on that.
func (tl *Timeline) Replace(subtitles []Subtitle) uint64 {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.subtitles = append([]Subtitle(nil), subtitles...)
	tl.version++
	return tl.version
}

// ActiveAt returns the subtitle active at time t, or false when none
// is. Among overlapping cues the earliest-inserted one wins; both cue
// bounds are inclusive.
func (tl *Timeline) ActiveAt(t float64) (Subtitle, bool) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	for _, sub := range tl.subtitles {
		if sub.ActiveAt(t) {
			return sub, true
		}
	}
	return Subtitle{}, false
}

// Snapshot returns a copy of the current collection.
func (tl *Timeline) Snapshot() []Subtitle {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return append([]Subtitle(nil), tl.subtitles...)
}

// Version returns the current version counter.
func (tl *Timeline) Version() uint64 {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.version
}

// Len returns the number of subtitles in the collection.
func (tl *Timeline) Len() int {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return len(tl.subtitles)
}
