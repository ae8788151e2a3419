package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ArtifactState is the artifact cache's state machine position.
type ArtifactState string

const (
	StateIdle        ArtifactState = "idle"
	StateGenerating  ArtifactState = "generating"
	StateReady       ArtifactState = "ready"
	StateDownloading ArtifactState = "downloading"
	StateError       ArtifactState = "error"
)

// ArtifactService is the slice of the wire client the cache needs.
type ArtifactService interface {
	RequestArtifact(ctx context.Context, sessionID, filename string) (*ArtifactResult, error)
	FetchBinary(ctx context.Context, rawURL string) ([]byte, error)
}

// ArtifactCache tracks preview/export generation and enforces
// invalidation-on-edit. A cached artifact may be reused for download
// only while its version stamp equals the timeline's current version,
// so an exported file never reflects subtitles older than what the user
// sees. Generation and download share a single-flight gate.
type ArtifactCache struct {
	mu       sync.Mutex
	state    ArtifactState
	artifact *Artifact
	lastErr  string
	// gen numbers generation attempts so a response that raced with an
	// invalidation cannot be mistaken for the generation currently in
	// flight.
	gen uint64

	service  ArtifactService
	timeline *Timeline
}

// NewArtifactCache creates an idle cache bound to a timeline and the
// artifact service.
func NewArtifactCache(service ArtifactService, timeline *Timeline) *ArtifactCache {
	return &ArtifactCache{
		state:    StateIdle,
		service:  service,
		timeline: timeline,
	}
}

// State returns the current state machine position.
func (ac *ArtifactCache) State() ArtifactState {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	return ac.state
}

// Artifact returns the cached artifact, or nil when none is held.
func (ac *ArtifactCache) Artifact() *Artifact {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	if ac.artifact == nil {
		return nil
	}
	a := *ac.artifact
	return &a
}

// LastError returns the message recorded when the cache entered Error.
func (ac *ArtifactCache) LastError() string {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	return ac.lastErr
}

// Restore seeds the cache from persisted state. Stale artifacts are
// dropped rather than restored.
func (ac *ArtifactCache) Restore(artifact *Artifact) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	if artifact != nil && artifact.GeneratedAtVersion == ac.timeline.Version() {
		a := *artifact
		ac.artifact = &a
		ac.state = StateReady
		return
	}
	ac.artifact = nil
	ac.state = StateIdle
}

// Invalidate discards the cached artifact and returns to Idle. Called
// unconditionally after every successful timeline replace, regardless
// of the current state; a generation still in flight will find the
// state changed when it completes and discard its result.
func (ac *ArtifactCache) Invalidate() {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.state = StateIdle
	ac.artifact = nil
	ac.lastErr = ""
}

// RequestPreview generates a preview artifact, or returns the cached
// one when it still matches the timeline version. It never triggers a
// download.
func (ac *ArtifactCache) RequestPreview(ctx context.Context, sessionID string) (*Artifact, error) {
	return ac.generate(ctx, sessionID, "", ArtifactPreview)
}

// RequestDownload returns a locally usable artifact for saving: the
// cached one when its version stamp matches the timeline, otherwise a
// freshly generated one. The caller follows up with Download to fetch
// the bytes.
func (ac *ArtifactCache) RequestDownload(ctx context.Context, sessionID, filename string) (*Artifact, error) {
	ac.mu.Lock()
	if ac.state == StateReady && ac.artifact != nil && ac.artifact.GeneratedAtVersion == ac.timeline.Version() {
		a := *ac.artifact
		ac.mu.Unlock()
		LogDebug("reusing artifact %s at version %d", a.Filename, a.GeneratedAtVersion)
		return &a, nil
	}
	ac.mu.Unlock()

	return ac.generate(ctx, sessionID, filename, ArtifactExport)
}

// Download fetches the artifact's bytes and writes them to dir,
// forcing a save rather than handing the URL to a viewer. The cache
// transitions Ready → Downloading → Ready.
func (ac *ArtifactCache) Download(ctx context.Context, dir string) (string, error) {
	ac.mu.Lock()
	if ac.state != StateReady || ac.artifact == nil {
		state := ac.state
		ac.mu.Unlock()
		if state == StateGenerating || state == StateDownloading {
			return "", ErrGenerationInFlight
		}
		return "", &ArtifactError{Kind: "download", Detail: "no artifact is ready"}
	}
	if ac.artifact.GeneratedAtVersion != ac.timeline.Version() {
		// Never hand out a file older than the subtitles the user sees.
		ac.state = StateIdle
		ac.artifact = nil
		ac.mu.Unlock()
		return "", &ArtifactError{Kind: "download", Detail: "artifact no longer matches the current subtitles"}
	}
	artifact := *ac.artifact
	ac.state = StateDownloading
	ac.mu.Unlock()

	data, err := ac.service.FetchBinary(ctx, artifact.DownloadURL)

	ac.mu.Lock()
	if ac.state == StateDownloading {
		ac.state = StateReady
	}
	ac.mu.Unlock()

	if err != nil {
		return "", err
	}

	name := artifact.Filename
	if name == "" {
		name = filepath.Base(artifact.DownloadURL)
	}
	path := filepath.Join(dir, SanitizeFilename(name))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", &ArtifactError{Kind: string(artifact.Kind), Detail: fmt.Sprintf("failed to save %s: %v", path, err)}
	}
	return path, nil
}

// generate runs one guarded generation pass. Busy states reject rather
// than queue; an invalidation that lands while the request is in flight
// wins, and the late result is discarded.
func (ac *ArtifactCache) generate(ctx context.Context, sessionID, filename string, kind ArtifactKind) (*Artifact, error) {
	ac.mu.Lock()
	switch ac.state {
	case StateGenerating, StateDownloading:
		ac.mu.Unlock()
		return nil, ErrGenerationInFlight
	case StateReady:
		if ac.artifact != nil && ac.artifact.GeneratedAtVersion == ac.timeline.Version() {
			a := *ac.artifact
			ac.mu.Unlock()
			return &a, nil
		}
	}
	version := ac.timeline.Version()
	ac.gen++
	token := ac.gen
	ac.state = StateGenerating
	ac.lastErr = ""
	ac.mu.Unlock()

	result, err := ac.service.RequestArtifact(ctx, sessionID, filename)

	ac.mu.Lock()
	defer ac.mu.Unlock()

	if ac.state != StateGenerating || ac.gen != token {
		// Invalidated while the request was in flight, or a newer
		// generation has started since; the result no longer reflects
		// the current subtitles.
		LogDebug("discarding %s artifact generated for stale version %d", kind, version)
		if err != nil {
			return nil, err
		}
		return nil, &ArtifactError{Kind: string(kind), Detail: "subtitles changed during generation"}
	}

	if err != nil {
		ac.state = StateError
		ac.lastErr = err.Error()
		return nil, err
	}

	artifact := &Artifact{
		Kind:               kind,
		DownloadURL:        result.DownloadURL,
		Filename:           result.Filename,
		GeneratedAtVersion: version,
	}
	ac.artifact = artifact
	ac.state = StateReady

	a := *artifact
	return &a, nil
}
