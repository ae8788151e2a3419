package internal

import (
	"errors"
	"fmt"
)

// Sentinel errors for the single-flight gates and missing session state.
var (
	// ErrEditInFlight is returned when an edit turn is submitted while a
	// previous turn is still awaiting its response. Turns are rejected,
	// never queued.
	ErrEditInFlight = errors.New("an edit is already in progress")

	// ErrGenerationInFlight is returned when a preview/export is requested
	// while the artifact cache is already generating or downloading.
	ErrGenerationInFlight = errors.New("artifact generation already in progress")

	// ErrNoSession is returned by operations that require an active
	// session before any video has been uploaded.
	ErrNoSession = errors.New("no active session; upload a video first")
)

// ValidationError represents a client-side upload rejection. It is
// produced before any network call is made.
type ValidationError struct {
	Field  string // "format", "size", "file"
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [%s]: %s", e.Field, e.Detail)
}

// NetworkError represents a request that never reached the server or
// whose response never came back.
type NetworkError struct {
	Op  string // "upload", "chat", "export", "download"
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError represents a non-2xx response with a server-supplied
// message.
type ServerError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *ServerError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server error [%s] status %d: %s", e.Op, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("server error [%s] status %d", e.Op, e.StatusCode)
}

// ArtifactError represents a generation call that succeeded at the
// transport level but returned no usable download URL.
type ArtifactError struct {
	Kind   string // "preview", "export"
	Detail string
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("artifact error [%s]: %s", e.Kind, e.Detail)
}

// PlaybackError represents a playback controller failure, such as
// seeking with no media loaded.
type PlaybackError struct {
	Op  string // "seek", "play", "volume"
	Err error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback error [%s]: %v", e.Op, e.Err)
}

func (e *PlaybackError) Unwrap() error {
	return e.Err
}

// StoreError represents errors accessing the local session store.
type StoreError struct {
	Op  string // "open", "save", "load", "reset"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
