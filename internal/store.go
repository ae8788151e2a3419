package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionStore persists the current session's state across CLI
// invocations so the cache-reuse rule works between `vedit preview`
// and `vedit export`. It is a session-scoped cache; the server stays
// authoritative for subtitle content.
type SessionStore struct {
	db *sql.DB
}

// NewSessionStore wraps an open database.
func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save writes the session snapshot, replacing any previous one for the
// same identity, and marks it as the current session.
func (st *SessionStore) Save(state *SessionState) error {
	if state == nil || state.SessionID == "" {
		return &StoreError{Op: "save", Err: fmt.Errorf("no session to save")}
	}

	metadata, err := json.Marshal(state.Metadata)
	if err != nil {
		return &StoreError{Op: "save", Err: err}
	}
	subtitles, err := json.Marshal(state.Subtitles)
	if err != nil {
		return &StoreError{Op: "save", Err: err}
	}

	tx, err := st.db.Begin()
	if err != nil {
		return &StoreError{Op: "save", Err: err}
	}
	defer tx.Rollback()

	now := time.Now().Format(time.RFC3339Nano)
	created := state.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err = tx.Exec(`INSERT INTO sessions (session_id, filename, video_url, metadata, subtitles, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			filename = excluded.filename,
			video_url = excluded.video_url,
			metadata = excluded.metadata,
			subtitles = excluded.subtitles,
			version = excluded.version,
			updated_at = excluded.updated_at`,
		state.SessionID, state.Filename, state.VideoURL, string(metadata), string(subtitles),
		int64(state.Version), created.Format(time.RFC3339Nano), now)
	if err != nil {
		return &StoreError{Op: "save", Err: err}
	}

	// Chat history is append-only in the session; the persisted copy is
	// rewritten wholesale to match it.
	if _, err := tx.Exec(`DELETE FROM messages WHERE session_id = ?`, state.SessionID); err != nil {
		return &StoreError{Op: "save", Err: err}
	}
	for i, msg := range state.ChatHistory {
		var meta []byte
		if msg.Metadata != nil {
			meta, _ = json.Marshal(msg.Metadata)
		}
		_, err := tx.Exec(`INSERT INTO messages (id, session_id, seq, role, content, metadata, timestamp)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), state.SessionID, i, string(msg.Role), msg.Content,
			nullableString(meta), msg.Timestamp.Format(time.RFC3339Nano))
		if err != nil {
			return &StoreError{Op: "save", Err: err}
		}
	}

	if _, err := tx.Exec(`DELETE FROM artifacts WHERE session_id = ?`, state.SessionID); err != nil {
		return &StoreError{Op: "save", Err: err}
	}
	if state.Artifact != nil {
		_, err := tx.Exec(`INSERT INTO artifacts (id, session_id, kind, download_url, filename, version, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), state.SessionID, string(state.Artifact.Kind),
			state.Artifact.DownloadURL, state.Artifact.Filename,
			int64(state.Artifact.GeneratedAtVersion), now)
		if err != nil {
			return &StoreError{Op: "save", Err: err}
		}
	}

	_, err = tx.Exec(`INSERT INTO current_session (k, session_id) VALUES (1, ?)
		ON CONFLICT(k) DO UPDATE SET session_id = excluded.session_id`, state.SessionID)
	if err != nil {
		return &StoreError{Op: "save", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &StoreError{Op: "save", Err: err}
	}
	return nil
}

// Load returns the current session snapshot, or nil when no session is
// stored.
func (st *SessionStore) Load() (*SessionState, error) {
	var sessionID string
	err := st.db.QueryRow(`SELECT session_id FROM current_session WHERE k = 1`).Scan(&sessionID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "load", Err: err}
	}

	state := &SessionState{SessionID: sessionID}

	var metadata, subtitles, createdAt string
	var version int64
	err = st.db.QueryRow(`SELECT filename, video_url, metadata, subtitles, version, created_at
		FROM sessions WHERE session_id = ?`, sessionID).
		Scan(&state.Filename, &state.VideoURL, &metadata, &subtitles, &version, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "load", Err: err}
	}

	if err := json.Unmarshal([]byte(metadata), &state.Metadata); err != nil {
		return nil, &StoreError{Op: "load", Err: fmt.Errorf("failed to parse metadata: %w", err)}
	}
	if err := json.Unmarshal([]byte(subtitles), &state.Subtitles); err != nil {
		return nil, &StoreError{Op: "load", Err: fmt.Errorf("failed to parse subtitles: %w", err)}
	}
	state.Version = uint64(version)
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		state.CreatedAt = t
	}

	messages, err := st.loadMessages(sessionID)
	if err != nil {
		return nil, err
	}
	state.ChatHistory = messages

	artifact, err := st.loadArtifact(sessionID)
	if err != nil {
		return nil, err
	}
	state.Artifact = artifact

	return state, nil
}

// Reset removes the stored session and everything hanging off it.
func (st *SessionStore) Reset() error {
	tx, err := st.db.Begin()
	if err != nil {
		return &StoreError{Op: "reset", Err: err}
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM messages`,
		`DELETE FROM artifacts`,
		`DELETE FROM sessions`,
		`DELETE FROM current_session`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return &StoreError{Op: "reset", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &StoreError{Op: "reset", Err: err}
	}
	return nil
}

func (st *SessionStore) loadMessages(sessionID string) ([]ChatMessage, error) {
	rows, err := st.db.Query(`SELECT role, content, metadata, timestamp
		FROM messages WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, &StoreError{Op: "load", Err: err}
	}
	defer rows.Close()

	var messages []ChatMessage
	for rows.Next() {
		var role, content, timestamp string
		var meta sql.NullString
		if err := rows.Scan(&role, &content, &meta, &timestamp); err != nil {
			return nil, &StoreError{Op: "load", Err: err}
		}
		msg := ChatMessage{Role: Role(role), Content: content}
		if meta.Valid && meta.String != "" {
			if err := json.Unmarshal([]byte(meta.String), &msg.Metadata); err != nil {
				LogWarn("skipping unparseable message metadata: %v", err)
			}
		}
		if t, err := time.Parse(time.RFC3339Nano, timestamp); err == nil {
			msg.Timestamp = t
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "load", Err: err}
	}
	return messages, nil
}

func (st *SessionStore) loadArtifact(sessionID string) (*Artifact, error) {
	var kind, downloadURL, filename string
	var version int64
	err := st.db.QueryRow(`SELECT kind, download_url, filename, version
		FROM artifacts WHERE session_id = ? ORDER BY created_at DESC LIMIT 1`, sessionID).
		Scan(&kind, &downloadURL, &filename, &version)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "load", Err: err}
	}
	return &Artifact{
		Kind:               ArtifactKind(kind),
		DownloadURL:        downloadURL,
		Filename:           filename,
		GeneratedAtVersion: uint64(version),
	}, nil
}

func nullableString(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
