package registration

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Session is the persisted outcome of a successful registration or login.
type Session struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

// FileSessionStore persists the session to a JSON file so subsequent CLI or
// SDK calls can authenticate without registering again.
type FileSessionStore struct {
	path string
}

// NewFileSessionStore creates a store writing to the given path.
func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

// EstablishSession writes the user and token to disk, replacing any previous session.
func (s *FileSessionStore) EstablishSession(user User, accessToken string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	data, err := json.Marshal(Session{User: user, AccessToken: accessToken})
	if err != nil {
		return err
	}
	// The token is a credential; keep the file owner-only.
	return os.WriteFile(s.path, data, 0600)
}

// Current loads the persisted session, if any.
func (s *FileSessionStore) Current() (Session, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, false, nil
		}
		return Session{}, false, err
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}, false, err
	}
	return session, session.AccessToken != "", nil
}

// Clear removes the persisted session.
func (s *FileSessionStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
