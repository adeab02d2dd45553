package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const sessionFileName = "session.json"

// Session holds the bearer token and role issued by the auth service. It is
// the only durable client-side state besides configuration.
type Session struct {
	AccessToken string `json:"accessToken,omitempty"`
	Role        string `json:"role,omitempty"`
}

// Valid reports whether a token is present. Expiry is only learned from the
// service (the expired-token status convention), never checked locally.
func (s Session) Valid() bool {
	return strings.TrimSpace(s.AccessToken) != ""
}

// Store loads and saves the session file under the config dir. Controllers
// receive a *Store explicitly; there is no ambient global session.
type Store struct {
	// Dir overrides the config dir when set (fixtures/tests).
	Dir string
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.hrdash).
	if v := strings.TrimSpace(os.Getenv("HRDASH_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".hrdash"), nil
}

func (st Store) path() (string, error) {
	dir := strings.TrimSpace(st.Dir)
	if dir == "" {
		d, err := ConfigDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	return filepath.Join(dir, sessionFileName), nil
}

// Load returns the persisted session, or an empty one when the file is
// missing or unreadable as JSON (best effort: a corrupt session just forces
// a fresh login).
func (st Store) Load() (Session, error) {
	path, err := st.path()
	if err != nil {
		return Session{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, nil
		}
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return Session{}, nil
	}
	return s, nil
}

func (st Store) Save(s Session) error {
	path, err := st.path()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	// Unique temp file + atomic rename so concurrent CLI/TUI processes can't
	// clobber each other mid-write.
	return atomicWriteFile(dir, sessionFileName+".*.tmp", path, b, 0o600)
}

// Clear removes the persisted token and role together. Called on logout and
// on any expired-token signal from any endpoint.
func (st Store) Clear() error {
	path, err := st.path()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
