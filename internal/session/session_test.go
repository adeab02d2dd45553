package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStore_SaveLoadClear(t *testing.T) {
	st := Store{Dir: t.TempDir()}

	s, err := st.Load()
	if err != nil {
		t.Fatalf("Load on empty dir: %v", err)
	}
	if s.Valid() {
		t.Fatalf("expected empty session to be invalid; got %+v", s)
	}

	want := Session{AccessToken: "tok-123", Role: "recruiter"}
	if err := st.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v; got %+v", want, got)
	}
	if !got.Valid() {
		t.Fatalf("expected saved session to be valid")
	}

	if err := st.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	got, err = st.Load()
	if err != nil {
		t.Fatalf("Load after Clear: %v", err)
	}
	if got.Valid() {
		t.Fatalf("expected cleared session to be invalid; got %+v", got)
	}

	// Clearing twice is fine.
	if err := st.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}

func TestStore_LoadCorruptFileIsEmptySession(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "session.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	st := Store{Dir: dir}
	s, err := st.Load()
	if err != nil {
		t.Fatalf("Load corrupt: %v", err)
	}
	if s.Valid() {
		t.Fatalf("expected corrupt session file to load as empty; got %+v", s)
	}
}

func TestConfigDir_EnvOverride(t *testing.T) {
	t.Setenv("HRDASH_CONFIG_DIR", "/tmp/hrdash-test-dir")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir: %v", err)
	}
	if dir != "/tmp/hrdash-test-dir" {
		t.Fatalf("expected env override dir; got %q", dir)
	}
}
