package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"hrdash/internal/config"

	"github.com/rs/zerolog"
)

func stageFiles(t *testing.T, names ...string) []File {
	t.Helper()
	dir := t.TempDir()
	files := make([]File, len(names))
	for i, name := range names {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("doc bytes for "+name), 0o600); err != nil {
			t.Fatalf("stage %s: %v", name, err)
		}
		files[i] = File{Name: name, Path: p}
	}
	return files
}

func TestUploadAndParseHappyPath(t *testing.T) {
	t.Parallel()
	var puts, parses atomic.Int32

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/presigned_url", func(w http.ResponseWriter, r *http.Request) {
		var req presignedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode presign request: %v", err)
		}
		if req.SignatureType != "upload" {
			t.Errorf("expected signatureType upload; got %q", req.SignatureType)
		}
		slots := make([]PresignedSlot, len(req.Files))
		for i, name := range req.Files {
			slots[i] = PresignedSlot{
				OriginalFilename: name,
				FileName:         "key-" + name,
				URL:              srv.URL + "/blob/" + name,
			}
		}
		json.NewEncoder(w).Encode(slots)
	})
	mux.HandleFunc("/blob/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT to blob target; got %s", r.Method)
		}
		puts.Add(1)
	})
	mux.HandleFunc("/parse", func(w http.ResponseWriter, r *http.Request) {
		if puts.Load() != 2 {
			t.Errorf("parse reached before all uploads finished (%d puts)", puts.Load())
		}
		parses.Add(1)
		var req parseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode parse request: %v", err)
		}
		if len(req.Files) != 2 {
			t.Errorf("expected one batched parse call with 2 files; got %d", len(req.Files))
		}
		for _, f := range req.Files {
			if f.FileName != "key-"+f.OriginalName {
				t.Errorf("expected storage key pairing; got %+v", f)
			}
		}
		w.Write([]byte(`[]`))
	})

	c := New(config.APIConfig{BaseURL: srv.URL, ParseURL: srv.URL}, zerolog.Nop())
	n, err := c.UploadAndParse(context.Background(), "tok", stageFiles(t, "a.pdf", "b.docx"))
	if err != nil {
		t.Fatalf("expected pipeline to succeed; got %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 files parsed; got %d", n)
	}
	if parses.Load() != 1 {
		t.Errorf("expected exactly one parse call; got %d", parses.Load())
	}
}

func TestUploadAndParseDuplicateNamesKeepSeparateSlots(t *testing.T) {
	t.Parallel()

	// Two staged files may share a base name (different directories); each
	// must still be PUT to its own slot with its own bytes.
	dir := t.TempDir()
	files := make([]File, 2)
	for i, content := range []string{"first candidate", "second candidate"} {
		p := filepath.Join(dir, fmt.Sprintf("batch-%d", i), "cv.pdf")
		if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
			t.Fatalf("stage dir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatalf("stage cv.pdf: %v", err)
		}
		files[i] = File{Name: "cv.pdf", Path: p}
	}

	var mu sync.Mutex
	received := map[string]string{}

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/presigned_url", func(w http.ResponseWriter, r *http.Request) {
		var req presignedRequest
		json.NewDecoder(r.Body).Decode(&req)
		slots := make([]PresignedSlot, len(req.Files))
		for i, name := range req.Files {
			slots[i] = PresignedSlot{
				OriginalFilename: name,
				FileName:         fmt.Sprintf("key-%d", i),
				URL:              fmt.Sprintf("%s/blob/%d", srv.URL, i),
			}
		}
		json.NewEncoder(w).Encode(slots)
	})
	mux.HandleFunc("/blob/", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		received[r.URL.Path] = string(b)
		mu.Unlock()
	})
	mux.HandleFunc("/parse", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	c := New(config.APIConfig{BaseURL: srv.URL, ParseURL: srv.URL}, zerolog.Nop())
	n, err := c.UploadAndParse(context.Background(), "tok", files)
	if err != nil {
		t.Fatalf("expected pipeline to succeed; got %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 files parsed; got %d", n)
	}
	if received["/blob/0"] != "first candidate" || received["/blob/1"] != "second candidate" {
		t.Errorf("expected each slot to receive its own file's bytes; got %v", received)
	}
}

func TestUploadAndParseAbortsParseOnPutFailure(t *testing.T) {
	t.Parallel()
	var parses atomic.Int32

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/presigned_url", func(w http.ResponseWriter, r *http.Request) {
		var req presignedRequest
		json.NewDecoder(r.Body).Decode(&req)
		slots := make([]PresignedSlot, len(req.Files))
		for i, name := range req.Files {
			slots[i] = PresignedSlot{OriginalFilename: name, FileName: "key-" + name, URL: srv.URL + "/blob/" + name}
		}
		json.NewEncoder(w).Encode(slots)
	})
	mux.HandleFunc("/blob/", func(w http.ResponseWriter, r *http.Request) {
		if filepath.Base(r.URL.Path) == "bad.pdf" {
			w.WriteHeader(http.StatusForbidden)
		}
	})
	mux.HandleFunc("/parse", func(w http.ResponseWriter, r *http.Request) {
		parses.Add(1)
	})

	c := New(config.APIConfig{BaseURL: srv.URL, ParseURL: srv.URL}, zerolog.Nop())
	_, err := c.UploadAndParse(context.Background(), "tok", stageFiles(t, "ok.pdf", "bad.pdf"))
	if err == nil {
		t.Fatal("expected pipeline to fail on PUT error")
	}
	if parses.Load() != 0 {
		t.Errorf("parse must not run after a failed upload; got %d calls", parses.Load())
	}
}

func TestUploadAndParseEmptyBatchIsNoop(t *testing.T) {
	t.Parallel()
	c := New(config.APIConfig{BaseURL: "http://unused", ParseURL: "http://unused"}, zerolog.Nop())
	n, err := c.UploadAndParse(context.Background(), "tok", nil)
	if err != nil || n != 0 {
		t.Fatalf("expected noop for empty batch; got n=%d err=%v", n, err)
	}
}

func TestContentTypeFor(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"cv.pdf":   "application/pdf",
		"cv.PDF":   "application/pdf",
		"cv.doc":   "application/msword",
		"cv.docx":  "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"cv.other": "application/octet-stream",
	}
	for name, want := range cases {
		if got := contentTypeFor(name); got != want {
			t.Errorf("%s: expected %s; got %s", name, want, got)
		}
	}
}
