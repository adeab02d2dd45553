package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hrdash/internal/config"
	"hrdash/internal/model"

	"github.com/rs/zerolog"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.APIConfig{BaseURL: srv.URL, ParseURL: srv.URL}
	return New(cfg, zerolog.Nop()), srv
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login" {
			t.Errorf("expected /login; got %s", r.URL.Path)
		}
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.DomainID != "hr-7" || req.Password != "hunter2" {
			t.Errorf("unexpected credentials: %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access": "tok-123",
			"role":   map[string]string{"role": "admin"},
		})
	}))

	out, err := c.Login(context.Background(), "hr-7", "hunter2")
	if err != nil {
		t.Fatalf("expected login to succeed; got %v", err)
	}
	if out.Access != "tok-123" {
		t.Errorf("expected access tok-123; got %q", out.Access)
	}
	if out.Role.Role != "admin" {
		t.Errorf("expected role admin; got %q", out.Role.Role)
	}
}

func TestLoginRejectedCarriesServerMessage(t *testing.T) {
	t.Parallel()
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
	}))

	_, err := c.Login(context.Background(), "hr-7", "wrong")
	var re *RequestError
	if !errors.As(err, &re) {
		t.Fatalf("expected RequestError; got %v", err)
	}
	if re.Message != "invalid credentials" {
		t.Errorf("expected server message; got %q", re.Message)
	}
}

func TestListProfilesSendsTokenAndOmitsUnsetCriteria(t *testing.T) {
	t.Parallel()
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("access"); got != "tok" {
			t.Errorf("expected access header tok; got %q", got)
		}
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if _, ok := raw["search"]; ok {
			t.Errorf("unset search must not appear in body: %v", raw)
		}
		if raw["sector"] != "Finance" {
			t.Errorf("expected sector Finance; got %v", raw["sector"])
		}
		if raw["limit"] != float64(20) || raw["offset"] != float64(40) {
			t.Errorf("expected limit 20 offset 40; got %v %v", raw["limit"], raw["offset"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"resume_data":    []model.ProfileRecord{{ProfileID: 1, Name: "Ada"}},
			"total_count":    57,
			"filtered_count": 12,
		})
	}))

	out, err := c.ListProfiles(context.Background(), "tok", ListRequest{
		FilterCriteria: model.FilterCriteria{Sector: "Finance"},
		Limit:          20,
		Offset:         40,
	})
	if err != nil {
		t.Fatalf("expected list to succeed; got %v", err)
	}
	if len(out.Records) != 1 || out.Records[0].Name != "Ada" {
		t.Errorf("unexpected records: %+v", out.Records)
	}
	if out.TotalCount != 57 || out.FilteredCount != 12 {
		t.Errorf("expected counts 57/12; got %d/%d", out.TotalCount, out.FilteredCount)
	}
}

func TestListProfilesExpiredToken(t *testing.T) {
	t.Parallel()
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	_, err := c.ListProfiles(context.Background(), "stale", ListRequest{Limit: 20})
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired; got %v", err)
	}
}

func TestFilterValuesExpiredToken(t *testing.T) {
	t.Parallel()
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	_, err := c.FilterValues(context.Background(), "stale")
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired; got %v", err)
	}
}

func TestFilterValues(t *testing.T) {
	t.Parallel()
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/filter" {
			t.Errorf("expected GET /filter; got %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string][]string{
			"sector":   {"Finance", "Tech"},
			"location": {"Pune"},
		})
	}))

	out, err := c.FilterValues(context.Background(), "tok")
	if err != nil {
		t.Fatalf("expected filter values; got %v", err)
	}
	if len(out.Sector) != 2 || out.Sector[0] != "Finance" {
		t.Errorf("unexpected sectors: %v", out.Sector)
	}
}

func TestUpdateProfileSendsOnlyChangesPlusID(t *testing.T) {
	t.Parallel()
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(raw) != 2 {
			t.Errorf("expected exactly profile_id plus one change; got %v", raw)
		}
		if raw["profile_id"] != float64(9) || raw["email"] != "new@x.io" {
			t.Errorf("unexpected payload: %v", raw)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"statusCode": 200,
			"body":       map[string]string{"status": "updated"},
		})
	}))

	out, err := c.UpdateProfile(context.Background(), "tok", 9, map[string]any{"email": "new@x.io"})
	if err != nil {
		t.Fatalf("expected update to succeed; got %v", err)
	}
	if out.StatusCode != 200 || out.Body.Status != "updated" {
		t.Errorf("unexpected response: %+v", out)
	}
}

func TestUpdateProfileExpiredToken(t *testing.T) {
	t.Parallel()
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	_, err := c.UpdateProfile(context.Background(), "stale", 9, map[string]any{"email": "x"})
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired; got %v", err)
	}
}

func TestPresignedSlotsExpiredTokenIs401(t *testing.T) {
	t.Parallel()
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.PresignedUploadSlots(context.Background(), "stale", []string{"a.pdf"})
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired; got %v", err)
	}
}

func TestPresignedSlotsCountMismatch(t *testing.T) {
	t.Parallel()
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]PresignedSlot{
			{OriginalFilename: "a.pdf", FileName: "k1", URL: "http://x/1"},
		})
	}))

	_, err := c.PresignedUploadSlots(context.Background(), "tok", []string{"a.pdf", "b.pdf"})
	if err == nil {
		t.Fatal("expected slot count mismatch to fail")
	}
}

func TestNormalizeListResponseShapes(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		body     string
		records  int
		total    int
		filtered int
	}{
		{"resume_data", `{"resume_data":[{"profile_id":1}],"total_count":40,"filtered_count":8}`, 1, 40, 8},
		{"resumes camel", `{"resumes":[{"profile_id":1},{"profile_id":2}],"totalCount":5}`, 2, 5, 5},
		{"resumes snake", `{"resumes":[{"profile_id":1}],"total_count":7}`, 1, 7, 7},
		{"data", `{"data":[{"profile_id":1}],"total_count":3}`, 1, 3, 3},
		{"bare array", `[{"profile_id":1},{"profile_id":2},{"profile_id":3}]`, 3, 3, 3},
		{"counts missing", `{"resumes":[{"profile_id":1}]}`, 1, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := normalizeListResponse([]byte(tc.body))
			if err != nil {
				t.Fatalf("expected shape to normalize; got %v", err)
			}
			if len(out.Records) != tc.records {
				t.Errorf("expected %d records; got %d", tc.records, len(out.Records))
			}
			if out.TotalCount != tc.total || out.FilteredCount != tc.filtered {
				t.Errorf("expected counts %d/%d; got %d/%d", tc.total, tc.filtered, out.TotalCount, out.FilteredCount)
			}
		})
	}
}

func TestNormalizeListResponseRejectsUnknownShape(t *testing.T) {
	t.Parallel()
	for _, body := range []string{`{"rows":[]}`, `{}`, `"nope"`, `42`} {
		if _, err := normalizeListResponse([]byte(body)); !errors.Is(err, ErrBadShape) {
			t.Errorf("body %s: expected ErrBadShape; got %v", body, err)
		}
	}
}
