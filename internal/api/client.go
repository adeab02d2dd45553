package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"hrdash/internal/config"
	"hrdash/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrSessionExpired is the expired-token signal. The auth/CRUD service
// reports it as status 400 on list_data/filter/update_profile and 401 on
// presigned_url; callers must tear the session down, never retry.
var ErrSessionExpired = errors.New("session expired")

// ErrBadShape marks a list response whose shape the normalizer does not
// recognize. Distinct from "legitimately empty" so the UI can surface it.
var ErrBadShape = errors.New("unrecognized response shape")

// RequestError carries the status and server-provided message of a non-2xx
// response that is not the expired-token signal.
type RequestError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.Endpoint, e.Message, e.Status)
	}
	return fmt.Sprintf("%s failed (status %d)", e.Endpoint, e.Status)
}

// Client talks to the two remote services: the auth/CRUD service at BaseURL
// and the parse service at ParseURL. It holds no mutable state; one Client
// is shared by the TUI and CLI commands.
type Client struct {
	baseURL  string
	parseURL string
	http     *http.Client
	upload   *http.Client
	log      zerolog.Logger
}

func New(cfg config.APIConfig, log zerolog.Logger) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		parseURL: cfg.ParseURL,
		http:     &http.Client{Timeout: cfg.Timeout()},
		upload:   &http.Client{Timeout: cfg.UploadTimeout()},
		log:      log,
	}
}

type LoginRequest struct {
	DomainID string `json:"domain_id"`
	Password string `json:"password"`
}

type LoginResponse struct {
	DomainID string `json:"domain_id"`
	Role     struct {
		Role string `json:"role"`
	} `json:"role"`
	Access  string `json:"access"`
	Message string `json:"message,omitempty"`
}

func (c *Client) Login(ctx context.Context, domainID, password string) (LoginResponse, error) {
	var out LoginResponse
	resp, body, err := c.postJSON(ctx, c.baseURL+"/login", "", LoginRequest{DomainID: domainID, Password: password})
	if err != nil {
		return out, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, &RequestError{Endpoint: "login", Status: resp.StatusCode, Message: serverMessage(body)}
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("login: decode response: %w", err)
	}
	return out, nil
}

// ListRequest is the list_data body. Unset criteria are omitted entirely;
// limit/offset are always present.
type ListRequest struct {
	model.FilterCriteria
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ListResult is the normalized list response. FilteredCount falls back to
// TotalCount when the server does not report it separately.
type ListResult struct {
	Records       []model.ProfileRecord
	TotalCount    int
	FilteredCount int
}

func (c *Client) ListProfiles(ctx context.Context, token string, req ListRequest) (ListResult, error) {
	resp, body, err := c.postJSON(ctx, c.baseURL+"/list_data", token, req)
	if err != nil {
		return ListResult{}, err
	}
	if resp.StatusCode == http.StatusBadRequest {
		return ListResult{}, ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ListResult{}, &RequestError{Endpoint: "list_data", Status: resp.StatusCode, Message: serverMessage(body)}
	}
	return normalizeListResponse(body)
}

func (c *Client) FilterValues(ctx context.Context, token string) (model.FilterVocabulary, error) {
	var out model.FilterVocabulary
	resp, body, err := c.do(ctx, http.MethodGet, c.baseURL+"/filter", token, "", nil)
	if err != nil {
		return out, err
	}
	if resp.StatusCode == http.StatusBadRequest {
		return out, ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, &RequestError{Endpoint: "filter", Status: resp.StatusCode, Message: serverMessage(body)}
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("filter: decode response: %w", err)
	}
	return out, nil
}

type UpdateResponse struct {
	StatusCode int `json:"statusCode"`
	Body       struct {
		Status string `json:"status"`
	} `json:"body"`
}

// UpdateProfile sends only the changed fields alongside the profile id.
func (c *Client) UpdateProfile(ctx context.Context, token string, profileID int, changes map[string]any) (UpdateResponse, error) {
	var out UpdateResponse

	payload := make(map[string]any, len(changes)+1)
	for k, v := range changes {
		payload[k] = v
	}
	payload["profile_id"] = profileID

	resp, body, err := c.postJSON(ctx, c.baseURL+"/update_profile", token, payload)
	if err != nil {
		return out, err
	}
	if resp.StatusCode == http.StatusBadRequest {
		return out, ErrSessionExpired
	}
	// The body may carry the failure reason even on error statuses.
	_ = json.Unmarshal(body, &out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := out.Body.Status
		if msg == "" {
			msg = serverMessage(body)
		}
		return out, &RequestError{Endpoint: "update_profile", Status: resp.StatusCode, Message: msg}
	}
	return out, nil
}

// PresignedSlot is one per-file upload target issued by the backend.
// The response array preserves the order of the requested filenames.
type PresignedSlot struct {
	OriginalFilename string `json:"original_filename"`
	FileName         string `json:"file_name"`
	URL              string `json:"url"`
}

type presignedRequest struct {
	Files         []string `json:"files"`
	SignatureType string   `json:"signatureType"`
}

func (c *Client) PresignedUploadSlots(ctx context.Context, token string, filenames []string) ([]PresignedSlot, error) {
	resp, body, err := c.postJSON(ctx, c.baseURL+"/presigned_url", token, presignedRequest{Files: filenames, SignatureType: "upload"})
	if err != nil {
		return nil, err
	}
	// This endpoint signals an expired token with 401, not 400.
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{Endpoint: "presigned_url", Status: resp.StatusCode, Message: serverMessage(body)}
	}
	var slots []PresignedSlot
	if err := json.Unmarshal(body, &slots); err != nil {
		return nil, fmt.Errorf("presigned_url: decode response: %w", err)
	}
	if len(slots) != len(filenames) {
		return nil, fmt.Errorf("presigned_url: expected %d slots, got %d", len(filenames), len(slots))
	}
	return slots, nil
}

// PutFileBytes uploads raw bytes directly to a presigned target. Any non-2xx
// is a hard per-file failure.
func (c *Client) PutFileBytes(ctx context.Context, url, contentType string, r io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, r)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.upload.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &RequestError{Endpoint: "upload", Status: resp.StatusCode, Message: string(bytes.TrimSpace(msg))}
	}
	return nil
}

// UploadedFile pairs the generated storage key with the original filename
// for the batched parse call.
type UploadedFile struct {
	FileName     string `json:"file_name"`
	OriginalName string `json:"original_name"`
}

type parseRequest struct {
	Files []UploadedFile `json:"files"`
}

func (c *Client) ParseUploaded(ctx context.Context, files []UploadedFile) ([]model.ProfileRecord, error) {
	resp, body, err := c.postJSON(ctx, c.parseURL+"/parse", "", parseRequest{Files: files})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{Endpoint: "parse", Status: resp.StatusCode, Message: serverMessage(body)}
	}
	var parsed []model.ProfileRecord
	// Some deployments return the parsed records, some an acknowledgment
	// object. The records are informational either way; tolerate both.
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, nil
	}
	return parsed, nil
}

func (c *Client) postJSON(ctx context.Context, url, token string, payload any) (*http.Response, []byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	return c.do(ctx, http.MethodPost, url, token, "application/json", bytes.NewReader(b))
}

func (c *Client) do(ctx context.Context, method, url, token, contentType string, body io.Reader) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("access", token)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Str("request_id", reqID).Str("method", method).Str("url", url).Err(err).Msg("request failed")
		return nil, nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	c.log.Debug().
		Str("request_id", reqID).
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request")
	return resp, b, nil
}

// serverMessage pulls a human-readable message out of an error body, best
// effort across the shapes the services use.
func serverMessage(body []byte) string {
	var m struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Body    struct {
			Status string `json:"status"`
		} `json:"body"`
	}
	if err := json.Unmarshal(body, &m); err == nil {
		switch {
		case m.Message != "":
			return m.Message
		case m.Error != "":
			return m.Error
		case m.Body.Status != "":
			return m.Body.Status
		}
	}
	return ""
}
