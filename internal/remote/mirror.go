package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/idrealestat/aqariai-core/internal/models"
)

// ErrRemoteUnavailable wraps any network or HTTP failure talking to the
// optional backend mirror. Write paths recover from it locally and never
// surface it to their callers.
var ErrRemoteUnavailable = errors.New("remote mirror unavailable")

// Call is a mirror request captured for background replay after a failure.
type Call struct {
	Method string          `json:"method"`
	Path   string          `json:"path"`
	Body   json.RawMessage `json:"body,omitempty"`
}

// Mirror is the best-effort remote counterpart of the local store. Every
// method is fire-and-check: a non-nil error always wraps
// ErrRemoteUnavailable and means "the remote did not take this write", never
// "the operation failed".
type Mirror interface {
	CreateListing(ctx context.Context, record *models.FullListingRecord) error
	UpdateListing(ctx context.Context, recordID string, status models.ListingStatus) error
	AddNote(ctx context.Context, recordID, note string) error
	AddProposal(ctx context.Context, recordID string, proposal *models.BrokerProposal) error
	UpdateProposal(ctx context.Context, proposalID string, status models.ProposalStatus) error

	// Do replays a captured call. Used by the background sync task.
	Do(ctx context.Context, call Call) error
}

// httpMirror talks to the REST backend at a configured base URL.
type httpMirror struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPMirror creates a mirror client against baseURL.
func NewHTTPMirror(baseURL string) Mirror {
	return &httpMirror{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func (m *httpMirror) CreateListing(ctx context.Context, record *models.FullListingRecord) error {
	return m.send(ctx, http.MethodPost, "/listings", record)
}

func (m *httpMirror) UpdateListing(ctx context.Context, recordID string, status models.ListingStatus) error {
	return m.send(ctx, http.MethodPatch, "/listings/"+recordID,
		map[string]string{"status": string(status)})
}

func (m *httpMirror) AddNote(ctx context.Context, recordID, note string) error {
	return m.send(ctx, http.MethodPost, "/listings/"+recordID+"/notes",
		map[string]string{"note": note})
}

func (m *httpMirror) AddProposal(ctx context.Context, recordID string, proposal *models.BrokerProposal) error {
	return m.send(ctx, http.MethodPost, "/listings/"+recordID+"/proposals", proposal)
}

func (m *httpMirror) UpdateProposal(ctx context.Context, proposalID string, status models.ProposalStatus) error {
	return m.send(ctx, http.MethodPatch, "/proposals/"+proposalID,
		map[string]string{"status": string(status)})
}

func (m *httpMirror) Do(ctx context.Context, call Call) error {
	return m.request(ctx, call.Method, call.Path, call.Body)
}

func (m *httpMirror) send(ctx context.Context, method, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: encoding payload: %v", ErrRemoteUnavailable, err)
	}
	return m.request(ctx, method, path, body)
}

func (m *httpMirror) request(ctx context.Context, method, path string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, method, m.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: building request: %v", ErrRemoteUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s returned status %d", ErrRemoteUnavailable, method, path, resp.StatusCode)
	}
	return nil
}

// NewCall captures a mirror request for later replay.
func NewCall(method, path string, payload interface{}) (Call, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Call{}, err
	}
	return Call{Method: method, Path: path, Body: body}, nil
}

// NoopMirror is used when no remote base URL is configured.
type NoopMirror struct{}

func (NoopMirror) CreateListing(context.Context, *models.FullListingRecord) error { return nil }
func (NoopMirror) UpdateListing(context.Context, string, models.ListingStatus) error {
	return nil
}
func (NoopMirror) AddNote(context.Context, string, string) error { return nil }
func (NoopMirror) AddProposal(context.Context, string, *models.BrokerProposal) error {
	return nil
}
func (NoopMirror) UpdateProposal(context.Context, string, models.ProposalStatus) error {
	return nil
}
func (NoopMirror) Do(context.Context, Call) error { return nil }
