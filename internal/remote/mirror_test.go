package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idrealestat/aqariai-core/internal/models"
)

type capturedRequest struct {
	method string
	path   string
	body   []byte
}

func mirrorServer(t *testing.T, status int) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured = append(captured, capturedRequest{method: r.Method, path: r.URL.Path, body: body})
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestHTTPMirror_CreateListing(t *testing.T) {
	srv, captured := mirrorServer(t, http.StatusCreated)
	mirror := NewHTTPMirror(srv.URL)

	record := models.NewFullListingRecord("owner-1", models.ListingDraft{
		Kind:            models.KindOffer,
		TransactionType: models.TransactionRent,
		PropertyType:    "apartment",
		Location:        models.Location{City: "Riyadh"},
	}, models.StatusActive)

	require.NoError(t, mirror.CreateListing(context.Background(), &record))

	require.Len(t, *captured, 1)
	got := (*captured)[0]
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/listings", got.path)

	var sent models.FullListingRecord
	require.NoError(t, json.Unmarshal(got.body, &sent))
	assert.Equal(t, record.ID, sent.ID)
}

func TestHTTPMirror_UpdateProposal(t *testing.T) {
	srv, captured := mirrorServer(t, http.StatusOK)
	mirror := NewHTTPMirror(srv.URL)

	require.NoError(t, mirror.UpdateProposal(context.Background(), "prop-1", models.ProposalAccepted))

	require.Len(t, *captured, 1)
	got := (*captured)[0]
	assert.Equal(t, http.MethodPatch, got.method)
	assert.Equal(t, "/proposals/prop-1", got.path)
	assert.JSONEq(t, `{"status":"accepted"}`, string(got.body))
}

func TestHTTPMirror_ErrorStatusIsUnavailable(t *testing.T) {
	srv, _ := mirrorServer(t, http.StatusInternalServerError)
	mirror := NewHTTPMirror(srv.URL)

	err := mirror.AddNote(context.Background(), "rec-1", "keys with doorman")
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}

func TestHTTPMirror_ConnectionRefusedIsUnavailable(t *testing.T) {
	srv, _ := mirrorServer(t, http.StatusOK)
	srv.Close() // nothing listening anymore

	mirror := NewHTTPMirror(srv.URL)
	err := mirror.CreateListing(context.Background(), &models.FullListingRecord{ID: "rec-1"})
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}

func TestHTTPMirror_DoReplaysCapturedCall(t *testing.T) {
	srv, captured := mirrorServer(t, http.StatusOK)
	mirror := NewHTTPMirror(srv.URL)

	call, err := NewCall(http.MethodPatch, "/listings/rec-1", map[string]string{"status": "closed"})
	require.NoError(t, err)

	require.NoError(t, mirror.Do(context.Background(), call))

	require.Len(t, *captured, 1)
	got := (*captured)[0]
	assert.Equal(t, http.MethodPatch, got.method)
	assert.Equal(t, "/listings/rec-1", got.path)
	assert.JSONEq(t, `{"status":"closed"}`, string(got.body))
}
