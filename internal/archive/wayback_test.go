// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waybackServer fakes both Wayback endpoints and counts calls to each.
type waybackServer struct {
	ts *httptest.Server

	lookups int32
	saves   int32

	// availabilityBody is returned from the availability endpoint.
	availabilityBody string
	// saveStatus is the HTTP status the save endpoint responds with.
	saveStatus int
	// lastSaveAuth records the Authorization header of the last save call.
	lastSaveAuth atomic.Value
	// lastSaveForm records the form body of the last save call.
	lastSaveForm atomic.Value
}

func newWaybackServer(t *testing.T, availabilityBody string, saveStatus int) *waybackServer {
	t.Helper()
	ws := &waybackServer{availabilityBody: availabilityBody, saveStatus: saveStatus}
	ws.ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/wayback/available":
			atomic.AddInt32(&ws.lookups, 1)
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, ws.availabilityBody)
		case strings.HasPrefix(r.URL.Path, "/save/"):
			atomic.AddInt32(&ws.saves, 1)
			ws.lastSaveAuth.Store(r.Header.Get("Authorization"))
			_ = r.ParseForm()
			ws.lastSaveForm.Store(r.PostForm.Encode())
			w.WriteHeader(ws.saveStatus)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ws.ts.Close)

	oldAvail, oldSave := availabilityAPIBase, saveAPIBase
	availabilityAPIBase = ws.ts.URL + "/wayback/available"
	saveAPIBase = ws.ts.URL + "/save/"
	t.Cleanup(func() {
		availabilityAPIBase = oldAvail
		saveAPIBase = oldSave
	})

	return ws
}

func (ws *waybackServer) requester() *Requester {
	return &Requester{Client: ws.ts.Client(), UserAgent: "paperlink-test/0"}
}

const snapshotBody = `{"archived_snapshots":{"closest":{"url":"http://web.archive.org/web/20230101000000/https://github.com/foo/bar","available":true}}}`

func TestArchiveAlreadyArchivedIsIdempotent(t *testing.T) {
	ws := newWaybackServer(t, snapshotBody, http.StatusOK)

	out, err := ws.requester().Archive(context.Background(), "https://github.com/foo/bar")
	require.NoError(t, err)

	assert.Equal(t, StatusAlreadyArchived, out.Status)
	assert.Equal(t, "http://web.archive.org/web/20230101000000/https://github.com/foo/bar", out.SnapshotURL)
	assert.Equal(t, int32(1), atomic.LoadInt32(&ws.lookups))
	assert.Equal(t, int32(0), atomic.LoadInt32(&ws.saves))
}

func TestArchiveSubmitsWhenNoSnapshot(t *testing.T) {
	ws := newWaybackServer(t, `{"archived_snapshots":{}}`, http.StatusOK)

	out, err := ws.requester().Archive(context.Background(), "https://github.com/foo/bar")
	require.NoError(t, err)

	assert.Equal(t, StatusNewlyArchived, out.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&ws.lookups))
	assert.Equal(t, int32(1), atomic.LoadInt32(&ws.saves))
	assert.Equal(t, "capture_all=on&url=https%3A%2F%2Fgithub.com%2Ffoo%2Fbar", ws.lastSaveForm.Load())
}

func TestArchiveSaveRejectionIsOutcomeNotError(t *testing.T) {
	ws := newWaybackServer(t, `{"archived_snapshots":{}}`, http.StatusInternalServerError)

	out, err := ws.requester().Archive(context.Background(), "https://github.com/foo/bar")
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, out.Status)
	assert.Equal(t, http.StatusInternalServerError, out.StatusCode)
}

func TestArchiveMalformedAvailabilityBody(t *testing.T) {
	ws := newWaybackServer(t, `{not json`, http.StatusOK)

	_, err := ws.requester().Archive(context.Background(), "https://github.com/foo/bar")
	assert.Error(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&ws.saves))
}

func TestArchiveAvailabilityHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	old := availabilityAPIBase
	availabilityAPIBase = ts.URL + "/wayback/available"
	defer func() { availabilityAPIBase = old }()

	r := &Requester{Client: ts.Client(), UserAgent: "paperlink-test/0"}
	_, err := r.Archive(context.Background(), "https://github.com/foo/bar")
	assert.ErrorContains(t, err, "HTTP 502")
}

func TestArchiveSendsAuthHeaderWhenConfigured(t *testing.T) {
	ws := newWaybackServer(t, `{"archived_snapshots":{}}`, http.StatusOK)

	r := ws.requester()
	r.AccessKey = "ak"
	r.SecretKey = "sk"

	_, err := r.Archive(context.Background(), "https://github.com/foo/bar")
	require.NoError(t, err)
	assert.Equal(t, "LOW ak:sk", ws.lastSaveAuth.Load())
}

func TestArchiveNoAuthHeaderByDefault(t *testing.T) {
	ws := newWaybackServer(t, `{"archived_snapshots":{}}`, http.StatusOK)

	_, err := ws.requester().Archive(context.Background(), "https://github.com/foo/bar")
	require.NoError(t, err)
	assert.Equal(t, "", ws.lastSaveAuth.Load())
}

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		name string
		out  Outcome
		want string
	}{
		{
			name: "already archived",
			out:  Outcome{URL: "https://github.com/a/b", Status: StatusAlreadyArchived, SnapshotURL: "http://web.archive.org/web/1/x"},
			want: "already archived: https://github.com/a/b -> http://web.archive.org/web/1/x",
		},
		{
			name: "newly archived",
			out:  Outcome{URL: "https://github.com/a/b", Status: StatusNewlyArchived},
			want: "archived: https://github.com/a/b",
		},
		{
			name: "failed",
			out:  Outcome{URL: "https://github.com/a/b", Status: StatusFailed, StatusCode: 500},
			want: "archive failed: https://github.com/a/b (HTTP 500)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.out.String())
		})
	}
}
