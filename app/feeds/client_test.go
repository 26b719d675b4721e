package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dsu-attendance/app/payload"
)

func feedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Fetch(t *testing.T) {
	srv := feedServer(t, http.StatusOK, `{"ok":true,"rows":[{"Name":"Aarav Sharma","Date":"2026-10-19"}]}`)
	c := NewClient(5*time.Second, zap.NewNop())

	v, err := c.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	records, trace := payload.Normalize(v)
	require.Len(t, records, 1)
	assert.Equal(t, "Aarav Sharma", records[0]["Name"])
	assert.Equal(t, "found array in property 'rows' with 1 items", trace)
}

func TestClient_FollowsRedirect(t *testing.T) {
	target := feedServer(t, http.StatusOK, `[{"Name":"Diya Nair"}]`)
	redirect := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	t.Cleanup(redirect.Close)

	v, err := NewClient(5*time.Second, nil).Fetch(context.Background(), redirect.URL)
	require.NoError(t, err)
	assert.Equal(t, payload.KindArray, v.Kind())
}

func TestClient_EmptyBodyIsNull(t *testing.T) {
	srv := feedServer(t, http.StatusOK, "")
	v, err := NewClient(0, nil).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestClient_Errors(t *testing.T) {
	c := NewClient(5*time.Second, zap.NewNop())

	_, err := c.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotConfigured)

	srv := feedServer(t, http.StatusInternalServerError, `{"error":"boom"}`)
	_, err = c.Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)

	bad := feedServer(t, http.StatusOK, `<html>not json</html>`)
	_, err = c.Fetch(context.Background(), bad.URL)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_RedirectLoop(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+"/again", http.StatusFound)
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(5*time.Second, nil).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrTooManyRedirects)
}

func TestResolveLocation(t *testing.T) {
	got, err := resolveLocation("https://script.google.com/macros/s/abc/exec", "/macros/echo?user=1")
	require.NoError(t, err)
	assert.Equal(t, "https://script.google.com/macros/echo?user=1", got)

	got, err = resolveLocation("https://script.google.com/a", "https://script.googleusercontent.com/b")
	require.NoError(t, err)
	assert.Equal(t, "https://script.googleusercontent.com/b", got)

	_, err = resolveLocation("https://a/", "")
	assert.Error(t, err)
}
