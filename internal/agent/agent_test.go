package agent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lockin/internal/blocking"
)

func newTestAgent(t *testing.T, apiURL string) *Agent {
	t.Helper()
	a, err := New(context.Background(), Config{
		APIURL:    apiURL,
		StatePath: filepath.Join(t.TempDir(), "state.json"),
	}, testLogger())
	require.NoError(t, err)
	return a
}

func TestNew_InstallsDefaults(t *testing.T) {
	a := newTestAgent(t, "")

	prefs, err := a.State.Preferences(context.Background())
	require.NoError(t, err)
	assert.True(t, prefs.FocusModeEnabled)
	assert.Contains(t, prefs.Blacklist, "reddit.com")
}

func TestAgent_Navigate(t *testing.T) {
	var reports atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/analytics" {
			reports.Add(1)
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx := context.Background()
	a := newTestAgent(t, server.URL)

	decision, err := a.Navigate(ctx, blocking.Navigation{URL: "https://www.reddit.com/r/golang", TabID: 4})
	require.NoError(t, err)
	assert.True(t, decision.Blocked)
	assert.Equal(t, blocking.BlockedPageURL, decision.RedirectURL)
	assert.Equal(t, 1, a.State.BlockedToday())
	assert.Zero(t, reports.Load(), "no session means no report")

	require.NoError(t, a.State.SetSessionToken(ctx, "session"))
	_, err = a.Navigate(ctx, blocking.Navigation{URL: "https://tiktok.com/@someone", TabID: 4})
	require.NoError(t, err)
	assert.Equal(t, int32(1), reports.Load())
	assert.Equal(t, 2, a.State.BlockedToday())

	decision, err = a.Navigate(ctx, blocking.Navigation{URL: "https://github.com", TabID: 4})
	require.NoError(t, err)
	assert.False(t, decision.Blocked)
	assert.Equal(t, int32(1), reports.Load())
}

func TestAgent_NavigateReportFailureStillBlocks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	ctx := context.Background()
	a := newTestAgent(t, server.URL)
	require.NoError(t, a.State.SetSessionToken(ctx, "expired"))

	decision, err := a.Navigate(ctx, blocking.Navigation{URL: "https://netflix.com"})
	require.NoError(t, err)
	assert.True(t, decision.Blocked)
}
