package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lockin/internal/analytics"
	"github.com/Veraticus/lockin/internal/common"
	"github.com/Veraticus/lockin/internal/model"
)

func TestAPIClient_FetchPreferences(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sync", r.URL.Path)
		if r.URL.Query().Get("token") != "good token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid token"}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"focusModeEnabled": true,
			"whitelist": ["github.com"],
			"blacklist": null,
			"youtubeBlockedCategories": ["gaming"],
			"scheduleStart": null,
			"scheduleEnd": null,
			"lastSyncAt": "2024-03-01T12:00:00Z",
			"userId": "user-1"
		}`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL+"/", nil)

	snapshot, err := client.FetchPreferences(context.Background(), "good token")
	require.NoError(t, err)
	assert.Equal(t, "user-1", snapshot.UserID)
	assert.True(t, snapshot.FocusModeEnabled)
	assert.Equal(t, model.DomainList{"github.com"}, snapshot.Whitelist)
	assert.NotNil(t, snapshot.Blacklist)
	assert.Equal(t, []model.Category{model.CategoryGaming}, snapshot.YouTubeBlockedCategories)

	_, err = client.FetchPreferences(context.Background(), "bad")
	require.ErrorIs(t, err, common.ErrUnauthenticated)
	assert.Contains(t, err.Error(), "Invalid token")
}

func TestAPIClient_ClassifyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/classify-public", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sync-1", body["syncToken"])
		assert.Equal(t, "https://youtube.com/watch?v=abc", body["url"])
		assert.Equal(t, "Learn Go", body["title"])

		_, _ = w.Write([]byte(`{"category":"tutorial","confidence":0.9,"reasoning":"r","isEducational":true,"method":"ai","cached":true}`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, nil)
	result, err := client.ClassifyContent(context.Background(), model.ContentItem{
		URL:   "https://youtube.com/watch?v=abc",
		Title: "Learn Go",
	}, "sync-1")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryTutorial, result.Category)
	assert.True(t, result.IsEducational)
	assert.True(t, result.Cached)
	assert.Equal(t, model.MethodAI, result.Method)
}

func TestAPIClient_ServerErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Classification failed"}`))
	}))
	defer server.Close()

	_, err := NewAPIClient(server.URL, nil).ClassifyContent(context.Background(), model.ContentItem{URL: "u"}, "t")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrUnauthenticated)
	assert.Contains(t, err.Error(), "Classification failed")
}

func TestAPIClient_LogActivitySendsBearer(t *testing.T) {
	var gotAuth string
	var got analytics.ActivityInput
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/api/analytics", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	err := NewAPIClient(server.URL, nil).LogActivity(context.Background(), "session-xyz", analytics.ActivityInput{
		Domain:     "reddit.com",
		BlockedURL: "https://reddit.com/r/golang",
		WasBlocked: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer session-xyz", gotAuth)
	assert.Equal(t, "reddit.com", got.Domain)
	assert.True(t, got.WasBlocked)
}
