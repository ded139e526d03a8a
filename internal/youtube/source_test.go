package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/Veraticus/lockin/internal/common"
)

func newFakeDataAPI(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/videos", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "snippet", r.URL.Query().Get("part"))

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("id") {
		case "known":
			_, _ = w.Write([]byte(`{"items":[{"id":"known","snippet":{
				"title":"Minecraft Lets Play","channelTitle":"Gamer","description":"episode 4"}}]}`))
		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"code":500,"message":"backend"}}`))
		default:
			_, _ = w.Write([]byte(`{"items":[]}`))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestDataAPISource(t *testing.T) {
	server := newFakeDataAPI(t)
	ctx := context.Background()

	source, err := NewDataAPISource(ctx, "test-key", option.WithEndpoint(server.URL+"/"))
	require.NoError(t, err)

	meta, err := source.Fetch(ctx, "known")
	require.NoError(t, err)
	assert.Equal(t, Metadata{VideoID: "known", Title: "Minecraft Lets Play", ChannelName: "Gamer", Description: "episode 4"}, meta)

	_, err = source.Fetch(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = source.Fetch(ctx, "broken")
	assert.Error(t, err)
}

func TestNewDataAPISource_RequiresKey(t *testing.T) {
	_, err := NewDataAPISource(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

type failingSource struct{}

func (failingSource) Fetch(context.Context, string) (Metadata, error) {
	return Metadata{}, errors.New("quota exceeded")
}

func TestChain(t *testing.T) {
	page := NewPageSource()
	page.Put(Metadata{VideoID: "abc", Title: "From page"})
	ctx := context.Background()

	meta, err := Chain{failingSource{}, page}.Fetch(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "From page", meta.Title)

	_, err = Chain{failingSource{}, page}.Fetch(ctx, "zzz")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = Chain{}.Fetch(ctx, "abc")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
