package pinterest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"PinFlow/internal/config"
	"PinFlow/internal/domain"
)

func testClient(t *testing.T, baseURL string, defaults []config.BoardConfig) *Client {
	t.Helper()

	return NewClient(config.PinterestConfig{
		BaseURL:     baseURL,
		AccessToken: "test-token",
		RatePerHour: 100000,
	}, defaults, nil)
}

func writeTestImage(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ai_image_test.png")
	require.NoError(t, os.WriteFile(path, []byte("fake-png-bytes"), 0o644))
	return path
}

func TestPublish(t *testing.T) {
	t.Parallel()

	var pinPayload map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/media", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"media_id": "media-1"})
	})
	mux.HandleFunc("/pins", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&pinPayload))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "pin-1"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := testClient(t, srv.URL, nil)

	strat := domain.Strategy{
		Title:       "Morning Routines Ideas",
		Description: "Discover morning routines tips. Save this pin!",
		BoardName:   "Wellness Journey",
		WebsiteLink: "https://example.com?utm_source=pinterest",
		AltText:     "Morning routines pinterest pin",
	}

	result, err := client.Publish(context.Background(), writeTestImage(t), "board-1", strat)
	require.NoError(t, err)
	require.Equal(t, "pin-1", result.ID)
	require.Equal(t, "https://pinterest.com/pin/pin-1", result.URL)
	require.Equal(t, "board-1", result.BoardID)

	require.Equal(t, "board-1", pinPayload["board_id"])
	require.Equal(t, strat.Title, pinPayload["title"])
	require.Equal(t, strat.WebsiteLink, pinPayload["link"])
	require.Equal(t, strat.AltText, pinPayload["alt_text"])
	media := pinPayload["media_source"].(map[string]any)
	require.Equal(t, "image_upload", media["source_type"])
	require.Equal(t, "media-1", media["media_id"])
}

func TestPublishRequiresBoardID(t *testing.T) {
	t.Parallel()

	client := testClient(t, "http://localhost:0", nil)
	_, err := client.Publish(context.Background(), writeTestImage(t), "", domain.Strategy{BoardName: "Missing"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no board id")
}

func TestPublishSurfacesUploadFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	client := testClient(t, srv.URL, nil)
	_, err := client.Publish(context.Background(), writeTestImage(t), "board-1", domain.Strategy{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "upload image")
}

func TestResolveBoardID(t *testing.T) {
	t.Parallel()

	var listCalls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.URL.Path, "/boards"))
		listCalls.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"items": []Board{
				{ID: "b1", Name: "Daily Inspiration"},
				{ID: "b2", Name: "Wellness Journey"},
			},
		})
	}))
	t.Cleanup(srv.Close)

	client := testClient(t, srv.URL, nil)
	ctx := context.Background()

	id, err := client.ResolveBoardID(ctx, "wellness journey")
	require.NoError(t, err)
	require.Equal(t, "b2", id)

	id, err = client.ResolveBoardID(ctx, "No Such Board")
	require.NoError(t, err)
	require.Empty(t, id)

	// Both lookups share one cached listing.
	require.Equal(t, int64(1), listCalls.Load())
}

func TestEnsureBoardsCreatesMissing(t *testing.T) {
	t.Parallel()

	var created map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/boards", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"id": "b9"})
			return
		}
		items := []Board{{ID: "b1", Name: "Daily Inspiration"}}
		if created != nil {
			items = append(items, Board{ID: "b9", Name: created["name"]})
		}
		json.NewEncoder(w).Encode(map[string]any{"items": items})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	defaults := []config.BoardConfig{
		{Name: "Daily Inspiration", Description: "Daily dose of inspiration"},
		{Name: "Home & Decor", Description: "Home decoration ideas"},
	}
	client := testClient(t, srv.URL, defaults)

	ids, err := client.EnsureBoards(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"Daily Inspiration": "b1",
		"Home & Decor":      "b9",
	}, ids)
	require.Equal(t, "Home & Decor", created["name"])
	require.Equal(t, "PUBLIC", created["privacy"])
}
