package scraper

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
	"time"

	"iglikes/pkg/instagram"
	"iglikes/pkg/logger"
	"iglikes/pkg/records"
	"iglikes/pkg/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockInstagramServer serves the web API endpoints the client calls
type mockInstagramServer struct {
	server     *httptest.Server
	likerCalls int32
	failLikers string
	loggedIn   atomic.Bool
	feedPages  int32
}

func newMockInstagramServer(t *testing.T) *mockInstagramServer {
	m := &mockInstagramServer{}
	mux := http.NewServeMux()

	mux.HandleFunc(instagram.LoginPageEndpoint, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "csrf", Path: "/"})
	})
	mux.HandleFunc(instagram.LoginEndpoint, func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		ok := r.PostForm.Get("username") == "me" && strings.HasSuffix(r.PostForm.Get("enc_password"), ":pw")
		if ok {
			http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "sess", Path: "/"})
			m.loggedIn.Store(true)
		}
		writeMockJSON(w, map[string]interface{}{"authenticated": ok, "user": true, "status": "ok"})
	})
	mux.HandleFunc(instagram.ProfileEndpoint, func(w http.ResponseWriter, r *http.Request) {
		if !m.authorized(w, r) {
			return
		}
		writeMockJSON(w, map[string]interface{}{
			"data": map[string]interface{}{"user": map[string]interface{}{"id": "777", "username": r.URL.Query().Get("username")}},
		})
	})
	mux.HandleFunc(instagram.FeedEndpoint("777"), func(w http.ResponseWriter, r *http.Request) {
		if !m.authorized(w, r) {
			return
		}
		page := atomic.AddInt32(&m.feedPages, 1)
		if r.URL.Query().Get("max_id") == "" {
			writeMockJSON(w, map[string]interface{}{
				"items": []map[string]interface{}{
					mockPost(11, "C11", "2024-03-02", 1, "Second post"),
					mockPost(10, "C10", "2024-03-01", 2, strings.Repeat("x", 120)),
				},
				"more_available": true,
				"next_max_id":    "page2",
			})
			return
		}
		assert.Equal(t, int32(2), page)
		writeMockJSON(w, map[string]interface{}{
			"items":          []map[string]interface{}{mockPost(9, "C9", "2024-02-28", 1, "")},
			"more_available": false,
		})
	})
	mux.HandleFunc("/api/v1/media/", func(w http.ResponseWriter, r *http.Request) {
		if !m.authorized(w, r) {
			return
		}
		atomic.AddInt32(&m.likerCalls, 1)
		mediaID := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/v1/media/"), "/")[0]
		if mediaID == m.failLikers {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		users := map[string][]string{
			"11": {"bob", "carol"},
			"10": {"bob", "dave"},
			"9":  {"bob"},
		}[mediaID]
		var out []map[string]interface{}
		for _, u := range users {
			out = append(out, map[string]interface{}{"username": u})
		}
		writeMockJSON(w, map[string]interface{}{"users": out})
	})

	m.server = httptest.NewServer(mux)
	t.Cleanup(m.server.Close)
	return m
}

func (m *mockInstagramServer) authorized(w http.ResponseWriter, r *http.Request) bool {
	if _, err := r.Cookie("sessionid"); err != nil || !m.loggedIn.Load() {
		w.WriteHeader(http.StatusUnauthorized)
		return false
	}
	return true
}

func mockPost(pk int64, code, day string, mediaType int, caption string) map[string]interface{} {
	taken, _ := time.Parse("2006-01-02", day)
	post := map[string]interface{}{
		"pk":            pk,
		"code":          code,
		"taken_at":      taken.Add(18 * time.Hour).Unix(),
		"media_type":    mediaType,
		"like_count":    int(pk),
		"comment_count": 1,
	}
	if caption != "" {
		post["caption"] = map[string]interface{}{"text": caption}
	}
	return post
}

func writeMockJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newMockClient(m *mockInstagramServer) *instagram.Client {
	client := instagram.NewClient(5*time.Second, "test", logger.NewNopLogger())
	client.SetBaseURL(m.server.URL)
	return client
}

func TestEndToEnd(t *testing.T) {
	m := newMockInstagramServer(t)
	client := newMockClient(m)
	ctx := context.Background()

	require.NoError(t, client.Login(ctx, "me", "pw"))

	cfg := testConfig(t)
	log := logger.NewTestLogger()
	result, err := newTestScraper(client, cfg, log).Run(ctx, "target")
	require.NoError(t, err)

	assert.Equal(t, int32(3), atomic.LoadInt32(&m.likerCalls))
	assert.Equal(t, 3, result.Saved)
	assert.Equal(t, 3, result.Tally.Likes.Count("bob"))
	assert.Equal(t, 3, result.Summary.UniqueLikers)
	assert.Equal(t, 30, result.Summary.TotalLikes)
	assert.Equal(t, "2024-02-28 to 2024-03-02", result.Summary.DateRange)

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "target", "Posts", "target_2024-03-01.txt"))
	require.NoError(t, err)
	rec, err := records.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, "https://www.instagram.com/p/C10/", rec.URL)
	assert.Equal(t, records.MediaVideo, rec.MediaType)
	assert.Equal(t, []string{"bob", "dave"}, rec.Likers)

	f, err := os.Open(result.PostReport.CSV)
	require.NoError(t, err)
	defer f.Close()
	rows, err := report.ReadCSV(f)
	require.NoError(t, err)
	require.Len(t, rows, 8+3)
	assert.Equal(t, "C11", strings.TrimSuffix(strings.TrimPrefix(rows[8][5], "https://www.instagram.com/p/"), "/"))
	assert.Len(t, []rune(rows[9][1]), report.CaptionLimit)
}

func TestEndToEndSkipsFailingPost(t *testing.T) {
	m := newMockInstagramServer(t)
	m.failLikers = "10"
	client := newMockClient(m)
	ctx := context.Background()
	require.NoError(t, client.Login(ctx, "me", "pw"))

	result, err := newTestScraper(client, testConfig(t), nil).Run(ctx, "target")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Saved)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "C10", result.Failed[0].Code)
	assert.Equal(t, 0, result.Tally.Likes.Count("dave"))
}

func TestEndToEndWithoutLogin(t *testing.T) {
	m := newMockInstagramServer(t)
	client := newMockClient(m)

	_, err := newTestScraper(client, testConfig(t), nil).Run(context.Background(), "target")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth")
}

func TestEndToEndBadPassword(t *testing.T) {
	m := newMockInstagramServer(t)
	client := newMockClient(m)

	err := client.Login(context.Background(), "me", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incorrect password")
}
