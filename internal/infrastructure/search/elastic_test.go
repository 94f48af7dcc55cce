package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
)

type recorded struct {
	method, path string
	body         map[string]any
}

func newTestIndex(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Index, *[]recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		mu.Lock()
		reqs = append(reqs, recorded{method: r.Method, path: r.URL.Path, body: body})
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewIndex(es, "posts", "users"), &reqs
}

func TestIndex_IndexPost(t *testing.T) {
	ix, reqs := newTestIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	p := &entity.Post{ID: 7, Title: "Hello", Content: "body", UserID: 1, CreatedAt: time.Now()}
	require.NoError(t, ix.IndexPost(context.Background(), p, nil))

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/posts/_doc/7", got.path)
	assert.Equal(t, "Hello", got.body["title"])
	assert.Equal(t, []any{}, got.body["tags"])
}

func TestIndex_SearchPosts(t *testing.T) {
	ix, reqs := newTestIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"3"},{"_id":"bogus"},{"_id":"1"}]}}`))
	})

	ids, err := ix.SearchPosts(context.Background(), "hello", 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1}, ids)

	got := (*reqs)[0]
	assert.Equal(t, "/posts/_search", got.path)
	assert.Equal(t, float64(defaultSize), got.body["size"])
	match := got.body["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "hello", match["query"])
}

func TestIndex_DeleteMissingIsFine(t *testing.T) {
	ix, _ := newTestIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})

	assert.NoError(t, ix.DeleteUser(context.Background(), 9))
}

func TestIndex_ErrorStatus(t *testing.T) {
	ix, _ := newTestIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad"}`))
	})

	err := ix.IndexUser(context.Background(), &entity.User{ID: 1, Name: "Ann"})
	assert.Error(t, err)
	_, err = ix.SearchUsers(context.Background(), "ann", 5)
	assert.Error(t, err)
}
