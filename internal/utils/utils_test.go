package utils

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCacheExpiry(t *testing.T) {
	c := NewSearchCache[[]string](2, 50*time.Millisecond)
	c.Set("matrix", []string{"Matrix"})

	v, ok := c.Get("matrix")
	require.True(t, ok)
	assert.Equal(t, []string{"Matrix"}, v)

	time.Sleep(80 * time.Millisecond)
	_, ok = c.Get("matrix")
	assert.False(t, ok)
}

func TestSearchCacheEvictsOldest(t *testing.T) {
	c := NewSearchCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	_, ok := c.Get("a")
	assert.False(t, ok)
	for key, want := range map[string]int{"b": 2, "c": 3} {
		v, ok := c.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, want, v)
	}
}

func TestTTLCache(t *testing.T) {
	c := NewTTLCache[string](50*time.Millisecond, time.Minute)
	c.Set("603", "Matrix")

	v, ok := c.Get("603")
	require.True(t, ok)
	assert.Equal(t, "Matrix", v)

	_, ok = c.Get("604")
	assert.False(t, ok)

	time.Sleep(80 * time.Millisecond)
	_, ok = c.Get("603")
	assert.False(t, ok)
}

func TestDoJSONStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status_message":"Invalid API key"}`))
	}))
	defer srv.Close()

	var out map[string]any
	err := NewHTTPClient(time.Second).GetJSON(context.Background(), srv.URL, &out)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.False(t, IsStatus(err, http.StatusNotFound))
}

func TestDoJSONSendsBearerAndDecodesGzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte(`{"success":true}`))
		gz.Close()
	}))
	defer srv.Close()

	var out struct {
		Success bool `json:"success"`
	}
	err := NewHTTPClient(time.Second).DoJSON(context.Background(), http.MethodPost, srv.URL, "tok", map[string]string{"a": "b"}, &out)
	require.NoError(t, err)
	assert.True(t, out.Success)
}
