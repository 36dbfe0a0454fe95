package server

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, string) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<html><body><h1>Models</h1></body></html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "_static"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "_static", "fig.png"), []byte("png"), 0o644))
	s := New(Options{Root: root}, func() error { return nil }, zerolog.Nop())
	return s, root
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServePreviewInjectsReloadScript(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	for _, target := range []string{"/", "/index.html"} {
		rec := get(t, h, target)
		require.Equal(t, http.StatusOK, rec.Code, target)
		body := rec.Body.String()
		assert.Contains(t, body, "<h1>Models</h1>")
		assert.Contains(t, body, `new WebSocket(`)
		assert.True(t, strings.Index(body, "<script>") < strings.Index(body, "</body>"))
		assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	}
}

func TestServePreviewStaticAndMissing(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	rec := get(t, h, "/_static/fig.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())

	assert.Equal(t, http.StatusNotFound, get(t, h, "/missing.html").Code)
	assert.NotEqual(t, http.StatusOK, get(t, h, "/../../etc/passwd.html").Code)
}

func TestInjectReloadWithoutBody(t *testing.T) {
	out := injectReload([]byte("<p>fragment</p>"))
	assert.True(t, strings.HasPrefix(string(out), "<p>fragment</p><script>"))
}

func TestShouldRebuild(t *testing.T) {
	s, _ := newTestServer(t)
	s.opts.Ignore = func(p string) bool { return strings.HasSuffix(p, "_batch.rst") }

	assert.True(t, s.shouldRebuild(fsnotify.Event{Name: "Models/IR.m", Op: fsnotify.Write}))
	assert.False(t, s.shouldRebuild(fsnotify.Event{Name: "Models/IR.m", Op: fsnotify.Chmod}))
	assert.False(t, s.shouldRebuild(fsnotify.Event{Name: "source/IR_batch.rst", Op: fsnotify.Create}))

	require.NoError(t, s.rebuild())
	assert.False(t, s.shouldRebuild(fsnotify.Event{Name: "Models/IR.m", Op: fsnotify.Write}), "inside debounce window")
}

func TestRebuildPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	s := New(Options{}, func() error { return boom }, zerolog.Nop())
	assert.ErrorIs(t, s.rebuild(), boom)
}

func TestHubBroadcastsReload(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	if resp != nil && resp.Body != nil {
		io.Copy(io.Discard, resp.Body)
	}

	require.Eventually(t, func() bool { return s.hub.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	s.hub.reload()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "reload", string(msg))

	conn.Close()
	require.Eventually(t, func() bool { return s.hub.count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestAddWatchesSkipsMissingPaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Models", "Diffusion"), 0o755))
	cfgFile := filepath.Join(root, "docs.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("{}"), 0o644))

	s := New(Options{Watch: []string{filepath.Join(root, "Models"), filepath.Join(root, "nope"), cfgFile}}, nil, zerolog.Nop())
	w, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, s.addWatches(w))
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "Models"),
		filepath.Join(root, "Models", "Diffusion"),
		root,
	}, w.WatchList())
}
