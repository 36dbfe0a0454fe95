// internal/server/server.go
package server

import (
	"bytes"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const debounce = 500 * time.Millisecond

// Options configures the preview server.
type Options struct {
	Port int
	// Root is the directory served over HTTP, normally the preview output.
	Root string
	// Watch lists directories and files whose changes trigger a rebuild.
	// Directories are watched recursively.
	Watch []string
	// Ignore reports paths whose changes must not trigger a rebuild, such
	// as files the build itself writes.
	Ignore func(path string) bool
}

// Server rebuilds the documentation on change and serves the preview with
// a live-reload script injected into every HTML page.
type Server struct {
	opts  Options
	build func() error
	hub   *Hub
	log   zerolog.Logger

	mu        sync.Mutex
	lastBuild time.Time
}

func New(opts Options, build func() error, log zerolog.Logger) *Server {
	return &Server{opts: opts, build: build, hub: newHub(log), log: log}
}

// Run performs an initial build, starts watching and serves until the
// listener fails.
func (s *Server) Run() error {
	if err := s.rebuild(); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := s.addWatches(watcher); err != nil {
		return err
	}
	go s.watch(watcher)

	addr := fmt.Sprintf(":%d", s.opts.Port)
	s.log.Info().Str("url", "http://localhost"+addr).Msg("serving preview, press Ctrl+C to stop")
	return http.ListenAndServe(addr, s.Handler())
}

// Handler routes the websocket endpoint and the preview files.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", s.hub)
	mux.HandleFunc("/", s.servePreview)
	return mux
}

func (s *Server) addWatches(watcher *fsnotify.Watcher) error {
	seen := make(map[string]bool)
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if seen[dir] {
			return
		}
		if err := watcher.Add(dir); err != nil {
			s.log.Warn().Err(err).Str("dir", dir).Msg("could not watch directory")
			return
		}
		seen[dir] = true
		s.log.Debug().Str("dir", dir).Msg("watching")
	}

	for _, p := range s.opts.Watch {
		info, err := os.Stat(p)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("could not stat path %s: %w", p, err)
		}
		if !info.IsDir() {
			// Editors often save by renaming, so watch the parent.
			add(filepath.Dir(p))
			continue
		}
		err = filepath.WalkDir(p, func(walkPath string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				add(walkPath)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", p, err)
		}
	}
	return nil
}

func (s *Server) watch(watcher *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !s.shouldRebuild(event) {
				continue
			}
			s.log.Info().Str("path", event.Name).Msg("change detected, rebuilding")
			if err := s.rebuild(); err != nil {
				s.log.Error().Err(err).Msg("rebuild failed")
				continue
			}
			s.hub.reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (s *Server) shouldRebuild(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if s.opts.Ignore != nil && s.opts.Ignore(event.Name) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastBuild) > debounce
}

// rebuild runs the build and stamps the time it finished, so the events
// caused by the build's own writes fall inside the debounce window.
func (s *Server) rebuild() error {
	err := s.build()
	s.mu.Lock()
	s.lastBuild = time.Now()
	s.mu.Unlock()
	return err
}

func (s *Server) servePreview(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	if strings.HasSuffix(r.URL.Path, "/") {
		name = path.Join(name, "index.html")
	}
	if !strings.HasSuffix(name, ".html") {
		http.FileServer(http.Dir(s.opts.Root)).ServeHTTP(w, r)
		return
	}

	data, err := os.ReadFile(filepath.Join(s.opts.Root, filepath.FromSlash(name)))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(injectReload(data))
}

func injectReload(page []byte) []byte {
	if i := bytes.LastIndex(page, []byte("</body>")); i >= 0 {
		out := make([]byte, 0, len(page)+len(liveReloadScript))
		out = append(out, page[:i]...)
		out = append(out, liveReloadScript...)
		return append(out, page[i:]...)
	}
	return append(page, liveReloadScript...)
}

const liveReloadScript = `<script>
  (function() {
    var socket = new WebSocket("ws://" + window.location.host + "/ws");
    socket.onmessage = function(event) {
      if (event.data === "reload") {
        window.location.reload();
      }
    };
    socket.onerror = function() {
      console.error("Live reload connection lost. Restart 'qmrdoc serve'.");
    };
  })();
</script>
`
