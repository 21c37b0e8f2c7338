// Package preview serves a live rendering of a draft file. The shell page
// embeds the generated document in an iframe and reloads it whenever the
// draft changes on disk.
package preview

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/editor"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/httpserver"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/logfields"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/metrics"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/templates"
)

var shellPage = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>HTML Template Generator</title>
<style>body{margin:0;font-family:sans-serif;background:#f4f4f4}header{padding:8px 16px;font-size:14px;color:#555}iframe{border:0;width:100%;height:calc(100vh - 40px);background:#fff}</style>
</head>
<body>
<header>{{.Draft}} &middot; {{.Category}}</header>
<iframe id="previewFrame" src="/document"></iframe>
<script>
(() => {
  let current = null;
  function connect() {
    const es = new EventSource('/livereload');
    es.onmessage = (e) => {
      try {
        const p = JSON.parse(e.data);
        if (current === null) { current = p.hash; return; }
        if (p.hash && p.hash !== current) {
          current = p.hash;
          document.getElementById('previewFrame').contentWindow.location.reload();
        }
      } catch (_) {}
    };
    es.onerror = () => { es.close(); setTimeout(connect, 2000); };
  }
  connect();
})();
</script>
</body>
</html>
`))

// Options configures a Server.
type Options struct {
	Debounce time.Duration
	Logger   *slog.Logger
	Recorder metrics.Recorder
	// Registry, when set, enables /metrics.
	Registry *prom.Registry
}

// Server renders a draft file and pushes reloads to connected browsers.
type Server struct {
	draftPath string
	opts      Options
	hub       *Hub

	mu       sync.RWMutex
	document string
	category string
	hash     string
	lastErr  error

	// reloadMu serialises Reload so an older render never replaces a newer one.
	reloadMu sync.Mutex
}

// New creates a preview server for draftPath.
func New(draftPath string, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	return &Server{
		draftPath: draftPath,
		opts:      opts,
		hub:       NewHub(opts.Recorder, opts.Logger),
	}
}

// Reload reads the draft, renders it and broadcasts the new hash. On error
// the previous document is kept.
func (s *Server) Reload() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	d, err := editor.LoadDraft(s.draftPath)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		s.opts.Logger.Warn("Draft reload failed", logfields.File(s.draftPath), logfields.Error(err))
		return err
	}

	session := editor.NewSession(nil, editor.WithRecorder(s.opts.Recorder), editor.WithLogger(s.opts.Logger))
	if err := session.ApplyDraft(d); err != nil {
		s.opts.Logger.Warn("Draft rejected", logfields.File(s.draftPath), logfields.Error(err))
		return err
	}
	doc := session.Export()
	hash := hashDocument(doc)
	missing := templates.Validate(doc, session.Category())
	s.opts.Recorder.IncValidation(string(session.Category()), len(missing) == 0)
	if len(missing) > 0 {
		s.opts.Logger.Warn("Draft is missing mandatory variables",
			logfields.Category(string(session.Category())),
			slog.Any("missing", missing))
	}

	s.mu.Lock()
	s.document = doc
	s.category = string(session.Category())
	s.hash = hash
	s.lastErr = nil
	s.mu.Unlock()

	s.opts.Logger.Info("Preview rendered",
		logfields.File(s.draftPath),
		logfields.Category(string(session.Category())),
		logfields.Bytes(len(doc)))
	s.hub.Broadcast(hash)
	return nil
}

// Hash returns the hash of the current document.
func (s *Server) Hash() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hash
}

func hashDocument(doc string) string {
	sum := sha256.Sum256([]byte(doc))
	return hex.EncodeToString(sum[:8])
}

// Handler returns the preview routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handleShell)
	r.Get("/document", s.handleDocument)
	r.Handle("/livereload", s.hub)
	if s.opts.Registry != nil {
		r.Handle("/metrics", metrics.HTTPHandler(s.opts.Registry))
	}
	return r
}

func (s *Server) handleShell(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	data := struct{ Draft, Category string }{s.draftPath, s.category}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := shellPage.Execute(w, data); err != nil {
		s.opts.Logger.Error("Failed to render preview shell", logfields.Error(err))
	}
}

func (s *Server) handleDocument(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	doc, lastErr := s.document, s.lastErr
	s.mu.RUnlock()

	if doc == "" {
		msg := "no document rendered yet"
		if lastErr != nil {
			msg = lastErr.Error()
		}
		http.Error(w, msg, http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(doc))
}

// Run renders the draft, watches it for changes and serves on addr until
// ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := s.Reload(); err != nil {
		return err
	}

	w, err := NewWatcher(s.draftPath, s.opts.Debounce, s.opts.Logger, func(context.Context) {
		_ = s.Reload()
	})
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	// SSE streams must end before the graceful shutdown can finish.
	go func() {
		<-ctx.Done()
		s.hub.Shutdown()
	}()

	s.opts.Logger.Info("Preview server listening", slog.String("addr", addr))
	return httpserver.Serve(ctx, addr, s.Handler())
}
