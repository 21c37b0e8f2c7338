package preview

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/editor"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/metrics"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/templates"
)

func writeDraft(t *testing.T, path, body string) {
	t.Helper()
	d := editor.NewDraft()
	d.Body = body
	require.NoError(t, editor.SaveDraft(path, d))
}

// readUntil reads SSE lines until one contains want or the deadline passes.
func readUntil(r *bufio.Reader, want string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		line, err := r.ReadString('\n')
		if err != nil {
			return false
		}
		if strings.Contains(line, want) {
			return true
		}
	}
	return false
}

func connect(t *testing.T, url string) *bufio.Reader {
	t.Helper()
	ctx, cancel := context.WithTimeout(testContext(t), 2*time.Second)
	t.Cleanup(cancel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return bufio.NewReader(resp.Body)
}

func TestHub_InitialConnectReceivesLastHash(t *testing.T) {
	hub := NewHub(nil, nil)
	defer hub.Shutdown()
	hub.Broadcast("abc123")

	srv := httptest.NewServer(hub)
	defer srv.Close()

	assert.True(t, readUntil(connect(t, srv.URL), "abc123", time.Second))
}

func TestHub_BroadcastSendsEvent(t *testing.T) {
	hub := NewHub(nil, nil)
	defer hub.Shutdown()

	srv := httptest.NewServer(hub)
	defer srv.Close()

	r := connect(t, srv.URL)
	require.True(t, readUntil(r, ": connected", time.Second))
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	hub.Broadcast("newhash")
	assert.True(t, readUntil(r, "newhash", time.Second))
}

func TestHub_ShutdownRejectsClients(t *testing.T) {
	hub := NewHub(nil, nil)
	hub.Shutdown()

	rec := httptest.NewRecorder()
	hub.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livereload", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_Routes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.yaml")
	writeDraft(t, path, "Hola {{signer_name}}\n\n{{sign_button}}")

	s := New(path, Options{})
	require.NoError(t, s.Reload())
	require.NotEmpty(t, s.Hash())

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	shell, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Contains(t, string(shell), "<title>HTML Template Generator</title>")
	assert.Contains(t, string(shell), `id="previewFrame"`)
	assert.True(t, templates.IsGeneratorMarkup(string(shell)))

	resp, err = http.Get(srv.URL + "/document")
	require.NoError(t, err)
	doc, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(doc), "Hola {{signer_name}}")
	assert.False(t, templates.IsGeneratorMarkup(string(doc)))
}

func TestServer_ReloadKeepsDocumentOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.yaml")
	writeDraft(t, path, "first")

	s := New(path, Options{})
	require.NoError(t, s.Reload())
	hash := s.Hash()

	require.NoError(t, os.WriteFile(path, []byte("category: nope\n"), 0o600))
	require.Error(t, s.Reload())
	assert.Equal(t, hash, s.Hash())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/document", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "first")
}

func TestServer_DocumentBeforeRender(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing.yaml"), Options{})
	require.Error(t, s.Reload())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/document", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "read draft")
}

func TestWatcher_DebouncesChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.yaml")
	writeDraft(t, path, "one")

	var calls atomic.Int32
	w, err := NewWatcher(path, 50*time.Millisecond, nil, func(context.Context) { calls.Add(1) })
	require.NoError(t, err)
	require.NoError(t, w.Start(testContext(t)))
	defer w.Stop()

	for _, body := range []string{"two", "three", "four"} {
		writeDraft(t, path, body)
	}
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.LessOrEqual(t, calls.Load(), int32(2))

	// Unrelated files in the directory are ignored.
	before := calls.Load()
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.yaml"), []byte("x"), 0o600))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, before, calls.Load())
}

func TestWatcher_ReloadsNeverOverlap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.yaml")
	writeDraft(t, path, "one")

	var running, maxRunning, calls atomic.Int32
	onChange := func(context.Context) {
		n := running.Add(1)
		for {
			m := maxRunning.Load()
			if n <= m || maxRunning.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(60 * time.Millisecond)
		running.Add(-1)
		calls.Add(1)
	}
	w, err := NewWatcher(path, 10*time.Millisecond, nil, onChange)
	require.NoError(t, err)
	require.NoError(t, w.Start(testContext(t)))
	defer w.Stop()

	// Keep writing while slow reloads are in flight.
	for i := 0; i < 10; i++ {
		writeDraft(t, path, strings.Repeat("x", i+1))
		time.Sleep(25 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 3*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), maxRunning.Load())
}

func TestServer_ConcurrentReloadsKeepLatest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.yaml")
	writeDraft(t, path, "first")
	srv := New(path, Options{})

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			_ = srv.Reload()
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	writeDraft(t, path, "latest body")
	require.NoError(t, srv.Reload())
	assert.Equal(t, hashDocument(renderDraft(t, path)), srv.Hash())
}

func renderDraft(t *testing.T, path string) string {
	t.Helper()
	d, err := editor.LoadDraft(path)
	require.NoError(t, err)
	session := editor.NewSession(nil)
	require.NoError(t, session.ApplyDraft(d))
	return session.Export()
}

func TestServer_MetricsEndpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.yaml")
	writeDraft(t, path, "No button")

	reg := prom.NewRegistry()
	s := New(path, Options{Registry: reg, Recorder: metrics.NewPrometheusRecorder(reg)})
	require.NoError(t, s.Reload())

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	text := string(body)
	assert.Contains(t, text, `htmlgen_renders_total{category="signatures_request"} 1`)
	assert.Contains(t, text, `htmlgen_validations_total{category="signatures_request",result="failed"} 1`)
	assert.Contains(t, text, "htmlgen_preview_reloads_total 1")
}

func TestServer_NoMetricsWithoutRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.yaml")
	writeDraft(t, path, "body")
	s := New(path, Options{})

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
