// Package relay implements the pass-through endpoint the branding client
// talks to. Every call arrives as a POST; the real target URL, method and
// access token travel in headers and are rewritten into a normal API call.
//
// Only targets below a configured API root are forwarded, so the relay is
// not an open proxy.
package relay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "github.com/MarcosLancellotti2225/HTMLgenerator/internal/foundation/errors"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/logfields"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/metrics"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/signaturit"
)

// DefaultPath is where the relay endpoint is mounted.
const DefaultPath = "/relay"

var allowedMethods = []string{http.MethodGet, http.MethodPatch, http.MethodPost, http.MethodDelete}

// Options configures a Relay.
type Options struct {
	// Path is the mount point of the relay endpoint.
	Path string
	// AllowedOrigins are echoed in CORS headers. Empty allows any origin.
	AllowedOrigins []string
	// Bases are the API roots targets must live under. Empty means every
	// provider environment.
	Bases []string
	// Timeout bounds each upstream call.
	Timeout time.Duration
	// Registry, when set, enables /metrics.
	Registry *prom.Registry

	Logger   *slog.Logger
	Recorder metrics.Recorder
	Upstream *http.Client
}

// Relay forwards rewritten requests to the provider API.
type Relay struct {
	opts    Options
	adapter *ferrors.HTTPErrorAdapter
	router  chi.Router
}

// New builds a relay and its routes.
func New(opts Options) *Relay {
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	if len(opts.Bases) == 0 {
		opts.Bases = signaturit.BaseURLs()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Upstream == nil {
		opts.Upstream = signaturit.NewHTTPClient(opts.Timeout)
	}

	rl := &Relay{opts: opts, adapter: ferrors.NewHTTPErrorAdapter(opts.Logger)}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(opts.Logger, opts.Recorder))
	r.Use(panicRecoveryMiddleware(opts.Logger, rl.adapter))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Registry != nil {
		r.Handle("/metrics", metrics.HTTPHandler(opts.Registry))
	}

	r.Route(opts.Path, func(r chi.Router) {
		r.Use(rl.cors)
		r.Options("/", rl.preflight)
		r.Post("/", rl.forward)
		r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Allow", "POST, OPTIONS")
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		})
	})

	rl.router = r
	return rl
}

// ServeHTTP implements http.Handler.
func (rl *Relay) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rl.router.ServeHTTP(w, r)
}

func (rl *Relay) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", rl.allowOrigin(r.Header.Get("Origin")))
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", strings.Join([]string{
			"Content-Type",
			signaturit.HeaderToken,
			signaturit.HeaderAPIURL,
			signaturit.HeaderMethodOverride,
			HeaderRequestID,
		}, ", "))
		h.Add("Vary", "Origin")
		next.ServeHTTP(w, r)
	})
}

func (rl *Relay) allowOrigin(origin string) string {
	if len(rl.opts.AllowedOrigins) == 0 || slices.Contains(rl.opts.AllowedOrigins, "*") {
		return "*"
	}
	if slices.Contains(rl.opts.AllowedOrigins, origin) {
		return origin
	}
	return rl.opts.AllowedOrigins[0]
}

func (rl *Relay) preflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (rl *Relay) forward(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.Header.Get(signaturit.HeaderToken))
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing "+signaturit.HeaderToken+" header")
		return
	}

	target := r.Header.Get(signaturit.HeaderAPIURL)
	if target == "" {
		writeError(w, http.StatusBadRequest, "missing "+signaturit.HeaderAPIURL+" header")
		return
	}
	if !signaturit.IsAPIURL(target, rl.opts.Bases) {
		writeError(w, http.StatusBadRequest, "target URL is not an allowed API URL")
		return
	}

	method := http.MethodPost
	if override := strings.ToUpper(strings.TrimSpace(r.Header.Get(signaturit.HeaderMethodOverride))); override != "" {
		if !slices.Contains(allowedMethods, override) {
			writeError(w, http.StatusBadRequest, "unsupported method override: "+override)
			return
		}
		method = override
	}

	var body io.Reader
	if method != http.MethodGet {
		data, err := signaturit.ReadLimited(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(r.Context(), method, target, body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid target URL")
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if ct := r.Header.Get("Content-Type"); ct != "" && body != nil {
		req.Header.Set("Content-Type", ct)
	}

	resp, err := rl.opts.Upstream.Do(req)
	if err != nil {
		rl.opts.Logger.Warn("Relay upstream call failed",
			logfields.RequestID(RequestIDFrom(r.Context())),
			logfields.Method(method),
			logfields.URL(target),
			logfields.Error(err))
		writeError(w, http.StatusBadGateway, fmt.Sprintf("Proxy error: %v", err))
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := signaturit.ReadLimited(resp.Body)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("Proxy error: %v", err))
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(data)

	rl.opts.Logger.Debug("Relayed request",
		logfields.RequestID(RequestIDFrom(r.Context())),
		logfields.Method(method),
		logfields.URL(target),
		logfields.Status(resp.StatusCode),
		logfields.Bytes(len(data)))
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
