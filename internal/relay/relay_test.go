package relay

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/metrics"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/signaturit"
)

type upstreamCall struct {
	method      string
	path        string
	auth        string
	contentType string
	body        string
}

func newUpstream(t *testing.T, status int, body string) (*httptest.Server, *[]upstreamCall) {
	t.Helper()
	var calls []upstreamCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		calls = append(calls, upstreamCall{
			method:      r.Method,
			path:        r.URL.Path,
			auth:        r.Header.Get("Authorization"),
			contentType: r.Header.Get("Content-Type"),
			body:        string(data),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func relayRequest(method, target, token, override, body string) *http.Request {
	req := httptest.NewRequest(method, DefaultPath, strings.NewReader(body))
	if token != "" {
		req.Header.Set(signaturit.HeaderToken, token)
	}
	if target != "" {
		req.Header.Set(signaturit.HeaderAPIURL, target)
	}
	if override != "" {
		req.Header.Set(signaturit.HeaderMethodOverride, override)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestRelay_ForwardsWithOverride(t *testing.T) {
	upstream, calls := newUpstream(t, http.StatusOK, `[{"id":"b1"}]`)
	rl := New(Options{Bases: []string{upstream.URL + "/v3"}, Upstream: upstream.Client()})

	rec := httptest.NewRecorder()
	rl.ServeHTTP(rec, relayRequest(http.MethodPost, upstream.URL+"/v3/brandings.json", "tok", "get", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"b1"}]`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodGet, call.method)
	assert.Equal(t, "/v3/brandings.json", call.path)
	assert.Equal(t, "Bearer tok", call.auth)
	assert.Empty(t, call.body)
	assert.Empty(t, call.contentType)
}

func TestRelay_ForwardsBody(t *testing.T) {
	upstream, calls := newUpstream(t, http.StatusCreated, `{"id":"new"}`)
	rl := New(Options{Bases: []string{upstream.URL}, Upstream: upstream.Client()})

	rec := httptest.NewRecorder()
	rl.ServeHTTP(rec, relayRequest(http.MethodPost, upstream.URL+"/brandings.json", "tok", "", "name=Acme"))

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, *calls, 1)
	assert.Equal(t, http.MethodPost, (*calls)[0].method)
	assert.Equal(t, "name=Acme", (*calls)[0].body)
	assert.Equal(t, "application/x-www-form-urlencoded", (*calls)[0].contentType)
}

func TestRelay_MirrorsUpstreamErrors(t *testing.T) {
	upstream, _ := newUpstream(t, http.StatusUnprocessableEntity, `{"message":"bad template"}`)
	rl := New(Options{Bases: []string{upstream.URL}, Upstream: upstream.Client()})

	rec := httptest.NewRecorder()
	rl.ServeHTTP(rec, relayRequest(http.MethodPost, upstream.URL+"/brandings/x.json", "tok", "PATCH", "a=b"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "bad template")
}

func TestRelay_Rejections(t *testing.T) {
	upstream, calls := newUpstream(t, http.StatusOK, `{}`)
	rl := New(Options{Bases: []string{upstream.URL + "/v3"}, Upstream: upstream.Client()})
	target := upstream.URL + "/v3/brandings.json"

	tests := []struct {
		name   string
		req    *http.Request
		status int
		msg    string
	}{
		{"missing token", relayRequest(http.MethodPost, target, "", "", ""), http.StatusUnauthorized, "missing x-signaturit-token"},
		{"missing target", relayRequest(http.MethodPost, "", "tok", "", ""), http.StatusBadRequest, "missing x-api-url"},
		{"foreign target", relayRequest(http.MethodPost, "https://evil.example.com/v3/x", "tok", "", ""), http.StatusBadRequest, "not an allowed"},
		{"prefix trick", relayRequest(http.MethodPost, upstream.URL+"/v3evil/x", "tok", "", ""), http.StatusBadRequest, "not an allowed"},
		{"bad override", relayRequest(http.MethodPost, target, "tok", "TRACE", ""), http.StatusBadRequest, "unsupported method override"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			rl.ServeHTTP(rec, tt.req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, errorMessage(t, rec), tt.msg)
		})
	}
	assert.Empty(t, *calls)
}

func TestRelay_MethodNotAllowed(t *testing.T) {
	rl := New(Options{})

	rec := httptest.NewRecorder()
	rl.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, DefaultPath, nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "POST, OPTIONS", rec.Header().Get("Allow"))
}

func TestRelay_Preflight(t *testing.T) {
	rl := New(Options{AllowedOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodOptions, DefaultPath, nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	rl.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), signaturit.HeaderAPIURL)
}

func TestRelay_UpstreamFailure(t *testing.T) {
	upstream, _ := newUpstream(t, http.StatusOK, `{}`)
	base := upstream.URL
	upstream.Close()

	rl := New(Options{Bases: []string{base}, Upstream: &http.Client{Timeout: time.Second}})
	rec := httptest.NewRecorder()
	rl.ServeHTTP(rec, relayRequest(http.MethodPost, base+"/brandings.json", "tok", "GET", ""))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.True(t, strings.HasPrefix(errorMessage(t, rec), "Proxy error: "))
}

func TestRelay_HealthAndMetrics(t *testing.T) {
	reg := prom.NewRegistry()
	rl := New(Options{Registry: reg, Recorder: metrics.NewPrometheusRecorder(reg)})

	rec := httptest.NewRecorder()
	rl.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	rl.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "htmlgen_relay_requests_total")
}

func TestRelay_KeepsCallerRequestID(t *testing.T) {
	rl := New(Options{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc")
	rec := httptest.NewRecorder()
	rl.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(HeaderRequestID))
}
