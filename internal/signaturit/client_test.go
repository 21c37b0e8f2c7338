package signaturit

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/branding"
	ferrors "github.com/MarcosLancellotti2225/HTMLgenerator/internal/foundation/errors"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/retry"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/variables"
)

type relayCall struct {
	method   string
	token    string
	apiURL   string
	override string
	ctype    string
	form     url.Values
}

func newRelay(t *testing.T, status int, body string) (*httptest.Server, *[]relayCall) {
	t.Helper()
	var calls []relayCall
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(raw))
		calls = append(calls, relayCall{
			method:   r.Method,
			token:    r.Header.Get(HeaderToken),
			apiURL:   r.Header.Get(HeaderAPIURL),
			override: r.Header.Get(HeaderMethodOverride),
			ctype:    r.Header.Get("Content-Type"),
			form:     form,
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestClient_List(t *testing.T) {
	server, calls := newRelay(t, http.StatusOK, `[{"id":"b1","name":"Acme","templates":{"pending_sign":"<p/>"}},{"id":"b2"}]`)

	c, err := NewClient(server.URL, " tok ", Sandbox)
	require.NoError(t, err)

	list, err := c.List(testContext(t))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Acme", list[0].Name)
	assert.Equal(t, "Unnamed", list[1].DisplayName())

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "tok", call.token)
	assert.Equal(t, "https://api.sandbox.signaturit.com/v3/brandings.json", call.apiURL)
	assert.Equal(t, http.MethodGet, call.override)
}

func TestClient_Get(t *testing.T) {
	server, calls := newRelay(t, http.StatusOK, `{"id":"b1","text_color":"#111111","layout_color":"#eeeeee","templates":{"signed_document":"<html></html>"}}`)

	c, err := NewClient(server.URL, "tok", Production)
	require.NoError(t, err)

	b, err := c.Get(testContext(t), "b1")
	require.NoError(t, err)
	assert.Equal(t, "#111111", b.TextColor)
	doc, ok := b.TemplateFor(variables.SignedDocument)
	assert.True(t, ok)
	assert.Equal(t, "<html></html>", doc)
	assert.Equal(t, "https://api.signaturit.com/v3/brandings/b1.json", (*calls)[0].apiURL)
}

func TestClient_Create(t *testing.T) {
	server, calls := newRelay(t, http.StatusCreated, `{"id":"new-id"}`)

	c, err := NewClient(server.URL, "tok", Sandbox)
	require.NoError(t, err)

	id, err := c.Create(testContext(t), branding.CreateRequest{
		Name:        "Acme",
		Category:    variables.SignaturesRequest,
		HTML:        "<p>{{sign_button}}</p>",
		TextColor:   "#153643",
		LayoutColor: "#ffffff",
	})
	require.NoError(t, err)
	assert.Equal(t, "new-id", id)

	call := (*calls)[0]
	assert.Empty(t, call.override)
	assert.Equal(t, "application/x-www-form-urlencoded", call.ctype)
	assert.Equal(t, "Acme", call.form.Get("name"))
	assert.Equal(t, "<p>{{sign_button}}</p>", call.form.Get("templates[signatures_request]"))
}

func TestClient_Update(t *testing.T) {
	server, calls := newRelay(t, http.StatusOK, `{"id":"b1"}`)

	c, err := NewClient(server.URL, "tok", Sandbox)
	require.NoError(t, err)

	err = c.Update(testContext(t), "b1", branding.UpdateRequest{Category: variables.EmailsRequest, HTML: "x"})
	require.NoError(t, err)

	call := (*calls)[0]
	assert.Equal(t, http.MethodPatch, call.override)
	assert.Equal(t, "https://api.sandbox.signaturit.com/v3/brandings/b1.json", call.apiURL)
	assert.False(t, call.form.Has("name"))
}

func TestClient_RemoteError(t *testing.T) {
	server, _ := newRelay(t, http.StatusUnprocessableEntity, `{"message":"invalid template"}`+"\n")

	c, err := NewClient(server.URL, "tok", Sandbox)
	require.NoError(t, err)

	_, err = c.List(testContext(t))
	require.Error(t, err)

	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryRemote, classified.Category())
	assert.Equal(t, `HTTP 422: {"message":"invalid template"}`, classified.Message())
	assert.True(t, classified.CanRetry())
	status, _ := classified.Context().Get("status")
	assert.Equal(t, 422, status)
}

func TestClient_NetworkError(t *testing.T) {
	server, _ := newRelay(t, http.StatusOK, `[]`)
	server.Close()

	c, err := NewClient(server.URL, "tok", Sandbox)
	require.NoError(t, err)

	_, err = c.List(testContext(t))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNetwork))
}

type flakyTransport struct {
	failures int
	calls    int
}

func (f *flakyTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("connection reset")
	}
	return http.DefaultTransport.RoundTrip(r)
}

func TestClient_RetriesReads(t *testing.T) {
	server, calls := newRelay(t, http.StatusOK, `[{"id":"b1"}]`)
	transport := &flakyTransport{failures: 2}
	policy := retry.NewPolicy(retry.BackoffFixed, time.Millisecond, time.Millisecond, 2)

	c, err := NewClient(server.URL, "tok", Sandbox,
		WithHTTPClient(&http.Client{Transport: transport}),
		WithRetryPolicy(policy))
	require.NoError(t, err)

	list, err := c.List(testContext(t))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 3, transport.calls)
	assert.Len(t, *calls, 1)
}

func TestClient_WritesAreNotRetried(t *testing.T) {
	server, _ := newRelay(t, http.StatusOK, `{}`)
	transport := &flakyTransport{failures: 1}

	c, err := NewClient(server.URL, "tok", Sandbox,
		WithHTTPClient(&http.Client{Transport: transport}),
		WithRetryPolicy(retry.NewPolicy(retry.BackoffFixed, time.Millisecond, time.Millisecond, 3)))
	require.NoError(t, err)

	err = c.Update(testContext(t), "b1", branding.UpdateRequest{Category: variables.SignaturesRequest})
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNetwork))
	assert.Equal(t, 1, transport.calls)
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient("ftp://relay", "tok", Sandbox)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	_, err = NewClient("https://relay.example.com", "  ", Sandbox)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryAuth))
}

func TestNewHTTPClient_BlocksCrossHostRedirect(t *testing.T) {
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	t.Cleanup(other.Close)

	otherURL, err := url.Parse(other.URL)
	require.NoError(t, err)
	// Same address, different host name.
	target := "http://localhost:" + otherURL.Port()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusTemporaryRedirect)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "tok", Sandbox)
	require.NoError(t, err)

	_, err = c.List(testContext(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redirect to different host blocked")
}

func TestEnvironment(t *testing.T) {
	env, err := ParseEnvironment(" Production ")
	require.NoError(t, err)
	assert.Equal(t, Production, env)

	_, err = ParseEnvironment("staging")
	require.Error(t, err)

	assert.Equal(t, "https://api.sandbox.signaturit.com/v3", Environment("x").BaseURL())
	assert.True(t, IsAPIURL("https://api.signaturit.com/v3/brandings.json", BaseURLs()))
	assert.False(t, IsAPIURL("https://api.signaturit.com/v3.evil.com/x", BaseURLs()))
	assert.False(t, IsAPIURL("https://example.com/v3/brandings.json", BaseURLs()))
}
