package server_test

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formfill/internal/server"
	"github.com/goliatone/go-formfill/pkg/formflow"
	"github.com/goliatone/go-formfill/pkg/gateway"
	"github.com/goliatone/go-formfill/pkg/metrics"
	"github.com/goliatone/go-formfill/pkg/session"
	"github.com/goliatone/go-formfill/pkg/testsupport"
)

type stubRegistrar struct {
	reg gateway.Registration
}

func (s stubRegistrar) CreateUser(context.Context, string, string) (gateway.Registration, error) {
	return s.reg, nil
}

type stubSource struct {
	mu    sync.Mutex
	calls int
	resp  gateway.FormResponse
	err   error
}

func (s *stubSource) FetchForm(context.Context, string) (gateway.FormResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.resp, s.err
}

type harness struct {
	t       *testing.T
	srv     *httptest.Server
	client  *http.Client
	backend *session.MemoryBackend
	source  *stubSource

	mu          sync.Mutex
	submissions []formflow.Submission
}

func newHarness(t *testing.T, reg gateway.Registration) *harness {
	t.Helper()

	h := &harness{
		t:       t,
		backend: session.NewMemoryBackend(),
		source:  &stubSource{resp: gateway.FormResponse{Message: "Form fetched", Form: testsupport.SampleDefinition()}},
	}
	submitter := formflow.SubmitterFunc(func(_ context.Context, sub formflow.Submission) (string, error) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.submissions = append(h.submissions, sub)
		return "", nil
	})

	s, err := server.New(h.backend, stubRegistrar{reg: reg}, h.source,
		server.WithSubmitter(submitter),
		server.WithMetrics(metrics.New()),
		server.WithRuntimeAssets(fstest.MapFS{
			"formfill-behaviors.js": {Data: []byte("// behaviors")},
		}),
	)
	require.NoError(t, err)

	h.srv = httptest.NewServer(s.Handler())
	t.Cleanup(h.srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	h.client = &http.Client{Jar: jar}
	return h
}

func (h *harness) get(path string) (*http.Response, string) {
	h.t.Helper()
	resp, err := h.client.Get(h.srv.URL + path)
	require.NoError(h.t, err)
	return resp, readBody(h.t, resp)
}

func (h *harness) post(path string, form url.Values) (*http.Response, string) {
	h.t.Helper()
	resp, err := h.client.PostForm(h.srv.URL+path, form)
	require.NoError(h.t, err)
	return resp, readBody(h.t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func (h *harness) login() string {
	h.t.Helper()
	resp, body := h.post("/", url.Values{"roll_number": {"RA1"}, "name": {"Allan"}})
	require.Equal(h.t, http.StatusOK, resp.StatusCode)
	require.Equal(h.t, "/form", resp.Request.URL.Path)
	return body
}

func TestLoginPageIssuesSessionCookie(t *testing.T) {
	h := newHarness(t, gateway.Registered(""))

	resp, body := h.get("/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `class="login"`)

	u, _ := url.Parse(h.srv.URL)
	var found bool
	for _, c := range h.client.Jar.Cookies(u) {
		if c.Name == server.CookieName && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "session cookie should be set")
}

func TestLoginRequiresBothFields(t *testing.T) {
	h := newHarness(t, gateway.Registered(""))

	resp, body := h.post("/", url.Values{"roll_number": {"RA1"}})
	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Contains(t, body, "Please fill all the fields to continue!")
	assert.Contains(t, body, `value="RA1"`)
	assert.Empty(t, h.backend.Keys())
}

func TestLoginThenFillAndSubmit(t *testing.T) {
	h := newHarness(t, gateway.Registered(""))

	body := h.login()
	assert.Contains(t, body, "Welcome Allan!")
	assert.Contains(t, body, "Form fetched")
	assert.Contains(t, body, "Allan (RA1)")
	assert.Contains(t, body, `data-step="1/2"`)
	require.Len(t, h.backend.Keys(), 1)
	assert.True(t, strings.HasSuffix(h.backend.Keys()[0], ":"+session.Key))

	// Required fields left empty keep the cursor on the first section.
	_, body = h.post("/form", url.Values{"action": {"next"}, "cursor": {"0"}})
	assert.Contains(t, body, `data-step="1/2"`)
	assert.Contains(t, body, "is required.")

	_, body = h.post("/form", url.Values{
		"action": {"next"},
		"cursor": {"0"},
		"name":   {"Ada"},
		"email":  {"ada@example.com"},
	})
	assert.Contains(t, body, `data-step="2/2"`)
	assert.Contains(t, body, `value="submit"`)

	_, body = h.post("/form", url.Values{
		"action": {"submit"},
		"cursor": {"1"},
		"dept":   {"cse"},
		"langs":  {"py", "go"},
	})
	assert.Contains(t, body, "Form submitted!")
	assert.Contains(t, body, `value="restart"`)

	h.mu.Lock()
	defer h.mu.Unlock()
	require.Len(t, h.submissions, 1)
	sub := h.submissions[0]
	assert.Equal(t, "RA1", sub.Respondent.RollNumber)
	assert.Equal(t, "Ada", sub.Data["name"])
	assert.Equal(t, "cse", sub.Data["dept"])
	assert.Equal(t, "py,go", sub.Data["langs"])
	assert.Equal(t, "", sub.Data["year"])
	h.source.mu.Lock()
	defer h.source.mu.Unlock()
	assert.Equal(t, 1, h.source.calls)
}

func TestPreviousKeepsValues(t *testing.T) {
	h := newHarness(t, gateway.Registered(""))
	h.login()

	h.post("/form", url.Values{"action": {"next"}, "cursor": {"0"}, "name": {"Ada"}, "email": {"ada@example.com"}})
	_, body := h.post("/form", url.Values{"action": {"previous"}, "cursor": {"1"}})
	assert.Contains(t, body, `data-step="1/2"`)
	assert.Contains(t, body, `value="Ada"`)
}

func TestStalePostLeavesOtherSectionsAlone(t *testing.T) {
	h := newHarness(t, gateway.Registered(""))
	h.login()

	h.post("/form", url.Values{"action": {"next"}, "cursor": {"0"}, "name": {"Ada"}, "email": {"ada@example.com"}})
	h.post("/form", url.Values{"action": {"previous"}, "cursor": {"1"}, "dept": {"cse"}})
	_, body := h.post("/form", url.Values{"action": {"next"}, "cursor": {"0"}, "name": {"Ada"}, "email": {"ada@example.com"}})
	require.Contains(t, body, `data-step="2/2"`)

	// A first-section page from another tab, posted while the server is on
	// the second section.
	_, body = h.post("/form", url.Values{"action": {"next"}, "cursor": {"0"}, "name": {"Bob"}, "email": {"bob@example.com"}})
	assert.Contains(t, body, `data-step="2/2"`)
	assert.Contains(t, body, "This page was out of date")
	assert.Contains(t, body, `<option value="cse" selected>`)

	// A body without a cursor is treated the same way.
	_, body = h.post("/form", url.Values{"action": {"submit"}, "dept": {"ece"}})
	assert.Contains(t, body, "This page was out of date")
	assert.Contains(t, body, `<option value="cse" selected>`)

	_, body = h.post("/form", url.Values{"action": {"previous"}, "cursor": {"1"}, "dept": {"cse"}})
	assert.Contains(t, body, `data-step="1/2"`)
	assert.Contains(t, body, `value="Ada"`)
	assert.NotContains(t, body, `value="Bob"`)

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Empty(t, h.submissions)
}

func TestLogoutNeedsConfirmation(t *testing.T) {
	h := newHarness(t, gateway.AlreadyExists(""))
	body := h.login()
	assert.Contains(t, body, "User exists! Trying to login with the existing information.")

	resp, _ := h.post("/form", url.Values{"action": {"logout"}})
	assert.Equal(t, "/form", resp.Request.URL.Path)
	assert.Len(t, h.backend.Keys(), 1)

	resp, _ = h.post("/form", url.Values{"action": {"logout"}, "confirm": {"yes"}})
	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Empty(t, h.backend.Keys())

	resp, body = h.get("/form")
	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Contains(t, body, "Please login to continue!")
}

func TestFetchFailureShowsRetry(t *testing.T) {
	h := newHarness(t, gateway.Registered(""))
	h.source.mu.Lock()
	h.source.err = &gateway.StatusError{Call: metrics.CallFetchForm, StatusCode: http.StatusNotFound, Status: "404 Not Found", Message: "No form for this roll number"}
	h.source.mu.Unlock()

	body := h.login()
	assert.Contains(t, body, "No form for this roll number")
	assert.Contains(t, body, `value="retry"`)

	h.source.mu.Lock()
	h.source.err = nil
	h.source.mu.Unlock()

	_, body = h.post("/form", url.Values{"action": {"retry"}})
	assert.Contains(t, body, `data-step="1/2"`)
}

func TestLoggedInVisitorSkipsLogin(t *testing.T) {
	h := newHarness(t, gateway.Registered(""))
	h.login()

	resp, _ := h.get("/")
	assert.Equal(t, "/form", resp.Request.URL.Path)
}

func TestUnknownAction(t *testing.T) {
	h := newHarness(t, gateway.Registered(""))
	resp, _ := h.post("/form", url.Values{"action": {"explode"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t, gateway.Registered(""))

	resp, body := h.get("/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)

	h.get("/")
	resp, body = h.get("/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "formfill_http_requests_total")
	assert.Contains(t, body, `route="/"`)
}

func TestRuntimeAssets(t *testing.T) {
	h := newHarness(t, gateway.Registered(""))

	resp, body := h.get("/runtime/formfill-behaviors.js")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "// behaviors", body)

	_, body = h.get("/")
	assert.Contains(t, body, `src="/runtime/formfill-behaviors.js"`)
}
