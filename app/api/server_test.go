package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"meetassist/app/config"
	"meetassist/app/service/assistant"
	"meetassist/app/service/generation"
	"meetassist/app/service/history"
	"meetassist/app/service/summary"

	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	requests []assistant.Request
	result   *assistant.Result
	err      error
}

func (f *fakeRunner) Run(_ context.Context, req assistant.Request) (*assistant.Result, error) {
	f.requests = append(f.requests, req)
	return f.result, f.err
}

func okResult() *assistant.Result {
	var s summary.Result
	s.Set(summary.OverallKey, []string{"一", "二"})
	return &assistant.Result{Summary: s, Suggestion: "建議"}
}

func newTestServer(runner Runner) (*Server, *history.Service) {
	cfg := config.Default()
	hist := history.NewService(history.DefaultCapacity)
	return NewServer(&cfg, runner, hist), hist
}

func perform(t *testing.T, s *Server, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSummarize_Success(t *testing.T) {
	runner := &fakeRunner{result: okResult()}
	s, _ := newTestServer(runner)

	resp, body := perform(t, s, jsonRequest(http.MethodPost, "/summarize",
		`{"text":"逐字稿","role":"PM","context":"standup","focus":"blockers","custom":"short"}`))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"summary":{"overall":["一","二"]},"suggestion":"建議"}`, string(body))
	require.Equal(t, []assistant.Request{{
		Text:         "逐字稿",
		Role:         "PM",
		Context:      "standup",
		Focus:        "blockers",
		CustomFormat: "short",
	}}, runner.requests)
}

func TestSummarize_QueryFallback(t *testing.T) {
	runner := &fakeRunner{result: okResult()}
	s, _ := newTestServer(runner)

	resp, _ := perform(t, s, jsonRequest(http.MethodPost, "/summarize?text=fromquery&role=qrole&focus=qfocus",
		`{"role":"","focus":null,"customFormat":"fmt"}`))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, assistant.Request{
		Text:         "fromquery",
		Role:         "",
		Focus:        "",
		CustomFormat: "fmt",
	}, runner.requests[0])
}

func TestSummarize_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		want   string
	}{
		{
			name:   "validation",
			err:    &assistant.ValidationError{Field: "text", Message: "missing parameter: text"},
			status: http.StatusBadRequest,
			want:   `{"error":"missing parameter: text","field":"text","summary":{},"suggestion":""}`,
		},
		{
			name:   "retry exhausted",
			err:    &generation.RetryExhaustedError{Attempts: 3, Last: errors.New("RESOURCE_EXHAUSTED")},
			status: http.StatusServiceUnavailable,
			want:   `{"error":"generation retries exhausted, try again later","summary":{},"suggestion":""}`,
		},
		{
			name:   "fatal",
			err:    &generation.FatalError{Err: errors.New("bad key")},
			status: http.StatusBadGateway,
			want:   `{"error":"generation failed: bad key","summary":{},"suggestion":""}`,
		},
		{
			name:   "unknown",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			want:   `{"error":"boom","summary":{},"suggestion":""}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestServer(&fakeRunner{err: tc.err})

			resp, body := perform(t, s, jsonRequest(http.MethodPost, "/summarize", `{"text":"x"}`))
			require.Equal(t, tc.status, resp.StatusCode)
			require.JSONEq(t, tc.want, string(body))
		})
	}
}

func TestSaveSettings_RedirectsWithEntry(t *testing.T) {
	s, hist := newTestServer(&fakeRunner{})

	form := url.Values{}
	form.Set("role", "老師")
	form.Set("context", "課堂")
	form.Set("focus", "互動")
	form.Set("custom", "條列")

	req := httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, _ := perform(t, s, req)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	location, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "/assistant", location.Path)
	require.Equal(t, "老師", location.Query().Get("role"))
	require.Equal(t, "條列", location.Query().Get("custom"))

	require.Equal(t, []history.Entry{{
		Role:         "老師",
		Context:      "課堂",
		Focus:        "互動",
		CustomFormat: "條列",
	}}, hist.List())
}

func TestListSettings(t *testing.T) {
	s, hist := newTestServer(&fakeRunner{})
	hist.Save(history.Entry{Role: "first"})

	resp, _ := perform(t, s, jsonRequest(http.MethodPost, "/settings", `{"role":"second","custom":"c"}`))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, body := perform(t, s, httptest.NewRequest(http.MethodGet, "/settings", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got historyResponse
	require.NoError(t, json.Unmarshal(body, &got))
	require.Equal(t, []history.Entry{{Role: "second", CustomFormat: "c"}, {Role: "first"}}, got.History)
}

func TestAssistant_EchoesSettings(t *testing.T) {
	s, _ := newTestServer(&fakeRunner{})

	resp, body := perform(t, s, httptest.NewRequest(http.MethodGet, "/assistant?role=r&context=c&focus=f&custom=x", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"role":"r","context":"c","focus":"f","custom":"x"}`, string(body))
}

func TestHealthAndMetrics(t *testing.T) {
	s, _ := newTestServer(&fakeRunner{})

	resp, body := perform(t, s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", string(body))

	resp, body = perform(t, s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "go_goroutines")
}
