package eds

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kailas-cloud/edsapi/internal/domain"
	"github.com/kailas-cloud/edsapi/internal/domain/params"
	"github.com/kailas-cloud/edsapi/internal/domain/token"
)

type fakeRenewer struct {
	calls   int
	profile string
	auth    string
	err     error
}

func (r *fakeRenewer) RenewSession(_ context.Context, authToken, profile string) (string, error) {
	r.calls++
	r.auth = authToken
	r.profile = profile
	if r.err != nil {
		return "", r.err
	}
	return "renewed-session", nil
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(&Config{AuthURL: srv.URL + "/authservice/rest", APIURL: srv.URL + "/edsapi/rest"})
}

func TestAuthenticate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/authservice/rest/uidauth" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		var got map[string]string
		if err := json.Unmarshal(body, &got); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if got["username"] != "user" || got["password"] != "pass" {
			t.Errorf("body = %v", got)
		}
		if _, ok := got["orgid"]; ok {
			t.Error("empty orgid should be omitted")
		}
		_, _ = w.Write([]byte(`{"AuthToken":"tok","AuthTimeout":"1800"}`))
	})

	g, err := c.Authenticate(context.Background(), "user", "pass", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Token != "tok" || g.TimeoutSec != 1800 {
		t.Errorf("grant = %+v", g)
	}
}

func TestAuthenticate_AuthErrorShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ErrorCode":1102,"Reason":"Invalid Credentials.","AdditionalDetail":"bad user"}`))
	})

	_, err := c.Authenticate(context.Background(), "user", "bad", "")
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != 1102 || apiErr.Description != "Invalid Credentials." || apiErr.DetailedDescription != "bad user" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if apiErr.HTTPStatus != http.StatusBadRequest {
		t.Errorf("HTTPStatus = %d", apiErr.HTTPStatus)
	}
}

func TestCreateSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/edsapi/rest/createsession" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("profile") != "edsapi" || r.URL.Query().Get("guest") != "n" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		if r.Header.Get("x-authenticationToken") != "auth" {
			t.Errorf("auth header = %q", r.Header.Get("x-authenticationToken"))
		}
		if r.Header.Get("x-sessionToken") != "" {
			t.Error("session header sent on createsession")
		}
		_, _ = w.Write([]byte(`{"SessionToken":"sess"}`))
	})

	s, err := c.CreateSession(context.Background(), "auth", "edsapi", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "sess" {
		t.Errorf("session = %q", s)
	}
}

func TestSearch_HeadersAndQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		if r.Header.Get("x-sessionToken") != "sess" {
			t.Errorf("session header = %q", r.Header.Get("x-sessionToken"))
		}
		if _, ok := r.Header["X-Authenticationtoken"]; ok {
			t.Error("auth header sent with empty auth token")
		}
		if got := r.URL.Query()["filters"]; len(got) != 2 {
			t.Errorf("filters = %v", got)
		}
		if r.URL.Query().Get("query") != "dogs" {
			t.Errorf("query = %q", r.URL.Query().Get("query"))
		}
		_, _ = w.Write([]byte(`{"SearchResponseMessageGet":{}}`))
	})

	p := params.New()
	p.Add(params.Query, "dogs")
	p.Add(params.Filters, "a:1")
	p.Add(params.Filters, "b:2")

	resp, err := c.Search(context.Background(), token.Pair{SessionToken: "sess"}, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := resp.(map[string]any)["SearchResponseMessageGet"]; !ok {
		t.Errorf("resp = %v", resp)
	}
}

func TestSearch_DecodeErrors(t *testing.T) {
	for _, body := range []string{"", "   ", "<html>oops</html>", "null"} {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		_, err := c.Search(context.Background(), token.Pair{}, params.New())
		if !errors.Is(err, domain.ErrDecode) {
			t.Errorf("body %q: err = %v, want ErrDecode", body, err)
		}
		if errors.Is(err, domain.ErrAPI) {
			t.Errorf("body %q: decode error classified as API error", body)
		}
	}
}

func TestSearch_NonOKUnparseableIsTransportError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	})
	_, err := c.Search(context.Background(), token.Pair{}, params.New())
	if !errors.Is(err, domain.ErrTransport) {
		t.Errorf("err = %v, want ErrTransport", err)
	}
}

func TestSearch_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(&Config{APIURL: srv.URL})

	_, err := c.Search(context.Background(), token.Pair{}, params.New())
	if !errors.Is(err, domain.ErrTransport) {
		t.Errorf("err = %v, want ErrTransport", err)
	}
}

const sessionInvalid = `{"DetailedErrorDescription":"Invalid Session Token. Please generate a new one.",` +
	`"ErrorDescription":"Session Token Invalid","ErrorNumber":"109"}`

func TestSearch_SessionInvalidRetriesOnce(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if n == 1 {
			if r.Header.Get("x-sessionToken") != "stale" {
				t.Errorf("first call session = %q", r.Header.Get("x-sessionToken"))
			}
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(sessionInvalid))
			return
		}
		if r.Header.Get("x-sessionToken") != "renewed-session" {
			t.Errorf("retry session = %q", r.Header.Get("x-sessionToken"))
		}
		_, _ = w.Write([]byte(`{"SearchResponseMessageGet":{}}`))
	})
	r := &fakeRenewer{}
	c.WithSessionRenewer(r)

	_, err := c.Search(context.Background(),
		token.Pair{AuthToken: "auth", SessionToken: "stale", Profile: "edsapi"}, params.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
	if r.calls != 1 || r.profile != "edsapi" || r.auth != "auth" {
		t.Errorf("renewer = %+v", r)
	}
}

func TestSearch_SessionInvalidTwicePropagates(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(sessionInvalid))
	})
	r := &fakeRenewer{}
	c.WithSessionRenewer(r)

	_, err := c.Search(context.Background(), token.Pair{SessionToken: "stale"}, params.New())

	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != domain.CodeSessionTokenInvalid {
		t.Fatalf("expected session invalid APIError, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
	if r.calls != 1 {
		t.Errorf("renewals = %d, want 1", r.calls)
	}
}

func TestSearch_OtherAPIErrorsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ErrorNumber":"104","ErrorDescription":"Auth Token Invalid"}`))
	})
	r := &fakeRenewer{}
	c.WithSessionRenewer(r)

	_, err := c.Search(context.Background(), token.Pair{SessionToken: "s"}, params.New())
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.Kind() != domain.KindAuthInvalid {
		t.Fatalf("expected auth invalid APIError, got %v", err)
	}
	if calls.Load() != 1 || r.calls != 0 {
		t.Errorf("calls = %d, renewals = %d", calls.Load(), r.calls)
	}
}

func TestSearch_RenewFailurePropagates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(sessionInvalid))
	})
	boom := errors.New("renew failed")
	c.WithSessionRenewer(&fakeRenewer{err: boom})

	_, err := c.Search(context.Background(), token.Pair{SessionToken: "s"}, params.New())
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want renew failure", err)
	}
}

func TestRetrieve_Query(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/edsapi/rest/retrieve" || q.Get("an") != "AN123" || q.Get("dbid") != "DB1" {
			t.Errorf("request = %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		if q.Get("highlightterms") != "dogs" {
			t.Errorf("highlightterms = %q", q.Get("highlightterms"))
		}
		_, _ = w.Write([]byte(`{"Record":{"Header":{"DbId":"DB1","An":"AN123"}}}`))
	})

	resp, err := c.Retrieve(context.Background(), token.Pair{}, "AN123", "DB1", "dogs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := resp.(map[string]any)["Record"]; !ok {
		t.Errorf("resp = %v", resp)
	}
}

func TestInfo(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/info") {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"AvailableSearchCriteria":{"AvailableSorts":[{"Id":"date","Label":"Date"}]},` +
			`"ViewResultSettings":{"ResultsPerPage":20,"ResultListView":"brief"}}`))
	})

	info, err := c.Info(context.Background(), token.Pair{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(info.AvailableSearchCriteria.AvailableSorts) != 1 || info.ViewResultSettings.ResultsPerPage != 20 {
		t.Errorf("info = %+v", info)
	}
}

func TestParseAPIError(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
		ok   bool
	}{
		{"search shape numeric string", `{"ErrorNumber":"109","ErrorDescription":"x"}`, 109, true},
		{"search shape number", `{"ErrorNumber":106,"ErrorDescription":"x"}`, 106, true},
		{"auth shape", `{"ErrorCode":1102,"Reason":"r"}`, 1102, true},
		{"success payload", `{"SessionToken":"s"}`, 0, false},
		{"array", `[1,2]`, 0, false},
		{"garbage", `not json`, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := parseAPIError([]byte(tc.body), 400)
			if (got != nil) != tc.ok {
				t.Fatalf("parseAPIError() = %v, want ok=%v", got, tc.ok)
			}
			if got != nil && got.Code != tc.code {
				t.Errorf("Code = %d, want %d", got.Code, tc.code)
			}
		})
	}
}
