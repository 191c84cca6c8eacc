package registration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type mockSessionStore struct {
	calls int
	user  User
	token string
}

func (m *mockSessionStore) EstablishSession(user User, accessToken string) error {
	m.calls++
	m.user = user
	m.token = accessToken
	return nil
}

type mockNavigator struct {
	paths []string
}

func (m *mockNavigator) NavigateTo(path string) {
	m.paths = append(m.paths, path)
}

// roundTripperFunc lets a test observe or fabricate the HTTP exchange on the
// submitting goroutine.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestFlow(t *testing.T, baseURL string, client *http.Client) (*Flow, *mockSessionStore, *mockNavigator) {
	t.Helper()
	store := &mockSessionStore{}
	nav := &mockNavigator{}
	flow, err := NewFlow(Config{BaseURL: baseURL, HTTPClient: client}, store, nav)
	require.NoError(t, err)
	return flow, store, nav
}

func fillValid(flow *Flow) {
	flow.SetUsername("alice")
	flow.SetEmail("alice@example.com")
	flow.SetPassword("s3cret7")
}

func TestSubmit_Success_EstablishesSessionAndNavigates(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/register", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"User registered successfully","access_token":"tok","user":{"id":"1","username":"alice","email":"alice@example.com"}}`))
	}))
	defer srv.Close()

	flow, store, nav := newTestFlow(t, srv.URL, nil)
	fillValid(flow)

	require.NoError(t, flow.Submit(context.Background()))

	require.Equal(t, 1, requests)
	require.Equal(t, 1, store.calls)
	require.Equal(t, User{ID: "1", Username: "alice", Email: "alice@example.com"}, store.user)
	require.Equal(t, "tok", store.token)
	require.Equal(t, []string{"/dashboard"}, nav.paths)
	require.Empty(t, flow.ErrorMessage())
}

func TestSubmit_Rejection_ShowsServerErrorVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"Email already exists"}`))
	}))
	defer srv.Close()

	flow, store, nav := newTestFlow(t, srv.URL, nil)
	fillValid(flow)

	require.NoError(t, flow.Submit(context.Background()))

	require.Equal(t, "Email already exists", flow.ErrorMessage())
	require.Zero(t, store.calls)
	require.Empty(t, nav.paths)

	// Failure leaves the field state untouched for editing and resubmitting.
	require.Equal(t, "alice", flow.Form().Username)
	require.Equal(t, "alice@example.com", flow.Form().Email)
	require.Equal(t, "s3cret7", flow.Form().Password)
}

func TestSubmit_NoDeduplication_LastResponseWins(t *testing.T) {
	// Each Submit issues its own request; nothing de-duplicates attempts,
	// and the visible state is whatever the last processed response said.
	responses := []struct {
		status int
		body   string
	}{
		{http.StatusConflict, `{"error":"Email already exists"}`},
		{http.StatusBadRequest, `{"error":"Missing required fields"}`},
	}
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := responses[requests%len(responses)]
		requests++
		w.WriteHeader(resp.status)
		w.Write([]byte(resp.body))
	}))
	defer srv.Close()

	flow, _, _ := newTestFlow(t, srv.URL, nil)
	fillValid(flow)

	require.NoError(t, flow.Submit(context.Background()))
	require.NoError(t, flow.Submit(context.Background()))

	require.Equal(t, 2, requests)
	require.Equal(t, "Missing required fields", flow.ErrorMessage())
}

func TestSubmit_ClearsPreviousErrorBeforeResponseArrives(t *testing.T) {
	flow, _, _ := newTestFlow(t, "http://finance.test", &http.Client{
		Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusConflict, `{"error":"Email already exists"}`), nil
		}),
	})
	fillValid(flow)
	require.NoError(t, flow.Submit(context.Background()))
	require.Equal(t, "Email already exists", flow.ErrorMessage())

	// The second attempt must blank the display before its request is even
	// sent; the transport observes the state mid-flight.
	var duringRequest string
	flow.client = &http.Client{
		Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			duringRequest = flow.ErrorMessage()
			return jsonResponse(http.StatusConflict, `{"error":"Username taken"}`), nil
		}),
	}
	require.NoError(t, flow.Submit(context.Background()))
	require.Empty(t, duringRequest)
	require.Equal(t, "Username taken", flow.ErrorMessage())
}

func TestSubmit_ConstraintViolationsNeverReachTheNetwork(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	cases := []struct {
		name string
		fill func(*Flow)
	}{
		{"empty username", func(f *Flow) {
			f.SetUsername("")
			f.SetEmail("alice@example.com")
			f.SetPassword("s3cret7")
		}},
		{"empty email", func(f *Flow) {
			f.SetUsername("alice")
			f.SetEmail("")
			f.SetPassword("s3cret7")
		}},
		{"malformed email", func(f *Flow) {
			f.SetUsername("alice")
			f.SetEmail("not-an-email")
			f.SetPassword("s3cret7")
		}},
		{"short password", func(f *Flow) {
			f.SetUsername("alice")
			f.SetEmail("alice@example.com")
			f.SetPassword("12345")
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			flow, store, nav := newTestFlow(t, srv.URL, nil)
			tc.fill(flow)

			err := flow.Submit(context.Background())
			require.Error(t, err)
			require.Zero(t, requests, "no request may be issued for an invalid form")
			require.Zero(t, store.calls)
			require.Empty(t, nav.paths)
		})
	}
}

func TestSubmit_SendsFieldValuesUnmodified(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"access_token":"tok","user":{"id":"1"}}`))
	}))
	defer srv.Close()

	flow, _, _ := newTestFlow(t, srv.URL, nil)
	// No trimming or normalization happens on the way out.
	flow.SetUsername("  alice  ")
	flow.SetEmail("Alice@Example.com")
	flow.SetPassword(" s3cret7 ")

	require.NoError(t, flow.Submit(context.Background()))
	require.Equal(t, map[string]string{
		"username": "  alice  ",
		"email":    "Alice@Example.com",
		"password": " s3cret7 ",
	}, received)
}

func TestSubmit_TransportFailureReturnsErrorWithoutInlineMessage(t *testing.T) {
	// Decision: connectivity failures are returned to the caller instead of
	// being shown inline, keeping the form's error display for server
	// rejections only.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	flow, store, nav := newTestFlow(t, srv.URL, nil)
	fillValid(flow)

	err := flow.Submit(context.Background())
	require.Error(t, err)
	require.Empty(t, flow.ErrorMessage())
	require.Zero(t, store.calls)
	require.Empty(t, nav.paths)
}

func TestSubmit_MalformedBodyReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`<html>gateway error</html>`))
	}))
	defer srv.Close()

	flow, store, _ := newTestFlow(t, srv.URL, nil)
	fillValid(flow)

	err := flow.Submit(context.Background())
	require.Error(t, err)
	require.Empty(t, flow.ErrorMessage())
	require.Zero(t, store.calls)
}

func TestNewFlow_RequiresBaseURL(t *testing.T) {
	_, err := NewFlow(Config{}, &mockSessionStore{}, &mockNavigator{})
	require.Error(t, err)
}
