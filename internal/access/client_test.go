package access

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/dmoura/simulado/internal/model"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestClient(t *testing.T, rt http.RoundTripper) *Client {
	t.Helper()
	c, err := New("https://auth.example.com", "test-key", &http.Client{Transport: rt})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     make(http.Header),
	}
}

func TestNewRequiresURLAndKey(t *testing.T) {
	if _, err := New("", "key", nil); err == nil {
		t.Error("expected error for empty URL")
	}
	if _, err := New("https://auth.example.com", "", nil); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestAuthenticateEmptyInput(t *testing.T) {
	c := newTestClient(t, roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		t.Fatal("no network call expected for empty input")
		return nil, nil
	}))

	for _, email := range []string{"", "   ", "\t\n"} {
		if _, err := c.Authenticate(context.Background(), email); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Authenticate(%q) = %v, want ErrEmptyInput", email, err)
		}
	}
}

func TestAuthenticateNormalizesEmail(t *testing.T) {
	var seenFilter string
	c := newTestClient(t, roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		seenFilter = r.URL.Query().Get("email")
		return jsonResponse(http.StatusOK, `[{"id":"1","email":"user@example.com","status":"aprovado"}]`), nil
	}))

	user, err := c.Authenticate(context.Background(), "  User@Example.COM ")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if seenFilter != "eq.user@example.com" {
		t.Errorf("expected filter eq.user@example.com, got %q", seenFilter)
	}
	if user.Status != model.StatusApproved {
		t.Errorf("expected approved status, got %q", user.Status)
	}
}

func TestAuthenticateSendsCredentialHeaders(t *testing.T) {
	c := newTestClient(t, roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if r.Header.Get("apikey") != "test-key" {
			t.Errorf("missing apikey header, got %q", r.Header.Get("apikey"))
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected Authorization header %q", r.Header.Get("Authorization"))
		}
		return jsonResponse(http.StatusOK, `[]`), nil
	}))

	_, _ = c.Authenticate(context.Background(), "user@example.com")
}

func TestAuthenticateNotFound(t *testing.T) {
	c := newTestClient(t, roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[]`), nil
	}))

	if _, err := c.Authenticate(context.Background(), "ghost@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAuthenticatePending(t *testing.T) {
	for _, status := range []string{"pendente", "pending"} {
		c := newTestClient(t, roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `[{"id":"2","email":"user@example.com","status":"`+status+`"}]`), nil
		}))

		if _, err := c.Authenticate(context.Background(), "user@example.com"); !errors.Is(err, ErrPendingApproval) {
			t.Errorf("status %q: expected ErrPendingApproval, got %v", status, err)
		}
	}
}

func TestAuthenticateUnknownStatus(t *testing.T) {
	c := newTestClient(t, roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[{"id":"3","email":"user@example.com","status":"banido"}]`), nil
	}))

	if _, err := c.Authenticate(context.Background(), "user@example.com"); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestAuthenticateTransportFailures(t *testing.T) {
	t.Run("network error", func(t *testing.T) {
		c := newTestClient(t, roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		}))
		if _, err := c.Authenticate(context.Background(), "user@example.com"); !errors.Is(err, ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})

	t.Run("store-level error", func(t *testing.T) {
		c := newTestClient(t, roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusInternalServerError, `{"message":"boom"}`), nil
		}))
		if _, err := c.Authenticate(context.Background(), "user@example.com"); !errors.Is(err, ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})

	t.Run("bad payload", func(t *testing.T) {
		c := newTestClient(t, roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `not-json`), nil
		}))
		if _, err := c.Authenticate(context.Background(), "user@example.com"); !errors.Is(err, ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})
}
