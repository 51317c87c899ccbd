// Package access looks up login status against the hosted user-control table.
//
// The table is external: the gate only ever reads it, one record per login
// attempt, and maps the stored status to an admit/deny/pending decision.
package access

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmoura/simulado/internal/model"
)

const usersTable = "users_control"

var (
	// ErrEmptyInput means the e-mail was empty after trimming.
	ErrEmptyInput = errors.New("empty e-mail")
	// ErrNotFound means no record matches the e-mail.
	ErrNotFound = errors.New("account not found")
	// ErrPendingApproval means the record exists but is not approved yet.
	ErrPendingApproval = errors.New("account pending approval")
	// ErrUnknownStatus means the record carries a status value the
	// application does not recognize.
	ErrUnknownStatus = errors.New("unknown account status")
	// ErrTransport means the store was unreachable or returned a
	// store-level error.
	ErrTransport = errors.New("user store unreachable")
)

// Client queries the hosted user-status store over its REST interface.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New creates a store client. The URL and key come from configuration; both
// are required.
func New(baseURL, apiKey string, httpClient *http.Client) (*Client, error) {
	if baseURL == "" || apiKey == "" {
		return nil, fmt.Errorf("auth store URL and key are required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
	}, nil
}

// Authenticate looks up exactly one record by e-mail and maps its status to
// a decision. The input is trimmed and lower-cased before the lookup; the
// call has no side effects on the store.
func (c *Client) Authenticate(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrEmptyInput
	}

	rows, err := c.lookup(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	user := rows[0]
	switch user.Status {
	case model.StatusPending, "pending":
		return nil, ErrPendingApproval
	case model.StatusApproved, "approved":
		user.Status = model.StatusApproved
		return &user, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, user.Status)
	}
}

func (c *Client) lookup(ctx context.Context, email string) ([]model.User, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("email", "eq."+email)
	q.Set("limit", "1")
	reqURL := c.baseURL + "/rest/v1/" + usersTable + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: store returned status %d", ErrTransport, resp.StatusCode)
	}

	var rows []model.User
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrTransport, err)
	}
	return rows, nil
}
