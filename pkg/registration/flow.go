// Package registration implements the client-side signup flow: it owns the
// form field state, enforces the form's input constraints, submits the
// registration request and hands the resulting session to its collaborators.
package registration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fintrackhq/fintrack-be/pkg/apperrors"
)

// DashboardPath is where a successfully registered user is sent.
const DashboardPath = "/dashboard"

// registerEndpoint is relative to the configured base URL.
const registerEndpoint = "/api/auth/register"

// User is the account object returned by the registration endpoint.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// SessionStore is the external session-establishment collaborator. It takes
// ownership of the access token on successful registration.
type SessionStore interface {
	EstablishSession(user User, accessToken string) error
}

// Navigator is the external routing collaborator.
type Navigator interface {
	NavigateTo(path string)
}

// Form holds the signup screen's field state. The constraint tags mirror the
// form's input rules: all fields required, email-shaped email, password of at
// least 6 characters.
type Form struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Config configures a Flow. BaseURL is mandatory; the endpoint origin is
// never hardcoded into the flow.
type Config struct {
	BaseURL string

	// HTTPClient is optional; a client with a 30s timeout is used when nil.
	HTTPClient *http.Client
}

// Flow drives one registration screen. It is not safe for concurrent use:
// like the form it models, it belongs to a single UI goroutine. Nothing
// de-duplicates overlapping Submit calls; each call issues its own request
// and the last response to be processed determines the visible state.
type Flow struct {
	form     Form
	errorMsg string

	baseURL  string
	client   *http.Client
	sessions SessionStore
	nav      Navigator
	validate *validator.Validate
}

// NewFlow creates a registration flow with empty fields.
func NewFlow(cfg Config, sessions SessionStore, nav Navigator) (*Flow, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("registration: base URL is required")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Flow{
		baseURL:  cfg.BaseURL,
		client:   client,
		sessions: sessions,
		nav:      nav,
		validate: validator.New(),
	}, nil
}

// SetUsername updates the username field.
func (f *Flow) SetUsername(v string) { f.form.Username = v }

// SetEmail updates the email field.
func (f *Flow) SetEmail(v string) { f.form.Email = v }

// SetPassword updates the password field.
func (f *Flow) SetPassword(v string) { f.form.Password = v }

// Form returns the current field state.
func (f *Flow) Form() Form { return f.form }

// ErrorMessage returns the inline error from the last failed submission, or
// empty when none is displayed.
func (f *Flow) ErrorMessage() string { return f.errorMsg }

// registerResponse covers both response shapes: {user, access_token} on
// success, {error} on rejection.
type registerResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
	Error       string `json:"error"`
}

// Submit validates the form and issues the registration request.
//
// A form failing its constraints never produces a request; the constraint
// error is returned and the displayed error message is left untouched.
// Otherwise exactly one POST is issued with the field values unmodified.
// A non-2xx response surfaces the body's error field inline and returns nil:
// the rejection is resolved locally and the user may edit and resubmit, with
// all fields retaining their values. A 2xx response establishes the session
// with the returned user and access token, then navigates to the dashboard.
//
// Transport and decode failures are returned as errors with the inline
// message left empty; no session or navigation call happens.
func (f *Flow) Submit(ctx context.Context) error {
	if err := f.validate.Struct(f.form); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	// A new attempt always starts with a clean error display.
	f.errorMsg = ""

	body, err := json.Marshal(f.form)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+registerEndpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	// The body is decoded regardless of status; rejections carry their
	// message in the same JSON shape.
	var result registerResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.errorMsg = result.Error
		return nil
	}

	if err := f.sessions.EstablishSession(result.User, result.AccessToken); err != nil {
		return err
	}
	f.nav.NavigateTo(DashboardPath)
	return nil
}
