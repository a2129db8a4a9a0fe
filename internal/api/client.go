// Package api is a thin HTTP client for the EventHub REST API. It
// handles Bearer token authentication, JSON marshaling, and the
// session-invalidation contract: any protected call answered with 401
// or 403 drops the whole session, not just that call.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventdeck/internal/model"
)

// TokenSource supplies the bearer credential for protected requests
// and is told when the server rejects it.
type TokenSource interface {
	Require() (string, error)
	Invalidate()
}

// Client is the EventHub API client.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new API client. The baseURL should be the root
// URL of the EventHub backend (e.g., http://127.0.0.1:8000).
func NewClient(baseURL string, tokens TokenSource, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// errorBody is the JSON error payload shape used by the backend.
type errorBody struct {
	Detail string `json:"detail"`
}

// do is the core HTTP method that builds the request, handles auth,
// and JSON (de)serialization. When authed is true the credential is
// resolved before anything touches the network, so a missing session
// fails locally with session.ErrAuthRequired.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
	authed bool,
) error {
	var token string
	if authed {
		var err error
		token, err = c.tokens.Require()
		if err != nil {
			return err
		}
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(
		ctx, method, c.baseURL+path, bodyReader,
	)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if authed {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			"method", method, "path", path, "error", err)
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		c.logger.Warn("reading response failed",
			"method", method, "path", path, "error", readErr)
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if authed && (resp.StatusCode == http.StatusUnauthorized ||
		resp.StatusCode == http.StatusForbidden) {
		c.tokens.Invalidate()
		return fmt.Errorf("%s %s: %w", method, path, ErrSessionExpired)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(respBody, &eb)
		return fmt.Errorf("%s %s: %w", method, path,
			&RemoteError{Status: resp.StatusCode, Detail: eb.Detail})
	}

	// No content to parse (e.g. 204).
	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		c.logger.Warn("decoding response failed",
			"method", method, "path", path, "error", err)
		return fmt.Errorf(
			"unmarshaling response from %s %s: %w", method, path, err,
		)
	}

	return nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var user model.User
	err := c.do(ctx, http.MethodGet, "/me", nil, &user, true)
	return user, err
}

// SavedEvents fetches the user's saved events in server order.
func (c *Client) SavedEvents(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	err := c.do(ctx, http.MethodGet, "/events/saved", nil, &events, true)
	return events, err
}

// ScrapeEvent asks the server to scrape the given event page and
// returns the extracted preview. The preview is not yet saved to the
// user's list.
func (c *Client) ScrapeEvent(ctx context.Context, url string) (model.Event, error) {
	payload := struct {
		URL string `json:"url"`
	}{URL: url}

	var event model.Event
	err := c.do(ctx, http.MethodPost, "/events/scrape", payload, &event, true)
	return event, err
}

// SaveEvent commits a previewed event, by id, into the user's saved
// list. Saving is idempotent by id on the server side.
func (c *Client) SaveEvent(ctx context.Context, eventID int64) (model.Event, error) {
	payload := struct {
		EventID int64 `json:"eventId"`
	}{EventID: eventID}

	var event model.Event
	err := c.do(ctx, http.MethodPost, "/events/save", payload, &event, true)
	return event, err
}

// RemoveEvent deletes an event from the user's saved list.
func (c *Client) RemoveEvent(ctx context.Context, eventID int64) error {
	path := "/events/save/" + strconv.FormatInt(eventID, 10)
	return c.do(ctx, http.MethodDelete, path, nil, nil, true)
}

// notificationsBody is the envelope GET /notifications responds with.
type notificationsBody struct {
	Notifications []model.Notification `json:"notifications"`
}

// Notifications fetches the user's notifications, newest first.
func (c *Client) Notifications(ctx context.Context) ([]model.Notification, error) {
	var body notificationsBody
	err := c.do(ctx, http.MethodGet, "/notifications", nil, &body, true)
	return body.Notifications, err
}

// MarkNotificationRead marks a single notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	path := "/notifications/" + strconv.FormatInt(id, 10) + "/read"
	return c.do(ctx, http.MethodPost, path, nil, nil, true)
}

// loginBody is the response of a successful login.
type loginBody struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token. Unauthenticated.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var body loginBody
	err := c.do(ctx, http.MethodPost, "/api/auth/login", payload, &body, false)
	if err != nil {
		return "", err
	}
	return body.AccessToken, nil
}

// Register creates a new account and returns the created user.
// Unauthenticated; the caller still needs to log in afterwards.
func (c *Client) Register(ctx context.Context, name, email, password string) (model.User, error) {
	payload := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Name: name, Email: email, Password: password}

	var user model.User
	err := c.do(ctx, http.MethodPost, "/api/auth/register", payload, &user, false)
	return user, err
}
