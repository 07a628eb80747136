// Package remote is the client's adapter to the UnionHub server: the
// REST document store, the identity endpoints, and the websocket
// realtime channel. A client built with an empty base URL reports the
// remote as disabled so the rest of the app can run cache-only.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/ourunion/unionhub/internal/common"
	"github.com/ourunion/unionhub/internal/logging"
	core "github.com/ourunion/unionhub/internal/models"
)

// EntityRow mirrors one stored entity set as the server returns it.
type EntityRow struct {
	ID        string          `json:"id"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Session is the result of a successful login.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	MemberID     string `json:"memberId"`
	IsAdmin      bool   `json:"isAdmin"`
}

// Client talks to the server's REST API. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func New(baseURL string, logger logging.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger.With("module", "remote"),
	}
}

// Enabled reports whether a server endpoint is configured at all.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// SetSession installs tokens obtained out of band (a restored session).
func (c *Client) SetSession(accessToken, refreshToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = accessToken
	c.refreshToken = refreshToken
}

func (c *Client) tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

type errorResponse struct {
	Error string `json:"error"`
}

func statusError(resp *http.Response) error {
	var er errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&er)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return common.ErrUnauthorized
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", common.ErrInvalidEntity, er.Error)
	case http.StatusConflict:
		return common.ErrLoginTaken
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, er.Error)
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out any) error {
	if !c.Enabled() {
		return common.ErrRemoteDisabled
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Ping checks server reachability.
func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/api/ping", "", nil, nil)
}

// FetchEntity retrieves one entity-set row. A row the server has never
// stored yields common.ErrNotFound.
func (c *Client) FetchEntity(ctx context.Context, key core.EntityKey) (*EntityRow, error) {
	var row EntityRow
	if err := c.doJSON(ctx, http.MethodGet, "/api/entities/"+string(key), "", nil, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// UpsertEntity replaces the whole document for key. On an expired access
// token the call refreshes once and retries.
func (c *Client) UpsertEntity(ctx context.Context, key core.EntityKey, data json.RawMessage) (*EntityRow, error) {
	put := func() (*EntityRow, error) {
		access, _ := c.tokens()
		var row EntityRow
		err := c.doJSON(ctx, http.MethodPut, "/api/entities/"+string(key), access, json.RawMessage(data), &row)
		if err != nil {
			return nil, err
		}
		return &row, nil
	}

	row, err := put()
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, common.ErrUnauthorized) {
		return nil, err
	}
	if rerr := c.Refresh(ctx); rerr != nil {
		return nil, err
	}
	return put()
}

// Register creates a server account tied to a member record.
func (c *Client) Register(ctx context.Context, login, password, memberID string) error {
	body := map[string]string{"login": login, "password": password, "memberId": memberID}
	return c.doJSON(ctx, http.MethodPost, "/api/auth/register", "", body, nil)
}

// Login authenticates and installs the returned token pair.
func (c *Client) Login(ctx context.Context, login, password string) (*Session, error) {
	body := map[string]string{"login": login, "password": password}
	var s Session
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "", body, &s); err != nil {
		return nil, err
	}
	c.SetSession(s.AccessToken, s.RefreshToken)
	return &s, nil
}

// Refresh exchanges the stored refresh token for a new pair.
func (c *Client) Refresh(ctx context.Context) error {
	_, refresh := c.tokens()
	if refresh == "" {
		return common.ErrUnauthorized
	}

	body := map[string]string{"refreshToken": refresh}
	var s Session
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/refresh", "", body, &s); err != nil {
		return err
	}
	c.SetSession(s.AccessToken, s.RefreshToken)
	return nil
}

// PresignPut asks the server for a one-shot upload URL and the storage
// key the uploaded object will live under.
func (c *Client) PresignPut(ctx context.Context) (string, string, error) {
	access, _ := c.tokens()
	var resp struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/attachments/presign-put", access, nil, &resp); err != nil {
		return "", "", err
	}
	return resp.Key, resp.URL, nil
}

// Upload PUTs content to a presigned URL.
func (c *Client) Upload(ctx context.Context, presignedURL string, content io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, presignedURL, content)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload failed: storage returned %d", resp.StatusCode)
	}
	return nil
}

// AttachmentURL resolves a storage key to a time-limited download URL.
func (c *Client) AttachmentURL(ctx context.Context, key string) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	path := "/api/attachments/url?key=" + url.QueryEscape(key)
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}
