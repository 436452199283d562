// internal/profile/client.go
// Description: Fetches the user profile from the companion web app. Concurrent
// fetches for the same account collapse into one request; the orchestrator
// layers its own cache on top.
package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/xkilldash9x/formpilot-cli/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNoProfile is returned when the backend has no profile for the caller,
// either because none was created or the token is not accepted.
var ErrNoProfile = errors.New("profile: no profile available")

// Client talks to the profile API. Implements schemas.ProfileService.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
	group   singleflight.Group
}

var _ schemas.ProfileService = (*Client)(nil)

// NewClient creates a profile client. An empty token sends unauthenticated
// requests, which the backend answers with 401.
func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger.Named("profile"),
	}
}

// Fetch retrieves the profile. Simultaneous callers share one in-flight
// request via singleflight.
func (c *Client) Fetch(ctx context.Context) (*schemas.UserProfile, error) {
	v, err, shared := c.group.Do("profile", func() (any, error) {
		return c.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("profile fetch deduplicated")
	}
	return v.(*schemas.UserProfile), nil
}

func (c *Client) fetch(ctx context.Context) (*schemas.UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/profile", nil)
	if err != nil {
		return nil, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Fall through to decode.
	case http.StatusNotFound, http.StatusUnauthorized:
		return nil, ErrNoProfile
	default:
		return nil, fmt.Errorf("fetch profile: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read profile body: %w", err)
	}
	var p schemas.UserProfile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	c.logger.Debug("profile fetched",
		zap.String("email", p.Personal.Email))
	return &p, nil
}
