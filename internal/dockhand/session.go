package dockhand

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/giantswarm/mcp-dockhand/internal/logging"
)

const (
	loginPath = "/api/auth/login"

	// loginKey is the singleflight key; there is only one session per client.
	loginKey = "login"
)

// session is the authentication state returned by a successful login.
// A nil *session means no authentication is attached.
type session struct {
	cookies []*http.Cookie
	token   string
	created time.Time
}

func (s *session) apply(req *http.Request) {
	if s == nil {
		return
	}
	for _, cookie := range s.cookies {
		req.AddCookie(cookie)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
}

// Authenticated reports whether a session is currently cached.
func (c *Client) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current != nil
}

// ensureSession returns the cached session, logging in first if needed.
// It returns nil without error when no credentials are configured.
func (c *Client) ensureSession(ctx context.Context) (*session, error) {
	if !c.cfg.HasCredentials() {
		return nil, nil
	}

	c.mu.RLock()
	sess := c.current
	c.mu.RUnlock()
	if sess != nil {
		return sess, nil
	}

	return c.refreshSession(ctx, nil)
}

// refreshSession replaces stale with a fresh session. If another caller has
// already installed a newer session it is returned without logging in again.
func (c *Client) refreshSession(ctx context.Context, stale *session) (*session, error) {
	c.mu.Lock()
	if c.current != nil && c.current != stale {
		sess := c.current
		c.mu.Unlock()
		return sess, nil
	}
	c.current = nil
	c.mu.Unlock()

	// The login is shared by every waiter, so it must not be cancelled by
	// whichever caller happened to start it.
	result := c.loginGroup.DoChan(loginKey, func() (any, error) {
		loginCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.Timeout)
		defer cancel()

		sess, err := c.login(loginCtx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.current = sess
		c.mu.Unlock()
		return sess, nil
	})

	select {
	case <-ctx.Done():
		return nil, &TransportError{Op: "login", URL: c.cfg.URL + loginPath, Err: ctx.Err()}
	case res := <-result:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*session), nil
	}
}

// invalidate drops sess if it is still the cached session.
func (c *Client) invalidate(sess *session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == sess {
		c.current = nil
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (c *Client) login(ctx context.Context) (*session, error) {
	target := c.cfg.URL + loginPath

	payload, err := json.Marshal(loginRequest{Username: c.cfg.Username, Password: c.cfg.Password})
	if err != nil {
		return nil, &AuthenticationError{Reason: "encode login request: " + err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Op: "login", URL: target, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordRequest(ctx, http.MethodPost, loginPath, 0, time.Since(start))
		c.recordLogin(ctx, LoginResultError)
		c.logger.Error("Dockhand login failed",
			logging.Host(c.cfg.URL), logging.SanitizedErr(err))
		return nil, &TransportError{Op: "login", URL: target, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.recordRequest(ctx, http.MethodPost, loginPath, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.recordLogin(ctx, LoginResultRejected)
		c.logger.Warn("Dockhand rejected login",
			logging.Host(c.cfg.URL), logging.UserHash(c.cfg.Username),
			logging.StatusCode(resp.StatusCode))
		reason := strings.TrimSpace(string(body))
		if reason == "" {
			reason = "login rejected"
		}
		return nil, &AuthenticationError{StatusCode: resp.StatusCode, Reason: reason}
	}

	sess := &session{
		cookies: resp.Cookies(),
		created: time.Now(),
	}
	var parsed loginResponse
	if json.Unmarshal(body, &parsed) == nil {
		sess.token = parsed.Token
	}

	c.recordLogin(ctx, LoginResultSuccess)
	c.logger.Info("Logged in to Dockhand",
		logging.Host(c.cfg.URL), logging.UserHash(c.cfg.Username),
		"cookies", len(sess.cookies), "token", logging.SanitizeToken(sess.token))

	return sess, nil
}

// SessionAge returns how long the cached session has existed, or zero when
// no session is cached.
func (c *Client) SessionAge() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return 0
	}
	return time.Since(c.current.created)
}
