package supabase

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// User is a GoTrue user.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// FullName returns the full_name metadata set at sign-up, if any.
func (u User) FullName() string {
	if s, ok := u.UserMetadata["full_name"].(string); ok {
		return s
	}
	return ""
}

// Session is a GoTrue token grant.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         User   `json:"user"`
}

// Expiry returns when the access token expires.
func (s Session) Expiry() time.Time {
	if s.ExpiresAt > 0 {
		return time.Unix(s.ExpiresAt, 0)
	}
	return time.Now().Add(time.Duration(s.ExpiresIn) * time.Second)
}

// SignUpResult is the outcome of a sign-up. Session is nil when the project
// requires email confirmation.
type SignUpResult struct {
	Session *Session
	User    User
}

// SignInWithPassword exchanges email and password for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/v1/token?grant_type=password",
		body:   map[string]string{"email": email, "password": password},
	}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SignUp registers a new user. data is stored as user metadata.
func (c *Client) SignUp(ctx context.Context, email, password string, data map[string]any) (*SignUpResult, error) {
	body := map[string]any{"email": email, "password": password}
	if len(data) > 0 {
		body["data"] = data
	}

	// GoTrue returns a session when auto-confirm is on, or the bare user
	// otherwise. Decode both shapes from the same body.
	var raw struct {
		Session
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/v1/signup", body: body}, &raw); err != nil {
		return nil, err
	}

	if raw.AccessToken != "" {
		s := raw.Session
		return &SignUpResult{Session: &s, User: s.User}, nil
	}
	return &SignUpResult{User: User{ID: raw.ID, Email: raw.Email}}, nil
}

// RefreshSession trades a refresh token for a new session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	var s Session
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/v1/token?grant_type=refresh_token",
		body:   map[string]string{"refresh_token": refreshToken},
	}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ExchangeCode completes a PKCE OAuth flow.
func (c *Client) ExchangeCode(ctx context.Context, authCode, codeVerifier string) (*Session, error) {
	var s Session
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/v1/token?grant_type=pkce",
		body:   map[string]string{"auth_code": authCode, "code_verifier": codeVerifier},
	}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SignOut revokes the session behind accessToken.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/auth/v1/logout", token: accessToken}, nil)
}

// GetUser returns the user behind accessToken.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var u User
	if err := c.do(ctx, call{method: http.MethodGet, path: "/auth/v1/user", token: accessToken}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// AuthorizeURL builds the URL that starts an OAuth sign-in with provider.
// The browser comes back to redirectTo with a ?code= for ExchangeCode.
func (c *Client) AuthorizeURL(provider, redirectTo, codeChallenge string) string {
	q := url.Values{
		"provider":              {provider},
		"redirect_to":           {redirectTo},
		"code_challenge":        {codeChallenge},
		"code_challenge_method": {"s256"},
	}
	return c.baseURL + "/auth/v1/authorize?" + q.Encode()
}
