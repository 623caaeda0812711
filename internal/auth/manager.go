// Package auth owns the signed-in session: password and OAuth sign-in,
// sign-up, sign-out, and keeping the access token fresh.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/store"
	"github.com/abhisek/sensei/internal/supabase"
)

// Session is the signed-in user as the rest of the client sees it.
type Session struct {
	AccessToken string
	UserID      string
	Email       string
	FullName    string
	ExpiresAt   time.Time
}

// Gateway is the subset of the Supabase client the manager needs.
type Gateway interface {
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error)
	SignUp(ctx context.Context, email, password string, data map[string]any) (*supabase.SignUpResult, error)
	RefreshSession(ctx context.Context, refreshToken string) (*supabase.Session, error)
	ExchangeCode(ctx context.Context, authCode, codeVerifier string) (*supabase.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	AuthorizeURL(provider, redirectTo, codeChallenge string) string
}

// Manager persists the session in the local store and refreshes it on use.
type Manager struct {
	gw       Gateway
	sessions store.SessionRepo
	logger   *zap.Logger
	now      func() time.Time

	// refreshes collapses concurrent refreshes of the stored session into one.
	refreshes singleflight.Group

	// CallbackPort is the loopback port for OAuth redirects (0 = random).
	CallbackPort int
}

// NewManager creates a Manager.
func NewManager(gw Gateway, sessions store.SessionRepo, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{gw: gw, sessions: sessions, logger: logger, now: time.Now}
}

// SignIn authenticates with email and password.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*Session, error) {
	s, err := m.gw.SignInWithPassword(ctx, strings.TrimSpace(email), password)
	if err != nil {
		m.logger.Info("sign in failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return m.persist(ctx, s)
}

// SignUpInput is the sign-up form.
type SignUpInput struct {
	Email    string
	Password string
	Confirm  string
	FullName string
}

// SignUp registers a new account. The returned session is nil when the
// project requires the user to confirm their email first.
func (m *Manager) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	if err := ValidateSignUp(in.Email, in.Password, in.Confirm); err != nil {
		return nil, err
	}

	var data map[string]any
	if name := strings.TrimSpace(in.FullName); name != "" {
		data = map[string]any{"full_name": name}
	}
	res, err := m.gw.SignUp(ctx, strings.TrimSpace(in.Email), in.Password, data)
	if err != nil {
		return nil, err
	}
	if res.Session == nil {
		return nil, nil
	}
	return m.persist(ctx, res.Session)
}

// SignInWithOAuth runs the PKCE flow for provider. open is called with the
// authorize URL and is expected to launch a browser.
func (m *Manager) SignInWithOAuth(ctx context.Context, provider string, open func(url string) error) (*Session, error) {
	if !ValidProvider(provider) {
		return nil, fmt.Errorf("unsupported provider %q", provider)
	}

	cs, err := StartCallbackServer(m.CallbackPort)
	if err != nil {
		return nil, err
	}
	defer cs.Close()

	p := newPKCE()
	authURL := m.gw.AuthorizeURL(provider, cs.RedirectURL(), p.Challenge)
	if err := open(authURL); err != nil {
		return nil, fmt.Errorf("open browser: %w", err)
	}

	code, err := cs.Wait(ctx)
	if err != nil {
		return nil, err
	}
	s, err := m.gw.ExchangeCode(ctx, code, p.Verifier)
	if err != nil {
		return nil, err
	}
	return m.persist(ctx, s)
}

// SignOut revokes the session remotely (best effort) and forgets it locally.
func (m *Manager) SignOut(ctx context.Context) error {
	rec, err := m.sessions.Load(ctx)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}
	if err := m.gw.SignOut(ctx, rec.AccessToken); err != nil {
		m.logger.Warn("remote sign out failed", zap.Error(err))
	}
	return m.sessions.Clear(ctx)
}

// Current returns the stored session, refreshing the access token when it
// is within a minute of expiry. Returns ErrNotSignedIn when there is no
// usable session. Concurrent callers share a single refresh.
func (m *Manager) Current(ctx context.Context) (*Session, error) {
	rec, err := m.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotSignedIn
	}
	if !m.expiring(rec) {
		return sessionFromRecord(rec), nil
	}

	v, err, _ := m.refreshes.Do("session", func() (any, error) {
		return m.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

func (m *Manager) expiring(rec *store.SessionRecord) bool {
	exp := rec.ExpiresAt
	if info, err := InspectToken(rec.AccessToken); err == nil && !info.ExpiresAt.IsZero() {
		exp = info.ExpiresAt
	}
	return needsRefresh(exp, m.now())
}

// refresh reloads the record first: a caller that read the old record may
// arrive after another refresh already stored a new one.
func (m *Manager) refresh(ctx context.Context) (*Session, error) {
	rec, err := m.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotSignedIn
	}
	if !m.expiring(rec) {
		return sessionFromRecord(rec), nil
	}

	if rec.RefreshToken == "" {
		_ = m.sessions.Clear(ctx)
		return nil, ErrNotSignedIn
	}
	s, err := m.gw.RefreshSession(ctx, rec.RefreshToken)
	if err != nil {
		var be *api.ErrBackend
		if errors.As(err, &be) {
			m.logger.Info("refresh rejected, clearing session", zap.Error(err))
			_ = m.sessions.Clear(ctx)
			return nil, fmt.Errorf("%w: %v", ErrNotSignedIn, err)
		}
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	m.logger.Debug("session refreshed", zap.String("user_id", rec.UserID))
	return m.persist(ctx, s)
}

// AccessToken returns a fresh access token. It satisfies
// supabase.TokenSource.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	s, err := m.Current(ctx)
	if err != nil {
		return "", err
	}
	return s.AccessToken, nil
}

func (m *Manager) persist(ctx context.Context, s *supabase.Session) (*Session, error) {
	rec := store.SessionRecord{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		UserID:       s.User.ID,
		Email:        s.User.Email,
		ExpiresAt:    s.Expiry(),
		UpdatedAt:    m.now(),
	}
	if info, err := InspectToken(s.AccessToken); err == nil {
		if rec.UserID == "" {
			rec.UserID = info.Subject
		}
		if rec.Email == "" {
			rec.Email = info.Email
		}
		if !info.ExpiresAt.IsZero() {
			rec.ExpiresAt = info.ExpiresAt
		}
	}
	if err := m.sessions.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	out := sessionFromRecord(&rec)
	out.FullName = s.User.FullName()
	return out, nil
}

func sessionFromRecord(rec *store.SessionRecord) *Session {
	return &Session{
		AccessToken: rec.AccessToken,
		UserID:      rec.UserID,
		Email:       rec.Email,
		ExpiresAt:   rec.ExpiresAt,
	}
}
