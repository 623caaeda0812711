package auth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Providers lists the OAuth providers the project has enabled.
var Providers = []string{"google", "github"}

// ValidProvider reports whether p is a supported OAuth provider.
func ValidProvider(p string) bool {
	for _, v := range Providers {
		if v == p {
			return true
		}
	}
	return false
}

// pkce is a verifier and its S256 challenge.
type pkce struct {
	Verifier  string
	Challenge string
}

func newPKCE() pkce {
	v := oauth2.GenerateVerifier()
	return pkce{Verifier: v, Challenge: oauth2.S256ChallengeFromVerifier(v)}
}

type callbackResult struct {
	code string
	err  error
}

// CallbackServer receives the OAuth redirect on a loopback address.
type CallbackServer struct {
	srv   *http.Server
	ln    net.Listener
	state string

	once   sync.Once
	result chan callbackResult
}

// StartCallbackServer listens on 127.0.0.1:port (a random port when 0) and
// serves /callback until closed.
func StartCallbackServer(port int) (*CallbackServer, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("listen for oauth callback: %w", err)
	}

	cs := &CallbackServer{
		ln:     ln,
		state:  uuid.NewString(),
		result: make(chan callbackResult, 1),
	}

	r := chi.NewRouter()
	r.Get("/callback", cs.handleCallback)
	cs.srv = &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := cs.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cs.deliver(callbackResult{err: fmt.Errorf("callback server: %w", err)})
		}
	}()
	return cs, nil
}

// RedirectURL is the redirect_to value for the authorize request. It
// carries a random state that the callback must echo back.
func (cs *CallbackServer) RedirectURL() string {
	return fmt.Sprintf("http://%s/callback?state=%s", cs.ln.Addr().String(), cs.state)
}

func (cs *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var res callbackResult
	switch {
	case q.Get("state") != cs.state:
		res.err = errors.New("oauth callback: state mismatch")
	case q.Get("error") != "":
		desc := q.Get("error_description")
		if desc == "" {
			desc = q.Get("error")
		}
		res.err = fmt.Errorf("oauth: %s", desc)
	case q.Get("code") == "":
		res.err = errors.New("oauth callback: missing code")
	default:
		res.code = q.Get("code")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if res.err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "<p>Sign-in failed: %s</p><p>You can close this tab.</p>", html.EscapeString(res.err.Error()))
	} else {
		fmt.Fprint(w, "<p>Signed in to StudySensei. You can close this tab and return to the terminal.</p>")
	}
	cs.deliver(res)
}

func (cs *CallbackServer) deliver(res callbackResult) {
	cs.once.Do(func() { cs.result <- res })
}

// Wait blocks until the browser is redirected back or ctx is done.
func (cs *CallbackServer) Wait(ctx context.Context) (string, error) {
	select {
	case res := <-cs.result:
		return res.code, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close shuts the server down.
func (cs *CallbackServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return cs.srv.Shutdown(ctx)
}
