package resources

import (
	"context"

	"github.com/aaleksaaleksic/food-ordering-system/internal/client/httpx"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/identity"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/model"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/notify"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/session"
)

// Auth runs the session lifecycle: login stores the token and force-fetches
// the identity; logout clears both and is safe to repeat.
type Auth struct {
	client   *httpx.Client
	tokens   session.TokenStore
	identity *identity.Query
	relay    notify.Relay
}

// NewAuth builds the auth flow.
func NewAuth(client *httpx.Client, tokens session.TokenStore, query *identity.Query, relay notify.Relay) *Auth {
	if relay == nil {
		relay = notify.Discard
	}
	return &Auth{client: client, tokens: tokens, identity: query, relay: relay}
}

// Login exchanges credentials for a token, stores it, and refetches the
// identity so permission checks see the new session immediately.
func (a *Auth) Login(ctx context.Context, email, password string) (*model.Identity, error) {
	var resp struct {
		Token string `json:"token"`
	}
	err := a.client.Post(ctx, "/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		notify.Report(a.relay, err)
		return nil, err
	}
	if err := a.tokens.SetToken(resp.Token); err != nil {
		return nil, err
	}
	return a.identity.ForceRefresh(ctx)
}

// Logout clears the stored token and the cached identity. Logging out while
// already logged out is a no-op.
func (a *Auth) Logout() error {
	if err := a.tokens.Clear(); err != nil {
		return err
	}
	a.identity.Invalidate()
	return nil
}

// Whoami returns the cached or freshly fetched identity.
func (a *Auth) Whoami(ctx context.Context) (*model.Identity, error) {
	return a.identity.Get(ctx)
}
