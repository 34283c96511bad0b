// Package guard decides whether a view renders, redirects, or falls back,
// given the session and permission state. It is a UX convenience layered in
// front of the server's own authorization, and it always fails closed.
package guard

import (
	"context"
	"errors"
	"net/url"

	"github.com/aaleksaaleksic/food-ordering-system/internal/client/identity"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/notify"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/permissions"
	"github.com/aaleksaaleksic/food-ordering-system/internal/domain"
)

// Default navigation targets.
const (
	DefaultLoginPath = "/auth/login"
	DefaultHomePath  = "/users"
)

// AllowMode declares who may see a view.
type AllowMode int

const (
	// AllowAuthed requires a valid identity. The zero value: views are
	// protected unless they opt out.
	AllowAuthed AllowMode = iota
	// AllowGuest admits only logged-out visitors.
	AllowGuest
	// AllowBoth admits everyone.
	AllowBoth
)

// PermMode selects how a policy's permission list is evaluated.
type PermMode int

const (
	// PermAll requires every listed permission. The zero value.
	PermAll PermMode = iota
	// PermAny requires at least one.
	PermAny
)

// DecisionKind is the outcome of an evaluation.
type DecisionKind int

const (
	// Loading: a token exists but the identity fetch is still in flight.
	Loading DecisionKind = iota
	// Render the guarded view.
	Render
	// Redirect to Decision.Target.
	Redirect
	// Fallback: render the configured denial view in place.
	Fallback
)

// Decision is transient: recomputed on every evaluation, never cached.
type Decision struct {
	Kind   DecisionKind
	Target string
}

// Policy declares a view's requirements.
type Policy struct {
	Allow       AllowMode
	Permissions []domain.Permission
	Mode        PermMode

	// RedirectIfAuthed overrides where a logged-in visitor to a guest-only
	// view is sent. Empty keeps the home route.
	RedirectIfAuthed string
	// RedirectIfUnauthed overrides where a logged-out visitor is sent.
	// Empty keeps the login route.
	RedirectIfUnauthed string
	// FallbackIfUnauthed renders the fallback instead of navigating away.
	FallbackIfUnauthed bool
	// RedirectIfDenied overrides where a permission failure is sent. Empty
	// keeps the home route.
	RedirectIfDenied string
	// FallbackIfDenied renders the fallback on permission failure instead
	// of redirecting.
	FallbackIfDenied bool
	// NotifyOnDenied emits an "insufficient permission" notification on
	// permission failure.
	NotifyOnDenied bool
}

// Evaluator gates views against the identity cache.
type Evaluator struct {
	identity *identity.Query
	relay    notify.Relay

	loginPath string
	homePath  string
}

// NewEvaluator builds a guard over the identity query. A nil relay discards
// denial notifications.
func NewEvaluator(q *identity.Query, relay notify.Relay) *Evaluator {
	if relay == nil {
		relay = notify.Discard
	}
	return &Evaluator{
		identity:  q,
		relay:     relay,
		loginPath: DefaultLoginPath,
		homePath:  DefaultHomePath,
	}
}

// Evaluate runs the guard rules top to bottom for a view at the given path.
// First matching rule wins. An identity fetch failure of any kind is treated
// as "no identity": the guard never fails open.
func (e *Evaluator) Evaluate(ctx context.Context, path string, p Policy) Decision {
	ident, err := e.identity.Get(ctx)
	if errors.Is(err, identity.ErrLoading) {
		return Decision{Kind: Loading}
	}
	authed := err == nil && ident != nil

	if p.Allow == AllowGuest || p.Allow == AllowBoth {
		if !authed {
			return Decision{Kind: Render}
		}
		if p.Allow == AllowGuest {
			return Decision{Kind: Redirect, Target: firstNonEmpty(p.RedirectIfAuthed, e.homePath)}
		}
	}

	if !authed {
		if p.FallbackIfUnauthed {
			return Decision{Kind: Fallback}
		}
		target := firstNonEmpty(p.RedirectIfUnauthed, e.loginPath)
		return Decision{Kind: Redirect, Target: target + "?next=" + url.QueryEscape(path)}
	}

	if len(p.Permissions) > 0 && !e.allowed(ident.Permissions, p) {
		if p.NotifyOnDenied {
			e.relay.Notify(notify.CategoryForbidden, "You do not have permission to view this page.")
		}
		if p.FallbackIfDenied {
			return Decision{Kind: Fallback}
		}
		return Decision{Kind: Redirect, Target: firstNonEmpty(p.RedirectIfDenied, e.homePath)}
	}

	return Decision{Kind: Render}
}

func (e *Evaluator) allowed(raw []string, p Policy) bool {
	set, err := permissions.NewSet(raw)
	if err != nil {
		// unparseable grants deny rather than admit
		return false
	}
	if p.Mode == PermAny {
		return set.CanAny(p.Permissions...)
	}
	return set.CanAll(p.Permissions...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
