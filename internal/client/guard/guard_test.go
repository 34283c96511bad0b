package guard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aaleksaaleksic/food-ordering-system/internal/client/httpx"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/identity"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/notify"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/session"
	"github.com/aaleksaaleksic/food-ordering-system/internal/domain"
)

type captureRelay struct {
	category notify.Category
	message  string
	count    int
}

func (c *captureRelay) Notify(category notify.Category, message string) {
	c.category = category
	c.message = message
	c.count++
}

func setupEvaluator(t *testing.T, token string, permissions []string) (*Evaluator, *captureRelay) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		body := `{"id":7,"email":"x@y.z","permissions":[`
		for i, p := range permissions {
			if i > 0 {
				body += ","
			}
			body += `"` + p + `"`
		}
		body += `]}`
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	tokens := session.NewMemStore()
	if token != "" {
		require.NoError(t, tokens.SetToken(token))
	}
	relay := &captureRelay{}
	q := identity.NewQuery(httpx.New(srv.URL, tokens), tokens)
	return NewEvaluator(q, relay), relay
}

func TestEvaluate_UnauthedProtectedView_RedirectsToLoginWithNext(t *testing.T) {
	e, _ := setupEvaluator(t, "", nil)

	d := e.Evaluate(context.Background(), "/users/42?tab=perms", Policy{})
	require.Equal(t, Redirect, d.Kind)
	require.Equal(t, "/auth/login?next=%2Fusers%2F42%3Ftab%3Dperms", d.Target)
}

func TestEvaluate_UnauthedWithFallback_RendersFallbackInPlace(t *testing.T) {
	e, _ := setupEvaluator(t, "", nil)

	d := e.Evaluate(context.Background(), "/orders", Policy{FallbackIfUnauthed: true})
	require.Equal(t, Fallback, d.Kind)
	require.Empty(t, d.Target)
}

func TestEvaluate_GuestOnlyView(t *testing.T) {
	unauthed, _ := setupEvaluator(t, "", nil)
	d := unauthed.Evaluate(context.Background(), "/auth/login", Policy{Allow: AllowGuest})
	require.Equal(t, Render, d.Kind)

	authed, _ := setupEvaluator(t, "tok", nil)
	d = authed.Evaluate(context.Background(), "/auth/login", Policy{Allow: AllowGuest})
	require.Equal(t, Redirect, d.Kind)
	require.Equal(t, DefaultHomePath, d.Target)
}

func TestEvaluate_AllowBoth_RendersEitherWay(t *testing.T) {
	for _, token := range []string{"", "tok"} {
		e, _ := setupEvaluator(t, token, nil)
		d := e.Evaluate(context.Background(), "/", Policy{Allow: AllowBoth})
		require.Equal(t, Render, d.Kind)
	}
}

func TestEvaluate_PermissionDenied_RedirectsHomeAndNotifies(t *testing.T) {
	e, relay := setupEvaluator(t, "tok", []string{"CAN_READ_USERS"})

	d := e.Evaluate(context.Background(), "/users/new", Policy{
		Permissions:    []domain.Permission{domain.PermCreateUsers},
		NotifyOnDenied: true,
	})
	require.Equal(t, Redirect, d.Kind)
	require.Equal(t, DefaultHomePath, d.Target)
	require.Equal(t, 1, relay.count)
	require.Equal(t, notify.CategoryForbidden, relay.category)
	require.Equal(t, "You do not have permission to view this page.", relay.message)
}

func TestEvaluate_PermissionDenied_FallbackWinsOverRedirect(t *testing.T) {
	e, relay := setupEvaluator(t, "tok", nil)

	d := e.Evaluate(context.Background(), "/users/new", Policy{
		Permissions:      []domain.Permission{domain.PermCreateUsers},
		FallbackIfDenied: true,
	})
	require.Equal(t, Fallback, d.Kind)
	require.Zero(t, relay.count)
}

func TestEvaluate_PermissionAnyMode(t *testing.T) {
	e, _ := setupEvaluator(t, "tok", []string{"CAN_TRACK_ORDER"})

	d := e.Evaluate(context.Background(), "/orders", Policy{
		Permissions: []domain.Permission{domain.PermSearchOrder, domain.PermTrackOrder},
		Mode:        PermAny,
	})
	require.Equal(t, Render, d.Kind)
}

func TestEvaluate_AllPermissionsPresent_Renders(t *testing.T) {
	e, _ := setupEvaluator(t, "tok", []string{"CAN_READ_USERS", "CAN_UPDATE_USERS"})

	d := e.Evaluate(context.Background(), "/users/7/edit", Policy{
		Permissions: []domain.Permission{domain.PermReadUsers, domain.PermUpdateUsers},
	})
	require.Equal(t, Render, d.Kind)
}

func TestEvaluate_UnknownGrantDenies(t *testing.T) {
	e, _ := setupEvaluator(t, "tok", []string{"CAN_READ_USERS", "CAN_FLY"})

	d := e.Evaluate(context.Background(), "/users", Policy{
		Permissions: []domain.Permission{domain.PermReadUsers},
	})
	require.Equal(t, Redirect, d.Kind)
}

func TestEvaluate_IdentityFetchFailure_TreatedAsUnauthed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	tokens := session.NewMemStore()
	require.NoError(t, tokens.SetToken("tok"))
	e := NewEvaluator(identity.NewQuery(httpx.New(srv.URL, tokens), tokens), nil)

	d := e.Evaluate(context.Background(), "/users", Policy{})
	require.Equal(t, Redirect, d.Kind)
	require.Equal(t, "/auth/login?next=%2Fusers", d.Target)
}

func TestEvaluate_CustomRedirectTargets(t *testing.T) {
	e, _ := setupEvaluator(t, "", nil)
	d := e.Evaluate(context.Background(), "/reports", Policy{RedirectIfUnauthed: "/welcome"})
	require.Equal(t, Redirect, d.Kind)
	require.Equal(t, "/welcome?next=%2Freports", d.Target)

	authed, _ := setupEvaluator(t, "tok", nil)
	d = authed.Evaluate(context.Background(), "/reports", Policy{
		Permissions:      []domain.Permission{domain.PermReadUsers},
		RedirectIfDenied: "/denied",
	})
	require.Equal(t, Redirect, d.Kind)
	require.Equal(t, "/denied", d.Target)
}
