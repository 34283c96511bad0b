package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aaleksaaleksic/food-ordering-system/internal/client/session"
)

func setupCLI(t *testing.T, handler http.Handler) (*App, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	out := &bytes.Buffer{}
	return newApp(srv.URL, session.NewMemStore(), out), out
}

func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetOut(app.Out)
	root.SetErr(app.Out)
	return "", root.Execute()
}

func authServerMux(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	setupAuth(t, mux, []string{"CAN_SEARCH_ORDER"})
	return mux
}

// setupAuth registers login and identity endpoints granting the given
// permission tags.
func setupAuth(t *testing.T, mux *http.ServeMux, permissions []string) {
	t.Helper()
	mux.HandleFunc("/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		if req.Password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"invalid credentials"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"session-token","expiresAt":"2026-08-29T18:00:00Z"}`))
	})
	mux.HandleFunc("/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer session-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"invalid token"}}`))
			return
		}
		identity := map[string]any{
			"id":          7,
			"email":       "ana@example.com",
			"fullName":    "Ana P",
			"permissions": permissions,
		}
		require.NoError(t, json.NewEncoder(w).Encode(identity))
	})
}

func TestLogin_WithPasswordFlag(t *testing.T) {
	app, out := setupCLI(t, authServerMux(t))

	_, err := run(t, app, "login", "ana@example.com", "--password", "hunter2")
	require.NoError(t, err)
	require.Contains(t, out.String(), "Logged in as Ana P <ana@example.com>")

	token, ok := app.Tokens.Token()
	require.True(t, ok)
	require.Equal(t, "session-token", token)
}

func TestLogin_PromptsWhenFlagOmitted(t *testing.T) {
	app, out := setupCLI(t, authServerMux(t))

	orig := readPassword
	readPassword = func() ([]byte, error) { return []byte("hunter2"), nil }
	t.Cleanup(func() { readPassword = orig })

	_, err := run(t, app, "login", "ana@example.com")
	require.NoError(t, err)
	require.Contains(t, out.String(), "Password: ")
	require.Contains(t, out.String(), "Logged in as Ana P")
}

func TestLogin_BadPasswordLeavesNoSession(t *testing.T) {
	app, _ := setupCLI(t, authServerMux(t))

	_, err := run(t, app, "login", "ana@example.com", "--password", "wrong")
	require.Error(t, err)

	_, ok := app.Tokens.Token()
	require.False(t, ok)
}

func TestWhoami_AfterLoginAndLogout(t *testing.T) {
	app, out := setupCLI(t, authServerMux(t))

	_, err := run(t, app, "login", "ana@example.com", "--password", "hunter2")
	require.NoError(t, err)

	out.Reset()
	_, err = run(t, app, "whoami")
	require.NoError(t, err)
	require.Contains(t, out.String(), "Ana P <ana@example.com> (id 7)")
	require.Contains(t, out.String(), "CAN_SEARCH_ORDER")

	_, err = run(t, app, "logout")
	require.NoError(t, err)

	_, err = run(t, app, "whoami")
	require.Error(t, err)
}

func TestLogout_WithoutSessionIsIdempotent(t *testing.T) {
	app, out := setupCLI(t, authServerMux(t))

	_, err := run(t, app, "logout")
	require.NoError(t, err)
	require.Contains(t, out.String(), "Logged out")
}

func TestGuardedCommand_RequiresSession(t *testing.T) {
	app, _ := setupCLI(t, authServerMux(t))

	_, err := run(t, app, "users", "list")
	require.Error(t, err)
	require.Contains(t, err.Error(), "/auth/login")
}

func TestGuardedCommand_RequiresPermission(t *testing.T) {
	mux := authServerMux(t)
	app, out := setupCLI(t, mux)

	_, err := run(t, app, "login", "ana@example.com", "--password", "hunter2")
	require.NoError(t, err)

	// the identity only grants CAN_SEARCH_ORDER
	out.Reset()
	_, err = run(t, app, "users", "list")
	require.Error(t, err)
	require.Contains(t, out.String(), "You do not have permission to view this page.")
}

func TestErrorsCleanup_RequiresDeletePermission(t *testing.T) {
	app, out := setupCLI(t, authServerMux(t))

	_, err := run(t, app, "login", "ana@example.com", "--password", "hunter2")
	require.NoError(t, err)

	out.Reset()
	_, err = run(t, app, "errors", "cleanup", "--older-than", "2026-08-22T00:00:00Z")
	require.Error(t, err)
	require.Contains(t, out.String(), "You do not have permission to view this page.")
}

func TestErrorsOperation_ListsRecords(t *testing.T) {
	mux := http.NewServeMux()
	setupAuth(t, mux, []string{"CAN_READ_USERS"})
	mux.HandleFunc("/v1/errors/operation/PLACE_ORDER", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"operation":"PLACE_ORDER",` +
			`"message":"Maximum number of simultaneous orders (3) exceeded",` +
			`"timestamp":"2026-08-29T11:00:00Z","user":{"id":7,"email":"ana@example.com"}}]`))
	})
	app, out := setupCLI(t, mux)

	_, err := run(t, app, "login", "ana@example.com", "--password", "hunter2")
	require.NoError(t, err)

	out.Reset()
	_, err = run(t, app, "errors", "operation", "PLACE_ORDER")
	require.NoError(t, err)
	require.Contains(t, out.String(), "PLACE_ORDER")
	require.Contains(t, out.String(), "Maximum number of simultaneous orders (3) exceeded")
	require.Contains(t, out.String(), "1 total")
}
