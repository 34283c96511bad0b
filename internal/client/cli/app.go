// Package cli is the terminal frontend over the client core: session,
// identity, guard, and the resource layer.
package cli

import (
	"fmt"
	"io"

	"github.com/aaleksaaleksic/food-ordering-system/internal/client/guard"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/httpx"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/identity"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/notify"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/query"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/resources"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/session"
)

// App bundles the wired client stack for the commands.
type App struct {
	Tokens   session.TokenStore
	Client   *httpx.Client
	Cache    *query.Cache
	Identity *identity.Query
	Guard    *guard.Evaluator
	Auth     *resources.Auth
	Orders   *resources.Orders
	Users    *resources.Users
	Dishes   *resources.Dishes
	Errors   *resources.Errors

	Out io.Writer
}

// NewApp wires the client stack against a server, persisting the session
// token at tokenPath. Notifications print to out.
func NewApp(serverURL, tokenPath string, out io.Writer) *App {
	tokens := session.NewFileStore(tokenPath)
	return newApp(serverURL, tokens, out)
}

func newApp(serverURL string, tokens session.TokenStore, out io.Writer) *App {
	relay := notify.RelayFunc(func(category notify.Category, message string) {
		fmt.Fprintf(out, "[%s] %s\n", category, message)
	})

	client := httpx.New(serverURL, tokens)
	cache := query.NewCache()
	identityQuery := identity.NewQuery(client, tokens)

	return &App{
		Tokens:   tokens,
		Client:   client,
		Cache:    cache,
		Identity: identityQuery,
		Guard:    guard.NewEvaluator(identityQuery, relay),
		Auth:     resources.NewAuth(client, tokens, identityQuery, relay),
		Orders:   resources.NewOrders(client, cache, relay),
		Users:    resources.NewUsers(client, cache, relay),
		Dishes:   resources.NewDishes(client, cache),
		Errors:   resources.NewErrors(client, cache),
		Out:      out,
	}
}
