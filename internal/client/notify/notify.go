// Package notify turns request failures into categorized, user-facing
// messages. Mutation failures are always routed here; they never escape as
// panics or crash the caller.
package notify

import (
	"strings"

	"github.com/aaleksaaleksic/food-ordering-system/internal/client/httpx"
)

// Category classifies a surfaced failure.
type Category string

const (
	CategoryAuth       Category = "auth"
	CategoryForbidden  Category = "forbidden"
	CategoryConflict   Category = "conflict"
	CategoryOrderLimit Category = "order-limit"
	CategorySchedule   Category = "schedule"
	CategoryNotFound   Category = "not-found"
	CategoryServer     Category = "server"
	CategoryNetwork    Category = "network"
	CategoryGeneric    Category = "generic"
)

// Relay receives categorized notifications. The CLI renders them to the
// terminal; tests capture them.
type Relay interface {
	Notify(category Category, message string)
}

// RelayFunc adapts a function to the Relay interface.
type RelayFunc func(category Category, message string)

func (f RelayFunc) Notify(category Category, message string) { f(category, message) }

// Discard drops all notifications.
var Discard Relay = RelayFunc(func(Category, string) {})

// Categorize maps an error to a category and a user-facing message. Domain
// rules are recognized by error code or known message substrings; anything
// unrecognized falls through to the server's own message text.
func Categorize(err error) (Category, string) {
	apiErr, ok := httpx.AsAPIError(err)
	if !ok {
		return CategoryNetwork, "Could not reach the server. Try again later."
	}

	switch apiErr.Code {
	case "ORDER_LIMIT":
		return CategoryOrderLimit, apiErr.Message
	case "SCHEDULE_ERROR":
		return CategorySchedule, apiErr.Message
	}

	switch {
	case apiErr.Status == 401:
		return CategoryAuth, "Please log in again."
	case apiErr.Status == 403:
		return CategoryForbidden, "You do not have permission to do that."
	case apiErr.Status == 404:
		return CategoryNotFound, apiErr.Message
	case apiErr.Status == 409:
		if strings.Contains(strings.ToLower(apiErr.Message), "email") {
			return CategoryConflict, "That email address is already in use."
		}
		return CategoryConflict, apiErr.Message
	case strings.Contains(apiErr.Message, "Maximum number of simultaneous orders"):
		return CategoryOrderLimit, apiErr.Message
	case strings.Contains(apiErr.Message, "Cannot schedule order in the past"):
		return CategorySchedule, apiErr.Message
	case apiErr.Status >= 500:
		return CategoryServer, "Something went wrong on the server. Try again later."
	}
	return CategoryGeneric, apiErr.Message
}

// Report categorizes err and sends it to the relay.
func Report(relay Relay, err error) {
	if err == nil || relay == nil {
		return
	}
	category, message := Categorize(err)
	relay.Notify(category, message)
}
