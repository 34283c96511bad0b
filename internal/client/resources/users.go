package resources

import (
	"context"
	"fmt"

	"github.com/aaleksaaleksic/food-ordering-system/internal/client/httpx"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/model"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/notify"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/query"
)

const resourceUsers = "users"

// UserInput carries the fields for creating or updating a user. Password is
// ignored on update when empty.
type UserInput struct {
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Permissions []string `json:"permissions"`
}

// Users is the user administration resource client.
type Users struct {
	client *httpx.Client
	cache  *query.Cache
	relay  notify.Relay
}

// NewUsers builds the resource over a transport, cache, and relay.
func NewUsers(client *httpx.Client, cache *query.Cache, relay notify.Relay) *Users {
	if relay == nil {
		relay = notify.Discard
	}
	return &Users{client: client, cache: cache, relay: relay}
}

func (u *Users) listKey() query.Key {
	return query.Key{Resource: resourceUsers}
}

// List returns every user, served through the cache.
func (u *Users) List(ctx context.Context) ([]model.User, error) {
	value, err := u.cache.ReadThrough(ctx, u.listKey(), func(ctx context.Context) (any, error) {
		var users []model.User
		if err := u.client.Get(ctx, "/v1/users", nil, &users); err != nil {
			return nil, err
		}
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]model.User), nil
}

// Get returns one user.
func (u *Users) Get(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := u.client.Get(ctx, fmt.Sprintf("/v1/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create stores a new user and invalidates the cached listing.
func (u *Users) Create(ctx context.Context, input UserInput) (*model.User, error) {
	var user model.User
	if err := u.client.Post(ctx, "/v1/users", input, &user); err != nil {
		notify.Report(u.relay, err)
		return nil, err
	}
	u.cache.Invalidate(resourceUsers)
	return &user, nil
}

// Update changes an existing user and invalidates the cached listing.
func (u *Users) Update(ctx context.Context, id int64, input UserInput) (*model.User, error) {
	var user model.User
	if err := u.client.Put(ctx, fmt.Sprintf("/v1/users/%d", id), input, &user); err != nil {
		notify.Report(u.relay, err)
		return nil, err
	}
	u.cache.Invalidate(resourceUsers)
	return &user, nil
}

// Delete removes a user optimistically: the record disappears from the
// cached listing before the server confirms, and the exact previous listing
// is restored verbatim when the request fails. The sequence is fixed:
// cancel any in-flight listing fetch, snapshot, patch, request, restore on
// error, and invalidate regardless of outcome so the next read reconciles
// with server truth.
func (u *Users) Delete(ctx context.Context, id int64) error {
	key := u.listKey()

	u.cache.CancelInFlight(key)

	snapshot, hadSnapshot := u.cache.Snapshot(key)
	if hadSnapshot {
		users := snapshot.([]model.User)
		patched := make([]model.User, 0, len(users))
		for _, user := range users {
			if user.ID != id {
				patched = append(patched, user)
			}
		}
		u.cache.Patch(key, patched)
	}

	err := u.client.Delete(ctx, fmt.Sprintf("/v1/users/%d", id))
	if err != nil && hadSnapshot {
		u.cache.Restore(key, snapshot)
	}
	if err != nil {
		notify.Report(u.relay, err)
	}

	u.cache.Invalidate(resourceUsers)
	return err
}
