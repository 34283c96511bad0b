// Package resources layers the domain operations over the transport and the
// shared cache: list and detail reads go through the cache, mutations
// invalidate it, and failures are routed to the notification relay.
package resources

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/aaleksaaleksic/food-ordering-system/internal/client/httpx"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/model"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/notify"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/query"
)

const resourceOrders = "orders"

// OrderFilter narrows an order search. Zero fields are omitted from the
// request entirely; the server's filtering is trusted as is.
type OrderFilter struct {
	Statuses []string
	DateFrom *time.Time
	DateTo   *time.Time
	// UserID narrows to another user's orders; honored by the server for
	// administrators only.
	UserID *int64
}

func (f OrderFilter) values() url.Values {
	v := url.Values{}
	for _, s := range f.Statuses {
		v.Add("status", s)
	}
	if f.DateFrom != nil {
		v.Set("dateFrom", f.DateFrom.Format(time.RFC3339))
	}
	if f.DateTo != nil {
		v.Set("dateTo", f.DateTo.Format(time.RFC3339))
	}
	if f.UserID != nil {
		v.Set("userId", fmt.Sprintf("%d", *f.UserID))
	}
	return v
}

// Orders is the order resource client.
type Orders struct {
	client *httpx.Client
	cache  *query.Cache
	relay  notify.Relay
}

// NewOrders builds the resource over a transport, cache, and relay.
func NewOrders(client *httpx.Client, cache *query.Cache, relay notify.Relay) *Orders {
	if relay == nil {
		relay = notify.Discard
	}
	return &Orders{client: client, cache: cache, relay: relay}
}

func (o *Orders) listKey(filter OrderFilter) query.Key {
	return query.Key{Resource: resourceOrders, Params: filter.values().Encode()}
}

func (o *Orders) detailKey(id int64) query.Key {
	return query.Key{Resource: resourceOrders, Params: fmt.Sprintf("id=%d", id)}
}

// Search returns orders matching the filter, served through the cache.
func (o *Orders) Search(ctx context.Context, filter OrderFilter) ([]model.Order, error) {
	value, err := o.cache.ReadThrough(ctx, o.listKey(filter), func(ctx context.Context) (any, error) {
		var orders []model.Order
		if err := o.client.Get(ctx, "/v1/orders", filter.values(), &orders); err != nil {
			return nil, err
		}
		return orders, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]model.Order), nil
}

// Track returns one order, served through the cache.
func (o *Orders) Track(ctx context.Context, id int64) (*model.Order, error) {
	value, err := o.cache.ReadThrough(ctx, o.detailKey(id), func(ctx context.Context) (any, error) {
		var order model.Order
		if err := o.client.Get(ctx, fmt.Sprintf("/v1/orders/%d", id), nil, &order); err != nil {
			return nil, err
		}
		return &order, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*model.Order), nil
}

// Place creates an immediate order. Every cached order collection is
// invalidated on success.
func (o *Orders) Place(ctx context.Context, items []model.OrderItemInput) (*model.Order, error) {
	var order model.Order
	err := o.client.Post(ctx, "/v1/orders", map[string]any{"items": items}, &order)
	if err != nil {
		notify.Report(o.relay, err)
		return nil, err
	}
	o.cache.Invalidate(resourceOrders)
	return &order, nil
}

// Schedule creates an order for a future time.
func (o *Orders) Schedule(ctx context.Context, items []model.OrderItemInput, scheduledFor time.Time) (*model.Order, error) {
	var order model.Order
	err := o.client.Post(ctx, "/v1/orders/schedule", map[string]any{
		"items":        items,
		"scheduledFor": scheduledFor,
	}, &order)
	if err != nil {
		notify.Report(o.relay, err)
		return nil, err
	}
	o.cache.Invalidate(resourceOrders)
	return &order, nil
}

// Cancel cancels an order still in its initial status.
func (o *Orders) Cancel(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	err := o.client.Post(ctx, fmt.Sprintf("/v1/orders/%d/cancel", id), nil, &order)
	if err != nil {
		notify.Report(o.relay, err)
		return nil, err
	}
	o.cache.Invalidate(resourceOrders)
	return &order, nil
}

// PollList returns a poller that keeps the filtered list live at the order
// list interval.
func (o *Orders) PollList(filter OrderFilter) *query.Poller {
	return query.NewPoller(o.cache, o.listKey(filter), query.OrdersListInterval, func(ctx context.Context) (any, error) {
		var orders []model.Order
		if err := o.client.Get(ctx, "/v1/orders", filter.values(), &orders); err != nil {
			return nil, err
		}
		return orders, nil
	})
}

// PollDetail returns a poller that keeps one order live at the detail
// interval.
func (o *Orders) PollDetail(id int64) *query.Poller {
	return query.NewPoller(o.cache, o.detailKey(id), query.OrderDetailInterval, func(ctx context.Context) (any, error) {
		var order model.Order
		if err := o.client.Get(ctx, fmt.Sprintf("/v1/orders/%d", id), nil, &order); err != nil {
			return nil, err
		}
		return &order, nil
	})
}
