package resources

import (
	"context"
	"fmt"
	"net/url"

	"github.com/aaleksaaleksic/food-ordering-system/internal/client/httpx"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/model"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/query"
)

const resourceDishes = "dishes"

// Dishes is the menu resource client. Menu reads are cache-served; the menu
// changes rarely, so the default staleness window does the work.
type Dishes struct {
	client *httpx.Client
	cache  *query.Cache
}

// NewDishes builds the resource over a transport and cache.
func NewDishes(client *httpx.Client, cache *query.Cache) *Dishes {
	return &Dishes{client: client, cache: cache}
}

func (d *Dishes) list(ctx context.Context, params url.Values, path string) ([]model.Dish, error) {
	key := query.Key{Resource: resourceDishes, Params: path + "?" + params.Encode()}
	value, err := d.cache.ReadThrough(ctx, key, func(ctx context.Context) (any, error) {
		var dishes []model.Dish
		if err := d.client.Get(ctx, path, params, &dishes); err != nil {
			return nil, err
		}
		return dishes, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]model.Dish), nil
}

// Available returns the dishes currently orderable.
func (d *Dishes) Available(ctx context.Context) ([]model.Dish, error) {
	return d.list(ctx, url.Values{}, "/v1/dishes")
}

// All returns the whole menu including unavailable dishes.
func (d *Dishes) All(ctx context.Context) ([]model.Dish, error) {
	return d.list(ctx, url.Values{"all": {"true"}}, "/v1/dishes")
}

// ByID returns one dish.
func (d *Dishes) ByID(ctx context.Context, id int64) (*model.Dish, error) {
	var dish model.Dish
	if err := d.client.Get(ctx, fmt.Sprintf("/v1/dishes/%d", id), nil, &dish); err != nil {
		return nil, err
	}
	return &dish, nil
}

// ByCategory returns the available dishes of one category.
func (d *Dishes) ByCategory(ctx context.Context, category string) ([]model.Dish, error) {
	return d.list(ctx, url.Values{}, "/v1/dishes/category/"+url.PathEscape(category))
}

// Search returns dishes whose name matches.
func (d *Dishes) Search(ctx context.Context, name string) ([]model.Dish, error) {
	return d.list(ctx, url.Values{"name": {name}}, "/v1/dishes/search")
}

// Categories returns the distinct menu categories.
func (d *Dishes) Categories(ctx context.Context) ([]string, error) {
	key := query.Key{Resource: resourceDishes, Params: "categories"}
	value, err := d.cache.ReadThrough(ctx, key, func(ctx context.Context) (any, error) {
		var categories []string
		if err := d.client.Get(ctx, "/v1/dishes/categories", nil, &categories); err != nil {
			return nil, err
		}
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]string), nil
}
