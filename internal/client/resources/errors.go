package resources

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/aaleksaaleksic/food-ordering-system/internal/client/httpx"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/model"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/query"
)

const resourceErrors = "errors"

// Errors is the failure-log resource client. Listings are paginated; the
// client tracks only the page it asked for and trusts the server's page
// metadata.
type Errors struct {
	client *httpx.Client
	cache  *query.Cache
}

// NewErrors builds the resource over a transport and cache.
func NewErrors(client *httpx.Client, cache *query.Cache) *Errors {
	return &Errors{client: client, cache: cache}
}

func (e *Errors) page(ctx context.Context, path string, pageNum, size int) (*model.Page[model.ErrorRecord], error) {
	params := url.Values{
		"page": {strconv.Itoa(pageNum)},
		"size": {strconv.Itoa(size)},
	}
	key := query.Key{Resource: resourceErrors, Params: path + "?" + params.Encode()}
	value, err := e.cache.ReadThrough(ctx, key, func(ctx context.Context) (any, error) {
		var page model.Page[model.ErrorRecord]
		if err := e.client.Get(ctx, path, params, &page); err != nil {
			return nil, err
		}
		return &page, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*model.Page[model.ErrorRecord]), nil
}

// History returns one page of the caller's own failures.
func (e *Errors) History(ctx context.Context, pageNum, size int) (*model.Page[model.ErrorRecord], error) {
	return e.page(ctx, "/v1/errors/history", pageNum, size)
}

// All returns one page of every user's failures; the server admits
// administrators only.
func (e *Errors) All(ctx context.Context, pageNum, size int) (*model.Page[model.ErrorRecord], error) {
	return e.page(ctx, "/v1/errors", pageNum, size)
}

// List picks the privileged or caller-scoped listing based on the caller's
// admin status.
func (e *Errors) List(ctx context.Context, isAdmin bool, pageNum, size int) (*model.Page[model.ErrorRecord], error) {
	if isAdmin {
		return e.All(ctx, pageNum, size)
	}
	return e.History(ctx, pageNum, size)
}

// ByOperation returns every failure recorded for one operation.
func (e *Errors) ByOperation(ctx context.Context, operation string) ([]model.ErrorRecord, error) {
	var records []model.ErrorRecord
	if err := e.client.Get(ctx, "/v1/errors/operation/"+url.PathEscape(operation), nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ByTimeRange returns every failure recorded inside the window.
func (e *Errors) ByTimeRange(ctx context.Context, from, to time.Time) ([]model.ErrorRecord, error) {
	params := url.Values{
		"from": {from.Format(time.RFC3339)},
		"to":   {to.Format(time.RFC3339)},
	}
	var records []model.ErrorRecord
	if err := e.client.Get(ctx, "/v1/errors/timerange", params, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Cleanup purges records older than the cutoff and invalidates cached
// listings so the next read reflects the purge.
func (e *Errors) Cleanup(ctx context.Context, olderThan time.Time) (*model.CleanupResult, error) {
	params := url.Values{"olderThan": {olderThan.Format(time.RFC3339)}}
	var result model.CleanupResult
	if err := e.client.DeleteWithQuery(ctx, "/v1/errors/cleanup", params, &result); err != nil {
		return nil, err
	}
	e.cache.Invalidate(resourceErrors)
	return &result, nil
}

// Count returns how many failures the caller has accumulated.
func (e *Errors) Count(ctx context.Context) (int64, error) {
	var out struct {
		Count int64 `json:"count"`
	}
	if err := e.client.Get(ctx, "/v1/errors/count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
