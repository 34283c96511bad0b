package resources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aaleksaaleksic/food-ordering-system/internal/client/httpx"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/model"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/notify"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/query"
)

func TestOrderFilter_OmitsUnsetFields(t *testing.T) {
	v := OrderFilter{Statuses: []string{"PREPARING", "IN_DELIVERY"}}.values()
	require.Equal(t, []string{"PREPARING", "IN_DELIVERY"}, v["status"])
	require.NotContains(t, v, "dateFrom")
	require.NotContains(t, v, "dateTo")
	require.NotContains(t, v, "userId")

	require.Empty(t, OrderFilter{}.values())
}

func TestOrders_Search_SendsOnlySetFilters(t *testing.T) {
	var seen url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":5,"status":"PREPARING"}]`))
	}))
	t.Cleanup(srv.Close)

	orders := NewOrders(newAuthedClient(t, srv), query.NewCache(), nil)

	userID := int64(4)
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	got, err := orders.Search(context.Background(), OrderFilter{
		Statuses: []string{"PREPARING"},
		DateFrom: &from,
		UserID:   &userID,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, int64(5), got[0].ID)

	require.Equal(t, []string{"PREPARING"}, seen["status"])
	require.Equal(t, "2026-08-01T00:00:00Z", seen.Get("dateFrom"))
	require.Equal(t, "4", seen.Get("userId"))
	require.NotContains(t, seen, "dateTo")
}

func TestOrders_Search_DistinctFiltersCacheSeparately(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	orders := NewOrders(newAuthedClient(t, srv), query.NewCache(), nil)

	_, err := orders.Search(context.Background(), OrderFilter{})
	require.NoError(t, err)
	_, err = orders.Search(context.Background(), OrderFilter{Statuses: []string{"DELIVERED"}})
	require.NoError(t, err)
	_, err = orders.Search(context.Background(), OrderFilter{})
	require.NoError(t, err)
	require.Equal(t, 2, hits)
}

func TestOrders_Place_LimitExceededIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"code":"ORDER_LIMIT","message":"Maximum number of simultaneous orders (3) exceeded"}}`))
	}))
	t.Cleanup(srv.Close)

	relay := &recordingRelay{}
	orders := NewOrders(newAuthedClient(t, srv), query.NewCache(), relay)

	_, err := orders.Place(context.Background(), []model.OrderItemInput{{DishID: 1, Quantity: 2}})
	require.Error(t, err)

	apiErr, ok := httpx.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, "ORDER_LIMIT", apiErr.Code)

	require.Equal(t, []notify.Category{notify.CategoryOrderLimit}, relay.categories)
	require.Equal(t, []string{"Maximum number of simultaneous orders (3) exceeded"}, relay.messages)
}

func TestOrders_Schedule_PastTimeIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"code":"SCHEDULE_ERROR","message":"Cannot schedule order in the past"}}`))
	}))
	t.Cleanup(srv.Close)

	relay := &recordingRelay{}
	orders := NewOrders(newAuthedClient(t, srv), query.NewCache(), relay)

	_, err := orders.Schedule(context.Background(), []model.OrderItemInput{{DishID: 1, Quantity: 1}}, time.Now().Add(-time.Hour))
	require.Error(t, err)
	require.Equal(t, []notify.Category{notify.CategorySchedule}, relay.categories)
	require.Equal(t, []string{"Cannot schedule order in the past"}, relay.messages)
}

func TestOrders_Place_SuccessInvalidatesCachedSearches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":9,"status":"PREPARING"}`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	cache := query.NewCache()
	orders := NewOrders(newAuthedClient(t, srv), cache, nil)

	_, err := orders.Search(context.Background(), OrderFilter{})
	require.NoError(t, err)

	placed, err := orders.Place(context.Background(), []model.OrderItemInput{{DishID: 1, Quantity: 1}})
	require.NoError(t, err)
	require.Equal(t, int64(9), placed.ID)

	require.Equal(t, query.Stale, cache.State(query.Key{Resource: "orders"}))
}

func TestOrders_Track_ServedThroughCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":3,"status":"IN_DELIVERY"}`))
	}))
	t.Cleanup(srv.Close)

	orders := NewOrders(newAuthedClient(t, srv), query.NewCache(), nil)

	first, err := orders.Track(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, "IN_DELIVERY", first.Status)

	_, err = orders.Track(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, 1, hits)
}

func TestOrders_Cancel_NotFoundIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"order is not cancellable"}}`))
	}))
	t.Cleanup(srv.Close)

	relay := &recordingRelay{}
	orders := NewOrders(newAuthedClient(t, srv), query.NewCache(), relay)

	_, err := orders.Cancel(context.Background(), 12)
	require.Error(t, err)
	require.Equal(t, []notify.Category{notify.CategoryNotFound}, relay.categories)
	require.Equal(t, []string{"order is not cancellable"}, relay.messages)
}
