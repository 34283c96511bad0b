package resources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aaleksaaleksic/food-ordering-system/internal/client/query"
)

func TestErrors_ListPicksEndpointByAdminStatus(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"id":1,"operation":"PLACE_ORDER","message":"Maximum number of simultaneous orders (3) exceeded"}],` +
			`"totalElements":1,"totalPages":1,"size":10,"number":0,"first":true,"last":true}`))
	}))
	t.Cleanup(srv.Close)

	errs := NewErrors(newAuthedClient(t, srv), query.NewCache())

	page, err := errs.List(context.Background(), false, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	require.Equal(t, "PLACE_ORDER", page.Content[0].Operation)
	require.True(t, page.First)
	require.True(t, page.Last)

	_, err = errs.List(context.Background(), true, 0, 10)
	require.NoError(t, err)

	require.Equal(t, []string{"/v1/errors/history", "/v1/errors"}, paths)
}

func TestErrors_PagesCacheIndependently(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[],"totalElements":0,"totalPages":0,"size":10,"number":0,"first":true,"last":true}`))
	}))
	t.Cleanup(srv.Close)

	errs := NewErrors(newAuthedClient(t, srv), query.NewCache())

	_, err := errs.History(context.Background(), 0, 10)
	require.NoError(t, err)
	_, err = errs.History(context.Background(), 1, 10)
	require.NoError(t, err)
	_, err = errs.History(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Equal(t, 2, hits)
}

func TestErrors_ByOperation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/errors/operation/SCHEDULE_ORDER", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":2,"operation":"SCHEDULE_ORDER","message":"Cannot schedule order in the past"}]`))
	}))
	t.Cleanup(srv.Close)

	errs := NewErrors(newAuthedClient(t, srv), query.NewCache())

	records, err := errs.ByOperation(context.Background(), "SCHEDULE_ORDER")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "SCHEDULE_ORDER", records[0].Operation)
}

func TestErrors_ByTimeRange(t *testing.T) {
	from := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/errors/timerange", r.URL.Path)
		require.Equal(t, "2026-08-29T10:00:00Z", r.URL.Query().Get("from"))
		require.Equal(t, "2026-08-29T12:00:00Z", r.URL.Query().Get("to"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":3,"operation":"PLACE_ORDER","message":"Maximum number of simultaneous orders (3) exceeded"}]`))
	}))
	t.Cleanup(srv.Close)

	errs := NewErrors(newAuthedClient(t, srv), query.NewCache())

	records, err := errs.ByTimeRange(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "PLACE_ORDER", records[0].Operation)
}

func TestErrors_CleanupInvalidatesCachedListings(t *testing.T) {
	historyHits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/errors/history":
			historyHits++
			_, _ = w.Write([]byte(`{"content":[],"totalElements":0,"totalPages":0,"size":10,"number":0,"first":true,"last":true}`))
		case "/v1/errors/cleanup":
			require.Equal(t, http.MethodDelete, r.Method)
			require.Equal(t, "2026-08-22T00:00:00Z", r.URL.Query().Get("olderThan"))
			_, _ = w.Write([]byte(`{"deletedCount":5,"message":"Deleted 5 error records older than 2026-08-22T00:00:00Z"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	t.Cleanup(srv.Close)

	errs := NewErrors(newAuthedClient(t, srv), query.NewCache())

	_, err := errs.History(context.Background(), 0, 10)
	require.NoError(t, err)
	_, err = errs.History(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Equal(t, 1, historyHits)

	result, err := errs.Cleanup(context.Background(), time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, int64(5), result.DeletedCount)

	_, err = errs.History(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Equal(t, 2, historyHits)
}

func TestErrors_Count(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/errors/count", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":4}`))
	}))
	t.Cleanup(srv.Close)

	errs := NewErrors(newAuthedClient(t, srv), query.NewCache())

	count, err := errs.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(4), count)
}
