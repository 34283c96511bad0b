package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aaleksaaleksic/food-ordering-system/internal/client/session"
)

func TestDo_AttachesBearerWhenTokenPresent(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	tokens := session.NewMemStore()
	require.NoError(t, tokens.SetToken("tok123"))

	client := New(srv.URL, tokens)
	var out map[string]any
	require.NoError(t, client.Get(context.Background(), "/v1/auth/me", nil, &out))
	require.Equal(t, "Bearer tok123", gotAuth)
}

func TestDo_AnonymousWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL, session.NewMemStore())
	var out map[string]any
	require.NoError(t, client.Get(context.Background(), "/v1/dishes", nil, &out))
	require.Empty(t, gotAuth)
}

func TestDo_EncodesQueryParameters(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL, session.NewMemStore())
	params := url.Values{}
	params.Add("status", "ORDERED")
	params.Add("status", "PREPARING")

	var out []any
	require.NoError(t, client.Get(context.Background(), "/v1/orders", params, &out))
	require.Equal(t, []string{"ORDERED", "PREPARING"}, gotQuery["status"])
}

func TestDo_DecodesErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"code":"ORDER_LIMIT","message":"Maximum number of simultaneous orders (3) exceeded","details":{"max":3}}}`))
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL, session.NewMemStore())
	err := client.Post(context.Background(), "/v1/orders", map[string]any{}, nil)
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, 422, apiErr.Status)
	require.Equal(t, "ORDER_LIMIT", apiErr.Code)
	require.Equal(t, "Maximum number of simultaneous orders (3) exceeded", apiErr.Message)
}

func TestDo_UnparseableErrorBodyKeepsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream exploded`))
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL, session.NewMemStore())
	err := client.Get(context.Background(), "/v1/orders", nil, nil)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
	require.NotEmpty(t, apiErr.Message)
}

func TestDo_NetworkErrorIsNotAPIError(t *testing.T) {
	client := New("http://127.0.0.1:1", session.NewMemStore())
	err := client.Get(context.Background(), "/v1/orders", nil, nil)
	require.Error(t, err)

	_, ok := AsAPIError(err)
	require.False(t, ok)
}
