package assistant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClient_MessagesSendsVersionedRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "key-1", r.Header.Get("x-api-key"))
		require.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req map[string]any
		require.NoError(t, json.Unmarshal(raw, &req))
		require.Equal(t, "test-model", req["model"])
		require.Equal(t, float64(2048), req["max_tokens"])
		require.NotEmpty(t, req["system"])
		require.Len(t, req["tools"], 2)

		w.Write([]byte(`{"content":[{"type":"text","text":"Hello!"}],"stop_reason":"end_turn"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key-1", "test-model")
	resp, err := client.Messages(context.Background(), "system prompt", []Message{{Role: "user", Content: "hi"}}, ChatTools)
	require.NoError(t, err)
	require.Equal(t, "end_turn", resp.StopReason)
	require.Len(t, resp.Content, 1)
	require.Equal(t, "Hello!", resp.Content[0].Text)
}

func TestClient_MessagesDecodesToolUse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[
			{"type":"tool_use","id":"tu-1","name":"get_offers","input":{"propertyId":"GBAL"}}
		],"stop_reason":"tool_use"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key-1", "test-model")
	resp, err := client.Messages(context.Background(), "", nil, nil)
	require.NoError(t, err)
	require.Equal(t, StopReasonToolUse, resp.StopReason)
	require.Equal(t, "tu-1", resp.Content[0].ID)
	require.Equal(t, "get_offers", resp.Content[0].Name)
	require.JSONEq(t, `{"propertyId":"GBAL"}`, string(resp.Content[0].Input))
}

func TestClient_MissingKeyFailsFast(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()

	client := NewClient(srv.URL, "", "test-model")
	_, err := client.Messages(context.Background(), "", nil, nil)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	require.Contains(t, provErr.Body, "not configured")
	require.Zero(t, calls)
}

func TestClient_ProviderErrorCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"type":"rate_limit_error"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key-1", "test-model")
	_, err := client.Messages(context.Background(), "", nil, nil)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	require.Equal(t, http.StatusTooManyRequests, provErr.Status)
	require.Contains(t, provErr.Body, "rate_limit_error")
}
