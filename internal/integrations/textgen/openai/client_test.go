package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestClient_Complete_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer k", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "gpt-4o", req.Model)
		require.Equal(t, 0.2, req.Temperature)
		require.Equal(t, 1000, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		require.Equal(t, "system", req.Messages[0].Role)
		require.Equal(t, "sys", req.Messages[0].Content)
		require.Equal(t, "user", req.Messages[1].Role)
		require.Equal(t, "brief", req.Messages[1].Content)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Hola, Ana.  "}}]}`))
	}))
	defer srv.Close()

	text, err := New(srv.URL, "k", 0, DefaultOptions()).Complete(context.Background(), "sys", "brief")
	require.NoError(t, err)
	require.Equal(t, "Hola, Ana.", text)
}

func TestClient_Complete_Quota(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota","type":"insufficient_quota","code":"insufficient_quota"}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "k", 0, DefaultOptions()).Complete(context.Background(), "s", "u")
	require.Error(t, err)
}

func TestClient_Complete_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "k", 0, DefaultOptions()).Complete(context.Background(), "s", "u")
	require.True(t, errors.Is(err, ErrEmptyResponse))
}

func TestClient_Complete_Malformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "k", 0, DefaultOptions()).Complete(context.Background(), "s", "u")
	require.Error(t, err)
}

func TestClient_Complete_NoKey(t *testing.T) {
	_, err := New("http://127.0.0.1:1", "", 0, DefaultOptions()).Complete(context.Background(), "s", "u")
	require.True(t, errors.Is(err, ErrNotConfigured))
}
