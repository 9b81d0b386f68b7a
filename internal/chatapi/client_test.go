package chatapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"righthome-agent/internal/domain"
)

func TestNewClient_ValidatesEndpoint(t *testing.T) {
	_, err := NewClient("")
	require.Error(t, err)

	_, err = NewClient("   ")
	require.Error(t, err)

	c, err := NewClient("http://localhost:9999/chat")
	require.NoError(t, err)
	require.NotNil(t, c)
}

func TestSend_PostsHistoryAndDecodesReply(t *testing.T) {
	var gotBody chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"Chatbot":"Hi, looking to buy or rent?","Options":["Buy","Rent"]}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	history := []domain.ChatMessage{
		{Role: domain.RoleAssistant, Content: "Hi"},
		{Role: domain.RoleUser, Content: "Buy"},
	}
	reply, err := c.Send(context.Background(), history)
	require.NoError(t, err)
	require.Equal(t, history, gotBody.ChatHistory)
	require.Equal(t, "Hi, looking to buy or rent?", reply.Chatbot)
	require.NotEmpty(t, reply.Raw())
}

func TestSend_EmptyHistoryMarshalsAsEmptyList(t *testing.T) {
	var rawBody map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rawBody))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.Send(context.Background(), nil)
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(rawBody["chat_history"]))
}

func TestSend_NonSuccessStatusReturnsHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.Send(context.Background(), nil)
	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusBadGateway, statusErr.HTTPStatusCode())
	require.Contains(t, statusErr.Body, "upstream exploded")
}

func TestSend_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.Send(context.Background(), nil)
	require.Error(t, err)
	var statusErr *HTTPStatusError
	require.False(t, errors.As(err, &statusErr))
}

func TestSend_MalformedResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not-json`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.Send(context.Background(), nil)
	require.Error(t, err)
}
