package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ogulcanaydogan/aws-cost-reporter/pkg/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackNotifier_Name(t *testing.T) {
	n := notify.NewSlackNotifier("https://hooks.slack.com/test", time.Second)
	assert.Equal(t, "slack", n.Name())
}

func TestSlackNotifier_Send(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, http.MethodPost, r.Method)

		err := json.NewDecoder(r.Body).Decode(&received)
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := notify.NewSlackNotifier(server.URL, 5*time.Second)

	err := n.Send(context.Background(), "*AWS Cost Report*\n💰 *Total Cost:* $35.75")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"text": "*AWS Cost Report*\n💰 *Total Cost:* $35.75"}, received)
}

func TestSlackNotifier_Send_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("server error"))
	}))
	defer server.Close()

	n := notify.NewSlackNotifier(server.URL, 5*time.Second)
	err := n.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "server error")

	var statusErr *notify.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "server error", statusErr.Body)
	assert.Equal(t, "slack", statusErr.Notifier)
}

func TestSlackNotifier_Send_NonOKSuccessStatus(t *testing.T) {
	// Slack webhooks answer 200; anything else is a failure, including other 2xx codes.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	n := notify.NewSlackNotifier(server.URL, 5*time.Second)
	err := n.Send(context.Background(), "hello")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 202")
}

func TestSlackNotifier_Send_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := server.URL
	server.Close()

	n := notify.NewSlackNotifier(url, time.Second)
	err := n.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send slack message")
}
