package fitbit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weightBody = `{"weight":[{"bmi":22.5,"date":"2024-05-01","fat":18.25,"logId":1714550400000,"source":"Aria","time":"07:10:00","weight":70.4}]}`

func newTestClient(t *testing.T, handler http.Handler, token Token) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), ".token")
	b, err := json.Marshal(token)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))

	c := NewClient("id", "secret", path)
	c.APIBase = srv.URL
	c.HTTPClient = srv.Client()
	return c
}

func TestWeights(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/1/user/-/body/log/weight/date/2024-05-01.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(weightBody))
	})
	c := newTestClient(t, mux, Token{AccessToken: "access", RefreshToken: "refresh"})

	got, err := c.Weights(context.Background(), time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Weight{
		BMI:    22.5,
		Date:   "2024-05-01",
		Fat:    18.25,
		LogID:  1714550400000,
		Source: "Aria",
		Time:   "07:10:00",
		Weight: 70.4,
	}, got[0])
}

func TestWeightsRefreshesExpiredToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/1/user/-/body/log/weight/date/2024-05-01.json", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			http.Error(w, `{"errors":[{"errorType":"expired_token"}]}`, http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(weightBody))
	})
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "stale-refresh", r.PostForm.Get("refresh_token"))
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "id", user)
		assert.Equal(t, "secret", pass)
		_, _ = w.Write([]byte(`{"access_token":"fresh","refresh_token":"next","expires_in":28800}`))
	})
	c := newTestClient(t, mux, Token{AccessToken: "stale", RefreshToken: "stale-refresh"})

	got, err := c.Weights(context.Background(), time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 1)

	b, err := os.ReadFile(c.TokenFile)
	require.NoError(t, err)
	var saved Token
	require.NoError(t, json.Unmarshal(b, &saved))
	assert.Equal(t, "fresh", saved.AccessToken)
	assert.Equal(t, "next", saved.RefreshToken)
}

func TestWeightsErrorStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/1/user/-/body/log/weight/date/2024-05-01.json", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"again","refresh_token":"r"}`))
	})
	c := newTestClient(t, mux, Token{AccessToken: "a", RefreshToken: "r"})

	_, err := c.Weights(context.Background(), time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestWeightsAuthorizationStopsOnCancel(t *testing.T) {
	c := NewClient("id", "secret", filepath.Join(t.TempDir(), ".token"))
	c.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		_, err := c.Weights(ctx, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
		errc <- err
	}()

	select {
	case err := <-errc:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(5 * time.Second):
		t.Fatal("authorization server kept running after the context ended")
	}
}
